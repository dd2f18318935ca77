package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/queryc/queryc/internal/compiler"
	"github.com/queryc/queryc/internal/indexing"
	"github.com/queryc/queryc/internal/rewrite"
)

// RewriteOptions holds flags for the rewrite command.
type RewriteOptions struct {
	*RootOptions
	Output     string // output file path
	Candidates string // index-candidate report file path
}

// RewriteResult is the rewrite command's JSON payload.
type RewriteResult struct {
	Program    json.RawMessage           `json:"program"`
	Candidates []indexing.IndexCandidate `json:"candidates"`
	Errors     []CLIError                `json:"errors,omitempty"`
}

// NewRewriteCommand creates the rewrite command.
func NewRewriteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RewriteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "rewrite <unit.json>",
		Short: "Rewrite filter call sites to runtime query primitives",
		Long: `Rewrite a compilation unit's filter call sites into internal runtime
primitives carrying the pushable predicate in serialized form.

The unit is the parsed syntax tree of one source file, in JSON. Call
sites that cannot be transformed are left unchanged; malformed call
sites produce errors but do not stop the rest of the unit.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRewrite(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Candidates, "candidates", "", "write index candidates to this file")

	return cmd
}

func runRewrite(opts *RewriteOptions, unitPath string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	syms, err := LoadSymbols(opts.RootOptions)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Registered %d entity type(s)", syms.Len())

	prog, err := LoadUnit(unitPath)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	formatter.VerboseLog("Loaded unit %s (%d top-level statement(s))", prog.File, len(prog.Body))

	r := rewrite.New(syms)
	rewritten := r.Rewrite(prog)
	siteErrs := collectSiteErrors(r.Err())

	encoded, err := json.MarshalIndent(rewritten, "", "  ")
	if err != nil {
		return outputLoadError(formatter, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("encoding rewritten unit: %v", err)})
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, append(encoded, '\n'), 0644); err != nil {
			return outputLoadError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: fmt.Sprintf("writing %s: %v", opts.Output, err)})
		}
	}
	if opts.Candidates != "" {
		if err := writeCandidates(r.Candidates(), opts.Candidates); err != nil {
			return outputLoadError(formatter, &LoadError{Code: ErrCodeWriteFailed, Message: err.Error()})
		}
	}

	if formatter.Format == "json" {
		result := &RewriteResult{
			Program:    encoded,
			Candidates: r.Candidates(),
			Errors:     siteErrs,
		}
		if len(siteErrs) > 0 {
			resp := CLIResponse{Status: "error", Data: result, Error: &siteErrs[0]}
			if err := json.NewEncoder(formatter.Writer).Encode(resp); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("rewrite finished with %d error(s)", len(siteErrs)))
		}
		return formatter.Success(result)
	}

	// Text mode: the rewritten unit goes to the output file or stdout,
	// diagnostics go to stderr.
	if opts.Output == "" {
		fmt.Fprintln(formatter.Writer, string(encoded))
	} else {
		fmt.Fprintf(formatter.Writer, "Wrote rewritten unit to %s\n", opts.Output)
	}
	for _, ce := range siteErrs {
		fmt.Fprintf(formatter.ErrWriter, "%s: %s\n", ce.Code, ce.Message)
	}
	if len(siteErrs) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("rewrite finished with %d error(s)", len(siteErrs)))
	}
	return nil
}

// collectSiteErrors flattens the rewriter's aggregated error into CLI
// error entries, preserving per-call-site codes and positions.
func collectSiteErrors(err error) []CLIError {
	if err == nil {
		return nil
	}

	var flat []error
	var merr *multierror.Error
	if errors.As(err, &merr) {
		flat = merr.Errors
	} else {
		flat = []error{err}
	}

	out := make([]CLIError, 0, len(flat))
	for _, e := range flat {
		if ce, ok := compiler.AsCompileError(e); ok {
			out = append(out, CLIError{Code: ce.Code, Message: ce.Error()})
			continue
		}
		out = append(out, CLIError{Code: ErrCodeGeneric, Message: e.Error()})
	}
	return out
}

func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return NewExitError(ExitCommandError, loadErr.Error())
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return NewExitError(ExitCommandError, err.Error())
}

func writeCandidates(candidates []indexing.IndexCandidate, path string) error {
	if candidates == nil {
		candidates = []indexing.IndexCandidate{}
	}
	data, err := json.MarshalIndent(candidates, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding candidates: %v", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %v", path, err)
	}
	return nil
}
