package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/queryc/queryc/internal/indexing"
	"github.com/queryc/queryc/internal/rewrite"
)

// ReportOptions holds flags for the report command.
type ReportOptions struct {
	*RootOptions
}

// UnitReport is one unit's index-candidate report.
type UnitReport struct {
	File       string                    `json:"file"`
	Candidates []indexing.IndexCandidate `json:"candidates"`
}

// ReportResult is the report command's JSON payload.
type ReportResult struct {
	Reports []UnitReport `json:"reports"`
	Errors  []CLIError   `json:"errors,omitempty"`
}

// NewReportCommand creates the report command.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "report <unit.json> [unit.json...]",
		Short: "Report index candidates for compilation units",
		Long: `Analyze filter call sites and report, per unit, which entity
properties appear in pushable comparisons. The report is advisory:
it suggests where an index could help, nothing more.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(opts, args, cmd)
		},
	}

	return cmd
}

func runReport(opts *ReportOptions, unitPaths []string, cmd *cobra.Command) error {
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

	reports := make([]UnitReport, 0, len(unitPaths))
	var siteErrs []CLIError
	for _, path := range unitPaths {
		prog, err := LoadUnit(path)
		if err != nil {
			return outputLoadError(formatter, err)
		}

		// Candidate extraction shares the rewrite walk; the transformed
		// tree is simply discarded.
		r := rewrite.New(syms)
		r.Rewrite(prog)
		siteErrs = append(siteErrs, collectSiteErrors(r.Err())...)

		candidates := r.Candidates()
		if candidates == nil {
			candidates = []indexing.IndexCandidate{}
		}
		reports = append(reports, UnitReport{File: prog.File, Candidates: candidates})
	}

	if formatter.Format == "json" {
		result := &ReportResult{Reports: reports, Errors: siteErrs}
		if len(siteErrs) > 0 {
			resp := CLIResponse{Status: "error", Data: result, Error: &siteErrs[0]}
			if err := json.NewEncoder(formatter.Writer).Encode(resp); err != nil {
				return err
			}
			return NewExitError(ExitFailure, fmt.Sprintf("report finished with %d error(s)", len(siteErrs)))
		}
		return formatter.Success(result)
	}

	outputReportText(formatter, reports)
	for _, ce := range siteErrs {
		fmt.Fprintf(formatter.ErrWriter, "%s: %s\n", ce.Code, ce.Message)
	}
	if len(siteErrs) > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("report finished with %d error(s)", len(siteErrs)))
	}
	return nil
}

func outputReportText(formatter *OutputFormatter, reports []UnitReport) {
	for _, report := range reports {
		fmt.Fprintf(formatter.Writer, "%s:\n", report.File)
		if len(report.Candidates) == 0 {
			fmt.Fprintln(formatter.Writer, "  no index candidates")
			continue
		}
		for _, c := range report.Candidates {
			fmt.Fprintf(formatter.Writer, "  %s(%s)\n", c.EntityType, strings.Join(c.Properties, ", "))
		}
	}
}
