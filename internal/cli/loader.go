package cli

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/queryc/queryc/internal/ast"
	"github.com/queryc/queryc/internal/compiler"
	"github.com/queryc/queryc/internal/model"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeNotFound    = "E002" // Path not found
	ErrCodeParseFailed = "E003" // Unit JSON parse failed
	ErrCodeModelFailed = "E004" // Entity model load failed
	ErrCodeNoEntities  = "E005" // No entity types configured
	ErrCodeWriteFailed = "E006" // File write error
	ErrCodeConfig      = "E007" // Project config error
)

// LoadError represents an error that occurred while loading inputs.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// configFileName is the default project config, discovered in the
// working directory when --config is not given.
const configFileName = ".queryc.yaml"

// Config is the optional project configuration.
type Config struct {
	// Model is the entity model file path (CUE).
	Model string `yaml:"model"`
	// Entities lists entity type names declared directly in the config.
	Entities []string `yaml:"entities"`
}

// LoadConfig reads the project config. An explicit path must exist; the
// default path is optional and its absence yields an empty config.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = configFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) && !explicit {
		return &Config{}, nil
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("reading config %s: %v", path, err)}
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &LoadError{Code: ErrCodeConfig, Message: fmt.Sprintf("parsing config %s: %v", path, err)}
	}
	return cfg, nil
}

// LoadSymbols builds the compiler symbol table from the project config,
// the entity model file, and --entities flags, in that order. At least
// one entity type must come out of the combination.
func LoadSymbols(opts *RootOptions) (*compiler.Symbols, error) {
	cfg, err := LoadConfig(opts.Config)
	if err != nil {
		return nil, err
	}

	modelPath := cfg.Model
	if opts.Model != "" {
		modelPath = opts.Model
	}

	syms := compiler.NewSymbols()
	for _, name := range cfg.Entities {
		syms.RegisterEntity(name)
	}
	if modelPath != "" {
		m, err := model.Load(modelPath)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeModelFailed, Message: err.Error()}
		}
		for _, name := range m.EntityNames() {
			syms.RegisterEntity(name)
		}
	}
	for _, name := range opts.Entities {
		syms.RegisterEntity(name)
	}

	if syms.Len() == 0 {
		return nil, &LoadError{
			Code:    ErrCodeNoEntities,
			Message: "no entity types configured (use --model, --entities or " + configFileName + ")",
		}
	}
	return syms, nil
}

// LoadUnit reads and decodes one compilation unit from its JSON form.
func LoadUnit(path string) (*ast.Program, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("unit not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading unit %s: %v", path, err)}
	}

	prog, err := ast.DecodeProgram(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: fmt.Sprintf("parsing unit %s: %v", path, err)}
	}
	if prog.File == "" {
		prog.File = path
	}
	return prog, nil
}
