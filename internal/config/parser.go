package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ZebulonRouseFrantzich/brewform/internal/platform"
	lua "github.com/yuin/gopher-lua"
)

// Parser evaluates Lua config files.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a parser. A nil detector leaves the platform table
// out of the VM.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// ParseString parses a Lua config from a string.
func (p *Parser) ParseString(ctx context.Context, luaCode string) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	return extractConfig(L)
}

// Loaded is the outcome of Load. Found is false when an optional file
// was absent; Findings lists credentials spotted in the file.
type Loaded struct {
	Config   *Config
	Found    bool
	Findings []SensitiveDataFinding
}

// Load parses path when it exists. A missing file is not an error unless
// required is set, and yields an empty Config.
func Load(ctx context.Context, parser *Parser, path string, required bool) (*Loaded, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return &Loaded{Config: &Config{}}, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := parser.ParseString(ctx, string(code))
	if err != nil {
		return nil, err
	}
	return &Loaded{
		Config:   cfg,
		Found:    true,
		Findings: DetectSensitiveData(string(code)),
	}, nil
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig reads the global "brewform" table.
func extractConfig(L *lua.LState) (*Config, error) {
	value := L.GetGlobal("brewform")
	table, ok := value.(*lua.LTable)
	if !ok {
		return nil, &ParseError{
			Message: "missing or invalid 'brewform' table",
			Detail:  fmt.Sprintf("expected table, got %s", value.Type()),
		}
	}

	config := &Config{}
	var err error

	if config.Strategy, err = stringField(table, "strategy"); err != nil {
		return nil, err
	}
	if config.DistDir, err = stringField(table, "dist_dir"); err != nil {
		return nil, err
	}
	if config.OutputDir, err = stringField(table, "output_dir"); err != nil {
		return nil, err
	}
	if config.Repository, err = stringField(table, "repository"); err != nil {
		return nil, err
	}

	switch v := table.RawGetString("local_only").(type) {
	case *lua.LNilType:
	case lua.LBool:
		b := bool(v)
		config.LocalOnly = &b
	default:
		return nil, fieldError("local_only", "boolean", v)
	}

	switch v := table.RawGetString("aliases").(type) {
	case *lua.LNilType:
	case *lua.LTable:
		if config.Aliases, err = extractAliases(v); err != nil {
			return nil, err
		}
	default:
		return nil, fieldError("aliases", "table", v)
	}

	if err := config.Validate(); err != nil {
		return nil, &ParseError{
			Message: "config validation failed",
			Detail:  err.Error(),
		}
	}

	return config, nil
}

func stringField(table *lua.LTable, key string) (string, error) {
	switch v := table.RawGetString(key).(type) {
	case *lua.LNilType:
		return "", nil
	case lua.LString:
		return string(v), nil
	default:
		return "", fieldError(key, "string", v)
	}
}

// extractAliases reads { [triple] = { [binary] = { "alias", ... } } }.
// A single alias may be given as a plain string.
func extractAliases(table *lua.LTable) (map[string]map[string][]string, error) {
	aliases := make(map[string]map[string][]string)
	var err error

	table.ForEach(func(key, value lua.LValue) {
		if err != nil {
			return
		}
		triple, ok := key.(lua.LString)
		if !ok {
			err = fieldError("aliases key", "string", key)
			return
		}
		sources, ok := value.(*lua.LTable)
		if !ok {
			err = fieldError("aliases."+string(triple), "table", value)
			return
		}

		entry := make(map[string][]string)
		sources.ForEach(func(key, value lua.LValue) {
			if err != nil {
				return
			}
			source, ok := key.(lua.LString)
			if !ok {
				err = fieldError("aliases."+string(triple)+" key", "string", key)
				return
			}
			var dests []string
			dests, err = stringList(value, "aliases."+string(triple)+"."+string(source))
			entry[string(source)] = dests
		})
		aliases[string(triple)] = entry
	})

	if err != nil {
		return nil, err
	}
	return aliases, nil
}

func stringList(value lua.LValue, field string) ([]string, error) {
	switch v := value.(type) {
	case lua.LString:
		return []string{string(v)}, nil
	case *lua.LTable:
		var list []string
		var err error
		for i := 1; i <= v.Len(); i++ {
			item, ok := v.RawGetInt(i).(lua.LString)
			if !ok {
				err = fieldError(fmt.Sprintf("%s[%d]", field, i), "string", v.RawGetInt(i))
				break
			}
			list = append(list, string(item))
		}
		return list, err
	default:
		return nil, fieldError(field, "string or list of strings", value)
	}
}

func fieldError(field, want string, got lua.LValue) *ParseError {
	return &ParseError{
		Message: "invalid config value",
		Detail:  fmt.Sprintf("brewform.%s: expected %s, got %s", field, want, got.Type()),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
