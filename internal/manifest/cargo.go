package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

const manifestName = "Cargo.toml"

// cargoDocument is the subset of Cargo.toml brewform reads. Package
// values stay untyped because any of them may be { workspace = true }.
type cargoDocument struct {
	Package   map[string]any `toml:"package"`
	Bin       []cargoBin     `toml:"bin"`
	Workspace *struct {
		Package map[string]any `toml:"package"`
	} `toml:"workspace"`
}

type cargoBin struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

// packageFields reads string fields from [package], resolving workspace
// inheritance on first use. The first failure sticks in err.
type packageFields struct {
	raw          map[string]any
	manifestPath string

	workspace map[string]any
	loaded    bool
	err       error
}

func (f *packageFields) get(key string) string {
	if f.err != nil {
		return ""
	}

	switch v := f.raw[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]any:
		if inherit, _ := v["workspace"].(bool); !inherit {
			f.err = fmt.Errorf("package.%s: unsupported table value", key)
			return ""
		}
		return f.inherited(key)
	default:
		f.err = fmt.Errorf("package.%s: expected a string, got %T", key, v)
		return ""
	}
}

func (f *packageFields) inherited(key string) string {
	if !f.loaded {
		f.loaded = true
		f.workspace, f.err = findWorkspacePackage(f.manifestPath)
		if f.err != nil {
			return ""
		}
	}

	v, ok := f.workspace[key]
	if !ok {
		f.err = fmt.Errorf("package.%s inherits from the workspace, but [workspace.package] does not set it", key)
		return ""
	}
	s, ok := v.(string)
	if !ok {
		f.err = fmt.Errorf("workspace.package.%s: expected a string, got %T", key, v)
		return ""
	}
	return s
}

// findWorkspacePackage walks up from the manifest's directory looking for
// a Cargo.toml with a [workspace] table. The member's own manifest counts
// when it is also the workspace root.
func findWorkspacePackage(manifestPath string) (map[string]any, error) {
	dir := filepath.Dir(manifestPath)
	for {
		candidate := filepath.Join(dir, manifestName)
		data, err := os.ReadFile(candidate)
		if err == nil {
			var doc cargoDocument
			if err := toml.Unmarshal(data, &doc); err != nil {
				return nil, fmt.Errorf("parse %s: %w", candidate, err)
			}
			if doc.Workspace != nil {
				return doc.Workspace.Package, nil
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", candidate, err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no workspace root found above %s", manifestPath)
		}
		dir = parent
	}
}
