package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFile reads message overrides from a TOML, YAML or JSON file chosen by
// extension. The file is either a flat rule = "template" mapping or holds
// that mapping under a "messages" key.
func LoadFile(path string) (map[string]string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read message file %s: %w", path, err)
	}
	raw := map[string]any{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if err := toml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parse TOML message file %s: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parse YAML message file %s: %w", path, err)
		}
	case ".json":
		if err := j.Unmarshal(content, &raw); err != nil {
			return nil, fmt.Errorf("parse JSON message file %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported message file extension %q", ext)
	}
	if nested, ok := raw["messages"].(map[string]any); ok {
		raw = nested
	}
	out := make(map[string]string, len(raw))
	for k, v := range raw {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("message file %s: value for %q is %T, want string", path, k, v)
		}
		out[k] = s
	}
	return out, nil
}
