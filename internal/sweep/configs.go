// Package sweep runs many simulations with different parameter overrides.
package sweep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rxtech-lab/argo-sweep/internal/types"
	"github.com/rxtech-lab/argo-sweep/pkg/errors"
	"gopkg.in/yaml.v3"
)

// LoadConfigs reads a JSON (or YAML) list of flat key/value objects. Values
// are kept in their textual form, so 10 stays "10" and 0.5 stays "0.5".
func LoadConfigs(path string) ([]types.SweepConfig, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSweepConfigError, err, "failed to read sweep configs %s", path)
	}

	var raw []map[string]yaml.Node
	if err := yaml.Unmarshal(content, &raw); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeSweepConfigError, err, "failed to parse sweep configs %s", path)
	}

	if len(raw) == 0 {
		return nil, errors.Newf(errors.ErrCodeSweepConfigError, "no sweep configs in %s", path)
	}

	configs := make([]types.SweepConfig, 0, len(raw))

	for i, entry := range raw {
		overrides := make(map[string]string, len(entry))

		for key, node := range entry {
			if node.Kind != yaml.ScalarNode {
				return nil, errors.Newf(errors.ErrCodeSweepConfigError, "config %d: value of %s is not a scalar", i+1, key)
			}

			overrides[key] = node.Value
		}

		configs = append(configs, types.SweepConfig{
			Index:     i,
			Overrides: overrides,
		})
	}

	return configs, nil
}

// Axis is one swept parameter and its candidate values.
type Axis struct {
	Key    string
	Values []any
}

// ParseAxis reads "key=v1,v2" or "key(v1,v2)". Values containing a dot are
// floats, the others integers.
func ParseAxis(arg string) (Axis, error) {
	var key, list string

	switch {
	case strings.Contains(arg, "="):
		key, list, _ = strings.Cut(arg, "=")
	case strings.Contains(arg, "(") && strings.HasSuffix(arg, ")"):
		key, list, _ = strings.Cut(arg, "(")
		list = strings.TrimSuffix(list, ")")
	default:
		return Axis{}, errors.Newf(errors.ErrCodeSweepConfigError, "invalid axis %q, expected key=v1,v2 or key(v1,v2)", arg)
	}

	key = strings.TrimSpace(key)
	if key == "" {
		return Axis{}, errors.Newf(errors.ErrCodeSweepConfigError, "axis %q has no key", arg)
	}

	var values []any

	for _, v := range strings.Split(list, ",") {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}

		parsed, err := parseValue(v)
		if err != nil {
			return Axis{}, errors.Wrapf(errors.ErrCodeSweepConfigError, err, "invalid value %q for %s", v, key)
		}

		values = append(values, parsed)
	}

	if len(values) == 0 {
		return Axis{}, errors.Newf(errors.ErrCodeSweepConfigError, "axis %s has no values", key)
	}

	return Axis{Key: key, Values: values}, nil
}

func parseValue(v string) (any, error) {
	if strings.Contains(v, ".") {
		return strconv.ParseFloat(v, 64)
	}

	return strconv.Atoi(v)
}

// Generate returns the cartesian product of axes, the first axis varying slowest.
func Generate(axes []Axis) []map[string]any {
	if len(axes) == 0 {
		return nil
	}

	combos := []map[string]any{{}}

	for _, axis := range axes {
		next := make([]map[string]any, 0, len(combos)*len(axis.Values))

		for _, combo := range combos {
			for _, value := range axis.Values {
				c := make(map[string]any, len(combo)+1)
				for k, v := range combo {
					c[k] = v
				}

				c[axis.Key] = value
				next = append(next, c)
			}
		}

		combos = next
	}

	return combos
}

// WriteConfigs writes combos as an indented JSON list.
func WriteConfigs(path string, combos []map[string]any) error {
	content, err := json.MarshalIndent(combos, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSweepConfigError, "failed to encode sweep configs", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return errors.Wrap(errors.ErrCodeSweepConfigError, "failed to create sweep config directory", err)
		}
	}

	if err := os.WriteFile(path, append(content, '\n'), 0644); err != nil {
		return errors.Wrapf(errors.ErrCodeSweepConfigError, err, "failed to write sweep configs %s", path)
	}

	return nil
}

// GenerateMessage is the operator message after configs were generated.
func GenerateMessage(count int, path string) string {
	return fmt.Sprintf("✅ Se han guardado *%d* combinaciones en `%s`.", count, filepath.Base(path))
}
