package style

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/jplusplus/nwcharts/pkg/colors"
	"github.com/jplusplus/nwcharts/pkg/errors"
)

// customMarker starts a line of the YAML block in rc files.
const customMarker = "#!"

// ParseRC parses an rc style file. Plain "key: value" lines become engine
// parameters; "#!" lines are concatenated and parsed as YAML custom keys.
func ParseRC(data []byte) (map[string]string, error) {
	params := make(map[string]string)
	var custom bytes.Buffer

	sc := bufio.NewScanner(bytes.NewReader(data))
	for n := 1; sc.Scan(); n++ {
		line := sc.Text()
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, customMarker) {
			custom.WriteString(strings.TrimPrefix(trimmed, customMarker))
			custom.WriteByte('\n')
			continue
		}
		if i := strings.Index(trimmed, "#"); i >= 0 {
			trimmed = strings.TrimSpace(trimmed[:i])
		}
		if trimmed == "" {
			continue
		}
		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidStyle, "line %d: expected 'key: value', got %q", n, line)
		}
		params[strings.TrimSpace(key)] = unquote(strings.TrimSpace(value))
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "read style")
	}

	if custom.Len() > 0 {
		var doc yaml.Node
		if err := yaml.Unmarshal(dedent(custom.Bytes()), &doc); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parse #! block")
		}
		if len(doc.Content) > 0 {
			if err := flattenNode(doc.Content[0], CustomPrefix, params); err != nil {
				return nil, err
			}
		}
	}
	return normalizeColors(params)
}

// tomlStyle is the structured style format.
type tomlStyle struct {
	RC     map[string]any `toml:"rc"`
	Custom map[string]any `toml:"custom"`
}

// ParseTOML parses a TOML style file with [rc] and [custom] tables.
func ParseTOML(data []byte) (map[string]string, error) {
	var doc tomlStyle
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parse toml style")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidStyle, "unknown table or key %q", undecoded[0].String())
	}

	params := make(map[string]string)
	flattenMap(doc.RC, "", params)
	flattenMap(doc.Custom, CustomPrefix, params)
	return normalizeColors(params)
}

// flattenNode walks a YAML node, joining nested mapping keys with dots and
// sequences with commas. Scalars keep their literal text, so that a color such
// as 000000 is not read as the number 0.
func flattenNode(n *yaml.Node, prefix string, out map[string]string) error {
	switch n.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(n.Content); i += 2 {
			key := n.Content[i].Value
			if err := flattenNode(n.Content[i+1], prefix+key+".", out); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		vals := make([]string, 0, len(n.Content))
		for _, c := range n.Content {
			vals = append(vals, c.Value)
		}
		out[strings.TrimSuffix(prefix, ".")] = strings.Join(vals, ",")
	case yaml.ScalarNode:
		out[strings.TrimSuffix(prefix, ".")] = n.Value
	case yaml.AliasNode:
		return flattenNode(n.Alias, prefix, out)
	default:
		return errors.New(errors.ErrCodeInvalidStyle, "unsupported value at %s", strings.TrimSuffix(prefix, "."))
	}
	return nil
}

func flattenMap(m map[string]any, prefix string, out map[string]string) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := m[k].(type) {
		case map[string]any:
			flattenMap(v, prefix+k+".", out)
		case []any:
			vals := make([]string, len(v))
			for i, e := range v {
				vals[i] = scalar(e)
			}
			out[prefix+k] = strings.Join(vals, ",")
		default:
			out[prefix+k] = scalar(v)
		}
	}
}

func scalar(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}

// isColorKey reports whether a parameter holds a single color.
func isColorKey(key string) bool {
	return strings.HasSuffix(key, "color")
}

// isColorListKey reports whether a parameter holds a comma separated list
// of colors, such as nwc.qualitative_colors.
func isColorListKey(key string) bool {
	return strings.HasSuffix(key, "colors")
}

func normalizeColors(params map[string]string) (map[string]string, error) {
	for k, v := range params {
		switch {
		case isColorKey(k):
			if v == "" || v == "auto" || v == "inherit" {
				continue
			}
			c, err := normalizeColor(v)
			if err != nil {
				return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parameter %s", k)
			}
			params[k] = c
		case isColorListKey(k):
			if v == "" {
				continue
			}
			parts := strings.Split(v, ",")
			for i, part := range parts {
				c, err := normalizeColor(strings.TrimSpace(part))
				if err != nil {
					return nil, errors.Wrap(errors.ErrCodeInvalidStyle, err, "parameter %s[%d]", k, i)
				}
				parts[i] = c
			}
			params[k] = strings.Join(parts, ",")
		}
	}
	return params, nil
}

// normalizeColor accepts hex digits without a leading # or zero padding.
func normalizeColor(v string) (string, error) {
	if isDigits(v) && len(v) < 6 {
		v = strings.Repeat("0", 6-len(v)) + v
	}
	return colors.Normalize(v)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}

// dedent strips the single space that usually follows "#!".
func dedent(b []byte) []byte {
	lines := strings.Split(string(b), "\n")
	for _, l := range lines {
		if l != "" && !strings.HasPrefix(l, " ") {
			return b
		}
	}
	for i, l := range lines {
		lines[i] = strings.TrimPrefix(l, " ")
	}
	return []byte(strings.Join(lines, "\n"))
}
