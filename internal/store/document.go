package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Document is the decoded qase.config.json tree. Values have the shapes
// encoding/json produces: map[string]any, []any, string, float64, bool.
type Document map[string]any

// DefaultDocument returns the reporter configuration used when no file
// exists. project and token fill testops.project and testops.api.token.
func DefaultDocument(project, token string) Document {
	doc := Document{
		"mode":     "testops",
		"fallback": "report",
		"report": map[string]any{
			"driver": "local",
			"connection": map[string]any{
				"local": map[string]any{
					"path":   "./build/qase-report",
					"format": "json",
				},
			},
		},
		"testops": map[string]any{
			"project": project,
			"api": map[string]any{
				"token": token,
				"host":  "qase.io",
			},
			"run": map[string]any{
				"complete": false,
			},
			"defect": false,
			"bulk":   true,
			"chunk":  200,
		},
		"framework": map[string]any{
			"pytest": map[string]any{
				"capture": map[string]any{
					"logs": true,
					"http": true,
				},
			},
		},
		"environment": "local",
	}
	return normalize(doc).(map[string]any)
}

// normalize round-trips v through JSON so in-memory values match what a
// later load decodes (ints become float64, nested maps become
// map[string]any).
func normalize(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return v
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return v
	}
	return out
}

func splitKey(key string) []string {
	return strings.Split(key, ".")
}

// lookup returns the value at a dot-notation key.
func (d Document) lookup(key string) (any, bool) {
	var cur any = map[string]any(d)
	for _, part := range splitKey(key) {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// set writes value at key, creating intermediate objects as needed.
func (d Document) set(key string, value any) error {
	parts := splitKey(key)
	cur := map[string]any(d)
	for i, part := range parts[:len(parts)-1] {
		next, ok := cur[part]
		if !ok {
			child := map[string]any{}
			cur[part] = child
			cur = child
			continue
		}
		child, ok := next.(map[string]any)
		if !ok {
			return fmt.Errorf("cannot set %s: %s is not an object", key, strings.Join(parts[:i+1], "."))
		}
		cur = child
	}
	cur[parts[len(parts)-1]] = normalize(value)
	return nil
}

// unset deletes key if present. Missing intermediate objects are not an error.
func (d Document) unset(key string) {
	parts := splitKey(key)
	cur := map[string]any(d)
	for _, part := range parts[:len(parts)-1] {
		child, ok := cur[part].(map[string]any)
		if !ok {
			return
		}
		cur = child
	}
	delete(cur, parts[len(parts)-1])
}

// leaves flattens the document into sorted dot-notation key/value pairs.
func (d Document) leaves() [][2]string {
	var out [][2]string
	var walk func(prefix string, v any)
	walk = func(prefix string, v any) {
		if m, ok := v.(map[string]any); ok && len(m) > 0 {
			keys := make([]string, 0, len(m))
			for k := range m {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				next := k
				if prefix != "" {
					next = prefix + "." + k
				}
				walk(next, m[k])
			}
			return
		}
		out = append(out, [2]string{prefix, formatValue(v)})
	}
	walk("", map[string]any(d))
	return out
}

// formatValue renders a leaf the way `config get` prints it.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		if x == float64(int64(x)) {
			return strconv.FormatInt(int64(x), 10)
		}
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
}
