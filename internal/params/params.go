// Package params edits the parameter maps of Qase cases.
//
// The pure functions here never mutate their inputs. Add sorts the lists it
// merges; Remove keeps the existing order.
package params

import (
	"fmt"
	"slices"
	"strings"

	"github.com/RamXX/qaseio/internal/model"
	"github.com/spjmurray/go-util/pkg/set"
)

// Add merges wanted into orig as a per-key set union. It reports whether
// the result differs from orig.
func Add(orig, wanted model.Params) (model.Params, bool) {
	out := orig.Clone()
	changed := false
	for key, values := range wanted {
		if len(values) == 0 {
			continue
		}
		existing := set.New[string](out[key]...)
		merged := set.New[string](append(slices.Clone(out[key]), values...)...)
		if hasAny(merged.Difference(existing)) {
			changed = true
		}
		_, present := out[key]
		out[key] = slices.Sorted(merged.All())
		if !present {
			changed = true
		}
	}
	return out, changed
}

// Remove drops one occurrence of each listed value from orig, keeping the
// order of what survives. A key left without values is deleted. It reports
// whether any listed value was present.
func Remove(orig, unwanted model.Params) (model.Params, bool) {
	out := orig.Clone()
	matched := false
	for key, values := range unwanted {
		current, ok := out[key]
		if !ok {
			continue
		}
		for _, v := range values {
			i := slices.Index(current, v)
			if i < 0 {
				continue
			}
			current = slices.Delete(current, i, i+1)
			matched = true
		}
		if len(current) == 0 {
			delete(out, key)
			continue
		}
		out[key] = current
	}
	return out, matched
}

// Replace removes unwanted and, only when something was removed, adds
// wanted. A map with none of the unwanted values is returned unchanged
// even if wanted would otherwise apply.
func Replace(orig, unwanted, wanted model.Params) (model.Params, bool) {
	out, matched := Remove(orig, unwanted)
	if !matched {
		return orig.Clone(), false
	}
	out, _ = Add(out, wanted)
	return out, true
}

func hasAny(s set.Set[string]) bool {
	for range s.All() {
		return true
	}
	return false
}

// Parse reads "key=v1,v2" pairs. Repeated keys accumulate.
func Parse(pairs []string) (model.Params, error) {
	out := model.Params{}
	for _, pair := range pairs {
		key, raw, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid parameter %q: expected key=value[,value...]", pair)
		}
		for _, v := range strings.Split(raw, ",") {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			out[key] = append(out[key], v)
		}
		if len(out[key]) == 0 {
			return nil, fmt.Errorf("invalid parameter %q: no values", pair)
		}
	}
	return out, nil
}
