package summary

import "sort"

// Flatten lifts nested group objects into the top level. Models often answer
// with logical sections ("Core Policy Identification": {...}) while the
// summary shape is flat. Groups are merged in lexicographic key order so the
// result is deterministic; on a key collision the later group wins, and any
// group value wins over a top-level scalar of the same name.
func Flatten(parsed map[string]any) map[string]any {
	flattened := make(map[string]any, len(parsed))
	for k, v := range parsed {
		flattened[k] = v
	}

	keys := make([]string, 0, len(parsed))
	for k := range parsed {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		nested, ok := parsed[k].(map[string]any)
		if !ok {
			continue
		}
		for nk, nv := range nested {
			flattened[nk] = nv
		}
	}
	return flattened
}
