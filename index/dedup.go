package index

import "github.com/poiesic/quickdex/core"

// deduplicate collapses candidates sharing a (normalized name, kind)
// key. A folder and a file both called "Config" survive as two items;
// two applications both called "Chrome" collapse to one. Among
// duplicates, a pluggable-source item beats a filesystem item, then
// higher prior usage wins. priorUse maps path to the use count already
// persisted for it.
func deduplicate(candidates []core.Item, priorUse map[string]uint32) []core.Item {
	kept := make(map[string]core.Item, len(candidates))
	order := make([]string, 0, len(candidates))

	for _, candidate := range candidates {
		key := candidate.DedupKey()
		existing, ok := kept[key]
		if !ok {
			kept[key] = candidate
			order = append(order, key)
			continue
		}
		if prefer(candidate, existing, priorUse) {
			kept[key] = candidate
		}
	}

	result := make([]core.Item, 0, len(kept))
	for _, key := range order {
		result = append(result, kept[key])
	}
	return result
}

// prefer reports whether challenger should replace incumbent.
func prefer(challenger, incumbent core.Item, priorUse map[string]uint32) bool {
	cp, ip := challenger.Kind.Pluggable(), incumbent.Kind.Pluggable()
	if cp != ip {
		return cp
	}
	return priorUse[challenger.Path] > priorUse[incumbent.Path]
}
