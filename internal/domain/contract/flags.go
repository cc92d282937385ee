package contract

import "sort"

// Historically flag collections arrived in two shapes: an ordered list of
// flag records, or a bare id->raised map merged from several engines. All
// ingestion goes through NormalizeFlags so only the list shape exists
// downstream of the contract boundary.

// FlagInput carries whichever legacy shape a producer still emits. Exactly
// one field should be set; when both are set the list wins and the map
// entries are appended after it.
type FlagInput struct {
	List []Flag          `json:"list,omitempty"`
	Map  map[string]bool `json:"map,omitempty"`
}

// NormalizeFlags converts a FlagInput into the canonical ordered flag list.
// Map entries become info-tone flags with the id doubling as the label;
// entries with a false value were never raised and are dropped. The result
// is sorted by descending priority, ties broken by id for stable output.
func NormalizeFlags(in FlagInput) []Flag {
	out := make([]Flag, 0, len(in.List)+len(in.Map))
	seen := make(map[string]bool, len(in.List))

	for _, f := range in.List {
		if f.ID == "" || seen[f.ID] {
			continue
		}
		if f.Tone == "" {
			f.Tone = ToneInfo
		}
		seen[f.ID] = true
		out = append(out, f)
	}

	// Deterministic order for the map shape before the final sort.
	ids := make([]string, 0, len(in.Map))
	for id, raised := range in.Map {
		if raised && id != "" && !seen[id] {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	for _, id := range ids {
		out = append(out, Flag{ID: id, Label: id, Tone: ToneInfo})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].ID < out[j].ID
	})
	return out
}
