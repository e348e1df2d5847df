package engine

// MicrotransactionTable is the append-only, deduplicating map from a
// culprit's source offset to its continuation's table index (spec.md
// section 3). Index 0 is reserved for the function entry; entry i
// corresponds to the continuation whose `i32.const` return value is i+1.
type MicrotransactionTable struct {
	entries []tableEntry
}

type tableEntry struct {
	culpritOffset int
	name          string
}

// RecordEntry appends the function-entry pseudo-split at table index 0, as
// every top-level (non-ignored) function is walked.
func (t *MicrotransactionTable) RecordEntry(name string) {
	t.entries = append(t.entries, tableEntry{culpritOffset: 0, name: name})
}

// Lookup returns the table index already recorded for a culprit at the
// given source offset, if any.
func (t *MicrotransactionTable) Lookup(culpritOffset int) (int, bool) {
	for i, e := range t.entries {
		if e.culpritOffset == culpritOffset {
			return i, true
		}
	}
	return 0, false
}

// Append records a new entry and returns its table index.
func (t *MicrotransactionTable) Append(culpritOffset int, name string) int {
	t.entries = append(t.entries, tableEntry{culpritOffset: culpritOffset, name: name})
	return len(t.entries) - 1
}

// Len reports how many entries (including the reserved function-entry
// pseudo-splits) the table currently holds.
func (t *MicrotransactionTable) Len() int {
	return len(t.entries)
}

// Names returns every recorded name in table order, including the
// function-entry pseudo-entries recorded by RecordEntry.
func (t *MicrotransactionTable) Names() []string {
	out := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		out = append(out, e.name)
	}
	return out
}
