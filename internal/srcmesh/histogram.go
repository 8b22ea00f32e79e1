package srcmesh

// Histogram holds per-cell hit counts and the miss counter of one run.
// It is allocated zeroed, never resized, and written only through
// Accumulate while the batch loop runs. Reads are valid once the loop ends.
type Histogram struct {
	counts []uint64
	misses uint64
}

func NewHistogram(bins int) *Histogram {
	if bins < 0 {
		bins = 0
	}
	return &Histogram{counts: make([]uint64, bins)}
}

// Bins returns the number of cells.
func (h *Histogram) Bins() int { return len(h.counts) }

// Count returns the hits recorded for cell i.
func (h *Histogram) Count(i int) uint64 { return h.counts[i] }

// Counts returns a copy of all cell counts.
func (h *Histogram) Counts() []uint64 {
	out := make([]uint64, len(h.counts))
	copy(out, h.counts)
	return out
}

// Misses returns the number of sites outside every cell.
func (h *Histogram) Misses() uint64 { return h.misses }

// Hits returns the number of sites that landed in some cell.
func (h *Histogram) Hits() uint64 {
	var sum uint64
	for _, c := range h.counts {
		sum += c
	}
	return sum
}

// Total returns hits plus misses, which equals the number of sites binned.
func (h *Histogram) Total() uint64 { return h.Hits() + h.misses }
