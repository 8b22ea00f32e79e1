package srcmesh

import (
	"fmt"
	"io"
)

// Progress reports fractional completion of the sampling phase as a
// percentage. Reported values never decrease and the final one is exactly 100.
type Progress struct {
	total  uint64
	last   float64
	report func(pct float64)
}

// NewProgress reports through fn; a nil fn discards reports.
func NewProgress(total uint64, fn func(pct float64)) *Progress {
	if fn == nil {
		fn = func(float64) {}
	}
	return &Progress{total: total, report: fn}
}

// PrintProgress returns a report func printing "[PROGRESS] xx.xx%" lines to w.
func PrintProgress(w io.Writer) func(pct float64) {
	return func(pct float64) {
		fmt.Fprintf(w, "[PROGRESS] %.2f%%\n", pct)
	}
}

// Set records that done of total units are complete and returns the percentage reported.
func (p *Progress) Set(done uint64) float64 {
	pct := 100.0
	if p.total > 0 && done < p.total {
		pct = 100 * float64(done) / float64(p.total)
	}
	if pct < p.last {
		pct = p.last
	}
	p.last = pct
	p.report(pct)
	return pct
}

// Value returns the last reported percentage.
func (p *Progress) Value() float64 { return p.last }
