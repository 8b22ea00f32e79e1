package srcmesh

import (
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
)

// AccumulateMode selects how concurrent workers fold hits into the shared
// histogram. Every mode yields the same counts for the same sites.
type AccumulateMode int

const (
	// AccumulateAtomic increments each counter with a lock-free atomic add.
	AccumulateAtomic AccumulateMode = iota
	// AccumulateSharded serializes increments through NumShards mutexes.
	AccumulateSharded
	// AccumulatePartial counts into private per-worker histograms and merges
	// them once every worker of the batch is done.
	AccumulatePartial
)

func (m AccumulateMode) String() string {
	switch m {
	case AccumulateAtomic:
		return "atomic"
	case AccumulateSharded:
		return "sharded"
	case AccumulatePartial:
		return "partial"
	}
	return fmt.Sprintf("AccumulateMode(%d)", int(m))
}

// ParseAccumulateMode accepts "atomic", "sharded" or "partial"; "" means atomic.
func ParseAccumulateMode(s string) (AccumulateMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "atomic":
		return AccumulateAtomic, nil
	case "sharded", "locks":
		return AccumulateSharded, nil
	case "partial", "merge":
		return AccumulatePartial, nil
	}
	return 0, fmt.Errorf("%w: unknown accumulate mode %q", ErrInvalidConfig, s)
}

// Accumulator classifies sites into mesh cells and records the hits.
type Accumulator struct {
	Mode    AccumulateMode
	Workers int

	locks *shardLocks
}

func NewAccumulator(mode AccumulateMode, workers int) *Accumulator {
	a := &Accumulator{Mode: mode, Workers: imax(workers, 1)}
	if mode == AccumulateSharded {
		a.locks = &shardLocks{}
	}
	return a
}

// Accumulate bins every site into h. Misses are counted, not reported.
// Indices that are neither Miss nor a valid cell are skipped and reported as
// ErrInvalidBin once the whole slice has been processed.
func (a *Accumulator) Accumulate(sites []SourceSite, mesh Mesh, h *Histogram) error {
	var invalid int64
	spans := partition(len(sites), a.Workers)

	switch a.Mode {
	case AccumulatePartial:
		a.accumulatePartial(sites, spans, mesh, h, &invalid)
	default:
		var wg sync.WaitGroup
		wg.Add(len(spans))
		for _, sp := range spans {
			sp := sp
			go func() {
				defer wg.Done()
				for _, site := range sites[sp.lo:sp.hi] {
					a.record(h, mesh.Classify(site.R), &invalid)
				}
			}()
		}
		wg.Wait()
	}

	if invalid > 0 {
		return fmt.Errorf("%w: %d sites on mesh %d", ErrInvalidBin, invalid, mesh.ID())
	}
	return nil
}

func (a *Accumulator) record(h *Histogram, idx int, invalid *int64) {
	n := len(h.counts)
	switch {
	case idx == Miss:
		if a.locks != nil {
			a.locks.lock(n)
			h.misses++
			a.locks.unlock(n)
			return
		}
		atomic.AddUint64(&h.misses, 1)
	case idx < 0 || idx >= n:
		atomic.AddInt64(invalid, 1)
	default:
		if a.locks != nil {
			a.locks.lock(idx)
			h.counts[idx]++
			a.locks.unlock(idx)
			return
		}
		atomic.AddUint64(&h.counts[idx], 1)
	}
}

type partialHistogram struct {
	counts  []uint64
	misses  uint64
	invalid int64
}

func (a *Accumulator) accumulatePartial(sites []SourceSite, spans []span, mesh Mesh, h *Histogram, invalid *int64) {
	var wg sync.WaitGroup
	partCh := make(chan *partialHistogram, len(spans))
	n := len(h.counts)

	for _, sp := range spans {
		wg.Add(1)
		go func(sp span) {
			defer wg.Done()
			// private histogram per worker
			part := &partialHistogram{counts: make([]uint64, n)}
			for _, site := range sites[sp.lo:sp.hi] {
				idx := mesh.Classify(site.R)
				switch {
				case idx == Miss:
					part.misses++
				case idx < 0 || idx >= n:
					part.invalid++
				default:
					part.counts[idx]++
				}
			}
			partCh <- part
		}(sp)
	}

	wg.Wait()
	close(partCh)

	for part := range partCh {
		for i, c := range part.counts {
			h.counts[i] += c
		}
		h.misses += part.misses
		*invalid += part.invalid
	}
}
