package srcmesh

import (
	"fmt"
	"sync"
)

// span is a half-open range [lo, hi) of site indices owned by one worker.
type span struct{ lo, hi int }

// partition splits n items across workers evenly, spreading the remainder
// over the first workers. Worker w always gets span w; empty spans are dropped
// from the tail only.
func partition(n, workers int) []span {
	if n <= 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > n {
		workers = n
	}
	base, rem := n/workers, n%workers
	spans := make([]span, workers)
	lo := 0
	for w := 0; w < workers; w++ {
		cnt := base
		if w < rem {
			cnt++
		}
		spans[w] = span{lo: lo, hi: lo + cnt}
		lo += cnt
	}
	return spans
}

// Scheduler drives the sample → bin loop over fixed-size batches until Total
// sites have been drawn. Batches run strictly one after another; inside a batch
// sampling and binning each fan out over len(Streams) workers.
type Scheduler struct {
	Sources  *SourceSet
	Mesh     Mesh
	Streams  []*Stream
	Total    uint64
	MaxBatch int
	Acc      *Accumulator
	Progress *Progress
}

// Tally summarizes a finished batch loop.
type Tally struct {
	Sampled uint64
	Batches int
}

// Run executes the batch loop into h. It stops at the first batch whose
// binning reports an error; there are no retries.
func (s *Scheduler) Run(h *Histogram) (Tally, error) {
	var t Tally
	if s.Sources == nil || s.Mesh == nil {
		return t, fmt.Errorf("%w: scheduler needs sources and a mesh", ErrInvalidConfig)
	}
	if len(s.Streams) == 0 {
		s.Streams = NewStreamPool(1)
	}
	if s.MaxBatch < 1 {
		return t, fmt.Errorf("%w: max batch size must be >= 1, got %d", ErrInvalidConfig, s.MaxBatch)
	}
	if h.Bins() != s.Mesh.BinCount() {
		return t, fmt.Errorf("%w: histogram has %d bins, mesh %d has %d", ErrInvalidConfig, h.Bins(), s.Mesh.ID(), s.Mesh.BinCount())
	}
	acc := s.Acc
	if acc == nil {
		acc = NewAccumulator(AccumulateAtomic, len(s.Streams))
	}
	prog := s.Progress
	if prog == nil {
		prog = NewProgress(s.Total, nil)
	}

	// the buffer is sized once and reused so peak memory stays bounded
	bufLen := s.MaxBatch
	if s.Total < uint64(bufLen) {
		bufLen = int(s.Total)
	}
	buf := make([]SourceSite, bufLen)

	for t.Sampled < s.Total {
		n := s.MaxBatch
		if remaining := s.Total - t.Sampled; remaining < uint64(n) {
			n = int(remaining)
		}
		sites := buf[:n]

		s.sample(sites)
		t.Sampled += uint64(n)
		t.Batches++

		if err := acc.Accumulate(sites, s.Mesh, h); err != nil {
			return t, fmt.Errorf("batch %d: %w", t.Batches, err)
		}
		prog.Set(t.Sampled)
	}
	if s.Total == 0 {
		prog.Set(0)
	}
	DebugLog("Sampled %d sites in %d batches, misses=%d", t.Sampled, t.Batches, h.Misses())
	return t, nil
}

func (s *Scheduler) sample(sites []SourceSite) {
	spans := partition(len(sites), len(s.Streams))
	var wg sync.WaitGroup
	wg.Add(len(spans))
	for w, sp := range spans {
		stream := s.Streams[w]
		out := sites[sp.lo:sp.hi]
		go func() {
			defer wg.Done()
			SampleSites(s.Sources, stream, out)
		}()
	}
	wg.Wait()
}
