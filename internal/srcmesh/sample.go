package srcmesh

// SampleSites fills out with len(out) sites drawn from set using stream s.
// It only writes to out and s, so disjoint (out, s) pairs may run concurrently.
func SampleSites(set *SourceSet, s *Stream, out []SourceSite) {
	for i := range out {
		out[i] = set.Draw(s)
	}
}
