package srcmesh

// Defaults applied by LoadConfig when a field is left at its zero value.
const (
	TotalSites       = 1_000_000
	MaxSitesPerBatch = 10_000
	MeshID           = 1
	OutputCSV        = "mesh_src_strengths.csv"
	LogFile          = "mesh_src_sampling.log"
	ConfigFile       = "srcmesh.json"
	DefaultStrength  = 1.0
	NumShards        = 1024 // must stay a power of two, see shardLocks
	maxConfigSize    = 1 << 20
	// Miss is returned by Mesh.Classify for points outside every cell.
	Miss = -1
)
