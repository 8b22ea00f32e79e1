package srcmesh

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gonum.org/v1/gonum/spatial/r3"
)

type MeshCfg struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"` // "regular" or "cylindrical"
	// regular
	LowerLeft  [3]Real `json:"lowerLeft,omitempty"`
	UpperRight [3]Real `json:"upperRight,omitempty"`
	Dimension  [3]int  `json:"dimension,omitempty"`
	// cylindrical
	Origin  [3]Real `json:"origin,omitempty"`
	RGrid   []Real  `json:"rGrid,omitempty"`
	PhiBins int     `json:"phiBins,omitempty"`
	ZGrid   []Real  `json:"zGrid,omitempty"`
}

type SourceCfg struct {
	Type     string  `json:"type"` // "point", "box", "sphere" or "gaussian"
	Strength *Real   `json:"strength,omitempty"`
	Energy   Real    `json:"energy,omitempty"`
	Position [3]Real `json:"position,omitempty"`
	Lower    [3]Real `json:"lower,omitempty"`
	Upper    [3]Real `json:"upper,omitempty"`
	Center   [3]Real `json:"center,omitempty"`
	Radius   Real    `json:"radius,omitempty"`
	Sigma    [3]Real `json:"sigma,omitempty"`
}

type Config struct {
	TotalSites       *int64      `json:"totalSites,omitempty"`
	MaxSitesPerBatch int         `json:"maxSitesPerBatch,omitempty"`
	Workers          int         `json:"workers,omitempty"`
	Accumulate       string      `json:"accumulate,omitempty"`
	Normalization    string      `json:"normalization,omitempty"`
	Absolute         *bool       `json:"absolute,omitempty"`
	OutputCSV        string      `json:"outputCSV,omitempty"`
	LogFile          string      `json:"logFile,omitempty"`
	XLSXOut          string      `json:"xlsxOut,omitempty"`
	ArchiveDB        string      `json:"archiveDB,omitempty"`
	MeshID           int         `json:"meshID,omitempty"`
	Meshes           []MeshCfg   `json:"meshes"`
	Sources          []SourceCfg `json:"sources"`
}

func vec(a [3]Real) r3.Vec { return r3.Vec{X: a[0], Y: a[1], Z: a[2]} }

// Build validates and constructs the mesh.
func (mc MeshCfg) Build() (Mesh, error) {
	switch mc.Kind {
	case "regular", "":
		d := mc.Dimension
		return NewRegularMesh(mc.ID, vec(mc.LowerLeft), vec(mc.UpperRight), d[0], d[1], d[2])
	case "cylindrical":
		return NewCylindricalMesh(mc.ID, vec(mc.Origin), mc.RGrid, mc.PhiBins, mc.ZGrid)
	}
	return nil, fmt.Errorf("%w: mesh %d has unknown kind %q", ErrInvalidConfig, mc.ID, mc.Kind)
}

// GetStrength returns the declared strength, 1 when omitted.
func (sc SourceCfg) GetStrength() Real {
	if sc.Strength == nil {
		return DefaultStrength
	}
	return *sc.Strength
}

// Build validates and constructs the source.
func (sc SourceCfg) Build() (Source, error) {
	strength := sc.GetStrength()
	switch sc.Type {
	case "point":
		return NewPointSource(vec(sc.Position), strength, sc.Energy)
	case "box":
		return NewBoxSource(vec(sc.Lower), vec(sc.Upper), strength, sc.Energy)
	case "sphere":
		return NewSphereSource(vec(sc.Center), sc.Radius, strength, sc.Energy)
	case "gaussian":
		return NewGaussianSource(vec(sc.Center), vec(sc.Sigma), strength, sc.Energy)
	}
	return nil, fmt.Errorf("%w: unknown source type %q", ErrInvalidConfig, sc.Type)
}

// GetTotalSites returns the sample target, TotalSites when omitted.
func (c *Config) GetTotalSites() uint64 {
	if c.TotalSites == nil {
		return TotalSites
	}
	return uint64(*c.TotalSites)
}

// GetAbsolute reports whether the absolute strength columns are written; defaults to true.
func (c *Config) GetAbsolute() bool {
	if c.Absolute == nil {
		return true
	}
	return *c.Absolute
}

// ApplyDefaults fills zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxSitesPerBatch <= 0 {
		c.MaxSitesPerBatch = MaxSitesPerBatch
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.OutputCSV == "" {
		c.OutputCSV = OutputCSV
	}
	if c.LogFile == "" {
		c.LogFile = LogFile
	}
	if c.MeshID == 0 {
		c.MeshID = MeshID
	}
}

// Validate checks values that defaults cannot repair. Zero values are left
// for ApplyDefaults.
func (c *Config) Validate() error {
	if c.TotalSites != nil && *c.TotalSites < 0 {
		return fmt.Errorf("%w: totalSites must be >= 0, got %d", ErrInvalidConfig, *c.TotalSites)
	}
	if c.MaxSitesPerBatch < 0 {
		return fmt.Errorf("%w: maxSitesPerBatch must be > 0, got %d", ErrInvalidConfig, c.MaxSitesPerBatch)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must be >= 0, got %d", ErrInvalidConfig, c.Workers)
	}
	if _, err := ParsePolicy(c.Normalization); err != nil {
		return err
	}
	if _, err := ParseAccumulateMode(c.Accumulate); err != nil {
		return err
	}
	if len(c.Sources) == 0 {
		return ErrNoSources
	}
	seen := make(map[int]bool, len(c.Meshes))
	for _, m := range c.Meshes {
		if seen[m.ID] {
			return fmt.Errorf("%w: duplicate mesh id %d", ErrInvalidConfig, m.ID)
		}
		seen[m.ID] = true
	}
	return nil
}

// BuildMesh constructs the mesh selected by MeshID.
func (c *Config) BuildMesh() (Mesh, error) {
	for _, mc := range c.Meshes {
		if mc.ID == c.MeshID {
			return mc.Build()
		}
	}
	return nil, fmt.Errorf("%w: id %d", ErrMeshNotFound, c.MeshID)
}

// BuildSources constructs the external source set.
func (c *Config) BuildSources() (*SourceSet, error) {
	sources := make([]Source, 0, len(c.Sources))
	for i, sc := range c.Sources {
		src, err := sc.Build()
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		sources = append(sources, src)
	}
	return NewSourceSet(sources...)
}

// LoadConfig reads a JSON run configuration, applies defaults and validates it.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("%w: config file must have .json extension, got %q", ErrInvalidConfig, ext)
	}
	info, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigSize {
		return nil, fmt.Errorf("%w: config file too large: %d bytes (max %d)", ErrInvalidConfig, info.Size(), maxConfigSize)
	}
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config JSON: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.ApplyDefaults()
	DebugLog("Loaded config from %s: sites=%d, batch=%d, workers=%d, mesh=%d, sources=%d",
		path, cfg.GetTotalSites(), cfg.MaxSitesPerBatch, cfg.Workers, cfg.MeshID, len(cfg.Sources))
	return &cfg, nil
}
