package srcmesh

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestBoxSourceStaysInside(t *testing.T) {
	t.Parallel()
	b, err := NewBoxSource(r3.Vec{X: -1, Y: 0, Z: 2}, r3.Vec{X: 1, Y: 3, Z: 2.5}, 2, 14.1)
	require.NoError(t, err)
	s := NewStream(9)
	for i := 0; i < 10_000; i++ {
		site := b.Draw(s)
		require.True(t, site.R.X >= -1 && site.R.X < 1, "x=%g", site.R.X)
		require.True(t, site.R.Y >= 0 && site.R.Y < 3, "y=%g", site.R.Y)
		require.True(t, site.R.Z >= 2 && site.R.Z < 2.5, "z=%g", site.R.Z)
		require.InDelta(t, 1, r3.Norm(site.U), 1e-12)
		require.Equal(t, 14.1, site.E)
	}
	assert.Equal(t, 2.0, b.Strength())

	_, err = NewBoxSource(r3.Vec{X: 1}, r3.Vec{}, 1, 0)
	assert.Error(t, err)
}

func TestSphereSourceUniformInVolume(t *testing.T) {
	t.Parallel()
	sp, err := NewSphereSource(r3.Vec{X: 1, Y: 1, Z: 1}, 2, 1, 0)
	require.NoError(t, err)
	s := NewStream(5)
	inner := 0
	const n = 50_000
	for i := 0; i < n; i++ {
		d := r3.Norm(r3.Sub(sp.Draw(s).R, sp.Center))
		require.LessOrEqual(t, d, 2.0+1e-12)
		if d < 1 {
			inner++
		}
	}
	// the inner half radius holds 1/8 of the volume
	assert.InDelta(t, 0.125, float64(inner)/n, 0.01)
}

func TestPointAndGaussianSources(t *testing.T) {
	t.Parallel()
	p, err := NewPointSource(r3.Vec{X: 4, Y: 5, Z: 6}, 1, 0)
	require.NoError(t, err)
	s := NewStream(1)
	assert.Equal(t, r3.Vec{X: 4, Y: 5, Z: 6}, p.Draw(s).R)

	g, err := NewGaussianSource(r3.Vec{X: 1, Y: -2, Z: 3}, r3.Vec{X: 0.5, Y: 1, Z: 2}, 1, 0)
	require.NoError(t, err)
	const n = 40_000
	var mean r3.Vec
	for i := 0; i < n; i++ {
		mean = r3.Add(mean, g.Draw(s).R)
	}
	mean = r3.Scale(1.0/n, mean)
	assert.InDelta(t, 1, mean.X, 4*0.5/math.Sqrt(n))
	assert.InDelta(t, -2, mean.Y, 4*1/math.Sqrt(n))
	assert.InDelta(t, 3, mean.Z, 4*2/math.Sqrt(n))

	_, err = NewGaussianSource(r3.Vec{}, r3.Vec{X: -1}, 1, 0)
	assert.Error(t, err)
}

func TestSourceStrengthValidation(t *testing.T) {
	t.Parallel()
	_, err := NewPointSource(r3.Vec{}, -1, 0)
	assert.Error(t, err)
	_, err = NewPointSource(r3.Vec{}, math.Inf(1), 0)
	assert.Error(t, err)
	_, err = NewSphereSource(r3.Vec{}, -2, 1, 0)
	assert.Error(t, err)
}

func TestSourceSetSelectsByStrength(t *testing.T) {
	t.Parallel()
	a, _ := NewPointSource(r3.Vec{X: 0}, 1, 0)
	b, _ := NewPointSource(r3.Vec{X: 1}, 3, 0)
	set, err := NewSourceSet(a, b)
	require.NoError(t, err)
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, 4.0, set.TotalStrength())

	s := NewStream(2)
	fromB := 0
	const n = 40_000
	for i := 0; i < n; i++ {
		if set.Draw(s).R.X == 1 {
			fromB++
		}
	}
	assert.InDelta(t, 0.75, float64(fromB)/n, 0.01)
}

func TestSourceSetZeroStrengthIsUniform(t *testing.T) {
	t.Parallel()
	a, _ := NewPointSource(r3.Vec{X: 0}, 0, 0)
	b, _ := NewPointSource(r3.Vec{X: 1}, 0, 0)
	set, err := NewSourceSet(a, b)
	require.NoError(t, err)
	assert.Zero(t, set.TotalStrength())

	s := NewStream(8)
	fromB := 0
	const n = 20_000
	for i := 0; i < n; i++ {
		if set.Draw(s).R.X == 1 {
			fromB++
		}
	}
	assert.InDelta(t, 0.5, float64(fromB)/n, 0.02)
}

func TestSourceSetEmpty(t *testing.T) {
	t.Parallel()
	_, err := NewSourceSet()
	assert.True(t, errors.Is(err, ErrNoSources))
}

func TestSampleSitesFillsBuffer(t *testing.T) {
	t.Parallel()
	b, _ := NewBoxSource(r3.Vec{}, r3.Vec{X: 1, Y: 1, Z: 1}, 1, 0)
	set, _ := NewSourceSet(b)
	out := make([]SourceSite, 257)
	s1, s2 := NewStream(4), NewStream(4)
	SampleSites(set, s1, out)
	for i := range out {
		assert.Equal(t, set.Draw(s2), out[i], "site %d", i)
	}
}

func TestSourceSetNeverPicksZeroStrength(t *testing.T) {
	t.Parallel()
	var sources []Source
	for i, strength := range []Real{0, 0.1, 0.2, 0.3, 0} {
		src, err := NewPointSource(r3.Vec{X: Real(i)}, strength, 0)
		require.NoError(t, err)
		sources = append(sources, src)
	}
	set, err := NewSourceSet(sources...)
	require.NoError(t, err)

	assert.Equal(t, 1, set.pick(0))
	assert.Equal(t, 3, set.pick(math.Nextafter(1, 0)))
	assert.Equal(t, 3, set.pick(1))
	for u := 0.0; u < 1; u += 1.0 / 4096 {
		i := set.pick(u)
		require.True(t, i >= 1 && i <= 3, "u=%g picked %d", u, i)
	}

	s := NewStream(6)
	for i := 0; i < 10_000; i++ {
		x := set.Draw(s).R.X
		require.True(t, x != 0 && x != 4, "drew zero-strength source %g", x)
	}
}

func TestSourceSetPickAllZero(t *testing.T) {
	t.Parallel()
	a, _ := NewPointSource(r3.Vec{}, 0, 0)
	b, _ := NewPointSource(r3.Vec{}, 0, 0)
	set, err := NewSourceSet(a, b)
	require.NoError(t, err)
	assert.Equal(t, 0, set.pick(0))
	assert.Equal(t, 1, set.pick(0.75))
	assert.Equal(t, 1, set.pick(1))
}
