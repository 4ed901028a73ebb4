package geo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndex_InsertAndLen(t *testing.T) {
	ix := NewIndex()
	assert.Equal(t, 0, ix.Len())

	ix.Insert(0, saoPaulo.lat, saoPaulo.lon)
	ix.Insert(1, rioDeJaneiro.lat, rioDeJaneiro.lon)
	assert.Equal(t, 2, ix.Len())
}

func TestIndex_CandidatesAreSortedAndPruned(t *testing.T) {
	ix := NewIndex()
	ix.Insert(0, rioDeJaneiro.lat, rioDeJaneiro.lon)
	ix.Insert(1, saoPaulo.lat, saoPaulo.lon)
	ix.Insert(2, tokyo.lat, tokyo.lon)
	ix.Insert(3, saoPaulo.lat+0.01, saoPaulo.lon)

	slots, ok := ix.Candidates(saoPaulo.lat, saoPaulo.lon, 10)
	require.True(t, ok)
	assert.Equal(t, []int{1, 3}, slots)
}

func TestIndex_ZeroRadiusFindsExactPoint(t *testing.T) {
	ix := NewIndex()
	ix.Insert(7, campinas.lat, campinas.lon)

	slots, ok := ix.Candidates(campinas.lat, campinas.lon, 0)
	require.True(t, ok)
	assert.Equal(t, []int{7}, slots)
}

func TestIndex_FallsBackNearPolesAndAntimeridian(t *testing.T) {
	ix := NewIndex()

	_, ok := ix.Candidates(northPoleish.lat, northPoleish.lon, 10)
	assert.False(t, ok, "polar query should require a full scan")

	_, ok = ix.Candidates(antimeridianW.lat, antimeridianW.lon, 10)
	assert.False(t, ok, "query box crossing 180 should require a full scan")

	_, ok = ix.Candidates(0, 0, -1)
	assert.False(t, ok, "negative radius has no box")
}

// Pruning must never drop a point the exact distance would accept.
func TestIndex_NeverMissesPointsWithinRadius(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const radius = 10.0

	origins := []coord{saoPaulo, recife, {60, 25}, {-70, -60}, {0, 0}}
	for _, origin := range origins {
		ix := NewIndex()
		var points []coord
		for i := 0; i < 500; i++ {
			p := coord{
				lat: origin.lat + (rng.Float64()-0.5)*0.4,
				lon: origin.lon + (rng.Float64()-0.5)*0.8,
			}
			points = append(points, p)
			ix.Insert(i, p.lat, p.lon)
		}

		slots, ok := ix.Candidates(origin.lat, origin.lon, radius)
		require.True(t, ok)

		candidate := make(map[int]bool, len(slots))
		for _, s := range slots {
			candidate[s] = true
		}
		for i, p := range points {
			if HaversineKm(origin.lat, origin.lon, p.lat, p.lon) <= radius {
				assert.True(t, candidate[i], "point %d at %v missing from candidates around %v", i, p, origin)
			}
		}
	}
}
