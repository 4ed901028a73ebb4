package geo

import (
	"math"
	"slices"

	"github.com/dhconnelly/rtreego"
)

const (
	// pointSize is the edge length, in degrees, of the box stored for each point.
	// rtreego rejects zero-length rectangles.
	pointSize = 1e-9

	// boxMargin widens query boxes so rounding never drops a point that sits
	// exactly on the radius.
	boxMargin = 1.0001

	// polarLimit is the latitude beyond which query boxes are not attempted
	// and callers must fall back to a full scan.
	polarLimit = 89.0
)

// Index is an R-tree over coordinates keyed by their position ("slot") in an
// external ordered collection. It only prunes candidates; callers still apply
// HaversineKm to decide membership.
type Index struct {
	tree *rtreego.Rtree
}

type indexedPoint struct {
	rect rtreego.Rect
	slot int
}

func (p *indexedPoint) Bounds() rtreego.Rect {
	return p.rect
}

// NewIndex creates an empty two-dimensional index (lon, lat).
func NewIndex() *Index {
	return &Index{tree: rtreego.NewTree(2, 25, 50)}
}

// Insert records the coordinate of the item at slot.
func (ix *Index) Insert(slot int, lat, lon float64) {
	rect, err := rtreego.NewRect(rtreego.Point{lon, lat}, []float64{pointSize, pointSize})
	if err != nil {
		// Only non-positive lengths fail, and pointSize is a positive constant.
		panic(err)
	}
	ix.tree.Insert(&indexedPoint{rect: rect, slot: slot})
}

// Len returns the number of indexed points.
func (ix *Index) Len() int {
	return ix.tree.Size()
}

// Candidates returns, in ascending order, the slots of every indexed point that
// may lie within radiusKm of (lat, lon). The second result is false when no safe
// bounding box exists (near a pole or across the antimeridian); the caller must
// then scan every item instead.
func (ix *Index) Candidates(lat, lon, radiusKm float64) ([]int, bool) {
	minLon, minLat, maxLon, maxLat, ok := boundingBox(lat, lon, radiusKm)
	if !ok {
		return nil, false
	}

	query, err := rtreego.NewRect(
		rtreego.Point{minLon, minLat},
		[]float64{maxLon - minLon, maxLat - minLat},
	)
	if err != nil {
		return nil, false
	}

	hits := ix.tree.SearchIntersect(query)
	slots := make([]int, 0, len(hits))
	for _, h := range hits {
		slots = append(slots, h.(*indexedPoint).slot)
	}
	slices.Sort(slots)
	return slots, true
}

// boundingBox returns the smallest lon/lat box holding the spherical cap of
// radiusKm around (lat, lon), widened by boxMargin.
func boundingBox(lat, lon, radiusKm float64) (minLon, minLat, maxLon, maxLat float64, ok bool) {
	if radiusKm < 0 || math.IsNaN(radiusKm) {
		return 0, 0, 0, 0, false
	}

	angular := radiusKm / EarthRadiusKm * boxMargin
	dLat := angular * 180.0 / math.Pi
	minLat, maxLat = lat-dLat, lat+dLat
	if minLat < -polarLimit || maxLat > polarLimit {
		return 0, 0, 0, 0, false
	}

	latRad := lat * math.Pi / 180.0
	ratio := math.Sin(angular) / math.Cos(latRad)
	if ratio >= 1 {
		return 0, 0, 0, 0, false
	}
	dLon := math.Asin(ratio) * 180.0 / math.Pi * boxMargin
	minLon, maxLon = lon-dLon, lon+dLon
	if minLon < -180 || maxLon > 180 {
		return 0, 0, 0, 0, false
	}

	// Keep the query box strictly positive for rtreego.
	if dLat == 0 {
		minLat, maxLat = lat-pointSize, lat+pointSize
		minLon, maxLon = lon-pointSize, lon+pointSize
	}
	return minLon, minLat, maxLon, maxLat, true
}
