// Package store holds the in-memory, ordered collection of reports.
//
// A Store is not safe for concurrent use. It is owned by a single command
// loop and mutated only from there.
package store

import (
	"math"
	"slices"
	"strings"

	"github.com/couchcryptid/disaster-report-registry/internal/domain"
	"github.com/couchcryptid/disaster-report-registry/internal/geo"
)

// initialCapacity is the backing size allocated on the first append.
// Capacity doubles every time the store fills up.
const initialCapacity = 10

// maxCapacity bounds growth so doubling can never overflow an int.
var maxCapacity = math.MaxInt / 2

// Match is a report returned by a radius query, annotated with its distance
// from the query origin.
type Match struct {
	Position   int // zero-based position in the store at query time
	Report     domain.Report
	DistanceKm float64
}

// Option configures a Store.
type Option func(*Store)

// WithSpatialIndex keeps an R-tree of report coordinates so radius queries
// only compute distances for nearby candidates.
func WithSpatialIndex() Option {
	return func(s *Store) {
		s.index = geo.NewIndex()
	}
}

// Store is an ordered, append-only sequence of reports. Insertion order holds
// until SortByName is called.
type Store struct {
	reports []domain.Report
	index   *geo.Index
}

// New creates an empty Store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds r to the end of the store and returns its position.
// It fails with *domain.CapacityError only when the backing array cannot grow.
func (s *Store) Append(r domain.Report) (int, error) {
	if len(s.reports) == cap(s.reports) {
		if err := s.grow(); err != nil {
			return -1, err
		}
	}

	pos := len(s.reports)
	s.reports = append(s.reports, r)
	if s.index != nil {
		s.index.Insert(pos, r.Latitude, r.Longitude)
	}
	return pos, nil
}

// grow doubles the backing array, starting at initialCapacity.
func (s *Store) grow() error {
	next := initialCapacity
	if c := cap(s.reports); c > 0 {
		if c > maxCapacity {
			return &domain.CapacityError{Requested: c + 1}
		}
		next = c * 2
	}

	grown := make([]domain.Report, len(s.reports), next)
	copy(grown, s.reports)
	s.reports = grown
	return nil
}

// Len returns the number of stored reports.
func (s *Store) Len() int {
	return len(s.reports)
}

// Cap returns the size of the backing array.
func (s *Store) Cap() int {
	return cap(s.reports)
}

// At returns the report at position i. It panics if i is out of range.
func (s *Store) At(i int) domain.Report {
	return s.reports[i]
}

// All returns a copy of the reports in current order.
func (s *Store) All() []domain.Report {
	return slices.Clone(s.reports)
}

// FindByNationalID returns the first report, in current order, whose national
// ID equals id.
func (s *Store) FindByNationalID(id string) (domain.Report, bool) {
	for _, r := range s.reports {
		if r.NationalID == id {
			return r, true
		}
	}
	return domain.Report{}, false
}

// SortByName orders the reports by name using byte-wise comparison.
// The sort is not stable: reports with equal names end up in unspecified order.
func (s *Store) SortByName() {
	if len(s.reports) < 2 {
		return
	}
	slices.SortFunc(s.reports, func(a, b domain.Report) int {
		return strings.Compare(a.Name, b.Name)
	})
	s.reindex()
}

// FindWithinRadius returns every report whose Haversine distance from
// (lat, lon) is at most radiusKm, in store order.
func (s *Store) FindWithinRadius(lat, lon, radiusKm float64) []Match {
	if s.index != nil {
		if slots, ok := s.index.Candidates(lat, lon, radiusKm); ok {
			return s.filter(slots, lat, lon, radiusKm)
		}
	}

	var matches []Match
	for i, r := range s.reports {
		d := geo.HaversineKm(lat, lon, r.Latitude, r.Longitude)
		if d <= radiusKm {
			matches = append(matches, Match{Position: i, Report: r, DistanceKm: d})
		}
	}
	return matches
}

// filter applies the exact distance check to the given ascending positions.
func (s *Store) filter(slots []int, lat, lon, radiusKm float64) []Match {
	var matches []Match
	for _, i := range slots {
		r := s.reports[i]
		d := geo.HaversineKm(lat, lon, r.Latitude, r.Longitude)
		if d <= radiusKm {
			matches = append(matches, Match{Position: i, Report: r, DistanceKm: d})
		}
	}
	return matches
}

// reindex rebuilds the spatial index after positions change.
func (s *Store) reindex() {
	if s.index == nil {
		return
	}
	s.index = geo.NewIndex()
	for i, r := range s.reports {
		s.index.Insert(i, r.Latitude, r.Longitude)
	}
}
