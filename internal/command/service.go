// Package command implements the registry operations offered to the console
// and CLI: register, find nearby, sort, find by ID, save, and exit.
package command

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/couchcryptid/disaster-report-registry/internal/codec"
	"github.com/couchcryptid/disaster-report-registry/internal/domain"
	"github.com/couchcryptid/disaster-report-registry/internal/observability"
	"github.com/couchcryptid/disaster-report-registry/internal/store"
	"github.com/jonboulle/clockwork"
)

// NearbyRadiusKm is the fixed, inclusive radius of a nearby query.
const NearbyRadiusKm = 10.0

// Registration is the raw input for a new report.
type Registration struct {
	Name        string
	NationalID  string
	Description string
	Latitude    float64
	Longitude   float64
}

// LoadResult summarizes how the data file was read at startup.
type LoadResult struct {
	Loaded    int
	Missing   bool  // no data file existed yet
	StoppedAt int   // 1-based line where decoding stopped; 0 when the whole file loaded
	Err       error // the decode or read error behind StoppedAt, if any
}

// Service owns the report store and runs every command against it.
// It is not safe for concurrent use; only CheckReadiness may be called from
// other goroutines.
type Service struct {
	store   *store.Store
	path    string
	logger  *slog.Logger
	metrics *observability.Metrics
	clock   clockwork.Clock
	ready   atomic.Bool
}

// NewService creates a Service that persists st to path.
func NewService(st *store.Store, path string, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock) *Service {
	return &Service{
		store:   st,
		path:    path,
		logger:  logger,
		metrics: metrics,
		clock:   clock,
	}
}

// Path returns the data file the service loads from and saves to.
func (s *Service) Path() string {
	return s.path
}

// CheckReadiness returns nil once the data file has been loaded.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("reports have not been loaded yet")
	}
	return nil
}

// Load populates the store from the data file. A missing file leaves the store
// empty. A malformed line keeps the reports before it and is reported in the
// result, not as an error. Only unreadable files and capacity failures are errors.
func (s *Service) Load() (LoadResult, error) {
	defer s.observe("load")()

	reports, err := codec.LoadFile(s.path)
	var res LoadResult
	if err != nil {
		var lineErr *codec.LineError
		if !errors.As(err, &lineErr) {
			s.logger.Error("load reports failed", "path", s.path, "error", err)
			return res, err
		}
		res.StoppedAt = lineErr.Line
		res.Err = err
		s.logger.Warn("data file truncated at malformed line",
			"path", s.path,
			"line", lineErr.Line,
			"loaded", len(reports),
			"error", err,
		)
	}
	if reports == nil && err == nil {
		res.Missing = s.fileMissing()
	}

	for _, r := range reports {
		if _, err := s.store.Append(r); err != nil {
			s.logger.Error("load reports failed", "path", s.path, "error", err)
			return res, err
		}
		res.Loaded++
	}

	s.metrics.StoreReports.Set(float64(s.store.Len()))
	s.ready.Store(true)
	s.logger.Info("reports loaded", "path", s.path, "reports", res.Loaded, "missing", res.Missing)
	return res, nil
}

// Register validates the input and appends a new report, returning its position.
func (s *Service) Register(in Registration) (int, error) {
	defer s.observe("register")()

	r, err := domain.NewReport(in.Name, in.NationalID, in.Description, in.Latitude, in.Longitude)
	if err != nil {
		s.rejected(err)
		return -1, fmt.Errorf("register report: %w", err)
	}

	pos, err := s.store.Append(r)
	if err != nil {
		s.logger.Error("append report failed", "error", err)
		return -1, fmt.Errorf("register report: %w", err)
	}

	s.metrics.ReportsRegistered.Inc()
	s.metrics.StoreReports.Set(float64(s.store.Len()))
	s.logger.Debug("report registered", "position", pos, "national_id", r.NationalID)
	return pos, nil
}

// FindNearby returns the reports within NearbyRadiusKm of (lat, lon), in store order.
func (s *Service) FindNearby(lat, lon float64) ([]store.Match, error) {
	defer s.observe("nearby")()

	if !domain.IsValidLatitude(lat) {
		err := &domain.ValidationError{Field: "latitude", Reason: "must be between -90 and 90"}
		s.rejected(err)
		return nil, err
	}
	if !domain.IsValidLongitude(lon) {
		err := &domain.ValidationError{Field: "longitude", Reason: "must be between -180 and 180"}
		s.rejected(err)
		return nil, err
	}

	matches := s.store.FindWithinRadius(lat, lon, NearbyRadiusKm)
	s.metrics.NearbyQueries.Inc()
	s.metrics.NearbyMatches.Observe(float64(len(matches)))
	return matches, nil
}

// Sort orders the store by reporter name.
func (s *Service) Sort() {
	defer s.observe("sort")()
	s.store.SortByName()
}

// FindByID looks up the first report with the given national ID. The ID must be
// well formed; an unknown ID is reported through the bool, not an error.
func (s *Service) FindByID(id string) (domain.Report, bool, error) {
	defer s.observe("find")()

	if !domain.IsValidNationalID(id) {
		err := &domain.ValidationError{Field: "national_id", Reason: "must be exactly 11 digits"}
		s.rejected(err)
		return domain.Report{}, false, err
	}

	r, ok := s.store.FindByNationalID(id)
	if ok {
		s.metrics.Lookups.WithLabelValues("found").Inc()
	} else {
		s.metrics.Lookups.WithLabelValues("not_found").Inc()
	}
	return r, ok, nil
}

// Reports returns a copy of the stored reports in current order.
func (s *Service) Reports() []domain.Report {
	return s.store.All()
}

// Save writes every report to the data file. On failure the store is untouched
// and the save can be retried.
func (s *Service) Save() error {
	defer s.observe("save")()

	if err := codec.SaveFile(s.path, s.store.All()); err != nil {
		s.metrics.Saves.WithLabelValues("error").Inc()
		s.logger.Error("save reports failed", "path", s.path, "error", err)
		return err
	}

	s.metrics.Saves.WithLabelValues("success").Inc()
	s.logger.Info("reports saved",
		"path", s.path,
		"reports", s.store.Len(),
		"saved_at", s.clock.Now().UTC(),
	)
	return nil
}

// Exit flushes the store to the data file before the program stops.
func (s *Service) Exit() error {
	if err := s.Save(); err != nil {
		return fmt.Errorf("save before exit: %w", err)
	}
	return nil
}

// observe records the duration of a command. Use as: defer s.observe("name")().
func (s *Service) observe(command string) func() {
	start := s.clock.Now()
	return func() {
		s.metrics.CommandDuration.WithLabelValues(command).Observe(s.clock.Since(start).Seconds())
	}
}

func (s *Service) fileMissing() bool {
	_, err := os.Stat(s.path)
	return errors.Is(err, fs.ErrNotExist)
}

func (s *Service) rejected(err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		s.metrics.ValidationErrors.WithLabelValues(verr.Field).Inc()
	}
	s.logger.Debug("input rejected", "error", err)
}
