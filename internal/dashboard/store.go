package dashboard

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
	"github.com/hannaerdza/titanic-visualization/internal"
	"github.com/hannaerdza/titanic-visualization/internal/metrics"
	"github.com/hannaerdza/titanic-visualization/ports"
)

const (
	opPassengers = "list_passengers"
	opStatistics = "statistics"
)

// Store owns one dashboard's state: the passenger table, the statistics and the upload form.
// The mutex is never held across a request to the passenger API.
type Store struct {
	api     ports.PassengerAPI
	metrics *metrics.Metrics
	logger  *internal.Logger

	mu     sync.Mutex
	seq    uint64
	loaded bool
	table  TableState
	stats  Result[*passenger.Statistics]
	upload UploadState
}

// Option configures a Store
type Option func(*Store)

// WithMetrics records stale responses and uploads
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Store) { s.metrics = m }
}

// WithLogger sets the store's logger
func WithLogger(l *internal.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// WithRowsPerPage sets the initial page size
func WithRowsPerPage(rows int) Option {
	return func(s *Store) { s.table = NewTableState(rows) }
}

// NewStore creates an empty store; call Load to fetch the initial data
func NewStore(api ports.PassengerAPI, opts ...Option) *Store {
	s := &Store{
		api:    api,
		logger: internal.DefaultLogger,
		table:  NewTableState(DefaultRowsPerPage),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot is a consistent copy of the store for rendering
type Snapshot struct {
	Table  TableView
	Charts ChartsView
	Upload UploadView
}

// Snapshot returns the current state
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Table:  s.table.View(),
		Charts: NewChartsView(s.stats),
		Upload: s.upload.View(),
	}
}

// Loaded reports whether Load has run
func (s *Store) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

// Load fetches the passenger list and the statistics concurrently
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loaded = true
	s.mu.Unlock()
	return s.refreshAll(ctx)
}

// ChangeFilter updates one filter control and re-fetches the matching passengers
func (s *Store) ChangeFilter(ctx context.Context, field passenger.Field, value string) error {
	s.mu.Lock()
	next, err := s.table.WithFilter(field, value)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.table = next
	s.mu.Unlock()

	return s.RefreshPassengers(ctx)
}

// ReplaceFilter sets every filter control at once and re-fetches
func (s *Store) ReplaceFilter(ctx context.Context, f passenger.Filter) error {
	s.mu.Lock()
	next, err := s.table.WithFilters(f)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.table = next
	s.mu.Unlock()

	return s.RefreshPassengers(ctx)
}

// ResetFilters clears every filter control and re-fetches the unfiltered list
func (s *Store) ResetFilters(ctx context.Context) error {
	s.mu.Lock()
	s.table = s.table.WithoutFilters()
	s.mu.Unlock()

	return s.RefreshPassengers(ctx)
}

// SetPage moves the page window; no request is made
func (s *Store) SetPage(page int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.table.WithPage(page)
	if err != nil {
		return err
	}
	s.table = next
	return nil
}

// SetRowsPerPage changes the page size and resets to the first page; no request is made
func (s *Store) SetRowsPerPage(rows int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.table.WithRowsPerPage(rows)
	if err != nil {
		return err
	}
	s.table = next
	return nil
}

// RefreshPassengers fetches the list for the current filter. Only the newest request's response is applied.
func (s *Store) RefreshPassengers(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	predicate := s.table.Filter.Predicate()
	s.table.Passengers = s.table.Passengers.Begin(seq)
	s.mu.Unlock()

	records, err := s.api.ListPassengers(ctx, predicate)

	s.mu.Lock()
	defer s.mu.Unlock()
	resolved, ok := s.table.Passengers.Resolve(seq, records, err)
	if !ok {
		s.logger.Debug("[Store] Discarding stale passenger response #%d (newest #%d)", seq, s.table.Passengers.Seq)
		s.metrics.IncStale(opPassengers)
		return nil
	}
	s.table.Passengers = resolved
	if err != nil {
		s.logger.Error("[Store] Error fetching passenger data: %v", err)
		return err
	}
	s.table.Window.Page = clampPage(s.table.Window, len(records))
	s.logger.Debug("[Store] Loaded %d passengers for %v", len(records), predicate)
	return nil
}

// RefreshStatistics fetches the statistics payload. Only the newest request's response is applied.
func (s *Store) RefreshStatistics(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.stats = s.stats.Begin(seq)
	s.mu.Unlock()

	st, err := s.api.Statistics(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	resolved, ok := s.stats.Resolve(seq, st, err)
	if !ok {
		s.logger.Debug("[Store] Discarding stale statistics response #%d (newest #%d)", seq, s.stats.Seq)
		s.metrics.IncStale(opStatistics)
		return nil
	}
	s.stats = resolved
	if err != nil {
		s.logger.Error("[Store] Error fetching statistics: %v", err)
		return err
	}
	return nil
}

// refreshAll re-fetches passengers and statistics once each. A failure of one does not cancel the other.
func (s *Store) refreshAll(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.RefreshPassengers(ctx) })
	g.Go(func() error { return s.RefreshStatistics(ctx) })
	return g.Wait()
}

func clampPage(w Window, total int) int {
	last := w.PageCount(total) - 1
	if w.Page > last {
		return last
	}
	return w.Page
}
