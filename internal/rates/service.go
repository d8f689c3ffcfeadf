package rates

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/themobileprof/omnibar/internal/interfaces"
	"github.com/themobileprof/omnibar/pkg/models"
)

// memoryKey addresses the single rate table held in the memory cache
const memoryKey = "rates"

// DefaultTTL bounds how long a fetched table stays usable
const DefaultTTL = 24 * time.Hour

// Service owns the exchange-rate table: an in-memory TTL cache in front of
// a persisted copy, refreshed from the provider. Concurrent refreshes are
// collapsed into a single in-flight fetch; all callers share its result.
type Service struct {
	provider interfaces.RateProvider
	store    interfaces.RateCache
	memory   *gocache.Cache
	group    singleflight.Group
	ttl      time.Duration
	base     string
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a rate service. store may be nil when persistence is
// not wanted (tests).
func NewService(provider interfaces.RateProvider, store interfaces.RateCache, ttl time.Duration, base string, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if base == "" {
		base = "USD"
	}
	return &Service{
		provider: provider,
		store:    store,
		memory:   gocache.New(ttl, ttl),
		ttl:      ttl,
		base:     base,
		logger:   logger,
		now:      time.Now,
	}
}

// Base returns the fixed base currency all rates are relative to
func (s *Service) Base() string {
	return s.base
}

// Fresh returns the cached rate table when one younger than the TTL is
// available, checking memory first and falling back to the persisted copy
// (which re-warms memory). Never touches the network.
func (s *Service) Fresh() (models.RateTable, bool) {
	if v, ok := s.memory.Get(memoryKey); ok {
		table := v.(models.RateTable)
		if table.FresherThan(s.ttl, s.now()) {
			return table, true
		}
	}

	if s.store != nil {
		table, ok, err := s.store.Load()
		if err != nil {
			s.logger.Warn("rates: persisted cache read failed", zap.Error(err))
			return models.RateTable{}, false
		}
		if ok && table.FresherThan(s.ttl, s.now()) {
			s.memory.Set(memoryKey, table, gocache.DefaultExpiration)
			return table, true
		}
	}

	return models.RateTable{}, false
}

// Get returns a fresh table, refreshing from the provider when the cache
// is stale or missing.
func (s *Service) Get(ctx context.Context) (models.RateTable, error) {
	if table, ok := s.Fresh(); ok {
		return table, nil
	}
	return s.Refresh(ctx)
}

// Refresh fetches the table from the provider. Concurrent callers are
// deduplicated; only one fetch is in flight at a time and everyone gets
// the same result. On success the memory entry is replaced atomically and
// the table is persisted.
func (s *Service) Refresh(ctx context.Context) (models.RateTable, error) {
	v, err, _ := s.group.Do(memoryKey, func() (interface{}, error) {
		// Staleness is the only fetch trigger. A table still inside the
		// TTL is served as-is, including to callers that queued while a
		// previous flight was refreshing it.
		if table, ok := s.Fresh(); ok {
			return table, nil
		}

		rateMap, err := s.provider.Fetch(ctx, s.base)
		if err != nil {
			s.logger.Warn("rates: fetch failed", zap.String("base", s.base), zap.Error(err))
			return nil, err
		}

		table := models.RateTable{
			Base:      s.base,
			Rates:     rateMap,
			FetchedAt: s.now().UnixMilli(),
		}

		s.memory.Set(memoryKey, table, gocache.DefaultExpiration)

		if s.store != nil {
			if err := s.store.Save(table); err != nil {
				// Persistence failure is non-fatal; the in-memory table
				// still serves this process.
				s.logger.Warn("rates: persist failed", zap.Error(err))
			}
		}

		s.logger.Info("rates: table refreshed",
			zap.String("base", s.base),
			zap.Int("codes", len(rateMap)),
		)
		return table, nil
	})
	if err != nil {
		return models.RateTable{}, err
	}
	return v.(models.RateTable), nil
}

// RefreshAsync triggers a background refresh, used to warm the cache from
// a match without blocking it.
func (s *Service) RefreshAsync() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_, _ = s.Refresh(ctx)
	}()
}
