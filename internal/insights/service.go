package insights

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/singleflight"

	"github.com/pbaille/wellkit/internal/classifier"
	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/logger"
)

// historyLimit bounds how much mood history is loaded for trends and stats
const historyLimit = 500

// Analyzer turns a mood history into a trend report
type Analyzer interface {
	Analyze(ctx context.Context, history []domain.MoodRecord) domain.TrendReport
}

// Store is the persistence insights need
type Store interface {
	ListMoods(ctx context.Context, owner string, limit int) ([]domain.MoodRecord, error)
}

// Service computes trend reports and mood statistics for an owner
type Service struct {
	store    Store
	analyzer Analyzer
	cache    Cache
	group    singleflight.Group
	log      *logger.Logger
}

// New creates an insights Service. cache may be nil.
func New(store Store, analyzer Analyzer, cache Cache, log *logger.Logger) *Service {
	if cache == nil {
		cache = NopCache{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{store: store, analyzer: analyzer, cache: cache, log: log}
}

// History returns the owner's mood records, newest first
func (s *Service) History(ctx context.Context, owner string) ([]domain.MoodRecord, error) {
	moods, err := s.store.ListMoods(ctx, owner, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("load mood history: %w", err)
	}
	return moods, nil
}

// Trend returns the owner's current trend report. Concurrent calls for the
// same owner share one model request.
func (s *Service) Trend(ctx context.Context, owner string) (domain.TrendReport, error) {
	history, err := s.History(ctx, owner)
	if err != nil {
		return domain.TrendReport{}, err
	}
	if len(history) < classifier.MinTrendSamples {
		return classifier.InsufficientData(), nil
	}

	key := trendKey(owner, history)
	v, _, _ := s.group.Do(key, func() (interface{}, error) {
		// shared by every waiter, so one caller leaving must not cancel it
		ctx := context.WithoutCancel(ctx)
		if cached, ok, err := s.cache.Get(ctx, key); err != nil {
			s.log.Warn("trend cache read failed", "error", err)
		} else if ok {
			return *cached, nil
		}

		report := s.analyzer.Analyze(ctx, history)
		if cacheable(report.Trend) {
			if err := s.cache.Set(ctx, key, report); err != nil {
				s.log.Warn("trend cache write failed", "error", err)
			}
		}
		return report, nil
	})
	return v.(domain.TrendReport), nil
}

// trendKey identifies the records the analyzer will look at. Any insert or
// delete inside the window yields a new key.
func trendKey(owner string, history []domain.MoodRecord) string {
	d := xxhash.New()
	for _, r := range classifier.Recent(history, classifier.TrendWindow) {
		d.WriteString(r.ID)
		d.WriteString("\x00")
	}
	return owner + ":" + strconv.FormatUint(d.Sum64(), 16)
}

func cacheable(t domain.Trend) bool {
	switch t {
	case domain.TrendImproving, domain.TrendStable, domain.TrendDeclining, domain.TrendVariable:
		return true
	}
	return false
}
