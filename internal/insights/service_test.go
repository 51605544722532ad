package insights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/wellkit/internal/classifier"
	"github.com/pbaille/wellkit/internal/domain"
)

type fakeStore struct {
	moods []domain.MoodRecord
	err   error
}

func (f *fakeStore) ListMoods(ctx context.Context, owner string, limit int) ([]domain.MoodRecord, error) {
	return f.moods, f.err
}

type countingAnalyzer struct {
	calls  atomic.Int32
	report domain.TrendReport
	delay  time.Duration
}

func (c *countingAnalyzer) Analyze(ctx context.Context, history []domain.MoodRecord) domain.TrendReport {
	c.calls.Add(1)
	time.Sleep(c.delay)
	return c.report
}

type mapCache struct {
	mu sync.Mutex
	m  map[string]domain.TrendReport
}

func (c *mapCache) Get(ctx context.Context, key string) (*domain.TrendReport, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.m[key]
	if !ok {
		return nil, false, nil
	}
	return &r, true, nil
}

func (c *mapCache) Set(ctx context.Context, key string, r domain.TrendReport) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = r
	return nil
}

func records(n int) []domain.MoodRecord {
	out := make([]domain.MoodRecord, n)
	base := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	for i := range out {
		// newest first, like the store
		out[i] = domain.MoodRecord{
			ID:        fmt.Sprintf("m%d", n-i),
			Label:     domain.MoodHappy,
			Score:     4,
			CreatedAt: base.AddDate(0, 0, -i),
		}
	}
	return out
}

var improving = domain.TrendReport{
	Trend:          domain.TrendImproving,
	Insights:       []string{"up"},
	Recommendation: "keep going",
}

func TestTrendInsufficientDataSkipsAnalyzer(t *testing.T) {
	an := &countingAnalyzer{report: improving}
	svc := New(&fakeStore{moods: records(2)}, an, nil, nil)

	got, err := svc.Trend(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, domain.TrendInsufficientData, got.Trend)
	assert.Zero(t, an.calls.Load())
}

func TestTrendIsCachedPerLatestRecord(t *testing.T) {
	an := &countingAnalyzer{report: improving}
	cache := &mapCache{m: map[string]domain.TrendReport{}}
	st := &fakeStore{moods: records(4)}
	svc := New(st, an, cache, nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := svc.Trend(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, improving, got)
	}
	assert.Equal(t, int32(1), an.calls.Load())

	st.moods = records(5)
	_, err := svc.Trend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), an.calls.Load())
}

func TestTrendRecomputedAfterOlderRecordDeleted(t *testing.T) {
	an := &countingAnalyzer{report: improving}
	cache := &mapCache{m: map[string]domain.TrendReport{}}
	st := &fakeStore{moods: records(5)}
	svc := New(st, an, cache, nil)
	ctx := context.Background()

	_, err := svc.Trend(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, int32(1), an.calls.Load())

	// drop m3, leaving the newest record in place
	st.moods = append(append([]domain.MoodRecord{}, st.moods[:2]...), st.moods[3:]...)
	_, err = svc.Trend(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), an.calls.Load())
}

func TestTrendKeyIgnoresRecordsOutsideWindow(t *testing.T) {
	history := records(classifier.TrendWindow + 2)
	trimmed := history[:classifier.TrendWindow]

	assert.Equal(t, trendKey("u1", history), trendKey("u1", trimmed))
	assert.NotEqual(t, trendKey("u1", history), trendKey("u2", history))
	assert.NotEqual(t, trendKey("u1", history), trendKey("u1", history[1:]))
}

type ctxAnalyzer struct {
	once    sync.Once
	started chan struct{}
	release chan struct{}
}

func (c *ctxAnalyzer) Analyze(ctx context.Context, history []domain.MoodRecord) domain.TrendReport {
	c.once.Do(func() { close(c.started) })
	<-c.release
	if ctx.Err() != nil {
		return classifier.UnknownTrend()
	}
	return improving
}

func TestTrendSurvivesFirstCallerCancel(t *testing.T) {
	an := &ctxAnalyzer{started: make(chan struct{}), release: make(chan struct{})}
	svc := New(&fakeStore{moods: records(3)}, an, nil, nil)

	first, cancel := context.WithCancel(context.Background())
	firstDone := make(chan domain.TrendReport, 1)
	go func() {
		got, _ := svc.Trend(first, "u1")
		firstDone <- got
	}()
	<-an.started

	secondDone := make(chan domain.TrendReport, 1)
	go func() {
		got, _ := svc.Trend(context.Background(), "u1")
		secondDone <- got
	}()
	// give the second caller time to join the in-flight call
	time.Sleep(20 * time.Millisecond)
	cancel()
	close(an.release)

	assert.Equal(t, domain.TrendImproving, (<-firstDone).Trend)
	assert.Equal(t, domain.TrendImproving, (<-secondDone).Trend)
}

func TestTrendFallbackIsNotCached(t *testing.T) {
	an := &countingAnalyzer{report: classifier.UnknownTrend()}
	cache := &mapCache{m: map[string]domain.TrendReport{}}
	svc := New(&fakeStore{moods: records(3)}, an, cache, nil)

	for i := 0; i < 2; i++ {
		got, err := svc.Trend(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, domain.TrendUnknown, got.Trend)
	}
	assert.Equal(t, int32(2), an.calls.Load())
	assert.Empty(t, cache.m)
}

func TestTrendConcurrentCallsShareAnalysis(t *testing.T) {
	an := &countingAnalyzer{report: improving, delay: 50 * time.Millisecond}
	svc := New(&fakeStore{moods: records(3)}, an, nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := svc.Trend(context.Background(), "u1")
			assert.NoError(t, err)
			assert.Equal(t, domain.TrendImproving, got.Trend)
		}()
	}
	wg.Wait()
	assert.Less(t, an.calls.Load(), int32(5))
}

func TestTrendStoreError(t *testing.T) {
	svc := New(&fakeStore{err: errors.New("db locked")}, &countingAnalyzer{}, nil, nil)
	_, err := svc.Trend(context.Background(), "u1")
	assert.Error(t, err)
}
