package prompts

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pbaille/wellkit/internal/domain"
)

type memPrefs struct {
	values  map[string]string
	sets    int
	failGet error
}

func (m *memPrefs) GetPreference(ctx context.Context, owner, key string) (string, error) {
	if m.failGet != nil {
		return "", m.failGet
	}
	v, ok := m.values[owner+"/"+key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memPrefs) SetPreference(ctx context.Context, owner, key, value string) error {
	m.sets++
	m.values[owner+"/"+key] = value
	return nil
}

func TestTodayIsStableWithinADay(t *testing.T) {
	prefs := &memPrefs{values: map[string]string{}}
	svc := New(prefs, nil, nil)
	ctx := context.Background()
	day := domain.Date("2024-06-15")

	first, err := svc.Today(ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, day, first.Date)
	assert.NotEmpty(t, first.Quote)
	assert.Len(t, first.Questions, questionsPerDay)

	seen := map[string]bool{}
	for _, q := range first.Questions {
		assert.False(t, seen[q], "questions must not repeat")
		seen[q] = true
	}

	again, err := svc.Today(ctx, "u1", day)
	require.NoError(t, err)
	assert.Equal(t, first, again)
	assert.Equal(t, 1, prefs.sets)

	next, err := svc.Today(ctx, "u1", day.AddDays(1))
	require.NoError(t, err)
	assert.Equal(t, day.AddDays(1), next.Date)
	assert.Equal(t, 2, prefs.sets)
}

func TestTodayPropagatesStoreErrors(t *testing.T) {
	prefs := &memPrefs{values: map[string]string{}, failGet: errors.New("db closed")}
	_, err := New(prefs, nil, nil).Today(context.Background(), "u1", "2024-06-15")
	assert.Error(t, err)
}
