package schedule

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// countingFetcher считает вызовы и запоминает последний запрошенный интервал
type countingFetcher struct {
	calls     int
	lastStart time.Time
	lastEnd   time.Time
	slots     []model.Slot
	err       error
}

func (f *countingFetcher) fetch(_ context.Context, start, end time.Time) ([]model.Slot, error) {
	f.calls++
	f.lastStart = start
	f.lastEnd = end
	if f.err != nil {
		return nil, f.err
	}
	return f.slots, nil
}

func day(d int) time.Time {
	return time.Date(2025, 7, d, 0, 0, 0, 0, time.UTC)
}

func TestEnsureRangeFirstFetch(t *testing.T) {
	fetcher := &countingFetcher{slots: []model.Slot{{Name: "Уборка", Type: model.SlotTypeChore}}}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	err := cache.EnsureRange(context.Background(), day(1), day(8))
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, day(1), fetcher.lastStart)
	assert.Equal(t, day(8), fetcher.lastEnd)

	current := cache.Current()
	assert.Equal(t, day(1), current.StartTime)
	assert.Equal(t, day(8), current.EndTime)
	assert.Len(t, current.Slots, 1)
}

func TestEnsureRangeCoveredNoFetch(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	require.NoError(t, cache.EnsureRange(context.Background(), day(1), day(15)))
	require.Equal(t, 1, fetcher.calls)

	// Вложенный интервал уже покрыт - сетевого вызова нет
	require.NoError(t, cache.EnsureRange(context.Background(), day(3), day(10)))
	assert.Equal(t, 1, fetcher.calls)

	// Граничные точки тоже покрыты
	require.NoError(t, cache.EnsureRange(context.Background(), day(1), day(15)))
	assert.Equal(t, 1, fetcher.calls)
}

func TestEnsureRangeExpandsToUnion(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	require.NoError(t, cache.EnsureRange(context.Background(), day(8), day(15)))
	require.Equal(t, 1, fetcher.calls)

	// Запрос левее кэша: загружается объединение интервалов одним вызовом
	require.NoError(t, cache.EnsureRange(context.Background(), day(1), day(10)))
	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, day(1), fetcher.lastStart)
	assert.Equal(t, day(15), fetcher.lastEnd)

	current := cache.Current()
	assert.Equal(t, day(1), current.StartTime)
	assert.Equal(t, day(15), current.EndTime)
}

func TestEnsureRangeFetchErrorKeepsCache(t *testing.T) {
	fetcher := &countingFetcher{slots: []model.Slot{{Name: "Курсовая", Type: model.SlotTypeAssignment}}}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	require.NoError(t, cache.EnsureRange(context.Background(), day(8), day(15)))

	fetcher.err = fmt.Errorf("backend unavailable")
	err := cache.EnsureRange(context.Background(), day(1), day(20))
	require.Error(t, err)

	// Кэш не тронут неудачным расширением
	current := cache.Current()
	assert.Equal(t, day(8), current.StartTime)
	assert.Equal(t, day(15), current.EndTime)
	assert.Len(t, current.Slots, 1)
}

func TestRefetchReloadsSameRange(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	require.NoError(t, cache.EnsureRange(context.Background(), day(1), day(8)))

	fetcher.slots = []model.Slot{{Name: "Созвон", Type: model.SlotTypeMeeting}}
	require.NoError(t, cache.Refetch(context.Background()))

	assert.Equal(t, 2, fetcher.calls)
	assert.Equal(t, day(1), fetcher.lastStart)
	assert.Equal(t, day(8), fetcher.lastEnd)
	assert.Len(t, cache.Current().Slots, 1)
}

func TestRefetchUninitializedNoop(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	require.NoError(t, cache.Refetch(context.Background()))
	assert.Equal(t, 0, fetcher.calls)
}

func TestResetClearsCache(t *testing.T) {
	fetcher := &countingFetcher{}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	require.NoError(t, cache.EnsureRange(context.Background(), day(1), day(8)))
	cache.Reset()

	current := cache.Current()
	assert.False(t, current.Initialized())

	// После сброса следующий запрос загружает ровно запрошенный интервал
	require.NoError(t, cache.EnsureRange(context.Background(), day(10), day(12)))
	assert.Equal(t, day(10), fetcher.lastStart)
	assert.Equal(t, day(12), fetcher.lastEnd)
}

func TestCurrentReturnsCopy(t *testing.T) {
	fetcher := &countingFetcher{slots: []model.Slot{{Name: "Уборка", Type: model.SlotTypeChore}}}
	cache := NewRangeCache(fetcher.fetch, zap.NewNop())

	require.NoError(t, cache.EnsureRange(context.Background(), day(1), day(8)))

	snapshot := cache.Current()
	snapshot.Slots[0].Name = "изменено"

	assert.Equal(t, "Уборка", cache.Current().Slots[0].Name)
}
