package schedule

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// Fetcher загружает слоты для интервала [start, end] с бэкенда
type Fetcher func(ctx context.Context, start, end time.Time) ([]model.Slot, error)

// RangeCache кэш непрерывного интервала расписания одной сессии.
//
// Кэш хранит один ScheduleRange и расширяет его по запросу. Запросы
// сериализуются мьютексом: одновременные EnsureRange выстраиваются в
// очередь вместо гонки "последняя запись побеждает". Неудачный fetch
// оставляет кэш нетронутым, повторных попыток нет.
type RangeCache struct {
	mu      sync.Mutex
	current model.ScheduleRange
	fetch   Fetcher
	logger  *zap.Logger
}

// NewRangeCache создаёт пустой кэш с внедрённым загрузчиком
func NewRangeCache(fetch Fetcher, logger *zap.Logger) *RangeCache {
	return &RangeCache{
		fetch:  fetch,
		logger: logger,
	}
}

// Current возвращает копию текущего состояния кэша
func (c *RangeCache) Current() model.ScheduleRange {
	c.mu.Lock()
	defer c.mu.Unlock()

	snapshot := c.current
	snapshot.Slots = append([]model.Slot(nil), c.current.Slots...)
	return snapshot
}

// EnsureRange гарантирует что кэш покрывает [start, end].
//
// Пустой кэш загружает ровно запрошенный интервал. Если интервал уже
// покрыт - сетевого вызова нет. Иначе загружается объединение
// кэшированного и запрошенного интервалов, и кэш заменяется целиком.
func (c *RangeCache) EnsureRange(ctx context.Context, start, end time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current.Initialized() {
		slots, err := c.fetch(ctx, start, end)
		if err != nil {
			return fmt.Errorf("fetch schedule range: %w", err)
		}
		c.current = model.ScheduleRange{Slots: slots, StartTime: start, EndTime: end}
		return nil
	}

	if c.current.Covers(start, end) {
		return nil
	}

	newStart := c.current.StartTime
	if start.Before(newStart) {
		newStart = start
	}
	newEnd := c.current.EndTime
	if end.After(newEnd) {
		newEnd = end
	}

	slots, err := c.fetch(ctx, newStart, newEnd)
	if err != nil {
		return fmt.Errorf("expand schedule range: %w", err)
	}

	c.logger.Debug("Schedule range expanded",
		zap.Time("start", newStart),
		zap.Time("end", newEnd),
		zap.Int("slots", len(slots)))

	c.current = model.ScheduleRange{Slots: slots, StartTime: newStart, EndTime: newEnd}
	return nil
}

// Refetch перезагружает текущий кэшированный интервал без расширения.
// Используется после мутаций (update/delete/reschedule/завершение сессии).
// Для неинициализированного кэша это no-op.
func (c *RangeCache) Refetch(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current.Initialized() {
		return nil
	}

	slots, err := c.fetch(ctx, c.current.StartTime, c.current.EndTime)
	if err != nil {
		return fmt.Errorf("refetch schedule range: %w", err)
	}

	c.current.Slots = slots
	return nil
}

// Reset сбрасывает кэш в неинициализированное состояние (logout)
func (c *RangeCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.current = model.ScheduleRange{}
}
