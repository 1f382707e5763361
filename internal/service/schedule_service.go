package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/backend"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

// ScheduleService владеет кэшами интервалов расписания.
//
// На каждую привязанную сессию заводится свой RangeCache, создаваемый при
// первом обращении и уничтожаемый при logout. Это явный владелец с
// жизненным циклом вместо глобального состояния.
type ScheduleService struct {
	client *backend.Client
	logger *zap.Logger

	mu     sync.Mutex
	caches map[int64]*schedule.RangeCache // telegramID -> кэш сессии
}

func NewScheduleService(client *backend.Client, logger *zap.Logger) *ScheduleService {
	return &ScheduleService{
		client: client,
		logger: logger,
		caches: make(map[int64]*schedule.RangeCache),
	}
}

// cacheFor возвращает кэш сессии, создавая его при первом обращении
func (s *ScheduleService) cacheFor(session *model.Session) *schedule.RangeCache {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cache, ok := s.caches[session.TelegramID]; ok {
		return cache
	}

	token := session.Token
	fetcher := func(ctx context.Context, start, end time.Time) ([]model.Slot, error) {
		resp, err := s.client.Fetch(ctx, token, start, end)
		if err != nil {
			return nil, err
		}
		return schedule.Normalize(resp), nil
	}

	cache := schedule.NewRangeCache(fetcher, s.logger)
	s.caches[session.TelegramID] = cache
	return cache
}

// DropCache уничтожает кэш сессии (вызывается при logout)
func (s *ScheduleService) DropCache(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.caches, telegramID)
}

// EnsureRange гарантирует что кэш сессии покрывает [start, end]
func (s *ScheduleService) EnsureRange(ctx context.Context, session *model.Session, start, end time.Time) error {
	return s.cacheFor(session).EnsureRange(ctx, start, end)
}

// Refetch перезагружает текущий интервал сессии после мутации
func (s *ScheduleService) Refetch(ctx context.Context, session *model.Session) error {
	s.mu.Lock()
	cache, ok := s.caches[session.TelegramID]
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return cache.Refetch(ctx)
}

// SlotsBetween возвращает кэшированные слоты, начинающиеся в [start, end).
// Слот относится ко дню своего начала, даже если заканчивается позже end.
func (s *ScheduleService) SlotsBetween(session *model.Session, start, end time.Time) []model.Slot {
	current := s.cacheFor(session).Current()

	var out []model.Slot
	for _, slot := range current.Slots {
		if !slot.Start.Before(start) && slot.Start.Before(end) {
			out = append(out, slot)
		}
	}
	return out
}

// WeekSlots подгружает и возвращает слоты недели referenceDate,
// сгруппированные по локальным дням
func (s *ScheduleService) WeekSlots(ctx context.Context, session *model.Session, referenceDate time.Time) ([]schedule.WeekDay, map[string][]model.Slot, error) {
	weekStart := schedule.StartOfWeek(referenceDate)
	weekEnd := weekStart.AddDate(0, 0, 7)

	if err := s.EnsureRange(ctx, session, weekStart, weekEnd); err != nil {
		return nil, nil, err
	}

	days := schedule.WeekDays(referenceDate)
	grouped := schedule.GroupByLocalDay(s.SlotsBetween(session, weekStart, weekEnd))
	return days, grouped, nil
}

// TodaySlots подгружает и возвращает слоты текущего локального дня
func (s *ScheduleService) TodaySlots(ctx context.Context, session *model.Session, now time.Time) ([]model.Slot, error) {
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	if err := s.EnsureRange(ctx, session, dayStart, dayEnd); err != nil {
		return nil, err
	}
	return s.SlotsBetween(session, dayStart, dayEnd), nil
}

// FindSlot ищет слот по составному ключу (тип, id родителя, id вхождения)
// среди закэшированных слотов сессии
func (s *ScheduleService) FindSlot(session *model.Session, slotType model.SlotType, parentID, occurrenceID int64) *model.Slot {
	current := s.cacheFor(session).Current()

	for i := range current.Slots {
		slot := &current.Slots[i]
		if slot.Type == slotType && slot.ParentID() == parentID && slot.OccurrenceID == occurrenceID {
			return slot
		}
	}
	return nil
}

// ActiveSessionIDs возвращает Telegram ID всех сессий с живым кэшем
func (s *ScheduleService) ActiveSessionIDs() []int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]int64, 0, len(s.caches))
	for id := range s.caches {
		ids = append(ids, id)
	}
	return ids
}
