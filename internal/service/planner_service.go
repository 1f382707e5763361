package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/backend"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

// PlannerService корзина планирования и все мутации расписания.
//
// Корзина и полученные кандидаты живут в памяти процесса по чатам.
// После каждой успешной мутации кэш расписания сессии перезагружается
// без изменения покрытого окна.
type PlannerService struct {
	client    *backend.Client
	schedules *ScheduleService
	logger    *zap.Logger

	mu        sync.Mutex
	carts     map[int64]*model.Cart
	potential map[int64]*model.PotentialSchedulesData
}

func NewPlannerService(client *backend.Client, schedules *ScheduleService, logger *zap.Logger) *PlannerService {
	return &PlannerService{
		client:    client,
		schedules: schedules,
		logger:    logger,
		carts:     make(map[int64]*model.Cart),
		potential: make(map[int64]*model.PotentialSchedulesData),
	}
}

// cartFor возвращает корзину чата, создавая её при первом обращении
func (s *PlannerService) cartFor(telegramID int64) *model.Cart {
	cart, ok := s.carts[telegramID]
	if !ok {
		cart = &model.Cart{}
		s.carts[telegramID] = cart
	}
	return cart
}

// Cart возвращает копию корзины чата
func (s *PlannerService) Cart(telegramID int64) model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return *s.cartFor(telegramID)
}

// ClearCart очищает корзину чата
func (s *PlannerService) ClearCart(telegramID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.carts, telegramID)
}

// AddMeeting добавляет черновик встречи в корзину
func (s *PlannerService) AddMeeting(telegramID int64, draft model.MeetingDraft) {
	draft.ID = uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(telegramID)
	cart.Meetings = append(cart.Meetings, draft)
}

// AddAssignment добавляет черновик задания в корзину
func (s *PlannerService) AddAssignment(telegramID int64, draft model.AssignmentDraft) {
	draft.ID = uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(telegramID)
	cart.Assignments = append(cart.Assignments, draft)
}

// AddChore добавляет черновик дела в корзину
func (s *PlannerService) AddChore(telegramID int64, draft model.ChoreDraft) {
	draft.ID = uuid.New()

	s.mu.Lock()
	defer s.mu.Unlock()

	cart := s.cartFor(telegramID)
	cart.Chores = append(cart.Chores, draft)
}

// SubmitSchedule отправляет корзину на /schedule и сохраняет кандидатов.
// Черновики встреч разворачиваются в пары (start, end) здесь, при отправке.
// Корзина очищается только после успешного ответа.
func (s *PlannerService) SubmitSchedule(ctx context.Context, session *model.Session) (*model.PotentialSchedulesData, error) {
	cart := s.Cart(session.TelegramID)
	if cart.Empty() {
		return nil, fmt.Errorf("planning cart is empty")
	}

	req := backend.ScheduleRequest{
		Meetings:        make([]backend.MeetingPayload, 0, len(cart.Meetings)),
		Assignments:     make([]backend.AssignmentPayload, 0, len(cart.Assignments)),
		Chores:          make([]backend.ChorePayload, 0, len(cart.Chores)),
		TZOffsetMinutes: schedule.TZOffsetMinutes(time.Now()),
	}

	for _, m := range cart.Meetings {
		occurrences := schedule.Expand(m.StartTime, m.EndTime, m.Recurrence, m.RepeatEnd)
		req.Meetings = append(req.Meetings, backend.MeetingPayload{
			Name:          m.Name,
			StartEndTimes: schedule.EncodeOccurrences(occurrences),
			LinkOrLoc:     m.LinkOrLoc,
		})
	}
	for _, a := range cart.Assignments {
		req.Assignments = append(req.Assignments, backend.AssignmentPayload{
			Name:   a.Name,
			Effort: a.Effort,
			Due:    schedule.FormatBackendTime(a.Due),
		})
	}
	for _, c := range cart.Chores {
		req.Chores = append(req.Chores, backend.ChorePayload{
			Name: c.Name,
			Window: [2]string{
				schedule.FormatBackendTime(c.WindowStart),
				schedule.FormatBackendTime(c.WindowEnd),
			},
			Effort: c.Effort,
		})
	}

	data, err := s.client.Schedule(ctx, session.Token, req)
	if err != nil {
		return nil, fmt.Errorf("submit schedule: %w", err)
	}

	s.mu.Lock()
	delete(s.carts, session.TelegramID)
	s.potential[session.TelegramID] = data
	s.mu.Unlock()

	s.logger.Info("Schedule submitted",
		zap.Int64("telegram_id", session.TelegramID),
		zap.Int("candidates", len(data.Schedules)))

	return data, nil
}

// Potential возвращает последних полученных кандидатов расписания
func (s *PlannerService) Potential(telegramID int64) *model.PotentialSchedulesData {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.potential[telegramID]
}

// ChooseSchedule фиксирует кандидата с индексом idx через /setSchedule
func (s *PlannerService) ChooseSchedule(ctx context.Context, session *model.Session, idx int) error {
	data := s.Potential(session.TelegramID)
	if data == nil || idx < 0 || idx >= len(data.Schedules) {
		return fmt.Errorf("no potential schedule with index %d", idx)
	}

	chosen := data.Schedules[idx]
	if err := s.client.SetSchedule(ctx, session.Token, &chosen); err != nil {
		return fmt.Errorf("set schedule: %w", err)
	}

	s.mu.Lock()
	delete(s.potential, session.TelegramID)
	s.mu.Unlock()

	return s.schedules.Refetch(ctx, session)
}

// Reschedule просит бэкенд перепланировать задание или дело.
// Новые кандидаты сохраняются для выбора, как после /schedule.
func (s *PlannerService) Reschedule(ctx context.Context, session *model.Session, req backend.RescheduleRequest) (*model.PotentialSchedulesData, error) {
	req.TZOffsetMinutes = schedule.TZOffsetMinutes(time.Now())

	data, err := s.client.Reschedule(ctx, session.Token, req)
	if err != nil {
		return nil, fmt.Errorf("reschedule: %w", err)
	}

	s.mu.Lock()
	s.potential[session.TelegramID] = data
	s.mu.Unlock()

	return data, nil
}

// UpdateMeeting меняет вхождение встречи и перечитывает кэш
func (s *PlannerService) UpdateMeeting(ctx context.Context, session *model.Session, req backend.UpdateMeetingRequest) error {
	if err := s.client.UpdateMeeting(ctx, session.Token, req); err != nil {
		return fmt.Errorf("update meeting: %w", err)
	}
	return s.schedules.Refetch(ctx, session)
}

// DeleteSlot удаляет вхождение встречи, задания или дела и перечитывает кэш
func (s *PlannerService) DeleteSlot(ctx context.Context, session *model.Session, slot *model.Slot, removeAllFuture bool) error {
	req := backend.DeleteRequest{
		OccurrenceID:    slot.OccurrenceID,
		RemoveAllFuture: removeAllFuture,
	}
	switch slot.Type {
	case model.SlotTypeMeeting:
		req.MeetingID = slot.MeetingID
	default:
		req.EventType = string(slot.Type)
	}

	if err := s.client.Delete(ctx, session.Token, req); err != nil {
		return fmt.Errorf("delete %s: %w", slot.Type, err)
	}
	return s.schedules.Refetch(ctx, session)
}

// MarkCompleted отмечает рабочий блок выполненным с оценкой locked_in
func (s *PlannerService) MarkCompleted(ctx context.Context, session *model.Session, slot *model.Slot, lockedIn int) error {
	req := backend.MarkCompletedRequest{
		OccurrenceID:    slot.OccurrenceID,
		Completed:       true,
		IsAssignment:    slot.Type == model.SlotTypeAssignment,
		LockedIn:        lockedIn,
		TZOffsetMinutes: schedule.TZOffsetMinutes(time.Now()),
	}

	if err := s.client.MarkSessionCompleted(ctx, session.Token, req); err != nil {
		return fmt.Errorf("mark session completed: %w", err)
	}
	return s.schedules.Refetch(ctx, session)
}
