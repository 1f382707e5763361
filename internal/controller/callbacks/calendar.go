package callbacks

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/backend"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/keyboard"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

// Callbacks действий со слотами календаря: редактирование и удаление
// встреч, удаление и перепланирование заданий и дел

// HandlePickRecurrence шаг выбора повторения в диалоге добавления встречи
func (h *Handler) HandlePickRecurrence(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	telegramID := callback.From.ID

	if h.StateManager.GetState(telegramID) != state.StateMeetingRecurrence {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Диалог уже завершён. Начните заново: /addmeeting")
		return
	}

	recurrence := strings.TrimPrefix(callback.Data, PickRecurrence)
	h.StateManager.SetData(telegramID, "meeting_recurrence", recurrence)

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	AnswerCallback(ctx, b, callback.ID, "")

	if recurrence == string(model.RecurrenceOnce) {
		h.StateManager.SetState(telegramID, state.StateMeetingLoc)
		h.sendMessage(ctx, b, msg.Chat.ID, "Шаг 5 из 5: ссылка или место встречи?")
		return
	}

	h.StateManager.SetState(telegramID, state.StateMeetingRepeatEnd)
	h.sendMessage(ctx, b, msg.Chat.ID,
		"До какой даты повторять?\n\nФормат: 02.01.2006 (например 31.12.2025)")
}

// HandleEditMeet показывает выбор поля встречи для редактирования
func (h *Handler) HandleEditMeet(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	raw := strings.TrimPrefix(callback.Data, EditMeet)

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("Название", EditMeetName+raw),
			keyboard.Button("Ссылка/место", EditMeetLoc+raw),
		).
		Build()

	AnswerCallback(ctx, b, callback.ID, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        "✏️ Что изменить у встречи?",
		ReplyMarkup: kb,
	})
}

// HandleEditMeetField начинает диалог редактирования поля встречи
func (h *Handler) HandleEditMeetField(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, prefix string, fieldState state.UserState) {
	meetingID, occurrenceID, err := parseIDPair(callback.Data, prefix)
	if err != nil {
		h.Logger.Error("Failed to parse meeting callback", zap.String("data", callback.Data), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	telegramID := callback.From.ID
	h.StateManager.SetData(telegramID, "update_meeting_id", meetingID)
	h.StateManager.SetData(telegramID, "update_occurrence_id", occurrenceID)
	h.StateManager.SetState(telegramID, fieldState)

	AnswerCallback(ctx, b, callback.ID, "")
	if fieldState == state.StateUpdateMeetingLoc {
		h.sendMessage(ctx, b, msg.Chat.ID, "✏️ Введите новую ссылку или место встречи:")
	} else {
		h.sendMessage(ctx, b, msg.Chat.ID, "✏️ Введите новое название встречи:")
	}
}

// HandleDeleteMeet показывает подтверждение удаления встречи
func (h *Handler) HandleDeleteMeet(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	raw := strings.TrimPrefix(callback.Data, DeleteMeet)

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("Только это вхождение", DeleteMeetOne+raw)).
		Row(keyboard.Button("Это и все будущие", DeleteMeetAll+raw)).
		Row(keyboard.Button("Отмена", Noop)).
		Build()

	AnswerCallback(ctx, b, callback.ID, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        "🗑 Удалить встречу?",
		ReplyMarkup: kb,
	})
}

// HandleDeleteMeetScoped удаляет вхождение встречи (одно или все будущие)
func (h *Handler) HandleDeleteMeetScoped(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery, prefix string, removeAllFuture bool) {
	session, ok := h.requireSession(ctx, b, callback)
	if !ok {
		return
	}

	meetingID, occurrenceID, err := parseIDPair(callback.Data, prefix)
	if err != nil {
		h.Logger.Error("Failed to parse meeting callback", zap.String("data", callback.Data), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	slot := h.ScheduleService.FindSlot(session, model.SlotTypeMeeting, meetingID, occurrenceID)
	if slot == nil {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Встреча не найдена. Обновите: /today")
		return
	}

	if err := h.PlannerService.DeleteSlot(ctx, session, slot, removeAllFuture); err != nil {
		h.Logger.Error("Failed to delete meeting",
			zap.Int64("meeting_id", meetingID),
			zap.Int64("occurrence_id", occurrenceID),
			zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Не удалось удалить встречу")
		return
	}

	AnswerCallback(ctx, b, callback.ID, "Встреча удалена")
	if msg := GetMessageFromCallback(callback); msg != nil {
		h.sendMessage(ctx, b, msg.Chat.ID, fmt.Sprintf("🗑 Встреча «%s» удалена.", slot.Name))
	}
}

// HandleDeleteSlot удаляет вхождение задания или дела
func (h *Handler) HandleDeleteSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	session, ok := h.requireSession(ctx, b, callback)
	if !ok {
		return
	}

	slotType, parentID, occurrenceID, err := parseSlotRef(callback.Data, DeleteSlot)
	if err != nil {
		h.Logger.Error("Failed to parse slot callback", zap.String("data", callback.Data), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	slot := h.ScheduleService.FindSlot(session, slotType, parentID, occurrenceID)
	if slot == nil {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Слот не найден. Обновите: /today")
		return
	}

	if err := h.PlannerService.DeleteSlot(ctx, session, slot, false); err != nil {
		h.Logger.Error("Failed to delete slot",
			zap.String("type", string(slotType)),
			zap.Int64("occurrence_id", occurrenceID),
			zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Не удалось удалить")
		return
	}

	AnswerCallback(ctx, b, callback.ID, "Удалено")
	if msg := GetMessageFromCallback(callback); msg != nil {
		h.sendMessage(ctx, b, msg.Chat.ID, fmt.Sprintf("🗑 «%s» удалено из расписания.", slot.Name))
	}
}

// HandleRescheduleGo завершает диалог перепланирования: собирает запрос
// из данных диалога и отправляет его с выбранным режимом пересечений
func (h *Handler) HandleRescheduleGo(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	session, ok := h.requireSession(ctx, b, callback)
	if !ok {
		return
	}

	allowOverlaps := strings.TrimPrefix(callback.Data, RescheduleGo) == "overlap"
	telegramID := callback.From.ID

	typeVal, _ := h.StateManager.GetData(telegramID, "resched_type")
	idVal, _ := h.StateManager.GetData(telegramID, "resched_id")
	endVal, _ := h.StateManager.GetData(telegramID, "resched_window_end")

	eventType, okType := typeVal.(string)
	id, okID := idVal.(int64)
	windowEnd, okEnd := endVal.(time.Time)

	if !okType || !okID || !okEnd {
		h.StateManager.ClearState(telegramID)
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Диалог сброшен. Начните заново из /today")
		return
	}

	req := backend.RescheduleRequest{
		EventType:     eventType,
		ID:            id,
		AllowOverlaps: allowOverlaps,
	}
	endStr := schedule.FormatBackendTime(windowEnd)
	req.NewWindowEnd = &endStr

	if effortVal, ok := h.StateManager.GetData(telegramID, "resched_effort"); ok {
		effort := effortVal.(int)
		req.NewEffort = &effort
	}
	if startVal, ok := h.StateManager.GetData(telegramID, "resched_window_start"); ok {
		startStr := schedule.FormatBackendTime(startVal.(time.Time))
		req.NewWindowStart = &startStr
	}

	h.StateManager.ClearState(telegramID)

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	data, err := h.PlannerService.Reschedule(ctx, session, req)
	if err != nil {
		h.Logger.Error("Failed to reschedule",
			zap.String("event_type", eventType),
			zap.Int64("id", id),
			zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Не удалось перепланировать")
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Не удалось перепланировать:\n"+err.Error())
		return
	}

	AnswerCallback(ctx, b, callback.ID, "")
	h.sendCandidates(ctx, b, msg.Chat.ID, data)
}

// HandleReschedule начинает диалог перепланирования задания или дела
func (h *Handler) HandleReschedule(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	raw := strings.TrimPrefix(callback.Data, Reschedule)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}
	eventType := parts[0]
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		h.Logger.Error("Failed to parse reschedule callback", zap.String("data", callback.Data), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	telegramID := callback.From.ID
	h.StateManager.SetData(telegramID, "resched_type", eventType)
	h.StateManager.SetData(telegramID, "resched_id", id)
	h.StateManager.SetState(telegramID, state.StateRescheduleEffort)

	AnswerCallback(ctx, b, callback.ID, "")
	h.sendMessage(ctx, b, msg.Chat.ID,
		"🔁 Перепланирование\n\nСколько минут усилий осталось? (или 0, чтобы не менять)\n\nДля отмены используйте /cancel")
}
