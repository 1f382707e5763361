package callbacks

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
)

// HandleCallbackQuery точка входа для всех callback query от бота
func (h *Handler) HandleCallbackQuery(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.CallbackQuery == nil {
		return
	}
	h.Route(ctx, b, update.CallbackQuery)
}

// Route распределяет callback query по соответствующим обработчикам
func (h *Handler) Route(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	data := callback.Data

	h.Logger.Info("Routing callback",
		zap.String("data", data),
		zap.Int64("user_id", callback.From.ID))

	switch {
	// ===== Корзина и выбор расписания =====
	case data == SubmitCart:
		h.HandleSubmitCart(ctx, b, callback)
	case data == DiscardCart:
		h.HandleDiscardCart(ctx, b, callback)
	case strings.HasPrefix(data, ViewSchedule):
		h.HandleViewSchedule(ctx, b, callback)
	case strings.HasPrefix(data, ChooseSchedule):
		h.HandleChooseSchedule(ctx, b, callback)

	// ===== Диалог добавления встречи =====
	case strings.HasPrefix(data, PickRecurrence):
		h.HandlePickRecurrence(ctx, b, callback)

	// ===== Слоты календаря =====
	case strings.HasPrefix(data, DoneSlot):
		h.HandleDoneSlot(ctx, b, callback)
	case strings.HasPrefix(data, LockedIn):
		h.HandleLockedIn(ctx, b, callback)
	case strings.HasPrefix(data, DeleteSlot):
		h.HandleDeleteSlot(ctx, b, callback)
	case strings.HasPrefix(data, RescheduleGo):
		h.HandleRescheduleGo(ctx, b, callback)
	case strings.HasPrefix(data, Reschedule):
		h.HandleReschedule(ctx, b, callback)

	// ===== Встречи =====
	case strings.HasPrefix(data, DeleteMeetOne):
		h.HandleDeleteMeetScoped(ctx, b, callback, DeleteMeetOne, false)
	case strings.HasPrefix(data, DeleteMeetAll):
		h.HandleDeleteMeetScoped(ctx, b, callback, DeleteMeetAll, true)
	case strings.HasPrefix(data, DeleteMeet):
		h.HandleDeleteMeet(ctx, b, callback)
	case strings.HasPrefix(data, EditMeetName):
		h.HandleEditMeetField(ctx, b, callback, EditMeetName, state.StateUpdateMeetingName)
	case strings.HasPrefix(data, EditMeetLoc):
		h.HandleEditMeetField(ctx, b, callback, EditMeetLoc, state.StateUpdateMeetingLoc)
	case strings.HasPrefix(data, EditMeet):
		h.HandleEditMeet(ctx, b, callback)

	case data == Noop:
		AnswerCallback(ctx, b, callback.ID, "")

	default:
		h.Logger.Warn("Unknown callback data", zap.String("data", data))
		AnswerCallback(ctx, b, callback.ID, "")
	}
}
