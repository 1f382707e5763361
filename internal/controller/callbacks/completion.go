package callbacks

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/controller/keyboard"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// Callbacks завершения рабочих блоков с оценкой сосредоточенности

// HandleDoneSlot запрашивает оценку сосредоточенности перед отметкой блока
func (h *Handler) HandleDoneSlot(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	session, ok := h.requireSession(ctx, b, callback)
	if !ok {
		return
	}

	slotType, parentID, occurrenceID, err := parseSlotRef(callback.Data, DoneSlot)
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
	if slot.Completed {
		AnswerCallback(ctx, b, callback.ID, "Уже отмечено ✅")
		return
	}

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	telegramID := callback.From.ID
	h.StateManager.SetData(telegramID, "lock_slot", *slot)
	h.StateManager.SetState(telegramID, state.StateLockedInRating)

	// Оценка 1-10 в два ряда
	kb := keyboard.NewBuilder()
	row := make([]models.InlineKeyboardButton, 0, 5)
	for rating := 1; rating <= 10; rating++ {
		row = append(row, keyboard.Button(
			fmt.Sprintf("%d", rating),
			fmt.Sprintf("%s%d", LockedIn, rating),
		))
		if len(row) == 5 {
			kb.Row(row...)
			row = make([]models.InlineKeyboardButton, 0, 5)
		}
	}

	AnswerCallback(ctx, b, callback.ID, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: msg.Chat.ID,
		Text: fmt.Sprintf("🎯 «%s»\n\nНасколько сосредоточенно вы работали? (1 - отвлекался, 10 - полный фокус)",
			slot.Name),
		ReplyMarkup: kb.Build(),
	})
}

// HandleLockedIn отмечает блок выполненным с выбранной оценкой
func (h *Handler) HandleLockedIn(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	session, ok := h.requireSession(ctx, b, callback)
	if !ok {
		return
	}

	rating, err := parseIndex(callback.Data, LockedIn)
	if err != nil || rating < 1 || rating > 10 {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверная оценка")
		return
	}

	telegramID := callback.From.ID
	slotVal, ok := h.StateManager.GetData(telegramID, "lock_slot")
	if !ok {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Слот потерян. Отметьте заново из /today")
		return
	}
	slot, ok := slotVal.(model.Slot)
	if !ok {
		h.StateManager.ClearState(telegramID)
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Слот потерян. Отметьте заново из /today")
		return
	}

	h.StateManager.ClearState(telegramID)

	if err := h.PlannerService.MarkCompleted(ctx, session, &slot, rating); err != nil {
		h.Logger.Error("Failed to mark session completed",
			zap.Int64("occurrence_id", slot.OccurrenceID),
			zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Не удалось отметить выполнение")
		return
	}

	AnswerCallback(ctx, b, callback.ID, "Отмечено ✅")

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		return
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ «%s» выполнено! Сосредоточенность: %d/10", slot.Name, rating)

	// XP начисляет бэкенд - показываем свежий уровень
	if level, err := h.AccountService.Level(ctx, session); err == nil {
		fmt.Fprintf(&sb, "\n\n⭐ Уровень %d — %d/%d XP",
			level.Level, level.XP, level.XPTarget())
	}

	h.sendMessage(ctx, b, msg.Chat.ID, sb.String())
}
