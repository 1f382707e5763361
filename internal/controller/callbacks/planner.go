package callbacks

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/controller/keyboard"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

// Callbacks корзины планирования и выбора кандидата расписания

// HandleSubmitCart отправляет корзину планировщику (кнопка в /cart)
func (h *Handler) HandleSubmitCart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	session, ok := h.requireSession(ctx, b, callback)
	if !ok {
		return
	}

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	data, err := h.PlannerService.SubmitSchedule(ctx, session)
	if err != nil {
		h.Logger.Error("Failed to submit schedule", zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Не удалось запланировать")
		h.sendMessage(ctx, b, msg.Chat.ID, "❌ Не удалось запланировать:\n"+err.Error())
		return
	}

	AnswerCallback(ctx, b, callback.ID, "Корзина отправлена")
	h.sendCandidates(ctx, b, msg.Chat.ID, data)
}

// HandleDiscardCart очищает корзину планирования
func (h *Handler) HandleDiscardCart(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	h.PlannerService.ClearCart(callback.From.ID)
	AnswerCallback(ctx, b, callback.ID, "Корзина очищена")

	if msg := GetMessageFromCallback(callback); msg != nil {
		b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    msg.Chat.ID,
			MessageID: msg.ID,
			Text:      "🗑 Корзина очищена.",
		})
	}
}

// HandleViewSchedule показывает детали кандидата расписания
func (h *Handler) HandleViewSchedule(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	idx, err := parseIndex(callback.Data, ViewSchedule)
	if err != nil {
		h.Logger.Error("Failed to parse schedule index", zap.String("data", callback.Data), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	data := h.PlannerService.Potential(callback.From.ID)
	if data == nil || idx < 0 || idx >= len(data.Schedules) {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Варианты устарели. Запланируйте заново: /plan")
		return
	}

	msg := GetMessageFromCallback(callback)
	if msg == nil {
		AnswerCallback(ctx, b, callback.ID, "")
		return
	}

	candidate := &data.Schedules[idx]

	kb := keyboard.NewBuilder().
		Row(keyboard.Button(
			fmt.Sprintf("✅ Выбрать вариант %d", idx+1),
			fmt.Sprintf("%s%d", ChooseSchedule, idx),
		)).
		Build()

	AnswerCallback(ctx, b, callback.ID, "")
	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      msg.Chat.ID,
		Text:        formatCandidate(idx, candidate),
		ReplyMarkup: kb,
	})
}

// HandleChooseSchedule фиксирует выбранного кандидата через /setSchedule
func (h *Handler) HandleChooseSchedule(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) {
	session, ok := h.requireSession(ctx, b, callback)
	if !ok {
		return
	}

	idx, err := parseIndex(callback.Data, ChooseSchedule)
	if err != nil {
		h.Logger.Error("Failed to parse schedule index", zap.String("data", callback.Data), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Неверный формат")
		return
	}

	if err := h.PlannerService.ChooseSchedule(ctx, session, idx); err != nil {
		h.Logger.Error("Failed to choose schedule",
			zap.Int64("telegram_id", session.TelegramID),
			zap.Int("index", idx),
			zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Не удалось зафиксировать расписание")
		return
	}

	AnswerCallback(ctx, b, callback.ID, "Расписание зафиксировано")

	if msg := GetMessageFromCallback(callback); msg != nil {
		h.sendMessage(ctx, b, msg.Chat.ID,
			fmt.Sprintf("🎉 Вариант %d зафиксирован! Посмотрите: /today или /week", idx+1))
	}
}

// sendCandidates показывает клавиатуру выбора кандидатов расписания
func (h *Handler) sendCandidates(ctx context.Context, b *bot.Bot, chatID int64, data *model.PotentialSchedulesData) {
	var sb strings.Builder
	sb.WriteString("🧮 Планировщик вернул варианты расписания.\n")

	if len(data.ConflictingMeetings) > 0 {
		sb.WriteString("\n⚠️ Конфликтующие встречи:\n")
		for _, name := range data.ConflictingMeetings {
			sb.WriteString("  • " + name + "\n")
		}
	}

	kb := keyboard.NewBuilder()
	for i := range data.Schedules {
		s := &data.Schedules[i]
		mark := ""
		if s.Clean() {
			mark = " ✅"
		}
		kb.Row(keyboard.Button(
			fmt.Sprintf("Вариант %d — %d XP%s", i+1, s.TotalPotentialXP, mark),
			fmt.Sprintf("%s%d", ViewSchedule, i),
		))
	}

	sb.WriteString("\nВыберите вариант, чтобы посмотреть детали:")

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      chatID,
		Text:        sb.String(),
		ReplyMarkup: kb.Build(),
	})
}

// formatCandidate текстовое описание кандидата расписания
func formatCandidate(idx int, candidate *model.PotentialSchedule) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📋 Вариант %d — %d XP\n", idx+1, candidate.TotalPotentialXP)

	writeItems := func(emoji, title string, items []model.ScheduledItem) {
		if len(items) == 0 {
			return
		}
		sb.WriteString("\n" + emoji + " " + title + ":\n")
		for _, item := range items {
			fmt.Fprintf(&sb, "%s (%s)\n", item.Name, model.StatusLabel(item.Schedule.Status))
			for _, slot := range item.Schedule.Slots {
				start, errStart := schedule.ParseBackendTime(slot.Start)
				end, errEnd := schedule.ParseBackendTime(slot.End)
				if errStart != nil || errEnd != nil {
					continue
				}
				fmt.Fprintf(&sb, "  • %s %s\n",
					start.Local().Format("02.01"),
					schedule.FormatTimeRange(start, end))
			}
		}
	}

	writeItems("📚", "Задания", candidate.Assignments)
	writeItems("🧹", "Дела", candidate.Chores)

	writeNames := func(title string, names []string) {
		if len(names) == 0 {
			return
		}
		sb.WriteString("\n⚠️ " + title + ":\n")
		for _, name := range names {
			sb.WriteString("  • " + name + "\n")
		}
	}

	writeNames("Конфликтующие задания", candidate.ConflictingAssignments)
	writeNames("Конфликтующие дела", candidate.ConflictingChores)
	writeNames("Не хватает времени (задания)", candidate.NotEnoughTimeAssignments)
	writeNames("Не хватает времени (дела)", candidate.NotEnoughTimeChores)

	if candidate.Clean() {
		sb.WriteString("\n✅ Без конфликтов")
	}

	return sb.String()
}
