package callbacks

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// Helper functions для всех callback handlers

// AnswerCallback отвечает на callback query (без alert)
func AnswerCallback(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       false,
	})
}

// AnswerCallbackAlert отвечает на callback query с alert (всплывающее окно)
func AnswerCallbackAlert(ctx context.Context, b *bot.Bot, callbackID string, text string) {
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
		ShowAlert:       true,
	})
}

// GetMessageFromCallback извлекает сообщение из callback query
func GetMessageFromCallback(callback *models.CallbackQuery) *models.Message {
	if callback.Message.Message != nil {
		return callback.Message.Message
	}
	return nil
}

// parseIndex извлекает индекс из callback data вида "view_schedule:2"
func parseIndex(data, prefix string) (int, error) {
	raw := strings.TrimPrefix(data, prefix)
	idx, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid callback index %q: %w", raw, err)
	}
	return idx, nil
}

// parseIDPair извлекает пару id из callback data вида "del_meet:5:2"
func parseIDPair(data, prefix string) (int64, int64, error) {
	raw := strings.TrimPrefix(data, prefix)
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid callback data format %q", raw)
	}
	first, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q: %w", parts[0], err)
	}
	second, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid id %q: %w", parts[1], err)
	}
	return first, second, nil
}

// parseSlotRef извлекает ссылку на слот из callback data вида
// "done_slot:assignment:12:3" (тип:id родителя:id вхождения)
func parseSlotRef(data, prefix string) (model.SlotType, int64, int64, error) {
	raw := strings.TrimPrefix(data, prefix)
	parts := strings.Split(raw, ":")
	if len(parts) != 3 {
		return "", 0, 0, fmt.Errorf("invalid slot callback format %q", raw)
	}
	parentID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid parent id %q: %w", parts[1], err)
	}
	occurrenceID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", 0, 0, fmt.Errorf("invalid occurrence id %q: %w", parts[2], err)
	}
	return model.SlotType(parts[0]), parentID, occurrenceID, nil
}

// requireSession проверяет привязку чата к аккаунту из callback контекста
func (h *Handler) requireSession(ctx context.Context, b *bot.Bot, callback *models.CallbackQuery) (*model.Session, bool) {
	telegramID := callback.From.ID

	session, err := h.AccountService.Session(ctx, telegramID)
	if err != nil {
		h.Logger.Error("Failed to get session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}
	if session == nil {
		AnswerCallbackAlert(ctx, b, callback.ID, "❌ Чат не привязан к аккаунту. Войдите: /login")
		return nil, false
	}
	return session, true
}

// sendMessage отправляет сообщение в чат callback query
func (h *Handler) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.Logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
