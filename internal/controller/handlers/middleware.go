package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// requireSession проверяет что чат привязан к аккаунту ProcrastiNATE.
// Возвращает session и true если OK, nil и false если нет
func (h *Handlers) requireSession(ctx context.Context, b *bot.Bot, update *models.Update) (*model.Session, bool) {
	if update.Message == nil {
		return nil, false
	}

	telegramID := update.Message.From.ID
	session, err := h.accountService.Session(ctx, telegramID)

	if err != nil {
		h.logger.Error("Failed to get session", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Произошла ошибка. Попробуйте позже.")
		return nil, false
	}

	if session == nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Чат не привязан к аккаунту ProcrastiNATE.\n\nВойдите командой /login или создайте аккаунт: /register")
		return nil, false
	}

	return session, true
}

// sendError отправляет сообщение об ошибке и логирует если не удалось
func (h *Handlers) sendError(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send error message",
			zap.Int64("chat_id", chatID),
			zap.String("text", text),
			zap.Error(err),
		)
	}
}

// sendMessage отправляет сообщение и логирует если не удалось
func (h *Handlers) sendMessage(ctx context.Context, b *bot.Bot, chatID int64, text string) {
	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	if err != nil {
		h.logger.Error("Failed to send message",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
	}
}
