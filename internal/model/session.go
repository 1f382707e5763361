package model

import "time"

// Session привязка Telegram-чата к аккаунту ProcrastiNATE.
// Хранит токен бэкенда; удаляется при /logout.
type Session struct {
	ID         int64     `json:"id"`
	TelegramID int64     `json:"telegram_id"`
	Username   string    `json:"username"` // имя аккаунта на бэкенде
	Token      string    `json:"-"`        // bearer токен, наружу не отдаём
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
