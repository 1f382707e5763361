package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

type SessionRepository struct {
	pool *pgxpool.Pool
}

func NewSessionRepository(pool *pgxpool.Pool) *SessionRepository {
	return &SessionRepository{pool: pool}
}

// Upsert сохраняет привязку чата к аккаунту, перезаписывая старый токен
func (r *SessionRepository) Upsert(ctx context.Context, session *model.Session) error {
	query := `
		INSERT INTO sessions (telegram_id, username, token)
		VALUES ($1, $2, $3)
		ON CONFLICT (telegram_id)
		DO UPDATE SET username = EXCLUDED.username, token = EXCLUDED.token, updated_at = now()
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(
		ctx, query,
		session.TelegramID,
		session.Username,
		session.Token,
	).Scan(&session.ID, &session.CreatedAt, &session.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}

	return nil
}

// GetByTelegramID получает сессию по Telegram ID
func (r *SessionRepository) GetByTelegramID(ctx context.Context, telegramID int64) (*model.Session, error) {
	query := `
		SELECT id, telegram_id, username, token, created_at, updated_at
		FROM sessions
		WHERE telegram_id = $1
	`

	var session model.Session
	err := r.pool.QueryRow(ctx, query, telegramID).Scan(
		&session.ID,
		&session.TelegramID,
		&session.Username,
		&session.Token,
		&session.CreatedAt,
		&session.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // Сессия не найдена
		}
		return nil, fmt.Errorf("get session by telegram id: %w", err)
	}

	return &session, nil
}

// ListAll возвращает все активные сессии (для фоновой синхронизации)
func (r *SessionRepository) ListAll(ctx context.Context) ([]model.Session, error) {
	query := `
		SELECT id, telegram_id, username, token, created_at, updated_at
		FROM sessions
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []model.Session
	for rows.Next() {
		var session model.Session
		err := rows.Scan(
			&session.ID,
			&session.TelegramID,
			&session.Username,
			&session.Token,
			&session.CreatedAt,
			&session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// Delete удаляет сессию чата (logout)
func (r *SessionRepository) Delete(ctx context.Context, telegramID int64) error {
	query := `DELETE FROM sessions WHERE telegram_id = $1`

	_, err := r.pool.Exec(ctx, query, telegramID)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	return nil
}
