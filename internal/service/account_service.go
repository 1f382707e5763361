package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/backend"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/repository"
)

// AccountService управляет привязкой Telegram-чатов к аккаунтам
// ProcrastiNATE и игровым профилем пользователя
type AccountService struct {
	client      *backend.Client
	sessionRepo *repository.SessionRepository
	schedules   *ScheduleService
	logger      *zap.Logger
}

func NewAccountService(
	client *backend.Client,
	sessionRepo *repository.SessionRepository,
	schedules *ScheduleService,
	logger *zap.Logger,
) *AccountService {
	return &AccountService{
		client:      client,
		sessionRepo: sessionRepo,
		schedules:   schedules,
		logger:      logger,
	}
}

// Login обменивает логин/пароль на токен бэкенда и сохраняет сессию чата
func (s *AccountService) Login(ctx context.Context, telegramID int64, username, password string) (*model.Session, error) {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("backend login: %w", err)
	}

	session := &model.Session{
		TelegramID: telegramID,
		Username:   username,
		Token:      token,
	}
	if err := s.sessionRepo.Upsert(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	// Старый кэш держит замыкание с прежним токеном
	s.schedules.DropCache(telegramID)

	s.logger.Info("Account linked",
		zap.Int64("telegram_id", telegramID),
		zap.String("username", username))

	return session, nil
}

// Register создаёт новый аккаунт на бэкенде (без автоматического входа)
func (s *AccountService) Register(ctx context.Context, username, email, password string) error {
	if err := s.client.Register(ctx, username, email, password); err != nil {
		return fmt.Errorf("backend register: %w", err)
	}
	return nil
}

// Logout удаляет сессию чата и сбрасывает её кэш расписания
func (s *AccountService) Logout(ctx context.Context, telegramID int64) error {
	if err := s.sessionRepo.Delete(ctx, telegramID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	s.schedules.DropCache(telegramID)

	s.logger.Info("Account unlinked", zap.Int64("telegram_id", telegramID))
	return nil
}

// Session получает сессию чата; nil если чат не привязан к аккаунту
func (s *AccountService) Session(ctx context.Context, telegramID int64) (*model.Session, error) {
	return s.sessionRepo.GetByTelegramID(ctx, telegramID)
}

// Level запрашивает уровень, опыт и достижения пользователя
func (s *AccountService) Level(ctx context.Context, session *model.Session) (*model.LevelInfo, error) {
	info, err := s.client.GetLevel(ctx, session.Token)
	if err != nil {
		return nil, fmt.Errorf("get level: %w", err)
	}
	return info, nil
}
