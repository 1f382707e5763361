package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/repository"
	"github.com/procrastinate-app/procrastinate_bot/internal/service"
)

// Scheduler управляет фоновыми задачами
type Scheduler struct {
	scheduleService *service.ScheduleService
	sessionRepo     *repository.SessionRepository
	logger          *zap.Logger
	stopChan        chan struct{}
}

// NewScheduler создаёт новый планировщик
func NewScheduler(scheduleService *service.ScheduleService, sessionRepo *repository.SessionRepository, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduleService: scheduleService,
		sessionRepo:     sessionRepo,
		logger:          logger,
		stopChan:        make(chan struct{}),
	}
}

// Start запускает фоновые задачи
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler")

	go s.runCacheResyncTask(ctx)
}

// Stop останавливает фоновые задачи
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

// runCacheResyncTask периодически перечитывает кэши активных сессий,
// чтобы расписание в чатах не отставало от бэкенда
func (s *Scheduler) runCacheResyncTask(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.resyncCaches(ctx)
		case <-s.stopChan:
			s.logger.Info("Cache resync task stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Cache resync task cancelled")
			return
		}
	}
}

// resyncCaches перечитывает закэшированные интервалы всех сессий.
// Сессии без инициализированного кэша пропускаются (Refetch для них no-op).
func (s *Scheduler) resyncCaches(ctx context.Context) {
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error("Failed to list sessions for resync", zap.Error(err))
		return
	}

	for i := range sessions {
		session := &sessions[i]
		if err := s.scheduleService.Refetch(ctx, session); err != nil {
			s.logger.Warn("Failed to resync schedule cache",
				zap.Int64("telegram_id", session.TelegramID),
				zap.Error(err))
		}
	}

	s.logger.Info("Schedule cache resync completed", zap.Int("sessions", len(sessions)))
}
