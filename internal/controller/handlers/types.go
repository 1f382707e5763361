package handlers

import (
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
	"github.com/procrastinate-app/procrastinate_bot/internal/service"
	"go.uber.org/zap"
)

// Handlers содержит все зависимости для обработки команд
type Handlers struct {
	accountService  *service.AccountService
	scheduleService *service.ScheduleService
	plannerService  *service.PlannerService
	stateManager    *state.Manager
	logger          *zap.Logger
}

// NewHandlers создаёт новый обработчик команд
func NewHandlers(
	accountService *service.AccountService,
	scheduleService *service.ScheduleService,
	plannerService *service.PlannerService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handlers {
	return &Handlers{
		accountService:  accountService,
		scheduleService: scheduleService,
		plannerService:  plannerService,
		stateManager:    stateManager,
		logger:          logger,
	}
}
