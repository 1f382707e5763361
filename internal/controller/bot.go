package controller

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/controller/callbacks"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/handlers"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
	"github.com/procrastinate-app/procrastinate_bot/internal/service"
)

type BotController struct {
	bot             *bot.Bot
	handlers        *handlers.Handlers
	callbackHandler *callbacks.Handler
	logger          *zap.Logger
}

func NewBotController(
	botInstance *bot.Bot,
	accountService *service.AccountService,
	scheduleService *service.ScheduleService,
	plannerService *service.PlannerService,
	logger *zap.Logger,
) *BotController {
	// Состояния диалогов общие для команд и callbacks
	stateManager := state.NewManager()

	cmdHandlers := handlers.NewHandlers(
		accountService,
		scheduleService,
		plannerService,
		stateManager,
		logger,
	)

	callbackHandler := callbacks.NewHandler(
		accountService,
		scheduleService,
		plannerService,
		stateManager,
		logger,
	)

	return &BotController{
		bot:             botInstance,
		handlers:        cmdHandlers,
		callbackHandler: callbackHandler,
		logger:          logger,
	}
}

// RegisterHandlers регистрирует все обработчики команд
func (c *BotController) RegisterHandlers(ctx context.Context) error {
	// Аккаунт
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/start", bot.MatchTypeExact, c.handlers.HandleStart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/help", bot.MatchTypeExact, c.handlers.HandleHelp)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cancel", bot.MatchTypeExact, c.handlers.HandleCancel)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/login", bot.MatchTypeExact, c.handlers.HandleLogin)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/register", bot.MatchTypeExact, c.handlers.HandleRegister)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/logout", bot.MatchTypeExact, c.handlers.HandleLogout)

	// Календарь
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/today", bot.MatchTypeExact, c.handlers.HandleToday)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/week", bot.MatchTypeExact, c.handlers.HandleWeek)

	// Планирование
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addmeeting", bot.MatchTypeExact, c.handlers.HandleAddMeeting)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addassignment", bot.MatchTypeExact, c.handlers.HandleAddAssignment)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/addchore", bot.MatchTypeExact, c.handlers.HandleAddChore)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/cart", bot.MatchTypeExact, c.handlers.HandleCart)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/plan", bot.MatchTypeExact, c.handlers.HandlePlan)

	// Прогресс
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "/level", bot.MatchTypeExact, c.handlers.HandleLevel)

	// Обработчик текстовых сообщений (для диалогов с состояниями)
	c.bot.RegisterHandler(bot.HandlerTypeMessageText, "", bot.MatchTypePrefix, c.handlers.HandleTextMessage)

	// Обработчик нажатий на inline кнопки
	c.bot.RegisterHandler(bot.HandlerTypeCallbackQueryData, "", bot.MatchTypePrefix, c.callbackHandler.HandleCallbackQuery)

	return c.setCommands(ctx)
}

// setCommands устанавливает список команд в меню бота
func (c *BotController) setCommands(ctx context.Context) error {
	commands := []models.BotCommand{
		{Command: "today", Description: "📋 Расписание на сегодня"},
		{Command: "week", Description: "🗓 Календарь недели"},
		{Command: "addmeeting", Description: "📅 Добавить встречу"},
		{Command: "addassignment", Description: "📚 Добавить задание"},
		{Command: "addchore", Description: "🧹 Добавить дело"},
		{Command: "cart", Description: "🗒 Корзина планирования"},
		{Command: "plan", Description: "🚀 Запланировать корзину"},
		{Command: "level", Description: "⭐ Уровень и достижения"},
		{Command: "login", Description: "🔑 Привязать аккаунт"},
		{Command: "register", Description: "🆕 Создать аккаунт"},
		{Command: "help", Description: "❓ Справка по командам"},
		{Command: "cancel", Description: "✖️ Отменить текущий диалог"},
	}

	_, err := c.bot.SetMyCommands(ctx, &bot.SetMyCommandsParams{
		Commands: commands,
	})

	if err != nil {
		c.logger.Error("Failed to set bot commands", zap.Error(err))
		return err
	}

	c.logger.Info("✅ Bot commands menu set")
	return nil
}

// Start запускает бота
func (c *BotController) Start(ctx context.Context) error {
	c.logger.Info("Starting bot...")
	c.bot.Start(ctx)
	return nil
}
