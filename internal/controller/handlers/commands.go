package handlers

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/controller/callbacks"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/keyboard"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/render"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
)

// HandleStart обрабатывает команду /start
func (h *Handlers) HandleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	welcomeText := fmt.Sprintf(
		"👋 Привет, %s!\n\n"+
			"Это ProcrastiNATE - планировщик, который сам раскладывает твои задания "+
			"и дела по свободным слотам, а за выполненное начисляет XP.\n\n"+
			"Начни с привязки аккаунта:\n"+
			"/login - войти в существующий аккаунт\n"+
			"/register - создать новый\n\n"+
			"Дальше:\n"+
			"/addmeeting, /addassignment, /addchore - собрать корзину\n"+
			"/plan - получить варианты расписания\n"+
			"/today - список на сегодня\n"+
			"/week - картинка недели\n"+
			"/level - уровень и достижения\n"+
			"/help - справка",
		update.Message.From.FirstName,
	)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   welcomeText,
	})
}

// HandleHelp обрабатывает команду /help
func (h *Handlers) HandleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	helpText := "📚 Справка по командам:\n\n" +
		"Аккаунт:\n" +
		"/login - привязать аккаунт ProcrastiNATE\n" +
		"/register - создать аккаунт\n" +
		"/logout - отвязать аккаунт\n\n" +
		"Планирование:\n" +
		"/addmeeting - добавить встречу (с повторениями)\n" +
		"/addassignment - добавить задание с дедлайном\n" +
		"/addchore - добавить дело с окном выполнения\n" +
		"/cart - показать корзину\n" +
		"/plan - отправить корзину и выбрать расписание\n\n" +
		"Календарь:\n" +
		"/today - слоты на сегодня (отметить выполненным, удалить, перепланировать)\n" +
		"/week - недельная сетка картинкой\n\n" +
		"Прогресс:\n" +
		"/level - уровень, XP и достижения\n\n" +
		"/cancel - отменить текущий диалог"

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   helpText,
	})
}

// HandleCancel обрабатывает команду /cancel - отмена текущего диалога
func (h *Handlers) HandleCancel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	if currentState == state.StateNone {
		b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "❌ Нет активных операций для отмены.",
		})
		return
	}

	h.stateManager.ClearState(telegramID)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text:   "✅ Операция отменена.\n\nИспользуйте /help для просмотра доступных команд.",
	})
}

// HandleLogin начинает диалог привязки аккаунта
func (h *Handlers) HandleLogin(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.SetState(telegramID, state.StateLoginUsername)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "🔐 Вход в ProcrastiNATE\n\n" +
			"Шаг 1 из 2: введите имя пользователя.\n\n" +
			"Для отмены используйте /cancel",
	})
}

// HandleRegister начинает диалог регистрации аккаунта
func (h *Handlers) HandleRegister(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	telegramID := update.Message.From.ID
	h.stateManager.SetState(telegramID, state.StateRegisterUsername)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "🆕 Регистрация в ProcrastiNATE\n\n" +
			"Шаг 1 из 3: придумайте имя пользователя.\n\n" +
			"Для отмены используйте /cancel",
	})
}

// HandleLogout отвязывает аккаунт от чата
func (h *Handlers) HandleLogout(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	telegramID := update.Message.From.ID
	if err := h.accountService.Logout(ctx, telegramID); err != nil {
		h.logger.Error("Failed to logout", zap.Int64("telegram_id", telegramID), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось отвязать аккаунт. Попробуйте позже.")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("👋 Аккаунт %s отвязан. Кэш расписания очищен.", session.Username))
}

// HandleToday показывает слоты текущего дня с кнопками действий
func (h *Handlers) HandleToday(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	slots, err := h.scheduleService.TodaySlots(ctx, session, time.Now())
	if err != nil {
		h.logger.Error("Failed to load today slots", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось загрузить расписание:\n"+err.Error())
		return
	}

	if len(slots) == 0 {
		h.sendMessage(ctx, b, update.Message.Chat.ID, "🎉 На сегодня ничего не запланировано.")
		return
	}

	var sb strings.Builder
	sb.WriteString("📋 Сегодня:\n\n")
	for i := range slots {
		sb.WriteString(slotLine(&slots[i]) + "\n")
	}

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        sb.String(),
		ReplyMarkup: slotActionsKeyboard(slots),
	})
}

// HandleWeek отправляет недельную сетку картинкой
func (h *Handlers) HandleWeek(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	now := time.Now()
	days, grouped, err := h.scheduleService.WeekSlots(ctx, session, now)
	if err != nil {
		h.logger.Error("Failed to load week slots", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось загрузить расписание недели:\n"+err.Error())
		return
	}

	image, err := render.WeekImage(days, grouped, now)
	if err != nil {
		h.logger.Error("Failed to render week image", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Не удалось нарисовать неделю.")
		return
	}

	b.SendPhoto(ctx, &bot.SendPhotoParams{
		ChatID: update.Message.Chat.ID,
		Photo: &models.InputFileUpload{
			Filename: "week.png",
			Data:     bytes.NewReader(image),
		},
		Caption: "🗓 Неделя " + days[0].Date.Format("02.01") + " - " + days[6].Date.Format("02.01"),
	})
}

// HandleCart показывает корзину планирования
func (h *Handlers) HandleCart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	cart := h.plannerService.Cart(update.Message.From.ID)
	text := formatCart(&cart)

	if cart.Empty() {
		h.sendMessage(ctx, b, update.Message.Chat.ID, text)
		return
	}

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("🚀 Запланировать", callbacks.SubmitCart),
			keyboard.Button("🗑 Очистить", callbacks.DiscardCart),
		).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        text,
		ReplyMarkup: kb,
	})
}

// HandlePlan отправляет корзину планировщику и показывает кандидатов
func (h *Handlers) HandlePlan(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	data, err := h.plannerService.SubmitSchedule(ctx, session)
	if err != nil {
		h.logger.Error("Failed to submit schedule", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось запланировать:\n"+err.Error())
		return
	}

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
			fmt.Sprintf("%s%d", callbacks.ViewSchedule, i),
		))
	}

	sb.WriteString("\nВыберите вариант, чтобы посмотреть детали:")

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        sb.String(),
		ReplyMarkup: kb.Build(),
	})
}

// HandleLevel показывает уровень, XP и достижения
func (h *Handlers) HandleLevel(ctx context.Context, b *bot.Bot, update *models.Update) {
	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		return
	}

	info, err := h.accountService.Level(ctx, session)
	if err != nil {
		h.logger.Error("Failed to fetch level", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось получить профиль:\n"+err.Error())
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🏆 %s\n\nУровень: %d\nXP: %d / %d до следующего уровня\n",
		info.UserName, info.Level, info.XP, info.XPTarget()))

	earned := info.EarnedAchievements()
	if len(earned) == 0 {
		sb.WriteString("\nДостижений пока нет - всё впереди!")
	} else {
		sb.WriteString("\nДостижения:\n")
		for _, title := range earned {
			sb.WriteString("  " + title + "\n")
		}
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, sb.String())
}

// HandleAddMeeting начинает диалог добавления встречи
func (h *Handlers) HandleAddMeeting(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateMeetingName)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "📅 Новая встреча\n\n" +
			"Шаг 1 из 5: как называется встреча?\n\n" +
			"Для отмены используйте /cancel",
	})
}

// HandleAddAssignment начинает диалог добавления задания
func (h *Handlers) HandleAddAssignment(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateAssignmentName)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "📝 Новое задание\n\n" +
			"Шаг 1 из 3: как называется задание?\n\n" +
			"Для отмены используйте /cancel",
	})
}

// HandleAddChore начинает диалог добавления дела
func (h *Handlers) HandleAddChore(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	h.stateManager.SetState(update.Message.From.ID, state.StateChoreName)

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: update.Message.Chat.ID,
		Text: "🧹 Новое дело\n\n" +
			"Шаг 1 из 4: как называется дело?\n\n" +
			"Для отмены используйте /cancel",
	})
}
