package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/backend"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/callbacks"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/keyboard"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// HandleTextMessage обрабатывает текстовые сообщения в зависимости от состояния пользователя
func (h *Handlers) HandleTextMessage(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.Text == "" {
		return
	}

	// Игнорируем команды (они обрабатываются другими handlers)
	if strings.HasPrefix(update.Message.Text, "/") {
		return
	}

	telegramID := update.Message.From.ID
	currentState := h.stateManager.GetState(telegramID)

	switch currentState {
	// Вход
	case state.StateLoginUsername:
		h.handleLoginUsernameStep(ctx, b, update)
	case state.StateLoginPassword:
		h.handleLoginPasswordStep(ctx, b, update)

	// Регистрация
	case state.StateRegisterUsername:
		h.handleRegisterUsernameStep(ctx, b, update)
	case state.StateRegisterEmail:
		h.handleRegisterEmailStep(ctx, b, update)
	case state.StateRegisterPassword:
		h.handleRegisterPasswordStep(ctx, b, update)

	// Встреча
	case state.StateMeetingName:
		h.handleMeetingNameStep(ctx, b, update)
	case state.StateMeetingStart:
		h.handleMeetingStartStep(ctx, b, update)
	case state.StateMeetingEnd:
		h.handleMeetingEndStep(ctx, b, update)
	case state.StateMeetingRecurrence:
		h.sendMessage(ctx, b, update.Message.Chat.ID, "Выберите повторение кнопками выше 👆")
	case state.StateMeetingRepeatEnd:
		h.handleMeetingRepeatEndStep(ctx, b, update)
	case state.StateMeetingLoc:
		h.handleMeetingLocStep(ctx, b, update)

	// Задание
	case state.StateAssignmentName:
		h.handleAssignmentNameStep(ctx, b, update)
	case state.StateAssignmentEffort:
		h.handleAssignmentEffortStep(ctx, b, update)
	case state.StateAssignmentDue:
		h.handleAssignmentDueStep(ctx, b, update)

	// Дело
	case state.StateChoreName:
		h.handleChoreNameStep(ctx, b, update)
	case state.StateChoreEffort:
		h.handleChoreEffortStep(ctx, b, update)
	case state.StateChoreWindowStart:
		h.handleChoreWindowStartStep(ctx, b, update)
	case state.StateChoreWindowEnd:
		h.handleChoreWindowEndStep(ctx, b, update)

	// Перепланирование
	case state.StateRescheduleEffort:
		h.handleRescheduleEffortStep(ctx, b, update)
	case state.StateRescheduleWindowStart:
		h.handleRescheduleWindowStartStep(ctx, b, update)
	case state.StateRescheduleWindowEnd:
		h.handleRescheduleWindowEndStep(ctx, b, update)

	// Изменение встречи
	case state.StateUpdateMeetingName:
		h.handleUpdateMeetingStep(ctx, b, update, "name")
	case state.StateUpdateMeetingLoc:
		h.handleUpdateMeetingStep(ctx, b, update, "loc")

	default:
		// Нет активного диалога - подсказываем команды
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"🤔 Не понимаю. Используйте /help для списка команд.")
	}
}

// ==================== Вход и регистрация ====================

func (h *Handlers) handleLoginUsernameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	username := strings.TrimSpace(update.Message.Text)

	if len(username) < NameMinLength {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Имя пользователя слишком короткое. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "login_username", username)
	h.stateManager.SetState(telegramID, state.StateLoginPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 2 из 2: введите пароль.")
}

func (h *Handlers) handleLoginPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	password := update.Message.Text

	usernameVal, ok := h.stateManager.GetData(telegramID, "login_username")
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог сброшен. Начните заново: /login")
		return
	}
	username := usernameVal.(string)

	// Сообщение с паролем лучше убрать из чата
	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    update.Message.Chat.ID,
		MessageID: update.Message.ID,
	})

	session, err := h.accountService.Login(ctx, telegramID, username, password)
	h.stateManager.ClearState(telegramID)

	if err != nil {
		h.logger.Warn("Login failed", zap.String("username", username), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось войти:\n"+err.Error()+"\n\nПопробуйте снова: /login")
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Аккаунт %s привязан!\n\nТеперь доступны /today, /week, /plan и /level.", session.Username))
}

func (h *Handlers) handleRegisterUsernameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	username := strings.TrimSpace(update.Message.Text)

	if len(username) < NameMinLength {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Имя пользователя слишком короткое. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "register_username", username)
	h.stateManager.SetState(telegramID, state.StateRegisterEmail)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 2 из 3: введите email.")
}

func (h *Handlers) handleRegisterEmailStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	email := strings.TrimSpace(update.Message.Text)

	if !strings.Contains(email, "@") {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Это не похоже на email. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "register_email", email)
	h.stateManager.SetState(telegramID, state.StateRegisterPassword)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 3 из 3: придумайте пароль.")
}

func (h *Handlers) handleRegisterPasswordStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	password := update.Message.Text

	usernameVal, _ := h.stateManager.GetData(telegramID, "register_username")
	emailVal, _ := h.stateManager.GetData(telegramID, "register_email")
	username, _ := usernameVal.(string)
	email, _ := emailVal.(string)

	b.DeleteMessage(ctx, &bot.DeleteMessageParams{
		ChatID:    update.Message.Chat.ID,
		MessageID: update.Message.ID,
	})

	h.stateManager.ClearState(telegramID)

	if username == "" || email == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог сброшен. Начните заново: /register")
		return
	}

	if err := h.accountService.Register(ctx, username, email, password); err != nil {
		h.logger.Warn("Registration failed", zap.String("username", username), zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось зарегистрироваться:\n"+err.Error())
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"✅ Аккаунт создан! Теперь войдите: /login")
}

// ==================== Встреча ====================

func (h *Handlers) handleMeetingNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	name := strings.TrimSpace(update.Message.Text)

	if len(name) < NameMinLength || len(name) > NameMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Название должно быть от %d до %d символов. Попробуйте ещё раз:", NameMinLength, NameMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, "meeting_name", name)
	h.stateManager.SetState(telegramID, state.StateMeetingStart)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 2 из 5: когда начало?\n\nФормат: "+DateTimeInputLayout+" (например 24.12.2025 15:00)")
}

func (h *Handlers) handleMeetingStartStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	start, err := parseDateTime(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateTimeInputLayout+". Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "meeting_start", start)
	h.stateManager.SetState(telegramID, state.StateMeetingEnd)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 3 из 5: когда конец?\n\nФормат: "+DateTimeInputLayout)
}

func (h *Handlers) handleMeetingEndStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	end, err := parseDateTime(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateTimeInputLayout+". Попробуйте ещё раз:")
		return
	}

	startVal, ok := h.stateManager.GetData(telegramID, "meeting_start")
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог сброшен. Начните заново: /addmeeting")
		return
	}
	start := startVal.(time.Time)

	if !end.After(start) {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Конец должен быть позже начала. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "meeting_end", end)
	h.stateManager.SetState(telegramID, state.StateMeetingRecurrence)

	kb := keyboard.NewBuilder().
		Row(keyboard.Button("Один раз", callbacks.PickRecurrence+"once")).
		Row(keyboard.Button("Ежедневно", callbacks.PickRecurrence+"daily")).
		Row(
			keyboard.Button("Пн", callbacks.PickRecurrence+"mon"),
			keyboard.Button("Вт", callbacks.PickRecurrence+"tue"),
			keyboard.Button("Ср", callbacks.PickRecurrence+"wed"),
			keyboard.Button("Чт", callbacks.PickRecurrence+"thu"),
		).
		Row(
			keyboard.Button("Пт", callbacks.PickRecurrence+"fri"),
			keyboard.Button("Сб", callbacks.PickRecurrence+"sat"),
			keyboard.Button("Вс", callbacks.PickRecurrence+"sun"),
		).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Шаг 4 из 5: как повторять встречу?",
		ReplyMarkup: kb,
	})
}

// handleMeetingRepeatEndStep шаг даты окончания повторений (только для повторяющихся встреч)
func (h *Handlers) handleMeetingRepeatEndStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	repeatEnd, err := parseDate(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateInputLayout+". Попробуйте ещё раз:")
		return
	}

	startVal, ok := h.stateManager.GetData(telegramID, "meeting_start")
	if !ok {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог сброшен. Начните заново: /addmeeting")
		return
	}
	if !repeatEnd.After(startVal.(time.Time)) {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Дата окончания повторений должна быть позже начала встречи. Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "meeting_repeat_end", repeatEnd)
	h.stateManager.SetState(telegramID, state.StateMeetingLoc)

	h.sendMessage(ctx, b, update.Message.Chat.ID, "Шаг 5 из 5: ссылка или место встречи?")
}

// handleMeetingLocStep последний шаг диалога: место и сборка черновика
func (h *Handlers) handleMeetingLocStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	loc := strings.TrimSpace(update.Message.Text)

	h.stateManager.SetData(telegramID, "meeting_loc", loc)
	h.finishMeetingDraft(ctx, b, update.Message.Chat.ID, telegramID)
}

// finishMeetingDraft собирает черновик встречи из данных диалога и кладёт в корзину
func (h *Handlers) finishMeetingDraft(ctx context.Context, b *bot.Bot, chatID, telegramID int64) {
	nameVal, _ := h.stateManager.GetData(telegramID, "meeting_name")
	startVal, _ := h.stateManager.GetData(telegramID, "meeting_start")
	endVal, _ := h.stateManager.GetData(telegramID, "meeting_end")
	locVal, _ := h.stateManager.GetData(telegramID, "meeting_loc")
	recVal, _ := h.stateManager.GetData(telegramID, "meeting_recurrence")

	name, _ := nameVal.(string)
	start, okStart := startVal.(time.Time)
	end, okEnd := endVal.(time.Time)
	if name == "" || !okStart || !okEnd {
		h.stateManager.ClearState(telegramID)
		h.sendError(ctx, b, chatID, "❌ Диалог сброшен. Начните заново: /addmeeting")
		return
	}

	draft := model.MeetingDraft{
		Name:      name,
		StartTime: start,
		EndTime:   end,
	}
	if loc, ok := locVal.(string); ok {
		draft.LinkOrLoc = loc
	}
	if rec, ok := recVal.(string); ok {
		draft.Recurrence = model.Recurrence(rec)
	}
	if repeatEndVal, ok := h.stateManager.GetData(telegramID, "meeting_repeat_end"); ok {
		draft.RepeatEnd = repeatEndVal.(time.Time)
	} else {
		// Без повторений конец повторов совпадает с концом встречи
		draft.RepeatEnd = end
	}

	h.plannerService.AddMeeting(telegramID, draft)
	h.stateManager.ClearState(telegramID)

	h.sendMessage(ctx, b, chatID,
		fmt.Sprintf("✅ Встреча «%s» добавлена в корзину.\n\nКорзина: /cart, запланировать: /plan", draft.Name))
}

// ==================== Задание ====================

func (h *Handlers) handleAssignmentNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	name := strings.TrimSpace(update.Message.Text)

	if len(name) < NameMinLength || len(name) > NameMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Название должно быть от %d до %d символов. Попробуйте ещё раз:", NameMinLength, NameMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, "assignment_name", name)
	h.stateManager.SetState(telegramID, state.StateAssignmentEffort)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 2 из 3: сколько минут усилий нужно?\n\nНапример: 120")
}

func (h *Handlers) handleAssignmentEffortStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	effort, err := parseEffort(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Введите число минут от %d до %d. Попробуйте ещё раз:", EffortMinMinutes, EffortMaxMinutes))
		return
	}

	h.stateManager.SetData(telegramID, "assignment_effort", effort)
	h.stateManager.SetState(telegramID, state.StateAssignmentDue)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 3 из 3: когда дедлайн?\n\nФормат: "+DateTimeInputLayout)
}

func (h *Handlers) handleAssignmentDueStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	due, err := parseDateTime(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateTimeInputLayout+". Попробуйте ещё раз:")
		return
	}
	if due.Before(time.Now()) {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Дедлайн уже прошёл. Попробуйте ещё раз:")
		return
	}

	nameVal, _ := h.stateManager.GetData(telegramID, "assignment_name")
	effortVal, _ := h.stateManager.GetData(telegramID, "assignment_effort")
	name, okName := nameVal.(string)
	effort, okEffort := effortVal.(int)

	h.stateManager.ClearState(telegramID)

	if !okName || !okEffort {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог сброшен. Начните заново: /addassignment")
		return
	}

	h.plannerService.AddAssignment(telegramID, model.AssignmentDraft{
		Name:   name,
		Effort: effort,
		Due:    due,
	})

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Задание «%s» добавлено в корзину.\n\nКорзина: /cart, запланировать: /plan", name))
}

// ==================== Дело ====================

func (h *Handlers) handleChoreNameStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	name := strings.TrimSpace(update.Message.Text)

	if len(name) < NameMinLength || len(name) > NameMaxLength {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Название должно быть от %d до %d символов. Попробуйте ещё раз:", NameMinLength, NameMaxLength))
		return
	}

	h.stateManager.SetData(telegramID, "chore_name", name)
	h.stateManager.SetState(telegramID, state.StateChoreEffort)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 2 из 4: сколько минут усилий нужно?")
}

func (h *Handlers) handleChoreEffortStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	effort, err := parseEffort(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			fmt.Sprintf("❌ Введите число минут от %d до %d. Попробуйте ещё раз:", EffortMinMinutes, EffortMaxMinutes))
		return
	}

	h.stateManager.SetData(telegramID, "chore_effort", effort)
	h.stateManager.SetState(telegramID, state.StateChoreWindowStart)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 3 из 4: с какого момента можно делать?\n\nФормат: "+DateTimeInputLayout)
}

func (h *Handlers) handleChoreWindowStartStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	windowStart, err := parseDateTime(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateTimeInputLayout+". Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "chore_window_start", windowStart)
	h.stateManager.SetState(telegramID, state.StateChoreWindowEnd)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Шаг 4 из 4: до какого момента нужно успеть?\n\nФормат: "+DateTimeInputLayout)
}

func (h *Handlers) handleChoreWindowEndStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	windowEnd, err := parseDateTime(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateTimeInputLayout+". Попробуйте ещё раз:")
		return
	}

	nameVal, _ := h.stateManager.GetData(telegramID, "chore_name")
	effortVal, _ := h.stateManager.GetData(telegramID, "chore_effort")
	windowStartVal, _ := h.stateManager.GetData(telegramID, "chore_window_start")

	name, okName := nameVal.(string)
	effort, okEffort := effortVal.(int)
	windowStart, okStart := windowStartVal.(time.Time)

	if okStart && !windowEnd.After(windowStart) {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Конец окна должен быть позже начала. Попробуйте ещё раз:")
		return
	}

	h.stateManager.ClearState(telegramID)

	if !okName || !okEffort || !okStart {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог сброшен. Начните заново: /addchore")
		return
	}

	h.plannerService.AddChore(telegramID, model.ChoreDraft{
		Name:        name,
		Effort:      effort,
		WindowStart: windowStart,
		WindowEnd:   windowEnd,
	})

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		fmt.Sprintf("✅ Дело «%s» добавлено в корзину.\n\nКорзина: /cart, запланировать: /plan", name))
}

// ==================== Перепланирование ====================

func (h *Handlers) handleRescheduleEffortStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID
	text := strings.TrimSpace(update.Message.Text)

	if text != "0" {
		effort, err := parseEffort(text)
		if err != nil {
			h.sendError(ctx, b, update.Message.Chat.ID,
				"❌ Введите число минут (или 0, чтобы не менять). Попробуйте ещё раз:")
			return
		}
		h.stateManager.SetData(telegramID, "resched_effort", effort)
	}

	typeVal, _ := h.stateManager.GetData(telegramID, "resched_type")
	if typeVal == string(model.SlotTypeChore) {
		// У дел двигается всё окно, у заданий только дедлайн
		h.stateManager.SetState(telegramID, state.StateRescheduleWindowStart)
		h.sendMessage(ctx, b, update.Message.Chat.ID,
			"С какого момента можно делать?\n\nФормат: "+DateTimeInputLayout)
		return
	}

	h.stateManager.SetState(telegramID, state.StateRescheduleWindowEnd)
	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"Новый дедлайн?\n\nФормат: "+DateTimeInputLayout)
}

func (h *Handlers) handleRescheduleWindowStartStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	windowStart, err := parseDateTime(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateTimeInputLayout+". Попробуйте ещё раз:")
		return
	}

	h.stateManager.SetData(telegramID, "resched_window_start", windowStart)
	h.stateManager.SetState(telegramID, state.StateRescheduleWindowEnd)

	h.sendMessage(ctx, b, update.Message.Chat.ID,
		"До какого момента нужно успеть?\n\nФормат: "+DateTimeInputLayout)
}

func (h *Handlers) handleRescheduleWindowEndStep(ctx context.Context, b *bot.Bot, update *models.Update) {
	telegramID := update.Message.From.ID

	windowEnd, err := parseDateTime(update.Message.Text)
	if err != nil {
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не могу разобрать дату. Формат: "+DateTimeInputLayout+". Попробуйте ещё раз:")
		return
	}

	if startVal, ok := h.stateManager.GetData(telegramID, "resched_window_start"); ok {
		if !windowEnd.After(startVal.(time.Time)) {
			h.sendError(ctx, b, update.Message.Chat.ID, "❌ Конец окна должен быть позже начала. Попробуйте ещё раз:")
			return
		}
	}

	h.stateManager.SetData(telegramID, "resched_window_end", windowEnd)

	kb := keyboard.NewBuilder().
		Row(
			keyboard.Button("Запретить пересечения", callbacks.RescheduleGo+"strict"),
			keyboard.Button("Разрешить", callbacks.RescheduleGo+"overlap"),
		).
		Build()

	b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:      update.Message.Chat.ID,
		Text:        "Можно ли новым блокам пересекаться с уже запланированными?",
		ReplyMarkup: kb,
	})
}

// ==================== Изменение встречи ====================

func (h *Handlers) handleUpdateMeetingStep(ctx context.Context, b *bot.Bot, update *models.Update, field string) {
	telegramID := update.Message.From.ID
	value := strings.TrimSpace(update.Message.Text)

	if value == "" {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Пустое значение. Попробуйте ещё раз:")
		return
	}

	session, ok := h.requireSession(ctx, b, update)
	if !ok {
		h.stateManager.ClearState(telegramID)
		return
	}

	meetingIDVal, _ := h.stateManager.GetData(telegramID, "update_meeting_id")
	occurrenceIDVal, _ := h.stateManager.GetData(telegramID, "update_occurrence_id")
	meetingID, okMeeting := meetingIDVal.(int64)
	occurrenceID, okOcc := occurrenceIDVal.(int64)

	h.stateManager.ClearState(telegramID)

	if !okMeeting || !okOcc {
		h.sendError(ctx, b, update.Message.Chat.ID, "❌ Диалог сброшен. Начните заново из /today.")
		return
	}

	req := backend.UpdateMeetingRequest{
		FutureOccurrences: false,
		MeetingID:         meetingID,
		OccurrenceID:      occurrenceID,
	}
	if field == "loc" {
		req.NewLocOrLink = &value
	} else {
		req.NewName = &value
	}

	if err := h.plannerService.UpdateMeeting(ctx, session, req); err != nil {
		h.logger.Error("Failed to update meeting", zap.Error(err))
		h.sendError(ctx, b, update.Message.Chat.ID,
			"❌ Не удалось изменить встречу:\n"+err.Error())
		return
	}

	h.sendMessage(ctx, b, update.Message.Chat.ID, "✅ Встреча обновлена!")
}
