package callbacks

import (
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/state"
	"github.com/procrastinate-app/procrastinate_bot/internal/service"
	"go.uber.org/zap"
)

// ========================
// Callback Data Patterns
// ========================
// Форматы callback data, используемые во всех клавиатурах бота

// Планирование и выбор расписания
const (
	ViewSchedule   = "view_schedule:"   // view_schedule:2
	ChooseSchedule = "choose_schedule:" // choose_schedule:2
	DiscardCart    = "discard_cart"
	SubmitCart     = "submit_cart"
)

// Действия со слотами календаря
const (
	DoneSlot      = "done_slot:"       // done_slot:assignment:12:3
	DeleteSlot    = "del_slot:"        // del_slot:chore:7:1
	DeleteMeet    = "del_meet:"        // del_meet:5:2 (показать подтверждение)
	DeleteMeetOne = "del_meet_one:"    // удалить только это вхождение
	DeleteMeetAll = "del_meet_future:" // удалить все будущие вхождения
	EditMeet      = "edit_meet:"       // edit_meet:5:2 (выбор поля)
	EditMeetName  = "edit_meet_name:"  // edit_meet_name:5:2
	EditMeetLoc   = "edit_meet_loc:"   // edit_meet_loc:5:2
	Reschedule    = "resched:"         // resched:assignment:12
	RescheduleGo  = "resched_go:"      // resched_go:overlap или resched_go:strict
)

// Диалог добавления встречи
const (
	PickRecurrence = "rec:" // rec:daily, rec:mon, ...
)

// Оценка сосредоточенности при завершении блока
const (
	LockedIn = "lock:" // lock:7
)

// Разное
const (
	Noop = "noop"
)

// Handler содержит зависимости обработчиков callback query
type Handler struct {
	AccountService  *service.AccountService
	ScheduleService *service.ScheduleService
	PlannerService  *service.PlannerService
	StateManager    *state.Manager
	Logger          *zap.Logger
}

// NewHandler создаёт обработчик callback query
func NewHandler(
	accountService *service.AccountService,
	scheduleService *service.ScheduleService,
	plannerService *service.PlannerService,
	stateManager *state.Manager,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		AccountService:  accountService,
		ScheduleService: scheduleService,
		PlannerService:  plannerService,
		StateManager:    stateManager,
		Logger:          logger,
	}
}
