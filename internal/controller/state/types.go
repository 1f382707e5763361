package state

// UserState представляет текущее состояние пользователя в диалоге
type UserState string

const (
	StateNone UserState = "" // Нет активного состояния

	// Состояния входа и регистрации
	StateLoginUsername    UserState = "login_username"
	StateLoginPassword    UserState = "login_password"
	StateRegisterUsername UserState = "register_username"
	StateRegisterEmail    UserState = "register_email"
	StateRegisterPassword UserState = "register_password"

	// Состояния добавления встречи
	StateMeetingName       UserState = "meeting_name"
	StateMeetingStart      UserState = "meeting_start"
	StateMeetingEnd        UserState = "meeting_end"
	StateMeetingLoc        UserState = "meeting_loc"
	StateMeetingRecurrence UserState = "meeting_recurrence"
	StateMeetingRepeatEnd  UserState = "meeting_repeat_end"

	// Состояния добавления задания
	StateAssignmentName   UserState = "assignment_name"
	StateAssignmentEffort UserState = "assignment_effort"
	StateAssignmentDue    UserState = "assignment_due"

	// Состояния добавления дела
	StateChoreName        UserState = "chore_name"
	StateChoreEffort      UserState = "chore_effort"
	StateChoreWindowStart UserState = "chore_window_start"
	StateChoreWindowEnd   UserState = "chore_window_end"

	// Состояния перепланирования
	StateRescheduleEffort      UserState = "reschedule_effort"
	StateRescheduleWindowStart UserState = "reschedule_window_start"
	StateRescheduleWindowEnd   UserState = "reschedule_window_end"

	// Состояния изменения встречи
	StateUpdateMeetingName UserState = "update_meeting_name"
	StateUpdateMeetingLoc  UserState = "update_meeting_loc"

	// Состояние оценки сосредоточенности при завершении блока
	StateLockedInRating UserState = "locked_in_rating"
)

// UserData хранит временные данные пользователя во время диалога
type UserData struct {
	State UserState
	Data  map[string]interface{} // Временные данные для текущего диалога
}
