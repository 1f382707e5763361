package backend

// Тела запросов REST API ProcrastiNATE. Имена полей повторяют схему
// бэкенда буквально, включая его орфографию (occurence/ocurrence,
// future_occurences).

// MeetingPayload встреча для /schedule; StartEndTimes - результат
// разворачивания повторений
type MeetingPayload struct {
	Name          string      `json:"name"`
	StartEndTimes [][2]string `json:"start_end_times"`
	LinkOrLoc     string      `json:"link_or_loc"`
}

// AssignmentPayload задание для /schedule
type AssignmentPayload struct {
	Name   string `json:"name"`
	Effort int    `json:"effort"`
	Due    string `json:"due"`
}

// ChorePayload дело для /schedule; Window - [начало, конец] окна
type ChorePayload struct {
	Name   string    `json:"name"`
	Window [2]string `json:"window"`
	Effort int       `json:"effort"`
}

// ScheduleRequest тело POST /schedule
type ScheduleRequest struct {
	Meetings        []MeetingPayload    `json:"meetings"`
	Assignments     []AssignmentPayload `json:"assignments"`
	Chores          []ChorePayload      `json:"chores"`
	TZOffsetMinutes int                 `json:"tz_offset_minutes"`
}

// RescheduleRequest тело POST /reschedule.
// Для заданий NewWindowStart опускается (у них двигается только дедлайн).
type RescheduleRequest struct {
	EventType       string  `json:"event_type"` // "assignment" или "chore"
	ID              int64   `json:"id"`
	AllowOverlaps   bool    `json:"allow_overlaps"`
	TZOffsetMinutes int     `json:"tz_offset_minutes"`
	NewEffort       *int    `json:"new_effort,omitempty"`
	NewWindowStart  *string `json:"new_window_start,omitempty"`
	NewWindowEnd    *string `json:"new_window_end,omitempty"`
}

// UpdateMeetingRequest тело POST /update
type UpdateMeetingRequest struct {
	FutureOccurrences bool    `json:"future_occurences"`
	MeetingID         int64   `json:"meeting_id"`
	OccurrenceID      int64   `json:"ocurrence_id"`
	NewName           *string `json:"new_name,omitempty"`
	NewLocOrLink      *string `json:"new_loc_or_link,omitempty"`
	NewStartTime      *string `json:"new_start_time,omitempty"`
	NewEndTime        *string `json:"new_end_time,omitempty"`
}

// DeleteRequest тело POST /delete; MeetingID задаётся только для встреч,
// EventType - только для заданий и дел
type DeleteRequest struct {
	OccurrenceID    int64  `json:"occurence_id"`
	MeetingID       *int64 `json:"meeting_id,omitempty"`
	RemoveAllFuture bool   `json:"remove_all_future"`
	EventType       string `json:"event_type,omitempty"`
}

// MarkCompletedRequest тело POST /markSessionCompleted
type MarkCompletedRequest struct {
	OccurrenceID    int64 `json:"occurence_id"`
	Completed       bool  `json:"completed"`
	IsAssignment    bool  `json:"is_assignment"`
	LockedIn        int   `json:"locked_in"` // самооценка сосредоточенности 1-10
	TZOffsetMinutes int   `json:"tz_offset_minutes"`
}

// RegisterRequest тело POST /register
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Pwd      string `json:"pwd"`
}

// tokenResponse ответ POST /login
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
