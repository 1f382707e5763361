package model

type ScheduleStatus string

const (
	ScheduleStatusFull    ScheduleStatus = "fully_scheduled"
	ScheduleStatusPartial ScheduleStatus = "partially_scheduled"
	ScheduleStatusNone    ScheduleStatus = "unschedulable"
)

// StatusLabel человекочитаемая подпись статуса планирования
func StatusLabel(s ScheduleStatus) string {
	switch s {
	case ScheduleStatusFull:
		return "Fully Scheduled"
	case ScheduleStatusPartial:
		return "Partially Scheduled"
	case ScheduleStatusNone:
		return "Unschedulable"
	}
	return string(s)
}

// ScheduledSlot один рабочий блок внутри кандидата расписания
type ScheduledSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// ItemSchedule распределение одной сущности по слотам со статусом
type ItemSchedule struct {
	Status ScheduleStatus  `json:"status"`
	Slots  []ScheduledSlot `json:"slots"`
}

// ScheduledItem задание или дело внутри кандидата расписания
type ScheduledItem struct {
	Name     string       `json:"name"`
	Schedule ItemSchedule `json:"schedule"`
}

// PotentialSchedule один кандидат расписания, предложенный бэкендом.
// Получается и отправляется (/setSchedule) целиком, локально не мутируется.
type PotentialSchedule struct {
	Assignments              []ScheduledItem `json:"assignments"`
	Chores                   []ScheduledItem `json:"chores"`
	ConflictingAssignments   []string        `json:"conflicting_assignments"`
	ConflictingChores        []string        `json:"conflicting_chores"`
	NotEnoughTimeAssignments []string        `json:"not_enough_time_assignments"`
	NotEnoughTimeChores      []string        `json:"not_enough_time_chores"`
	TotalPotentialXP         int             `json:"total_potential_xp"`
}

// Clean сообщает что у кандидата нет конфликтов и нехватки времени
func (p *PotentialSchedule) Clean() bool {
	return len(p.ConflictingAssignments) == 0 &&
		len(p.ConflictingChores) == 0 &&
		len(p.NotEnoughTimeAssignments) == 0 &&
		len(p.NotEnoughTimeChores) == 0
}

// PotentialMeeting встреча в ответе планировщика
type PotentialMeeting struct {
	Name          string      `json:"name"`
	StartEndTimes [][2]string `json:"start_end_times"`
}

// PotentialSchedulesData полный ответ /schedule и /reschedule:
// список кандидатов плюс глобальный список конфликтующих встреч
type PotentialSchedulesData struct {
	ConflictingMeetings []string            `json:"conflicting_meetings"`
	Schedules           []PotentialSchedule `json:"schedules"`
	Meetings            []PotentialMeeting  `json:"meetings"`
}
