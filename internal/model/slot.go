package model

import "time"

type SlotType string

const (
	SlotTypeMeeting    SlotType = "meeting"    // Встреча (occurrence)
	SlotTypeAssignment SlotType = "assignment" // Рабочий блок задания
	SlotTypeChore      SlotType = "chore"      // Рабочий блок домашнего дела
)

// Slot единая календарная запись для отображения и действий.
// Ровно одно из полей MeetingID/AssignmentID/ChoreID заполнено и
// соответствует Type; вместе с OccurrenceID оно образует составной
// ключ для update/delete/reschedule на бэкенде.
type Slot struct {
	Name         string    `json:"name"`
	Type         SlotType  `json:"type"`
	Start        time.Time `json:"start"`
	End          time.Time `json:"end"`
	MeetingID    *int64    `json:"meeting_id,omitempty"`
	AssignmentID *int64    `json:"assignment_id,omitempty"`
	ChoreID      *int64    `json:"chore_id,omitempty"`
	OccurrenceID int64     `json:"occurence_id"`
	Completed    bool      `json:"completed"` // только для assignment/chore
}

// ParentID возвращает идентификатор родительской сущности слота
func (s *Slot) ParentID() int64 {
	switch s.Type {
	case SlotTypeMeeting:
		if s.MeetingID != nil {
			return *s.MeetingID
		}
	case SlotTypeAssignment:
		if s.AssignmentID != nil {
			return *s.AssignmentID
		}
	case SlotTypeChore:
		if s.ChoreID != nil {
			return *s.ChoreID
		}
	}
	return 0
}

// ScheduleRange кэшируемый интервал расписания.
// StartTime/EndTime либо оба нулевые (кэш не инициализирован), либо оба
// заданы и все слоты лежат внутри [StartTime, EndTime]. Заменяется
// целиком после каждого успешного fetch.
type ScheduleRange struct {
	Slots     []Slot
	StartTime time.Time
	EndTime   time.Time
}

// Initialized сообщает, покрывает ли кэш какой-либо интервал
func (r *ScheduleRange) Initialized() bool {
	return !r.StartTime.IsZero() && !r.EndTime.IsZero()
}

// Covers проверяет что кэшированный интервал целиком содержит [start, end]
func (r *ScheduleRange) Covers(start, end time.Time) bool {
	if !r.Initialized() {
		return false
	}
	return !r.StartTime.After(start) && !r.EndTime.Before(end)
}
