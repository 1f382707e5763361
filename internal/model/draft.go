package model

import (
	"time"

	"github.com/google/uuid"
)

type Recurrence string

const (
	RecurrenceOnce  Recurrence = "once"
	RecurrenceDaily Recurrence = "daily"
	RecurrenceMon   Recurrence = "mon"
	RecurrenceTue   Recurrence = "tue"
	RecurrenceWed   Recurrence = "wed"
	RecurrenceThu   Recurrence = "thu"
	RecurrenceFri   Recurrence = "fri"
	RecurrenceSat   Recurrence = "sat"
	RecurrenceSun   Recurrence = "sun"
)

// MeetingDraft черновик встречи в корзине планирования.
// Существует только до отправки /schedule: при отправке разворачивается
// в конкретные пары (start, end) и отбрасывается.
type MeetingDraft struct {
	ID         uuid.UUID  // локальный идентификатор в корзине
	Name       string
	StartTime  time.Time
	EndTime    time.Time
	Recurrence Recurrence // пустая строка = без повторения
	LinkOrLoc  string
	RepeatEnd  time.Time // дата окончания повторений (для daily/mon..sun)
}

// AssignmentDraft черновик задания с дедлайном
type AssignmentDraft struct {
	ID     uuid.UUID
	Name   string
	Effort int // усилие в минутах
	Due    time.Time
}

// ChoreDraft черновик домашнего дела с окном выполнения
type ChoreDraft struct {
	ID          uuid.UUID
	Name        string
	Effort      int
	WindowStart time.Time
	WindowEnd   time.Time
}

// Cart корзина планирования одного пользователя
type Cart struct {
	Meetings    []MeetingDraft
	Assignments []AssignmentDraft
	Chores      []ChoreDraft
}

// Empty сообщает пуста ли корзина
func (c *Cart) Empty() bool {
	return len(c.Meetings) == 0 && len(c.Assignments) == 0 && len(c.Chores) == 0
}

// Size возвращает общее количество черновиков в корзине
func (c *Cart) Size() int {
	return len(c.Meetings) + len(c.Assignments) + len(c.Chores)
}
