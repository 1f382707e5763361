package model

import "encoding/json"

// Явные схемы сырого ответа /fetch. Бэкенд присылает параллельные
// массивы, а его орфография полей (ocurrence_ids) сохранена как есть.

// RawSlotTime один запланированный блок внутри schedule сущности
type RawSlotTime struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// RawSchedule вложенное расписание задания или дела; может быть null
type RawSchedule struct {
	Status string        `json:"status"`
	Slots  []RawSlotTime `json:"slots"`
}

// RawMeeting встреча с параллельными массивами вхождений и их id
type RawMeeting struct {
	Name          string      `json:"name"`
	MeetingID     int64       `json:"meeting_id"`
	StartEndTimes [][2]string `json:"start_end_times"`
	OccurrenceIDs []int64     `json:"ocurrence_ids"`
}

// RawAssignment задание с вложенным расписанием и массивом completed
type RawAssignment struct {
	Name          string       `json:"name"`
	AssignmentID  int64        `json:"assignment_id"`
	Schedule      *RawSchedule `json:"schedule"`
	OccurrenceIDs []int64      `json:"ocurrence_ids"`
	Completed     []bool       `json:"completed"`
}

// RawChore домашнее дело, форма совпадает с заданием
type RawChore struct {
	Name          string       `json:"name"`
	ChoreID       int64        `json:"chore_id"`
	Schedule      *RawSchedule `json:"schedule"`
	OccurrenceIDs []int64      `json:"ocurrence_ids"`
	Completed     []bool       `json:"completed"`
}

// FetchResponse ответ GET /fetch
type FetchResponse struct {
	Meetings    []RawMeeting
	Assignments []RawAssignment
	Chores      []RawChore
}

// UnmarshalJSON разбирает ответ устойчиво к мусорным записям: каждая
// сущность декодируется отдельно, и одна битая запись (или поле не-массив)
// не роняет валидных соседей.
func (f *FetchResponse) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	f.Meetings = decodeEntries[RawMeeting](fields["meetings"])
	f.Assignments = decodeEntries[RawAssignment](fields["assignments"])
	f.Chores = decodeEntries[RawChore](fields["chores"])
	return nil
}

// decodeEntries декодирует список сущностей, молча пропуская битые
func decodeEntries[T any](raw json.RawMessage) []T {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		// Поле не является массивом - пропускаем целиком
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		var v T
		if err := json.Unmarshal(item, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}
