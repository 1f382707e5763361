package schedule

import (
	"sort"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// Normalize сводит разнородные сущности бэкенда в один плоский список
// слотов, отсортированный по возрастанию начала. Сортировка стабильная:
// при равном начале сохраняется порядок вставки (встречи, затем задания,
// затем дела). Битые записи пропускаются поштучно.
func Normalize(resp *model.FetchResponse) []model.Slot {
	var slots []model.Slot

	for _, m := range resp.Meetings {
		meetingID := m.MeetingID
		for idx, pair := range m.StartEndTimes {
			start, err := ParseBackendTime(pair[0])
			if err != nil {
				continue
			}
			end, err := ParseBackendTime(pair[1])
			if err != nil {
				continue
			}
			slots = append(slots, model.Slot{
				Name:         m.Name,
				Type:         model.SlotTypeMeeting,
				Start:        start,
				End:          end,
				MeetingID:    &meetingID,
				OccurrenceID: occurrenceID(m.OccurrenceIDs, idx),
			})
		}
	}

	for _, a := range resp.Assignments {
		if a.Schedule == nil {
			continue
		}
		assignmentID := a.AssignmentID
		for idx, st := range a.Schedule.Slots {
			start, err := ParseBackendTime(st.Start)
			if err != nil {
				continue
			}
			end, err := ParseBackendTime(st.End)
			if err != nil {
				continue
			}
			slots = append(slots, model.Slot{
				Name:         a.Name,
				Type:         model.SlotTypeAssignment,
				Start:        start,
				End:          end,
				AssignmentID: &assignmentID,
				OccurrenceID: occurrenceID(a.OccurrenceIDs, idx),
				Completed:    completedAt(a.Completed, idx),
			})
		}
	}

	for _, c := range resp.Chores {
		if c.Schedule == nil {
			continue
		}
		choreID := c.ChoreID
		for idx, st := range c.Schedule.Slots {
			start, err := ParseBackendTime(st.Start)
			if err != nil {
				continue
			}
			end, err := ParseBackendTime(st.End)
			if err != nil {
				continue
			}
			slots = append(slots, model.Slot{
				Name:         c.Name,
				Type:         model.SlotTypeChore,
				Start:        start,
				End:          end,
				ChoreID:      &choreID,
				OccurrenceID: occurrenceID(c.OccurrenceIDs, idx),
				Completed:    completedAt(c.Completed, idx),
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots
}

// occurrenceID берёт id вхождения из параллельного массива, а при его
// отсутствии или нехватке длины использует индекс
func occurrenceID(ids []int64, idx int) int64 {
	if idx < len(ids) {
		return ids[idx]
	}
	return int64(idx)
}

// completedAt читает флаг завершённости, по умолчанию false
func completedAt(completed []bool, idx int) bool {
	if idx < len(completed) {
		return completed[idx]
	}
	return false
}
