package schedule

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

func TestNormalizeFlattensAndSorts(t *testing.T) {
	resp := &model.FetchResponse{
		Meetings: []model.RawMeeting{
			{
				Name:      "Созвон",
				MeetingID: 5,
				StartEndTimes: [][2]string{
					{"2025-07-21T15:00:00+00:00", "2025-07-21T16:00:00+00:00"},
					{"2025-07-22T15:00:00+00:00", "2025-07-22T16:00:00+00:00"},
				},
				OccurrenceIDs: []int64{101, 102},
			},
		},
		Assignments: []model.RawAssignment{
			{
				Name:         "Курсовая",
				AssignmentID: 7,
				Schedule: &model.RawSchedule{
					Status: "fully_scheduled",
					Slots: []model.RawSlotTime{
						{Start: "2025-07-21T09:00:00+00:00", End: "2025-07-21T11:00:00+00:00"},
					},
				},
				OccurrenceIDs: []int64{201},
				Completed:     []bool{true},
			},
		},
		Chores: []model.RawChore{
			{
				Name:    "Уборка",
				ChoreID: 9,
				Schedule: &model.RawSchedule{
					Slots: []model.RawSlotTime{
						{Start: "2025-07-21T18:00:00+00:00", End: "2025-07-21T19:00:00+00:00"},
					},
				},
				OccurrenceIDs: []int64{301},
			},
		},
	}

	slots := Normalize(resp)
	require.Len(t, slots, 4)

	// Отсортировано по началу
	for i := 1; i < len(slots); i++ {
		assert.False(t, slots[i].Start.Before(slots[i-1].Start))
	}

	assert.Equal(t, "Курсовая", slots[0].Name)
	assert.True(t, slots[0].Completed)
	require.NotNil(t, slots[0].AssignmentID)
	assert.Equal(t, int64(7), *slots[0].AssignmentID)
	assert.Equal(t, int64(201), slots[0].OccurrenceID)

	assert.Equal(t, model.SlotTypeMeeting, slots[1].Type)
	assert.Equal(t, int64(101), slots[1].OccurrenceID)
	assert.Equal(t, model.SlotTypeChore, slots[2].Type)
	assert.Equal(t, int64(102), slots[3].OccurrenceID)
}

func TestNormalizeNilScheduleSkipsEntity(t *testing.T) {
	resp := &model.FetchResponse{
		Assignments: []model.RawAssignment{
			{Name: "Без расписания", AssignmentID: 1, Schedule: nil},
			{
				Name:         "С расписанием",
				AssignmentID: 2,
				Schedule: &model.RawSchedule{
					Slots: []model.RawSlotTime{
						{Start: "2025-07-21T09:00:00+00:00", End: "2025-07-21T10:00:00+00:00"},
					},
				},
			},
		},
	}

	slots := Normalize(resp)
	require.Len(t, slots, 1)
	assert.Equal(t, "С расписанием", slots[0].Name)
}

func TestNormalizeBadTimestampSkipsSlot(t *testing.T) {
	resp := &model.FetchResponse{
		Meetings: []model.RawMeeting{
			{
				Name:      "Созвон",
				MeetingID: 5,
				StartEndTimes: [][2]string{
					{"garbage", "2025-07-21T16:00:00+00:00"},
					{"2025-07-22T15:00:00+00:00", "2025-07-22T16:00:00+00:00"},
				},
				OccurrenceIDs: []int64{101, 102},
			},
		},
	}

	slots := Normalize(resp)
	require.Len(t, slots, 1)
	// Пропуск битой пары не смещает id соседних вхождений
	assert.Equal(t, int64(102), slots[0].OccurrenceID)
}

func TestNormalizeOccurrenceIDFallsBackToIndex(t *testing.T) {
	resp := &model.FetchResponse{
		Meetings: []model.RawMeeting{
			{
				Name:      "Созвон",
				MeetingID: 5,
				StartEndTimes: [][2]string{
					{"2025-07-21T15:00:00+00:00", "2025-07-21T16:00:00+00:00"},
					{"2025-07-22T15:00:00+00:00", "2025-07-22T16:00:00+00:00"},
				},
				OccurrenceIDs: []int64{101}, // короче, чем пар
			},
		},
	}

	slots := Normalize(resp)
	require.Len(t, slots, 2)
	assert.Equal(t, int64(101), slots[0].OccurrenceID)
	assert.Equal(t, int64(1), slots[1].OccurrenceID)
}

func TestNormalizeCompletedDefaultsFalse(t *testing.T) {
	resp := &model.FetchResponse{
		Chores: []model.RawChore{
			{
				Name:    "Уборка",
				ChoreID: 9,
				Schedule: &model.RawSchedule{
					Slots: []model.RawSlotTime{
						{Start: "2025-07-21T18:00:00+00:00", End: "2025-07-21T19:00:00+00:00"},
						{Start: "2025-07-22T18:00:00+00:00", End: "2025-07-22T19:00:00+00:00"},
					},
				},
				Completed: []bool{true}, // короче, чем слотов
			},
		},
	}

	slots := Normalize(resp)
	require.Len(t, slots, 2)
	assert.True(t, slots[0].Completed)
	assert.False(t, slots[1].Completed)
}

func TestNormalizeEmptyResponse(t *testing.T) {
	slots := Normalize(&model.FetchResponse{})
	assert.Empty(t, slots)
}

func TestNormalizeStableOrderAtEqualStart(t *testing.T) {
	start := "2025-07-21T09:00:00+00:00"
	end := "2025-07-21T10:00:00+00:00"

	resp := &model.FetchResponse{
		Meetings: []model.RawMeeting{
			{Name: "Встреча", MeetingID: 1, StartEndTimes: [][2]string{{start, end}}, OccurrenceIDs: []int64{1}},
		},
		Assignments: []model.RawAssignment{
			{Name: "Задание", AssignmentID: 2, Schedule: &model.RawSchedule{
				Slots: []model.RawSlotTime{{Start: start, End: end}},
			}},
		},
	}

	slots := Normalize(resp)
	require.Len(t, slots, 2)
	// При равном начале встречи идут раньше заданий (порядок вставки)
	assert.Equal(t, model.SlotTypeMeeting, slots[0].Type)
	assert.Equal(t, model.SlotTypeAssignment, slots[1].Type)
}

func TestFetchResponseResilientDecoding(t *testing.T) {
	payload := `{
		"meetings": [
			{"name": "Созвон", "meeting_id": 5, "start_end_times": [["2025-07-21T15:00:00+00:00", "2025-07-21T16:00:00+00:00"]], "ocurrence_ids": [101]},
			"мусор вместо объекта"
		],
		"assignments": "не массив",
		"chores": []
	}`

	var resp model.FetchResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &resp))

	require.Len(t, resp.Meetings, 1)
	assert.Equal(t, "Созвон", resp.Meetings[0].Name)
	assert.Empty(t, resp.Assignments)
	assert.Empty(t, resp.Chores)

	slots := Normalize(&resp)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2025, 7, 21, 15, 0, 0, 0, time.UTC), slots[0].Start.UTC())
}
