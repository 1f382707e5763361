package service

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/procrastinate-app/procrastinate_bot/internal/backend"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

func newScheduleServiceWithFetch(t *testing.T, body string) *ScheduleService {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	client := backend.NewClient(server.URL, zap.NewNop())
	return NewScheduleService(client, zap.NewNop())
}

func TestSlotsBetweenKeepsSlotCrossingDayEnd(t *testing.T) {
	body := `{"meetings": [], "chores": [], "assignments": [{
		"name": "Отчёт",
		"assignment_id": 7,
		"schedule": {"status": "scheduled", "slots": [
			{"start": "2025-07-26T10:00:00+00:00", "end": "2025-07-26T11:00:00+00:00"},
			{"start": "2025-07-26T23:30:00+00:00", "end": "2025-07-27T00:15:00+00:00"},
			{"start": "2025-07-27T00:00:00+00:00", "end": "2025-07-27T01:00:00+00:00"}
		]},
		"ocurrence_ids": [1, 2, 3],
		"completed": [false, false, false]
	}]}`
	svc := newScheduleServiceWithFetch(t, body)

	session := &model.Session{TelegramID: 42, Token: "tok"}
	dayStart := time.Date(2025, 7, 26, 0, 0, 0, 0, time.UTC)
	dayEnd := dayStart.AddDate(0, 0, 1)

	require.NoError(t, svc.EnsureRange(context.Background(), session, dayStart, dayEnd.AddDate(0, 0, 1)))

	slots := svc.SlotsBetween(session, dayStart, dayEnd)
	require.Len(t, slots, 2)
	// блок принадлежит дню своего начала: субботний 23:30-00:15 остаётся,
	// а начавшийся ровно в полночь воскресенья - уже нет
	assert.Equal(t, int64(1), slots[0].OccurrenceID)
	assert.Equal(t, int64(2), slots[1].OccurrenceID)
}

func TestSlotsBetweenEmptyCache(t *testing.T) {
	svc := newScheduleServiceWithFetch(t, `{"meetings": [], "assignments": [], "chores": []}`)

	session := &model.Session{TelegramID: 42, Token: "tok"}
	start := time.Date(2025, 7, 26, 0, 0, 0, 0, time.UTC)

	assert.Empty(t, svc.SlotsBetween(session, start, start.AddDate(0, 0, 1)))
}
