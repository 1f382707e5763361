package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoginSendsFormAndParsesToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/login", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "alice", r.PostFormValue("username"))
		assert.Equal(t, "secret", r.PostFormValue("password"))

		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-123",
			"token_type":   "bearer",
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	token, err := client.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-123", token)
}

func TestLoginEmptyTokenIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"token_type": "bearer"})
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	_, err := client.Login(context.Background(), "alice", "secret")
	assert.Error(t, err)
}

func TestFetchQueryAndAuth(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fetch", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))

		q := r.URL.Query()
		// Временные метки в формате бэкенда с суффиксом +00:00
		assert.Equal(t, "2025-07-20T00:00:00+00:00", q.Get("start_time"))
		assert.Equal(t, "2025-07-27T00:00:00+00:00", q.Get("end_time"))
		assert.Equal(t, "true", q.Get("meetings"))
		assert.Equal(t, "true", q.Get("assignments"))
		assert.Equal(t, "true", q.Get("chores"))

		w.Write([]byte(`{"meetings": [], "assignments": [], "chores": []}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	start := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)

	resp, err := client.Fetch(context.Background(), "tok-123", start, end)
	require.NoError(t, err)
	assert.Empty(t, resp.Meetings)
}

func TestScheduleParsesCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req ScheduleRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Assignments, 1)
		assert.Equal(t, "Курсовая", req.Assignments[0].Name)

		w.Write([]byte(`{
			"conflicting_meetings": [],
			"schedules": [
				{"assignments": [], "chores": [], "conflicting_assignments": [], "conflicting_chores": [],
				 "not_enough_time_assignments": [], "not_enough_time_chores": [], "total_potential_xp": 150}
			],
			"meetings": []
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	data, err := client.Schedule(context.Background(), "tok-123", ScheduleRequest{
		Assignments: []AssignmentPayload{{Name: "Курсовая", Effort: 120, Due: "2025-07-25T00:00:00+00:00"}},
	})
	require.NoError(t, err)
	require.Len(t, data.Schedules, 1)
	assert.Equal(t, 150, data.Schedules[0].TotalPotentialXP)
	assert.True(t, data.Schedules[0].Clean())
}

func TestErrorStatusIncludesResponseText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"detail": "meeting overlaps"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	err := client.Delete(context.Background(), "tok-123", DeleteRequest{OccurrenceID: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "meeting overlaps")
}

func TestNotConfiguredShortCircuits(t *testing.T) {
	// Без адреса бэкенда и токена сетевых вызовов нет
	client := NewClient("", zap.NewNop())

	_, err := client.Login(context.Background(), "alice", "secret")
	assert.ErrorIs(t, err, ErrNotConfigured)

	_, err = client.Fetch(context.Background(), "", time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrNotConfigured)

	configured := NewClient("http://localhost:1", zap.NewNop())
	_, err = configured.Fetch(context.Background(), "", time.Now(), time.Now())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestUpdateMeetingOmitsEmptyFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))

		// Орфография полей бэкенда сохранена как есть
		assert.Contains(t, raw, "future_occurences")
		assert.Contains(t, raw, "ocurrence_id")
		assert.Contains(t, raw, "new_name")
		assert.NotContains(t, raw, "new_loc_or_link")
		assert.NotContains(t, raw, "new_start_time")

		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	name := "Новое название"
	client := NewClient(server.URL, zap.NewNop())
	err := client.UpdateMeeting(context.Background(), "tok-123", UpdateMeetingRequest{
		MeetingID:    5,
		OccurrenceID: 2,
		NewName:      &name,
	})
	require.NoError(t, err)
}

func TestGetLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/getLevel", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.Write([]byte(`{"xp": 40, "level": 2, "xp_for_next_level": 282, "achievements": {"first_timer": true}}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, zap.NewNop())
	info, err := client.GetLevel(context.Background(), "tok-123")
	require.NoError(t, err)
	assert.Equal(t, 2, info.Level)
	assert.Equal(t, 40, info.XP)
	assert.Equal(t, 282, info.XPForNextLevel)
}
