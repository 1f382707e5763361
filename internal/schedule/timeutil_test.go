package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

func TestFormatBackendTime(t *testing.T) {
	ts := time.Date(2025, 7, 23, 12, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-07-23T12:30:00+00:00", FormatBackendTime(ts))

	// Не-UTC время приводится к UTC перед форматированием
	msk := time.FixedZone("MSK", 3*3600)
	assert.Equal(t, "2025-07-23T09:30:00+00:00",
		FormatBackendTime(time.Date(2025, 7, 23, 12, 30, 0, 0, msk)))
}

func TestParseBackendTime(t *testing.T) {
	ts, err := ParseBackendTime("2025-07-23T12:30:00+00:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 23, 12, 30, 0, 0, time.UTC), ts.UTC())

	_, err = ParseBackendTime("23.07.2025")
	assert.Error(t, err)
}

func TestFormatParseRoundTrip(t *testing.T) {
	original := time.Date(2025, 12, 31, 23, 59, 59, 0, time.UTC)
	parsed, err := ParseBackendTime(FormatBackendTime(original))
	require.NoError(t, err)
	assert.True(t, original.Equal(parsed))
}

func TestTZOffsetMinutes(t *testing.T) {
	utc := time.Date(2025, 7, 23, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, TZOffsetMinutes(utc))

	msk := time.FixedZone("MSK", 3*3600)
	assert.Equal(t, 180, TZOffsetMinutes(utc.In(msk)))

	ny := time.FixedZone("EST", -5*3600)
	assert.Equal(t, -300, TZOffsetMinutes(utc.In(ny)))
}

func TestStartOfWeek(t *testing.T) {
	// Среда 23 июля 2025 -> воскресенье 20 июля, полночь
	wed := time.Date(2025, 7, 23, 15, 45, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC), StartOfWeek(wed))

	// Полночь воскресенья - неподвижная точка
	sun := time.Date(2025, 7, 20, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, sun, StartOfWeek(sun))

	// Позднее воскресенье обрезается до своей полуночи
	sunEvening := time.Date(2025, 7, 20, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, sun, StartOfWeek(sunEvening))
}

func TestWeekDays(t *testing.T) {
	days := WeekDays(time.Date(2025, 7, 23, 10, 0, 0, 0, time.UTC))
	require.Len(t, days, 7)

	assert.Equal(t, time.Sunday, days[0].Date.Weekday())
	assert.Equal(t, time.Saturday, days[6].Date.Weekday())
	assert.Equal(t, "2025-07-20", days[0].Key)
	assert.Equal(t, "2025-07-26", days[6].Key)
	assert.Equal(t, "Sun, Jul 20", days[0].Label)

	// Дни идут подряд без пропусков
	for i := 1; i < 7; i++ {
		assert.Equal(t, days[i-1].Date.AddDate(0, 0, 1), days[i].Date)
	}
}

func TestGroupByLocalDay(t *testing.T) {
	// Времена в локальной зоне, чтобы ключи были детерминированы
	day1 := time.Date(2025, 7, 21, 9, 0, 0, 0, time.Local)
	day2 := time.Date(2025, 7, 22, 9, 0, 0, 0, time.Local)

	slots := []model.Slot{
		{Name: "a", Start: day1, End: day1.Add(time.Hour)},
		{Name: "b", Start: day1.Add(5 * time.Hour), End: day1.Add(6 * time.Hour)},
		{Name: "c", Start: day2, End: day2.Add(time.Hour)},
	}

	grouped := GroupByLocalDay(slots)
	require.Len(t, grouped, 2)
	require.Len(t, grouped["2025-07-21"], 2)
	require.Len(t, grouped["2025-07-22"], 1)

	// Относительный порядок внутри дня сохранён
	assert.Equal(t, "a", grouped["2025-07-21"][0].Name)
	assert.Equal(t, "b", grouped["2025-07-21"][1].Name)

	// Слоты разных дней не смешиваются
	assert.Equal(t, "c", grouped["2025-07-22"][0].Name)
}

func TestFormatTimeRange(t *testing.T) {
	start := time.Date(2025, 7, 21, 9, 5, 0, 0, time.Local)
	end := start.Add(90 * time.Minute)
	assert.Equal(t, "09:05 AM - 10:35 AM", FormatTimeRange(start, end))
}
