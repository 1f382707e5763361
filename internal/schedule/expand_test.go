package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

func TestExpandOnce(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	for _, recurrence := range []model.Recurrence{model.RecurrenceOnce, ""} {
		occurrences := Expand(start, end, recurrence, time.Time{})
		require.Len(t, occurrences, 1)
		assert.Equal(t, start, occurrences[0].Start)
		assert.Equal(t, end, occurrences[0].End)
	}
}

func TestExpandDaily(t *testing.T) {
	// Понедельник 6 января 2025, 09:00-10:00, повторять до среды
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	repeatEnd := time.Date(2025, 1, 8, 23, 59, 0, 0, time.UTC)

	occurrences := Expand(start, end, model.RecurrenceDaily, repeatEnd)
	require.Len(t, occurrences, 3)

	for i, occ := range occurrences {
		expectedStart := start.AddDate(0, 0, i)
		assert.Equal(t, expectedStart, occ.Start)
		assert.Equal(t, time.Hour, occ.End.Sub(occ.Start), "длительность сохраняется")
	}
}

func TestExpandDailyUntilInclusive(t *testing.T) {
	// repeatEnd совпадает с началом последнего вхождения - оно входит
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(30 * time.Minute)
	repeatEnd := time.Date(2025, 1, 8, 9, 0, 0, 0, time.UTC)

	occurrences := Expand(start, end, model.RecurrenceDaily, repeatEnd)
	require.Len(t, occurrences, 3)
	assert.Equal(t, repeatEnd, occurrences[2].Start)
}

func TestExpandWeekdayAlignment(t *testing.T) {
	// Понедельник 6 января, повторять по средам: первое вхождение
	// выравнивается вперёд на среду 8 января
	start := time.Date(2025, 1, 6, 14, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)
	repeatEnd := time.Date(2025, 1, 22, 23, 0, 0, 0, time.UTC)

	occurrences := Expand(start, end, model.RecurrenceWed, repeatEnd)
	require.Len(t, occurrences, 3)

	first := time.Date(2025, 1, 8, 14, 0, 0, 0, time.UTC)
	for i, occ := range occurrences {
		assert.Equal(t, first.AddDate(0, 0, 7*i), occ.Start)
		assert.Equal(t, time.Wednesday, occ.Start.Weekday())
		assert.Equal(t, 2*time.Hour, occ.End.Sub(occ.Start))
	}
}

func TestExpandWeekdaySameDayNoShift(t *testing.T) {
	// Начало уже в нужный день недели - сдвига нет
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC) // понедельник
	end := start.Add(time.Hour)
	repeatEnd := start.AddDate(0, 0, 7)

	occurrences := Expand(start, end, model.RecurrenceMon, repeatEnd)
	require.Len(t, occurrences, 2)
	assert.Equal(t, start, occurrences[0].Start)
}

func TestExpandRepeatEndBeforeStart(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	occurrences := Expand(start, end, model.RecurrenceDaily, start.AddDate(0, 0, -1))
	require.Len(t, occurrences, 1)
	assert.Equal(t, start, occurrences[0].Start)
}

func TestExpandUnknownRecurrence(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	occurrences := Expand(start, end, model.Recurrence("fortnightly"), start.AddDate(0, 1, 0))
	require.Len(t, occurrences, 1)
}

func TestExpandAlignmentPastRepeatEnd(t *testing.T) {
	// Выравнивание на вторник перешагивает repeatEnd - остаётся одна пара
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC) // понедельник
	end := start.Add(time.Hour)
	repeatEnd := start.Add(12 * time.Hour) // тот же день

	occurrences := Expand(start, end, model.RecurrenceTue, repeatEnd)
	require.Len(t, occurrences, 1)
	assert.Equal(t, start, occurrences[0].Start)
}

func TestExpandDeterministic(t *testing.T) {
	start := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	repeatEnd := start.AddDate(0, 0, 21)

	first := Expand(start, end, model.RecurrenceSat, repeatEnd)
	second := Expand(start, end, model.RecurrenceSat, repeatEnd)
	assert.Equal(t, first, second)
}

func TestExpandSorted(t *testing.T) {
	start := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	repeatEnd := start.AddDate(0, 0, 14)

	occurrences := Expand(start, end, model.RecurrenceDaily, repeatEnd)
	require.NotEmpty(t, occurrences)
	for i := 1; i < len(occurrences); i++ {
		assert.True(t, occurrences[i-1].Start.Before(occurrences[i].Start))
	}
}

func TestEncodeOccurrences(t *testing.T) {
	start := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	occurrences := []Occurrence{{Start: start, End: start.Add(time.Hour)}}

	pairs := EncodeOccurrences(occurrences)
	require.Len(t, pairs, 1)
	assert.Equal(t, "2025-01-06T09:00:00+00:00", pairs[0][0])
	assert.Equal(t, "2025-01-06T10:00:00+00:00", pairs[0][1])
}
