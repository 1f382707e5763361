package schedule

import (
	"time"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// backendTimeLayout формат времени бэкенда: ISO 8601 с явным смещением.
// Бэкенд ожидает суффикс "+00:00", а не "Z".
const backendTimeLayout = "2006-01-02T15:04:05-07:00"

// FormatBackendTime форматирует время для бэкенда (UTC, суффикс +00:00)
func FormatBackendTime(t time.Time) string {
	return t.UTC().Format(backendTimeLayout)
}

// ParseBackendTime разбирает метку времени из ответа бэкенда
func ParseBackendTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// TZOffsetMinutes смещение локального часового пояса в минутах к востоку
// от UTC (знак совпадает с tz_offset_minutes бэкенда)
func TZOffsetMinutes(t time.Time) int {
	_, offset := t.Zone()
	return offset / 60
}

// StartOfWeek возвращает локальную полночь воскресенья недели,
// содержащей date. Для любой date результат <= date; если date уже
// полночь воскресенья, возвращается она сама.
func StartOfWeek(date time.Time) time.Time {
	d := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// WeekDay описание одного дня недельной сетки
type WeekDay struct {
	Date  time.Time
	Label string // например "Sun, Jul 20"
	Key   string // локальная дата YYYY-MM-DD
}

// WeekDays возвращает ровно 7 дней недели (воскресенье..суббота),
// содержащей referenceDate, в локальном времени наблюдателя
func WeekDays(referenceDate time.Time) []WeekDay {
	start := StartOfWeek(referenceDate)
	days := make([]WeekDay, 0, 7)
	for i := 0; i < 7; i++ {
		d := start.AddDate(0, 0, i)
		days = append(days, WeekDay{
			Date:  d,
			Label: d.Format("Mon, Jan 2"),
			Key:   d.Format("2006-01-02"),
		})
	}
	return days
}

// GroupByLocalDay группирует слоты по локальной дате начала (YYYY-MM-DD),
// сохраняя относительный порядок внутри каждого дня
func GroupByLocalDay(slots []model.Slot) map[string][]model.Slot {
	grouped := make(map[string][]model.Slot)
	for _, slot := range slots {
		key := slot.Start.Local().Format("2006-01-02")
		grouped[key] = append(grouped[key], slot)
	}
	return grouped
}

// FormatTime форматирует время слота для отображения (локальное, hh:mm AM/PM)
func FormatTime(t time.Time) string {
	return t.Local().Format("03:04 PM")
}

// FormatTimeRange форматирует диапазон времени слота
func FormatTimeRange(start, end time.Time) string {
	return FormatTime(start) + " - " + FormatTime(end)
}
