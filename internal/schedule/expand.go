package schedule

import (
	"time"

	"github.com/teambition/rrule-go"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
)

// Occurrence одна конкретная пара (начало, конец) встречи
type Occurrence struct {
	Start time.Time
	End   time.Time
}

// weekdayRules соответствие кодов повторения дням недели rrule
var weekdayRules = map[model.Recurrence]rrule.Weekday{
	model.RecurrenceMon: rrule.MO,
	model.RecurrenceTue: rrule.TU,
	model.RecurrenceWed: rrule.WE,
	model.RecurrenceThu: rrule.TH,
	model.RecurrenceFri: rrule.FR,
	model.RecurrenceSat: rrule.SA,
	model.RecurrenceSun: rrule.SU,
}

// Expand разворачивает встречу в конечный список пар (start, end).
//
// Коды: "once" (или пусто) - одна пара; "daily" - каждые 24 часа, пока
// сдвинутое начало <= repeatEnd; "mon".."sun" - первое вхождение
// выравнивается вперёд на ближайший подходящий день недели (0 дней, если
// start уже на нём), дальше каждые 7 дней. Неизвестный код деградирует до
// одной пары, ошибок нет.
//
// Длительность (end - start) сохраняется у каждого вхождения, результат
// непуст и отсортирован по возрастанию начала. Функция чистая, повторный
// вызов с теми же аргументами даёт тот же результат.
func Expand(start, end time.Time, recurrence model.Recurrence, repeatEnd time.Time) []Occurrence {
	single := []Occurrence{{Start: start, End: end}}

	if recurrence == "" || recurrence == model.RecurrenceOnce {
		return single
	}
	if !repeatEnd.After(start) {
		return single
	}

	opt := rrule.ROption{
		Dtstart: start,
		Until:   repeatEnd,
	}
	switch {
	case recurrence == model.RecurrenceDaily:
		opt.Freq = rrule.DAILY
	default:
		wd, ok := weekdayRules[recurrence]
		if !ok {
			return single
		}
		opt.Freq = rrule.WEEKLY
		opt.Byweekday = []rrule.Weekday{wd}
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return single
	}

	starts := rule.All()
	if len(starts) == 0 {
		// Выравнивание по дню недели могло перешагнуть repeatEnd
		return single
	}

	duration := end.Sub(start)
	occurrences := make([]Occurrence, 0, len(starts))
	for _, s := range starts {
		occurrences = append(occurrences, Occurrence{Start: s, End: s.Add(duration)})
	}
	return occurrences
}

// EncodeOccurrences кодирует вхождения в формат start_end_times бэкенда
func EncodeOccurrences(occurrences []Occurrence) [][2]string {
	pairs := make([][2]string, 0, len(occurrences))
	for _, occ := range occurrences {
		pairs = append(pairs, [2]string{
			FormatBackendTime(occ.Start),
			FormatBackendTime(occ.End),
		})
	}
	return pairs
}
