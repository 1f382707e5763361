package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot/models"

	"github.com/procrastinate-app/procrastinate_bot/internal/controller/callbacks"
	"github.com/procrastinate-app/procrastinate_bot/internal/controller/keyboard"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

// slotEmoji значок типа слота
func slotEmoji(t model.SlotType) string {
	switch t {
	case model.SlotTypeMeeting:
		return "📅"
	case model.SlotTypeAssignment:
		return "📝"
	case model.SlotTypeChore:
		return "🧹"
	}
	return "•"
}

// slotLine одна строка списка слотов
func slotLine(slot *model.Slot) string {
	line := fmt.Sprintf("%s %s — %s", slotEmoji(slot.Type), slot.Name,
		schedule.FormatTimeRange(slot.Start, slot.End))
	if slot.Completed {
		line += " ✅"
	}
	return line
}

// slotKey аргументы callback data для слота
func slotKey(slot *model.Slot) string {
	return fmt.Sprintf("%s:%d:%d", slot.Type, slot.ParentID(), slot.OccurrenceID)
}

// truncateLabel обрезает подпись кнопки по рунам, не ломая UTF-8
func truncateLabel(label string, max int) string {
	runes := []rune(label)
	if len(runes) <= max {
		return label
	}
	return string(runes[:max]) + "…"
}

// slotActionsKeyboard клавиатура действий для списка слотов дня
func slotActionsKeyboard(slots []model.Slot) *models.InlineKeyboardMarkup {
	kb := keyboard.NewBuilder()
	for i := range slots {
		slot := &slots[i]
		label := truncateLabel(slot.Name, 24)

		switch slot.Type {
		case model.SlotTypeMeeting:
			kb.Row(
				keyboard.Button("✏️ "+label, callbacks.EditMeet+keyFor(slot)),
				keyboard.Button("🗑", callbacks.DeleteMeet+keyFor(slot)),
			)
		default:
			row := []models.InlineKeyboardButton{}
			if !slot.Completed {
				row = append(row, keyboard.Button("✅ "+label, callbacks.DoneSlot+slotKey(slot)))
			} else {
				row = append(row, keyboard.Button("✔ "+label, callbacks.Noop))
			}
			row = append(row,
				keyboard.Button("🔁", callbacks.Reschedule+fmt.Sprintf("%s:%d", slot.Type, slot.ParentID())),
				keyboard.Button("🗑", callbacks.DeleteSlot+slotKey(slot)),
			)
			kb.Row(row...)
		}
	}
	return kb.Build()
}

// keyFor аргументы callback data для встречи (id родителя и вхождения)
func keyFor(slot *model.Slot) string {
	return fmt.Sprintf("%d:%d", slot.ParentID(), slot.OccurrenceID)
}

// formatCart текст содержимого корзины планирования
func formatCart(cart *model.Cart) string {
	if cart.Empty() {
		return "🗒 Корзина планирования пуста.\n\nДобавьте события:\n/addmeeting - встреча\n/addassignment - задание\n/addchore - дело"
	}

	var sb strings.Builder
	sb.WriteString("🗒 Корзина планирования:\n")

	for _, m := range cart.Meetings {
		line := fmt.Sprintf("\n📅 %s\n   %s", m.Name,
			m.StartTime.Local().Format(DateTimeInputLayout))
		if m.Recurrence != "" && m.Recurrence != model.RecurrenceOnce {
			line += fmt.Sprintf(" (повтор: %s до %s)", m.Recurrence,
				m.RepeatEnd.Local().Format(DateInputLayout))
		}
		sb.WriteString(line)
	}
	for _, a := range cart.Assignments {
		sb.WriteString(fmt.Sprintf("\n📝 %s\n   усилие %d мин, дедлайн %s", a.Name,
			a.Effort, a.Due.Local().Format(DateTimeInputLayout)))
	}
	for _, c := range cart.Chores {
		sb.WriteString(fmt.Sprintf("\n🧹 %s\n   усилие %d мин, окно %s - %s", c.Name,
			c.Effort,
			c.WindowStart.Local().Format(DateTimeInputLayout),
			c.WindowEnd.Local().Format(DateTimeInputLayout)))
	}

	sb.WriteString("\n\nОтправить планировщику: /plan")
	return sb.String()
}

// parseDateTime разбирает дату и время из диалога в локальном поясе
func parseDateTime(text string) (time.Time, error) {
	return time.ParseInLocation(DateTimeInputLayout, strings.TrimSpace(text), time.Local)
}

// parseDate разбирает дату (конец дня) из диалога в локальном поясе
func parseDate(text string) (time.Time, error) {
	d, err := time.ParseInLocation(DateInputLayout, strings.TrimSpace(text), time.Local)
	if err != nil {
		return time.Time{}, err
	}
	// Повторения включают весь последний день
	return d.Add(24*time.Hour - time.Second), nil
}

// parseEffort разбирает усилие в минутах с проверкой диапазона
func parseEffort(text string) (int, error) {
	effort, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("not a number")
	}
	if effort < EffortMinMinutes || effort > EffortMaxMinutes {
		return 0, fmt.Errorf("effort out of range")
	}
	return effort, nil
}
