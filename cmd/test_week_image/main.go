package main

import (
	"fmt"
	"os"
	"time"

	"github.com/procrastinate-app/procrastinate_bot/internal/controller/render"
	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

func main() {
	// Создаем тестовые данные
	now := time.Now()
	weekStart := schedule.StartOfWeek(now)

	meetingID := int64(1)
	assignmentID := int64(2)
	choreID := int64(3)

	slots := []model.Slot{
		// Воскресенье
		{
			Name:         "Созвон с командой",
			Type:         model.SlotTypeMeeting,
			Start:        weekStart.Add(9 * time.Hour),
			End:          weekStart.Add(10 * time.Hour),
			MeetingID:    &meetingID,
			OccurrenceID: 1,
		},
		// Понедельник
		{
			Name:         "Курсовая работа",
			Type:         model.SlotTypeAssignment,
			Start:        weekStart.AddDate(0, 0, 1).Add(14 * time.Hour),
			End:          weekStart.AddDate(0, 0, 1).Add(16 * time.Hour),
			AssignmentID: &assignmentID,
			OccurrenceID: 2,
		},
		// Вторник, выполненное дело
		{
			Name:         "Уборка",
			Type:         model.SlotTypeChore,
			Start:        weekStart.AddDate(0, 0, 2).Add(18 * time.Hour),
			End:          weekStart.AddDate(0, 0, 2).Add(19 * time.Hour),
			ChoreID:      &choreID,
			OccurrenceID: 3,
			Completed:    true,
		},
		// Среда, пересечение с текущим временем
		{
			Name:         "Курсовая работа",
			Type:         model.SlotTypeAssignment,
			Start:        weekStart.AddDate(0, 0, 3).Add(10 * time.Hour),
			End:          weekStart.AddDate(0, 0, 3).Add(12 * time.Hour),
			AssignmentID: &assignmentID,
			OccurrenceID: 4,
		},
	}

	days := schedule.WeekDays(now)
	slotsByDay := schedule.GroupByLocalDay(slots)

	image, err := render.WeekImage(days, slotsByDay, now)
	if err != nil {
		fmt.Printf("Failed to render week image: %v\n", err)
		os.Exit(1)
	}

	if err := os.WriteFile("week_test.png", image, 0644); err != nil {
		fmt.Printf("Failed to write file: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Week image saved to week_test.png")
}
