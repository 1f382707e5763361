package render

import (
	"bytes"
	"image/color"
	"strconv"
	"time"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"

	"github.com/procrastinate-app/procrastinate_bot/internal/model"
	"github.com/procrastinate-app/procrastinate_bot/internal/schedule"
)

// Константы размеров и отступов
const (
	imageWidth      = 1400
	imageHeight     = 900
	headerHeight    = 100
	leftLabelsWidth = 80
	dayPaddingX     = 8
	minSlotHeight   = 8.0
	slotBorderRound = 6.0
	totalDaysInWeek = 7
	hourPaddingTop  = 2
	hourPaddingBot  = 2
	defaultMinHour  = 0
	defaultMaxHour  = 23
)

// Цветовая схема: типы слотов повторяют палитру календаря ProcrastiNATE
// (встречи - индиго, задания - жёлтый, дела - зелёный)
var (
	bgColor        = color.RGBA{245, 246, 248, 255}
	textColor      = color.RGBA{80, 85, 90, 220}
	hourLabelColor = color.RGBA{110, 115, 120, 200}
	hourLineColor  = color.NRGBA{150, 150, 150, 255}
	todayBgColor   = color.NRGBA{255, 99, 71, 60}
	evenDayColor   = color.NRGBA{240, 240, 240, 255}
	oddDayColor    = color.NRGBA{220, 220, 220, 255}

	slotMeetingColor    = color.RGBA{99, 102, 241, 235}
	slotAssignmentColor = color.RGBA{234, 179, 8, 235}
	slotChoreColor      = color.RGBA{34, 197, 94, 235}
	slotCompletedColor  = color.RGBA{158, 158, 158, 200}
	slotTextColor       = color.RGBA{20, 24, 28, 230}
)

// hourRange содержит диапазон часов для отображения
type hourRange struct {
	start int
	end   int
	total int
}

// WeekImage рисует недельную сетку слотов и возвращает PNG
func WeekImage(days []schedule.WeekDay, slotsByDay map[string][]model.Slot, now time.Time) ([]byte, error) {
	dc := gg.NewContext(imageWidth, imageHeight)
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(bgColor)
	dc.Clear()

	hours := visibleHours(slotsByDay)
	dayWidth := (imageWidth - leftLabelsWidth) / totalDaysInWeek
	dayHeight := imageHeight - headerHeight
	cellHeight := float64(dayHeight) / float64(hours.total)

	drawHeader(dc, days)
	drawHourLabels(dc, hours, cellHeight)

	for dayIndex, day := range days {
		x := float64(leftLabelsWidth + dayIndex*dayWidth)
		y := float64(headerHeight)

		isToday := sameDay(day.Date, now)
		drawDayBackground(dc, x, y, dayWidth, dayHeight, dayIndex, isToday)
		drawDayHeader(dc, day, x, dayWidth)
		drawHourLines(dc, x, y, dayWidth, hours, cellHeight)

		for i := range slotsByDay[day.Key] {
			drawSlot(dc, &slotsByDay[day.Key][i], x, y, dayWidth, hours, cellHeight)
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// visibleHours подбирает диапазон часов так, чтобы все слоты недели
// были видны с небольшим запасом сверху и снизу
func visibleHours(slotsByDay map[string][]model.Slot) hourRange {
	minHour := 24
	maxHour := -1

	for _, slots := range slotsByDay {
		for _, slot := range slots {
			start := slot.Start.Local().Hour()
			end := slot.End.Local().Hour()
			if start < minHour {
				minHour = start
			}
			if end > maxHour {
				maxHour = end
			}
		}
	}

	if minHour == 24 {
		minHour = defaultMinHour
		maxHour = defaultMaxHour
	}

	startHour := minHour - hourPaddingTop
	endHour := maxHour + hourPaddingBot
	if startHour < 0 {
		startHour = 0
	}
	if endHour > 23 {
		endHour = 23
	}

	return hourRange{
		start: startHour,
		end:   endHour,
		total: endHour - startHour + 1,
	}
}

// drawHeader рисует заголовок с границами недели
func drawHeader(dc *gg.Context, days []schedule.WeekDay) {
	if len(days) == 0 {
		return
	}
	title := days[0].Date.Format("Jan 2") + " - " + days[len(days)-1].Date.Format("Jan 2, 2006")
	dc.SetColor(textColor)
	dc.DrawStringAnchored(title, imageWidth/2, headerHeight/4, 0.5, 0.5)
}

// drawHourLabels рисует колонку с часами слева
func drawHourLabels(dc *gg.Context, hours hourRange, cellHeight float64) {
	dc.SetColor(hourLabelColor)

	for hIdx := 0; hIdx < hours.total; hIdx++ {
		actualHour := hours.start + hIdx
		y := float64(headerHeight) + float64(hIdx)*cellHeight
		label := strconv.Itoa(actualHour) + ":00"
		dc.DrawStringAnchored(label, float64(leftLabelsWidth)-10, y, 1, 0.5)
	}
}

// sameDay проверяет, являются ли две даты одним днем
func sameDay(date1, date2 time.Time) bool {
	return date1.Year() == date2.Year() &&
		date1.Month() == date2.Month() &&
		date1.Day() == date2.Day()
}

// drawDayBackground рисует фон дня
func drawDayBackground(dc *gg.Context, x, y float64, dayWidth, dayHeight, dayIndex int, isToday bool) {
	if dayIndex%2 == 0 {
		dc.SetColor(evenDayColor)
	} else {
		dc.SetColor(oddDayColor)
	}
	dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
	dc.Fill()

	if isToday {
		dc.SetColor(todayBgColor)
		dc.DrawRectangle(x, y, float64(dayWidth), float64(dayHeight))
		dc.Fill()
	}
}

// drawDayHeader рисует название дня недели и дату
func drawDayHeader(dc *gg.Context, day schedule.WeekDay, x float64, dayWidth int) {
	dc.SetColor(textColor)
	dc.DrawStringAnchored(day.Label, x+float64(dayWidth)/2, headerHeight*0.65, 0.5, 0.5)
}

// drawHourLines рисует горизонтальные линии часов
func drawHourLines(dc *gg.Context, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	dc.SetLineWidth(0.3)
	dc.SetColor(hourLineColor)

	for hIdx := 0; hIdx <= hours.total; hIdx++ {
		hy := y + float64(hIdx)*cellHeight
		dc.DrawLine(x, hy, x+float64(dayWidth), hy)
		dc.Stroke()
	}
}

// slotColor возвращает цвет слота по типу и завершённости
func slotColor(slot *model.Slot) color.RGBA {
	if slot.Completed {
		return slotCompletedColor
	}
	switch slot.Type {
	case model.SlotTypeMeeting:
		return slotMeetingColor
	case model.SlotTypeAssignment:
		return slotAssignmentColor
	case model.SlotTypeChore:
		return slotChoreColor
	}
	return slotCompletedColor
}

// drawSlot рисует один слот
func drawSlot(dc *gg.Context, slot *model.Slot, x, y float64, dayWidth int, hours hourRange, cellHeight float64) {
	start := slot.Start.Local()
	end := slot.End.Local()

	slotStartHour := float64(start.Hour()) + float64(start.Minute())/60.0
	slotEndHour := float64(end.Hour()) + float64(end.Minute())/60.0
	if slotEndHour < slotStartHour {
		// Слот уходит за полночь - обрезаем по концу суток
		slotEndHour = 24.0
	}

	slotY := y + (slotStartHour-float64(hours.start))*cellHeight
	slotHeight := (slotEndHour - slotStartHour) * cellHeight
	if slotHeight < minSlotHeight {
		slotHeight = minSlotHeight
	}

	slotWidth := float64(dayWidth) - float64(dayPaddingX*2)

	dc.SetColor(slotColor(slot))
	dc.DrawRoundedRectangle(x+float64(dayPaddingX), slotY+2, slotWidth, slotHeight-4, slotBorderRound)
	dc.Fill()

	label := slot.Name
	if slot.Completed {
		label = "✔ " + label
	}
	dc.SetColor(slotTextColor)
	dc.DrawStringAnchored(label, x+float64(dayWidth)/2, slotY+slotHeight/2, 0.5, 0.5)
}
