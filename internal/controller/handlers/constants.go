package handlers

// Ограничения пользовательского ввода
const (
	NameMinLength = 2
	NameMaxLength = 100

	EffortMinMinutes = 5
	EffortMaxMinutes = 24 * 60
)

// DateTimeInputLayout формат ввода даты и времени в диалогах
const DateTimeInputLayout = "02.01.2006 15:04"

// DateInputLayout формат ввода даты (окончание повторений)
const DateInputLayout = "02.01.2006"
