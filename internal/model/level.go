package model

import "math"

// LevelInfo игровой прогресс пользователя (ответ /getLevel)
type LevelInfo struct {
	UserName       string          `json:"user_name"`
	XP             int             `json:"xp"`
	Level          int             `json:"level"`
	XPForNextLevel int             `json:"xp_for_next_level"`
	Achievements   map[string]bool `json:"achievements"`
}

// XPForLevel порог опыта по формуле бэкенда: 100·level^1.5, ноль для level <= 0
func XPForLevel(level int) int {
	if level <= 0 {
		return 0
	}
	return int(100 * math.Pow(float64(level), 1.5))
}

// XPTarget порог опыта для следующего уровня. Бэкенд присылает готовое
// значение; если его нет в ответе, считаем по его же формуле.
func (l *LevelInfo) XPTarget() int {
	if l.XPForNextLevel > 0 {
		return l.XPForNextLevel
	}
	return XPForLevel(l.Level)
}

// achievementTitles подписи достижений в порядке отображения
var achievementTitles = []struct {
	Key   string
	Title string
}{
	{"first_timer", "🎯 First Timer"},
	{"getting_the_hang_of_it", "📈 Getting the Hang of It"},
	{"early_bird", "🌅 Early Bird"},
	{"night_owl", "🦉 Night Owl"},
	{"weekend_warrior", "⚔️ Weekend Warrior"},
	{"seven_day_streak", "🔥 Seven Day Streak"},
	{"daily_grinder", "⚙️ Daily Grinder"},
	{"consistency_king", "👑 Consistency King"},
	{"power_hour", "⚡ Power Hour"},
	{"focus_beast", "🧠 Focus Beast"},
	{"redemption", "🙌 Redemption"},
	{"sleep_is_for_the_weak", "🌙 Sleep Is for the Weak"},
}

// EarnedAchievements возвращает подписи заработанных достижений
func (l *LevelInfo) EarnedAchievements() []string {
	var earned []string
	for _, a := range achievementTitles {
		if l.Achievements[a.Key] {
			earned = append(earned, a.Title)
		}
	}
	return earned
}
