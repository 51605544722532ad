package streak

import "fmt"

var milestones = map[int]string{
	1:   "First day of your wellness journey! 🌱",
	3:   "3 days of consistency! Building strong habits! 💪",
	7:   "One week streak! You're developing discipline! 🌟",
	14:  "Two weeks! Your commitment is admirable! 🚀",
	21:  "21 days! You've formed a powerful habit! 🎯",
	30:  "30 days! You're a wellness warrior! 🏆",
	50:  "50 days! Your dedication is inspiring! 💎",
	100: "100 days! You're a legend! 👑",
}

// Milestone returns the encouragement shown for a streak value
func Milestone(streak int) string {
	if msg, ok := milestones[streak]; ok {
		return msg
	}
	switch {
	case streak <= 0:
		return "Complete all three activities today to start a streak!"
	case streak > 100:
		return fmt.Sprintf("%d days of excellence! 🌈", streak)
	case streak > 50:
		return fmt.Sprintf("%d days strong! Keep shining! ✨", streak)
	case streak > 30:
		return fmt.Sprintf("%d days! Amazing consistency! 🌸", streak)
	}
	return fmt.Sprintf("%d days and counting! Keep it up! 🔥", streak)
}
