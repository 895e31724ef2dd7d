package nutrition

import "fmt"

// Meal shares of the daily calorie budget.
const (
	breakfastShare = 0.25
	lunchShare     = 0.40
	dinnerShare    = 0.35
)

// DailyCalories returns the daily calorie range for an age. Five tiers:
// under 16, 16-24, 25-40, 41-60, over 60.
func DailyCalories(age int) (min, max int) {
	switch {
	case age < 16:
		return 1600, 2200
	case age <= 24:
		return 2000, 2800
	case age <= 40:
		return 2000, 2600
	case age <= 60:
		return 1800, 2400
	default:
		return 1600, 2000
	}
}

// DistributeCalories rewrites the plan's per-meal calorie ranges from the
// age-based daily budget: 25% breakfast, 40% lunch, 35% dinner. The float
// product is truncated to whole kcal, so 35% of 2600 reads 909, not 910.
// Missing meals are left alone. This always runs last, so template and
// model-generated plans end up with the same calorie math.
func DistributeCalories(plan *DietPlan, age int) {
	if plan == nil {
		return
	}
	min, max := DailyCalories(age)

	if plan.Breakfast != nil {
		plan.Breakfast.TotalCalories = mealRange(min, max, breakfastShare)
	}
	if plan.Lunch != nil {
		plan.Lunch.TotalCalories = mealRange(min, max, lunchShare)
	}
	if plan.Dinner != nil {
		plan.Dinner.TotalCalories = mealRange(min, max, dinnerShare)
	}
}

func mealRange(min, max int, share float64) string {
	return fmt.Sprintf("%d-%d kcal", int(float64(min)*share), int(float64(max)*share))
}
