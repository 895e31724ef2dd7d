package chat

import (
	"fmt"
	"strings"

	"github.com/nutricare/nutricare/internal/domain/nutrition"
	"github.com/nutricare/nutricare/internal/domain/report"
)

// PlanContext flattens a stored report into readable text the assistant can
// reference: patient identity, lab values, the full meal plan, and where
// the plan came from.
func PlanContext(rep *report.Report) string {
	var parts []string

	rec := rep.Extracted
	parts = append(parts,
		"PATIENT INFORMATION",
		fmt.Sprintf("  Name: %s", rec.PatientName),
		fmt.Sprintf("  Age: %s", rec.Age),
		fmt.Sprintf("  Gender: %s", rec.Gender),
		"",
		"MEDICAL DATA",
		fmt.Sprintf("  Blood Sugar: %s", rec.BloodSugar),
		fmt.Sprintf("  Cholesterol: %s", rec.Cholesterol),
		fmt.Sprintf("  Bmi: %s", rec.BMI),
		fmt.Sprintf("  Hemoglobin: %s", rec.Hemoglobin),
		fmt.Sprintf("  Total Protein: %s", rec.TotalProtein),
		fmt.Sprintf("  Albumin: %s", rec.Albumin),
	)
	if len(rec.AbnormalFindings) > 0 {
		parts = append(parts, fmt.Sprintf("  Abnormal Findings: %s", strings.Join(rec.AbnormalFindings, ", ")))
	}
	parts = append(parts, "", "PERSONALIZED DIET PLAN")

	appendMeal := func(label string, meal *nutrition.Meal) {
		if meal == nil {
			return
		}
		parts = append(parts, fmt.Sprintf("\n  %s:", label))
		for _, item := range meal.FoodItems {
			parts = append(parts, fmt.Sprintf("    - %s", item))
		}
		parts = append(parts, fmt.Sprintf("    Calories: %s", meal.TotalCalories))
	}
	appendMeal("Breakfast", rep.Plan.Breakfast)
	appendMeal("Lunch", rep.Plan.Lunch)
	appendMeal("Dinner", rep.Plan.Dinner)

	if rep.Plan.DoctorNote != "" {
		parts = append(parts, fmt.Sprintf("\n  Doctor's Note: %s", rep.Plan.DoctorNote))
	}
	if rep.PlanSource != "" {
		parts = append(parts, fmt.Sprintf("\n  Plan Source: %s", rep.PlanSource))
	}

	return strings.Join(parts, "\n")
}
