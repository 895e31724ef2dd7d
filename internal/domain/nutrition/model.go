package nutrition

// DefaultPatientName is used when no name can be recovered from a report.
const DefaultPatientName = "Patient"

// ValueMissing marks a lab value absent from the report.
const ValueMissing = "N/A"

// MedicalRecord is the flat structured view of a medical report. Every lab
// value is a string carrying its unit ("110 mg/dL"); absent values hold
// ValueMissing.
type MedicalRecord struct {
	PatientName      string   `json:"patient_name"`
	Age              string   `json:"age"`
	Gender           string   `json:"gender"`
	BloodSugar       string   `json:"blood_sugar"`
	Cholesterol      string   `json:"cholesterol"`
	BMI              string   `json:"bmi"`
	Hemoglobin       string   `json:"hemoglobin"`
	TotalProtein     string   `json:"total_protein"`
	Albumin          string   `json:"albumin"`
	AbnormalFindings []string `json:"abnormal_findings"`
}

// Meal is one meal of a diet plan.
type Meal struct {
	FoodItems     []string `json:"food_items"`
	TotalCalories string   `json:"total_calories"`
}

// Clone returns a deep copy of the meal.
func (m *Meal) Clone() *Meal {
	if m == nil {
		return nil
	}
	items := make([]string, len(m.FoodItems))
	copy(items, m.FoodItems)
	return &Meal{FoodItems: items, TotalCalories: m.TotalCalories}
}

// DietPlan is a full-day meal plan with an advisory note.
type DietPlan struct {
	Breakfast  *Meal  `json:"breakfast"`
	Lunch      *Meal  `json:"lunch"`
	Dinner     *Meal  `json:"dinner"`
	DoctorNote string `json:"doctor_note,omitempty"`
}

// Clone returns a deep copy of the plan. Template plans are shared, so
// callers that rewrite calorie ranges must clone first.
func (p *DietPlan) Clone() *DietPlan {
	if p == nil {
		return nil
	}
	return &DietPlan{
		Breakfast:  p.Breakfast.Clone(),
		Lunch:      p.Lunch.Clone(),
		Dinner:     p.Dinner.Clone(),
		DoctorNote: p.DoctorNote,
	}
}

// Valid reports whether the plan has the required shape: all three meals
// present, each with a food item list. Calorie strings are not checked
// because they are rewritten afterwards.
func (p *DietPlan) Valid() bool {
	if p == nil {
		return false
	}
	for _, meal := range []*Meal{p.Breakfast, p.Lunch, p.Dinner} {
		if meal == nil || meal.FoodItems == nil {
			return false
		}
	}
	return true
}
