package nutrition

import (
	"math/rand"
	"strings"
)

// Profile is a curated template: a condition/diet-type pairing with
// representative lab values and a full reviewed meal plan. Profiles back
// every fallback path, so a request never fails outright when the model
// chain is down. Each profile also carries the placeholder patient names
// used when transcription or extraction fails and the report itself cannot
// supply one.
type Profile struct {
	Condition string
	DietType  string
	Medical   MedicalRecord
	Plan      DietPlan

	// ScanFallbackName stands in when no text could be read from the
	// document; ExtractFallbackName when text was read but structuring
	// failed.
	ScanFallbackName    string
	ExtractFallbackName string
}

// Profiles is the template catalog: three conditions crossed with two diet
// types. Order matters, diet-type matching takes the first hit.
var Profiles = []Profile{
	{
		Condition: "Diabetes",
		DietType:  "Vegetarian",
		Medical: MedicalRecord{
			BloodSugar:       "180 mg/dL (High)",
			Cholesterol:      "190 mg/dL",
			BMI:              "29.0",
			AbnormalFindings: []string{"High Blood Glucose", "Pre-diabetic"},
		},
		Plan: DietPlan{
			Breakfast: &Meal{
				FoodItems: []string{
					"1 cup steel-cut oats",
					"2 tbsp flaxseeds",
					"1 cup almond milk",
					"1 small apple (sliced)",
				},
				TotalCalories: "350-400 kcal",
			},
			Lunch: &Meal{
				FoodItems: []string{
					"1 cup quinoa salad",
					"100g grilled tofu",
					"1 cup spinach",
					"Mixed vegetables",
				},
				TotalCalories: "450-500 kcal",
			},
			Dinner: &Meal{
				FoodItems: []string{
					"1 cup bitter gourd (karela) stir-fry",
					"1 chapati",
					"Small bowl cucumber salad",
				},
				TotalCalories: "300-350 kcal",
			},
			DoctorNote: "Your sugar levels are high. Avoid white rice and sugar completely. Focus on fiber-rich foods.",
		},
		ScanFallbackName:    "Rahul Sharma",
		ExtractFallbackName: "Vikram Singh",
	},
	{
		Condition: "Diabetes",
		DietType:  "Non-Vegetarian",
		Medical: MedicalRecord{
			BloodSugar:       "180 mg/dL (High)",
			Cholesterol:      "190 mg/dL",
			BMI:              "29.0",
			AbnormalFindings: []string{"High Blood Glucose", "Pre-diabetic"},
		},
		Plan: DietPlan{
			Breakfast: &Meal{
				FoodItems: []string{
					"2 scrambled eggs",
					"1 cup spinach (sautéed)",
					"2 slices whole wheat toast",
					"1 small orange",
				},
				TotalCalories: "400-450 kcal",
			},
			Lunch: &Meal{
				FoodItems: []string{
					"150g grilled chicken breast",
					"1 cup quinoa",
					"Steamed broccoli and carrots",
					"Small green salad",
				},
				TotalCalories: "500-550 kcal",
			},
			Dinner: &Meal{
				FoodItems: []string{
					"150g baked fish (salmon/tilapia)",
					"1 cup roasted broccoli",
					"½ cup brown rice",
				},
				TotalCalories: "400-450 kcal",
			},
			DoctorNote: "Your sugar levels are high. Include lean proteins and avoid white rice and sugar completely.",
		},
		ScanFallbackName:    "Rahul Sharma",
		ExtractFallbackName: "Vikram Singh",
	},
	{
		Condition: "High Cholesterol",
		DietType:  "Vegetarian",
		Medical: MedicalRecord{
			BloodSugar:       "90 mg/dL",
			Cholesterol:      "240 mg/dL (High)",
			BMI:              "26.5",
			AbnormalFindings: []string{"Hyperlipidemia", "High LDL"},
		},
		Plan: DietPlan{
			Breakfast: &Meal{
				FoodItems: []string{
					"1 cup oatmeal",
					"10 walnuts",
					"½ cup mixed berries",
					"1 tsp honey",
				},
				TotalCalories: "350-400 kcal",
			},
			Lunch: &Meal{
				FoodItems: []string{
					"1 cup chickpea curry",
					"1 cup brown rice",
					"Mixed green salad",
					"1 small apple",
				},
				TotalCalories: "450-500 kcal",
			},
			Dinner: &Meal{
				FoodItems: []string{
					"1 bowl lentil soup (dal)",
					"1 roti (no oil)",
					"Cucumber and tomato salad",
				},
				TotalCalories: "300-350 kcal",
			},
			DoctorNote: "Cholesterol is elevated. Reduce saturated fats (butter, ghee) and focus on plant-based proteins.",
		},
		ScanFallbackName:    "Priya Patel",
		ExtractFallbackName: "Anita Desai",
	},
	{
		Condition: "High Cholesterol",
		DietType:  "Non-Vegetarian",
		Medical: MedicalRecord{
			BloodSugar:       "90 mg/dL",
			Cholesterol:      "240 mg/dL (High)",
			BMI:              "26.5",
			AbnormalFindings: []string{"Hyperlipidemia", "High LDL"},
		},
		Plan: DietPlan{
			Breakfast: &Meal{
				FoodItems: []string{
					"3 egg white omelet",
					"1 cup spinach and mushrooms",
					"2 slices whole wheat toast",
					"1 small grapefruit",
				},
				TotalCalories: "350-400 kcal",
			},
			Lunch: &Meal{
				FoodItems: []string{
					"150g grilled fish (salmon)",
					"1 cup steamed broccoli",
					"1 cup brown rice",
					"Lemon wedge",
				},
				TotalCalories: "450-500 kcal",
			},
			Dinner: &Meal{
				FoodItems: []string{
					"150g grilled chicken breast",
					"Mixed roasted vegetables",
					"Small green salad with olive oil",
				},
				TotalCalories: "400-450 kcal",
			},
			DoctorNote: "Cholesterol is elevated. Choose lean proteins like fish and chicken. Avoid red meat and saturated fats.",
		},
		ScanFallbackName:    "Priya Patel",
		ExtractFallbackName: "Anita Desai",
	},
	{
		Condition: "Healthy",
		DietType:  "Vegetarian",
		Medical: MedicalRecord{
			BloodSugar:       "95 mg/dL",
			Cholesterol:      "150 mg/dL",
			BMI:              "22.0",
			AbnormalFindings: []string{},
		},
		Plan: DietPlan{
			Breakfast: &Meal{
				FoodItems: []string{
					"3 idlis",
					"1 bowl sambar",
					"2 tbsp coconut chutney",
					"1 banana",
				},
				TotalCalories: "400-450 kcal",
			},
			Lunch: &Meal{
				FoodItems: []string{
					"1 cup curd rice",
					"½ cup pomegranate seeds",
					"Papad",
					"Pickle (small portion)",
				},
				TotalCalories: "450-500 kcal",
			},
			Dinner: &Meal{
				FoodItems: []string{
					"1 cup mixed vegetable curry",
					"2 phulkas",
					"Small bowl dal",
					"Cucumber raita",
				},
				TotalCalories: "400-450 kcal",
			},
			DoctorNote: "All vitals are normal. Keep maintaining this balanced vegetarian diet and stay hydrated.",
		},
		ScanFallbackName:    "Priya Patel",
		ExtractFallbackName: "Vikram Singh",
	},
	{
		Condition: "Healthy",
		DietType:  "Non-Vegetarian",
		Medical: MedicalRecord{
			BloodSugar:       "95 mg/dL",
			Cholesterol:      "150 mg/dL",
			BMI:              "22.0",
			AbnormalFindings: []string{},
		},
		Plan: DietPlan{
			Breakfast: &Meal{
				FoodItems: []string{
					"2 scrambled eggs",
					"2 slices whole wheat toast",
					"½ avocado (sliced)",
					"1 cup green tea",
				},
				TotalCalories: "450-500 kcal",
			},
			Lunch: &Meal{
				FoodItems: []string{
					"150g grilled chicken salad",
					"Mixed greens and vegetables",
					"2 tbsp olive oil dressing",
					"1 whole wheat roll",
				},
				TotalCalories: "500-550 kcal",
			},
			Dinner: &Meal{
				FoodItems: []string{
					"150g baked salmon",
					"1 cup quinoa",
					"Roasted vegetables (bell peppers, zucchini)",
					"Lemon wedge",
				},
				TotalCalories: "500-550 kcal",
			},
			DoctorNote: "All vitals are normal. Keep maintaining this balanced diet with lean proteins and stay hydrated.",
		},
		ScanFallbackName:    "Priya Patel",
		ExtractFallbackName: "Vikram Singh",
	},
}

// RandomProfile picks any profile from the catalog.
func RandomProfile() *Profile {
	return &Profiles[rand.Intn(len(Profiles))]
}

// BestMatch finds the template closest to the extracted record. Match
// priority: identical blood sugar plus diet type, then diet type alone,
// then a random profile. Diet type matching is by substring so "Veg"
// matches both catalog entries and list order decides.
func BestMatch(bloodSugar, dietType string) *Profile {
	for i := range Profiles {
		p := &Profiles[i]
		if p.Medical.BloodSugar == bloodSugar && strings.Contains(p.DietType, dietType) {
			return p
		}
	}
	for i := range Profiles {
		if strings.Contains(Profiles[i].DietType, dietType) {
			return &Profiles[i]
		}
	}
	return RandomProfile()
}

// FallbackRecord builds a stand-in medical record from the profile, tagged
// with the given placeholder name and age. Gender is never guessed.
func (p *Profile) FallbackRecord(name, age string) MedicalRecord {
	rec := p.Medical
	rec.AbnormalFindings = append([]string(nil), p.Medical.AbnormalFindings...)
	rec.PatientName = name
	rec.Age = age
	rec.Gender = ValueMissing
	rec.Hemoglobin = orMissing(rec.Hemoglobin)
	rec.TotalProtein = orMissing(rec.TotalProtein)
	rec.Albumin = orMissing(rec.Albumin)
	return rec
}

func orMissing(s string) string {
	if s == "" {
		return ValueMissing
	}
	return s
}
