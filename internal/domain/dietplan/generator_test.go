package dietplan

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/nutricare/nutricare/internal/domain/nutrition"
)

type mockCompleter struct {
	response string
	err      error
	prompts  []string
}

func (m *mockCompleter) Complete(ctx context.Context, models []string, messages []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if tp, ok := part.(llms.TextContent); ok {
				m.prompts = append(m.prompts, tp.Text)
			}
		}
	}
	return m.response, m.err
}

func noopLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func testRecord() nutrition.MedicalRecord {
	return nutrition.MedicalRecord{
		PatientName:      "Test Patient",
		Age:              "30",
		BloodSugar:       "110 mg/dL",
		Cholesterol:      "210 mg/dL",
		BMI:              "25.1",
		Hemoglobin:       "13.0 g/dL",
		TotalProtein:     "6.8 g/dL",
		Albumin:          "4.0 g/dL",
		AbnormalFindings: []string{"Borderline cholesterol"},
	}
}

const validPlanJSON = `{
	"breakfast": {"food_items": ["2 boiled eggs", "1 toast"], "total_calories": "300 kcal"},
	"lunch": {"food_items": ["150g grilled chicken", "1 cup rice"], "total_calories": "600 kcal"},
	"dinner": {"food_items": ["150g baked fish", "salad"], "total_calories": "500 kcal"},
	"doctor_note": "Watch the cholesterol of 210 mg/dL."
}`

func TestGenerate_ModelPlan(t *testing.T) {
	mock := &mockCompleter{response: validPlanJSON}
	g := NewGenerator(mock, []string{"model-a"}, noopLogger())

	res := g.Generate(context.Background(), testRecord(), "Non-Vegetarian", 30)

	if res.Source != SourceAI {
		t.Fatalf("source = %s, want %s", res.Source, SourceAI)
	}
	if !res.Plan.Valid() {
		t.Fatal("plan should be valid")
	}
	// Calorie distribution overrides whatever the model said.
	if res.Plan.Breakfast.TotalCalories != "500-650 kcal" {
		t.Errorf("breakfast calories = %s, want 500-650 kcal", res.Plan.Breakfast.TotalCalories)
	}
	if res.Plan.Lunch.TotalCalories != "800-1040 kcal" {
		t.Errorf("lunch calories = %s, want 800-1040 kcal", res.Plan.Lunch.TotalCalories)
	}
	if res.Plan.Dinner.TotalCalories != "700-909 kcal" {
		t.Errorf("dinner calories = %s, want 700-909 kcal", res.Plan.Dinner.TotalCalories)
	}
}

func TestGenerate_PromptCarriesLabValues(t *testing.T) {
	mock := &mockCompleter{response: validPlanJSON}
	g := NewGenerator(mock, []string{"model-a"}, noopLogger())

	g.Generate(context.Background(), testRecord(), "Non-Vegetarian", 30)

	if len(mock.prompts) != 1 {
		t.Fatalf("expected 1 prompt, got %d", len(mock.prompts))
	}
	prompt := mock.prompts[0]
	for _, want := range []string{"110 mg/dL", "210 mg/dL", "Borderline cholesterol", "2000-2600 kcal", "NON-VEGETARIAN"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestGenerate_ModelFailureFallsBackToTemplate(t *testing.T) {
	mock := &mockCompleter{err: errors.New("all models failed")}
	g := NewGenerator(mock, []string{"model-a"}, noopLogger())

	rec := testRecord()
	rec.BloodSugar = "180 mg/dL (High)"
	res := g.Generate(context.Background(), rec, "Non-Vegetarian", 30)

	if res.Source != SourceTemplate {
		t.Fatalf("source = %s, want %s", res.Source, SourceTemplate)
	}
	if !res.Plan.Valid() {
		t.Fatal("template plan should be valid")
	}
	// Exact blood sugar match picks the diabetic non-veg template.
	if res.Plan.Breakfast.FoodItems[0] != "2 scrambled eggs" {
		t.Errorf("unexpected template breakfast: %v", res.Plan.Breakfast.FoodItems)
	}
	// Distribution applies to templates too.
	if res.Plan.Breakfast.TotalCalories != "500-650 kcal" {
		t.Errorf("breakfast calories = %s, want 500-650 kcal", res.Plan.Breakfast.TotalCalories)
	}
	if res.Plan.Lunch.TotalCalories != "800-1040 kcal" {
		t.Errorf("lunch calories = %s, want 800-1040 kcal", res.Plan.Lunch.TotalCalories)
	}
	if res.Plan.Dinner.TotalCalories != "700-909 kcal" {
		t.Errorf("dinner calories = %s, want 700-909 kcal", res.Plan.Dinner.TotalCalories)
	}
}

func TestGenerate_InvalidShapeFallsBackToTemplate(t *testing.T) {
	mock := &mockCompleter{response: `{"breakfast": {"food_items": ["eggs"]}, "lunch": "just a string"}`}
	g := NewGenerator(mock, []string{"model-a"}, noopLogger())

	res := g.Generate(context.Background(), testRecord(), "Vegetarian", 30)

	if res.Source != SourceTemplate {
		t.Fatalf("source = %s, want %s", res.Source, SourceTemplate)
	}
}

func TestGenerate_GarbageJSONFallsBackToTemplate(t *testing.T) {
	mock := &mockCompleter{response: "not json at all"}
	g := NewGenerator(mock, []string{"model-a"}, noopLogger())

	res := g.Generate(context.Background(), testRecord(), "Vegetarian", 45)

	if res.Source != SourceTemplate {
		t.Fatalf("source = %s, want %s", res.Source, SourceTemplate)
	}
	if res.Plan.Breakfast.TotalCalories != "450-600 kcal" {
		t.Errorf("breakfast calories = %s, want 450-600 kcal", res.Plan.Breakfast.TotalCalories)
	}
}

func TestGenerate_TemplateFallbackDoesNotMutateCatalog(t *testing.T) {
	mock := &mockCompleter{err: errors.New("down")}
	g := NewGenerator(mock, []string{"model-a"}, noopLogger())

	rec := testRecord()
	rec.BloodSugar = "180 mg/dL (High)"
	g.Generate(context.Background(), rec, "Non-Vegetarian", 30)

	if nutrition.Profiles[1].Plan.Breakfast.TotalCalories != "400-450 kcal" {
		t.Error("catalog template was mutated by calorie distribution")
	}
}

func TestDietInstruction_NonVegCheckedBeforeVeg(t *testing.T) {
	cases := []struct {
		dietType string
		want     string
	}{
		{"Non-Vegetarian", "NON-VEGETARIAN"},
		{"non-vegetarian", "NON-VEGETARIAN"},
		{"Non-Veg", "NON-VEGETARIAN"},
		{"Vegetarian", "VEGETARIAN meal plan"},
		{"veg", "VEGETARIAN meal plan"},
		{"Balanced", "balanced meal plan"},
	}
	for _, tc := range cases {
		got := dietInstruction(tc.dietType)
		if !strings.Contains(got, tc.want) {
			t.Errorf("dietInstruction(%q) missing %q", tc.dietType, tc.want)
		}
		if tc.dietType == "Non-Vegetarian" && strings.Contains(got, "STRICTLY generate a VEGETARIAN") {
			t.Error("non-veg request produced vegetarian instruction")
		}
	}
}
