package dietplan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/nutricare/nutricare/internal/domain/nutrition"
	"github.com/nutricare/nutricare/internal/platform/llm"
)

// Plan sources reported to the client.
const (
	SourceAI       = "AI"
	SourceTemplate = "Template"
)

// Result is a generated plan plus where it came from.
type Result struct {
	Plan   *nutrition.DietPlan
	Source string
}

// Generator produces personalized diet plans. A model-generated plan is
// preferred; a curated template takes over when every model fails or the
// response has the wrong shape. Either way the caller gets a complete plan.
type Generator struct {
	llm        llm.Completer
	textModels []string
	logger     zerolog.Logger
}

func NewGenerator(completer llm.Completer, textModels []string, logger zerolog.Logger) *Generator {
	return &Generator{llm: completer, textModels: textModels, logger: logger}
}

// Generate builds a diet plan for the record. Calorie distribution runs
// last on both paths so model output and templates obey the same age-based
// budget.
func (g *Generator) Generate(ctx context.Context, rec nutrition.MedicalRecord, dietType string, age int) Result {
	plan, err := g.fromModel(ctx, rec, dietType, age)
	if err == nil {
		nutrition.DistributeCalories(plan, age)
		return Result{Plan: plan, Source: SourceAI}
	}
	g.logger.Warn().Err(err).Str("diet_type", dietType).Msg("model plan generation failed, using template")

	profile := nutrition.BestMatch(rec.BloodSugar, dietType)
	tmpl := profile.Plan.Clone()
	nutrition.DistributeCalories(tmpl, age)
	return Result{Plan: tmpl, Source: SourceTemplate}
}

func (g *Generator) fromModel(ctx context.Context, rec nutrition.MedicalRecord, dietType string, age int) (*nutrition.DietPlan, error) {
	prompt := buildPlanPrompt(rec, dietType, age)
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	raw, err := g.llm.Complete(ctx, g.textModels, messages, llms.WithJSONMode())
	if err != nil {
		return nil, err
	}

	var plan nutrition.DietPlan
	if err := json.Unmarshal([]byte(raw), &plan); err != nil {
		return nil, fmt.Errorf("parsing plan response: %w", err)
	}
	if !plan.Valid() {
		return nil, fmt.Errorf("plan response missing required meals")
	}
	return &plan, nil
}

// dietInstruction picks the dietary constraint block. Non-vegetarian is
// checked first: "Vegetarian" is a substring of "Non-Vegetarian", so the
// order of these checks matters.
func dietInstruction(dietType string) string {
	lower := strings.ToLower(dietType)
	switch {
	case dietType == "Non-Vegetarian" || strings.Contains(dietType, "Non-Veg") || strings.Contains(lower, "non-veg"):
		return nonVegInstruction
	case dietType == "Vegetarian" || strings.Contains(lower, "veg"):
		return vegInstruction
	default:
		return "Generate a balanced meal plan with appropriate protein sources."
	}
}

const nonVegInstruction = `CRITICAL: This is a NON-VEGETARIAN meal plan. You MUST include animal protein in EVERY SINGLE MEAL.

*** MANDATORY NON-VEG REQUIREMENTS (CANNOT BE SKIPPED):

BREAKFAST - MUST INCLUDE EGGS:
- 2-3 eggs (scrambled/boiled/omelet/poached)
- OR 3-4 egg whites for cholesterol cases

LUNCH - MUST INCLUDE CHICKEN OR FISH:
- 150-200g grilled chicken breast (for ages 15-40)
- OR 120-150g grilled chicken (for ages 40+)
- OR 150g fish (salmon/tuna/tilapia/mackerel)

DINNER - MUST INCLUDE CHICKEN OR FISH:
- 150g baked/grilled fish (preferred for dinner)
- OR 120-150g grilled chicken

CRITICAL RULES:
X DO NOT suggest vegetarian alternatives in a non-veg plan
X DO NOT skip animal protein in any meal
> EVERY meal MUST have eggs, chicken, OR fish
> Breakfast = Eggs (always)
> Lunch = Chicken or Fish
> Dinner = Fish or Chicken`

const vegInstruction = `STRICTLY generate a VEGETARIAN meal plan.
DO NOT include any meat, fish, eggs, or poultry.
Use plant-based proteins like lentils, beans, tofu, paneer, nuts, chickpeas, soy products.`

func buildPlanPrompt(rec nutrition.MedicalRecord, dietType string, age int) string {
	min, max := nutrition.DailyCalories(age)
	dailyRange := fmt.Sprintf("%d-%d kcal", min, max)

	findings := "None detected"
	if len(rec.AbnormalFindings) > 0 {
		findings = strings.Join(rec.AbnormalFindings, ", ")
	}

	ageInstruction := fmt.Sprintf(`
PATIENT AGE: %d years old.
DAILY CALORIE TARGET: %s

AGE-BASED PORTION CALIBRATION:
Generate portion sizes appropriate for a daily intake of %s.
- Breakfast should be approximately 25%% of daily calories
- Lunch should be approximately 40%% of daily calories
- Dinner should be approximately 35%% of daily calories

IMPORTANT: Adjust ALL meal portions to fit within the daily target of %s.`,
		age, dailyRange, dailyRange, dailyRange)

	return fmt.Sprintf(`
You are a nutrition expert creating a personalized meal plan.

PATIENT INFORMATION:
- Age: %d years
- Blood Sugar: %s
- Cholesterol: %s
- BMI: %s
- Hemoglobin: %s
- Total Protein: %s
- Albumin: %s
- Abnormal Findings: %s
- Diet Preference: %s

%s

%s

CRITICAL: YOU MUST return a JSON object following this EXACT schema:

{
  "breakfast": {
    "food_items": ["Qty Item 1", "Qty Item 2", "Qty Item 3"],
    "total_calories": "Range kcal"
  },
  "lunch": {
    "food_items": ["Qty Item 1", "Qty Item 2", "Qty Item 3", "Qty Item 4"],
    "total_calories": "Range kcal"
  },
  "dinner": {
    "food_items": ["Qty Item 1", "Qty Item 2", "Qty Item 3"],
    "total_calories": "Range kcal"
  },
  "doctor_note": "Personalized medical advice referencing the patient's SPECIFIC lab values and health conditions"
}

IMPORTANT:
- The doctor_note MUST reference the patient's actual lab values and conditions
- Food items must include specific quantities (e.g., '150g grilled chicken breast', '2 boiled eggs')
- Return ONLY valid JSON following this structure.
`,
		age, rec.BloodSugar, rec.Cholesterol, rec.BMI, rec.Hemoglobin,
		rec.TotalProtein, rec.Albumin, findings, dietType,
		dietInstruction(dietType), ageInstruction)
}
