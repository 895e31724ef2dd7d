package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/nutricare/nutricare/internal/domain/nutrition"
)

// MockTextMarker replaces the raw transcription when the pipeline had to
// fall back to template data. Downstream consumers use it to tell a real
// transcription from a stand-in.
const MockTextMarker = "Mock Text Used"

// Report is a processed medical report with its extraction and plan.
type Report struct {
	ID             uuid.UUID               `db:"id" json:"id"`
	PatientName    string                  `db:"patient_name" json:"patient_name"`
	FilePath       string                  `db:"file_path" json:"-"`
	DietType       string                  `db:"diet_type" json:"diet_type"`
	Age            int                     `db:"age" json:"age"`
	Extracted      nutrition.MedicalRecord `db:"extracted" json:"extracted"`
	Plan           nutrition.DietPlan      `db:"plan" json:"plan"`
	PlanSource     string                  `db:"plan_source" json:"plan_source"`
	RawTextPreview string                  `db:"raw_text_preview" json:"raw_text_preview"`
	CreatedAt      time.Time               `db:"created_at" json:"created_at"`
}
