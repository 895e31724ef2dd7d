package report

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nutricare/nutricare/internal/domain/nutrition"
)

const extractionPrompt = `You are a Medical Data Extraction AI. Analyze the following medical report and extract structured data.

You MUST return a JSON object with EXACTLY this structure:
{
  "patient_name": "Full name of the patient (string)",
  "age": "Patient age (string, e.g. '43')",
  "gender": "Male/Female/Unknown (string)",
  "blood_sugar": "Fasting blood glucose / blood sugar / glucose level with unit (string, e.g. '110 mg/dL')",
  "cholesterol": "Total cholesterol / serum cholesterol with unit (string, e.g. '200 mg/dL')",
  "bmi": "BMI value (string, e.g. '24.5'). If not listed, calculate from height and weight if available.",
  "hemoglobin": "Hemoglobin / Hb / Hgb value with unit (string, e.g. '13.5 g/dL')",
  "total_protein": "Total protein / serum protein value with unit (string, e.g. '6.5 g/dL')",
  "albumin": "Albumin / serum albumin value with unit (string, e.g. '3.8 g/dL')",
  "abnormal_findings": ["List ALL abnormal conditions identified from the lab values"]
}

EXTRACTION RULES:
1. Lab values may appear with different names. Map them:
   - Glucose / Blood Glucose / FBS / Fasting Sugar / Sugar Level → "blood_sugar"
   - Total Cholesterol / Serum Cholesterol / TC → "cholesterol"
   - Hb / Hgb / Haemoglobin → "hemoglobin"
   - TP / Total Protein / Serum Protein → "total_protein"
   - Alb / Albumin / Serum Albumin → "albumin"
2. Extract ACTUAL values from the report — never make up data
3. If a value is genuinely not present in the report, use "N/A"
4. Always include the unit (mg/dL, g/dL, etc.) with the value
5. For abnormal_findings: compare values against normal ranges and list ALL issues
   Normal ranges for reference:
   - Blood sugar: 70-100 mg/dL (fasting)
   - Cholesterol: <200 mg/dL
   - Hemoglobin: 12-17 g/dL
   - Total protein: 6.0-8.3 g/dL
   - Albumin: 3.5-5.5 g/dL
   - BMI: 18.5-24.9
6. Return ONLY the JSON object`

// flexString tolerates the model returning a number, bool, or null where a
// string belongs. Scalars keep their JSON token text; null becomes "".
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexString(s)
		return nil
	}
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*f = ""
		return nil
	}
	*f = flexString(bytes.TrimSpace(b))
	return nil
}

// findingList tolerates abnormal_findings arriving as an array, a lone
// scalar, or null. A scalar becomes a single-element list, null an empty
// one.
type findingList []string

func (l *findingList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*l = findingList{}
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make(findingList, 0, len(items))
		for _, it := range items {
			if it != "" {
				out = append(out, string(it))
			}
		}
		*l = out
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	if s == "" {
		*l = findingList{}
		return nil
	}
	*l = findingList{string(s)}
	return nil
}

type identityFields struct {
	Name        flexString `json:"name"`
	PatientName flexString `json:"patient_name"`
	Age         flexString `json:"age"`
	Gender      flexString `json:"gender"`
}

type labFields struct {
	BloodSugar       flexString  `json:"blood_sugar"`
	Cholesterol      flexString  `json:"cholesterol"`
	BMI              flexString  `json:"bmi"`
	Hemoglobin       flexString  `json:"hemoglobin"`
	TotalProtein     flexString  `json:"total_protein"`
	Albumin          flexString  `json:"albumin"`
	AbnormalFindings findingList `json:"abnormal_findings"`
}

// parseExtraction normalizes a model extraction into a flat record. The
// model sometimes nests identity under "patient_info" and labs under
// "medical_data" despite the prompt, so both shapes parse; the presence of
// both keys selects the nested branch, and field coercion is the same
// either way.
func parseExtraction(raw []byte) (nutrition.MedicalRecord, error) {
	var rec nutrition.MedicalRecord

	var probe struct {
		PatientInfo json.RawMessage `json:"patient_info"`
		MedicalData json.RawMessage `json:"medical_data"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return rec, fmt.Errorf("parsing extraction: %w", err)
	}

	var ident identityFields
	var labs labFields

	if probe.PatientInfo != nil && probe.MedicalData != nil {
		if err := json.Unmarshal(probe.PatientInfo, &ident); err != nil {
			return rec, fmt.Errorf("parsing patient_info: %w", err)
		}
		if err := json.Unmarshal(probe.MedicalData, &labs); err != nil {
			return rec, fmt.Errorf("parsing medical_data: %w", err)
		}
		// Nested responses tend to use "name"; prefer it.
		if ident.Name != "" {
			rec.PatientName = string(ident.Name)
		} else {
			rec.PatientName = string(ident.PatientName)
		}
	} else {
		if err := json.Unmarshal(raw, &ident); err != nil {
			return rec, fmt.Errorf("parsing extraction: %w", err)
		}
		if err := json.Unmarshal(raw, &labs); err != nil {
			return rec, fmt.Errorf("parsing extraction: %w", err)
		}
		if ident.PatientName != "" {
			rec.PatientName = string(ident.PatientName)
		} else {
			rec.PatientName = string(ident.Name)
		}
	}

	rec.Age = missingIfEmpty(ident.Age)
	rec.Gender = missingIfEmpty(ident.Gender)
	rec.BloodSugar = missingIfEmpty(labs.BloodSugar)
	rec.Cholesterol = missingIfEmpty(labs.Cholesterol)
	rec.BMI = missingIfEmpty(labs.BMI)
	rec.Hemoglobin = missingIfEmpty(labs.Hemoglobin)
	rec.TotalProtein = missingIfEmpty(labs.TotalProtein)
	rec.Albumin = missingIfEmpty(labs.Albumin)
	rec.AbnormalFindings = labs.AbnormalFindings
	if rec.AbnormalFindings == nil {
		rec.AbnormalFindings = []string{}
	}
	return rec, nil
}

func missingIfEmpty(f flexString) string {
	if f == "" {
		return nutrition.ValueMissing
	}
	return string(f)
}

// Placeholder values a model emits when it could not find the name. Any of
// these sends us down the regex fallback.
var nameSentinels = map[string]struct{}{
	"":          {},
	"N/A":       {},
	"Unknown":   {},
	"Not Found": {},
	"null":      {},
	"None":      {},
}
