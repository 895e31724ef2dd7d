package report

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/nutricare/nutricare/internal/domain/dietplan"
	"github.com/nutricare/nutricare/internal/domain/nutrition"
	"github.com/nutricare/nutricare/internal/platform/llm"
)

var (
	llmTemperatureZero = llms.WithTemperature(0)
	llmMaxTokens       = llms.WithMaxTokens(1024)
)

const (
	scanFallbackAge    = "35"
	extractFallbackAge = "N/A"
)

// PlanGenerator produces a diet plan for an extracted record. Satisfied by
// dietplan.Generator; tests substitute their own.
type PlanGenerator interface {
	Generate(ctx context.Context, rec nutrition.MedicalRecord, dietType string, age int) dietplan.Result
}

// Service runs the report pipeline: rasterize, transcribe, extract,
// generate, persist. Every stage degrades instead of failing, so an upload
// always comes back with a structured record and a plan.
type Service struct {
	llm          llm.Completer
	plans        PlanGenerator
	repo         Repository
	visionModels []string
	textModels   []string
	logger       zerolog.Logger

	// render is swapped out in tests.
	render func(path string, logger zerolog.Logger) [][]byte
}

func NewService(completer llm.Completer, plans PlanGenerator, repo Repository,
	visionModels, textModels []string, logger zerolog.Logger) *Service {
	return &Service{
		llm:          completer,
		plans:        plans,
		repo:         repo,
		visionModels: visionModels,
		textModels:   textModels,
		logger:       logger,
		render:       RenderPages,
	}
}

// Extract reads a document and produces a structured medical record plus
// the raw transcription. When no text could be read, or structuring failed,
// a template record stands in and the text is MockTextMarker.
func (s *Service) Extract(ctx context.Context, filePath string) (nutrition.MedicalRecord, string) {
	pages := s.render(filePath, s.logger)
	s.logger.Info().Int("pages", len(pages)).Str("path", filePath).Msg("document rendered")

	fullText := s.Transcribe(ctx, pages)
	if fullText == "" {
		profile := nutrition.RandomProfile()
		s.logger.Warn().Str("condition", profile.Condition).Msg("no text transcribed, using template record")
		return profile.FallbackRecord(profile.ScanFallbackName, scanFallbackAge), MockTextMarker
	}

	rec, err := s.structure(ctx, fullText)
	if err != nil {
		profile := nutrition.RandomProfile()
		s.logger.Warn().Err(err).Str("condition", profile.Condition).Msg("extraction failed, using template record")
		return profile.FallbackRecord(profile.ExtractFallbackName, extractFallbackAge), MockTextMarker
	}

	s.resolveName(&rec, fullText)
	return rec, fullText
}

func (s *Service) structure(ctx context.Context, fullText string) (nutrition.MedicalRecord, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeHuman, extractionPrompt+"\n\nREPORT:\n"+fullText),
	}
	raw, err := s.llm.Complete(ctx, s.textModels, messages, llms.WithJSONMode())
	if err != nil {
		return nutrition.MedicalRecord{}, err
	}
	return parseExtraction([]byte(raw))
}

// resolveName fills in the patient name when the model returned a
// placeholder: regex over the raw text first, the generic default last.
func (s *Service) resolveName(rec *nutrition.MedicalRecord, fullText string) {
	trimmed := strings.TrimSpace(rec.PatientName)
	if _, placeholder := nameSentinels[trimmed]; !placeholder {
		return
	}
	if name, ok := FindPatientName(fullText); ok {
		s.logger.Info().Str("name", name).Msg("patient name recovered by pattern match")
		rec.PatientName = name
		return
	}
	rec.PatientName = nutrition.DefaultPatientName
}

// Process runs the full pipeline for an uploaded document and persists the
// result.
func (s *Service) Process(ctx context.Context, filePath, dietType string, age int) (*Report, error) {
	rec, fullText := s.Extract(ctx, filePath)

	result := s.plans.Generate(ctx, rec, dietType, age)

	rep := &Report{
		PatientName:    rec.PatientName,
		FilePath:       filePath,
		DietType:       dietType,
		Age:            age,
		Extracted:      rec,
		Plan:           *result.Plan,
		PlanSource:     result.Source,
		RawTextPreview: preview(fullText),
	}
	if err := s.repo.Create(ctx, rep); err != nil {
		return nil, err
	}
	return rep, nil
}

// Get returns a stored report.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Report, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns stored reports, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*Report, int, error) {
	return s.repo.List(ctx, limit, offset)
}

const previewLen = 500

// preview truncates the transcription for the response payload.
func preview(fullText string) string {
	if fullText == "" {
		return ""
	}
	runes := []rune(fullText)
	if len(runes) > previewLen {
		runes = runes[:previewLen]
	}
	return string(runes) + "..."
}
