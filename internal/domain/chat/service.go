package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/nutricare/nutricare/internal/domain/report"
	"github.com/nutricare/nutricare/internal/platform/llm"
)

const systemPrompt = `You are Dr. AI, a friendly and knowledgeable dietitian assistant for the AI-NutriCare app.

You have access to the patient's complete diet plan and medical data shown below. Use this to answer their questions accurately.

RULES:
1. Answer based on the diet plan context provided. Reference specific foods, calories, and medical values when relevant.
2. If asked for meal alternatives, suggest foods that match the same calorie range and dietary goal.
3. If the question is unrelated to diet/nutrition/health, politely redirect: "I specialize in nutrition and diet advice. How can I help with your meal plan?"
4. Be warm, encouraging, and concise. Use bullet points for lists.
5. When discussing medical values, explain what they mean in simple terms.
6. Never diagnose conditions — only provide dietary guidance.

PATIENT'S DIET PLAN & MEDICAL DATA:
%s`

// historyWindow caps how many prior messages travel with each turn.
const historyWindow = 20

// Message is one turn of conversation history supplied by the client.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ReportGetter loads the stored report whose plan grounds the conversation.
type ReportGetter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error)
}

// Service answers diet questions grounded in a stored report. The server
// holds no conversation state: the grounding context is rebuilt from the
// report on every turn and the client carries its own history.
type Service struct {
	llm        llm.Completer
	reports    ReportGetter
	chatModels []string
	logger     zerolog.Logger
}

func NewService(completer llm.Completer, reports ReportGetter, chatModels []string, logger zerolog.Logger) *Service {
	return &Service{llm: completer, reports: reports, chatModels: chatModels, logger: logger}
}

// Chat answers one user turn. Model failure degrades to an apologetic reply
// rather than an error; only a missing report is an error.
func (s *Service) Chat(ctx context.Context, reportID uuid.UUID, userMessage string, history []Message) (string, error) {
	rep, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return "", fmt.Errorf("loading report: %w", err)
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, fmt.Sprintf(systemPrompt, PlanContext(rep))),
	}

	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}
	for _, msg := range history {
		role := llms.ChatMessageTypeHuman
		if msg.Role == "assistant" {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, msg.Content))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))

	reply, err := s.llm.Complete(ctx, s.chatModels, messages,
		llms.WithTemperature(0.4), llms.WithMaxTokens(1024))
	if err != nil {
		s.logger.Warn().Err(err).Str("report_id", reportID.String()).Msg("chat models unavailable")
		return fmt.Sprintf("Sorry, I'm having trouble connecting right now. Error: %v", err), nil
	}
	return reply, nil
}
