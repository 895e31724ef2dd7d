package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"

	"github.com/nutricare/nutricare/internal/domain/nutrition"
	"github.com/nutricare/nutricare/internal/domain/report"
)

type mockCompleter struct {
	reply    string
	err      error
	messages []llms.MessageContent
}

func (m *mockCompleter) Complete(ctx context.Context, models []string, messages []llms.MessageContent, opts ...llms.CallOption) (string, error) {
	m.messages = messages
	return m.reply, m.err
}

type mockReports struct {
	rep *report.Report
	err error
}

func (m *mockReports) GetByID(ctx context.Context, id uuid.UUID) (*report.Report, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rep, nil
}

func quietLogger() zerolog.Logger {
	return zerolog.New(os.Stderr).Level(zerolog.Disabled)
}

func storedReport() *report.Report {
	return &report.Report{
		ID: uuid.New(),
		Extracted: nutrition.MedicalRecord{
			PatientName:      "John Doe",
			Age:              "43",
			Gender:           "Male",
			BloodSugar:       "180 mg/dL",
			Cholesterol:      "200 mg/dL",
			BMI:              "27.5",
			Hemoglobin:       "13.0 g/dL",
			TotalProtein:     "6.8 g/dL",
			Albumin:          "4.0 g/dL",
			AbnormalFindings: []string{"High Blood Glucose"},
		},
		Plan: nutrition.DietPlan{
			Breakfast:  &nutrition.Meal{FoodItems: []string{"1 cup oats"}, TotalCalories: "500-650 kcal"},
			Lunch:      &nutrition.Meal{FoodItems: []string{"1 cup quinoa"}, TotalCalories: "800-1040 kcal"},
			Dinner:     &nutrition.Meal{FoodItems: []string{"1 chapati"}, TotalCalories: "700-909 kcal"},
			DoctorNote: "Cut back on sugar.",
		},
		PlanSource: "AI",
	}
}

func textOf(msg llms.MessageContent) string {
	var sb strings.Builder
	for _, part := range msg.Parts {
		if tp, ok := part.(llms.TextContent); ok {
			sb.WriteString(tp.Text)
		}
	}
	return sb.String()
}

func TestPlanContext_CarriesEverything(t *testing.T) {
	ctx := PlanContext(storedReport())

	for _, want := range []string{
		"Name: John Doe",
		"Blood Sugar: 180 mg/dL",
		"Abnormal Findings: High Blood Glucose",
		"Breakfast:",
		"- 1 cup oats",
		"Calories: 500-650 kcal",
		"Doctor's Note: Cut back on sugar.",
		"Plan Source: AI",
	} {
		if !strings.Contains(ctx, want) {
			t.Errorf("context missing %q", want)
		}
	}
}

func TestPlanContext_OmitsEmptyFindings(t *testing.T) {
	rep := storedReport()
	rep.Extracted.AbnormalFindings = nil
	if strings.Contains(PlanContext(rep), "Abnormal Findings") {
		t.Error("empty findings should not appear")
	}
}

func TestChat_GroundsSystemMessageInReport(t *testing.T) {
	mock := &mockCompleter{reply: "Eat more fiber."}
	svc := NewService(mock, &mockReports{rep: storedReport()}, []string{"chat-model"}, quietLogger())

	reply, err := svc.Chat(context.Background(), uuid.New(), "What should I eat?", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply != "Eat more fiber." {
		t.Errorf("reply = %q", reply)
	}

	if len(mock.messages) != 2 {
		t.Fatalf("expected system + user message, got %d", len(mock.messages))
	}
	system := textOf(mock.messages[0])
	if !strings.Contains(system, "Dr. AI") || !strings.Contains(system, "180 mg/dL") {
		t.Error("system message not grounded in the stored report")
	}
	if textOf(mock.messages[1]) != "What should I eat?" {
		t.Errorf("user message = %q", textOf(mock.messages[1]))
	}
}

func TestChat_TrimsHistoryWindow(t *testing.T) {
	mock := &mockCompleter{reply: "ok"}
	svc := NewService(mock, &mockReports{rep: storedReport()}, []string{"chat-model"}, quietLogger())

	history := make([]Message, 30)
	for i := range history {
		role := "user"
		if i%2 == 1 {
			role = "assistant"
		}
		history[i] = Message{Role: role, Content: "turn"}
	}

	if _, err := svc.Chat(context.Background(), uuid.New(), "latest", history); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// system + 20 history turns + current question
	if len(mock.messages) != 22 {
		t.Errorf("expected 22 messages, got %d", len(mock.messages))
	}
}

func TestChat_ModelFailureGivesApology(t *testing.T) {
	mock := &mockCompleter{err: errors.New("all models failed")}
	svc := NewService(mock, &mockReports{rep: storedReport()}, []string{"chat-model"}, quietLogger())

	reply, err := svc.Chat(context.Background(), uuid.New(), "hello", nil)
	if err != nil {
		t.Fatalf("model failure should not be an error: %v", err)
	}
	if !strings.Contains(reply, "Sorry, I'm having trouble connecting right now.") {
		t.Errorf("reply = %q", reply)
	}
}

func TestChat_MissingReportIsError(t *testing.T) {
	mock := &mockCompleter{reply: "ok"}
	svc := NewService(mock, &mockReports{err: errors.New("not found")}, []string{"chat-model"}, quietLogger())

	if _, err := svc.Chat(context.Background(), uuid.New(), "hello", nil); err == nil {
		t.Error("expected error for missing report")
	}
}

func TestChatHandler_RequiresQuestion(t *testing.T) {
	e := echo.New()
	svc := NewService(&mockCompleter{reply: "ok"}, &mockReports{rep: storedReport()}, []string{"m"}, quietLogger())
	h := NewHandler(svc)

	body := bytes.NewBufferString(`{"question": "  "}`)
	req := httptest.NewRequest(http.MethodPost, "/api/reports/x/chat", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	err := h.Chat(c)
	httpErr, ok := err.(*echo.HTTPError)
	if !ok || httpErr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestChatHandler_Reply(t *testing.T) {
	e := echo.New()
	svc := NewService(&mockCompleter{reply: "Swap rice for quinoa."}, &mockReports{rep: storedReport()}, []string{"m"}, quietLogger())
	h := NewHandler(svc)

	body := bytes.NewBufferString(`{"question": "Alternatives to rice?", "history": [{"role": "user", "content": "hi"}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/reports/x/chat", body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(uuid.New().String())

	if err := h.Chat(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp["reply"] != "Swap rice for quinoa." {
		t.Errorf("reply = %q", resp["reply"])
	}
}
