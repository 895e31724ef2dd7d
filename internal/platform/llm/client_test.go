package llm

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel scripts GenerateContent responses and records which model each
// call asked for.
type fakeModel struct {
	responses []*llms.ContentResponse
	errs      []error
	models    []string
	calls     int
}

func (f *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	var co llms.CallOptions
	for _, opt := range opts {
		opt(&co)
	}
	f.models = append(f.models, co.Model)

	i := f.calls
	f.calls++
	if f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.responses[i], nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return "", errors.New("not used")
}

func contentResponse(text string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: text}}}
}

func testClient(f *fakeModel) *Client {
	return &Client{model: f, logger: zerolog.New(os.Stderr).Level(zerolog.Disabled)}
}

func TestComplete_RequestFailureAdvancesToNextModel(t *testing.T) {
	f := &fakeModel{
		responses: []*llms.ContentResponse{nil, contentResponse("ok")},
		errs:      []error{errors.New("rate limited"), nil},
	}
	c := testClient(f)

	got, err := c.Complete(context.Background(), []string{"model-a", "model-b"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("completion = %q, want ok", got)
	}
	if len(f.models) != 2 || f.models[0] != "model-a" || f.models[1] != "model-b" {
		t.Errorf("models tried = %v", f.models)
	}
}

func TestComplete_EmptyChoicesIsTerminal(t *testing.T) {
	f := &fakeModel{
		responses: []*llms.ContentResponse{{Choices: nil}, contentResponse("never reached")},
		errs:      []error{nil, nil},
	}
	c := testClient(f)

	_, err := c.Complete(context.Background(), []string{"model-a", "model-b"}, nil)
	if err == nil {
		t.Fatal("expected error for empty choices")
	}
	if f.calls != 1 {
		t.Errorf("empty choices must not advance the chain, got %d calls", f.calls)
	}
}

func TestComplete_AllModelsFailReturnsLastError(t *testing.T) {
	f := &fakeModel{
		responses: []*llms.ContentResponse{nil, nil},
		errs:      []error{errors.New("first down"), errors.New("second down")},
	}
	c := testClient(f)

	_, err := c.Complete(context.Background(), []string{"model-a", "model-b"}, nil)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "all models failed") || !strings.Contains(err.Error(), "second down") {
		t.Errorf("error = %v", err)
	}
}

func TestComplete_NoModelsConfigured(t *testing.T) {
	c := testClient(&fakeModel{})
	if _, err := c.Complete(context.Background(), nil, nil); err == nil {
		t.Error("expected error with no models")
	}
}

func TestVisionMessage(t *testing.T) {
	msgs := VisionMessage("transcribe this", []byte{0xFF, 0xD8})
	if len(msgs) != 1 || msgs[0].Role != llms.ChatMessageTypeHuman {
		t.Fatalf("unexpected message shape: %+v", msgs)
	}
	if len(msgs[0].Parts) != 2 {
		t.Fatalf("expected text + image parts, got %d", len(msgs[0].Parts))
	}
	img, ok := msgs[0].Parts[1].(llms.ImageURLContent)
	if !ok {
		t.Fatalf("second part is %T, want ImageURLContent", msgs[0].Parts[1])
	}
	if !strings.HasPrefix(img.URL, "data:image/jpeg;base64,") {
		t.Errorf("image url = %q", img.URL)
	}
}
