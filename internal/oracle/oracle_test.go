package oracle

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	openai "github.com/sashabaranov/go-openai"
)

// fakeClient answers every chat completion with a fixed body.
type fakeClient struct {
	reply   string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(_ context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.reply}},
		},
	}, nil
}

func TestOracle_Relevance(t *testing.T) {
	fc := &fakeClient{reply: `{"confidence": 0.85}`}
	o := &Oracle{Client: fc, Model: "gpt-4o"}

	got, err := o.Relevance(context.Background(), "Example Corp AG", "our vulnerability disclosure policy")
	if err != nil {
		t.Fatalf("relevance error: %v", err)
	}
	if got != 0.85 {
		t.Fatalf("confidence = %v, want 0.85", got)
	}
	if fc.lastReq.ResponseFormat == nil || fc.lastReq.ResponseFormat.Type != openai.ChatCompletionResponseFormatTypeJSONObject {
		t.Fatal("json object response format must be requested")
	}
	if len(fc.lastReq.Messages) != 2 || fc.lastReq.Messages[0].Role != openai.ChatMessageRoleSystem {
		t.Fatalf("unexpected message layout: %+v", fc.lastReq.Messages)
	}
}

func TestOracle_Relevance_Clamped(t *testing.T) {
	cases := []struct {
		reply string
		want  float64
	}{
		{`{"confidence": 1.7}`, 1},
		{`{"confidence": -0.2}`, 0},
	}
	for _, tc := range cases {
		o := &Oracle{Client: &fakeClient{reply: tc.reply}, Model: "gpt-4o"}
		got, err := o.Relevance(context.Background(), "Example", "text")
		if err != nil {
			t.Fatalf("relevance error: %v", err)
		}
		if got != tc.want {
			t.Fatalf("reply %s: got %v, want %v", tc.reply, got, tc.want)
		}
	}
}

func TestOracle_Relevance_RepairsMalformedJSON(t *testing.T) {
	// Single quotes and a trailing comma, as models sometimes produce.
	fc := &fakeClient{reply: `{'confidence': 0.4,}`}
	o := &Oracle{Client: fc, Model: "gpt-4o"}

	got, err := o.Relevance(context.Background(), "Example", "text")
	if err != nil {
		t.Fatalf("expected repaired parse, got error: %v", err)
	}
	if got != 0.4 {
		t.Fatalf("confidence = %v, want 0.4", got)
	}
}

func TestOracle_Relevance_TruncatesExcerpt(t *testing.T) {
	fc := &fakeClient{reply: `{"confidence": 0.5}`}
	o := &Oracle{Client: fc, Model: "gpt-4o", MaxExcerptChars: 100}

	long := strings.Repeat("policy ", 200)
	if _, err := o.Relevance(context.Background(), "Example", long); err != nil {
		t.Fatalf("relevance error: %v", err)
	}
	if strings.Contains(fc.lastReq.Messages[1].Content, long) {
		t.Fatal("excerpt was not truncated")
	}
}

func TestOracle_Relevance_TruncatesOnRuneBoundary(t *testing.T) {
	fc := &fakeClient{reply: `{"confidence": 0.5}`}
	o := &Oracle{Client: fc, Model: "gpt-4o", MaxExcerptChars: 5}

	// The euro sign is three bytes; a byte-wise cut at 5 would split it.
	if _, err := o.Relevance(context.Background(), "Example", "aaaa€"); err != nil {
		t.Fatalf("relevance error: %v", err)
	}
	sent := fc.lastReq.Messages[1].Content
	if !utf8.ValidString(sent) {
		t.Fatal("truncation produced invalid UTF-8")
	}
	if strings.Contains(sent, "€") {
		t.Fatal("excerpt should have been cut before the multi-byte rune")
	}
	if !strings.Contains(sent, "aaaa") {
		t.Fatal("excerpt lost complete leading characters")
	}
}

func TestOracle_Relevance_ClientError(t *testing.T) {
	o := &Oracle{Client: &fakeClient{err: errors.New("boom")}, Model: "gpt-4o"}
	if _, err := o.Relevance(context.Background(), "Example", "text"); err == nil {
		t.Fatal("expected error from client failure")
	}
}

func TestOracle_Relevance_NotConfigured(t *testing.T) {
	o := &Oracle{}
	if _, err := o.Relevance(context.Background(), "Example", "text"); err == nil {
		t.Fatal("expected configuration error")
	}
}

func TestOracle_ExtractPolicy(t *testing.T) {
	fc := &fakeClient{reply: `{"policy_url": "self", "contact_email": "security@example.com", "offers_swag": false}`}
	o := &Oracle{Client: fc, Model: "gpt-4o"}

	fields, err := o.ExtractPolicy(context.Background(), "Example Corp AG", "policy text")
	if err != nil {
		t.Fatalf("extract error: %v", err)
	}
	if fields["policy_url"] != "self" {
		t.Fatalf("policy_url = %v", fields["policy_url"])
	}
	if fields["contact_email"] != "security@example.com" {
		t.Fatalf("contact_email = %v", fields["contact_email"])
	}
	if !strings.Contains(fc.lastReq.Messages[1].Content, "disclosure_timeline_days") {
		t.Fatal("extraction prompt must enumerate the field contract")
	}
}

func TestUnmarshalLenient_StrictFirst(t *testing.T) {
	var v map[string]any
	if err := unmarshalLenient(`{"a": 1}`, &v); err != nil {
		t.Fatalf("strict parse failed: %v", err)
	}
	if err := unmarshalLenient(`not json at all {{{`, &v); err == nil {
		t.Fatal("expected failure on unrepairable input")
	}
}
