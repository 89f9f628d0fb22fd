// Package oracle wraps the semantic judgment capabilities behind the
// pipeline: a relevance score for fetched content and a structured
// extraction of policy attributes. Both enforce a JSON-only contract on
// the model and repair malformed output before giving up.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonrepair"
	openai "github.com/sashabaranov/go-openai"

	"github.com/vdpscout/vdpscout/internal/llm"
)

const systemMessage = "You are a cybersecurity policy analyzer. Respond with strict JSON only, no narration."

// Oracle calls an OpenAI-compatible chat endpoint.
type Oracle struct {
	Client llm.Client
	Model  string
	// MaxExcerptChars bounds the content excerpt sent for relevance
	// scoring; zero means 5000.
	MaxExcerptChars int
}

// Relevance returns the model's confidence in [0,1] that the content is
// the company's vulnerability disclosure policy or bug bounty program.
func (o *Oracle) Relevance(ctx context.Context, companyName, text string) (float64, error) {
	if o.Client == nil || o.Model == "" {
		return 0, errors.New("oracle not configured")
	}
	limit := o.MaxExcerptChars
	if limit <= 0 {
		limit = 5000
	}
	excerpt := text
	if len(excerpt) > limit {
		// Back off to a rune boundary so the cut never splits a
		// multi-byte character.
		cut := limit
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}

	user := fmt.Sprintf(
		"Analyze this content for %s:\n\n%s\n\nReturn a JSON object {\"confidence\": number} with a confidence score (0-1) indicating how likely it contains a vulnerability disclosure policy or bug bounty program.",
		companyName, excerpt,
	)
	raw, err := o.complete(ctx, user)
	if err != nil {
		return 0, err
	}

	var parsed struct {
		Confidence float64 `json:"confidence"`
	}
	if err := unmarshalLenient(raw, &parsed); err != nil {
		return 0, fmt.Errorf("parse relevance json: %w", err)
	}
	return clamp01(parsed.Confidence), nil
}

// ExtractPolicy asks the model for the structured policy attributes.
// The raw field map is returned as-is; cleanup is the caller's concern.
func (o *Oracle) ExtractPolicy(ctx context.Context, companyName, text string) (map[string]any, error) {
	if o.Client == nil || o.Model == "" {
		return nil, errors.New("oracle not configured")
	}

	var sb strings.Builder
	sb.WriteString("Analyze the following content for the presence of a vulnerability disclosure policy for ")
	sb.WriteString(companyName)
	sb.WriteString(". If present, determine if it includes the following details:\n")
	sb.WriteString("- program_name: Name of the disclosure or bounty program\n")
	sb.WriteString("- policy_url: 'self' if policy is present, otherwise empty\n")
	sb.WriteString("- policy_url_status: 'alive' or 'dead'\n")
	sb.WriteString("- contact_email: Contact email for disclosure\n")
	sb.WriteString("- contact_url: If a form is provided, URL of the form\n")
	sb.WriteString("- launch_date: Program launch date if stated, otherwise empty\n")
	sb.WriteString("- safe_harbor: Safe harbor clause (if no legal action = full) (full, partial, none)\n")
	sb.WriteString("- offers_swag: Swag (goodies) offered (boolean)\n")
	sb.WriteString("- disclosure_timeline_days: Disclosure timeline (number in days, 0 if not specified)\n")
	sb.WriteString("- public_disclosure: If public disclosure is offered (nda, discretionary, co-ordinated)\n")
	sb.WriteString("- pgp_key: URL to PGP key, or 'self' if the key is in the content\n")
	sb.WriteString("- offers_bounty: Bounties offered (yes, no, partial)\n")
	sb.WriteString("- hall_of_fame: Hall of fame URL, empty, or 'self' if on the same site\n")
	sb.WriteString("- securitytxt_url: URL of a referenced security.txt file, if any\n")
	sb.WriteString("- preferred_languages: In the following format (en, de, fr, etc.)\n")
	sb.WriteString("Return the results as a single JSON object.\n\n")
	sb.WriteString(text)

	raw, err := o.complete(ctx, sb.String())
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := unmarshalLenient(raw, &fields); err != nil {
		return nil, fmt.Errorf("parse extraction json: %w", err)
	}
	return fields, nil
}

func (o *Oracle) complete(ctx context.Context, user string) (string, error) {
	resp, err := o.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0.1,
		N:           1,
	})
	if err != nil {
		return "", fmt.Errorf("oracle call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// unmarshalLenient tries strict JSON first, then a repaired variant.
// Models occasionally emit trailing prose or single quotes; repairing
// salvages those responses instead of failing the candidate.
func unmarshalLenient(raw string, v any) error {
	if err := json.Unmarshal([]byte(raw), v); err == nil {
		return nil
	}
	repaired, rerr := jsonrepair.JSONRepair(raw)
	if rerr != nil {
		return fmt.Errorf("repair: %w", rerr)
	}
	return json.Unmarshal([]byte(repaired), v)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
