// Package semantic implements the optional higher-precision matcher on top
// of the Gemini API. It asks the model to pick one entry name verbatim from
// an enumerated list, or answer "none". Absence of an API key disables the
// matcher entirely; the keyword scorer remains the guaranteed fallback.
package semantic

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultModel is the Gemini model used for matching.
const DefaultModel = "gemini-2.5-flash"

// Matcher picks entry names for filenames via a single Gemini call per image.
type Matcher struct {
	client *genai.Client
	model  string
}

// New creates a Matcher, or (nil, nil) when apiKey is empty: a missing key
// silently disables semantic matching rather than erroring.
func New(ctx context.Context, apiKey string) (*Matcher, error) {
	if apiKey == "" {
		return nil, nil
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, err
	}

	return &Matcher{client: client, model: DefaultModel}, nil
}

// Pick returns the candidate name the model chose, or "" when it answered
// "none" or something not in the list.
func (m *Matcher) Pick(ctx context.Context, filename string, names []string) (string, error) {
	if len(names) == 0 {
		return "", nil
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, genai.Text(prompt(filename, names)), nil)
	if err != nil {
		return "", err
	}

	answer := strings.TrimSpace(resp.Text())
	answer = strings.Trim(answer, "\"'")
	if answer == "" || strings.EqualFold(answer, "none") {
		return "", nil
	}

	for _, name := range names {
		if answer == name {
			return name, nil
		}
	}
	return "", nil
}

// prompt builds the single-turn matching prompt. The model must answer with
// one name verbatim so the response can be validated by string equality.
func prompt(filename string, names []string) string {
	var sb strings.Builder
	sb.WriteString("You match product image filenames to product names.\n")
	fmt.Fprintf(&sb, "Image filename: %s\n", filename)
	sb.WriteString("Product names:\n")
	for _, name := range names {
		fmt.Fprintf(&sb, "- %s\n", name)
	}
	sb.WriteString("Answer with exactly one product name from the list, copied verbatim, or the word none.\n")
	return sb.String()
}
