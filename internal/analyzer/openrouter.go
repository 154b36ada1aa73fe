package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Ductam7415vn/SumUp-sub002/internal/models"
	"github.com/Ductam7415vn/SumUp-sub002/internal/utils"
)

var ErrEmptySummary = errors.New("model returned an empty summary")

// maxPromptChars bounds how much source text is sent to the model.
const maxPromptChars = 12000

type Summarizer interface {
	Summarize(ctx context.Context, text string, persona models.Persona) (*models.Summary, error)
}

type Options struct {
	APIKey         string
	Model          string
	BaseURL        string
	WordsPerMinute int
	Timeout        time.Duration
}

type openRouterSummarizer struct {
	apiKey  string
	model   string
	baseURL string
	wpm     int
	now     func() time.Time
	logger  *utils.Logger
	client  *http.Client
}

type OpenRouterRequest struct {
	Model          string          `json:"model"`
	Messages       []Message       `json:"messages"`
	ResponseFormat *ResponseFormat `json:"response_format,omitempty"`
}

type ResponseFormat struct {
	Type string `json:"type"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type OpenRouterResponse struct {
	Choices []Choice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error,omitempty"`
}

type Choice struct {
	Message Message `json:"message"`
}

// llmSummary is the object the model is asked to produce.
type llmSummary struct {
	Summary         string              `json:"summary"`
	BriefOverview   string              `json:"brief_overview"`
	DetailedSummary string              `json:"detailed_summary"`
	BulletPoints    []string            `json:"bullet_points"`
	KeyInsights     models.OptionalList `json:"key_insights"`
	ActionItems     models.OptionalList `json:"action_items"`
	Keywords        models.OptionalList `json:"keywords"`
}

func NewOpenRouterSummarizer(opts Options, logger *utils.Logger) Summarizer {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://openrouter.ai/api/v1"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 60 * time.Second
	}
	return &openRouterSummarizer{
		apiKey:  opts.APIKey,
		model:   opts.Model,
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		wpm:     opts.WordsPerMinute,
		now:     time.Now,
		logger:  logger,
		client: &http.Client{
			Timeout: opts.Timeout,
		},
	}
}

// truncateRunes keeps the first max runes of s, marking the cut with "...".
func truncateRunes(s string, max int) string {
	n := 0
	for i := range s {
		if n == max {
			return s[:i] + "..."
		}
		n++
	}
	return s
}

func (a *openRouterSummarizer) Summarize(ctx context.Context, text string, persona models.Persona) (*models.Summary, error) {
	source := truncateRunes(text, maxPromptChars)

	reqBody := OpenRouterRequest{
		Model: a.model,
		Messages: []Message{
			{Role: "system", Content: systemPrompt(persona)},
			{Role: "user", Content: source},
		},
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/chat/completions", bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Title", "SumUp")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		a.logger.Error("OpenRouter API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("OpenRouter API returned status %d", resp.StatusCode)
	}

	var openRouterResp OpenRouterResponse
	if err := json.Unmarshal(body, &openRouterResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	if openRouterResp.Error != nil {
		return nil, fmt.Errorf("OpenRouter API error: %s", openRouterResp.Error.Message)
	}

	if len(openRouterResp.Choices) == 0 {
		return nil, fmt.Errorf("no choices in response")
	}

	content := openRouterResp.Choices[0].Message.Content

	var result llmSummary
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		content = extractJSON(content)
		if err := json.Unmarshal([]byte(content), &result); err != nil {
			a.logger.Error("Failed to parse LLM response", "content", content)
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	if strings.TrimSpace(result.Summary) == "" {
		return nil, ErrEmptySummary
	}

	bullets := result.BulletPoints
	if bullets == nil {
		bullets = []string{}
	}

	return &models.Summary{
		Summary:         result.Summary,
		BriefOverview:   result.BriefOverview,
		DetailedSummary: result.DetailedSummary,
		BulletPoints:    bullets,
		KeyInsights:     result.KeyInsights,
		ActionItems:     result.ActionItems,
		Keywords:        result.Keywords,
		Metrics:         models.NewMetrics(text, result.Summary, a.wpm),
		CreatedAt:       a.now().UTC(),
		Persona:         persona,
	}, nil
}

var personaInstructions = map[models.Persona]string{
	models.PersonaGeneral:   "Write for a general audience in plain language.",
	models.PersonaBusiness:  "Write for busy executives. Lead with decisions, risks and numbers.",
	models.PersonaAcademic:  "Write for researchers. Keep methodology, evidence and limitations.",
	models.PersonaTechnical: "Write for engineers. Keep technical terms, versions and constraints exact.",
	models.PersonaLegal:     "Write for legal review. Keep obligations, parties, dates and defined terms.",
	models.PersonaStudent:   "Write for a student. Explain concepts simply and highlight what to remember.",
	models.PersonaCreative:  "Write vividly for a creative audience while staying faithful to the source.",
}

func systemPrompt(persona models.Persona) string {
	instruction, ok := personaInstructions[persona]
	if !ok {
		instruction = fmt.Sprintf("Write for a %s audience.", persona.DisplayName())
	}

	return `You summarize documents. ` + instruction + `

Respond ONLY with a valid JSON object (no markdown, no code blocks) with the following structure:
{
  "summary": "A concise 2-3 sentence summary",
  "brief_overview": "One sentence overview",
  "detailed_summary": "A detailed summary of several paragraphs separated by newlines",
  "bullet_points": ["Key point", "..."],
  "key_insights": ["Non-obvious insight", "..."],
  "action_items": ["Concrete next step", "..."],
  "keywords": ["keyword", "..."]
}
Use an empty array when a list does not apply.`
}

// extractJSON strips a surrounding markdown code fence, if any.
func extractJSON(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}

	if nl := strings.IndexByte(content, '\n'); nl >= 0 {
		content = content[nl+1:]
	} else {
		content = strings.TrimPrefix(content, "```")
	}
	content = strings.TrimSpace(content)
	content = strings.TrimSuffix(content, "```")

	return strings.TrimSpace(content)
}
