package intent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultCompletionsURL = "https://api.openai.com/v1/chat/completions"

const systemPrompt = `You are an intent parser for a LinkedIn outreach automation assistant. Analyze the user's message and determine their intent.

Available intents:
- list_campaigns: User wants to see their campaigns
- create_campaign: User wants to create a new campaign
- campaign_stats: User wants to see campaign statistics
- start_campaign: User wants to start/activate a campaign
- pause_campaign: User wants to pause a campaign
- list_prospects: User wants to see their prospects
- add_prospects: User wants to add prospects to a campaign
- connect_linkedin: User wants to connect their LinkedIn account
- linkedin_status: User wants to check their LinkedIn connection status
- pending_actions: User wants to see pending actions awaiting approval
- approve_actions: User wants to approve pending actions
- deny_actions: User wants to deny/reject pending actions
- help: User needs help or wants to know what they can do
- general_question: User is asking a general question about LinkedIn outreach
- unknown: Intent is unclear or not related to outreach functionality

Extract relevant entities from the message:
- campaign_name: If the user mentions a specific campaign name
- job_titles: If the user mentions job titles to target (e.g., "CTOs", "VPs of Sales")
- locations: If the user mentions geographic locations
- count: If the user mentions a specific number
- action_type: If related to pending actions (approve/deny)

Respond with JSON in this exact format:
{
  "intent": "the_intent_name",
  "entities": {
    "campaign_name": "string or null",
    "job_titles": ["array", "of", "titles"] or null,
    "locations": ["array", "of", "locations"] or null,
    "count": number or null,
    "action_type": "approve" or "deny" or null
  },
  "confidence": 0.0 to 1.0
}`

// Classifier resolves a user message into a Result. Remote failures never
// surface to the caller; classification always succeeds via the fallback.
type Classifier struct {
	apiKey         string
	model          string
	completionsURL string
	httpClient     *http.Client
	logger         *slog.Logger
}

// NewClassifier creates an intent classifier. An empty apiKey disables the
// LLM path entirely.
func NewClassifier(apiKey, model string, logger *slog.Logger) *Classifier {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &Classifier{
		apiKey:         apiKey,
		model:          model,
		completionsURL: defaultCompletionsURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger.With("component", "intent"),
	}
}

// Classify parses the message, preferring the LLM and degrading to keyword
// matching on any failure
func (c *Classifier) Classify(ctx context.Context, message string) Result {
	if c.apiKey == "" {
		c.logger.Debug("no LLM API key configured, using fallback parser")
		return FallbackParse(message)
	}

	result, err := c.classifyLLM(ctx, message)
	if err != nil {
		c.logger.Warn("LLM intent classification failed, using fallback", "error", err)
		return FallbackParse(message)
	}
	return result
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat respFormat    `json:"response_format"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type respFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Classifier) classifyLLM(ctx context.Context, message string) (Result, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		ResponseFormat: respFormat{Type: "json_object"},
		Temperature:    0.1,
		MaxTokens:      500,
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return Result{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.completionsURL, bytes.NewReader(data))
	if err != nil {
		return Result{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("completions API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return Result{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return Result{}, fmt.Errorf("completions API returned no choices")
	}

	var parsed struct {
		Intent     Intent   `json:"intent"`
		Entities   Entities `json:"entities"`
		Confidence float64  `json:"confidence"`
	}
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &parsed); err != nil {
		return Result{}, fmt.Errorf("failed to parse model output as JSON: %w", err)
	}

	if !parsed.Intent.Valid() {
		parsed.Intent = IntentUnknown
	}
	if parsed.Confidence <= 0 {
		parsed.Confidence = 0.5
	}
	// Job titles come from the regex extractor even on this path, in case
	// the model omits them.
	if len(parsed.Entities.JobTitles) == 0 {
		parsed.Entities.JobTitles = extractJobTitles(message)
	}

	return Result{
		Intent:     parsed.Intent,
		Entities:   parsed.Entities,
		Confidence: parsed.Confidence,
	}, nil
}
