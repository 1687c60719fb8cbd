package judge

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"github.com/hrygo/rehearse/plugin/ai/timeout"
)

// OpenAIConfig holds configuration for the OpenAI-compatible semantic judge.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	// RequestsPerSecond limits calls to the model endpoint.
	RequestsPerSecond float64
	// MinConfidence is the confidence below which a "correct" verdict is rejected.
	MinConfidence float64
	Timeout       time.Duration
}

// OpenAIJudge is a SemanticJudge backed by a chat completion model.
type OpenAIJudge struct {
	client        *openai.Client
	model         string
	limiter       *rate.Limiter
	minConfidence float64
	timeout       time.Duration
}

// NewOpenAIJudge creates a semantic judge for an OpenAI-compatible endpoint.
func NewOpenAIJudge(cfg OpenAIConfig) *OpenAIJudge {
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	minConfidence := cfg.MinConfidence
	if minConfidence <= 0 {
		minConfidence = 0.7
	}
	callTimeout := cfg.Timeout
	if callTimeout <= 0 {
		callTimeout = timeout.JudgeTimeout
	}

	return &OpenAIJudge{
		client:        openai.NewClientWithConfig(clientConfig),
		model:         model,
		limiter:       rate.NewLimiter(rate.Limit(rps), 1),
		minConfidence: minConfidence,
		timeout:       callTimeout,
	}
}

// Judge asks the model whether the answer means the same as the expected answer.
func (j *OpenAIJudge) Judge(ctx context.Context, question, expected, answer string) (*SemanticVerdict, error) {
	if err := j.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:       j.model,
		MaxTokens:   120,
		Temperature: 0,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: judgeSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf("Question: %s\nExpected answer: %s\nPatient answer: %s", question, expected, answer)},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:   "answer_judgement",
				Strict: true,
				Schema: judgeJSONSchema,
			},
		},
	}

	start := time.Now()
	resp, err := j.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		slog.Warn("semantic judge request failed", "error", err, "latency_ms", latency.Milliseconds())
		return nil, fmt.Errorf("semantic judge request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from semantic judge")
	}

	verdict, err := parseVerdict(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}
	if verdict.Correct && verdict.Confidence < j.minConfidence {
		verdict.Correct = false
	}

	slog.Debug("semantic judge completed",
		"correct", verdict.Correct,
		"confidence", verdict.Confidence,
		"latency_ms", latency.Milliseconds(),
		"tokens", resp.Usage.TotalTokens)
	return verdict, nil
}

var codeFence = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")

func parseVerdict(content string) (*SemanticVerdict, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		if m := codeFence.FindStringSubmatch(content); len(m) > 1 {
			content = m[1]
		}
	}
	var v SemanticVerdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, fmt.Errorf("parse semantic verdict: %w", err)
	}
	if v.Confidence < 0 {
		v.Confidence = 0
	}
	if v.Confidence > 1 {
		v.Confidence = 1
	}
	return &v, nil
}

// OpenAIPhraser produces warm greeting and summary lines with a chat model.
type OpenAIPhraser struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	timeout time.Duration
}

// NewOpenAIPhraser creates a phraser sharing the judge configuration.
func NewOpenAIPhraser(cfg OpenAIConfig) *OpenAIPhraser {
	j := NewOpenAIJudge(cfg)
	return &OpenAIPhraser{client: j.client, model: j.model, limiter: j.limiter, timeout: j.timeout}
}

// Greeting returns an opening line for the warm-up exchange.
func (p *OpenAIPhraser) Greeting(ctx context.Context, patientName string) (string, error) {
	return p.complete(ctx, fmt.Sprintf("Write one short, warm greeting for %s that asks how they are feeling today before a memory exercise.", patientName))
}

// Summary returns a closing line for a session with the given score.
func (p *OpenAIPhraser) Summary(ctx context.Context, correct, total int) (string, error) {
	return p.complete(ctx, fmt.Sprintf("In two short sentences, encourage a patient who answered %d of %d memory questions correctly. Mention the score.", correct, total))
}

func (p *OpenAIPhraser) complete(ctx context.Context, prompt string) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limit wait: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       p.model,
		MaxTokens:   80,
		Temperature: 0.7,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: phraserSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("phraser request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from phraser")
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty phrase")
	}
	return text, nil
}

const judgeSystemPrompt = `You check answers in a memory exercise for a patient with memory loss.
Decide whether the patient answer refers to the same thing as the expected answer.
Accept synonyms, relations described differently, partial names and small misspellings.
Reject answers that name a different person, place or thing.
If incorrect, give a gentle hint that does not reveal the answer.`

const phraserSystemPrompt = `You are a gentle, patient companion helping someone with memory loss practice personal facts. Keep sentences short and warm. No emojis.`

// judgeJSONSchema defines the strict output schema for answer judgement.
var judgeJSONSchema = &jsonSchema{
	Type: "object",
	Properties: map[string]*jsonSchema{
		"correct": {
			Type:        "boolean",
			Description: "Whether the patient answer matches the expected answer",
		},
		"confidence": {
			Type:        "number",
			Description: "Confidence score between 0 and 1",
		},
		"feedback": {
			Type:        "string",
			Description: "One short encouraging sentence",
		},
		"hint": {
			Type:        "string",
			Description: "A gentle hint when incorrect, empty otherwise",
		},
	},
	Required:             []string{"correct", "confidence", "feedback", "hint"},
	AdditionalProperties: false,
}

// jsonSchema implements json.Marshaler for OpenAI's JSON Schema format.
type jsonSchema struct {
	Type                 string                 `json:"type"`
	Properties           map[string]*jsonSchema `json:"properties,omitempty"`
	Required             []string               `json:"required,omitempty"`
	Enum                 []string               `json:"enum,omitempty"`
	Description          string                 `json:"description,omitempty"`
	AdditionalProperties bool                   `json:"additionalProperties"`
}

func (s *jsonSchema) MarshalJSON() ([]byte, error) {
	type alias jsonSchema
	return json.Marshal((*alias)(s))
}

var _ SemanticJudge = (*OpenAIJudge)(nil)
