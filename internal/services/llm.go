package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"empenglish-backend/internal/practice"
)

// LlmService generates interviewer feedback, follow-up questions and
// ad-hoc questions through an OpenAI-compatible chat API.
type LlmService struct {
	api   *openai.Client
	model string
}

func NewLlmService(baseURL, apiKey, modelName string) *LlmService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &LlmService{
		api:   openai.NewClientWithConfig(config),
		model: modelName,
	}
}

const interviewerSystemPrompt = "You are an experienced English interviewer for postgraduate admission interviews. You speak naturally and encouragingly, like a real interviewer talking to a candidate."

func (s *LlmService) GenerateFeedback(ctx context.Context, question, answer string, overallScore float64) (string, error) {
	prompt := fmt.Sprintf(`The candidate was asked: %q
The candidate answered: %q
The composite score for this answer was %.0f out of 100.

Give the candidate 2-3 sentences of spoken feedback on this answer. Mention one thing they did well and one concrete improvement. Plain text only, no markdown, no lists.`, question, answer, overallScore)

	return s.complete(ctx, prompt, 0.7, nil)
}

func (s *LlmService) GenerateFollowUp(ctx context.Context, question, answer string, pressureLevel int) ([]string, error) {
	tone := "supportive and gentle"
	switch pressureLevel {
	case 2:
		tone = "neutral and academic"
	case 3:
		tone = "probing and challenging"
	}

	prompt := fmt.Sprintf(`The candidate was asked: %q
The candidate answered: %q

Generate 2 follow-up interview questions that dig deeper into the answer. The tone must be %s.
Return ONLY a valid JSON object of the form {"questions": ["...", "..."]}.`, question, answer, tone)

	raw, err := s.complete(ctx, prompt, 0.7, &openai.ChatCompletionResponseFormat{
		Type: openai.ChatCompletionResponseFormatTypeJSONObject,
	})
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return nil, fmt.Errorf("parse follow-up response: %w (raw: %s)", err, raw)
	}

	questions := make([]string, 0, len(parsed.Questions))
	for _, q := range parsed.Questions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

func (s *LlmService) GenerateQuestion(ctx context.Context, qctx practice.QuestionContext) (string, error) {
	var b strings.Builder
	b.WriteString("Generate one interview question for a postgraduate admission interview.\n")
	if qctx.Category != "" {
		fmt.Fprintf(&b, "Topic category: %s.\n", qctx.Category)
	}
	if qctx.University != "" {
		fmt.Fprintf(&b, "The candidate is applying to %s.\n", qctx.University)
	}
	if qctx.Major != "" {
		fmt.Fprintf(&b, "The candidate's target major is %s.\n", qctx.Major)
	}
	if len(qctx.PreviousQuestions) > 0 {
		b.WriteString("Do not repeat any of these already-asked questions:\n")
		for _, q := range qctx.PreviousQuestions {
			fmt.Fprintf(&b, "- %s\n", q)
		}
	}
	b.WriteString("Return ONLY the question text, no numbering or commentary.")

	question, err := s.complete(ctx, b.String(), 0.9, nil)
	if err != nil {
		return "", err
	}
	return strings.Trim(strings.TrimSpace(question), `"`), nil
}

func (s *LlmService) complete(ctx context.Context, prompt string, temperature float32, format *openai.ChatCompletionResponseFormat) (string, error) {
	resp, err := s.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: interviewerSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		ResponseFormat: format,
		Temperature:    temperature,
	})
	if err != nil {
		return "", fmt.Errorf("LLM API call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("LLM returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	return strings.TrimSpace(raw)
}
