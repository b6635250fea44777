package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/mikey/sms-guard/internal/core"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// OpenAIClassifier is an implementation of the Classifier interface using OpenAI
type OpenAIClassifier struct {
	client       *openai.Client
	modelName    string
	maxTokens    int
	temperature  float32
	topP         float32
	logger       *zap.Logger
	promptFormat string
}

// categoryResponse represents the structured response from the model
type categoryResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// NewOpenAIClassifier creates a new OpenAI classifier
func NewOpenAIClassifier(
	client *openai.Client,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) *OpenAIClassifier {
	return &OpenAIClassifier{
		client:      client,
		modelName:   modelName,
		maxTokens:   maxTokens,
		temperature: temperature,
		topP:        topP,
		logger:      logger,
		promptFormat: `You are an SMS category classifier for an A2P messaging gateway.
Classify the following message into exactly one category: spam, transactional, or promotional.
Respond with a JSON object containing:
- category: string (the chosen category)
- confidence: number between 0 and 1 (probability of the chosen category)

Message:
%s

Respond only with the JSON object and nothing else.`,
	}
}

// Classify classifies a message and returns its category and confidence
func (c *OpenAIClassifier) Classify(ctx context.Context, text string) (*core.Classification, error) {
	prompt := fmt.Sprintf(c.promptFormat, text)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an SMS category classifier. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
	}

	responseFormat := openai.ChatCompletionResponseFormat{
		Type: "json",
	}
	req.ResponseFormat = &responseFormat

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	category, err := parseCategoryResponse(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, err
	}

	result := &core.Classification{
		Category:     category.Category,
		Confidence:   category.Confidence,
		ModelUsed:    c.modelName,
		ClassifiedAt: time.Now(),
	}

	return result, nil
}

// parseCategoryResponse parses the model's JSON response, tolerating
// surrounding prose by extracting the outermost JSON object.
func parseCategoryResponse(responseText string) (*categoryResponse, error) {
	var parsed categoryResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err == nil {
		return &parsed, nil
	}

	jsonStart := strings.Index(responseText, "{")
	jsonEnd := strings.LastIndex(responseText, "}")
	if jsonStart < 0 || jsonEnd <= jsonStart {
		return nil, fmt.Errorf("failed to extract JSON from model response")
	}

	if err := json.Unmarshal([]byte(responseText[jsonStart:jsonEnd+1]), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse model response as JSON: %w", err)
	}
	return &parsed, nil
}
