package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/sms-guard/internal/core"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiClassifier is an implementation of the Classifier interface using Google Gemini
type GeminiClassifier struct {
	client       *genai.Client
	model        *genai.GenerativeModel
	modelName    string
	logger       *zap.Logger
	promptFormat string
}

// categoryResponse represents the structured response from the model
type categoryResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
}

// NewGeminiClassifier creates a new Gemini classifier
func NewGeminiClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	logger *zap.Logger,
) (*GeminiClassifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &GeminiClassifier{
		client:    client,
		model:     model,
		modelName: modelName,
		logger:    logger,
		promptFormat: `You are an SMS category classifier for an A2P messaging gateway.
Classify the following message into exactly one category: spam, transactional, or promotional.
Respond with a JSON object containing:
- category: string (the chosen category)
- confidence: number between 0 and 1 (probability of the chosen category)

Message:
%s

Respond only with the JSON object and nothing else.`,
	}, nil
}

// Close closes the Gemini client
func (c *GeminiClassifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Classify classifies a message and returns its category and confidence
func (c *GeminiClassifier) Classify(ctx context.Context, text string) (*core.Classification, error) {
	prompt := fmt.Sprintf(c.promptFormat, text)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	category, err := parseCategoryResponse(responseText)
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
