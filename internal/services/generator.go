package services

import (
	"context"
	"fmt"
	"log"
	"os"
	"regexp"

	"github.com/sashabaranov/go-openai"

	"date-night-planner/internal/models"
)

// GeneratorClient requests date plan text from an OpenAI-compatible chat
// completions API. The default endpoint is Perplexity. The raw response text
// is handed to the ItineraryParser; the generator never retries a bad parse,
// regeneration is the caller's decision.
type GeneratorClient struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

const (
	defaultGeneratorBaseURL = "https://api.perplexity.ai"
	defaultGeneratorModel   = "llama-3.1-sonar-small-128k-chat"
)

var budgetCurrencyPattern = regexp.MustCompile(`[£$€]`)

// NewGeneratorClient creates a generator client from the environment
func NewGeneratorClient() *GeneratorClient {
	apiKey := os.Getenv("PERPLEXITY_API_KEY")
	if apiKey == "" {
		log.Fatal("PERPLEXITY_API_KEY environment variable is required")
	}

	baseURL := os.Getenv("PERPLEXITY_BASE_URL")
	if baseURL == "" {
		baseURL = defaultGeneratorBaseURL
	}

	model := os.Getenv("PERPLEXITY_MODEL")
	if model == "" {
		model = defaultGeneratorModel
	}

	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL

	return &GeneratorClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: 0.7,
		maxTokens:   1500,
	}
}

// NewGeneratorClientWithConfig creates a generator client with custom settings
func NewGeneratorClientWithConfig(apiKey, baseURL, model string, temperature float32, maxTokens int) *GeneratorClient {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &GeneratorClient{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// GenerateDatePlan requests a date plan for the given inputs and returns the
// raw text block to be parsed
func (g *GeneratorClient) GenerateDatePlan(ctx context.Context, inputs models.DateInputs) (string, error) {
	prompt := buildDatePrompt(inputs)

	resp, err := g.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       g.model,
			Temperature: g.temperature,
			MaxTokens:   g.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return "", fmt.Errorf("generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices from generation API")
	}

	return resp.Choices[0].Message.Content, nil
}

// buildDatePrompt renders the generation prompt. The response format it
// demands is exactly what ExtractSections and ItineraryParser expect.
func buildDatePrompt(inputs models.DateInputs) string {
	currencySymbol := currencySymbolFromBudget(inputs.Budget)

	return fmt.Sprintf(`You are a date planning expert. Create a romantic date plan with exactly 3 activities based on these preferences:
- Location: %s
- Date: %s
- Time of Day: %s
- Partner's Interests: %s
- Partner's Personality: %s
- Budget: %s
- Love Language: %s

For each activity, you MUST include:
1. A real, direct booking URL or official website URL for that specific venue/activity in %s
2. The ACTUAL, CURRENT cost of the activity based on real prices from the venue's website or booking platform, using the currency symbol %s
3. NO placeholder or estimated costs - only use real prices you can verify

Respond with ONLY the following format, no additional text:

Title: [Overall theme of the date]

Activity 1:
Title: [Name of activity]
Time: [Specific time]
Location: [Specific location name and address in %s]
Description: [2-3 sentences about the activity]
Considerations: [Important notes or tips]
Weather: [Weather-related advice]
Travel: [How to get there]
Cost: [Exact current price from venue website, using %s]
BookingUrl: [Direct URL to book or view this specific venue/activity]

Activity 2:
[Same format as Activity 1]

Activity 3:
[Same format as Activity 1]

Total Cost: [Sum of all activity costs, using %s]`,
		inputs.Location,
		inputs.Date,
		inputs.TimeOfDay,
		inputs.Interests,
		inputs.Personality,
		inputs.Budget,
		inputs.LoveLanguage,
		inputs.Location,
		currencySymbol,
		inputs.Location,
		currencySymbol,
		currencySymbol,
	)
}

// currencySymbolFromBudget picks the currency symbol out of a free-form
// budget string like "around £100", defaulting to "$"
func currencySymbolFromBudget(budget string) string {
	if symbol := budgetCurrencyPattern.FindString(budget); symbol != "" {
		return symbol
	}
	return "$"
}
