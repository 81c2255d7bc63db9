package services

import (
	"strings"
	"testing"

	"date-night-planner/internal/models"
)

func TestBuildDatePrompt(t *testing.T) {
	inputs := models.DateInputs{
		Location:     "Edinburgh",
		Date:         "2026-09-12",
		TimeOfDay:    "evening",
		Interests:    "whisky, history",
		Personality:  "adventurous",
		Budget:       "£150",
		LoveLanguage: "quality-time",
	}

	prompt := buildDatePrompt(inputs)

	expectedFragments := []string{
		"Location: Edinburgh",
		"Date: 2026-09-12",
		"Time of Day: evening",
		"Partner's Interests: whisky, history",
		"Partner's Personality: adventurous",
		"Budget: £150",
		"Love Language: quality-time",
		"Title: [Overall theme of the date]",
		"Activity 1:",
		"BookingUrl:",
		"Total Cost:",
	}

	for _, fragment := range expectedFragments {
		if !strings.Contains(prompt, fragment) {
			t.Errorf("Expected prompt to contain %q", fragment)
		}
	}

	// The budget's currency symbol drives the cost instructions
	if !strings.Contains(prompt, "using the currency symbol £") {
		t.Error("Expected prompt to use the budget's currency symbol")
	}
}

func TestCurrencySymbolFromBudget(t *testing.T) {
	testCases := []struct {
		name     string
		budget   string
		expected string
	}{
		{"Dollar budget", "$100", "$"},
		{"Pound budget", "around £50", "£"},
		{"Euro budget", "€200 max", "€"},
		{"No symbol defaults to dollar", "about 100", "$"},
		{"Empty budget", "", "$"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := currencySymbolFromBudget(tc.budget)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestNewGeneratorClientWithConfig(t *testing.T) {
	client := NewGeneratorClientWithConfig("test-key", "https://example.test", "test-model", 0.5, 800)

	if client.model != "test-model" {
		t.Errorf("Expected model 'test-model', got %q", client.model)
	}
	if client.temperature != 0.5 {
		t.Errorf("Expected temperature 0.5, got %v", client.temperature)
	}
	if client.maxTokens != 800 {
		t.Errorf("Expected maxTokens 800, got %d", client.maxTokens)
	}
}
