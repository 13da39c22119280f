// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package manifesto

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/danielhkuo/reva-evote/models"
)

const DefaultModel = "gemini-2.5-flash"

const promptTemplate = `
You are an expert Political Campaign Manager for university student elections.

Candidate Name: %s
Running For: %s
Key Points/Promises: %s

Task: Write a short, inspiring, and professional election manifesto (max 100 words).
It should be persuasive and appeal to university students.
Use formatting (bullet points) if necessary.
Do not use markdown blocks or preamble. Just the manifesto text.
`

// contentGenerator is the part of *genai.Models this package calls.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiGenerator drafts manifestos with the Gemini API.
type GeminiGenerator struct {
	models contentGenerator
	model  string
}

// NewGeminiGenerator creates a generator using apiKey. An empty model
// selects DefaultModel.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newGeminiGenerator(client.Models, model), nil
}

func newGeminiGenerator(api contentGenerator, model string) *GeminiGenerator {
	if model == "" {
		model = DefaultModel
	}
	return &GeminiGenerator{models: api, model: model}
}

// Prompt builds the generation prompt for one candidate.
func Prompt(name string, position models.Position, keyPoints string) string {
	return fmt.Sprintf(promptTemplate, name, position, keyPoints)
}

func (g *GeminiGenerator) Generate(ctx context.Context, name string, position models.Position, keyPoints string) (string, error) {
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(Prompt(name, position, keyPoints)), nil)
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return EmptyResponseText, nil
	}
	return text, nil
}
