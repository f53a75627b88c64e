// Copyright 2025 The tasknest Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tasknest/tasknest/ai"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// maxSubtasks caps the number of suggestions returned to the caller even when
// the model over-delivers.
const maxSubtasks = 7

// SubtaskGenerator implements ai.SubtaskGenerator using OpenAI-compatible chat APIs.
type SubtaskGenerator struct {
	client llms.Model
	logger *slog.Logger
}

// newSubtaskGenerator is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newSubtaskGenerator(config *ai.Config) (*SubtaskGenerator, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := openai.New(
		openai.WithBaseURL(config.GeneratorHost),
		openai.WithToken(config.APIKey),
		openai.WithModel(config.GeneratorModel),
	)
	if err != nil {
		return nil, err
	}

	return &SubtaskGenerator{
		client: client,
		logger: slog.Default().With("component", "openai-generator"),
	}, nil
}

// NewSubtaskGenerator creates a new subtask generator using the provided configuration.
//
// Returns ai.SubtaskGenerator interface to enforce abstraction.
func NewSubtaskGenerator(config *ai.Config) (ai.SubtaskGenerator, error) {
	return newSubtaskGenerator(config)
}

// GenerateSubtasks decomposes a task title into 5 to 7 short subtask titles.
// The model is asked for a plain JSON array; malformed output is repaired and
// re-requested a bounded number of times before giving up.
func (g *SubtaskGenerator) GenerateSubtasks(ctx context.Context, title string) ([]string, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ai.ErrEmptyText
	}

	content := []llms.MessageContent{
		{
			Role: llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{
				llms.TextPart(subtaskSystemPrompt),
			},
		},
		{
			Role: llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(title),
			},
		},
	}

	// Try up to 3 times in case of malformed JSON
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := g.client.GenerateContent(ctx, content, llms.WithTemperature(1.0))
		if err != nil {
			g.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return nil, fmt.Errorf("%w: %w", ai.ErrProviderUnavailable, err)
		}

		if len(response.Choices) < 1 {
			g.logger.Debug("no choices returned from model")
			return []string{}, nil
		}

		responseText := repairJSONArray(response.Choices[0].Content)

		var titles []string
		if err := json.Unmarshal([]byte(responseText), &titles); err != nil {
			lastErr = err
			g.logger.Warn("error parsing generator response",
				"attempt", attempt+1,
				"response", responseText,
				"err", err)
			continue
		}

		return cleanSubtaskTitles(titles), nil
	}

	return nil, fmt.Errorf("%w: %w", ai.ErrMalformedResponse, lastErr)
}

// cleanSubtaskTitles trims the titles, drops empty entries, and caps the list.
func cleanSubtaskTitles(titles []string) []string {
	cleaned := make([]string, 0, len(titles))
	for _, title := range titles {
		title = strings.TrimSpace(title)
		if title == "" {
			continue
		}
		cleaned = append(cleaned, title)
		if len(cleaned) == maxSubtasks {
			break
		}
	}
	return cleaned
}
