package extraction

import (
	"context"
	"fmt"

	"github.com/geoweave/geoweave/internal/core/common"
	"github.com/geoweave/geoweave/internal/core/model"
	"github.com/geoweave/geoweave/internal/llm"
)

// DefaultPlacesPrompt is used when the config does not override the template.
// One %s slot for the input text.
const DefaultPlacesPrompt = `You are a geographic information extraction assistant. Extract every place or address mentioned in the text below.

Return ONLY a JSON object, no explanations, in this exact shape:
{
  "places": [
    {"address": "place or address text", "order": 1, "time_mentioned": "related time phrase if any"}
  ]
}

"order" is the visiting order implied by the text (1 = first), omit it when the text implies none. Omit "time_mentioned" when there is none. If no places are found return {"places": []}.

Text: %s`

// Extractor wraps the text-understanding capability for address extraction.
// It owns the prompt and the cleanup of whatever the model sends back.
type Extractor struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewExtractor(llmClient llm.LLMClient, prompt string) *Extractor {
	if prompt == "" {
		prompt = DefaultPlacesPrompt
	}
	return &Extractor{
		LLM:    llmClient,
		Prompt: prompt,
	}
}

// Extract returns the validated, deduplicated places mentioned in text.
// The capability's output is not trusted: empty names are dropped, and
// duplicates (case- and whitespace-normalized) keep their first occurrence.
func (e *Extractor) Extract(ctx context.Context, text string) ([]model.ExtractedPlace, error) {
	prompt := fmt.Sprintf(e.Prompt, text)

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate places: %w", err)
	}

	result, err := common.ParseJSON[model.ExtractedPlaces](response)
	if err != nil {
		return nil, fmt.Errorf("failed to extract places: %w", err)
	}

	return dedupe(result.Places), nil
}

func dedupe(places []model.ExtractedPlace) []model.ExtractedPlace {
	seen := make(map[string]bool, len(places))
	out := make([]model.ExtractedPlace, 0, len(places))
	for _, p := range places {
		key := common.NormalizeName(p.Address)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}
