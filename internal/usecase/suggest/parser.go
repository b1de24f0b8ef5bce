package suggest

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tasknest/tasknest/internal/domain"
)

// parseSuggestions extracts subtask titles from the model output. The prompt
// asks for a plain JSON array, but models wrap it in prose or code fences
// often enough that a bracket-bounded recovery pass is worth having.
func parseSuggestions(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)

	titles, err := parseArray(raw)
	if err == nil {
		return titles, nil
	}

	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start >= 0 && end > start {
		if titles, err := parseArray(raw[start : end+1]); err == nil {
			return titles, nil
		}
	}

	return nil, fmt.Errorf("%w: no JSON array in model output", domain.ErrMalformedSuggestion)
}

func parseArray(s string) ([]string, error) {
	var titles []string
	if err := json.Unmarshal([]byte(s), &titles); err != nil {
		return nil, err
	}

	cleaned := make([]string, 0, len(titles))
	for _, t := range titles {
		if t = strings.TrimSpace(t); t != "" {
			cleaned = append(cleaned, t)
		}
	}
	if len(cleaned) == 0 {
		return nil, fmt.Errorf("array holds no usable titles")
	}
	return cleaned, nil
}
