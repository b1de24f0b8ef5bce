// Package suggest generates subtask suggestions for a task title via chat
// completion. Suggestions are returned to the client, never persisted; the
// client creates real subtasks from the ones the user accepts.
package suggest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tasknest/tasknest/internal/domain"
)

const systemPrompt = "You are a helpful assistant that breaks down big tasks into simple, clear subtasks. " +
	"Given a main task title, return a list of 5 to 7 clear, short subtasks needed to complete it. " +
	"The subtasks should be practical and written in plain language. " +
	"Return them as a plain JSON array. Do not include any extra text or explanations."

const userPromptTemplate = `Main task: "Plan a wedding"
Example output:
[
  "Book wedding venue",
  "Hire photographer",
  "Send invitations",
  "Arrange catering",
  "Plan wedding ceremony",
  "Choose wedding dress",
  "Plan honeymoon"
]
Now generate subtasks for this task:
%q`

// Service generates subtask suggestions.
type Service struct {
	completer Completer
}

// New creates a suggestion service. completer may be nil when no provider is
// configured; Suggest then fails up front.
func New(completer Completer) *Service {
	return &Service{completer: completer}
}

// Suggest returns suggested subtask titles for a task title.
func (s *Service) Suggest(ctx context.Context, taskTitle string) ([]string, error) {
	taskTitle = strings.TrimSpace(taskTitle)
	if taskTitle == "" {
		return nil, fmt.Errorf("%w: task title is required", domain.ErrInvalidInput)
	}
	if s.completer == nil {
		return nil, domain.ErrProviderNotConfigured
	}

	raw, err := s.completer.Complete(ctx, systemPrompt, fmt.Sprintf(userPromptTemplate, taskTitle))
	if err != nil {
		return nil, fmt.Errorf("generate suggestions: %w", err)
	}

	return parseSuggestions(raw)
}
