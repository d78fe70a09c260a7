package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/journohub/internal/domain"
	"github.com/Skotchmaster/journohub/pkg/logging"
)

type Suggester interface {
	Suggest(ctx context.Context, text, writingContext string) (string, error)
}

type AssistService struct {
	AI      Suggester
	Timeout time.Duration
}

func (s *AssistService) Assist(ctx context.Context, prompt, writingContext string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", domain.ErrValidation)
	}
	if s.AI == nil {
		return "", fmt.Errorf("%w: ai assistant is not configured", domain.ErrDependencyUnavailable)
	}

	timeout := s.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	actx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	suggestion, err := s.AI.Suggest(actx, prompt, writingContext)
	if err != nil {
		logging.FromContext(ctx).Error("ai_assist_failed", "error", err)
		return "", fmt.Errorf("%w: %w", domain.ErrDependencyUnavailable, err)
	}
	return suggestion, nil
}
