package interfaces

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks Classifier,Storage,Logger

import (
	"context"

	"github.com/ummet-social/censor/models"
)

// Classifier produces a moderation verdict for a piece of text.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, text string) (models.Verdict, error)
}

// Storage persists denylist terms.
type Storage interface {
	AddTerm(ctx context.Context, term string) error
	RemoveTerm(ctx context.Context, term string) error
	GetTerms(ctx context.Context) ([]string, error)
	TermExists(ctx context.Context, term string) (bool, error)
}

// Logger is an optional structured logger.
type Logger interface {
	Debug(msg string, fields map[string]any)
	Info(msg string, fields map[string]any)
	Warn(msg string, fields map[string]any)
	Error(msg string, fields map[string]any)
}
