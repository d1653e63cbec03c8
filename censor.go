package censor

import (
	"context"
	"sync"

	"github.com/ummet-social/censor/core"
	"github.com/ummet-social/censor/models"
)

// Re-export core API at module root for convenient imports.
type (
	Core           = core.Core
	Options        = core.Options
	FailurePolicy  = core.FailurePolicy
	EventName      = core.EventName
	ScreeningEvent = core.ScreeningEvent
	EventHandler   = core.EventHandler
)

const (
	PolicyFallback   = core.PolicyFallback
	PolicyFailClosed = core.PolicyFailClosed
)

const (
	EventAdmitted          = core.EventAdmitted
	EventFlagged           = core.EventFlagged
	EventClassifierFailure = core.EventClassifierFailure
)

// New creates a new content screener.
func New(opt Options) *Core {
	return core.New(opt)
}

var (
	defaultOnce sync.Once
	defaultCore *Core
)

func defaultScreener() *Core {
	defaultOnce.Do(func() { defaultCore = core.New(Options{DisableCache: true}) })
	return defaultCore
}

// Scan checks text against the built-in denylist.
func Scan(text string) models.ScanResult {
	return defaultScreener().Scan(text)
}

// Classify returns the built-in denylist verdict for text.
func Classify(ctx context.Context, text string) (models.Verdict, error) {
	return defaultScreener().Classify(ctx, text)
}
