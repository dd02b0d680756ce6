// Package audit records login attempts: one immutable record per attempt,
// appended to the store and mirrored as a structured log event.
package audit

import (
	"context"
	"time"

	"github.com/dropDatabas3/ssobridge/internal/observability/logger"
	"github.com/dropDatabas3/ssobridge/internal/store/core"
	"github.com/google/uuid"
)

// Sink receives finalized login attempt records.
type Sink interface {
	Record(ctx context.Context, att *core.LoginAttempt) error
}

type storeSink struct {
	repo interface {
		AppendLoginAttempt(ctx context.Context, att *core.LoginAttempt) error
	}
}

// NewStoreSink returns a Sink that appends to the repository.
func NewStoreSink(repo interface {
	AppendLoginAttempt(ctx context.Context, att *core.LoginAttempt) error
}) Sink {
	return &storeSink{repo: repo}
}

// Record fills in the record identity and timestamp, appends to the store and
// emits a log event. Secrets never appear here: the record carries only
// references and the outcome.
func (s *storeSink) Record(ctx context.Context, att *core.LoginAttempt) error {
	if att.ID == "" {
		att.ID = uuid.NewString()
	}
	if att.CreatedAt.IsZero() {
		att.CreatedAt = time.Now().UTC()
	}

	err := s.repo.AppendLoginAttempt(ctx, att)

	log := logger.From(ctx).With(
		logger.Component("audit"),
		logger.String("provider", att.ProviderSlug),
		logger.String("status", att.Status),
	)
	if err != nil {
		log.Warn("login attempt append failed", logger.Err(err))
		return err
	}
	log.Info("login attempt recorded")
	return nil
}
