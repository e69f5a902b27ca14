package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ikeepcalm/ad/internal/core/domain"
	"github.com/ikeepcalm/ad/internal/core/ports/driven"
	"github.com/ikeepcalm/ad/internal/logger"
)

// recorder writes finished runs to the history. A nil store disables it.
type recorder struct {
	runs driven.RunStore
}

// record stores one run. History is best effort: failures are logged and
// never override the run's own outcome.
func (r recorder) record(ctx context.Context, kind domain.RunKind, params, summary any, started time.Time, runErr error) {
	if r.runs == nil {
		return
	}

	run := domain.Run{
		ID:        uuid.New().String(),
		Kind:      kind,
		StartedAt: started.UTC(),
		Duration:  time.Since(started),
	}
	if runErr != nil {
		run.Error = runErr.Error()
	}

	var err error
	if run.Params, err = json.Marshal(params); err != nil {
		logger.Warn("history: encoding %s params: %v", kind, err)
		return
	}
	if run.Summary, err = json.Marshal(summary); err != nil {
		logger.Warn("history: encoding %s summary: %v", kind, err)
		return
	}
	if string(run.Summary) == "null" {
		run.Summary = nil
	}

	// record even when the run itself was cancelled
	if err := r.runs.Record(context.WithoutCancel(ctx), run); err != nil {
		logger.Warn("history: recording %s run: %v", kind, err)
		return
	}
	logger.Debug("history: recorded %s run %s", kind, run.ID)
}
