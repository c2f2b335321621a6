package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pageza/feastcraft/backend/internal/llm"
	"github.com/pageza/feastcraft/backend/internal/models"
)

// callRecorder writes a ledger entry per provider call. A nil recorder only logs.
type callRecorder struct {
	usage  UsageRecorder
	logger *zap.Logger
	now    func() time.Time
}

func (r callRecorder) record(ctx context.Context, kind, provider, model string, started time.Time, resp *llm.Response, err error) {
	rec := &models.UsageRecord{
		Kind:      kind,
		Provider:  provider,
		Model:     model,
		Outcome:   Outcome(err),
		LatencyMS: r.now().Sub(started).Milliseconds(),
	}
	if resp != nil {
		if resp.Model != "" {
			rec.Model = resp.Model
		}
		rec.PromptTokens = resp.Usage.PromptTokens
		rec.CompletionTokens = resp.Usage.CompletionTokens
	}

	fields := []zap.Field{
		zap.String("kind", kind),
		zap.String("provider", provider),
		zap.String("outcome", rec.Outcome),
		zap.Int64("latency_ms", rec.LatencyMS),
	}
	if err != nil {
		r.logger.Warn("provider call failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Info("provider call completed", fields...)
	}

	if r.usage == nil {
		return
	}
	// The ledger write outlives a cancelled request
	if err := r.usage.Record(context.WithoutCancel(ctx), rec); err != nil {
		r.logger.Warn("failed to record usage", zap.Error(err))
	}
}
