package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/finance"
	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// OverdueMarker marks a tenant's unpaid accounts overdue
type OverdueMarker interface {
	MarkOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) (finance.OverdueResult, error)
}

// OverdueRecorder receives the counts of each completed sweep
type OverdueRecorder interface {
	RecordOverdueMarked(ctx context.Context, tenantID string, receivables, payables int64)
}

// OverdueExecutor runs overdue sweep jobs
type OverdueExecutor struct {
	marker   OverdueMarker
	recorder OverdueRecorder
	logger   *zap.Logger
}

// NewOverdueExecutor creates an executor backed by marker
func NewOverdueExecutor(marker OverdueMarker, logger *zap.Logger) *OverdueExecutor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OverdueExecutor{marker: marker, logger: logger}
}

// WithRecorder attaches a metrics recorder
func (e *OverdueExecutor) WithRecorder(r OverdueRecorder) *OverdueExecutor {
	e.recorder = r
	return e
}

// Execute sweeps the job's tenant
func (e *OverdueExecutor) Execute(ctx context.Context, job *Job) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "scheduler", "overdue_sweep",
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, job.TenantID.String()))
	defer span.End()

	result, err := e.marker.MarkOverdue(ctx, job.TenantID, job.AsOf)
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	telemetry.SetAttributes(span, "receivables", result.Receivables, "payables", result.Payables)

	if e.recorder != nil {
		e.recorder.RecordOverdueMarked(ctx, job.TenantID.String(), result.Receivables, result.Payables)
	}
	if result.Receivables > 0 || result.Payables > 0 {
		e.logger.Info("accounts marked overdue",
			zap.String("tenant_id", job.TenantID.String()),
			zap.Int64("receivables", result.Receivables),
			zap.Int64("payables", result.Payables),
		)
	}
	return nil
}

var _ JobExecutor = (*OverdueExecutor)(nil)
