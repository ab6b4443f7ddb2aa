package telemetry

import (
	"context"
	"errors"

	"github.com/printshop/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives a nil meter.
var ErrMeterNil = errors.New("telemetry: meter cannot be nil")

// WorkflowMetrics counts the domain events that drive the quote to cash
// workflow and the accounts moved to overdue by the daily sweep. A gauge keeps
// the result of the latest sweep per tenant.
//
// It subscribes to the event bus as a wildcard handler and never fails, so
// registering it cannot interrupt the handlers that follow it.
type WorkflowMetrics struct {
	domainEvents  *Counter
	overdueMarked *Counter
	lastSweep     *Gauge
}

// NewWorkflowMetrics creates the workflow counters on meter.
func NewWorkflowMetrics(meter metric.Meter) (*WorkflowMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	events, err := NewCounter(meter, "printshop_domain_events_total", "Domain events published", "{event}")
	if err != nil {
		return nil, err
	}
	overdue, err := NewCounter(meter, "printshop_overdue_accounts_marked_total", "Accounts moved to overdue", "{account}")
	if err != nil {
		return nil, err
	}
	lastSweep, err := NewGauge(meter, "printshop_overdue_last_sweep_accounts", "Accounts marked overdue by the latest sweep", "{account}")
	if err != nil {
		return nil, err
	}
	return &WorkflowMetrics{domainEvents: events, overdueMarked: overdue, lastSweep: lastSweep}, nil
}

// Handle counts event by type and tenant.
func (m *WorkflowMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	m.domainEvents.Inc(ctx,
		AttrEventType.String(event.EventType()),
		AttrTenantID.String(event.TenantID().String()),
	)
	return nil
}

// EventTypes is empty: every event is counted.
func (m *WorkflowMetrics) EventTypes() []string {
	return nil
}

// HandlerName implements shared.NamedEventHandler.
func (m *WorkflowMetrics) HandlerName() string {
	return "WorkflowMetrics"
}

// RecordOverdueMarked adds the result of one overdue sweep.
func (m *WorkflowMetrics) RecordOverdueMarked(ctx context.Context, tenantID string, receivables, payables int64) {
	m.lastSweep.Record(ctx, receivables, AttrAccountKind.String("receivable"), AttrTenantID.String(tenantID))
	m.lastSweep.Record(ctx, payables, AttrAccountKind.String("payable"), AttrTenantID.String(tenantID))
	if receivables > 0 {
		m.overdueMarked.Add(ctx, receivables, AttrAccountKind.String("receivable"), AttrTenantID.String(tenantID))
	}
	if payables > 0 {
		m.overdueMarked.Add(ctx, payables, AttrAccountKind.String("payable"), AttrTenantID.String(tenantID))
	}
}

var _ shared.NamedEventHandler = (*WorkflowMetrics)(nil)
