package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/finance"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PaymentService registers payments against receivables and payables.
// Every payment reloads the account under a row lock so concurrent payments
// on the same account are applied one after another.
type PaymentService struct {
	scope     unitofwork.TransactionScope
	publisher shared.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(scope unitofwork.TransactionScope, publisher shared.EventPublisher, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{scope: scope, publisher: publisher, logger: logger, now: time.Now}
}

// RegisterInstallmentPayment settles one installment of a receivable
func (s *PaymentService) RegisterInstallmentPayment(ctx context.Context, tenantID, receivableID, installmentID uuid.UUID, req InstallmentPaymentRequest) (*ReceivableResponse, error) {
	paidAt := s.paidAt(req.PaidAt)
	var ar *finance.AccountReceivable
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		ar, err = repos.Receivables().FindByIDForUpdate(ctx, tenantID, receivableID)
		if err != nil {
			return err
		}
		if _, err := ar.RegisterInstallmentPayment(installmentID, paidAt); err != nil {
			return err
		}
		return repos.Receivables().Save(ctx, ar)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("installment paid",
		zap.String("receivable_id", receivableID.String()),
		zap.String("installment_id", installmentID.String()),
		zap.String("status", string(ar.Status)))
	s.publish(ctx, ar)
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

// RegisterReceivablePayment records a direct payment on a receivable
func (s *PaymentService) RegisterReceivablePayment(ctx context.Context, tenantID, receivableID uuid.UUID, req PaymentRequest) (*ReceivableResponse, error) {
	paidAt := s.paidAt(req.PaidAt)
	var ar *finance.AccountReceivable
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		ar, err = repos.Receivables().FindByIDForUpdate(ctx, tenantID, receivableID)
		if err != nil {
			return err
		}
		if err := ar.RegisterPayment(req.Amount, paidAt); err != nil {
			return err
		}
		return repos.Receivables().Save(ctx, ar)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ar)
	resp := ToReceivableResponse(ar)
	return &resp, nil
}

// RegisterPayablePayment records a payment on a payable
func (s *PaymentService) RegisterPayablePayment(ctx context.Context, tenantID, payableID uuid.UUID, req PaymentRequest) (*PayableResponse, error) {
	paidAt := s.paidAt(req.PaidAt)
	var ap *finance.AccountPayable
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		ap, err = repos.Payables().FindByIDForUpdate(ctx, tenantID, payableID)
		if err != nil {
			return err
		}
		if err := ap.RegisterPayment(req.Amount, paidAt); err != nil {
			return err
		}
		return repos.Payables().Save(ctx, ap)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, ap)
	resp := ToPayableResponse(ap)
	return &resp, nil
}

func (s *PaymentService) paidAt(requested *time.Time) time.Time {
	if requested != nil && !requested.IsZero() {
		return *requested
	}
	return s.now()
}

func (s *PaymentService) publish(ctx context.Context, aggregates ...shared.EventCollector) {
	if err := shared.PublishCollected(ctx, s.publisher, aggregates...); err != nil {
		s.logger.Error("failed to publish payment events", zap.Error(err))
	}
}
