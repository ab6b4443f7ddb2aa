package document

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/domain/production"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const contentTypePDF = "application/pdf"

// DocumentService loads the aggregates behind each printable document
type DocumentService struct {
	quotes    quote.QuoteRepository
	orders    production.OrderRepository
	generator PDFGenerator
	logger    *zap.Logger
	now       func() time.Time
}

// NewDocumentService creates a new DocumentService. A nil generator makes
// every operation fail with a dependency error.
func NewDocumentService(quotes quote.QuoteRepository, orders production.OrderRepository, generator PDFGenerator, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DocumentService{quotes: quotes, orders: orders, generator: generator, logger: logger, now: time.Now}
}

// QuotePDF renders the customer-facing quote
func (s *DocumentService) QuotePDF(ctx context.Context, tenantID, quoteID uuid.UUID) (*Document, error) {
	if s.generator == nil {
		return nil, shared.NewDependencyMissingError("PDF rendering is not configured")
	}
	q, err := s.quotes.FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	view := NewQuoteView(q, s.now())
	title := "Orçamento " + view.ShortID
	return s.generate(ctx, KindQuote, title, fmt.Sprintf("orcamento-%s.pdf", view.ShortID), view)
}

// WorkOrderPDF renders the shop floor work order of a production order
func (s *DocumentService) WorkOrderPDF(ctx context.Context, tenantID, orderID uuid.UUID) (*Document, error) {
	view, err := s.orderView(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Ordem de Produção #%d", view.InternalID)
	return s.generate(ctx, KindWorkOrder, title, fmt.Sprintf("op-%d.pdf", view.InternalID), view)
}

// DeliveryProtocolPDF renders the delivery receipt signed by the customer
func (s *DocumentService) DeliveryProtocolPDF(ctx context.Context, tenantID, orderID uuid.UUID) (*Document, error) {
	view, err := s.orderView(ctx, tenantID, orderID)
	if err != nil {
		return nil, err
	}
	title := fmt.Sprintf("Protocolo de Entrega #%d", view.InternalID)
	return s.generate(ctx, KindDeliveryProtocol, title, fmt.Sprintf("protocolo-entrega-%d.pdf", view.InternalID), view)
}

func (s *DocumentService) orderView(ctx context.Context, tenantID, orderID uuid.UUID) (OrderView, error) {
	if s.generator == nil {
		return OrderView{}, shared.NewDependencyMissingError("PDF rendering is not configured")
	}
	o, err := s.orders.FindByIDForTenant(ctx, tenantID, orderID)
	if err != nil {
		return OrderView{}, err
	}
	q, err := s.quotes.FindByIDForTenant(ctx, tenantID, o.QuoteID)
	if err != nil {
		return OrderView{}, err
	}
	return NewOrderView(o, q, s.now()), nil
}

func (s *DocumentService) generate(ctx context.Context, kind Kind, title, filename string, view any) (*Document, error) {
	data, err := s.generator.Generate(ctx, kind, title, view)
	if err != nil {
		s.logger.Error("failed to generate document",
			zap.String("kind", string(kind)),
			zap.String("filename", filename),
			zap.Error(err))
		return nil, fmt.Errorf("failed to generate %s: %w", kind, err)
	}
	return &Document{Filename: filename, ContentType: contentTypePDF, Data: data}, nil
}
