package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/attachment"
	"github.com/printshop/backend/internal/application/unitofwork"
	"github.com/printshop/backend/internal/domain/partner"
	"github.com/printshop/backend/internal/domain/quote"
	"github.com/printshop/backend/internal/domain/shared"
	"github.com/printshop/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// lockTTL bounds how long a crashed holder can block a quote
const lockTTL = 15 * time.Second

// LockKey returns the distributed lock key serializing writes to a quote
func LockKey(quoteID uuid.UUID) string {
	return "quote:" + quoteID.String()
}

// QuoteService handles quote editing. Every mutation holds the quote lock,
// reloads the quote with a row lock inside one transaction and publishes the
// collected events after commit.
type QuoteService struct {
	scope     unitofwork.TransactionScope
	repos     unitofwork.Repositories
	locker    shared.Locker
	publisher shared.EventPublisher
	storage   attachment.ObjectStorage
	logger    *zap.Logger
}

// QuoteServiceDeps groups the collaborators of QuoteService
type QuoteServiceDeps struct {
	Scope     unitofwork.TransactionScope
	Repos     unitofwork.Repositories
	Locker    shared.Locker
	Publisher shared.EventPublisher
	Storage   attachment.ObjectStorage
	Logger    *zap.Logger
}

// NewQuoteService creates a new QuoteService
func NewQuoteService(deps QuoteServiceDeps) *QuoteService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuoteService{
		scope:     deps.Scope,
		repos:     deps.Repos,
		locker:    deps.Locker,
		publisher: deps.Publisher,
		storage:   deps.Storage,
		logger:    logger,
	}
}

// Create opens a quote for a customer, freezing the customer's contact data
func (s *QuoteService) Create(ctx context.Context, tenantID uuid.UUID, req CreateQuoteRequest) (*QuoteResponse, error) {
	var created *quote.Quote
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		customer, err := repos.Customers().FindByIDForTenant(ctx, tenantID, req.CustomerID)
		if err != nil {
			return err
		}

		var status *quote.Status
		if req.StatusID != nil {
			status, err = repos.QuoteStatuses().FindByIDForTenant(ctx, tenantID, *req.StatusID)
		} else {
			status, err = repos.QuoteStatuses().FindDefault(ctx, tenantID)
		}
		if err != nil {
			return err
		}

		q, err := quote.NewQuote(tenantID, customer.ID, req.UserID, SnapshotOf(customer), status)
		if err != nil {
			return err
		}
		q.Notes = req.Notes
		if err := repos.Quotes().Save(ctx, q); err != nil {
			return err
		}
		created = q
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, created)
	resp := ToQuoteResponse(created)
	return &resp, nil
}

// SnapshotOf freezes the contact data of a customer for a quote
func SnapshotOf(c *partner.Customer) quote.CustomerSnapshot {
	return quote.CustomerSnapshot{
		Name:    c.Name,
		Email:   c.Email,
		Phone:   c.DisplayPhone(),
		Address: c.Address.Formatted(),
	}
}

// GetByID retrieves a quote with its items
func (s *QuoteService) GetByID(ctx context.Context, tenantID, quoteID uuid.UUID) (*QuoteResponse, error) {
	q, err := s.repos.Quotes().FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return nil, err
	}
	resp := ToQuoteResponse(q)
	return &resp, nil
}

// List retrieves a page of quotes
func (s *QuoteService) List(ctx context.Context, tenantID uuid.UUID, filter QuoteListFilter) ([]QuoteResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.CustomerID != "" {
		f.Filters["customer_id"] = filter.CustomerID
	}
	if filter.StatusID != "" {
		f.Filters["status_id"] = filter.StatusID
	}

	quotes, err := s.repos.Quotes().FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repos.Quotes().CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]QuoteResponse, len(quotes))
	for i := range quotes {
		out[i] = ToQuoteResponse(&quotes[i])
	}
	return out, total, nil
}

// AddItem adds a product to the quote, merging with an existing line of the same product
func (s *QuoteService) AddItem(ctx context.Context, tenantID, quoteID uuid.UUID, req AddItemRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "add_item", tenantID, quoteID, func(repos unitofwork.Repositories, q *quote.Quote) error {
		product, err := repos.Products().FindByIDForTenant(ctx, tenantID, req.ProductID)
		if err != nil {
			return err
		}
		_, err = q.AddItem(quote.ProductInfo{
			ID:        product.ID,
			Name:      product.Name,
			CostPrice: product.CostPrice,
			SalePrice: product.SalePrice,
		}, req.Quantity)
		return err
	})
}

// UpdateItem changes quantity, price, discount or margin of a line
func (s *QuoteService) UpdateItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, req UpdateItemRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "update_item", tenantID, quoteID, func(_ unitofwork.Repositories, q *quote.Quote) error {
		_, err := q.UpdateItem(itemID, quote.ItemChanges{
			Quantity:           req.Quantity,
			UnitSalePrice:      req.UnitSalePrice,
			DiscountPercentage: req.DiscountPercentage,
			ProfitMargin:       req.ProfitMargin,
		})
		return err
	})
}

// RemoveItem deletes a line. Its attachment, if any, is removed from storage after commit.
func (s *QuoteService) RemoveItem(ctx context.Context, tenantID, quoteID, itemID uuid.UUID) (*QuoteResponse, error) {
	var orphan string
	resp, err := s.mutate(ctx, "remove_item", tenantID, quoteID, func(_ unitofwork.Repositories, q *quote.Quote) error {
		if item := q.GetItem(itemID); item != nil {
			orphan = item.AttachmentPath
		}
		return q.RemoveItem(itemID)
	})
	if err != nil {
		return nil, err
	}
	s.deleteQuietly(ctx, orphan)
	return resp, nil
}

// UpdateHeader changes header fields and, optionally, the status
func (s *QuoteService) UpdateHeader(ctx context.Context, tenantID, quoteID uuid.UUID, req UpdateHeaderRequest) (*QuoteResponse, error) {
	return s.mutate(ctx, "update_header", tenantID, quoteID, func(repos unitofwork.Repositories, q *quote.Quote) error {
		changes := quote.HeaderChanges{
			PaymentMethodID:     req.PaymentMethodID,
			PaymentTermID:       req.PaymentTermID,
			DeliveryMethodID:    req.DeliveryMethodID,
			NegotiationSourceID: req.NegotiationSourceID,
			Notes:               req.Notes,
			DiscountPercentage:  req.DiscountPercentage,
			CancellationReason:  req.CancellationReason,
			DeliveryDate:        req.DeliveryDate,
		}
		if req.StatusID != nil {
			status, err := repos.QuoteStatuses().FindByIDForTenant(ctx, tenantID, *req.StatusID)
			if err != nil {
				return err
			}
			changes.Status = status
		}
		if req.PaymentTermID != nil && *req.PaymentTermID != uuid.Nil {
			if _, err := repos.PaymentTerms().FindByIDForTenant(ctx, tenantID, *req.PaymentTermID); err != nil {
				return err
			}
		}
		return q.UpdateHeader(changes)
	})
}

// UploadItemAttachment stores artwork for a line and records its path.
// The object is uploaded before the transaction and removed again when the
// quote rejects the change.
func (s *QuoteService) UploadItemAttachment(ctx context.Context, tenantID, quoteID, itemID uuid.UUID, file attachment.File) (*QuoteResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDependencyMissingError("file storage is not configured")
	}
	if err := file.Validate(attachment.ScopeQuoteItem); err != nil {
		return nil, err
	}

	key := attachment.BuildKey(tenantID, attachment.ScopeQuoteItem, itemID, file.Filename, time.Now())
	if err := s.storage.Upload(ctx, key, file.Data, file.ContentType); err != nil {
		return nil, fmt.Errorf("upload quote item attachment: %w", err)
	}

	var previous string
	resp, err := s.mutate(ctx, "upload_item_attachment", tenantID, quoteID, func(_ unitofwork.Repositories, q *quote.Quote) error {
		if item := q.GetItem(itemID); item != nil {
			previous = item.AttachmentPath
		}
		return q.SetItemAttachment(itemID, key)
	})
	if err != nil {
		s.deleteQuietly(ctx, key)
		return nil, err
	}
	s.deleteQuietly(ctx, previous)
	return resp, nil
}

// ClearItemAttachment removes the artwork of a line
func (s *QuoteService) ClearItemAttachment(ctx context.Context, tenantID, quoteID, itemID uuid.UUID) (*QuoteResponse, error) {
	var previous string
	resp, err := s.mutate(ctx, "clear_item_attachment", tenantID, quoteID, func(_ unitofwork.Repositories, q *quote.Quote) error {
		if item := q.GetItem(itemID); item != nil {
			previous = item.AttachmentPath
		}
		return q.SetItemAttachment(itemID, "")
	})
	if err != nil {
		return nil, err
	}
	s.deleteQuietly(ctx, previous)
	return resp, nil
}

// AttachmentURL returns a temporary download link for a line's artwork
func (s *QuoteService) AttachmentURL(ctx context.Context, tenantID, quoteID, itemID uuid.UUID) (string, time.Time, error) {
	if s.storage == nil {
		return "", time.Time{}, shared.NewDependencyMissingError("file storage is not configured")
	}
	q, err := s.repos.Quotes().FindByIDForTenant(ctx, tenantID, quoteID)
	if err != nil {
		return "", time.Time{}, err
	}
	item := q.GetItem(itemID)
	if item == nil || item.AttachmentPath == "" {
		return "", time.Time{}, shared.NewNotFoundError("quote item attachment", itemID)
	}
	return s.storage.GenerateDownloadURL(ctx, item.AttachmentPath, 0)
}

func (s *QuoteService) mutate(
	ctx context.Context,
	method string,
	tenantID, quoteID uuid.UUID,
	fn func(repos unitofwork.Repositories, q *quote.Quote) error,
) (*QuoteResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "quote", method,
		telemetry.WithAttribute(telemetry.SpanAttrTenantID, tenantID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrQuoteID, quoteID.String()))
	defer span.End()

	var saved *quote.Quote
	err := shared.WithLock(ctx, s.locker, LockKey(quoteID), lockTTL, func() error {
		return s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
			q, err := repos.Quotes().FindByIDForUpdate(ctx, tenantID, quoteID)
			if err != nil {
				return err
			}
			// locked quotes are rejected before any catalog lookup
			if err := q.EnsureUnlocked(); err != nil {
				return err
			}
			if err := fn(repos, q); err != nil {
				return err
			}
			if err := repos.Quotes().Save(ctx, q); err != nil {
				return err
			}
			saved = q
			return nil
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.AddEvent(span, "quote_saved",
		"total_amount", saved.TotalAmount.String(),
		"items", saved.ItemCount(),
		"role", string(saved.Role()))
	telemetry.SetOK(span)

	s.publish(ctx, saved)
	resp := ToQuoteResponse(saved)
	return &resp, nil
}

func (s *QuoteService) publish(ctx context.Context, q *quote.Quote) {
	if err := shared.PublishCollected(ctx, s.publisher, q); err != nil {
		s.logger.Error("failed to publish quote events",
			zap.String("quote_id", q.ID.String()),
			zap.Error(err))
	}
}

func (s *QuoteService) deleteQuietly(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete attachment", zap.String("key", key), zap.Error(err))
	}
}
