package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/attachment"
	"github.com/printshop/backend/internal/domain/catalog"
	"github.com/printshop/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProductService handles product-related business operations
type ProductService struct {
	productRepo catalog.ProductRepository
	storage     attachment.ObjectStorage
	logger      *zap.Logger
}

// NewProductService creates a new ProductService. storage may be nil when
// image upload is disabled.
func NewProductService(productRepo catalog.ProductRepository, storage attachment.ObjectStorage, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{productRepo: productRepo, storage: storage, logger: logger}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, tenantID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	product, err := catalog.NewProduct(tenantID, req.Name, catalog.ProductType(req.Type), req.CostPrice, req.SalePrice)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	if req.CreatedBy != nil {
		product.SetCreatedBy(*req.CreatedBy)
	}
	if len(req.Components) > 0 {
		if err := s.checkComponents(ctx, tenantID, req.Components); err != nil {
			return nil, err
		}
		if err := product.SetComponents(toComponents(req.Components)); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// List retrieves a page of products
func (s *ProductService) List(ctx context.Context, tenantID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}.Normalize()
	if filter.Type != "" {
		f.Filters["type"] = filter.Type
	}

	products, err := s.productRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// Update updates a product's catalog fields
func (s *ProductService) Update(ctx context.Context, tenantID, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	name, description := product.Name, product.Description
	cost, sale := product.CostPrice, product.SalePrice
	if req.Name != nil {
		name = *req.Name
	}
	if req.Description != nil {
		description = *req.Description
	}
	if req.CostPrice != nil {
		cost = *req.CostPrice
	}
	if req.SalePrice != nil {
		sale = *req.SalePrice
	}
	if err := product.Update(name, description, cost, sale); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// SetComponents replaces the bill of materials of a service
func (s *ProductService) SetComponents(ctx context.Context, tenantID, productID uuid.UUID, req SetComponentsRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	if err := s.checkComponents(ctx, tenantID, req.Components); err != nil {
		return nil, err
	}
	if err := product.SetComponents(toComponents(req.Components)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	resp := ToProductResponse(product)
	return &resp, nil
}

// UploadImage stores the product image and records its path, replacing any previous image
func (s *ProductService) UploadImage(ctx context.Context, tenantID, productID uuid.UUID, file attachment.File) (*ProductResponse, error) {
	if s.storage == nil {
		return nil, shared.NewDependencyMissingError("file storage is not configured")
	}
	if err := file.Validate(attachment.ScopeProductImage); err != nil {
		return nil, err
	}
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}

	key := attachment.BuildKey(tenantID, attachment.ScopeProductImage, productID, file.Filename, time.Now())
	if err := s.storage.Upload(ctx, key, file.Data, file.ContentType); err != nil {
		return nil, fmt.Errorf("upload product image: %w", err)
	}
	previous := product.ImagePath
	product.SetImagePath(key)
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.deleteQuietly(ctx, previous)

	resp := ToProductResponse(product)
	return &resp, nil
}

// ClearImage removes the product image
func (s *ProductService) ClearImage(ctx context.Context, tenantID, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByIDForTenant(ctx, tenantID, productID)
	if err != nil {
		return nil, err
	}
	previous := product.ImagePath
	product.SetImagePath("")
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	s.deleteQuietly(ctx, previous)

	resp := ToProductResponse(product)
	return &resp, nil
}

// Delete removes a product
func (s *ProductService) Delete(ctx context.Context, tenantID, productID uuid.UUID) error {
	return s.productRepo.DeleteForTenant(ctx, tenantID, productID)
}

func (s *ProductService) checkComponents(ctx context.Context, tenantID uuid.UUID, reqs []ComponentRequest) error {
	if len(reqs) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		ids[i] = r.ComponentProductID
	}
	found, err := s.productRepo.FindByIDs(ctx, tenantID, ids)
	if err != nil {
		return err
	}
	known := make(map[uuid.UUID]catalog.ProductType, len(found))
	for _, p := range found {
		known[p.ID] = p.Type
	}
	for _, id := range ids {
		typ, ok := known[id]
		if !ok {
			return shared.NewNotFoundError("component product", id)
		}
		if typ == catalog.ProductTypeService {
			return shared.NewValidationError("a service cannot be a component")
		}
	}
	return nil
}

func (s *ProductService) deleteQuietly(ctx context.Context, key string) {
	if key == "" || s.storage == nil {
		return
	}
	if err := s.storage.DeleteObject(ctx, key); err != nil {
		s.logger.Warn("failed to delete replaced product image", zap.String("key", key), zap.Error(err))
	}
}
