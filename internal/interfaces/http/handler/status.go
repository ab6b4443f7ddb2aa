package handler

import (
	"github.com/gin-gonic/gin"
	productionapp "github.com/printshop/backend/internal/application/production"
	quoteapp "github.com/printshop/backend/internal/application/quote"
)

// StatusHandler serves the tenant's quote and production status catalogs
type StatusHandler struct {
	BaseHandler
	quoteStatuses      *quoteapp.StatusService
	productionStatuses *productionapp.StatusService
}

// NewStatusHandler creates a new StatusHandler
func NewStatusHandler(quoteStatuses *quoteapp.StatusService, productionStatuses *productionapp.StatusService) *StatusHandler {
	return &StatusHandler{quoteStatuses: quoteStatuses, productionStatuses: productionStatuses}
}

// ListQuoteStatuses godoc
// @ID           listQuoteStatuses
// @Summary      List quote statuses
// @Tags         statuses
// @Produce      json
// @Success      200 {object} APIResponse[[]quoteapp.StatusResponse]
// @Security     BearerAuth
// @Router       /quote-statuses [get]
func (h *StatusHandler) ListQuoteStatuses(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	statuses, err := h.quoteStatuses.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}

// CreateQuoteStatus godoc
// @ID           createQuoteStatus
// @Summary      Create a quote status
// @Description  role marks the status that approves or cancels a quote
// @Tags         statuses
// @Accept       json
// @Produce      json
// @Param        request body quoteapp.CreateStatusRequest true "Status"
// @Success      201 {object} APIResponse[quoteapp.StatusResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quote-statuses [post]
func (h *StatusHandler) CreateQuoteStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req quoteapp.CreateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	status, err := h.quoteStatuses.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, status)
}

// ListProductionStatuses godoc
// @ID           listProductionStatuses
// @Summary      List production statuses
// @Tags         statuses
// @Produce      json
// @Success      200 {object} APIResponse[[]productionapp.StatusResponse]
// @Security     BearerAuth
// @Router       /production-statuses [get]
func (h *StatusHandler) ListProductionStatuses(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	statuses, err := h.productionStatuses.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, statuses)
}

// CreateProductionStatus godoc
// @ID           createProductionStatus
// @Summary      Create a production status
// @Tags         statuses
// @Accept       json
// @Produce      json
// @Param        request body productionapp.CreateStatusRequest true "Status"
// @Success      201 {object} APIResponse[productionapp.StatusResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-statuses [post]
func (h *StatusHandler) CreateProductionStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req productionapp.CreateStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	status, err := h.productionStatuses.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, status)
}

// SeedDefaults godoc
// @ID           seedDefaultStatuses
// @Summary      Create the default quote and production statuses
// @Description  Existing catalogs are left untouched
// @Tags         statuses
// @Success      204
// @Security     BearerAuth
// @Router       /statuses/defaults [post]
func (h *StatusHandler) SeedDefaults(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	if err := h.quoteStatuses.SeedDefaults(ctx, tenantID); err != nil {
		h.HandleError(c, err)
		return
	}
	if err := h.productionStatuses.SeedDefaults(ctx, tenantID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
