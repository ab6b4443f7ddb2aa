package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/printshop/backend/internal/application/inventory"
)

// InventoryHandler handles manual stock movements
type InventoryHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(stockService *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stockService: stockService}
}

// RecordMovement godoc
// @ID           recordStockMovement
// @Summary      Record a manual stock movement
// @Description  The sign is derived from the type; the product's stock is projected from the ledger
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.RecordMovementRequest true "Movement"
// @Success      201 {object} APIResponse[inventoryapp.MovementResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/movements [post]
func (h *InventoryHandler) RecordMovement(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req inventoryapp.RecordMovementRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	movement, err := h.stockService.RecordMovement(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}

// ReverseMovement godoc
// @ID           reverseStockMovement
// @Summary      Reverse a stock movement
// @Description  Appends an opposite entry; a movement can be reversed once
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Movement ID" format(uuid)
// @Success      201 {object} APIResponse[inventoryapp.MovementResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Already reversed"
// @Security     BearerAuth
// @Router       /inventory/movements/{id}/reversal [post]
func (h *InventoryHandler) ReverseMovement(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	movement, err := h.stockService.ReverseMovement(c.Request.Context(), tenantID, id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, movement)
}
