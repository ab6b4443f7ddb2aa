package handler

import (
	"github.com/gin-gonic/gin"
	productionapp "github.com/printshop/backend/internal/application/production"
)

// ProductionHandler handles production order endpoints
type ProductionHandler struct {
	BaseHandler
	orderService *productionapp.OrderService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(orderService *productionapp.OrderService) *ProductionHandler {
	return &ProductionHandler{orderService: orderService}
}

// List godoc
// @ID           listProductionOrders
// @Summary      List production orders
// @Tags         production
// @Produce      json
// @Param        status_id        query string false "Status" format(uuid)
// @Param        assigned_user_id query string false "Assignee" format(uuid)
// @Param        customer_id      query string false "Customer" format(uuid)
// @Param        page             query int    false "Page" default(1)
// @Param        page_size        query int    false "Page size" default(20)
// @Param        order_by         query string false "Sort field" Enums(internal_id, created_at)
// @Param        order_dir        query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]productionapp.OrderResponse]
// @Security     BearerAuth
// @Router       /production-orders [get]
func (h *ProductionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter productionapp.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// GetByID godoc
// @ID           getProductionOrder
// @Summary      Get a production order
// @Tags         production
// @Produce      json
// @Param        id path string true "Production order ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-orders/{id} [get]
func (h *ProductionHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// GetByQuote godoc
// @ID           getProductionOrderByQuote
// @Summary      Get the production order created from a quote
// @Tags         production
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} APIResponse[productionapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/production-order [get]
func (h *ProductionHandler) GetByQuote(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	quoteID, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByQuoteID(c.Request.Context(), tenantID, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ChangeStatus godoc
// @ID           changeProductionOrderStatus
// @Summary      Move a production order to another status
// @Description  Entering production deducts service materials; completing generates the receivable
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id      path string                            true "Production order ID" format(uuid)
// @Param        request body productionapp.ChangeStatusRequest true "Status"
// @Success      200 {object} APIResponse[productionapp.OrderResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Transition not allowed"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-orders/{id}/status [put]
func (h *ProductionHandler) ChangeStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req productionapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// Assign godoc
// @ID           assignProductionOrder
// @Summary      Assign a production order to a user
// @Description  A nil user id unassigns the order
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Production order ID" format(uuid)
// @Param        request body productionapp.AssignRequest true "Assignee"
// @Success      200 {object} APIResponse[productionapp.OrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-orders/{id}/assignee [put]
func (h *ProductionHandler) Assign(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req productionapp.AssignRequest
	if !h.bindJSON(c, &req) {
		return
	}

	order, err := h.orderService.Assign(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
