package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	quoteapp "github.com/printshop/backend/internal/application/quote"
)

// QuoteHandler handles quote editing, line items and artwork
type QuoteHandler struct {
	BaseHandler
	quoteService *quoteapp.QuoteService
}

// NewQuoteHandler creates a new QuoteHandler
func NewQuoteHandler(quoteService *quoteapp.QuoteService) *QuoteHandler {
	return &QuoteHandler{quoteService: quoteService}
}

// Create godoc
// @ID           createQuote
// @Summary      Open a quote for a customer
// @Description  The customer's contact data is frozen into the quote
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        request body quoteapp.CreateQuoteRequest true "Quote"
// @Success      201 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse "Customer not found"
// @Failure      424 {object} ErrorResponse "No default quote status"
// @Security     BearerAuth
// @Router       /quotes [post]
func (h *QuoteHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req quoteapp.CreateQuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.UserID = userID

	q, err := h.quoteService.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// GetByID godoc
// @ID           getQuote
// @Summary      Get a quote with its items
// @Tags         quotes
// @Produce      json
// @Param        id path string true "Quote ID" format(uuid)
// @Success      200 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id} [get]
func (h *QuoteHandler) GetByID(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	q, err := h.quoteService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// List godoc
// @ID           listQuotes
// @Summary      List quotes
// @Tags         quotes
// @Produce      json
// @Param        search      query string false "Customer name or notes"
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        status_id   query string false "Status" format(uuid)
// @Param        page        query int    false "Page" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Param        order_by    query string false "Sort field" Enums(created_at, total_amount, delivery_date)
// @Param        order_dir   query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]quoteapp.QuoteResponse]
// @Security     BearerAuth
// @Router       /quotes [get]
func (h *QuoteHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter quoteapp.QuoteListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	quotes, total, err := h.quoteService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, quotes, total, page, pageSize)
}

// UpdateHeader godoc
// @ID           updateQuote
// @Summary      Update quote header fields or status
// @Description  Moving to the approved status creates the production order; approved
// @Description  and cancelled quotes are locked for editing
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Quote ID" format(uuid)
// @Param        request body quoteapp.UpdateHeaderRequest true "Changes"
// @Success      200 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Quote is locked"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id} [patch]
func (h *QuoteHandler) UpdateHeader(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req quoteapp.UpdateHeaderRequest
	if !h.bindJSON(c, &req) {
		return
	}

	q, err := h.quoteService.UpdateHeader(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// AddItem godoc
// @ID           addQuoteItem
// @Summary      Add a product to a quote
// @Description  Prices are taken from the catalog and the totals recalculated
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string                   true "Quote ID" format(uuid)
// @Param        request body quoteapp.AddItemRequest true "Item"
// @Success      201 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Quote is locked"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/items [post]
func (h *QuoteHandler) AddItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req quoteapp.AddItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	q, err := h.quoteService.AddItem(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, q)
}

// UpdateItem godoc
// @ID           updateQuoteItem
// @Summary      Change quantity, price, discount or margin of a line
// @Description  A unit sale price takes precedence over a profit margin
// @Tags         quotes
// @Accept       json
// @Produce      json
// @Param        id      path string                      true "Quote ID" format(uuid)
// @Param        itemId  path string                      true "Item ID" format(uuid)
// @Param        request body quoteapp.UpdateItemRequest true "Changes"
// @Success      200 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Quote is locked"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/items/{itemId} [patch]
func (h *QuoteHandler) UpdateItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "itemId")
	if !ok {
		return
	}
	var req quoteapp.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	q, err := h.quoteService.UpdateItem(c.Request.Context(), tenantID, id, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// RemoveItem godoc
// @ID           removeQuoteItem
// @Summary      Remove a line from a quote
// @Tags         quotes
// @Produce      json
// @Param        id     path string true "Quote ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      403 {object} ErrorResponse "Quote is locked"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/items/{itemId} [delete]
func (h *QuoteHandler) RemoveItem(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "itemId")
	if !ok {
		return
	}

	q, err := h.quoteService.RemoveItem(c.Request.Context(), tenantID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// UploadItemAttachment godoc
// @ID           uploadQuoteItemAttachment
// @Summary      Upload artwork for a quote line
// @Tags         quotes
// @Accept       multipart/form-data
// @Produce      json
// @Param        id     path     string true "Quote ID" format(uuid)
// @Param        itemId path     string true "Item ID" format(uuid)
// @Param        file   formData file   true "Artwork (image, PDF, PostScript, ZIP)"
// @Success      200 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse "Quote is locked"
// @Failure      413 {object} ErrorResponse
// @Failure      424 {object} ErrorResponse "File storage not configured"
// @Security     BearerAuth
// @Router       /quotes/{id}/items/{itemId}/attachment [put]
func (h *QuoteHandler) UploadItemAttachment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "itemId")
	if !ok {
		return
	}
	file, ok := h.readUpload(c)
	if !ok {
		return
	}

	q, err := h.quoteService.UploadItemAttachment(c.Request.Context(), tenantID, id, itemID, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// ClearItemAttachment godoc
// @ID           clearQuoteItemAttachment
// @Summary      Remove the artwork of a quote line
// @Tags         quotes
// @Produce      json
// @Param        id     path string true "Quote ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[quoteapp.QuoteResponse]
// @Failure      403 {object} ErrorResponse "Quote is locked"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/items/{itemId}/attachment [delete]
func (h *QuoteHandler) ClearItemAttachment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "itemId")
	if !ok {
		return
	}

	q, err := h.quoteService.ClearItemAttachment(c.Request.Context(), tenantID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, q)
}

// GetItemAttachmentURL godoc
// @ID           getQuoteItemAttachmentURL
// @Summary      Get a temporary download link for a line's artwork
// @Tags         quotes
// @Produce      json
// @Param        id     path string true "Quote ID" format(uuid)
// @Param        itemId path string true "Item ID" format(uuid)
// @Success      200 {object} APIResponse[DownloadURLResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /quotes/{id}/items/{itemId}/attachment [get]
func (h *QuoteHandler) GetItemAttachmentURL(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.pathUUID(c, "itemId")
	if !ok {
		return
	}

	url, expiresAt, err := h.quoteService.AttachmentURL(c.Request.Context(), tenantID, id, itemID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, DownloadURLResponse{URL: url, ExpiresAt: expiresAt.UTC().Format(time.RFC3339)})
}
