package handler

import (
	"context"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/printshop/backend/internal/application/document"
)

// DocumentHandler streams the printable PDFs of quotes and production orders
type DocumentHandler struct {
	BaseHandler
	documentService *document.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *document.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

// QuotePDF godoc
// @ID           getQuotePDF
// @Summary      Download the quote as PDF
// @Tags         documents
// @Produce      application/pdf
// @Param        id       path  string true  "Quote ID" format(uuid)
// @Param        download query bool   false "Send as attachment instead of inline"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Failure      424 {object} ErrorResponse "PDF rendering not configured"
// @Security     BearerAuth
// @Router       /quotes/{id}/pdf [get]
func (h *DocumentHandler) QuotePDF(c *gin.Context) {
	h.serve(c, h.documentService.QuotePDF)
}

// WorkOrderPDF godoc
// @ID           getWorkOrderPDF
// @Summary      Download the work order of a production order as PDF
// @Tags         documents
// @Produce      application/pdf
// @Param        id       path  string true  "Production order ID" format(uuid)
// @Param        download query bool   false "Send as attachment instead of inline"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-orders/{id}/work-order.pdf [get]
func (h *DocumentHandler) WorkOrderPDF(c *gin.Context) {
	h.serve(c, h.documentService.WorkOrderPDF)
}

// DeliveryProtocolPDF godoc
// @ID           getDeliveryProtocolPDF
// @Summary      Download the delivery protocol of a production order as PDF
// @Tags         documents
// @Produce      application/pdf
// @Param        id       path  string true  "Production order ID" format(uuid)
// @Param        download query bool   false "Send as attachment instead of inline"
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /production-orders/{id}/delivery-protocol.pdf [get]
func (h *DocumentHandler) DeliveryProtocolPDF(c *gin.Context) {
	h.serve(c, h.documentService.DeliveryProtocolPDF)
}

type documentFunc func(ctx context.Context, tenantID, id uuid.UUID) (*document.Document, error)

func (h *DocumentHandler) serve(c *gin.Context, generate documentFunc) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	doc, err := generate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	disposition := "inline"
	if c.Query("download") == "true" {
		disposition = "attachment"
	}
	c.Header("Content-Disposition", mime.FormatMediaType(disposition, map[string]string{"filename": doc.Filename}))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}
