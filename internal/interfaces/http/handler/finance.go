package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/printshop/backend/internal/application/finance"
)

// FinanceHandler handles receivables, payables, payments and payment terms
type FinanceHandler struct {
	BaseHandler
	receivables  *financeapp.ReceivableService
	payables     *financeapp.PayableService
	payments     *financeapp.PaymentService
	paymentTerms *financeapp.PaymentTermService
}

// FinanceServices groups the services behind FinanceHandler
type FinanceServices struct {
	Receivables  *financeapp.ReceivableService
	Payables     *financeapp.PayableService
	Payments     *financeapp.PaymentService
	PaymentTerms *financeapp.PaymentTermService
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(s FinanceServices) *FinanceHandler {
	return &FinanceHandler{
		receivables:  s.Receivables,
		payables:     s.Payables,
		payments:     s.Payments,
		paymentTerms: s.PaymentTerms,
	}
}

// ListReceivables godoc
// @ID           listReceivables
// @Summary      List accounts receivable
// @Tags         finance
// @Produce      json
// @Param        status      query string false "Status" Enums(pending, partially_paid, paid, overdue)
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        page        query int    false "Page" default(1)
// @Param        page_size   query int    false "Page size" default(20)
// @Param        order_by    query string false "Sort field" Enums(due_date, created_at, total_amount)
// @Param        order_dir   query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} APIResponse[[]financeapp.ReceivableResponse]
// @Security     BearerAuth
// @Router       /finance/receivables [get]
func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.receivables.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// GetReceivable godoc
// @ID           getReceivable
// @Summary      Get a receivable with its installments
// @Tags         finance
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ReceivableResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/receivables/{id} [get]
func (h *FinanceHandler) GetReceivable(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	ar, err := h.receivables.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ar)
}

// PayReceivable godoc
// @ID           payReceivable
// @Summary      Register a payment on a receivable
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Receivable ID" format(uuid)
// @Param        request body financeapp.PaymentRequest true "Payment"
// @Success      200 {object} APIResponse[financeapp.ReceivableResponse]
// @Failure      400 {object} ErrorResponse "Amount not positive or above the open balance"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/receivables/{id}/payments [post]
func (h *FinanceHandler) PayReceivable(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ar, err := h.payments.RegisterReceivablePayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ar)
}

// PayInstallment godoc
// @ID           payInstallment
// @Summary      Settle one installment of a receivable
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id            path string                               true  "Receivable ID" format(uuid)
// @Param        installmentId path string                               true  "Installment ID" format(uuid)
// @Param        request       body financeapp.InstallmentPaymentRequest false "Payment date"
// @Success      200 {object} APIResponse[financeapp.ReceivableResponse]
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse "Installment already paid"
// @Security     BearerAuth
// @Router       /finance/receivables/{id}/installments/{installmentId}/payment [post]
func (h *FinanceHandler) PayInstallment(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	installmentID, ok := h.pathUUID(c, "installmentId")
	if !ok {
		return
	}
	var req financeapp.InstallmentPaymentRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}

	ar, err := h.payments.RegisterInstallmentPayment(c.Request.Context(), tenantID, id, installmentID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ar)
}

// CreatePayable godoc
// @ID           createPayable
// @Summary      Create an account payable
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.PayableRequest true "Payable"
// @Success      201 {object} APIResponse[financeapp.PayableResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payables [post]
func (h *FinanceHandler) CreatePayable(c *gin.Context) {
	tenantID, userID, ok := h.identity(c)
	if !ok {
		return
	}
	var req financeapp.PayableRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.CreatedBy = userID

	ap, err := h.payables.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ap)
}

// ListPayables godoc
// @ID           listPayables
// @Summary      List accounts payable
// @Tags         finance
// @Produce      json
// @Param        status    query string false "Status" Enums(pending, partially_paid, paid, overdue)
// @Param        search    query string false "Supplier or description"
// @Param        page      query int    false "Page" default(1)
// @Param        page_size query int    false "Page size" default(20)
// @Success      200 {object} APIResponse[[]financeapp.PayableResponse]
// @Security     BearerAuth
// @Router       /finance/payables [get]
func (h *FinanceHandler) ListPayables(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter financeapp.AccountListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.payables.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	page, pageSize := pageOrDefault(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// GetPayable godoc
// @ID           getPayable
// @Summary      Get an account payable
// @Tags         finance
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PayableResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payables/{id} [get]
func (h *FinanceHandler) GetPayable(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	ap, err := h.payables.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ap)
}

// UpdatePayable godoc
// @ID           updatePayable
// @Summary      Update an account payable
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Payable ID" format(uuid)
// @Param        request body financeapp.PayableRequest true "Payable"
// @Success      200 {object} APIResponse[financeapp.PayableResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payables/{id} [put]
func (h *FinanceHandler) UpdatePayable(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PayableRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ap, err := h.payables.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ap)
}

// DeletePayable godoc
// @ID           deletePayable
// @Summary      Delete an account payable
// @Tags         finance
// @Param        id path string true "Payable ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payables/{id} [delete]
func (h *FinanceHandler) DeletePayable(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.payables.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// PayPayable godoc
// @ID           payPayable
// @Summary      Register a payment on a payable
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id      path string                    true "Payable ID" format(uuid)
// @Param        request body financeapp.PaymentRequest true "Payment"
// @Success      200 {object} APIResponse[financeapp.PayableResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payables/{id}/payments [post]
func (h *FinanceHandler) PayPayable(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	ap, err := h.payments.RegisterPayablePayment(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, ap)
}

// ListPaymentTerms godoc
// @ID           listPaymentTerms
// @Summary      List payment terms
// @Tags         finance
// @Produce      json
// @Success      200 {object} APIResponse[[]financeapp.PaymentTermResponse]
// @Security     BearerAuth
// @Router       /finance/payment-terms [get]
func (h *FinanceHandler) ListPaymentTerms(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	terms, err := h.paymentTerms.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, terms)
}

// GetPaymentTerm godoc
// @ID           getPaymentTerm
// @Summary      Get a payment term
// @Tags         finance
// @Produce      json
// @Param        id path string true "Payment term ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PaymentTermResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payment-terms/{id} [get]
func (h *FinanceHandler) GetPaymentTerm(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	term, err := h.paymentTerms.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, term)
}

// CreatePaymentTerm godoc
// @ID           createPaymentTerm
// @Summary      Create a payment term
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.PaymentTermRequest true "Payment term"
// @Success      201 {object} APIResponse[financeapp.PaymentTermResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payment-terms [post]
func (h *FinanceHandler) CreatePaymentTerm(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.PaymentTermRequest
	if !h.bindJSON(c, &req) {
		return
	}
	term, err := h.paymentTerms.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, term)
}

// UpdatePaymentTerm godoc
// @ID           updatePaymentTerm
// @Summary      Update a payment term
// @Description  Receivables already generated keep their installments
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id      path string                        true "Payment term ID" format(uuid)
// @Param        request body financeapp.PaymentTermRequest true "Payment term"
// @Success      200 {object} APIResponse[financeapp.PaymentTermResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payment-terms/{id} [put]
func (h *FinanceHandler) UpdatePaymentTerm(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PaymentTermRequest
	if !h.bindJSON(c, &req) {
		return
	}
	term, err := h.paymentTerms.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, term)
}

// DeletePaymentTerm godoc
// @ID           deletePaymentTerm
// @Summary      Delete a payment term
// @Tags         finance
// @Param        id path string true "Payment term ID" format(uuid)
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payment-terms/{id} [delete]
func (h *FinanceHandler) DeletePaymentTerm(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	if err := h.paymentTerms.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
