package router

import (
	"github.com/gin-gonic/gin"
	"github.com/printshop/backend/internal/interfaces/http/handler"
)

// Handlers bundles every HTTP handler served by the API
type Handlers struct {
	System     *handler.SystemHandler
	Customers  *handler.CustomerHandler
	Products   *handler.ProductHandler
	Inventory  *handler.InventoryHandler
	Quotes     *handler.QuoteHandler
	Statuses   *handler.StatusHandler
	Production *handler.ProductionHandler
	Finance    *handler.FinanceHandler
	Documents  *handler.DocumentHandler
}

// RegisterHealth mounts the probes at the engine root, outside the API prefix
// and without authentication.
func RegisterHealth(engine *gin.Engine, system *handler.SystemHandler) {
	engine.GET("/health/live", system.Live)
	engine.GET("/health/ready", system.Ready)
}

// APIGroups returns the versioned API routes. protected runs in front of every
// tenant scoped route; /system/info stays public.
func APIGroups(h Handlers, protected ...gin.HandlerFunc) []RouteRegistrar {
	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo)

	customers := NewDomainGroup("customers", "/customers").Use(protected...).
		POST("", h.Customers.Create).
		GET("", h.Customers.List).
		GET("/:id", h.Customers.GetByID).
		PUT("/:id", h.Customers.Update)

	products := NewDomainGroup("products", "/products").Use(protected...).
		POST("", h.Products.Create).
		GET("", h.Products.List).
		GET("/:id", h.Products.GetByID).
		PATCH("/:id", h.Products.Update).
		DELETE("/:id", h.Products.Delete).
		PUT("/:id/components", h.Products.SetComponents).
		PUT("/:id/image", h.Products.UploadImage).
		DELETE("/:id/image", h.Products.ClearImage).
		GET("/:id/stock", h.Products.GetStock).
		GET("/:id/movements", h.Products.ListMovements)

	inventory := NewDomainGroup("inventory", "/inventory").Use(protected...).
		POST("/movements", h.Inventory.RecordMovement).
		POST("/movements/:id/reversal", h.Inventory.ReverseMovement)

	quotes := NewDomainGroup("quotes", "/quotes").Use(protected...).
		POST("", h.Quotes.Create).
		GET("", h.Quotes.List).
		GET("/:id", h.Quotes.GetByID).
		PATCH("/:id", h.Quotes.UpdateHeader).
		POST("/:id/items", h.Quotes.AddItem).
		PATCH("/:id/items/:itemId", h.Quotes.UpdateItem).
		DELETE("/:id/items/:itemId", h.Quotes.RemoveItem).
		PUT("/:id/items/:itemId/attachment", h.Quotes.UploadItemAttachment).
		DELETE("/:id/items/:itemId/attachment", h.Quotes.ClearItemAttachment).
		GET("/:id/items/:itemId/attachment", h.Quotes.GetItemAttachmentURL).
		GET("/:id/pdf", h.Documents.QuotePDF).
		GET("/:id/production-order", h.Production.GetByQuote)

	statuses := NewDomainGroup("statuses", "").Use(protected...).
		GET("/quote-statuses", h.Statuses.ListQuoteStatuses).
		POST("/quote-statuses", h.Statuses.CreateQuoteStatus).
		GET("/production-statuses", h.Statuses.ListProductionStatuses).
		POST("/production-statuses", h.Statuses.CreateProductionStatus).
		POST("/statuses/defaults", h.Statuses.SeedDefaults)

	production := NewDomainGroup("production", "/production-orders").Use(protected...).
		GET("", h.Production.List).
		GET("/:id", h.Production.GetByID).
		PUT("/:id/status", h.Production.ChangeStatus).
		PUT("/:id/assignee", h.Production.Assign).
		GET("/:id/work-order.pdf", h.Documents.WorkOrderPDF).
		GET("/:id/delivery-protocol.pdf", h.Documents.DeliveryProtocolPDF)

	finance := NewDomainGroup("finance", "/finance").Use(protected...)
	finance.Group("receivables", "/receivables").
		GET("", h.Finance.ListReceivables).
		GET("/:id", h.Finance.GetReceivable).
		POST("/:id/payments", h.Finance.PayReceivable).
		POST("/:id/installments/:installmentId/payment", h.Finance.PayInstallment)
	finance.Group("payables", "/payables").
		POST("", h.Finance.CreatePayable).
		GET("", h.Finance.ListPayables).
		GET("/:id", h.Finance.GetPayable).
		PUT("/:id", h.Finance.UpdatePayable).
		DELETE("/:id", h.Finance.DeletePayable).
		POST("/:id/payments", h.Finance.PayPayable)
	finance.Group("payment-terms", "/payment-terms").
		GET("", h.Finance.ListPaymentTerms).
		POST("", h.Finance.CreatePaymentTerm).
		GET("/:id", h.Finance.GetPaymentTerm).
		PUT("/:id", h.Finance.UpdatePaymentTerm).
		DELETE("/:id", h.Finance.DeletePaymentTerm)

	return []RouteRegistrar{system, customers, products, inventory, quotes, statuses, production, finance}
}
