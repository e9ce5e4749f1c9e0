package routes

import (
	"billingapp/internal/adapter/http/handlers"

	"github.com/gin-gonic/gin"
)

const (
	PathClients   = "/clients"
	PathItems     = "/items"
	PathEstimates = "/estimates"
	PathInvoices  = "/invoices"
	PathPayments  = "/payments"
)

func addBillingRoutes(
	rg *gin.RouterGroup,
	clientHandler *handlers.ClientHandler,
	itemHandler *handlers.CatalogItemHandler,
	estimateHandler *handlers.EstimateHandler,
	invoiceHandler *handlers.InvoiceHandler,
	paymentHandler *handlers.InvoicePaymentHandler,
) {
	clients := rg.Group(PathClients)
	{
		clients.POST("", clientHandler.CreateClient)
		clients.GET("", clientHandler.ListClients)
		clients.GET("/:client_id", clientHandler.GetClient)
		clients.PATCH("/:client_id", clientHandler.UpdateClient)
		clients.DELETE("/:client_id", clientHandler.DeleteClient)
	}

	items := rg.Group(PathItems)
	{
		items.POST("", itemHandler.CreateItem)
		items.GET("", itemHandler.ListItems)
		items.GET("/:item_id", itemHandler.GetItem)
		items.PATCH("/:item_id", itemHandler.UpdateItem)
		items.DELETE("/:item_id", itemHandler.DeleteItem)
	}

	estimates := rg.Group(PathEstimates)
	{
		estimates.POST("", estimateHandler.CreateEstimate)
		estimates.GET("", estimateHandler.ListEstimates)
		estimates.GET("/:estimate_id", estimateHandler.GetEstimate)
		estimates.PATCH("/:estimate_id", estimateHandler.UpdateEstimate)
		estimates.PATCH("/:estimate_id/pending", estimateHandler.MarkEstimatePending)
		estimates.PATCH("/:estimate_id/approve", estimateHandler.ApproveEstimate)
		estimates.PATCH("/:estimate_id/decline", estimateHandler.DeclineEstimate)
		estimates.DELETE("/:estimate_id", estimateHandler.DeleteEstimate)
	}

	invoices := rg.Group(PathInvoices)
	{
		invoices.POST("", invoiceHandler.CreateInvoice)
		invoices.POST("/from-estimate", invoiceHandler.CreateInvoiceFromEstimate)
		invoices.GET("", invoiceHandler.ListInvoices)
		invoices.GET("/:invoice_id", invoiceHandler.GetInvoice)
		invoices.PATCH("/:invoice_id", invoiceHandler.UpdateInvoice)
		invoices.PATCH("/:invoice_id/send", invoiceHandler.SendInvoice)
		invoices.PATCH("/:invoice_id/overdue", invoiceHandler.MarkInvoiceOverdue)
		invoices.DELETE("/:invoice_id", invoiceHandler.DeleteInvoice)
	}

	payments := rg.Group(PathPayments)
	{
		payments.POST("/:invoice_id", paymentHandler.CreatePaymentByInvoiceID)
		payments.GET("/:invoice_id", paymentHandler.GetPaymentByInvoiceID)
	}
}
