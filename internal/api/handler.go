package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"inventory-console/internal/builder"
	"inventory-console/internal/catalog"
	"inventory-console/internal/report"
	"inventory-console/internal/service"
	"inventory-console/internal/store"
	"inventory-console/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	store   *store.Store
	loader  *catalog.Loader
	drafts  *service.DraftService
	orders  *service.OrderService
	reports *report.Service
}

// NewHandler creates a new HTTP handler
func NewHandler(
	store *store.Store,
	loader *catalog.Loader,
	drafts *service.DraftService,
	orders *service.OrderService,
	reports *report.Service,
) *Handler {
	return &Handler{
		store:   store,
		loader:  loader,
		drafts:  drafts,
		orders:  orders,
		reports: reports,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/products", h.listProducts)
		v1.POST("/products", h.createProduct)
		v1.GET("/products/:id", h.getProduct)
		v1.PUT("/products/:id", h.updateProduct)
		v1.DELETE("/products/:id", h.deleteProduct)

		v1.GET("/categories", h.listCategories)
		v1.POST("/categories", h.createCategory)
		v1.PUT("/categories/:id", h.updateCategory)
		v1.DELETE("/categories/:id", h.deleteCategory)

		v1.GET("/suppliers", h.listSuppliers)
		v1.POST("/suppliers", h.createSupplier)
		v1.GET("/suppliers/:id", h.getSupplier)
		v1.PUT("/suppliers/:id", h.updateSupplier)
		v1.DELETE("/suppliers/:id", h.deleteSupplier)
		v1.GET("/suppliers/:id/products", h.listSupplierProducts)

		v1.GET("/customers", h.listCustomers)
		v1.POST("/customers", h.createCustomer)
		v1.GET("/customers/:id", h.getCustomer)
		v1.PUT("/customers/:id", h.updateCustomer)
		v1.DELETE("/customers/:id", h.deleteCustomer)

		v1.GET("/users", h.listUsers)
		v1.POST("/users", h.createUser)
		v1.GET("/users/:id", h.getUser)
		v1.PUT("/users/:id", h.updateUser)
		v1.DELETE("/users/:id", h.deleteUser)

		v1.GET("/stock-levels", h.listStockLevels)

		v1.GET("/sales-orders", h.listSalesOrders)
		v1.GET("/purchase-orders", h.listPurchaseOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.PATCH("/orders/:id/status", h.updateOrderStatus)
		v1.DELETE("/orders/:id", h.deleteOrder)

		v1.POST("/order-drafts", h.createDraft)
		v1.GET("/order-drafts/:id", h.getDraft)
		v1.PATCH("/order-drafts/:id", h.updateDraftHeader)
		v1.DELETE("/order-drafts/:id", h.discardDraft)
		v1.POST("/order-drafts/:id/lines", h.addDraftLine)
		v1.PATCH("/order-drafts/:id/lines/:key", h.setDraftLineQuantity)
		v1.DELETE("/order-drafts/:id/lines/:key", h.removeDraftLine)
		v1.POST("/order-drafts/:id/transfer", h.transferDraftProduct)
		v1.POST("/order-drafts/:id/reorder", h.reorderDraftLines)
		v1.POST("/order-drafts/:id/submit", h.submitDraft)

		v1.GET("/reports/stock.xlsx", h.stockReport)
		v1.GET("/reports/orders.xlsx", h.orderRegister)
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

// respondError maps the builder error taxonomy onto HTTP statuses. Anything
// untyped is an internal error.
func respondError(c *gin.Context, err error) {
	var (
		ve *builder.ValidationError
		nf *builder.NotFoundError
		fe *builder.FetchError
		se *builder.SubmissionError
	)

	switch {
	case errors.Is(err, builder.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
	case errors.As(err, &fe):
		c.JSON(http.StatusBadGateway, gin.H{"error": fe.Error()})
	case errors.As(err, &se):
		c.JSON(http.StatusBadGateway, gin.H{"error": se.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
