package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/garenk02/callysta-pos-sub000/internal/checkout"
	"github.com/garenk02/callysta-pos-sub000/internal/models"
	"github.com/garenk02/callysta-pos-sub000/internal/service"
	"github.com/garenk02/callysta-pos-sub000/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog   *service.CatalogService
	orders    *service.OrderService
	users     *store.Store
	sessions  *checkout.SessionManager
	matcher   *checkout.Matcher
	storeInfo checkout.StoreInfo
	jwtSecret string
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	orders *service.OrderService,
	users *store.Store,
	sessions *checkout.SessionManager,
	matcher *checkout.Matcher,
	storeInfo checkout.StoreInfo,
	jwtSecret string,
) *Handler {
	return &Handler{
		catalog:   catalog,
		orders:    orders,
		users:     users,
		sessions:  sessions,
		matcher:   matcher,
		storeInfo: storeInfo,
		jwtSecret: jwtSecret,
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
	v1.Use(AuthRequired(h.jwtSecret))
	{
		v1.GET("/products", h.listProducts)
		v1.GET("/products/:id", h.getProduct)

		admin := v1.Group("", AdminOnly())
		{
			admin.POST("/products", h.createProduct)
			admin.PUT("/products/:id", h.updateProduct)
			admin.DELETE("/products/:id", h.deactivateProduct)
			admin.POST("/products/:id/stock", h.adjustStock)
			admin.GET("/products/:id/stock-history", h.stockHistory)

			admin.GET("/users", h.listUsers)
			admin.POST("/users", h.createUser)
			admin.PUT("/users/:id", h.updateUser)
			admin.DELETE("/users/:id", h.deactivateUser)
		}

		v1.GET("/checkout", h.getCart)
		v1.POST("/checkout/scan", h.scan)
		v1.POST("/checkout/items", h.addItem)
		v1.PUT("/checkout/items/:productId", h.setQuantity)
		v1.DELETE("/checkout/items/:productId", h.removeItem)
		v1.DELETE("/checkout", h.clearCart)
		v1.POST("/checkout/submit", h.submit)

		v1.GET("/orders", h.listOrders)
		v1.GET("/orders/:id", h.getOrder)
		v1.GET("/orders/:id/receipt", h.getReceipt)
	}
}

func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().Unix()})
}

func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "time": time.Now().Unix()})
}

// statusFor maps domain errors onto HTTP statuses
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrInsufficientStock),
		errors.Is(err, models.ErrStockExceeded),
		errors.Is(err, models.ErrOutOfStock),
		errors.Is(err, models.ErrSubmitInFlight),
		errors.Is(err, models.ErrDuplicateSubmit):
		return http.StatusConflict
	case errors.Is(err, models.ErrProductInactive),
		errors.Is(err, models.ErrInsufficientPayment),
		errors.Is(err, models.ErrUnsupportedPayment),
		errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrDuplicateLine):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}

// ---- catalog ----

func (h *Handler) listProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	activeOnly := c.DefaultQuery("active", "true") == "true"

	page, err := h.catalog.ListProducts(c.Request.Context(), store.ProductFilter{
		Query:      c.Query("q"),
		Category:   c.Query("category"),
		ActiveOnly: activeOnly,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type productRequest struct {
	SKU               string `json:"sku"`
	Name              string `json:"name" binding:"required"`
	Price             int64  `json:"price" binding:"required,min=0"`
	Category          string `json:"category"`
	StockQuantity     int    `json:"stock_quantity" binding:"min=0"`
	LowStockThreshold int    `json:"low_stock_threshold" binding:"min=0"`
	IsActive          *bool  `json:"is_active"`
	ImageURL          string `json:"image_url"`
}

func (h *Handler) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	product := &models.Product{
		SKU:               req.SKU,
		Name:              req.Name,
		Price:             req.Price,
		Category:          req.Category,
		StockQuantity:     req.StockQuantity,
		LowStockThreshold: req.LowStockThreshold,
		IsActive:          active,
		ImageURL:          req.ImageURL,
	}
	if err := h.catalog.CreateProduct(c.Request.Context(), product); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) updateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	current, err := h.catalog.GetProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	current.SKU = req.SKU
	current.Name = req.Name
	current.Price = req.Price
	current.Category = req.Category
	current.LowStockThreshold = req.LowStockThreshold
	current.ImageURL = req.ImageURL
	if req.IsActive != nil {
		current.IsActive = *req.IsActive
	}

	if err := h.catalog.UpdateProduct(c.Request.Context(), current); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, current)
}

func (h *Handler) deactivateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	if err := h.catalog.DeactivateProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type adjustStockRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required,oneof=restock correction damage"`
}

func (h *Handler) adjustStock(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ident := identityFrom(c)
	product, err := h.catalog.AdjustStock(c.Request.Context(), id, req.Delta, req.Reason, ident.UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) stockHistory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	history, err := h.catalog.StockHistory(c.Request.Context(), id, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": history})
}

// ---- users ----

type userRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Role     string `json:"role" binding:"required,oneof=admin cashier"`
	IsActive *bool  `json:"is_active"`
}

func (h *Handler) listUsers(c *gin.Context) {
	users, err := h.users.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": users})
}

func (h *Handler) createUser(c *gin.Context) {
	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	user := &models.User{Name: req.Name, Email: req.Email, Role: req.Role, IsActive: active}
	if err := h.users.CreateUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *Handler) updateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	var req userRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	user, err := h.users.GetUserByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	user.Name = req.Name
	user.Email = req.Email
	user.Role = req.Role
	if req.IsActive != nil {
		user.IsActive = *req.IsActive
	}

	if err := h.users.UpdateUser(c.Request.Context(), user); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *Handler) deactivateUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
		return
	}

	if err := h.users.DeactivateUser(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ---- checkout ----

func (h *Handler) session(c *gin.Context) *checkout.Session {
	return h.sessions.Get(identityFrom(c).UserID)
}

func cartResponse(items []checkout.CartItem, summary checkout.Summary) gin.H {
	return gin.H{"items": items, "summary": summary}
}

func (h *Handler) getCart(c *gin.Context) {
	items, summary := h.session(c).Snapshot()
	c.JSON(http.StatusOK, cartResponse(items, summary))
}

type scanRequest struct {
	Input string `json:"input" binding:"required"`
}

func (h *Handler) scan(c *gin.Context) {
	var req scanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	catalog, err := h.catalog.ActiveProducts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	result := h.matcher.Match(req.Input, catalog)

	// An exact SKU hit goes straight into the cart, scan-gun style.
	if result.Outcome == checkout.OutcomeScanned {
		session := h.session(c)
		if err := session.WithCart(func(cart *checkout.Cart) error {
			return cart.Add(*result.Product)
		}); err != nil {
			respondError(c, err)
			return
		}
		items, summary := session.Snapshot()
		c.JSON(http.StatusOK, gin.H{"match": result, "cart": cartResponse(items, summary)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"match": result})
}

type addItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
}

func (h *Handler) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	product, err := h.catalog.GetProduct(c.Request.Context(), req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	session := h.session(c)
	if err := session.WithCart(func(cart *checkout.Cart) error {
		return cart.Add(*product)
	}); err != nil {
		respondError(c, err)
		return
	}

	items, summary := session.Snapshot()
	c.JSON(http.StatusOK, cartResponse(items, summary))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) setQuantity(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	var req setQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	session := h.session(c)
	var warning string
	if err := session.WithCart(func(cart *checkout.Cart) error {
		err := cart.SetQuantity(productID, req.Quantity)
		if errors.Is(err, models.ErrStockExceeded) {
			// Quantity was clamped to the available stock; the cart is in a
			// valid state, so report it as a warning instead of failing.
			warning = err.Error()
			return nil
		}
		return err
	}); err != nil {
		respondError(c, err)
		return
	}

	items, summary := session.Snapshot()
	resp := cartResponse(items, summary)
	if warning != "" {
		resp["warning"] = warning
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) removeItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
		return
	}

	session := h.session(c)
	if err := session.WithCart(func(cart *checkout.Cart) error {
		cart.Remove(productID)
		return nil
	}); err != nil {
		respondError(c, err)
		return
	}

	items, summary := session.Snapshot()
	c.JSON(http.StatusOK, cartResponse(items, summary))
}

func (h *Handler) clearCart(c *gin.Context) {
	session := h.session(c)
	if err := session.WithCart(func(cart *checkout.Cart) error {
		cart.Clear()
		return nil
	}); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) submit(c *gin.Context) {
	var payment checkout.PaymentRequest
	if err := c.ShouldBindJSON(&payment); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	ident := identityFrom(c)
	session := h.sessions.Get(ident.UserID)

	var resp *service.CreateOrderResponse
	_, err := session.Submit(c.Request.Context(), payment,
		func(ctx context.Context, items []checkout.CartItem, pay checkout.PaymentRequest, idemKey string) (int64, error) {
			lines := make([]service.OrderItemRequest, 0, len(items))
			for _, item := range items {
				lines = append(lines, service.OrderItemRequest{
					ProductID: item.Product.ID,
					Quantity:  item.Quantity,
				})
			}

			var submitErr error
			resp, submitErr = h.orders.CreateOrder(ctx, &service.CreateOrderRequest{
				CashierID:      ident.UserID,
				CashierName:    ident.Name,
				Items:          lines,
				Payment:        pay,
				IdempotencyKey: idemKey,
			})
			if submitErr != nil {
				return 0, submitErr
			}
			return resp.OrderID, nil
		})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// ---- orders ----

func (h *Handler) listOrders(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	orders, err := h.orders.ListOrders(c.Request.Context(), identityFrom(c).UserID, limit, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": orders})
}

func (h *Handler) getOrder(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	order, items, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

func (h *Handler) getReceipt(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	order, items, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.String(http.StatusOK, checkout.RenderReceipt(h.storeInfo, order, items))
}
