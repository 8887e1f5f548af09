package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"godha/internal/config"
	"godha/internal/ratelimit"
	"godha/internal/repository"
	"godha/internal/service"
	"godha/internal/storage"
	"godha/internal/validation"
)

type Server struct {
	engine   *gin.Engine
	cfg      config.Config
	limiter  *ratelimit.Limiter
	products *service.ProductService
	orders   *service.OrderService
	uploads  storage.ObjectStore
}

func NewServer(cfg config.Config, limiter *ratelimit.Limiter, products *service.ProductService, orders *service.OrderService, uploads storage.ObjectStore) *Server {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	s := &Server{engine: r, cfg: cfg, limiter: limiter, products: products, orders: orders, uploads: uploads}
	s.registerRoutes()
	return s
}

func (s *Server) Engine() *gin.Engine { return s.engine }

func (s *Server) limit(budget int) gin.HandlerFunc {
	return ratelimit.Middleware(s.limiter, budget, s.cfg.Window())
}

func (s *Server) registerRoutes() {
	// Swagger UI
	s.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	admin := AdminAuth(s.cfg.JWTSecret)
	b := s.cfg.Budgets

	v1 := s.engine.Group("/api/v1")
	{
		products := v1.Group("/products")
		products.GET("", s.limit(b.ProductList), s.listProducts)
		products.GET(":id", s.limit(b.ProductList), s.getProduct)
		products.POST("", s.limit(b.ProductWrite), admin, s.createProduct)
		products.PUT(":id", s.limit(b.ProductWrite), admin, s.updateProduct)
		products.DELETE(":id", s.limit(b.ProductWrite), admin, s.deleteProduct)

		orders := v1.Group("/orders")
		orders.GET("", s.limit(b.OrderList), admin, s.listOrders)
		orders.GET(":id", s.limit(b.OrderList), s.getOrder)
		orders.POST("", s.limit(b.OrderCreate), s.createOrder)
		orders.PATCH(":id", s.limit(b.ProductWrite), admin, s.updateOrderStatus)

		v1.POST("/upload", s.limit(b.Upload), admin, s.upload)
	}
}

// Product handlers

// @Summary List products
// @Tags products
// @Produce json
// @Param category query string false "Category slug"
// @Param subCategory query string false "Subcategory slug"
// @Param search query string false "Name/description contains"
// @Param limit query int false "Max results"
// @Success 200 {object} map[string]any
// @Failure 429 {object} map[string]any
// @Router /products [get]
func (s *Server) listProducts(c *gin.Context) {
	var f repository.ProductFilter
	f.Category = c.Query("category")
	f.SubCategory = c.Query("subCategory")
	f.Search = c.Query("search")
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			f.Limit = n
		}
	}
	list, err := s.products.List(c, f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch products"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": list})
}

// @Summary Get product by id
// @Tags products
// @Produce json
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /products/{id} [get]
func (s *Server) getProduct(c *gin.Context) {
	p, err := s.products.GetByID(c, c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p})
}

// @Summary Create product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body validation.ProductInput true "Product"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]any
// @Router /products [post]
func (s *Server) createProduct(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	in, err := validation.Product(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := s.products.Create(c, in)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "product created", "productId": p.ID})
}

// @Summary Update product
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Param input body validation.ProductPatch true "Fields to change"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [put]
func (s *Server) updateProduct(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	patch, err := validation.ProductUpdate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := s.products.Update(c, c.Param("id"), patch); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product updated"})
}

// @Summary Delete product
// @Tags products
// @Produce json
// @Security BearerAuth
// @Param id path string true "Product ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /products/{id} [delete]
func (s *Server) deleteProduct(c *gin.Context) {
	if err := s.products.Delete(c, c.Param("id")); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
}

// Order handlers

// @Summary List orders
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param userId query string false "Filter by user"
// @Success 200 {object} map[string]any
// @Router /orders [get]
func (s *Server) listOrders(c *gin.Context) {
	list, err := s.orders.List(c, repository.OrderFilter{UserID: c.Query("userId")})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} map[string]any
// @Failure 404 {object} map[string]string
// @Router /orders/{id} [get]
func (s *Server) getOrder(c *gin.Context) {
	o, err := s.orders.GetByID(c, c.Param("id"))
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": "order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": o})
}

// @Summary Create order
// @Tags orders
// @Accept json
// @Produce json
// @Param input body validation.OrderInput true "Order"
// @Success 201 {object} map[string]any
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]any
// @Router /orders [post]
func (s *Server) createOrder(c *gin.Context) {
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	in, err := validation.Order(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	o, err := s.orders.Create(c, in)
	if err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "order created", "orderId": o.ID})
}

type updateOrderReq struct {
	OrderStatus   string `json:"orderStatus"`
	PaymentStatus string `json:"paymentStatus"`
}

// @Summary Update order status
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Param input body updateOrderReq true "Status changes"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /orders/{id} [patch]
func (s *Server) updateOrderStatus(c *gin.Context) {
	var req updateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON object"})
		return
	}
	if _, err := s.orders.UpdateStatus(c, c.Param("id"), req.OrderStatus, req.PaymentStatus); err != nil {
		c.JSON(mapErrorToStatus(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "order updated"})
}

// Upload handler

// @Summary Upload a product image
// @Tags upload
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 429 {object} map[string]any
// @Router /upload [post]
func (s *Server) upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		file = nil
	}
	candidate, err := validation.Upload(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
		return
	}
	defer src.Close()

	url, err := s.uploads.Put(c, candidate.Filename, candidate.ContentType, src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store upload"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrNotEnoughStock):
		return http.StatusBadRequest
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
