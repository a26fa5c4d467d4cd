package router

import (
	"time"

	"github.com/fadesignlk/stock-master-api/internal/config"
	"github.com/fadesignlk/stock-master-api/internal/handler"
	"github.com/fadesignlk/stock-master-api/internal/infra"
	"github.com/fadesignlk/stock-master-api/internal/middleware"
	"github.com/fadesignlk/stock-master-api/internal/model"
	"github.com/fadesignlk/stock-master-api/internal/repository"
	"github.com/fadesignlk/stock-master-api/internal/service"
	"github.com/fadesignlk/stock-master-api/internal/worker"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, mailer *infra.Mailer) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	supplierRepo := repository.NewSupplierRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	stockRepo := repository.NewStockRepository(db)
	orderRepo := repository.NewPurchaseOrderRepository(db)
	saleRepo := repository.NewSaleRepository(db)

	// Worker dispatcher — injected into services that enqueue async jobs
	dispatcher := worker.NewDispatcher(rdb)
	priceCache := infra.NewRedisCache(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg, dispatcher)
	userSvc := service.NewUserService(userRepo)
	brandSvc := service.NewBrandService(brandRepo)
	categorySvc := service.NewCategoryService(categoryRepo)
	locationSvc := service.NewLocationService(locationRepo)
	supplierSvc := service.NewSupplierService(supplierRepo)
	customerSvc := service.NewCustomerService(customerRepo)
	productSvc := service.NewProductService(productRepo, brandRepo, categoryRepo, priceCache)
	stockSvc := service.NewStockService(stockRepo, productRepo, supplierRepo, locationRepo, cfg.LowStockThreshold)
	orderSvc := service.NewPurchaseOrderService(orderRepo, productRepo, supplierRepo, stockSvc)
	saleSvc := service.NewSaleService(saleRepo, customerRepo, productRepo, stockRepo, stockSvc, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(userSvc)
	brandsH := handler.NewBrandsHandler(brandSvc)
	categoriesH := handler.NewCategoriesHandler(categorySvc)
	locationsH := handler.NewLocationsHandler(locationSvc)
	suppliersH := handler.NewSuppliersHandler(supplierSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	productsH := handler.NewProductsHandler(productSvc)
	stocksH := handler.NewStocksHandler(stockSvc)
	ordersH := handler.NewPurchaseOrdersHandler(orderSvc)
	salesH := handler.NewSalesHandler(saleSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb, mailer))

	// Price check — no auth required, hit by in-store price scanners.
	// Registered on the engine so the group's JWT middleware never applies.
	r.GET("/api/product/price/:sku", productsH.Price)

	api := r.Group("/api")

	// Auth (public)
	user := api.Group("/user")
	{
		user.POST("/register", authH.Register)
		user.POST("/login", middleware.LoginRateLimiter(), authH.Login)
		user.POST("/refresh", authH.Refresh)
		user.POST("/forgot-password", authH.ForgotPassword)
		user.POST("/reset-password", authH.ResetPassword)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(authSvc)
	api.Use(jwtMW)

	anyRole := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleStaff)
	managerUp := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	// Any authenticated caller can read their own account
	api.GET("/user/me", anyRole, usersH.Me)

	// User management — admin only
	users := api.Group("/user", adminOnly)
	{
		users.POST("/create-user", usersH.Create)
		users.GET("/get-user/:id", usersH.Get)
		users.GET("/get-users", usersH.List)
		users.PUT("/update-user/:id", usersH.Update)
		users.DELETE("/delete-user/:id", usersH.Delete)
	}

	// Catalog reference data — managers maintain, staff read
	brand := api.Group("/brand")
	{
		brand.POST("/create-brand", managerUp, brandsH.Create)
		brand.GET("/get-brand/:id", anyRole, brandsH.Get)
		brand.GET("/get-brands", anyRole, brandsH.List)
		brand.PUT("/update-brand/:id", managerUp, brandsH.Update)
		brand.DELETE("/delete-brand/:id", adminOnly, brandsH.Delete)
	}

	category := api.Group("/category")
	{
		category.POST("/create-category", managerUp, categoriesH.Create)
		category.GET("/get-category/:id", anyRole, categoriesH.Get)
		category.GET("/get-categories", anyRole, categoriesH.List)
		category.PUT("/update-category/:id", managerUp, categoriesH.Update)
		category.DELETE("/delete-category/:id", adminOnly, categoriesH.Delete)
	}

	location := api.Group("/location")
	{
		location.POST("/create-location", managerUp, locationsH.Create)
		location.GET("/get-location/:id", anyRole, locationsH.Get)
		location.GET("/get-locations", anyRole, locationsH.List)
		location.PUT("/update-location/:id", managerUp, locationsH.Update)
		location.DELETE("/delete-location/:id", adminOnly, locationsH.Delete)
	}

	supplier := api.Group("/supplier")
	{
		supplier.POST("/create-supplier", managerUp, suppliersH.Create)
		supplier.GET("/get-supplier/:id", anyRole, suppliersH.Get)
		supplier.GET("/get-suppliers", anyRole, suppliersH.List)
		supplier.PUT("/update-supplier/:id", managerUp, suppliersH.Update)
		supplier.DELETE("/delete-supplier/:id", adminOnly, suppliersH.Delete)
	}

	customer := api.Group("/customer")
	{
		customer.POST("/create-customer", anyRole, customersH.Create)
		customer.GET("/get-customer/:id", anyRole, customersH.Get)
		customer.GET("/get-customers", anyRole, customersH.List)
		customer.PUT("/update-customer/:id", managerUp, customersH.Update)
		customer.DELETE("/delete-customer/:id", adminOnly, customersH.Delete)
	}

	product := api.Group("/product")
	{
		product.POST("/create-product", managerUp, productsH.Create)
		product.GET("/get-product/:id", anyRole, productsH.Get)
		product.GET("/get-products", anyRole, productsH.List)
		product.PUT("/update-product/:id", managerUp, productsH.Update)
		product.DELETE("/delete-product/:id", adminOnly, productsH.Delete)
	}

	stock := api.Group("/stock")
	{
		stock.POST("/create-stock", managerUp, stocksH.Create)
		stock.GET("/get-stock/:id", anyRole, stocksH.Get)
		stock.GET("/get-stocks", anyRole, stocksH.List)
		stock.PUT("/update-stock/:id", managerUp, stocksH.Update)
		stock.DELETE("/delete-stock/:id", adminOnly, stocksH.Delete)
		stock.GET("/export", managerUp, stocksH.Export)
	}

	order := api.Group("/purchaseOrder", anyRole)
	{
		order.POST("/create-purchase-order", ordersH.Create)
		order.GET("/get-purchase-order/:purchaseOrderId", ordersH.Get)
		order.GET("/get-purchase-orders", ordersH.List)
		order.PUT("/update-purchase-order/:purchaseOrderId", managerUp, ordersH.Update)
		order.DELETE("/delete-purchase-order/:purchaseOrderId", managerUp, ordersH.Delete)
		order.POST("/:purchaseOrderId/add-items", ordersH.AddItems)
		order.DELETE("/:purchaseOrderId/remove-item/:purchaseItemId", ordersH.RemoveItem)
		order.PUT("/update-status/:purchaseOrderId", ordersH.UpdateStatus)
		order.POST("/record-payment/:purchaseOrderId", ordersH.RecordPayment)
		order.PUT("/complete-purchase-order/:purchaseOrderId", ordersH.Complete)
		order.GET("/get-purchase-order-products/:purchaseOrderId", ordersH.GetProducts)
		order.GET("/get-purchase-order-supplier/:purchaseOrderId", ordersH.GetSupplier)
	}

	sale := api.Group("/sale", anyRole)
	{
		sale.POST("/create-sale", salesH.Create)
		sale.GET("/get-sale/:saleId", salesH.Get)
		sale.GET("/get-sales", salesH.List)
		sale.PUT("/update-sale/:saleId", salesH.Update)
		sale.DELETE("/delete-sale/:saleId", managerUp, salesH.Delete)
		sale.POST("/:saleId/add-items", salesH.AddItems)
		sale.DELETE("/:saleId/remove-item/:saleItemId", salesH.RemoveItem)
		sale.PUT("/update-sale-status/:saleId", salesH.UpdateStatus)
		sale.POST("/record-payment/:saleId", salesH.RecordPayment)
		sale.PUT("/complete-sale/:saleId", salesH.Complete)
		sale.GET("/get-sale-products/:saleId", salesH.GetProducts)
		sale.GET("/get-sale-customer/:saleId", salesH.GetCustomer)
	}

	// Swagger UI — only enabled outside production
	if cfg.Env != "production" {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
