package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/medimart/medi-server/app"
	mw "github.com/medimart/medi-server/middleware"
	"github.com/medimart/medi-server/models"
	"github.com/medimart/medi-server/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(mw.Tracing(deps.Config.Observability.ServiceName))

	// CORS middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   deps.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	authMW := deps.AuthMiddleware
	token := mw.Guard(authMW.VerifyToken())
	admin := mw.Guard(authMW.VerifyToken(), authMW.RequireRole(models.RoleAdmin))
	seller := mw.Guard(authMW.VerifyToken(), authMW.RequireRole(models.RoleSeller))
	self := mw.Guard(authMW.VerifyToken(), authMW.RequireIdentityMatch("email"))

	// Health check endpoints
	r.Get("/", deps.HealthHandler.HandleRoot)
	r.Get("/healthz", deps.HealthHandler.HandleHealth)
	r.Get("/readyz", deps.HealthHandler.HandleReadiness)

	// Token issuance
	r.Post("/jwt", deps.AuthHandler.HandleIssueToken)

	// Users
	users := deps.UserHandler
	r.With(admin).Get("/users", users.HandleListUsers)
	r.Post("/users", users.HandleRegister)
	r.With(self).Get("/users/{email}", users.HandleGetUser)
	r.With(self).Get("/users/admin/{email}", users.HandleCheckRole(models.RoleAdmin))
	r.With(self).Get("/users/seller/{email}", users.HandleCheckRole(models.RoleSeller))
	r.With(admin).Patch("/users/admin/{id}", users.HandleSetRole(models.RoleAdmin))
	r.With(admin).Patch("/users/seller/{id}", users.HandleSetRole(models.RoleSeller))
	r.With(admin).Patch("/users/user/{id}", users.HandleSetRole(models.RoleUser))

	// Catalog
	catalog := deps.CatalogHandler
	r.Route("/categories", func(r chi.Router) {
		r.Get("/", catalog.HandleListCategories)
		r.Get("/{id}", catalog.HandleGetCategory)
		r.With(admin).Post("/", catalog.HandleCreateCategory)
		r.With(admin).Put("/{id}", catalog.HandleUpdateCategory)
		r.With(admin).Delete("/{id}", catalog.HandleDeleteCategory)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", catalog.HandleListProducts)
		r.Get("/{id}", catalog.HandleGetProduct)
		r.Post("/", catalog.HandleCreateProduct)
	})

	// Cart
	carts := deps.CartHandler
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", carts.HandleListCart)
		r.Post("/", carts.HandleAddToCart)
		r.Delete("/", carts.HandleClearCart)
		r.Delete("/{id}", carts.HandleRemoveFromCart)
	})

	// Payments
	pay := deps.PaymentHandler
	r.Post("/create-payment-intent", pay.HandleCreateIntent)
	r.Post("/confirm-payment", pay.HandleConfirmPayment)
	r.With(admin).Get("/payments", pay.HandleListPayments)
	r.With(self).Get("/payments/{email}", pay.HandleListUserPayments)
	r.Patch("/payments/{id}", pay.HandleUpdateStatus)

	// Reports
	r.With(admin).Get("/sales-report", deps.ReportHandler.HandleSalesReport)
	r.With(self).Get("/seller/sales-report/{email}", deps.ReportHandler.HandleSellerSalesReport)

	// Advertisements
	ads := deps.AdvertisementHandler
	r.Get("/advertisements/slides", ads.HandleListSlides)
	r.With(admin).Get("/admin/advertisements", ads.HandleListAll)
	r.With(admin).Patch("/admin/advertisements/{id}", ads.HandleSetSlide)
	r.With(self).Get("/seller/advertisements/{email}", ads.HandleListBySeller)
	r.With(seller).Post("/seller/advertisements", ads.HandleCreate)
	r.With(seller).Put("/seller/advertisements/{id}", ads.HandleUpdate)

	// Uploads
	r.With(token).Post("/uploads/presign", deps.UploadHandler.HandlePresign)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "endpoint not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})

	return r
}
