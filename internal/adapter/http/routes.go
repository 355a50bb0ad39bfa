package http

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	mw "loanhub-backend/internal/adapter/middleware"
	"loanhub-backend/internal/usecase/auth"
)

type Routers struct {
	Health    *Handler
	Auth      *AuthHandler
	Loans     *LoanHandler
	Payments  *PaymentHandler
	Category  *CategoryHandler
	Dashboard *DashboardHandler
}

// Register wires every route. Mutating authenticated routes pass through the
// CSRF guard; the money-moving route additionally gets request-id replay.
func Register(e *echo.Echo, r Routers, authUC *auth.Usecase, rdb *redis.Client, sessionCookie, csrfCookie string, idempTTL time.Duration) {
	e.GET("/health", r.Health.Health)

	api := e.Group("/api")
	csrf := mw.CSRFGuard(authUC, csrfCookie)
	session := mw.SessionRequired(authUC, sessionCookie)

	// session lifecycle
	api.POST("/signup/", r.Auth.Signup, csrf)
	api.POST("/login/", r.Auth.Login, csrf)
	api.GET("/csrf/", r.Auth.CSRF)

	authed := api.Group("", session)
	authed.POST("/logout/", r.Auth.Logout, csrf)
	authed.GET("/user-role/", r.Auth.UserRole)

	// user loan flows
	authed.POST("/apply-loan/", r.Loans.Apply, csrf)
	authed.GET("/loan-history/", r.Loans.History)
	authed.GET("/transaction-history/", r.Payments.History)
	authed.GET("/user-dashboard/", r.Dashboard.User)
	authed.POST("/pay-loan/:loan_id/", r.Payments.Record, csrf, mw.IdempotencyMiddleware(rdb, idempTTL))

	// reference data (read side is open to any authenticated user)
	authed.GET("/loan-categories/", r.Category.List)

	// admin
	admin := authed.Group("", mw.AdminRequired)
	admin.GET("/admin-dashboard/", r.Dashboard.Admin)
	admin.GET("/loans/", r.Loans.ListAll)
	admin.GET("/pending-loans/", r.Loans.ListPending)
	admin.GET("/approved-loans/", r.Loans.ListApproved)
	admin.GET("/rejected-loans/", r.Loans.ListRejected)
	admin.POST("/process-loan/:loan_id/:action", r.Loans.Process, csrf)
	admin.POST("/loan-categories/", r.Category.Create, csrf)
	admin.GET("/loan-categories/:category_id", r.Category.Get)
	admin.POST("/loan-categories/:category_id", r.Category.Update, csrf)
	admin.DELETE("/loan-categories/:category_id", r.Category.Delete, csrf)
}
