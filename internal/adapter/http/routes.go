package http

import (
	"credconecta-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
)

// Routes bundles the handlers mounted by Register.
type Routes struct {
	Health        *Handler
	Auth          *AuthHandler
	Loans         *LoanHandler
	Contracts     *ContractHandler
	Notifications *NotificationHandler

	Tokens middleware.TokenParser
	// Idempotency guards mutating routes when set.
	Idempotency echo.MiddlewareFunc
}

func (r Routes) Register(e *echo.Echo) {
	e.GET("/health", r.Health.Health)
	e.POST("/auth/login", r.Auth.Login)

	mws := []echo.MiddlewareFunc{middleware.Auth(r.Tokens)}
	if r.Idempotency != nil {
		mws = append(mws, r.Idempotency)
	}
	g := e.Group("", mws...)
	admin := middleware.AdminOnly()

	g.GET("/auth/me", r.Auth.Me)

	g.GET("/loans", r.Loans.ListLoans)
	g.POST("/loans", r.Loans.CreateLoan)
	g.GET("/loans/overdue", r.Loans.OverdueLoans)
	g.GET("/loans/:id", r.Loans.GetLoan)
	g.PATCH("/loans/:id", r.Loans.UpdateLoan)
	g.DELETE("/loans/:id", r.Loans.DeleteLoan)
	g.POST("/loans/:id/settle", r.Loans.SettleLoan)
	g.GET("/loans/:id/penalty", r.Loans.Penalty)
	g.GET("/loans/:id/contract", r.Contracts.GetByLoan)

	g.GET("/reports/summary", r.Loans.Summary)
	g.GET("/reports/full", r.Loans.FullReport)
	g.GET("/reports/overdue", r.Loans.OverdueReport)

	g.GET("/contracts", r.Contracts.List)
	g.POST("/contracts", r.Contracts.Generate)
	g.GET("/contracts/:id", r.Contracts.Get)
	g.DELETE("/contracts/:id", r.Contracts.Delete)
	g.POST("/contracts/:id/sign", r.Contracts.Sign)
	g.POST("/contracts/:id/pdf", r.Contracts.GeneratePDF)
	g.POST("/contracts/:id/share", r.Contracts.Share)

	g.GET("/contract-templates", r.Contracts.ListTemplates)
	g.GET("/contract-templates/:id", r.Contracts.GetTemplate)
	g.POST("/contract-templates", r.Contracts.CreateTemplate, admin)
	g.PATCH("/contract-templates/:id", r.Contracts.UpdateTemplate, admin)
	g.DELETE("/contract-templates/:id", r.Contracts.DeleteTemplate, admin)

	g.GET("/notifications", r.Notifications.List)
	g.GET("/notifications/unread-count", r.Notifications.UnreadCount)
	g.GET("/notifications/settings", r.Notifications.GetSettings)
	g.PATCH("/notifications/settings", r.Notifications.UpdateSettings)
	g.POST("/notifications/read-all", r.Notifications.MarkAllRead)
	g.POST("/notifications/:id/read", r.Notifications.MarkRead)
	g.DELETE("/notifications/:id", r.Notifications.Delete)

	users := g.Group("/users", admin)
	users.GET("", r.Auth.ListUsers)
	users.POST("", r.Auth.CreateUser)
	users.PATCH("/:id", r.Auth.UpdateUser)
	users.DELETE("/:id", r.Auth.DeleteUser)
	users.POST("/:id/toggle-block", r.Auth.ToggleBlock)
}
