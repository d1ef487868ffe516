package http

import (
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"coinlend-backend/internal/adapter/middleware"
	"coinlend-backend/internal/logging"
	"coinlend-backend/internal/security"
)

type Handlers struct {
	Health     *Handler
	Loans      *LoanHandler
	Repayments *RepaymentHandler
	Approvals  *ApprovalHandler
	Accounts   *AccountHandler
	Admin      *AdminHandler
}

type RouterConfig struct {
	ServiceName    string
	JWTSecret      string
	Redis          *redis.Client
	IdempotencyTTL time.Duration
	// BodyLimit caps request bodies, e.g. "6M".
	BodyLimit string
}

func NewRouter(h Handlers, cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(
		echomw.Recover(),
		echomw.RequestID(),
		otelecho.Middleware(cfg.ServiceName),
		logging.RequestLogger(nil),
	)
	if cfg.BodyLimit != "" {
		e.Use(echomw.BodyLimit(cfg.BodyLimit))
	}

	e.GET("/health", h.Health.Health)

	idem := middleware.IdempotencyMiddleware(cfg.Redis, cfg.IdempotencyTTL)
	user := e.Group("", middleware.JWTAuth(cfg.JWTSecret))

	user.GET("/me", h.Accounts.Me)
	user.POST("/kyc", h.Accounts.SubmitKYC)
	user.POST("/withdrawals", h.Accounts.Withdraw, idem)
	user.POST("/trades/attempts", h.Accounts.TradeAttempt)

	user.POST("/loans", h.Loans.Apply, idem)
	user.GET("/loans", h.Loans.List)
	user.GET("/loans/:loan_id", h.Loans.Get)
	user.GET("/loans/:loan_id/quote", h.Loans.Quote)
	user.POST("/loans/:loan_id/repayments", h.Repayments.Submit, idem)
	user.GET("/loans/:loan_id/repayments", h.Repayments.List)

	admin := user.Group("/admin", middleware.RequireRole(security.RoleAdmin))
	admin.GET("/applications", h.Admin.Applications)
	admin.POST("/overdue/sweep", h.Admin.Sweep)

	admin.POST("/loans/:loan_id/approve", h.Approvals.ApproveLoan)
	admin.POST("/loans/:loan_id/reject", h.Approvals.RejectLoan)
	admin.POST("/repayments/:repayment_id/approve", h.Repayments.Approve)
	admin.POST("/repayments/:repayment_id/reject", h.Repayments.Reject)
	admin.POST("/kyc/:kyc_id/approve", h.Accounts.ApproveKYC)
	admin.POST("/kyc/:kyc_id/reject", h.Accounts.RejectKYC)
	admin.POST("/withdrawals/:tx_id/approve", h.Accounts.ApproveWithdrawal)
	admin.POST("/withdrawals/:tx_id/reject", h.Accounts.RejectWithdrawal)
	admin.POST("/users/:user_id/freeze", h.Accounts.Freeze)
	admin.POST("/users/:user_id/unfreeze", h.Accounts.Unfreeze)
	admin.POST("/users/:user_id/credit-score/restore", h.Accounts.RestoreCredit)

	return e
}
