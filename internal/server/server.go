package server

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/RandyMyers/mbzRevamp-sub007/internal/config"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/handlers"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/middleware"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/models"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/affiliate"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/audit"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/auth"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/campaign"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/domainverify"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/email"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/hr"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/ledger"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/mailer"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/payroll"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/stores"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/sync"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/tracking"
	"github.com/RandyMyers/mbzRevamp-sub007/internal/services/upload"

	"github.com/gin-gonic/gin"
)

type Server struct {
	router *gin.Engine
	db     *sql.DB
	config *config.Config
}

func New(db *sql.DB, cfg *config.Config) (*Server, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	handlers.Configure(cfg.IsProduction())

	mailService := mailer.NewService()
	auditService := audit.NewService(db)
	authService := auth.NewService(db, cfg.JWTSecret)
	campaignService := campaign.NewService(db, mailService, cfg.BaseURL)
	emailService := email.NewService(db, mailService)
	syncService := sync.NewService(db)
	syncService.Timeout = time.Duration(cfg.SyncTimeout) * time.Second
	payrollService := payroll.NewService(db)
	ledgerService := ledger.NewService(db)
	hrService := hr.NewService(db)
	affiliateService := affiliate.NewService(db)
	storeService := stores.NewService(db)
	trackingService := tracking.NewService(db, nil)
	verifyService := domainverify.NewService("")

	uploadService, err := upload.NewService(cfg.CloudinaryURL, cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to init upload service: %w", err)
	}

	authHandler := handlers.NewAuthHandler(authService, auditService)
	campaignHandler := handlers.NewCampaignHandler(campaignService, verifyService, auditService)
	emailHandler := handlers.NewEmailHandler(emailService, campaignService, syncService, auditService)
	payrollHandler := handlers.NewPayrollHandler(payrollService, auditService)
	accountingHandler := handlers.NewAccountingHandler(ledgerService, auditService)
	hrHandler := handlers.NewHRHandler(hrService, auditService)
	affiliateHandler := handlers.NewAffiliateHandler(affiliateService, auditService)
	storeHandler := handlers.NewStoreHandler(storeService, auditService)
	trackingHandler := handlers.NewTrackingHandler(trackingService, campaignService)
	uploadHandler := handlers.NewUploadHandler(uploadService, auditService)
	auditHandler := handlers.NewAuditHandler(auditService)

	authMiddleware := middleware.NewAuthMiddleware(authService)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger())
	router.Static("/uploads", cfg.UploadDir)

	api := router.Group("/api")

	// Public routes: auth entry points and the endpoints linked from
	// campaign mail.
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/register", authHandler.Register)
	api.GET("/track/open/:campaignID/:contactID", trackingHandler.Open)
	api.GET("/track/click/:campaignID/:contactID", trackingHandler.Click)
	api.GET("/track/unsubscribe/:contactID", trackingHandler.Unsubscribe)

	authed := api.Group("")
	authed.Use(authMiddleware.RequireAuth())
	{
		authed.GET("/auth/profile", authHandler.GetProfile)
		authed.PUT("/auth/password", authHandler.ChangePassword)
		authed.POST("/uploads/image", uploadHandler.Upload)
	}

	// Everything below is back-office: super-admin or staff only.
	admin := authed.Group("")
	admin.Use(authMiddleware.RestrictTo(models.RoleSuperAdmin, models.RoleStaff))
	{
		admin.POST("/campaigns", campaignHandler.Create)
		admin.GET("/campaigns", campaignHandler.List)
		admin.GET("/campaigns/:id", campaignHandler.Get)
		admin.PUT("/campaigns/:id", campaignHandler.Update)
		admin.DELETE("/campaigns/:id", campaignHandler.Delete)
		admin.POST("/campaigns/:id/start", campaignHandler.Start)
		admin.POST("/campaigns/:id/pause", campaignHandler.Pause)
		admin.POST("/campaigns/:id/resume", campaignHandler.Resume)
		admin.GET("/campaigns/:id/stats", campaignHandler.ListEvents)
		admin.GET("/campaigns/:id/events", trackingHandler.ListEvents)

		admin.POST("/senders", campaignHandler.CreateSender)
		admin.GET("/senders", campaignHandler.ListSenders)
		admin.GET("/senders/:id", campaignHandler.GetSender)
		admin.PUT("/senders/:id", campaignHandler.UpdateSender)
		admin.DELETE("/senders/:id", campaignHandler.DeleteSender)
		admin.POST("/senders/:id/verify", campaignHandler.VerifySender)

		admin.POST("/contacts", campaignHandler.CreateContact)
		admin.GET("/contacts", campaignHandler.ListContacts)
		admin.GET("/contacts/:id", campaignHandler.GetContact)
		admin.PUT("/contacts/:id", campaignHandler.UpdateContact)
		admin.DELETE("/contacts/:id", campaignHandler.DeleteContact)

		admin.GET("/emails/folder/:folder", emailHandler.ListFolder)
		admin.GET("/emails/:id", emailHandler.Get)
		admin.POST("/emails/drafts", emailHandler.SaveDraft)
		admin.PUT("/emails/drafts/:id", emailHandler.SaveDraft)
		admin.POST("/emails/:id/move", emailHandler.Move)
		admin.DELETE("/emails/:id", emailHandler.Delete)
		admin.POST("/emails/send", emailHandler.Send)
		admin.GET("/emails/logs", emailHandler.ListLogs)

		admin.POST("/receivers", emailHandler.CreateReceiver)
		admin.GET("/receivers", emailHandler.ListReceivers)
		admin.GET("/receivers/:id", emailHandler.GetReceiver)
		admin.PUT("/receivers/:id", emailHandler.UpdateReceiver)
		admin.DELETE("/receivers/:id", emailHandler.DeleteReceiver)
		admin.POST("/receivers/:id/sync", emailHandler.SyncReceiver)

		admin.POST("/payrolls", payrollHandler.Process)
		admin.GET("/payrolls", payrollHandler.List)
		admin.GET("/payrolls/:id", payrollHandler.Get)
		admin.PUT("/payrolls/:id/items/:employeeId", payrollHandler.UpdateItem)
		admin.DELETE("/payrolls/:id", payrollHandler.Delete)
		admin.POST("/payrolls/preview-tax", payrollHandler.TaxPreview)

		admin.POST("/accounts", accountingHandler.CreateAccount)
		admin.GET("/accounts", accountingHandler.ListAccounts)
		admin.GET("/accounts/:id", accountingHandler.GetAccount)
		admin.PUT("/accounts/:id", accountingHandler.UpdateAccount)
		admin.DELETE("/accounts/:id", accountingHandler.DeleteAccount)
		admin.POST("/journal-entries", accountingHandler.CreateEntry)
		admin.GET("/journal-entries", accountingHandler.ListEntries)
		admin.GET("/journal-entries/:id", accountingHandler.GetEntry)
		admin.GET("/reports/trial-balance", accountingHandler.TrialBalance)

		admin.POST("/employees", hrHandler.CreateEmployee)
		admin.GET("/employees", hrHandler.ListEmployees)
		admin.GET("/employees/:id", hrHandler.GetEmployee)
		admin.PUT("/employees/:id", hrHandler.UpdateEmployee)
		admin.POST("/employees/:id/deactivate", hrHandler.DeactivateEmployee)
		admin.GET("/employees/:id/leave-balance", hrHandler.GetLeaveBalance)

		admin.POST("/leave", hrHandler.RequestLeave)
		admin.GET("/leave", hrHandler.ListLeave)
		admin.GET("/leave/:id", hrHandler.GetLeave)
		admin.POST("/leave/:id/approve", hrHandler.ApproveLeave)
		admin.POST("/leave/:id/reject", hrHandler.RejectLeave)

		admin.POST("/benefits", hrHandler.CreateBenefit)
		admin.GET("/benefits", hrHandler.ListBenefits)
		admin.DELETE("/benefits/:id", hrHandler.DeleteBenefit)
		admin.POST("/compliance", hrHandler.CreateComplianceRequirement)
		admin.GET("/compliance", hrHandler.ListComplianceRequirements)
		admin.DELETE("/compliance/:id", hrHandler.DeleteComplianceRequirement)

		admin.POST("/affiliates", affiliateHandler.Create)
		admin.GET("/affiliates", affiliateHandler.List)
		admin.GET("/affiliates/:id", affiliateHandler.Get)
		admin.POST("/affiliates/:id/commissions", affiliateHandler.RecordCommission)
		admin.GET("/affiliates/:id/commissions", affiliateHandler.ListCommissions)
		admin.POST("/affiliates/:id/payouts", affiliateHandler.CreatePayout)
		admin.POST("/commissions/:id/approve", affiliateHandler.ApproveCommission)
		admin.GET("/payouts/:id", affiliateHandler.GetPayout)
		admin.POST("/payouts/:id/process", affiliateHandler.MarkPayoutProcessing)
		admin.POST("/payouts/:id/complete", affiliateHandler.MarkPayoutCompleted)
		admin.POST("/payouts/:id/fail", affiliateHandler.MarkPayoutFailed)

		admin.POST("/stores", storeHandler.Create)
		admin.GET("/stores", storeHandler.List)
		admin.GET("/stores/:id", storeHandler.Get)
		admin.DELETE("/stores/:id", storeHandler.Delete)
		admin.GET("/reports/revenue", storeHandler.RevenueReport)

		admin.GET("/audit", auditHandler.List)
	}

	return &Server{router: router, db: db, config: cfg}, nil
}

func (s *Server) Start() error {
	addr := ":" + s.config.WebPort
	slog.Info("http server listening", "addr", addr)
	return http.ListenAndServe(addr, s.router)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"client_ip", c.ClientIP(),
		)
	}
}
