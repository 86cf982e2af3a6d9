package api

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/civicvoice/platform/docs"
	"github.com/civicvoice/platform/internal/api/handler"
	"github.com/civicvoice/platform/internal/api/middleware"
	"github.com/civicvoice/platform/internal/core/domain"
	"github.com/civicvoice/platform/internal/core/service"
	"github.com/civicvoice/platform/internal/infrastructure/config"
	mongodb "github.com/civicvoice/platform/internal/infrastructure/db/mongo"
	redisdb "github.com/civicvoice/platform/internal/infrastructure/db/redis"
	"github.com/civicvoice/platform/internal/infrastructure/email"
	"github.com/civicvoice/platform/internal/infrastructure/queue"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The dispatcher is passed in already constructed so main can start its
// workers; its delivery consumer is attached here.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client, dispatcher *queue.Dispatcher, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("civicvoice"))

	// --- Repositories ---
	authRepo := mongodb.NewAuthRepository(db)
	contactRepo := mongodb.NewContactRepository(db)
	volunteerRepo := mongodb.NewVolunteerRepository(db)
	memberRepo := mongodb.NewMemberRepository(db)
	eventRepo := mongodb.NewEventRepository(db)
	subscriberRepo := mongodb.NewSubscriberRepository(db)
	campaignRepo := mongodb.NewCampaignRepository(db)
	settingRepo := mongodb.NewSettingRepository(db)

	// --- Outbound mail ---
	var sender email.Sender
	if cfg.Email.ResendAPIKey != "" {
		sender = email.NewResendSender(cfg.Email.ResendAPIKey, cfg.Email.From, log)
	} else {
		sender = email.NewNoopSender(log)
	}

	// --- Services ---
	authService := service.NewAuthService(authRepo, cfg.JWTSecret, 24*time.Hour)
	contactService := service.NewContactService(contactRepo, log)
	volunteerService := service.NewVolunteerService(volunteerRepo, log)
	memberService := service.NewMemberService(memberRepo, log)
	eventService := service.NewEventService(eventRepo, log)
	newsletterService := service.NewNewsletterService(
		subscriberRepo, campaignRepo, dispatcher,
		redisdb.NewSendDeduper(rdb), sender, cfg.PublicBaseURL, log,
	)
	dispatcher.SetService(newsletterService)
	reportService := service.NewReportService(contactRepo, volunteerRepo, memberRepo, eventRepo, subscriberRepo)
	settingService := service.NewSettingService(settingRepo, log)

	responseCache := redisdb.NewResponseCache(rdb)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService)
	contactHandler := handler.NewContactHandler(contactService)
	volunteerHandler := handler.NewVolunteerHandler(volunteerService)
	memberHandler := handler.NewMemberHandler(memberService)
	eventHandler := handler.NewEventHandler(eventService)
	newsletterHandler := handler.NewNewsletterHandler(newsletterService, responseCache)
	settingHandler := handler.NewSettingHandler(settingService)
	reportHandler := handler.NewReportHandler(reportService)
	healthHandler := handler.NewHealthHandler(db, rdb)

	auth := middleware.Auth(cfg.JWTSecret)
	staff := middleware.RBAC(domain.RoleAdmin, domain.RoleSubAdmin)
	adminOnly := middleware.RBAC(domain.RoleAdmin)

	// --- Health probes and operational surfaces (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	// --- Auth routes ---
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	profile := e.Group("/api/auth", auth)
	profile.GET("/profile", authHandler.Profile)
	profile.PUT("/profile", authHandler.UpdateProfile)
	profile.PUT("/password", authHandler.ChangePassword)
	profile.POST("/logout", authHandler.Logout)
	profile.POST("/operators", authHandler.CreateOperator, adminOnly)

	// --- Public site forms ---
	e.POST("/api/contacts", contactHandler.Submit, middleware.Cache(responseCache, "contacts"))
	e.POST("/api/volunteers", volunteerHandler.Signup, middleware.Cache(responseCache, "volunteers"))
	e.POST("/api/members", memberHandler.Signup, middleware.Cache(responseCache, "members"))
	e.POST("/api/newsletter/subscribe", newsletterHandler.Subscribe, middleware.Cache(responseCache, "subscribers"))
	e.GET("/api/newsletter/unsubscribe/:token", newsletterHandler.Unsubscribe)

	// --- Public published events ---
	e.GET("/api/events/published", eventHandler.PublicList, middleware.Cache(responseCache, "events"))
	e.GET("/api/events/published/:slug", eventHandler.PublicGet, middleware.Cache(responseCache, "events"))

	// --- Back office: contacts ---
	contacts := e.Group("/api/contacts", auth, staff, middleware.Cache(responseCache, "contacts"))
	contacts.GET("", contactHandler.List)
	contacts.GET("/stats", contactHandler.Stats)
	contacts.GET("/:id", contactHandler.Get)
	contacts.PUT("/:id", contactHandler.Update)
	contacts.DELETE("/:id", contactHandler.Delete, adminOnly)

	// --- Back office: volunteers ---
	volunteers := e.Group("/api/volunteers", auth, staff, middleware.Cache(responseCache, "volunteers"))
	volunteers.GET("", volunteerHandler.List)
	volunteers.GET("/stats", volunteerHandler.Stats)
	volunteers.GET("/:id", volunteerHandler.Get)
	volunteers.PUT("/:id", volunteerHandler.Update)
	volunteers.DELETE("/:id", volunteerHandler.Delete, adminOnly)

	// --- Back office: members ---
	members := e.Group("/api/members", auth, staff, middleware.Cache(responseCache, "members"))
	members.GET("", memberHandler.List)
	members.GET("/stats", memberHandler.Stats)
	members.GET("/:id", memberHandler.Get)
	members.PUT("/:id", memberHandler.Update)
	members.DELETE("/:id", memberHandler.Delete, adminOnly)

	// --- Back office: events ---
	events := e.Group("/api/events", auth, staff, middleware.Cache(responseCache, "events"))
	events.POST("", eventHandler.Create)
	events.GET("", eventHandler.List)
	events.GET("/stats", eventHandler.Stats)
	events.GET("/:id", eventHandler.Get)
	events.PUT("/:id", eventHandler.Update)
	events.PUT("/:id/status", eventHandler.ChangeStatus)
	events.DELETE("/:id", eventHandler.Delete, adminOnly)

	// --- Back office: newsletter ---
	subscribers := e.Group("/api/newsletter/subscribers", auth, staff, middleware.Cache(responseCache, "subscribers"))
	subscribers.GET("", newsletterHandler.ListSubscribers)
	subscribers.GET("/stats", newsletterHandler.SubscriberStats)
	subscribers.GET("/:id", newsletterHandler.GetSubscriber)
	subscribers.DELETE("/:id", newsletterHandler.DeleteSubscriber, adminOnly)

	campaigns := e.Group("/api/newsletter/campaigns", auth, staff)
	campaigns.POST("", newsletterHandler.CreateCampaign)
	campaigns.GET("", newsletterHandler.ListCampaigns)
	campaigns.GET("/:id", newsletterHandler.GetCampaign)
	campaigns.POST("/:id/send", newsletterHandler.SendCampaign, adminOnly)

	// --- Back office: settings (admin only) ---
	settings := e.Group("/api/settings", auth, adminOnly)
	settings.GET("", settingHandler.List)
	settings.GET("/:key", settingHandler.Get)
	settings.PUT("/:key", settingHandler.Set)
	settings.DELETE("/:key", settingHandler.Delete)

	// --- Back office: reports ---
	reports := e.Group("/api/reports", auth, staff)
	reports.GET("/summary", reportHandler.Summary)

	return e
}
