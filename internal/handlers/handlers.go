package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"complaintdesk/internal/config"
	"complaintdesk/internal/middleware"
	"complaintdesk/internal/models"
	"complaintdesk/internal/notify"
	"complaintdesk/internal/repository"
	"complaintdesk/internal/service"
	"complaintdesk/internal/session"
	"complaintdesk/internal/storage"
)

type HandlerSet struct {
	log         zerolog.Logger
	cfg         *config.AppConfig
	sessions    *session.Manager
	auth        *service.AuthService
	complaints  *service.ComplaintService
	attachments *repository.AttachmentRepository
	store       *storage.ObjectStore
	db          *pgxpool.Pool
	cache       *redis.Client
}

func NewHandlerSet(
	log zerolog.Logger,
	db *pgxpool.Pool,
	cache *redis.Client,
	store *storage.ObjectStore,
	sessions *session.Manager,
	cfg *config.AppConfig,
) HandlerSet {
	userRepo := repository.NewUserRepository(db)
	complaintRepo := repository.NewComplaintRepository(db)
	attachmentRepo := repository.NewAttachmentRepository(db)
	queue := notify.NewQueue(cache, log)

	return HandlerSet{
		log:         log,
		cfg:         cfg,
		sessions:    sessions,
		auth:        service.NewAuthService(userRepo, log),
		complaints:  service.NewComplaintService(complaintRepo, queue, log),
		attachments: attachmentRepo,
		store:       store,
		db:          db,
		cache:       cache,
	}
}

func (h HandlerSet) Register(engine *gin.Engine) {
	// Navigational routes: redirect-gated, sliding session expiry.
	pages := engine.Group("/")
	pages.Use(
		middleware.Guard(h.sessions),
		middleware.SessionRefresh(h.sessions),
	)
	pages.GET("/", h.HomePage)
	pages.GET("/login", h.LoginPage)
	pages.GET("/register", h.RegisterPage)
	pages.GET("/admin", h.AdminPage)
	pages.POST("/login", h.Login)
	pages.POST("/register", h.RegisterUser)
	pages.POST("/logout", h.Logout)

	// API routes: cookie session enforced with status codes, not redirects.
	api := engine.Group("/api")
	api.GET("/healthz", h.Health)

	v1 := api.Group("/v1")
	complaints := v1.Group("/complaints")
	complaints.Use(middleware.RequireSession(h.sessions))
	complaints.GET("", h.ListComplaints)
	complaints.POST("", h.CreateComplaint)
	complaints.GET("/:id", h.GetComplaint)
	complaints.GET("/:id/attachments", h.ListAttachments)
	complaints.POST("/:id/attachments", h.UploadAttachment)
	complaints.PATCH("/:id/status", middleware.RequireRoles(models.UserRoleAdmin), h.UpdateComplaintStatus)
	complaints.DELETE("/:id", middleware.RequireRoles(models.UserRoleAdmin), h.DeleteComplaint)

	me := v1.Group("/me")
	me.Use(middleware.RequireSession(h.sessions))
	me.GET("", h.Me)
}
