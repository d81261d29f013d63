package provider

import (
	"github.com/ledgerline/internal/cache"
	"github.com/ledgerline/internal/config"
	"github.com/ledgerline/internal/logger"
	"github.com/ledgerline/internal/models"
	"github.com/ledgerline/internal/queue"
	"github.com/ledgerline/internal/repository"
	"github.com/ledgerline/internal/service"
)

// Container is the dependency injection container.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	CodeStore   cache.CodeStore

	// Repositories
	UserRepo         repository.UserRepository
	SessionRepo      repository.SessionRepository
	ClientRepo       repository.ClientRepository
	InvoiceRepo      repository.InvoiceRepository
	NotificationRepo repository.NotificationRepository

	// Services
	AuthService         *service.AuthService
	VerificationService *service.VerificationService
	NotificationService *service.NotificationService
	SMSService          *service.SMSService
	EmailService        *service.EmailService
	ClientService       *service.ClientService
	InvoiceService      *service.InvoiceService
	CaptchaService      *service.CaptchaService
}

// NewContainer wires the whole dependency graph.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initCodeStore()
	c.initRepositories()
	c.initServices()

	return c
}

// initCodeStore picks redis when available, otherwise the in-process
// store. The fallback keeps the verification flow usable on a single
// node without redis.
func (c *Container) initCodeStore() {
	if cache.Enabled() {
		c.CodeStore = cache.NewRedisCodeStore(cache.Client())
		return
	}
	logger.Warnw("code_store_redis_unavailable", "fallback", "in_process_memory")
	c.CodeStore = cache.NewMemoryCodeStore()
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.SessionRepo = repository.NewSessionRepository(db)
	c.ClientRepo = repository.NewClientRepository(db)
	c.InvoiceRepo = repository.NewInvoiceRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	cfg := c.Config
	c.SMSService = service.NewSMSService(&cfg.SMS)
	c.EmailService = service.NewEmailService(&cfg.Email)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo, c.SMSService, c.EmailService)
	c.VerificationService = service.NewVerificationService(&cfg.Verification, c.CodeStore, c.UserRepo, c.NotificationService)
	c.AuthService = service.NewAuthService(cfg, c.UserRepo, c.SessionRepo, c.NotificationService)
	c.ClientService = service.NewClientService(c.ClientRepo)
	c.InvoiceService = service.NewInvoiceService(&cfg.Invoice, c.InvoiceRepo, c.ClientRepo, c.QueueClient)
	c.CaptchaService = service.NewCaptchaService(cfg.Captcha)
}

// Close releases held resources.
func (c *Container) Close() {
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			logger.Warnw("queue_client_close_failed", "error", err)
		}
	}
}
