package web

import (
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	"github.com/gofiber/template/html/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/auth"
	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	accesslog "github.com/GoHelpdesk/GoHelpdesk/internal/logger/adapter/fiber"
	"github.com/GoHelpdesk/GoHelpdesk/internal/notify"
	"github.com/GoHelpdesk/GoHelpdesk/internal/ticket"
	"github.com/GoHelpdesk/GoHelpdesk/internal/upload"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/admin/analytics"
	adminauditlog "github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/admin/auditlog"
	admindashboard "github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/admin/dashboard"
	adminticket "github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/admin/ticket"
	adminuser "github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/admin/user"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/dashboard"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/events"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/login"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/logout"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/messages"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/profile"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/register"
	ticketcreate "github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/ticket/create"
	ticketdetail "github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/ticket/detail"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler/uploads"
	webauth "github.com/GoHelpdesk/GoHelpdesk/internal/web/middleware/auth"
)

// HealthPath serves liveness probes without authentication.
const HealthPath = "/healthz"

// MetricsPath exposes the Prometheus registry without authentication.
const MetricsPath = "/metrics"

// Service represents the web service.
type Service struct {
	App          *fiber.App
	cfg          *config.Config
	fastShutDown bool
	alive        atomic.Bool
	db           *gorm.DB
	authService  *auth.Service
}

// Start starts the web service on the given address.
func (s *Service) Start(addr string) error {
	var doneFiber = make(chan bool)

	go func() {
		if err := s.App.Listen(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Msgf("fiber listen error: %v", err)
		}

		doneFiber <- true
	}()

	<-doneFiber // wait for fiber to stop

	return nil
}

// WaitShutdown waits for graceful shutdown of the helpdesk.
func (s *Service) WaitShutdown() {
	irqSig := make(chan os.Signal, 1)
	signal.Notify(irqSig, syscall.SIGINT, syscall.SIGTERM)

	sig := <-irqSig
	log.Info().Msgf("shutdown request (signal: %v)", sig)

	// Graceful shutdown for reverse proxies: set status to fail, so healthz returns fail.
	if !s.fastShutDown {
		log.Info().Msgf(
			"graceful shutdown: return 503 while %d seconds to let LB to remove this pod from active targets",
			s.cfg.Webserver.ShutDownTime,
		)

		s.alive.Store(false)
		time.Sleep(time.Duration(s.cfg.Webserver.ShutDownTime) * time.Second)
	}

	// stop fiber http server
	serverShutdown := make(chan struct{})

	go func() {
		log.Info().Msg("stopping http server ...")

		err := s.App.Shutdown()
		if err != nil {
			log.Error().Err(err).Msg("")
		}

		serverShutdown <- struct{}{}
	}()

	<-serverShutdown
	log.Info().Msg("http server was stopped ... good bye...")
}

// New creates a new web service with the given configuration.
func New(cfg *config.Config, db *gorm.DB, hub *notify.Hub) *Service {
	if cfg == nil {
		panic("config cannot be nil")
	}

	if db == nil {
		panic("db cannot be nil")
	}

	if hub == nil {
		panic("hub cannot be nil")
	}

	httpFS := http.FS(templateEmbedFS{embeddedTemplates})
	templateEngine := html.NewFileSystem(httpFS, ".gohtml")

	// in debug mode, use local filesystem for templates
	if cfg.DevMode {
		templateEngine = html.New("./internal/web/templates", ".gohtml")
		templateEngine.ShouldReload = true

		log.Warn().Msg("debug mode enabled: using local filesystem for templates")
	}

	// Add template helper functions
	templateEngine.AddFunc("iterate", func(count int) []int {
		result := make([]int, count)
		for i := range result {
			result[i] = i
		}

		return result
	})
	templateEngine.AddFunc("add", func(a, b int) int {
		return a + b
	})
	templateEngine.AddFunc("sub", func(a, b int) int {
		return a - b
	})
	templateEngine.AddFunc("statusLabel", func(status string) string {
		return strings.Title(status) //nolint:staticcheck
	})
	templateEngine.AddFunc("ticketNumber", func(t models.Ticket) string {
		return t.TicketNumber()
	})

	// create fiber app
	app := fiber.New(
		fiber.Config{
			ReadBufferSize: 8192,
			AppName:        cfg.Title,
			CaseSensitive:  true,
			Prefork:        false,
			Immutable:      true,
			Views:          templateEngine,
		},
	)

	// serve embedded static files
	app.Use("/static",
		filesystem.New(
			filesystem.Config{
				Root:       http.FS(embeddedStaticFiles),
				PathPrefix: "static",
				Browse:     false,
			},
		),
	)

	// access logging (skips healthz when configured)
	app.Use(accesslog.New(accesslog.Config{
		Config:        cfg.Log,
		CheckAliveURI: HealthPath,
	}))

	service := &Service{
		cfg: cfg,
		App: app,
		db:  db,
	}
	service.alive.Store(true)

	app.Get(HealthPath, func(c *fiber.Ctx) error {
		if !service.alive.Load() {
			return c.Status(fiber.StatusServiceUnavailable).SendString("shutting down")
		}

		return c.SendString("ok")
	})

	app.Get(MetricsPath, adaptor.HTTPHandler(promhttp.Handler()))

	// session auth middleware
	app.Use(webauth.Middleware)

	// Initialize auth service and domain services
	authService := auth.NewService(db)
	service.authService = authService

	uploadStore, err := upload.NewStore(cfg.Upload)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize upload store")
	}

	manager := ticket.NewManager(db, authService, hub)

	// Add permissions to fiber.Locals middleware (after auth)
	app.Use(auth.AddPermissionsToLocals(authService))

	// init handlers (they register their own routes with permission checks)
	login.Handler.Init(app, cfg, db)
	logout.Handler.Init(app, cfg, db)
	register.Handler.Init(app, cfg, db)
	profile.Handler.Init(app, cfg, db, authService)
	dashboard.Handler.Init(app, cfg, db, manager)
	ticketcreate.Handler.Init(app, cfg, db, authService, manager, uploadStore)
	ticketdetail.Handler.Init(app, cfg, db, authService, manager, uploadStore)
	messages.Handler.Init(app, cfg, db, hub, uploadStore)
	events.Handler.Init(app, cfg, db, hub)
	uploads.Handler.Init(app, cfg, db, uploadStore)

	// administrative surface, gated on the coarse role label
	admin := app.Group("/admin", auth.RequireAdministrator(authService))
	admindashboard.Handler.Init(admin, cfg, db)
	adminticket.Handler.Init(admin, cfg, db, manager)
	adminuser.Handler.Init(admin, cfg, db)
	adminauditlog.Handler.Init(admin, cfg, db)
	analytics.Handler.Init(admin, cfg, db)

	// redirect root to dashboard
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard")
	})

	return service
}
