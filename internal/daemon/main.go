// Package daemon wires the database, session storage, notification hub and
// web service into a running helpdesk instance.
package daemon

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/storage"
	sessionmysql "github.com/gofiber/storage/mysql/v2"
	sessionpostgres "github.com/gofiber/storage/postgres/v3"
	"github.com/rs/zerolog/log"
	gormmysql "gorm.io/driver/mysql"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/dsn"
	"github.com/GoHelpdesk/GoHelpdesk/internal/db/models"
	"github.com/GoHelpdesk/GoHelpdesk/internal/notify"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/session"
)

// Daemon represents the main application daemon.
type Daemon struct {
	webService *web.Service
	hub        *notify.Hub
}

// Start starts the Daemon's web service.
func (d *Daemon) Start(addr string) error {
	return d.webService.Start(addr)
}

// WaitShutdown blocks until the web service has shut down gracefully.
func (d *Daemon) WaitShutdown() {
	d.webService.WaitShutdown()
	d.hub.Close()
}

// New creates a new Daemon instance with the provided configuration.
func New(cfg *config.Config) *Daemon {
	if cfg == nil {
		log.Fatal().Msg("config is nil")
		return nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	if err = db.AutoMigrate(
		&models.User{},
		&models.Role{},
		&models.Permission{},
		&models.RolePermission{},
		&models.UserPermission{},
		&models.Ticket{},
		&models.TicketReply{},
		&models.Message{},
		&models.AuditLog{},
	); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	seed(db)

	session.Init(sessionStorage(cfg))

	hub := notify.NewHub()

	return &Daemon{
		webService: web.New(cfg, db, hub),
		hub:        hub,
	}
}

// ListenAddr returns the configured listen address.
func ListenAddr(cfg *config.Config) string {
	return fmt.Sprintf(":%d", cfg.Webserver.Port)
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector

	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		dialector = gormpostgres.Open(dsn.Create(cfg))
	case config.EngineSQLite:
		dialector = sqlite.Open(dsn.Create(cfg))
	default:
		dialector = gormmysql.Open(dsn.Create(cfg))
	}

	return gorm.Open(dialector, &gorm.Config{})
}

// sessionStorage selects the fiber session backend matching the database
// engine. SQLite deployments keep sessions in process memory.
func sessionStorage(cfg *config.Config) storage.Storage {
	switch cfg.DB.GormEngine {
	case config.EnginePostgres:
		return sessionpostgres.New(sessionpostgres.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	case config.EngineSQLite:
		return session.NewMemoryStorage()
	default:
		return sessionmysql.New(sessionmysql.Config{
			ConnectionURI: dsn.Create(cfg),
			Table:         "sessions",
		})
	}
}
