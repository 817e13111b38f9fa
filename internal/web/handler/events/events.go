// Package events streams helpdesk lifecycle events to the browser over
// server-sent events, feeding the live-updating dashboards.
package events

import (
	"bufio"
	"encoding/json"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
	"gorm.io/gorm"

	"github.com/GoHelpdesk/GoHelpdesk/internal/config"
	"github.com/GoHelpdesk/GoHelpdesk/internal/notify"
	"github.com/GoHelpdesk/GoHelpdesk/internal/web/handler"
)

// Path is the path to the event stream.
const Path = "/events"

// keepAliveInterval is how often a comment line is written to detect
// disconnected clients on an otherwise idle stream.
const keepAliveInterval = 30 * time.Second

// Service is the event stream handler service.
type Service struct {
	cfg *config.Config
	hub *notify.Hub
}

// Handler is the event stream handler.
var Handler = Service{}

// Init initializes the event stream handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, hub *notify.Hub) error {
	if app == nil || cfg == nil || db == nil {
		return errors.New(handler.ErrNilACDMsg)
	}

	s.cfg = cfg
	s.hub = hub

	app.Get(Path, s.Get)

	return nil
}

// Get subscribes the client to the hub and streams events until the
// connection drops. Delivery is best-effort; a client that disconnects
// mid-event simply stops receiving.
func (s *Service) Get(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	hub := s.hub

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		ch := hub.Subscribe()
		defer hub.Unsubscribe(ch)

		keepAlive := time.NewTicker(keepAliveInterval)
		defer keepAlive.Stop()

		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}

				payload, err := json.Marshal(event)
				if err != nil {
					log.Error().Err(err).Msg("failed to marshal event")
					continue
				}

				if _, err := w.WriteString("event: " + event.Type + "\ndata: " + string(payload) + "\n\n"); err != nil {
					return
				}

				if err := w.Flush(); err != nil {
					// client went away
					return
				}
			case <-keepAlive.C:
				if _, err := w.WriteString(": keep-alive\n\n"); err != nil {
					return
				}

				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}
