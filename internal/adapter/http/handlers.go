// Package http provides the HTTP handler and middleware adapters for the
// aerodesk API.
package http

import (
	"log/slog"

	"github.com/aerodesk/aerodesk/internal/adapter/ws"
	"github.com/aerodesk/aerodesk/internal/service"
)

// Handlers bundles the HTTP handlers and their service dependencies.
type Handlers struct {
	turns     *service.TurnService
	directory *service.DirectoryService
	hub       *ws.Hub
	log       *slog.Logger
}

// NewHandlers creates the handler set. hub may be nil; the websocket
// route is then not mounted.
func NewHandlers(turns *service.TurnService, directory *service.DirectoryService, hub *ws.Hub, log *slog.Logger) *Handlers {
	if log == nil {
		log = slog.Default()
	}
	return &Handlers{turns: turns, directory: directory, hub: hub, log: log}
}
