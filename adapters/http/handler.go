package dochttp

import (
	"net/http"

	"github.com/goliatone/go-docrender/adapters/docapi"
	"github.com/goliatone/go-docrender/document"
)

// Config configures the HTTP adapter.
type Config = docapi.Config

// Handler exposes document HTTP endpoints.
type Handler struct {
	controller *docapi.Controller
}

// NewHandler creates a new HTTP handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{controller: docapi.NewController(cfg)}
}

// RegisterRoutes registers handlers on a compatible router. Routers with
// Mount (chi) get the handler mounted at the base path.
func (h *Handler) RegisterRoutes(router any) {
	switch r := router.(type) {
	case interface{ Mount(string, http.Handler) }:
		r.Mount(h.basePath(), h)
	case interface{ Handle(string, http.Handler) }:
		r.Handle(h.basePath(), h)
		r.Handle(h.basePath()+"/", h)
	case interface {
		HandleFunc(string, func(http.ResponseWriter, *http.Request))
	}:
		r.HandleFunc(h.basePath(), h.ServeHTTP)
		r.HandleFunc(h.basePath()+"/", h.ServeHTTP)
	}
}

// ServeHTTP routes document endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if w == nil {
		return
	}
	if h == nil || h.controller == nil {
		docapi.WriteError(httpResponse{w: w}, "Error al generar el PDF", document.NewError(document.KindInternal, "handler is nil", nil))
		return
	}
	h.controller.Serve(httpRequest{r: r}, httpResponse{w: w})
}

func (h *Handler) basePath() string {
	if h == nil || h.controller == nil {
		return docapi.DefaultBasePath
	}
	path := h.controller.BasePath()
	if path == "" {
		return docapi.DefaultBasePath
	}
	return path
}
