package docapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goliatone/go-docrender/document"
)

// DefaultBasePath is where routes are mounted when Config.BasePath is empty.
const DefaultBasePath = "/pdf"

const (
	msgGenerate        = "Error al generar el PDF"
	msgSimple          = "Error al generar el PDF simple"
	msgProductionOrder = "Error al generar la orden de producción"
	msgDefinition      = "Error al generar la definición del documento"
	msgBadRequest      = "Solicitud inválida"
)

// Config configures the shared document API controller.
type Config struct {
	Service      document.Service
	BasePath     string
	Logger       document.Logger
	MaxBodyBytes int64
}

// Controller exposes document handlers for multiple transports.
type Controller struct {
	service      document.Service
	basePath     string
	logger       document.Logger
	maxBodyBytes int64
}

// NewController creates a shared document API controller.
func NewController(cfg Config) *Controller {
	basePath := strings.TrimRight(cfg.BasePath, "/")
	if basePath == "" {
		basePath = DefaultBasePath
	}
	logger := cfg.Logger
	if logger == nil {
		logger = document.NopLogger{}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = DefaultMaxBodyBytes
	}
	return &Controller{
		service:      cfg.Service,
		basePath:     basePath,
		logger:       logger,
		maxBodyBytes: maxBody,
	}
}

// BasePath returns the configured base path.
func (c *Controller) BasePath() string {
	if c == nil {
		return ""
	}
	return c.basePath
}

// Serve routes document endpoints.
func (c *Controller) Serve(req Request, res Response) {
	if res == nil {
		return
	}
	if c == nil || c.service == nil {
		WriteError(res, msgGenerate, document.NewError(document.KindInternal, "handler is nil", nil))
		return
	}
	if req == nil {
		WriteError(res, msgGenerate, document.NewError(document.KindInternal, "request is nil", nil))
		return
	}
	if !strings.HasPrefix(req.Path(), c.basePath) {
		writeNotFound(res)
		return
	}

	route := strings.Trim(strings.TrimPrefix(req.Path(), c.basePath), "/")
	switch {
	case route == "generate" && req.Method() == http.MethodGet:
		c.handleGenerate(req, res, generateFromQuery(req))
	case route == "generate" && req.Method() == http.MethodPost:
		var payload document.GenerateRequest
		if err := decodeJSON(req, c.maxBodyBytes, &payload); err != nil {
			c.fail(res, msgBadRequest, err)
			return
		}
		c.handleGenerate(req, res, payload)
	case route == "simple" && req.Method() == http.MethodGet:
		c.handleSimple(req, res)
	case route == "production-order" && req.Method() == http.MethodPost:
		c.handleProductionOrder(req, res)
	case route == "definition" && req.Method() == http.MethodGet:
		c.handleDefinition(req, res)
	case route == "kinds" && req.Method() == http.MethodGet:
		c.handleKinds(res)
	case isRoute(route):
		res.SetHeader("Allow", allowedMethods(route))
		writeJSON(res, http.StatusMethodNotAllowed, ErrorResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Message:    http.StatusText(http.StatusMethodNotAllowed),
			Error:      "method " + req.Method() + " not allowed",
		})
	default:
		writeNotFound(res)
	}
}

func (c *Controller) handleGenerate(req Request, res Response, payload document.GenerateRequest) {
	result, err := c.service.Generate(req.Context(), payload)
	if err != nil {
		c.fail(res, msgGenerate, err)
		return
	}
	c.writePDF(res, result)
}

func (c *Controller) handleSimple(req Request, res Response) {
	result, err := c.service.GenerateSimple(req.Context())
	if err != nil {
		c.fail(res, msgSimple, err)
		return
	}
	c.writePDF(res, result)
}

func (c *Controller) handleProductionOrder(req Request, res Response) {
	var data document.ProductionOrderData
	if err := decodeJSON(req, c.maxBodyBytes, &data); err != nil {
		c.fail(res, msgBadRequest, err)
		return
	}
	result, err := c.service.GenerateProductionOrder(req.Context(), data, optionsFromQuery(req))
	if err != nil {
		c.fail(res, msgProductionOrder, err)
		return
	}
	c.writePDF(res, result)
}

func (c *Controller) handleDefinition(req Request, res Response) {
	preview, err := c.service.Preview(req.Context(), generateFromQuery(req))
	if err != nil {
		c.fail(res, msgDefinition, err)
		return
	}
	writeJSON(res, http.StatusOK, preview)
}

func (c *Controller) handleKinds(res Response) {
	kinds := c.service.Kinds()
	payload := KindsResponse{Kinds: make([]string, 0, len(kinds))}
	for _, kind := range kinds {
		payload.Kinds = append(payload.Kinds, string(kind))
	}
	writeJSON(res, http.StatusOK, payload)
}

func (c *Controller) writePDF(res Response, result document.RenderResult) {
	contentType := result.ContentType
	if contentType == "" {
		contentType = document.ContentTypePDF
	}
	res.SetHeader("Content-Type", contentType)
	res.SetHeader("Content-Disposition", contentDisposition(result.FileName))
	res.WriteHeader(http.StatusOK)
	if _, err := res.Write(result.Buffer); err != nil {
		c.logger.Errorf("write %s: %v", result.FileName, err)
	}
}

func (c *Controller) fail(res Response, message string, err error) {
	c.logger.Errorf("%s: %v", message, err)
	WriteError(res, message, err)
}

// WriteError writes the JSON error body. Unparseable request bodies are
// reported as 400, every other failure as 500.
func WriteError(res Response, message string, err error) {
	if err == nil {
		res.WriteHeader(http.StatusNoContent)
		return
	}
	status := statusForError(err)
	writeJSON(res, status, ErrorResponse{
		StatusCode: status,
		Message:    message,
		Error:      errorMessage(err),
	})
}

func statusForError(err error) int {
	var de *decodeError
	if errors.As(err, &de) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func errorMessage(err error) string {
	var de *decodeError
	if errors.As(err, &de) {
		return de.Error()
	}
	return err.Error()
}

func writeJSON(res Response, status int, payload any) {
	_ = res.WriteJSON(status, payload)
}

func writeNotFound(res Response) {
	res.SetHeader("Content-Type", "text/plain; charset=utf-8")
	res.SetHeader("X-Content-Type-Options", "nosniff")
	res.WriteHeader(http.StatusNotFound)
	_, _ = res.Write([]byte("404 page not found\n"))
}

var routeMethods = map[string]string{
	"generate":         "GET, POST",
	"simple":           "GET",
	"production-order": "POST",
	"definition":       "GET",
	"kinds":            "GET",
}

func isRoute(route string) bool {
	_, ok := routeMethods[route]
	return ok
}

func allowedMethods(route string) string {
	return routeMethods[route]
}

// contentDisposition quotes a sanitized ASCII file name for the header. When
// that differs from the rendered name, the exact name is also carried in an
// RFC 5987 filename* parameter.
func contentDisposition(fileName string) string {
	fallback := asciiFileName(document.SanitizeFileName(fileName))
	value := fmt.Sprintf("attachment; filename=\"%s\"", fallback)
	if fileName != "" && fallback != fileName {
		value += "; filename*=UTF-8''" + extValue(fileName)
	}
	return value
}

// extValue percent-encodes every byte outside the RFC 5987 attr-char set.
func extValue(value string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(value); i++ {
		c := value[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

func asciiFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if r > 0x7e {
			b.WriteRune('_')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
