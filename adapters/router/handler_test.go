package docrouter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-docrender/adapters/docapi"
	dochttp "github.com/goliatone/go-docrender/adapters/http"
	"github.com/goliatone/go-docrender/document"
)

func newTestConfig() docapi.Config {
	engine := document.EngineFunc(func(_ context.Context, req document.RenderRequest) ([]byte, error) {
		return []byte("%PDF-" + req.Definition.Info.Title), nil
	})
	return docapi.Config{
		Service: document.NewService(document.ServiceConfig{
			Engine: engine,
			Now: func() time.Time {
				return time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
			},
			IDGenerator: func() string { return "render-1" },
		}),
	}
}

func assertParity(t *testing.T, rec *httptest.ResponseRecorder, routerRec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != routerRec.Code {
		t.Fatalf("status mismatch: http=%d router=%d", rec.Code, routerRec.Code)
	}
	for _, header := range []string{"Content-Type", "Content-Disposition"} {
		if rec.Header().Get(header) != routerRec.Header().Get(header) {
			t.Fatalf("%s mismatch: http=%q router=%q", header, rec.Header().Get(header), routerRec.Header().Get(header))
		}
	}
	if rec.Body.String() != routerRec.Body.String() {
		t.Fatalf("body mismatch: http=%q router=%q", rec.Body.String(), routerRec.Body.String())
	}
}

func TestTransportParity_Simple(t *testing.T) {
	cfg := newTestConfig()
	httpHandler := dochttp.NewHandler(cfg)
	routerHandler := NewHandler(cfg)

	rec := httptest.NewRecorder()
	httpHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pdf/simple", nil))

	routerCtx := newRecordingContext(http.MethodGet, "/pdf/simple", nil, nil)
	if err := routerHandler.Handle(routerCtx); err != nil {
		t.Fatalf("router handle: %v", err)
	}

	assertParity(t, rec, routerCtx.recorder)
	if rec.Body.String() != "%PDF-Reporte Simple" {
		t.Fatalf("unexpected body %q", rec.Body.String())
	}
	if !routerCtx.sendCalled {
		t.Fatalf("expected router response to use Send")
	}
}

func TestTransportParity_ProductionOrder(t *testing.T) {
	cfg := newTestConfig()
	httpHandler := dochttp.NewHandler(cfg)
	routerHandler := NewHandler(cfg)

	body := `{"orderNumber":"OP-042","client":"ACME","sizes":[{"size":"S","quantity":10},{"size":"M","quantity":20}],"totalQuantity":30}`

	rec := httptest.NewRecorder()
	httpHandler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/pdf/production-order", strings.NewReader(body)))

	routerCtx := newRecordingContext(http.MethodPost, "/pdf/production-order", []byte(body), nil)
	if err := routerHandler.Handle(routerCtx); err != nil {
		t.Fatalf("router handle: %v", err)
	}

	assertParity(t, rec, routerCtx.recorder)
	if got := routerCtx.recorder.Header().Get("Content-Disposition"); got != `attachment; filename="orden-produccion-OP-042.pdf"` {
		t.Fatalf("unexpected disposition %q", got)
	}
}

func TestTransportParity_Errors(t *testing.T) {
	cfg := newTestConfig()
	httpHandler := dochttp.NewHandler(cfg)
	routerHandler := NewHandler(cfg)

	cases := []struct {
		name   string
		method string
		path   string
		query  map[string]string
		body   string
		status int
	}{
		{name: "unsupported", method: http.MethodGet, path: "/pdf/generate", query: map[string]string{"type": "invoice"}, status: http.StatusInternalServerError},
		{name: "custom", method: http.MethodPost, path: "/pdf/generate", body: `{"type":"custom"}`, status: http.StatusInternalServerError},
		{name: "malformed", method: http.MethodPost, path: "/pdf/production-order", body: `{"orderNumber":`, status: http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			target := tc.path
			if kind := tc.query["type"]; kind != "" {
				target += "?type=" + kind
			}
			rec := httptest.NewRecorder()
			httpHandler.ServeHTTP(rec, httptest.NewRequest(tc.method, target, strings.NewReader(tc.body)))

			routerCtx := newRecordingContext(tc.method, tc.path, []byte(tc.body), tc.query)
			if err := routerHandler.Handle(routerCtx); err != nil {
				t.Fatalf("router handle: %v", err)
			}

			if routerCtx.recorder.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, routerCtx.recorder.Code)
			}
			if rec.Code != routerCtx.recorder.Code {
				t.Fatalf("status mismatch: http=%d router=%d", rec.Code, routerCtx.recorder.Code)
			}

			var httpPayload docapi.ErrorResponse
			if err := json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&httpPayload); err != nil {
				t.Fatalf("decode http response: %v", err)
			}
			var routerPayload docapi.ErrorResponse
			if err := json.NewDecoder(bytes.NewReader(routerCtx.recorder.Body.Bytes())).Decode(&routerPayload); err != nil {
				t.Fatalf("decode router response: %v", err)
			}
			if httpPayload != routerPayload {
				t.Fatalf("payload mismatch: http=%+v router=%+v", httpPayload, routerPayload)
			}
			if routerPayload.StatusCode != tc.status {
				t.Fatalf("unexpected statusCode %d", routerPayload.StatusCode)
			}
		})
	}
}

func TestRouterKinds(t *testing.T) {
	handler := NewHandler(newTestConfig())
	ctx := newRecordingContext(http.MethodGet, "/pdf/kinds", nil, nil)

	if err := handler.Handle(ctx); err != nil {
		t.Fatalf("router handle: %v", err)
	}
	if ctx.recorder.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", ctx.recorder.Code)
	}
	if !strings.Contains(ctx.recorder.Body.String(), `"production-order"`) {
		t.Fatalf("unexpected kinds body %q", ctx.recorder.Body.String())
	}
}

func TestRouterNilHandler(t *testing.T) {
	var handler *Handler
	ctx := newRecordingContext(http.MethodGet, "/pdf/simple", nil, nil)
	if err := handler.Handle(ctx); err != nil {
		t.Fatalf("router handle: %v", err)
	}
	if ctx.recorder.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", ctx.recorder.Code)
	}
}
