package docrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"

	"github.com/goliatone/go-router"
)

// embeddedContext aliases router.Context so the embedded field does not
// collide with the Context() method below.
type embeddedContext = router.Context

// recordingContext implements the slice of router.Context the handler
// touches. Any other method panics through the nil embedded interface.
type recordingContext struct {
	embeddedContext

	method        string
	path          string
	body          []byte
	query         map[string]string
	headers       map[string]string
	recorder      *httptest.ResponseRecorder
	statusWritten bool
	sendCalled    bool
}

var _ router.Context = (*recordingContext)(nil)

func newRecordingContext(method, path string, body []byte, query map[string]string) *recordingContext {
	if query == nil {
		query = map[string]string{}
	}
	return &recordingContext{
		method:   method,
		path:     path,
		body:     body,
		query:    query,
		headers:  map[string]string{},
		recorder: httptest.NewRecorder(),
	}
}

func (c *recordingContext) Context() context.Context { return context.Background() }

func (c *recordingContext) Method() string { return c.method }

func (c *recordingContext) Path() string { return c.path }

func (c *recordingContext) Header(name string) string { return c.headers[name] }

func (c *recordingContext) Body() []byte { return c.body }

func (c *recordingContext) Query(name string, defaultValue ...string) string {
	if val, ok := c.query[name]; ok {
		return val
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

func (c *recordingContext) SetHeader(key, val string) router.Context {
	c.recorder.Header().Set(key, val)
	return c
}

func (c *recordingContext) Status(code int) router.Context {
	c.writeHeader(code)
	return c
}

func (c *recordingContext) Send(body []byte) error {
	c.sendCalled = true
	c.writeHeader(http.StatusOK)
	_, err := c.recorder.Write(body)
	return err
}

func (c *recordingContext) JSON(code int, v any) error {
	c.recorder.Header().Set("Content-Type", "application/json")
	c.writeHeader(code)
	return json.NewEncoder(c.recorder).Encode(v)
}

func (c *recordingContext) writeHeader(code int) {
	if c.statusWritten {
		return
	}
	c.statusWritten = true
	c.recorder.WriteHeader(code)
}
