package docapi

import (
	"context"
	"encoding/json"
	"io"
	"strings"

	"github.com/goliatone/go-docrender/document"
)

// DefaultMaxBodyBytes bounds JSON request bodies.
const DefaultMaxBodyBytes int64 = 1 << 20

// Request provides minimal request access for transport adapters.
type Request interface {
	Context() context.Context
	Method() string
	Path() string
	Header(name string) string
	Query(name string) string
	Body() io.ReadCloser
}

// decodeError marks a request whose body could not be parsed.
type decodeError struct {
	err error
}

func (e *decodeError) Error() string {
	return "invalid request payload: " + e.err.Error()
}

func (e *decodeError) Unwrap() error {
	return e.err
}

func decodeJSON(req Request, limit int64, dst any) error {
	body := req.Body()
	if body == nil {
		return &decodeError{err: document.NewError(document.KindValidation, "request body is required", nil)}
	}
	defer body.Close()

	decoder := json.NewDecoder(io.LimitReader(body, limit))
	if err := decoder.Decode(dst); err != nil {
		if err == io.EOF {
			err = document.NewError(document.KindValidation, "request body is required", nil)
		}
		return &decodeError{err: err}
	}
	return nil
}

// generateFromQuery builds a generate request from GET parameters.
func generateFromQuery(req Request) document.GenerateRequest {
	opts := optionsFromQuery(req)
	return document.GenerateRequest{
		Kind:    document.Kind(strings.TrimSpace(req.Query("type"))),
		Options: &opts,
	}
}

func optionsFromQuery(req Request) document.DocumentOptions {
	return document.DocumentOptions{
		Title:       strings.TrimSpace(req.Query("title")),
		Orientation: document.Orientation(strings.TrimSpace(req.Query("orientation"))),
		PageSize:    strings.TrimSpace(req.Query("pageSize")),
		Locale:      strings.TrimSpace(req.Query("locale")),
		Timezone:    strings.TrimSpace(req.Query("timezone")),
	}
}
