package planner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"store-route-assistant/internal/ports"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// Responses larger than this are treated as malformed.
const maxBodyBytes = 4 << 20

func (p *HTTPPlanner) newRequest(
	ctx context.Context,
	method string,
	path string,
	body []byte,
) (*retryablehttp.Request, error) {
	var raw interface{}
	if body != nil {
		raw = body
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, p.baseURL+path, raw)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return req, nil
}

// do sends req and returns the body of a successful response. Every failure
// comes back as a *ports.TransportError carrying the user-facing message.
func (p *HTTPPlanner) do(req *retryablehttp.Request) ([]byte, error) {
	resp, err := p.session.Do(req)
	if err != nil {
		return nil, &ports.TransportError{Message: "Network error", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &ports.TransportError{Message: "Network error", Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ports.TransportError{
			Status:  resp.StatusCode,
			Message: errorMessage(body),
		}
	}

	return body, nil
}

// errorMessage extracts the server's {"error": "..."} text, falling back to
// a generic message when there is none.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if e := gjson.GetBytes(body, "error"); e.Type == gjson.String && strings.TrimSpace(e.Str) != "" {
			return e.Str
		}
	}
	return "API error"
}

// retryPolicy retries transient failures: network errors and 429/5xx
// responses other than 501. The request context always wins.
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}

	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) {
			return true, nil
		}
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}
