// Package backend implements the domain repositories on top of the payroll
// backend's REST API.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/paydesk/payroll-console/internal/pkg/restclient"
)

// call sends one request and decodes the answer found under key into out.
// The backend is not consistent about wrapping, so a bare body is accepted too.
func call(ctx context.Context, c *restclient.Client, method, path string, query url.Values, body any, key string, out any) error {
	var raw json.RawMessage
	if err := c.Do(ctx, method, path, query, body, &raw); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return unwrap(raw, key, out)
}

func get(ctx context.Context, c *restclient.Client, path string, query url.Values, key string, out any) error {
	return call(ctx, c, http.MethodGet, path, query, nil, key, out)
}

func unwrap(raw json.RawMessage, key string, out any) error {
	if len(raw) == 0 {
		return nil
	}
	if key != "" {
		var wrapped map[string]json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err == nil {
			if inner, ok := wrapped[key]; ok {
				raw = inner
			}
		}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %q: %w", key, err)
	}
	return nil
}

// translate maps a backend 404 to the domain's not-found sentinel.
func translate(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if notFound != nil && errors.Is(err, restclient.ErrNotFound) {
		return notFound
	}
	return err
}

func companyQuery(companyID string) url.Values {
	if companyID == "" {
		return nil
	}
	return url.Values{"companyId": {companyID}}
}

func escape(segment string) string {
	return url.PathEscape(segment)
}
