package restclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api", 0, "service-token")
	require.NoError(t, err)
	return c
}

func TestNew_InvalidURL(t *testing.T) {
	_, err := New("not a url", 0, "")
	assert.Error(t, err)
}

func TestClient_Get_DecodesAndForwardsToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/payruns", r.URL.Path)
		assert.Equal(t, "c1", r.URL.Query().Get("companyId"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{"payRuns": []map[string]string{{"id": "p1"}}})
	})

	var out struct {
		PayRuns []struct {
			ID string `json:"id"`
		} `json:"payRuns"`
	}
	ctx := WithToken(context.Background(), "user-token")
	err := c.Get(ctx, "/payruns", url.Values{"companyId": {"c1"}}, &out)

	require.NoError(t, err)
	require.Len(t, out.PayRuns, 1)
	assert.Equal(t, "p1", out.PayRuns[0].ID)
}

func TestClient_FallsBackToServiceToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer service-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	assert.NoError(t, c.Delete(context.Background(), "/attendances/a1"))
}

func TestClient_Post_SendsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"payslipId":"s1","amount":50000,"method":"ESPECES"}`, string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"payment":{"id":"pay1"}}`))
	})

	var out struct {
		Payment struct {
			ID string `json:"id"`
		} `json:"payment"`
	}
	err := c.Post(context.Background(), "/payments", map[string]any{"payslipId": "s1", "amount": 50000, "method": "ESPECES"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "pay1", out.Payment.ID)
}

func TestClient_APIErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{"conflict", http.StatusConflict, `{"error":"Statut modifié"}`, ErrConflict, "Statut modifié"},
		{"not found", http.StatusNotFound, `{"message":"PayRun introuvable"}`, ErrNotFound, "PayRun introuvable"},
		{"bad request", http.StatusBadRequest, `{"error":{"message":"Congé déjà approuvé"}}`, ErrBadRequest, "Congé déjà approuvé"},
		{"unauthorized", http.StatusUnauthorized, ``, ErrUnauthorized, fallbackMessage},
		{"server error", http.StatusInternalServerError, `oops`, ErrUnavailable, fallbackMessage},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			err := c.Get(context.Background(), "/x", nil, nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.sentinel)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tc.status, apiErr.StatusCode)
			assert.Equal(t, tc.message, apiErr.UserMessage())
		})
	}
}

func TestClient_NetworkFailureIsUnavailable(t *testing.T) {
	c, err := New("http://127.0.0.1:1", 0, "")
	require.NoError(t, err)

	err = c.Get(context.Background(), "/payruns", nil, nil)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_PostMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Boulangerie", r.FormValue("name"))
		f, hdr, err := r.FormFile("logo")
		require.NoError(t, err)
		defer f.Close()
		assert.Equal(t, "logo.png", hdr.Filename)
		_, _ = w.Write([]byte(`{"company":{"id":"c1"}}`))
	})

	var out map[string]any
	err := c.PostMultipart(context.Background(), "/companies",
		map[string]string{"name": "Boulangerie"},
		&FilePart{Field: "logo", Filename: "logo.png", Content: []byte{0x89, 'P', 'N', 'G'}},
		&out)
	require.NoError(t, err)
	assert.Contains(t, out, "company")
}
