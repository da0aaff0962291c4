package middleware

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customerPayload struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// customerHandler отвечает принятой карточкой клиента и отмечает, дошёл ли до него
// заголовок Content-Encoding.
func customerHandler(w http.ResponseWriter, r *http.Request) {
	var in customerPayload
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":          true,
		"data":             in,
		"encodingStripped": r.Header.Get("Content-Encoding") == "",
	})
}

func gzipBytes(t *testing.T, raw string) *bytes.Buffer {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write([]byte(raw))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return &buf
}

func readResponse(t *testing.T, res *http.Response) []byte {
	t.Helper()

	var r io.Reader = res.Body
	if res.Header.Get("Content-Encoding") == "gzip" {
		gr, err := gzip.NewReader(res.Body)
		require.NoError(t, err)
		defer gr.Close()
		r = gr
	}

	body, err := io.ReadAll(r)
	require.NoError(t, err)
	return body
}

func TestGzipMiddleware_CustomerPayload(t *testing.T) {
	const customer = `{"name":"Ravi Kumar","phone":"9876543210"}`

	tests := []struct {
		name           string
		gzipRequest    bool
		acceptEncoding string
		wantEncoding   string
	}{
		{name: "compressed both ways", gzipRequest: true, acceptEncoding: "gzip", wantEncoding: "gzip"},
		{name: "compressed request, identity response", gzipRequest: true},
		{name: "plain request, compressed response", acceptEncoding: "gzip", wantEncoding: "gzip"},
		{name: "plain both ways"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(customer)
			if tt.gzipRequest {
				body = gzipBytes(t, customer)
			}

			req := httptest.NewRequest(http.MethodPost, "/api/customers", body)
			req.Header.Set("Content-Type", "application/json")
			if tt.gzipRequest {
				req.Header.Set("Content-Encoding", "gzip")
			}
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			w := httptest.NewRecorder()

			GzipMiddleware(http.HandlerFunc(customerHandler)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			require.Equal(t, http.StatusCreated, res.StatusCode)
			assert.Equal(t, tt.wantEncoding, res.Header.Get("Content-Encoding"))

			var got struct {
				Success          bool            `json:"success"`
				Data             customerPayload `json:"data"`
				EncodingStripped bool            `json:"encodingStripped"`
			}
			require.NoError(t, json.Unmarshal(readResponse(t, res), &got))
			assert.True(t, got.Success)
			assert.Equal(t, customerPayload{Name: "Ravi Kumar", Phone: "9876543210"}, got.Data)
			assert.True(t, got.EncodingStripped)
		})
	}
}

func TestGzipMiddleware_CompressesPlainTextLiveness(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	live := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, "ok")
	})
	GzipMiddleware(live).ServeHTTP(w, req)

	res := w.Result()
	defer res.Body.Close()

	assert.Equal(t, "gzip", res.Header.Get("Content-Encoding"))
	assert.Equal(t, "ok", string(readResponse(t, res)))
}

func TestGzipMiddleware_MalformedBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/loans", strings.NewReader(`{"principalAmount":"1000"}`))
	req.Header.Set("Content-Encoding", "gzip")
	w := httptest.NewRecorder()

	GzipMiddleware(http.HandlerFunc(customerHandler)).ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":false,"message":"malformed gzip body"}`, w.Body.String())
}

func TestGzipMiddleware_SkipsBinaryContent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/loans/export", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	export := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		_, _ = w.Write([]byte{0x1f, 0x00, 0x7f})
	})
	GzipMiddleware(export).ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Content-Encoding"))
	assert.Equal(t, []byte{0x1f, 0x00, 0x7f}, w.Body.Bytes())
}
