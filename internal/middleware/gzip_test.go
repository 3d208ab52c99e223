package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoJSON возвращает тело запроса внутри JSON-ответа.
func echoJSON(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	defer r.Body.Close()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write([]byte(`{"echo":` + string(body) + `}`))
}

func gzipBytes(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return &buf
}

func TestDecompressRequest(t *testing.T) {
	const payload = `{"id":"tarot-reading","price":799}`

	tests := []struct {
		name           string
		compressedBody bool
	}{
		{name: "plain body"},
		{name: "gzip body", compressedBody: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body io.Reader = strings.NewReader(payload)
			req := httptest.NewRequest(http.MethodPost, "/api/admin/services", nil)
			if tt.compressedBody {
				body = gzipBytes(t, payload)
				req.Header.Set("Content-Encoding", "gzip")
			}
			req.Body = io.NopCloser(body)

			w := httptest.NewRecorder()
			DecompressRequest(http.HandlerFunc(echoJSON)).ServeHTTP(w, req)

			res := w.Result()
			defer res.Body.Close()

			assert.Equal(t, http.StatusCreated, res.StatusCode)
			assert.Equal(t, "application/json", res.Header.Get("Content-Type"))
			assert.Empty(t, res.Header.Get("Content-Encoding"))

			got, err := io.ReadAll(res.Body)
			require.NoError(t, err)
			assert.JSONEq(t, `{"echo":`+payload+`}`, string(got))
		})
	}
}

func TestDecompressRequest_BrokenBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/blog", strings.NewReader("not gzip at all"))
	req.Header.Set("Content-Encoding", "gzip")

	w := httptest.NewRecorder()
	DecompressRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})).ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
