package middleware

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func bodyReadingHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := io.ReadAll(r.Body); err != nil {
			w.WriteHeader(http.StatusRequestEntityTooLarge)
			return
		}
		w.WriteHeader(http.StatusOK)
	})
}

// A transaction import batch of 1.5 MiB fits under the default limit;
// anything past 2 MiB is cut off.
func TestMaxBytes_DefaultFitsImportBatch(t *testing.T) {
	h := MaxBytes(DefaultMaxBodyBytes)(bodyReadingHandler())

	big := strings.NewReader(strings.Repeat("x", 3<<19)) // 1.5 MiB
	req := httptest.NewRequest("POST", "/v1/payments/import", big)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Errorf("1.5 MiB body: got %d, want 200", rr.Code)
	}

	huge := strings.NewReader(strings.Repeat("x", 2<<20+1))
	req = httptest.NewRequest("POST", "/v1/payments/import", huge)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("over-limit body: got %d, want 413", rr.Code)
	}
}

func TestRequestLog_SkipsQuietPaths(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	var served []string
	h := RequestLog(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served = append(served, r.URL.Path)
	}))

	for _, path := range []string{"/health", "/ready", "/metrics"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	if buf.Len() != 0 {
		t.Errorf("quiet paths were logged: %s", buf.String())
	}
	if len(served) != 3 {
		t.Errorf("handler ran %d times, want 3", len(served))
	}

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/v1/recipients", nil))
	if !strings.Contains(buf.String(), "/v1/recipients") {
		t.Error("regular request was not logged")
	}
}
