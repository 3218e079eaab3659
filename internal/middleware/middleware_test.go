package middleware

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/college-registration/internal/database"
	"github.com/stemsi/college-registration/internal/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "college.db")
	db, err := sql.Open(database.DriverName, database.DSN(path))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestRequestConnScopesConnectionToRequest(t *testing.T) {
	db := openDB(t)

	var inUseDuring int
	r := gin.New()
	r.Use(gin.Recovery(), RequestConn(db, zerolog.Nop()))
	r.GET("/ok", func(c *gin.Context) {
		conn := GetConn(c)
		if conn == nil {
			t.Errorf("no connection in context")
			c.Status(http.StatusInternalServerError)
			return
		}
		if err := conn.PingContext(c.Request.Context()); err != nil {
			t.Errorf("ping: %v", err)
		}
		inUseDuring = db.Stats().InUse
		c.Status(http.StatusOK)
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("handler exploded")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if inUseDuring != 1 {
		t.Fatalf("in use during request = %d, want 1", inUseDuring)
	}
	if got := db.Stats().InUse; got != 0 {
		t.Fatalf("in use after request = %d, want 0", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("panic status = %d", w.Code)
	}
	if got := db.Stats().InUse; got != 0 {
		t.Fatalf("in use after panic = %d, want 0", got)
	}
}

func TestRequestConnClosedPool(t *testing.T) {
	db := openDB(t)
	_ = db.Close()

	called := false
	r := gin.New()
	r.Use(RequestConn(db, zerolog.Nop()))
	r.GET("/", func(c *gin.Context) { called = true })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if called {
		t.Fatalf("handler ran without a connection")
	}
}

func TestGetConnWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if GetConn(c) != nil {
		t.Fatalf("expected nil connection")
	}
}

func TestBrotliCompressesLargeBodies(t *testing.T) {
	page := strings.Repeat("<tr><td>Asha</td></tr>", 200)
	r := gin.New()
	r.Use(Brotli())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, page) })
	r.GET("/small", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip, br;q=0.9")
	r.ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q, want br", w.Header().Get("Content-Encoding"))
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != page {
		t.Fatalf("decoded body mismatch (%d bytes)", len(decoded))
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/small", nil)
	req.Header.Set("Accept-Encoding", "br")
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" {
		t.Fatalf("small body compressed")
	}
	if w.Body.String() != "ok" {
		t.Fatalf("body = %q", w.Body.String())
	}
}

func TestBrotliFlushKeepsEncoding(t *testing.T) {
	r := gin.New()
	r.Use(Brotli())
	r.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
		_, _ = c.Writer.WriteString("first ")
		c.Writer.Flush()
		_, _ = c.Writer.WriteString("second")
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "br")
	r.ServeHTTP(w, req)

	if !w.Flushed {
		t.Fatalf("flush did not reach the underlying writer")
	}
	if w.Header().Get("Content-Encoding") != "br" {
		t.Fatalf("Content-Encoding = %q, want br", w.Header().Get("Content-Encoding"))
	}
	decoded, err := io.ReadAll(brotli.NewReader(bytes.NewReader(w.Body.Bytes())))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if string(decoded) != "first second" {
		t.Fatalf("decoded body = %q", decoded)
	}
}

func TestBrotliSkipsPosts(t *testing.T) {
	r := gin.New()
	r.Use(Brotli())
	r.POST("/add_student", func(c *gin.Context) {
		c.String(http.StatusConflict, strings.Repeat("x", 4096))
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/add_student", nil)
	req.Header.Set("Accept-Encoding", "br")
	r.ServeHTTP(w, req)
	if w.Header().Get("Content-Encoding") != "" {
		t.Fatalf("post response compressed")
	}
	if w.Code != http.StatusConflict {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestCacheHeaders(t *testing.T) {
	r := gin.New()
	r.GET("/static", CacheControl(24*time.Hour), func(c *gin.Context) {})
	r.GET("/", NoStore(), func(c *gin.Context) {})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/static", nil))
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Fatalf("Cache-Control = %q", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control = %q", got)
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf)

	r := gin.New()
	r.Use(response.RequestIDMiddleware(), RequestLogger(log))
	r.POST("/add_student", func(c *gin.Context) { c.String(http.StatusBadRequest, "nope") })

	req := httptest.NewRequest(http.MethodPost, "/add_student", nil)
	req.Header.Set("X-Request-ID", "req-1")
	r.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log %q: %v", buf.String(), err)
	}
	if entry["level"] != "warn" {
		t.Fatalf("level = %v, want warn", entry["level"])
	}
	if entry["status"] != float64(http.StatusBadRequest) {
		t.Fatalf("status = %v", entry["status"])
	}
	if entry["request_id"] != "req-1" || entry["path"] != "/add_student" {
		t.Fatalf("entry = %v", entry)
	}
}
