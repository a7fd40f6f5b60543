package middleware

import (
	"net/http"
	"strings"
	"sync"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

// BrotliConfig tunes response compression. Responses shorter than
// MinLength are sent uncompressed; Skipper exempts individual requests.
type BrotliConfig struct {
	Quality   int
	MinLength int
	Skipper   func(c *gin.Context) bool
}

var defaultBrotliConfig = BrotliConfig{
	Quality:   brotli.DefaultCompression,
	MinLength: 1024,
}

// brWriter buffers the response until MinLength is reached, then switches
// the connection to brotli. Small bodies never pay the encoding header.
type brWriter struct {
	gin.ResponseWriter
	enc        *brotli.Writer
	buf        []byte
	minLength  int
	headerOnce sync.Once
	compressed bool
}

func (w *brWriter) Write(data []byte) (int, error) {
	w.buf = append(w.buf, data...)

	if len(w.buf) >= w.minLength {
		w.headerOnce.Do(func() {
			w.compressed = true
			w.ResponseWriter.Header().Set("Content-Encoding", "br")
			w.ResponseWriter.Header().Del("Content-Length")
		})
		n, err := w.enc.Write(w.buf)
		w.buf = w.buf[:0]
		return n, err
	}

	return len(data), nil
}

func (w *brWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

// Flush satisfies gin.ResponseWriter for streaming handlers. Anything
// still buffered goes out uncompressed.
func (w *brWriter) Flush() {
	if len(w.buf) > 0 {
		_, _ = w.ResponseWriter.Write(w.buf)
		w.buf = w.buf[:0]
	}
	w.ResponseWriter.Flush()
}

func (w *brWriter) drain() error {
	if len(w.buf) == 0 {
		return nil
	}
	_, err := w.ResponseWriter.Write(w.buf)
	w.buf = w.buf[:0]
	return err
}

// Brotli compresses responses with the default configuration.
func Brotli() gin.HandlerFunc {
	return BrotliWithConfig(defaultBrotliConfig)
}

// BrotliWithConfig compresses responses for clients that advertise br
// support. Streaming protocols pass through untouched.
func BrotliWithConfig(cfg BrotliConfig) gin.HandlerFunc {
	if cfg.Quality < brotli.BestSpeed || cfg.Quality > brotli.BestCompression {
		cfg.Quality = brotli.DefaultCompression
	}
	if cfg.MinLength <= 0 {
		cfg.MinLength = defaultBrotliConfig.MinLength
	}

	return func(c *gin.Context) {
		if isStreamingRequest(c) || (cfg.Skipper != nil && cfg.Skipper(c)) {
			c.Next()
			return
		}
		if !clientAcceptsBrotli(c.Request) {
			c.Next()
			return
		}

		c.Header("Vary", "Accept-Encoding")

		w := &brWriter{
			ResponseWriter: c.Writer,
			minLength:      cfg.MinLength,
			enc:            brotli.NewWriterLevel(c.Writer, cfg.Quality),
		}

		defer func() {
			if err := w.drain(); err != nil {
				_ = c.Error(err)
			}
			if w.compressed {
				w.enc.Close()
			}
		}()

		c.Writer = w
		c.Next()
	}
}

// isStreamingRequest reports whether the request expects an unbuffered
// response. Event streams need every write flushed immediately, and a
// WebSocket handshake fails if the response is wrapped.
func isStreamingRequest(c *gin.Context) bool {
	if strings.Contains(c.GetHeader("Accept"), "text/event-stream") {
		return true
	}
	return strings.EqualFold(c.GetHeader("Upgrade"), "websocket")
}

func clientAcceptsBrotli(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		if strings.TrimSpace(strings.ToLower(enc)) == "br" {
			return true
		}
	}
	return false
}
