package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/civicvoice/platform/internal/api/metrics"
	redisdb "github.com/civicvoice/platform/internal/infrastructure/db/redis"
)

// Cache serves GET list/stats responses from the Redis response cache and
// invalidates the resource's tag after any successful mutation. The cache key
// is the request path plus its raw query string, so page, limit, status and
// search variants cache independently, mirroring the client-side query-key
// contract.
func Cache(rc *redisdb.ResponseCache, resource string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			if c.Request().Method != http.MethodGet {
				if err := next(c); err != nil {
					return err
				}
				if c.Response().Status < 400 {
					// Mutation succeeded: every cached query of this
					// resource is now stale.
					_ = rc.Invalidate(ctx, resource)
				}
				return nil
			}

			key := cacheKey(c)
			if payload, ok, err := rc.Get(ctx, resource, key); err == nil && ok {
				metrics.CacheRequestsTotal.WithLabelValues(resource, "hit").Inc()
				return c.JSONBlob(http.StatusOK, payload)
			}
			metrics.CacheRequestsTotal.WithLabelValues(resource, "miss").Inc()

			rec := &captureWriter{ResponseWriter: c.Response().Writer}
			c.Response().Writer = rec

			if err := next(c); err != nil {
				return err
			}
			if c.Response().Status == http.StatusOK && rec.buf.Len() > 0 {
				_ = rc.Set(ctx, resource, key, rec.buf.Bytes())
			}
			return nil
		}
	}
}

func cacheKey(c echo.Context) string {
	sum := sha256.Sum256([]byte(c.Request().URL.Path + "?" + c.Request().URL.RawQuery))
	return hex.EncodeToString(sum[:16])
}

// captureWriter tees the response body so a 200 can be stored after it has
// been written to the client.
type captureWriter struct {
	http.ResponseWriter
	buf bytes.Buffer
}

func (w *captureWriter) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}
