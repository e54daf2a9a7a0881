package middleware

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/angelmondragon/marketplace-backend/api/responses"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	pkgredis "github.com/angelmondragon/marketplace-backend/pkg/redis"
)

const (
	idempotencyHeader      = "Idempotency-Key"
	maxIdempotencyKeyLen   = 200
	defaultIdempotencyTTL  = 24 * time.Hour
	criticalIdempotencyTTL = 7 * 24 * time.Hour
)

// replayedHeaders are the response headers a replay must reproduce for browsers
// to follow the same redirect.
var replayedHeaders = []string{"Content-Type", "Location"}

type idempotencyRule struct {
	pattern string
	prefix  bool
	ttl     time.Duration
}

// Rules apply to POST routes; money-moving routes keep their keys for a week.
var idempotencyRules = []idempotencyRule{
	{pattern: "/checkout/place-order", ttl: criticalIdempotencyTTL},
	{pattern: "/payment/process/{orderID}", ttl: criticalIdempotencyTTL},
	{pattern: "/cart/add", ttl: defaultIdempotencyTTL},
	{pattern: "/seller/", prefix: true, ttl: defaultIdempotencyTTL},
	{pattern: "/admin/", prefix: true, ttl: defaultIdempotencyTTL},
}

func (r idempotencyRule) matches(pattern string) bool {
	if r.prefix {
		return strings.HasPrefix(pattern, r.pattern)
	}
	return pattern == r.pattern
}

func routeTTL(method, pattern string) (time.Duration, bool) {
	if method != http.MethodPost || pattern == "" {
		return 0, false
	}
	for _, rule := range idempotencyRules {
		if rule.matches(pattern) {
			return rule.ttl, true
		}
	}
	return 0, false
}

type storedResponse struct {
	Status      int               `json:"status"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        []byte            `json:"body,omitempty"`
	Fingerprint string            `json:"fingerprint"`
}

func (s storedResponse) replay(w http.ResponseWriter) {
	for name, value := range s.Headers {
		w.Header().Set(name, value)
	}
	w.Header().Set("Idempotent-Replayed", "true")
	w.WriteHeader(s.Status)
	_, _ = w.Write(s.Body)
}

// Idempotency replays the first outcome of a mutating request when the client
// retries it with the same Idempotency-Key. Keys are scoped per user and path,
// requests without the header pass through and server errors are not stored.
func Idempotency(store pkgredis.IdempotencyStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ttl, ok := routeTTL(r.Method, routePattern(r))
			clientKey := strings.TrimSpace(r.Header.Get(idempotencyHeader))
			if !ok || store == nil || clientKey == "" {
				next.ServeHTTP(w, r)
				return
			}
			if len(clientKey) > maxIdempotencyKeyLen {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "idempotency key too long"))
				return
			}

			body, err := io.ReadAll(r.Body)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read request body"))
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(body))

			fingerprint := fingerprintBody(body)
			key := store.IdempotencyKey(idempotencyScope(r), clientKey)

			raw, err := store.Get(r.Context(), key)
			switch {
			case errors.Is(err, redis.Nil):
			case err != nil:
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load idempotency record"))
				return
			case raw != "":
				var prior storedResponse
				if err := json.Unmarshal([]byte(raw), &prior); err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode idempotency record"))
					return
				}
				if prior.Fingerprint != fingerprint {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeConflict, "idempotency key reused with different request body"))
					return
				}
				prior.replay(w)
				return
			}

			capture := &bodyCapture{statusRecorder: statusRecorder{ResponseWriter: w}}
			next.ServeHTTP(capture, r)

			if capture.Status() >= http.StatusInternalServerError {
				return
			}
			record := storedResponse{
				Status:      capture.Status(),
				Headers:     map[string]string{},
				Body:        capture.body.Bytes(),
				Fingerprint: fingerprint,
			}
			for _, name := range replayedHeaders {
				if value := capture.Header().Get(name); value != "" {
					record.Headers[name] = value
				}
			}
			payload, err := json.Marshal(record)
			if err == nil {
				_, err = store.SetNX(r.Context(), key, string(payload), ttl)
			}
			if err != nil && logg != nil {
				logg.Error(r.Context(), "idempotency.persist_failed", err)
			}
		})
	}
}

func idempotencyScope(r *http.Request) string {
	return strings.Join([]string{
		strconv.FormatInt(UserIDFromContext(r.Context()), 10),
		r.Method,
		r.URL.Path,
	}, "|")
}

func fingerprintBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}

type bodyCapture struct {
	statusRecorder
	body bytes.Buffer
}

func (c *bodyCapture) Write(b []byte) (int, error) {
	c.body.Write(b)
	return c.statusRecorder.Write(b)
}
