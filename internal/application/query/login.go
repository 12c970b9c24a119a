// Package query contains read operations (CQRS - Queries).
package query

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/alem-hub/student-id-registry/internal/domain/identifier"
	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// LOGIN QUERY
// Looks up a typed identifier by exact match against the loaded records.
// ══════════════════════════════════════════════════════════════════════════════

// ErrChecksumMismatch is returned when pre-validation rejects the typed ID.
var ErrChecksumMismatch = shared.NewDomainError("identifier", "Validate", shared.ErrInvalidInput, "check digit does not match")

// LoginQuery contains the typed identifier.
type LoginQuery struct {
	StudentID string
}

// Validate normalizes the input and rejects anything that is not a digit string.
func (q *LoginQuery) Validate() error {
	q.StudentID = strings.TrimSpace(q.StudentID)
	if !identifier.IsDigits(q.StudentID) {
		return shared.ErrMalformedIdentifier
	}
	return nil
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Student   *student.Student
	FromCache bool
}

// LoginHandler handles LoginQuery.
type LoginHandler struct {
	registry    *student.Registry
	cache       student.Cache
	cacheTTL    time.Duration
	preValidate bool
	log         *logger.Logger
}

// LoginOption configures a LoginHandler.
type LoginOption func(*LoginHandler)

// WithCache fronts registry lookups with a cache. A zero ttl leaves the
// expiry to the cache implementation.
func WithCache(c student.Cache, ttl time.Duration) LoginOption {
	return func(h *LoginHandler) {
		h.cache = c
		h.cacheTTL = ttl
	}
}

// WithPreValidate rejects IDs with a wrong check digit before any lookup.
func WithPreValidate(on bool) LoginOption {
	return func(h *LoginHandler) { h.preValidate = on }
}

// NewLoginHandler creates a new LoginHandler.
func NewLoginHandler(registry *student.Registry, log *logger.Logger, opts ...LoginOption) *LoginHandler {
	if log == nil {
		log = logger.Nop()
	}
	h := &LoginHandler{
		registry: registry,
		log:      log.With(logger.Component("login")),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Handle performs the login lookup.
// Cache failures are logged and fall through to the registry.
func (h *LoginHandler) Handle(ctx context.Context, q LoginQuery) (*LoginResult, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	if h.preValidate && !identifier.Validate(q.StudentID) {
		h.log.Debug("login rejected by checksum", logger.StudentID(q.StudentID))
		return nil, ErrChecksumMismatch
	}

	if h.cache != nil {
		s, err := h.cache.Get(ctx, q.StudentID)
		if err == nil && s != nil {
			return h.confirmCached(ctx, q.StudentID)
		}
		if err != nil && !isCacheMiss(err) {
			h.log.Warn("cache lookup failed", logger.StudentID(q.StudentID), logger.Err(err))
		}
	}

	s, err := h.registry.FindByID(q.StudentID)
	if err != nil {
		return nil, err
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, s, h.cacheTTL); err != nil {
			h.log.Warn("cache store failed", logger.StudentID(s.StudentID), logger.Err(err))
		}
	}

	h.log.Info("login succeeded", logger.StudentID(s.StudentID), logger.Bool("from_cache", false))
	return &LoginResult{Student: s}, nil
}

// confirmCached accepts a cache hit only while the registry still holds the ID.
// Cache entries outlive the process, so stale ones are dropped here.
func (h *LoginHandler) confirmCached(ctx context.Context, studentID string) (*LoginResult, error) {
	s, err := h.registry.FindByID(studentID)
	if err != nil {
		if ierr := h.cache.Invalidate(ctx, studentID); ierr != nil {
			h.log.Warn("cache invalidate failed", logger.StudentID(studentID), logger.Err(ierr))
		}
		h.log.Debug("stale cache entry dropped", logger.StudentID(studentID))
		return nil, err
	}
	h.log.Info("login succeeded", logger.StudentID(s.StudentID), logger.Bool("from_cache", true))
	return &LoginResult{Student: s, FromCache: true}, nil
}

// isCacheMiss matches any cache miss sentinel that reports itself through errors.Is
// against shared.ErrNotFound.
func isCacheMiss(err error) bool {
	return errors.Is(err, shared.ErrNotFound)
}
