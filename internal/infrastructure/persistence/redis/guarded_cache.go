package redis

import (
	"context"
	"errors"
	"time"

	"github.com/alem-hub/student-id-registry/internal/domain/student"
	"github.com/alem-hub/student-id-registry/pkg/circuitbreaker"
)

// GuardedStudentCache puts a circuit breaker in front of a student.Cache.
// While the breaker is open every call fails fast with ErrCacheConnection and
// callers go to the registry.
type GuardedStudentCache struct {
	inner   student.Cache
	breaker *circuitbreaker.CircuitBreaker
}

// NewGuardedStudentCache wraps inner. Misses do not count as failures.
func NewGuardedStudentCache(inner student.Cache, onStateChange func(name string, from, to circuitbreaker.State)) *GuardedStudentCache {
	return &GuardedStudentCache{
		inner: inner,
		breaker: circuitbreaker.CacheBreaker(onStateChange, func(err error) bool {
			return !errors.Is(err, ErrCacheMiss)
		}),
	}
}

// Breaker exposes the breaker state for logging and tests.
func (g *GuardedStudentCache) Breaker() *circuitbreaker.CircuitBreaker {
	return g.breaker
}

// Get implements student.Cache.
func (g *GuardedStudentCache) Get(ctx context.Context, studentID string) (*student.Student, error) {
	var out *student.Student
	err := g.breaker.Execute(ctx, func(ctx context.Context) error {
		s, err := g.inner.Get(ctx, studentID)
		out = s
		return err
	})
	return out, g.translate(err)
}

// Set implements student.Cache.
func (g *GuardedStudentCache) Set(ctx context.Context, s *student.Student, ttl time.Duration) error {
	return g.translate(g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.Set(ctx, s, ttl)
	}))
}

// Invalidate implements student.Cache.
func (g *GuardedStudentCache) Invalidate(ctx context.Context, studentID string) error {
	return g.translate(g.breaker.Execute(ctx, func(ctx context.Context) error {
		return g.inner.Invalidate(ctx, studentID)
	}))
}

func (g *GuardedStudentCache) translate(err error) error {
	if circuitbreaker.IsRejected(err) {
		return errors.Join(ErrCacheConnection, err)
	}
	return err
}
