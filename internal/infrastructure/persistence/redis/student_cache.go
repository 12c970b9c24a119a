package redis

import (
	"context"
	"time"

	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

// cachedStudent is the JSON shape stored in Redis.
type cachedStudent struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Major     int    `json:"major"`
	StartYear string `json:"start_year"`
	Serial    string `json:"serial"`
	StudentID string `json:"student_id"`
}

// StudentCache implements student.Cache using the generic Redis Cache.
type StudentCache struct {
	cache *Cache
}

// NewStudentCache creates a new StudentCache.
func NewStudentCache(cache *Cache) *StudentCache {
	return &StudentCache{cache: cache}
}

// Get returns the cached record or ErrCacheMiss.
func (s *StudentCache) Get(ctx context.Context, studentID string) (*student.Student, error) {
	var c cachedStudent
	if err := s.cache.Get(ctx, StudentKey(studentID), &c); err != nil {
		return nil, err
	}

	major := student.Major(c.Major)
	return &student.Student{
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Major:     major,
		MajorName: major.Name(),
		StartYear: c.StartYear,
		Serial:    c.Serial,
		StudentID: c.StudentID,
	}, nil
}

// Set caches a record under its student ID.
func (s *StudentCache) Set(ctx context.Context, st *student.Student, ttl time.Duration) error {
	if st == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = TTLStudentCache
	}
	return s.cache.Set(ctx, StudentKey(st.StudentID), cachedStudent{
		FirstName: st.FirstName,
		LastName:  st.LastName,
		Major:     int(st.Major),
		StartYear: st.StartYear,
		Serial:    st.Serial,
		StudentID: st.StudentID,
	}, ttl)
}

// Invalidate removes the cached record for a student ID.
func (s *StudentCache) Invalidate(ctx context.Context, studentID string) error {
	return s.cache.Delete(ctx, StudentKey(studentID))
}
