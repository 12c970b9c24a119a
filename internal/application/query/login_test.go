package query

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alem-hub/student-id-registry/internal/domain/shared"
	"github.com/alem-hub/student-id-registry/internal/domain/student"
)

func seededRegistry() *student.Registry {
	reg := student.NewRegistry(nil)
	reg.Add(&student.Student{
		FirstName: "Dana", LastName: "Omarova",
		Major: student.MajorSoftwareEngineering, MajorName: "Software Engineering",
		StartYear: "2025", Serial: "3123", StudentID: "2202531231",
	})
	return reg
}

type memCache struct {
	items map[string]*student.Student
	sets  int
	fail  error
}

func newMemCache() *memCache { return &memCache{items: map[string]*student.Student{}} }

func (m *memCache) Get(_ context.Context, id string) (*student.Student, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	s, ok := m.items[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return s, nil
}

func (m *memCache) Set(_ context.Context, s *student.Student, _ time.Duration) error {
	m.sets++
	m.items[s.StudentID] = s
	return nil
}

func (m *memCache) Invalidate(_ context.Context, id string) error {
	delete(m.items, id)
	return nil
}

func TestLogin(t *testing.T) {
	h := NewLoginHandler(seededRegistry(), nil)

	t.Run("registered id", func(t *testing.T) {
		res, err := h.Handle(context.Background(), LoginQuery{StudentID: " 2202531231 "})
		require.NoError(t, err)
		assert.Equal(t, "Dana", res.Student.FirstName)
		assert.False(t, res.FromCache)
	})

	t.Run("letters", func(t *testing.T) {
		_, err := h.Handle(context.Background(), LoginQuery{StudentID: "22025a1231"})
		assert.ErrorIs(t, err, shared.ErrMalformedIdentifier)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := h.Handle(context.Background(), LoginQuery{})
		assert.ErrorIs(t, err, shared.ErrMalformedIdentifier)
	})

	t.Run("unknown", func(t *testing.T) {
		_, err := h.Handle(context.Background(), LoginQuery{StudentID: "2202531232"})
		assert.ErrorIs(t, err, shared.ErrStudentNotFound)
	})
}

func TestLogin_PreValidate(t *testing.T) {
	reg := seededRegistry()

	// Stored with a wrong check digit: exact match finds it without pre-validation.
	reg.Add(&student.Student{FirstName: "Bad", StudentID: "2202531239"})

	plain := NewLoginHandler(reg, nil)
	_, err := plain.Handle(context.Background(), LoginQuery{StudentID: "2202531239"})
	require.NoError(t, err)

	strict := NewLoginHandler(reg, nil, WithPreValidate(true))
	_, err = strict.Handle(context.Background(), LoginQuery{StudentID: "2202531239"})
	assert.ErrorIs(t, err, ErrChecksumMismatch)

	_, err = strict.Handle(context.Background(), LoginQuery{StudentID: "2202531231"})
	assert.NoError(t, err)
}

func TestLogin_Cache(t *testing.T) {
	cache := newMemCache()
	h := NewLoginHandler(seededRegistry(), nil, WithCache(cache, time.Minute))

	res, err := h.Handle(context.Background(), LoginQuery{StudentID: "2202531231"})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
	assert.Equal(t, 1, cache.sets)

	res, err = h.Handle(context.Background(), LoginQuery{StudentID: "2202531231"})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, 1, cache.sets)
}

func TestLogin_StaleCacheEntry(t *testing.T) {
	cache := newMemCache()
	cache.items["2202531231"] = &student.Student{FirstName: "Ghost", StudentID: "2202531231"}
	h := NewLoginHandler(student.NewRegistry(nil), nil, WithCache(cache, time.Minute))

	res, err := h.Handle(context.Background(), LoginQuery{StudentID: "2202531231"})
	assert.ErrorIs(t, err, shared.ErrStudentNotFound)
	assert.Nil(t, res)
	assert.NotContains(t, cache.items, "2202531231")
}

func TestLogin_CacheHitReturnsRegistryRecord(t *testing.T) {
	cache := newMemCache()
	cache.items["2202531231"] = &student.Student{FirstName: "Old", StudentID: "2202531231"}
	h := NewLoginHandler(seededRegistry(), nil, WithCache(cache, time.Minute))

	res, err := h.Handle(context.Background(), LoginQuery{StudentID: "2202531231"})
	require.NoError(t, err)
	assert.True(t, res.FromCache)
	assert.Equal(t, "Dana", res.Student.FirstName)
}

func TestLogin_CacheFailureFallsBack(t *testing.T) {
	cache := newMemCache()
	cache.fail = errors.New("connection refused")
	h := NewLoginHandler(seededRegistry(), nil, WithCache(cache, time.Minute))

	res, err := h.Handle(context.Background(), LoginQuery{StudentID: "2202531231"})
	require.NoError(t, err)
	assert.False(t, res.FromCache)
}

func TestListStudents(t *testing.T) {
	reg := seededRegistry()
	reg.Add(&student.Student{FirstName: "Erlan", MajorName: "Cyber Security", StudentID: "1"})

	rows := NewListStudentsHandler(reg).Handle()
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Position)
	assert.Equal(t, "Software Engineering", rows[0].Major)
	assert.Equal(t, 2, rows[1].Position)
	assert.Equal(t, "Erlan", rows[1].FirstName)
}
