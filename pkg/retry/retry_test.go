package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDo_RetriesRetryableErrors(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	var retried []int

	err := Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return Retryable(boom)
		}
		return nil
	},
		WithMaxAttempts(5),
		WithInitialDelay(time.Millisecond),
		WithJitter(0),
		WithOnRetry(func(attempt int, _ error, _ time.Duration) { retried = append(retried, attempt) }),
	)

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{1, 2}, retried)
}

func TestDo_StopsOnPlainError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0

	err := Do(context.Background(), func(context.Context) error {
		calls++
		return boom
	}, WithMaxAttempts(5), WithInitialDelay(time.Millisecond))

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestDo_ReturnsUnwrappedErrorAfterLastAttempt(t *testing.T) {
	boom := errors.New("boom")

	err := Do(context.Background(), func(context.Context) error {
		return Retryable(boom)
	}, WithMaxAttempts(2), WithInitialDelay(time.Millisecond))

	assert.Equal(t, boom, err)
	assert.False(t, IsRetryable(err))
}

func TestDo_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Do(ctx, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRetryable_Nil(t *testing.T) {
	assert.Nil(t, Retryable(nil))
}

func TestDatabaseRetrier_ExtraOptions(t *testing.T) {
	called := false
	r := DatabaseRetrier(WithOnRetry(func(int, error, time.Duration) { called = true }), WithInitialDelay(time.Millisecond))

	assert.Equal(t, 3, r.config.MaxAttempts)
	assert.Equal(t, 2*time.Second, r.config.MaxDelay)
	assert.Equal(t, time.Millisecond, r.config.InitialDelay)

	calls := 0
	err := r.Do(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return Retryable(errors.New("refused"))
		}
		return nil
	})
	assert.NoError(t, err)
	assert.True(t, called)
}
