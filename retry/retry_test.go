package retry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/tj/assert"
)

type statusErr int

func (e statusErr) Error() string   { return fmt.Sprintf("status %d", int(e)) }
func (e statusErr) StatusCode() int { return int(e) }

func fastConfig(attempts int) Config {
	return Config{MaxAttempts: attempts, BaseBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func Test_IsRetryable(t *testing.T) {
	assert.False(t, IsRetryable(nil))
	assert.False(t, IsRetryable(context.Canceled))
	assert.False(t, IsRetryable(fmt.Errorf("wrapped: %w", context.DeadlineExceeded)))
	assert.True(t, IsRetryable(statusErr(http.StatusTooManyRequests)))
	assert.True(t, IsRetryable(fmt.Errorf("policy: %w", statusErr(http.StatusBadGateway))))
	assert.False(t, IsRetryable(statusErr(http.StatusNotFound)))
	assert.False(t, IsRetryable(statusErr(http.StatusBadRequest)))
	assert.True(t, IsRetryable(errors.New("read tcp: connection reset by peer")))
	assert.True(t, IsRetryable(errors.New("unexpected EOF")))
	assert.False(t, IsRetryable(errors.New("token not found")))
}

func Test_DoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	retried := []int{}
	cfg := fastConfig(5)
	cfg.OnRetry = func(attempt int, err error) { retried = append(retried, attempt) }
	err := Do(context.Background(), cfg, func() error {
		calls++
		if calls < 3 {
			return statusErr(http.StatusServiceUnavailable)
		}
		return nil
	})
	assert.Nil(t, err)
	assert.EqualValues(t, 3, calls)
	assert.EqualValues(t, []int{2, 3}, retried)
}

func Test_DoStopsOnPermanentError(t *testing.T) {
	calls := 0
	permanent := statusErr(http.StatusNotFound)
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return permanent
	})
	assert.Equal(t, permanent, err)
	assert.EqualValues(t, 1, calls)
}

func Test_DoGivesUp(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return statusErr(http.StatusTooManyRequests)
	})
	assert.NotNil(t, err)
	assert.EqualValues(t, 3, calls)
	var sc statusErr
	assert.True(t, errors.As(err, &sc))
}

func Test_DoHonorsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	cfg := Config{MaxAttempts: 3, BaseBackoff: time.Hour, MaxBackoff: time.Hour}
	err := Do(ctx, cfg, func() error {
		calls++
		cancel()
		return statusErr(http.StatusTooManyRequests)
	})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.EqualValues(t, 1, calls)
}

func Test_CalculateBackoff(t *testing.T) {
	for attempt := 1; attempt < 10; attempt++ {
		b := calculateBackoff(time.Second, 30*time.Second, attempt)
		assert.True(t, b <= 30*time.Second)
		assert.True(t, b >= 500*time.Millisecond)
	}
}
