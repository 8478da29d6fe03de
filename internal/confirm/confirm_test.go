package confirm

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunc_Adapts(t *testing.T) {
	var got Request
	c := Func(func(ctx context.Context, req Request) (bool, error) {
		got = req
		return true, nil
	})

	ok, err := c.Confirm(context.Background(), Request{Tool: "write_file", Summary: "details"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "write_file", got.Tool)
	assert.Equal(t, "details", got.Summary)
}

func TestWithTimeout_PassesThroughDecision(t *testing.T) {
	approve := WithTimeout(Func(func(ctx context.Context, req Request) (bool, error) {
		return true, nil
	}), time.Second)
	ok, err := approve.Confirm(context.Background(), Request{Tool: "x"})
	require.NoError(t, err)
	assert.True(t, ok)

	deny := WithTimeout(Func(func(ctx context.Context, req Request) (bool, error) {
		return false, nil
	}), time.Second)
	ok, err = deny.Confirm(context.Background(), Request{Tool: "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWithTimeout_ExpiryDenies(t *testing.T) {
	slow := Func(func(ctx context.Context, req Request) (bool, error) {
		select {
		case <-ctx.Done():
			return false, ctx.Err()
		case <-time.After(10 * time.Second):
			return true, nil
		}
	})

	start := time.Now()
	ok, err := WithTimeout(slow, 50*time.Millisecond).Confirm(context.Background(), Request{Tool: "x"})
	assert.False(t, ok)
	assert.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestWithTimeout_ErrorIsDenial(t *testing.T) {
	failing := Func(func(ctx context.Context, req Request) (bool, error) {
		return true, errors.New("channel broke")
	})

	ok, err := WithTimeout(failing, time.Second).Confirm(context.Background(), Request{Tool: "x"})
	assert.False(t, ok, "an error can never approve")
	assert.Error(t, err)
}
