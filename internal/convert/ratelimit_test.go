package convert

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noteforge/noteforge/internal/domain"
)

type countingConverter struct {
	calls int
}

func (c *countingConverter) Convert(_ context.Context, _ domain.PageImage, role domain.PageRole) (string, error) {
	c.calls++
	return string(role), nil
}

func TestRateLimited_Delegates(t *testing.T) {
	inner := &countingConverter{}
	rl := NewRateLimited(inner, 1000, 0)

	for i := 0; i < 3; i++ {
		text, err := rl.Convert(context.Background(), domain.PageImage{Index: i}, domain.RoleMiddle)
		require.NoError(t, err)
		assert.Equal(t, "middle", text)
	}
	assert.Equal(t, 3, inner.calls)
}

func TestRateLimited_CancelledWait(t *testing.T) {
	inner := &countingConverter{}
	// One token every 100s: the second call cannot be served before the deadline.
	rl := NewRateLimited(inner, 0.01, 1)

	_, err := rl.Convert(context.Background(), domain.PageImage{}, domain.RoleFirst)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = rl.Convert(ctx, domain.PageImage{}, domain.RoleLast)
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeConversion, domain.TypeOf(err))
	assert.Equal(t, 1, inner.calls)
}
