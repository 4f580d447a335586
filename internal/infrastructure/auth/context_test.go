package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOperatorContext(t *testing.T) {
	_, ok := OperatorFromContext(context.Background())
	assert.False(t, ok)

	ctx := WithOperator(context.Background(), &Operator{ID: "op-1", Role: RoleOperator})
	op, ok := OperatorFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "op-1", op.ID)

	_, ok = OperatorFromContext(WithOperator(context.Background(), nil))
	assert.False(t, ok)
}
