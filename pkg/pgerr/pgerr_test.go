package pgerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	uniq := &pq.Error{Code: CodeUniqueViolation, Constraint: "orders_user_slot_active_uniq"}
	wrapped := fmt.Errorf("insert: %w", uniq)

	assert.Equal(t, CodeUniqueViolation, Code(wrapped))
	assert.Equal(t, "orders_user_slot_active_uniq", Constraint(wrapped))
	assert.True(t, IsUniqueViolation(wrapped))
	assert.False(t, IsForeignKeyViolation(wrapped))

	assert.Empty(t, Code(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}
