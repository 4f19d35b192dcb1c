package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_WithfKeepsCode(t *testing.T) {
	err := ErrNotFound.Withf("producto %q no encontrado", "p9")

	assert.Equal(t, `producto "p9" no encontrado`, err.Error())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrInvalidInput))
	assert.True(t, errors.Is(fmt.Errorf("seed: %w", err), ErrNotFound))
}
