package utils

import (
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestErrorStatusMapping(t *testing.T) {
	assert.Equal(t, fiber.StatusNotFound, NotFound("x").HTTPStatus())
	assert.Equal(t, fiber.StatusConflict, Conflict("x").HTTPStatus())
	assert.Equal(t, fiber.StatusUnprocessableEntity, InvalidState("x").HTTPStatus())
	assert.Equal(t, fiber.StatusBadRequest, Validation("x").HTTPStatus())
}

func TestIsKind(t *testing.T) {
	err := NotFound("slot not found")
	assert.True(t, IsKind(err, KindNotFound))
	assert.False(t, IsKind(err, KindConflict))

	wrapped := fmt.Errorf("booking failed: %w", Conflict("duplicate"))
	assert.True(t, IsKind(wrapped, KindConflict))

	assert.False(t, IsKind(fmt.Errorf("plain"), KindNotFound))
}

func TestErrorMessage(t *testing.T) {
	assert.EqualError(t, InvalidState("this booking is already CANCELLED"), "this booking is already CANCELLED")
}
