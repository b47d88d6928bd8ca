package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestDomainError_Format(t *testing.T) {
	cause := errors.New("disk full")

	err := IOError("failed to write artifact", cause)
	assert.Equal(t, "[io] failed to write artifact: disk full", err.Error())
	assert.Equal(t, "failed to write artifact: disk full", err.Detail())
	assert.ErrorIs(t, err, cause)

	bare := ValidationError("no file provided", nil)
	assert.Equal(t, "[validation] no file provided", bare.Error())
	assert.Equal(t, "no file provided", bare.Detail())
}

func TestDomainError_NestedDetail(t *testing.T) {
	inner := ConversionError("API request failed", errors.New("overloaded"))
	outer := NewError(TypeOf(inner), "page 2", inner)

	assert.Equal(t, "page 2: API request failed: overloaded", outer.Detail())
	assert.Equal(t, ErrorTypeConversion, TypeOf(outer))
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{"validation", ValidationError("x", nil), ErrorTypeValidation},
		{"not found", NotFoundError("x", nil), ErrorTypeNotFound},
		{"compile", CompileError("x", nil), ErrorTypeCompile},
		{"wrapped", fmt.Errorf("outer: %w", NotFoundError("x", nil)), ErrorTypeNotFound},
		{"plain", errors.New("boom"), ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}

	assert.True(t, IsNotFound(fmt.Errorf("ctx: %w", NotFoundError("gone", nil))))
	assert.False(t, IsNotFound(IOError("io", nil)))
}

func TestNewDocument(t *testing.T) {
	doc := NewDocument(uuid.New(), "\\documentclass{article}")
	assert.Equal(t, doc.ID.String()+".tex", doc.Filename)
	assert.False(t, doc.CreatedAt.IsZero())
}
