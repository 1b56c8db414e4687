package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	wberrors "github.com/Aman-CERP/wbadvisor/internal/errors"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: wberrors.ValidationError("bad", nil), want: ErrCodeInvalidParams},
		{name: "unknown station", err: wberrors.New(wberrors.ErrCodeUnknownStation, "x", nil), want: ErrCodeInvalidParams},
		{name: "profile not found", err: wberrors.New(wberrors.ErrCodeProfileNotFound, "x", nil), want: ErrCodeProfileNotFound},
		{name: "locked", err: wberrors.New(wberrors.ErrCodeProfileLocked, "x", nil), want: ErrCodeStoreBusy},
		{name: "storage", err: wberrors.StorageError("io", nil), want: ErrCodeStoreUnavailable},
		{name: "aircraft", err: wberrors.AircraftError("bad", nil), want: ErrCodeAircraftInvalid},
		{name: "config", err: wberrors.ConfigError("bad", nil), want: ErrCodeInternalError},
		{name: "wrapped", err: fmt.Errorf("ctx: %w", wberrors.StorageError("io", nil)), want: ErrCodeStoreUnavailable},
		{name: "no store", err: ErrNoProfileStore, want: ErrCodeStoreUnavailable},
		{name: "deadline", err: context.DeadlineExceeded, want: ErrCodeTimeout},
		{name: "canceled", err: context.Canceled, want: ErrCodeTimeout},
		{name: "unknown", err: errors.New("boom"), want: ErrCodeInternalError},
		{name: "already mapped", err: NewInvalidParamsError("x"), want: ErrCodeInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.Equal(t, tt.want, got.Code)
			assert.NotEmpty(t, got.Message)
		})
	}
}

func TestMapError_Nil(t *testing.T) {
	assert.Nil(t, MapError(nil))
}

func TestMapError_IncludesSuggestion(t *testing.T) {
	err := wberrors.ValidationError("bad weight", nil).WithSuggestion("use pilot=170")

	got := MapError(err)

	assert.Equal(t, "bad weight (use pilot=170)", got.Message)
	assert.Contains(t, got.Error(), "MCP error -32602")
}

func TestNewMethodNotFoundError(t *testing.T) {
	err := NewMethodNotFoundError("fly")
	assert.Equal(t, ErrCodeMethodNotFound, err.Code)
	assert.Contains(t, err.Message, "fly")
}
