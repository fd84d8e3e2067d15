package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	cause := &Error{Type: ErrorTypeNotFound, Message: "resource not found", Code: 404}
	err := Wrap(ErrorTypeAssetFetch, cause, "failed to fetch asset").WithKey("assets/logo.png")

	assert.Equal(t,
		"asset_fetch error: failed to fetch asset (asset assets/logo.png): not_found error (code 404): resource not found",
		err.Error())
}

func TestTypeOfAndIs(t *testing.T) {
	cause := New(ErrorTypeAuth, "authentication failed")
	err := fmt.Errorf("run aborted: %w", Wrap(ErrorTypeListing, cause, "failed to list assets"))

	assert.Equal(t, ErrorTypeListing, TypeOf(err))
	assert.True(t, Is(err, ErrorTypeListing))
	assert.True(t, Is(err, ErrorTypeAuth))
	assert.False(t, Is(err, ErrorTypeIO))
	assert.Equal(t, ErrorTypeUnknown, TypeOf(fmt.Errorf("plain")))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, 0},
		{New(ErrorTypeSetup, "exists"), 2},
		{New(ErrorTypeListing, "x"), 3},
		{New(ErrorTypeAssetFetch, "x"), 4},
		{New(ErrorTypeIO, "x"), 5},
		{fmt.Errorf("wrapped: %w", New(ErrorTypeArchive, "x")), 6},
		{fmt.Errorf("plain"), 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ExitCode(tt.err))
	}
}

func TestStatusType(t *testing.T) {
	assert.Equal(t, ErrorTypeAuth, StatusType(401))
	assert.Equal(t, ErrorTypeAuth, StatusType(403))
	assert.Equal(t, ErrorTypeNotFound, StatusType(404))
	assert.Equal(t, ErrorTypeRateLimit, StatusType(429))
	assert.Equal(t, ErrorTypeServerError, StatusType(503))
	assert.Equal(t, ErrorTypeUnknown, StatusType(422))
}
