package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorConstructors_CodesAndStatuses(t *testing.T) {
	cases := []struct {
		err    error
		code   string
		status int
	}{
		{NewValidationError("bad input", nil), CodeValidation, http.StatusBadRequest},
		{NewNotFound("ticket"), CodeNotFound, http.StatusNotFound},
		{NewUnauthorized("no token"), CodeUnauthorized, http.StatusUnauthorized},
		{NewForbidden("nope"), CodeForbidden, http.StatusForbidden},
		{NewImmutableTicket(), CodeImmutableTicket, http.StatusBadRequest},
		{NewInvalidTransition("New", "Closed"), CodeInvalidTransition, http.StatusBadRequest},
		{NewNoteRequired(), CodeNoteRequired, http.StatusBadRequest},
		{NewVersionConflict(), CodeVersionConflict, http.StatusConflict},
		{NewInternalError(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		var domainErr *DomainError
		require.True(t, errors.As(tc.err, &domainErr), "expected DomainError for %v", tc.err)
		assert.Equal(t, tc.code, domainErr.Code)
		assert.Equal(t, tc.status, domainErr.HTTPStatus)
	}
}

func TestNotFound_DoesNotLeakResourceExistence(t *testing.T) {
	// A hidden resource and a missing one must produce identical errors.
	a := ToDomainError(NewNotFound("ticket"))
	b := ToDomainError(NewNotFound("ticket"))
	assert.Equal(t, a.Message, b.Message)
	assert.Equal(t, a.Code, b.Code)
	assert.Equal(t, a.HTTPStatus, b.HTTPStatus)
}

func TestHasCode(t *testing.T) {
	err := NewVersionConflict()
	assert.True(t, HasCode(err, CodeVersionConflict))
	assert.False(t, HasCode(err, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeNotFound))
	assert.False(t, HasCode(nil, CodeNotFound))
}

func TestHasCode_WrappedError(t *testing.T) {
	wrapped := fmt.Errorf("saving ticket: %w", NewImmutableTicket())
	assert.True(t, HasCode(wrapped, CodeImmutableTicket))
}

func TestToDomainError_PassThrough(t *testing.T) {
	original := NewForbidden("no access")
	mapped := ToDomainError(original)
	assert.Equal(t, CodeForbidden, mapped.Code)
}

func TestToDomainError_NoRowsBecomesNotFound(t *testing.T) {
	mapped := ToDomainError(pgx.ErrNoRows)
	assert.Equal(t, CodeNotFound, mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

func TestToDomainError_UnknownBecomesInternal(t *testing.T) {
	mapped := ToDomainError(errors.New("connection reset"))
	assert.Equal(t, CodeInternal, mapped.Code)
	// The underlying cause stays available for logging but not for clients.
	assert.Equal(t, "internal server error", mapped.Message)
	assert.Error(t, mapped.Unwrap())
}

func TestMapError_NilStaysNil(t *testing.T) {
	assert.NoError(t, MapError(nil))
}
