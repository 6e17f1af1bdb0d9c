package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainError(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{name: "validation", err: NewValidationError("bad", nil), wantCode: CodeValidation, wantStatus: http.StatusBadRequest},
		{name: "wrapped forbidden", err: fmt.Errorf("edit: %w", NewForbidden("nope")), wantCode: CodeForbidden, wantStatus: http.StatusForbidden},
		{name: "no rows", err: pgx.ErrNoRows, wantCode: CodeNotFound, wantStatus: http.StatusNotFound},
		{name: "duplicate username", err: NewDuplicateUsername("alice"), wantCode: CodeDuplicateUsername, wantStatus: http.StatusConflict},
		{name: "credentials", err: NewInvalidCredentials(), wantCode: CodeInvalidCredentials, wantStatus: http.StatusUnauthorized},
		{name: "unknown", err: errors.New("boom"), wantCode: CodeInternal, wantStatus: http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ToDomainError(tc.err)
			if got.Code != tc.wantCode {
				t.Fatalf("expected code %s, got %s", tc.wantCode, got.Code)
			}
			if got.HTTPStatus != tc.wantStatus {
				t.Fatalf("expected status %d, got %d", tc.wantStatus, got.HTTPStatus)
			}
		})
	}
	if ToDomainError(nil) != nil {
		t.Fatal("nil error must map to nil")
	}
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("wrap: %w", NewDuplicateEmail("a@x.com"))
	if !errors.Is(err, ErrDuplicateEmail) {
		t.Fatal("expected duplicate email match")
	}
	if errors.Is(err, ErrDuplicateUsername) {
		t.Fatal("duplicate email must not match duplicate username")
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	err := NewInternalError(errors.New("connection reset"))
	de := ToDomainError(err)
	if de.Message != "internal server error" {
		t.Fatalf("unexpected message %q", de.Message)
	}
	if !errors.Is(err, de.Err) {
		t.Fatal("cause should remain reachable through Unwrap")
	}
}
