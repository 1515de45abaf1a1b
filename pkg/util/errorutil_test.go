package util

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestToDomainErrorTranslation(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Error("nil should map to nil")
	}

	de := ToDomainError(pgx.ErrNoRows)
	if de.Code != "NOT_FOUND" || de.HTTPStatus != http.StatusNotFound {
		t.Errorf("pgx.ErrNoRows mapped to %s/%d", de.Code, de.HTTPStatus)
	}

	de = ToDomainError(errors.New("connection refused"))
	if de.Code != "STORE_ERROR" || de.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("generic error mapped to %s/%d", de.Code, de.HTTPStatus)
	}

	// DomainError passes through unchanged
	original := NewForbidden("no")
	de = ToDomainError(original)
	if de.Code != "FORBIDDEN" || de.HTTPStatus != http.StatusForbidden {
		t.Errorf("DomainError remapped to %s/%d", de.Code, de.HTTPStatus)
	}

	// wrapped DomainError still unwraps
	de = ToDomainError(NewStoreError(pgx.ErrNoRows))
	if de.Code != "STORE_ERROR" {
		t.Errorf("wrapped store error remapped to %s", de.Code)
	}
}

func TestFieldValidationError(t *testing.T) {
	err := NewFieldValidationError("title")
	var de *DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T", err)
	}
	if de.Code != "VALIDATION_FAILED" || de.Details["field"] != "title" {
		t.Errorf("got %s/%v", de.Code, de.Details)
	}
}

func TestIsCode(t *testing.T) {
	if !IsCode(NewForbidden("no"), "FORBIDDEN") {
		t.Error("IsCode missed FORBIDDEN")
	}
	if IsCode(errors.New("plain"), "FORBIDDEN") {
		t.Error("IsCode matched a plain error")
	}
	if IsCode(nil, "FORBIDDEN") {
		t.Error("IsCode matched nil")
	}
}
