package responses

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/mercatohq/pricing-service/pkg/errors"
	"github.com/mercatohq/pricing-service/pkg/types"
)

func TestWriteSuccessEnvelope(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteSuccess(rec, map[string]string{"status": "ok"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}

	var envelope types.SuccessEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	data, ok := envelope.Data.(map[string]any)
	if !ok || data["status"] != "ok" {
		t.Fatalf("unexpected payload: %+v", envelope.Data)
	}
}

func TestWriteErrorValidationKeepsMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	err := pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1").
		WithDetails(map[string]string{"quantity": "must be at least 1"})
	WriteError(context.Background(), nil, rec, err)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if envelope.Error.Code != string(pkgerrors.CodeValidation) {
		t.Fatalf("unexpected code %q", envelope.Error.Code)
	}
	if envelope.Error.Message != "quantity must be at least 1" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
	if envelope.Error.Details == nil {
		t.Fatal("expected validation details to pass through")
	}
}

func TestWriteErrorInternalHidesMessage(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, pkgerrors.New(pkgerrors.CodeInternal, "connection pool exhausted"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}

	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode envelope: %v", err)
	}
	if envelope.Error.Message == "connection pool exhausted" {
		t.Fatal("internal detail leaked to client")
	}
}

func TestWriteErrorUntypedBecomesInternal(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	WriteError(context.Background(), nil, rec, context.DeadlineExceeded)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
