package validators

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"
)

type sampleItem struct {
	ProductID string `json:"productId" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"min=1"`
}

type sampleRequest struct {
	Items []sampleItem `json:"items" validate:"required,min=1,dive"`
}

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := typed.Details().([]pkgerrors.FieldError)
	if !ok {
		t.Fatalf("expected field error details, got %T", typed.Details())
	}
	out := make(map[string]string, len(details))
	for _, d := range details {
		out[d.Field] = d.Message
	}
	return out
}

func TestDecodeJSONBodyReportsEveryField(t *testing.T) {
	body := `{"items":[{"productId":"nope","quantity":0},{"productId":"` + uuid.NewString() + `","quantity":2}]}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))

	var dest sampleRequest
	fields := fieldsOf(t, DecodeJSONBody(req, &dest))
	if fields["items[0].productId"] != "must be a valid id" {
		t.Fatalf("unexpected productId message: %v", fields)
	}
	if fields["items[0].quantity"] != "must be at least 1" {
		t.Fatalf("unexpected quantity message: %v", fields)
	}
	if len(fields) != 2 {
		t.Fatalf("expected two failures, got %v", fields)
	}
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"items":[],"total":5}`))
	var dest sampleRequest
	if err := DecodeJSONBody(req, &dest); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDecodeJSONBodyRequiresBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	var dest sampleRequest
	err := DecodeJSONBody(req, &dest)
	if typed := pkgerrors.As(err); typed == nil || typed.Message() != "request body is required" {
		t.Fatalf("expected missing body error, got %v", err)
	}
}

func TestParseQueryInt(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?page=3&limit=500&bad=x", nil)
	if v, err := ParseQueryInt(req, "page", 1, 1, 1000); err != nil || v != 3 {
		t.Fatalf("expected 3, got %d %v", v, err)
	}
	if v, err := ParseQueryInt(req, "missing", 10, 1, 100); err != nil || v != 10 {
		t.Fatalf("expected default, got %d %v", v, err)
	}
	if _, err := ParseQueryInt(req, "limit", 10, 1, 100); err == nil {
		t.Fatalf("expected range error")
	}
	if _, err := ParseQueryInt(req, "bad", 10, 1, 100); err == nil {
		t.Fatalf("expected numeric error")
	}
}

func TestParseQueryBool(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?isActive=false&bad=maybe", nil)
	v, err := ParseQueryBool(req, "isActive")
	if err != nil || v == nil || *v {
		t.Fatalf("expected false, got %v %v", v, err)
	}
	if v, err := ParseQueryBool(req, "absent"); err != nil || v != nil {
		t.Fatalf("expected nil for absent key")
	}
	if _, err := ParseQueryBool(req, "bad"); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestURLParamUUID(t *testing.T) {
	id := uuid.New()
	rc := chi.NewRouteContext()
	rc.URLParams.Add("id", id.String())
	rc.URLParams.Add("other", "not-a-uuid")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rc))

	got, err := URLParamUUID(req, "id")
	if err != nil || got != id {
		t.Fatalf("expected %s, got %s %v", id, got, err)
	}
	if _, err := URLParamUUID(req, "other"); !pkgerrors.Is(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
