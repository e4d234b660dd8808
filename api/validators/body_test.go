package validators

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	pkgerrors "github.com/dohelmoto/backend/pkg/errors"
)

type samplePayload struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

func TestDecodeJSONBodyValid(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","quantity":2}`))
	var dest samplePayload
	require.NoError(t, DecodeJSONBody(r, &dest))
	require.Equal(t, "a@b.co", dest.Email)
	require.Equal(t, 2, dest.Quantity)
}

func TestDecodeJSONBodyRejectsUnknownFields(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"a@b.co","quantity":2,"extra":true}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestDecodeJSONBodyFieldMessagesUseJSONNames(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"email":"not-an-email","quantity":0}`))
	var dest samplePayload
	err := DecodeJSONBody(r, &dest)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	require.Contains(t, details, "email")
	require.Contains(t, details, "quantity")
}

func TestParseQueryInt(t *testing.T) {
	r := httptest.NewRequest("GET", "/?page=3", nil)

	got, err := ParseQueryInt(r, "page", 1, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 3, got)

	got, err = ParseQueryInt(r, "limit", 20, 1, 100)
	require.NoError(t, err)
	require.Equal(t, 20, got)

	r = httptest.NewRequest("GET", "/?page=abc", nil)
	_, err = ParseQueryInt(r, "page", 1, 1, 100)
	require.Error(t, err)

	r = httptest.NewRequest("GET", "/?page=1000", nil)
	_, err = ParseQueryInt(r, "page", 1, 1, 100)
	require.Error(t, err)
}
