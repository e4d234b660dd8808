package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/dohelmoto/backend/api/responses"
	"github.com/dohelmoto/backend/api/validators"
	catalogsvc "github.com/dohelmoto/backend/internal/catalog"
	pkgerrors "github.com/dohelmoto/backend/pkg/errors"
	"github.com/dohelmoto/backend/pkg/logger"
)

// ListCategories returns every category, ordered by Hebrew name.
func ListCategories(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, categories)
	}
}

// ListProducts returns the public product listing with search, category
// filtering and pagination.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := parseListProductsInput(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct returns one product with its category name resolved.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

func parseListProductsInput(r *http.Request) (catalogsvc.ListProductsInput, error) {
	params, err := parsePagination(r)
	if err != nil {
		return catalogsvc.ListProductsInput{}, err
	}

	input := catalogsvc.ListProductsInput{
		Query:      validators.SanitizeString(r.URL.Query().Get("search"), 200),
		Pagination: params,
	}

	if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
		categoryID, err := uuid.Parse(raw)
		if err != nil {
			return catalogsvc.ListProductsInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category filter")
		}
		input.CategoryID = &categoryID
	}

	return input, nil
}
