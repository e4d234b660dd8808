package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/dohelmoto/backend/pkg/enums"
	pkgerrors "github.com/dohelmoto/backend/pkg/errors"
)

type stubRoleChecker struct {
	role enums.UserRole
	err  error
}

func (s stubRoleChecker) RoleByID(ctx context.Context, userID uuid.UUID) (enums.UserRole, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.role, nil
}

func okHandler() (http.Handler, *bool) {
	called := false
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}), &called
}

func TestRequireAdminAllowsAdminRow(t *testing.T) {
	next, called := okHandler()
	handler := RequireAdmin(stubRoleChecker{role: enums.UserRoleAdmin}, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !*called {
		t.Fatal("expected handler to run")
	}
}

func TestRequireAdminRejectsRegularUser(t *testing.T) {
	next, called := okHandler()
	handler := RequireAdmin(stubRoleChecker{role: enums.UserRoleUser}, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if *called {
		t.Fatal("handler should not run")
	}
}

func TestRequireAdminIgnoresTokenRoleClaim(t *testing.T) {
	// Context carries an admin role claim but storage says user. Storage wins.
	next, called := okHandler()
	handler := RequireAdmin(stubRoleChecker{role: enums.UserRoleUser}, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithUserID(req.Context(), uuid.NewString())
	ctx = WithRole(ctx, string(enums.UserRoleAdmin))
	req = req.WithContext(ctx)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
	if *called {
		t.Fatal("handler should not run")
	}
}

func TestRequireAdminRejectsMissingUser(t *testing.T) {
	next, _ := okHandler()
	handler := RequireAdmin(stubRoleChecker{role: enums.UserRoleAdmin}, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRequireAdminTreatsMissingRowAsForbidden(t *testing.T) {
	next, _ := okHandler()
	handler := RequireAdmin(stubRoleChecker{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}, nil)(next)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), uuid.NewString()))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}
