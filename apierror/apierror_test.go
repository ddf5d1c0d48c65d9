package apierror

import (
	"errors"
	"net/http"
	"testing"
)

func TestCodeMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    *ApiError
		code   int
		status int
	}{
		{"not found", NotFound("product"), CodeNotFound, http.StatusNotFound},
		{"duplicate", Duplicate("user"), CodeDuplicate, http.StatusConflict},
		{"constraint", Constraint("referenced"), CodeConstraint, http.StatusConflict},
		{"insufficient stock", InsufficientStock("Keyboard"), CodeInsufficientStock, http.StatusUnprocessableEntity},
		{"cart empty", CartEmpty(), CodeCartEmpty, http.StatusNotFound},
		{"invalid credentials", InvalidCredentials(), CodeInvalidCredential, http.StatusUnauthorized},
		{"forbidden", Forbidden(), CodeForbidden, http.StatusForbidden},
		{"tx failure", TxFailure(errors.New("boom")), CodeTxFailure, http.StatusInternalServerError},
		{"internal", Internal(errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("code = %d, want %d", tc.err.Code, tc.code)
			}
			if tc.err.Status != tc.status {
				t.Errorf("status = %d, want %d", tc.err.Status, tc.status)
			}
			if tc.err.Level != LevelError {
				t.Errorf("level = %q, want ERROR", tc.err.Level)
			}
		})
	}
}

func TestFrom(t *testing.T) {
	t.Run("passes ApiError through", func(t *testing.T) {
		orig := NotFound("order")
		if got := From(orig); got != orig {
			t.Errorf("From returned %v, want the original", got)
		}
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		got := From(errors.New("boom"))
		if got.Code != CodeInternal {
			t.Errorf("code = %d, want internal", got.Code)
		}
	})

	t.Run("unwraps wrapped ApiErrors", func(t *testing.T) {
		wrapped := errors.Join(errors.New("context"), CartEmpty())
		if got := From(wrapped); got.Code != CodeCartEmpty {
			t.Errorf("code = %d, want cart empty", got.Code)
		}
	})
}

func TestValidationFlattening(t *testing.T) {
	apiErr := Validation(errors.New("name is required"))
	if apiErr.Code != CodeValidation {
		t.Fatalf("code = %d, want validation", apiErr.Code)
	}
	fields, ok := apiErr.Data.([]string)
	if !ok || len(fields) != 1 {
		t.Fatalf("data = %#v, want one field message", apiErr.Data)
	}
}
