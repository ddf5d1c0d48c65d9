package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
)

// Severity level reported alongside every error code.
type Level string

const (
	LevelOK      Level = "OK"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Error codes. Every failure surfaced to a client carries exactly one.
const (
	CodeOK                = 0
	CodeInternal          = 1000
	CodeValidation        = 1001
	CodeInvalidCredential = 1002
	CodeForbidden         = 1003
	CodeNotFound          = 1004
	CodeDuplicate         = 1005
	CodeConstraint        = 1006
	CodeInsufficientStock = 1007
	CodeCartEmpty         = 1008
	CodeTxFailure         = 1009
)

// ApiError is the single structured error type of the service: a numeric
// code, a severity level, a human description, optional contextual data
// and the HTTP status it maps to.
type ApiError struct {
	Code        int    `json:"errorCode"`
	Level       Level  `json:"errorLevel"`
	Description string `json:"errorDescription"`
	Data        any    `json:"data,omitempty"`
	Status      int    `json:"-"`
}

func (e *ApiError) Error() string {
	return fmt.Sprintf("[%d] %s", e.Code, e.Description)
}

func NotFound(resource string) *ApiError {
	return &ApiError{
		Code:        CodeNotFound,
		Level:       LevelError,
		Description: resource + " not found",
		Status:      http.StatusNotFound,
	}
}

func Duplicate(resource string) *ApiError {
	return &ApiError{
		Code:        CodeDuplicate,
		Level:       LevelError,
		Description: resource + " already exists",
		Status:      http.StatusConflict,
	}
}

func Constraint(description string) *ApiError {
	return &ApiError{
		Code:        CodeConstraint,
		Level:       LevelError,
		Description: description,
		Status:      http.StatusConflict,
	}
}

func InsufficientStock(product string) *ApiError {
	return &ApiError{
		Code:        CodeInsufficientStock,
		Level:       LevelError,
		Description: "insufficient stock for product: " + product,
		Status:      http.StatusUnprocessableEntity,
	}
}

func CartEmpty() *ApiError {
	return &ApiError{
		Code:        CodeCartEmpty,
		Level:       LevelError,
		Description: "cart not found or empty",
		Status:      http.StatusNotFound,
	}
}

func InvalidCredentials() *ApiError {
	return &ApiError{
		Code:        CodeInvalidCredential,
		Level:       LevelError,
		Description: "invalid email or password",
		Status:      http.StatusUnauthorized,
	}
}

func Forbidden() *ApiError {
	return &ApiError{
		Code:        CodeForbidden,
		Level:       LevelError,
		Description: "insufficient role for this resource",
		Status:      http.StatusForbidden,
	}
}

func TxFailure(err error) *ApiError {
	return &ApiError{
		Code:        CodeTxFailure,
		Level:       LevelError,
		Description: "transaction failed and was rolled back",
		Data:        err.Error(),
		Status:      http.StatusInternalServerError,
	}
}

func Internal(err error) *ApiError {
	return &ApiError{
		Code:        CodeInternal,
		Level:       LevelError,
		Description: "internal error",
		Data:        err.Error(),
		Status:      http.StatusInternalServerError,
	}
}

// Validation flattens request-shape failures into a list of per-field
// messages. Binding errors that are not validator errors keep the raw
// message.
func Validation(err error) *ApiError {
	var fields []string
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s failed on %q", fe.Field(), fe.Tag()))
		}
	} else {
		fields = append(fields, err.Error())
	}
	return &ApiError{
		Code:        CodeValidation,
		Level:       LevelError,
		Description: "validation failed",
		Data:        fields,
		Status:      http.StatusBadRequest,
	}
}

// From returns err as an *ApiError, wrapping unexpected errors into the
// generic internal code.
func From(err error) *ApiError {
	var apiErr *ApiError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return Internal(err)
}
