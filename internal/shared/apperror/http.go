package apperror

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HTTPError struct {
	Status  int
	Code    string
	Message string
	Details any
}

// ToHTTP turns any error returned by a service into the shape written by
// response.Error. Unknown errors are logged and hidden behind ErrInternal.
func ToHTTP(err error) HTTPError {
	if err == nil {
		return HTTPError{Status: http.StatusOK}
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		status := appErr.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		return HTTPError{
			Status:  status,
			Code:    appErr.Code,
			Message: appErr.Message,
			Details: appErr.Details,
		}
	}

	var vErrs validator.ValidationErrors
	if errors.As(err, &vErrs) {
		return ToHTTP(MapValidationError(vErrs))
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ToHTTP(ErrNotFound)
	}

	zap.L().Named("apperror").Error("unmapped error", zap.Error(err))
	return HTTPError{
		Status:  ErrInternal.HTTPStatus,
		Code:    ErrInternal.Code,
		Message: ErrInternal.Message,
	}
}
