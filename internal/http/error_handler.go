package http

import (
	"errors"
	"fmt"
	"net/http"
	"studio-service/internal/http/middleware"
	apperrors "studio-service/pkg/errors"
	"studio-service/pkg/logger"

	"github.com/labstack/echo/v4"
)

const (
	msgInternalServerError = "Internal server error"
	msgExternalService     = "Upstream service unavailable, please retry"
)

// CustomHTTPErrorHandler handles all errors returned by handlers and middleware.
// It maps sentinel errors to HTTP status codes, passes AppError messages
// through for client errors, and hides everything else.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code, message, errCode := statusFor(err)

	requestID := middleware.GetRequestID(c)
	if requestID == "" {
		requestID = "unknown"
	}

	logged := logger.Redact(err.Error())
	if code >= http.StatusInternalServerError {
		c.Logger().Errorf("server_error request_id=%s status=%d error=%s", requestID, code, logged)
	} else {
		c.Logger().Warnf("client_error request_id=%s status=%d error=%s", requestID, code, logged)
	}

	body := map[string]any{
		"error":      message,
		"request_id": requestID,
	}
	if errCode != "" {
		body["code"] = errCode
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, body)
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func statusFor(err error) (int, string, string) {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Code, fmt.Sprintf("%v", httpErr.Message), ""
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrValidation), errors.Is(err, apperrors.ErrBadRequest):
		code = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrUnauthorized):
		code = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		code = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrInvalidState):
		code = http.StatusConflict
	case errors.Is(err, apperrors.ErrExternalService):
		code = http.StatusBadGateway
	}

	var appErr *apperrors.AppError
	hasAppErr := errors.As(err, &appErr)

	switch {
	case code == http.StatusBadGateway && hasAppErr:
		return code, msgExternalService, appErr.Code
	case code == http.StatusBadGateway:
		return code, msgExternalService, ""
	case code >= http.StatusInternalServerError:
		return code, msgInternalServerError, ""
	case hasAppErr:
		return code, appErr.Message, appErr.Code
	default:
		return code, http.StatusText(code), ""
	}
}
