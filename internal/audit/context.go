package audit

import (
	"context"

	"github.com/labstack/echo/v4"
)

type requestKey struct{}

// RequestInfo is the HTTP metadata attached to events recorded while
// serving a request.
type RequestInfo struct {
	IPAddress string
	UserAgent string
	RequestID string
}

func WithRequest(ctx context.Context, info RequestInfo) context.Context {
	return context.WithValue(ctx, requestKey{}, info)
}

func requestFrom(ctx context.Context) (RequestInfo, bool) {
	info, ok := ctx.Value(requestKey{}).(RequestInfo)
	return info, ok
}

// Middleware copies request metadata into the request context. It must run
// after the request-id middleware.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := WithRequest(req.Context(), RequestInfo{
				IPAddress: c.RealIP(),
				UserAgent: req.UserAgent(),
				RequestID: c.Response().Header().Get(echo.HeaderXRequestID),
			})
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}
