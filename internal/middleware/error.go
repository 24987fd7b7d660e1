package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"

	apperrors "github.com/Gowsikakho/expense-track/internal/errors"
	"github.com/Gowsikakho/expense-track/internal/logger"
)

// ErrorHandler renders the last error attached to the context with c.Error.
// AppErrors keep their code and message; anything else becomes INTERNAL_ERROR.
// Causes are logged with the request id and never sent to the client.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		log := logger.Named("http").With(
			"request_id", RequestID(c),
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
		)
		err := c.Errors.Last().Err

		var appErr *apperrors.AppError
		if !errors.As(err, &appErr) {
			log.Errorw("unhandled error", "error", err)
			abortWithAppError(c, apperrors.ErrInternalServer)
			return
		}
		if appErr.Internal != nil {
			log.Errorw("request failed", "code", appErr.Code, "cause", appErr.Internal)
		}
		abortWithAppError(c, appErr)
	}
}
