package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/PancyStudios/WTVConsoleGo/pkg/errors"
)

// errorMiddleware renders the last error a handler attached with c.Error
func errorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		if h := errors.Get(); h != nil {
			h.HandleError(err, c.Request.Method+" "+c.FullPath())
		}
		c.JSON(errors.HTTPStatus(err), errors.ToResponse(err))
	}
}

// badRequest answers 400 for bodies that cannot be decoded
func badRequest(c *gin.Context, err error) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errors.ErrorResponse{
		Error: errors.ErrorDetail{
			Code:    "bad_request",
			Message: "Formato de requisição inválido.",
			Details: map[string]interface{}{"reason": err.Error()},
		},
	})
}
