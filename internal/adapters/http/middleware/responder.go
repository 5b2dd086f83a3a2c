package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/resource-feed/internal/adapters/http/dto"
)

// ErrorResponder writes err as the response and aborts the chain. Pages
// render an HTML error page; the API writes the JSON envelope.
type ErrorResponder func(c *gin.Context, err error)

// JSONErrors is the ErrorResponder of the JSON API.
func JSONErrors(c *gin.Context, err error) {
	dto.HandleError(c, err)
}

func orJSON(respond ErrorResponder) ErrorResponder {
	if respond == nil {
		return JSONErrors
	}

	return respond
}
