package ui

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

func isHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

// formInt reads a required integer form field
func formInt(c *gin.Context, name string) (int, error) {
	raw := c.PostForm(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.InvalidInput("invalid " + name + ": " + strconv.Quote(raw))
	}
	return n, nil
}

// errorResponse is the JSON body for failed requests
func errorResponse(err error) gin.H {
	return gin.H{"error": err.Error(), "code": errors.GetCode(err)}
}
