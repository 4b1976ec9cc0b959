package server

import (
	"github.com/gin-gonic/gin"
)

// detail is the error envelope clients expect.
type detail struct {
	Detail string `json:"detail"`
}

// fail aborts the request with {"detail": msg}.
func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, detail{Detail: msg})
}
