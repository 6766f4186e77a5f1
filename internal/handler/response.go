package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"message": message})
}

// respondInternalError logs err and answers with a generic message
func respondInternalError(c *gin.Context, log *zap.Logger, message string, err error) {
	log.Error(message, zap.String("path", c.Request.URL.Path), zap.Error(err))
	_ = c.Error(err)
	respondMessage(c, http.StatusInternalServerError, message)
}
