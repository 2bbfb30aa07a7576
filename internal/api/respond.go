package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"teamnet/pkg/errors"
)

// writeError maps domain errors onto HTTP statuses. Storage failures
// and anything uncategorized become a 500 with the detail kept out of
// the response body.
func (s *Server) writeError(c *gin.Context, err error) {
	switch errors.TypeOf(err) {
	case errors.ErrorTypeNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.ErrorTypeAlreadyExists:
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.ErrorTypeInvalidRelation, errors.ErrorTypeValidation:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.ErrorTypeUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		s.logger.Error("Request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
