package gateway

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/example/shopstore/pkg/apperror"
	"github.com/example/shopstore/pkg/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const codeInternal = "INTERNAL_ERROR"

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError writes err as a JSON error body. Coded errors map to 404 or
// 400; anything else gets the fallback status.
func respondError(c *gin.Context, err error, fallback int) {
	status := fallback
	body := errorResponse{Error: err.Error(), Code: apperror.CodeWrite}

	var appErr *apperror.Error
	switch {
	case errors.As(err, &appErr):
		body = errorResponse{Error: appErr.Message, Code: appErr.Code}
		status = http.StatusBadRequest
		if appErr.Code == apperror.CodeNotFound {
			status = http.StatusNotFound
		}
	case fallback >= http.StatusInternalServerError:
		body = errorResponse{Error: "Internal server error", Code: codeInternal}
	}

	log := logger.FromContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		log.Error("Request failed", zap.Error(err))
	} else {
		log.Warn("Request rejected", zap.Int("status", status), zap.Error(err))
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, body)
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, apperror.Validation("invalid request body: %v", err), http.StatusBadRequest)
}

// pathID parses the :id path parameter, answering 400 when it is not a
// positive integer.
func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, apperror.Validation("invalid id %q", c.Param("id")), http.StatusBadRequest)
		return 0, false
	}
	return id, true
}
