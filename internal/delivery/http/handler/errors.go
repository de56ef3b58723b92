package handler

import (
	"errors"
	"net/http"
	"strconv"
	domainOrder "volunteer-match/internal/domain/order"
	domainUser "volunteer-match/internal/domain/user"
	"volunteer-match/internal/logger"
	"volunteer-match/internal/middleware"
	appErrors "volunteer-match/pkg/errors"
	"volunteer-match/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domainUser.ErrUserAlreadyExists):
		utils.ErrorResponse(c, http.StatusConflict, "Phone number already registered")
	case errors.Is(err, domainUser.ErrUserNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "User not found")
	case errors.Is(err, domainOrder.ErrOrderNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, "Order not found")
	case errors.Is(err, domainUser.ErrSessionNotFound):
		utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid session token")
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			switch appErr.Code {
			case appErrors.CodeNotFound:
				utils.ErrorResponse(c, http.StatusNotFound, appErr.Message)
			case appErrors.CodeConflict:
				utils.ErrorResponse(c, http.StatusConflict, appErr.Message)
			case appErrors.CodeUnauthorized:
				utils.ErrorResponse(c, http.StatusUnauthorized, appErr.Message)
			default:
				utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			}
			return
		}

		logger.Error("Internal server error",
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}

func parseID(c *gin.Context, param string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
