// Package controller holds helpers shared by the respondent and admin HTTP controllers.
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/rs/zerolog/log"
)

const RequestIDHeader = "X-Request-ID"

// StatusFor maps a service error onto its HTTP status.
func StatusFor(err error) int {
	switch apperror.Code(err) {
	case apperror.CodeValidation:
		return http.StatusBadRequest
	case apperror.CodeNotFound, apperror.CodeSessionNotFound:
		return http.StatusNotFound
	case apperror.CodeAlreadyCompleted:
		return http.StatusConflict
	case apperror.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondError writes the error body for err. Internal errors are logged and
// their details withheld from the client.
func RespondError(ctx *gin.Context, message string, err error) {
	status := StatusFor(err)
	body := dto.ErrorResponse{Message: message, Code: apperror.Code(err)}

	var verr *apperror.ValidationError
	switch {
	case errors.As(err, &verr):
		body.Message = verr.Reason
		body.Details = verr.Fields
	case status == http.StatusInternalServerError:
		log.Error().Err(err).
			Str("path", ctx.FullPath()).
			Str("requestID", ctx.GetString(RequestIDHeader)).
			Msg(message)
	default:
		body.Details = []string{err.Error()}
	}
	ctx.JSON(status, body)
}

// RequestID propagates or assigns an X-Request-ID per request.
func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id := ctx.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		ctx.Set(RequestIDHeader, id)
		ctx.Writer.Header().Set(RequestIDHeader, id)
		ctx.Next()
	}
}

// Health godoc
// @Summary Liveness probe
// @Tags Ops
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func Health(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.HealthResponse{Status: "ok"})
}
