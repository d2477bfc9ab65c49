// Package controllers exposes the record submission pipeline over HTTP.
// Controllers bind request payloads, attribute them to the authenticated
// actor, and translate submission results into response codes; all
// decisions about a submission happen in the services layer.
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/schoolmed/healthdesk/internal/app/models/dto"
	"github.com/schoolmed/healthdesk/internal/pkg/apperrors"
)

// actorID returns the authenticated actor set by the auth middleware.
func actorID(ctx *gin.Context) string {
	return ctx.GetString("actorID")
}

// writeSubmission maps a submission result onto an HTTP response.
// Field-level rule violations come back as 400 with the per-field map,
// remote rejections as 502, and any other failure (missing identifier,
// duplicate in-flight submission) as 422 with the single display message.
// successStatus is used when the submission went through.
func writeSubmission(ctx *gin.Context, result *dto.SubmissionResult, successStatus int) {
	if result.Success {
		ctx.JSON(successStatus, dto.APIResponse{
			Success:   true,
			Message:   result.Message,
			Data:      result.Data,
			Timestamp: time.Now(),
		})
		return
	}

	if len(result.FieldErrors) > 0 {
		ctx.JSON(http.StatusBadRequest, dto.NewFieldErrorResponse(result.FieldErrors))
		return
	}

	if result.Kind == apperrors.KindRemote {
		ctx.JSON(http.StatusBadGateway, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeRemoteService, result.Error)))
		return
	}

	ctx.JSON(http.StatusUnprocessableEntity, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodePrecondition, result.Error)))
}

// writeBindError reports a malformed request body or query string.
func writeBindError(ctx *gin.Context, err error, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, message)
	errorDetail = errorDetail.WithDetails(err.Error())
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}
