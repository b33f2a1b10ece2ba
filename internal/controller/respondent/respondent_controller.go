package respondent

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/controller"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/service"
	"github.com/rs/zerolog/log"
)

type RespondentController struct {
	surveyService   service.SurveyService
	responseService service.ResponseService
	sessionService  service.SessionService
}

func NewRespondentController(ss service.SurveyService, rs service.ResponseService, sess service.SessionService) *RespondentController {
	return &RespondentController{
		surveyService:   ss,
		responseService: rs,
		sessionService:  sess,
	}
}

// GetSurvey godoc
// @Summary Get an active survey
// @Description Returns the survey and its questions in order. Inactive surveys are reported as not found.
// @Tags Respondent
// @Produce json
// @Param survey_id path string true "Survey ID"
// @Success 200 {object} dto.SurveyDTO
// @Failure 404 {object} dto.ErrorResponse "Survey not found or inactive"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /surveys/{survey_id} [get]
func (c *RespondentController) GetSurvey(ctx *gin.Context) {
	survey, err := c.surveyService.GetActiveSurvey(ctx.Request.Context(), ctx.Param("survey_id"))
	if err != nil {
		controller.RespondError(ctx, "Survey not found", err)
		return
	}
	ctx.JSON(http.StatusOK, survey)
}

// GetProgress godoc
// @Summary Get a respondent's progress
// @Description Session status and stored answers, used to resume an interrupted survey.
// @Tags Respondent
// @Produce json
// @Param survey_id path string true "Survey ID"
// @Param respondent_id query string true "Respondent (CRM contact) ID"
// @Success 200 {object} dto.ProgressDTO
// @Failure 400 {object} dto.ErrorResponse "Missing respondent_id"
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Router /surveys/{survey_id}/progress [get]
func (c *RespondentController) GetProgress(ctx *gin.Context) {
	progress, err := c.sessionService.GetProgress(ctx.Request.Context(), ctx.Query("respondent_id"), ctx.Param("survey_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to load progress", err)
		return
	}
	ctx.JSON(http.StatusOK, progress)
}

// UpsertResponse godoc
// @Summary Record an answer
// @Description Creates or replaces the respondent's answer to a question and starts or touches their session.
// @Tags Respondent
// @Accept json
// @Produce json
// @Param response body dto.UpsertResponseRequest true "Answer"
// @Success 200 {object} dto.ResponseSavedDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields or answer does not fit the question"
// @Failure 404 {object} dto.ErrorResponse "Survey or question not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /responses [post]
func (c *RespondentController) UpsertResponse(ctx *gin.Context) {
	var req dto.UpsertResponseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("UpsertResponse: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Code: apperror.CodeValidation, Details: []string{err.Error()}})
		return
	}

	saved, err := c.responseService.UpsertResponse(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Failed to save response", err)
		return
	}
	ctx.JSON(http.StatusOK, saved)
}

// CompleteSession godoc
// @Summary Complete a survey session
// @Description Marks the respondent's session completed. Completion happens at most once.
// @Tags Respondent
// @Accept json
// @Produce json
// @Param session body dto.CompleteSessionRequest true "Respondent and survey"
// @Success 200 {object} dto.SessionCompletedDTO
// @Failure 400 {object} dto.ErrorResponse "Missing fields"
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Survey already completed"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /sessions/complete [post]
func (c *RespondentController) CompleteSession(ctx *gin.Context) {
	var req dto.CompleteSessionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		log.Warn().Err(err).Msg("CompleteSession: Failed to bind JSON")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Code: apperror.CodeValidation, Details: []string{err.Error()}})
		return
	}

	done, err := c.sessionService.CompleteSession(ctx.Request.Context(), req)
	if err != nil {
		controller.RespondError(ctx, "Failed to complete survey", err)
		return
	}
	ctx.JSON(http.StatusOK, done)
}
