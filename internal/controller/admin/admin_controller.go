package admin

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/fieldsurvey/internal/apperror"
	"github.com/lshigami/fieldsurvey/internal/controller"
	"github.com/lshigami/fieldsurvey/internal/dto"
	"github.com/lshigami/fieldsurvey/internal/service"
	"github.com/rs/zerolog/log"
)

type AdminController struct {
	resultsService service.ResultsService
	exportService  service.ExportService
	insightService service.InsightService
}

func NewAdminController(rs service.ResultsService, es service.ExportService, is service.InsightService) *AdminController {
	return &AdminController{
		resultsService: rs,
		exportService:  es,
		insightService: is,
	}
}

// GetResults godoc
// @Summary (Admin) Aggregated survey results
// @Description Per-question answer counts and percentages plus started and completed session totals. Results may be cached briefly.
// @Tags Admin - Surveys
// @Produce json
// @Param survey_id path string true "Survey ID"
// @Success 200 {object} dto.SurveyResultsDTO
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/surveys/{survey_id}/results [get]
func (c *AdminController) GetResults(ctx *gin.Context) {
	results, err := c.resultsService.GetResults(ctx.Request.Context(), ctx.Param("survey_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to load results", err)
		return
	}
	ctx.JSON(http.StatusOK, results)
}

// Export godoc
// @Summary (Admin) Export survey responses
// @Description One CSV row per answer, or a JSON document grouped by contact.
// @Tags Admin - Surveys
// @Produce json
// @Produce text/csv
// @Param survey_id path string true "Survey ID"
// @Param format query string false "csv (default) or json"
// @Success 200 {object} dto.SurveyExportDTO
// @Failure 400 {object} dto.ErrorResponse "Unsupported format"
// @Failure 404 {object} dto.ErrorResponse "Survey not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /admin/surveys/{survey_id}/export [get]
func (c *AdminController) Export(ctx *gin.Context) {
	surveyID := ctx.Param("survey_id")
	format := ctx.DefaultQuery("format", "csv")

	switch format {
	case "csv":
		export, err := c.exportService.ExportCSV(ctx.Request.Context(), surveyID)
		if err != nil {
			controller.RespondError(ctx, "Failed to export survey", err)
			return
		}
		ctx.Header("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
		ctx.Data(http.StatusOK, "text/csv; charset=utf-8", export.Content)
	case "json":
		export, err := c.exportService.ExportJSON(ctx.Request.Context(), surveyID)
		if err != nil {
			controller.RespondError(ctx, "Failed to export survey", err)
			return
		}
		ctx.JSON(http.StatusOK, export)
	default:
		log.Warn().Str("format", format).Str("surveyID", surveyID).Msg("Admin Export: unsupported format")
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Message: "Unsupported export format",
			Code:    apperror.CodeValidation,
			Details: []string{"format must be csv or json"},
		})
	}
}

// GetInsights godoc
// @Summary (Admin) Summarize free-text answers
// @Description Asks the language model to group a question's free-text and write-in answers into themes.
// @Tags Admin - Surveys
// @Produce json
// @Param survey_id path string true "Survey ID"
// @Param question_id path string true "Question ID"
// @Success 200 {object} dto.InsightDTO
// @Failure 400 {object} dto.ErrorResponse "Question has no free text"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Failure 503 {object} dto.ErrorResponse "Summaries are not configured or the model failed"
// @Router /admin/surveys/{survey_id}/questions/{question_id}/insights [get]
func (c *AdminController) GetInsights(ctx *gin.Context) {
	insight, err := c.insightService.SummarizeQuestion(ctx.Request.Context(), ctx.Param("survey_id"), ctx.Param("question_id"))
	if err != nil {
		controller.RespondError(ctx, "Failed to summarize answers", err)
		return
	}
	ctx.JSON(http.StatusOK, insight)
}
