package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jamdate/jamdate-backend/internal/usecase/report"
)

type ReportHandler struct {
	reportUseCase *report.ReportUseCase
}

func NewReportHandler(reportUseCase *report.ReportUseCase) *ReportHandler {
	return &ReportHandler{
		reportUseCase: reportUseCase,
	}
}

// Submit reports a user
// @Summary Report user
// @Tags reports
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body report.SubmitReportRequest true "Report"
// @Success 201 {object} domain.Report
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /reports [post]
func (h *ReportHandler) Submit(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req report.SubmitReportRequest
	if !bindJSON(c, &req) {
		return
	}

	r, err := h.reportUseCase.Submit(c.Request.Context(), userID, &req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

// List returns every report
// @Summary List reports
// @Tags reports
// @Security BearerAuth
// @Produce json
// @Param sort_by query string false "created_at, reporter_name, reported_user_name or reason"
// @Param order query string false "asc or desc"
// @Success 200 {array} domain.Report
// @Failure 400 {object} ErrorResponse
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	reports, err := h.reportUseCase.List(c.Request.Context(), c.Query("sort_by"), c.Query("order"))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reports)
}
