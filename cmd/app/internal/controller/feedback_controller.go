package controller

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"admin-experimentai/internal/service"
)

type FeedbackController struct {
	FeedbackService service.FeedbackService
	ReportService   service.ReportService
}

func NewFeedbackController(feedbackService service.FeedbackService, reportService service.ReportService) *FeedbackController {
	return &FeedbackController{FeedbackService: feedbackService, ReportService: reportService}
}

// ListSessions handles GET /feedback-sessions?status=&customer_id=&page=
func (fc *FeedbackController) ListSessions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	result, err := fc.FeedbackService.ListSessions(c.Request.Context(), service.SessionFilter{
		Status:     c.Query("status"),
		CustomerID: c.Query("customer_id"),
		Page:       page,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (fc *FeedbackController) StartSession(c *gin.Context) {
	var input service.StartSessionInput
	if !bindJSON(c, &input) {
		return
	}
	session, err := fc.FeedbackService.StartSession(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (fc *FeedbackController) GetSession(c *gin.Context) {
	session, err := fc.FeedbackService.GetSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (fc *FeedbackController) GetSessionAnswers(c *gin.Context) {
	answers, err := fc.FeedbackService.GetSessionAnswers(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answers)
}

func (fc *FeedbackController) SubmitAnswer(c *gin.Context) {
	var input service.SubmitAnswerInput
	if !bindJSON(c, &input) {
		return
	}
	answer, err := fc.FeedbackService.SubmitAnswer(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (fc *FeedbackController) CompleteSession(c *gin.Context) {
	var input service.CompleteSessionInput
	if c.Request.ContentLength != 0 && !bindJSON(c, &input) {
		return
	}
	session, err := fc.FeedbackService.CompleteSession(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session completed", "session": session})
}

func (fc *FeedbackController) AbandonSession(c *gin.Context) {
	session, err := fc.FeedbackService.AbandonSession(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Session abandoned", "session": session})
}

// DownloadReport handles GET /feedback-sessions/:id/report.pdf
func (fc *FeedbackController) DownloadReport(c *gin.Context) {
	id := c.Param("id")
	pdf, err := fc.ReportService.SessionReportPDF(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=feedback_%s.pdf", id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}
