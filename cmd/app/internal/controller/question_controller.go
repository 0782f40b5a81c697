package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-experimentai/internal/service"
)

type QuestionController struct {
	QuestionService service.QuestionService
	OptionService   service.OptionService
}

func NewQuestionController(questionService service.QuestionService, optionService service.OptionService) *QuestionController {
	return &QuestionController{QuestionService: questionService, OptionService: optionService}
}

// ListQuestions handles GET /questions?product_id=&general=&category_id=&active=
func (qc *QuestionController) ListQuestions(c *gin.Context) {
	filter := service.QuestionFilter{
		ProductID:  queryString(c, "product_id"),
		CategoryID: queryString(c, "category_id"),
		Active:     queryBool(c, "active"),
	}
	if general := queryBool(c, "general"); general != nil {
		filter.General = *general
	}
	questions, err := qc.QuestionService.ListQuestions(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (qc *QuestionController) GetQuestion(c *gin.Context) {
	question, err := qc.QuestionService.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, question)
}

func (qc *QuestionController) CreateQuestion(c *gin.Context) {
	var input service.QuestionInput
	if !bindJSON(c, &input) {
		return
	}
	question, err := qc.QuestionService.CreateQuestion(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Question created", "question": question})
}

func (qc *QuestionController) UpdateQuestion(c *gin.Context) {
	var patch service.QuestionPatch
	if !bindJSON(c, &patch) {
		return
	}
	question, err := qc.QuestionService.UpdateQuestion(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question updated", "question": question})
}

func (qc *QuestionController) DeleteQuestion(c *gin.Context) {
	if err := qc.QuestionService.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Question deleted"})
}

// MoveQuestion handles POST /questions/:id/move {"direction": "up"|"down"}
func (qc *QuestionController) MoveQuestion(c *gin.Context) {
	var req struct {
		Direction string `json:"direction" binding:"required,oneof=up down"`
	}
	if !bindJSON(c, &req) {
		return
	}
	moved, err := qc.QuestionService.ReorderQuestion(c.Request.Context(), c.Param("id"), req.Direction)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"moved": moved})
}

func (qc *QuestionController) QuestionStats(c *gin.Context) {
	stats, err := qc.QuestionService.QuestionStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (qc *QuestionController) ListOptions(c *gin.Context) {
	options, err := qc.OptionService.ListOptions(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, options)
}

func (qc *QuestionController) AddOption(c *gin.Context) {
	var input service.AddOptionInput
	if !bindJSON(c, &input) {
		return
	}
	option, err := qc.OptionService.AddOption(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Option added", "option": option})
}

func (qc *QuestionController) UpdateOption(c *gin.Context) {
	var patch service.OptionPatch
	if !bindJSON(c, &patch) {
		return
	}
	option, err := qc.OptionService.UpdateOption(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Option updated", "option": option})
}

func (qc *QuestionController) RemoveOption(c *gin.Context) {
	options, err := qc.OptionService.RemoveOption(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Option removed", "options": options})
}
