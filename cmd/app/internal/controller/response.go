package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"admin-experimentai/internal/service"
	"admin-experimentai/utilities"
)

var statusByCode = map[service.ErrorCode]int{
	service.ErrorInvalid:      http.StatusBadRequest,
	service.ErrorNotFound:     http.StatusNotFound,
	service.ErrorConflict:     http.StatusConflict,
	service.ErrorUnauthorized: http.StatusUnauthorized,
	service.ErrorUnavailable:  http.StatusServiceUnavailable,
}

// respondError writes err as {"error", "code"}. Errors that did not come
// from a service are logged and reported as 500.
func respondError(c *gin.Context, err error) {
	se, ok := service.AsServiceError(err)
	if !ok {
		utilities.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error", "code": "internal"})
		return
	}
	status, ok := statusByCode[se.Code]
	if !ok {
		status = http.StatusInternalServerError
	}
	if se.Err != nil {
		utilities.Warn("%s %s: %s: %v", c.Request.Method, c.FullPath(), se.Message, se.Err)
	}
	c.JSON(status, gin.H{"error": se.Message, "code": se.Code})
}

// bindJSON decodes the body into dest and answers 400 on failure.
func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindMessage(err), "code": service.ErrorInvalid})
		return false
	}
	return true
}

func bindMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return "Invalid input: " + fe.Field() + " is required"
		case "question_type":
			return "Invalid input: unknown question type " + strconv.Quote(fmt.Sprint(fe.Value()))
		}
		return "Invalid input: " + fe.Field() + " failed " + fe.Tag()
	}
	return "Invalid input"
}

func currentUser(c *gin.Context) *string {
	if id, ok := utilities.CurrentUserID(c); ok {
		return &id
	}
	return nil
}

func queryBool(c *gin.Context, name string) *bool {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func queryString(c *gin.Context, name string) *string {
	if v := c.Query(name); v != "" {
		return &v
	}
	return nil
}
