package controller

import (
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"admin-experimentai/internal/model"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding rules. Safe to call more than
// once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = v.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
			return model.QuestionType(fl.Field().String()).Valid()
		})
	})
}
