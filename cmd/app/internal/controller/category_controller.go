package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-experimentai/internal/service"
)

type CategoryController struct {
	CategoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{CategoryService: categoryService}
}

func (cc *CategoryController) ListCategories(c *gin.Context) {
	categories, err := cc.CategoryService.ListCategories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (cc *CategoryController) CreateCategory(c *gin.Context) {
	var input service.CategoryInput
	if !bindJSON(c, &input) {
		return
	}
	category, err := cc.CategoryService.CreateCategory(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Category created", "category": category})
}

func (cc *CategoryController) UpdateCategory(c *gin.Context) {
	var patch service.CategoryPatch
	if !bindJSON(c, &patch) {
		return
	}
	category, err := cc.CategoryService.UpdateCategory(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category updated", "category": category})
}

func (cc *CategoryController) DeleteCategory(c *gin.Context) {
	if err := cc.CategoryService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
