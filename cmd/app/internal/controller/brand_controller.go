package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-experimentai/internal/service"
)

type BrandController struct {
	BrandService service.BrandService
}

func NewBrandController(brandService service.BrandService) *BrandController {
	return &BrandController{BrandService: brandService}
}

func (bc *BrandController) ListStatuses(c *gin.Context) {
	statuses, err := bc.BrandService.ListStatuses(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

func (bc *BrandController) CreateStatus(c *gin.Context) {
	var input service.BrandStatusInput
	if !bindJSON(c, &input) {
		return
	}
	status, err := bc.BrandService.CreateStatus(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Status created", "status": status})
}

func (bc *BrandController) UpdateStatus(c *gin.Context) {
	var patch service.BrandStatusPatch
	if !bindJSON(c, &patch) {
		return
	}
	status, err := bc.BrandService.UpdateStatus(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status updated", "status": status})
}

func (bc *BrandController) DeleteStatus(c *gin.Context) {
	if err := bc.BrandService.DeleteStatus(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Status deleted"})
}

// ListBrands handles GET /brands?status_id=
func (bc *BrandController) ListBrands(c *gin.Context) {
	brands, err := bc.BrandService.ListBrands(c.Request.Context(), c.Query("status_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, brands)
}

func (bc *BrandController) CreateBrand(c *gin.Context) {
	var input service.BrandInput
	if !bindJSON(c, &input) {
		return
	}
	brand, err := bc.BrandService.CreateBrand(c.Request.Context(), input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Brand created", "brand": brand})
}

func (bc *BrandController) UpdateBrand(c *gin.Context) {
	var patch service.BrandPatch
	if !bindJSON(c, &patch) {
		return
	}
	brand, err := bc.BrandService.UpdateBrand(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brand updated", "brand": brand})
}

func (bc *BrandController) DeleteBrand(c *gin.Context) {
	if err := bc.BrandService.DeleteBrand(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brand deleted"})
}

// MoveBrand handles POST /brands/:id/move {"from_status_id", "to_status_id"}
func (bc *BrandController) MoveBrand(c *gin.Context) {
	var input service.MoveBrandInput
	if !bindJSON(c, &input) {
		return
	}
	brand, err := bc.BrandService.MoveBrand(c.Request.Context(), c.Param("id"), input, currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Brand moved", "brand": brand})
}

func (bc *BrandController) GetHistory(c *gin.Context) {
	history, err := bc.BrandService.GetBrandHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, history)
}
