package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"admin-experimentai/internal/service"
	"admin-experimentai/utilities"
)

type AuthController struct {
	AuthService service.AuthService
}

func NewAuthController(authService service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

func (ac *AuthController) Login(c *gin.Context) {
	var creds struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if !bindJSON(c, &creds) {
		return
	}
	session, err := ac.AuthService.Login(c.Request.Context(), creds.Email, creds.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (ac *AuthController) Logout(c *gin.Context) {
	token := c.GetString(utilities.ContextAccessToken)
	if token == "" {
		// basic auth sessions have nothing to revoke
		c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
		return
	}
	if err := ac.AuthService.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

func (ac *AuthController) Me(c *gin.Context) {
	token := c.GetString(utilities.ContextAccessToken)
	if token == "" {
		id, _ := utilities.CurrentUserID(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "email": c.GetString(utilities.ContextEmail)})
		return
	}
	user, err := ac.AuthService.Me(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
