package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nexushr/nexushr/internal/pkg/response"
	"github.com/nexushr/nexushr/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type userInfo struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

type loginResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	User        userInfo `json:"user"`
}

// Login accepts form-encoded credentials, matching the usual oauth2
// password flow shape.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")
	password := c.PostForm("password")
	token, user, err := h.auth.Login(c.Request.Context(), username, password)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(h.auth.TokenTTL().Seconds()),
		User: userInfo{
			Username: user.Username,
			FullName: user.FullName,
			Email:    user.Email,
			Role:     user.Role,
		},
	})
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetUser(currentUsername(c))
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, userInfo{
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Role:     user.Role,
	})
}

// Logout is a no-op on the server; tokens are stateless and simply
// expire. The endpoint exists so clients have a uniform flow.
func (h *AuthHandler) Logout(c *gin.Context) {
	response.Success(c, gin.H{"message": "logged out"})
}
