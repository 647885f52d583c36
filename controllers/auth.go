package controllers

import (
	"context"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/youssefhany/go-eventbook/middleware"
	"github.com/youssefhany/go-eventbook/services"
)

// AuthController exposes signup, login, verification and profile endpoints.
type AuthController struct {
	auth *services.AuthService
}

func NewAuthController(auth *services.AuthService) *AuthController {
	return &AuthController{auth: auth}
}

// SignupInput request body for registration
type SignupInput struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// LoginInput request body for login
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ChangePasswordInput request body for password change
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=6"`
}

// Signup creates a new unverified user and mails a verification link.
func (ac *AuthController) Signup(c *gin.Context) {
	var input SignupInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := ac.auth.Signup(ctx, services.SignupInput(input)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "please check your email for verification"})
}

// VerifyEmail consumes the single-use token from the signup mail.
func (ac *AuthController) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token is required"})
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ac.auth.VerifyEmail(ctx, token); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "email verified successfully"})
}

// Login authenticates and returns a JWT plus the sanitized user.
func (ac *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, token, err := ac.auth.Login(ctx, input.Email, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID.Hex(),
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

// CreateAdmin creates a pre-verified administrator. Admin only.
func (ac *AuthController) CreateAdmin(c *gin.Context) {
	var input SignupInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := ac.auth.CreateAdmin(ctx, services.SignupInput(input))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": user})
}

// ChangePassword verifies the current password before replacing it.
func (ac *AuthController) ChangePassword(c *gin.Context) {
	var input ChangePasswordInput
	if err := bindJSON(c, &input); err != nil {
		respondError(c, err)
		return
	}

	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := ac.auth.ChangePassword(ctx, viewer.UserID, input.CurrentPassword, input.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully"})
}

// Profile returns the caller's own user document.
func (ac *AuthController) Profile(c *gin.Context) {
	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	user, err := ac.auth.Profile(ctx, viewer.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": user})
}

// UploadProfilePicture stores a multipart image upload and points the
// profile at it. The previous picture is deleted best-effort.
func (ac *AuthController) UploadProfilePicture(c *gin.Context) {
	fileHeader, err := c.FormFile("profilePicture")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "profilePicture file is required"})
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read uploaded file"})
		return
	}
	defer f.Close()

	viewer := middleware.Viewer(c)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	uri, svcErr := ac.auth.SetProfilePicture(ctx, viewer.UserID, f, filepath.Ext(fileHeader.Filename))
	if svcErr != nil {
		respondError(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"profile_picture": uri}})
}
