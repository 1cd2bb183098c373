package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/inkpress/newswire/config"
	"github.com/inkpress/newswire/models"
	"github.com/inkpress/newswire/utils"
)

// AuthController handles account registration and login.
type AuthController struct {
	db *gorm.DB
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{db: db}
}

// publicUser is the account shape returned to clients; the hash never leaves the server.
type publicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func toPublicUser(u models.User) publicUser {
	return publicUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

// Signup registers a new author or reader account.
func (a *AuthController) Signup(ctx *gin.Context) {
	type request struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Role = strings.TrimSpace(req.Role)

	var errs []string
	if req.Name == "" || !utils.IsValidName(req.Name) {
		errs = append(errs, "name must contain only letters and spaces")
	}
	if !utils.IsValidEmail(req.Email) {
		errs = append(errs, "a valid email address is required")
	}
	if !utils.IsStrongPassword(req.Password) {
		errs = append(errs, "password must be at least 8 characters with upper, lower, digit and special characters")
	}
	if req.Role != models.RoleAuthor && req.Role != models.RoleReader {
		errs = append(errs, "role must be author or reader")
	}
	if len(errs) > 0 {
		utils.Error(ctx, http.StatusBadRequest, "validation failed", errs...)
		return
	}

	var existing models.User
	if err := a.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		utils.Error(ctx, http.StatusConflict, "email already registered")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.Error(ctx, http.StatusInternalServerError, "failed to check existing account")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to hash password")
		return
	}

	user := models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := a.db.Create(&user).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to create account")
		return
	}

	utils.Success(ctx, http.StatusCreated, "account created", toPublicUser(user))
}

// Login verifies credentials and issues a JWT. Unknown email and wrong password return
// the same message.
func (a *AuthController) Login(ctx *gin.Context) {
	type request struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}

	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, "invalid request payload")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		utils.Error(ctx, http.StatusBadRequest, "email and password are required")
		return
	}

	var user models.User
	if err := a.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, "failed to look up account")
		return
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		utils.Error(ctx, http.StatusUnauthorized, "invalid credentials")
		return
	}

	expire := time.Duration(config.Get().JWTExpireHours) * time.Hour
	token, err := utils.GenerateToken(user.ID, user.Role, expire)
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, "failed to generate token")
		return
	}

	utils.Success(ctx, http.StatusOK, "login successful", gin.H{
		"token": token,
		"user":  toPublicUser(user),
	})
}
