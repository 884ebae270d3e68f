package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"image-classifier-service/internal/adapter/gin/middleware"
	"image-classifier-service/internal/usecase/auth"
	"image-classifier-service/pkg/logger"
)

// AuthHandler handles HTTP requests for sign-up, login and logout
type AuthHandler struct {
	uc     auth.Usecase
	cookie middleware.SessionCookie
	log    *zap.Logger
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(uc auth.Usecase, cookie middleware.SessionCookie, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		uc:     uc,
		cookie: cookie,
		log:    log,
	}
}

// LoginForm handles GET /login
func (h *AuthHandler) LoginForm(c *gin.Context) {
	c.JSON(http.StatusOK, FormResponse{
		Form:   "login",
		Fields: []string{"email", "password"},
	})
}

// SignUpForm handles GET /sign-up
func (h *AuthHandler) SignUpForm(c *gin.Context) {
	c.JSON(http.StatusOK, FormResponse{
		Form:   "sign-up",
		Fields: []string{"email", "firstName", "password1", "password2"},
	})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	req := auth.LoginRequest{
		Email:    c.PostForm("email"),
		Password: c.PostForm("password"),
	}

	resp, err := h.uc.Login(ctx, req)
	if err != nil {
		h.formFailure(c, "login", err)
		return
	}

	h.cookie.Set(c, resp.SessionID)
	c.JSON(http.StatusOK, FlashResponse{Category: CategorySuccess, Message: resp.Message})
}

// SignUp handles POST /sign-up
func (h *AuthHandler) SignUp(c *gin.Context) {
	ctx := c.Request.Context()
	req := auth.SignUpRequest{
		Email:     c.PostForm("email"),
		FirstName: c.PostForm("firstName"),
		Password1: c.PostForm("password1"),
		Password2: c.PostForm("password2"),
	}

	resp, err := h.uc.SignUp(ctx, req)
	if err != nil {
		h.formFailure(c, "sign-up", err)
		return
	}

	h.cookie.Set(c, resp.SessionID)
	c.JSON(http.StatusOK, FlashResponse{Category: CategorySuccess, Message: resp.Message})
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.uc.Logout(ctx, middleware.SessionID(c)); err != nil {
		logger.WithContext(ctx, h.log).Error("Gin Logout failed", zap.Error(err))
		handleError(c, err)
		return
	}

	h.cookie.Clear(c)
	c.JSON(http.StatusOK, FlashResponse{Category: CategorySuccess, Message: auth.MsgLoggedOut})
}

// formFailure flashes rejections the user can fix and reports anything
// else as an internal error.
func (h *AuthHandler) formFailure(c *gin.Context, form string, err error) {
	log := logger.WithContext(c.Request.Context(), h.log)
	if msg, ok := flashMessage(err); ok {
		log.Info("form rejected", zap.String("form", form), zap.String("reason", msg))
		c.JSON(http.StatusOK, FlashResponse{Category: CategoryError, Message: msg})
		return
	}
	log.Error("form submission failed", zap.String("form", form), zap.Error(err))
	handleError(c, err)
}
