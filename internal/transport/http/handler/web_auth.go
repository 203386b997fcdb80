package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"itemboard/internal/app"
	"itemboard/internal/metrics"
	"itemboard/internal/pkg/logger"
	"itemboard/internal/session"
	"itemboard/internal/transport/http/middleware"
)

// WebAuthHandler serves the server-rendered register/login/logout flow.
type WebAuthHandler struct {
	authService  *app.AuthService
	sessions     session.Store
	sessionTTL   int
	cookieSecure bool
}

type registerForm struct {
	Name     string `form:"name" binding:"required,max=50"`
	Username string `form:"username" binding:"required,min=4,max=25"`
	Email    string `form:"email" binding:"required,email,max=50"`
	Password string `form:"password" binding:"required"`
	Confirm  string `form:"confirm" binding:"required,eqfield=Password"`
}

type loginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

func NewWebAuthHandler(authService *app.AuthService, sessions session.Store, sessionTTLSeconds int, cookieSecure bool) *WebAuthHandler {
	return &WebAuthHandler{
		authService:  authService,
		sessions:     sessions,
		sessionTTL:   sessionTTLSeconds,
		cookieSecure: cookieSecure,
	}
}

func (h *WebAuthHandler) ShowRegister(c *gin.Context) {
	c.HTML(http.StatusOK, "register.html", gin.H{
		"Flash":  popFlash(c),
		"Errors": map[string]string{},
		"Form":   registerForm{},
	})
}

func (h *WebAuthHandler) Register(c *gin.Context) {
	var form registerForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "register.html", gin.H{
			"Errors": fieldErrors(err),
			"Form":   form,
		})
		return
	}

	_, err := h.authService.Register(app.RegisterInput{
		Name:     form.Name,
		Username: form.Username,
		Email:    form.Email,
		Password: form.Password,
		Confirm:  form.Confirm,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrUsernameExists):
			c.HTML(http.StatusBadRequest, "register.html", gin.H{
				"Errors": map[string]string{"username": "Username is already taken"},
				"Form":   form,
			})
		case errors.Is(err, app.ErrEmailExists):
			c.HTML(http.StatusBadRequest, "register.html", gin.H{
				"Errors": map[string]string{"email": "Email is already registered"},
				"Form":   form,
			})
		case errors.Is(err, app.ErrInvalidInput):
			c.HTML(http.StatusBadRequest, "register.html", gin.H{
				"Errors": map[string]string{"form": err.Error()},
				"Form":   form,
			})
		default:
			logger.Get().Error().Err(err).Msg("register failed")
			c.HTML(http.StatusInternalServerError, "register.html", gin.H{
				"Errors": map[string]string{"form": "Something went wrong, please try again"},
				"Form":   form,
			})
		}
		return
	}

	setFlash(c, "success", "You are now registered and can log in")
	c.Redirect(http.StatusSeeOther, "/login")
}

func (h *WebAuthHandler) ShowLogin(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{
		"Flash": popFlash(c),
	})
}

func (h *WebAuthHandler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		c.HTML(http.StatusBadRequest, "login.html", gin.H{
			"Error": "Username and password are required",
		})
		return
	}

	user, err := h.authService.Login(app.LoginInput{
		Username: form.Username,
		Password: form.Password,
	})
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		if errors.Is(err, app.ErrInvalidCredential) {
			c.HTML(http.StatusUnauthorized, "login.html", gin.H{
				"Error": "Invalid username or password",
			})
			return
		}
		logger.Get().Error().Err(err).Msg("login failed")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Something went wrong, please try again",
		})
		return
	}

	sess, err := h.sessions.Create(c.Request.Context(), user.Username)
	if err != nil {
		logger.Get().Error().Err(err).Msg("create session failed")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{
			"Error": "Something went wrong, please try again",
		})
		return
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	c.SetCookie(middleware.SessionCookie, sess.ID, h.sessionTTL, "/", "", h.cookieSecure, true)
	setFlash(c, "success", "You are now logged in")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *WebAuthHandler) Logout(c *gin.Context) {
	if v, ok := c.Get(middleware.ContextSessionKey); ok {
		if id, ok := v.(string); ok {
			if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
				logger.Get().Warn().Err(err).Msg("delete session failed")
			}
		}
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.cookieSecure, true)
	setFlash(c, "success", "You are now logged out")
	c.Redirect(http.StatusSeeOther, "/login")
}
