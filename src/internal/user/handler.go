package user

import (
	"context"
	"errors"
	"net/http"
	"time"

	"attendance-svc/src/internal/config"
	"attendance-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	Signup(c *gin.Context)
	Login(c *gin.Context)
	Me(c *gin.Context)
	Students(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:  cfg,
		service: service,
	}
}

func (h *handler) Signup(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid signup request",
			"message": err.Error(),
		})
		return
	}

	logrus.WithFields(logrus.Fields{
		"email": req.Email,
		"role":  req.Role,
	}).Info("Signup request received")

	profile, err := h.service.Signup(ctx, &req)
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			c.JSON(http.StatusGone, gin.H{
				"error": "user already existed",
			})
			return
		}
		logrus.WithError(err).Error("Signup failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Signup failed",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    profile,
	})
}

func (h *handler) Login(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid login request",
			"message": err.Error(),
		})
		return
	}

	response, err := h.service.Login(ctx, &req)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUserNotFound):
			c.JSON(http.StatusGone, gin.H{
				"error": "USER NOT FOUND",
			})
		case errors.Is(err, models.ErrWrongPassword):
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid password",
			})
		default:
			logrus.WithError(err).Error("Login failed")
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "Login failed",
				"message": err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusOK, response)
}

func (h *handler) Me(c *gin.Context) {
	userID := c.GetString("user_id")
	name := c.GetString("user_name")
	email := c.GetString("user_email")
	role := c.GetString("user_role")

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": &Profile{
			ID:    userID,
			Name:  name,
			Email: email,
			Role:  role,
		},
	})
}

func (h *handler) Students(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	students, err := h.service.Students(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to list students")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to retrieve students",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    students,
	})
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}
