package class

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
	Create(c *gin.Context)
	AddStudent(c *gin.Context)
	Get(c *gin.Context)
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

func (h *handler) Create(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid class request",
			"message": err.Error(),
		})
		return
	}

	response, err := h.service.Create(ctx, callerIdentity(c), &req)
	if err != nil {
		logrus.WithError(err).Error("Failed to create class")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create class",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    response,
	})
}

func (h *handler) AddStudent(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	classID := c.Param("id")

	var req AddStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid add-student request",
			"message": err.Error(),
		})
		return
	}

	response, err := h.service.AddStudent(ctx, callerIdentity(c), classID, &req)
	if err != nil {
		h.handleClassError(c, classID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

func (h *handler) Get(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	classID := c.Param("id")

	response, err := h.service.Get(ctx, callerIdentity(c), classID)
	if err != nil {
		h.handleClassError(c, classID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

func (h *handler) handleClassError(c *gin.Context, classID string, err error) {
	logrus.WithError(err).WithField("class_id", classID).Warn("Class request failed")

	switch {
	case errors.Is(err, models.ErrClassNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
	case errors.Is(err, models.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
	case errors.Is(err, models.ErrNotClassTeacher):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden, not class teacher"})
	case errors.Is(err, models.ErrNotEnrolled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden, not enrolled in class"})
	case errors.Is(err, models.ErrNotAStudent):
		c.JSON(http.StatusBadRequest, gin.H{"error": "User is not a student"})
	case errors.Is(err, models.ErrAlreadyEnrolled):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student already in class"})
	case errors.Is(err, models.ErrInvalidParams):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Class request failed",
			"message": err.Error(),
		})
	}
}

func callerIdentity(c *gin.Context) *models.Identity {
	return &models.Identity{
		UserID: c.GetString("user_id"),
		Name:   c.GetString("user_name"),
		Email:  c.GetString("user_email"),
		Role:   c.GetString("user_role"),
	}
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}
