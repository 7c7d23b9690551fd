package attendance

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
	StartSession(c *gin.Context)
	MyAttendance(c *gin.Context)
	ClassSummary(c *gin.Context)
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

func (h *handler) StartSession(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req StartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid start request",
			"message": err.Error(),
		})
		return
	}

	logrus.WithFields(logrus.Fields{
		"class_id":   req.ClassID,
		"teacher_id": c.GetString("user_id"),
	}).Info("Start attendance request received")

	response, err := h.service.StartSession(ctx, callerIdentity(c), &req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

func (h *handler) MyAttendance(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	classID := c.Param("id")

	response, err := h.service.MyAttendance(ctx, callerIdentity(c), classID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    response,
	})
}

func (h *handler) ClassSummary(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	classID := c.Param("id")

	summary, err := h.service.ClassSummary(ctx, callerIdentity(c), classID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summary,
	})
}

func (h *handler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, models.ErrClassNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Class not found"})
	case errors.Is(err, models.ErrNotClassTeacher):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden, not class teacher"})
	case errors.Is(err, models.ErrNotEnrolled):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden, not enrolled in class"})
	case errors.Is(err, models.ErrSessionConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Attendance session already active"})
	case errors.Is(err, models.ErrSummaryNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No finalized summary for class"})
	case errors.Is(err, models.ErrInvalidParams):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid class ID"})
	default:
		logrus.WithError(err).Error("Attendance request failed")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Attendance request failed",
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
