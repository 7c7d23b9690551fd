package server

import (
	"time"

	"attendance-svc/src/internal/dependency"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(deps *dependency.Manager) {
	router := deps.Router
	router.Use(enableCORS)

	setupHealthEndpoint(deps)
	setupPublicRoutes(router, deps)
	setupAPIRoutes(router, deps)
}

func setupHealthEndpoint(deps *dependency.Manager) {
	router := deps.Router
	mongodb := deps.Mongodb
	redisClient := deps.Redis
	cfg := deps.Config

	router.GET("/health", func(c *gin.Context) {
		log.Info("Health check endpoint requested")

		mongoStatus := "ok"
		if err := mongodb.Client.Ping(c.Request.Context(), nil); err != nil {
			mongoStatus = "error: " + err.Error()
		}

		redisStatus := "ok"
		if err := redisClient.Client.Ping(c.Request.Context()).Err(); err != nil {
			redisStatus = "error: " + err.Error()
		}

		c.JSON(200, gin.H{
			"status":           "ok",
			"service":          cfg.App.Name,
			"version":          cfg.App.Version,
			"mongodb":          mongoStatus,
			"redis":            redisStatus,
			"live_connections": deps.LiveRegistry.Count(),
			"timestamp":        time.Now().UTC().Format("2006-01-02T15:04:05Z07:00"),
		})
	})
}

func setupPublicRoutes(router *gin.Engine, deps *dependency.Manager) {
	userHandler := deps.UserHandler

	router.POST("/signup", userHandler.Signup)
	router.POST("/login", userHandler.Login)
}

func setupAPIRoutes(router *gin.Engine, deps *dependency.Manager) {
	auth := deps.AuthMiddleware
	userHandler := deps.UserHandler
	classHandler := deps.ClassHandler
	attendanceHandler := deps.AttendanceHandler

	router.GET("/me", auth.RequireAuth(), userHandler.Me)
	router.GET("/students", auth.RequireAuth(), auth.RequireTeacher(), userHandler.Students)

	router.POST("/class", auth.RequireAuth(), auth.RequireTeacher(), classHandler.Create)
	router.GET("/class/:id", auth.RequireAuth(), classHandler.Get)
	router.POST("/class/:id/add-student", auth.RequireAuth(), auth.RequireTeacher(), classHandler.AddStudent)

	router.POST("/attendance/start", auth.RequireAuth(), auth.RequireTeacher(), attendanceHandler.StartSession)
	router.GET("/class/:id/my-attendance", auth.RequireAuth(), auth.RequireStudent(), attendanceHandler.MyAttendance)
	router.GET("/class/:id/summary", auth.RequireAuth(), auth.RequireTeacher(), attendanceHandler.ClassSummary)

	// Live session channel: authentication happens inside the gateway from
	// the token query parameter, after the upgrade.
	router.GET("/ws", deps.LiveGateway.Handle)
}

func enableCORS(c *gin.Context) {
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(204)
		return
	}

	c.Next()
}
