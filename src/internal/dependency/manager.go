package dependency

import (
	"attendance-svc/src/clients"
	"attendance-svc/src/internal/attendance"
	"attendance-svc/src/internal/cache"
	"attendance-svc/src/internal/class"
	"attendance-svc/src/internal/config"
	"attendance-svc/src/internal/live"
	"attendance-svc/src/internal/middleware"
	"attendance-svc/src/internal/user"

	"github.com/gin-gonic/gin"
)

type Manager struct {
	Router            *gin.Engine
	Config            *config.Configuration
	Mongodb           *clients.MongoDB
	Redis             *clients.RedisClient
	RabbitMQ          *clients.RabbitMQ
	CacheService      cache.Service
	ActivityPublisher *clients.ActivityPublisher
	AuthMiddleware    *middleware.AuthMiddleware
	UserService       user.Service
	UserHandler       user.Handler
	ClassService      class.Service
	ClassHandler      class.Handler
	AttendanceService attendance.Service
	AttendanceHandler attendance.Handler
	LiveStore         *live.Store
	LiveRegistry      *live.Registry
	LiveGateway       *live.Gateway
}

func NewDependencyManager(router *gin.Engine,
	mongodb *clients.MongoDB,
	redisClient *clients.RedisClient,
	rabbitMQ *clients.RabbitMQ,
	cfg *config.Configuration) *Manager {
	cacheService := cache.NewCacheService(redisClient.Client, cfg)
	activityPublisher := clients.NewActivityPublisher(cfg, rabbitMQ.Channel)

	userRepo := user.NewUserRepository(mongodb, cfg.Database.UserCollection)
	userService := user.NewUserService(userRepo, cfg)
	userHandler := user.NewHandler(cfg, userService)

	classRepo := class.NewClassRepository(mongodb, cfg.Database.ClassCollection)
	classService := class.NewClassService(classRepo, userRepo)
	classHandler := class.NewHandler(cfg, classService)

	attendanceRepo := attendance.NewAttendanceRepository(mongodb, cfg.Database.AttendanceCollection)

	liveStore := live.NewStore()
	liveRegistry := live.NewRegistry()
	finalizer := live.NewFinalizer(liveStore, classRepo, attendanceRepo, cacheService, activityPublisher)
	liveRouter := live.NewRouter(liveStore, liveRegistry, finalizer)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Security.JwtKey, cacheService, userRepo)
	liveGateway := live.NewGateway(authMiddleware, liveRegistry, liveRouter)

	attendanceService := attendance.NewAttendanceService(attendanceRepo, classRepo, liveStore, cacheService, activityPublisher)
	attendanceHandler := attendance.NewHandler(cfg, attendanceService)

	return &Manager{
		Router:            router,
		Config:            cfg,
		Mongodb:           mongodb,
		Redis:             redisClient,
		RabbitMQ:          rabbitMQ,
		CacheService:      cacheService,
		ActivityPublisher: activityPublisher,
		AuthMiddleware:    authMiddleware,
		UserService:       userService,
		UserHandler:       userHandler,
		ClassService:      classService,
		ClassHandler:      classHandler,
		AttendanceService: attendanceService,
		AttendanceHandler: attendanceHandler,
		LiveStore:         liveStore,
		LiveRegistry:      liveRegistry,
		LiveGateway:       liveGateway,
	}
}
