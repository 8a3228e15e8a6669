package router

import (
	"gymclass/internal/api/handlers"
	"gymclass/internal/api/middleware"
	"gymclass/internal/config"
	"gymclass/internal/infrastructure/cache"
	"gymclass/internal/infrastructure/queue"
	"gymclass/internal/infrastructure/repository"
	interfaces "gymclass/internal/interfaces/infrastructure"
	serviceInterfaces "gymclass/internal/interfaces/service"
	"gymclass/internal/service"
	"gymclass/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Components bundles the router with the pieces the server command manages
// over the process lifecycle.
type Components struct {
	Router     *gin.Engine
	Queue      interfaces.QueueService
	Scheduling serviceInterfaces.SchedulingService
}

func New(db *gorm.DB) (*Components, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(cors.Default())
	r.Use(gin.Recovery())

	cfg := config.Get()

	repos := interfaces.RepoBundle{
		Sessions:   repository.NewSessionRepository(db),
		Bookings:   repository.NewBookingRepository(db),
		Waitlist:   repository.NewWaitlistRepository(db),
		Attendance: repository.NewAttendanceRepository(db),
	}
	txManager := repository.NewGormTxManager(db)

	rosterRepo, err := repository.NewRosterRepository(db)
	if err != nil {
		return nil, err
	}

	cacheService := cache.NewRedisCacheWithConfig(&cfg.Cache)
	idempotencyStore := repository.NewRedisIdempotencyStore(cacheService.GetClient())

	notifier := queue.NewLogNotifier()
	var queueService interfaces.QueueService
	if cfg.Queue.Type == "redis" {
		queueService = queue.NewRedisQueue(&cfg.Cache, cfg.Queue.Workers, notifier)
		logger.Info("Using Redis notification queue")
	} else {
		queueService = queue.NewInMemoryQueue(cfg.Queue.BufferSize, cfg.Queue.Workers, notifier)
		logger.Info("Using in-memory notification queue")
	}

	memberDirectory := repository.NewMemberDirectory()

	schedulingService := service.NewSchedulingService(
		repos,
		txManager,
		cacheService,
		queueService,
		idempotencyStore,
		cfg.Schedule.BookRetryBudget,
	)
	attendanceService := service.NewAttendanceService(schedulingService)
	rosterService := service.NewRosterService(rosterRepo, repos, memberDirectory)

	bookingHandler := handlers.NewBookingHandler(schedulingService)
	sessionHandler := handlers.NewSessionHandler(schedulingService)
	attendanceHandler := handlers.NewAttendanceHandler(attendanceService)
	rosterHandler := handlers.NewRosterHandler(rosterService)
	memberHandler := handlers.NewMemberHandler(memberDirectory)
	healthHandler := handlers.NewHealthHandler(db, cacheService)

	r.Use(middleware.IdempotencyMiddleware())

	r.GET("/health", healthHandler.HealthCheck)
	r.GET("/ready", healthHandler.ReadinessCheck)
	r.GET("/live", healthHandler.LivenessCheck)

	v1 := r.Group("/api/v1")
	{
		classes := v1.Group("/classes")
		{
			classes.POST("", sessionHandler.Create)
			classes.GET("", sessionHandler.List)
			classes.PATCH("/:session_id", sessionHandler.Update)
			classes.DELETE("/:session_id", sessionHandler.Deactivate)

			classes.POST("/:session_id/bookings", bookingHandler.Book)
			classes.DELETE("/:session_id/bookings/:booking_id", bookingHandler.Cancel)

			classes.POST("/:session_id/waitlist/promote", bookingHandler.PromoteHead)
			classes.DELETE("/:session_id/waitlist/:entry_id", bookingHandler.Withdraw)

			classes.PATCH("/:session_id/attendance/:booking_id", attendanceHandler.Transition)
			classes.GET("/:session_id/attendance/:booking_id", attendanceHandler.Get)

			classes.GET("/:session_id/roster", rosterHandler.Roster)
		}

		members := v1.Group("/members")
		{
			members.GET("/search", memberHandler.Search)
			members.GET("/:member_id", memberHandler.Get)
		}
	}

	return &Components{
		Router:     r,
		Queue:      queueService,
		Scheduling: schedulingService,
	}, nil
}
