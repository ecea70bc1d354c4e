package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medisched/appointment-api/internal/config"
	"github.com/medisched/appointment-api/internal/handler"
	appointmentHandler "github.com/medisched/appointment-api/internal/handler/appointment"
	authHandler "github.com/medisched/appointment-api/internal/handler/auth"
	doctorHandler "github.com/medisched/appointment-api/internal/handler/doctor"
	"github.com/medisched/appointment-api/internal/middleware"
	"github.com/medisched/appointment-api/internal/model"
	"github.com/medisched/appointment-api/internal/repository/postgres"
	"github.com/medisched/appointment-api/internal/router"
	authService "github.com/medisched/appointment-api/internal/service/auth"
	doctorService "github.com/medisched/appointment-api/internal/service/doctor"
	patientService "github.com/medisched/appointment-api/internal/service/patient"
	"github.com/medisched/appointment-api/pkg/auth"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Initialize database
	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	availabilityRepo := postgres.NewAvailabilityRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)

	// Initialize services
	jwtSvc := auth.NewJWTService(cfg.JWT)
	authSvc := authService.NewService(userRepo, jwtSvc)
	doctorSvc := doctorService.NewService(availabilityRepo, appointmentRepo, userRepo)
	patientSvc := patientService.NewService(userRepo, availabilityRepo, appointmentRepo)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	// Initialize handlers
	h := handler.NewHandler(db)
	authH := authHandler.NewHandler(authSvc, func(u *model.User) {
		if u.Role == model.RoleDoctor {
			patientSvc.InvalidateDoctorCache()
		}
	})
	doctorH := doctorHandler.NewHandler(doctorSvc, patientSvc, authMiddleware)
	appointmentH := appointmentHandler.NewHandler(patientSvc, authMiddleware)

	// Setup router
	r := router.NewRouter(authMiddleware, authH, doctorH, appointmentH, h, router.Config{
		RateLimitEnabled: cfg.RateLimit.Enabled,
		RateLimitRPS:     cfg.RateLimit.RPS,
		RateLimitBurst:   cfg.RateLimit.Burst,
		RequestTimeout:   cfg.Server.RequestTimeout,
		CORSConfig:       middleware.DefaultCORSConfig(),
		MetricsPrefix:    "appointment_api",
	})
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
