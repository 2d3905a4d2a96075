package main

import (
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"
	"github.com/tutorlane/timecard-backend-go/internal/config"
	appHTTP "github.com/tutorlane/timecard-backend-go/internal/handler/http"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/database"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/jwt"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/locker"
	"github.com/tutorlane/timecard-backend-go/internal/pkg/schedulefeed"
	"github.com/tutorlane/timecard-backend-go/internal/repository/postgresql"
	attestationService "github.com/tutorlane/timecard-backend-go/internal/service/attestation"
	clockService "github.com/tutorlane/timecard-backend-go/internal/service/clock"
	payperiodService "github.com/tutorlane/timecard-backend-go/internal/service/payperiod"
	timeentryService "github.com/tutorlane/timecard-backend-go/internal/service/timeentry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		return
	}

	dsn := cfg.DatabaseURL()
	db, err := database.NewPostgreSQLDB(dsn)
	if err != nil {
		fmt.Println("Error connecting to database:", err)
		return
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	franchiseRepo := postgresql.NewFranchiseRepository(db)
	tutorRepo := postgresql.NewTutorRepository(db)
	timeEntryRepo := postgresql.NewTimeEntryRepository(db)
	clockRepo := postgresql.NewClockSessionRepository(db)
	attestationRepo := postgresql.NewAttestationRepository(db)
	overrideRepo := postgresql.NewPayPeriodOverrideRepository(db)
	txManager := postgresql.NewTxManager(db)

	jwtService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration)
	locks := locker.NewRedisLocker(redisClient)
	feedClient := schedulefeed.NewClient(schedulefeed.Config{
		BaseURL:      cfg.ScheduleFeed.BaseURL,
		TokenURL:     cfg.ScheduleFeed.TokenURL,
		ClientID:     cfg.ScheduleFeed.ClientID,
		ClientSecret: cfg.ScheduleFeed.ClientSecret,
		Timeout:      cfg.ScheduleFeed.Timeout,
	})

	attestationSvc := attestationService.NewAttestationService(attestationRepo, tutorRepo, franchiseRepo)
	payPeriodSvc := payperiodService.NewPayPeriodService(overrideRepo, franchiseRepo)
	timeEntrySvc := timeentryService.NewTimeEntryService(
		timeEntryRepo,
		tutorRepo,
		franchiseRepo,
		attestationSvc,
		feedClient,
		txManager,
		locks,
	)
	clockSvc := clockService.NewClockService(
		clockRepo,
		timeEntryRepo,
		timeEntrySvc,
		tutorRepo,
		attestationSvc,
		feedClient,
		locks,
	)

	clockHandler := appHTTP.NewClockHandler(clockSvc)
	timeEntryHandler := appHTTP.NewTimeEntryHandler(timeEntrySvc)
	attestationHandler := appHTTP.NewAttestationHandler(attestationSvc)
	payPeriodHandler := appHTTP.NewPayPeriodHandler(payPeriodSvc)

	router := appHTTP.NewRouter(
		jwtService,
		clockHandler,
		timeEntryHandler,
		attestationHandler,
		payPeriodHandler,
	)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	fmt.Printf("Server running at http://localhost%s\n", port)
	if err := http.ListenAndServe(port, router); err != nil {
		fmt.Println("Server error:", err)
	}
}
