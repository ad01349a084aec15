// seeder заполняет сетку слотов на ближайшие дни и выполняет
// разовые административные операции.
//
//	go run ./cmd/seeder -days 14 -cleanup
//	go run ./cmd/seeder -admin 123456789
//	go run ./cmd/seeder -token 123456789
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/m04kA/SMC-TrainingBooking/internal/api/middleware"
	"github.com/m04kA/SMC-TrainingBooking/internal/config"
	"github.com/m04kA/SMC-TrainingBooking/internal/domain"
	timeslotRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/timeslot"
	userRepo "github.com/m04kA/SMC-TrainingBooking/internal/infra/storage/user"
	usersService "github.com/m04kA/SMC-TrainingBooking/internal/service/users"
	"github.com/m04kA/SMC-TrainingBooking/internal/usecase/seed_schedule"
	"github.com/m04kA/SMC-TrainingBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-TrainingBooking/pkg/logger"
	"github.com/m04kA/SMC-TrainingBooking/pkg/txmanager"
)

const tokenTTL = 24 * time.Hour

func main() {
	var (
		configPath = flag.String("config", "config.toml", "path to config file")
		from       = flag.String("from", "", "first day to fill, YYYY-MM-DD (default: today)")
		days       = flag.Int("days", 0, "number of days to fill (default: schedule.days)")
		cleanup    = flag.Bool("cleanup", false, "delete past slots without bookings")
		admin      = flag.Int64("admin", 0, "grant admin rights to the user with this telegram id")
		token      = flag.Int64("token", 0, "print a bearer token for this telegram id and exit")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	if *token != 0 {
		if cfg.Auth.JWTSecret == "" {
			log.Fatal("auth.jwt_secret is empty, tokens are disabled")
		}
		signed, err := middleware.IssueToken(cfg.Auth.JWTSecret, *token, tokenTTL, time.Now())
		if err != nil {
			log.Fatal("Failed to issue token: %v", err)
		}
		fmt.Println(signed)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	wrappedDB := dbmetrics.Wrap(db, nil)
	txMgr := txmanager.NewTransactionManager(wrappedDB)

	if *admin != 0 {
		userSvc := usersService.NewService(userRepo.NewRepository(wrappedDB), txMgr, log)
		user, err := userSvc.GrantAdmin(ctx, *admin)
		if err != nil {
			log.Fatal("Failed to grant admin to telegram_id=%d: %v", *admin, err)
		}
		log.Info("User telegram_id=%d (%s) is admin now", user.TelegramID, user.FirstName)
		return
	}

	window, err := cfg.Schedule.Window()
	if err != nil {
		log.Fatal("Invalid schedule window: %v", err)
	}

	req := &seed_schedule.Request{Days: *days, Cleanup: *cleanup}
	if *from != "" {
		req.From, err = time.Parse(domain.DateFormat, *from)
		if err != nil {
			log.Fatal("Invalid -from date %q: %v", *from, err)
		}
	}

	useCase := seed_schedule.NewUseCase(
		timeslotRepo.NewRepository(wrappedDB),
		txMgr,
		window,
		cfg.Booking.SlotDurationMinutes,
		cfg.Schedule.Days,
		log,
	)

	result, err := useCase.Execute(ctx, req)
	if err != nil {
		log.Fatal("Seeding failed: %v", err)
	}

	log.Info("Seeded %d days from %s: inserted=%d, skipped=%d, deleted=%d",
		result.Days, result.From.Format(domain.DateFormat), result.Inserted, result.Skipped, result.Deleted)
}
