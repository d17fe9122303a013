package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/ny423/epub-to-audiobook/internal/alerts"
	"github.com/ny423/epub-to-audiobook/internal/delivery"
	"github.com/ny423/epub-to-audiobook/internal/language"
	"github.com/ny423/epub-to-audiobook/internal/telegram"
	"github.com/ny423/epub-to-audiobook/internal/userconfig"
)

func main() {

	// =========================================================================
	// ENV / DB INIT
	// =========================================================================

	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("db ping failed: %v", err)
	}
	defer db.Close()

	baseLogger, _ := zap.NewProduction()
	defer baseLogger.Sync()
	zl := baseLogger.Sugar()

	// =========================================================================
	// LANGUAGE CATALOG / DETECTION
	// =========================================================================

	catalog, err := language.LoadCatalog()
	if err != nil {
		log.Fatalf("failed to load language catalog: %v", err)
	}
	detector := language.NewDetector()

	// =========================================================================
	// USER PREFERENCES
	// =========================================================================

	prefsRepo, err := userconfig.NewRepo(db)
	if err != nil {
		log.Fatalf("failed to init user prefs: %v", err)
	}
	prefsService := userconfig.NewService(prefsRepo)

	// =========================================================================
	// TELEGRAM BOT
	// =========================================================================

	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is not set")
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}

	notifier := alerts.NewTelegramNotifier(bot)

	botApp, err := telegram.NewBotApp(bot, prefsService, catalog, detector, notifier)
	if err != nil {
		log.Fatalf("failed to init bot app: %v", err)
	}
	go botApp.Start()

	// =========================================================================
	// HTTP ROUTER
	// =========================================================================

	jobs := delivery.NewJobs()
	handler := delivery.NewConversionHandler(jobs)
	r := delivery.NewRouter(handler)

	// =========================================================================
	// START SERVER
	// =========================================================================

	addr := ":" + port
	zl.Infow("listening", "addr", addr, "service", "epub-to-audiobook")

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
