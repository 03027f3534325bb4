package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"libraryapi/internal/catalog"
	"libraryapi/internal/httpx"
	"libraryapi/internal/user"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

const repoTimeout = 3 * time.Second

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	serverAddress := getEnv("APP_ADDR", ":8080")
	databaseDSN := os.Getenv("DB_DSN")
	rateLimitRPS := getEnvFloat("RATE_LIMIT_RPS", 20)
	rateLimitBurst := getEnvInt("RATE_LIMIT_BURST", 40)
	maxBodyBytes := int64(getEnvInt("MAX_BODY_BYTES", 1<<20))

	var (
		dbPool      *pgxpool.Pool
		catalogRepo catalog.Repository
		userRepo    user.Repository
	)
	if databaseDSN != "" {
		dbPool = mustOpenDB(databaseDSN)
		defer dbPool.Close()
		catalogRepo = catalog.NewPostgresRepository(dbPool, repoTimeout)
		userRepo = user.NewPostgresRepository(dbPool, repoTimeout)
	} else {
		log.Println("DB_DSN not set, using in-memory store")
		catalogRepo = catalog.NewMemoryRepository()
		userRepo = user.NewMemoryRepository()
	}

	userService := user.NewService(userRepo)
	app := &application{
		dbPool:         dbPool,
		catalogHandler: catalog.NewHTTPHandler(catalog.NewService(catalogRepo)),
		userHandler:    user.NewHTTPHandler(userService),
		userService:    userService,
	}

	rateLimiter := httpx.NewRateLimitMiddleware(rateLimitRPS, rateLimitBurst)

	var handler http.Handler = app.routes()
	handler = httpx.RequestSizeLimitMiddleware(maxBodyBytes)(handler)
	handler = rateLimiter.Middleware(handler)
	handler = httpx.AccessLogMiddleware(handler)
	handler = httpx.SecurityHeadersMiddleware(handler)
	handler = httpx.RecoveryMiddleware(handler)
	handler = httpx.RequestIDMiddleware(handler)

	httpServer := &http.Server{
		Addr:         serverAddress,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("starting server on %s", serverAddress)
	if err := serve(httpServer); err != nil {
		log.Fatalf("server error: %v", err)
	}
	log.Println("server stopped")
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func mustOpenDB(dsn string) *pgxpool.Pool {
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatalf("cannot create db pool: %v", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		log.Fatalf("cannot ping database (%s): %v", redactDSN(dsn), err)
	}
	log.Println("database connection OK")
	return pool
}

func redactDSN(dsn string) string {
	const marker = "://"
	start := strings.Index(dsn, marker)
	if start < 0 {
		return dsn
	}
	start += len(marker)
	end := strings.Index(dsn[start:], "@")
	if end < 0 {
		return dsn
	}
	return dsn[:start] + "***" + dsn[start+end:]
}
