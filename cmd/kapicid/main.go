package main

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	kapici "github.com/kapici-dev/kapici"
	"github.com/kapici-dev/kapici/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	addr := flag.String("addr", "", "listen address (overrides config)")
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.listen = *addr
	}

	if len(cfg.engine.JWT.Secret) == 0 && !cfg.engine.Security.ProductionMode {
		// Tokens signed with a per-process secret do not survive a
		// restart.
		cfg.engine.JWT.Secret = randomSecret()
		log.Print("WARNING: no JWT secret configured, using a random per-process secret")
	}

	builder := kapici.New().WithConfig(cfg.engine)

	if cfg.redisAddr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.redisAddr,
			Password: cfg.redisPassword,
			DB:       cfg.redisDB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := client.Ping(pingCtx).Err(); err != nil {
			cancel()
			log.Fatalf("redis ping: %v", err)
		}
		cancel()
		builder = builder.WithRedis(client)
		log.Printf("attempt tracking and revocation backed by redis at %s", cfg.redisAddr)
	} else {
		log.Print("no redis configured, using in-process attempt tracking, revocation unavailable")
	}

	if cfg.engine.Audit.Enabled {
		builder = builder.WithAuditSink(kapici.NewJSONWriterSink(os.Stderr))
	}

	engine, err := builder.Build()
	if err != nil {
		log.Fatal(err)
	}
	defer engine.Close()

	srv := &http.Server{
		Addr:              cfg.listen,
		Handler:           server.New(engine).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("kapicid listening on %s", cfg.listen)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func randomSecret() []byte {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		log.Fatalf("generate secret: %v", err)
	}
	return b
}
