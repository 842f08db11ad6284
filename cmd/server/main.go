package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sarafernandess/ifocus-app/internal/assignment"
	"github.com/sarafernandess/ifocus-app/internal/catalog"
	"github.com/sarafernandess/ifocus-app/internal/config"
	"github.com/sarafernandess/ifocus-app/internal/db"
	"github.com/sarafernandess/ifocus-app/internal/httpapi"
	"github.com/sarafernandess/ifocus-app/internal/httpapi/handlers"
	"github.com/sarafernandess/ifocus-app/internal/identity"
	"github.com/sarafernandess/ifocus-app/internal/match"
	"github.com/sarafernandess/ifocus-app/internal/session"
	"github.com/sarafernandess/ifocus-app/internal/store/rabbitmq"
	"github.com/sarafernandess/ifocus-app/internal/store/redisstore"
)

func main() {
	cfg := config.Load()

	gdb := db.Connect(cfg.DBDriver, cfg.DBDSN)
	if err := gdb.AutoMigrate(
		&catalog.Course{},
		&catalog.Discipline{},
		&identity.User{},
		&assignment.Assignment{},
		&session.Session{},
		&session.Message{},
	); err != nil {
		log.Fatalf("automigrate: %v", err)
	}

	rds := redisstore.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	defer rds.Close()

	// Events are advisory (unread badges); the engine runs without a broker.
	var events session.EventPublisher
	pub, err := rabbitmq.NewPublisher(cfg.RabbitURL, cfg.RabbitQueue)
	if err != nil {
		log.Printf("rabbit unavailable, unread counters disabled: %v", err)
	} else {
		defer pub.Close()
		events = pub
	}

	catalogRepo := catalog.NewRepo(gdb)
	identityRepo := identity.NewRepo(gdb)

	assignments := assignment.NewService(gdb, assignment.NewRepo(gdb), catalogRepo, assignment.NewIndex())
	catalogSvc := catalog.NewService(gdb, catalogRepo, assignments)
	matches := match.NewService(assignments, identityRepo)
	sessions := session.NewService(gdb, session.NewRepo(gdb), identityRepo, events)

	if err := assignments.LoadIndex(context.Background()); err != nil {
		log.Fatalf("load match index: %v", err)
	}

	h := handlers.NewHandler(cfg, catalogSvc, assignments, matches, sessions, identityRepo, rds)
	router := httpapi.NewRouter(cfg, h)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Printf("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
