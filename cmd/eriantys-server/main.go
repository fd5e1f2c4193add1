// Command eriantys-server hosts Eriantys matches over newline-framed TCP and WebSocket.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eriantys/internal/app"
	"eriantys/internal/config"
	"eriantys/internal/heartbeat"
	"eriantys/internal/logging"
	"eriantys/internal/protocol"
	"eriantys/internal/session"

	"golang.org/x/time/rate"
)

func main() {
	envFile := flag.String("env", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	if err := run(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "eriantys-server: %v\n", err)
		os.Exit(1)
	}
}

func run(envFile string) error {
	cfg, err := config.LoadServerConfig(envFile)
	if err != nil {
		return err
	}
	log, err := logging.New(cfg.LogLevel, cfg.LogJSON)
	if err != nil {
		return err
	}
	defer log.Sync()

	game, err := config.LoadGameConfig(cfg.GameConfigPath)
	if err != nil {
		log.Warn("Using default game config: %v", err)
		game = config.DefaultGameConfig()
	}
	characters, err := game.CharacterKinds()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := app.NewService(rand.New(rand.NewSource(time.Now().UnixNano())), characters...)
	srv := session.NewServer(protocol.NewCodec(), svc, log, session.Options{
		Heartbeat: heartbeat.Config{
			BeatInterval:  cfg.BeatInterval,
			CheckInterval: cfg.CheckInterval,
			Timeout:       cfg.BeatTimeout,
		},
		MessageRate:  rate.Limit(cfg.MessageRate),
		MessageBurst: cfg.MessageBurst,
	})

	ln, err := net.Listen("tcp", cfg.TCPAddr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", cfg.TCPAddr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/ws", srv.WebSocketHandler(ctx))
	httpSrv := &http.Server{Addr: cfg.WSAddr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}

	errs := make(chan error, 2)
	go func() {
		log.Info("Listening for TCP clients on %s", ln.Addr())
		errs <- srv.Serve(ctx, ln)
	}()
	go func() {
		log.Info("Listening for WebSocket clients on %s/ws", cfg.WSAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- err
			return
		}
		errs <- nil
	}()

	select {
	case <-ctx.Done():
	case err = <-errs:
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if serr := httpSrv.Shutdown(shutdownCtx); serr != nil {
		log.Error("WebSocket shutdown: %v", serr)
	}
	log.Info("Server stopped.")
	return err
}
