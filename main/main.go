package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wrenmail/wren"
)

func main() {
	addr := flag.String("addr", ":2525", "listen address")
	hostname := flag.String("hostname", "mail.example.com", "server hostname")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	sink := make(chan wren.Email, 64)
	config := wren.DefaultServerConfig()
	config.Hostname = *hostname
	config.Addr = *addr
	config.Logger = logger

	server, err := wren.NewServer(config, sink)
	if err != nil {
		log.Fatal(err)
	}

	go func() {
		for email := range sink {
			logger.Info("mail received",
				"id", email.ID,
				"from", email.From,
				"recipients", len(email.To),
				"subject", email.Subject(),
				"bytes", email.DataSize(),
			)
		}
	}()

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		logger.Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)
	}()

	if err := server.ListenAndServe(); err != wren.ErrServerClosed {
		log.Fatal(err)
	}
}
