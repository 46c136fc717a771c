package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wudi/infosvg/assemble"
	"github.com/wudi/infosvg/fonts"
	"github.com/wudi/infosvg/observability"
	"github.com/wudi/infosvg/server"
)

func main() {
	addr := flag.String("addr", ":8080", "Listen address")
	rate := flag.Int("rate", 60, "Requests per minute and client IP, 0 disables limiting")
	ttl := flag.Duration("ttl", server.DefaultJobTTL, "How long print documents stay retrievable")
	fontImport := flag.String("font-import", "", "Stylesheet URL imported by every page")
	flag.Parse()

	logger := observability.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	face, err := fonts.DefaultFace()
	if err != nil {
		fmt.Fprintf(os.Stderr, "svgexportd: %v\n", err)
		os.Exit(1)
	}

	var aopts []assemble.Option
	if *fontImport != "" {
		aopts = append(aopts, assemble.WithFontImport(*fontImport))
	}
	srv := &http.Server{
		Addr: *addr,
		Handler: server.New(
			server.WithLogger(logger),
			server.WithRateLimit(*rate, time.Minute),
			server.WithJobTTL(*ttl),
			server.WithFace(face),
			server.WithAssembleOptions(aopts...),
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdown)
	}()

	logger.Info("listening", observability.String("addr", *addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fmt.Fprintf(os.Stderr, "svgexportd: %v\n", err)
		os.Exit(1)
	}
}
