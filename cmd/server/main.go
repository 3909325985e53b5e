package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	_ "invoiceocr/docs"
	"invoiceocr/internal/config"
	"invoiceocr/internal/handler"
	"invoiceocr/internal/pipeline"
	"invoiceocr/internal/provider"
	"invoiceocr/internal/provider/gemini"
	"invoiceocr/internal/provider/groq"
	"invoiceocr/internal/render"
	"invoiceocr/internal/router"
	"invoiceocr/internal/service"
)

// @title Invoice OCR API
// @version 1.0
// @description Extracts structured invoice data from PDFs and images using a vision language model.
// @BasePath /
func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize the configured OCR provider
	registry := provider.NewRegistry()
	registry.Register(config.ModeGemini, gemini.DisplayName, gemini.New)
	registry.Register(config.ModeGroq, groq.DisplayName, groq.New)
	selection := registry.Initialize(&cfg.OCR)

	// Initialize pipeline pieces
	renderer := render.New(cfg.Render)
	p := pipeline.New(pipeline.Options{
		MaxConcurrentPages: cfg.Pipeline.MaxConcurrentPages,
		Verbose:            strings.EqualFold(cfg.Log.Level, "debug"),
	})

	// Initialize services
	invoiceSvc := service.NewInvoiceService(selection, renderer, p, &cfg.Upload)

	// Initialize handlers
	invoiceH := handler.NewInvoiceHandler(invoiceSvc)
	healthH := handler.NewHealthHandler(invoiceSvc)

	// Setup router
	r := router.Setup(cfg, invoiceH, healthH)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server starting on %s (OCR mode %s, provider connected: %t, PDF support: %t)",
			cfg.Server.Port, selection.Mode, selection.Connected(), renderer.PDFEnabled())
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
