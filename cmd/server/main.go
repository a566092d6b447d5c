// medbridge server: translating doctor-patient conversation backend.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/medbridge/medbridge/pkg/config"
	"github.com/medbridge/medbridge/pkg/language"
	"github.com/medbridge/medbridge/pkg/server"
	"github.com/medbridge/medbridge/pkg/service"
	"github.com/medbridge/medbridge/pkg/store"
	"github.com/medbridge/medbridge/pkg/summary"
	"github.com/medbridge/medbridge/pkg/translate"
)

var (
	configPath string
	port       int
	dbPath     string
	mtEngine   string
	mtURL      string
	logLevel   string
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "medbridge",
		Short: "Doctor-patient interpreter backend with automatic translation",
		Long: `medbridge is the backend for threaded doctor-patient conversations.

Every message is translated between the two parties' languages through a
free machine-translation provider, conversations are searchable, and an
LLM produces clinical summaries on demand.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "Path to YAML config file")
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(newServeCmd())
	root.AddCommand(newDetectCmd())
	root.AddCommand(newTranslateCmd())
	return root
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
	cmd.Flags().IntVar(&port, "port", 0, "HTTP server port (overrides config)")
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (overrides config)")
	cmd.Flags().StringVar(&mtEngine, "mt-engine", "", "Translation engine: mymemory or libretranslate")
	cmd.Flags().StringVar(&mtURL, "mt-url", "", "Base URL for the translation engine API")
	return cmd
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect <text>",
		Short: "Detect the language of a piece of text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger("error")
			detector := language.NewDetector(nil, logger)
			fmt.Println(detector.Detect(args[0]))
			return nil
		},
	}
}

func newTranslateCmd() *cobra.Command {
	var fromLang, toLang string
	cmd := &cobra.Command{
		Use:   "translate <text>",
		Short: "Translate a piece of text through the configured engine",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger := newLogger("error")

			engine, err := translate.ParseEngineType(cfg.Translation.Engine)
			if err != nil {
				return err
			}
			translator, err := translate.New(translate.Config{
				Engine:          engine,
				BaseURL:         cfg.Translation.BaseURL,
				MaxSegmentBytes: cfg.Translation.MaxSegmentBytes,
				Timeout:         time.Duration(cfg.Translation.TimeoutSeconds) * time.Second,
				Logger:          logger,
			})
			if err != nil {
				return err
			}

			if fromLang == language.Auto {
				fromLang = language.NewDetector(nil, logger).Detect(args[0])
			}
			translated := translator.Translate(cmd.Context(), args[0], fromLang, toLang)
			if translated == "" {
				return errors.New("translation unavailable or identical to input")
			}
			fmt.Println(translated)
			return nil
		},
	}
	cmd.Flags().StringVar(&fromLang, "from", "auto", "Source language code (or auto)")
	cmd.Flags().StringVar(&toLang, "to", "en", "Target language code")
	return cmd
}

func runServe() error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if port != 0 {
		cfg.Server.Port = port
	}
	if dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if mtEngine != "" {
		cfg.Translation.Engine = mtEngine
	}
	if mtURL != "" {
		cfg.Translation.BaseURL = mtURL
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}

	logger := newLogger(cfg.Log.Level)
	logger.WithFields(logrus.Fields{
		"port":      cfg.Server.Port,
		"db_path":   cfg.Database.Path,
		"mt_engine": cfg.Translation.Engine,
		"log_level": logger.GetLevel().String(),
	}).Info("Starting medbridge server")

	engine, err := translate.ParseEngineType(cfg.Translation.Engine)
	if err != nil {
		logger.WithError(err).Fatal("Failed to parse translation engine type")
	}
	translator, err := translate.New(translate.Config{
		Engine:          engine,
		BaseURL:         cfg.Translation.BaseURL,
		MaxSegmentBytes: cfg.Translation.MaxSegmentBytes,
		Timeout:         time.Duration(cfg.Translation.TimeoutSeconds) * time.Second,
		Logger:          logger,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to create translator")
	}

	st, err := store.Open(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer st.Close()

	detector := language.NewDetector(nil, logger)
	summarizer := summary.New(summary.Config{
		APIKey:  cfg.Summary.APIKey,
		BaseURL: cfg.Summary.BaseURL,
		Model:   cfg.Summary.Model,
	}, logger)
	if cfg.Summary.APIKey == "" {
		logger.Warn("No summary API key configured, summaries will be unavailable")
	}

	interp := service.New(st, translator, detector, summarizer, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.New(interp, logger).Handler(),
	}

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		logger.WithFields(logrus.Fields{
			"addr": httpServer.Addr,
		}).Info("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("failed to serve: %w", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		logger.WithError(err).Fatal("Server error")
	case sig := <-sigChan:
		logger.WithFields(logrus.Fields{
			"signal": sig.String(),
		}).Info("Received signal, shutting down gracefully...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.WithError(err).Warn("Graceful shutdown timeout, forcing close")
			httpServer.Close()
		} else {
			logger.Info("Server stopped gracefully")
		}
	}
	return nil
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
