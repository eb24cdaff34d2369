package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ehr/intake/internal/config"
	"github.com/ehr/intake/internal/domain/intake"
	"github.com/ehr/intake/internal/platform/middleware"
	"github.com/ehr/intake/internal/platform/ocr"
)

const version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "intake-server",
		Short: "Appointment intake pipeline API server",
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(parseCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the intake API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func parseCmd() *cobra.Command {
	var (
		asJSON bool
		now    string
	)
	cmd := &cobra.Command{
		Use:   "parse <text>",
		Short: "Run extract, normalize and appointment over a line of text",
		Args:  cobra.ExactArgs(1),
		// A clarification is an answer, not a usage mistake.
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts, err := cfg.NormalizeOptions()
			if err != nil {
				return err
			}

			clock := intake.SystemClock(opts.Location)
			if now != "" {
				t, err := time.ParseInLocation("2006-01-02T15:04", now, opts.Location)
				if err != nil {
					return fmt.Errorf("--now: %w", err)
				}
				clock = intake.FixedClock(t)
			}

			svc := intake.NewService(clock, opts, nil)
			res, err := svc.Run(args[0])
			return printResult(cmd.OutOrStdout(), res, err, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw JSON response")
	cmd.Flags().StringVar(&now, "now", "", "reference time as YYYY-MM-DDTHH:MM in the configured zone")
	return cmd
}

var errClarification = errors.New("needs clarification")

// printResult writes an appointment or a clarification. A clarification is
// reported as errClarification so the command exits non-zero.
func printResult(w io.Writer, res intake.AppointmentResult, err error, asJSON bool) error {
	msg, clarify := intake.IsClarification(err)
	if err != nil && !clarify {
		return err
	}

	if asJSON {
		var body interface{} = res
		if clarify {
			body = intake.ClarificationResponse{Status: intake.StatusNeedsClarification, Message: msg}
		}
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(body); err != nil {
			return err
		}
	} else if clarify {
		color.New(color.FgYellow, color.Bold).Fprint(w, "needs clarification: ")
		fmt.Fprintln(w, msg)
	} else {
		a := res.Appointment
		color.New(color.FgGreen, color.Bold).Fprintln(w, a.Department)
		label := color.New(color.FgCyan)
		label.Fprint(w, "  date ")
		fmt.Fprintln(w, a.Date)
		label.Fprint(w, "  time ")
		fmt.Fprintln(w, a.Time)
		label.Fprint(w, "  tz   ")
		fmt.Fprintln(w, a.TZ)
	}

	if clarify {
		return errClarification
	}
	return nil
}

func newLogger(dev bool) zerolog.Logger {
	if dev {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}

func runServer() error {
	// Logger
	logger := newLogger(os.Getenv("ENV") == "development")

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	logger = newLogger(cfg.IsDev())
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}
	opts, err := cfg.NormalizeOptions()
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	e := newServer(cfg, opts, logger)

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().
			Str("addr", addr).
			Str("tz", opts.Location.String()).
			Str("hour_policy", string(opts.HourPolicy)).
			Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}

// newServer builds the echo instance with middleware and routes attached.
func newServer(cfg *config.Config, opts intake.NormalizeOptions, logger zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = middleware.ErrorHandler(logger)

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Content-Type", "X-Request-ID"},
	}))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit(cfg.MaxUploadSize))

	recognizer := ocr.NewTesseract(ocr.Config{
		Tesseract:   cfg.TesseractPath,
		Lang:        cfg.TesseractLang,
		TessdataDir: cfg.TessdataDir,
		PSM:         cfg.TesseractPSM,
	}, logger)
	svc := intake.NewService(intake.SystemClock(opts.Location), opts, recognizer)
	h := intake.NewHandler(svc, logger)

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version,
		})
	})

	e.GET("/", h.Index)
	h.RegisterRoutes(e.Group("/api"))

	return e
}
