package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgallion1/polcat/internal/api"
	"github.com/dgallion1/polcat/internal/config"
	"github.com/dgallion1/polcat/internal/loader"
	"github.com/dgallion1/polcat/internal/oscal"
	"github.com/dgallion1/polcat/internal/policy"
	"github.com/dgallion1/polcat/internal/report"
	"github.com/spf13/cobra"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "polcat",
		Short: "Common Policy to OSCAL catalog converter",
		Long: `Polcat converts the tokenized text rendering of the Common Policy
certificate policy document into an OSCAL-shaped catalog: nested
outline groups, controls with prose statements, metadata with a
revision history, and a back-matter bibliography.

Supported inputs: TXT, MD (tokenized policy dialect), PDF, DOCX.`,
		Version: version,
	}

	rootCmd.AddCommand(convertCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func convertCmd() *cobra.Command {
	var (
		output string
		format string
	)
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert one policy document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ld, err := loader.ForFile(path)
			if err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("open %s: %w", path, err)
			}
			defer f.Close()

			lines, err := ld.Lines(f, filepath.Base(path))
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}

			doc, err := policy.NewParser().Parse(lines)
			if err != nil {
				return fmt.Errorf("parse %s: %w", path, err)
			}

			var out []byte
			switch format {
			case "json":
				out, err = json.MarshalIndent(oscal.FromDocument(doc), "", "  ")
				if err != nil {
					return fmt.Errorf("encode catalog: %w", err)
				}
				out = append(out, '\n')
			case "markdown":
				out = []byte(report.Markdown(doc))
			case "html":
				out, err = report.HTML(doc)
				if err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format: %s", format)
			}

			if output == "" {
				_, err = os.Stdout.Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			stats := report.Collect(doc)
			fmt.Printf("Wrote %s (%d groups, %d controls, %d resources)\n",
				output, stats.Groups, stats.Controls, stats.Resources)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write output to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "json", "output format: json, markdown, html")
	return cmd
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the conversion HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

			cfg := config.Load()
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			srv := api.NewServer(log, cfg)
			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      srv,
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				sigCh := make(chan os.Signal, 1)
				signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
				<-sigCh
				log.Info("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			log.Info("starting polcat", "port", cfg.Port)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}
}
