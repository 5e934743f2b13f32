package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/arin/tutor-cli/internal/backend"
	"github.com/arin/tutor-cli/internal/ui"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	serveAddr   string
	serveModel  string
	serveCanned bool
	serveDelay  time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local chat backend",
	Long: `Run a development chat backend on --addr. POST /chat takes
{"user_input": "..."} and streams the reply as newline-delimited
{"text": "..."} records.

Replies come from an Ollama model (see $OLLAMA_HOST), or from a fixed
canned reply with --canned.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var gen backend.Generator
		if serveCanned {
			gen = backend.CannedGenerator{Delay: serveDelay}
		} else {
			model := serveModel
			if model == "" {
				model = cfg.Model
			}
			og, err := backend.NewOllamaGenerator(model)
			if err != nil {
				return fmt.Errorf("ollama client: %w", err)
			}
			sp := ui.NewSpinner("Checking Ollama...")
			sp.Start()
			if err := og.Heartbeat(ctx); err != nil {
				sp.Fail("Ollama is not answering; replies will fail until it is up")
				log.Debug().Err(err).Msg("ollama heartbeat")
			} else {
				sp.Success("Ollama is up")
			}
			gen = og
			log.Info().Str("model", model).Msg("relaying to ollama")
		}

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           backend.NewServer(gen).Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		}

		eg, ctx := errgroup.WithContext(ctx)
		eg.Go(func() error {
			log.Info().Str("addr", serveAddr).Msg("starting chat backend")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		eg.Go(func() error {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				log.Error().Err(err).Msg("server shutdown error")
				return err
			}
			log.Info().Msg("server shutdown complete")
			return nil
		})
		return eg.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8000", "Listen address")
	serveCmd.Flags().StringVar(&serveModel, "model", "", "Ollama model (default from config)")
	serveCmd.Flags().BoolVar(&serveCanned, "canned", false, "Reply with a fixed message instead of calling Ollama")
	serveCmd.Flags().DurationVar(&serveDelay, "delay", 100*time.Millisecond, "Pause between canned fragments")
}
