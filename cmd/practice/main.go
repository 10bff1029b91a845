package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/config"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/gemini"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/interview"
	"github.com/vishruthp2003/KodnestF2FVersion/internal/logger"
)

var (
	flagOffline     bool
	flagSeed        int64
	flagAutoAdvance bool
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "practice",
		Short:         "Run a 15-question mock interview in the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runPractice,
	}

	cmd.Flags().BoolVar(&flagOffline, "offline", false, "skip Gemini and use the built-in questions and feedback")
	cmd.Flags().Int64Var(&flagSeed, "seed", 0, "seed for fallback feedback selection (0 = random)")
	cmd.Flags().BoolVar(&flagAutoAdvance, "auto-advance", false, "move to the next question right after feedback")

	return cmd
}

func runPractice(cmd *cobra.Command, args []string) error {
	if flagOffline {
		// Load would otherwise demand GEMINI_API_KEY
		os.Setenv("GEMINI_ENABLED", "false")
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logOpts := []logger.Option{logger.WithoutConsole()}
	if cfg.LogFile != "" {
		logOpts = append(logOpts, logger.WithFile(cfg.LogFile))
	}
	log, err := logger.NewLogger(cfg.Env, logOpts...)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	opts := interview.Options{Logger: log}
	if cfg.Gemini.Enabled {
		opts.Oracle = gemini.NewClient(cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.BaseURL, cfg.Gemini.Timeout)
	}
	if flagSeed != 0 {
		opts.Rand = rand.New(rand.NewSource(flagSeed))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	o := interview.New(uuid.NewString(), opts)
	p := &practice{
		o:           o,
		in:          cmd.InOrStdin(),
		out:         cmd.OutOrStdout(),
		autoAdvance: flagAutoAdvance,
	}
	return p.run(ctx)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
