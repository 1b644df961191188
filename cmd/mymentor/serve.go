package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/apex/log"
	jsonhandler "github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
	"github.com/spf13/cobra"

	mentor "github.com/ncecere/mymentor"
	"github.com/ncecere/mymentor/config"
	"github.com/ncecere/mymentor/groq"
	"github.com/ncecere/mymentor/metrics"
	"github.com/ncecere/mymentor/middleware"
	"github.com/ncecere/mymentor/openai"
	"github.com/ncecere/mymentor/provider"
	"github.com/ncecere/mymentor/server"
)

var (
	serveEnvFile string
	serveAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server on MENTOR_ADDR (default :8000).

Configuration is read from the environment and from the env file
(default .env). OPENAI_API_KEY is required; the server does not start
without it.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveEnvFile, "env-file", config.DefaultEnvFile, "Path to a dotenv file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides MENTOR_ADDR and PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveEnvFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	logger := newLogger(cfg, os.Stderr)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	asker, err := newAsker(cfg, logger, m)
	if err != nil {
		return err
	}

	logger.WithFields(log.Fields{
		"provider": cfg.Provider,
		"model":    asker.ModelID(),
		"metrics":  cfg.MetricsEnabled,
	}).Info("starting My Mentor")

	srv := server.New(asker, server.Options{
		AllowOrigins: cfg.AllowOrigins,
		Logger:       logger,
		Metrics:      m,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Start(ctx, cfg.Addr)
}

// newLogger builds the process logger from the log settings. cfg must
// have passed Validate.
func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	var h log.Handler = text.New(w)
	if cfg.LogFormat == "json" {
		h = jsonhandler.New(w)
	}
	return &log.Logger{
		Handler: h,
		Level:   log.MustParseLevel(cfg.LogLevel),
	}
}

// newAsker creates the single upstream client shared by all requests and
// wraps its model with logging and, when m is non-nil, metrics.
func newAsker(cfg *config.Config, logger log.Interface, m *metrics.Metrics) (*mentor.Asker, error) {
	opts := provider.ClientOptions{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
	}
	if cfg.Organization != "" {
		opts.Headers = http.Header{}
		opts.Headers.Set("OpenAI-Organization", cfg.Organization)
	}
	if cfg.UpstreamTimeout > 0 {
		opts.HTTPClient = openai.WithHTTPTimeout(cfg.UpstreamTimeout)
	}

	var (
		client *openai.Client
		err    error
	)
	switch cfg.Provider {
	case config.ProviderGroq:
		client, err = groq.NewClient(opts)
	default:
		client, err = openai.NewClient(opts)
	}
	if err != nil {
		return nil, fmt.Errorf("creating %s client: %w", cfg.Provider, err)
	}

	mws := []middleware.LanguageModelMiddleware{
		middleware.LoggingLanguageModel(middleware.LoggingOptions{Logger: logger}),
	}
	if m != nil {
		mws = append(mws, middleware.TelemetryLanguageModel(m.Hooks()))
	}
	model := middleware.WrapLanguageModel(client.ChatModel(cfg.Model), mws...)

	var askerOpts []mentor.Option
	if cfg.CallSettings != nil {
		askerOpts = append(askerOpts, mentor.WithCallSettings(cfg.CallSettings))
	}
	return mentor.NewAsker(model, askerOpts...)
}
