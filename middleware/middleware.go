package middleware

import (
	"context"
	"time"

	"github.com/apex/log"

	"github.com/ncecere/mymentor/provider"
)

// LanguageModelMiddleware wraps a provider.LanguageModel with additional
// behavior such as logging or telemetry.
type LanguageModelMiddleware func(provider.LanguageModel) provider.LanguageModel

// WrapLanguageModel applies the provided middlewares around the base
// language model. Middlewares are applied in the order provided, so the
// first middleware becomes the outermost wrapper.
func WrapLanguageModel(base provider.LanguageModel, mws ...LanguageModelMiddleware) provider.LanguageModel {
	wrapped := base
	for i := len(mws) - 1; i >= 0; i-- {
		wrapped = mws[i](wrapped)
	}
	return wrapped
}

// LoggingOptions controls which aspects of a language-model call are
// logged by the logging middleware.
type LoggingOptions struct {
	// Logger is the destination for log output. If nil, log.Log is used.
	Logger log.Interface
	// LogRequest controls whether a debug entry is written before each call.
	LogRequest bool
	// LogResponse controls whether successful calls are logged.
	LogResponse bool
	// LogErrors controls whether failed calls are logged.
	LogErrors bool
}

func defaultLoggingOptions(opts LoggingOptions) LoggingOptions {
	if opts.Logger == nil {
		opts.Logger = log.Log
	}
	if !opts.LogRequest && !opts.LogResponse && !opts.LogErrors {
		opts.LogResponse = true
		opts.LogErrors = true
	}
	return opts
}

// LoggingLanguageModel returns a LanguageModelMiddleware that logs
// Generate calls with the model id and duration. Prompts and answers are
// never logged.
func LoggingLanguageModel(opts LoggingOptions) LanguageModelMiddleware {
	opts = defaultLoggingOptions(opts)

	return func(next provider.LanguageModel) provider.LanguageModel {
		return &loggingLanguageModel{next: next, opts: opts}
	}
}

type loggingLanguageModel struct {
	next provider.LanguageModel
	opts LoggingOptions
}

func (l *loggingLanguageModel) ModelID() string { return l.next.ModelID() }

func (l *loggingLanguageModel) Generate(ctx context.Context, req *provider.LanguageModelRequest) (*provider.LanguageModelResponse, error) {
	ctxLog := l.opts.Logger.WithField("model", l.next.ModelID())
	if l.opts.LogRequest {
		ctxLog.WithField("messages", len(req.Messages)).Debug("lm.generate start")
	}

	start := time.Now()
	res, err := l.next.Generate(ctx, req)
	ctxLog = ctxLog.WithDuration(time.Since(start))

	if err != nil {
		if l.opts.LogErrors {
			ctxLog.WithError(err).Error("lm.generate failed")
		}
		return nil, err
	}

	if l.opts.LogResponse {
		ctxLog.WithField("stop_reason", res.StopReason).Info("lm.generate done")
	}
	return res, nil
}

// LanguageModelCallInfo contains high-level metadata about a
// language-model call that can be used for metrics.
type LanguageModelCallInfo struct {
	Model     string
	StartTime time.Time
	EndTime   time.Time
	Err       error
}

// Duration returns the wall time spent in the call.
func (i LanguageModelCallInfo) Duration() time.Duration {
	return i.EndTime.Sub(i.StartTime)
}

// TelemetryHooks defines callbacks that are invoked around language
// model calls.
type TelemetryHooks struct {
	OnLanguageModelCall func(ctx context.Context, info LanguageModelCallInfo)
}

// TelemetryLanguageModel returns a LanguageModelMiddleware that invokes
// the provided telemetry hooks after every Generate call.
func TelemetryLanguageModel(hooks TelemetryHooks) LanguageModelMiddleware {
	return func(next provider.LanguageModel) provider.LanguageModel {
		return &telemetryLanguageModel{next: next, hooks: hooks}
	}
}

type telemetryLanguageModel struct {
	next  provider.LanguageModel
	hooks TelemetryHooks
}

func (t *telemetryLanguageModel) ModelID() string { return t.next.ModelID() }

func (t *telemetryLanguageModel) Generate(ctx context.Context, req *provider.LanguageModelRequest) (*provider.LanguageModelResponse, error) {
	start := time.Now()
	res, err := t.next.Generate(ctx, req)
	if t.hooks.OnLanguageModelCall != nil {
		t.hooks.OnLanguageModelCall(ctx, LanguageModelCallInfo{
			Model:     t.next.ModelID(),
			StartTime: start,
			EndTime:   time.Now(),
			Err:       err,
		})
	}
	return res, err
}
