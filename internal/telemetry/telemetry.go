package telemetry

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

const instrumentation = "portfolio-chat"

// Config enables file-exported traces and metrics.
type Config struct {
	Enabled        bool
	Dir            string
	ExportInterval time.Duration
	ServiceVersion string
}

// Setup installs otel providers that export to rotating files under cfg.Dir.
// When disabled it returns noop instruments and a no-op cleanup.
func Setup(ctx context.Context, cfg Config, logger *zap.Logger) (trace.Tracer, metric.Meter, func(), error) {
	if !cfg.Enabled {
		return tracenoop.NewTracerProvider().Tracer(instrumentation), metricnoop.NewMeterProvider().Meter(instrumentation), func() {}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(instrumentation),
			semconv.ServiceVersion(cfg.ServiceVersion),
		),
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create resource: %w", err)
	}

	traceFile := newRotator(filepath.Join(cfg.Dir, "chat_traces.log"), 0, 0, 0)
	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(traceFile))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create trace exporter: %w", err)
	}
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	metricsFile := newRotator(filepath.Join(cfg.Dir, "chat_metrics.log"), 0, 0, 0)
	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(metricsFile))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create metric exporter: %w", err)
	}

	interval := cfg.ExportInterval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter, sdkmetric.WithInterval(interval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			logger.Warn("shutdown tracer provider", zap.Error(err))
		}
		if err := mp.Shutdown(ctx); err != nil {
			logger.Warn("shutdown meter provider", zap.Error(err))
		}
		_ = traceFile.Close()
		_ = metricsFile.Close()
	}

	return tp.Tracer(instrumentation), mp.Meter(instrumentation), cleanup, nil
}

// Recorder groups the chat instruments.
type Recorder struct {
	tracer      trace.Tracer
	messages    metric.Int64Counter
	intents     metric.Int64Counter
	effects     metric.Int64Counter
	typingDelay metric.Float64Histogram
}

// NewRecorder registers the chat instruments on meter.
func NewRecorder(meter metric.Meter, tracer trace.Tracer) (*Recorder, error) {
	messages, err := meter.Int64Counter("chat.messages", metric.WithDescription("Messages appended to widget transcripts"))
	if err != nil {
		return nil, err
	}
	intents, err := meter.Int64Counter("chat.intents", metric.WithDescription("Classified visitor intents"))
	if err != nil {
		return nil, err
	}
	effects, err := meter.Int64Counter("chat.effects", metric.WithDescription("Side effects delivered to clients"))
	if err != nil {
		return nil, err
	}
	typingDelay, err := meter.Float64Histogram("chat.typing_delay", metric.WithUnit("ms"), metric.WithDescription("Simulated typing latency"))
	if err != nil {
		return nil, err
	}
	return &Recorder{
		tracer:      tracer,
		messages:    messages,
		intents:     intents,
		effects:     effects,
		typingDelay: typingDelay,
	}, nil
}

// NopRecorder returns a Recorder backed by noop providers.
func NopRecorder() *Recorder {
	r, _ := NewRecorder(metricnoop.NewMeterProvider().Meter(instrumentation), tracenoop.NewTracerProvider().Tracer(instrumentation))
	return r
}

func (r *Recorder) Message(ctx context.Context, isBot bool) {
	author := "visitor"
	if isBot {
		author = "bot"
	}
	r.messages.Add(ctx, 1, metric.WithAttributes(attribute.String("author", author)))
}

func (r *Recorder) Intent(ctx context.Context, intent string) {
	r.intents.Add(ctx, 1, metric.WithAttributes(attribute.String("intent", intent)))
}

func (r *Recorder) Effect(ctx context.Context, kind string) {
	r.effects.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (r *Recorder) TypingDelay(ctx context.Context, d time.Duration) {
	r.typingDelay.Record(ctx, float64(d.Milliseconds()))
}

// Start opens a span named name.
func (r *Recorder) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return r.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}
