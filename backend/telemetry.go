package tkbackend

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/special/tkbackend"

// instruments are taken from the global providers when a connection is
// created; without a provider installed they do nothing.
type instruments struct {
	tracer trace.Tracer

	commands     metric.Int64Counter
	messages     metric.Int64Counter
	unrecognized metric.Int64Counter
	evalDuration metric.Float64Histogram
}

func newInstruments() *instruments {
	meter := otel.Meter(instrumentationName)
	in := &instruments{tracer: otel.Tracer(instrumentationName)}

	var err error
	if in.commands, err = meter.Int64Counter("tkbackend.commands",
		metric.WithDescription("Commands written to the host")); err != nil {
		in.commands = noop.Int64Counter{}
	}
	if in.messages, err = meter.Int64Counter("tkbackend.messages",
		metric.WithDescription("Lines read from the host, by kind")); err != nil {
		in.messages = noop.Int64Counter{}
	}
	if in.unrecognized, err = meter.Int64Counter("tkbackend.unrecognized",
		metric.WithDescription("Lines that matched no tag and no pending reply")); err != nil {
		in.unrecognized = noop.Int64Counter{}
	}
	if in.evalDuration, err = meter.Float64Histogram("tkbackend.eval.duration",
		metric.WithDescription("Time from sending an Eval to its reply"),
		metric.WithUnit("s")); err != nil {
		in.evalDuration = noop.Float64Histogram{}
	}
	return in
}

func (in *instruments) countMessage(ctx context.Context, kind MessageKind) {
	in.messages.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind.String())))
	if kind == MessageUnrecognized {
		in.unrecognized.Add(ctx, 1)
	}
}
