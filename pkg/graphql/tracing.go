package graphql

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/gqlwire/gqlwire"

// TracingPlugin records one OpenTelemetry span per executed operation.
// The span starts in Pre and ends in Post; requests that never produce a
// response leak their span until the plugin is garbage collected, which
// matches the plugin contract's fire-and-forget shape.
type TracingPlugin struct {
	Tracer trace.Tracer

	mu    sync.Mutex
	spans map[*Request]trace.Span
}

// NewTracingPlugin creates a TracingPlugin using the global tracer
// provider.
func NewTracingPlugin() *TracingPlugin {
	return &TracingPlugin{Tracer: otel.Tracer(tracerName)}
}

// Pre implements Plugin.
func (p *TracingPlugin) Pre(req *Request) *Request {
	if p.Tracer == nil {
		p.Tracer = otel.Tracer(tracerName)
	}

	ctx := context.Background()
	if c, ok := req.Context.(context.Context); ok && c != nil {
		ctx = c
	}

	name := req.OperationName
	if name == "" {
		name = "graphql.execute"
	}
	ctx, span := p.Tracer.Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("graphql.operation.name", req.OperationName),
			attribute.Int("graphql.variables.count", len(req.Variables)),
		),
	)
	req.Context = ctx

	p.mu.Lock()
	if p.spans == nil {
		p.spans = make(map[*Request]trace.Span)
	}
	p.spans[req] = span
	p.mu.Unlock()
	return req
}

// Post implements Plugin.
func (p *TracingPlugin) Post(resp *Response) *Response {
	if resp.Request == nil {
		return resp
	}

	p.mu.Lock()
	span, ok := p.spans[resp.Request]
	if ok {
		delete(p.spans, resp.Request)
	}
	p.mu.Unlock()
	if !ok {
		return resp
	}

	if resp.HasErrors() {
		span.SetStatus(codes.Error, resp.Errors[0].Message)
	}
	span.SetAttributes(attribute.Int("graphql.errors.count", len(resp.Errors)))
	span.End()
	return resp
}
