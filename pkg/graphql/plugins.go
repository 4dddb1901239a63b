package graphql

import "log/slog"

// Plugin mutates requests before they are sent and responses after they
// arrive. Plugins run in registration order, each receiving the output of
// the previous one.
type Plugin interface {
	Pre(req *Request) *Request
	Post(resp *Response) *Response
}

// ApplyPre threads the request through every plugin left to right.
func ApplyPre(plugins []Plugin, req *Request) *Request {
	for _, p := range plugins {
		req = p.Pre(req)
	}
	return req
}

// ApplyPost threads the response through every plugin left to right.
func ApplyPost(plugins []Plugin, resp *Response) *Response {
	for _, p := range plugins {
		resp = p.Post(resp)
	}
	return resp
}

// LoggingPlugin logs every request and response at debug level.
type LoggingPlugin struct {
	Logger *slog.Logger
}

// Pre implements Plugin.
func (p *LoggingPlugin) Pre(req *Request) *Request {
	if p.Logger != nil {
		p.Logger.Debug("graphql request",
			"operation", req.OperationName,
			"variables", len(req.Variables))
	}
	return req
}

// Post implements Plugin.
func (p *LoggingPlugin) Post(resp *Response) *Response {
	if p.Logger != nil {
		operation := ""
		if resp.Request != nil {
			operation = resp.Request.OperationName
		}
		p.Logger.Debug("graphql response",
			"operation", operation,
			"errors", len(resp.Errors))
	}
	return resp
}
