package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/server"
)

// sessionSink implements execloop.NotificationSink by forwarding each output
// chunk as a LoggingMessage-style notification on the originating call's
// session (spec.md §4.I "Emits streaming LoggingMessage-style
// notifications... with payload {job_id, output, type:"stream"}").
type sessionSink struct {
	srv *server.MCPServer
	ctx context.Context
}

func (s *sessionSink) Notify(jobID string, chunk []byte) error {
	return s.srv.SendNotificationToClient(s.ctx, "notifications/message", map[string]any{
		"job_id": jobID,
		"output": string(chunk),
		"type":   "stream",
	})
}
