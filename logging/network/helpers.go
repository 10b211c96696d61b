package network

import (
	"context"

	"portlogistics/server/logging"
)

const (
	// EventFrameIngested is emitted once per frame after a successful read.
	EventFrameIngested logging.EventType = "network.frame_ingested"
	// EventProtocolError is emitted when the judge stream is malformed or truncated.
	EventProtocolError logging.EventType = "network.protocol_error"
)

// FrameIngestedPayload captures one frame's read shape.
type FrameIngestedPayload struct {
	FrameNumber int `json:"frameNumber"`
	NewGoods    int `json:"newGoods"`
	Robots      int `json:"robots"`
	Ships       int `json:"ships"`
}

// ProtocolErrorPayload captures a fatal stream error.
type ProtocolErrorPayload struct {
	Op      string `json:"op"`
	Message string `json:"message"`
}

// FrameIngested publishes a debug event for one successfully read frame.
func FrameIngested(ctx context.Context, pub logging.Publisher, tick uint64, payload FrameIngestedPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventFrameIngested,
		Tick:     tick,
		Severity: logging.SeverityDebug,
		Category: "network",
		Payload:  payload,
		Extra:    extra,
	})
}

// ProtocolError publishes a fatal protocol-error event.
func ProtocolError(ctx context.Context, pub logging.Publisher, tick uint64, payload ProtocolErrorPayload, extra map[string]any) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, logging.Event{
		Type:     EventProtocolError,
		Tick:     tick,
		Severity: logging.SeverityError,
		Category: "network",
		Payload:  payload,
		Extra:    extra,
	})
}
