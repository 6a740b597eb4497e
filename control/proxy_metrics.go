// control/proxy_metrics.go
// Author: momentics <momentics@gmail.com>
//
// Bridges MetricsRegistry into the counters proxy.Proxy.WithMetrics
// expects, so every forwarded frame/message, control command, and hook
// rejection lands in the same live-metrics snapshot GetSnapshot exposes.

package control

import "sync/atomic"

// ProxyMetrics accumulates proxy core counters and mirrors them into an
// attached MetricsRegistry on every change.
type ProxyMetrics struct {
	registry *MetricsRegistry

	forwardedFrames   int64
	forwardedMessages int64
	controlCommands   int64
	hookRejects       int64
}

// NewProxyMetrics creates a counter set that publishes into registry.
// registry may be nil, in which case counters are tracked but never
// published.
func NewProxyMetrics(registry *MetricsRegistry) *ProxyMetrics {
	return &ProxyMetrics{registry: registry}
}

// IncForwardedFrames records one frame sent to a forwarding partner.
func (m *ProxyMetrics) IncForwardedFrames() {
	m.publish("proxy.forwarded_frames", atomic.AddInt64(&m.forwardedFrames, 1))
}

// IncForwardedMessages records one complete multipart message forwarded.
func (m *ProxyMetrics) IncForwardedMessages() {
	m.publish("proxy.forwarded_messages", atomic.AddInt64(&m.forwardedMessages, 1))
}

// IncControlCommands records one applied PAUSE/RESUME/TERMINATE command.
func (m *ProxyMetrics) IncControlCommands() {
	m.publish("proxy.control_commands", atomic.AddInt64(&m.controlCommands, 1))
}

// IncHookRejects records one hook-aborted forward.
func (m *ProxyMetrics) IncHookRejects() {
	m.publish("proxy.hook_rejects", atomic.AddInt64(&m.hookRejects, 1))
}

func (m *ProxyMetrics) publish(key string, value int64) {
	if m.registry != nil {
		m.registry.Set(key, value)
	}
}
