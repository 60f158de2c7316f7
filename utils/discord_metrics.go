package utils

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DiscordMetrics tracks Discord API calls made while rendering games
type DiscordMetrics struct {
	TotalRequests  int64
	FailedRequests int64
	Fallbacks      int64
	AverageLatency time.Duration
	MaxLatency     time.Duration

	latencySum time.Duration
}

// SuccessRate is the share of requests that did not fail, in percent
func (m DiscordMetrics) SuccessRate() float64 {
	if m.TotalRequests == 0 {
		return 100
	}
	return float64(m.TotalRequests-m.FailedRequests) / float64(m.TotalRequests) * 100
}

// APIRecorder accumulates DiscordMetrics
type APIRecorder struct {
	mu      sync.Mutex
	metrics DiscordMetrics
}

// DiscordAPI is the process-wide recorder
var DiscordAPI = &APIRecorder{}

// Record counts one call that started at start and ended with err
func (r *APIRecorder) Record(start time.Time, err error) {
	latency := time.Since(start)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.metrics.TotalRequests++
	if err != nil {
		r.metrics.FailedRequests++
	}
	r.metrics.latencySum += latency
	r.metrics.AverageLatency = r.metrics.latencySum / time.Duration(r.metrics.TotalRequests)
	if latency > r.metrics.MaxLatency {
		r.metrics.MaxLatency = latency
	}
}

// RecordFallback counts a render delivered as a channel message after the webhook expired
func (r *APIRecorder) RecordFallback() {
	r.mu.Lock()
	r.metrics.Fallbacks++
	r.mu.Unlock()
}

// Metrics returns a copy of the current counters
func (r *APIRecorder) Metrics() DiscordMetrics {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.metrics
}

// Reset clears all counters
func (r *APIRecorder) Reset() {
	r.mu.Lock()
	r.metrics = DiscordMetrics{}
	r.mu.Unlock()
}

// LogPerformanceMetrics logs the current counters, if there are any
func (r *APIRecorder) LogPerformanceMetrics() {
	m := r.Metrics()
	if m.TotalRequests == 0 {
		return
	}
	L().Info("discord api performance",
		zap.Int64("total", m.TotalRequests),
		zap.Float64("success_pct", m.SuccessRate()),
		zap.Int64("fallbacks", m.Fallbacks),
		zap.Duration("avg_latency", m.AverageLatency),
		zap.Duration("max_latency", m.MaxLatency),
	)
}

// StartPerformanceMonitoring logs the counters every interval until ctx ends
func (r *APIRecorder) StartPerformanceMonitoring(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				r.LogPerformanceMetrics()
			case <-ctx.Done():
				return
			}
		}
	}()
}
