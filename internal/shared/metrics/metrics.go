package metrics

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/gin-gonic/gin"
)

var (
	tailorStartedTotal   atomic.Uint64
	tailorSucceededTotal atomic.Uint64
	tailorFailedTotal    atomic.Uint64
	llmAttemptsTotal     atomic.Uint64
	llmRetriesTotal      atomic.Uint64
	sendSucceededTotal   atomic.Uint64
	sendFailedTotal      atomic.Uint64
	smtpFallbackTotal    atomic.Uint64

	tailorDuration = newHistogram([]float64{500, 1000, 2000, 5000, 10000, 20000, 30000, 60000, 120000})
)

// IncTailorStarted increments the tailoring started counter.
func IncTailorStarted() { tailorStartedTotal.Add(1) }

// IncTailorSucceeded increments the tailoring success counter.
func IncTailorSucceeded() { tailorSucceededTotal.Add(1) }

// IncTailorFailed increments the tailoring failure counter.
func IncTailorFailed() { tailorFailedTotal.Add(1) }

// IncLLMAttempt counts a single model invocation.
func IncLLMAttempt() { llmAttemptsTotal.Add(1) }

// IncLLMRetry counts a retry scheduled after a transient failure.
func IncLLMRetry() { llmRetriesTotal.Add(1) }

// IncSendSucceeded increments the delivered email counter.
func IncSendSucceeded() { sendSucceededTotal.Add(1) }

// IncSendFailed increments the failed delivery counter.
func IncSendFailed() { sendFailedTotal.Add(1) }

// IncSMTPFallback counts deliveries that needed the STARTTLS fallback endpoint.
func IncSMTPFallback() { smtpFallbackTotal.Add(1) }

// ObserveTailorDurationMs records a tailoring duration in milliseconds.
func ObserveTailorDurationMs(value float64) {
	if value < 0 {
		value = 0
	}
	tailorDuration.Observe(value)
}

// Handler exposes metrics in Prometheus text format.
func Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Content-Type", "text/plain; version=0.0.4")
		c.String(http.StatusOK, Render())
	}
}

// Render renders metrics in Prometheus text format.
func Render() string {
	var buf bytes.Buffer
	writeCounter(&buf, "tailor_started_total", "Total tailoring requests started", tailorStartedTotal.Load())
	writeCounter(&buf, "tailor_succeeded_total", "Total tailoring requests completed", tailorSucceededTotal.Load())
	writeCounter(&buf, "tailor_failed_total", "Total tailoring requests failed", tailorFailedTotal.Load())
	writeCounter(&buf, "llm_attempts_total", "Total model invocations", llmAttemptsTotal.Load())
	writeCounter(&buf, "llm_retries_total", "Total model retries after transient errors", llmRetriesTotal.Load())
	writeCounter(&buf, "send_succeeded_total", "Total application emails delivered", sendSucceededTotal.Load())
	writeCounter(&buf, "send_failed_total", "Total application emails failed", sendFailedTotal.Load())
	writeCounter(&buf, "smtp_fallback_total", "Total SMTP connections established on the fallback endpoint", smtpFallbackTotal.Load())
	writeHistogram(&buf, "tailor_duration_ms", "Tailoring duration in milliseconds", tailorDuration.Snapshot())
	return buf.String()
}

type histogram struct {
	mu      sync.Mutex
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

type histogramSnapshot struct {
	buckets []float64
	counts  []uint64
	sum     float64
	count   uint64
}

func newHistogram(buckets []float64) *histogram {
	return &histogram{
		buckets: buckets,
		counts:  make([]uint64, len(buckets)),
	}
}

// Observe places value in the first bucket whose bound is >= value.
func (h *histogram) Observe(value float64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.count++
	h.sum += value
	for i, bound := range h.buckets {
		if value <= bound {
			h.counts[i]++
			break
		}
	}
}

func (h *histogram) Snapshot() histogramSnapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	return histogramSnapshot{
		buckets: append([]float64(nil), h.buckets...),
		counts:  append([]uint64(nil), h.counts...),
		sum:     h.sum,
		count:   h.count,
	}
}

func writeCounter(buf *bytes.Buffer, name, help string, value uint64) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s counter\n", name)
	fmt.Fprintf(buf, "%s %d\n", name, value)
}

func writeHistogram(buf *bytes.Buffer, name, help string, snap histogramSnapshot) {
	fmt.Fprintf(buf, "# HELP %s %s\n", name, help)
	fmt.Fprintf(buf, "# TYPE %s histogram\n", name)
	var cumulative uint64
	for i, bound := range snap.buckets {
		cumulative += snap.counts[i]
		fmt.Fprintf(buf, "%s_bucket{le=\"%s\"} %d\n", name, formatFloat(bound), cumulative)
	}
	fmt.Fprintf(buf, "%s_bucket{le=\"+Inf\"} %d\n", name, snap.count)
	fmt.Fprintf(buf, "%s_sum %s\n", name, formatFloat(snap.sum))
	fmt.Fprintf(buf, "%s_count %d\n", name, snap.count)
}

func formatFloat(value float64) string {
	if value == float64(int64(value)) {
		return strconv.FormatInt(int64(value), 10)
	}
	return strconv.FormatFloat(value, 'f', -1, 64)
}
