package handler

import (
	"bufio"
	"context"
	"fmt"
	"net/http"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const pingTimeout = 2 * time.Second

// Pinger is a dependency whose reachability is part of service health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports liveness, dependency reachability and Go runtime
// figures.
type HealthHandler struct {
	storage   Pinger
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewHealthHandler creates a HealthHandler. rdb may be nil when rate
// limiting is disabled.
func NewHealthHandler(storage Pinger, rdb *redis.Client, log zerolog.Logger) *HealthHandler {
	return &HealthHandler{
		storage:   storage,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "health_handler").Logger(),
	}
}

type healthReport struct {
	Status  string `json:"status"`
	Storage string `json:"storage"`
	Redis   string `json:"redis,omitempty"`
	Uptime  string `json:"uptime"`

	Goroutines  int    `json:"goroutines"`
	HeapAlloc   uint64 `json:"heap_alloc"`
	NumGC       uint32 `json:"num_gc"`
	AppRSSBytes uint64 `json:"app_rss_bytes"`
	GoVersion   string `json:"go_version"`
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	report := h.collect()
	status := http.StatusOK

	report.Storage = "ok"
	if err := h.storage.Ping(ctx); err != nil {
		h.log.Error().Err(err).Msg("Storage ping failed")
		report.Storage = "unreachable"
		report.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	if h.rdb != nil {
		report.Redis = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			// Rate limiting fails open, so Redis alone does not fail the check.
			h.log.Warn().Err(err).Msg("Redis ping failed")
			report.Redis = "unreachable"
		}
	}

	c.JSON(status, report)
}

func (h *HealthHandler) collect() healthReport {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	r := healthReport{
		Status:     "ok",
		Uptime:     formatDuration(time.Since(h.startTime)),
		Goroutines: runtime.NumGoroutine(),
		HeapAlloc:  ms.HeapAlloc,
		NumGC:      ms.NumGC,
		GoVersion:  runtime.Version(),
	}
	r.AppRSSBytes, _ = readProcessRSS()
	return r
}

// readProcessRSS reads VmRSS from /proc/self/status.
func readProcessRSS() (uint64, error) {
	f, err := os.Open("/proc/self/status")
	if err != nil {
		return 0, err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "VmRSS:") {
			// Format: "VmRSS:     12345 kB"
			fields := strings.Fields(line)
			if len(fields) < 2 {
				break
			}
			kb, _ := strconv.ParseUint(fields[1], 10, 64)
			return kb * 1024, nil
		}
	}
	return 0, fmt.Errorf("VmRSS not found")
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
