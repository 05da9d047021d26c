package health

import (
	"context"
	"fmt"
	"time"

	"hgl-backend/internal/kv"

	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
)

type HealthChecker struct {
	store     kv.Store
	driver    string
	dataPath  string
	startedAt time.Time
}

type HealthStatus struct {
	Status  string        `json:"status"`
	Storage StorageHealth `json:"storage"`
}

type StorageHealth struct {
	Driver       string `json:"driver"`
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
}

// DetailedStatus adds host resource usage to the basic check.
type DetailedStatus struct {
	HealthStatus
	Uptime        string  `json:"uptime"`
	MemoryPercent float64 `json:"memory_percent"`
	MemoryUsed    string  `json:"memory_used"`
	MemoryTotal   string  `json:"memory_total"`
	DiskPercent   float64 `json:"disk_percent"`
	DiskUsed      string  `json:"disk_used"`
	DiskTotal     string  `json:"disk_total"`
	DiskPath      string  `json:"disk_path"`
}

// NewHealthChecker checks store liveness. dataPath is the directory whose
// disk usage is reported; it defaults to "/".
func NewHealthChecker(store kv.Store, driver, dataPath string) *HealthChecker {
	if dataPath == "" {
		dataPath = "/"
	}
	return &HealthChecker{store: store, driver: driver, dataPath: dataPath, startedAt: time.Now()}
}

func (h *HealthChecker) CheckBasic(ctx context.Context) HealthStatus {
	storage := h.checkStorage(ctx)

	status := "healthy"
	if storage.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:  status,
		Storage: storage,
	}
}

func (h *HealthChecker) CheckDetailed(ctx context.Context) DetailedStatus {
	d := DetailedStatus{
		HealthStatus: h.CheckBasic(ctx),
		Uptime:       time.Since(h.startedAt).Round(time.Second).String(),
		DiskPath:     h.dataPath,
	}

	if memStats, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		d.MemoryPercent = memStats.UsedPercent
		d.MemoryUsed = formatBytes(memStats.Used)
		d.MemoryTotal = formatBytes(memStats.Total)
	}
	if diskStats, err := disk.UsageWithContext(ctx, h.dataPath); err == nil {
		d.DiskPercent = diskStats.UsedPercent
		d.DiskUsed = formatBytes(diskStats.Used)
		d.DiskTotal = formatBytes(diskStats.Total)
	}
	return d
}

func (h *HealthChecker) checkStorage(ctx context.Context) StorageHealth {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	start := time.Now()
	err := h.store.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if err != nil {
		return StorageHealth{
			Driver:       h.driver,
			Status:       "unhealthy",
			ResponseTime: responseTime,
			Error:        err.Error(),
		}
	}

	return StorageHealth{
		Driver:       h.driver,
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}

func formatBytes(bytes uint64) string {
	gb := float64(bytes) / (1024 * 1024 * 1024)
	if gb < 1 {
		mb := float64(bytes) / (1024 * 1024)
		return fmt.Sprintf("%.1f MB", mb)
	}
	return fmt.Sprintf("%.1f GB", gb)
}
