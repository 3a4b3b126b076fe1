package health

import (
	"context"
	"time"

	"lactalog-backend/internal/upstream"
)

type HealthChecker struct {
	client *upstream.Client
}

type HealthStatus struct {
	Status   string         `json:"status"`
	Upstream UpstreamHealth `json:"upstream"`
}

type UpstreamHealth struct {
	Status       string `json:"status"`
	ResponseTime int64  `json:"response_time_ms"`
}

func NewHealthChecker(client *upstream.Client) *HealthChecker {
	return &HealthChecker{client: client}
}

func (h *HealthChecker) CheckBasic() HealthStatus {
	up := h.checkUpstream()

	status := "healthy"
	if up.Status != "healthy" {
		status = "unhealthy"
	}

	return HealthStatus{
		Status:   status,
		Upstream: up,
	}
}

func (h *HealthChecker) checkUpstream() UpstreamHealth {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	start := time.Now()
	ok := h.client.Ping(ctx)
	responseTime := time.Since(start).Milliseconds()

	if !ok {
		return UpstreamHealth{
			Status:       "unhealthy",
			ResponseTime: responseTime,
		}
	}

	return UpstreamHealth{
		Status:       "healthy",
		ResponseTime: responseTime,
	}
}
