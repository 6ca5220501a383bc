package database

import (
	"context"
	"fmt"
	"time"
)

const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
)

// criticalTables must be readable for the service to work
var criticalTables = []string{"users", "requests", "campaigns", "campaign_volunteers", "badges", "revoked_tokens"}

// HealthStatus represents the current health of the database
type HealthStatus struct {
	Status          string        `json:"status"`
	Timestamp       time.Time     `json:"timestamp"`
	ResponseTime    time.Duration `json:"response_time"`
	OpenConnections int           `json:"open_connections"`
	InUse           int           `json:"in_use"`
	Errors          []string      `json:"errors,omitempty"`
}

// Health pings the database and probes the critical tables
func Health(ctx context.Context, m *Manager) *HealthStatus {
	start := time.Now()
	status := &HealthStatus{
		Status:    StatusHealthy,
		Timestamp: start,
	}

	if m == nil || m.DB() == nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, "database connection is not initialized")
		return status
	}

	if err := m.DB().PingContext(ctx); err != nil {
		status.Status = StatusUnhealthy
		status.Errors = append(status.Errors, fmt.Sprintf("ping failed: %v", err))
		status.ResponseTime = time.Since(start)
		return status
	}

	for _, table := range criticalTables {
		var exists bool
		query := `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = $1)`
		if err := m.DB().QueryRowContext(ctx, query, table).Scan(&exists); err != nil {
			status.Status = StatusUnhealthy
			status.Errors = append(status.Errors, fmt.Sprintf("cannot inspect table %s: %v", table, err))
			continue
		}
		if !exists {
			status.Status = StatusDegraded
			status.Errors = append(status.Errors, fmt.Sprintf("table %s is missing", table))
		}
	}

	stats := m.Stats()
	status.OpenConnections = stats.OpenConnections
	status.InUse = stats.InUse
	status.ResponseTime = time.Since(start)

	return status
}
