package services

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// HealthService reports API liveness and database reachability.
type HealthService struct {
	db *gorm.DB
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB) *HealthService {
	return &HealthService{db: db}
}

// HealthResult is the health check payload.
type HealthResult struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// Check implements the health check method
func (s *HealthService) Check(ctx context.Context, serviceName string) *HealthResult {
	status := "healthy"

	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		status = "degraded"
	}

	return &HealthResult{
		Status:    status,
		Service:   serviceName,
		Timestamp: time.Now().UTC(),
	}
}
