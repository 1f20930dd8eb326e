package service

import (
	"context"

	"moderation/internal/biz"

	"google.golang.org/grpc/health/grpc_health_v1"
)

// HealthService answers gRPC health probes from the ledger and cache state.
type HealthService struct {
	grpc_health_v1.UnimplementedHealthServer

	uc *biz.HealthUsecase
}

// NewHealthService creates a new HealthService.
func NewHealthService(uc *biz.HealthUsecase) *HealthService {
	return &HealthService{uc: uc}
}

// Check reports SERVING while the ledger is reachable.
func (s *HealthService) Check(ctx context.Context, _ *grpc_health_v1.HealthCheckRequest) (*grpc_health_v1.HealthCheckResponse, error) {
	status := grpc_health_v1.HealthCheckResponse_SERVING
	if !s.uc.Check(ctx).Healthy() {
		status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
	}
	return &grpc_health_v1.HealthCheckResponse{Status: status}, nil
}
