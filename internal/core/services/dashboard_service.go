package services

import (
	"context"

	"prestaclick/internal/adapters/persistence/repositories"
	"prestaclick/internal/core/domain"
)

// DashboardService aggregates pipeline counts for the review UI
type DashboardService struct {
	appRepo *repositories.ApplicationRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(appRepo *repositories.ApplicationRepository) *DashboardService {
	return &DashboardService{appRepo: appRepo}
}

// PipelineOutput represents the per-status application counts
type PipelineOutput struct {
	ByStatus map[domain.Status]int64 `json:"by_status"`
	Open     int64                   `json:"open"`
	Decided  int64                   `json:"decided"`
	Total    int64                   `json:"total"`
}

// GetPipeline returns application counts grouped by status. Every
// declared status appears in the map, zero included, so the frontend can
// render a fixed column set.
func (s *DashboardService) GetPipeline(ctx context.Context, tenantID uint) (*PipelineOutput, error) {
	counts, err := s.appRepo.CountByStatus(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := &PipelineOutput{ByStatus: make(map[domain.Status]int64)}
	for _, status := range domain.AllStatuses() {
		n := counts[status]
		out.ByStatus[status] = n
		out.Total += n
		if status.IsTerminal() {
			out.Decided += n
		} else {
			out.Open += n
		}
	}
	return out, nil
}
