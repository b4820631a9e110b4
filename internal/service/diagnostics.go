package service

import (
	"context"
	"fmt"
	"freelance-job-board/internal/repo"
)

type DiagnosticsService struct {
	diagnosticsRepo repo.Diagnostics
}

func NewDiagnosticsService(repos *repo.Repositories) *DiagnosticsService {
	return &DiagnosticsService{repos.Diagnostics}
}

// Ping reports whether the engagement store can serve requests.
func (s *DiagnosticsService) Ping(ctx context.Context) error {
	if err := s.diagnosticsRepo.Ping(ctx); err != nil {
		return fmt.Errorf("engagement store unavailable: %w", err)
	}

	return nil
}
