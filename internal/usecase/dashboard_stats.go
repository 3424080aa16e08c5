package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/xavierca1/leadgen-api/internal/entity"
)

const recentJobsLimit = 5

type DashboardStatsUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	JobRepo  entity.JobRepositoryInterface
}

func NewDashboardStatsUseCase(leadRepo entity.LeadRepositoryInterface, jobRepo entity.JobRepositoryInterface) *DashboardStatsUseCase {
	return &DashboardStatsUseCase{LeadRepo: leadRepo, JobRepo: jobRepo}
}

// Execute roda as consultas em paralelo. Plano e jobs_count vêm do profile já autenticado.
func (uc *DashboardStatsUseCase) Execute(ctx context.Context, profile *entity.Profile) (*DashboardStatsOutput, error) {
	out := &DashboardStatsOutput{
		JobsRun: profile.JobsCount,
		Plan:    profile.Plan,
	}
	if out.Plan == "" {
		out.Plan = entity.PlanFree
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := uc.LeadRepo.Count(gctx, profile.ID, entity.LeadFilterAll)
		out.TotalLeads = n
		return err
	})
	g.Go(func() error {
		n, err := uc.LeadRepo.Count(gctx, profile.ID, entity.LeadFilterHot)
		out.HotLeads = n
		return err
	})
	g.Go(func() error {
		jobs, err := uc.JobRepo.ListByUser(gctx, profile.ID, recentJobsLimit)
		out.RecentJobs = jobs
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, ErrPersistence("failed to load dashboard stats", err)
	}
	if out.RecentJobs == nil {
		out.RecentJobs = []*entity.Job{}
	}

	return out, nil
}
