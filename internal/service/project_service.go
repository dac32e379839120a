package service

import (
	"context"

	"siteledger/internal/model"
	"siteledger/internal/repository"

	"gorm.io/gorm"
)

type ProjectService struct {
	projectRepo *repository.ProjectRepository
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{
		projectRepo: repository.NewProjectRepository(db),
	}
}

func (s *ProjectService) CreateProject(ctx context.Context, project *model.Project) error {
	if project.Status == "" {
		project.Status = model.ProjectStatusActive
	}
	return s.projectRepo.Create(ctx, project)
}

func (s *ProjectService) GetProject(ctx context.Context, id int64) (*model.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

func (s *ProjectService) ListProjects(ctx context.Context) ([]model.Project, error) {
	return s.projectRepo.List(ctx)
}
