package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// Service defines the content surface used by presentation code
type Service interface {
	// Profile operations
	GetProfile(ctx context.Context) (*Profile, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) error

	// Skill operations
	GetSkills(ctx context.Context) ([]*Skill, error)
	AddSkill(ctx context.Context, req AddSkillRequest) (uuid.UUID, error)
	DeleteSkill(ctx context.Context, id uuid.UUID) error

	// Project operations
	GetProjects(ctx context.Context, category string) ([]*EnrichedProject, error)
	GetFeaturedProjects(ctx context.Context) ([]*EnrichedProject, error)
	GetProject(ctx context.Context, id uuid.UUID) (*EnrichedProject, error)
	AddProject(ctx context.Context, req AddProjectRequest) (uuid.UUID, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Contact message operations
	SubmitContactMessage(ctx context.Context, req SubmitMessageRequest) (uuid.UUID, error)
	GetContactMessages(ctx context.Context) ([]*ContactMessage, error)
	MarkContactMessageRead(ctx context.Context, id uuid.UUID, read bool) error
	CountUnreadMessages(ctx context.Context) (int, error)

	// File operations
	GenerateUploadURL(ctx context.Context) (*UploadTarget, error)
}
