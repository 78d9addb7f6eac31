package portfolio

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tendant/simple-portfolio/pkg/portfolio/objectkey"
)

// service implements the Service interface
type service struct {
	repository Repository
	blobStore  BlobStore
	eventSink  EventSink
	logger     *slog.Logger
	defaults   Defaults
	clock      Clock
	urlTTL     time.Duration
	keys       objectkey.Generator

	profiles *ProfileRepository
	skills   *SkillRepository
	projects *ProjectRepository
	messages *MessageRepository
	files    *Resolver
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the record store
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithBlobStore sets the file store
func WithBlobStore(store BlobStore) Option {
	return func(s *service) {
		s.blobStore = store
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.eventSink = sink
	}
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithDefaults replaces the content shown for an empty store
func WithDefaults(d Defaults) Option {
	return func(s *service) {
		s.defaults = d
	}
}

// WithoutDefaults makes an empty store read as empty: GetProfile fails with
// ErrNotFound and GetSkills returns no skills.
func WithoutDefaults() Option {
	return func(s *service) {
		s.defaults = emptyDefaults{}
	}
}

// WithClock sets the source of creation timestamps. The clock is wrapped so
// readings stay strictly increasing.
func WithClock(c Clock) Option {
	return func(s *service) {
		s.clock = c
	}
}

// WithURLCache caches resolved file URLs for ttl
func WithURLCache(ttl time.Duration) Option {
	return func(s *service) {
		s.urlTTL = ttl
	}
}

// WithObjectKeys sets how file references map to object keys
func WithObjectKeys(g objectkey.Generator) Option {
	return func(s *service) {
		s.keys = g
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		defaults: NewBuiltinDefaults(),
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobStore == nil {
		return nil, fmt.Errorf("blob store is required")
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	if s.eventSink == nil {
		s.eventSink = NewNoopEventSink()
	}
	if s.defaults == nil {
		s.defaults = emptyDefaults{}
	}
	clock := NewMonotonicClock(s.clock)

	resolverOpts := []ResolverOption{WithResolverLogger(s.logger), WithResolverCache(s.urlTTL)}
	if s.keys != nil {
		resolverOpts = append(resolverOpts, WithKeyGenerator(s.keys))
	}
	files := NewResolver(s.blobStore, resolverOpts...)

	s.profiles = NewProfileRepository(s.repository, files, s.defaults)
	s.skills = NewSkillRepository(s.repository, s.defaults)
	s.projects = NewProjectRepository(s.repository, files, clock, s.logger)
	s.messages = NewMessageRepository(s.repository, clock)
	s.files = files

	return s, nil
}

// Profile operations

func (s *service) GetProfile(ctx context.Context) (*Profile, error) {
	return s.profiles.Get(ctx)
}

func (s *service) UpdateProfile(ctx context.Context, req UpdateProfileRequest) error {
	if err := s.profiles.Upsert(ctx, req); err != nil {
		return err
	}

	if err := s.eventSink.ProfileUpdated(ctx, req); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "profile_updated", "err", err)
	}
	return nil
}

// Skill operations

func (s *service) GetSkills(ctx context.Context) ([]*Skill, error) {
	return s.skills.List(ctx)
}

func (s *service) AddSkill(ctx context.Context, req AddSkillRequest) (uuid.UUID, error) {
	return s.skills.Add(ctx, req)
}

func (s *service) DeleteSkill(ctx context.Context, id uuid.UUID) error {
	return s.skills.Delete(ctx, id)
}

// Project operations

func (s *service) GetProjects(ctx context.Context, category string) ([]*EnrichedProject, error) {
	return s.projects.List(ctx, category)
}

func (s *service) GetFeaturedProjects(ctx context.Context) ([]*EnrichedProject, error) {
	return s.projects.Featured(ctx)
}

func (s *service) GetProject(ctx context.Context, id uuid.UUID) (*EnrichedProject, error) {
	return s.projects.Get(ctx, id)
}

func (s *service) AddProject(ctx context.Context, req AddProjectRequest) (uuid.UUID, error) {
	project, err := s.projects.Add(ctx, req)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.eventSink.ProjectCreated(ctx, project); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "project_created", "project_id", project.ID, "err", err)
	}
	return project.ID, nil
}

func (s *service) DeleteProject(ctx context.Context, id uuid.UUID) error {
	project, report, err := s.projects.Delete(ctx, id)
	if err != nil {
		return err
	}

	if failed := report.Failed(); len(failed) > 0 {
		s.logger.WarnContext(ctx, "project deleted with orphaned files", "project_id", id, "failed", len(failed))
	}
	if err := s.eventSink.ProjectDeleted(ctx, project, report); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "project_deleted", "project_id", id, "err", err)
	}
	return nil
}

// Contact message operations

func (s *service) SubmitContactMessage(ctx context.Context, req SubmitMessageRequest) (uuid.UUID, error) {
	msg, err := s.messages.Submit(ctx, req)
	if err != nil {
		return uuid.Nil, err
	}

	if err := s.eventSink.MessageSubmitted(ctx, msg); err != nil {
		s.logger.WarnContext(ctx, "event sink failed", "event", "message_submitted", "message_id", msg.ID, "err", err)
	}
	return msg.ID, nil
}

func (s *service) GetContactMessages(ctx context.Context) ([]*ContactMessage, error) {
	return s.messages.List(ctx)
}

func (s *service) MarkContactMessageRead(ctx context.Context, id uuid.UUID, read bool) error {
	return s.messages.MarkRead(ctx, id, read)
}

func (s *service) CountUnreadMessages(ctx context.Context) (int, error) {
	return s.messages.UnreadCount(ctx)
}

// File operations

func (s *service) GenerateUploadURL(ctx context.Context) (*UploadTarget, error) {
	return s.files.BeginUpload(ctx)
}
