package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// Repository implements portfolio.Repository using in-memory storage
type Repository struct {
	mu       sync.RWMutex
	profile  *portfolio.Profile
	skills   []*portfolio.Skill
	projects map[uuid.UUID]*portfolio.Project
	messages map[uuid.UUID]*portfolio.ContactMessage
}

// New creates a new in-memory repository
func New() *Repository {
	return &Repository{
		projects: make(map[uuid.UUID]*portfolio.Project),
		messages: make(map[uuid.UUID]*portfolio.ContactMessage),
	}
}

// Profile operations

func (r *Repository) GetProfile(ctx context.Context) (*portfolio.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.profile == nil {
		return nil, portfolio.ErrNotFound
	}
	return copyProfile(r.profile), nil
}

func (r *Repository) UpsertProfile(ctx context.Context, req portfolio.UpdateProfileRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.profile
	if p == nil {
		p = &portfolio.Profile{}
	} else {
		p = copyProfile(p)
	}

	p.Name = req.Name
	p.Location = req.Location
	p.Profession = req.Profession
	p.Bio = req.Bio
	if req.ContactNumber != nil {
		p.ContactNumber = copyString(req.ContactNumber)
	}
	if req.FatherName != nil {
		p.FatherName = copyString(req.FatherName)
	}
	if req.ProfileImageID != nil {
		id := *req.ProfileImageID
		p.ProfileImageID = &id
	}
	p.SocialLinks = req.SocialLinks.Clone()

	r.profile = p
	return nil
}

// Skill operations

func (r *Repository) ListSkills(ctx context.Context) ([]*portfolio.Skill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	skills := make([]*portfolio.Skill, 0, len(r.skills))
	for _, s := range r.skills {
		skillCopy := *s
		skills = append(skills, &skillCopy)
	}
	return skills, nil
}

func (r *Repository) CreateSkill(ctx context.Context, skill *portfolio.Skill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	skillCopy := *skill
	skillCopy.IsDefault = false
	r.skills = append(r.skills, &skillCopy)
	return nil
}

func (r *Repository) DeleteSkill(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, s := range r.skills {
		if s.ID == id {
			r.skills = append(r.skills[:i:i], r.skills[i+1:]...)
			return nil
		}
	}
	return portfolio.ErrNotFound
}

// Project operations

func (r *Repository) CreateProject(ctx context.Context, project *portfolio.Project) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.projects[project.ID] = copyProject(project)
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*portfolio.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.projects[id]
	if !exists {
		return nil, portfolio.ErrNotFound
	}
	return copyProject(p), nil
}

func (r *Repository) ListProjects(ctx context.Context, params portfolio.ListProjectsParams) ([]*portfolio.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var projects []*portfolio.Project
	for _, p := range r.projects {
		if params.Category != nil && p.Category != *params.Category {
			continue
		}
		if params.FeaturedOnly && !p.Featured {
			continue
		}
		projects = append(projects, copyProject(p))
	}

	// Newest first
	sort.Slice(projects, func(i, j int) bool {
		if projects[i].CreatedAt.Equal(projects[j].CreatedAt) {
			return projects[i].ID.String() > projects[j].ID.String()
		}
		return projects[i].CreatedAt.After(projects[j].CreatedAt)
	})

	if params.Limit > 0 && len(projects) > params.Limit {
		projects = projects[:params.Limit]
	}
	if projects == nil {
		projects = []*portfolio.Project{}
	}
	return projects, nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.projects[id]; !exists {
		return portfolio.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

// Contact message operations

func (r *Repository) CreateMessage(ctx context.Context, msg *portfolio.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	msgCopy := *msg
	r.messages[msg.ID] = &msgCopy
	return nil
}

func (r *Repository) ListMessages(ctx context.Context) ([]*portfolio.ContactMessage, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	msgs := make([]*portfolio.ContactMessage, 0, len(r.messages))
	for _, m := range r.messages {
		msgCopy := *m
		msgs = append(msgs, &msgCopy)
	}

	// Newest first
	sort.Slice(msgs, func(i, j int) bool {
		if msgs[i].CreatedAt.Equal(msgs[j].CreatedAt) {
			return msgs[i].ID.String() > msgs[j].ID.String()
		}
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	return msgs, nil
}

func (r *Repository) SetMessageRead(ctx context.Context, id uuid.UUID, read bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	m, exists := r.messages[id]
	if !exists {
		return portfolio.ErrNotFound
	}
	m.Read = read
	return nil
}

func (r *Repository) CountUnreadMessages(ctx context.Context) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, m := range r.messages {
		if !m.Read {
			n++
		}
	}
	return n, nil
}

func copyProfile(p *portfolio.Profile) *portfolio.Profile {
	out := *p
	out.ContactNumber = copyString(p.ContactNumber)
	out.FatherName = copyString(p.FatherName)
	if p.ProfileImageID != nil {
		id := *p.ProfileImageID
		out.ProfileImageID = &id
	}
	out.SocialLinks = p.SocialLinks.Clone()
	out.ProfileImageURL = nil
	out.IsDefault = false
	return &out
}

func copyProject(p *portfolio.Project) *portfolio.Project {
	out := *p
	out.Tags = append([]string{}, p.Tags...)
	if p.ThumbnailID != nil {
		id := *p.ThumbnailID
		out.ThumbnailID = &id
	}
	if p.MediaID != nil {
		id := *p.MediaID
		out.MediaID = &id
	}
	return &out
}

func copyString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

var _ portfolio.Repository = (*Repository)(nil)
