package portfolio

import (
	"context"

	"github.com/google/uuid"
)

// SkillRepository manages the ordered skills list.
type SkillRepository struct {
	store    Repository
	defaults Defaults
}

// NewSkillRepository returns a SkillRepository. A nil defaults disables the
// fallback.
func NewSkillRepository(store Repository, defaults Defaults) *SkillRepository {
	if defaults == nil {
		defaults = emptyDefaults{}
	}
	return &SkillRepository{store: store, defaults: defaults}
}

// List returns the stored skills in insertion order, or the default skills
// when none are stored.
func (r *SkillRepository) List(ctx context.Context) ([]*Skill, error) {
	skills, err := r.store.ListSkills(ctx)
	if err != nil {
		return nil, &OperationError{Entity: "skill", Op: "list", Err: err}
	}
	if len(skills) > 0 {
		return skills, nil
	}

	defaults := r.defaults.Skills()
	for _, s := range defaults {
		s.IsDefault = true
	}
	if defaults == nil {
		defaults = []*Skill{}
	}
	return defaults, nil
}

// Add appends a skill and returns its id.
func (r *SkillRepository) Add(ctx context.Context, req AddSkillRequest) (uuid.UUID, error) {
	skill := &Skill{
		ID:          uuid.New(),
		Name:        req.Name,
		Category:    req.Category,
		Level:       req.Level,
		Icon:        req.Icon,
		Description: req.Description,
	}
	if err := r.store.CreateSkill(ctx, skill); err != nil {
		return uuid.Nil, &OperationError{Entity: "skill", ID: skill.ID.String(), Op: "create", Err: err}
	}
	return skill.ID, nil
}

// Delete removes a skill. It fails with ErrNotFound when id is unknown.
func (r *SkillRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.store.DeleteSkill(ctx, id); err != nil {
		return &OperationError{Entity: "skill", ID: id.String(), Op: "delete", Err: err}
	}
	return nil
}
