package portfolio

import (
	"context"
	"errors"
)

// ProfileRepository reads and writes the singleton profile.
type ProfileRepository struct {
	store    Repository
	files    *Resolver
	defaults Defaults
}

// NewProfileRepository returns a ProfileRepository. A nil defaults disables
// the fallback.
func NewProfileRepository(store Repository, files *Resolver, defaults Defaults) *ProfileRepository {
	if defaults == nil {
		defaults = emptyDefaults{}
	}
	return &ProfileRepository{store: store, files: files, defaults: defaults}
}

// Get returns the stored profile with its image URL resolved. When nothing
// is stored yet it returns the default profile marked IsDefault.
func (r *ProfileRepository) Get(ctx context.Context) (*Profile, error) {
	p, err := r.store.GetProfile(ctx)
	if errors.Is(err, ErrNotFound) {
		d := r.defaults.Profile()
		if d == nil {
			return nil, &OperationError{Entity: "profile", Op: "get", Err: ErrNotFound}
		}
		d.ProfileImageURL = nil
		d.IsDefault = true
		return d, nil
	}
	if err != nil {
		return nil, &OperationError{Entity: "profile", Op: "get", Err: err}
	}

	p.ProfileImageURL = r.files.ResolveURL(ctx, p.ProfileImageID)
	return p, nil
}

// Upsert creates or updates the profile in one store step.
func (r *ProfileRepository) Upsert(ctx context.Context, req UpdateProfileRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if err := r.store.UpsertProfile(ctx, cloneProfileRequest(req)); err != nil {
		return &OperationError{Entity: "profile", Op: "upsert", Err: err}
	}
	return nil
}

// cloneProfileRequest detaches the request from caller-owned pointers.
func cloneProfileRequest(req UpdateProfileRequest) UpdateProfileRequest {
	out := req
	out.ContactNumber = cloneString(req.ContactNumber)
	out.FatherName = cloneString(req.FatherName)
	if req.ProfileImageID != nil {
		id := *req.ProfileImageID
		out.ProfileImageID = &id
	}
	links := req.SocialLinks.Clone()
	out.SocialLinks = &links
	return out
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
