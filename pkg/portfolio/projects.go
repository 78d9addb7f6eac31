package portfolio

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// FeaturedLimit caps the featured projects list.
const FeaturedLimit = 6

// ProjectRepository manages projects and the files they reference.
type ProjectRepository struct {
	store  Repository
	files  *Resolver
	clock  Clock
	logger *slog.Logger
}

// NewProjectRepository returns a ProjectRepository.
func NewProjectRepository(store Repository, files *Resolver, clock Clock, logger *slog.Logger) *ProjectRepository {
	if clock == nil {
		clock = NewMonotonicClock(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ProjectRepository{store: store, files: files, clock: clock, logger: logger}
}

// List returns projects newest first. An empty filter or "all" matches every
// project; any other value must be a valid category.
func (r *ProjectRepository) List(ctx context.Context, filter string) ([]*EnrichedProject, error) {
	category, err := ParseCategoryFilter(filter)
	if err != nil {
		return nil, err
	}
	return r.list(ctx, ListProjectsParams{Category: category})
}

// Featured returns up to FeaturedLimit featured projects, newest first.
func (r *ProjectRepository) Featured(ctx context.Context) ([]*EnrichedProject, error) {
	return r.list(ctx, ListProjectsParams{FeaturedOnly: true, Limit: FeaturedLimit})
}

func (r *ProjectRepository) list(ctx context.Context, params ListProjectsParams) ([]*EnrichedProject, error) {
	projects, err := r.store.ListProjects(ctx, params)
	if err != nil {
		return nil, &OperationError{Entity: "project", Op: "list", Err: err}
	}
	out := make([]*EnrichedProject, 0, len(projects))
	for _, p := range projects {
		out = append(out, r.enrich(ctx, p))
	}
	return out, nil
}

// Get returns one project with its file URLs resolved.
func (r *ProjectRepository) Get(ctx context.Context, id uuid.UUID) (*EnrichedProject, error) {
	p, err := r.store.GetProject(ctx, id)
	if err != nil {
		return nil, &OperationError{Entity: "project", ID: id.String(), Op: "get", Err: err}
	}
	return r.enrich(ctx, p), nil
}

func (r *ProjectRepository) enrich(ctx context.Context, p *Project) *EnrichedProject {
	return &EnrichedProject{
		Project:      *p,
		ThumbnailURL: r.files.ResolveURL(ctx, p.ThumbnailID),
		MediaURL:     r.files.ResolveURL(ctx, p.MediaID),
	}
}

// Add stores a new project stamped with the current time.
func (r *ProjectRepository) Add(ctx context.Context, req AddProjectRequest) (*Project, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tags := make([]string, len(req.Tags))
	copy(tags, req.Tags)

	project := &Project{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		ThumbnailID: cloneRef(req.ThumbnailID),
		MediaID:     cloneRef(req.MediaID),
		Tags:        tags,
		Featured:    req.Featured,
		CreatedAt:   r.clock.Now(),
	}
	if err := r.store.CreateProject(ctx, project); err != nil {
		return nil, &OperationError{Entity: "project", ID: project.ID.String(), Op: "create", Err: err}
	}
	return project, nil
}

// Delete removes a project after releasing its thumbnail and media files.
// File cleanup is best effort: failures are logged and reported but do not
// stop the record from being deleted.
func (r *ProjectRepository) Delete(ctx context.Context, id uuid.UUID) (*Project, CleanupReport, error) {
	var report CleanupReport

	project, err := r.store.GetProject(ctx, id)
	if err != nil {
		return nil, report, &OperationError{Entity: "project", ID: id.String(), Op: "delete", Err: err}
	}

	for _, ref := range []*FileRef{project.ThumbnailID, project.MediaID} {
		if ref == nil {
			continue
		}
		err := r.files.Delete(ctx, *ref)
		if err != nil {
			r.logger.WarnContext(ctx, "failed to delete project file", "project_id", id, "ref", *ref, "err", err)
		}
		report.Files = append(report.Files, FileCleanup{Ref: *ref, Err: err})
	}

	if err := r.store.DeleteProject(ctx, id); err != nil {
		return nil, report, &OperationError{Entity: "project", ID: id.String(), Op: "delete", Err: err}
	}
	return project, report, nil
}

func cloneRef(ref *FileRef) *FileRef {
	if ref == nil {
		return nil
	}
	v := *ref
	return &v
}
