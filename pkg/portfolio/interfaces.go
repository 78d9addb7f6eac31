package portfolio

import (
	"context"
	"io"
	"time"

	"github.com/google/uuid"
)

// BlobStore defines the interface for file storage backends
type BlobStore interface {
	// GetUploadURL returns a short-lived URL the caller can push bytes to
	GetUploadURL(ctx context.Context, objectKey string) (*PresignedURL, error)

	// Upload uploads content directly
	Upload(ctx context.Context, objectKey string, reader io.Reader) error

	// UploadWithParams uploads content with additional parameters
	UploadWithParams(ctx context.Context, reader io.Reader, params UploadParams) error

	// GetDownloadURL returns a fetch URL for an existing object. It fails
	// with ErrFileNotFound when the object does not exist.
	GetDownloadURL(ctx context.Context, objectKey string) (string, error)

	// Download downloads content directly
	Download(ctx context.Context, objectKey string) (io.ReadCloser, error)

	// Delete deletes content. Deleting a missing object is not an error.
	Delete(ctx context.Context, objectKey string) error

	// GetObjectMeta retrieves metadata for an object
	GetObjectMeta(ctx context.Context, objectKey string) (*ObjectMeta, error)
}

// Repository defines the record store shared by all portfolio repositories.
// Every method is one atomic step against the store.
type Repository interface {
	// Profile operations
	GetProfile(ctx context.Context) (*Profile, error)
	UpsertProfile(ctx context.Context, req UpdateProfileRequest) error

	// Skill operations
	ListSkills(ctx context.Context) ([]*Skill, error)
	CreateSkill(ctx context.Context, skill *Skill) error
	DeleteSkill(ctx context.Context, id uuid.UUID) error

	// Project operations
	CreateProject(ctx context.Context, project *Project) error
	GetProject(ctx context.Context, id uuid.UUID) (*Project, error)
	ListProjects(ctx context.Context, params ListProjectsParams) ([]*Project, error)
	DeleteProject(ctx context.Context, id uuid.UUID) error

	// Contact message operations
	CreateMessage(ctx context.Context, msg *ContactMessage) error
	ListMessages(ctx context.Context) ([]*ContactMessage, error)
	SetMessageRead(ctx context.Context, id uuid.UUID, read bool) error
	CountUnreadMessages(ctx context.Context) (int, error)
}

// EventSink receives notifications after successful mutations
type EventSink interface {
	// ProfileUpdated is fired after the profile upsert
	ProfileUpdated(ctx context.Context, req UpdateProfileRequest) error

	// ProjectCreated is fired after a project is stored
	ProjectCreated(ctx context.Context, project *Project) error

	// ProjectDeleted is fired after a project record is deleted
	ProjectDeleted(ctx context.Context, project *Project, report CleanupReport) error

	// MessageSubmitted is fired after a contact message is stored
	MessageSubmitted(ctx context.Context, msg *ContactMessage) error
}

// PresignedURL is a short-lived URL valid for one HTTP method
type PresignedURL struct {
	URL       string
	Method    string
	ExpiresAt time.Time
}

// ObjectMeta contains metadata about an object in storage
type ObjectMeta struct {
	Key         string
	Size        int64
	ContentType string
	UpdatedAt   time.Time
	ETag        string
}

// UploadParams contains parameters for uploading an object
type UploadParams struct {
	ObjectKey string
	MimeType  string
}
