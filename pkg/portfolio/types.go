package portfolio

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Category is the fixed grouping of a project.
type Category string

// Project categories.
const (
	CategoryVideo    Category = "video"
	CategoryMusic    Category = "music"
	CategoryGraphics Category = "graphics"
)

// CategoryAll is the list filter that matches every category.
const CategoryAll = "all"

// Categories returns every valid project category.
func Categories() []Category {
	return []Category{CategoryVideo, CategoryMusic, CategoryGraphics}
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryVideo, CategoryMusic, CategoryGraphics:
		return true
	}
	return false
}

// ParseCategory converts s into a Category.
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", s)}
	}
	return c, nil
}

// ParseCategoryFilter converts a list filter into a category. An empty
// filter or "all" yields nil, meaning no filtering.
func ParseCategoryFilter(s string) (*Category, error) {
	if s == "" || s == CategoryAll {
		return nil, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FileRef is an opaque reference to a stored file.
type FileRef string

// NewFileRef generates a fresh file reference.
func NewFileRef() FileRef {
	return FileRef(uuid.NewString())
}

func (r FileRef) String() string {
	return string(r)
}

// SocialLinks holds the profile's social handles. Each link is optional.
type SocialLinks struct {
	Whatsapp  *string `json:"whatsapp,omitempty"`
	Instagram *string `json:"instagram,omitempty"`
	Youtube   *string `json:"youtube,omitempty"`
}

// Clone returns a copy that shares no pointers with l.
func (l *SocialLinks) Clone() SocialLinks {
	if l == nil {
		return SocialLinks{}
	}
	return SocialLinks{
		Whatsapp:  cloneString(l.Whatsapp),
		Instagram: cloneString(l.Instagram),
		Youtube:   cloneString(l.Youtube),
	}
}

// Profile is the singleton owner profile.
type Profile struct {
	Name           string      `json:"name"`
	Location       string      `json:"location"`
	Profession     string      `json:"profession"`
	Bio            string      `json:"bio"`
	ContactNumber  *string     `json:"contactNumber,omitempty"`
	FatherName     *string     `json:"fatherName,omitempty"`
	ProfileImageID *FileRef    `json:"profileImageId"`
	SocialLinks    SocialLinks `json:"socialLinks"`

	// Computed fields (not persisted)
	ProfileImageURL *string `json:"profileImageUrl"`
	IsDefault       bool    `json:"isDefault,omitempty"`
}

// Skill is one entry of the skills list. Level is expected in [0, 100]
// but is not clamped.
type Skill struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Level       int       `json:"level"`
	Icon        string    `json:"icon"`
	Description string    `json:"description"`

	IsDefault bool `json:"isDefault,omitempty"`
}

// Project is a stored portfolio project.
type Project struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	ThumbnailID *FileRef  `json:"thumbnailId,omitempty"`
	MediaID     *FileRef  `json:"mediaId,omitempty"`
	Tags        []string  `json:"tags"`
	Featured    bool      `json:"featured"`
	CreatedAt   time.Time `json:"createdAt"`
}

// EnrichedProject is a Project with its file references resolved to URLs.
type EnrichedProject struct {
	Project
	ThumbnailURL *string `json:"thumbnailUrl"`
	MediaURL     *string `json:"mediaUrl"`
}

// ContactMessage is an inbox entry submitted through the contact form.
type ContactMessage struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// UploadTarget is a short-lived write destination for one file. The caller
// sends the raw bytes with HTTP Method to URL and then refers to the file
// by StorageID.
type UploadTarget struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	StorageID FileRef   `json:"storageId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ListProjectsParams selects projects from the store. Results are always
// ordered by CreatedAt descending.
type ListProjectsParams struct {
	Category     *Category
	FeaturedOnly bool
	Limit        int // 0 means no limit
}

// FileCleanup is the outcome of deleting one file during a cascade delete.
type FileCleanup struct {
	Ref FileRef
	Err error
}

// CleanupReport lists the files a project delete tried to release.
type CleanupReport struct {
	Files []FileCleanup
}

// Failed returns the cleanups that did not succeed.
func (r CleanupReport) Failed() []FileCleanup {
	var failed []FileCleanup
	for _, f := range r.Files {
		if f.Err != nil {
			failed = append(failed, f)
		}
	}
	return failed
}
