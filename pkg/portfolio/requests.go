package portfolio

// Request DTOs

// UpdateProfileRequest contains the fields written by a profile upsert.
//
// Name, Location, Profession, Bio and SocialLinks always overwrite the
// stored values. ContactNumber, FatherName and ProfileImageID overwrite only
// when non-nil. SocialLinks is required.
type UpdateProfileRequest struct {
	Name           string
	Location       string
	Profession     string
	Bio            string
	ContactNumber  *string
	FatherName     *string
	ProfileImageID *FileRef
	SocialLinks    *SocialLinks
}

// Validate checks the request shape.
func (r UpdateProfileRequest) Validate() error {
	if r.SocialLinks == nil {
		return &ValidationError{Field: "socialLinks", Reason: "is required"}
	}
	return nil
}

// AddSkillRequest contains parameters for adding a skill
type AddSkillRequest struct {
	Name        string
	Category    string
	Level       int
	Icon        string
	Description string
}

// AddProjectRequest contains parameters for creating a project. Any
// creation timestamp is assigned by the service.
type AddProjectRequest struct {
	Title       string
	Description string
	Category    Category
	ThumbnailID *FileRef
	MediaID     *FileRef
	Tags        []string
	Featured    bool
}

// Validate checks the request shape.
func (r AddProjectRequest) Validate() error {
	if !r.Category.IsValid() {
		return &ValidationError{Field: "category", Reason: "must be one of video, music, graphics"}
	}
	return nil
}

// SubmitMessageRequest contains a contact form submission
type SubmitMessageRequest struct {
	Name    string
	Email   string
	Message string
}
