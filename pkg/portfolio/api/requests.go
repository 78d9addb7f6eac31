package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

// maxBodyBytes caps JSON request bodies
const maxBodyBytes = 1 << 20

// UpdateProfileBody is the body of PUT /profile
type UpdateProfileBody struct {
	Name           string                 `json:"name" validate:"max=200"`
	Location       string                 `json:"location" validate:"max=200"`
	Profession     string                 `json:"profession" validate:"max=200"`
	Bio            string                 `json:"bio" validate:"max=5000"`
	ContactNumber  *string                `json:"contactNumber" validate:"omitempty,max=50"`
	FatherName     *string                `json:"fatherName" validate:"omitempty,max=200"`
	ProfileImageID *string                `json:"profileImageId" validate:"omitempty,max=200"`
	SocialLinks    *portfolio.SocialLinks `json:"socialLinks" validate:"required"`
}

func (b UpdateProfileBody) toRequest() portfolio.UpdateProfileRequest {
	return portfolio.UpdateProfileRequest{
		Name:           b.Name,
		Location:       b.Location,
		Profession:     b.Profession,
		Bio:            b.Bio,
		ContactNumber:  b.ContactNumber,
		FatherName:     b.FatherName,
		ProfileImageID: toRef(b.ProfileImageID),
		SocialLinks:    b.SocialLinks,
	}
}

// AddSkillBody is the body of POST /skills
type AddSkillBody struct {
	Name        string `json:"name" validate:"required,max=100"`
	Category    string `json:"category" validate:"required,max=100"`
	Level       int    `json:"level" validate:"min=0,max=100"`
	Icon        string `json:"icon" validate:"max=50"`
	Description string `json:"description" validate:"max=1000"`
}

func (b AddSkillBody) toRequest() portfolio.AddSkillRequest {
	return portfolio.AddSkillRequest(b)
}

// AddProjectBody is the body of POST /projects
type AddProjectBody struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=5000"`
	Category    string   `json:"category" validate:"required,oneof=video music graphics"`
	ThumbnailID *string  `json:"thumbnailId" validate:"omitempty,max=200"`
	MediaID     *string  `json:"mediaId" validate:"omitempty,max=200"`
	Tags        []string `json:"tags" validate:"max=50,dive,max=50"`
	Featured    bool     `json:"featured"`
}

func (b AddProjectBody) toRequest() portfolio.AddProjectRequest {
	return portfolio.AddProjectRequest{
		Title:       b.Title,
		Description: b.Description,
		Category:    portfolio.Category(b.Category),
		ThumbnailID: toRef(b.ThumbnailID),
		MediaID:     toRef(b.MediaID),
		Tags:        b.Tags,
		Featured:    b.Featured,
	}
}

// ContactBody is the body of POST /contact
type ContactBody struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (b *ContactBody) normalize() {
	b.Name = strings.TrimSpace(b.Name)
	b.Email = strings.TrimSpace(b.Email)
	b.Message = strings.TrimSpace(b.Message)
}

func toMessageRequest(b ContactBody) portfolio.SubmitMessageRequest {
	return portfolio.SubmitMessageRequest(b)
}

// MarkReadBody is the body of PATCH /messages/{id}
type MarkReadBody struct {
	Read *bool `json:"read" validate:"required"`
}

// LoginBody is the body of POST /auth/login
type LoginBody struct {
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries an admin token
type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
}

// IDResponse is returned by create endpoints
type IDResponse struct {
	ID string `json:"id"`
}

// UnreadCountResponse is returned by GET /messages/unread-count
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// newValidator reports field errors by their JSON names
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decode reads a JSON body into dst and validates it
func (s *Server) decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return badRequest("body", "is required")
		}
		return badRequest("body", err.Error())
	}
	if n, ok := dst.(interface{ normalize() }); ok {
		n.normalize()
	}
	return s.validate.Struct(dst)
}

func toRef(s *string) *portfolio.FileRef {
	if s == nil || *s == "" {
		return nil
	}
	ref := portfolio.FileRef(*s)
	return &ref
}
