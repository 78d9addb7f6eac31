package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tendant/simple-portfolio/pkg/portfolio"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is an interface that allows us to use either a database connection or a transaction
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// Repository implements portfolio.Repository using PostgreSQL
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// Migrate creates the tables the repository needs. It is safe to run
// repeatedly.
func Migrate(ctx context.Context, db DBTX) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Error handling helper
func (r *Repository) handlePostgresError(operation string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return portfolio.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			return fmt.Errorf("%s: duplicate entry", operation)
		case "23514": // check_violation
			return fmt.Errorf("%s: %w", operation, &portfolio.ValidationError{Field: pgErr.ColumnName, Reason: pgErr.Message})
		case "23502": // not_null_violation
			return fmt.Errorf("%s: %w", operation, &portfolio.ValidationError{Field: pgErr.ColumnName, Reason: "is required"})
		case "42P01": // undefined_table
			return fmt.Errorf("table does not exist - database migration required")
		default:
			return fmt.Errorf("database error in %s: %s (code: %s)", operation, pgErr.Message, pgErr.Code)
		}
	}

	return fmt.Errorf("database error in %s: %w", operation, err)
}

// Profile operations

func (r *Repository) GetProfile(ctx context.Context) (*portfolio.Profile, error) {
	query := `
		SELECT name, location, profession, bio, contact_number, father_name,
		       profile_image_id, social_whatsapp, social_instagram, social_youtube
		FROM profile WHERE id = 1`

	var p portfolio.Profile
	var imageID *string
	err := r.db.QueryRow(ctx, query).Scan(
		&p.Name, &p.Location, &p.Profession, &p.Bio, &p.ContactNumber, &p.FatherName,
		&imageID, &p.SocialLinks.Whatsapp, &p.SocialLinks.Instagram, &p.SocialLinks.Youtube,
	)
	if err != nil {
		return nil, r.handlePostgresError("get profile", err)
	}
	p.ProfileImageID = toRef(imageID)
	return &p, nil
}

// UpsertProfile writes the singleton row in one statement. Optional columns
// keep their stored value when the request leaves them nil.
func (r *Repository) UpsertProfile(ctx context.Context, req portfolio.UpdateProfileRequest) error {
	query := `
		INSERT INTO profile (
			id, name, location, profession, bio, contact_number, father_name,
			profile_image_id, social_whatsapp, social_instagram, social_youtube, updated_at
		) VALUES (1, $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now())
		ON CONFLICT (id) DO UPDATE SET
			name             = EXCLUDED.name,
			location         = EXCLUDED.location,
			profession       = EXCLUDED.profession,
			bio              = EXCLUDED.bio,
			contact_number   = COALESCE(EXCLUDED.contact_number, profile.contact_number),
			father_name      = COALESCE(EXCLUDED.father_name, profile.father_name),
			profile_image_id = COALESCE(EXCLUDED.profile_image_id, profile.profile_image_id),
			social_whatsapp  = EXCLUDED.social_whatsapp,
			social_instagram = EXCLUDED.social_instagram,
			social_youtube   = EXCLUDED.social_youtube,
			updated_at       = EXCLUDED.updated_at`

	links := req.SocialLinks.Clone()
	_, err := r.db.Exec(ctx, query,
		req.Name, req.Location, req.Profession, req.Bio,
		req.ContactNumber, req.FatherName, fromRef(req.ProfileImageID),
		links.Whatsapp, links.Instagram, links.Youtube,
	)
	if err != nil {
		return r.handlePostgresError("upsert profile", err)
	}
	return nil
}

// Skill operations

func (r *Repository) ListSkills(ctx context.Context) ([]*portfolio.Skill, error) {
	query := `SELECT id, name, category, level, icon, description FROM skill ORDER BY seq`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list skills", err)
	}
	defer rows.Close()

	skills := []*portfolio.Skill{}
	for rows.Next() {
		var s portfolio.Skill
		if err := rows.Scan(&s.ID, &s.Name, &s.Category, &s.Level, &s.Icon, &s.Description); err != nil {
			return nil, r.handlePostgresError("scan skill", err)
		}
		skills = append(skills, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list skills", err)
	}
	return skills, nil
}

func (r *Repository) CreateSkill(ctx context.Context, skill *portfolio.Skill) error {
	query := `
		INSERT INTO skill (id, name, category, level, icon, description)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query,
		skill.ID, skill.Name, skill.Category, skill.Level, skill.Icon, skill.Description)
	if err != nil {
		return r.handlePostgresError("create skill", err)
	}
	return nil
}

func (r *Repository) DeleteSkill(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM skill WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete skill", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}

// Project operations

const projectColumns = `id, title, description, category, thumbnail_id, media_id, tags, featured, created_at`

func (r *Repository) CreateProject(ctx context.Context, project *portfolio.Project) error {
	query := `INSERT INTO project (` + projectColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	tags := project.Tags
	if tags == nil {
		tags = []string{}
	}
	_, err := r.db.Exec(ctx, query,
		project.ID, project.Title, project.Description, string(project.Category),
		fromRef(project.ThumbnailID), fromRef(project.MediaID),
		tags, project.Featured, project.CreatedAt,
	)
	if err != nil {
		return r.handlePostgresError("create project", err)
	}
	return nil
}

func (r *Repository) GetProject(ctx context.Context, id uuid.UUID) (*portfolio.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM project WHERE id = $1`

	p, err := scanProject(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, r.handlePostgresError("get project", err)
	}
	return p, nil
}

func (r *Repository) ListProjects(ctx context.Context, params portfolio.ListProjectsParams) ([]*portfolio.Project, error) {
	var where []string
	var args []interface{}
	argIndex := 1

	if params.Category != nil {
		where = append(where, fmt.Sprintf("category = $%d", argIndex))
		args = append(args, string(*params.Category))
		argIndex++
	}
	if params.FeaturedOnly {
		where = append(where, "featured")
	}

	query := `SELECT ` + projectColumns + ` FROM project`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"
	if params.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIndex)
		args = append(args, params.Limit)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, r.handlePostgresError("list projects", err)
	}
	defer rows.Close()

	projects := []*portfolio.Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, r.handlePostgresError("scan project", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list projects", err)
	}
	return projects, nil
}

func (r *Repository) DeleteProject(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM project WHERE id = $1`, id)
	if err != nil {
		return r.handlePostgresError("delete project", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}

// Contact message operations

func (r *Repository) CreateMessage(ctx context.Context, msg *portfolio.ContactMessage) error {
	query := `
		INSERT INTO contact_message (id, name, email, message, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(ctx, query, msg.ID, msg.Name, msg.Email, msg.Message, msg.Read, msg.CreatedAt)
	if err != nil {
		return r.handlePostgresError("create message", err)
	}
	return nil
}

func (r *Repository) ListMessages(ctx context.Context) ([]*portfolio.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, read, created_at
		FROM contact_message ORDER BY created_at DESC, id DESC`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, r.handlePostgresError("list messages", err)
	}
	defer rows.Close()

	msgs := []*portfolio.ContactMessage{}
	for rows.Next() {
		var m portfolio.ContactMessage
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Message, &m.Read, &m.CreatedAt); err != nil {
			return nil, r.handlePostgresError("scan message", err)
		}
		m.CreatedAt = m.CreatedAt.UTC()
		msgs = append(msgs, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, r.handlePostgresError("list messages", err)
	}
	return msgs, nil
}

func (r *Repository) SetMessageRead(ctx context.Context, id uuid.UUID, read bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE contact_message SET read = $2 WHERE id = $1`, id, read)
	if err != nil {
		return r.handlePostgresError("mark message read", err)
	}
	if tag.RowsAffected() == 0 {
		return portfolio.ErrNotFound
	}
	return nil
}

func (r *Repository) CountUnreadMessages(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT count(*) FROM contact_message WHERE NOT read`).Scan(&n)
	if err != nil {
		return 0, r.handlePostgresError("count unread messages", err)
	}
	return n, nil
}

func scanProject(row pgx.Row) (*portfolio.Project, error) {
	var p portfolio.Project
	var category string
	var thumbnailID, mediaID *string
	var createdAt time.Time
	err := row.Scan(&p.ID, &p.Title, &p.Description, &category,
		&thumbnailID, &mediaID, &p.Tags, &p.Featured, &createdAt)
	if err != nil {
		return nil, err
	}
	p.Category = portfolio.Category(category)
	p.ThumbnailID = toRef(thumbnailID)
	p.MediaID = toRef(mediaID)
	p.CreatedAt = createdAt.UTC()
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func toRef(s *string) *portfolio.FileRef {
	if s == nil {
		return nil
	}
	ref := portfolio.FileRef(*s)
	return &ref
}

func fromRef(ref *portfolio.FileRef) *string {
	if ref == nil {
		return nil
	}
	s := ref.String()
	return &s
}

var _ portfolio.Repository = (*Repository)(nil)
