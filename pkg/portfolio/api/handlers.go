package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
)

// Profile

func (s *Server) GetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.service.GetProfile(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, profile)
}

func (s *Server) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var body UpdateProfileBody
	if err := s.decode(r, &body); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.service.UpdateProfile(r.Context(), body.toRequest()); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Skills

func (s *Server) GetSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.service.GetSkills(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, skills)
}

func (s *Server) AddSkill(w http.ResponseWriter, r *http.Request) {
	var body AddSkillBody
	if err := s.decode(r, &body); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	id, err := s.service.AddSkill(r.Context(), body.toRequest())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, IDResponse{ID: id.String()})
}

func (s *Server) DeleteSkill(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.service.DeleteSkill(r.Context(), id); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Projects

// GetProjects lists projects, optionally filtered with ?category=
func (s *Server) GetProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.service.GetProjects(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, projects)
}

func (s *Server) GetFeaturedProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.service.GetFeaturedProjects(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, projects)
}

func (s *Server) GetProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	project, err := s.service.GetProject(r.Context(), id)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, project)
}

func (s *Server) AddProject(w http.ResponseWriter, r *http.Request) {
	var body AddProjectBody
	if err := s.decode(r, &body); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	id, err := s.service.AddProject(r.Context(), body.toRequest())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.InfoContext(r.Context(), "project created", "project_id", id)
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, IDResponse{ID: id.String()})
}

func (s *Server) DeleteProject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.service.DeleteProject(r.Context(), id); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	s.logger.InfoContext(r.Context(), "project deleted", "project_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// Contact messages

func (s *Server) SubmitContactMessage(w http.ResponseWriter, r *http.Request) {
	var body ContactBody
	if err := s.decode(r, &body); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	id, err := s.service.SubmitContactMessage(r.Context(), toMessageRequest(body))
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, IDResponse{ID: id.String()})
}

func (s *Server) GetContactMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := s.service.GetContactMessages(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, messages)
}

func (s *Server) CountUnreadMessages(w http.ResponseWriter, r *http.Request) {
	n, err := s.service.CountUnreadMessages(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, UnreadCountResponse{Count: n})
}

func (s *Server) MarkContactMessageRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	var body MarkReadBody
	if err := s.decode(r, &body); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	if err := s.service.MarkContactMessageRead(r.Context(), id, *body.Read); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Files

func (s *Server) GenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	target, err := s.service.GenerateUploadURL(r.Context())
	if err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, target)
}

// Auth

func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var body LoginBody
	if err := s.decode(r, &body); err != nil {
		writeError(w, r, s.logger, err)
		return
	}
	token, expiresAt, err := s.auth.Login(body.Password)
	if err != nil {
		s.logger.WarnContext(r.Context(), "admin login rejected", "remote_addr", r.RemoteAddr)
		writeError(w, r, s.logger, err)
		return
	}
	render.JSON(w, r, LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()})
}

func pathID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, badRequest("id", "must be a UUID")
	}
	return id, nil
}
