package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/wolfeidau/omnigate/internal/gate"
	"github.com/wolfeidau/omnigate/internal/identity"
	"github.com/wolfeidau/omnigate/internal/store"
)

const minPasswordLength = 8

type signupRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	OrganizationName string `json:"organization_name"`
}

type organizationResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type signupResponse struct {
	UserID       string               `json:"user_id"`
	Email        string               `json:"email"`
	Organization organizationResponse `json:"organization"`
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gate.WriteErrorCode(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON")
		return
	}

	if req.Email == "" || !strings.Contains(req.Email, "@") {
		gate.WriteErrorCode(w, http.StatusBadRequest, "INVALID_REQUEST", "A valid email is required")
		return
	}
	if len(req.Password) < minPasswordLength {
		gate.WriteErrorCode(w, http.StatusBadRequest, "INVALID_REQUEST", "Password must be at least 8 characters")
		return
	}
	if strings.TrimSpace(req.OrganizationName) == "" {
		gate.WriteErrorCode(w, http.StatusBadRequest, "INVALID_REQUEST", "Organization name is required")
		return
	}

	user, org, err := s.identity.Signup(r.Context(), req.Email, req.Password, strings.TrimSpace(req.OrganizationName))
	if err != nil {
		if errors.Is(err, store.ErrEmailAlreadyExists) {
			gate.WriteErrorCode(w, http.StatusConflict, "EMAIL_ALREADY_REGISTERED", "Email already registered")
			return
		}

		zerolog.Ctx(r.Context()).Error().Err(err).Msg("signup failed")
		gate.WriteErrorCode(w, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "Signup is temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		UserID: user.ID,
		Email:  user.Email,
		Organization: organizationResponse{
			ID:   org.ID,
			Name: org.Name,
			Slug: org.Slug,
		},
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		gate.WriteErrorCode(w, http.StatusBadRequest, "INVALID_REQUEST", "Request body must be valid JSON")
		return
	}

	token, err := s.identity.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			gate.WriteErrorCode(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Incorrect email or password")
			return
		}

		zerolog.Ctx(r.Context()).Error().Err(err).Msg("login failed")
		gate.WriteErrorCode(w, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "Login is temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: token,
		TokenType:   "bearer",
	})
}

type meResponse struct {
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	TenantID       string `json:"tenant_id"`
	Role           string `json:"role"`
	UsedDefaultOrg bool   `json:"used_default_org"`
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	ident, ok := gate.IdentityFromContext(r.Context())
	if !ok {
		gate.WriteErrorCode(w, http.StatusUnauthorized, "MISSING_AUTH_TOKEN", "Authorization header missing")
		return
	}

	user, err := s.identity.Lookup(r.Context(), ident.UserID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("user lookup failed")
		gate.WriteErrorCode(w, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "Profile is temporarily unavailable")
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		UserID:         user.ID,
		Email:          user.Email,
		TenantID:       ident.TenantID,
		Role:           string(ident.Role),
		UsedDefaultOrg: ident.UsedDefault,
	})
}

type userOrganizationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Role      string    `json:"role"`
	IsDefault bool      `json:"is_default"`
	JoinedAt  time.Time `json:"joined_at"`
}

func (s *Server) listOrganizations(w http.ResponseWriter, r *http.Request) {
	ident, ok := gate.IdentityFromContext(r.Context())
	if !ok {
		gate.WriteErrorCode(w, http.StatusUnauthorized, "MISSING_AUTH_TOKEN", "Authorization header missing")
		return
	}

	memberships, err := s.orgs.ListForUser(r.Context(), ident.UserID)
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("organization list failed")
		gate.WriteErrorCode(w, http.StatusServiceUnavailable, "DEPENDENCY_UNAVAILABLE", "Organizations are temporarily unavailable")
		return
	}

	out := make([]userOrganizationResponse, 0, len(memberships))
	for _, m := range memberships {
		out = append(out, userOrganizationResponse{
			ID:        m.Organization.ID,
			Name:      m.Organization.Name,
			Slug:      m.Organization.Slug,
			Role:      string(m.Role),
			IsDefault: m.IsDefault,
			JoinedAt:  m.JoinedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"organizations": out})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
