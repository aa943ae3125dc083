package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) createUser(w http.ResponseWriter, r *http.Request) {
	var req userCreateRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.services.Users.Create(r.Context(), &models.User{Name: req.Name, Email: req.Email})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

func (s *HTTPServer) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.services.Users.List(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := make([]userResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) getUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.services.Users.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) updateUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req userPatchRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.services.Users.Update(r.Context(), id, models.UserPatch{Name: req.Name, Email: req.Email})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

func (s *HTTPServer) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.services.Users.Delete(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}
