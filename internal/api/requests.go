package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) createRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req itemRequestCreateRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	created, err := s.services.Requests.Create(r.Context(), userID, req.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemRequestResponse(created))
}

func (s *HTTPServer) listOwnRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	reqs, err := s.services.Requests.ListOwn(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponses(reqs))
}

func (s *HTTPServer) listOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	reqs, err := s.services.Requests.ListOthers(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponses(reqs))
}

func (s *HTTPServer) getRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	requestID, err := pathID(r, "requestId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	req, err := s.services.Requests.GetByID(r.Context(), requestID, userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemRequestResponse(req))
}

func toItemRequestResponses(reqs []*models.ItemRequest) []itemRequestResponse {
	resp := make([]itemRequestResponse, 0, len(reqs))
	for _, req := range reqs {
		resp = append(resp, toItemRequestResponse(req))
	}
	return resp
}
