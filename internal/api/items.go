package api

import (
	"net/http"

	"shareit/internal/models"
)

func (s *HTTPServer) createItem(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req itemCreateRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	item, err := s.services.Items.Create(r.Context(), userID, req.toModel())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (s *HTTPServer) updateItem(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req itemPatchRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	item, err := s.services.Items.Update(r.Context(), itemID, userID, req.toModel())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponse(item))
}

func (s *HTTPServer) deleteItem(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.services.Items.Delete(r.Context(), itemID, userID); err != nil {
		s.respondError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (s *HTTPServer) getItem(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.services.Items.GetByID(r.Context(), itemID, userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemViewResponse(view))
}

func (s *HTTPServer) listOwnerItems(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views, err := s.services.Items.ListForOwner(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	resp := make([]itemResponse, 0, len(views))
	for _, v := range views {
		resp = append(resp, toItemViewResponse(v))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *HTTPServer) searchItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.services.Items.Search(r.Context(), r.URL.Query().Get("text"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemResponses(items))
}

func (s *HTTPServer) addComment(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	itemID, err := pathID(r, "itemId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req commentCreateRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	comment, err := s.services.Items.AddComment(r.Context(), itemID, userID, req.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toCommentResponse(comment))
}

func toItemResponses(items []*models.Item) []itemResponse {
	resp := make([]itemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, toItemResponse(it))
	}
	return resp
}
