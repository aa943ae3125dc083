package api

import (
	"net/http"
	"strconv"

	"shareit/internal/failure"
)

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req bookingCreateRequest
	if err := decode(r, &req); err != nil {
		s.respondError(w, r, err)
		return
	}

	booking, err := s.services.Bookings.Create(r.Context(), req.toModel(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

func (s *HTTPServer) approveBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	raw := r.URL.Query().Get("approved")
	approved, err := strconv.ParseBool(raw)
	if err != nil {
		s.respondError(w, r, failure.InvalidRequest("invalid approved value: %q", raw))
		return
	}

	booking, err := s.services.Bookings.Approve(r.Context(), bookingID, userID, approved)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	booking, err := s.services.Bookings.GetByID(r.Context(), bookingID, userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponse(booking))
}

func (s *HTTPServer) listBookerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookings, err := s.services.Bookings.ListForBooker(r.Context(), userID, r.URL.Query().Get("state"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}

func (s *HTTPServer) listOwnerBookings(w http.ResponseWriter, r *http.Request) {
	userID, err := s.actingUser(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	bookings, err := s.services.Bookings.ListForOwner(r.Context(), userID, r.URL.Query().Get("state"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toBookingResponses(bookings))
}
