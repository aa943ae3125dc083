package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"shareit/internal/models"
)

// Timestamp is a wall-clock time on the wire in models.TimestampLayout, read and written as UTC.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t}
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.UTC().Format(models.TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("timestamp must be a string: %w", err)
	}
	parsed, err := time.ParseInLocation(models.TimestampLayout, strings.TrimSpace(raw), time.UTC)
	if err != nil {
		return fmt.Errorf("timestamp %q must match yyyy-MM-ddTHH:mm:ss", raw)
	}
	t.Time = parsed
	return nil
}

// Requests

type bookingCreateRequest struct {
	ItemID int64      `json:"itemId" validate:"required,gt=0"`
	Start  *Timestamp `json:"start" validate:"required"`
	End    *Timestamp `json:"end" validate:"required"`
}

func (r bookingCreateRequest) toModel() models.BookingRequest {
	return models.BookingRequest{ItemID: r.ItemID, Start: r.Start.Time, End: r.End.Time}
}

type itemCreateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description" validate:"required"`
	Available   *bool  `json:"available" validate:"required"`
	RequestID   *int64 `json:"requestId" validate:"omitempty,gt=0"`
}

func (r itemCreateRequest) toModel() models.ItemInput {
	return models.ItemInput{
		Name:        r.Name,
		Description: r.Description,
		Available:   *r.Available,
		RequestID:   r.RequestID,
	}
}

type itemPatchRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
}

func (r itemPatchRequest) toModel() models.ItemPatch {
	return models.ItemPatch{Name: r.Name, Description: r.Description, Available: r.Available}
}

type commentCreateRequest struct {
	Text string `json:"text" validate:"required"`
}

type userCreateRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

type userPatchRequest struct {
	Name  string  `json:"name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

type itemRequestCreateRequest struct {
	Description string `json:"description" validate:"required"`
}

// Responses

type userSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type itemSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type bookingResponse struct {
	ID           int64        `json:"id"`
	Start        Timestamp    `json:"start"`
	End          Timestamp    `json:"end"`
	Status       string       `json:"status"`
	Booker       *userSummary `json:"booker"`
	Item         *itemSummary `json:"item"`
	DurationDays int64        `json:"durationDays"`
}

// bookingShort is the last/next booking attached to an item.
type bookingShort struct {
	ID       int64     `json:"id"`
	Start    Timestamp `json:"start"`
	End      Timestamp `json:"end"`
	ItemID   int64     `json:"itemId"`
	BookerID int64     `json:"bookerId"`
}

type commentResponse struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    Timestamp `json:"created"`
}

type itemResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	RequestID   *int64            `json:"requestId"`
	LastBooking *bookingShort     `json:"lastBooking"`
	NextBooking *bookingShort     `json:"nextBooking"`
	Comments    []commentResponse `json:"comments"`
}

type userResponse struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type requestItem struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	OwnerID int64  `json:"ownerId"`
}

type itemRequestResponse struct {
	ID          int64         `json:"id"`
	Description string        `json:"description"`
	Created     Timestamp     `json:"created"`
	Items       []requestItem `json:"items"`
}

// durationDays counts whole days between start and end, truncated.
func durationDays(start, end time.Time) int64 {
	return int64(end.Sub(start) / (24 * time.Hour))
}

func toBookingResponse(b *models.Booking) bookingResponse {
	resp := bookingResponse{
		ID:           b.ID,
		Start:        NewTimestamp(b.Start),
		End:          NewTimestamp(b.End),
		Status:       string(b.Status),
		DurationDays: durationDays(b.Start, b.End),
	}
	if b.Booker != nil {
		resp.Booker = &userSummary{ID: b.Booker.ID, Name: b.Booker.Name}
	}
	if b.Item != nil {
		resp.Item = &itemSummary{ID: b.Item.ID, Name: b.Item.Name}
	}
	return resp
}

func toBookingResponses(bookings []*models.Booking) []bookingResponse {
	out := make([]bookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	return out
}

func toBookingShort(b *models.Booking) *bookingShort {
	if b == nil {
		return nil
	}
	return &bookingShort{
		ID:       b.ID,
		Start:    NewTimestamp(b.Start),
		End:      NewTimestamp(b.End),
		ItemID:   b.ItemID,
		BookerID: b.BookerID,
	}
}

func toCommentResponse(c *models.Comment) commentResponse {
	resp := commentResponse{
		ID:      c.ID,
		Text:    c.Text,
		Created: NewTimestamp(c.Created),
	}
	if c.Author != nil {
		resp.AuthorName = c.Author.Name
	}
	return resp
}

func toItemResponse(it *models.Item) itemResponse {
	return itemResponse{
		ID:          it.ID,
		Name:        it.Name,
		Description: it.Description,
		Available:   it.Available,
		RequestID:   it.RequestID,
		Comments:    []commentResponse{},
	}
}

func toItemViewResponse(v *models.ItemView) itemResponse {
	resp := toItemResponse(v.Item)
	resp.LastBooking = toBookingShort(v.LastBooking)
	resp.NextBooking = toBookingShort(v.NextBooking)
	for _, c := range v.Comments {
		resp.Comments = append(resp.Comments, toCommentResponse(c))
	}
	return resp
}

func toUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toItemRequestResponse(r *models.ItemRequest) itemRequestResponse {
	resp := itemRequestResponse{
		ID:          r.ID,
		Description: r.Description,
		Created:     NewTimestamp(r.Created),
		Items:       make([]requestItem, 0, len(r.Items)),
	}
	for _, it := range r.Items {
		resp.Items = append(resp.Items, requestItem{ID: it.ID, Name: it.Name, OwnerID: it.OwnerID})
	}
	return resp
}
