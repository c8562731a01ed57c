package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/service"
)

// ItemHandler handles shared item requests.
type ItemHandler struct {
	itemService *service.ItemService
	logger      zerolog.Logger
}

// NewItemHandler creates a new ItemHandler.
func NewItemHandler(itemService *service.ItemService, logger zerolog.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger.With().Str("handler", "item").Logger(),
	}
}

// RegisterRoutes registers item routes.
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Post("/items", h.handleCreate)
	r.Get("/items", h.handleList)
	r.Get("/items/search", h.handleSearch)
	r.Get("/items/{itemId}", h.handleGet)
	r.Patch("/items/{itemId}", h.handleUpdate)
	r.Post("/items/{itemId}/comment", h.handleCreateComment)
}

// =============================================================================
// Request/Response Bodies
// =============================================================================

// itemRequest is the create/update request body.
type itemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Available   *bool   `json:"available"`
	RequestID   *int64  `json:"requestId"`
}

// bookingSummary is the compact booking rendering embedded in item
// responses.
type bookingSummary struct {
	ID       int64     `json:"id"`
	ItemID   int64     `json:"itemId"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	BookerID int64     `json:"bookerId"`
}

// itemDetailResponse is an item with comments and, for the owner, the
// adjacent approved bookings.
type itemDetailResponse struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Available   bool              `json:"available"`
	RequestID   *int64            `json:"requestId,omitempty"`
	LastBooking *bookingSummary   `json:"lastBooking"`
	NextBooking *bookingSummary   `json:"nextBooking"`
	Comments    []*domain.Comment `json:"comments"`
}

// commentRequest is the comment creation body.
type commentRequest struct {
	Text string `json:"text"`
}

func toBookingSummary(b *domain.Booking) *bookingSummary {
	if b == nil {
		return nil
	}
	return &bookingSummary{
		ID:       b.ID,
		ItemID:   b.ItemID(),
		Start:    b.Start,
		End:      b.End,
		BookerID: b.BookerID(),
	}
}

func toItemDetail(d *service.ItemDetail) *itemDetailResponse {
	return &itemDetailResponse{
		ID:          d.Item.ID,
		Name:        d.Item.Name,
		Description: d.Item.Description,
		Available:   d.Item.Available,
		RequestID:   d.Item.RequestID,
		LastBooking: toBookingSummary(d.LastBooking),
		NextBooking: toBookingSummary(d.NextBooking),
		Comments:    d.Comments,
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (h *ItemHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.CreateItemInput{
		OwnerID:   callerID,
		Available: req.Available,
		RequestID: req.RequestID,
	}
	if req.Name != nil {
		input.Name = *req.Name
	}
	if req.Description != nil {
		input.Description = *req.Description
	}

	item, err := h.itemService.CreateItem(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), service.UpdateItemInput{
		ItemID:      itemID,
		CallerID:    callerID,
		Name:        req.Name,
		Description: req.Description,
		Available:   req.Available,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *ItemHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.itemService.GetItem(r.Context(), itemID, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toItemDetail(detail))
}

func (h *ItemHandler) handleList(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	page, err := queryPage(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.itemService.ListItems(r.Context(), callerID, page)
	if err != nil {
		writeError(w, err)
		return
	}

	response := make([]*itemDetailResponse, 0, len(details))
	for _, d := range details {
		response = append(response, toItemDetail(d))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *ItemHandler) handleSearch(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	page, err := queryPage(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := h.itemService.SearchItems(r.Context(), callerID, r.URL.Query().Get("text"), page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *ItemHandler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	itemID, err := pathID(r, "itemId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var req commentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	comment, err := h.itemService.CreateComment(r.Context(), service.CreateCommentInput{
		ItemID:   itemID,
		AuthorID: callerID,
		Text:     req.Text,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, comment)
}
