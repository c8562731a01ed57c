package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/domain"
	"github.com/shareit-project/shareit/internal/service"
)

// BookingHandler handles booking requests.
type BookingHandler struct {
	bookingService *service.BookingService
	logger         zerolog.Logger
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService, logger zerolog.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger.With().Str("handler", "booking").Logger(),
	}
}

// RegisterRoutes registers booking routes.
func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/bookings", h.handleCreate)
	r.Get("/bookings", h.handleListByBooker)
	r.Get("/bookings/owner", h.handleListByOwner)
	r.Get("/bookings/{bookingId}", h.handleGet)
	r.Patch("/bookings/{bookingId}", h.handleApprove)
}

// bookingRequest is the booking creation body.
type bookingRequest struct {
	ItemID int64     `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

func (h *BookingHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req bookingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Start.IsZero() || req.End.IsZero() {
		writeErrorMessage(w, http.StatusBadRequest, "start and end are required")
		return
	}

	booking, err := h.bookingService.CreateBooking(r.Context(), service.CreateBookingInput{
		BookerID: callerID,
		ItemID:   req.ItemID,
		Start:    req.Start,
		End:      req.End,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) handleApprove(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	var approved bool
	switch r.URL.Query().Get("approved") {
	case "true":
		approved = true
	case "false":
		approved = false
	default:
		writeErrorMessage(w, http.StatusBadRequest, "approved parameter must be true or false")
		return
	}

	booking, err := h.bookingService.ApproveBooking(r.Context(), service.ApproveBookingInput{
		BookingID: bookingID,
		CallerID:  callerID,
		Approved:  approved,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	bookingID, err := pathID(r, "bookingId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	booking, err := h.bookingService.GetBooking(r.Context(), bookingID, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) handleListByBooker(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.bookingService.ListBookerBookings)
}

func (h *BookingHandler) handleListByOwner(w http.ResponseWriter, r *http.Request) {
	h.handleList(w, r, h.bookingService.ListOwnerBookings)
}

// handleList factors the two state-filtered listings; they differ only
// in the service call.
func (h *BookingHandler) handleList(w http.ResponseWriter, r *http.Request, list func(context.Context, service.ListBookingsInput) ([]*domain.Booking, error)) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	from, err := queryInt(r, "from", defaultFrom)
	if err != nil || from < 0 {
		writeErrorMessage(w, http.StatusBadRequest, "invalid from parameter")
		return
	}
	size, err := queryInt(r, "size", defaultSize)
	if err != nil || size < 1 {
		writeErrorMessage(w, http.StatusBadRequest, "invalid size parameter")
		return
	}

	bookings, err := list(r.Context(), service.ListBookingsInput{
		UserID: callerID,
		State:  r.URL.Query().Get("state"),
		From:   from,
		Size:   size,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}
