package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/shareit-project/shareit/internal/service"
)

// RequestHandler handles wanted-item request endpoints.
type RequestHandler struct {
	requestService *service.RequestService
	logger         zerolog.Logger
}

// NewRequestHandler creates a new RequestHandler.
func NewRequestHandler(requestService *service.RequestService, logger zerolog.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		logger:         logger.With().Str("handler", "request").Logger(),
	}
}

// RegisterRoutes registers request routes.
func (h *RequestHandler) RegisterRoutes(r chi.Router) {
	r.Post("/requests", h.handleCreate)
	r.Get("/requests", h.handleListOwn)
	r.Get("/requests/all", h.handleListOthers)
	r.Get("/requests/{requestId}", h.handleGet)
}

// createRequestBody is the request creation body.
type createRequestBody struct {
	Description string `json:"description"`
}

func (h *RequestHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req createRequestBody
	if err := decodeJSON(r, &req); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.requestService.CreateRequest(r.Context(), service.CreateRequestInput{
		RequestorID: callerID,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}

func (h *RequestHandler) handleListOwn(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	requests, err := h.requestService.ListOwnRequests(r.Context(), callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *RequestHandler) handleListOthers(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	page, err := queryPage(r)
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	requests, err := h.requestService.ListOtherRequests(r.Context(), callerID, page)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, requests)
}

func (h *RequestHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	callerID, ok := requireCaller(w, r)
	if !ok {
		return
	}

	requestID, err := pathID(r, "requestId")
	if err != nil {
		writeErrorMessage(w, http.StatusBadRequest, err.Error())
		return
	}

	request, err := h.requestService.GetRequest(r.Context(), requestID, callerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, request)
}
