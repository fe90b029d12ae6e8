package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/travelms/travel-be/internal/http/respond"
	"github.com/travelms/travel-be/internal/models/dto"
	"github.com/travelms/travel-be/internal/service"
)

// DestinationHandler serves the public destinations catalog.
type DestinationHandler struct {
	destinations *service.DestinationService
}

// NewDestinationHandler constructs the handler.
func NewDestinationHandler(destinations *service.DestinationService) *DestinationHandler {
	return &DestinationHandler{destinations: destinations}
}

// Register attaches catalog routes to the router.
func (h *DestinationHandler) Register(r chi.Router) {
	r.Route("/api/destinations", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/popular", h.handlePopular)
		r.Get("/{id}", h.handleGet)
	})
}

func (h *DestinationHandler) handleList(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.destinations.List(r.Context())
	if err != nil {
		slog.Error("list destinations failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, "", dto.DestinationListResponse{
		Count:        len(destinations),
		Destinations: destinations,
	})
}

func (h *DestinationHandler) handlePopular(w http.ResponseWriter, r *http.Request) {
	destinations, err := h.destinations.Popular(r.Context())
	if err != nil {
		slog.Error("popular destinations failed", "error", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, "", dto.DestinationListResponse{
		Count:        len(destinations),
		Destinations: destinations,
	})
}

func (h *DestinationHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid destination id")
		return
	}

	destination, err := h.destinations.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respond.Error(w, http.StatusNotFound, "Destination not found")
			return
		}
		slog.Error("get destination failed", "destination_id", id, "error", err)
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	respond.JSON(w, http.StatusOK, "", dto.DestinationResponse{Destination: destination})
}
