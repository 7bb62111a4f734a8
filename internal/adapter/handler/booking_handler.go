package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/srgjo27/airline_desk/internal/core/domain"
	"github.com/srgjo27/airline_desk/internal/core/services"
)

type BookingHandler struct {
	booking   *services.BookingService
	inventory *services.InventoryService
	directory *services.FlightDirectory
	log       logrus.FieldLogger
}

func NewBookingHandler(booking *services.BookingService, inventory *services.InventoryService, directory *services.FlightDirectory, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{booking: booking, inventory: inventory, directory: directory, log: log}
}

// Routes registers every endpoint on mux.
func (h *BookingHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /flights", h.ListFlights)
	mux.HandleFunc("GET /aircraft/{id}/seats", h.GetSeats)
	mux.HandleFunc("POST /tickets", h.CreateTicket)
	mux.HandleFunc("GET /tickets/{id}", h.GetTicket)
	mux.HandleFunc("GET /tickets/{id}/text", h.DescribeTicket)
	mux.HandleFunc("DELETE /tickets/{id}", h.RefundTicket)
	mux.HandleFunc("GET /users/{username}/tickets", h.ListUserTickets)
}

type ticketResponse struct {
	domain.Ticket
	Username string `json:"username,omitempty"`
}

type refundResponse struct {
	services.RefundResult
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal server error"

	switch {
	case errors.Is(err, domain.ErrSeatUnavailable), errors.Is(err, domain.ErrSeatAlreadyFree):
		status, msg = http.StatusConflict, err.Error()
	case errors.Is(err, domain.ErrTicketNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrAircraftNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrZoneUnknown):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	default:
		h.log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}

	writeJSON(w, status, map[string]string{"error": msg})
}

func (h *BookingHandler) ListFlights(w http.ResponseWriter, r *http.Request) {
	from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to")
	if from == "" || to == "" || from == to {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "from and to must be two different cities"})
		return
	}

	routes, err := h.directory.Routes(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, routes)
}

func (h *BookingHandler) GetSeats(w http.ResponseWriter, r *http.Request) {
	a, err := h.inventory.Snapshot(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, a)
}

func (h *BookingHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req services.BookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json body"})
		return
	}

	id, err := h.booking.Book(r.Context(), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"ticket_id": id})
}

func (h *BookingHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	t, owner, err := h.booking.Ticket(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp := ticketResponse{Ticket: *t}
	if r.URL.Query().Get("owner") == "true" {
		resp.Username = owner
	}

	writeJSON(w, http.StatusOK, resp)
}

func (h *BookingHandler) DescribeTicket(w http.ResponseWriter, r *http.Request) {
	text, err := h.booking.Describe(r.Context(), r.PathValue("id"), r.URL.Query().Get("owner") != "false")
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(text + "\n"))
}

func (h *BookingHandler) RefundTicket(w http.ResponseWriter, r *http.Request) {
	res, err := h.booking.Refund(r.Context(), r.PathValue("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, refundResponse{RefundResult: *res, Message: res.Confirmation()})
}

func (h *BookingHandler) ListUserTickets(w http.ResponseWriter, r *http.Request) {
	tickets, err := h.booking.UserTickets(r.Context(), r.PathValue("username"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, tickets)
}
