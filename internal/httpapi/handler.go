package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vvatanabe/paketpilot"
	"github.com/vvatanabe/paketpilot/qr"
)

type Registrar interface {
	Register(ctx context.Context, params *paketpilot.RegisterInput) (*paketpilot.RegisterOutput, error)
	ClearAll(ctx context.Context) (*paketpilot.DeleteAllShipmentsOutput, error)
}

type ContentLog interface {
	List() ([]string, error)
	Remove(content string) (bool, error)
}

type Handler struct {
	client     paketpilot.Client
	registrar  Registrar
	contents   ContentLog
	qrCodeSize int
	logger     *log.Logger
}

func NewHandler(client paketpilot.Client, registrar Registrar, contents ContentLog, qrCodeSize int, logger *log.Logger) *Handler {
	return &Handler{
		client:     client,
		registrar:  registrar,
		contents:   contents,
		qrCodeSize: qrCodeSize,
		logger:     logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

type createShipmentRequest struct {
	Origin      string `json:"origin"`
	Destination string `json:"destination"`
	ItemType    string `json:"item_type"`
	Quantity    string `json:"quantity"`
}

type createShipmentResponse struct {
	Shipment *paketpilot.Shipment `json:"shipment"`
	Content  string               `json:"content"`
}

func (h *Handler) CreateShipment(w http.ResponseWriter, r *http.Request) {
	var req createShipmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	out, err := h.registrar.Register(r.Context(), &paketpilot.RegisterInput{
		Origin:      req.Origin,
		Destination: req.Destination,
		ItemType:    req.ItemType,
		Quantity:    req.Quantity,
	})
	if err != nil {
		h.logger.Printf("register shipment: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, createShipmentResponse{
		Shipment: out.Shipment,
		Content:  out.Content,
	})
}

func (h *Handler) ListShipments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.client.ListShipments(r.Context(), &paketpilot.ListShipmentsInput{
		Origin:      q.Get("origin"),
		Destination: q.Get("destination"),
		ItemType:    q.Get("item_type"),
	})
	if err != nil {
		h.logger.Printf("list shipments: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out.Shipments)
}

func (h *Handler) GetShipment(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, shipment)
}

func (h *Handler) GetShipmentQRCode(w http.ResponseWriter, r *http.Request) {
	shipment, ok := h.lookup(w, r)
	if !ok {
		return
	}
	png, err := qr.Encode(shipment.Content(), h.qrCodeSize)
	if err != nil {
		h.logger.Printf("encode qr code of %s: %v", shipment.ID, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

func (h *Handler) lookup(w http.ResponseWriter, r *http.Request) (*paketpilot.Shipment, bool) {
	id := chi.URLParam(r, "id")
	out, err := h.client.GetShipment(r.Context(), &paketpilot.GetShipmentInput{ID: id})
	if err != nil {
		h.logger.Printf("get shipment %s: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return nil, false
	}
	if out.Shipment == nil {
		http.Error(w, "not found", http.StatusNotFound)
		return nil, false
	}
	return out.Shipment, true
}

func (h *Handler) DeleteShipment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_, err := h.client.DeleteShipment(r.Context(), &paketpilot.DeleteShipmentInput{ID: id})
	if err != nil {
		if errors.Is(err, paketpilot.IDNotProvidedError{}) {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		h.logger.Printf("delete shipment %s: %v", id, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteAllShipments(w http.ResponseWriter, r *http.Request) {
	out, err := h.registrar.ClearAll(r.Context())
	if err != nil {
		h.logger.Printf("clear all shipments: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) ListContents(w http.ResponseWriter, r *http.Request) {
	contents, err := h.contents.List()
	if err != nil {
		h.logger.Printf("list contents: %v", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, contents)
}

func (h *Handler) DeleteContent(w http.ResponseWriter, r *http.Request) {
	content := r.URL.Query().Get("content")
	if content == "" {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if _, err := h.contents.Remove(content); err != nil {
		h.logger.Printf("remove content %q: %v", content, err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
