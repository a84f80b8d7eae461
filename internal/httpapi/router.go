package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/health", h.Health)

	r.Route("/api/shipments", func(r chi.Router) {
		r.Get("/", h.ListShipments)
		r.Post("/", h.CreateShipment)
		r.Delete("/", h.DeleteAllShipments)
		r.Get("/{id}", h.GetShipment)
		r.Get("/{id}/qrcode", h.GetShipmentQRCode)
		r.Delete("/{id}", h.DeleteShipment)
	})

	r.Route("/api/contents", func(r chi.Router) {
		r.Get("/", h.ListContents)
		r.Delete("/", h.DeleteContent)
	})

	return r
}
