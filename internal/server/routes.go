package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tg_escrow/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) {
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			// unauthorized zone
			r.Route("/deals", func(r chi.Router) {
				r.Get("/", handler(s.getV1Deals))
				r.Post("/", handler(s.postV1Deals))

				r.Route("/{id}", func(r chi.Router) {
					r.Get("/", handler(s.getV1Deal))
					r.Get("/completion", handler(s.getV1DealCompletion))
					r.Post("/buy", handler(s.postV1DealBuy))
					r.Post("/sent", handler(s.postV1DealSent))
					r.Post("/confirm", handler(s.postV1DealConfirm))
					r.Post("/problem", handler(s.postV1DealProblem))
				})
			})

			r.Get("/parties/{id}/balance", handler(s.getV1PartyBalance))
			r.Post("/admin/credit", handler(s.postV1AdminCredit))
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
