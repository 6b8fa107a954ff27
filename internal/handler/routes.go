package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Routes builds the full router with the shared middleware stack.
func (h *Handler) Routes(log zerolog.Logger, allowedOrigin string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(Logger(log))
	r.Use(CORS(allowedOrigin))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/student", func(r chi.Router) {
		r.Post("/register", h.RegisterStudent)
		r.Post("/login", h.LoginStudent)
		r.Post("/logout", h.LogoutStudent)
	})

	r.Route("/facultyAdmin", func(r chi.Router) {
		r.Post("/login", h.LoginFaculty)
		r.Post("/reviewFunding", h.ReviewFunding)
		r.Post("/approveFunding", h.ApproveFunding)
		r.Post("/rejectFunding", h.RejectFunding)
		r.Post("/listAllFunding", h.ListAllFunding)
	})

	r.Route("/events", func(r chi.Router) {
		r.Get("/", h.ListEvents)
		r.Get("/student", h.EventsByStudent)
		r.Post("/search", h.SearchEvents)
		r.Post("/create_event", h.CreateEvent)
		r.Post("/modify_event", h.ModifyEvent)
		r.Get("/{id}", h.GetEvent)
	})

	r.Delete("/eventCancel/cancelEvent", h.CancelEvent)

	r.Route("/rsvp", func(r chi.Router) {
		r.Post("/create", h.CreateRsvp)
		r.Post("/cancel", h.CancelRsvp)
		r.Get("/myRSVPs", h.MyRsvps)
		r.Get("/details", h.RsvpDetails)
	})

	r.Route("/fundingApplication", func(r chi.Router) {
		r.Post("/createFunding", h.CreateFunding)
		r.Post("/updateFunding", h.UpdateFunding)
		r.Post("/cancelFunding", h.CancelFunding)
		r.Get("/listFunding", h.ListFunding)
	})

	r.Route("/studentAdmin", func(r chi.Router) {
		r.Post("/addAdmin", h.AddAdmin)
		r.Post("/removeAdmin", h.RemoveAdmin)
		r.Get("/myClubs", h.MyClubs)
		r.Get("/getAdmins", h.GetAdmins)
	})

	return r
}
