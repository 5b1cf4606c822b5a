package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires every marketplace endpoint. Reads are public; anything
// that acts as a wallet sits behind the session middleware.
func NewRouter(h *HTTPHandler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", h.ConnectWallet)
		r.Delete("/sessions/{sessionId}", h.DisconnectWallet)

		// Public reads
		r.Get("/events/{concertId}", h.GetEventDetails)
		r.Get("/tickets/{ticketId}", h.GetTicket)
		r.Get("/loyalty/{address}", h.GetLoyaltyPoints)
		r.Get("/market/listings/{ticketId}", h.GetListedTicketPrice)
		r.Get("/lottery", h.GetLotteryStatus)
		r.Get("/polls/{pollId}", h.GetPoll)
		r.Get("/polls/{pollId}/options/{optionId}", h.GetVotesForOption)
		r.Get("/concert-options/{optionId}", h.GetConcertOption)

		// Authenticated wallet actions
		r.Group(func(r chi.Router) {
			r.Use(h.RequireSession)

			r.Post("/events", h.CreateEvent)
			r.Post("/events/tickets", h.CreateTicket)
			r.Post("/events/{concertId}/release", h.ReleaseTickets)
			r.Post("/events/purchase", h.BuyTicket)
			r.Post("/events/redeem", h.RedeemPresaleTicket)

			r.Post("/queue/join", h.JoinQueue)
			r.Post("/queue/refresh", h.RefreshPriority)
			r.Get("/queue/status", h.GetQueueStatus)

			r.Post("/loyalty/award", h.AwardLoyaltyPoints)

			r.Post("/tickets/{ticketId}/transfer", h.TransferTicket)
			r.Post("/tickets/{ticketId}/freeze", h.FreezeTicket)

			r.Post("/market/listings", h.ListTicket)
			r.Delete("/market/listings/{ticketId}", h.UnlistTicket)
			r.Post("/market/listings/{ticketId}/purchase", h.BuyListedTicket)
			r.Post("/market/redeem", h.RedeemMarketTicket)

			r.Post("/lottery/start", h.StartLottery)
			r.Post("/lottery/enter", h.EnterLottery)
			r.Post("/lottery/tickets", h.CreateLotteryTicket)
			r.Post("/lottery/end", h.EndLottery)
			r.Post("/lottery/reset", h.ResetLottery)

			r.Post("/polls", h.CreatePoll)
			r.Post("/polls/{pollId}/votes", h.Vote)
			r.Delete("/polls/{pollId}/votes", h.RetractVote)
			r.Post("/polls/{pollId}/close", h.ClosePoll)

			r.Post("/concert-options", h.AddConcertOption)
			r.Post("/concert-options/{optionId}/register", h.RegisterToVote)
			r.Post("/concert-options/{optionId}/votes", h.CastVote)
			r.Post("/concert-options/{optionId}/withdraw", h.WithdrawVoteRegistration)
		})
	})

	return r
}
