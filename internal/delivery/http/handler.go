package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/domain"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/internal/service"
	apperrors "github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/errors"
	"github.com/inukite/IS4302-Decentralized-Event-Ticketing-System/pkg/logger"
)

type HTTPHandler struct {
	marketplaceService service.MarketplaceService
	sessionService     service.SessionService
	logger             logger.Logger
	validator          *validator.Validate
}

func NewHTTPHandler(marketplaceService service.MarketplaceService, sessionService service.SessionService, logger logger.Logger) *HTTPHandler {
	return &HTTPHandler{
		marketplaceService: marketplaceService,
		sessionService:     sessionService,
		logger:             logger,
		validator:          validator.New(),
	}
}

// HealthCheck handles health check requests
func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":  "healthy",
		"service": "ticketing-marketplace",
		"version": "1.0.0",
	}
	h.respondJSON(w, http.StatusOK, response)
}

// ---- Sessions ----

type connectWalletRequest struct {
	Address string `json:"address" validate:"required"`
}

type connectWalletResponse struct {
	SessionID string `json:"session_id"`
	Address   string `json:"address"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// ConnectWallet opens a session for a wallet address and returns the bearer
// token used by every authenticated endpoint.
func (h *HTTPHandler) ConnectWallet(w http.ResponseWriter, r *http.Request) {
	var req connectWalletRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	ss, token, err := h.sessionService.Connect(r.Context(), domain.Address(req.Address))
	if err != nil {
		h.logger.Errorf(r.Context(), "Failed to connect wallet: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to connect wallet", err)
		return
	}

	h.respondJSON(w, http.StatusCreated, connectWalletResponse{
		SessionID: ss.ID,
		Address:   ss.Address.String(),
		Token:     token,
		ExpiresAt: ss.ExpiresAt.Unix(),
	})
}

// DisconnectWallet tears down a session by id.
func (h *HTTPHandler) DisconnectWallet(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")
	if sessionID == "" {
		h.respondError(w, http.StatusBadRequest, "Session ID is required", nil)
		return
	}

	if err := h.sessionService.Disconnect(r.Context(), sessionID); err != nil {
		h.logger.Errorf(r.Context(), "Failed to disconnect wallet: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to disconnect wallet", err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"session_id": sessionID,
		"message":    "Session closed",
	})
}

// ---- Events (presale) ----

func (h *HTTPHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req service.CreateEventInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.CreateEvent(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to create event", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTicketInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.CreateTicketAndAddToEvent(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to create ticket", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) ReleaseTickets(w http.ResponseWriter, r *http.Request) {
	concertID, ok := h.uint64Param(w, r, "concertId")
	if !ok {
		return
	}

	out, err := h.marketplaceService.ReleaseTicket(r.Context(), callerFrom(r), concertID)
	if err != nil {
		h.respondDomainError(w, r, "Failed to release tickets", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) BuyTicket(w http.ResponseWriter, r *http.Request) {
	var req service.BuyTicketInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.BuyTicket(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to buy ticket", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) RedeemPresaleTicket(w http.ResponseWriter, r *http.Request) {
	var req service.RedeemInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.RedeemInPresaleMarket(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to redeem ticket", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetEventDetails(w http.ResponseWriter, r *http.Request) {
	concertID, ok := h.uint64Param(w, r, "concertId")
	if !ok {
		return
	}

	concert, err := h.marketplaceService.GetEventDetails(r.Context(), concertID)
	if err != nil {
		h.respondDomainError(w, r, "Event not found", err)
		return
	}
	h.respondJSON(w, http.StatusOK, concert)
}

// ---- Queue ----

func (h *HTTPHandler) JoinQueue(w http.ResponseWriter, r *http.Request) {
	if err := h.marketplaceService.JoinQueue(r.Context(), callerFrom(r)); err != nil {
		h.respondDomainError(w, r, "Failed to join queue", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"message": "Joined the queue"})
}

func (h *HTTPHandler) RefreshPriority(w http.ResponseWriter, r *http.Request) {
	if err := h.marketplaceService.RefreshPriority(r.Context(), callerFrom(r)); err != nil {
		h.respondDomainError(w, r, "Failed to refresh priority", err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Priority refreshed"})
}

func (h *HTTPHandler) GetQueueStatus(w http.ResponseWriter, r *http.Request) {
	out, err := h.marketplaceService.QueueStatus(r.Context(), callerFrom(r))
	if err != nil {
		h.logger.Errorf(r.Context(), "Failed to get queue status: %v", err)
		h.respondError(w, http.StatusInternalServerError, "Failed to get queue status", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

// ---- Loyalty ----

type awardPointsRequest struct {
	Address string `json:"address" validate:"required"`
	Points  uint64 `json:"points" validate:"required,gt=0"`
}

func (h *HTTPHandler) AwardLoyaltyPoints(w http.ResponseWriter, r *http.Request) {
	var req awardPointsRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.marketplaceService.AwardLoyaltyPoints(r.Context(), callerFrom(r), domain.Address(req.Address), req.Points); err != nil {
		h.respondDomainError(w, r, "Failed to award points", err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Points awarded"})
}

func (h *HTTPHandler) GetLoyaltyPoints(w http.ResponseWriter, r *http.Request) {
	addr := chi.URLParam(r, "address")
	if addr == "" {
		h.respondError(w, http.StatusBadRequest, "Address is required", nil)
		return
	}

	points := h.marketplaceService.GetLoyaltyPoints(r.Context(), domain.Address(addr))
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"address": addr,
		"points":  points,
	})
}

// ---- Tickets ----

type transferTicketRequest struct {
	To    string `json:"to" validate:"required"`
	Price int64  `json:"price" validate:"gte=0"`
}

func (h *HTTPHandler) TransferTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.uint64Param(w, r, "ticketId")
	if !ok {
		return
	}
	var req transferTicketRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.TransferTicket(r.Context(), callerFrom(r), ticketID, domain.Address(req.To), req.Price)
	if err != nil {
		h.respondDomainError(w, r, "Failed to transfer ticket", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) FreezeTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.uint64Param(w, r, "ticketId")
	if !ok {
		return
	}

	if err := h.marketplaceService.FreezeTicket(r.Context(), callerFrom(r), ticketID); err != nil {
		h.respondDomainError(w, r, "Failed to freeze ticket", err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Ticket frozen"})
}

func (h *HTTPHandler) GetTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.uint64Param(w, r, "ticketId")
	if !ok {
		return
	}

	ticket, err := h.marketplaceService.GetTicket(r.Context(), ticketID)
	if err != nil {
		h.respondDomainError(w, r, "Ticket not found", err)
		return
	}
	h.respondJSON(w, http.StatusOK, ticket)
}

// ---- Secondary market ----

func (h *HTTPHandler) ListTicket(w http.ResponseWriter, r *http.Request) {
	var req service.ListTicketInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.ListTicket(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to list ticket", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) UnlistTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.uint64Param(w, r, "ticketId")
	if !ok {
		return
	}

	out, err := h.marketplaceService.UnlistTicket(r.Context(), callerFrom(r), ticketID)
	if err != nil {
		h.respondDomainError(w, r, "Failed to unlist ticket", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

type buyListedTicketRequest struct {
	Payment int64 `json:"payment" validate:"gte=0"`
}

func (h *HTTPHandler) BuyListedTicket(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.uint64Param(w, r, "ticketId")
	if !ok {
		return
	}
	var req buyListedTicketRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.BuyListedTicket(r.Context(), callerFrom(r), ticketID, req.Payment)
	if err != nil {
		h.respondDomainError(w, r, "Failed to buy listed ticket", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) RedeemMarketTicket(w http.ResponseWriter, r *http.Request) {
	var req service.RedeemInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.RedeemInTicketMarket(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to redeem ticket", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetListedTicketPrice(w http.ResponseWriter, r *http.Request) {
	ticketID, ok := h.uint64Param(w, r, "ticketId")
	if !ok {
		return
	}

	price := h.marketplaceService.GetListedTicketPrice(r.Context(), ticketID)
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"ticket_id": ticketID,
		"price":     price,
		"listed":    price > 0,
	})
}

// ---- Lottery ----

type startLotteryRequest struct {
	DurationSeconds int64 `json:"duration_seconds" validate:"required,gt=0"`
}

func (h *HTTPHandler) StartLottery(w http.ResponseWriter, r *http.Request) {
	var req startLotteryRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.StartLottery(r.Context(), callerFrom(r), time.Duration(req.DurationSeconds)*time.Second)
	if err != nil {
		h.respondDomainError(w, r, "Failed to start lottery", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) EnterLottery(w http.ResponseWriter, r *http.Request) {
	if err := h.marketplaceService.EnterLottery(r.Context(), callerFrom(r)); err != nil {
		h.respondDomainError(w, r, "Failed to enter lottery", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"message": "Entered the lottery"})
}

func (h *HTTPHandler) CreateLotteryTicket(w http.ResponseWriter, r *http.Request) {
	var req service.CreateTicketInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.CreateAndAddLotteryTicket(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to create lottery ticket", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) EndLottery(w http.ResponseWriter, r *http.Request) {
	out, err := h.marketplaceService.EndLottery(r.Context(), callerFrom(r))
	if err != nil {
		h.respondDomainError(w, r, "Failed to end lottery", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) ResetLottery(w http.ResponseWriter, r *http.Request) {
	if err := h.marketplaceService.ResetLotteryParticipants(r.Context(), callerFrom(r)); err != nil {
		h.respondDomainError(w, r, "Failed to reset lottery", err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"message": "Lottery participants reset"})
}

func (h *HTTPHandler) GetLotteryStatus(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, h.marketplaceService.LotteryStatus(r.Context()))
}

// ---- Concert details polls ----

func (h *HTTPHandler) CreatePoll(w http.ResponseWriter, r *http.Request) {
	var req service.CreatePollInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.CreatePoll(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to create poll", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

type pollVoteRequest struct {
	TicketID uint64 `json:"ticket_id"`
	OptionID uint64 `json:"option_id"`
}

func (h *HTTPHandler) Vote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.uint64Param(w, r, "pollId")
	if !ok {
		return
	}
	var req pollVoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.Vote(r.Context(), callerFrom(r), req.TicketID, pollID, req.OptionID)
	if err != nil {
		h.respondDomainError(w, r, "Failed to vote", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

type retractVoteRequest struct {
	TicketID uint64 `json:"ticket_id"`
}

func (h *HTTPHandler) RetractVote(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.uint64Param(w, r, "pollId")
	if !ok {
		return
	}
	var req retractVoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.RetractVote(r.Context(), callerFrom(r), req.TicketID, pollID)
	if err != nil {
		h.respondDomainError(w, r, "Failed to retract vote", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) ClosePoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.uint64Param(w, r, "pollId")
	if !ok {
		return
	}

	out, err := h.marketplaceService.ClosePoll(r.Context(), callerFrom(r), pollID)
	if err != nil {
		h.respondDomainError(w, r, "Failed to close poll", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetPoll(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.uint64Param(w, r, "pollId")
	if !ok {
		return
	}

	p, err := h.marketplaceService.GetPoll(r.Context(), pollID)
	if err != nil {
		h.respondDomainError(w, r, "Poll not found", err)
		return
	}
	h.respondJSON(w, http.StatusOK, p)
}

func (h *HTTPHandler) GetVotesForOption(w http.ResponseWriter, r *http.Request) {
	pollID, ok := h.uint64Param(w, r, "pollId")
	if !ok {
		return
	}
	optionID, ok := h.uint64Param(w, r, "optionId")
	if !ok {
		return
	}

	votes, err := h.marketplaceService.GetVotesForOption(r.Context(), pollID, optionID)
	if err != nil {
		h.respondDomainError(w, r, "Failed to get votes", err)
		return
	}
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"poll_id":   pollID,
		"option_id": optionID,
		"votes":     votes,
	})
}

// ---- Future concert poll ----

func (h *HTTPHandler) AddConcertOption(w http.ResponseWriter, r *http.Request) {
	var req service.ConcertOptionInput
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.AddConcertOption(r.Context(), callerFrom(r), req)
	if err != nil {
		h.respondDomainError(w, r, "Failed to add concert option", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, out)
}

func (h *HTTPHandler) RegisterToVote(w http.ResponseWriter, r *http.Request) {
	optionID, ok := h.uint64Param(w, r, "optionId")
	if !ok {
		return
	}

	if err := h.marketplaceService.RegisterToVote(r.Context(), callerFrom(r), optionID); err != nil {
		h.respondDomainError(w, r, "Failed to register to vote", err)
		return
	}
	h.respondJSON(w, http.StatusCreated, map[string]string{"message": "Registered to vote"})
}

type castVoteRequest struct {
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

func (h *HTTPHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	optionID, ok := h.uint64Param(w, r, "optionId")
	if !ok {
		return
	}
	var req castVoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.CastVote(r.Context(), callerFrom(r), optionID, req.Amount)
	if err != nil {
		h.respondDomainError(w, r, "Failed to cast vote", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

type withdrawVoteRequest struct {
	Amount uint64 `json:"amount" validate:"gte=0"`
}

func (h *HTTPHandler) WithdrawVoteRegistration(w http.ResponseWriter, r *http.Request) {
	optionID, ok := h.uint64Param(w, r, "optionId")
	if !ok {
		return
	}
	var req withdrawVoteRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	out, err := h.marketplaceService.WithdrawVoteRegistration(r.Context(), callerFrom(r), optionID, req.Amount)
	if err != nil {
		h.respondDomainError(w, r, "Failed to withdraw vote registration", err)
		return
	}
	h.respondJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) GetConcertOption(w http.ResponseWriter, r *http.Request) {
	optionID, ok := h.uint64Param(w, r, "optionId")
	if !ok {
		return
	}

	opt, err := h.marketplaceService.GetConcertOption(r.Context(), optionID)
	if err != nil {
		h.respondDomainError(w, r, "Concert option not found", err)
		return
	}
	h.respondJSON(w, http.StatusOK, opt)
}

// Helper functions

func (h *HTTPHandler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body", err)
		return false
	}
	if err := h.validator.Struct(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func (h *HTTPHandler) uint64Param(w http.ResponseWriter, r *http.Request, name string) (uint64, bool) {
	raw := chi.URLParam(r, name)
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid "+name, err)
		return 0, false
	}
	return v, true
}

// respondDomainError translates the taxonomy kind into a status code and
// keeps the stable reason string in the response body.
func (h *HTTPHandler) respondDomainError(w http.ResponseWriter, r *http.Request, fallback string, err error) {
	switch apperrors.KindOf(err) {
	case apperrors.KindAuthorization:
		h.respondError(w, http.StatusForbidden, err.Error(), err)
	case apperrors.KindValidation:
		h.respondError(w, http.StatusBadRequest, err.Error(), err)
	case apperrors.KindState:
		h.respondError(w, http.StatusConflict, err.Error(), err)
	case apperrors.KindTiming:
		h.respondError(w, http.StatusUnprocessableEntity, err.Error(), err)
	default:
		h.logger.Errorf(r.Context(), "%s: %v", fallback, err)
		h.respondError(w, http.StatusInternalServerError, fallback, err)
	}
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf(context.Background(), "Failed to encode JSON response: %v", err)
	}
}

func (h *HTTPHandler) respondError(w http.ResponseWriter, statusCode int, message string, err error) {
	response := map[string]interface{}{
		"error": message,
		"code":  statusCode,
	}

	if err != nil {
		h.logger.Debugf(context.Background(), "Error response: %s: %v", message, err)
	}

	h.respondJSON(w, statusCode, response)
}
