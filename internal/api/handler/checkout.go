package handler

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/oche-club/dartscore-go/internal/api/response"
	"github.com/oche-club/dartscore-go/internal/services/checkout"
)

// CheckoutHandler serves checkout route advice
type CheckoutHandler struct {
	checkoutService *checkout.Service
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Get handles GET /api/v1/checkouts/{score}
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(mux.Vars(r)["score"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("score must be an integer"))
		return
	}

	data, ok := h.checkoutService.CheckoutFor(score)
	if !ok {
		WriteError(w, NewInvalidRequestError("score must be between 2 and 170"))
		return
	}

	response.JSON(w, http.StatusOK, response.CheckoutFromModel(data))
}

// Routes handles GET /api/v1/checkouts/{score}/routes?darts=2
// Returns the ranked finishes reachable with the darts left in hand
func (h *CheckoutHandler) Routes(w http.ResponseWriter, r *http.Request) {
	score, err := strconv.Atoi(mux.Vars(r)["score"])
	if err != nil {
		WriteError(w, NewInvalidRequestError("score must be an integer"))
		return
	}

	darts := 3
	if v := r.URL.Query().Get("darts"); v != "" {
		darts, err = strconv.Atoi(v)
		if err != nil || darts < 1 || darts > 3 {
			WriteError(w, NewInvalidRequestError("darts must be 1, 2 or 3"))
			return
		}
	}

	if _, ok := h.checkoutService.CheckoutFor(score); !ok {
		WriteError(w, NewInvalidRequestError("score must be between 2 and 170"))
		return
	}

	routes := h.checkoutService.RecommendedFinishes(score, darts)
	out := make([]response.CheckoutRoute, len(routes))
	for i, route := range routes {
		out[i] = response.CheckoutRouteFromModel(route)
	}
	response.JSON(w, http.StatusOK, out)
}

// Impossible handles GET /api/v1/checkouts/impossible
// Returns the bogey numbers that cannot be finished in three darts
func (h *CheckoutHandler) Impossible(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, http.StatusOK, h.checkoutService.ImpossibleCheckouts())
}
