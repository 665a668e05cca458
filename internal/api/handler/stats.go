package handler

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/oche-club/dartscore-go/internal/api/response"
	"github.com/oche-club/dartscore-go/internal/model"
	"github.com/oche-club/dartscore-go/internal/services/stats"
	"github.com/oche-club/dartscore-go/internal/storage"
)

// StatsHandler serves aggregated player statistics
type StatsHandler struct {
	statsService *stats.Service
	storage      storage.Storage
}

// NewStatsHandler creates a new stats handler
func NewStatsHandler(statsService *stats.Service, store storage.Storage) *StatsHandler {
	return &StatsHandler{
		statsService: statsService,
		storage:      store,
	}
}

// PlayerStats handles GET /api/v1/players/{player_id}/stats
// Returns season aggregates, form guide and the per-game records they
// are computed from
func (h *StatsHandler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	playerID := model.PlayerID(mux.Vars(r)["player_id"])

	stored, err := h.storage.GetStatsForPlayer(r.Context(), playerID)
	if err != nil {
		WriteError(w, err)
		return
	}
	if len(stored) == 0 {
		WriteError(w, model.ErrStatsNotFound)
		return
	}

	games := make([]model.PlayerGameStats, len(stored))
	gamesOut := make([]response.PlayerGameStats, len(stored))
	for i, g := range stored {
		games[i] = *g
		gamesOut[i] = response.PlayerGameStatsFromModel(g)
	}

	response.JSON(w, http.StatusOK, response.PlayerStats{
		PlayerID: string(playerID),
		Season:   response.SeasonStatsFromModel(h.statsService.SeasonStats(games)),
		Form:     response.FormGuideFromModel(h.statsService.FormGuide(games)),
		Games:    gamesOut,
	})
}
