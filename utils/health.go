package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

var botStatus atomic.Value

func init() {
	botStatus.Store("starting")
}

// SetBotStatus records the connection state reported by the health endpoints
func SetBotStatus(status string) { botStatus.Store(status) }

// BotStatus returns the last recorded connection state
func BotStatus() string { return botStatus.Load().(string) }

type healthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	BotStatus string `json:"bot_status"`
}

type leaderboardEntry struct {
	Rank     int    `json:"rank"`
	PlayerID string `json:"player_id"`
	Score    int64  `json:"score"`
	Balance  int64  `json:"balance"`
}

// NewHealthRouter serves the platform health checks and a read-only leaderboard
func NewHealthRouter(store AccountStore) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         60 * 15,
	}))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, "Discord Bot Status: %s", BotStatus())
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, healthResponse{
			Status:    "healthy",
			Service:   "discord-bot",
			BotStatus: BotStatus(),
		})
	})

	r.Get("/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		limit := 0
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "limit must be an integer"})
				return
			}
			limit = n
		}

		top, err := Leaderboard(r.Context(), store, limit)
		if err != nil {
			L().Error("leaderboard query failed", zap.Error(err))
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "leaderboard unavailable"})
			return
		}

		entries := make([]leaderboardEntry, 0, len(top))
		for i, acc := range top {
			entries = append(entries, leaderboardEntry{
				Rank:     i + 1,
				PlayerID: strconv.FormatInt(acc.PlayerID, 10),
				Score:    acc.Score,
				Balance:  acc.Balance,
			})
		}
		writeJSON(w, http.StatusOK, entries)
	})

	return r
}

// StartHealthServer runs the router on port until the server is shut down
func StartHealthServer(port string, store AccountStore) *http.Server {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           NewHealthRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		L().Info("health server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			L().Error("health server error", zap.Error(err))
		}
	}()
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		L().Warn("write response failed", zap.Error(err))
	}
}
