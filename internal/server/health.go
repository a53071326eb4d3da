package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

type (
	pinger interface {
		Ping(ctx context.Context, rp *readpref.ReadPref) error
	}

	// HealthSrvc handles business logic for health check functionality
	HealthSrvc struct {
		db pinger
	}

	// HealthResponse represents the response structure for health check endpoint
	HealthResponse struct {
		Status    string    `json:"status"`
		Timestamp time.Time `json:"timestamp"`
		Database  bool      `json:"database"`
	}
)

func NewHealthSrvc(client *mongo.Client) *HealthSrvc {
	return &HealthSrvc{db: client}
}

func NewHealthHandler(srvc *HealthSrvc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		logger := hlog.FromRequest(r)

		response := srvc.check(ctx)

		w.Header().Set("Content-Type", "application/json")

		if response.Database {
			logger.Debug().Msg("Database healthcheck ok")
			w.WriteHeader(http.StatusOK)
		} else {
			logger.Error().Msg("Database healthcheck failed")
			w.WriteHeader(http.StatusServiceUnavailable)
		}

		if err := json.NewEncoder(w).Encode(response); err != nil {
			logger.Error().Err(err).Msg("Failed to encode health check response")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}
	}
}

func (s *HealthSrvc) check(ctx context.Context) HealthResponse {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := s.db.Ping(pingCtx, readpref.Primary())

	now := time.Now().UTC()

	if err != nil {
		return HealthResponse{
			Status:    "not serving",
			Timestamp: now,
			Database:  false,
		}
	}
	return HealthResponse{
		Status:    "serving",
		Timestamp: now,
		Database:  true,
	}
}
