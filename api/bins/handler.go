// Package bins exposes the prediction engine over HTTP:
//
//	GET  /api/predictions            all bin forecasts
//	GET  /api/predictions?bin_id=X   a single bin's forecast
//	GET  /api/schedule               the collection schedule
//	POST /api/observations           record a fill level
package bins

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ecotrack/binsight/core/model"
	"github.com/ecotrack/binsight/core/service"
	"github.com/ecotrack/binsight/core/store"
)

// NewMux returns a ServeMux with all engine routes registered.
func NewMux(svc *service.Service) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/predictions", NewPredictionsHandler(svc))
	mux.Handle("/api/schedule", NewScheduleHandler(svc))
	mux.Handle("/api/observations", NewObservationsHandler(svc))
	return mux
}

// NewPredictionsHandler serves bin fill forecasts via GET /api/predictions.
// With a bin_id query parameter it returns that bin's Prediction; without
// one it returns the whole fleet.
func NewPredictionsHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if binID := r.URL.Query().Get("bin_id"); binID != "" {
			pred, err := svc.PredictOne(r.Context(), binID)
			if err != nil {
				writeError(w, err)
				return
			}
			writeJSON(w, pred)
			return
		}
		preds, err := svc.PredictAll(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, preds)
	})
}

// NewScheduleHandler serves the collection schedule via GET /api/schedule.
func NewScheduleHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		sched, err := svc.CollectionSchedule(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, sched)
	})
}

type observationRequest struct {
	BinID     string  `json:"bin_id"`
	FillLevel float64 `json:"fill_level"`
	Source    string  `json:"source"`
}

// NewObservationsHandler records fill levels via POST /api/observations.
// The source defaults to manual, matching operator entry from the console.
func NewObservationsHandler(svc *service.Service) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req observationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON body", http.StatusBadRequest)
			return
		}
		source, err := model.ParseSource(req.Source)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		obs, err := svc.RecordFillLevel(r.Context(), req.BinID, req.FillLevel, source)
		if err != nil {
			writeError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(obs); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrBinNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, model.ErrInvalidObservation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
