// internal/handler/progress_handler.go
package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	appErrors "github.com/unclebandit/mailblast-backend/internal/errors"
	"github.com/unclebandit/mailblast-backend/internal/model"
	"github.com/unclebandit/mailblast-backend/internal/service"
)

// ProgressHandler serves campaign progress: one-shot snapshots and the live
// SSE stream.
type ProgressHandler struct {
	CampaignService *service.CampaignService
}

// GetSnapshot returns the current progress of a campaign as JSON.
func (h *ProgressHandler) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	snap, err := h.CampaignService.Snapshot(id)
	if err != nil {
		writeErr(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snap)
}

// StreamProgress pushes snapshots over Server-Sent Events until the campaign
// reaches a terminal status. Every update becomes a "progress" event; the
// terminal snapshot is sent as a "complete" event, then the stream ends.
// Disconnecting clients just stop reading; the runner never blocks on them.
func (h *ProgressHandler) StreamProgress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	subID, ch, err := h.CampaignService.Subscribe(id)
	if err != nil {
		writeErr(w, err)
		return
	}
	defer h.CampaignService.Unsubscribe(id, subID)

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	// Kick off with the current state so a late subscriber is not blind
	// until the next send.
	if snap, err := h.CampaignService.Snapshot(id); err == nil {
		writeEvent(w, "progress", snap)
		flusher.Flush()
		if model.IsTerminal(snap.Status) {
			writeEvent(w, "complete", snap)
			flusher.Flush()
			return
		}
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, open := <-ch:
			if !open {
				// channel closed on terminal status; re-read the final state
				// in case the buffered terminal snapshot was dropped
				if final, err := h.CampaignService.Snapshot(id); err == nil {
					writeEvent(w, "complete", final)
					flusher.Flush()
				}
				return
			}
			if model.IsTerminal(snap.Status) {
				// terminal snapshot arrives in-channel just before close
				continue
			}
			writeEvent(w, "progress", snap)
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, event string, snap model.Snapshot) {
	data, err := json.Marshal(snap)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
}

func writeErr(w http.ResponseWriter, err error) {
	var notFound *appErrors.ErrCampaignNotFound
	if errors.As(err, &notFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
