package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"metas/internal/controller"
	"metas/internal/ctxkeys"
	"metas/internal/model"
	"metas/internal/repository"
	"metas/internal/session"
	"metas/internal/validation"
)

type GoalHandler struct {
	repo      repository.GoalRepository
	jwtSecret string
}

func NewGoalHandler(repo repository.GoalRepository, jwtSecret string) *GoalHandler {
	return &GoalHandler{
		repo:      repo,
		jwtSecret: jwtSecret,
	}
}

// gate builds a session gate scoped to the request. The identity was
// verified by the auth middleware and cannot change within the request.
func (h *GoalHandler) gate(r *http.Request) *session.Gate {
	return session.NewGate(session.Static(ctxkeys.Identity(r.Context())), nil)
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	gate := h.gate(r)
	defer gate.Close()

	list, err := controller.NewList(gate, h.repo, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	defer list.Close()

	writeJSON(w, http.StatusOK, list.Goals())
}

// Stream pushes the session owner's filtered collection as a server-sent
// event per remote change, for as long as the session and connection last.
func (h *GoalHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	provider, err := session.NewTokenProvider(ctxkeys.Token(r.Context()), h.jwtSecret)
	if err != nil {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Session loss ends the stream, the HTTP analogue of navigating away.
	gate := session.NewGate(provider, cancel)
	defer gate.Close()

	snapshots := make(chan map[string]model.Goal, 16)
	list, err := controller.NewList(gate, h.repo, func(goals map[string]model.Goal) {
		// Runs on the store's delivery path and must not block. Each
		// snapshot is complete, so a slow client may skip intermediates
		// as long as it sees the newest.
		for {
			select {
			case snapshots <- goals:
				return
			default:
				select {
				case <-snapshots:
				default:
				}
			}
		}
	})
	if err != nil {
		writeError(w, err)
		return
	}
	defer list.Close()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	for {
		select {
		case <-ctx.Done():
			return
		case goals := <-snapshots:
			data, err := json.Marshal(goals)
			if err != nil {
				slog.Error("failed to encode snapshot", "error", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	gate := h.gate(r)
	defer gate.Close()

	var fields model.Goal
	err := json.NewDecoder(r.Body).Decode(&fields)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	create := controller.NewCreate(gate, h.repo)
	create.SetDraft(fields)

	key, err := create.Submit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"id": key})
}

func (h *GoalHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	edit := controller.NewEdit(h.repo, id)
	defer edit.Close()

	goal := edit.Draft()
	if !goal.IsZero() && goal.OwnerID != ctxkeys.Identity(r.Context()) {
		http.Error(w, "goal not found", http.StatusNotFound)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	edit := controller.NewEdit(h.repo, id)
	defer edit.Close()

	current := edit.Draft()
	if current.IsZero() || current.OwnerID != ctxkeys.Identity(r.Context()) {
		http.Error(w, "goal not found", http.StatusNotFound)
		return
	}

	var fields model.Goal
	err := json.NewDecoder(r.Body).Decode(&fields)
	if err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	edit.SetDraft(fields)

	err = edit.Submit(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	gate := h.gate(r)
	defer gate.Close()

	list, err := controller.NewList(gate, h.repo, nil)
	if err != nil {
		writeError(w, err)
		return
	}
	defer list.Close()

	// Ids outside the owner's filtered mapping are invisible here, so
	// deleting one reduces to a no-op rather than touching foreign records.
	if _, ok := list.Goals()[id]; !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	err = list.Remove(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	var violations validation.Violations
	switch {
	case errors.As(err, &violations):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{"errors": violations})
	case errors.Is(err, controller.ErrMissingIdentity):
		http.Error(w, "authentication required", http.StatusUnauthorized)
	case errors.Is(err, repository.ErrStoreWrite):
		slog.Error("store write failed", "error", err)
		http.Error(w, "store write failed", http.StatusBadGateway)
	default:
		slog.Error("request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
