package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"taskpilot/internal/breakdown"
	"taskpilot/internal/planner"
	"taskpilot/pkg/models"
)

// titleRequest carries the single title field shared by POST /breakdown
// and POST /tasks.
type titleRequest struct {
	Title string `json:"title"`
}

// handleBreakdown decomposes a title into subtasks without touching the
// store. The extraction pipeline guarantees a well-formed, bounded
// response no matter what the model returned.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid 'title' provided")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		s.writeError(w, http.StatusBadRequest, "Invalid 'title' provided")
		return
	}

	subtasks, err := s.breaker.Subtasks(r.Context(), strings.TrimSpace(req.Title))
	if err != nil {
		s.log.Errorw("breakdown endpoint failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to generate subtasks")
		return
	}
	if subtasks == nil {
		subtasks = []string{}
	}

	s.writeJSON(w, http.StatusOK, map[string][]string{"subtasks": subtasks})
}

// planRequest is the POST /plan body. Tasks is kept raw so that a
// missing or non-array value can be rejected with a 400 before decoding.
type planRequest struct {
	Tasks    json.RawMessage `json:"tasks"`
	NowISO   string          `json:"nowISO"`
	TimeZone string          `json:"timeZone"`
	Locale   string          `json:"locale"`
}

// handlePlanDay builds a day plan from the caller-supplied task list.
// The endpoint is stateless: it does not read or mutate the store.
func (s *Server) handlePlanDay(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid 'tasks' provided")
		return
	}

	trimmed := bytes.TrimSpace(req.Tasks)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		s.writeError(w, http.StatusBadRequest, "Invalid 'tasks' provided")
		return
	}
	var tasks []models.Task
	if err := json.Unmarshal(trimmed, &tasks); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid 'tasks' provided")
		return
	}

	now := time.Time{}
	if req.NowISO != "" {
		if parsed, err := time.Parse(time.RFC3339, req.NowISO); err == nil {
			now = parsed
		}
	}

	prompt := planner.BuildPrompt(planner.Request{
		Tasks:    tasks,
		Now:      now,
		TimeZone: req.TimeZone,
		Locale:   req.Locale,
	})

	text, err := s.generator.Generate(r.Context(), prompt)
	if err != nil {
		s.log.Errorw("plan endpoint failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to generate plan")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"plan": text})
}

// handleListTasks returns all stored tasks, newest first.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks := s.store.List()
	if tasks == nil {
		tasks = []models.Task{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]models.Task{"tasks": tasks})
}

// handleCreateTask adds a root task.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req titleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid 'title' provided")
		return
	}

	task := s.store.Add(req.Title)
	if task == nil {
		s.writeError(w, http.StatusBadRequest, "Invalid 'title' provided")
		return
	}
	s.writeJSON(w, http.StatusCreated, task)
}

// handleToggleTask flips the completed flag on one task.
func (s *Server) handleToggleTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["taskID"]
	if !s.store.Toggle(id) {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, s.store.Get(id))
}

// handleDeleteTask removes a task and its subtasks.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["taskID"]
	removed := s.store.Delete(id)
	if removed == 0 {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

// handleBreakTask runs the breakdown flow against a stored task and
// applies the extracted batch.
func (s *Server) handleBreakTask(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["taskID"]

	task := s.store.Get(id)
	if task == nil {
		s.writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if !task.IsRoot() {
		s.writeError(w, http.StatusBadRequest, "Only root tasks can be broken down")
		return
	}

	subtasks, err := s.breaker.Break(r.Context(), id)
	switch {
	case errors.Is(err, breakdown.ErrInFlight):
		s.writeError(w, http.StatusConflict, err.Error())
		return
	case err != nil:
		s.log.Errorw("task breakdown failed", "task", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Failed to generate subtasks")
		return
	}

	if subtasks == nil {
		subtasks = []models.Task{}
	}
	s.writeJSON(w, http.StatusOK, map[string][]models.Task{"subtasks": subtasks})
}

// handleGetPlan returns the saved plan artifact.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	plan := s.store.Plan()
	if plan == nil {
		s.writeError(w, http.StatusNotFound, "No plan saved")
		return
	}
	s.writeJSON(w, http.StatusOK, plan)
}

// handleClearPlan removes the saved plan artifact.
func (s *Server) handleClearPlan(w http.ResponseWriter, r *http.Request) {
	s.store.ClearPlan()
	w.WriteHeader(http.StatusNoContent)
}
