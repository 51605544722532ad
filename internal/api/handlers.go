package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/pbaille/wellkit/internal/domain"
	"github.com/pbaille/wellkit/internal/insights"
	"github.com/pbaille/wellkit/internal/journal"
	"github.com/pbaille/wellkit/internal/streak"
)

const prefTimezone = "timezone"

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func queryInt(r *http.Request, name string, def int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			return n
		}
	}
	return def
}

// Journals

func (s *Server) addJournal(w http.ResponseWriter, r *http.Request) {
	var req journal.SaveRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	saved, err := s.Journals.Save(r.Context(), ownerOf(r), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func (s *Server) listJournals(w http.ResponseWriter, r *http.Request) {
	limit := queryInt(r, "limit", 20)
	offset := queryInt(r, "offset", 0)

	entries, err := s.Journals.List(r.Context(), ownerOf(r), limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
		"limit":   limit,
		"offset":  offset,
	})
}

func (s *Server) deleteJournal(w http.ResponseWriter, r *http.Request) {
	if err := s.Journals.Delete(r.Context(), ownerOf(r), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Moods

// LogMoodRequest is a manual mood check-in
type LogMoodRequest struct {
	Label string `json:"label"`
	Note  string `json:"note,omitempty"`
}

func (s *Server) logMood(w http.ResponseWriter, r *http.Request) {
	var req LogMoodRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	label, err := domain.ParseMoodLabel(req.Label)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	m, err := s.Journals.LogMood(r.Context(), ownerOf(r), label, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) listMoods(w http.ResponseWriter, r *http.Request) {
	moods, err := s.Store.ListMoods(r.Context(), ownerOf(r), queryInt(r, "limit", 50))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"moods": moods})
}

func (s *Server) deleteMood(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteMood(r.Context(), ownerOf(r), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) moodTrend(w http.ResponseWriter, r *http.Request) {
	report, err := s.Insights.Trend(r.Context(), ownerOf(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) moodStats(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	history, err := s.Insights.History(r.Context(), owner)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	today, loc := s.today(r.Context(), owner)
	writeJSON(w, http.StatusOK, insights.Summarize(history, today, loc))
}

// Todos

// TodoRequest creates a to-do or updates its done flag
type TodoRequest struct {
	Text string `json:"text,omitempty"`
	Done *bool  `json:"done,omitempty"`
}

func (s *Server) addTodo(w http.ResponseWriter, r *http.Request) {
	var req TodoRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	todo, err := s.Store.AddTodo(r.Context(), ownerOf(r), text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.Store.ListTodos(r.Context(), ownerOf(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"todos": todos})
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request) {
	var req TodoRequest
	if err := decodeBody(r, &req); err != nil || req.Done == nil {
		writeError(w, http.StatusBadRequest, "done is required")
		return
	}

	id := r.PathValue("id")
	if err := s.Store.SetTodoDone(r.Context(), ownerOf(r), id, *req.Done); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"id": id, "done": *req.Done})
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.DeleteTodo(r.Context(), ownerOf(r), r.PathValue("id")); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Streak

// StreakView is the ledger plus the values a client renders with it
type StreakView struct {
	domain.DailyActivityState
	Done      int      `json:"done"`
	Percent   int      `json:"percent"`
	Missing   []string `json:"missing"`
	Milestone string   `json:"milestone"`
}

func newStreakView(st domain.DailyActivityState) StreakView {
	done, percent := streak.Progress(st.Today)
	return StreakView{
		DailyActivityState: st,
		Done:               done,
		Percent:            percent,
		Missing:            streak.Missing(st.Today),
		Milestone:          streak.Milestone(st.CurrentStreak),
	}
}

func (s *Server) getStreak(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	today, _ := s.today(r.Context(), owner)
	st, err := s.Ledger.Get(r.Context(), owner, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStreakView(st))
}

func (s *Server) toggleActivity(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	today, _ := s.today(r.Context(), owner)
	st, err := s.Ledger.Toggle(r.Context(), owner, domain.Activity(r.PathValue("kind")), today)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStreakView(st))
}

func (s *Server) syncStreak(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	today, loc := s.today(r.Context(), owner)
	st, err := s.Ledger.Sync(r.Context(), owner, today, loc)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStreakView(st))
}

func (s *Server) completeDay(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	today, loc := s.today(r.Context(), owner)
	// pick up anything recorded since the client last synced
	if _, err := s.Ledger.Sync(r.Context(), owner, today, loc); err != nil {
		writeServiceError(w, err)
		return
	}
	st, err := s.Ledger.Complete(r.Context(), owner, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newStreakView(st))
}

// Daily prompts and preferences

func (s *Server) daily(w http.ResponseWriter, r *http.Request) {
	owner := ownerOf(r)
	today, _ := s.today(r.Context(), owner)
	d, err := s.Prompts.Today(r.Context(), owner, today)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// PreferenceRequest sets one preference value
type PreferenceRequest struct {
	Value string `json:"value"`
}

func (s *Server) getPreference(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")
	v, err := s.Store.GetPreference(r.Context(), ownerOf(r), key)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": v})
}

func (s *Server) setPreference(w http.ResponseWriter, r *http.Request) {
	var req PreferenceRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	key := r.PathValue("key")
	if key == prefTimezone {
		if _, err := time.LoadLocation(req.Value); err != nil || req.Value == "" {
			writeError(w, http.StatusBadRequest, "unknown timezone")
			return
		}
	}

	if err := s.Store.SetPreference(r.Context(), ownerOf(r), key, req.Value); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"key": key, "value": req.Value})
}

// ClassifyRequest is free text to analyze without storing it
type ClassifyRequest struct {
	Text string `json:"text"`
}

func (s *Server) classify(w http.ResponseWriter, r *http.Request) {
	var req ClassifyRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	writeJSON(w, http.StatusOK, s.Classifier.Classify(r.Context(), req.Text))
}
