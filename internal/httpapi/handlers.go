package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/ShivanshKaul/ai-task-backend/internal/chat"
	"github.com/ShivanshKaul/ai-task-backend/internal/model"
	"github.com/ShivanshKaul/ai-task-backend/internal/store"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("Backend is running!"))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleTasksCreate(w http.ResponseWriter, r *http.Request) {
	var t model.Task
	if err := decodeJSON(w, r, &t); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	// owner is reserved and always reflects the authenticated caller.
	if id, ok := IdentityFromContext(r.Context()); ok {
		if t.Fields == nil {
			t.Fields = map[string]any{}
		}
		t.Fields["owner"] = id.Username
	}

	created, err := s.store.CreateTask(r.Context(), t)
	if err != nil {
		s.log.Error(r.Context(), "create task failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to create task")
		return
	}

	writeJSON(w, http.StatusOK, created)
}

func (s *Server) handleTasksList(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.ListTasks(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "list tasks failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleTaskComplete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusNotFound, "not_found", "Task not found")
		return
	}

	t, err := s.store.CompleteTask(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "Task not found")
			return
		}
		s.log.Error(r.Context(), "complete task failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to complete task")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply       string           `json:"reply"`
	ChatHistory []model.ChatTurn `json:"chatHistory"`
	Tasks       []model.Task     `json:"tasks"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "invalid json")
		return
	}

	res, err := s.chat.Submit(r.Context(), req.Message)
	if err != nil {
		var uerr *chat.UpstreamError
		if errors.As(err, &uerr) {
			writeError(w, http.StatusInternalServerError, "upstream_error", uerr.Detail())
			return
		}
		s.log.Error(r.Context(), "chat turn failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to run chat turn")
		return
	}

	tasks := res.Tasks
	if tasks == nil {
		tasks = []model.Task{}
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Reply:       res.Reply,
		ChatHistory: res.History,
		Tasks:       tasks,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	history, err := s.chat.History(r.Context())
	if err != nil {
		s.log.Error(r.Context(), "read chat history failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to read chat history")
		return
	}
	if history == nil {
		history = []model.ChatTurn{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"chatHistory": history})
}

func (s *Server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	if err := s.chat.Reset(r.Context()); err != nil {
		s.log.Error(r.Context(), "reset chat failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal", "failed to clear chat history")
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Message: "Chat history cleared."})
}
