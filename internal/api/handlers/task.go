package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mpetrov/taskhub/internal/api/middleware"
	"github.com/mpetrov/taskhub/internal/domain"
	"github.com/mpetrov/taskhub/internal/repository"
	"github.com/mpetrov/taskhub/internal/service"
)

const (
	defaultTaskLimit = 50
	maxTaskLimit     = 100
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	DueDate     *time.Time `json:"dueDate"`
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	task, err := h.taskService.Create(r.Context(), user, service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.TaskPriority(req.Priority),
		DueDate:     req.DueDate,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, task)
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	filter := repository.TaskFilter{Limit: defaultTaskLimit}

	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.TaskStatus(s)
		filter.Status = &status
	}
	if p := r.URL.Query().Get("priority"); p != "" {
		priority := domain.TaskPriority(p)
		filter.Priority = &priority
	}
	if l := r.URL.Query().Get("limit"); l != "" {
		if limit, err := strconv.Atoi(l); err == nil && limit > 0 {
			filter.Limit = min(limit, maxTaskLimit)
		}
	}
	if o := r.URL.Query().Get("offset"); o != "" {
		if offset, err := strconv.Atoi(o); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}

	tasks, err := h.taskService.List(r.Context(), user, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if tasks == nil {
		tasks = []*domain.Task{}
	}
	writeJSON(w, http.StatusOK, map[string][]*domain.Task{"tasks": tasks})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.requestContext(w, r)
	if !ok {
		return
	}

	task, err := h.taskService.Get(r.Context(), user, taskID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.requestContext(w, r)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	input := service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
	}
	if req.Status != nil {
		status := domain.TaskStatus(*req.Status)
		input.Status = &status
	}
	if req.Priority != nil {
		priority := domain.TaskPriority(*req.Priority)
		input.Priority = &priority
	}

	task, err := h.taskService.Update(r.Context(), user, taskID, input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, task)
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, taskID, ok := h.requestContext(w, r)
	if !ok {
		return
	}

	if err := h.taskService.Delete(r.Context(), user, taskID); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// requestContext resolves the authenticated user and the task ID from the
// URL. A malformed ID cannot name an existing task, so it is reported as
// not found, same as a foreign task.
func (h *TaskHandler) requestContext(w http.ResponseWriter, r *http.Request) (*domain.User, uuid.UUID, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return nil, uuid.Nil, false
	}

	taskID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "task not found")
		return nil, uuid.Nil, false
	}

	return user, taskID, true
}
