package api

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"callminder/internal/model"
	"callminder/internal/store"
	"callminder/internal/timeparse"
)

const listLimit = 100

type addTaskRequest struct {
	Title string `json:"title" validate:"required"`
	Time  string `json:"time"  validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Name  string `json:"name"`
}

type taskResponse struct {
	TaskID string `json:"task_id"`
	Title  string `json:"title"`
	Time   string `json:"time"`
	Phone  string `json:"phone"`
	Name   string `json:"name"`
	Status string `json:"status"`
}

func (s *Server) handleAddTask(w http.ResponseWriter, r *http.Request) {
	var req addTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Time = strings.TrimSpace(req.Time)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Name = strings.TrimSpace(req.Name)

	if err := s.validate.Struct(req); err != nil {
		s.writeError(w, http.StatusBadRequest, "title, time and phone are required")
		return
	}

	dueTime, err := timeparse.Parse(req.Time, time.Now(), s.cfg.Timezone)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "time is not a recognizable date/time")
		return
	}

	id, err := s.store.Insert(r.Context(), store.NewTask{
		Title:   req.Title,
		DueTime: dueTime,
		Phone:   req.Phone,
		Name:    req.Name,
	})
	if err != nil {
		s.log.WithError(err).Error("insert task")
		s.writeError(w, http.StatusInternalServerError, "could not save the task")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"task_id": id})
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.store.List(r.Context(), listLimit)
	if err != nil {
		s.log.WithError(err).Error("list tasks")
		s.writeError(w, http.StatusInternalServerError, "could not list tasks")
		return
	}

	payload := make([]taskResponse, 0, len(tasks))
	for _, task := range tasks {
		payload = append(payload, toTaskResponse(task, s.cfg.Timezone))
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func toTaskResponse(task model.Task, loc *time.Location) taskResponse {
	return taskResponse{
		TaskID: task.ID,
		Title:  task.Title,
		Time:   task.DueTime.In(loc).Format(time.RFC3339),
		Phone:  task.Phone,
		Name:   task.Name,
		Status: string(task.Status),
	}
}
