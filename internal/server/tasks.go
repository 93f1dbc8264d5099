package server

import (
	"net/http"
	"strconv"

	"github.com/Aidin1998/taskapi/api/responses"
	"github.com/Aidin1998/taskapi/internal/tasks"
	"github.com/Aidin1998/taskapi/pkg/errors"
	"github.com/Aidin1998/taskapi/pkg/models"
	"github.com/Aidin1998/taskapi/pkg/validation"
	"github.com/gin-gonic/gin"
)

const taskNotFound = "Task not found"

// handleListTasks returns every task, most recently created first
func (s *Server) handleListTasks(c *gin.Context) {
	list, err := s.tasksSvc.List(c.Request.Context())
	if err != nil {
		responses.Error(c, err, taskNotFound)
		return
	}
	responses.Success(c, models.Views(list))
}

// handleCreateTask validates and stores a new task
func (s *Server) handleCreateTask(c *gin.Context) {
	req, ok := s.bindTaskRequest(c, s.validator.ValidateCreate)
	if !ok {
		return
	}

	in := tasks.CreateInput{
		Title:       *req.Title,
		Description: req.Description,
	}
	if req.Completed != nil {
		in.Completed = *req.Completed
	}

	task, err := s.tasksSvc.Create(c.Request.Context(), in)
	if err != nil {
		responses.Error(c, err, taskNotFound)
		return
	}
	responses.Created(c, task.View(), "Task created successfully")
}

// handleGetTask returns a single task
func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := s.tasksSvc.Get(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err, taskNotFound)
		return
	}
	responses.Success(c, task.View())
}

// handleUpdateTask serves both PUT and PATCH: only supplied fields change
func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	// Unknown ids are reported as 404 before the body is looked at
	if _, err := s.tasksSvc.Get(c.Request.Context(), id); err != nil {
		responses.Error(c, err, taskNotFound)
		return
	}

	req, ok := s.bindTaskRequest(c, s.validator.ValidateUpdate)
	if !ok {
		return
	}

	in := tasks.UpdateInput{
		Title:          req.Title,
		Description:    req.Description,
		SetDescription: req.Has(validation.FieldDescription),
		Completed:      req.Completed,
	}

	task, err := s.tasksSvc.Update(c.Request.Context(), id, in)
	if err != nil {
		responses.Error(c, err, taskNotFound)
		return
	}
	responses.Success(c, task.View(), "Task updated successfully")
}

// handleDeleteTask removes a task
func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	if err := s.tasksSvc.Delete(c.Request.Context(), id); err != nil {
		responses.Error(c, err, taskNotFound)
		return
	}
	responses.Message(c, "Task deleted successfully")
}

// bindTaskRequest decodes the body and applies rules, writing the error response itself.
func (s *Server) bindTaskRequest(c *gin.Context, rules func(*validation.TaskRequest) error) (*validation.TaskRequest, bool) {
	body, err := c.GetRawData()
	if err != nil {
		responses.BadRequest(c, "Unable to read request body")
		return nil, false
	}

	req, decodeErr := validation.ParseTaskRequest(body)
	if decodeErr != nil && errors.StatusOf(decodeErr) != http.StatusUnprocessableEntity {
		responses.Error(c, decodeErr, taskNotFound)
		return nil, false
	}

	if err := validation.Merge(decodeErr, rules(req)); err != nil {
		responses.Error(c, err, taskNotFound)
		return nil, false
	}
	return req, true
}

// taskID parses the :id path parameter. Anything that is not a positive integer cannot name a
// task, so it is answered with 404 like any other unknown identifier.
func taskID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		responses.NotFound(c, taskNotFound)
		return 0, false
	}
	return uint(id), true
}
