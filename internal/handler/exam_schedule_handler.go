package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campushq/scheduler-api/internal/models"
	"github.com/campushq/scheduler-api/internal/service"
	appErrors "github.com/campushq/scheduler-api/pkg/errors"
	"github.com/campushq/scheduler-api/pkg/response"
)

// ExamScheduleHandler manages exam schedule entry endpoints.
type ExamScheduleHandler struct {
	service *service.ExamScheduleService
}

// NewExamScheduleHandler constructs handler.
func NewExamScheduleHandler(svc *service.ExamScheduleService) *ExamScheduleHandler {
	return &ExamScheduleHandler{service: svc}
}

// ListByExam godoc
// @Summary List schedule entries for an exam
// @Tags Exam Schedule
// @Produce json
// @Param id path string true "Exam ID"
// @Success 200 {object} response.Envelope
// @Router /exams/{id}/entries [get]
func (h *ExamScheduleHandler) ListByExam(c *gin.Context) {
	entries, err := h.service.ListByExam(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Validate godoc
// @Summary Check a candidate exam entry for conflicts without committing
// @Tags Exam Schedule
// @Accept json
// @Produce json
// @Param payload body service.ExamEntryRequest true "Candidate entry"
// @Success 200 {object} response.Envelope
// @Router /exam-entries/validate [post]
func (h *ExamScheduleHandler) Validate(c *gin.Context) {
	var req service.ExamEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	conflicts, err := h.service.Propose(c.Request.Context(), req, c.Query("ignoreId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	if conflicts == nil {
		conflicts = []models.ExamScheduleConflict{}
	}
	response.JSON(c, http.StatusOK, gin.H{"conflicts": conflicts}, nil)
}

// Create godoc
// @Summary Commit an exam schedule entry
// @Tags Exam Schedule
// @Accept json
// @Produce json
// @Param payload body service.ExamEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exam-entries [post]
func (h *ExamScheduleHandler) Create(c *gin.Context) {
	var req service.ExamEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Update godoc
// @Summary Update an exam schedule entry
// @Tags Exam Schedule
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.ExamEntryRequest true "Entry payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /exam-entries/{id} [put]
func (h *ExamScheduleHandler) Update(c *gin.Context) {
	var req service.ExamEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete an exam schedule entry
// @Tags Exam Schedule
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204
// @Router /exam-entries/{id} [delete]
func (h *ExamScheduleHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
