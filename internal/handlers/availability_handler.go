package handlers

import (
	"context"
	"strconv"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/httperr"
	"github.com/BruksfildServices01/smart-spa/internal/httpresp"
	"github.com/BruksfildServices01/smart-spa/internal/models"
	"github.com/BruksfildServices01/smart-spa/internal/session"
	ucAppointment "github.com/BruksfildServices01/smart-spa/internal/usecase/appointment"
)

type AvailabilityFinder interface {
	Execute(ctx context.Context, q domain.SlotQuery) ([]domain.AvailableSlot, error)
}

type SlotCreator interface {
	Execute(ctx context.Context, sess session.Session, in ucAppointment.CreateSlotInput) (*models.ScheduleSlot, error)
}

type AvailabilityHandler struct {
	find       AvailabilityFinder
	createSlot SlotCreator
}

func NewAvailabilityHandler(find AvailabilityFinder, createSlot SlotCreator) *AvailabilityHandler {
	return &AvailabilityHandler{find: find, createSlot: createSlot}
}

// GET /api/salons/:id/availability?service_id=&limit=
func (h *AvailabilityHandler) List(c *gin.Context) {
	salonID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	q := domain.SlotQuery{SalonID: salonID}

	if raw := c.Query("service_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || v == 0 {
			httperr.BadRequest(c, "invalid_service_id", "Invalid service_id.")
			return
		}
		serviceID := uint(v)
		q.ServiceID = &serviceID
	}

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit <= 0 || limit > 200 {
			httperr.BadRequest(c, "invalid_limit", "Invalid limit.")
			return
		}
		q.Limit = limit
	}

	slots, err := h.find.Execute(c.Request.Context(), q)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.List(c, slots)
}

type CreateSlotRequest struct {
	MasterID    uint   `json:"master_id" binding:"required"`
	Date        string `json:"date" binding:"required"` // YYYY-MM-DD
	Time        string `json:"time" binding:"required"` // HH:mm
	DurationMin int    `json:"duration_min" binding:"required"`
}

// POST /api/salons/:id/slots
func (h *AvailabilityHandler) CreateSlot(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	salonID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	var req CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	slot, err := h.createSlot.Execute(c.Request.Context(), sess, ucAppointment.CreateSlotInput{
		SalonID:     salonID,
		MasterID:    req.MasterID,
		Date:        req.Date,
		Time:        req.Time,
		DurationMin: req.DurationMin,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, slot)
}
