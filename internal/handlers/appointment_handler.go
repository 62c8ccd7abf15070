package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smart-spa/internal/dto"
	"github.com/BruksfildServices01/smart-spa/internal/httperr"
	"github.com/BruksfildServices01/smart-spa/internal/httpresp"
	"github.com/BruksfildServices01/smart-spa/internal/session"
	ucAppointment "github.com/BruksfildServices01/smart-spa/internal/usecase/appointment"
)

// ======================================================
// USE CASE PORTS
// ======================================================

type AppointmentCreator interface {
	Execute(ctx context.Context, sess session.Session, in ucAppointment.CreateAppointmentInput) (uint, error)
}

type AppointmentTransition interface {
	Execute(ctx context.Context, sess session.Session, appointmentID uint) error
}

type ClientAppointmentsLister interface {
	Execute(ctx context.Context, sess session.Session, clientID uint) ([]dto.AppointmentListDTO, error)
}

type ClientCleaner interface {
	Execute(ctx context.Context, sess session.Session, clientID uint) (*ucAppointment.CleanupResult, error)
}

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	create   AppointmentCreator
	cancel   AppointmentTransition
	complete AppointmentTransition
	list     ClientAppointmentsLister
	cleanup  ClientCleaner
}

func NewAppointmentHandler(
	create AppointmentCreator,
	cancel AppointmentTransition,
	complete AppointmentTransition,
	list ClientAppointmentsLister,
	cleanup ClientCleaner,
) *AppointmentHandler {
	return &AppointmentHandler{
		create:   create,
		cancel:   cancel,
		complete: complete,
		list:     list,
		cleanup:  cleanup,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	ClientID  uint `json:"client_id"`
	SalonID   uint `json:"salon_id" binding:"required"`
	MasterID  uint `json:"master_id" binding:"required"`
	ServiceID uint `json:"service_id" binding:"required"`
	SlotID    uint `json:"slot_id" binding:"required"`
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// Clients book for themselves unless told otherwise.
	if req.ClientID == 0 {
		req.ClientID = sess.UserID
	}

	id, err := h.create.Execute(c.Request.Context(), sess, ucAppointment.CreateAppointmentInput{
		ClientID:  req.ClientID,
		SalonID:   req.SalonID,
		MasterID:  req.MasterID,
		ServiceID: req.ServiceID,
		SlotID:    req.SlotID,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.Created(c, gin.H{"id": id})
}

// ======================================================
// CANCEL / COMPLETE
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.transition(c, h.cancel, "cancelled")
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.transition(c, h.complete, "completed")
}

func (h *AppointmentHandler) transition(c *gin.Context, uc AppointmentTransition, status string) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}

	id, ok := uintParam(c, "id")
	if !ok {
		return
	}

	if err := uc.Execute(c.Request.Context(), sess, id); err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"id": id, "status": status})
}

// ======================================================
// LIST
// ======================================================

func (h *AppointmentHandler) ListMine(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	h.listFor(c, sess, sess.UserID)
}

func (h *AppointmentHandler) ListForClient(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	clientID, ok := uintParam(c, "id")
	if !ok {
		return
	}
	h.listFor(c, sess, clientID)
}

func (h *AppointmentHandler) listFor(c *gin.Context, sess session.Session, clientID uint) {
	items, err := h.list.Execute(c.Request.Context(), sess, clientID)
	if err != nil {
		writeError(c, err)
		return
	}
	httpresp.List(c, items)
}

// ======================================================
// CLEANUP
// ======================================================

func (h *AppointmentHandler) CleanupClient(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	clientID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	res, err := h.cleanup.Execute(c.Request.Context(), sess, clientID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, cleanupResponse(res))
}

func cleanupResponse(res *ucAppointment.CleanupResult) gin.H {
	if res == nil {
		return gin.H{}
	}
	return gin.H{
		"client_id":            res.ClientID,
		"cancelled":            res.Cancelled,
		"deleted_appointments": res.DeletedAppointments,
		"deleted_reviews":      res.DeletedReviews,
		"released_slots":       res.ReleasedSlots,
	}
}
