package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smart-spa/internal/audit"
	"github.com/BruksfildServices01/smart-spa/internal/httperr"
	"github.com/BruksfildServices01/smart-spa/internal/httpresp"
	"github.com/BruksfildServices01/smart-spa/internal/models"
)

type AuditLogLister interface {
	List(ctx context.Context, q audit.Query) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLogLister
}

func NewAuditLogsHandler(logs AuditLogLister) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

// GET /api/audit-logs?salon_id=&action=&entity=&from=&to=&page=&limit=
// Admin only. Dates are YYYY-MM-DD.
func (h *AuditLogsHandler) List(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	if !sess.IsAdmin() {
		httperr.Forbidden(c, "forbidden", "Not allowed.")
		return
	}

	q, ok := parseAuditQuery(c)
	if !ok {
		return
	}

	logs, total, err := h.logs.List(c.Request.Context(), q)
	if err != nil {
		httperr.Internal(c, "audit_list_failed", "Failed to list audit logs.")
		return
	}

	q = q.Normalized()
	httpresp.OK(c, gin.H{
		"page":  q.Page,
		"limit": q.Limit,
		"total": total,
		"logs":  logs,
	})
}

func parseAuditQuery(c *gin.Context) (audit.Query, bool) {
	q := audit.Query{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}
	q.Page, _ = strconv.Atoi(c.Query("page"))
	q.Limit, _ = strconv.Atoi(c.Query("limit"))

	if raw := c.Query("salon_id"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			httperr.BadRequest(c, "invalid_salon_id", "Invalid salon_id.")
			return q, false
		}
		id := uint(v)
		q.SalonID = &id
	}

	for name, dst := range map[string]**time.Time{"from": &q.From, "to": &q.To} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		day, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+" date.")
			return q, false
		}
		*dst = &day
	}

	return q, true
}
