package handlers

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smart-spa/internal/httperr"
	"github.com/BruksfildServices01/smart-spa/internal/middleware"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

type errorReply struct {
	status  int
	message string
}

var businessReplies = map[string]errorReply{
	"slot_unavailable":      {http.StatusConflict, "The slot is already booked or has passed."},
	"invalid_state":         {http.StatusConflict, "The appointment cannot change to that status."},
	"referential_mismatch":  {http.StatusUnprocessableEntity, "Salon, master, service and slot do not match."},
	"invalid_slot":          {http.StatusUnprocessableEntity, "The slot time is invalid."},
	"appointment_not_found": {http.StatusNotFound, "Appointment not found."},
	"user_not_found":        {http.StatusNotFound, "User not found."},
	"forbidden":             {http.StatusForbidden, "Not allowed."},
	"cannot_delete_self":    {http.StatusBadRequest, "You cannot delete your own account."},
}

// writeError maps allocator errors to HTTP responses. Persistence failures
// and anything unrecognised are logged and answered with 500.
func writeError(c *gin.Context, err error) {
	if code, ok := httperr.CodeOf(err); ok {
		if reply, known := businessReplies[code]; known {
			httperr.Write(c, reply.status, code, reply.message)
			return
		}
	}

	log.Printf("[HTTP] %s %s: %v", c.Request.Method, c.FullPath(), err)
	httperr.Internal(c, "persistence_failure", "Internal error.")
}

func currentSession(c *gin.Context) (session.Session, bool) {
	sess, ok := middleware.SessionFrom(c)
	if !ok {
		httperr.Unauthorized(c, "unauthenticated", "Authentication required.")
	}
	return sess, ok
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || v == 0 {
		httperr.BadRequest(c, "invalid_"+name, "Invalid "+name+".")
		return 0, false
	}
	return uint(v), true
}
