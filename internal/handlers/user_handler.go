package handlers

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/smart-spa/internal/httpresp"
	"github.com/BruksfildServices01/smart-spa/internal/session"
	ucAppointment "github.com/BruksfildServices01/smart-spa/internal/usecase/appointment"
)

type UserDeleter interface {
	Execute(ctx context.Context, sess session.Session, userID uint) (*ucAppointment.CleanupResult, error)
}

type UserHandler struct {
	deleteUser UserDeleter
}

func NewUserHandler(deleteUser UserDeleter) *UserHandler {
	return &UserHandler{deleteUser: deleteUser}
}

// DELETE /api/users/:id
func (h *UserHandler) Delete(c *gin.Context) {
	sess, ok := currentSession(c)
	if !ok {
		return
	}
	userID, ok := uintParam(c, "id")
	if !ok {
		return
	}

	res, err := h.deleteUser.Execute(c.Request.Context(), sess, userID)
	if err != nil {
		writeError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"deleted": userID,
		"cleanup": cleanupResponse(res),
	})
}
