package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/dto"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

type ListClientAppointments struct {
	repo domain.Repository
}

func NewListClientAppointments(
	repo domain.Repository,
) *ListClientAppointments {
	return &ListClientAppointments{
		repo: repo,
	}
}

func (uc *ListClientAppointments) Execute(
	ctx context.Context,
	sess session.Session,
	clientID uint,
) ([]dto.AppointmentListDTO, error) {

	if !sess.IsAdmin() && !sess.Owns(clientID) {
		return nil, domain.ErrForbidden
	}

	views, err := uc.repo.ListClientBookingViews(ctx, clientID)
	if err != nil {
		return nil, domain.Persistence("list client appointments", err)
	}

	out := make([]dto.AppointmentListDTO, 0, len(views))
	for _, v := range views {
		out = append(out, dto.AppointmentListDTO{
			ID:          v.ID,
			SalonID:     v.SalonID,
			SalonName:   v.SalonName,
			ServiceName: v.ServiceName,
			MasterName:  v.MasterName,
			StartTime:   v.StartTime,
			EndTime:     v.EndTime,
			Status:      v.DisplayStatus(),
			Cancellable: v.Status.Cancellable(),
		})
	}

	return out, nil
}
