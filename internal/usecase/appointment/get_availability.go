package appointment

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/models"
)

type GetAvailability struct {
	repo         domain.Repository
	effects      Effects
	defaultLimit int
}

func NewGetAvailability(
	repo domain.Repository,
	effects Effects,
	defaultLimit int,
) *GetAvailability {
	if defaultLimit <= 0 {
		defaultLimit = domain.DefaultAvailabilityLimit
	}
	return &GetAvailability{
		repo:         repo,
		effects:      effects,
		defaultLimit: defaultLimit,
	}
}

// Execute lists bookable slots. Having nothing to offer is an empty slice,
// never an error.
func (uc *GetAvailability) Execute(
	ctx context.Context,
	q domain.SlotQuery,
) ([]domain.AvailableSlot, error) {

	if q.Limit <= 0 {
		q.Limit = uc.defaultLimit
	}

	var version int64
	if uc.effects.Cache != nil {
		cached, v, ok := uc.effects.Cache.Get(ctx, q)
		if ok {
			return cached, nil
		}
		version = v
	}

	var price *decimal.Decimal
	if q.ServiceID != nil {
		ss, err := uc.repo.GetSalonService(ctx, q.SalonID, *q.ServiceID)
		if errors.Is(err, domain.ErrNoRows) {
			return []domain.AvailableSlot{}, nil
		}
		if err != nil {
			return nil, domain.Persistence("get salon service", err)
		}
		p := models.EffectivePrice(ss.Service.BasePrice, ss.Price)
		price = &p
	}

	slots, err := uc.repo.ListAvailableSlots(ctx, q, uc.effects.now())
	if err != nil {
		return nil, domain.Persistence("list available slots", err)
	}
	if slots == nil {
		slots = []domain.AvailableSlot{}
	}

	for i := range slots {
		slots[i].Price = price
	}

	if uc.effects.Cache != nil {
		uc.effects.Cache.Set(ctx, q, version, slots)
	}

	return slots, nil
}
