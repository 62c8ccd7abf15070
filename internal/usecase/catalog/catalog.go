package catalog

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
)

// Filter narrows the offer list. Empty fields match everything.
type Filter struct {
	City   string
	Search string
}

// Offer is one service on one salon's menu at its effective price.
type Offer struct {
	SalonID     uint            `json:"salon_id"`
	SalonName   string          `json:"salon_name"`
	City        string          `json:"city"`
	Address     string          `json:"address"`
	ServiceID   uint            `json:"service_id"`
	ServiceName string          `json:"service_name"`
	DurationMin int             `json:"duration_min"`
	Price       decimal.Decimal `json:"price"`
}

type Repository interface {
	ListOffers(ctx context.Context, f Filter) ([]Offer, error)
}

type ListOffers struct {
	repo Repository
}

func NewListOffers(repo Repository) *ListOffers {
	return &ListOffers{repo: repo}
}

func (uc *ListOffers) Execute(ctx context.Context, f Filter) ([]Offer, error) {
	f.City = strings.TrimSpace(f.City)
	f.Search = strings.TrimSpace(f.Search)

	offers, err := uc.repo.ListOffers(ctx, f)
	if err != nil {
		return nil, err
	}
	if offers == nil {
		offers = []Offer{}
	}
	return offers, nil
}
