package repository

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/smart-spa/internal/models"
	"github.com/BruksfildServices01/smart-spa/internal/usecase/catalog"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func inCity(city string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if city == "" {
			return db
		}
		return db.Where("LOWER(sa.city) = LOWER(?)", city)
	}
}

func matching(search string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if search == "" {
			return db
		}
		pattern := "%" + likeEscaper.Replace(search) + "%"
		return db.Where("(sv.name ILIKE ? OR sa.name ILIKE ?)", pattern, pattern)
	}
}

func (r *CatalogGormRepository) ListOffers(
	ctx context.Context,
	f catalog.Filter,
) ([]catalog.Offer, error) {

	type offerRow struct {
		SalonID     uint
		SalonName   string
		City        string
		Address     string
		ServiceID   uint
		ServiceName string
		DurationMin int
		BasePrice   decimal.Decimal
		Override    decimal.NullDecimal
	}

	var rows []offerRow
	if err := r.db.WithContext(ctx).
		Table("salon_services AS ss").
		Select(`sa.id AS salon_id, sa.name AS salon_name, sa.city, sa.address,
			sv.id AS service_id, sv.name AS service_name, sv.duration_min,
			sv.base_price, ss.price AS override`).
		Joins("JOIN salons sa ON sa.id = ss.salon_id").
		Joins("JOIN services sv ON sv.id = ss.service_id").
		Scopes(inCity(f.City), matching(f.Search)).
		Order("sa.city ASC, sa.name ASC, sv.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	offers := make([]catalog.Offer, 0, len(rows))
	for _, row := range rows {
		offers = append(offers, catalog.Offer{
			SalonID:     row.SalonID,
			SalonName:   row.SalonName,
			City:        row.City,
			Address:     row.Address,
			ServiceID:   row.ServiceID,
			ServiceName: row.ServiceName,
			DurationMin: row.DurationMin,
			Price:       models.EffectivePrice(row.BasePrice, row.Override),
		})
	}
	return offers, nil
}

var _ catalog.Repository = (*CatalogGormRepository)(nil)
