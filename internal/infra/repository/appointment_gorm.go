package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/httperr"
	"github.com/BruksfildServices01/smart-spa/internal/models"
)

type AppointmentGormRepository struct {
	db     *gorm.DB
	layout statusLayout
}

// NewAppointmentGormRepository inspects the appointments table once and
// fails when it has no status column the allocator can write.
func NewAppointmentGormRepository(db *gorm.DB) (*AppointmentGormRepository, error) {
	layout, err := detectStatusLayout(db)
	if err != nil {
		return nil, err
	}
	return &AppointmentGormRepository{db: db, layout: layout}, nil
}

func (r *AppointmentGormRepository) Transaction(
	ctx context.Context,
	fn func(tx domain.Repository) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&AppointmentGormRepository{db: tx, layout: r.layout})
	})
}

func noRows(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrNoRows
	}
	return err
}

// bookingRow is the scan target of every appointment read.
type bookingRow struct {
	ID        uint
	ClientID  uint
	SalonID   uint
	MasterID  uint
	ServiceID uint
	SlotID    uint
	RawStatus string
	StatusRef *int64
}

func (r *AppointmentGormRepository) toDomain(b bookingRow) domain.Booking {
	return domain.Booking{
		ID:        b.ID,
		ClientID:  b.ClientID,
		SalonID:   b.SalonID,
		MasterID:  b.MasterID,
		ServiceID: b.ServiceID,
		SlotID:    b.SlotID,
		Status:    r.layout.statusOf(b.RawStatus, b.StatusRef),
		RawStatus: strings.TrimSpace(b.RawStatus),
	}
}

func (r *AppointmentGormRepository) bookingSelect() string {
	return "a.id, a.client_id, a.salon_id, a.master_id, a.service_id, a.slot_id, " +
		r.layout.readExpr + " AS raw_status" + r.layout.refSelect()
}

func (r *AppointmentGormRepository) appointments(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table(appointmentsTable + " AS a").
		Scopes(r.layout.joinScope)
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *AppointmentGormRepository) LockUser(
	ctx context.Context,
	id uint,
	mode domain.LockMode,
) (*models.User, error) {

	strength := clause.LockingStrengthShare
	if mode == domain.LockExclusive {
		strength = clause.LockingStrengthUpdate
	}

	var user models.User
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: strength}).
		First(&user, id).Error; err != nil {
		return nil, noRows(err)
	}
	return &user, nil
}

func (r *AppointmentGormRepository) DeleteUser(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.User{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoRows
	}
	return nil
}

// --------------------------------------------------
// Salon menu / staff
// --------------------------------------------------

func (r *AppointmentGormRepository) GetMaster(
	ctx context.Context,
	id uint,
) (*models.Master, error) {

	var master models.Master
	if err := r.db.WithContext(ctx).
		Preload("Salon").
		First(&master, id).Error; err != nil {
		return nil, noRows(err)
	}
	return &master, nil
}

func (r *AppointmentGormRepository) GetSalonService(
	ctx context.Context,
	salonID uint,
	serviceID uint,
) (*models.SalonService, error) {

	var ss models.SalonService
	if err := r.db.WithContext(ctx).
		Preload("Service").
		Where("salon_id = ? AND service_id = ?", salonID, serviceID).
		First(&ss).Error; err != nil {
		return nil, noRows(err)
	}
	return &ss, nil
}

func (r *AppointmentGormRepository) IsMasterQualified(
	ctx context.Context,
	salonID uint,
	masterID uint,
	serviceID uint,
) (bool, error) {

	var qualified bool
	err := r.db.WithContext(ctx).Raw(
		`SELECT EXISTS (
			SELECT 1 FROM master_services WHERE master_id = ? AND service_id = ?
		) OR NOT EXISTS (
			SELECT 1 FROM master_services ms
			JOIN masters m ON m.id = ms.master_id
			WHERE m.salon_id = ? AND ms.service_id = ?
		)`,
		masterID, serviceID, salonID, serviceID,
	).Scan(&qualified).Error

	return qualified, err
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *AppointmentGormRepository) LockSlot(
	ctx context.Context,
	slotID uint,
) (*models.ScheduleSlot, error) {

	var slot models.ScheduleSlot
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&slot, slotID).Error; err != nil {
		return nil, noRows(err)
	}
	return &slot, nil
}

func (r *AppointmentGormRepository) MarkSlotBooked(
	ctx context.Context,
	slotID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.ScheduleSlot{}).
		Where("id = ? AND is_booked = ?", slotID, false).
		Update("is_booked", true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AppointmentGormRepository) ReleaseSlots(
	ctx context.Context,
	slotIDs ...uint,
) error {

	if len(slotIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.ScheduleSlot{}).
		Where("id IN ?", slotIDs).
		Update("is_booked", false).Error
}

func (r *AppointmentGormRepository) CreateSlot(
	ctx context.Context,
	slot *models.ScheduleSlot,
) error {
	slot.IsBooked = false
	return r.db.WithContext(ctx).Create(slot).Error
}

func (r *AppointmentGormRepository) ListAvailableSlots(
	ctx context.Context,
	q domain.SlotQuery,
	now time.Time,
) ([]domain.AvailableSlot, error) {

	slots := []domain.AvailableSlot{}
	err := r.db.WithContext(ctx).
		Table("schedule_slots AS s").
		Select(`s.id AS slot_id, m.id AS master_id, m.full_name AS master_name,
			m.specialization, s.start_time, s.end_time`).
		Joins("JOIN masters m ON m.id = s.master_id").
		Scopes(
			salonActiveMasters(q.SalonID),
			freeSlotsAfter(now),
			r.layout.noLiveAppointment,
			qualifiedFor(q.SalonID, q.ServiceID),
			firstN(q.Limit),
		).
		Order("s.start_time ASC, s.id ASC").
		Scan(&slots).Error
	if err != nil {
		return nil, err
	}
	return slots, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *AppointmentGormRepository) InsertAppointment(
	ctx context.Context,
	b *domain.Booking,
) error {

	cols := []string{"client_id", "salon_id", "master_id", "service_id", "slot_id", r.layout.writeColumn}
	marks := []string{"?", "?", "?", "?", "?", "?"}
	args := []any{b.ClientID, b.SalonID, b.MasterID, b.ServiceID, b.SlotID, r.layout.writeValue(b.Status)}

	now := time.Now()
	for _, c := range []string{"created_at", "updated_at"} {
		if r.layout.has(c) {
			cols = append(cols, c)
			marks = append(marks, "?")
			args = append(args, now)
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) RETURNING id",
		appointmentsTable,
		strings.Join(cols, ", "),
		strings.Join(marks, ", "),
	)

	var id uint
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&id).Error; err != nil {
		if httperr.IsUniqueViolation(err) || httperr.IsExclusionConflict(err) {
			return domain.ErrSlotUnavailable
		}
		return err
	}

	b.ID = id
	b.RawStatus = string(b.Status)
	return nil
}

func (r *AppointmentGormRepository) LockAppointment(
	ctx context.Context,
	id uint,
) (*domain.Booking, error) {

	var row bookingRow
	if err := r.appointments(ctx).
		Select(r.bookingSelect()).
		Where("a.id = ?", id).
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "a"}}).
		Take(&row).Error; err != nil {
		return nil, noRows(err)
	}

	b := r.toDomain(row)
	return &b, nil
}

func (r *AppointmentGormRepository) SetAppointmentStatus(
	ctx context.Context,
	id uint,
	status domain.Status,
	at time.Time,
) error {

	updates := map[string]any{
		r.layout.writeColumn: r.layout.writeValue(status),
	}
	switch status {
	case domain.StatusCancelled:
		if r.layout.has("cancelled_at") {
			updates["cancelled_at"] = at
		}
	case domain.StatusCompleted:
		if r.layout.has("completed_at") {
			updates["completed_at"] = at
		}
	}
	if r.layout.has("updated_at") {
		updates["updated_at"] = at
	}

	res := r.db.WithContext(ctx).
		Table(appointmentsTable).
		Where("id = ?", id).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNoRows
	}
	return nil
}

func (r *AppointmentGormRepository) LockClientBookings(
	ctx context.Context,
	clientID uint,
) ([]domain.Booking, error) {

	var rows []bookingRow
	if err := r.appointments(ctx).
		Select(r.bookingSelect()).
		Where("a.client_id = ?", clientID).
		Order("a.id ASC").
		Clauses(clause.Locking{Strength: "UPDATE", Table: clause.Table{Name: "a"}}).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	bookings := make([]domain.Booking, 0, len(rows))
	for _, row := range rows {
		bookings = append(bookings, r.toDomain(row))
	}
	return bookings, nil
}

func (r *AppointmentGormRepository) ListClientBookingViews(
	ctx context.Context,
	clientID uint,
) ([]domain.BookingView, error) {

	type viewRow struct {
		bookingRow
		SalonName   string
		ServiceName string
		MasterName  string
		StartTime   time.Time
		EndTime     time.Time
	}

	var rows []viewRow
	if err := r.appointments(ctx).
		Select(r.bookingSelect()+`,
			sa.name AS salon_name, sv.name AS service_name, m.full_name AS master_name,
			s.start_time, s.end_time`).
		Joins("JOIN salons sa ON sa.id = a.salon_id").
		Joins("JOIN services sv ON sv.id = a.service_id").
		Joins("JOIN masters m ON m.id = a.master_id").
		Joins("JOIN schedule_slots s ON s.id = a.slot_id").
		Where("a.client_id = ?", clientID).
		Order("s.start_time DESC, a.id DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	views := make([]domain.BookingView, 0, len(rows))
	for _, row := range rows {
		views = append(views, domain.BookingView{
			Booking:     r.toDomain(row.bookingRow),
			SalonName:   row.SalonName,
			ServiceName: row.ServiceName,
			MasterName:  row.MasterName,
			StartTime:   row.StartTime,
			EndTime:     row.EndTime,
		})
	}
	return views, nil
}

func (r *AppointmentGormRepository) DeleteClientAppointments(
	ctx context.Context,
	clientID uint,
	appointmentIDs []uint,
) (int64, error) {

	if len(appointmentIDs) == 0 {
		return 0, nil
	}

	res := r.db.WithContext(ctx).
		Where("client_id = ? AND id IN ?", clientID, appointmentIDs).
		Delete(&models.Appointment{})
	return res.RowsAffected, res.Error
}

// --------------------------------------------------
// Reviews
// --------------------------------------------------

func (r *AppointmentGormRepository) DeleteClientReviews(
	ctx context.Context,
	clientID uint,
	appointmentIDs []uint,
) (int64, error) {

	q := r.db.WithContext(ctx).Where("client_id = ?", clientID)
	if len(appointmentIDs) > 0 {
		q = q.Or("appointment_id IN ?", appointmentIDs)
	}

	res := q.Delete(&models.Review{})
	return res.RowsAffected, res.Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
