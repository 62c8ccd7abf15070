package appointment

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/models"
)

type storedAppointment struct {
	domain.Booking
	CancelledAt *time.Time
	CompletedAt *time.Time
}

type fakeState struct {
	users          map[uint]models.User
	masters        map[uint]models.Master
	salonServices  map[[2]uint]models.SalonService
	masterServices map[[2]uint]bool
	slots          map[uint]models.ScheduleSlot
	appointments   map[uint]storedAppointment
	reviews        map[uint]models.Review
	nextID         uint
}

func (s fakeState) clone() fakeState {
	c := fakeState{
		users:          map[uint]models.User{},
		masters:        map[uint]models.Master{},
		salonServices:  map[[2]uint]models.SalonService{},
		masterServices: map[[2]uint]bool{},
		slots:          map[uint]models.ScheduleSlot{},
		appointments:   map[uint]storedAppointment{},
		reviews:        map[uint]models.Review{},
		nextID:         s.nextID,
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.masters {
		c.masters[k] = v
	}
	for k, v := range s.salonServices {
		c.salonServices[k] = v
	}
	for k, v := range s.masterServices {
		c.masterServices[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	for k, v := range s.reviews {
		c.reviews[k] = v
	}
	return c
}

// fakeStore is an in-memory domain.Repository. A transaction holds the
// store mutex for its whole duration and restores a snapshot on error.
type fakeStore struct {
	mu    sync.Mutex
	state fakeState

	// fail makes the named operation return the error.
	fail map[string]error

	// locks records row locks in the order they were taken.
	locks []string

	// afterClientLock runs right after LockClientBookings. It stands in for
	// a write that commits between the lock and the rest of the cleanup.
	afterClientLock func(st *fakeState)
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		state: fakeState{nextID: 1000}.clone(),
		fail:  map[string]error{},
	}
}

func (s *fakeStore) repo() domain.Repository {
	return &fakeRepo{store: s}
}

// -------- seeding / inspection (tests only, not transactional) --------

func (s *fakeStore) addUser(u models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.users[u.ID] = u
}

func (s *fakeStore) addMaster(m models.Master) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.masters[m.ID] = m
}

func (s *fakeStore) addSalonService(ss models.SalonService) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.salonServices[[2]uint{ss.SalonID, ss.ServiceID}] = ss
}

func (s *fakeStore) assign(masterID, serviceID uint) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.masterServices[[2]uint{masterID, serviceID}] = true
}

func (s *fakeStore) addSlot(slot models.ScheduleSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.slots[slot.ID] = slot
}

func (s *fakeStore) addAppointment(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.RawStatus == "" {
		b.RawStatus = string(b.Status)
	}
	b.Status = domain.Normalize(b.RawStatus)
	s.state.appointments[b.ID] = storedAppointment{Booking: b}
}

func (s *fakeStore) addReview(r models.Review) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.reviews[r.ID] = r
}

func (s *fakeStore) slot(id uint) models.ScheduleSlot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.slots[id]
}

func (s *fakeStore) appointment(id uint) (storedAppointment, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.state.appointments[id]
	return a, ok
}

func (s *fakeStore) appointmentCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.appointments)
}

func (s *fakeStore) reviewCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.reviews)
}

func (s *fakeStore) hasUser(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.state.users[id]
	return ok
}

// -------- repository --------

type fakeRepo struct {
	store *fakeStore
	inTx  bool
}

func (r *fakeRepo) lock() func() {
	if r.inTx {
		return func() {}
	}
	r.store.mu.Lock()
	return r.store.mu.Unlock
}

func (r *fakeRepo) st() *fakeState { return &r.store.state }

func (r *fakeRepo) failure(op string) error {
	return r.store.fail[op]
}

func (r *fakeRepo) Transaction(ctx context.Context, fn func(tx domain.Repository) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	snapshot := r.store.state.clone()
	if err := fn(&fakeRepo{store: r.store, inTx: true}); err != nil {
		r.store.state = snapshot
		return err
	}
	return nil
}

func (s *fakeStore) lockLog() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.locks...)
}

func (r *fakeRepo) LockUser(ctx context.Context, id uint, mode domain.LockMode) (*models.User, error) {
	defer r.lock()()
	kind := "share"
	if mode == domain.LockExclusive {
		kind = "update"
	}
	r.store.locks = append(r.store.locks, fmt.Sprintf("user:%d:%s", id, kind))
	u, ok := r.st().users[id]
	if !ok {
		return nil, domain.ErrNoRows
	}
	return &u, nil
}

func (r *fakeRepo) DeleteUser(ctx context.Context, id uint) error {
	defer r.lock()()
	if err := r.failure("DeleteUser"); err != nil {
		return err
	}
	if _, ok := r.st().users[id]; !ok {
		return domain.ErrNoRows
	}
	delete(r.st().users, id)
	return nil
}

func (r *fakeRepo) GetMaster(ctx context.Context, id uint) (*models.Master, error) {
	defer r.lock()()
	m, ok := r.st().masters[id]
	if !ok {
		return nil, domain.ErrNoRows
	}
	return &m, nil
}

func (r *fakeRepo) GetSalonService(ctx context.Context, salonID, serviceID uint) (*models.SalonService, error) {
	defer r.lock()()
	ss, ok := r.st().salonServices[[2]uint{salonID, serviceID}]
	if !ok {
		return nil, domain.ErrNoRows
	}
	return &ss, nil
}

func (r *fakeRepo) isQualified(salonID, masterID, serviceID uint) bool {
	if r.st().masterServices[[2]uint{masterID, serviceID}] {
		return true
	}
	for key := range r.st().masterServices {
		if key[1] == serviceID && r.st().masters[key[0]].SalonID == salonID {
			return false
		}
	}
	return true
}

func (r *fakeRepo) IsMasterQualified(ctx context.Context, salonID, masterID, serviceID uint) (bool, error) {
	defer r.lock()()
	return r.isQualified(salonID, masterID, serviceID), nil
}

func (r *fakeRepo) LockSlot(ctx context.Context, slotID uint) (*models.ScheduleSlot, error) {
	defer r.lock()()
	r.store.locks = append(r.store.locks, fmt.Sprintf("slot:%d", slotID))
	s, ok := r.st().slots[slotID]
	if !ok {
		return nil, domain.ErrNoRows
	}
	return &s, nil
}

func (r *fakeRepo) MarkSlotBooked(ctx context.Context, slotID uint) (bool, error) {
	defer r.lock()()
	s, ok := r.st().slots[slotID]
	if !ok || s.IsBooked {
		return false, nil
	}
	s.IsBooked = true
	r.st().slots[slotID] = s
	return true, nil
}

func (r *fakeRepo) ReleaseSlots(ctx context.Context, slotIDs ...uint) error {
	defer r.lock()()
	if err := r.failure("ReleaseSlots"); err != nil {
		return err
	}
	for _, id := range slotIDs {
		if s, ok := r.st().slots[id]; ok {
			s.IsBooked = false
			r.st().slots[id] = s
		}
	}
	return nil
}

func (r *fakeRepo) CreateSlot(ctx context.Context, slot *models.ScheduleSlot) error {
	defer r.lock()()
	r.st().nextID++
	slot.ID = r.st().nextID
	slot.IsBooked = false
	r.st().slots[slot.ID] = *slot
	return nil
}

func (r *fakeRepo) ListAvailableSlots(ctx context.Context, q domain.SlotQuery, now time.Time) ([]domain.AvailableSlot, error) {
	defer r.lock()()
	if err := r.failure("ListAvailableSlots"); err != nil {
		return nil, err
	}

	out := []domain.AvailableSlot{}
	for _, s := range r.st().slots {
		m := r.st().masters[s.MasterID]
		if m.SalonID != q.SalonID || !m.Active || s.IsBooked || !s.StartTime.After(now) {
			continue
		}
		if r.hasLiveAppointment(s.ID) {
			continue
		}
		if q.ServiceID != nil && !r.isQualified(q.SalonID, m.ID, *q.ServiceID) {
			continue
		}
		out = append(out, domain.AvailableSlot{
			SlotID:         s.ID,
			MasterID:       m.ID,
			MasterName:     m.FullName,
			Specialization: m.Specialization,
			StartTime:      s.StartTime,
			EndTime:        s.EndTime,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	if q.Limit > 0 && len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (r *fakeRepo) hasLiveAppointment(slotID uint) bool {
	for _, a := range r.st().appointments {
		if a.SlotID == slotID && a.Status != domain.StatusCancelled {
			return true
		}
	}
	return false
}

func (r *fakeRepo) InsertAppointment(ctx context.Context, b *domain.Booking) error {
	defer r.lock()()
	if err := r.failure("InsertAppointment"); err != nil {
		return err
	}
	if r.hasLiveAppointment(b.SlotID) {
		return domain.ErrSlotUnavailable
	}
	r.st().nextID++
	b.ID = r.st().nextID
	b.RawStatus = string(b.Status)
	r.st().appointments[b.ID] = storedAppointment{Booking: *b}
	return nil
}

func (r *fakeRepo) LockAppointment(ctx context.Context, id uint) (*domain.Booking, error) {
	defer r.lock()()
	a, ok := r.st().appointments[id]
	if !ok {
		return nil, domain.ErrNoRows
	}
	b := a.Booking
	return &b, nil
}

func (r *fakeRepo) SetAppointmentStatus(ctx context.Context, id uint, status domain.Status, at time.Time) error {
	defer r.lock()()
	if err := r.failure("SetAppointmentStatus"); err != nil {
		return err
	}
	a, ok := r.st().appointments[id]
	if !ok {
		return domain.ErrNoRows
	}
	a.Status = status
	a.RawStatus = string(status)
	switch status {
	case domain.StatusCancelled:
		a.CancelledAt = &at
	case domain.StatusCompleted:
		a.CompletedAt = &at
	}
	r.st().appointments[id] = a
	return nil
}

func (r *fakeRepo) clientBookings(clientID uint) []domain.Booking {
	out := []domain.Booking{}
	for _, a := range r.st().appointments {
		if a.ClientID == clientID {
			out = append(out, a.Booking)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *fakeRepo) LockClientBookings(ctx context.Context, clientID uint) ([]domain.Booking, error) {
	defer r.lock()()
	r.store.locks = append(r.store.locks, fmt.Sprintf("appointments:client:%d", clientID))
	bookings := r.clientBookings(clientID)
	if r.store.afterClientLock != nil {
		r.store.afterClientLock(r.st())
	}
	return bookings, nil
}

func (r *fakeRepo) ListClientBookingViews(ctx context.Context, clientID uint) ([]domain.BookingView, error) {
	defer r.lock()()
	views := []domain.BookingView{}
	for _, b := range r.clientBookings(clientID) {
		slot := r.st().slots[b.SlotID]
		views = append(views, domain.BookingView{
			Booking:    b,
			MasterName: r.st().masters[b.MasterID].FullName,
			StartTime:  slot.StartTime,
			EndTime:    slot.EndTime,
		})
	}
	return views, nil
}

func (r *fakeRepo) DeleteClientAppointments(ctx context.Context, clientID uint, appointmentIDs []uint) (int64, error) {
	defer r.lock()()
	if err := r.failure("DeleteClientAppointments"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range appointmentIDs {
		if a, ok := r.st().appointments[id]; ok && a.ClientID == clientID {
			delete(r.st().appointments, id)
			n++
		}
	}
	return n, nil
}

func (r *fakeRepo) DeleteClientReviews(ctx context.Context, clientID uint, appointmentIDs []uint) (int64, error) {
	defer r.lock()()
	ids := map[uint]bool{}
	for _, id := range appointmentIDs {
		ids[id] = true
	}
	var n int64
	for id, rv := range r.st().reviews {
		if rv.ClientID == clientID || (rv.AppointmentID != nil && ids[*rv.AppointmentID]) {
			delete(r.st().reviews, id)
			n++
		}
	}
	return n, nil
}

var errStoreDown = errors.New("connection reset")

var _ domain.Repository = (*fakeRepo)(nil)
