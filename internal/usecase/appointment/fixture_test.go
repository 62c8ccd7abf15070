package appointment

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/smart-spa/internal/domain/appointment"
	"github.com/BruksfildServices01/smart-spa/internal/models"
	"github.com/BruksfildServices01/smart-spa/internal/session"
)

var fixedNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

const (
	clientC1 uint = 1
	clientC2 uint = 2
	salonU   uint = 8
	adminU   uint = 9

	masterM1       uint = 11
	masterM2       uint = 12
	masterOther    uint = 13
	masterInactive uint = 14

	salonSP1   uint = 21
	salonOther uint = 22

	serviceSV1 uint = 31
	serviceSV2 uint = 32
	serviceSV3 uint = 33

	slotS101      uint = 101
	slotS102      uint = 102
	slotPast      uint = 103
	slotOther     uint = 104
	slotInactive  uint = 105
	slotWrongHost uint = 106
)

var (
	asC1    = session.Session{UserID: clientC1, Role: session.RoleClient}
	asC2    = session.Session{UserID: clientC2, Role: session.RoleClient}
	asSalon = session.Session{UserID: salonU, Role: session.RoleSalon}
	asAdmin = session.Session{UserID: adminU, Role: session.RoleAdmin}
)

type publishedEvent struct {
	key     string
	payload any
}

type recordingPublisher struct {
	mu   sync.Mutex
	sent []publishedEvent
	err  error
}

func (p *recordingPublisher) Publish(_ context.Context, key string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, publishedEvent{key: key, payload: payload})
	return p.err
}

func (p *recordingPublisher) keys() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.sent))
	for _, e := range p.sent {
		out = append(out, e.key)
	}
	return out
}

type cachedQuery struct {
	salonID uint
	slots   []domain.AvailableSlot
}

type memoryCache struct {
	mu          sync.Mutex
	entries     map[string]cachedQuery
	invalidated []uint
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]cachedQuery{}}
}

func cacheKey(q domain.SlotQuery) string {
	service := "any"
	if q.ServiceID != nil {
		service = fmt.Sprint(*q.ServiceID)
	}
	return fmt.Sprintf("%d/%s/%d", q.SalonID, service, q.Limit)
}

func (c *memoryCache) Get(_ context.Context, q domain.SlotQuery) ([]domain.AvailableSlot, int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[cacheKey(q)]
	return e.slots, 0, ok
}

func (c *memoryCache) Set(_ context.Context, q domain.SlotQuery, _ int64, slots []domain.AvailableSlot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[cacheKey(q)] = cachedQuery{salonID: q.SalonID, slots: slots}
}

func (c *memoryCache) InvalidateSalon(_ context.Context, salonID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, salonID)
	for k, e := range c.entries {
		if e.salonID == salonID {
			delete(c.entries, k)
		}
	}
}

type fixture struct {
	store   *fakeStore
	repo    domain.Repository
	pub     *recordingPublisher
	cache   *memoryCache
	effects Effects
}

// newFixture seeds salon SP1 with masters M1 and M2, services SV1 (base
// price) and SV2 (overridden price), and a few slots around fixedNow.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	s := newFakeStore()

	s.addUser(models.User{ID: clientC1, FullName: "Anna", Role: "client"})
	s.addUser(models.User{ID: clientC2, FullName: "Oleg", Role: "Клиент"})
	s.addUser(models.User{ID: salonU, FullName: "Front desk", Role: "salon"})
	s.addUser(models.User{ID: adminU, FullName: "Root", Role: "admin"})

	s.addMaster(models.Master{ID: masterM1, FullName: "Irina", Specialization: "stylist", SalonID: salonSP1, Active: true})
	s.addMaster(models.Master{ID: masterM2, FullName: "Marina", Specialization: "nails", SalonID: salonSP1, Active: true})
	s.addMaster(models.Master{ID: masterOther, FullName: "Pavel", SalonID: salonOther, Active: true})
	s.addMaster(models.Master{ID: masterInactive, FullName: "Vera", SalonID: salonSP1, Active: false})

	s.addSalonService(models.SalonService{
		SalonID:   salonSP1,
		ServiceID: serviceSV1,
		Service:   models.Service{ID: serviceSV1, Name: "Haircut", DurationMin: 60, BasePrice: decimal.RequireFromString("2500")},
	})
	s.addSalonService(models.SalonService{
		SalonID:   salonSP1,
		ServiceID: serviceSV2,
		Service:   models.Service{ID: serviceSV2, Name: "Manicure", DurationMin: 45, BasePrice: decimal.RequireFromString("2000")},
		Price:     decimal.NewNullDecimal(decimal.RequireFromString("1800.50")),
	})
	s.addSalonService(models.SalonService{
		SalonID:   salonOther,
		ServiceID: serviceSV1,
		Service:   models.Service{ID: serviceSV1, Name: "Haircut", BasePrice: decimal.RequireFromString("2500")},
	})

	at := func(h int) time.Time { return fixedNow.Add(time.Duration(h) * time.Hour) }
	s.addSlot(models.ScheduleSlot{ID: slotS101, MasterID: masterM1, StartTime: at(24), EndTime: at(25)})
	s.addSlot(models.ScheduleSlot{ID: slotS102, MasterID: masterM2, StartTime: at(3), EndTime: at(4)})
	s.addSlot(models.ScheduleSlot{ID: slotPast, MasterID: masterM1, StartTime: at(-1), EndTime: at(0)})
	s.addSlot(models.ScheduleSlot{ID: slotOther, MasterID: masterOther, StartTime: at(5), EndTime: at(6)})
	s.addSlot(models.ScheduleSlot{ID: slotInactive, MasterID: masterInactive, StartTime: at(6), EndTime: at(7)})
	s.addSlot(models.ScheduleSlot{ID: slotWrongHost, MasterID: masterM2, StartTime: at(30), EndTime: at(31)})

	pub := &recordingPublisher{}
	cache := newMemoryCache()

	return &fixture{
		store: s,
		repo:  s.repo(),
		pub:   pub,
		cache: cache,
		effects: Effects{
			Publisher: pub,
			Cache:     cache,
			Now:       func() time.Time { return fixedNow },
		},
	}
}

func (f *fixture) book(t *testing.T, sess session.Session, in CreateAppointmentInput) (uint, error) {
	t.Helper()
	return NewCreateAppointment(f.repo, f.effects).Execute(context.Background(), sess, in)
}

func s101Input() CreateAppointmentInput {
	return CreateAppointmentInput{
		ClientID:  clientC1,
		SalonID:   salonSP1,
		MasterID:  masterM1,
		ServiceID: serviceSV1,
		SlotID:    slotS101,
	}
}
