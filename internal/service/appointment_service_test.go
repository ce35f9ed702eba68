package service

import (
	"sync"
	"testing"
	"time"

	"turnero/internal/apperr"
	"turnero/internal/db"
	"turnero/internal/schedule"
)

// fakeStore implements Catalog, CalendarRules and Ledger in memory. Its
// CreateAppointment holds a mutex across the overlap check and the append,
// honoring the per-date atomicity contract of the real repository.
type fakeStore struct {
	mu       sync.Mutex
	services map[int]db.Service
	hours    map[int]db.BusinessHours
	blocked  map[string]bool
	appts    []db.Appointment
	nextID   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		services: map[int]db.Service{},
		hours:    map[int]db.BusinessHours{},
		blocked:  map[string]bool{},
		nextID:   1,
	}
}

func (f *fakeStore) GetActiveService(id int) (*db.Service, error) {
	s, ok := f.services[id]
	if !ok || !s.IsActive {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeStore) IsDateBlocked(date string) (bool, error) {
	return f.blocked[date], nil
}

func (f *fakeStore) GetActiveBusinessHours(weekday int) (*db.BusinessHours, error) {
	bh, ok := f.hours[weekday]
	if !ok {
		return nil, nil
	}
	return &bh, nil
}

func (f *fakeStore) CreateAppointment(appt *db.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	start, _ := schedule.ParseClock(appt.StartTime)
	end, _ := schedule.ParseClock(appt.EndTime)
	candidate := schedule.Interval{Start: start, End: end}
	for _, existing := range f.appts {
		if existing.Date != appt.Date || existing.Status == db.StatusCancelled {
			continue
		}
		es, _ := schedule.ParseClock(existing.StartTime)
		ee, _ := schedule.ParseClock(existing.EndTime)
		if candidate.Overlaps(schedule.Interval{Start: es, End: ee}) {
			return apperr.New(apperr.SlotTaken, "the requested time slot is already booked")
		}
	}
	appt.ID = f.nextID
	f.nextID++
	appt.CreatedAt = time.Now()
	appt.UpdatedAt = appt.CreatedAt
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeStore) ListBookedIntervals(date string) ([]db.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db.Appointment
	for _, a := range f.appts {
		if a.Date == date && a.Status != db.StatusCancelled {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) GetAppointmentForUser(id, userID int) (*db.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appts {
		if a.ID == id && a.UserID == userID {
			copied := a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) UpdateAppointmentStatus(id int, status string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.appts {
		if f.appts[i].ID == id {
			f.appts[i].Status = status
			return 1, nil
		}
	}
	return 0, nil
}

func (f *fakeStore) ListAppointmentsForUser(userID int) ([]db.Appointment, error) {
	var out []db.Appointment
	for _, a := range f.appts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStore) ListAllAppointments() ([]db.Appointment, error) {
	return append([]db.Appointment{}, f.appts...), nil
}

// mondayDate is a Monday; sundayDate the Sunday before it.
const (
	mondayDate = "2026-03-02"
	sundayDate = "2026-03-01"
)

// newTestService wires an engine over a store with business hours Monday
// 09:00-17:00 and a 30 minute service with id 1.
func newTestService() (*AppointmentService, *fakeStore) {
	store := newFakeStore()
	store.services[1] = db.Service{ID: 1, Name: "Haircut", Duration: 30, Price: 20, IsActive: true}
	store.hours[1] = db.BusinessHours{ID: 1, DayOfWeek: 1, OpenTime: "09:00", CloseTime: "17:00", IsActive: true}
	return NewAppointmentService(store, store, store), store
}

func TestCreateAppointment_Success(t *testing.T) {
	svc, _ := newTestService()

	appt, err := svc.CreateAppointment(7, 1, mondayDate, "10:00")
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if appt.ID == 0 {
		t.Fatal("expected an assigned id")
	}
	if appt.Status != db.StatusPending {
		t.Fatalf("expected status PENDING, got %s", appt.Status)
	}
	if appt.EndTime != "10:30" {
		t.Fatalf("end time must be start + duration, got %s", appt.EndTime)
	}
}

func TestCreateAppointment_ChecksInOrder(t *testing.T) {
	svc, store := newTestService()
	store.services[2] = db.Service{ID: 2, Name: "Retired", Duration: 30, IsActive: false}
	store.blocked["2026-03-09"] = true // also a Monday
	if _, err := svc.CreateAppointment(7, 1, mondayDate, "10:00"); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	cases := []struct {
		name      string
		serviceID int
		date      string
		start     string
		want      apperr.Kind
	}{
		{"missing service", 0, mondayDate, "10:00", apperr.InvalidRequest},
		{"missing date", 1, "", "10:00", apperr.InvalidRequest},
		{"missing start", 1, mondayDate, "", apperr.InvalidRequest},
		{"malformed date", 1, "03/02/2026", "10:00", apperr.InvalidRequest},
		{"malformed start", 1, mondayDate, "10h00", apperr.InvalidRequest},
		{"unknown service", 99, mondayDate, "11:00", apperr.ServiceNotFound},
		{"inactive service", 2, mondayDate, "11:00", apperr.ServiceNotFound},
		// Service existence outranks the blocked-day check.
		{"unknown service on blocked day", 99, "2026-03-09", "11:00", apperr.ServiceNotFound},
		{"blocked day", 1, "2026-03-09", "11:00", apperr.DateBlocked},
		{"no hours that weekday", 1, sundayDate, "11:00", apperr.OutsideBusinessHours},
		{"before open", 1, mondayDate, "08:45", apperr.OutsideBusinessHours},
		{"ends past close", 1, mondayDate, "16:45", apperr.OutsideBusinessHours},
		{"overlaps existing", 1, mondayDate, "10:15", apperr.SlotTaken},
	}
	for _, c := range cases {
		_, err := svc.CreateAppointment(7, c.serviceID, c.date, c.start)
		if err == nil {
			t.Fatalf("%s: expected error", c.name)
		}
		if got := apperr.KindOf(err); got != c.want {
			t.Fatalf("%s: expected kind %v, got %v (%v)", c.name, c.want, got, err)
		}
	}
}

func TestCreateAppointment_BusinessHoursBoundary(t *testing.T) {
	svc, _ := newTestService()

	// Ending exactly at close is accepted.
	appt, err := svc.CreateAppointment(7, 1, mondayDate, "16:30")
	if err != nil {
		t.Fatalf("booking ending at close must succeed: %v", err)
	}
	if appt.EndTime != "17:00" {
		t.Fatalf("expected end 17:00, got %s", appt.EndTime)
	}
	// One step later it overruns close.
	if _, err := svc.CreateAppointment(7, 1, mondayDate, "16:45"); apperr.KindOf(err) != apperr.OutsideBusinessHours {
		t.Fatalf("expected OutsideBusinessHours, got %v", err)
	}
}

func TestCreateAppointment_TouchingEndpointsDoNotConflict(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.CreateAppointment(7, 1, mondayDate, "10:00"); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	// 10:30 starts exactly where the first booking ends.
	if _, err := svc.CreateAppointment(8, 1, mondayDate, "10:30"); err != nil {
		t.Fatalf("back-to-back booking must succeed: %v", err)
	}
}

func TestCreateAppointment_CrossMidnightRejected(t *testing.T) {
	svc, store := newTestService()
	store.services[3] = db.Service{ID: 3, Name: "Marathon", Duration: 10 * 60, IsActive: true}
	store.hours[1] = db.BusinessHours{DayOfWeek: 1, OpenTime: "09:00", CloseTime: "23:59", IsActive: true}

	// 23:00 + 10h wraps past midnight; must be rejected, never wrapped.
	if _, err := svc.CreateAppointment(7, 3, mondayDate, "23:00"); apperr.KindOf(err) != apperr.OutsideBusinessHours {
		t.Fatalf("expected OutsideBusinessHours, got %v", err)
	}
}

func TestListFreeSlots_AroundExistingBooking(t *testing.T) {
	svc, store := newTestService()
	if _, err := svc.CreateAppointment(7, 1, mondayDate, "10:00"); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	// Cancelled appointments do not occupy their slot.
	cancelled, err := svc.CreateAppointment(7, 1, mondayDate, "12:00")
	if err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	if _, err := store.UpdateAppointmentStatus(cancelled.ID, db.StatusCancelled); err != nil {
		t.Fatalf("cancel seed: %v", err)
	}

	slots, err := svc.ListFreeSlots(1, mondayDate)
	if err != nil {
		t.Fatalf("ListFreeSlots: %v", err)
	}
	got := map[string]bool{}
	for _, s := range slots {
		got[s] = true
	}
	for _, want := range []string{"09:00", "09:15", "09:30", "10:30", "12:00"} {
		if !got[want] {
			t.Fatalf("expected slot %s, slots: %v", want, slots)
		}
	}
	for _, taken := range []string{"10:00", "10:15"} {
		if got[taken] {
			t.Fatalf("slot %s must not be offered", taken)
		}
	}
	if last := slots[len(slots)-1]; last != "16:30" {
		t.Fatalf("last slot must be 16:30, got %s", last)
	}
}

func TestListFreeSlots_BlockedDayShortCircuits(t *testing.T) {
	svc, store := newTestService()
	store.blocked[mondayDate] = true

	slots, err := svc.ListFreeSlots(1, mondayDate)
	if err != nil {
		t.Fatalf("ListFreeSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("blocked day must yield no slots, got %v", slots)
	}

	// The blocked-day check even precedes the service lookup.
	if _, err := svc.ListFreeSlots(99, mondayDate); err != nil {
		t.Fatalf("blocked day must not report a missing service: %v", err)
	}
}

func TestListFreeSlots_NoBusinessHours(t *testing.T) {
	svc, _ := newTestService()
	slots, err := svc.ListFreeSlots(1, sundayDate)
	if err != nil {
		t.Fatalf("ListFreeSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("weekday without hours must yield no slots, got %v", slots)
	}
}

func TestListFreeSlots_UnknownService(t *testing.T) {
	svc, _ := newTestService()
	if _, err := svc.ListFreeSlots(99, mondayDate); apperr.KindOf(err) != apperr.ServiceNotFound {
		t.Fatalf("expected ServiceNotFound, got %v", err)
	}
	if _, err := svc.ListFreeSlots(0, mondayDate); apperr.KindOf(err) != apperr.InvalidRequest {
		t.Fatalf("expected InvalidRequest, got %v", err)
	}
}

// Every offered slot must be immediately bookable: repeatedly book the first
// free slot until none remain, and every attempt must succeed.
func TestListFreeSlots_Soundness(t *testing.T) {
	svc, _ := newTestService()
	booked := 0
	for {
		slots, err := svc.ListFreeSlots(1, mondayDate)
		if err != nil {
			t.Fatalf("ListFreeSlots: %v", err)
		}
		if len(slots) == 0 {
			break
		}
		if _, err := svc.CreateAppointment(7, 1, mondayDate, slots[0]); err != nil {
			t.Fatalf("offered slot %s failed to book: %v", slots[0], err)
		}
		booked++
		if booked > 100 {
			t.Fatal("bookings did not converge")
		}
	}
	if booked == 0 {
		t.Fatal("expected at least one bookable slot")
	}
}

func TestCreateAppointment_NoDoubleBookingUnderConcurrency(t *testing.T) {
	svc, _ := newTestService()

	const n = 16
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.CreateAppointment(100+i, 1, mondayDate, "10:00")
		}(i)
	}
	wg.Wait()

	successes, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			successes++
		case apperr.KindOf(err) == apperr.SlotTaken:
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if successes != 1 || conflicts != n-1 {
		t.Fatalf("expected exactly 1 success and %d conflicts, got %d/%d", n-1, successes, conflicts)
	}
}

func TestCancelAppointment(t *testing.T) {
	svc, _ := newTestService()
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 8, 0, 0, 0, time.Local)
	}

	appt, err := svc.CreateAppointment(7, 1, mondayDate, "10:00")
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	// Wrong owner looks identical to a missing appointment.
	if err := svc.CancelAppointment(appt.ID, 8); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound for foreign appointment, got %v", err)
	}
	if err := svc.CancelAppointment(9999, 7); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	if err := svc.CancelAppointment(appt.ID, 7); err != nil {
		t.Fatalf("cancel of a future appointment must succeed: %v", err)
	}
	if err := svc.CancelAppointment(appt.ID, 7); apperr.KindOf(err) != apperr.AlreadyCancelled {
		t.Fatalf("expected AlreadyCancelled on second cancel, got %v", err)
	}
}

func TestCancelAppointment_TimeGate(t *testing.T) {
	svc, _ := newTestService()
	appt, err := svc.CreateAppointment(7, 1, mondayDate, "10:00")
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	// Past its start.
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 11, 0, 0, 0, time.Local)
	}
	if err := svc.CancelAppointment(appt.ID, 7); apperr.KindOf(err) != apperr.PastAppointment {
		t.Fatalf("expected PastAppointment, got %v", err)
	}

	// Exactly at its start: not strictly in the future, still rejected.
	svc.now = func() time.Time {
		return time.Date(2026, 3, 2, 10, 0, 0, 0, time.Local)
	}
	if err := svc.CancelAppointment(appt.ID, 7); apperr.KindOf(err) != apperr.PastAppointment {
		t.Fatalf("expected PastAppointment at the exact start, got %v", err)
	}
}

func TestCancelAppointment_Completed(t *testing.T) {
	svc, store := newTestService()
	appt, err := svc.CreateAppointment(7, 1, mondayDate, "10:00")
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}
	if _, err := store.UpdateAppointmentStatus(appt.ID, db.StatusCompleted); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := svc.CancelAppointment(appt.ID, 7); apperr.KindOf(err) != apperr.AlreadyCompleted {
		t.Fatalf("expected AlreadyCompleted, got %v", err)
	}
}

func TestSetAppointmentStatus(t *testing.T) {
	svc, store := newTestService()
	appt, err := svc.CreateAppointment(7, 1, mondayDate, "10:00")
	if err != nil {
		t.Fatalf("CreateAppointment: %v", err)
	}

	if err := svc.SetAppointmentStatus(appt.ID, "ARCHIVED"); apperr.KindOf(err) != apperr.InvalidStatus {
		t.Fatalf("expected InvalidStatus, got %v", err)
	}
	if err := svc.SetAppointmentStatus(9999, db.StatusConfirmed); apperr.KindOf(err) != apperr.NotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}

	// The override is unguarded: even CANCELLED -> CONFIRMED is allowed.
	if err := svc.SetAppointmentStatus(appt.ID, db.StatusCancelled); err != nil {
		t.Fatalf("set CANCELLED: %v", err)
	}
	if err := svc.SetAppointmentStatus(appt.ID, db.StatusConfirmed); err != nil {
		t.Fatalf("set CONFIRMED after CANCELLED: %v", err)
	}
	got, _ := store.GetAppointmentForUser(appt.ID, 7)
	if got.Status != db.StatusConfirmed {
		t.Fatalf("expected CONFIRMED, got %s", got.Status)
	}
}
