package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tutorhub/tutorhub-backend/internal/apperr"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// memDB — in-memory хранилище для тестов сервисного слоя.
// Семантика ошибок повторяет репозитории: те же apperr и (nil, nil)
// для отсутствующих записей там, где репозиторий так делает.
type memDB struct {
	users        map[int64]*model.User
	slots        map[int64]*model.TimeSlot
	subjects     map[int64]*model.Subject
	tiers        map[int64]*model.SubjectTier
	tierSubjects map[int64][]int64
	packageTypes map[int64]*model.PackageType
	offerings    map[int64]*model.PackageOffering
	packages     map[int64]*model.SessionPackage
	sessions     map[int64]*model.ClassSession
	timelines    []*model.SessionTimeline
	bookings     map[int64]*model.Booking
	templates    map[int64]*model.AvailabilityTemplate
	nextID       int64
}

func newMemDB() *memDB {
	return &memDB{
		users:        make(map[int64]*model.User),
		slots:        make(map[int64]*model.TimeSlot),
		subjects:     make(map[int64]*model.Subject),
		tiers:        make(map[int64]*model.SubjectTier),
		tierSubjects: make(map[int64][]int64),
		packageTypes: make(map[int64]*model.PackageType),
		offerings:    make(map[int64]*model.PackageOffering),
		packages:     make(map[int64]*model.SessionPackage),
		sessions:     make(map[int64]*model.ClassSession),
		bookings:     make(map[int64]*model.Booking),
		templates:    make(map[int64]*model.AvailabilityTemplate),
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

// clone снимает копию состояния для отката транзакции
func (db *memDB) clone() *memDB {
	c := newMemDB()
	c.nextID = db.nextID
	for id, u := range db.users {
		v := *u
		c.users[id] = &v
	}
	for id, s := range db.slots {
		v := *s
		c.slots[id] = &v
	}
	for id, s := range db.subjects {
		v := *s
		c.subjects[id] = &v
	}
	for id, t := range db.tiers {
		v := *t
		c.tiers[id] = &v
	}
	for id, subs := range db.tierSubjects {
		c.tierSubjects[id] = append([]int64(nil), subs...)
	}
	for id, pt := range db.packageTypes {
		v := *pt
		c.packageTypes[id] = &v
	}
	for id, o := range db.offerings {
		v := *o
		c.offerings[id] = &v
	}
	for id, p := range db.packages {
		v := *p
		c.packages[id] = &v
	}
	for id, s := range db.sessions {
		v := *s
		c.sessions[id] = &v
	}
	for _, tl := range db.timelines {
		v := *tl
		c.timelines = append(c.timelines, &v)
	}
	for id, b := range db.bookings {
		v := *b
		c.bookings[id] = &v
	}
	for id, t := range db.templates {
		v := *t
		c.templates[id] = &v
	}
	return c
}

// memTxManager откатывает состояние memDB при ошибке fn
type memTxManager struct {
	db *memDB
}

func (m *memTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	snapshot := m.db.clone()
	if err := fn(ctx); err != nil {
		*m.db = *snapshot
		return err
	}
	return nil
}

type memUsers struct{ db *memDB }

func (s *memUsers) Create(ctx context.Context, user *model.User) error {
	user.ID = s.db.id()
	user.CreatedAt = time.Now()
	v := *user
	s.db.users[user.ID] = &v
	return nil
}

func (s *memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	u, ok := s.db.users[id]
	if !ok {
		return nil, nil
	}
	v := *u
	return &v, nil
}

func (s *memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range s.db.users {
		if u.Email.Value == email {
			v := *u
			return &v, nil
		}
	}
	return nil, nil
}

func (s *memUsers) Update(ctx context.Context, user *model.User) error {
	if _, ok := s.db.users[user.ID]; !ok {
		return apperr.ErrUserNotFound
	}
	v := *user
	s.db.users[user.ID] = &v
	return nil
}

func (s *memUsers) DebitCredits(ctx context.Context, userID int64, amount model.CreditAmount) error {
	u, ok := s.db.users[userID]
	if !ok {
		return apperr.ErrUserNotFound
	}
	if u.Credits < amount {
		return apperr.ErrInsufficientCredits
	}
	u.Credits -= amount
	return nil
}

func (s *memUsers) AddCredits(ctx context.Context, userID int64, amount model.CreditAmount) error {
	u, ok := s.db.users[userID]
	if !ok {
		return apperr.ErrUserNotFound
	}
	u.Credits += amount
	return nil
}

type memSlots struct{ db *memDB }

func (s *memSlots) Create(ctx context.Context, slot *model.TimeSlot) error {
	slot.ID = s.db.id()
	slot.CreatedAt = time.Now()
	v := *slot
	s.db.slots[slot.ID] = &v
	return nil
}

func (s *memSlots) GetByID(ctx context.Context, id int64) (*model.TimeSlot, error) {
	slot, ok := s.db.slots[id]
	if !ok {
		return nil, nil
	}
	v := *slot
	return &v, nil
}

func (s *memSlots) GetByTutorID(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	var out []*model.TimeSlot
	for _, slot := range s.db.slots {
		if slot.TutorID == tutorID && !slot.StartTime.Before(from) && slot.StartTime.Before(to) {
			v := *slot
			out = append(out, &v)
		}
	}
	return out, nil
}

func (s *memSlots) GetFreeByTutorID(ctx context.Context, tutorID int64, from, to time.Time) ([]*model.TimeSlot, error) {
	all, _ := s.GetByTutorID(ctx, tutorID, from, to)
	var out []*model.TimeSlot
	for _, slot := range all {
		if !slot.IsBooked {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *memSlots) Reserve(ctx context.Context, slotID int64) error {
	slot, ok := s.db.slots[slotID]
	if !ok {
		return apperr.ErrTimeSlotNotFound
	}
	if slot.IsBooked {
		return apperr.ErrTimeSlotAlreadyBooked
	}
	slot.IsBooked = true
	return nil
}

func (s *memSlots) Release(ctx context.Context, slotID int64) error {
	if slot, ok := s.db.slots[slotID]; ok {
		slot.IsBooked = false
	}
	return nil
}

func (s *memSlots) SlotExists(ctx context.Context, tutorID int64, startTime time.Time) (bool, error) {
	for _, slot := range s.db.slots {
		if slot.TutorID == tutorID && slot.StartTime.Equal(startTime) {
			return true, nil
		}
	}
	return false, nil
}

type memSubjects struct{ db *memDB }

func (s *memSubjects) Create(ctx context.Context, subject *model.Subject) error {
	subject.ID = s.db.id()
	subject.CreatedAt = time.Now()
	v := *subject
	s.db.subjects[subject.ID] = &v
	return nil
}

func (s *memSubjects) GetByID(ctx context.Context, id int64) (*model.Subject, error) {
	subject, ok := s.db.subjects[id]
	if !ok {
		return nil, nil
	}
	v := *subject
	return &v, nil
}

func (s *memSubjects) List(ctx context.Context) ([]*model.Subject, error) {
	var out []*model.Subject
	for _, subject := range s.db.subjects {
		v := *subject
		out = append(out, &v)
	}
	return out, nil
}

type memTiers struct{ db *memDB }

func (s *memTiers) Create(ctx context.Context, tier *model.SubjectTier, subjectIDs []int64) error {
	tier.ID = s.db.id()
	tier.CreatedAt = time.Now()
	v := *tier
	s.db.tiers[tier.ID] = &v
	s.db.tierSubjects[tier.ID] = append([]int64(nil), subjectIDs...)
	return nil
}

func (s *memTiers) ResolveForSubject(ctx context.Context, tutorID, subjectID int64) (*model.SubjectTier, error) {
	var found *model.SubjectTier
	for tierID, subs := range s.db.tierSubjects {
		tier := s.db.tiers[tierID]
		if tier == nil || tier.TutorID != tutorID {
			continue
		}
		for _, id := range subs {
			if id == subjectID {
				if found != nil {
					return nil, apperr.ErrAmbiguousSubjectTier
				}
				v := *tier
				found = &v
			}
		}
	}
	if found == nil {
		return nil, apperr.ErrSubjectTierNotFound
	}
	return found, nil
}

func (s *memTiers) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.SubjectTier, error) {
	var out []*model.SubjectTier
	for _, tier := range s.db.tiers {
		if tier.TutorID == tutorID {
			v := *tier
			out = append(out, &v)
		}
	}
	return out, nil
}

type memOfferings struct{ db *memDB }

func (s *memOfferings) CreatePackageType(ctx context.Context, pt *model.PackageType) error {
	for _, existing := range s.db.packageTypes {
		if existing.Name == pt.Name {
			return apperr.ErrPackageTypeExists
		}
	}
	pt.ID = s.db.id()
	pt.CreatedAt = time.Now()
	v := *pt
	s.db.packageTypes[pt.ID] = &v
	return nil
}

func (s *memOfferings) GetPackageTypeByID(ctx context.Context, id int64) (*model.PackageType, error) {
	pt, ok := s.db.packageTypes[id]
	if !ok {
		return nil, nil
	}
	v := *pt
	return &v, nil
}

func (s *memOfferings) CreateOffering(ctx context.Context, offering *model.PackageOffering) error {
	offering.ID = s.db.id()
	offering.CreatedAt = time.Now()
	v := *offering
	v.PackageType = nil
	s.db.offerings[offering.ID] = &v
	return nil
}

func (s *memOfferings) GetOfferingByID(ctx context.Context, id int64) (*model.PackageOffering, error) {
	o, ok := s.db.offerings[id]
	if !ok {
		return nil, nil
	}
	v := *o
	if pt, ok := s.db.packageTypes[o.PackageTypeID]; ok {
		ptCopy := *pt
		v.PackageType = &ptCopy
	}
	return &v, nil
}

func (s *memOfferings) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.PackageOffering, error) {
	var out []*model.PackageOffering
	for _, o := range s.db.offerings {
		if o.TutorID == tutorID && o.IsActive {
			v, _ := s.GetOfferingByID(ctx, o.ID)
			out = append(out, v)
		}
	}
	return out, nil
}

type memPackages struct{ db *memDB }

func (s *memPackages) CreatePackage(ctx context.Context, pkg *model.SessionPackage) error {
	pkg.ID = s.db.id()
	pkg.CreatedAt = time.Now()
	pkg.UpdatedAt = pkg.CreatedAt
	v := *pkg
	v.Sessions = nil
	s.db.packages[pkg.ID] = &v
	return nil
}

func (s *memPackages) CreateSession(ctx context.Context, session *model.ClassSession) error {
	session.ID = s.db.id()
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	v := *session
	s.db.sessions[session.ID] = &v
	return nil
}

func (s *memPackages) AppendTimeline(ctx context.Context, entry *model.SessionTimeline) error {
	entry.ID = s.db.id()
	entry.CreatedAt = time.Now()
	v := *entry
	s.db.timelines = append(s.db.timelines, &v)
	return nil
}

func (s *memPackages) GetPackageByID(ctx context.Context, id int64) (*model.SessionPackage, error) {
	pkg, ok := s.db.packages[id]
	if !ok {
		return nil, nil
	}
	v := *pkg
	return &v, nil
}

func (s *memPackages) GetSessionsByPackageID(ctx context.Context, packageID int64) ([]*model.ClassSession, error) {
	var out []*model.ClassSession
	for _, session := range s.db.sessions {
		if session.SessionPackageID == packageID {
			v := *session
			out = append(out, &v)
		}
	}
	return out, nil
}

func (s *memPackages) GetSessionByID(ctx context.Context, id int64) (*model.ClassSession, error) {
	session, ok := s.db.sessions[id]
	if !ok {
		return nil, nil
	}
	v := *session
	return &v, nil
}

func (s *memPackages) GetTimelines(ctx context.Context, sessionID int64) ([]*model.SessionTimeline, error) {
	var out []*model.SessionTimeline
	for _, entry := range s.db.timelines {
		if entry.ClassSessionID == sessionID {
			v := *entry
			out = append(out, &v)
		}
	}
	return out, nil
}

func (s *memPackages) MarkPackageAccepted(ctx context.Context, packageID int64) error {
	pkg, ok := s.db.packages[packageID]
	if !ok {
		return apperr.ErrPackageNotFound
	}
	if pkg.Status != model.PackageStatusPending {
		return apperr.ErrPackageNotPending
	}
	pkg.Status = model.PackageStatusAccepted
	pkg.UpdatedAt = time.Now()
	return nil
}

func (s *memPackages) SetAcceptanceStatus(ctx context.Context, packageID int64, sessionIDs []int64, accepted bool) ([]int64, error) {
	inList := func(id int64) bool {
		for _, v := range sessionIDs {
			if v == id {
				return true
			}
		}
		return false
	}

	var affected []int64
	for _, session := range s.db.sessions {
		if session.SessionPackageID != packageID || session.AcceptanceStatus != model.AcceptancePending {
			continue
		}
		if accepted && inList(session.ID) {
			session.AcceptanceStatus = model.AcceptanceAccepted
			affected = append(affected, session.ID)
		} else if !accepted && !inList(session.ID) {
			session.AcceptanceStatus = model.AcceptanceRejected
			session.Status = model.SessionStatusCanceled
			affected = append(affected, session.ID)
		}
	}
	return affected, nil
}

func (s *memPackages) MarkSessionRefunded(ctx context.Context, sessionID int64) (bool, error) {
	session, ok := s.db.sessions[sessionID]
	if !ok {
		return false, nil
	}
	if session.RefundedAt != nil {
		return false, nil
	}
	now := time.Now()
	session.RefundedAt = &now
	return true, nil
}

func (s *memPackages) ListByUser(ctx context.Context, userID int64, status model.PackageStatus, limit, offset int) ([]*model.SessionPackage, error) {
	var out []*model.SessionPackage
	for _, pkg := range s.db.packages {
		if pkg.StudentID != userID && pkg.TutorID != userID {
			continue
		}
		if status != "" && pkg.Status != status {
			continue
		}
		v := *pkg
		out = append(out, &v)
	}
	return out, nil
}

type memBookings struct{ db *memDB }

func (s *memBookings) Create(ctx context.Context, booking *model.Booking) error {
	for _, existing := range s.db.bookings {
		if existing.SlotID == booking.SlotID && existing.IsActive() {
			return apperr.ErrBookingAlreadyExists
		}
	}
	booking.ID = s.db.id()
	booking.CreatedAt = time.Now()
	booking.UpdatedAt = booking.CreatedAt
	v := *booking
	v.Subject = nil
	v.Slot = nil
	s.db.bookings[booking.ID] = &v
	return nil
}

func (s *memBookings) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	b, ok := s.db.bookings[id]
	if !ok {
		return nil, nil
	}
	v := *b
	return &v, nil
}

func (s *memBookings) GetByStudentID(ctx context.Context, studentID int64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range s.db.bookings {
		if b.StudentID == studentID {
			v := *b
			out = append(out, &v)
		}
	}
	return out, nil
}

func (s *memBookings) GetPendingByTutorID(ctx context.Context, tutorID int64) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range s.db.bookings {
		if b.TutorID == tutorID && b.Status == model.BookingStatusPending {
			v := *b
			out = append(out, &v)
		}
	}
	return out, nil
}

func (s *memBookings) UpdateStatus(ctx context.Context, id int64, status model.BookingStatus) error {
	b, ok := s.db.bookings[id]
	if !ok {
		return apperr.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = time.Now()
	return nil
}

func (s *memBookings) MarkRefunded(ctx context.Context, id int64) (bool, error) {
	b, ok := s.db.bookings[id]
	if !ok {
		return false, nil
	}
	if b.RefundedAt != nil {
		return false, nil
	}
	now := time.Now()
	b.RefundedAt = &now
	return true, nil
}

type memAvailability struct{ db *memDB }

func (s *memAvailability) Create(ctx context.Context, template *model.AvailabilityTemplate) error {
	template.ID = s.db.id()
	template.CreatedAt = time.Now()
	template.UpdatedAt = template.CreatedAt
	v := *template
	s.db.templates[template.ID] = &v
	return nil
}

func (s *memAvailability) GetByTutorID(ctx context.Context, tutorID int64) ([]*model.AvailabilityTemplate, error) {
	var out []*model.AvailabilityTemplate
	for _, t := range s.db.templates {
		if t.TutorID == tutorID {
			v := *t
			out = append(out, &v)
		}
	}
	return out, nil
}

func (s *memAvailability) GetAllActive(ctx context.Context) ([]*model.AvailabilityTemplate, error) {
	var out []*model.AvailabilityTemplate
	for _, t := range s.db.templates {
		if t.IsActive {
			v := *t
			out = append(out, &v)
		}
	}
	return out, nil
}

func (s *memAvailability) DeactivateGroup(ctx context.Context, groupID uuid.UUID) error {
	for _, t := range s.db.templates {
		if t.GroupID == groupID {
			t.IsActive = false
			t.UpdatedAt = time.Now()
		}
	}
	return nil
}

// noopNotifier для тестов где уведомления не интересны
type noopNotifier struct{}

func (noopNotifier) PackageRequested(ctx context.Context, pkg *model.SessionPackage) {}
func (noopNotifier) PackageDecided(ctx context.Context, pkg *model.SessionPackage)   {}
func (noopNotifier) BookingCreated(ctx context.Context, booking *model.Booking)      {}
func (noopNotifier) BookingDecided(ctx context.Context, booking *model.Booking)      {}
func (noopNotifier) SessionRefunded(ctx context.Context, session *model.ClassSession) {}
