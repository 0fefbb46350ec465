package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/tutorhub/tutorhub-backend/internal/cache"
	"github.com/tutorhub/tutorhub-backend/internal/model"
)

// testEnv собирает сервисы поверх memDB
type testEnv struct {
	db        *memDB
	users     *memUsers
	slots     *memSlots
	subjects  *memSubjects
	tiers     *memTiers
	offerings *memOfferings
	packages  *memPackages
	bookings  *memBookings
	templates *memAvailability
	meetCache *cache.MeetLinkCache

	pricingService *PricingService
	packageService *PackageService
	bookingService *BookingService
	tutorService   *TutorService
	userService    *UserService
}

func newTestEnv() *testEnv {
	db := newMemDB()
	env := &testEnv{
		db:        db,
		users:     &memUsers{db: db},
		slots:     &memSlots{db: db},
		subjects:  &memSubjects{db: db},
		tiers:     &memTiers{db: db},
		offerings: &memOfferings{db: db},
		packages:  &memPackages{db: db},
		bookings:  &memBookings{db: db},
		templates: &memAvailability{db: db},
		meetCache: cache.NewMeetLinkCache(128, time.Minute),
	}

	logger := zap.NewNop()
	tx := &memTxManager{db: db}

	env.pricingService = NewPricingService(env.tiers, logger)
	env.packageService = NewPackageService(tx, env.users, env.slots, env.offerings, env.packages,
		env.pricingService, env.meetCache, noopNotifier{}, "https://meet.test", logger)
	env.bookingService = NewBookingService(tx, env.users, env.subjects, env.slots, env.bookings,
		env.pricingService, noopNotifier{}, logger)
	env.tutorService = NewTutorService(env.users, env.slots, env.subjects, env.tiers,
		env.offerings, env.templates, logger)
	env.userService = NewUserService(env.users, logger)

	return env
}

func (e *testEnv) addUser(credits model.CreditAmount, isTutor bool) *model.User {
	id := e.db.id()
	user := &model.User{
		ID:      id,
		Email:   model.Visible[string]{Value: fmt.Sprintf("user%d@test.io", id), Public: true},
		IsTutor: isTutor,
		Credits: credits,
	}
	e.db.users[id] = user
	return user
}

func (e *testEnv) addSlot(tutorID int64, start time.Time) *model.TimeSlot {
	id := e.db.id()
	slot := &model.TimeSlot{
		ID:        id,
		TutorID:   tutorID,
		StartTime: start,
		EndTime:   start.Add(time.Hour),
	}
	e.db.slots[id] = slot
	return slot
}

func (e *testEnv) addSubject(name string) *model.Subject {
	id := e.db.id()
	subject := &model.Subject{ID: id, Name: name}
	e.db.subjects[id] = subject
	return subject
}

func (e *testEnv) addTier(tutorID, credits int64, subjectIDs ...int64) *model.SubjectTier {
	id := e.db.id()
	tier := &model.SubjectTier{ID: id, TutorID: tutorID, Credits: credits, Category: "standard"}
	e.db.tiers[id] = tier
	e.db.tierSubjects[id] = subjectIDs
	return tier
}

func (e *testEnv) addOffering(tutorID int64, discount, maxSessions int) *model.PackageOffering {
	ptID := e.db.id()
	e.db.packageTypes[ptID] = &model.PackageType{ID: ptID, Name: "pack", MaximumSessions: maxSessions}

	id := e.db.id()
	offering := &model.PackageOffering{
		ID:              id,
		TutorID:         tutorID,
		PackageTypeID:   ptID,
		DiscountPercent: discount,
		IsActive:        true,
	}
	e.db.offerings[id] = offering
	return offering
}
