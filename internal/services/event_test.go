package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warriorhub/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests. It checks
// category ids against its catalog before touching any stored field,
// matching the transactional behavior of the SQL repository.
type fakeEventRepo struct {
	byID       map[string]*domain.Event
	categories map[string][]int64
	catalog    map[int64]*domain.Category
	interests  *fakeInterestRepo // consulted for InterestedUserID filtering
	nextID     int
	err        error // if set, every write returns this error
}

func newFakeEventRepo(catalog ...*domain.Category) *fakeEventRepo {
	f := &fakeEventRepo{
		byID:       make(map[string]*domain.Event),
		categories: make(map[string][]int64),
		catalog:    make(map[int64]*domain.Category),
		nextID:     1,
	}
	for _, c := range catalog {
		f.catalog[c.ID] = c
	}
	return f
}

func (f *fakeEventRepo) checkCategories(ids []int64) error {
	for _, id := range ids {
		if _, ok := f.catalog[id]; !ok {
			return &domain.InvalidCategoryError{CategoryID: id}
		}
	}
	return nil
}

func (f *fakeEventRepo) attach(e *domain.Event, ids []int64) {
	e.Categories = nil
	for _, id := range ids {
		e.Categories = append(e.Categories, f.catalog[id])
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event, categoryIDs []int64) error {
	if f.err != nil {
		return f.err
	}
	if err := f.checkCategories(categoryIDs); err != nil {
		return err
	}
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", f.nextID)
		f.nextID++
	}
	stored := *e
	f.byID[e.ID] = &stored
	f.categories[e.ID] = append([]int64(nil), categoryIDs...)
	f.attach(e, categoryIDs)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := *e
	f.attach(&out, f.categories[id])
	return &out, nil
}

func (f *fakeEventRepo) List(ctx context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	var out []*domain.Event
	for id, e := range f.byID {
		if filter.OwnerID != 0 && e.CreatedByID != filter.OwnerID {
			continue
		}
		if filter.FutureOnly && e.DateTime.Before(filter.Now) {
			continue
		}
		if filter.InterestedUserID != 0 &&
			(f.interests == nil || !f.interests.pairs[interestKey(filter.InterestedUserID, id)]) {
			continue
		}
		copied := *e
		f.attach(&copied, f.categories[id])
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeEventRepo) Update(ctx context.Context, id string, fields domain.EventFields, categoryIDs []int64) (*domain.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	e, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if err := f.checkCategories(categoryIDs); err != nil {
		return nil, err
	}
	e.Name = fields.Name
	e.Description = fields.Description
	e.Location = fields.Location
	e.DateTime = fields.DateTime
	e.ImageURL = fields.ImageURL
	e.UpdatedAt = time.Now().UTC()
	f.categories[id] = append([]int64(nil), categoryIDs...)
	return f.GetByID(ctx, id)
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.byID, id)
	delete(f.categories, id)
	return nil
}

// fakeInterestRepo is an in-memory InterestRepository.
type fakeInterestRepo struct {
	pairs map[string]bool
}

func newFakeInterestRepo() *fakeInterestRepo {
	return &fakeInterestRepo{pairs: make(map[string]bool)}
}

func interestKey(userID int64, eventID string) string {
	return fmt.Sprintf("%d/%s", userID, eventID)
}

func (f *fakeInterestRepo) Toggle(ctx context.Context, userID int64, eventID string) (bool, error) {
	key := interestKey(userID, eventID)
	if f.pairs[key] {
		delete(f.pairs, key)
		return false, nil
	}
	f.pairs[key] = true
	return true, nil
}

func (f *fakeInterestRepo) IsInterested(ctx context.Context, userID int64, eventID string) (bool, error) {
	return f.pairs[interestKey(userID, eventID)], nil
}

// fakeCategoryRepo serves the shared category catalog.
type fakeCategoryRepo struct {
	catalog []*domain.Category
}

func (f *fakeCategoryRepo) List(ctx context.Context) ([]*domain.Category, error) {
	return f.catalog, nil
}

func (f *fakeCategoryRepo) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Category, error) {
	var out []*domain.Category
	for _, id := range ids {
		for _, c := range f.catalog {
			if c.ID == id {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

// fakeUserRepo holds users keyed by id.
type fakeUserRepo struct {
	byID    map[int64]*domain.User
	byEmail map[string]*domain.User
	nextID  int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[int64]*domain.User),
		byEmail: make(map[string]*domain.User),
		nextID:  1,
	}
}

func (f *fakeUserRepo) add(u *domain.User) *domain.User {
	if u.ID == 0 {
		u.ID = f.nextID
		f.nextID++
	} else if u.ID >= f.nextID {
		f.nextID = u.ID + 1
	}
	f.byID[u.ID] = u
	f.byEmail[u.Email] = u
	return u
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if _, ok := f.byEmail[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	f.add(u)
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var out []*domain.User
	for _, u := range f.byID {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRole(ctx context.Context, id int64, role domain.Role) error {
	u, ok := f.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.Role = role
	return nil
}

// fakeEmailService records sends instead of mailing.
type fakeEmailService struct {
	welcomes []string
	changes  []*domain.EventChangedEmailData
}

func (f *fakeEmailService) SendWelcomeMessage(ctx context.Context, data *domain.WelcomeEmailData) error {
	f.welcomes = append(f.welcomes, data.Email)
	return nil
}

func (f *fakeEmailService) SendEventChanged(ctx context.Context, data *domain.EventChangedEmailData) error {
	f.changes = append(f.changes, data)
	return nil
}

var testCatalog = []*domain.Category{
	{ID: 1, Name: "Academic"},
	{ID: 2, Name: "Food"},
	{ID: 3, Name: "Sports"},
}

type eventServiceFixture struct {
	svc       domain.EventService
	events    *fakeEventRepo
	interests *fakeInterestRepo
	users     *fakeUserRepo
	mail      *fakeEmailService
}

func newEventServiceFixture(t *testing.T) *eventServiceFixture {
	t.Helper()
	f := &eventServiceFixture{
		events:    newFakeEventRepo(testCatalog...),
		interests: newFakeInterestRepo(),
		users:     newFakeUserRepo(),
		mail:      &fakeEmailService{},
	}
	f.events.interests = f.interests
	f.svc = NewEventService(f.events, &fakeCategoryRepo{catalog: testCatalog},
		f.interests, f.users, f.mail, nil, 2*time.Second)
	return f
}

func futureFields(name string) domain.EventFields {
	return domain.EventFields{
		Name:     name,
		Location: "Campus Center 308",
		DateTime: time.Now().UTC().Add(48 * time.Hour),
	}
}

func TestCreateEvent_OrganizerOwnsResult(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}

	event, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Chess Night"), []int64{1, 3})
	require.NoError(t, err)
	require.NotEmpty(t, event.ID)
	assert.Equal(t, int64(5), event.CreatedByID)

	stored, err := f.events.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	require.Len(t, stored.Categories, 2)
	assert.Equal(t, "Academic", stored.Categories[0].Name)
	assert.Equal(t, "Sports", stored.Categories[1].Name)
}

func TestCreateEvent_UserRoleForbidden(t *testing.T) {
	f := newEventServiceFixture(t)
	user := domain.Actor{UserID: 9, Role: domain.RoleUser}

	_, err := f.svc.CreateEvent(context.Background(), user, futureFields("Nope"), nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestCreateEvent_AnonymousUnauthorized(t *testing.T) {
	f := newEventServiceFixture(t)

	_, err := f.svc.CreateEvent(context.Background(), domain.Anonymous, futureFields("Nope"), nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCreateEvent_UnknownCategoryRejectsWholeWrite(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}

	_, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Bad Cats"), []int64{1, 99})
	var invalid *domain.InvalidCategoryError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(99), invalid.CategoryID)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, f.events.byID)
}

func TestCreateEvent_DuplicateCategoryIDsCollapse(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}

	event, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Dupes"), []int64{2, 2, 2})
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, f.events.categories[event.ID])
}

func TestUpdateEvent_AdminEditsAnyEvent(t *testing.T) {
	f := newEventServiceFixture(t)
	owner := f.users.add(&domain.User{ID: 5, Email: "org@foo.com", Role: domain.RoleOrganizer})
	organizer := domain.Actor{UserID: owner.ID, Role: domain.RoleOrganizer}
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	event, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Bake Sale"), []int64{1, 3})
	require.NoError(t, err)

	fields := futureFields("Bake Sale (moved)")
	updated, err := f.svc.UpdateEvent(context.Background(), admin, event.ID, fields, []int64{2})
	require.NoError(t, err)
	assert.Equal(t, "Bake Sale (moved)", updated.Name)
	require.Len(t, updated.Categories, 1)
	assert.Equal(t, int64(2), updated.Categories[0].ID)
	// Ownership never moves to the editing admin.
	assert.Equal(t, owner.ID, updated.CreatedByID)
}

func TestUpdateEvent_AdminChangeNotifiesOwner(t *testing.T) {
	f := newEventServiceFixture(t)
	owner := f.users.add(&domain.User{ID: 5, Email: "org@foo.com", Role: domain.RoleOrganizer})
	organizer := domain.Actor{UserID: owner.ID, Role: domain.RoleOrganizer}
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	event, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Bake Sale"), nil)
	require.NoError(t, err)

	_, err = f.svc.UpdateEvent(context.Background(), admin, event.ID, futureFields("Bake Sale"), nil)
	require.NoError(t, err)
	require.Len(t, f.mail.changes, 1)
	assert.Equal(t, "org@foo.com", f.mail.changes[0].Email)
	assert.Equal(t, "updated", f.mail.changes[0].Action)

	// The owner editing their own event sends nothing.
	_, err = f.svc.UpdateEvent(context.Background(), organizer, event.ID, futureFields("Bake Sale"), nil)
	require.NoError(t, err)
	assert.Len(t, f.mail.changes, 1)
}

func TestUpdateEvent_NonOwnerOrganizerForbidden(t *testing.T) {
	f := newEventServiceFixture(t)
	owner := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}
	other := domain.Actor{UserID: 6, Role: domain.RoleOrganizer}

	event, err := f.svc.CreateEvent(context.Background(), owner, futureFields("Original"), []int64{1})
	require.NoError(t, err)

	_, err = f.svc.UpdateEvent(context.Background(), other, event.ID, futureFields("Hijacked"), []int64{2})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := f.events.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Original", stored.Name)
	require.Len(t, stored.Categories, 1)
	assert.Equal(t, int64(1), stored.Categories[0].ID)
}

func TestUpdateEvent_MissingEventNotFound(t *testing.T) {
	f := newEventServiceFixture(t)
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	_, err := f.svc.UpdateEvent(context.Background(), admin, "missing", futureFields("X"), nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateEvent_InvalidCategoryLeavesFieldsUntouched(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}

	event, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Stable"), []int64{1})
	require.NoError(t, err)

	_, err = f.svc.UpdateEvent(context.Background(), organizer, event.ID, futureFields("Changed"), []int64{42})
	var invalid *domain.InvalidCategoryError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, int64(42), invalid.CategoryID)

	stored, err := f.events.GetByID(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Stable", stored.Name)
	require.Len(t, stored.Categories, 1)
	assert.Equal(t, int64(1), stored.Categories[0].ID)
}

func TestDeleteEvent_DenialOrdering(t *testing.T) {
	f := newEventServiceFixture(t)
	owner := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}
	event, err := f.svc.CreateEvent(context.Background(), owner, futureFields("Target"), nil)
	require.NoError(t, err)

	// Identity is checked before existence: anonymous gets unauthorized
	// even for a missing event.
	err = f.svc.DeleteEvent(context.Background(), domain.Anonymous, "missing")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	err = f.svc.DeleteEvent(context.Background(), domain.Anonymous, event.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	// Existence before role: an authenticated USER probing a missing id
	// learns it does not exist.
	user := domain.Actor{UserID: 9, Role: domain.RoleUser}
	err = f.svc.DeleteEvent(context.Background(), user, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	err = f.svc.DeleteEvent(context.Background(), user, event.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	err = f.svc.DeleteEvent(context.Background(), owner, event.ID)
	require.NoError(t, err)
	_, err = f.events.GetByID(context.Background(), event.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestToggleInterest_DoubleToggleRestoresInitialState(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}
	user := domain.Actor{UserID: 9, Role: domain.RoleUser}

	event, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Concert"), nil)
	require.NoError(t, err)

	interested, err := f.svc.ToggleInterest(context.Background(), user, event.ID)
	require.NoError(t, err)
	assert.True(t, interested)

	interested, err = f.svc.GetInterest(context.Background(), user, event.ID)
	require.NoError(t, err)
	assert.True(t, interested)

	interested, err = f.svc.ToggleInterest(context.Background(), user, event.ID)
	require.NoError(t, err)
	assert.False(t, interested)

	interested, err = f.svc.GetInterest(context.Background(), user, event.ID)
	require.NoError(t, err)
	assert.False(t, interested)
}

func TestToggleInterest_OnlyUsersRSVP(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}
	admin := domain.Actor{UserID: 1, Role: domain.RoleAdmin}

	event, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Concert"), nil)
	require.NoError(t, err)

	_, err = f.svc.ToggleInterest(context.Background(), organizer, event.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.ToggleInterest(context.Background(), admin, event.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.svc.ToggleInterest(context.Background(), domain.Anonymous, event.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = f.svc.ToggleInterest(context.Background(), domain.Actor{UserID: 9, Role: domain.RoleUser}, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListMyEvents_RoleDependentView(t *testing.T) {
	f := newEventServiceFixture(t)
	orgA := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}
	orgB := domain.Actor{UserID: 6, Role: domain.RoleOrganizer}

	_, err := f.svc.CreateEvent(context.Background(), orgA, futureFields("A1"), nil)
	require.NoError(t, err)
	_, err = f.svc.CreateEvent(context.Background(), orgA, futureFields("A2"), nil)
	require.NoError(t, err)
	_, err = f.svc.CreateEvent(context.Background(), orgB, futureFields("B1"), nil)
	require.NoError(t, err)

	mine, err := f.svc.ListMyEvents(context.Background(), orgA)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	all, err := f.svc.ListMyEvents(context.Background(), domain.Actor{UserID: 1, Role: domain.RoleAdmin})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	_, err = f.svc.ListMyEvents(context.Background(), domain.Anonymous)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestListMyEvents_UserSeesExactlyTheirInterests(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}
	user := domain.Actor{UserID: 9, Role: domain.RoleUser}

	concert, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Concert"), nil)
	require.NoError(t, err)
	fair, err := f.svc.CreateEvent(context.Background(), organizer, futureFields("Fair"), nil)
	require.NoError(t, err)
	_, err = f.svc.CreateEvent(context.Background(), organizer, futureFields("Untoggled"), nil)
	require.NoError(t, err)

	for _, id := range []string{concert.ID, fair.ID} {
		_, err := f.svc.ToggleInterest(context.Background(), user, id)
		require.NoError(t, err)
	}

	mine, err := f.svc.ListMyEvents(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, mine, 2)
	got := map[string]bool{}
	for _, e := range mine {
		got[e.ID] = true
	}
	assert.True(t, got[concert.ID])
	assert.True(t, got[fair.ID])

	// Toggling one off shrinks the view accordingly.
	_, err = f.svc.ToggleInterest(context.Background(), user, fair.ID)
	require.NoError(t, err)
	mine, err = f.svc.ListMyEvents(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, concert.ID, mine[0].ID)
}

func TestCreateEvent_RejectsBlankFields(t *testing.T) {
	f := newEventServiceFixture(t)
	organizer := domain.Actor{UserID: 5, Role: domain.RoleOrganizer}

	for name, fields := range map[string]domain.EventFields{
		"blank name":     {Name: "   ", Location: "Here", DateTime: time.Now().Add(time.Hour)},
		"blank location": {Name: "X", Location: "", DateTime: time.Now().Add(time.Hour)},
		"zero time":      {Name: "X", Location: "Here"},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.CreateEvent(context.Background(), organizer, fields, nil)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestListCategories(t *testing.T) {
	f := newEventServiceFixture(t)
	cats, err := f.svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 3)
}
