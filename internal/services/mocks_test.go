package services

import (
	"context"
	"errors"
	"io"
	"time"

	"eventhub/internal/domain"
)

type mockUserRepository struct {
	users       map[string]*domain.User
	byUsername  map[string]*domain.User
	byRole      map[domain.Role][]*domain.User
	createErr   error
	updateErr   error
	activateErr error
	err         error

	created        []*domain.User
	assignedRoles  map[string][]domain.Role
	activatedIDs   []string
	deletedIDs     []string
	updatedUsers   []*domain.User
	totalUserCount int
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:         map[string]*domain.User{},
		byUsername:    map[string]*domain.User{},
		byRole:        map[domain.Role][]*domain.User{},
		assignedRoles: map[string][]domain.Role{},
	}
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	if user.ID == "" {
		user.ID = "new-user-id"
	}
	m.created = append(m.created, user)
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *mockUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.byUsername[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updatedUsers = append(m.updatedUsers, user)
	return nil
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, userID, passwordHash, salt string) error {
	if u, ok := m.users[userID]; ok {
		u.PasswordHash = passwordHash
		u.Salt = salt
		return nil
	}
	return domain.ErrUserNotFound
}

func (m *mockUserRepository) Activate(ctx context.Context, userID string) error {
	if m.activateErr != nil {
		return m.activateErr
	}
	m.activatedIDs = append(m.activatedIDs, userID)
	if u, ok := m.users[userID]; ok {
		u.IsActive = true
	}
	return nil
}

func (m *mockUserRepository) Delete(ctx context.Context, userID string) error {
	if _, ok := m.users[userID]; !ok {
		return domain.ErrUserNotFound
	}
	delete(m.users, userID)
	m.deletedIDs = append(m.deletedIDs, userID)
	return nil
}

func (m *mockUserRepository) AssignRole(ctx context.Context, userID string, role domain.Role) error {
	m.assignedRoles[userID] = append(m.assignedRoles[userID], role)
	return nil
}

func (m *mockUserRepository) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byRole[role], nil
}

func (m *mockUserRepository) CountAll(ctx context.Context) (int, error) {
	return m.totalUserCount, nil
}

type mockEventRepository struct {
	events    map[string]*domain.Event
	listed    []*domain.Event
	total     int
	counts    map[domain.DateScope]int
	scoped    map[domain.DateScope][]*domain.Event
	createErr error
	err       error

	created  []*domain.Event
	updated  []*domain.Event
	deleted  []string
	imageSet map[string]string
}

func newMockEventRepository() *mockEventRepository {
	return &mockEventRepository{
		events:   map[string]*domain.Event{},
		counts:   map[domain.DateScope]int{},
		scoped:   map[domain.DateScope][]*domain.Event{},
		imageSet: map[string]string{},
	}
}

func (m *mockEventRepository) Create(ctx context.Context, event *domain.Event) error {
	if m.createErr != nil {
		return m.createErr
	}
	if event.ID == "" {
		event.ID = "new-event-id"
	}
	m.created = append(m.created, event)
	m.events[event.ID] = event
	return nil
}

func (m *mockEventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockEventRepository) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.listed, nil
}

func (m *mockEventRepository) Count(ctx context.Context, filter domain.EventFilter) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.total, nil
}

func (m *mockEventRepository) Update(ctx context.Context, event *domain.Event) error {
	if _, ok := m.events[event.ID]; !ok {
		return domain.ErrNotFound
	}
	m.updated = append(m.updated, event)
	return nil
}

func (m *mockEventRepository) SetImage(ctx context.Context, eventID, image string) error {
	if _, ok := m.events[eventID]; !ok {
		return domain.ErrNotFound
	}
	m.imageSet[eventID] = image
	return nil
}

func (m *mockEventRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.events, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockEventRepository) ListByDateScope(ctx context.Context, scope domain.DateScope, today string, limit int) ([]*domain.Event, error) {
	if m.err != nil {
		return nil, m.err
	}
	events := m.scoped[scope]
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (m *mockEventRepository) CountByDateScope(ctx context.Context, scope domain.DateScope, today string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	return m.counts[scope], nil
}

type mockCategoryRepository struct {
	categories map[string]*domain.Category
	createErr  error
	err        error

	created []*domain.Category
	updated []*domain.Category
	deleted []string
}

func newMockCategoryRepository() *mockCategoryRepository {
	return &mockCategoryRepository{categories: map[string]*domain.Category{}}
}

func (m *mockCategoryRepository) Create(ctx context.Context, c *domain.Category) error {
	if m.createErr != nil {
		return m.createErr
	}
	if c.ID == "" {
		c.ID = "new-category-id"
	}
	m.created = append(m.created, c)
	m.categories[c.ID] = c
	return nil
}

func (m *mockCategoryRepository) GetByID(ctx context.Context, id string) (*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	c, ok := m.categories[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *mockCategoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]*domain.Category, 0, len(m.categories))
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCategoryRepository) Update(ctx context.Context, c *domain.Category) error {
	if _, ok := m.categories[c.ID]; !ok {
		return domain.ErrNotFound
	}
	m.updated = append(m.updated, c)
	return nil
}

func (m *mockCategoryRepository) Delete(ctx context.Context, id string) error {
	if _, ok := m.categories[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.categories, id)
	m.deleted = append(m.deleted, id)
	return nil
}

type mockRSVPRepository struct {
	existing      map[string]*domain.RSVP
	byUser        map[string][]*domain.RSVPWithEvent
	countByUser   map[string]int
	distinctUsers int
	createErr     error
	err           error

	createdPairs []string
}

func newMockRSVPRepository() *mockRSVPRepository {
	return &mockRSVPRepository{
		existing:    map[string]*domain.RSVP{},
		byUser:      map[string][]*domain.RSVPWithEvent{},
		countByUser: map[string]int{},
	}
}

func rsvpKey(eventID, userID string) string { return eventID + ":" + userID }

func (m *mockRSVPRepository) CreateIfAbsent(ctx context.Context, rsvp *domain.RSVP) (bool, error) {
	if m.createErr != nil {
		return false, m.createErr
	}
	key := rsvpKey(rsvp.EventID, rsvp.UserID)
	if existing, ok := m.existing[key]; ok {
		*rsvp = *existing
		return false, nil
	}
	rsvp.ID = "new-rsvp-id"
	m.existing[key] = rsvp
	m.createdPairs = append(m.createdPairs, key)
	return true, nil
}

func (m *mockRSVPRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.RSVP, error) {
	if r, ok := m.existing[rsvpKey(eventID, userID)]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (m *mockRSVPRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.RSVPWithEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.byUser[userID], nil
}

func (m *mockRSVPRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	return m.countByUser[userID], nil
}

func (m *mockRSVPRepository) CountDistinctUsers(ctx context.Context) (int, error) {
	return m.distinctUsers, nil
}

type sentEmail struct {
	kind string
	to   string
}

type mockEmailService struct {
	activationErr   error
	confirmationErr error
	organizerErr    error

	sent []sentEmail
}

func (m *mockEmailService) SendActivation(ctx context.Context, data *domain.ActivationEmailData) error {
	if m.activationErr != nil {
		return m.activationErr
	}
	m.sent = append(m.sent, sentEmail{kind: "activation", to: data.Email})
	return nil
}

func (m *mockEmailService) SendRSVPConfirmation(ctx context.Context, data *domain.RSVPConfirmationEmailData) error {
	if m.confirmationErr != nil {
		return m.confirmationErr
	}
	m.sent = append(m.sent, sentEmail{kind: "rsvp_confirmation", to: data.Email})
	return nil
}

func (m *mockEmailService) SendOrganizerRSVPAlert(ctx context.Context, data *domain.OrganizerRSVPEmailData) error {
	if m.organizerErr != nil {
		return m.organizerErr
	}
	m.sent = append(m.sent, sentEmail{kind: "rsvp_organizer", to: data.Email})
	return nil
}

type mockMediaStore struct {
	saveErr   error
	savedKeys []string
}

func (m *mockMediaStore) Save(ctx context.Context, key, contentType string, r io.Reader, size int64) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	m.savedKeys = append(m.savedKeys, key)
	return key, nil
}

func (m *mockMediaStore) Delete(ctx context.Context, key string) error { return nil }

type mockHasher struct {
	compareErr error
}

func (m *mockHasher) GenerateSalt() (string, error) { return "test-salt", nil }

func (m *mockHasher) Hash(salt, password string) (string, error) {
	return "hash(" + salt + ":" + password + ")", nil
}

func (m *mockHasher) Compare(hash, salt, password string) error {
	if m.compareErr != nil {
		return m.compareErr
	}
	if hash != "hash("+salt+":"+password+")" {
		return errors.New("password mismatch")
	}
	return nil
}

type mockTokenIssuer struct {
	token string
	err   error
}

func (m *mockTokenIssuer) Issue(userID, email string, roles []string, expiry time.Duration) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.token, nil
}

type mockActivation struct {
	token   string
	makeErr error
	checkOK bool
}

func (m *mockActivation) Make(user *domain.User) (string, error) {
	if m.makeErr != nil {
		return "", m.makeErr
	}
	return m.token, nil
}

func (m *mockActivation) Check(user *domain.User, token string) bool {
	return m.checkOK && token == m.token
}
