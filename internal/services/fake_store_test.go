package services

import (
	"context"
	"errors"
	"sync"

	"github.com/personregistry/backend/internal/models"
)

// fakeStore is an in-memory implementation of the repositories with transactional rollback
type fakeStore struct {
	mu        sync.Mutex
	users     map[int]*models.User
	persons   map[int]*models.Person
	addresses map[int]*models.Address
	nextUser  int
	nextAddr  int

	// err, when set, is returned by the repository method named failOn
	failOn string
	err    error
	// beforeAddressCreate runs before an address insert, e.g. to simulate a concurrent writer
	beforeAddressCreate func(key models.AddressKey)
	addressCreates      int
	// lockedAddressMisses counts locking reads of address tuples that were not stored
	lockedAddressMisses int
	commits             int
	rollbacks           int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     map[int]*models.User{},
		persons:   map[int]*models.Person{},
		addresses: map[int]*models.Address{},
	}
}

func (f *fakeStore) userRepo() *fakeUsers { return &fakeUsers{f} }
func (f *fakeStore) personRepo() *fakePersons { return &fakePersons{f} }
func (f *fakeStore) addressRepo() *fakeAddresses { return &fakeAddresses{f} }

func (f *fakeStore) fail(method string) error {
	if f.failOn == method {
		return f.err
	}
	return nil
}

type fakeSnapshot struct {
	users     map[int]models.User
	persons   map[int]models.Person
	addresses map[int]models.Address
	nextUser  int
	nextAddr  int
}

func (f *fakeStore) snapshot() fakeSnapshot {
	s := fakeSnapshot{
		users:     map[int]models.User{},
		persons:   map[int]models.Person{},
		addresses: map[int]models.Address{},
		nextUser:  f.nextUser,
		nextAddr:  f.nextAddr,
	}
	for id, u := range f.users {
		s.users[id] = *u
	}
	for id, p := range f.persons {
		s.persons[id] = *p
	}
	for id, a := range f.addresses {
		s.addresses[id] = *a
	}
	return s
}

func (f *fakeStore) restore(s fakeSnapshot) {
	f.users = map[int]*models.User{}
	f.persons = map[int]*models.Person{}
	f.addresses = map[int]*models.Address{}
	for id, u := range s.users {
		u := u
		f.users[id] = &u
	}
	for id, p := range s.persons {
		p := p
		f.persons[id] = &p
	}
	for id, a := range s.addresses {
		a := a
		f.addresses[id] = &a
	}
	f.nextUser = s.nextUser
	f.nextAddr = s.nextAddr
}

// InTx runs fn and restores the previous state when it fails
func (f *fakeStore) InTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := f.fail("InTx"); err != nil {
		return err
	}
	f.mu.Lock()
	saved := f.snapshot()
	f.mu.Unlock()

	if err := fn(ctx); err != nil {
		f.mu.Lock()
		f.restore(saved)
		f.rollbacks++
		f.mu.Unlock()
		return err
	}
	f.mu.Lock()
	f.commits++
	f.mu.Unlock()
	return nil
}

// seedUser stores a user and returns its id
func (f *fakeStore) seedUser(username, role string) int {
	f.nextUser++
	f.users[f.nextUser] = &models.User{ID: f.nextUser, Username: username, Role: role, PasswordHash: "h", PasswordSalt: "s"}
	return f.nextUser
}

// seedAddress stores an address and returns its id
func (f *fakeStore) seedAddress(key models.AddressKey) int {
	f.nextAddr++
	f.addresses[f.nextAddr] = &models.Address{
		ID: f.nextAddr, City: key.City, StreetName: key.StreetName, HouseNumber: key.HouseNumber, FlatNumber: key.FlatNumber,
	}
	return f.nextAddr
}

// seedPerson attaches a person living at addressID to the user
func (f *fakeStore) seedPerson(userID int, personalNumber string, addressID int) {
	f.persons[userID] = &models.Person{
		ID:             userID,
		Name:           "Name" + personalNumber,
		Surname:        "Surname",
		PersonalNumber: personalNumber,
		PhoneNumber:    "+37060000000",
		Email:          "person@example.com",
		ProfilePicture: []byte("old-thumbnail"),
		AddressID:      addressID,
	}
	id := userID
	f.users[userID].PersonID = &id
}

func (f *fakeStore) addressByKey(key models.AddressKey) *models.Address {
	for _, a := range f.addresses {
		if a.Key() == key {
			return a
		}
	}
	return nil
}

func (f *fakeStore) residents(addressID int) int {
	n := 0
	for _, p := range f.persons {
		if p.AddressID == addressID {
			n++
		}
	}
	return n
}

type fakeUsers struct{ f *fakeStore }

func (r *fakeUsers) Create(ctx context.Context, user *models.User) (int, error) {
	if err := r.f.fail("Users.Create"); err != nil {
		return 0, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Username == user.Username {
			return 0, models.NewConflict("Username already exists")
		}
	}
	r.f.nextUser++
	stored := *user
	stored.ID = r.f.nextUser
	r.f.users[stored.ID] = &stored
	return stored.ID, nil
}

func (r *fakeUsers) GetByID(ctx context.Context, id int, forUpdate bool) (*models.User, error) {
	if err := r.f.fail("Users.GetByID"); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	u, ok := r.f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUsers) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUsers) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	u, err := r.GetByUsername(ctx, username)
	return u != nil, err
}

func (r *fakeUsers) CountByRole(ctx context.Context, role string, forUpdate bool) (int, error) {
	if err := r.f.fail("Users.CountByRole"); err != nil {
		return 0, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	n := 0
	for _, u := range r.f.users {
		if u.Role == role {
			n++
		}
	}
	return n, nil
}

func (r *fakeUsers) UpdateRole(ctx context.Context, id int, role string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.users[id].Role = role
	return nil
}

func (r *fakeUsers) UpdatePassword(ctx context.Context, id int, hash, salt string) error {
	if err := r.f.fail("Users.UpdatePassword"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.users[id].PasswordHash = hash
	r.f.users[id].PasswordSalt = salt
	return nil
}

func (r *fakeUsers) SetPersonID(ctx context.Context, id, personID int) error {
	if err := r.f.fail("Users.SetPersonID"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	pid := personID
	r.f.users[id].PersonID = &pid
	return nil
}

func (r *fakeUsers) Delete(ctx context.Context, id int) error {
	if err := r.f.fail("Users.Delete"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.users, id)
	return nil
}

type fakePersons struct{ f *fakeStore }

func (r *fakePersons) Create(ctx context.Context, person *models.Person) error {
	if err := r.f.fail("Persons.Create"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.persons[person.ID]; ok {
		return models.NewConflict("User already has personal information")
	}
	for _, p := range r.f.persons {
		if p.PersonalNumber == person.PersonalNumber {
			return models.NewConflict("Person with this personal number already exists")
		}
	}
	stored := *person
	stored.Address = nil
	r.f.persons[person.ID] = &stored
	return nil
}

func (r *fakePersons) GetByUserID(ctx context.Context, userID int) (*models.Person, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	u, ok := r.f.users[userID]
	if !ok || u.PersonID == nil {
		return nil, nil
	}
	p, ok := r.f.persons[*u.PersonID]
	if !ok {
		return nil, nil
	}
	cp := *p
	a := *r.f.addresses[p.AddressID]
	cp.Address = &a
	return &cp, nil
}

func (r *fakePersons) GetByID(ctx context.Context, id int, forUpdate bool) (*models.Person, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	p, ok := r.f.persons[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePersons) GetByPersonalNumber(ctx context.Context, personalNumber string, forUpdate bool) (*models.Person, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, p := range r.f.persons {
		if p.PersonalNumber == personalNumber {
			cp := *p
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakePersons) Update(ctx context.Context, person *models.Person) error {
	if err := r.f.fail("Persons.Update"); err != nil {
		return err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, p := range r.f.persons {
		if p.ID != person.ID && p.PersonalNumber == person.PersonalNumber {
			return models.NewConflict("Person with this personal number already exists")
		}
	}
	stored := *person
	stored.Address = nil
	r.f.persons[person.ID] = &stored
	return nil
}

func (r *fakePersons) Delete(ctx context.Context, id int) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	delete(r.f.persons, id)
	for _, u := range r.f.users {
		if u.PersonID != nil && *u.PersonID == id {
			u.PersonID = nil
		}
	}
	return nil
}

func (r *fakePersons) CountByAddressID(ctx context.Context, addressID int, forUpdate bool) (int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return r.f.residents(addressID), nil
}

type fakeAddresses struct{ f *fakeStore }

func (r *fakeAddresses) GetByID(ctx context.Context, id int, forUpdate bool) (*models.Address, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	a, ok := r.f.addresses[id]
	if !ok {
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAddresses) FindByKey(ctx context.Context, key models.AddressKey, forUpdate bool) (*models.Address, error) {
	if err := r.f.fail("Addresses.FindByKey"); err != nil {
		return nil, err
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	a := r.f.addressByKey(key)
	if a == nil {
		if forUpdate {
			r.f.lockedAddressMisses++
		}
		return nil, nil
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAddresses) Create(ctx context.Context, key models.AddressKey) (int, error) {
	if r.f.beforeAddressCreate != nil {
		r.f.beforeAddressCreate(key)
	}
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.addressByKey(key) != nil {
		return 0, models.NewConflict("Address already exists")
	}
	r.f.addressCreates++
	return r.f.seedAddress(key), nil
}

func (r *fakeAddresses) Update(ctx context.Context, id int, key models.AddressKey) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if other := r.f.addressByKey(key); other != nil && other.ID != id {
		return models.NewConflict("Address already exists")
	}
	a := r.f.addresses[id]
	a.City, a.StreetName, a.HouseNumber, a.FlatNumber = key.City, key.StreetName, key.HouseNumber, key.FlatNumber
	return nil
}

func (r *fakeAddresses) Delete(ctx context.Context, id int) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.f.residents(id) > 0 {
		return errors.New("address is still referenced")
	}
	delete(r.f.addresses, id)
	return nil
}

// fakeImages returns a deterministic thumbnail derived from the file name
type fakeImages struct {
	err   error
	calls int
}

func (m *fakeImages) ProcessProfilePicture(upload *models.Upload) ([]byte, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	if upload == nil {
		return nil, models.NewInvalid("Profile picture is required")
	}
	return []byte("thumbnail:" + upload.Filename), nil
}

// fakeTokens records the identity it was asked to sign
type fakeTokens struct {
	err      error
	userID   int
	username string
	role     string
}

func (m *fakeTokens) GenerateToken(userID int, username, role string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.userID, m.username, m.role = userID, username, role
	return "signed-token", nil
}
