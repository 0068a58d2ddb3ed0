package session

import (
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/migueltorresd/gallery/internal/common"
	"github.com/migueltorresd/gallery/internal/models"
)

// directory is the in-memory mock user backend standing in for a real
// authentication API. It owns the user set, the password hashes, and the
// sequential id counter.
type directory struct {
	mu     sync.Mutex
	users  []models.User
	hashes map[string][]byte
	nextID int
}

// newDirectory seeds the directory with the two development accounts
// (admin/admin123 and demo/demo123). MinCost keeps the simulated backend
// fast; nothing here protects real secrets.
func newDirectory() *directory {
	created := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d := &directory{
		users: []models.User{
			{
				ID:        1,
				Username:  "admin",
				Email:     "admin@gallery.local",
				FullName:  "System Administrator",
				CreatedAt: &created,
				Avatar:    "https://via.placeholder.com/150",
			},
			{
				ID:       2,
				Username: "demo",
				Email:    "demo@gallery.local",
				FullName: "Demo User",
			},
		},
		hashes: make(map[string][]byte),
		nextID: 3,
	}
	d.hashes["admin"] = mustHash("admin123")
	d.hashes["demo"] = mustHash("demo123")
	return d
}

func mustHash(password string) []byte {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
}

// authenticate resolves login (username or email) and verifies the
// password. It returns a copy of the matched user.
func (d *directory) authenticate(login, password string) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.users {
		u := d.users[i]
		if u.Username != login && u.Email != login {
			continue
		}
		hash, ok := d.hashes[u.Username]
		if !ok {
			break
		}
		if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
			break
		}
		return &u, nil
	}
	return nil, common.NewInvalidCredentials()
}

// create validates uniqueness, assigns the next sequential id, and appends
// the new user. The confirm-password check belongs to the store, not here.
func (d *directory) create(req models.RegisterRequest) (*models.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, u := range d.users {
		if strings.EqualFold(u.Username, req.Username) || strings.EqualFold(u.Email, req.Email) {
			return nil, common.NewUserExists()
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        d.nextID,
		Username:  req.Username,
		Email:     req.Email,
		FullName:  req.FullName,
		CreatedAt: &now,
	}
	d.nextID++
	d.users = append(d.users, user)
	d.hashes[user.Username] = hash

	return &user, nil
}
