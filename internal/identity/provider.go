// Package identity provides email/password accounts on top of the score store,
// a signed session token that survives process restarts, and notifications
// when the signed-in identity changes.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/vovakirdan/tile2048/internal/storage"
)

var (
	ErrNotAuthenticated   = errors.New("identity: not authenticated")
	ErrInvalidCredentials = errors.New("identity: invalid email or password")
	ErrInvalidEmail       = errors.New("identity: invalid email address")
	ErrWeakPassword       = fmt.Errorf("identity: password must be at least %d characters", MinPasswordLen)
	ErrEmailTaken         = errors.New("identity: email already registered")
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

// User identifies a signed-in account.
type User struct {
	ID    string
	Email string
}

// Listener receives the current identity, or nil when anonymous.
type Listener func(u *User)

// UserStore is the account persistence the provider needs.
type UserStore interface {
	CreateUser(ctx context.Context, u storage.User) error
	UserByEmail(ctx context.Context, email string) (storage.User, error)
	UserByID(ctx context.Context, id string) (storage.User, error)
}

// Options configures a Provider.
type Options struct {
	// SessionPath is where the session token is kept between runs.
	// Empty keeps the session in memory only.
	SessionPath string

	// Secret signs session tokens. Required when SessionPath is set.
	Secret []byte

	// TTL is how long a session token stays valid.
	TTL time.Duration

	// BcryptCost is the password hashing cost; 0 uses bcrypt.DefaultCost.
	BcryptCost int

	Logger *log.Logger

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Provider tracks the signed-in account and notifies listeners on change.
type Provider struct {
	users UserStore
	opts  Options

	mu        sync.Mutex
	current   *User
	listeners map[int]Listener
	nextID    int

	// notifyMu serializes deliveries so the last value a listener sees is
	// the identity that was current when the last delivery started.
	notifyMu sync.Mutex
}

// NewProvider creates an anonymous provider.
func NewProvider(users UserStore, opts Options) *Provider {
	if opts.TTL <= 0 {
		opts.TTL = 30 * 24 * time.Hour
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Provider{
		users:     users,
		opts:      opts,
		listeners: make(map[int]Listener),
	}
}

// Current returns the signed-in account, or nil when anonymous.
// The returned value is a copy.
func (p *Provider) Current() *User {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyUser(p.current)
}

// RequireUser returns the signed-in account or ErrNotAuthenticated.
func (p *Provider) RequireUser() (User, error) {
	u := p.Current()
	if u == nil {
		return User{}, ErrNotAuthenticated
	}
	return *u, nil
}

// SignUp creates an account and signs it in.
func (p *Provider) SignUp(ctx context.Context, email, password string) (User, error) {
	email, err := validateEmail(email)
	if err != nil {
		return User{}, err
	}
	if len(password) < MinPasswordLen {
		return User{}, ErrWeakPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.opts.BcryptCost)
	if err != nil {
		return User{}, fmt.Errorf("identity: cannot hash password: %w", err)
	}

	rec := storage.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    p.opts.Now(),
	}
	if err := p.users.CreateUser(ctx, rec); err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return User{}, ErrEmailTaken
		}
		return User{}, fmt.Errorf("identity: cannot create account: %w", err)
	}

	u := User{ID: rec.ID, Email: email}
	if err := p.signedIn(u); err != nil {
		return u, err
	}
	p.opts.Logger.Info("account created", "user", u.ID)
	return u, nil
}

// SignIn verifies credentials and makes the account current.
func (p *Provider) SignIn(ctx context.Context, email, password string) (User, error) {
	rec, err := p.users.UserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, storage.ErrNotFound) {
		return User{}, ErrInvalidCredentials
	}
	if err != nil {
		return User{}, fmt.Errorf("identity: cannot look up account: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}

	u := User{ID: rec.ID, Email: rec.Email}
	if err := p.signedIn(u); err != nil {
		return u, err
	}
	p.opts.Logger.Info("signed in", "user", u.ID)
	return u, nil
}

// SignOut clears the current account and the persisted session.
func (p *Provider) SignOut() error {
	p.setCurrent(nil)
	if err := p.clearSession(); err != nil {
		return err
	}
	p.opts.Logger.Debug("signed out")
	return nil
}

// Restore loads the persisted session, if any. Invalid or expired sessions
// and sessions of deleted accounts are discarded; the provider stays anonymous.
func (p *Provider) Restore(ctx context.Context) (*User, error) {
	userID, err := p.loadSession()
	if err != nil {
		p.opts.Logger.Warn("discarding session", "error", err)
		return nil, p.clearSession()
	}
	if userID == "" {
		return nil, nil
	}

	rec, err := p.users.UserByID(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		p.opts.Logger.Warn("discarding session of unknown account", "user", userID)
		return nil, p.clearSession()
	}
	if err != nil {
		return nil, fmt.Errorf("identity: cannot look up account: %w", err)
	}

	u := User{ID: rec.ID, Email: rec.Email}
	p.setCurrent(&u)
	return copyUser(&u), nil
}

// Subscribe registers fn for identity changes. fn is called right away with
// the current identity. The returned function unregisters fn; calling it more
// than once is harmless. fn must not sign in or out itself.
func (p *Provider) Subscribe(fn Listener) (unsubscribe func()) {
	p.notifyMu.Lock()
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.listeners[id] = fn
	current := copyUser(p.current)
	p.mu.Unlock()

	fn(current)
	p.notifyMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			delete(p.listeners, id)
			p.mu.Unlock()
		})
	}
}

func (p *Provider) signedIn(u User) error {
	p.setCurrent(&u)
	return p.saveSession(u)
}

// setCurrent swaps the identity and notifies listeners if it changed.
func (p *Provider) setCurrent(u *User) {
	p.mu.Lock()
	if sameUser(p.current, u) {
		p.mu.Unlock()
		return
	}
	p.current = copyUser(u)
	p.mu.Unlock()

	p.notify()
}

// notify delivers the identity current at delivery time, not the one that
// triggered it, so a delivery overtaken by a later change is never the last.
func (p *Provider) notify() {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()

	p.mu.Lock()
	current := p.current
	listeners := make([]Listener, 0, len(p.listeners))
	for _, fn := range p.listeners {
		listeners = append(listeners, fn)
	}
	p.mu.Unlock()

	for _, fn := range listeners {
		fn(copyUser(current))
	}
}

func validateEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func copyUser(u *User) *User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}

func sameUser(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
