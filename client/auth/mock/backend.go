package mock

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/viant/mycoach/internal/collection"
	"github.com/viant/mycoach/schema"
	"golang.org/x/crypto/bcrypt"
)

// DefaultPrefix is the path prefix the backend is mounted under
const DefaultPrefix = "/api"

type account struct {
	profile schema.UserProfile
	hash    []byte
}

// Backend represents mock MyCoach backend
type Backend struct {
	mu sync.Mutex
	// Prefix is the mount point, e.g. /api
	Prefix string
	// AccessTTL controls issued access token lifetime
	AccessTTL time.Duration
	// RotateRefresh issues a new refresh token on every refresh
	RotateRefresh bool

	secret        []byte
	accounts      map[string]*account
	nextID        int
	revoked       *collection.SyncMap[string, bool]
	rejectRefresh bool
	forced        map[string]int
	calls         map[string]int
	authorization map[string]string

	machines     []*schema.Machine
	muscleGroups []*schema.MuscleGroup
	labels       []*schema.Label
	workouts     []*schema.Workout
	exercises    []*schema.Exercise
	events       []*schema.CalendarEvent
	plans        []*schema.Plan
}

// Option represents backend option
type Option func(b *Backend)

// WithAccessTTL sets access token lifetime
func WithAccessTTL(ttl time.Duration) Option {
	return func(b *Backend) {
		b.AccessTTL = ttl
	}
}

// WithRefreshRotation enables refresh token rotation
func WithRefreshRotation() Option {
	return func(b *Backend) {
		b.RotateRefresh = true
	}
}

// WithUser registers user account
func WithUser(email, password, firstName, lastName string) Option {
	return func(b *Backend) {
		_, _ = b.AddUser(email, password, firstName, lastName)
	}
}

// AddUser registers user account
func (b *Backend) AddUser(email, password, firstName, lastName string) (*schema.UserProfile, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	now := time.Now().UTC().Truncate(time.Second)
	acc := &account{
		profile: schema.UserProfile{ID: b.nextID, Email: strings.ToLower(email), FirstName: firstName, LastName: lastName, DateJoined: &now},
		hash:    hash,
	}
	b.accounts[acc.profile.Email] = acc
	profile := acc.profile
	return &profile, nil
}

// ForceUnauthorized makes the next times authenticated calls to path fail with 401, path excludes prefix
func (b *Backend) ForceUnauthorized(path string, times int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forced[path] += times
}

// RejectRefresh makes refresh endpoint reject every token
func (b *Backend) RejectRefresh(reject bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rejectRefresh = reject
}

// RevokeAccessToken invalidates access token
func (b *Backend) RevokeAccessToken(token string) {
	b.revoked.Put(token, true)
}

// Calls returns number of calls to path, path excludes prefix
func (b *Backend) Calls(path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls[path]
}

// LastAuthorization returns Authorization header of the last call to path
func (b *Backend) LastAuthorization(path string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.authorization[path]
}

// Handler returns http handler
func (b *Backend) Handler() http.Handler {
	return b.router()
}

func (b *Backend) record(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, b.Prefix)
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls[path]++
	b.authorization[path] = r.Header.Get("Authorization")
	return path
}

func (b *Backend) takeForced(path string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.forced[path] > 0 {
		b.forced[path]--
		return true
	}
	return false
}

func (b *Backend) lookup(email string) *account {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.accounts[strings.ToLower(email)]
}

// New creates mock backend seeded with reference data
func New(options ...Option) *Backend {
	ret := &Backend{
		Prefix:        DefaultPrefix,
		AccessTTL:     time.Hour,
		secret:        []byte("mycoach-test-secret"),
		accounts:      map[string]*account{},
		revoked:       collection.NewSyncMap[string, bool](),
		forced:        map[string]int{},
		calls:         map[string]int{},
		authorization: map[string]string{},
	}
	ret.seed()
	for _, opt := range options {
		opt(ret)
	}
	return ret
}

func (b *Backend) seed() {
	b.muscleGroups = []*schema.MuscleGroup{
		{ID: 1, Name: "Pectoraux", AnatomicalZone: "upper_body"},
		{ID: 2, Name: "Quadriceps", AnatomicalZone: "lower_body"},
	}
	b.labels = []*schema.Label{{ID: 1, Name: "Force", Color: "#007bff", IsPrimary: true}}
	b.machines = []*schema.Machine{
		{ID: 1, Name: "Chest Press", MuscleGroup: "Pectoraux", MachineType: "strength", DifficultyLevel: 2},
		{ID: 2, Name: "Leg Press", MuscleGroup: "Quadriceps", MachineType: "strength", DifficultyLevel: 2},
	}
}
