package repository

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"slices"
	"sort"
	"sync"
	"time"

	"credential-vault/internal/data/entity"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memStore is a process-local store used with DB_DRIVER=memory. A single
// mutex serializes every call; transactions hold it for their whole body and
// restore a snapshot when the body fails.
type memStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]entity.User
	otps     map[uuid.UUID]entity.OTP
	sessions map[uuid.UUID]entity.Session
	vault    map[uuid.UUID]entity.VaultItem
}

type memSnapshot struct {
	users    map[uuid.UUID]entity.User
	otps     map[uuid.UUID]entity.OTP
	sessions map[uuid.UUID]entity.Session
	vault    map[uuid.UUID]entity.VaultItem
}

func (s *memStore) snapshot() memSnapshot {
	return memSnapshot{
		users:    maps.Clone(s.users),
		otps:     maps.Clone(s.otps),
		sessions: maps.Clone(s.sessions),
		vault:    maps.Clone(s.vault),
	}
}

func (s *memStore) restore(snap memSnapshot) {
	s.users = snap.users
	s.otps = snap.otps
	s.sessions = snap.sessions
	s.vault = snap.vault
}

type memConn struct {
	store *memStore
	inTx  bool
}

func (c memConn) lock() func() {
	if c.inTx {
		return func() {}
	}
	c.store.mu.Lock()
	return c.store.mu.Unlock
}

// NewMemoryRepository builds repositories over an empty in-memory store.
func NewMemoryRepository(log *zap.Logger) *Repository {
	store := &memStore{
		users:    make(map[uuid.UUID]entity.User),
		otps:     make(map[uuid.UUID]entity.OTP),
		sessions: make(map[uuid.UUID]entity.Session),
		vault:    make(map[uuid.UUID]entity.VaultItem),
	}

	repo := newMemRepository(memConn{store: store}, log)
	repo.runTx = func(ctx context.Context, fn func(*Repository) error) (err error) {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}

		store.mu.Lock()
		defer store.mu.Unlock()

		snap := store.snapshot()
		defer func() {
			if p := recover(); p != nil {
				store.restore(snap)
				panic(p)
			}
			if err != nil {
				store.restore(snap)
			}
		}()

		txRepo := newMemRepository(memConn{store: store, inTx: true}, log)
		txRepo.runTx = joinTx(txRepo)
		return fn(txRepo)
	}
	return repo
}

func newMemRepository(conn memConn, log *zap.Logger) *Repository {
	return &Repository{
		User:    &memUserRepository{conn: conn, log: log.With(zap.String("repository", "user"))},
		Session: &memSessionRepository{conn: conn},
		OTP:     &memOTPRepository{conn: conn},
		Vault:   &memVaultRepository{conn: conn},
	}
}

// ==================== USER ====================

type memUserRepository struct {
	conn memConn
	log  *zap.Logger
}

func (r *memUserRepository) Create(_ context.Context, user *entity.User) error {
	defer r.conn.lock()()

	for _, u := range r.conn.store.users {
		if u.Email == user.Email {
			return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
		}
	}
	r.conn.store.users[user.ID] = *user
	return nil
}

func (r *memUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	defer r.conn.lock()()

	u, ok := r.conn.store.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *memUserRepository) FindByEmail(_ context.Context, email string) (*entity.User, error) {
	defer r.conn.lock()()

	for _, u := range r.conn.store.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *memUserRepository) FindAll(_ context.Context, limit, offset int) ([]*entity.User, error) {
	defer r.conn.lock()()

	all := make([]entity.User, 0, len(r.conn.store.users))
	for _, u := range r.conn.store.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return bytes.Compare(all[i].ID[:], all[j].ID[:]) > 0
	})

	var users []*entity.User
	for i := offset; i < len(all) && len(users) < limit; i++ {
		u := all[i]
		users = append(users, &u)
	}
	return users, nil
}

func (r *memUserRepository) CountAll(_ context.Context) (int64, error) {
	defer r.conn.lock()()
	return int64(len(r.conn.store.users)), nil
}

func (r *memUserRepository) MarkVerified(_ context.Context, id uuid.UUID, at time.Time) (bool, error) {
	defer r.conn.lock()()

	u, ok := r.conn.store.users[id]
	if !ok || u.IsVerified {
		return false, nil
	}
	u.IsVerified = true
	u.UpdatedAt = at
	r.conn.store.users[id] = u
	return true, nil
}

func (r *memUserRepository) ReplacePendingCredentials(_ context.Context, id uuid.UUID, passwordHash string, phone *string, at time.Time) (bool, error) {
	defer r.conn.lock()()

	u, ok := r.conn.store.users[id]
	if !ok || u.IsVerified {
		return false, nil
	}
	u.PasswordHash = passwordHash
	u.Phone = phone
	u.UpdatedAt = at
	r.conn.store.users[id] = u
	return true, nil
}

func (r *memUserRepository) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	defer r.conn.lock()()

	if _, ok := r.conn.store.users[id]; !ok {
		return false, nil
	}
	r.conn.store.deleteUser(id)
	return true, nil
}

func (r *memUserRepository) DeleteUnverifiedByEmail(_ context.Context, email string) (int64, error) {
	defer r.conn.lock()()

	var n int64
	for id, u := range r.conn.store.users {
		if u.Email == email && !u.IsVerified {
			r.conn.store.deleteUser(id)
			n++
		}
	}
	return n, nil
}

func (r *memUserRepository) DeleteStaleUnverified(_ context.Context, cutoff time.Time) (int64, error) {
	defer r.conn.lock()()

	recent := make(map[string]bool)
	for _, o := range r.conn.store.otps {
		if !o.CreatedAt.Before(cutoff) {
			recent[o.Email] = true
		}
	}

	var n int64
	for id, u := range r.conn.store.users {
		if !u.IsVerified && u.CreatedAt.Before(cutoff) && !recent[u.Email] {
			r.conn.store.deleteUser(id)
			n++
		}
	}
	if n > 0 {
		r.log.Debug("Deleted stale unverified users", zap.Int64("count", n))
	}
	return n, nil
}

// deleteUser mirrors the ON DELETE CASCADE foreign keys.
func (s *memStore) deleteUser(id uuid.UUID) {
	delete(s.users, id)
	maps.DeleteFunc(s.vault, func(_ uuid.UUID, item entity.VaultItem) bool { return item.UserID == id })
	maps.DeleteFunc(s.sessions, func(_ uuid.UUID, sess entity.Session) bool { return sess.UserID == id })
}

// ==================== OTP ====================

type memOTPRepository struct {
	conn memConn
}

func (r *memOTPRepository) Create(_ context.Context, otp *entity.OTP) error {
	defer r.conn.lock()()
	r.conn.store.otps[otp.ID] = *otp
	return nil
}

func (r *memOTPRepository) FindLatestByEmail(_ context.Context, email string) (*entity.OTP, error) {
	defer r.conn.lock()()

	var latest *entity.OTP
	for _, o := range r.conn.store.otps {
		if o.Email != email {
			continue
		}
		if latest == nil || newerOTP(o, *latest) {
			latest = &o
		}
	}
	return latest, nil
}

func newerOTP(a, b entity.OTP) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return bytes.Compare(a.ID[:], b.ID[:]) > 0
}

func (r *memOTPRepository) DeleteByID(_ context.Context, id uuid.UUID) (bool, error) {
	defer r.conn.lock()()

	if _, ok := r.conn.store.otps[id]; !ok {
		return false, nil
	}
	delete(r.conn.store.otps, id)
	return true, nil
}

func (r *memOTPRepository) DeleteByEmail(_ context.Context, email string) (int64, error) {
	defer r.conn.lock()()

	before := len(r.conn.store.otps)
	maps.DeleteFunc(r.conn.store.otps, func(_ uuid.UUID, o entity.OTP) bool { return o.Email == email })
	return int64(before - len(r.conn.store.otps)), nil
}

func (r *memOTPRepository) DeleteCreatedBefore(_ context.Context, cutoff time.Time) (int64, error) {
	defer r.conn.lock()()

	before := len(r.conn.store.otps)
	maps.DeleteFunc(r.conn.store.otps, func(_ uuid.UUID, o entity.OTP) bool { return o.CreatedAt.Before(cutoff) })
	return int64(before - len(r.conn.store.otps)), nil
}

// ==================== SESSION ====================

type memSessionRepository struct {
	conn memConn
}

func (r *memSessionRepository) Create(_ context.Context, session *entity.Session) error {
	defer r.conn.lock()()

	if _, ok := r.conn.store.users[session.UserID]; !ok {
		return fmt.Errorf("create session: user %s does not exist", session.UserID.String())
	}
	r.conn.store.sessions[session.ID] = *session
	return nil
}

func (r *memSessionRepository) FindValidSession(_ context.Context, token string, now time.Time) (*entity.Session, error) {
	defer r.conn.lock()()

	for _, s := range r.conn.store.sessions {
		if s.Token == token && s.RevokedAt == nil && s.ExpiresAt.After(now) {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *memSessionRepository) Revoke(_ context.Context, token string, at time.Time) (bool, error) {
	defer r.conn.lock()()

	for id, s := range r.conn.store.sessions {
		if s.Token == token && s.RevokedAt == nil {
			revokedAt := at
			s.RevokedAt = &revokedAt
			r.conn.store.sessions[id] = s
			return true, nil
		}
	}
	return false, nil
}

func (r *memSessionRepository) RevokeAllUserSessions(_ context.Context, userID uuid.UUID, at time.Time) error {
	defer r.conn.lock()()

	for id, s := range r.conn.store.sessions {
		if s.UserID == userID && s.RevokedAt == nil {
			revokedAt := at
			s.RevokedAt = &revokedAt
			r.conn.store.sessions[id] = s
		}
	}
	return nil
}

func (r *memSessionRepository) CleanExpiredSessions(_ context.Context, cutoff time.Time) (int64, error) {
	defer r.conn.lock()()

	before := len(r.conn.store.sessions)
	maps.DeleteFunc(r.conn.store.sessions, func(_ uuid.UUID, s entity.Session) bool {
		return s.ExpiresAt.Before(cutoff) || (s.RevokedAt != nil && s.RevokedAt.Before(cutoff))
	})
	return int64(before - len(r.conn.store.sessions)), nil
}

// ==================== VAULT ====================

type memVaultRepository struct {
	conn memConn
}

func cloneItem(item entity.VaultItem) *entity.VaultItem {
	item.Username = slices.Clone(item.Username)
	item.Password = slices.Clone(item.Password)
	return &item
}

func (r *memVaultRepository) Create(_ context.Context, item *entity.VaultItem) error {
	defer r.conn.lock()()

	if _, ok := r.conn.store.users[item.UserID]; !ok {
		return fmt.Errorf("create vault item: user %s does not exist", item.UserID.String())
	}
	r.conn.store.vault[item.ID] = *cloneItem(*item)
	return nil
}

func (r *memVaultRepository) FindByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*entity.VaultItem, error) {
	defer r.conn.lock()()

	item, ok := r.conn.store.vault[id]
	if !ok || item.UserID != ownerID {
		return nil, nil
	}
	return cloneItem(item), nil
}

func (r *memVaultRepository) FindAllByOwner(_ context.Context, ownerID uuid.UUID) ([]*entity.VaultItem, error) {
	defer r.conn.lock()()

	items := make([]*entity.VaultItem, 0)
	for _, item := range r.conn.store.vault {
		if item.UserID == ownerID {
			items = append(items, cloneItem(item))
		}
	}
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return bytes.Compare(items[i].ID[:], items[j].ID[:]) < 0
	})
	return items, nil
}

func (r *memVaultRepository) Update(_ context.Context, item *entity.VaultItem) (bool, error) {
	defer r.conn.lock()()

	existing, ok := r.conn.store.vault[item.ID]
	if !ok || existing.UserID != item.UserID {
		return false, nil
	}
	existing.Website = item.Website
	existing.Username = slices.Clone(item.Username)
	existing.Password = slices.Clone(item.Password)
	existing.UpdatedAt = item.UpdatedAt
	r.conn.store.vault[item.ID] = existing
	return true, nil
}

func (r *memVaultRepository) Delete(_ context.Context, id, ownerID uuid.UUID) (bool, error) {
	defer r.conn.lock()()

	item, ok := r.conn.store.vault[id]
	if !ok || item.UserID != ownerID {
		return false, nil
	}
	delete(r.conn.store.vault, id)
	return true, nil
}
