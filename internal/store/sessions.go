package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/diewo77/stock-admin/auth"
)

// ErrSessionNotFound is returned for unknown, expired or unreadable sessions.
var ErrSessionNotFound = errors.New("store: session not found")

type sessionRecord struct {
	ID          string `gorm:"primaryKey;size:36"`
	UserID      string `gorm:"index;size:64"`
	Name        string
	Email       string
	Role        string `gorm:"size:32"`
	CompanyID   string `gorm:"size:64"`
	TokenSealed []byte
	ExpiresAt   time.Time `gorm:"index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (sessionRecord) TableName() string { return "sessions" }

// SessionStore keeps login sessions. Bearer tokens are sealed at rest.
type SessionStore struct {
	db    *gorm.DB
	box   sealer
	clock func() time.Time
}

// NewSessionStore returns a store sealing tokens with a key derived from
// secret.
func NewSessionStore(db *gorm.DB, secret string) *SessionStore {
	return &SessionStore{db: db, box: newSealer(secret), clock: time.Now}
}

// Create persists s, assigning a new id when s.ID is empty.
func (st *SessionStore) Create(ctx context.Context, s *auth.Session) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	sealed, err := st.box.seal(s.Token)
	if err != nil {
		return fmt.Errorf("seal token: %w", err)
	}
	rec := sessionRecord{
		ID:          s.ID,
		UserID:      s.UserID,
		Name:        s.Name,
		Email:       s.Email,
		Role:        s.Role,
		CompanyID:   s.CompanyID,
		TokenSealed: sealed,
		ExpiresAt:   s.ExpiresAt,
	}
	if err := st.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Get returns a live session.
func (st *SessionStore) Get(ctx context.Context, id string) (*auth.Session, error) {
	var rec sessionRecord
	err := st.db.WithContext(ctx).First(&rec, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !rec.ExpiresAt.After(st.clock()) {
		return nil, ErrSessionNotFound
	}
	token, err := st.box.open(rec.TokenSealed)
	if err != nil {
		return nil, ErrSessionNotFound
	}
	return &auth.Session{
		ID:        rec.ID,
		UserID:    rec.UserID,
		Name:      rec.Name,
		Email:     rec.Email,
		Role:      rec.Role,
		CompanyID: rec.CompanyID,
		Token:     token,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Loader adapts Get to auth.SessionLoader.
func (st *SessionStore) Loader() auth.SessionLoader {
	return st.Get
}

// SlidingLoader is Loader with a sliding expiry: once less than half of ttl
// remains, the session is pushed back to a full ttl.
func (st *SessionStore) SlidingLoader(ttl time.Duration) auth.SessionLoader {
	if ttl <= 0 {
		return st.Get
	}
	return func(ctx context.Context, id string) (*auth.Session, error) {
		s, err := st.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		now := st.clock()
		if s.ExpiresAt.Sub(now) < ttl/2 {
			expires := now.Add(ttl)
			if err := st.Touch(ctx, id, expires); err == nil {
				s.ExpiresAt = expires
			}
		}
		return s, nil
	}
}

// Touch moves the expiry of a session.
func (st *SessionStore) Touch(ctx context.Context, id string, expires time.Time) error {
	res := st.db.WithContext(ctx).Model(&sessionRecord{}).Where("id = ?", id).Update("expires_at", expires)
	if res.Error != nil {
		return fmt.Errorf("touch session: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (st *SessionStore) Delete(ctx context.Context, id string) error {
	if err := st.db.WithContext(ctx).Delete(&sessionRecord{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteByUser signs a user out everywhere.
func (st *SessionStore) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res := st.db.WithContext(ctx).Delete(&sessionRecord{}, "user_id = ?", userID)
	if res.Error != nil {
		return 0, fmt.Errorf("delete user sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// DeleteExpired removes sessions past their expiry and returns how many.
func (st *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	res := st.db.WithContext(ctx).Delete(&sessionRecord{}, "expires_at <= ?", st.clock())
	if res.Error != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", res.Error)
	}
	return res.RowsAffected, nil
}
