package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/diewo77/stock-admin/internal/pos"
)

type cartRecord struct {
	SessionID string `gorm:"primaryKey;size:36"`
	Lines     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (cartRecord) TableName() string { return "pos_carts" }

// CartStore keeps one POS cart per session.
type CartStore struct {
	db *gorm.DB
}

func NewCartStore(db *gorm.DB) *CartStore {
	return &CartStore{db: db}
}

// Load returns the session's cart, or an empty one.
func (cs *CartStore) Load(ctx context.Context, sessionID string) (*pos.Cart, error) {
	var rec cartRecord
	err := cs.db.WithContext(ctx).First(&rec, "session_id = ?", sessionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &pos.Cart{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	var cart pos.Cart
	if err := json.Unmarshal([]byte(rec.Lines), &cart.Lines); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	return &cart, nil
}

// Save replaces the session's cart. An empty cart is deleted.
func (cs *CartStore) Save(ctx context.Context, sessionID string, cart *pos.Cart) error {
	if cart == nil || cart.Empty() {
		return cs.Delete(ctx, sessionID)
	}
	b, err := json.Marshal(cart.Lines)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	rec := cartRecord{SessionID: sessionID, Lines: string(b)}
	err = cs.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"lines", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

// Delete drops the session's cart.
func (cs *CartStore) Delete(ctx context.Context, sessionID string) error {
	if err := cs.db.WithContext(ctx).Delete(&cartRecord{}, "session_id = ?", sessionID).Error; err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

// DeleteOrphans removes carts whose session is gone.
func (cs *CartStore) DeleteOrphans(ctx context.Context) (int64, error) {
	db := cs.db.WithContext(ctx)
	res := db.Where("session_id NOT IN (?)", db.Model(&sessionRecord{}).Select("id")).Delete(&cartRecord{})
	if res.Error != nil {
		return 0, fmt.Errorf("delete orphan carts: %w", res.Error)
	}
	return res.RowsAffected, nil
}
