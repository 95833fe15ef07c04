package tokens

import (
	"context"
	"errors"
	"time"

	"empowerment/models"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const revokedKeyPrefix = "trl:jti:"

// Blacklist tracks revoked refresh tokens by jti until they expire.
// Revoke reports whether this call was the one that revoked the token.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error)
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RedisBlacklist keeps one key per revoked token with the token's remaining lifetime.
type RedisBlacklist struct {
	client *redis.Client
}

func NewRedisBlacklist(client *redis.Client) *RedisBlacklist {
	return &RedisBlacklist{client: client}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" || ttl <= 0 {
		return false, nil
	}
	return b.client.SetNX(ctx, revokedKeyPrefix+jti, "1", ttl).Result()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	_, err := b.client.Get(ctx, revokedKeyPrefix+jti).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DBBlacklist stores revocations in the primary database.
type DBBlacklist struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDBBlacklist(db *gorm.DB) *DBBlacklist {
	return &DBBlacklist{db: db, now: time.Now}
}

func (b *DBBlacklist) Revoke(ctx context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" || ttl <= 0 {
		return false, nil
	}
	row := models.RevokedToken{JTI: jti, ExpiresAt: b.now().Add(ttl)}
	res := b.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&row)
	return res.RowsAffected == 1, res.Error
}

func (b *DBBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	if jti == "" {
		return false, nil
	}
	var count int64
	err := b.db.WithContext(ctx).
		Model(&models.RevokedToken{}).
		Where("jti = ? AND expires_at > ?", jti, b.now()).
		Count(&count).Error
	return count > 0, err
}

// Purge drops rows whose tokens have expired anyway.
func (b *DBBlacklist) Purge(ctx context.Context) (int64, error) {
	res := b.db.WithContext(ctx).Where("expires_at <= ?", b.now()).Delete(&models.RevokedToken{})
	return res.RowsAffected, res.Error
}
