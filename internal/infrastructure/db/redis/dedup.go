package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sendDedupTTL = 7 * 24 * time.Hour

// SendDeduper provides per-campaign delivery idempotency backed by Redis.
// Key format: sent:<campaign_id>:<email>
type SendDeduper struct {
	client *redis.Client
}

// NewSendDeduper creates a SendDeduper wrapping the given Redis client.
func NewSendDeduper(client *redis.Client) *SendDeduper {
	return &SendDeduper{client: client}
}

// AlreadySent reports whether this campaign has already been delivered to the address.
func (d *SendDeduper) AlreadySent(ctx context.Context, campaignID, email string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(campaignID, email)).Result()
	if err != nil {
		return false, fmt.Errorf("send dedup check: %w", err)
	}
	return n > 0, nil
}

// MarkSent records the delivery (expires after sendDedupTTL).
func (d *SendDeduper) MarkSent(ctx context.Context, campaignID, email string) error {
	return d.client.Set(ctx, d.key(campaignID, email), "1", sendDedupTTL).Err()
}

func (d *SendDeduper) key(campaignID, email string) string {
	return fmt.Sprintf("sent:%s:%s", campaignID, email)
}
