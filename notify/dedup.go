package notify

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	defaultDedupSize = 2000
	defaultDedupTTL  = 10 * time.Minute
)

type dedupNotifier struct {
	next INotifier
	sent *lru.LRU[string, struct{}]
}

// WithDedup drops messages whose key was already delivered within ttl.
func WithDedup(next INotifier, size int, ttl time.Duration) INotifier {
	if size <= 0 {
		size = defaultDedupSize
	}
	if ttl <= 0 {
		ttl = defaultDedupTTL
	}
	return &dedupNotifier{
		next: next,
		sent: lru.NewLRU[string, struct{}](size, nil, ttl),
	}
}

func (d *dedupNotifier) Name() string {
	return d.next.Name()
}

func (d *dedupNotifier) Notify(ctx context.Context, msg *Message) error {
	if len(msg.Key) != 0 {
		if _, ok := d.sent.Get(msg.Key); ok {
			logutil.GetLogger(ctx).Debug("skip duplicate notification", zap.String("key", msg.Key))
			return nil
		}
	}
	if err := d.next.Notify(ctx, msg); err != nil {
		return err
	}
	if len(msg.Key) != 0 {
		d.sent.Add(msg.Key, struct{}{})
	}
	return nil
}
