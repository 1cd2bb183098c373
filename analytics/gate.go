package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// anonymousIdentifier is the dedup identity used when neither a reader id nor a client
// address is known. All such guests collapse into a single identity within the window.
const anonymousIdentifier = "anonymous"

// DedupGate decides whether a read should be counted. A short-lived redis key per
// (article, identifier) pair suppresses repeat reads inside the configured window.
type DedupGate struct {
	rdb    *redis.Client
	window time.Duration
	log    *zap.SugaredLogger
}

// NewDedupGate constructs a gate around an existing redis client.
func NewDedupGate(rdb *redis.Client, window time.Duration, logger *zap.Logger) *DedupGate {
	return &DedupGate{rdb: rdb, window: window, log: logger.Sugar()}
}

// Identifier resolves the dedup identity for a read: reader id when authenticated,
// else the client address, else the anonymous sentinel. Guests sharing an address
// within the window count as one reader; that is an accepted tradeoff.
func Identifier(readerID *string, ip string) string {
	if readerID != nil && *readerID != "" {
		return *readerID
	}
	if ip != "" {
		return ip
	}
	return anonymousIdentifier
}

// Allow reports whether a read for (article, identifier) should be recorded. The
// check-and-set is a single atomic SET NX with expiry, so two concurrent reads by the
// same identifier cannot both pass. A redis failure fails open: the read is recorded
// and the error logged, because tracking must never depend on the gate being healthy.
func (g *DedupGate) Allow(ctx context.Context, articleID string, readerID *string, ip string) bool {
	key := dedupKey(articleID, Identifier(readerID, ip))

	ok, err := g.rdb.SetNX(ctx, key, "1", g.window).Result()
	if err != nil {
		g.log.Warnf("dedup gate unavailable, failing open: %v", err)
		return true
	}
	return ok
}

func dedupKey(articleID, identifier string) string {
	return fmt.Sprintf("read_limit:%s:%s", articleID, identifier)
}
