package cache

import (
	"context"
	"fmt"
	"time"
)

// Logical resource keys. Invalidation happens only after a mutation has
// succeeded; a failed write must leave cached reads untouched.
const (
	UserKeyPrefix       = "user:%d"
	PublicPostKeyPrefix = "public:post:%s"
)

const (
	UserTTL       = 5 * time.Minute
	PublicPostTTL = 10 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PublicPostKey(slug string) string {
	return fmt.Sprintf(PublicPostKeyPrefix, slug)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePublicPost(ctx context.Context, slug string) {
	Invalidate(ctx, PublicPostKey(slug))
}
