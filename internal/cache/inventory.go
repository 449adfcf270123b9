package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	ProfileKeyPrefix    = "profile:%s"
	SigningKeyKeyPrefix = "signing-key:%s"
)

const (
	// ProfileTTL is short: handles and avatars change out from under us.
	ProfileTTL = 5 * time.Minute
	// SigningKeyTTL is longer: key rotation is rare and verification failures
	// degrade to anonymous rather than erroring.
	SigningKeyTTL = 15 * time.Minute
)

func ProfileKey(did string) string {
	return fmt.Sprintf(ProfileKeyPrefix, did)
}

func SigningKeyKey(did string) string {
	return fmt.Sprintf(SigningKeyKeyPrefix, did)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateProfile(ctx context.Context, did string) {
	Invalidate(ctx, ProfileKey(did))
}
