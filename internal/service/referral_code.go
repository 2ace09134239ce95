package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

// codeAlphabet excludes 0/O/1/I to keep codes readable over the phone.
const (
	codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	codePrefix   = "BM-"
	codeLength   = 6
)

// GenerateReferralCode returns a random code like BM-X7KQ2M.
func GenerateReferralCode() string {
	var b strings.Builder
	b.WriteString(codePrefix)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := 0; i < codeLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand failing means the platform is broken; fall
			// back to a time-derived index rather than aborting signup
			n = big.NewInt(time.Now().UnixNano() % int64(len(codeAlphabet)))
		}
		b.WriteByte(codeAlphabet[n.Int64()])
	}
	return b.String()
}

// ensureUniqueCode retries random codes against the store; after
// repeated collisions it appends a timestamp fragment to force
// uniqueness.
func ensureUniqueCode(ctx context.Context, exists func(context.Context, string) (bool, error)) (string, error) {
	for i := 0; i < 10; i++ {
		code := GenerateReferralCode()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	suffix := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	if len(suffix) > 3 {
		suffix = suffix[len(suffix)-3:]
	}
	return GenerateReferralCode() + suffix, nil
}
