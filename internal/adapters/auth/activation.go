package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventhub/internal/domain"
)

type activationTokens struct {
	secret []byte
	maxAge time.Duration
	now    func() time.Time
}

// NewActivationTokens returns an ActivationTokenGenerator producing tokens of
// the form "<timestamp base36>-<hmac hex>". The signature covers the user's
// id, email, active flag, and password hash, so a token stops verifying once
// the account is activated or the password changes. maxAge bounds token life.
func NewActivationTokens(secret string, maxAge time.Duration) domain.ActivationTokenGenerator {
	return &activationTokens{
		secret: []byte(secret),
		maxAge: maxAge,
		now:    time.Now,
	}
}

func (g *activationTokens) Make(user *domain.User) (string, error) {
	if user == nil || user.ID == "" {
		return "", fmt.Errorf("activation token requires a persisted user")
	}
	ts := g.now().Unix()
	return strconv.FormatInt(ts, 36) + "-" + g.sign(user, ts), nil
}

func (g *activationTokens) Check(user *domain.User, token string) bool {
	if user == nil || token == "" {
		return false
	}
	tsPart, sig, ok := strings.Cut(token, "-")
	if !ok {
		return false
	}
	ts, err := strconv.ParseInt(tsPart, 36, 64)
	if err != nil {
		return false
	}
	age := g.now().Sub(time.Unix(ts, 0))
	if age < 0 || age > g.maxAge {
		return false
	}
	return hmac.Equal([]byte(sig), []byte(g.sign(user, ts)))
}

func (g *activationTokens) sign(user *domain.User, ts int64) string {
	mac := hmac.New(sha256.New, g.secret)
	fmt.Fprintf(mac, "%s|%s|%t|%s|%d", user.ID, user.Email, user.IsActive, user.PasswordHash, ts)
	return hex.EncodeToString(mac.Sum(nil))
}
