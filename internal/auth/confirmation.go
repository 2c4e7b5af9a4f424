package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"time"

	"reviewhub/internal/httpapi/models"
)

// CodeGenerator derives single-use confirmation codes from persisted user
// state instead of storing random values. A code stays valid until the user
// row it was derived from changes (email, role, password, last login) or the
// TTL passes. Exchanging a code bumps last_login, which invalidates it.
type CodeGenerator struct {
	secret []byte
	ttl    time.Duration
}

func NewCodeGenerator(secret string, ttl time.Duration) *CodeGenerator {
	return &CodeGenerator{secret: []byte(secret), ttl: ttl}
}

// Generate returns a code of the form "<base36 timestamp>-<hmac hex>".
func (g *CodeGenerator) Generate(user *models.User, now time.Time) string {
	ts := strconv.FormatInt(now.Unix(), 36)
	return ts + "-" + g.signature(user, ts)
}

// Check verifies code against the user's current state. It recomputes the
// signature rather than comparing against anything stored, so any state
// change since issuance makes the check fail.
func (g *CodeGenerator) Check(user *models.User, code string, now time.Time) bool {
	ts, sig, found := strings.Cut(code, "-")
	if !found || ts == "" || sig == "" {
		return false
	}

	issuedUnix, err := strconv.ParseInt(ts, 36, 64)
	if err != nil {
		return false
	}
	issued := time.Unix(issuedUnix, 0)
	if issued.After(now) {
		return false
	}
	if g.ttl > 0 && now.Sub(issued) > g.ttl {
		return false
	}

	return hmac.Equal([]byte(sig), []byte(g.signature(user, ts)))
}

func (g *CodeGenerator) signature(user *models.User, ts string) string {
	lastLogin := ""
	if user.LastLogin != nil {
		lastLogin = strconv.FormatInt(user.LastLogin.Unix(), 10)
	}
	state := strings.Join([]string{
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.PasswordHash,
		lastLogin,
		ts,
	}, "|")

	mac := hmac.New(sha256.New, g.secret)
	mac.Write([]byte(state))
	return hex.EncodeToString(mac.Sum(nil))[:32]
}
