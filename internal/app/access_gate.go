package app

import "strings"

// Identity is the sender of an inbound command or button press.
type Identity struct {
	ID       int64
	Username string
}

// AccessGate authorizes inbound interactions against the configured boss
// identity: the numeric chat ID when one is configured, with a
// case-insensitive username comparison as the fallback.
type AccessGate struct {
	bossChatID   int64 // 0 when not configured
	bossUsername string
}

func NewAccessGate(bossChatID int64, bossUsername string) *AccessGate {
	return &AccessGate{
		bossChatID:   bossChatID,
		bossUsername: bossUsername,
	}
}

// IsAuthorized reports whether the identity is the boss.
func (g *AccessGate) IsAuthorized(identity Identity) bool {
	if g.bossChatID != 0 && identity.ID == g.bossChatID {
		return true
	}
	if g.bossUsername == "" || identity.Username == "" {
		return false
	}
	return strings.EqualFold(identity.Username, g.bossUsername)
}
