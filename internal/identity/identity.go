package identity

// Voter identity is a tagged variant: a vote or a piece of content is cast by
// either a registered user or an anonymous browser, never both and never
// neither. Keeping the exclusivity structural avoids the two-nullable-columns
// trap everywhere above the storage layer.

type Kind int

const (
	KindNone Kind = iota
	KindUser
	KindAnonymous
)

type Identity struct {
	Kind        Kind
	UserID      uint
	AnonymousID string
}

func Registered(userID uint) Identity {
	return Identity{Kind: KindUser, UserID: userID}
}

func Anonymous(anonID string) Identity {
	return Identity{Kind: KindAnonymous, AnonymousID: anonID}
}

func (i Identity) Valid() bool {
	switch i.Kind {
	case KindUser:
		return i.UserID != 0
	case KindAnonymous:
		return i.AnonymousID != ""
	}
	return false
}

func (i Identity) IsRegistered() bool {
	return i.Kind == KindUser
}

// Key returns a stable string key for rate-limit bucketing.
func (i Identity) Key() string {
	if i.Kind == KindUser {
		return "u:" + uitoa(i.UserID)
	}
	return "a:" + i.AnonymousID
}

func uitoa(v uint) string {
	if v == 0 {
		return "0"
	}
	var buf [20]byte
	pos := len(buf)
	for v > 0 {
		pos--
		buf[pos] = byte('0' + v%10)
		v /= 10
	}
	return string(buf[pos:])
}
