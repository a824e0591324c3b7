package rbac

import "strings"

// PeerKind is the routing segment distinguishing a direct message from a
// group or broadcast channel.
type PeerKind string

const (
	PeerKindDirect  PeerKind = "direct"
	PeerKindGroup   PeerKind = "group"
	PeerKindChannel PeerKind = "channel"
)

// ParsedSessionKey is the recovered sender identity and channel decoded
// from an opaque host routing string (§3, §4.2).
type ParsedSessionKey struct {
	PeerID   string
	Channel  string // empty when absent
	PeerKind PeerKind
}

// ParseSessionKey decodes a colon-delimited session key of one of the five
// shapes in §4.2. It returns ok == false for "agent:<a>:main" and for any
// string that does not carry a recognizable peer-kind segment.
//
// Pure and deterministic, with no normalization of peerId (it is treated
// as an opaque string).
func ParseSessionKey(key string) (parsed ParsedSessionKey, ok bool) {
	segments := strings.Split(key, ":")
	if len(segments) < 4 {
		return ParsedSessionKey{}, false
	}

	peerKindIdx := -1
	for i := 2; i < len(segments); i++ {
		switch PeerKind(segments[i]) {
		case PeerKindDirect, PeerKindGroup, PeerKindChannel:
			peerKindIdx = i
		}
		if peerKindIdx != -1 {
			break
		}
	}
	if peerKindIdx == -1 {
		return ParsedSessionKey{}, false
	}

	peerIdx := peerKindIdx + 1
	if peerIdx >= len(segments) {
		return ParsedSessionKey{}, false
	}
	peerID := segments[peerIdx]
	if peerID == "" {
		return ParsedSessionKey{}, false
	}

	var channel string
	if peerKindIdx >= 3 {
		channel = segments[2]
	}

	return ParsedSessionKey{
		PeerID:   peerID,
		Channel:  channel,
		PeerKind: PeerKind(segments[peerKindIdx]),
	}, true
}
