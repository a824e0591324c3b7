package rbac

// ResolveRole maps (peerId, channel) to a role name under first-match,
// channel-aware semantics (§4.3). channelPresent distinguishes "no
// channel segment in the session key" from a non-empty channel string;
// a role with an explicit channel list never matches when channel is
// absent, regardless of the list's contents.
func ResolveRole(policy *Policy, peerID, channel string, channelPresent bool) string {
	for _, role := range policy.Roles {
		if !usersMatch(role.Users, peerID) {
			continue
		}
		if !channelsMatch(role.Channels, channel, channelPresent) {
			continue
		}
		return role.Name
	}
	return policy.DefaultRole
}

func usersMatch(users StringSet, peerID string) bool {
	return users.All || users.Contains(peerID)
}

func channelsMatch(channels StringSet, channel string, channelPresent bool) bool {
	if channels.All {
		return true
	}
	if !channelPresent {
		return false
	}
	return channels.Contains(channel)
}
