package rbac

import "testing"

func testPolicy() *Policy {
	return &Policy{
		DefaultRole: "guest",
		Roles: []RoleSpec{
			{
				Name:     "admin",
				Users:    StringSet{Values: []string{"408001372", "447903128"}},
				Tools:    Wildcard(),
				Channels: Wildcard(),
			},
			{
				Name:     "guest-telegram",
				Users:    Wildcard(),
				Tools:    StringSet{Values: []string{"get_recent_news"}},
				Channels: StringSet{Values: []string{"telegram"}},
			},
			{
				Name:     "guest",
				Users:    Wildcard(),
				Tools:    StringSet{Values: []string{"get_recent_news"}},
				Channels: Wildcard(),
			},
		},
	}
}

func TestResolveRole_FirstMatchWins(t *testing.T) {
	p := testPolicy()

	if got := ResolveRole(p, "408001372", "telegram", true); got != "admin" {
		t.Errorf("got %q, want admin", got)
	}
}

func TestResolveRole_ChannelSpecificRole(t *testing.T) {
	p := testPolicy()

	if got := ResolveRole(p, "999", "telegram", true); got != "guest-telegram" {
		t.Errorf("got %q, want guest-telegram", got)
	}
}

func TestResolveRole_ChannelAbsentSkipsSpecificRole(t *testing.T) {
	p := testPolicy()

	if got := ResolveRole(p, "999", "", false); got != "guest" {
		t.Errorf("got %q, want guest (a list-channel role never matches when channel is absent)", got)
	}
}

func TestResolveRole_FallsBackToDefault(t *testing.T) {
	p := &Policy{
		DefaultRole: "guest",
		Roles: []RoleSpec{
			{Name: "admin", Users: StringSet{Values: []string{"1"}}, Tools: Wildcard(), Channels: Wildcard()},
			{Name: "guest", Users: StringSet{Values: []string{"2"}}, Tools: Wildcard(), Channels: Wildcard()},
		},
	}

	if got := ResolveRole(p, "unknown-peer", "", false); got != "guest" {
		t.Errorf("got %q, want guest (the configured defaultRole)", got)
	}
}
