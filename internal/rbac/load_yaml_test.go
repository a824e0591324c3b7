package rbac

import "testing"

func TestLoadYAML_PreservesRoleOrder(t *testing.T) {
	doc := []byte(`
roles:
  admin:
    users: ["408001372"]
    tools: "*"
  guest:
    users: "*"
    tools: ["get_recent_news"]
defaultRole: guest
`)

	p, err := LoadYAML(doc)
	if err != nil {
		t.Fatalf("LoadYAML() error = %v", err)
	}
	if len(p.Roles) != 2 || p.Roles[0].Name != "admin" || p.Roles[1].Name != "guest" {
		t.Fatalf("role order not preserved: %+v", p.Roles)
	}

	if got := ResolveRole(p, "408001372", "", false); got != "admin" {
		t.Errorf("ResolveRole() = %q, want admin", got)
	}
}

func TestLoadYAML_OrderingInvariantStillEnforced(t *testing.T) {
	doc := []byte(`
roles:
  guest:
    users: "*"
    tools: ["get_recent_news"]
  admin:
    users: ["1"]
    tools: "*"
defaultRole: guest
`)

	if _, err := LoadYAML(doc); err == nil {
		t.Fatal("expected an ordering error: wildcard-users role declared before a specific-users role")
	}
}

func TestLoadYAML_InvalidYAML(t *testing.T) {
	if _, err := LoadYAML([]byte("not: [valid")); err == nil {
		t.Fatal("expected an error for malformed YAML")
	}
}
