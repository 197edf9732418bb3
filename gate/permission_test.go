package gate_test

import (
	"testing"

	"github.com/diewo77/stock-admin/gate"
)

func TestNewPermission(t *testing.T) {
	if p := gate.NewPermission("product", gate.ActionCreate); p != "product:create" {
		t.Errorf("expected product:create, got %q", p)
	}
}

func TestParsePermission(t *testing.T) {
	p, err := gate.ParsePermission(" Order:Assign ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != "order:assign" {
		t.Errorf("expected order:assign, got %q", p)
	}
	for _, bad := range []string{"", "order", ":view", "order:"} {
		if _, err := gate.ParsePermission(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestPermission_Split(t *testing.T) {
	res, act := gate.Permission("stock:adjust").Split()
	if res != "stock" || act != gate.ActionAdjust {
		t.Errorf("unexpected split %q %q", res, act)
	}
	res, act = gate.Permission("invalid").Split()
	if res != "" || act != "" {
		t.Errorf("expected empty split, got %q %q", res, act)
	}
}

func TestPermission_Matches(t *testing.T) {
	cases := []struct {
		granted   gate.Permission
		requested gate.Permission
		want      bool
	}{
		{"product:create", "product:create", true},
		{"product:create", "product:delete", false},
		{"product:create", "order:create", false},
		{gate.PermissionSuperAdmin, "truck:delete", true},
		{"order:*", "order:assign", true},
		{"order:*", "stock:list", false},
		{"*:list", "driver:list", true},
		{"*:list", "driver:update", false},
		{"broken", "product:view", false},
	}
	for _, c := range cases {
		if got := c.granted.Matches(c.requested); got != c.want {
			t.Errorf("%s matches %s: got %v, want %v", c.granted, c.requested, got, c.want)
		}
	}
}

func TestPermissionSet_Sorted(t *testing.T) {
	s := gate.NewPermissionSet("stock:list", "order:view", "order:list")
	got := s.Sorted()
	want := []gate.Permission{"order:list", "order:view", "stock:list"}
	if len(got) != len(want) {
		t.Fatalf("expected %d permissions, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %s want %s", i, got[i], want[i])
		}
	}
}
