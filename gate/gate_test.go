package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/stock-admin/gate"
)

type scoped struct{ company string }

func newTestGate() *gate.Gate[string] {
	r := gate.NewStaticResolver[string]()
	r.Set("admin", gate.NewStaticProfile("admin", gate.PermissionSuperAdmin))
	r.Set("mgr", gate.NewStaticProfile("manager", "product:*"))
	g := gate.New[string](r)
	g.Register("product", gate.PolicyFunc[string](func(_ context.Context, user string, _ gate.Action, res any) bool {
		s, ok := res.(scoped)
		return user == "admin" || (ok && s.company == "c1")
	}))
	return g
}

func TestGate_ZeroUser(t *testing.T) {
	g := newTestGate()
	if err := g.Authorize(context.Background(), "", gate.ActionView, "product", nil); err != gate.ErrUnauthorized {
		t.Errorf("expected ErrUnauthorized, got %v", err)
	}
}

func TestGate_ProfileOnly(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()
	if !g.CanProfile(ctx, "mgr", gate.ActionCreate, "product") {
		t.Error("manager should create products")
	}
	if g.CanProfile(ctx, "mgr", gate.ActionDelete, "user") {
		t.Error("manager should not delete users")
	}
	if g.CanProfile(ctx, "stranger", gate.ActionList, "product") {
		t.Error("user without profile should be denied")
	}
}

func TestGate_ResourcePolicy(t *testing.T) {
	g := newTestGate()
	ctx := context.Background()
	if !g.Can(ctx, "mgr", gate.ActionUpdate, "product", scoped{company: "c1"}) {
		t.Error("manager should update product of own company")
	}
	if g.Can(ctx, "mgr", gate.ActionUpdate, "product", scoped{company: "c2"}) {
		t.Error("manager should not update product of another company")
	}
	if !g.Can(ctx, "admin", gate.ActionDelete, "product", scoped{company: "c2"}) {
		t.Error("admin should bypass company scope")
	}
}

func TestGate_Policy(t *testing.T) {
	g := newTestGate()
	if _, ok := g.Policy("product"); !ok {
		t.Error("expected product policy")
	}
	if _, ok := g.Policy("order"); ok {
		t.Error("did not expect order policy")
	}
}
