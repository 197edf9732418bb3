package gate_test

import (
	"context"
	"testing"

	"github.com/diewo77/stock-admin/gate"
)

func TestStaticProfile_HasPermission(t *testing.T) {
	cashier := gate.NewStaticProfile("cashier",
		gate.NewPermission("pos", gate.ActionCheckout),
		gate.NewPermission("product", gate.ActionList),
	)
	if !cashier.HasPermission("pos:checkout") {
		t.Error("cashier should checkout")
	}
	if cashier.HasPermission("product:delete") {
		t.Error("cashier should not delete products")
	}
	if cashier.Name() != "cashier" {
		t.Errorf("unexpected name %q", cashier.Name())
	}
}

func TestStaticResolver(t *testing.T) {
	r := gate.NewStaticResolver[string]()
	r.Set("u1", gate.NewStaticProfile("driver", "order:view"))

	p, err := r.Resolve(context.Background(), "u1")
	if err != nil || p == nil {
		t.Fatalf("expected profile, got %v %v", p, err)
	}
	if p.Name() != "driver" {
		t.Errorf("expected driver, got %q", p.Name())
	}

	unknown, err := r.Resolve(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unknown != nil {
		t.Error("expected nil profile for unknown user")
	}
}
