// Package policy maps dashboard roles to gate profiles and wires the
// authorization gate used by the HTTP layer.
package policy

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/diewo77/stock-admin/gate"
	"github.com/diewo77/stock-admin/internal/models"
)

// Resource types checked by the gate.
const (
	ResourceProduct      = "product"
	ResourceCategory     = "category"
	ResourceStock        = "stock"
	ResourceOrder        = "order"
	ResourceTruck        = "truck"
	ResourceDriver       = "driver"
	ResourceReport       = "report"
	ResourcePOS          = "pos"
	ResourceNotification = "notification"
	ResourceCompany      = "company"
	ResourceUser         = "user"
)

var defaultPermissions = map[string][]string{
	models.RoleAdmin: {"*:*"},
	models.RoleManager: {
		"product:*", "category:*", "stock:*", "order:*", "truck:*", "driver:*",
		"report:*", "pos:*",
		"notification:list", "company:view", "company:list", "user:list", "user:view",
	},
	models.RoleCashier: {
		"pos:*", "product:list", "product:view", "category:list",
		"order:list", "order:view", "order:create", "order:print", "stock:list",
	},
	models.RoleDriver: {"order:list", "order:view"},
}

// Roles holds one profile per role name.
type Roles struct {
	profiles map[string]*gate.StaticProfile
}

// DefaultRoles returns the built-in role table.
func DefaultRoles() *Roles {
	r, err := newRoles(defaultPermissions)
	if err != nil {
		panic(err)
	}
	return r
}

func newRoles(table map[string][]string) (*Roles, error) {
	r := &Roles{profiles: make(map[string]*gate.StaticProfile, len(table))}
	for name, raw := range table {
		perms := make([]gate.Permission, 0, len(raw))
		for _, s := range raw {
			p, err := gate.ParsePermission(s)
			if err != nil {
				return nil, fmt.Errorf("role %s: %w", name, err)
			}
			perms = append(perms, p)
		}
		r.profiles[name] = gate.NewStaticProfile(name, perms...)
	}
	return r, nil
}

type rolesFile struct {
	Roles map[string][]string `yaml:"roles"`
}

// LoadRoles reads a YAML role file and lays it over the defaults. A role
// listed in the file replaces the built-in permissions of that role; new
// roles are added. An empty path returns the defaults.
//
//	roles:
//	  cashier: ["pos:*", "product:list"]
func LoadRoles(path string) (*Roles, error) {
	if path == "" {
		return DefaultRoles(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roles file: %w", err)
	}
	var f rolesFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse roles file: %w", err)
	}
	table := make(map[string][]string, len(defaultPermissions)+len(f.Roles))
	for k, v := range defaultPermissions {
		table[k] = v
	}
	for k, v := range f.Roles {
		table[k] = v
	}
	return newRoles(table)
}

// Profile returns the profile for role, or nil for an unknown role.
func (r *Roles) Profile(role string) gate.Profile {
	if p, ok := r.profiles[role]; ok {
		return p
	}
	return nil
}

// Names lists the known roles, sorted.
func (r *Roles) Names() []string {
	out := make([]string, 0, len(r.profiles))
	for k := range r.profiles {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
