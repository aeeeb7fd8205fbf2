// Package seed populates an empty store with the standard catalog
// structure a new workshop starts from.
package seed

import (
	"fmt"

	"github.com/skagerrak-boats/slipway/internal/audit"
	"github.com/skagerrak-boats/slipway/internal/repo"
	"github.com/skagerrak-boats/slipway/pkg/types"
)

// systemActor tags seed writes in the audit ledger.
var systemActor = audit.Actor{UserID: "system", UserName: "System"}

// builtInCategory describes a catalog category to seed on first run.
type builtInCategory struct {
	name          string
	sortOrder     int
	subcategories []string
}

// builtInCategories defines the standard boat-building catalog
// structure.
var builtInCategories = []builtInCategory{
	{
		name:          "Hull",
		sortOrder:     0,
		subcategories: []string{"Laminate", "Keel", "Rudder"},
	},
	{
		name:          "Deck",
		sortOrder:     1,
		subcategories: []string{"Hardware", "Teak", "Hatches"},
	},
	{
		name:          "Rigging",
		sortOrder:     2,
		subcategories: []string{"Mast", "Boom", "Standing rigging", "Running rigging"},
	},
	{
		name:          "Sails",
		sortOrder:     3,
		subcategories: []string{"Mainsail", "Headsail", "Downwind"},
	},
	{
		name:          "Electrical",
		sortOrder:     4,
		subcategories: []string{"Batteries", "Navigation", "Lighting"},
	},
	{
		name:          "Engine",
		sortOrder:     5,
		subcategories: []string{"Inboard", "Saildrive", "Controls"},
	},
	{
		name:          "Interior",
		sortOrder:     6,
		subcategories: []string{"Galley", "Upholstery", "Plumbing"},
	},
}

// builtInStaff lists the initial workshop roles.
var builtInStaff = []types.Staff{
	{Name: "Workshop Manager", Email: "manager@example.com", Role: "manager", HourlyRate: 95},
	{Name: "Lead Boatbuilder", Email: "lead@example.com", Role: "boatbuilder", HourlyRate: 78},
	{Name: "Rigger", Email: "rigger@example.com", Role: "rigger", HourlyRate: 72},
}

// Run seeds the standard categories, subcategories, and staff if the
// store is empty. Seeding is idempotent: namespaces that already hold
// records are left alone.
func Run(store types.Store, ledger *audit.Ledger) error {
	if err := seedCatalog(store, ledger); err != nil {
		return err
	}
	return seedStaff(store, ledger)
}

func seedCatalog(store types.Store, ledger *audit.Ledger) error {
	n, err := store.Count(types.NamespaceCategories, nil)
	if err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if n > 0 {
		return nil
	}

	categories := repo.NewCategories(store, ledger)
	for _, bc := range builtInCategories {
		cat := &types.Category{Name: bc.name, SortOrder: bc.sortOrder}
		if err := categories.Create(cat, systemActor); err != nil {
			return fmt.Errorf("seeding category %s: %w", bc.name, err)
		}
		for i, name := range bc.subcategories {
			sub := &types.Subcategory{CategoryID: cat.ID, Name: name, SortOrder: i}
			if err := categories.CreateSub(sub, systemActor); err != nil {
				return fmt.Errorf("seeding subcategory %s under %s: %w", name, bc.name, err)
			}
		}
	}
	return nil
}

func seedStaff(store types.Store, ledger *audit.Ledger) error {
	n, err := store.Count(types.NamespaceStaff, nil)
	if err != nil {
		return fmt.Errorf("counting staff: %w", err)
	}
	if n > 0 {
		return nil
	}

	staff := repo.NewStaffMembers(store, ledger)
	for _, bs := range builtInStaff {
		s := bs
		if err := staff.Create(&s, systemActor); err != nil {
			return fmt.Errorf("seeding staff %s: %w", bs.Name, err)
		}
	}
	return nil
}
