package types

// Standard namespace names. A namespace is an isolated partition holding
// every record of one entity type; within a namespace, ids are unique
// and no operation spans two namespaces atomically.
const (
	NamespaceClients         = "clients"
	NamespaceProjects        = "projects"
	NamespaceCategories      = "categories"
	NamespaceSubcategories   = "subcategories"
	NamespaceArticles        = "articles"
	NamespaceArticleVersions = "article-versions"
	NamespaceKits            = "kits"
	NamespaceKitVersions     = "kit-versions"
	NamespaceStaff           = "staff"
	NamespaceTimesheets      = "timesheets"
	NamespaceAudit           = "audit"
)

// StandardNamespaces lists all namespaces for enumeration.
var StandardNamespaces = []string{
	NamespaceClients,
	NamespaceProjects,
	NamespaceCategories,
	NamespaceSubcategories,
	NamespaceArticles,
	NamespaceArticleVersions,
	NamespaceKits,
	NamespaceKitVersions,
	NamespaceStaff,
	NamespaceTimesheets,
	NamespaceAudit,
}

// Factories maps each namespace to a constructor for its record type.
// Backends use it to decode stored records into their concrete structs;
// an operation on a namespace without a factory fails with
// ErrNamespaceUnknown.
var Factories = map[string]func() Record{
	NamespaceClients:         func() Record { return &Client{} },
	NamespaceProjects:        func() Record { return &Project{} },
	NamespaceCategories:      func() Record { return &Category{} },
	NamespaceSubcategories:   func() Record { return &Subcategory{} },
	NamespaceArticles:        func() Record { return &Article{} },
	NamespaceArticleVersions: func() Record { return &ArticleVersion{} },
	NamespaceKits:            func() Record { return &Kit{} },
	NamespaceKitVersions:     func() Record { return &KitVersion{} },
	NamespaceStaff:           func() Record { return &Staff{} },
	NamespaceTimesheets:      func() Record { return &TimesheetEntry{} },
	NamespaceAudit:           func() Record { return &AuditEntry{} },
}
