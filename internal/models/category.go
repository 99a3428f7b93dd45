package models

// Category is the closed set of supply categories inferred from the
// free-text insumo column.
type Category string

const (
	CategoryPallets      Category = "Pallets"
	CategoryTarps        Category = "Tarps"
	CategoryPlastics     Category = "Plastics"
	CategorySpaces       Category = "Spaces"
	CategoryUnclassified Category = "Unclassified"
)

// ReportCategories are the categories rendered on the balance view, in
// display order. Unclassified items appear only in all-category totals.
var ReportCategories = []Category{CategoryPallets, CategoryTarps, CategoryPlastics, CategorySpaces}

// LocationType classifies a zone as yard or warehouse. Unknown is only
// produced when the configured fallback asks for it.
type LocationType string

const (
	LocationYard      LocationType = "Yard"
	LocationWarehouse LocationType = "Warehouse"
	LocationUnknown   LocationType = "Unknown"
)

// Status bucket labels used by the category breakdown payload.
const (
	BucketAvailable  = "available"
	BucketToRepair   = "to_repair"
	BucketToClassify = "to_classify"
)

// Status search terms matched case-insensitively against the free-text
// estado column. The upstream vocabulary is not a closed enum, so matching
// is substring based on purpose.
const (
	StatusTermAvailable = "disponible"
	StatusTermRepair    = "reparar"
	StatusTermClassify  = "clasificar"
)

// Event type labels after title-case normalization of tipo_evento.
const (
	EventTypeRepaired = "Reparada"
	EventTypeWriteOff = "Baja"
)
