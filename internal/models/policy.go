package models

// Category is an asset-allocation class. Allocation policy is expressed
// per category; symbols map onto categories via fixed policy data.
type Category string

const (
	CategoryStocksUS   Category = "Stocks (US)"
	CategoryStocksIntl Category = "Stocks (Intl)"
	CategoryBonds      Category = "Bonds"
	CategoryRealEstate Category = "Real Estate"
	CategoryOther      Category = "Other"
)

// CategoryOrder is the fixed iteration order for allocation math. The last
// configured category in this order absorbs the remaining cash on buys.
var CategoryOrder = []Category{
	CategoryStocksUS,
	CategoryStocksIntl,
	CategoryBonds,
	CategoryRealEstate,
}

// TargetAllocation maps category to target percentage. Values are relative
// weights and need not sum to exactly 100.
type TargetAllocation map[Category]float64

// Clone returns a copy safe to adjust without touching the policy original.
func (t TargetAllocation) Clone() TargetAllocation {
	out := make(TargetAllocation, len(t))
	for c, pct := range t {
		out[c] = pct
	}
	return out
}

// AssetCategories is the fixed symbol-to-category policy map.
var AssetCategories = map[string]Category{
	"VTI":   CategoryStocksUS,
	"VTIAX": CategoryStocksIntl,
	"BND":   CategoryBonds,
	"VNQ":   CategoryRealEstate,
	"SPY":   CategoryStocksUS,
	"QQQ":   CategoryStocksUS,
	"IWM":   CategoryStocksUS,
	"EFA":   CategoryStocksIntl,
	"TLT":   CategoryBonds,
	"IYR":   CategoryRealEstate,
	"VEA":   CategoryStocksIntl,
	"VWO":   CategoryStocksIntl,
	"AGG":   CategoryBonds,
	"BNDX":  CategoryBonds,
	"VXUS":  CategoryStocksIntl,
	"VUG":   CategoryStocksUS,
	"VTV":   CategoryStocksUS,
	"VYM":   CategoryStocksUS,
	"SCHD":  CategoryStocksUS,
	"DGRO":  CategoryStocksUS,
}

// AssetCategory returns the category for a symbol, or CategoryOther when the
// symbol is outside the policy universe.
func AssetCategory(symbol string) Category {
	if c, ok := AssetCategories[symbol]; ok {
		return c
	}
	return CategoryOther
}

// PrimaryETFs designates the representative symbol evaluated on the sell
// side for each category.
var PrimaryETFs = map[Category]string{
	CategoryStocksUS:   "VTI",
	CategoryStocksIntl: "VTIAX",
	CategoryBonds:      "BND",
	CategoryRealEstate: "VNQ",
}

// DiversificationMap lists the candidate symbols eligible for buys in each
// category, primary ETF first.
var DiversificationMap = map[Category][]string{
	CategoryStocksUS:   {"VTI", "SPY", "QQQ", "VUG", "VTV", "VYM", "SCHD", "DGRO"},
	CategoryStocksIntl: {"VTIAX", "EFA", "VEA", "VWO", "VXUS"},
	CategoryBonds:      {"BND", "TLT", "AGG", "BNDX"},
	CategoryRealEstate: {"VNQ", "IYR"},
}

// Sectors is the fixed sector-to-symbols grouping used only for market
// condition analysis. Sectors are finer grained than categories.
var Sectors = map[string][]string{
	"US Large Cap":  {"SPY", "VTI"},
	"US Small Cap":  {"IWM"},
	"International": {"EFA", "VTIAX"},
	"Bonds":         {"BND", "TLT"},
	"Real Estate":   {"VNQ", "IYR"},
	"Tech":          {"QQQ"},
}

// CategorySector maps each category to the sector whose stats back its
// reasoning and sell-side sentiment checks.
var CategorySector = map[Category]string{
	CategoryStocksUS:   "US Large Cap",
	CategoryStocksIntl: "International",
	CategoryBonds:      "Bonds",
	CategoryRealEstate: "Real Estate",
}

// ResearchSymbols is the fixed universe fetched for market analysis,
// independent of current holdings.
var ResearchSymbols = []string{
	"VTI", "VTIAX", "BND", "VNQ", "SPY", "QQQ", "IWM", "EFA", "TLT", "IYR",
	"VEA", "VWO", "AGG", "BNDX", "VXUS", "VUG", "VTV", "VYM", "SCHD", "DGRO",
}
