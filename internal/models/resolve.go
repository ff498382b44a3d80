package models

// AssetClass identifies which symbol table a keyword is resolved against.
type AssetClass string

const (
	AssetClassAuto      AssetClass = "auto"
	AssetClassCommodity AssetClass = "commodity"
	AssetClassFX        AssetClass = "fx"
	AssetClassIndex     AssetClass = "index"
	AssetClassEquity    AssetClass = "equity"
)

// Match kinds, in descending confidence order.
const (
	MatchExact   = "exact"
	MatchAlias   = "alias"
	MatchPartial = "partial"
)

// SymbolCandidate is one possible canonical symbol for a resolved keyword.
type SymbolCandidate struct {
	Symbol     string     `json:"symbol"`
	Label      string     `json:"label"`
	Class      AssetClass `json:"class"`
	MatchType  string     `json:"match_type"`
	Confidence float64    `json:"confidence"`
}
