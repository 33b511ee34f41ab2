package model

// TokenMetrics is an immutable market snapshot for one token,
// fetched fresh each time it is used.
type TokenMetrics struct {
	Mint                   string  `json:"mint"`
	Symbol                 string  `json:"symbol"`
	Name                   string  `json:"name"`
	Price                  float64 `json:"price"`           // USD
	PriceChange24h         float64 `json:"priceChange24h"`  // percent
	Volume24h              float64 `json:"volume24h"`       // USD
	VolumeChange           float64 `json:"volumeChange"`    // percent
	Liquidity              float64 `json:"liquidity"`       // USD
	LiquidityChange        float64 `json:"liquidityChange"` // percent
	Holders                int     `json:"holders"`
	HoldersChange          float64 `json:"holdersChange"`          // percent
	TopHolderConcentration float64 `json:"topHolderConcentration"` // percent
	TokenAgeHours          float64 `json:"tokenAgeHours"`
	MintAuthority          bool    `json:"mintAuthority"`
	FreezeAuthority        bool    `json:"freezeAuthority"`
	LPLocked               bool    `json:"lpLocked"`
	LPAge                  float64 `json:"lpAge"` // hours
	DeployerAddress        string  `json:"deployerAddress"`
	DeployerPriorTokens    int     `json:"deployerPriorTokens"`
	DeployerRugCount       int     `json:"deployerRugCount"`
	CreatorAddress         string  `json:"creatorAddress,omitempty"`
	CreatorHoldPct         float64 `json:"creatorHoldPct,omitempty"`
	CreatorIsWhale         bool    `json:"creatorIsWhale,omitempty"`
}
