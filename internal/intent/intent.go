// Package intent synthesizes random trading intents for load generation.
package intent

import "time"

// AssetIn describes the asset a user offers.
type AssetIn struct {
	ChainID string `json:"chain_id"`
	Denom   string `json:"denom"`
	Amount  int64  `json:"amount"`
}

// AssetOut describes the asset a user wants, with its minimum acceptable
// amount after slippage.
type AssetOut struct {
	ChainID   string `json:"chain_id"`
	Denom     string `json:"denom"`
	MinAmount int64  `json:"min_amount"`
}

// FillConfig controls how an intent may be filled.
type FillConfig struct {
	AllowPartial   bool   `json:"allow_partial"`
	MinFillPercent int    `json:"min_fill_percent"`
	Strategy       string `json:"strategy"`
}

// Constraints bound intent routing.
type Constraints struct {
	MaxHops        int      `json:"max_hops"`
	AllowedVenues  []string `json:"allowed_venues"`
	ExcludedVenues []string `json:"excluded_venues"`
	MaxSlippageBps int      `json:"max_slippage_bps"`
}

// Metadata carries bookkeeping fields that are not part of the API surface.
type Metadata struct {
	Profile        string  `json:"profile"`
	USDValue       float64 `json:"usd_value"`
	ExpectedOutput int64   `json:"expected_output"`
}

// Intent is one synthesized trading intent, including the bookkeeping
// fields the generator attaches for simulation purposes.
type Intent struct {
	ID             string      `json:"id"`
	UserAddress    string      `json:"user_address"`
	Input          AssetIn     `json:"input"`
	Output         AssetOut    `json:"output"`
	FillConfig     FillConfig  `json:"fill_config"`
	Constraints    Constraints `json:"constraints"`
	TimeoutSeconds int         `json:"timeout_seconds"`
	CreatedAt      time.Time   `json:"created_at"`
	Metadata       Metadata    `json:"metadata"`
}

// Payload is the wire form of an intent: the transport-irrelevant fields
// (id, metadata, created_at) are stripped before sending.
type Payload struct {
	UserAddress    string      `json:"user_address"`
	Input          AssetIn     `json:"input"`
	Output         AssetOut    `json:"output"`
	FillConfig     FillConfig  `json:"fill_config"`
	Constraints    Constraints `json:"constraints"`
	TimeoutSeconds int         `json:"timeout_seconds"`
}

// Payload strips the intent down to its API representation.
func (i Intent) Payload() Payload {
	return Payload{
		UserAddress:    i.UserAddress,
		Input:          i.Input,
		Output:         i.Output,
		FillConfig:     i.FillConfig,
		Constraints:    i.Constraints,
		TimeoutSeconds: i.TimeoutSeconds,
	}
}
