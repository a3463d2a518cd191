package intent

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

type token struct {
	chainID  string
	priceUSD float64
}

var tokens = map[string]token{
	"ATOM": {chainID: "cosmoshub-4", priceUSD: 9.50},
	"OSMO": {chainID: "osmosis-1", priceUSD: 0.65},
	"USDC": {chainID: "noble-1", priceUSD: 1.00},
	"NTRN": {chainID: "neutron-1", priceUSD: 0.45},
	"STRD": {chainID: "stride-1", priceUSD: 1.20},
}

type tradingPair struct {
	input  string
	output string
	weight float64
}

// Pairs are weighted by observed trading volume.
var tradingPairs = []tradingPair{
	{"ATOM", "OSMO", 0.25},
	{"OSMO", "ATOM", 0.20},
	{"ATOM", "USDC", 0.20},
	{"USDC", "ATOM", 0.15},
	{"NTRN", "ATOM", 0.10},
	{"ATOM", "NTRN", 0.05},
	{"OSMO", "USDC", 0.05},
}

type userProfile struct {
	name          string
	weight        float64
	amountUSDMin  float64
	amountUSDMax  float64
	slippagePctlo float64
	slippagePcthi float64
	timeoutMin    int
	timeoutMax    int
}

var userProfiles = []userProfile{
	{name: "retail", weight: 0.70, amountUSDMin: 10, amountUSDMax: 500, slippagePctlo: 0.5, slippagePcthi: 2.0, timeoutMin: 30, timeoutMax: 120},
	{name: "trader", weight: 0.20, amountUSDMin: 500, amountUSDMax: 10000, slippagePctlo: 0.1, slippagePcthi: 0.5, timeoutMin: 15, timeoutMax: 60},
	{name: "whale", weight: 0.10, amountUSDMin: 10000, amountUSDMax: 1000000, slippagePctlo: 0.2, slippagePcthi: 1.0, timeoutMin: 60, timeoutMax: 300},
}

var fillStrategies = []string{"eager", "all_or_nothing", "price_based"}
var fillPercents = []int{50, 75, 80, 90, 100}
var hopChoices = []int{2, 3, 4}

// Generator produces random trading intents. It is safe for concurrent use;
// a run's worker goroutines share a single Generator.
type Generator struct {
	mu  sync.Mutex
	rnd *rand.Rand

	// PriceDeviation perturbs token prices by up to the given fraction in
	// either direction. Zero means quoted prices are used as-is.
	PriceDeviation float64
}

// NewGenerator returns a Generator seeded with the given value. A zero seed
// selects a time-based seed.
func NewGenerator(seed int64) *Generator {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Intent synthesizes one trading intent timestamped now.
func (g *Generator) Intent() Intent {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.intentAt(time.Now().UTC())
}

// intentAt must be called with g.mu held.
func (g *Generator) intentAt(ts time.Time) Intent {
	pair := g.pickPair()
	profile := g.pickProfile()

	input := tokens[pair.input]
	output := tokens[pair.output]

	usdAmount := g.uniform(profile.amountUSDMin, profile.amountUSDMax)
	inputPrice := input.priceUSD * (1 + g.PriceDeviation*g.uniform(-1, 1))
	outputPrice := output.priceUSD * (1 + g.PriceDeviation*g.uniform(-1, 1))

	// Token amounts in micro units.
	inputAmount := int64(usdAmount / inputPrice * 1_000_000)
	expectedOutput := int64(usdAmount / outputPrice * 1_000_000)

	slippage := g.uniform(profile.slippagePctlo, profile.slippagePcthi) / 100
	minOutput := int64(float64(expectedOutput) * (1 - slippage))

	return Intent{
		ID:          fmt.Sprintf("intent_%s", g.newUUID()),
		UserAddress: g.address(),
		Input: AssetIn{
			ChainID: input.chainID,
			Denom:   pair.input,
			Amount:  inputAmount,
		},
		Output: AssetOut{
			ChainID:   output.chainID,
			Denom:     pair.output,
			MinAmount: minOutput,
		},
		FillConfig: FillConfig{
			AllowPartial:   g.rnd.Float64() > 0.3,
			MinFillPercent: fillPercents[g.rnd.Intn(len(fillPercents))],
			Strategy:       fillStrategies[g.rnd.Intn(len(fillStrategies))],
		},
		Constraints: Constraints{
			MaxHops:        hopChoices[g.rnd.Intn(len(hopChoices))],
			AllowedVenues:  []string{},
			ExcludedVenues: []string{},
			MaxSlippageBps: int(slippage * 10000),
		},
		TimeoutSeconds: profile.timeoutMin + g.rnd.Intn(profile.timeoutMax-profile.timeoutMin+1),
		CreatedAt:      ts,
		Metadata: Metadata{
			Profile:        profile.name,
			USDValue:       float64(int(usdAmount*100)) / 100,
			ExpectedOutput: expectedOutput,
		},
	}
}

// MatchingPair synthesizes two opposing intents that a matching engine
// could cross against each other.
func (g *Generator) MatchingPair() (Intent, Intent) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ts := time.Now().UTC()
	first := g.intentAt(ts)
	second := g.intentAt(ts)

	second.Input.Denom = first.Output.Denom
	second.Input.ChainID = first.Output.ChainID
	second.Output.Denom = first.Input.Denom
	second.Output.ChainID = first.Input.ChainID

	// Sized so the two sides roughly clear.
	second.Input.Amount = int64(float64(first.Output.MinAmount) * g.uniform(0.9, 1.1))
	second.Output.MinAmount = int64(float64(first.Input.Amount) * g.uniform(0.85, 0.95))

	return first, second
}

// Batch synthesizes count intents spread over timeSpan, with roughly
// matchingRatio of them forming opposing pairs. The result is sorted by
// creation time.
func (g *Generator) Batch(count int, matchingRatio float64, timeSpan time.Duration) []Intent {
	if count <= 0 {
		return nil
	}

	intents := make([]Intent, 0, count)
	start := time.Now().UTC()

	matchingCount := int(float64(count) * matchingRatio / 2)
	for i := 0; i < matchingCount; i++ {
		first, second := g.MatchingPair()
		g.mu.Lock()
		offset := time.Duration(g.rnd.Float64() * float64(timeSpan))
		gap := time.Duration(g.rnd.Float64() * float64(5*time.Second))
		g.mu.Unlock()
		first.CreatedAt = start.Add(offset)
		second.CreatedAt = start.Add(offset + gap)
		intents = append(intents, first, second)
	}

	g.mu.Lock()
	for len(intents) < count {
		offset := time.Duration(g.rnd.Float64() * float64(timeSpan))
		intents = append(intents, g.intentAt(start.Add(offset)))
	}
	g.mu.Unlock()

	sort.Slice(intents, func(i, j int) bool {
		return intents[i].CreatedAt.Before(intents[j].CreatedAt)
	})
	return intents
}

func (g *Generator) pickPair() tradingPair {
	r := g.rnd.Float64() * totalPairWeight()
	for _, p := range tradingPairs {
		r -= p.weight
		if r < 0 {
			return p
		}
	}
	return tradingPairs[len(tradingPairs)-1]
}

func (g *Generator) pickProfile() userProfile {
	var total float64
	for _, p := range userProfiles {
		total += p.weight
	}
	r := g.rnd.Float64() * total
	for _, p := range userProfiles {
		r -= p.weight
		if r < 0 {
			return p
		}
	}
	return userProfiles[len(userProfiles)-1]
}

func totalPairWeight() float64 {
	var total float64
	for _, p := range tradingPairs {
		total += p.weight
	}
	return total
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rnd.Float64()*(hi-lo)
}

const addressChars = "0123456789abcdef"

// address returns a random bech32-shaped cosmos address.
func (g *Generator) address() string {
	buf := make([]byte, 38)
	for i := range buf {
		buf[i] = addressChars[g.rnd.Intn(len(addressChars))]
	}
	return "cosmos1" + string(buf)
}

// newUUID draws from the generator's seeded source so runs are reproducible.
func (g *Generator) newUUID() string {
	id, err := uuid.NewRandomFromReader(g.rnd)
	if err != nil {
		// rand.Rand's Read never fails; fall back just in case.
		return uuid.NewString()
	}
	return id.String()
}
