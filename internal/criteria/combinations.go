package criteria

// LoadCombination represents a basic strength design load combination
// (ASCE 7-16 Section 2.3.1). Lateral factors apply to the larger direction.
type LoadCombination struct {
	ID          string
	Description string
	// Load factors for each load type
	Dead       float64 // D - dead + superimposed dead load
	Live       float64 // L - live load
	Wind       float64 // W - wind load
	Earthquake float64 // E - earthquake load
}

// BuildingLoads holds unfactored building totals (kN)
type BuildingLoads struct {
	Dead       float64
	Live       float64
	Wind       float64
	Earthquake float64
}

// NewBuildingLoads groups the global check inputs into combination load types.
// Wind and earthquake take the governing direction.
func NewBuildingLoads(dl, ll, sdl, wx, wy, eqx, eqy float64) BuildingLoads {
	return BuildingLoads{
		Dead:       dl + sdl,
		Live:       ll,
		Wind:       max(wx, wy),
		Earthquake: max(eqx, eqy),
	}
}

// Gravity returns D + L
func (b BuildingLoads) Gravity() float64 {
	return b.Dead + b.Live
}

// LoadCombinations are the basic combinations relevant to building totals
var LoadCombinations = []LoadCombination{
	{
		ID:          "1",
		Description: "1.4D",
		Dead:        1.4,
	},
	{
		ID:          "2",
		Description: "1.2D + 1.6L",
		Dead:        1.2,
		Live:        1.6,
	},
	{
		ID:          "4",
		Description: "1.2D + 1.0W + 1.0L",
		Dead:        1.2,
		Live:        1.0,
		Wind:        1.0,
	},
	{
		ID:          "5",
		Description: "1.2D + 1.0E + 1.0L",
		Dead:        1.2,
		Live:        1.0,
		Earthquake:  1.0,
	},
	{
		ID:          "6",
		Description: "0.9D + 1.0W",
		Dead:        0.9,
		Wind:        1.0,
	},
	{
		ID:          "7",
		Description: "0.9D + 1.0E",
		Dead:        0.9,
		Earthquake:  1.0,
	},
}

// Vertical returns the factored vertical load of the combination.
// Lateral loads do not add to the vertical total.
func (lc LoadCombination) Vertical(loads BuildingLoads) float64 {
	return lc.Dead*loads.Dead + lc.Live*loads.Live
}

// Lateral returns the factored base shear of the combination
func (lc LoadCombination) Lateral(loads BuildingLoads) float64 {
	return lc.Wind*loads.Wind + lc.Earthquake*loads.Earthquake
}

// CombinationResult is the factored response to one combination
type CombinationResult struct {
	Combination LoadCombination
	Vertical    float64 // kN
	Lateral     float64 // kN
}

// Apply evaluates every combination against the loads
func Apply(loads BuildingLoads, combinations []LoadCombination) []CombinationResult {
	out := make([]CombinationResult, 0, len(combinations))
	for _, combo := range combinations {
		out = append(out, CombinationResult{
			Combination: combo,
			Vertical:    combo.Vertical(loads),
			Lateral:     combo.Lateral(loads),
		})
	}
	return out
}

// Governing finds the combinations producing the largest vertical load and base shear.
// A zero result keeps the first combination of the list.
func Governing(loads BuildingLoads, combinations []LoadCombination) (vertical, lateral CombinationResult) {
	for i, r := range Apply(loads, combinations) {
		if i == 0 || r.Vertical > vertical.Vertical {
			vertical = r
		}
		if i == 0 || r.Lateral > lateral.Lateral {
			lateral = r
		}
	}
	return vertical, lateral
}
