package plan

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// Plan describes a building by its typical floor outline and storeys.
// The outline is a simple polygon in plan, X to the right and Y up,
// in the length unit of Unit.
type Plan struct {
	Name string           `json:"name,omitempty"`
	Unit units.UnitSystem `json:"unit"`

	// Typical floor outline; any winding order, no holes
	Vertices []Point `json:"vertices"`

	Stories     int     `json:"stories"`
	StoryHeight float64 `json:"story_height"`
}

// Point represents a 2D plan coordinate
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Properties holds the derived geometry, in the plan's units
type Properties struct {
	// Typical floor
	FloorArea float64
	CentroidX float64
	CentroidY float64

	// Bounding box
	MinX float64
	MaxX float64
	MinY float64
	MaxY float64

	// Building
	Height         float64
	TotalFloorArea float64
	// SideXArea is the facade loaded by wind along X (plan depth × height)
	SideXArea float64
	// SideYArea is the facade loaded by wind along Y (plan width × height)
	SideYArea float64
}

// LoadFromFile loads a plan definition from a JSON file
func LoadFromFile(filepath string) (*Plan, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}

	var p Plan
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing plan: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}

	return &p, nil
}

// Validate checks if the plan definition is valid
func (p *Plan) Validate() error {
	if len(p.Vertices) < 3 {
		return &ValidationError{"plan outline must have at least 3 vertices"}
	}
	for i, v := range p.Vertices {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return &ValidationError{fmt.Sprintf("vertex %d is not a finite point", i+1)}
		}
	}
	if p.Stories < 1 {
		return &ValidationError{"stories must be at least 1"}
	}
	if !(p.StoryHeight > 0) || math.IsInf(p.StoryHeight, 0) {
		return &ValidationError{"story height must be positive"}
	}
	if area, _, _ := p.areaAndCentroid(); area == 0 {
		return &ValidationError{"plan outline has zero area"}
	}
	return nil
}

// ValidationError represents a plan validation error
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// CalculateProperties computes the floor and facade geometry of the plan
func (p *Plan) CalculateProperties() *Properties {
	props := &Properties{}

	if len(p.Vertices) < 3 {
		return props
	}

	// Find bounding box
	props.MinX, props.MaxX = p.Vertices[0].X, p.Vertices[0].X
	props.MinY, props.MaxY = p.Vertices[0].Y, p.Vertices[0].Y

	for _, v := range p.Vertices {
		props.MinX = math.Min(props.MinX, v.X)
		props.MaxX = math.Max(props.MaxX, v.X)
		props.MinY = math.Min(props.MinY, v.Y)
		props.MaxY = math.Max(props.MaxY, v.Y)
	}

	props.FloorArea, props.CentroidX, props.CentroidY = p.areaAndCentroid()

	props.Height = float64(p.Stories) * p.StoryHeight
	props.TotalFloorArea = props.FloorArea * float64(p.Stories)
	props.SideXArea = (props.MaxY - props.MinY) * props.Height
	props.SideYArea = (props.MaxX - props.MinX) * props.Height

	return props
}

// areaAndCentroid uses the shoelace formula
func (p *Plan) areaAndCentroid() (area, cx, cy float64) {
	n := len(p.Vertices)
	if n < 3 {
		return 0, 0, 0
	}

	var signedArea float64
	var sumX, sumY float64

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		cross := p.Vertices[i].X*p.Vertices[j].Y - p.Vertices[j].X*p.Vertices[i].Y
		signedArea += cross
		sumX += (p.Vertices[i].X + p.Vertices[j].X) * cross
		sumY += (p.Vertices[i].Y + p.Vertices[j].Y) * cross
	}

	signedArea /= 2
	area = math.Abs(signedArea)

	if area > 0 {
		cx = sumX / (6 * signedArea)
		cy = sumY / (6 * signedArea)
	}

	return area, cx, cy
}

// Keys lists the geometry inputs set by Apply
var Keys = []string{"floor_area", "side_x_area", "side_y_area", "height"}

// Apply sets the floor area, facade areas and height of in from the plan,
// converting from the plan's units to in.Unit. Fields whose key is in keep are left alone.
func (p *Plan) Apply(in *globalcheck.Inputs, keep map[string]bool) {
	props := p.CalculateProperties()
	values := map[string]float64{
		"floor_area":  props.TotalFloorArea,
		"side_x_area": props.SideXArea,
		"side_y_area": props.SideYArea,
		"height":      props.Height,
	}
	for _, key := range Keys {
		if keep[key] {
			continue
		}
		f, ok := globalcheck.LookupField(key)
		if !ok {
			continue
		}
		canonical := p.Unit.ToCanonical(f.Quantity, values[key])
		f.Set(in, in.Unit.FromCanonical(f.Quantity, canonical))
	}
}
