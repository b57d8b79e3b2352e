package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/globalcheck"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/importer"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/plan"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

// inputFlags binds one flag per building input, defaulting to the example building.
// Help text shows the metric defaults.
type inputFlags struct {
	values globalcheck.Inputs
	unit   units.UnitSystem
	file   string
	plan   string

	// loaded is the floor plan read by resolve, if any
	loaded *plan.Plan
}

func flagName(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}

func (f *inputFlags) register(fs *pflag.FlagSet) {
	f.values = globalcheck.DefaultInputs()
	for _, field := range globalcheck.Fields {
		fs.Float64Var(field.Addr(&f.values), flagName(field.Key), field.Value(f.values), usage(field))
	}
	fs.VarP(&f.unit, "unit", "u", "Unit system: metric (kN, m) or imperial (kip, ft)")
	fs.StringVarP(&f.file, "input", "i", "", "Read inputs from a JSON file; explicit flags override it")
	fs.StringVar(&f.plan, "plan", "", "Derive floor area, facade areas and height from a JSON floor plan")
}

func usage(field globalcheck.Field) string {
	metric := units.Metric.Label(field.Quantity)
	imperial := units.Imperial.Label(field.Quantity)
	if metric == imperial {
		return fmt.Sprintf("%s (%s)", field.Label, metric)
	}
	return fmt.Sprintf("%s (%s or %s)", field.Label, metric, imperial)
}

// resolve merges the JSON input file and the floor plan (if any) with the flags
// that were set explicitly. Explicit flags always win. Without an input file the
// example building fills every other field, expressed in the selected unit system.
func (f *inputFlags) resolve(fs *pflag.FlagSet) (globalcheck.Inputs, error) {
	in := f.values
	in.Unit = f.unit
	if f.file == "" {
		defaults := globalcheck.DefaultInputs().In(f.unit)
		for _, field := range globalcheck.Fields {
			if !fs.Changed(flagName(field.Key)) {
				field.Set(&in, field.Value(defaults))
			}
		}
	} else {
		loaded, err := importer.LoadFromFile(f.file)
		if err != nil {
			return globalcheck.Inputs{}, fmt.Errorf("reading %s: %w", f.file, err)
		}
		for _, field := range globalcheck.Fields {
			if fs.Changed(flagName(field.Key)) {
				field.Set(&loaded, field.Value(f.values))
			}
		}
		if fs.Changed("unit") {
			loaded.Unit = f.unit
		}
		in = loaded
	}

	if f.plan != "" {
		p, err := plan.LoadFromFile(f.plan)
		if err != nil {
			return globalcheck.Inputs{}, fmt.Errorf("reading %s: %w", f.plan, err)
		}
		keep := make(map[string]bool)
		for _, key := range plan.Keys {
			keep[key] = fs.Changed(flagName(key))
		}
		p.Apply(&in, keep)
		f.loaded = p
	}
	return in, in.Validate()
}

// criteriaFlags select and override the typical ranges and limits
type criteriaFlags struct {
	file       string
	structure  criteria.StructureType
	driftLimit float64
	cu         float64
}

func (c *criteriaFlags) register(fs *pflag.FlagSet) {
	c.structure = criteria.ConcreteMomentFrame
	fs.StringVar(&c.file, "criteria", "", "JSON file overriding the default ranges and limits")
	fs.Var(&c.structure, "structure", "Structural system for Ct and x: "+structureList())
	fs.Float64Var(&c.driftLimit, "drift-limit", criteria.DefaultDriftLimit, "Allowable drift ratio Δ/H")
	fs.Float64Var(&c.cu, "cu", criteria.DefaultCu, "Upper-limit coefficient Cu for T_max = Cu·T_approx")
}

func structureList() string {
	var names []string
	for _, st := range criteria.StructureTypes() {
		names = append(names, string(st))
	}
	return strings.Join(names, ", ")
}

// resolve applies the criteria file first, then any flags set explicitly
func (c *criteriaFlags) resolve(fs *pflag.FlagSet) (criteria.Criteria, error) {
	crit := criteria.Default()
	if c.file != "" {
		loaded, err := criteria.LoadFromFile(c.file)
		if err != nil {
			return criteria.Criteria{}, fmt.Errorf("reading %s: %w", c.file, err)
		}
		crit = loaded
	}
	if fs.Changed("structure") {
		crit = crit.WithStructure(c.structure)
	}
	if fs.Changed("drift-limit") {
		crit.DriftLimit = c.driftLimit
	}
	if fs.Changed("cu") {
		crit.Cu = c.cu
	}
	return crit, crit.Validate()
}
