package globalcheck

import (
	"errors"
	"math"
	"reflect"
	"sync"
	"testing"

	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/criteria"
	"github.com/AunSupertramp/ETABS-GlobalCheck/internal/units"
)

func mustEvaluate(t *testing.T, in Inputs) *Result {
	t.Helper()
	r, err := Evaluate(in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	return r
}

func metric(t *testing.T, r *Result, key string) Metric {
	t.Helper()
	m, ok := r.Metric(key)
	if !ok {
		t.Fatalf("metric %s missing", key)
	}
	return m
}

func assertMetric(t *testing.T, r *Result, key string, want float64, verdict Verdict) {
	t.Helper()
	m := metric(t, r, key)
	if m.Value == nil {
		t.Fatalf("%s undefined, want %v", key, want)
	}
	if math.Abs(*m.Value-want) > 1e-3 {
		t.Errorf("%s = %.5f, want %.5f", key, *m.Value, want)
	}
	if m.Verdict != verdict {
		t.Errorf("%s verdict = %s, want %s", key, m.Verdict, verdict)
	}
}

func assertUndefined(t *testing.T, r *Result, keys ...string) {
	t.Helper()
	for _, key := range keys {
		m := metric(t, r, key)
		if m.Value != nil || m.Verdict != Undefined {
			t.Errorf("%s = %v (%s), want undefined", key, m.Value, m.Verdict)
		}
		if m.Note == "" {
			t.Errorf("%s undefined without a note", key)
		}
	}
}

func TestLoadPerArea(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	assertMetric(t, r, KeyDLPerArea, 5.0, Reasonable)
	assertMetric(t, r, KeyLLPerArea, 2.0, Reasonable)
	assertMetric(t, r, KeySDLPerArea, 1.5, Reasonable)
}

func TestEarthquakeRatio(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	assertMetric(t, r, KeyEQRatio, 1.0909, Reasonable)

	in := DefaultInputs()
	in.EQx = 2000
	r = mustEvaluate(t, in)
	assertMetric(t, r, KeyEQRatio, 1.8182, Check)
}

func TestDriftRatio(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	assertMetric(t, r, KeyDrift, 0.005, Reasonable)
	if r.DriftRatio == nil || math.Abs(*r.DriftRatio-0.005) > 1e-12 {
		t.Fatalf("DriftRatio = %v", r.DriftRatio)
	}

	in := DefaultInputs()
	in.TopDisplacement = 0.9
	r = mustEvaluate(t, in)
	assertMetric(t, r, KeyDrift, 0.03, Check)
}

func TestTimePeriod(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	ta := 0.016 * math.Pow(30, 0.9)
	if r.TApprox == nil || math.Abs(*r.TApprox-ta) > 1e-12 {
		t.Fatalf("TApprox = %v, want %v", r.TApprox, ta)
	}
	if r.TMax == nil || math.Abs(*r.TMax-1.4*ta) > 1e-12 {
		t.Fatalf("TMax = %v, want %v", r.TMax, 1.4*ta)
	}
	assertMetric(t, r, KeyPeriod, 2.5, Check)

	in := DefaultInputs()
	in.PeriodModel = 0.4
	r = mustEvaluate(t, in)
	assertMetric(t, r, KeyPeriod, 0.4, Reasonable)
}

func TestLoadPercentages(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	if r.TotalVerticalLoad != 8500 {
		t.Fatalf("TotalVerticalLoad = %v", r.TotalVerticalLoad)
	}
	assertMetric(t, r, KeyDLPercent, 58.82, Reasonable)
	assertMetric(t, r, KeyLLPercent, 23.53, Reasonable)
	assertMetric(t, r, KeySDLPercent, 17.65, Reasonable)
}

func TestWindPerAreaReported(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	assertMetric(t, r, KeyWxPerArea, 1.6, Reported)
	assertMetric(t, r, KeyWyPerArea, 750.0/450.0, Reported)
	if m := metric(t, r, KeyWxPerArea); m.Range != nil {
		t.Fatalf("wind metric must not carry a range")
	}
}

func TestMetricOrder(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	want := []string{
		KeyDLPerArea, KeyLLPerArea, KeySDLPerArea, KeyWxPerArea, KeyWyPerArea,
		KeyEQRatio, KeyDLPercent, KeyLLPercent, KeySDLPercent, KeyDrift, KeyPeriod,
	}
	if len(r.Metrics) != len(want) {
		t.Fatalf("got %d metrics, want %d", len(r.Metrics), len(want))
	}
	for i, key := range want {
		if r.Metrics[i].Key != key {
			t.Errorf("metric %d = %s, want %s", i, r.Metrics[i].Key, key)
		}
	}
}

func TestBoundaries(t *testing.T) {
	t.Run("floor area zero", func(t *testing.T) {
		in := DefaultInputs()
		in.FloorArea = 0
		r := mustEvaluate(t, in)
		assertUndefined(t, r, KeyDLPerArea, KeyLLPerArea, KeySDLPerArea)
		assertMetric(t, r, KeyDLPercent, 58.82, Reasonable)
	})
	t.Run("side areas zero", func(t *testing.T) {
		in := DefaultInputs()
		in.SideXArea = 0
		in.SideYArea = 0
		r := mustEvaluate(t, in)
		assertUndefined(t, r, KeyWxPerArea, KeyWyPerArea)
	})
	t.Run("eqy zero", func(t *testing.T) {
		in := DefaultInputs()
		in.EQy = 0
		r := mustEvaluate(t, in)
		assertUndefined(t, r, KeyEQRatio)
		if r.EQRatio != nil {
			t.Fatalf("EQRatio = %v", *r.EQRatio)
		}
	})
	t.Run("height zero", func(t *testing.T) {
		in := DefaultInputs()
		in.Height = 0
		r := mustEvaluate(t, in)
		assertUndefined(t, r, KeyDrift, KeyPeriod)
		if r.DriftRatio != nil || r.TApprox != nil || r.TMax != nil {
			t.Fatalf("intermediates should be nil: %v %v %v", r.DriftRatio, r.TApprox, r.TMax)
		}
		assertMetric(t, r, KeyDLPerArea, 5.0, Reasonable)
	})
	t.Run("no vertical load", func(t *testing.T) {
		in := DefaultInputs()
		in.DL, in.LL, in.SDL = 0, 0, 0
		r := mustEvaluate(t, in)
		assertUndefined(t, r, KeyDLPercent, KeyLLPercent, KeySDLPercent)
		assertMetric(t, r, KeyDLPerArea, 0, Check)
	})
	t.Run("all zero", func(t *testing.T) {
		r := mustEvaluate(t, Inputs{})
		for _, m := range r.Metrics {
			assertUndefined(t, r, m.Key)
		}
	})
}

func TestInclusiveRanges(t *testing.T) {
	cases := []struct {
		name string
		edit func(*Inputs)
		key  string
	}{
		{"dl lower bound", func(in *Inputs) { in.DL = 3000 }, KeyDLPerArea},
		{"dl upper bound", func(in *Inputs) { in.DL = 10000 }, KeyDLPerArea},
		{"eq lower bound", func(in *Inputs) { in.EQx, in.EQy = 800, 1000 }, KeyEQRatio},
		{"eq upper bound", func(in *Inputs) { in.EQx, in.EQy = 1200, 1000 }, KeyEQRatio},
		{"drift at limit", func(in *Inputs) { in.TopDisplacement, in.Height = 2, 100 }, KeyDrift},
		{"sdl percent lower", func(in *Inputs) { in.DL, in.LL, in.SDL = 5000, 4000, 1000 }, KeySDLPercent},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			in := DefaultInputs()
			c.edit(&in)
			r := mustEvaluate(t, in)
			if m := metric(t, r, c.key); m.Verdict != Reasonable {
				t.Fatalf("%s = %v, verdict %s, want reasonable", c.key, *m.Value, m.Verdict)
			}
		})
	}
}

func TestPeriodAtLimit(t *testing.T) {
	c := criteria.Default()
	in := DefaultInputs()
	in.PeriodModel = c.MaxPeriod(in.Height)
	r := mustEvaluate(t, in)
	if m := metric(t, r, KeyPeriod); m.Verdict != Reasonable {
		t.Fatalf("T_model == T_max should be reasonable, got %s", m.Verdict)
	}
}

func TestValidation(t *testing.T) {
	for _, f := range Fields {
		t.Run(f.Key, func(t *testing.T) {
			in := DefaultInputs()
			f.Set(&in, -1)
			r, err := Evaluate(in)
			if r != nil {
				t.Fatalf("evaluation must not run on invalid input")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("err = %v, want *ValidationError", err)
			}
			if verr.Field != f.Key {
				t.Fatalf("field = %s, want %s", verr.Field, f.Key)
			}
		})
	}

	in := DefaultInputs()
	in.Wx = math.NaN()
	if _, err := Evaluate(in); err == nil {
		t.Fatal("NaN input must fail validation")
	}
	in = DefaultInputs()
	in.Height = math.Inf(1)
	if _, err := Evaluate(in); err == nil {
		t.Fatal("infinite input must fail validation")
	}
}

func TestInvalidCriteria(t *testing.T) {
	c := criteria.Default()
	c.Ct = 0
	if _, err := New(c).Evaluate(DefaultInputs()); err == nil {
		t.Fatal("expected criteria error")
	}
}

func TestIdempotent(t *testing.T) {
	in := DefaultInputs()
	a := mustEvaluate(t, in)
	b := mustEvaluate(t, in)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("evaluating the same inputs twice gave different results")
	}
}

func TestConcurrentEvaluations(t *testing.T) {
	e := New(criteria.Default())
	want, err := e.Evaluate(DefaultInputs())
	if err != nil {
		t.Fatal(err)
	}
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := e.Evaluate(DefaultInputs())
			if err != nil {
				errs <- err
				return
			}
			if !reflect.DeepEqual(got, want) {
				errs <- errors.New("concurrent result differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}
}

func TestUnitInvariance(t *testing.T) {
	si := DefaultInputs()
	imperial := si.In(units.Imperial)
	if imperial.Unit != units.Imperial {
		t.Fatalf("unit = %v", imperial.Unit)
	}
	if math.Abs(imperial.DL-5000*units.ForceFactor) > 1e-9 {
		t.Fatalf("DL in kip = %v", imperial.DL)
	}

	back := imperial.Canonical()
	for _, f := range Fields {
		if math.Abs(f.Value(back)-f.Value(si)) > 1e-9 {
			t.Errorf("%s round trip = %v, want %v", f.Key, f.Value(back), f.Value(si))
		}
	}

	rm := mustEvaluate(t, si)
	ri := mustEvaluate(t, imperial)
	for i := range rm.Metrics {
		a, b := rm.Metrics[i], ri.Metrics[i]
		if a.Verdict != b.Verdict {
			t.Errorf("%s verdict %s vs %s", a.Key, a.Verdict, b.Verdict)
		}
		if math.Abs(*a.Value-*b.Value) > 1e-9 {
			t.Errorf("%s canonical value %v vs %v", a.Key, *a.Value, *b.Value)
		}
	}

	// Display converts back to kip/ft²
	m, _ := ri.Metric(KeyDLPerArea)
	v, ok := ri.DisplayValue(m)
	if !ok || math.Abs(v-5*units.ForceFactor/units.AreaFactor) > 1e-9 {
		t.Fatalf("display DL per area = %v", v)
	}
	if ri.Label(m.Quantity) != "kip/ft²" {
		t.Fatalf("label = %s", ri.Label(m.Quantity))
	}
	if math.Abs(ri.DisplayInputs().Height-imperial.Height) > 1e-9 {
		t.Fatalf("display height = %v", ri.DisplayInputs().Height)
	}
}

func TestCountsAndPassed(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	counts := r.Counts()
	if counts[Check] != 1 || counts[Reported] != 2 || counts[Reasonable] != 8 {
		t.Fatalf("counts = %v", counts)
	}
	if r.Passed() {
		t.Fatal("period check should fail the default building")
	}

	in := DefaultInputs()
	in.PeriodModel = 0.4
	if !mustEvaluate(t, in).Passed() {
		t.Fatal("expected pass")
	}
}

func TestGoverningCombinations(t *testing.T) {
	r := mustEvaluate(t, DefaultInputs())
	if r.GoverningVertical.ID != "2" || math.Abs(r.GoverningVertical.Value-11000) > 1e-9 {
		t.Fatalf("governing vertical = %+v", r.GoverningVertical)
	}
	if r.GoverningLateral.Value != 1200 {
		t.Fatalf("governing lateral = %+v", r.GoverningLateral)
	}
}

func TestVerdictText(t *testing.T) {
	for _, v := range []Verdict{Undefined, Reasonable, Check, Reported} {
		b, _ := v.MarshalText()
		var back Verdict
		if err := back.UnmarshalText(b); err != nil || back != v {
			t.Errorf("%s round trip = %s, %v", v, back, err)
		}
	}
	var v Verdict
	if err := v.UnmarshalText([]byte("maybe")); err == nil {
		t.Fatal("expected error")
	}
}
