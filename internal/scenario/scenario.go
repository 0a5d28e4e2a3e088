package scenario

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/doppel/double"
)

// Scenario is a declarative end-to-end script for the double engine.
type Scenario struct {
	// Name uniquely identifies this scenario; golden files key on it.
	Name string `yaml:"name"`

	// Description explains what this scenario exercises.
	Description string `yaml:"description,omitempty"`

	// Doubles declares the spies available to steps.
	Doubles []DoubleDecl `yaml:"doubles"`

	// Steps is the script, executed in order.
	Steps []Step `yaml:"steps"`
}

// DoubleDecl declares one spy: its label, fixed arity and effect.
type DoubleDecl struct {
	Label string `yaml:"label"`
	Arity int    `yaml:"arity"`

	// Effect is one of none, throws, async, async_throws.
	// Empty defaults to none.
	Effect string `yaml:"effect,omitempty"`

	// Default, when set, is registered as the scope's default value
	// for unstubbed calls.
	Default any `yaml:"default,omitempty"`
}

// Step holds exactly one of the step kinds.
type Step struct {
	Stub         *StubStep         `yaml:"stub,omitempty"`
	Call         *CallStep         `yaml:"call,omitempty"`
	VerifyCount  *VerifyCountStep  `yaml:"verify_count,omitempty"`
	VerifyThrows *VerifyThrowsStep `yaml:"verify_throws,omitempty"`
	VerifyOrder  *VerifyOrderStep  `yaml:"verify_order,omitempty"`
	Clear        *ClearStep        `yaml:"clear,omitempty"`
}

// StubStep programs a canned response. Args are equality sugar; exactly
// one of Return or Throw must be set (Throw requires a throwing effect).
type StubStep struct {
	Double string `yaml:"double"`
	Args   []any  `yaml:"args"`
	Return any    `yaml:"return,omitempty"`
	Throw  string `yaml:"throw,omitempty"`
}

// CallStep invokes a double with literal arguments.
type CallStep struct {
	Double string `yaml:"double"`
	Args   []any  `yaml:"args"`
}

// VerifyCountStep asserts on the matching call count. Omitted Args
// match every call.
type VerifyCountStep struct {
	Double string `yaml:"double"`
	Args   []any  `yaml:"args,omitempty"`
	Count  int    `yaml:"count"`
}

// VerifyThrowsStep asserts that a matching call failed. Error, when
// set, requires the thrown error's exact message; otherwise any
// failure satisfies the check. The double must have a throwing effect.
type VerifyThrowsStep struct {
	Double string `yaml:"double"`
	Args   []any  `yaml:"args,omitempty"`
	Error  string `yaml:"error,omitempty"`
}

// VerifyOrderStep asserts cross-double call order via the ledger.
type VerifyOrderStep struct {
	Expect []OrderItem `yaml:"expect"`
}

// OrderItem is one expected call in a verify_order step.
type OrderItem struct {
	Double string `yaml:"double"`
	Args   []any  `yaml:"args,omitempty"`
}

// ClearStep resets one double, or the whole scope when Double is empty.
type ClearStep struct {
	Double string `yaml:"double,omitempty"`
}

// Load reads and validates a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scenario %s: %w", path, err)
	}
	return &sc, nil
}

// Validate checks structural soundness: unique double labels, parseable
// effects, steps of exactly one kind referencing declared doubles with
// the right argument counts.
func (sc *Scenario) Validate() error {
	if sc.Name == "" {
		return fmt.Errorf("scenario name is required")
	}
	if len(sc.Doubles) == 0 {
		return fmt.Errorf("at least one double is required")
	}

	arities := make(map[string]int, len(sc.Doubles))
	effects := make(map[string]double.Effect, len(sc.Doubles))
	for _, d := range sc.Doubles {
		if d.Label == "" {
			return fmt.Errorf("double label is required")
		}
		if _, dup := arities[d.Label]; dup {
			return fmt.Errorf("duplicate double label %q", d.Label)
		}
		if d.Arity < 0 {
			return fmt.Errorf("double %q: negative arity %d", d.Label, d.Arity)
		}
		eff, err := double.ParseEffect(d.Effect)
		if err != nil {
			return fmt.Errorf("double %q: %w", d.Label, err)
		}
		arities[d.Label] = d.Arity
		effects[d.Label] = eff
	}

	checkRef := func(i int, label string, args []any, exact bool) error {
		arity, ok := arities[label]
		if !ok {
			return fmt.Errorf("step %d references undeclared double %q", i+1, label)
		}
		if exact && len(args) != arity {
			return fmt.Errorf("step %d: %d args for %q, arity is %d", i+1, len(args), label, arity)
		}
		return nil
	}

	for i, st := range sc.Steps {
		kinds := 0
		for _, set := range []bool{st.Stub != nil, st.Call != nil, st.VerifyCount != nil, st.VerifyThrows != nil, st.VerifyOrder != nil, st.Clear != nil} {
			if set {
				kinds++
			}
		}
		if kinds != 1 {
			return fmt.Errorf("step %d must have exactly one kind, has %d", i+1, kinds)
		}

		switch {
		case st.Stub != nil:
			if err := checkRef(i, st.Stub.Double, st.Stub.Args, true); err != nil {
				return err
			}
			if (st.Stub.Throw == "") == (st.Stub.Return == nil) {
				return fmt.Errorf("step %d: stub needs exactly one of return or throw", i+1)
			}
			if st.Stub.Throw != "" && !effects[st.Stub.Double].Throwing() {
				return fmt.Errorf("step %d: throw on %q, but effect %s cannot throw",
					i+1, st.Stub.Double, effects[st.Stub.Double])
			}
		case st.Call != nil:
			if err := checkRef(i, st.Call.Double, st.Call.Args, true); err != nil {
				return err
			}
		case st.VerifyCount != nil:
			exact := st.VerifyCount.Args != nil
			if err := checkRef(i, st.VerifyCount.Double, st.VerifyCount.Args, exact); err != nil {
				return err
			}
		case st.VerifyThrows != nil:
			exact := st.VerifyThrows.Args != nil
			if err := checkRef(i, st.VerifyThrows.Double, st.VerifyThrows.Args, exact); err != nil {
				return err
			}
			if !effects[st.VerifyThrows.Double].Throwing() {
				return fmt.Errorf("step %d: verify_throws on %q, but effect %s cannot throw",
					i+1, st.VerifyThrows.Double, effects[st.VerifyThrows.Double])
			}
		case st.VerifyOrder != nil:
			if len(st.VerifyOrder.Expect) == 0 {
				return fmt.Errorf("step %d: verify_order needs at least one expectation", i+1)
			}
			for _, item := range st.VerifyOrder.Expect {
				exact := item.Args != nil
				if err := checkRef(i, item.Double, item.Args, exact); err != nil {
					return err
				}
			}
		case st.Clear != nil:
			if st.Clear.Double != "" {
				if err := checkRef(i, st.Clear.Double, nil, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
