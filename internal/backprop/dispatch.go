package backprop

import (
	"fmt"

	"github.com/pulse-ml/pulse/internal/functional"
	"github.com/pulse-ml/pulse/internal/tensor"
)

// Signal selects which recorded output a loss or regularizer consumes.
type Signal int

// The two signals every supported network produces: the spike train of the
// output layer and its membrane potential.
const (
	SignalSpikes Signal = iota
	SignalMembrane
)

// String returns a human-readable signal name.
func (s Signal) String() string {
	switch s {
	case SignalSpikes:
		return "spikes"
	case SignalMembrane:
		return "membrane"
	default:
		return "unknown"
	}
}

// lossSpec is the resolved dispatch decision for a criterion: which signal it
// consumes and whether its targets carry a leading time axis.
type lossSpec struct {
	signal             Signal
	timeVaryingTargets bool
}

// regSpec is the resolved dispatch decision for a regularizer.
type regSpec struct {
	signal Signal
}

// lossEntry registers a criterion name. hasTimeVarying marks entries whose
// time-varying flag is read from the criterion's own capability.
type lossEntry struct {
	name           string
	signal         Signal
	hasTimeVarying bool
}

// lossTable is the closed set of supported criteria.
var lossTable = []lossEntry{
	{name: "membrane-mse", signal: SignalMembrane, hasTimeVarying: true},
	{name: "class-max-membrane", signal: SignalMembrane},
	{name: "class-rate", signal: SignalSpikes},
	{name: "class-count", signal: SignalSpikes},
	{name: "spike-count-mse", signal: SignalSpikes},
}

// regTable is the closed set of recognized regularizers.
var regTable = []struct {
	name   string
	signal Signal
}{
	{name: "l1-rate-sparsity", signal: SignalSpikes},
}

// resolveLoss matches a criterion against the dispatch table. The whole table
// is scanned and matches counted: zero matches or more than one are both
// configuration errors, so a corrupted table cannot silently pick a winner.
func resolveLoss[B tensor.Backend](criterion functional.Criterion[B]) (lossSpec, error) {
	name := criterion.Name()
	matches := 0
	var spec lossSpec
	for _, entry := range lossTable {
		if entry.name != name {
			continue
		}
		matches++
		spec = lossSpec{signal: entry.signal}
		if entry.hasTimeVarying {
			tv, ok := criterion.(functional.TimeVarying)
			if !ok {
				return lossSpec{}, &ConfigurationError{
					Reason: fmt.Sprintf("criterion %q must report whether its targets are time-varying", name),
				}
			}
			spec.timeVaryingTargets = tv.TimeVaryingTargets()
		}
	}
	switch matches {
	case 0:
		return lossSpec{}, &ConfigurationError{Reason: fmt.Sprintf("unrecognized criterion %q", name)}
	case 1:
		return spec, nil
	default:
		return lossSpec{}, &ConfigurationError{Reason: fmt.Sprintf("criterion %q matched %d dispatch entries", name, matches)}
	}
}

// resolveReg matches a regularizer against the dispatch table. Resolution is
// best effort: an unknown regularizer contributes nothing and training
// proceeds without it.
func resolveReg[B tensor.Backend](reg functional.Regularizer[B]) (regSpec, bool) {
	if reg == nil {
		return regSpec{}, false
	}
	for _, entry := range regTable {
		if entry.name == reg.Name() {
			return regSpec{signal: entry.signal}, true
		}
	}
	return regSpec{}, false
}
