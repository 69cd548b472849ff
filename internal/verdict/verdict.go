// Package verdict implements the coverage/global verdict lattice of
// spec §4.8 (part of component C7's analysis driver). Grounded on
// original_source/src/process/verdicts.rs.
package verdict

// Coverage is the per-terminal-state label spec §4.8 step 4 assigns:
// Cov (multi-trace fully consumed and the interaction accepts
// termination), TooShort (multi-trace consumed but the interaction
// cannot yet terminate), LackObs (some canal ran dry while others did
// not), or Out (neither trace nor interaction can progress further).
type Coverage int

const (
	Cov Coverage = iota
	TooShort
	LackObs
	Out
)

func (c Coverage) String() string {
	switch c {
	case Cov:
		return "Cov"
	case TooShort:
		return "TooShort"
	case LackObs:
		return "LackObs"
	case Out:
		return "Out"
	}
	return "Unknown"
}

// Global is the folded verdict of spec §4.8 step 5, totally ordered
// Fail < Inconc < WeakPass < Pass.
type Global int

const (
	Fail Global = iota
	Inconc
	WeakPass
	Pass
)

func (g Global) String() string {
	switch g {
	case Fail:
		return "Fail"
	case Inconc:
		return "Inconc"
	case WeakPass:
		return "WeakPass"
	case Pass:
		return "Pass"
	}
	return "Unknown"
}

// Update folds one more per-terminal Coverage verdict into the
// running Global one (spec §4.8 step 5): monotone, never downgrades.
// Mirrors original_source's update_global_verdict_from_new_coverage_verdict
// exactly, arm for arm, rather than compressing it into a lookup
// table — the original's per-Global-case dispatch is what a reviewer
// of that codebase would recognise.
func Update(g Global, c Coverage) Global {
	switch g {
	case Pass:
		return Pass
	case WeakPass:
		if c == Cov {
			return Pass
		}
		return WeakPass
	case Inconc:
		switch c {
		case Cov:
			return Pass
		case TooShort:
			return WeakPass
		default:
			return Inconc
		}
	case Fail:
		switch c {
		case Cov:
			return Pass
		case TooShort:
			return WeakPass
		case LackObs:
			return Inconc
		default:
			return Fail
		}
	}
	return g
}

// AtLeast reports whether g meets or exceeds goal (spec §4.8's
// early-exit "goal" parameter).
func AtLeast(g, goal Global) bool { return g >= goal }
