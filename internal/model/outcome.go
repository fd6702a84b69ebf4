package model

// Outcome is the terminal classification of a trial.
// Keep these values stable; they are intended for CSV and JSON output.
type Outcome string

const (
	OutcomePass         Outcome = "PASS"
	OutcomeFail         Outcome = "FAIL"
	OutcomeInconclusive Outcome = "INCONCLUSIVE"
)

// Outcomes lists every outcome in report order.
var Outcomes = []Outcome{OutcomePass, OutcomeFail, OutcomeInconclusive}

// Classify applies the two terminal comparisons. Reaching the target wins over
// a floor breach in the same round.
func Classify(balance, target, floor float64) Outcome {
	switch {
	case balance >= target:
		return OutcomePass
	case balance <= floor:
		return OutcomeFail
	default:
		return OutcomeInconclusive
	}
}

func (o Outcome) Terminal() bool {
	return o == OutcomePass || o == OutcomeFail
}
