package risk

// Policy tunes how evaluations progress. Thresholds themselves live on the
// account and are fixed when it is created.
type Policy struct {
	// AdvancePhase moves a two-step account that meets its phase 1 target
	// into phase 2. When false such an account stays in evaluation in
	// phase 1.
	AdvancePhase bool `json:"advance_phase" yaml:"advance_phase"`
}

func DefaultPolicy() Policy {
	return Policy{AdvancePhase: true}
}
