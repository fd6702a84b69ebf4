package config

// SimulationOverrides carries explicitly set values; nil fields keep the base value.
type SimulationOverrides struct {
	BetAmount         *float64 `json:"bet_amount,omitempty"`
	WinRate           *float64 `json:"win_rate,omitempty"`
	PayoffMultiplier  *float64 `json:"payoff_multiplier,omitempty"`
	StartingBalance   *float64 `json:"starting_balance,omitempty"`
	TargetBalance     *float64 `json:"target_balance,omitempty"`
	DrawdownAllowance *float64 `json:"drawdown_allowance,omitempty"`
	MaxRounds         *int     `json:"max_rounds,omitempty"`
	Trials            *int     `json:"trials,omitempty"`
	Workers           *int     `json:"workers,omitempty"`
	Seed              *uint64  `json:"seed,omitempty"`
}

// Apply overlays the set fields of o onto base.
func (base SimulationConfig) Apply(o SimulationOverrides) SimulationConfig {
	out := base
	if o.BetAmount != nil {
		out.BetAmount = *o.BetAmount
	}
	if o.WinRate != nil {
		out.WinRate = NormalizeWinRate(*o.WinRate)
	}
	if o.PayoffMultiplier != nil {
		out.PayoffMultiplier = *o.PayoffMultiplier
	}
	if o.StartingBalance != nil {
		out.StartingBalance = *o.StartingBalance
	}
	if o.TargetBalance != nil {
		out.TargetBalance = *o.TargetBalance
	}
	if o.DrawdownAllowance != nil {
		out.DrawdownAllowance = *o.DrawdownAllowance
	}
	if o.MaxRounds != nil {
		out.MaxRounds = *o.MaxRounds
	}
	if o.Trials != nil {
		out.Trials = *o.Trials
	}
	if o.Workers != nil {
		out.Workers = *o.Workers
	}
	if o.Seed != nil {
		out.Seed = *o.Seed
	}
	return out
}

// Merge overlays next onto o; nil fields in next keep the value from o.
func (o SimulationOverrides) Merge(next SimulationOverrides) SimulationOverrides {
	out := o
	if next.BetAmount != nil {
		out.BetAmount = next.BetAmount
	}
	if next.WinRate != nil {
		out.WinRate = next.WinRate
	}
	if next.PayoffMultiplier != nil {
		out.PayoffMultiplier = next.PayoffMultiplier
	}
	if next.StartingBalance != nil {
		out.StartingBalance = next.StartingBalance
	}
	if next.TargetBalance != nil {
		out.TargetBalance = next.TargetBalance
	}
	if next.DrawdownAllowance != nil {
		out.DrawdownAllowance = next.DrawdownAllowance
	}
	if next.MaxRounds != nil {
		out.MaxRounds = next.MaxRounds
	}
	if next.Trials != nil {
		out.Trials = next.Trials
	}
	if next.Workers != nil {
		out.Workers = next.Workers
	}
	if next.Seed != nil {
		out.Seed = next.Seed
	}
	return out
}
