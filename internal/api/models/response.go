package models

import "time"

// SimulationResponse represents the response from a batch run
type SimulationResponse struct {
	ID        string             `json:"id,omitempty"`
	Name      string             `json:"name,omitempty"`
	Status    string             `json:"status"`
	CreatedAt time.Time          `json:"created_at"`
	ExpiresAt time.Time          `json:"expires_at"`
	Params    TrialParameters    `json:"params"`
	Summary   SimulationSummary  `json:"summary"`
	Analysis  SimulationAnalysis `json:"analysis"`
	Series    []TrialPoint       `json:"series,omitempty"`
}

type TrialParameters struct {
	BetAmount         float64 `json:"bet_amount"`
	WinProbability    float64 `json:"win_probability"`
	PayoffMultiplier  float64 `json:"payoff_multiplier"`
	StartingBalance   float64 `json:"starting_balance"`
	TargetBalance     float64 `json:"target_balance"`
	DrawdownAllowance float64 `json:"drawdown_allowance"`
	MaxRounds         int     `json:"max_rounds"`
}

// SimulationSummary contains the aggregated batch results
type SimulationSummary struct {
	TrialCount          int                `json:"trial_count"`
	Seed                uint64             `json:"seed"`
	PassCount           int                `json:"pass_count"`
	FailCount           int                `json:"fail_count"`
	InconclusiveCount   int                `json:"inconclusive_count"`
	PassRate            float64            `json:"pass_rate"`
	FailRate            float64            `json:"fail_rate"`
	InconclusiveRate    float64            `json:"inconclusive_rate"`
	MeanRoundsPlayed    float64            `json:"mean_rounds_played"`
	MeanFinalBalance    float64            `json:"mean_final_balance"`
	MeanRoundsByOutcome map[string]float64 `json:"mean_rounds_by_outcome"`
	TargetBalance       float64            `json:"target_balance"`
	InitialFloor        float64            `json:"initial_floor"`
}

// SimulationAnalysis contains statistics derived from the series
type SimulationAnalysis struct {
	RoundsP05          float64 `json:"rounds_p05"`
	RoundsP50          float64 `json:"rounds_p50"`
	RoundsP95          float64 `json:"rounds_p95"`
	MinFinalBalance    float64 `json:"min_final_balance"`
	MaxFinalBalance    float64 `json:"max_final_balance"`
	PassRateStdErr     float64 `json:"pass_rate_std_err"`
	PassRateLow95      float64 `json:"pass_rate_low_95"`
	PassRateHigh95     float64 `json:"pass_rate_high_95"`
	ExpectancyPerRound float64 `json:"expectancy_per_round"`
	// Present only for a fair coin at even payoff.
	RandomWalk *RandomWalkEstimate `json:"random_walk,omitempty"`
}

type RandomWalkEstimate struct {
	StaticBarrier   float64 `json:"static_barrier"`
	TrailingBarrier float64 `json:"trailing_barrier"`
}

// TrialPoint is one trial in the series, keyed by trial index.
type TrialPoint struct {
	Trial        int     `json:"trial"`
	Outcome      string  `json:"outcome"`
	FinalBalance float64 `json:"final_balance"`
	RoundsPlayed int     `json:"rounds_played"`
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult  `json:"comparison"`
	Rejected   []RejectedVariation `json:"rejected,omitempty"`
}

// ComparisonResult contains results for one variation
type ComparisonResult struct {
	Rank    int               `json:"rank"`
	Name    string            `json:"name"`
	ID      string            `json:"id"`
	Params  TrialParameters   `json:"params"`
	Summary SimulationSummary `json:"summary"`
}

// RejectedVariation names a variation whose parameters failed validation.
type RejectedVariation struct {
	Name  string      `json:"name"`
	Error ErrorDetail `json:"error"`
}

// PresetInfo represents information about an account preset
type PresetInfo struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	File   string          `json:"file"`
	Params TrialParameters `json:"params"`
	Trials int             `json:"trials"`
}

// ParameterInfo describes an input parameter
type ParameterInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"` // "float", "int"
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
	Min         *float64    `json:"min,omitempty"`
	Max         *float64    `json:"max,omitempty"`
}

// StreamMessage is one frame on the simulation WebSocket.
type StreamMessage struct {
	Type   string              `json:"type"` // "progress", "result", "error"
	Done   int                 `json:"done,omitempty"`
	Total  int                 `json:"total,omitempty"`
	Result *SimulationResponse `json:"result,omitempty"`
	Error  *ErrorDetail        `json:"error,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidParameter = "INVALID_PARAMETER"
	CodeNotFound         = "NOT_FOUND"
	CodeSimulationError  = "SIMULATION_ERROR"
	CodeInternalError    = "INTERNAL_ERROR"
)
