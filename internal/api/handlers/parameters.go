package handlers

import (
	"net/http"

	"dd-planner/internal/api/models"
	"dd-planner/internal/config"

	"github.com/gin-gonic/gin"
)

// ParameterHandler describes the simulation inputs
type ParameterHandler struct {
	defaults config.SimulationConfig
}

// NewParameterHandler creates a new parameter handler
func NewParameterHandler(defaults config.SimulationConfig) *ParameterHandler {
	return &ParameterHandler{defaults: defaults}
}

// ListParameters handles GET /api/v1/parameters
func (h *ParameterHandler) ListParameters(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"parameters": describeParameters(h.defaults)})
}

func bound(v float64) *float64 { return &v }

// describeParameters lists the inputs with the ranges the planning controls offer.
func describeParameters(d config.SimulationConfig) []models.ParameterInfo {
	return []models.ParameterInfo{
		{
			Name:        "bet_amount",
			Type:        "float",
			Description: "Fixed stake risked per round",
			Default:     d.BetAmount,
			Min:         bound(1),
			Max:         bound(5000),
		},
		{
			Name:        "win_rate",
			Type:        "float",
			Description: "Probability a round is won (0-1; values above 1 are read as a percent)",
			Default:     d.WinRate,
			Min:         bound(0),
			Max:         bound(1),
		},
		{
			Name:        "payoff_multiplier",
			Type:        "float",
			Description: "Winnings per unit staked on a won round",
			Default:     d.PayoffMultiplier,
			Min:         bound(1),
			Max:         bound(5),
		},
		{
			Name:        "starting_balance",
			Type:        "float",
			Description: "Account balance at the start of the evaluation",
			Default:     d.StartingBalance,
			Min:         bound(1000),
		},
		{
			Name:        "target_balance",
			Type:        "float",
			Description: "Balance that passes the evaluation",
			Default:     d.TargetBalance,
			Min:         bound(1000),
		},
		{
			Name:        "drawdown_allowance",
			Type:        "float",
			Description: "Maximum retracement from the running peak balance",
			Default:     d.DrawdownAllowance,
			Min:         bound(500),
			Max:         bound(10000),
		},
		{
			Name:        "max_rounds",
			Type:        "int",
			Description: "Round cap per trial before it is inconclusive",
			Default:     d.MaxRounds,
			Min:         bound(1),
		},
		{
			Name:        "trials",
			Type:        "int",
			Description: "Number of independent trials in a batch",
			Default:     d.Trials,
			Min:         bound(1),
		},
	}
}
