package handlers

import (
	"errors"
	"net/http"

	"dd-planner/internal/analysis"
	"dd-planner/internal/api/models"
	"dd-planner/internal/model"
	"dd-planner/internal/montecarlo"
	"dd-planner/internal/reportcache"

	"github.com/gin-gonic/gin"
)

func toParams(p model.TrialParameters) models.TrialParameters {
	return models.TrialParameters{
		BetAmount:         p.BetAmount,
		WinProbability:    p.WinProbability,
		PayoffMultiplier:  p.PayoffMultiplier,
		StartingBalance:   p.StartingBalance,
		TargetBalance:     p.TargetBalance,
		DrawdownAllowance: p.DrawdownAllowance,
		MaxRounds:         p.MaxRounds,
	}
}

func toSummary(r *montecarlo.AggregateReport) models.SimulationSummary {
	byOutcome := make(map[string]float64, len(r.MeanRoundsByOutcome))
	for o, v := range r.MeanRoundsByOutcome {
		byOutcome[string(o)] = v
	}
	return models.SimulationSummary{
		TrialCount:          r.TrialCount,
		Seed:                r.Seed,
		PassCount:           r.PassCount,
		FailCount:           r.FailCount,
		InconclusiveCount:   r.InconclusiveCount,
		PassRate:            r.PassRate,
		FailRate:            r.FailRate,
		InconclusiveRate:    r.InconclusiveRate,
		MeanRoundsPlayed:    r.MeanRoundsPlayed,
		MeanFinalBalance:    r.MeanFinalBalance,
		MeanRoundsByOutcome: byOutcome,
		TargetBalance:       r.TargetBalance,
		InitialFloor:        r.InitialFloor,
	}
}

func toAnalysis(s analysis.Summary) models.SimulationAnalysis {
	out := models.SimulationAnalysis{
		RoundsP05:          s.RoundsP05,
		RoundsP50:          s.RoundsP50,
		RoundsP95:          s.RoundsP95,
		MinFinalBalance:    s.MinFinalBalance,
		MaxFinalBalance:    s.MaxFinalBalance,
		PassRateStdErr:     s.PassRateStdErr,
		PassRateLow95:      s.PassRateLow95,
		PassRateHigh95:     s.PassRateHigh95,
		ExpectancyPerRound: s.ExpectancyPerRound,
	}
	if s.RandomWalk {
		out.RandomWalk = &models.RandomWalkEstimate{
			StaticBarrier:   s.StaticBarrierEstimate,
			TrailingBarrier: s.TrailingBarrierEstimate,
		}
	}
	return out
}

func toSeries(series []model.TrialResult) []models.TrialPoint {
	out := make([]models.TrialPoint, len(series))
	for i, r := range series {
		out[i] = models.TrialPoint{
			Trial:        i,
			Outcome:      string(r.Outcome),
			FinalBalance: r.FinalBalance,
			RoundsPlayed: r.RoundsPlayed,
		}
	}
	return out
}

func buildResponse(e *reportcache.Entry, includeSeries bool) models.SimulationResponse {
	r := e.Report
	resp := models.SimulationResponse{
		ID:        e.ID,
		Name:      e.Name,
		Status:    "completed",
		CreatedAt: e.CreatedAt,
		ExpiresAt: e.ExpiresAt,
		Params:    toParams(r.Params),
		Summary:   toSummary(r),
		Analysis:  toAnalysis(analysis.Summarize(r)),
	}
	if includeSeries {
		resp.Series = toSeries(r.Series)
	}
	return resp
}

// errorDetail maps an error to a status and an API error body.
func errorDetail(err error) (int, models.ErrorDetail) {
	var ipe *model.InvalidParameterError
	switch {
	case errors.As(err, &ipe):
		return http.StatusBadRequest, models.ErrorDetail{
			Code:    models.CodeInvalidParameter,
			Message: err.Error(),
			Details: map[string]interface{}{
				"field":  ipe.Field,
				"value":  ipe.Value,
				"reason": ipe.Reason,
			},
		}
	case errors.Is(err, errUnknownPreset), errors.Is(err, errTooManyTrials):
		return http.StatusBadRequest, models.ErrorDetail{
			Code:    models.CodeInvalidRequest,
			Message: err.Error(),
		}
	default:
		return http.StatusInternalServerError, models.ErrorDetail{
			Code:    models.CodeSimulationError,
			Message: err.Error(),
		}
	}
}

func writeError(c *gin.Context, err error) {
	status, detail := errorDetail(err)
	c.JSON(status, models.ErrorResponse{Error: detail})
}

func writeBadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    models.CodeInvalidRequest,
			Message: err.Error(),
		},
	})
}
