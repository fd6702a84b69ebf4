package montecarlo

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"dd-planner/internal/model"
)

// WriteSeriesCSV writes one row per trial in trial order.
func WriteSeriesCSV(out io.Writer, series []model.TrialResult) error {
	w := csv.NewWriter(out)

	header := []string{
		"trial",
		"outcome",
		"final_balance",
		"rounds_played",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i, r := range series {
		row := []string{
			strconv.Itoa(i),
			string(r.Outcome),
			fmtFloat(r.FinalBalance),
			strconv.Itoa(r.RoundsPlayed),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func WriteSeriesCSVFile(path string, series []model.TrialResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteSeriesCSV(f, series); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 2, 64)
}
