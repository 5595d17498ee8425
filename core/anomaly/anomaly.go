// Package anomaly flags projections whose temporal or mileage evidence is
// internally inconsistent. Flags are informational; they never alter the
// projection they describe.
package anomaly

import (
	"fmt"

	"github.com/Claudio-NG/FROTAS/core/model"
)

// Detect scans the projection rows and returns the data-quality flags. A
// vehicle may carry zero, one or both flags.
func Detect(rows []model.Projection) []model.Anomaly {
	var out []model.Anomaly
	for _, p := range rows {
		plate := p.Vehicle.Plate
		if p.HasLatestDate && p.HasBaselineOdoDate && p.LatestOdoDate.Before(p.BaselineOdoDate) {
			out = append(out, model.Anomaly{
				Plate: plate,
				Kind:  model.AnomalyTemporalInversion,
				Detail: fmt.Sprintf("latest fuel reading (%s) predates the baseline reading (%s)",
					p.LatestOdoDate.Format("2006-01-02"), p.BaselineOdoDate.Format("2006-01-02")),
			})
		}
		if p.HasLatestOdo && p.HasBaselineOdoDate && p.LatestOdometer < p.BaselineOdometer {
			out = append(out, model.Anomaly{
				Plate: plate,
				Kind:  model.AnomalyMileageRegression,
				Detail: fmt.Sprintf("latest odometer (%.0f) is below the baseline odometer (%.0f)",
					p.LatestOdometer, p.BaselineOdometer),
			})
		}
	}
	return out
}
