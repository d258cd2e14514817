package analytics

import (
	"strings"

	"tabinsight/internal/dataset"
	apperrors "tabinsight/internal/errors"
	"tabinsight/internal/numeric"
)

// RadarIndicator is one axis of the radar chart
type RadarIndicator struct {
	Name string  `json:"name"`
	Max  float64 `json:"max"`
}

// RadarProfile compares one entity against the population means
type RadarProfile struct {
	Indicators []RadarIndicator `json:"indicators"`
	AvgData    []float64        `json:"avg_data"`
	TargetData []float64        `json:"target_data"`
	TargetName string           `json:"target_name"`
}

// Radar builds the population-mean vector over the measure columns and the
// vector of the first row whose idCol value equals target. Axis ceilings
// are the column maximum scaled by RadarCeilingFactor.
func (a *Analyzer) Radar(table *dataset.Table, idCol, target string) (*RadarProfile, error) {
	var cols []*dataset.Column
	for _, c := range table.OfKind(dataset.KindNumeric) {
		if !dataset.MatchesAny(c.Name, a.cfg.IdentifierKeywords) {
			cols = append(cols, c)
		}
	}
	if len(cols) == 0 {
		return nil, apperrors.Validation("no numeric measure columns to build a profile from")
	}

	ids, ok := table.Column(idCol)
	if !ok {
		return nil, apperrors.Validation("id column %s not found", idCol)
	}
	want := strings.TrimSpace(target)
	row := -1
	for i := 0; i < ids.Len(); i++ {
		if !ids.IsMissing(i) && ids.Key(i) == want {
			row = i
			break
		}
	}
	if row < 0 {
		return nil, apperrors.Validation("no row with %s = %s", idCol, target)
	}

	p := &RadarProfile{
		Indicators: make([]RadarIndicator, len(cols)),
		AvgData:    make([]float64, len(cols)),
		TargetData: make([]float64, len(cols)),
		TargetName: target,
	}
	for i, c := range cols {
		present := c.Present()
		mean, _ := meanStd(present)
		_, hi := numeric.MinMax(present)

		p.AvgData[i] = numeric.Round(numeric.Finite(mean, 0), 2)
		p.Indicators[i] = RadarIndicator{Name: c.Name, Max: numeric.Finite(hi, 0) * a.cfg.RadarCeilingFactor}
		if !c.IsMissing(row) {
			p.TargetData[i] = numeric.Round(c.Numbers()[row], 2)
		}
	}
	return p, nil
}
