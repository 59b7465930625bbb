package valuation

import (
	"github.com/YuminosukeSato/housevalue/dataset"
)

// PropertySpec describes a property in plain terms. Pollution and poverty
// are given as quantiles of the full table rather than raw values.
type PropertySpec struct {
	NextToRiver          bool    `koanf:"next_to_river" json:"next_to_river"`
	Rooms                float64 `koanf:"rooms" json:"rooms"`
	StudentsPerTeacher   float64 `koanf:"students_per_teacher" json:"students_per_teacher"`
	DistanceToEmployment float64 `koanf:"distance_to_employment" json:"distance_to_employment"`
	PollutionQuantile    float64 `koanf:"pollution_quantile" json:"pollution_quantile"`
	PovertyQuantile      float64 `koanf:"poverty_quantile" json:"poverty_quantile"`
}

// DefaultPropertySpec is a riverside home with eight rooms, 20 pupils per
// teacher, five units from employment centres, high pollution and low
// poverty.
func DefaultPropertySpec() PropertySpec {
	return PropertySpec{
		NextToRiver:          true,
		Rooms:                8,
		StudentsPerTeacher:   20,
		DistanceToEmployment: 5,
		PollutionQuantile:    0.75,
		PovertyQuantile:      0.25,
	}
}

// Overrides resolves s into feature overrides. Quantiles are looked up in t.
func (s PropertySpec) Overrides(t *dataset.Table) (map[string]float64, error) {
	nox, err := t.Quantile(dataset.NOX, s.PollutionQuantile)
	if err != nil {
		return nil, err
	}
	lstat, err := t.Quantile(dataset.LSTAT, s.PovertyQuantile)
	if err != nil {
		return nil, err
	}

	chas := 0.0
	if s.NextToRiver {
		chas = 1
	}
	return map[string]float64{
		dataset.CHAS:    chas,
		dataset.RM:      s.Rooms,
		dataset.PTRATIO: s.StudentsPerTeacher,
		dataset.DIS:     s.DistanceToEmployment,
		dataset.NOX:     nox,
		dataset.LSTAT:   lstat,
	}, nil
}
