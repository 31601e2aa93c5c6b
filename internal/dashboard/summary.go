package dashboard

import (
	"github.com/montanaflynn/stats"

	"github.com/hannaerdza/titanic-visualization/domain/passenger"
)

// Summary describes the whole current result set, not just the visible page
type Summary struct {
	Count        int
	Survivors    int
	SurvivalRate int
	KnownAges    int
	MeanAge      float64
	MedianAge    float64
	MeanFare     float64
}

// Summarize computes the result-set summary. Unknown ages are left out of the age figures.
func Summarize(records []passenger.Passenger) Summary {
	s := Summary{Count: len(records)}
	if len(records) == 0 {
		return s
	}

	ages := make(stats.Float64Data, 0, len(records))
	fares := make(stats.Float64Data, 0, len(records))
	for _, p := range records {
		if p.Survived {
			s.Survivors++
		}
		if p.Age != nil {
			ages = append(ages, *p.Age)
		}
		fares = append(fares, p.Fare)
	}

	s.SurvivalRate = percent(s.Survivors, s.Count)
	s.KnownAges = len(ages)
	if len(ages) > 0 {
		s.MeanAge = round1(ages.Mean())
		s.MedianAge = round1(ages.Median())
	}
	s.MeanFare = round2(fares.Mean())
	return s
}

func round1(v float64, err error) float64 {
	return roundTo(v, err, 1)
}

func round2(v float64, err error) float64 {
	return roundTo(v, err, 2)
}

func roundTo(v float64, err error, places int) float64 {
	if err != nil {
		return 0
	}
	rounded, err := stats.Round(v, places)
	if err != nil {
		return 0
	}
	return rounded
}
