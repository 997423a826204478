package stats

import (
	"math"
)

// scalingFactor is Wheeler's constant for Individuals charts.
const scalingFactor = 2.66

// SignalType classifies a point the process behavior chart flags.
type SignalType string

const (
	SignalSpike SignalType = "spike" // above the upper limit
	SignalDip   SignalType = "dip"   // below the lower limit
	SignalShift SignalType = "shift" // eight consecutive points on one side of the mean
)

// Signal is one flagged period of a series.
type Signal struct {
	Index int        `json:"index"`
	Label string     `json:"label"`
	Type  SignalType `json:"type"`
	Value float64    `json:"value"`
}

// VolumeChart is an Individuals and Moving Range chart over a series.
type VolumeChart struct {
	Average float64  `json:"average"`
	AmR     float64  `json:"averageMovingRange"`
	UNPL    float64  `json:"upperLimit"`
	LNPL    float64  `json:"lowerLimit"`
	Signals []Signal `json:"signals"`
}

// Stable reports whether no period was flagged.
func (c VolumeChart) Stable() bool {
	return len(c.Signals) == 0
}

// AnalyzeVolume builds an XmR chart over the values of series and flags
// spikes, dips and sustained shifts. Series shorter than two points carry no
// limits and no signals.
func AnalyzeVolume(series AggregationResult) VolumeChart {
	chart := VolumeChart{Signals: []Signal{}}
	values := series.Values
	if len(values) < 2 {
		if len(values) == 1 {
			chart.Average = values[0]
			chart.UNPL = values[0]
			chart.LNPL = values[0]
		}
		return chart
	}

	chart.Average = CalculateMean(values)

	mrSum := 0.0
	for i := 1; i < len(values); i++ {
		mrSum += math.Abs(values[i] - values[i-1])
	}
	chart.AmR = mrSum / float64(len(values)-1)

	chart.UNPL = chart.Average + scalingFactor*chart.AmR
	chart.LNPL = math.Max(0, chart.Average-scalingFactor*chart.AmR)

	chart.Signals = detectSignals(series, chart)
	return chart
}

func detectSignals(series AggregationResult, chart VolumeChart) []Signal {
	signals := []Signal{}
	flag := func(i int, kind SignalType) {
		signals = append(signals, Signal{Index: i, Label: series.Labels[i], Type: kind, Value: series.Values[i]})
	}

	for i, v := range series.Values {
		switch {
		case v > chart.UNPL:
			flag(i, SignalSpike)
		case v < chart.LNPL:
			flag(i, SignalDip)
		}
	}

	side, run := 0, 0
	for i, v := range series.Values {
		current := 0
		if v > chart.Average {
			current = 1
		} else if v < chart.Average {
			current = -1
		}

		if current != 0 && current == side {
			run++
		} else {
			side, run = current, 1
		}

		if run == 8 {
			flag(i, SignalShift)
		}
	}

	return signals
}
