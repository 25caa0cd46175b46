package models

import (
	"time"
)

// PriceSeries is an ordered price/volume history for a single instrument.
// Samples are appended in chronological order and never mutated by the
// analyzers, which treat the series as an immutable snapshot per call.
type PriceSeries struct {
	Timestamps []time.Time
	Prices     []float64
	Volumes    []float64
}

func NewPriceSeries() *PriceSeries {
	return &PriceSeries{}
}

func (ps *PriceSeries) AddSample(timestamp time.Time, price float64, volume float64) {
	ps.Timestamps = append(ps.Timestamps, timestamp)
	ps.Prices = append(ps.Prices, price)
	ps.Volumes = append(ps.Volumes, volume)
}

func (ps *PriceSeries) Len() int {
	return len(ps.Prices)
}

// LastPrice is the most recent close, or 0 for an empty series.
func (ps *PriceSeries) LastPrice() float64 {
	if len(ps.Prices) == 0 {
		return 0
	}
	return ps.Prices[len(ps.Prices)-1]
}
