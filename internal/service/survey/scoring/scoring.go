// Package scoring maps completed GAD-7 and PHQ-9 answer sequences to a total
// score and a severity band. Thresholds follow the published instrument
// manuals and are inclusive on both ends.
package scoring

import (
	"errors"
	"fmt"

	"github.com/qamqor/screening-bot/internal/domain"
)

var (
	ErrUnknownInstrument = errors.New("unknown instrument")
	ErrTotalOutOfRange   = errors.New("total score out of range")
)

// Threshold is one inclusive score range of a band table.
type Threshold struct {
	Min  int
	Max  int
	Band domain.Band
}

var (
	gad7Bands = []Threshold{
		{0, 4, domain.BandMinimal},
		{5, 9, domain.BandMild},
		{10, 14, domain.BandModerate},
		{15, 21, domain.BandSevere},
	}
	phq9Bands = []Threshold{
		{0, 4, domain.BandMinimal},
		{5, 9, domain.BandMild},
		{10, 14, domain.BandModerate},
		{15, 19, domain.BandModeratelySevere},
		{20, 27, domain.BandSevere},
	}
)

// Result is the outcome of scoring one administration.
type Result struct {
	Total int
	Band  domain.Band
}

// Bands returns the ordered threshold table for inst, or nil if unknown.
func Bands(inst domain.Instrument) []Threshold {
	var table []Threshold
	switch inst {
	case domain.InstrumentGAD7:
		table = gad7Bands
	case domain.InstrumentPHQ9:
		table = phq9Bands
	default:
		return nil
	}
	out := make([]Threshold, len(table))
	copy(out, table)
	return out
}

// Score sums answers and looks the total up in the instrument's band table.
// Answer count and ordering are enforced by the caller.
func Score(inst domain.Instrument, answers []int) (Result, error) {
	total := 0
	for _, a := range answers {
		total += a
	}
	band, err := BandFor(inst, total)
	if err != nil {
		return Result{}, err
	}
	return Result{Total: total, Band: band}, nil
}

// BandFor returns the band containing total.
func BandFor(inst domain.Instrument, total int) (domain.Band, error) {
	table := Bands(inst)
	if table == nil {
		return "", fmt.Errorf("%w: %q", ErrUnknownInstrument, inst)
	}
	for _, th := range table {
		if total >= th.Min && total <= th.Max {
			return th.Band, nil
		}
	}
	return "", fmt.Errorf("%s total %d: %w", inst, total, ErrTotalOutOfRange)
}
