// Package rangepreset maps named range presets onto aligned tick bounds
// around a pool's current price.
package rangepreset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tickmath"
)

// ErrRangeTooNarrow is returned when alignment collapses a band to zero width.
var ErrRangeTooNarrow = errors.New("range too narrow for tick spacing")

// Preset names a symmetric percentage band around the current price, except
// Full (the whole grid) and Custom (caller-supplied bounds).
type Preset int

const (
	Full Preset = iota
	Wide
	Medium
	Narrow
	Custom
)

// Band percentages per preset.
const (
	widePercent   = 50
	mediumPercent = 20
	narrowPercent = 5
)

func (p Preset) String() string {
	switch p {
	case Full:
		return "full"
	case Wide:
		return "wide"
	case Medium:
		return "medium"
	case Narrow:
		return "narrow"
	case Custom:
		return "custom"
	default:
		return fmt.Sprintf("preset(%d)", int(p))
	}
}

// Parse resolves a preset from its name.
func Parse(name string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "full":
		return Full, nil
	case "wide":
		return Wide, nil
	case "medium":
		return Medium, nil
	case "narrow":
		return Narrow, nil
	case "custom":
		return Custom, nil
	default:
		return Full, fmt.Errorf("unknown preset %q: %w", name, model.ErrInvalidInput)
	}
}

// Band is an aligned [TickLower, TickUpper] pair.
type Band struct {
	TickLower int32
	TickUpper int32
}

// Range computes the aligned tick bounds for a preset around currentTick.
// The custom argument is required for Custom and ignored otherwise. Output
// bounds are multiples of tickSpacing with TickLower < TickUpper.
func Range(preset Preset, currentTick, tickSpacing int32, custom *Band) (Band, error) {
	if tickSpacing <= 0 {
		return Band{}, fmt.Errorf("tick spacing %d: %w", tickSpacing, model.ErrInvalidInput)
	}

	switch preset {
	case Full:
		return Band{
			TickLower: tickmath.MinUsableTick(tickSpacing),
			TickUpper: tickmath.MaxUsableTick(tickSpacing),
		}, nil
	case Custom:
		if custom == nil {
			return Band{}, fmt.Errorf("custom preset requires bounds: %w", model.ErrInvalidInput)
		}
		return alignBand(custom.TickLower, custom.TickUpper, tickSpacing)
	case Wide:
		return percentBand(currentTick, tickSpacing, widePercent)
	case Medium:
		return percentBand(currentTick, tickSpacing, mediumPercent)
	case Narrow:
		return percentBand(currentTick, tickSpacing, narrowPercent)
	default:
		return Band{}, fmt.Errorf("unknown preset %d: %w", int(preset), model.ErrInvalidInput)
	}
}

func percentBand(currentTick, tickSpacing int32, percent int) (Band, error) {
	delta := ticksForPercent(percent)
	lower := clampTick(int64(currentTick) - int64(delta))
	upper := clampTick(int64(currentTick) + int64(delta))
	return alignBand(lower, upper, tickSpacing)
}

func alignBand(lower, upper, tickSpacing int32) (Band, error) {
	alignedLower, err := tickmath.NearestUsableTick(lower, tickSpacing)
	if err != nil {
		return Band{}, err
	}
	alignedUpper, err := tickmath.NearestUsableTick(upper, tickSpacing)
	if err != nil {
		return Band{}, err
	}
	if alignedLower >= alignedUpper {
		return Band{}, fmt.Errorf("band [%d,%d) with spacing %d: %w", lower, upper, tickSpacing, ErrRangeTooNarrow)
	}
	return Band{TickLower: alignedLower, TickUpper: alignedUpper}, nil
}

// WidthPercent returns a band's width as the percentage price move from its
// lower to its upper bound.
func WidthPercent(band Band) float64 {
	if band.TickUpper <= band.TickLower {
		return 0
	}
	ratio := math.Pow(1.0001, float64(band.TickUpper)-float64(band.TickLower))
	return (ratio - 1) * 100
}

// ticksForPercent returns the tick count whose price ratio is 1+percent/100.
func ticksForPercent(percent int) int32 {
	ratio := 1 + float64(percent)/100
	return int32(math.Round(math.Log(ratio) / math.Log(1.0001)))
}

func clampTick(tick int64) int32 {
	if tick < int64(tickmath.MinTick) {
		return tickmath.MinTick
	}
	if tick > int64(tickmath.MaxTick) {
		return tickmath.MaxTick
	}
	return int32(tick)
}
