package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"liquidityEngine/internal/model"
	"liquidityEngine/internal/rangepreset"
	"liquidityEngine/internal/tickmath"
)

type rangeOutput struct {
	Preset       string  `json:"preset"`
	TickLower    int32   `json:"tick_lower"`
	TickUpper    int32   `json:"tick_upper"`
	PriceLower   string  `json:"price_lower"`
	PriceUpper   string  `json:"price_upper"`
	WidthPercent float64 `json:"width_percent"`
}

func runRange(cmd *cobra.Command, _ []string) error {
	presetName, _ := cmd.Flags().GetString("preset")
	currentTick, _ := cmd.Flags().GetInt32("tick")
	tickSpacing, _ := cmd.Flags().GetInt32("tick-spacing")
	decimals0, _ := cmd.Flags().GetUint8("decimals0")
	decimals1, _ := cmd.Flags().GetUint8("decimals1")

	// An explicit fee tier implies its canonical spacing.
	if fee, _ := cmd.Flags().GetUint32("fee"); fee != 0 {
		spacing, ok := model.TickSpacingForFee(fee)
		if !ok {
			return fmt.Errorf("no canonical tick spacing for fee tier %d", fee)
		}
		tickSpacing = spacing
	}

	preset, err := rangepreset.Parse(presetName)
	if err != nil {
		return err
	}

	var custom *rangepreset.Band
	if preset == rangepreset.Custom {
		lower, _ := cmd.Flags().GetInt32("lower")
		upper, _ := cmd.Flags().GetInt32("upper")
		custom = &rangepreset.Band{TickLower: lower, TickUpper: upper}
	}

	band, err := rangepreset.Range(preset, currentTick, tickSpacing, custom)
	if err != nil {
		return err
	}

	priceLower, err := tickmath.TickToPrice(band.TickLower, decimals0, decimals1)
	if err != nil {
		return err
	}
	priceUpper, err := tickmath.TickToPrice(band.TickUpper, decimals0, decimals1)
	if err != nil {
		return err
	}

	return printJSON(rangeOutput{
		Preset:       preset.String(),
		TickLower:    band.TickLower,
		TickUpper:    band.TickUpper,
		PriceLower:   priceLower,
		PriceUpper:   priceUpper,
		WidthPercent: rangepreset.WidthPercent(band),
	})
}
