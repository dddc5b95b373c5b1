package main

import (
	"github.com/spf13/cobra"

	"liquidityEngine/internal/tickmath"
)

type tickOutput struct {
	Tick      int32  `json:"tick"`
	SqrtPrice string `json:"sqrt_price_x96"`
	Price     string `json:"price"`
}

func runTick(cmd *cobra.Command, _ []string) error {
	tick, _ := cmd.Flags().GetInt32("tick")
	price, _ := cmd.Flags().GetString("price")
	decimals0, _ := cmd.Flags().GetUint8("decimals0")
	decimals1, _ := cmd.Flags().GetUint8("decimals1")

	if price != "" {
		parsed, err := tickmath.PriceToTick(price, decimals0, decimals1)
		if err != nil {
			return err
		}
		tick = parsed
	}

	sqrtPrice, err := tickmath.TickToSqrtPrice(tick)
	if err != nil {
		return err
	}
	displayPrice, err := tickmath.TickToPrice(tick, decimals0, decimals1)
	if err != nil {
		return err
	}

	return printJSON(tickOutput{
		Tick:      tick,
		SqrtPrice: sqrtPrice.String(),
		Price:     displayPrice,
	})
}
