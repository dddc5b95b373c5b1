package main

import (
	"fmt"
	"math/big"

	"github.com/spf13/cobra"

	"liquidityEngine/internal/liquidity"
	"liquidityEngine/internal/model"
	"liquidityEngine/internal/tickmath"
)

type positionOutput struct {
	Amount0   string `json:"amount0"`
	Amount1   string `json:"amount1"`
	Total0    string `json:"total0,omitempty"`
	Total1    string `json:"total1,omitempty"`
	InRange   bool   `json:"in_range"`
	PoolShare string `json:"pool_share,omitempty"`
}

func runPosition(cmd *cobra.Command, _ []string) error {
	currentTick, _ := cmd.Flags().GetInt32("tick")
	sqrtPriceRaw, _ := cmd.Flags().GetString("sqrt-price")
	tickLower, _ := cmd.Flags().GetInt32("tick-lower")
	tickUpper, _ := cmd.Flags().GetInt32("tick-upper")
	tickSpacing, _ := cmd.Flags().GetInt32("tick-spacing")
	liquidityRaw, _ := cmd.Flags().GetString("liquidity")
	poolLiquidityRaw, _ := cmd.Flags().GetString("pool-liquidity")

	if err := liquidity.ValidateTickRange(tickLower, tickUpper, tickSpacing); err != nil {
		return err
	}

	positionLiquidity, ok := new(big.Int).SetString(liquidityRaw, 10)
	if !ok {
		return fmt.Errorf("invalid liquidity %q", liquidityRaw)
	}

	var sqrtPrice *big.Int
	if sqrtPriceRaw != "" {
		sqrtPrice, ok = new(big.Int).SetString(sqrtPriceRaw, 10)
		if !ok {
			return fmt.Errorf("invalid sqrt-price %q", sqrtPriceRaw)
		}
		tick, err := tickmath.SqrtPriceToTick(sqrtPrice)
		if err != nil {
			return err
		}
		currentTick = tick
	} else {
		var err error
		sqrtPrice, err = tickmath.TickToSqrtPrice(currentTick)
		if err != nil {
			return err
		}
	}

	pool := model.PoolState{
		SqrtPriceX96: sqrtPrice,
		Tick:         currentTick,
		TickSpacing:  tickSpacing,
	}
	position := model.PositionRange{
		TickLower: tickLower,
		TickUpper: tickUpper,
		Liquidity: positionLiquidity,
	}

	amount0, amount1, err := liquidity.PositionAmounts(pool, position)
	if err != nil {
		return err
	}

	output := positionOutput{
		Amount0: amount0.String(),
		Amount1: amount1.String(),
		InRange: liquidity.InRange(currentTick, tickLower, tickUpper),
	}

	owed0Raw, _ := cmd.Flags().GetString("owed0")
	owed1Raw, _ := cmd.Flags().GetString("owed1")
	if owed0Raw != "" || owed1Raw != "" {
		owed0, owed1 := new(big.Int), new(big.Int)
		if owed0Raw != "" {
			if _, ok := owed0.SetString(owed0Raw, 10); !ok {
				return fmt.Errorf("invalid owed0 %q", owed0Raw)
			}
		}
		if owed1Raw != "" {
			if _, ok := owed1.SetString(owed1Raw, 10); !ok {
				return fmt.Errorf("invalid owed1 %q", owed1Raw)
			}
		}
		total0, total1 := liquidity.TotalAmounts(amount0, amount1, owed0, owed1)
		output.Total0 = total0.String()
		output.Total1 = total1.String()
	}
	if poolLiquidityRaw != "" {
		poolLiquidity, ok := new(big.Int).SetString(poolLiquidityRaw, 10)
		if !ok {
			return fmt.Errorf("invalid pool-liquidity %q", poolLiquidityRaw)
		}
		output.PoolShare = liquidity.PoolSharePercent(positionLiquidity, poolLiquidity)
	}

	return printJSON(output)
}
