package incentive

import (
	"math"
	"math/big"
)

const secondsPerYear = 365 * 24 * 60 * 60

// APR estimates the annualized reward rate of an incentive as a percentage
// of the total staked value. Returns 0 when the staked value or duration is
// not positive.
func APR(totalReward *big.Int, rewardDecimals uint8, durationSeconds uint64, totalStakedValueUSD, rewardPriceUSD float64) float64 {
	if totalReward == nil || totalStakedValueUSD <= 0 || durationSeconds == 0 {
		return 0
	}

	rewardAmount, _ := new(big.Float).SetInt(totalReward).Float64()
	rewardAmount /= math.Pow10(int(rewardDecimals))
	totalRewardUSD := rewardAmount * rewardPriceUSD

	annualizedUSD := totalRewardUSD / float64(durationSeconds) * secondsPerYear
	return annualizedUSD / totalStakedValueUSD * 100
}
