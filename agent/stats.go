package agent

import "wildperudo/game"

const (
	faceProbability = 1.0 / 6.0
	// a non-wild face is supported by the face itself or a wild
	supportProbability = 2.0 / 6.0
)

// matchProbability is the chance that one unseen die supports face.
func matchProbability(face int) float64 {
	if face == game.WildFace {
		return faceProbability
	}
	return supportProbability
}

// binomialCDF returns P(X <= k) for X ~ Binomial(n, p).
func binomialCDF(k, n int, p float64) float64 {
	if k < 0 {
		return 0
	}
	if k >= n {
		return 1
	}
	if p <= 0 {
		return 1
	}
	if p >= 1 {
		return 0
	}

	pmf := 1.0
	for i := 0; i < n; i++ {
		pmf *= 1 - p
	}
	ratio := p / (1 - p)
	cdf := pmf
	for i := 0; i < k; i++ {
		pmf *= float64(n-i) / float64(i+1) * ratio
		cdf += pmf
	}
	if cdf > 1 {
		return 1
	}
	return cdf
}

// holdProbability is the chance that bid stands given support dice already
// known to match and unseen dice that match independently.
func holdProbability(bid game.Bid, support, unseen int) float64 {
	need := bid.Count - support
	if need <= 0 {
		return 1
	}
	if need > unseen {
		return 0
	}
	return 1 - binomialCDF(need-1, unseen, matchProbability(bid.Face))
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
