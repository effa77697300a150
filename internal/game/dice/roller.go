package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger. Every draw is logged at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that draws from src and logs to logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Uniform01 returns one uniform sample in [0, 1).
func (r *Roller) Uniform01() float64 {
	v := r.src.Float64()
	r.logger.Debug("uniform draw", zap.Float64("value", v))
	return v
}

// Chance draws once and succeeds when the sample is <= p.
//
// Postcondition: p >= 1 always succeeds; p < 0 never succeeds.
func (r *Roller) Chance(p float64) bool {
	v := r.src.Float64()
	ok := v <= p
	r.logger.Debug("chance draw",
		zap.Float64("probability", p),
		zap.Float64("value", v),
		zap.Bool("success", ok),
	)
	return ok
}

// Pick returns a uniformly random index in [0, n).
//
// Precondition: n > 0.
func (r *Roller) Pick(n int) int {
	i := r.src.Intn(n)
	r.logger.Debug("pick", zap.Int("n", n), zap.Int("index", i))
	return i
}

// Between returns a uniformly random integer in [lo, hi].
//
// Precondition: lo <= hi.
func (r *Roller) Between(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + r.src.Intn(hi-lo+1)
}

// Roll evaluates expr and returns the total.
//
// Postcondition: Flat expressions return expr.Modifier without drawing.
func (r *Roller) Roll(expr Expression) int {
	total := expr.Modifier
	if expr.Flat() {
		return total
	}
	dice := make([]int, expr.Count)
	for i := range dice {
		dice[i] = r.src.Intn(expr.Sides) + 1
		total += dice[i]
	}
	r.logger.Debug("dice roll",
		zap.String("expression", expr.Raw),
		zap.Ints("dice", dice),
		zap.Int("modifier", expr.Modifier),
		zap.Int("total", total),
	)
	return total
}
