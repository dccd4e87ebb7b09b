package dice

import "go.uber.org/zap"

// Roller wraps a Source and logger so every formula evaluation leaves an
// audit line at debug level.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewRoller creates a Roller that rolls with src and logs each roll to logger.
//
// Precondition: src and logger must be non-nil.
func NewRoller(src Source, logger *zap.Logger) *Roller {
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Evaluate parses and rolls a formula string, logging the outcome.
//
// Postcondition: result >= 1 for every input.
func (r *Roller) Evaluate(raw string) int {
	f := ParseFormula(raw)
	result := f.Eval(r.src)
	r.logger.Debug("formula roll",
		zap.String("formula", raw),
		zap.Bool("dice", f.IsDice),
		zap.Int("count", f.Count),
		zap.Int("sides", f.Sides),
		zap.Int("result", result),
	)
	return result
}

// D20 rolls a twenty-sided die.
//
// Postcondition: result in [1, 20].
func (r *Roller) D20() int { return r.src.Intn(20) + 1 }
