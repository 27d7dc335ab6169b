package mathex

import (
	"math"

	"go.uber.org/zap"
)

func zapNop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func isNaNScalar(s Scalar) bool {
	return math.IsNaN(float64(s))
}
