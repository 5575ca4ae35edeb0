package linear

// Option is a function that configures LSReg
type Option func(*LSReg)

// WithFitIntercept sets whether to calculate the intercept
func WithFitIntercept(fit bool) Option {
	return func(lr *LSReg) {
		lr.FitIntercept = fit
	}
}

// WithRidge adds lambda times the identity to the normal equations. The
// intercept column is not penalised.
func WithRidge(lambda float64) Option {
	return func(lr *LSReg) {
		lr.Ridge = lambda
	}
}
