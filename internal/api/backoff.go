package api

import "time"

// Policy maps a retry attempt number (1-based) to the delay to wait before
// issuing that attempt. Policies are pure so retry behavior can be tested
// without real network calls or real sleeps.
type Policy func(attempt int) time.Duration

// ExponentialBackoff returns a Policy that doubles base for each attempt,
// capped at max: base, 2*base, 4*base, ...
func ExponentialBackoff(base, max time.Duration) Policy {
	return func(attempt int) time.Duration {
		if attempt < 1 {
			attempt = 1
		}
		d := base
		for i := 1; i < attempt; i++ {
			d *= 2
			if d >= max {
				return max
			}
		}
		if d > max {
			return max
		}
		return d
	}
}
