// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services are pure Go; the only external dependency is the rate
// limiter pacing embedding batches during index population.
package services
