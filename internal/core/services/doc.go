// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters) and the algorithm engines.
//
// Every long-running operation is recorded in the run history when a
// RunStore is configured. Services are pure Go with no CGO.
package services
