// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - UserStore: User table persistence (SQLite, memory)
//   - RunStore: Run history persistence (SQLite, memory)
//   - ConfigStore: Application configuration (TOML file, memory)
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or engine package
package driven
