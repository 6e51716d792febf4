// Package pacing defines the programmable parameters, their valid ranges
// and the pacing modes that consult them.
package pacing
