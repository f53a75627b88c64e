// Package mock provides test doubles for the ai package interfaces.
//
// The mocks allow behavior injection via function fields and expose call
// counts so tests can assert that no external call was made, e.g. when input
// validation is expected to short-circuit.
package mock
