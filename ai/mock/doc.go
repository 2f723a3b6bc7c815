// Package mock provides test doubles for the ai package interfaces.
//
// Constructors return concrete types so tests can inject behavior through
// the Func fields and assert on call counts.
package mock
