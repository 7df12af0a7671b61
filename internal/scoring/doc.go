// Package scoring computes bankruptcy-risk scores for companies and credit
// scores for individuals, and bands them into low, medium or high risk.
//
// Every function here is pure: no I/O, no shared state. Callers may run any
// number of evaluations concurrently.
package scoring
