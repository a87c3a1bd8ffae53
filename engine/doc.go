// Package engine computes ranked train-to-bus transfer recommendations.
//
// Given a resolved route template snapshot it fetches departures for the
// train boarding stop, the transfer stop, and every bus variant stop
// concurrently, correlates train rides with their arrival at the transfer
// point by trip identity, matches arrivals against bus departures subject
// to exit buffer and walking time, and returns a deduplicated, risk-scored,
// size-bounded list of transfer options. Upstream flakiness degrades the
// result (empty sources, availability flags) but never fails the request;
// the only hard errors are template configuration errors.
package engine
