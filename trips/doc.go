// Package trips fetches a single trip's stop-by-stop shape and attaches
// estimated live delays per stop. It is auxiliary display data: nothing in
// the recommendation ranking depends on it.
package trips
