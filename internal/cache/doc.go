// Package cache implements the bounded, TTL-limited memoization store that
// sits in front of every outbound call the server makes.
//
// A Cache holds at most a fixed number of entries and evicts in insertion
// order (FIFO) when full. Entries older than the TTL are treated as absent:
// Get drops them on access and Cleanup or Sweep drop the ones nobody reads.
package cache
