// Package api
// Author: momentics@gmail.com
//
// Batching primitives for highload event consumption.

package api

// BatchStore is a fixed-capacity FIFO for items drained from one poll pass.
// Instances are single-writer/single-reader and owned by one consumer
// goroutine; none of the methods synchronize.
type BatchStore[T any] interface {
	// Available returns the number of items not yet taken this epoch.
	Available() int
	// Append stores one item. It reports whether room remains for further
	// appends in this epoch; appending to a full store is a caller contract
	// violation and panics with ErrBatchOverflow.
	Append(item T) bool
	// TakeNext returns the oldest stored item, or ok=false when empty.
	TakeNext() (item T, ok bool)
	// Cap returns the fixed capacity.
	Cap() int
}
