package heap

// Status is populated on every Allocate call.
type Status struct {
	// Success is true on success, false on failure.
	Success bool
	// PayloadOffset is the byte offset of the returned payload from the
	// arena base on success, or -1 on failure.
	PayloadOffset int
	// Hops is the number of free-list entries examined before the
	// chosen block on success (0-based), or -1 on failure.
	Hops int
}

func failStatus() Status {
	return Status{Success: false, PayloadOffset: none, Hops: none}
}
