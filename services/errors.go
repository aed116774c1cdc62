package services

// ValidationError rejects an admin payload before it reaches the store.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }
