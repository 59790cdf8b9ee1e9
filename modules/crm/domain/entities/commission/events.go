package commission

// SubmittedEvent is published after a bonus request commits.
type SubmittedEvent struct {
	Request CommissionRequest
}

// ReviewedEvent is published after a pending request is approved or denied.
type ReviewedEvent struct {
	RequestID uint
	Status    RequestStatus
}
