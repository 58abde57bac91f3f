package order

// Order lifecycle: Pending → Processing → Shipping → Delivered,
// or Pending → Cancelled.
const (
	StatusPending    = "Pending"
	StatusProcessing = "Processing"
	StatusShipping   = "Shipping"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)

var transitions = map[string][]string{
	StatusPending:    {StatusProcessing, StatusCancelled},
	StatusProcessing: {StatusShipping},
	StatusShipping:   {StatusDelivered},
	StatusDelivered:  {},
	StatusCancelled:  {},
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s string) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the lifecycle allows moving from one
// status to the next.
func CanTransition(from, to string) bool {
	for _, allowed := range transitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}
