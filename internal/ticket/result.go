package ticket

// ActionResult is the outcome of one automated action on one order.
type ActionResult struct {
	OrderID string `json:"order_id"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BatchResult aggregates per-order outcomes for one AI ticket action.
// Success is true when at least one order succeeded.
type BatchResult struct {
	Action  string         `json:"action"`
	Results []ActionResult `json:"results"`
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
}

// SuccessIDs returns the ids of orders the action succeeded on, in input order.
func (r *BatchResult) SuccessIDs() []string {
	var ids []string
	for _, res := range r.Results {
		if res.Success {
			ids = append(ids, res.OrderID)
		}
	}
	return ids
}

// FailedIDs returns the ids of orders the action failed on, in input order.
func (r *BatchResult) FailedIDs() []string {
	var ids []string
	for _, res := range r.Results {
		if !res.Success {
			ids = append(ids, res.OrderID)
		}
	}
	return ids
}

func (r *BatchResult) add(res ActionResult) {
	r.Results = append(r.Results, res)
	if res.Success {
		r.Success = true
	}
}

func failure(orderID, message string) ActionResult {
	return ActionResult{OrderID: orderID, Success: false, Message: message}
}

func success(orderID, message string) ActionResult {
	return ActionResult{OrderID: orderID, Success: true, Message: message}
}
