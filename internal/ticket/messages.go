package ticket

import (
	"fmt"
	"strings"

	"smmdesk/internal/models"
)

var actionPhrases = map[string]string{
	models.AIActionRefill:       "refill request",
	models.AIActionCancel:       "cancellation request",
	models.AIActionSpeedUp:      "speed up request",
	models.AIActionRestart:      "restart request",
	models.AIActionFakeComplete: "completion request",
}

// SystemMessage renders the automated reply posted on an AI ticket. Three
// templates: everything succeeded, everything failed, or a mix listing both
// groups. Refill and Cancel additionally itemize the failure reasons.
func SystemMessage(action string, batch *BatchResult) string {
	phrase, ok := actionPhrases[action]
	if !ok {
		phrase = "request"
	}

	okIDs := batch.SuccessIDs()
	badIDs := batch.FailedIDs()

	var b strings.Builder
	switch {
	case len(badIDs) == 0:
		fmt.Fprintf(&b, "Good news! Your %s has been processed successfully for order(s): %s.",
			phrase, strings.Join(okIDs, ", "))
	case len(okIDs) == 0:
		fmt.Fprintf(&b, "Unfortunately we could not process your %s for order(s): %s.",
			phrase, strings.Join(badIDs, ", "))
	default:
		fmt.Fprintf(&b, "Your %s has been processed for order(s): %s. We could not process order(s): %s.",
			phrase, strings.Join(okIDs, ", "), strings.Join(badIDs, ", "))
	}

	if len(badIDs) > 0 && (action == models.AIActionRefill || action == models.AIActionCancel) {
		b.WriteString("\n\nDetails:")
		for _, res := range batch.Results {
			if !res.Success {
				fmt.Fprintf(&b, "\n- Order %s: %s", res.OrderID, res.Message)
			}
		}
	}

	return b.String()
}
