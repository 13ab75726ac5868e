// Package route parses the hash-routed locations the app is redirected back
// to after an external checkout.
package route

import (
	"net/url"
	"strconv"
	"strings"

	"shake-ai-wallet/internal/domain/model"
)

// ParseCallback extracts the payment callback parameters from a location
// fragment such as "#payment-success?session_id=cs_123&plan_id=2".
//
// Both session_id and plan_id must be present and non-empty, and plan_id
// must be an integer literal. Anything else reports ok=false: a direct,
// non-redirected visit to the result page (or the "#payment-failure"
// cancellation route) is a normal absent state, not an error.
//
// Parsing is pure; the same fragment always yields the same result.
func ParseCallback(fragment string) (model.CallbackParams, bool) {
	q := strings.Index(fragment, "?")
	if q == -1 {
		return model.CallbackParams{}, false
	}

	values, err := url.ParseQuery(fragment[q+1:])
	if err != nil {
		return model.CallbackParams{}, false
	}

	sessionID := values.Get("session_id")
	planIDStr := values.Get("plan_id")
	if sessionID == "" || planIDStr == "" {
		return model.CallbackParams{}, false
	}

	planID, err := strconv.ParseInt(planIDStr, 10, 64)
	if err != nil {
		return model.CallbackParams{}, false
	}

	return model.CallbackParams{SessionID: sessionID, PlanID: planID}, true
}
