package event

import (
	"encoding/json"
	"log"
)

// ProgressionQueue publishes award ledger events to the queue the
// external rank display consumes. Satisfies service.Publisher.
type ProgressionQueue struct{}

func (ProgressionQueue) Publish(action string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("failed to marshal progression event %s: %v", action, err)
		return
	}
	Emit("progression", action, body)
}
