package chathub

import (
	"log"

	"chatterbox/backend/internal/models"
)

// deliverPending runs exactly once per successful registration: every message
// addressed to the newly-connected user still in "sent" moves to "delivered",
// and each distinct sender that is currently online gets one receipt naming
// the receiver. The status filter keeps the whole thing idempotent: a second
// run for the same registration finds nothing left to transition.
func (m *ManagerService) deliverPending(c Client) {
	senders, err := m.Storage.DeliverPendingMessages(c.GetUserID())
	if err != nil {
		log.Printf("ERROR: Delivery update failed for %s: %v", c.GetUserID(), err)
		return
	}
	for _, senderID := range senders {
		m.EmitToUser(senderID, EvMessagesDelivered, models.DeliveredPayload{
			ReceiverID: c.GetUserID(),
		})
	}
}
