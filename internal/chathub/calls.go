package chathub

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"chatterbox/backend/internal/models"
	"chatterbox/backend/internal/storage"

	"github.com/lib/pq"
)

// CallService owns the call state machine. One instance serves both voice and
// video: the call type only selects the event-name prefix and rides along on
// the persisted record.
//
// Signaling relay is stateless: accept/signal/end are forwarded by target user
// id without checking that a session is live. A stray candidate after the call
// ends is simply delivered and ignored by the receiving client.
type CallService struct {
	hub     *ManagerService
	storage storage.Storage

	mu       sync.Mutex
	sessions map[string]*callSession
}

// callSession is the transient in-memory context for one non-terminal call
// attempt. It is discarded on any terminal transition and when either party's
// connection goes away. Discarding it never touches the persisted record: a
// party that vanishes without sending end/reject leaves the record where it
// was.
type callSession struct {
	callID   string
	callType models.CallType
	callerID string
	calleeID string
}

func NewCallService(hub *ManagerService, s storage.Storage) *CallService {
	return &CallService{
		hub:      hub,
		storage:  s,
		sessions: make(map[string]*callSession),
	}
}

// Handle dispatches one incoming call event for the given call type.
func (cs *CallService) Handle(c Client, ct models.CallType, action string, data json.RawMessage) {
	switch action {
	case CallActionInitiate:
		cs.initiate(c, ct, data)
	case CallActionAccept:
		cs.accept(c, ct, data)
	case CallActionReject:
		cs.reject(c, ct, data)
	case CallActionSignal:
		cs.signal(c, ct, data)
	case CallActionEnd:
		cs.end(c, ct, data)
	default:
		log.Printf("Dropped unknown call action %q from user %s", action, c.GetUserID())
	}
}

// initiate runs the ordered precondition checks, creates the call record, and
// either rings the callee or marks the attempt missed when they are offline.
// No record exists for attempts rejected by a precondition.
func (cs *CallService) initiate(c Client, ct models.CallType, data json.RawMessage) {
	var p models.CallInitiatePayload
	if !cs.hub.decode(c, CallEventName(ct, CallActionInitiate), data, &p) || p.TargetID == "" {
		return
	}
	callerID := c.GetUserID()

	eligible, err := cs.storage.IsUserEligible(callerID, ct)
	if err != nil {
		cs.emitError(c, ct, "internal", "could not verify calling plan")
		return
	}
	if !eligible {
		cs.emitError(c, ct, "ineligible-caller", "your plan does not include calls")
		return
	}

	callee, err := cs.storage.GetUserByID(p.TargetID)
	if err != nil {
		cs.emitError(c, ct, "internal", "could not look up user")
		return
	}
	if callee == nil {
		cs.emitError(c, ct, "not-found", "user not found")
		return
	}

	eligible, err = cs.storage.IsUserEligible(callee.ID, ct)
	if err != nil {
		cs.emitError(c, ct, "internal", "could not verify calling plan")
		return
	}
	if !eligible {
		cs.emitError(c, ct, "ineligible-callee", "this user cannot receive calls")
		return
	}

	rec := &models.CallRecord{
		Type:         ct,
		CallerID:     callerID,
		ReceiverID:   callee.ID,
		Participants: pq.StringArray{callerID, callee.ID},
		Status:       models.CallStatusInitiated,
	}
	if err := cs.storage.CreateCallRecord(rec); err != nil {
		cs.emitError(c, ct, "internal", "could not start call")
		return
	}
	cs.hub.sendEvent(c, CallEventName(ct, CallActionCreated), models.CallCreatedPayload{CallID: rec.ID})

	if _, online := cs.hub.Registry.Lookup(callee.ID); !online {
		now := time.Now()
		if err := cs.storage.UpdateCallRecord(rec.ID, map[string]interface{}{
			"status":   models.CallStatusMissed,
			"ended_at": now,
		}); err != nil {
			log.Printf("ERROR: Failed to mark call %s missed: %v", rec.ID, err)
		}
		// The caller learns about the offline callee through this error event,
		// not through the missed-call transition.
		cs.emitError(c, ct, "user-offline", callee.Username+" is offline")
		return
	}

	cs.track(&callSession{
		callID:   rec.ID,
		callType: ct,
		callerID: callerID,
		calleeID: callee.ID,
	})
	cs.hub.EmitToUser(callee.ID, CallEventName(ct, CallActionIncoming), models.CallIncomingPayload{
		CallID:     rec.ID,
		Offer:      p.Offer,
		CallerID:   callerID,
		CallerName: p.CallerName,
	})
}

// accept marks the record ongoing and forwards the answer to the caller.
// A missing call id is tolerated; if the caller already left, forwarding is a
// silent no-op.
func (cs *CallService) accept(c Client, ct models.CallType, data json.RawMessage) {
	var p models.CallAcceptPayload
	if !cs.hub.decode(c, CallEventName(ct, CallActionAccept), data, &p) || p.TargetID == "" {
		return
	}

	if p.CallID != "" {
		if _, ok := cs.loadForTransition(p.CallID); ok {
			if err := cs.storage.UpdateCallRecord(p.CallID, map[string]interface{}{
				"status":     models.CallStatusOngoing,
				"started_at": time.Now(),
			}); err != nil {
				// Relay anyway: the negotiation matters more than the history row.
				log.Printf("ERROR: Failed to mark call %s ongoing: %v", p.CallID, err)
			}
		}
	}

	cs.hub.EmitToUser(p.TargetID, CallEventName(ct, CallActionAccepted), models.CallAcceptedPayload{
		CallID: p.CallID,
		Answer: p.Answer,
	})
}

func (cs *CallService) reject(c Client, ct models.CallType, data json.RawMessage) {
	var p models.CallRejectPayload
	if !cs.hub.decode(c, CallEventName(ct, CallActionReject), data, &p) || p.TargetID == "" {
		return
	}

	if p.CallID != "" {
		if _, ok := cs.loadForTransition(p.CallID); ok {
			if err := cs.storage.UpdateCallRecord(p.CallID, map[string]interface{}{
				"status":   models.CallStatusRejected,
				"ended_at": time.Now(),
				"ended_by": c.GetUserID(),
			}); err != nil {
				log.Printf("ERROR: Failed to mark call %s rejected: %v", p.CallID, err)
			}
		}
		cs.drop(p.CallID)
	}

	cs.hub.EmitToUser(p.TargetID, CallEventName(ct, CallActionRejected), models.CallRejectedPayload{
		CallID: p.CallID,
		Reason: p.Reason,
	})
}

// signal relays one ICE candidate to the other party, keyed purely by target
// user id.
func (cs *CallService) signal(c Client, ct models.CallType, data json.RawMessage) {
	var p models.CallSignalPayload
	if !cs.hub.decode(c, CallEventName(ct, CallActionSignal), data, &p) || p.TargetID == "" {
		return
	}
	cs.hub.EmitToUser(p.TargetID, CallEventName(ct, CallActionSignal), models.CallSignalRelayPayload{
		CallID:    p.CallID,
		SenderID:  c.GetUserID(),
		Candidate: p.Candidate,
	})
}

// end closes the record with duration = ended − started (zero if the call
// never reached ongoing) and notifies the other party if still online.
func (cs *CallService) end(c Client, ct models.CallType, data json.RawMessage) {
	var p models.CallEndPayload
	if !cs.hub.decode(c, CallEventName(ct, CallActionEnd), data, &p) || p.TargetID == "" {
		return
	}

	if p.CallID != "" {
		if rec, ok := cs.loadForTransition(p.CallID); ok {
			now := time.Now()
			duration := 0
			if rec.StartedAt != nil {
				duration = int(now.Sub(*rec.StartedAt).Seconds())
			}
			if err := cs.storage.UpdateCallRecord(p.CallID, map[string]interface{}{
				"status":   models.CallStatusEnded,
				"ended_at": now,
				"duration": duration,
				"ended_by": c.GetUserID(),
			}); err != nil {
				log.Printf("ERROR: Failed to mark call %s ended: %v", p.CallID, err)
			}
		}
		cs.drop(p.CallID)
	}

	cs.hub.EmitToUser(p.TargetID, CallEventName(ct, CallActionEnded), models.CallEndedPayload{
		CallID:  p.CallID,
		EndedBy: c.GetUserID(),
	})
}

// loadForTransition loads a call record and reports whether it may still be
// transitioned. A terminal record is final and is never updated again; a
// missing or unreadable record skips the update but never blocks the relay.
func (cs *CallService) loadForTransition(callID string) (*models.CallRecord, bool) {
	rec, err := cs.storage.GetCallRecord(callID)
	if err != nil {
		log.Printf("ERROR: Failed to load call %s: %v", callID, err)
		return nil, false
	}
	if rec == nil {
		return nil, false
	}
	if rec.Status.Terminal() {
		log.Printf("Ignored transition of terminal call %s (status %s)", callID, rec.Status)
		return nil, false
	}
	return rec, true
}

// DropSessionsFor discards the in-memory sessions a disconnecting user was
// part of. The persisted records are deliberately left alone.
func (cs *CallService) DropSessionsFor(userID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for id, s := range cs.sessions {
		if s.callerID == userID || s.calleeID == userID {
			delete(cs.sessions, id)
		}
	}
}

// ActiveSessions returns the number of tracked non-terminal call attempts.
func (cs *CallService) ActiveSessions() int {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	return len(cs.sessions)
}

func (cs *CallService) track(s *callSession) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.sessions[s.callID] = s
}

func (cs *CallService) drop(callID string) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	delete(cs.sessions, callID)
}

func (cs *CallService) emitError(c Client, ct models.CallType, code, message string) {
	cs.hub.sendEvent(c, CallEventName(ct, CallActionError), models.ErrorPayload{
		Code:    code,
		Message: message,
	})
}
