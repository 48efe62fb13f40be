package defaultproto

import (
	"fmt"

	"github.com/edgarnunogubinvest/agents-aea/dialogue"
)

func performativeSet(perfs ...Performative) map[dialogue.Performative]struct{} {
	s := make(map[dialogue.Performative]struct{}, len(perfs))
	for _, p := range perfs {
		s[p] = struct{}{}
	}
	return s
}

func repliesFor(perfs ...Performative) map[dialogue.Performative]struct{} {
	return performativeSet(perfs...)
}

// newMessage is the dialogue.MessageFactory for this protocol. contentFields
// must be a Content (or nil, for End messages, which carry none).
func newMessage(ref dialogue.Reference, messageID, target int, performative dialogue.Performative, contentFields any) (dialogue.Message, error) {
	var body Content
	switch v := contentFields.(type) {
	case nil:
	case Content:
		body = v
	case *Content:
		if v != nil {
			body = *v
		}
	default:
		return nil, fmt.Errorf("defaultproto: unsupported content type %T", contentFields)
	}

	perf, ok := performative.(Performative)
	if !ok {
		return nil, fmt.Errorf("defaultproto: unsupported performative type %T", performative)
	}

	return &Message{Ref: ref, ID: messageID, Tgt: target, Perf: perf, Body: body}, nil
}

// roleFromFirstMessage assigns Initiator to forAddress when it is the
// opening Bytes message's sender, Responder otherwise.
func roleFromFirstMessage(first dialogue.Message, forAddress dialogue.Address) dialogue.Role {
	if first.Sender() == forAddress {
		return RoleInitiator
	}
	return RoleResponder
}

// isValid performs the one content-type check the reply grammar cannot
// express: an Error message must carry a non-empty error message.
func isValid(d *dialogue.Dialogue, message dialogue.Message) (bool, string) {
	m, ok := message.(*Message)
	if !ok {
		return false, fmt.Sprintf("defaultproto: unexpected message type %T", message)
	}
	if m.Perf == Error && m.Body.ErrorMsg == "" {
		return false, "defaultproto: error must carry a non-empty error_msg"
	}
	return true, ""
}

// Descriptor builds the dialogue.ProtocolDescriptor for this protocol. It
// is the simplest possible descriptor: a request (Bytes) answered by either
// a Bytes reply, an Error, or an End. Error and End are terminal; a Bytes
// reply may itself be answered the same way. This is the shape protocol
// authors copy when they start a new protocol.
func Descriptor() *dialogue.ProtocolDescriptor {
	return &dialogue.ProtocolDescriptor{
		Name:                  "default",
		InitialPerformatives:  performativeSet(Bytes),
		TerminalPerformatives: performativeSet(Error, End),
		ValidReplies: map[dialogue.Performative]map[dialogue.Performative]struct{}{
			Bytes: repliesFor(Bytes, Error, End),
			Error: {},
			End:   {},
		},
		EndStates: map[dialogue.EndState]struct{}{
			EndStateSuccessful: {},
			EndStateErrored:    {},
		},
		RoleFromFirstMessage: roleFromFirstMessage,
		NewMessage:           newMessage,
		IsValid:              isValid,
		// The default protocol carries no ordering guarantee beyond the
		// reply grammar: a Bytes request may be answered any number of
		// times before an End, so target-predecessor strictness would
		// reject legitimate multi-reply exchanges.
		StrictTargetPredecessor: false,
	}
}
