package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDialogueReplyAdvancesMessageIDAndTarget(t *testing.T) {
	protocol := newTestProtocol(true)
	ds := New("alice", protocol)

	initial, d, err := ds.Create("bob", perfRequest, nil)
	require.NoError(t, err)
	require.Equal(t, 1, initial.MessageID())
	require.Equal(t, 0, initial.Target())

	inboundOffer := &testMessage{
		ref:       Reference{Starter: d.Label().Reference.Starter, Responder: "n2"},
		messageID: 2,
		target:    1,
	}
	inboundOffer.performative = perfOffer
	inboundOffer.SetSender("bob")
	inboundOffer.SetTo("alice")

	got := ds.Update(inboundOffer)
	require.NotNil(t, got)
	assert.Equal(t, "n2", got.Label().Reference.Responder)

	reply, err := got.Reply(inboundOffer, perfAccept, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, reply.MessageID())
	assert.Equal(t, 2, reply.Target())
}

func TestDialogueReplyOnEmptyDialoguePanics(t *testing.T) {
	protocol := newTestProtocol(true)
	d := newDialogue(
		Label{Reference: Reference{Starter: "n1", Responder: ""}, OpponentAddr: "bob", StarterAddr: "alice"},
		protocol, "alice", roleInitiator,
	)

	assert.Panics(t, func() {
		_, _ = d.Reply(&testMessage{}, perfAccept, nil)
	})
}

func TestDialogueRejectsOutOfOrderMessageID(t *testing.T) {
	protocol := newTestProtocol(true)
	ds := New("alice", protocol)

	_, d, err := ds.Create("bob", perfRequest, nil)
	require.NoError(t, err)

	offer := &testMessage{
		ref:          Reference{Starter: d.Label().Reference.Starter, Responder: ""},
		messageID:    2,
		target:       1,
		performative: perfOffer,
	}
	offer.SetSender("bob")
	offer.SetTo("alice")
	require.NoError(t, d.Update(offer))

	// Scenario C: Bob sends id=4, target=3 (skipping id=3).
	outOfOrder := &testMessage{
		ref:          Reference{Starter: d.Label().Reference.Starter, Responder: ""},
		messageID:    4,
		target:       3,
		performative: perfAccept,
	}
	outOfOrder.SetSender("bob")
	outOfOrder.SetTo("alice")

	err = d.Update(outOfOrder)
	assert.ErrorIs(t, err, ErrInvalidDialogueMessage)
	assert.Equal(t, 2, d.LastMessage().MessageID())
}

func TestDialogueRejectsReplyTargetingNonPredecessor(t *testing.T) {
	// A variant protocol where accept is (unusually) also a valid direct
	// reply to request, so that the failure below is isolated to the
	// additional-validation stage rather than masked by basic validation's
	// valid-replies check.
	protocol := newTestProtocol(true)
	protocol.ValidReplies[perfRequest] = map[Performative]struct{}{perfOffer: {}, perfDecline: {}, perfAccept: {}}
	ds := New("alice", protocol)

	initial, d, err := ds.Create("bob", perfRequest, nil)
	require.NoError(t, err)

	offer := &testMessage{
		ref:          Reference{Starter: d.Label().Reference.Starter, Responder: ""},
		messageID:    2,
		target:       1,
		performative: perfOffer,
	}
	offer.SetSender("bob")
	offer.SetTo("alice")
	require.NoError(t, d.Update(offer))

	// Scenario D: last message's target is 1; additional validation
	// requires the next message's target to be 2. Replying targeting the
	// initial message (id=1) gives target=1, which is stale.
	_, err = d.Reply(initial, perfAccept, nil)
	assert.ErrorIs(t, err, ErrInvalidDialogueMessage)
	assert.Equal(t, 2, d.LastMessage().MessageID())
}

func TestDialogueRejectsForbiddenReplyPerformative(t *testing.T) {
	protocol := newTestProtocol(false)
	ds := New("alice", protocol)

	_, d, err := ds.Create("bob", perfRequest, nil)
	require.NoError(t, err)

	// valid_replies[request] = {offer, decline}; accept is forbidden here.
	badReply := &testMessage{
		ref:          Reference{Starter: d.Label().Reference.Starter, Responder: ""},
		messageID:    2,
		target:       1,
		performative: perfAccept,
	}
	badReply.SetSender("bob")
	badReply.SetTo("alice")

	err = d.Update(badReply)
	assert.ErrorIs(t, err, ErrInvalidDialogueMessage)
}

func TestDialogueLastMessagePrefersGreaterID(t *testing.T) {
	protocol := newTestProtocol(true)
	d := newDialogue(
		Label{Reference: Reference{Starter: "n1"}, OpponentAddr: "bob", StarterAddr: "alice"},
		protocol, "alice", roleInitiator,
	)
	assert.Nil(t, d.LastMessage())
	assert.True(t, d.IsEmpty())

	initial := &testMessage{ref: Reference{Starter: "n1"}, messageID: 1, target: 0, performative: perfRequest, to: "bob", hasTo: true}
	require.NoError(t, d.Update(initial))
	assert.False(t, d.IsEmpty())
	assert.Equal(t, initial, d.LastOutgoingMessage())
	assert.Nil(t, d.LastIncomingMessage())

	offer := &testMessage{ref: Reference{Starter: "n1"}, messageID: 2, target: 1, performative: perfOffer}
	offer.SetSender("bob")
	offer.SetTo("alice")
	require.NoError(t, d.Update(offer))
	assert.Equal(t, initial, d.LastOutgoingMessage())
	assert.Equal(t, offer, d.LastMessage())
}

func TestDialogueGetMessage(t *testing.T) {
	protocol := newTestProtocol(true)
	ds := New("alice", protocol)
	initial, d, err := ds.Create("bob", perfRequest, nil)
	require.NoError(t, err)

	got, ok := d.GetMessage(1)
	require.True(t, ok)
	assert.Same(t, initial, got)

	_, ok = d.GetMessage(99)
	assert.False(t, ok)
}

func TestDialogueStringInterleavesInPerspectiveOrder(t *testing.T) {
	protocol := newTestProtocol(true)
	ds := New("alice", protocol)
	_, d, err := ds.Create("bob", perfRequest, nil)
	require.NoError(t, err)

	offer := &testMessage{ref: d.Label().Reference, messageID: 2, target: 1, performative: perfOffer}
	offer.SetSender("bob")
	offer.SetTo("alice")
	require.NoError(t, d.Update(offer))

	s := d.String()
	assert.Contains(t, s, "Dialogue Label:")
	assert.Contains(t, s, "request()")
	assert.Contains(t, s, "offer()")
	assert.Equal(t, "Dialogue Label: "+d.Label().String()+"\nrequest()\noffer()\n", s)
}
