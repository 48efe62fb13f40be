package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario A — happy self-initiated two-turn exchange.
func TestScenarioA_SelfInitiatedTwoTurnExchange(t *testing.T) {
	alice := New("alice", newTestProtocol(true))

	msg, d, err := alice.Create("bob", perfRequest, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, msg.MessageID())
	assert.Equal(t, 0, msg.Target())
	n1 := d.Label().Reference.Starter
	assert.Equal(t, Reference{Starter: n1, Responder: ""}, msg.DialogueReference())

	reply := &testMessage{
		ref:          Reference{Starter: n1, Responder: "n2"},
		messageID:    2,
		target:       1,
		performative: perfOffer,
	}
	reply.SetSender("bob")
	reply.SetTo("alice")

	promoted := alice.Update(reply)
	require.NotNil(t, promoted)
	assert.Equal(t, Reference{Starter: n1, Responder: "n2"}, promoted.Label().Reference)
	assert.Same(t, d, promoted)
}

// Scenario B — invalid label.
func TestScenarioB_InvalidLabel(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	before := len(alice.Dialogues())

	msg := &testMessage{
		ref:          Reference{Starter: "", Responder: ""},
		messageID:    1,
		target:       0,
		performative: perfRequest,
	}
	msg.SetSender("bob")
	msg.SetTo("alice")

	got := alice.Update(msg)
	assert.Nil(t, got)
	assert.Equal(t, before, len(alice.Dialogues()))
}

// Scenario E — opponent-initiated new dialogue.
func TestScenarioE_OpponentInitiatedDialogue(t *testing.T) {
	alice := New("alice", newTestProtocol(true))

	msg := &testMessage{
		ref:          Reference{Starter: "n3", Responder: ""},
		messageID:    1,
		target:       0,
		performative: perfRequest,
	}
	msg.SetSender("carol")
	msg.SetTo("alice")

	d := alice.Update(msg)
	require.NotNil(t, d)
	assert.Equal(t, "n3", d.Label().Reference.Starter)
	assert.NotEqual(t, "", d.Label().Reference.Responder)
	assert.Equal(t, Address("carol"), d.Label().OpponentAddr)
	assert.Equal(t, Address("carol"), d.Label().StarterAddr)
	assert.False(t, d.IsSelfInitiated())

	incomplete := Label{Reference: Reference{Starter: "n3", Responder: ""}, OpponentAddr: "carol", StarterAddr: "carol"}
	final, ok := alice.incompleteToComplete[incomplete]
	require.True(t, ok)
	assert.Equal(t, d.Label(), final)
}

// Scenario F — forbidden performative reply.
func TestScenarioF_ForbiddenPerformativeReply(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	_, d, err := alice.Create("bob", perfRequest, nil)
	require.NoError(t, err)

	// valid_replies[request] = {offer, decline}; accept targeting the
	// request is forbidden.
	bad := &testMessage{
		ref:          Reference{Starter: d.Label().Reference.Starter, Responder: ""},
		messageID:    2,
		target:       1,
		performative: perfAccept,
	}
	bad.SetSender("bob")
	bad.SetTo("alice")

	got := alice.Update(bad)
	assert.Nil(t, got)
}

func TestScenarioC_OutOfOrderMessageIDViaRegistry(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	_, d, err := alice.Create("bob", perfRequest, nil)
	require.NoError(t, err)

	offer := &testMessage{
		ref:          Reference{Starter: d.Label().Reference.Starter, Responder: ""},
		messageID:    2,
		target:       1,
		performative: perfOffer,
	}
	offer.SetSender("bob")
	offer.SetTo("alice")
	require.NotNil(t, alice.Update(offer))

	outOfOrder := &testMessage{
		ref:          Reference{Starter: d.Label().Reference.Starter, Responder: ""},
		messageID:    4,
		target:       3,
		performative: perfAccept,
	}
	outOfOrder.SetSender("bob")
	outOfOrder.SetTo("alice")

	assert.Nil(t, alice.Update(outOfOrder))
	assert.Equal(t, 2, d.LastMessage().MessageID())
}

func TestCreateRollsBackOnConstructionFailure(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	before := len(alice.Dialogues())

	// offer is not a declared initial performative, so the initial
	// message fails basic validation and the partial dialogue must be
	// rolled back.
	_, _, err := alice.Create("bob", perfOffer, nil)
	require.Error(t, err)

	var constructionErr *ConstructionError
	assert.ErrorAs(t, err, &constructionErr)
	assert.Equal(t, before, len(alice.Dialogues()))
}

func TestPromotionIsIdempotentAndMapDoesNotGrow(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	_, d, err := alice.Create("bob", perfRequest, nil)
	require.NoError(t, err)
	n1 := d.Label().Reference.Starter

	reply := &testMessage{
		ref:          Reference{Starter: n1, Responder: "n2"},
		messageID:    2,
		target:       1,
		performative: perfOffer,
	}
	reply.SetSender("bob")
	reply.SetTo("alice")
	require.NotNil(t, alice.Update(reply))
	require.Len(t, alice.incompleteToComplete, 1)

	second := &testMessage{
		ref:          Reference{Starter: n1, Responder: "n2"},
		messageID:    3,
		target:       2,
		performative: perfAccept,
	}
	second.SetSender("bob")
	second.SetTo("alice")
	got := alice.Update(second)
	require.NotNil(t, got)
	assert.Same(t, d, got)
	assert.Len(t, alice.incompleteToComplete, 1)
}

func TestDialoguesUpdatePanicsOnSelfSentMessage(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	msg := &testMessage{ref: Reference{Starter: "n1"}, messageID: 1, target: 0, performative: perfRequest}
	msg.SetSender("alice")
	msg.SetTo("bob")

	assert.Panics(t, func() {
		alice.Update(msg)
	})
}

func TestDialoguesUpdatePanicsWithoutTo(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	msg := &testMessage{ref: Reference{Starter: "n1"}, messageID: 1, target: 0, performative: perfRequest}
	msg.SetSender("bob")

	assert.Panics(t, func() {
		alice.Update(msg)
	})
}

func TestStatsAddEndStateUnknownPanics(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	assert.Panics(t, func() {
		alice.Stats().AddEndState(testEndState(99), true)
	})
}

func TestStatsAddEndState(t *testing.T) {
	alice := New("alice", newTestProtocol(true))
	alice.Stats().AddEndState(endStateSuccessful, true)
	alice.Stats().AddEndState(endStateDeclined, false)

	assert.Equal(t, 1, alice.Stats().SelfInitiated()[endStateSuccessful])
	assert.Equal(t, 1, alice.Stats().OpponentInitiated()[endStateDeclined])
}
