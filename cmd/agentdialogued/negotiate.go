// cmd/agentdialogued is a two-role demo binary driving protocols/fipa over
// a connections/loopback or connections/ws pair, mirroring the teacher's
// example/dialog/main.go two-sided call/response demo with SIP INVITE/BYE
// replaced by FIPA cfp/accept/match_accept. The scripted negotiation logic
// lives here, factored out of main so it is directly testable.
package main

import (
	"encoding/json"
	"fmt"

	"github.com/edgarnunogubinvest/agents-aea/connections"
	"github.com/edgarnunogubinvest/agents-aea/dialogue"
	"github.com/edgarnunogubinvest/agents-aea/protocols/fipa"
)

// Wire is the subset of a connections/* Conn this package needs: framing
// one fipa.Message per envelope.
type Wire interface {
	WriteEnvelope(connections.Envelope) error
	ReadEnvelope() (connections.Envelope, error)
}

func send(w Wire, m dialogue.Message) error {
	body, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("agentdialogued: encoding message: %w", err)
	}
	env, err := connections.NewEnvelope("fipa", body)
	if err != nil {
		return err
	}
	return w.WriteEnvelope(env)
}

func receive(w Wire) (*fipa.Message, error) {
	env, err := w.ReadEnvelope()
	if err != nil {
		return nil, fmt.Errorf("agentdialogued: reading envelope: %w", err)
	}
	var m fipa.Message
	if err := json.Unmarshal(env.Payload, &m); err != nil {
		return nil, fmt.Errorf("agentdialogued: decoding fipa message: %w", err)
	}
	return &m, nil
}

// RunInitiator drives the proposing side of the scripted negotiation:
// cfp -> (propose) -> accept -> (match_accept), against counterparty over
// w, recording the outcome in dialogues.Stats().
func RunInitiator(dialogues *dialogue.Dialogues, w Wire, counterparty dialogue.Address) error {
	initial, d, err := dialogues.Create(counterparty, fipa.CFP, fipa.Content{})
	if err != nil {
		return fmt.Errorf("agentdialogued: creating negotiation: %w", err)
	}
	if err := send(w, initial); err != nil {
		return err
	}

	proposeMsg, err := receive(w)
	if err != nil {
		return err
	}
	d2 := dialogues.Update(proposeMsg)
	if d2 == nil {
		return fmt.Errorf("agentdialogued: propose message rejected")
	}

	if proposeMsg.Perf == fipa.Decline {
		dialogues.Stats().AddEndState(fipa.EndStateDeclined, d2.IsSelfInitiated())
		return nil
	}

	accept, err := d2.Reply(proposeMsg, fipa.Accept, fipa.Content{})
	if err != nil {
		return fmt.Errorf("agentdialogued: accepting proposal: %w", err)
	}
	if err := send(w, accept); err != nil {
		return err
	}

	final, err := receive(w)
	if err != nil {
		return err
	}
	if dialogues.Update(final) == nil {
		return fmt.Errorf("agentdialogued: final message rejected")
	}

	switch final.Perf {
	case fipa.MatchAccept:
		dialogues.Stats().AddEndState(fipa.EndStateSuccessful, d2.IsSelfInitiated())
	case fipa.Decline:
		dialogues.Stats().AddEndState(fipa.EndStateDeclined, d2.IsSelfInitiated())
	default:
		return fmt.Errorf("agentdialogued: unexpected final performative %v", final.Perf)
	}
	return nil
}

// RunResponder drives the answering side of the scripted negotiation: it
// waits for an inbound cfp, proposes a fixed offer, and closes the
// negotiation once the initiator accepts.
func RunResponder(dialogues *dialogue.Dialogues, w Wire, proposal string) error {
	cfpMsg, err := receive(w)
	if err != nil {
		return err
	}
	d := dialogues.Update(cfpMsg)
	if d == nil {
		return fmt.Errorf("agentdialogued: cfp message rejected")
	}

	propose, err := d.Reply(cfpMsg, fipa.Propose, fipa.Content{Proposal: proposal})
	if err != nil {
		return fmt.Errorf("agentdialogued: proposing: %w", err)
	}
	if err := send(w, propose); err != nil {
		return err
	}

	acceptMsg, err := receive(w)
	if err != nil {
		return err
	}
	if dialogues.Update(acceptMsg) == nil {
		return fmt.Errorf("agentdialogued: accept message rejected")
	}

	switch acceptMsg.Perf {
	case fipa.Decline:
		dialogues.Stats().AddEndState(fipa.EndStateDeclined, d.IsSelfInitiated())
		return nil
	case fipa.Accept:
		matchAccept, err := d.Reply(acceptMsg, fipa.MatchAccept, fipa.Content{})
		if err != nil {
			return fmt.Errorf("agentdialogued: closing negotiation: %w", err)
		}
		if err := send(w, matchAccept); err != nil {
			return err
		}
		dialogues.Stats().AddEndState(fipa.EndStateSuccessful, d.IsSelfInitiated())
		return nil
	default:
		return fmt.Errorf("agentdialogued: unexpected reply performative %v", acceptMsg.Perf)
	}
}
