// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package invite holds the team invitation state machine. It is pure: the
// caller gathers Facts from the database, asks this package what to do and
// then applies the returned Transition.
package invite

import (
	"fmt"

	"github.com/campuslab/hackdesk/models"
)

type Status string

const (
	Pending  Status = models.InvitePending
	Accepted Status = models.InviteAccepted
	Declined Status = models.InviteDeclined
)

// Effect is the side effect a transition asks the caller to perform.
type Effect int

const (
	EffectNone Effect = iota
	// EffectAddMember inserts the invitee as a team member.
	EffectAddMember
	// EffectDecline stores DECLINED without adding the member.
	EffectDecline
)

func (e Effect) String() string {
	switch e {
	case EffectAddMember:
		return "add_member"
	case EffectDecline:
		return "decline"
	default:
		return "none"
	}
}

// Facts describe the team and invitee at the moment of a decision.
type Facts struct {
	Members        int  // current member count of the team
	Limit          int  // team_size_limit of the hackathon
	AlreadyMember  bool // invitee is on this team
	AlreadyPending bool // a PENDING invite exists for (team, invitee)
	OnOtherTeam    bool // invitee is on another team of the same hackathon
	Disqualified   bool
}

func (f Facts) Full() bool {
	return f.Members >= f.Limit
}

// Transition is the outcome of Respond.
type Transition struct {
	From   Status
	To     Status
	Effect Effect
}

// Decision errors. They are ActionErrors so callers can return them as is.
var (
	ErrNotPending     = rule(models.KindNotFound, "Invitation not found or already processed")
	ErrTeamFull       = rule(models.KindRule, "Cannot join: team is already full")
	ErrOnOtherTeam    = rule(models.KindRule, "You are already a member of another team in this hackathon")
	ErrMaxSize        = rule(models.KindRule, "Team has reached maximum size")
	ErrAlreadyMember  = rule(models.KindRule, "User is already a member of this team")
	ErrAlreadyInvited = rule(models.KindRule, "User has already been invited to this team")
	ErrInviteeOnTeam  = rule(models.KindRule, "User is already part of another team in this hackathon")
	ErrDisqualified   = rule(models.KindRule, "Team has been disqualified")
)

func rule(kind models.ErrorKind, msg string) *models.ActionError {
	return &models.ActionError{Kind: kind, Message: msg}
}

// CheckCapacity fails with ErrMaxSize when the team cannot take another member.
func CheckCapacity(f Facts) error {
	if f.Full() {
		return ErrMaxSize
	}
	return nil
}

// CheckInvite decides whether a new PENDING invite may be created.
func CheckInvite(f Facts) error {
	if f.Disqualified {
		return ErrDisqualified
	}
	if err := CheckCapacity(f); err != nil {
		return err
	}
	if f.AlreadyMember {
		return ErrAlreadyMember
	}
	if f.AlreadyPending {
		return ErrAlreadyInvited
	}
	if f.OnOtherTeam {
		return ErrInviteeOnTeam
	}
	return nil
}

// Respond computes the transition for an invitee's answer. When accepting
// is not possible the invite is still moved to DECLINED; the returned error
// explains why and the Transition says what to store.
func Respond(current Status, accept bool, f Facts) (Transition, error) {
	if current != Pending {
		return Transition{From: current, To: current, Effect: EffectNone}, ErrNotPending
	}

	if !accept {
		return Transition{From: Pending, To: Declined, Effect: EffectDecline}, nil
	}

	decline := Transition{From: Pending, To: Declined, Effect: EffectDecline}
	if f.Disqualified {
		return decline, ErrDisqualified
	}
	if f.Full() {
		return decline, ErrTeamFull
	}
	if f.OnOtherTeam || f.AlreadyMember {
		return decline, ErrOnOtherTeam
	}

	return Transition{From: Pending, To: Accepted, Effect: EffectAddMember}, nil
}

// Parse converts a stored status string.
func Parse(s string) (Status, error) {
	switch Status(s) {
	case Pending, Accepted, Declined:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown invite status %q", s)
}
