package models

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VoteKind is the direction of a vote on an Alert post.
type VoteKind string

const (
	VoteAgree    VoteKind = "agree"
	VoteDisagree VoteKind = "disagree"
)

const (
	FieldLikes     = "likes"
	FieldDisagrees = "disagrees"
)

// VoteChange is the minimal set mutation a vote toggle produces. It names
// only the fields that actually change, so the store update touches nothing
// else. AddTo is empty when the toggle only removes the user's vote.
type VoteChange struct {
	AddTo      string
	RemoveFrom []string
}

// ToggleVote computes the change for userID casting a vote of the given
// kind on p. Toggling is symmetric: voting the same way twice returns the
// sets to their original state, and switching direction moves the user
// across so they are never in both likes and disagrees.
func (p *Post) ToggleVote(userID primitive.ObjectID, kind VoteKind) (VoteChange, error) {
	if userID.IsZero() {
		return VoteChange{}, fmt.Errorf("vote requires an authenticated user")
	}

	var in, out string
	var inNow, outNow bool
	switch kind {
	case VoteAgree:
		in, out = FieldLikes, FieldDisagrees
		inNow, outNow = p.LikedBy(userID), p.DisagreedBy(userID)
	case VoteDisagree:
		in, out = FieldDisagrees, FieldLikes
		inNow, outNow = p.DisagreedBy(userID), p.LikedBy(userID)
	default:
		return VoteChange{}, fmt.Errorf("unknown vote kind %q", kind)
	}

	if inNow {
		return VoteChange{RemoveFrom: []string{in}}, nil
	}

	change := VoteChange{AddTo: in}
	if outNow {
		change.RemoveFrom = []string{out}
	}
	return change, nil
}
