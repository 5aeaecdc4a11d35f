package prototype

import (
	"fmt"

	"github.com/pkg/errors"
)

type StatusCode uint32

const (
	StatusVoteNotAllowed StatusCode = 400 + iota
	StatusContentNotFound
	StatusAccountNotFound
	StatusVoterBarred
	StatusVoteChangesExceeded
	StatusVoteDust
	StatusUpvoteLockout
	StatusVoteUnchanged
	StatusVoteZeroUnseen
	StatusVoteAfterPayout
	StatusVoteTooFrequent
	StatusNoVotingPower
	StatusBeneficiaryInvalid
	StatusContentExists
	StatusParentNotFound
	StatusDepthExceeded
	StatusOptionsInvalid
	StatusOperationInvalid
)

var statusNames = map[StatusCode]string{
	StatusVoteNotAllowed:      "vote_not_allowed",
	StatusContentNotFound:     "content_not_found",
	StatusAccountNotFound:     "account_not_found",
	StatusVoterBarred:         "voter_barred",
	StatusVoteChangesExceeded: "vote_changes_exceeded",
	StatusVoteDust:            "vote_dust",
	StatusUpvoteLockout:       "upvote_lockout",
	StatusVoteUnchanged:       "vote_unchanged",
	StatusVoteZeroUnseen:      "vote_zero_unseen",
	StatusVoteAfterPayout:     "vote_after_payout",
	StatusVoteTooFrequent:     "vote_too_frequent",
	StatusNoVotingPower:       "no_voting_power",
	StatusBeneficiaryInvalid:  "beneficiary_invalid",
	StatusContentExists:       "content_exists",
	StatusParentNotFound:      "parent_not_found",
	StatusDepthExceeded:       "depth_exceeded",
	StatusOptionsInvalid:      "options_invalid",
	StatusOperationInvalid:    "operation_invalid",
}

func (c StatusCode) String() string {
	if s, ok := statusNames[c]; ok {
		return s
	}
	return fmt.Sprintf("status(%d)", uint32(c))
}

// ValidationError rejects a single operation. Nothing it touched is kept.
type ValidationError struct {
	Code StatusCode
	Msg  string
}

func (e *ValidationError) Error() string {
	return e.Code.String() + ": " + e.Msg
}

func Reject(code StatusCode, format string, args ...interface{}) error {
	return &ValidationError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// InvariantError is a logic defect. The enclosing block must be rejected.
type InvariantError struct {
	Msg string
}

func (e *InvariantError) Error() string {
	return "invariant violated: " + e.Msg
}

func Violation(format string, args ...interface{}) error {
	return &InvariantError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err (or its cause) is a ValidationError, and returns it.
func IsValidation(err error) (*ValidationError, bool) {
	if err == nil {
		return nil, false
	}
	ve, ok := errors.Cause(err).(*ValidationError)
	return ve, ok
}

func IsInvariant(err error) bool {
	if err == nil {
		return false
	}
	_, ok := errors.Cause(err).(*InvariantError)
	return ok
}

// StatusOf returns the validation code carried by err, if any.
func StatusOf(err error) (StatusCode, bool) {
	if ve, ok := IsValidation(err); ok {
		return ve.Code, true
	}
	return 0, false
}

var (
	ErrNpe = errors.New("Null Pointer")
)
