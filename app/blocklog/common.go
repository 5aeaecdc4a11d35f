package blocklog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	KindCurationReward          = "curation_reward"
	KindAuthorReward            = "author_reward"
	KindCommentReward           = "comment_reward"
	KindCommentBenefactorReward = "comment_benefactor_reward"
	KindCommentPayoutUpdate     = "comment_payout_update"
)

// Payload is the body of a ledger event.
type Payload interface {
	Kind() string
}

// CurationReward: Reward is in vesting shares.
type CurationReward struct {
	Curator  string `json:"curator"`
	Reward   uint64 `json:"reward"`
	Author   string `json:"author"`
	Permlink string `json:"permlink"`
}

type AuthorReward struct {
	Author         string `json:"author"`
	Permlink       string `json:"permlink"`
	StablePayout   uint64 `json:"stable_payout"`
	VolatilePayout uint64 `json:"volatile_payout"`
	VestingPayout  uint64 `json:"vesting_payout"`
}

// CommentReward: TotalPayout is the claimed reward in coins.
type CommentReward struct {
	Author      string `json:"author"`
	Permlink    string `json:"permlink"`
	TotalPayout uint64 `json:"total_payout"`
}

type CommentBenefactorReward struct {
	Beneficiary string `json:"beneficiary"`
	Author      string `json:"author"`
	Permlink    string `json:"permlink"`
	Reward      uint64 `json:"reward"`
}

type CommentPayoutUpdate struct {
	Author   string `json:"author"`
	Permlink string `json:"permlink"`
}

func (*CurationReward) Kind() string          { return KindCurationReward }
func (*AuthorReward) Kind() string            { return KindAuthorReward }
func (*CommentReward) Kind() string           { return KindCommentReward }
func (*CommentBenefactorReward) Kind() string { return KindCommentBenefactorReward }
func (*CommentPayoutUpdate) Kind() string     { return KindCommentPayoutUpdate }

func newPayload(kind string) (Payload, error) {
	switch kind {
	case KindCurationReward:
		return new(CurationReward), nil
	case KindAuthorReward:
		return new(AuthorReward), nil
	case KindCommentReward:
		return new(CommentReward), nil
	case KindCommentBenefactorReward:
		return new(CommentBenefactorReward), nil
	case KindCommentPayoutUpdate:
		return new(CommentPayoutUpdate), nil
	}
	return nil, fmt.Errorf("unknown event kind %q", kind)
}

type Event struct {
	Block   uint64  `json:"block"`
	Seq     uint32  `json:"seq"`
	Cause   string  `json:"cause"`
	Payload Payload `json:"-"`
}

type jsonEvent struct {
	Block uint64          `json:"block"`
	Seq   uint32          `json:"seq"`
	Cause string          `json:"cause"`
	Kind  string          `json:"kind"`
	Data  json.RawMessage `json:"data"`
}

func (e *Event) Kind() string {
	if e.Payload == nil {
		return ""
	}
	return e.Payload.Kind()
}

func (e *Event) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(e.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonEvent{Block: e.Block, Seq: e.Seq, Cause: e.Cause, Kind: e.Kind(), Data: data})
}

func (e *Event) UnmarshalJSON(input []byte) error {
	var je jsonEvent
	d := json.NewDecoder(bytes.NewReader(input))
	if err := d.Decode(&je); err != nil {
		return err
	}
	p, err := newPayload(je.Kind)
	if err != nil {
		return err
	}
	if err = json.Unmarshal(je.Data, p); err != nil {
		return err
	}
	*e = Event{Block: je.Block, Seq: je.Seq, Cause: je.Cause, Payload: p}
	return nil
}

func (e *Event) ToJsonString() string {
	if j, err := json.Marshal(e); err == nil {
		return string(j)
	}
	return ""
}
