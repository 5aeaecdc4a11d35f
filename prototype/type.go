package prototype

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/coschain/contentos-reward/common/constants"
	"github.com/pkg/errors"
)

type AccountName struct {
	Value string
}

func NewAccountName(value string) *AccountName {
	return &AccountName{Value: value}
}

func (m *AccountName) Validate() error {
	if m == nil {
		return ErrNpe
	}
	if len(m.Value) < 3 || len(m.Value) > 16 {
		return errors.New("account name length must be between 3 and 16")
	}
	for _, c := range m.Value {
		if !(c >= 'a' && c <= 'z') && !(c >= '0' && c <= '9') {
			return errors.Errorf("account name %q contains invalid characters", m.Value)
		}
	}
	return nil
}

func (m *AccountName) String() string {
	if m == nil {
		return ""
	}
	return m.Value
}

func (m *AccountName) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.Value)
}

func (m *AccountName) UnmarshalJSON(input []byte) error {
	return json.Unmarshal(input, &m.Value)
}

// TimePointSec is a block time with one second resolution. The all-ones value means never.
type TimePointSec struct {
	UtcSeconds uint32
}

func NewTimePointSec(sec uint32) *TimePointSec {
	return &TimePointSec{UtcSeconds: sec}
}

var TimeNever = TimePointSec{UtcSeconds: constants.CashoutNever}

func (m TimePointSec) IsNever() bool {
	return m.UtcSeconds == constants.CashoutNever
}

func (m TimePointSec) IsZero() bool {
	return m.UtcSeconds == 0
}

// Add saturates at never.
func (m TimePointSec) Add(sec uint32) TimePointSec {
	if m.IsNever() || uint64(m.UtcSeconds)+uint64(sec) >= uint64(constants.CashoutNever) {
		return TimeNever
	}
	return TimePointSec{UtcSeconds: m.UtcSeconds + sec}
}

func (m TimePointSec) Before(o TimePointSec) bool {
	return m.UtcSeconds < o.UtcSeconds
}

func (m TimePointSec) After(o TimePointSec) bool {
	return m.UtcSeconds > o.UtcSeconds
}

// Since returns the seconds elapsed from o to m, zero when o is later.
func (m TimePointSec) Since(o TimePointSec) uint32 {
	if m.UtcSeconds <= o.UtcSeconds {
		return 0
	}
	return m.UtcSeconds - o.UtcSeconds
}

func MaxTime(a, b TimePointSec) TimePointSec {
	if a.UtcSeconds > b.UtcSeconds {
		return a
	}
	return b
}

func MinTime(a, b TimePointSec) TimePointSec {
	if a.UtcSeconds < b.UtcSeconds {
		return a
	}
	return b
}

func (m TimePointSec) ToString() string {
	if m.IsNever() {
		return "never"
	}
	return time.Unix(int64(m.UtcSeconds), 0).UTC().Format("2006-01-02T15:04:05")
}

func (m TimePointSec) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToString())
}

func (m *TimePointSec) UnmarshalJSON(input []byte) error {
	var s string
	if err := json.Unmarshal(input, &s); err != nil {
		var sec uint32
		if err2 := json.Unmarshal(input, &sec); err2 != nil {
			return err
		}
		m.UtcSeconds = sec
		return nil
	}
	if s == "never" {
		*m = TimeNever
		return nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		return err
	}
	m.UtcSeconds = uint32(t.Unix())
	return nil
}

// ContentId addresses a content node in the store arena. Zero is never a valid id.
type ContentId uint64

func (id ContentId) Valid() bool {
	return id != 0
}

func (id ContentId) String() string {
	return fmt.Sprintf("#%d", uint64(id))
}

// VoterId is the unique key of a vote record.
type VoterId struct {
	Voter   string
	Content ContentId
}

func (v VoterId) String() string {
	return fmt.Sprintf("%s@%s", v.Voter, v.Content)
}
