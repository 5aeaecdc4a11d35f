package blocklog

import (
	"encoding/binary"
	"encoding/json"

	"github.com/asaskevich/EventBus"
	"github.com/coschain/contentos-reward/common/constants"
	"github.com/coschain/contentos-reward/db/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var journalPrefix = []byte("rewardevent/")

func eventKey(block uint64, seq uint32) []byte {
	key := make([]byte, len(journalPrefix)+12)
	n := copy(key, journalPrefix)
	binary.BigEndian.PutUint64(key[n:], block)
	binary.BigEndian.PutUint32(key[n+8:], seq)
	return key
}

func blockKey(block uint64) []byte {
	key := make([]byte, len(journalPrefix)+8)
	n := copy(key, journalPrefix)
	binary.BigEndian.PutUint64(key[n:], block)
	return key
}

// Journal is the append-only store of committed ledger events. Committed events are also
// published on the notice bus, one call per event.
type Journal struct {
	db      storage.Database
	noticer EventBus.Bus
	log     *logrus.Logger
}

func NewJournal(db storage.Database, noticer EventBus.Bus, log *logrus.Logger) *Journal {
	return &Journal{db: db, noticer: noticer, log: log}
}

// Commit writes all events buffered in ctx atomically, then publishes them.
func (j *Journal) Commit(ctx *EventContext) error {
	events := ctx.Events()
	if len(events) == 0 {
		return nil
	}
	b := j.db.NewBatch()
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			return errors.Wrapf(err, "encode event %d/%d", ev.Block, ev.Seq)
		}
		if err = b.Put(eventKey(ev.Block, ev.Seq), data); err != nil {
			return err
		}
	}
	if err := b.Write(); err != nil {
		return errors.Wrapf(err, "write events of block %d", ctx.Block())
	}
	if j.log != nil {
		j.log.Debugf("journal: block %d, %d events", ctx.Block(), len(events))
	}
	if j.noticer != nil {
		for _, ev := range events {
			j.noticer.Publish(constants.NoticeRewardEvent, ev)
		}
		j.noticer.Publish(constants.NoticeBlockPaid, ctx.Block(), len(events))
	}
	return nil
}

// Events reads back the events of blocks [from, to].
func (j *Journal) Events(from, to uint64) ([]*Event, error) {
	var (
		result []*Event
		err    error
	)
	// past the prefix when to is the last block
	limit := []byte("rewardevent0")
	if to < ^uint64(0) {
		limit = blockKey(to + 1)
	}
	j.db.Iterate(blockKey(from), limit, false, func(key, value []byte) bool {
		ev := new(Event)
		if err = json.Unmarshal(value, ev); err != nil {
			err = errors.Wrapf(err, "decode event %x", key)
			return false
		}
		result = append(result, ev)
		return true
	})
	return result, err
}

func (j *Journal) Close() {
	j.db.Close()
}
