package table

import (
	"sort"

	"github.com/coschain/contentos-reward/prototype"
	"github.com/petar/GoLLRB/llrb"
	"github.com/pkg/errors"
)

// cashoutItem orders the cashout index by (cashout time, id).
type cashoutItem struct {
	time uint32
	id   prototype.ContentId
}

func (a *cashoutItem) Less(than llrb.Item) bool {
	b := than.(*cashoutItem)
	if a.time != b.time {
		return a.time < b.time
	}
	return a.id < b.id
}

func (s *Store) indexCashout(c *Content) {
	if !c.CashoutTime.IsNever() {
		s.cashouts.ReplaceOrInsert(&cashoutItem{time: c.CashoutTime.UtcSeconds, id: c.Id})
	}
}

func (s *Store) unindexCashout(c *Content) {
	s.cashouts.Delete(&cashoutItem{time: c.CashoutTime.UtcSeconds, id: c.Id})
}

func (s *Store) putContent(c *Content) {
	if old, ok := s.contents[c.Id]; ok {
		s.unindexCashout(old)
	}
	s.contents[c.Id] = c
	s.indexCashout(c)
}

// CreateContent allocates the next id and stores the content f fills in.
// Author and permlink must be unique.
func (s *Store) CreateContent(f func(c *Content)) (prototype.ContentId, error) {
	c := &Content{Id: s.nextId}
	f(c)
	c.Id = s.nextId
	key := permlinkKey{c.Author, c.Permlink}
	if _, ok := s.permlinks[key]; ok {
		return 0, errors.Wrapf(ErrExists, "content %s/%s", c.Author, c.Permlink)
	}
	if !c.RootId.Valid() {
		c.RootId = c.Id
	}

	s.nextId++
	s.putContent(c)
	s.permlinks[key] = c.Id
	s.threads[c.RootId] = append(s.threads[c.RootId], c.Id)

	id, root := c.Id, c.RootId
	s.record(func() {
		if cur, ok := s.contents[id]; ok {
			s.unindexCashout(cur)
		}
		delete(s.contents, id)
		delete(s.permlinks, key)
		s.cache.Remove(key)
		thread := s.threads[root]
		if len(thread) <= 1 {
			delete(s.threads, root)
		} else {
			s.threads[root] = thread[:len(thread)-1]
		}
		s.nextId--
	})
	return id, nil
}

func (s *Store) GetContent(id prototype.ContentId) (Content, bool) {
	if c, ok := s.contents[id]; ok {
		return *c.clone(), true
	}
	return Content{}, false
}

func (s *Store) ContentByPermlink(author, permlink string) (prototype.ContentId, bool) {
	key := permlinkKey{author, permlink}
	if v, ok := s.cache.Get(key); ok {
		return v.(prototype.ContentId), true
	}
	id, ok := s.permlinks[key]
	if ok {
		s.cache.Add(key, id)
	}
	return id, ok
}

// ModifyContent applies f to a copy of the content and stores it, keeping the cashout index
// in sync. Identity fields are not modifiable.
func (s *Store) ModifyContent(id prototype.ContentId, f func(c *Content)) error {
	cur, ok := s.contents[id]
	if !ok {
		return errors.Wrapf(ErrNotFound, "content %s", id)
	}
	old := cur.clone()
	next := cur.clone()
	f(next)
	next.Id, next.Author, next.Permlink = old.Id, old.Author, old.Permlink
	next.ParentId, next.RootId = old.ParentId, old.RootId
	s.putContent(next)
	s.record(func() { s.putContent(old) })
	return nil
}

// Thread returns every content id sharing the given root, in creation order.
func (s *Store) Thread(root prototype.ContentId) []prototype.ContentId {
	return append([]prototype.ContentId(nil), s.threads[root]...)
}

// EarliestDue returns the content with the smallest (cashout time, id) if it is due at now.
func (s *Store) EarliestDue(now prototype.TimePointSec) (prototype.ContentId, bool) {
	min := s.cashouts.Min()
	if min == nil {
		return 0, false
	}
	item := min.(*cashoutItem)
	if item.time > now.UtcSeconds {
		return 0, false
	}
	return item.id, true
}

// DueContents lists every content due at now in cashout order.
func (s *Store) DueContents(now prototype.TimePointSec) []prototype.ContentId {
	var ids []prototype.ContentId
	s.cashouts.AscendGreaterOrEqual(&cashoutItem{}, func(i llrb.Item) bool {
		item := i.(*cashoutItem)
		if item.time > now.UtcSeconds {
			return false
		}
		ids = append(ids, item.id)
		return true
	})
	return ids
}

// ContentIds returns all ids in ascending order.
func (s *Store) ContentIds() []prototype.ContentId {
	ids := make([]prototype.ContentId, 0, len(s.contents))
	for id := range s.contents {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (s *Store) ContentCount() int {
	return len(s.contents)
}
