package table

import (
	"sort"

	"github.com/coschain/contentos-reward/prototype"
	"github.com/pkg/errors"
)

func (s *Store) linkVote(v *Vote) {
	s.votes[v.Key()] = v
	set, ok := s.votesByPost[v.Content]
	if !ok {
		set = make(map[string]struct{})
		s.votesByPost[v.Content] = set
	}
	set[v.Voter] = struct{}{}
}

func (s *Store) unlinkVote(key prototype.VoterId) {
	delete(s.votes, key)
	if set, ok := s.votesByPost[key.Content]; ok {
		delete(set, key.Voter)
		if len(set) == 0 {
			delete(s.votesByPost, key.Content)
		}
	}
}

func (s *Store) CreateVote(v Vote) error {
	key := v.Key()
	if _, ok := s.votes[key]; ok {
		return errors.Wrapf(ErrExists, "vote %s", key)
	}
	s.linkVote(&v)
	s.record(func() { s.unlinkVote(key) })
	return nil
}

func (s *Store) GetVote(key prototype.VoterId) (Vote, bool) {
	if v, ok := s.votes[key]; ok {
		return *v, true
	}
	return Vote{}, false
}

func (s *Store) ModifyVote(key prototype.VoterId, f func(v *Vote)) error {
	v, ok := s.votes[key]
	if !ok {
		return errors.Wrapf(ErrNotFound, "vote %s", key)
	}
	old := *v
	f(v)
	v.Voter, v.Content = old.Voter, old.Content
	s.record(func() { *s.votes[key] = old })
	return nil
}

func (s *Store) RemoveVote(key prototype.VoterId) error {
	v, ok := s.votes[key]
	if !ok {
		return errors.Wrapf(ErrNotFound, "vote %s", key)
	}
	old := *v
	s.unlinkVote(key)
	s.record(func() { s.linkVote(&old) })
	return nil
}

// VotesOf returns the votes on a content item ordered by voter name.
func (s *Store) VotesOf(id prototype.ContentId) []Vote {
	set := s.votesByPost[id]
	voters := make([]string, 0, len(set))
	for name := range set {
		voters = append(voters, name)
	}
	sort.Strings(voters)
	votes := make([]Vote, 0, len(voters))
	for _, name := range voters {
		votes = append(votes, *s.votes[prototype.VoterId{Voter: name, Content: id}])
	}
	return votes
}

// VotesByWeight returns the votes on a content item by descending weight, ties by voter name.
func (s *Store) VotesByWeight(id prototype.ContentId) []Vote {
	votes := s.VotesOf(id)
	sort.SliceStable(votes, func(i, j int) bool {
		return votes[i].Weight > votes[j].Weight
	})
	return votes
}
