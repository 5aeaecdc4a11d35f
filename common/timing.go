package common

import (
	"fmt"
	"strings"
	"time"
)

type timingMark struct {
	stage string
	at    time.Time
}

// Timing records the wall time of the named stages of one pass.
type Timing struct {
	started, finished bool
	begin             time.Time
	marks             []timingMark
}

func NewTiming() *Timing {
	return &Timing{marks: make([]timingMark, 0, 8)}
}

func (t *Timing) Begin() {
	if t.started {
		return
	}
	t.started = true
	t.begin = time.Now()
}

// Mark closes the stage running since the previous mark.
func (t *Timing) Mark(stage string) {
	if !t.started || t.finished {
		return
	}
	t.marks = append(t.marks, timingMark{stage: stage, at: time.Now()})
}

func (t *Timing) End() {
	if !t.started || t.finished {
		return
	}
	t.Mark("")
	t.finished = true
}

func (t *Timing) Duration() time.Duration {
	if !t.finished || len(t.marks) == 0 {
		return 0
	}
	return t.marks[len(t.marks)-1].at.Sub(t.begin)
}

func (t *Timing) String() string {
	parts := make([]string, 0, len(t.marks))
	prev := t.begin
	for _, m := range t.marks {
		if len(m.stage) > 0 {
			parts = append(parts, fmt.Sprintf("%s:%v", m.stage, m.at.Sub(prev)))
		} else if d := m.at.Sub(prev); d > 0 {
			parts = append(parts, fmt.Sprintf("%v", d))
		}
		prev = m.at
	}
	return fmt.Sprintf("%v(%s)", t.Duration(), strings.Join(parts, "|"))
}
