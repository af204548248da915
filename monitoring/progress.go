package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/traversal"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID         string
	Name       string
	StartTime  time.Time
	Total      uint64
	Finished   uint64
	InProgress uint64
}

// ProgressBarStatus is a snapshot of a ProgressBar.
type ProgressBarStatus struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	StartTime  time.Time `json:"start_time"`
	Total      uint64    `json:"total"`
	Finished   uint64    `json:"finished"`
	InProgress uint64    `json:"in_progress"`
}

// Status returns a snapshot of the bar.
func (b *ProgressBar) Status() ProgressBarStatus {
	b.Lock()
	defer b.Unlock()

	return ProgressBarStatus{
		ID:         b.ID,
		Name:       b.Name,
		StartTime:  b.StartTime,
		Total:      b.Total,
		Finished:   b.Finished,
		InProgress: b.InProgress,
	}
}

// IncrementInProgress adds the number of in-progress element.
func (b *ProgressBar) IncrementInProgress(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress += amount
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// MoveInProgressToFinished reduces the number of in progress item by a certain
// amount and increase the finished item by the same amount.
func (b *ProgressBar) MoveInProgressToFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.InProgress -= amount
	b.Finished += amount
}

// RayProgress is a hook for traversal engines that moves the current bar
// along as rays start and resolve.
type RayProgress struct {
	lock sync.Mutex
	bar  *ProgressBar
}

// SetBar selects the bar to update. A nil bar stops the updates.
func (p *RayProgress) SetBar(bar *ProgressBar) {
	p.lock.Lock()
	defer p.lock.Unlock()

	p.bar = bar
}

// Func implements sim.Hook.
func (p *RayProgress) Func(ctx sim.HookCtx) {
	p.lock.Lock()
	bar := p.bar
	p.lock.Unlock()

	if bar == nil {
		return
	}

	switch ctx.Pos {
	case traversal.HookPosRayStart:
		bar.IncrementInProgress(1)
	case traversal.HookPosRayDone:
		bar.MoveInProgressToFinished(1)
	}
}
