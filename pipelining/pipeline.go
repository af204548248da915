// Package pipelining provides fixed-depth pipelines that hold items for a
// known number of cycles.
package pipelining

import (
	"log"

	"github.com/sarchlab/vtusim/sim"
)

// HookPosPipelineEnter marks an item entering the first stage.
var HookPosPipelineEnter = &sim.HookPos{Name: "Pipeline Enter"}

// HookPosPipelineExit marks an item leaving the last stage.
var HookPosPipelineExit = &sim.HookPos{Name: "Pipeline Exit"}

// PipelineItem is an item that can pass through a pipeline.
type PipelineItem interface {
	TaskID() string
}

// Pipeline allows simulation designers to define pipeline structures.
type Pipeline interface {
	sim.Named
	sim.Hookable

	// Tick moves elements in the pipeline forward.
	Tick() (madeProgress bool)

	// CanAccept checks if the pipeline can accept a new element.
	CanAccept() bool

	// Accept adds an element to the pipeline. If the first pipeline stage is
	// currently occupied, this function panics.
	Accept(elem PipelineItem)

	// Len returns the number of elements in flight.
	Len() int

	// Clear discards all the items that are currently in the pipeline.
	Clear()
}

type stageSlot struct {
	elem      PipelineItem
	cycleLeft int
}

type pipelineImpl struct {
	sim.HookableBase

	name            string
	width           int
	numStage        int
	cyclePerStage   int
	postPipelineBuf sim.Buffer
	stages          [][]stageSlot
}

func (p *pipelineImpl) Name() string {
	return p.name
}

func (p *pipelineImpl) Clear() {
	p.stages = make([][]stageSlot, p.width)
	for i := 0; i < p.width; i++ {
		p.stages[i] = make([]stageSlot, p.numStage)
	}
}

func (p *pipelineImpl) Len() int {
	n := 0

	for _, lane := range p.stages {
		for _, slot := range lane {
			if slot.elem != nil {
				n++
			}
		}
	}

	return n
}

func (p *pipelineImpl) Tick() (madeProgress bool) {
	for lane := 0; lane < p.width; lane++ {
		for i := p.numStage - 1; i >= 0; i-- {
			slot := &p.stages[lane][i]

			if slot.elem == nil {
				continue
			}

			if slot.cycleLeft > 0 {
				slot.cycleLeft--
				madeProgress = true

				continue
			}

			if i == p.numStage-1 {
				madeProgress = p.tryExit(slot) || madeProgress
			} else {
				madeProgress = p.tryAdvance(lane, i) || madeProgress
			}
		}
	}

	return madeProgress
}

func (p *pipelineImpl) tryExit(slot *stageSlot) bool {
	if !p.postPipelineBuf.CanPush() {
		return false
	}

	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    HookPosPipelineExit,
		Item:   slot.elem,
	})

	p.postPipelineBuf.Push(slot.elem)
	slot.elem = nil

	return true
}

func (p *pipelineImpl) tryAdvance(lane, stage int) bool {
	slot := &p.stages[lane][stage]
	next := &p.stages[lane][stage+1]

	if next.elem != nil {
		return false
	}

	next.elem = slot.elem
	next.cycleLeft = p.cyclePerStage - 1
	slot.elem = nil

	return true
}

func (p *pipelineImpl) CanAccept() bool {
	if p.numStage == 0 {
		return p.postPipelineBuf.CanPush()
	}

	for lane := 0; lane < p.width; lane++ {
		if p.stages[lane][0].elem == nil {
			return true
		}
	}

	return false
}

func (p *pipelineImpl) Accept(elem PipelineItem) {
	p.InvokeHook(sim.HookCtx{
		Domain: p,
		Pos:    HookPosPipelineEnter,
		Item:   elem,
	})

	if p.numStage == 0 {
		p.postPipelineBuf.Push(elem)
		return
	}

	for lane := 0; lane < p.width; lane++ {
		if p.stages[lane][0].elem != nil {
			continue
		}

		p.stages[lane][0].elem = elem
		p.stages[lane][0].cycleLeft = p.cyclePerStage - 1

		return
	}

	log.Panicf("pipeline %s is not free, use CanAccept before Accept", p.name)
}
