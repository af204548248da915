package tracing

import (
	"github.com/sarchlab/vtusim/mem/l2"
	"github.com/sarchlab/vtusim/mem/l3"
	"github.com/sarchlab/vtusim/mem/mem"
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/traversal"
)

// CollectTrace let the tracer to collect trace from a domain. Besides the
// generic task hooks, the hook positions of the L2 cache, the L3 store and
// the traversal engines are turned into tasks.
func CollectTrace(domain NamedHookable, tracer Tracer) {
	h := &traceHook{
		domain: domain,
		tracer: tracer,
	}
	domain.AcceptHook(h)
}

type traceHook struct {
	domain NamedHookable
	tracer Tracer
}

// Func converts the hook into a task event.
func (h *traceHook) Func(ctx sim.HookCtx) {
	switch ctx.Pos {
	case HookPosTaskStart:
		h.tracer.StartTask(ctx.Item.(Task))
	case HookPosTaskStep:
		h.tracer.StepTask(ctx.Item.(Task))
	case HookPosTaskEnd:
		h.tracer.EndTask(ctx.Item.(Task))
	case l2.HookPosAccess:
		h.l2Access(ctx.Item.(*mem.ReadReq), ctx.Detail.(l2.AccessDetail))
	case l2.HookPosRespond:
		h.tracer.EndTask(Task{ID: ctx.Item.(*mem.DataReadyRsp).RespondTo})
	case l3.HookPosAccept:
		h.l3Accept(ctx.Item.(mem.AccessReq))
	case l3.HookPosServe:
		h.tracer.EndTask(Task{ID: ctx.Item.(mem.AccessReq).Meta().ID})
	case traversal.HookPosRayStart:
		h.rayStart(ctx.Item.(traversal.RayStart))
	case traversal.HookPosRayDone:
		h.rayDone(ctx.Item.(traversal.Result), ctx.Detail.(string))
	}
}

// Classify names the outcome of an L2 lookup.
func Classify(d l2.AccessDetail) string {
	switch {
	case d.Hit:
		return WhatInstant
	case d.Coalesced:
		return WhatCoalesced
	default:
		return WhatMiss
	}
}

func (h *traceHook) l2Access(req *mem.ReadReq, d l2.AccessDetail) {
	what := Classify(d)
	task := Task{
		ID:     req.ID,
		Kind:   KindL2Access,
		What:   what,
		Where:  h.domain.Name(),
		Detail: req,
	}
	h.tracer.StartTask(task)

	task.Steps = []TaskStep{{What: what}}
	h.tracer.StepTask(task)
}

func (h *traceHook) l3Accept(req mem.AccessReq) {
	what := "read"
	if _, ok := req.(*mem.WriteReq); ok {
		what = "write"
	}

	h.tracer.StartTask(Task{
		ID:     req.Meta().ID,
		Kind:   KindL3Access,
		What:   what,
		Where:  h.domain.Name(),
		Detail: req,
	})
}

func (h *traceHook) rayStart(r traversal.RayStart) {
	h.tracer.StartTask(Task{
		ID:     r.ID,
		Kind:   KindRay,
		What:   "traverse",
		Where:  h.domain.Name(),
		Detail: r,
	})
}

func (h *traceHook) rayDone(r traversal.Result, id string) {
	outcome := "hit"
	if !r.Hit {
		outcome = r.Reason.String()
	}

	h.tracer.StepTask(Task{
		ID:     id,
		Steps:  []TaskStep{{What: outcome}},
		Detail: r,
	})
	h.tracer.EndTask(Task{ID: id, Detail: r})
}
