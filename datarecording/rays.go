package datarecording

import (
	"github.com/sarchlab/vtusim/traversal"
)

// RayTable is the table that holds one row per resolved ray.
const RayTable = "rays"

// RayRecord is the row stored for a resolved ray.
type RayRecord struct {
	Frame       int
	Pixel       int
	X           int
	Y           int
	Hit         bool
	Block       string
	Steps       int
	NormalX     int64
	NormalY     int64
	NormalZ     int64
	PosX        int
	PosY        int
	PosZ        int
	Reason      string
	StallCycles uint64
	Cycles      uint64
}

// NewRayRecord converts the result of a pixel into a row. Pixels are
// numbered row by row.
func NewRayRecord(frame, width, pixel int, r traversal.Result) RayRecord {
	return RayRecord{
		Frame:       frame,
		Pixel:       pixel,
		X:           pixel % width,
		Y:           pixel / width,
		Hit:         r.Hit,
		Block:       r.Block.String(),
		Steps:       r.Steps,
		NormalX:     r.Normal[0],
		NormalY:     r.Normal[1],
		NormalZ:     r.Normal[2],
		PosX:        r.Position.X,
		PosY:        r.Position.Y,
		PosZ:        r.Position.Z,
		Reason:      r.Reason.String(),
		StallCycles: r.StallCycles,
		Cycles:      r.Cycles,
	}
}

// RayWriter appends frames of ray results to a recorder.
type RayWriter struct {
	rec DataRecorder
}

// NewRayWriter creates the ray table and returns a writer for it.
func NewRayWriter(rec DataRecorder) *RayWriter {
	rec.CreateTable(RayTable, RayRecord{})

	return &RayWriter{rec: rec}
}

// WriteFrame buffers one row per result.
func (w *RayWriter) WriteFrame(frame, width int, results []traversal.Result) {
	for i, r := range results {
		w.rec.InsertData(RayTable, NewRayRecord(frame, width, i, r))
	}
}
