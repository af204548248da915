// Package mem defines the messages exchanged between the traversal unit and
// the levels of the voxel cache hierarchy.
package mem

import (
	"github.com/sarchlab/vtusim/sim"
	"github.com/sarchlab/vtusim/voxel"
)

// AccessReq abstracts read and write requests that are sent to the caches or
// the backing store.
type AccessReq interface {
	sim.Msg
	GetAddress() voxel.Coord
}

// AccessRsp is a response in the memory system.
type AccessRsp interface {
	sim.Msg
	GetRspTo() string
}

// A ReadReq asks for the block stored at an address. Port selects the
// top-side port of a multi-port cache.
type ReadReq struct {
	sim.MsgMeta

	Port    int
	Address voxel.Coord
}

// Meta returns the message meta.
func (r *ReadReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// GetAddress returns the address that the request is accessing.
func (r *ReadReq) GetAddress() voxel.Coord {
	return r.Address
}

// ReadReqBuilder can build read requests.
type ReadReqBuilder struct {
	src, dst sim.Receiver
	port     int
	address  voxel.Coord
}

// WithSrc sets the source of the request to build.
func (b ReadReqBuilder) WithSrc(src sim.Receiver) ReadReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b ReadReqBuilder) WithDst(dst sim.Receiver) ReadReqBuilder {
	b.dst = dst
	return b
}

// WithPort sets the destination port index.
func (b ReadReqBuilder) WithPort(port int) ReadReqBuilder {
	b.port = port
	return b
}

// WithAddress sets the address of the request to build.
func (b ReadReqBuilder) WithAddress(address voxel.Coord) ReadReqBuilder {
	b.address = address
	return b
}

// Build creates a new ReadReq.
func (b ReadReqBuilder) Build() *ReadReq {
	r := &ReadReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.Port = b.port
	r.Address = b.address

	return r
}

// A WriteReq stores a block at an address.
type WriteReq struct {
	sim.MsgMeta

	Address voxel.Coord
	Block   voxel.Block
}

// Meta returns the message meta.
func (r *WriteReq) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// GetAddress returns the address that the request is accessing.
func (r *WriteReq) GetAddress() voxel.Coord {
	return r.Address
}

// WriteReqBuilder can build write requests.
type WriteReqBuilder struct {
	src, dst sim.Receiver
	address  voxel.Coord
	block    voxel.Block
}

// WithSrc sets the source of the request to build.
func (b WriteReqBuilder) WithSrc(src sim.Receiver) WriteReqBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the request to build.
func (b WriteReqBuilder) WithDst(dst sim.Receiver) WriteReqBuilder {
	b.dst = dst
	return b
}

// WithAddress sets the address of the request to build.
func (b WriteReqBuilder) WithAddress(address voxel.Coord) WriteReqBuilder {
	b.address = address
	return b
}

// WithBlock sets the block to write.
func (b WriteReqBuilder) WithBlock(block voxel.Block) WriteReqBuilder {
	b.block = block
	return b
}

// Build creates a new WriteReq.
func (b WriteReqBuilder) Build() *WriteReq {
	r := &WriteReq{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.Address = b.address
	r.Block = b.block

	return r
}

// DataReadyRsp is the valid pulse that carries a block back to the requester.
// Instant is set when the block was already resident in the responding cache.
type DataReadyRsp struct {
	sim.MsgMeta

	RespondTo string
	Port      int
	Address   voxel.Coord
	Block     voxel.Block
	Instant   bool
}

// Meta returns the message meta.
func (r *DataReadyRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// GetRspTo returns the ID of the request that the response is responding to.
func (r *DataReadyRsp) GetRspTo() string {
	return r.RespondTo
}

// DataReadyRspBuilder can build data ready responses.
type DataReadyRspBuilder struct {
	src, dst sim.Receiver
	rspTo    string
	port     int
	address  voxel.Coord
	block    voxel.Block
	instant  bool
}

// WithSrc sets the source of the response to build.
func (b DataReadyRspBuilder) WithSrc(src sim.Receiver) DataReadyRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b DataReadyRspBuilder) WithDst(dst sim.Receiver) DataReadyRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request that the response responds to.
func (b DataReadyRspBuilder) WithRspTo(id string) DataReadyRspBuilder {
	b.rspTo = id
	return b
}

// WithPort sets the port the response leaves from.
func (b DataReadyRspBuilder) WithPort(port int) DataReadyRspBuilder {
	b.port = port
	return b
}

// WithAddress sets the address that was read.
func (b DataReadyRspBuilder) WithAddress(
	address voxel.Coord,
) DataReadyRspBuilder {
	b.address = address
	return b
}

// WithBlock sets the block that was read.
func (b DataReadyRspBuilder) WithBlock(block voxel.Block) DataReadyRspBuilder {
	b.block = block
	return b
}

// WithInstant marks the response as served from resident data.
func (b DataReadyRspBuilder) WithInstant(instant bool) DataReadyRspBuilder {
	b.instant = instant
	return b
}

// Build creates a new DataReadyRsp.
func (b DataReadyRspBuilder) Build() *DataReadyRsp {
	r := &DataReadyRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.RespondTo = b.rspTo
	r.Port = b.port
	r.Address = b.address
	r.Block = b.block
	r.Instant = b.instant

	return r
}

// WriteDoneRsp acknowledges a WriteReq.
type WriteDoneRsp struct {
	sim.MsgMeta

	RespondTo string
	Address   voxel.Coord
}

// Meta returns the message meta.
func (r *WriteDoneRsp) Meta() *sim.MsgMeta {
	return &r.MsgMeta
}

// GetRspTo returns the ID of the request that the response is responding to.
func (r *WriteDoneRsp) GetRspTo() string {
	return r.RespondTo
}

// WriteDoneRspBuilder can build write done responses.
type WriteDoneRspBuilder struct {
	src, dst sim.Receiver
	rspTo    string
	address  voxel.Coord
}

// WithSrc sets the source of the response to build.
func (b WriteDoneRspBuilder) WithSrc(src sim.Receiver) WriteDoneRspBuilder {
	b.src = src
	return b
}

// WithDst sets the destination of the response to build.
func (b WriteDoneRspBuilder) WithDst(dst sim.Receiver) WriteDoneRspBuilder {
	b.dst = dst
	return b
}

// WithRspTo sets the ID of the request that the response responds to.
func (b WriteDoneRspBuilder) WithRspTo(id string) WriteDoneRspBuilder {
	b.rspTo = id
	return b
}

// WithAddress sets the address that was written.
func (b WriteDoneRspBuilder) WithAddress(
	address voxel.Coord,
) WriteDoneRspBuilder {
	b.address = address
	return b
}

// Build creates a new WriteDoneRsp.
func (b WriteDoneRspBuilder) Build() *WriteDoneRsp {
	r := &WriteDoneRsp{}
	r.ID = sim.GetIDGenerator().Generate()
	r.Src = b.src
	r.Dst = b.dst
	r.RespondTo = b.rspTo
	r.Address = b.address

	return r
}
