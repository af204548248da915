// Package pending tracks the L2 misses that are waiting for the L3 store.
package pending

import (
	"fmt"

	"github.com/sarchlab/vtusim/mem/mem"
	"github.com/sarchlab/vtusim/voxel"
)

// Entry is one outstanding address. ReadReq is the single request sent to the
// bottom memory and Ports lists every top port waiting for the data.
type Entry struct {
	Address voxel.Coord
	ReadReq *mem.ReadReq
	Ports   []int
}

// Registry records in-flight misses keyed by address.
type Registry interface {
	Lookup(addr voxel.Coord) (*Entry, bool)
	LookupByReqID(id string) (*Entry, bool)
	AddEntry(readToBottom *mem.ReadReq, port int) error
	AddWaiter(addr voxel.Coord, port int) error
	RemoveEntry(addr voxel.Coord) error
	Len() int
	IsFull() bool
	Reset()
}

// NewRegistry creates a registry that holds at most capacity addresses.
func NewRegistry(capacity int) Registry {
	return &registryImpl{
		capacity: capacity,
		byAddr:   make(map[voxel.Coord]*Entry),
		byReqID:  make(map[string]*Entry),
	}
}

type registryImpl struct {
	capacity int
	byAddr   map[voxel.Coord]*Entry
	byReqID  map[string]*Entry
}

func (r *registryImpl) Lookup(addr voxel.Coord) (*Entry, bool) {
	e, ok := r.byAddr[addr]
	return e, ok
}

func (r *registryImpl) LookupByReqID(id string) (*Entry, bool) {
	e, ok := r.byReqID[id]
	return e, ok
}

func (r *registryImpl) AddEntry(readToBottom *mem.ReadReq, port int) error {
	addr := readToBottom.Address
	if _, ok := r.byAddr[addr]; ok {
		return fmt.Errorf("address %s is already pending", addr)
	}

	if r.IsFull() {
		return fmt.Errorf("trying to add to a full registry")
	}

	e := &Entry{
		Address: addr,
		ReadReq: readToBottom,
		Ports:   []int{port},
	}
	r.byAddr[addr] = e
	r.byReqID[readToBottom.ID] = e

	return nil
}

func (r *registryImpl) AddWaiter(addr voxel.Coord, port int) error {
	e, ok := r.byAddr[addr]
	if !ok {
		return fmt.Errorf("address %s is not pending", addr)
	}

	for _, p := range e.Ports {
		if p == port {
			return fmt.Errorf("port %d is already waiting for %s", port, addr)
		}
	}

	e.Ports = append(e.Ports, port)

	return nil
}

func (r *registryImpl) RemoveEntry(addr voxel.Coord) error {
	e, ok := r.byAddr[addr]
	if !ok {
		return fmt.Errorf("trying to remove a non-existing entry %s", addr)
	}

	delete(r.byAddr, addr)
	delete(r.byReqID, e.ReadReq.ID)

	return nil
}

func (r *registryImpl) Len() int {
	return len(r.byAddr)
}

func (r *registryImpl) IsFull() bool {
	return len(r.byAddr) >= r.capacity
}

func (r *registryImpl) Reset() {
	r.byAddr = make(map[voxel.Coord]*Entry)
	r.byReqID = make(map[string]*Entry)
}
