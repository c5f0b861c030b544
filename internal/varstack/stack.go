package varstack

import (
	"fmt"
	"math"

	"fortio.org/safecast"

	"mapl/internal/bytecode"
	"mapl/internal/diag"
	"mapl/internal/source"
	"mapl/internal/types"
)

// Variable is one declared script variable.
type Variable struct {
	Name string
	Type types.Type
	// File is the normalized path of the declaring file.
	File    string
	Span    source.Span
	Address uint16
	// FromDependency marks variables merged in from an imported file.
	FromDependency bool
}

// IsAllocated reports whether v lives in the allocated slot table.
func (v Variable) IsAllocated() bool {
	return v.Type.Primitive == types.String
}

// AnnotationKind is the buffer annotation that marks a declaration of v.
func (v Variable) AnnotationKind() bytecode.AnnotationKind {
	if v.IsAllocated() {
		return bytecode.AnnotationAllocatedDeclaration
	}
	return bytecode.AnnotationPrimitiveDeclaration
}

type frame struct {
	index map[string]int
	vars  []Variable
}

func newFrame() *frame {
	return &frame{index: make(map[string]int)}
}

// Stack tracks the variables visible at the current point of compilation.
// Primitive variables are addressed in bytes, allocated variables (strings)
// by slot. Both spaces start at the stack's base and keep a high-water mark.
type Stack struct {
	reporter diag.Reporter
	frames   []*frame
	base     bytecode.Base

	maxPrimitive int
	maxAllocated int
}

// New creates a stack with a single global frame.
func New(r diag.Reporter) *Stack {
	s := &Stack{reporter: r}
	s.Push()
	return s
}

// Push opens a nested scope.
func (s *Stack) Push() {
	s.frames = append(s.frames, newFrame())
}

// Pop closes the innermost scope and returns its variables in declaration
// order. The global frame is never popped.
func (s *Stack) Pop() []Variable {
	if len(s.frames) <= 1 {
		return nil
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top.vars
}

// Depth is the number of open frames, the global frame included.
func (s *Stack) Depth() int { return len(s.frames) }

// Base returns where the stack's own variables start.
func (s *Stack) Base() bytecode.Base { return s.base }

// SetBase moves the start of both address spaces. It must be called before
// any variable is declared; the high-water marks never drop below the base.
func (s *Stack) SetBase(b bytecode.Base) {
	s.base = b
	s.maxPrimitive = max(s.maxPrimitive, int(b.Primitive))
	s.maxAllocated = max(s.maxAllocated, int(b.Allocated))
}

// MaxPrimitive is the largest number of bytes primitive variables needed at
// any point, the base included.
func (s *Stack) MaxPrimitive() uint16 { return clamp(s.maxPrimitive) }

// MaxAllocated is the largest number of allocated slots needed at any point.
func (s *Stack) MaxAllocated() uint16 { return clamp(s.maxAllocated) }

// Usage is the memory the stack's own variables need above the base.
func (s *Stack) Usage() bytecode.Base {
	return bytecode.Base{
		Primitive: clamp(s.maxPrimitive - int(s.base.Primitive)),
		Allocated: clamp(s.maxAllocated - int(s.base.Allocated)),
	}
}

func clamp(n int) uint16 {
	v, err := safecast.Conv[uint16](n)
	if err != nil {
		return math.MaxUint16
	}
	return v
}

// Declare adds v to the innermost frame and assigns its address. It reports
// and returns false when the name is already visible or the type has no size.
func (s *Stack) Declare(v Variable) (Variable, bool) {
	if existing, ok := s.Lookup(v.Name); ok {
		s.reportConflict(v, existing)
		return v, false
	}
	v.FromDependency = false
	if v.IsAllocated() {
		slot := int(s.base.Allocated) + s.liveSize(true)
		if !s.assign(&v, slot, 1) {
			return v, false
		}
		s.maxAllocated = max(s.maxAllocated, slot+1)
	} else {
		size := int(v.Type.Primitive.ByteSize())
		if size == 0 {
			diag.ReportError(s.reporter, diag.APIAmbiguousVariableType, v.Span,
				"Failure declaring variable '"+v.Name+"' with ambiguous type.").Emit()
			return v, false
		}
		addr := int(s.base.Primitive) + s.liveSize(false)
		if !s.assign(&v, addr, size) {
			return v, false
		}
		s.maxPrimitive = max(s.maxPrimitive, addr+size)
	}
	s.insert(v)
	return v, true
}

func (s *Stack) assign(v *Variable, addr, size int) bool {
	a, err := safecast.Conv[uint16](addr + size - 1)
	if err != nil {
		diag.ReportError(s.reporter, diag.IntAddressOverrun, v.Span,
			fmt.Sprintf("Variable '%s' does not fit in the %d addressable bytes of script memory.", v.Name, math.MaxUint16+1)).Emit()
		return false
	}
	v.Address = a - uint16(size-1)
	return true
}

// liveSize sums the own variables currently in scope in one address space.
// Merged variables keep the addresses their owners gave them.
func (s *Stack) liveSize(allocated bool) int {
	total := 0
	for _, f := range s.frames {
		for _, v := range f.vars {
			if v.FromDependency || v.IsAllocated() != allocated {
				continue
			}
			if allocated {
				total++
			} else {
				total += int(v.Type.Primitive.ByteSize())
			}
		}
	}
	return total
}

func (s *Stack) insert(v Variable) {
	top := s.frames[len(s.frames)-1]
	top.index[v.Name] = len(top.vars)
	top.vars = append(top.vars, v)
}

func (s *Stack) reportConflict(v, existing Variable) {
	diag.ReportCollision(s.reporter, diag.Collision{
		Code:       diag.APIDuplicateVariable,
		Later:      v.Span,
		Earlier:    existing.Span,
		LaterMsg:   "Variable '" + v.Name + "' conflicts with a previously-declared variable of the same name.",
		EarlierMsg: "Variable '" + v.Name + "' later comes into conflict with a variable of the same name.",
	})
}

// Append merges the global variables other declared itself into the
// innermost frame. Each address is rewritten through rel, the relocator used
// to splice other's bytecode. Returns false if any name collided.
func (s *Stack) Append(other *Stack, rel bytecode.Relocator) bool {
	ok := true
	for _, v := range other.Globals() {
		if v.FromDependency {
			continue
		}
		if existing, found := s.Lookup(v.Name); found {
			s.reportConflict(v, existing)
			ok = false
			continue
		}
		if rel != nil {
			v.Address = rel.Relocate(v.AnnotationKind(), v.File, v.Address)
		}
		v.FromDependency = true
		s.insert(v)
	}
	return ok
}

// Lookup searches from the innermost frame outwards.
func (s *Stack) Lookup(name string) (Variable, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if idx, ok := f.index[name]; ok {
			return f.vars[idx], true
		}
	}
	return Variable{}, false
}

// Get is Lookup with the not-found case signalled by an Uninitialized type.
func (s *Stack) Get(name string) Variable {
	v, _ := s.Lookup(name)
	return v
}

// Globals returns the variables of the outermost frame in declaration order.
func (s *Stack) Globals() []Variable {
	return s.frames[0].vars
}

// Top returns the variables of the innermost frame in declaration order.
func (s *Stack) Top() []Variable {
	return s.frames[len(s.frames)-1].vars
}

// FlagAllAsDependency marks every variable as merged in from a dependency.
func (s *Stack) FlagAllAsDependency() {
	for _, f := range s.frames {
		for i := range f.vars {
			f.vars[i].FromDependency = true
		}
	}
}
