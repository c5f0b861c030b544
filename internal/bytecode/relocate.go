package bytecode

// Relocator rewrites a variable address carried by spliced bytecode. owner is
// the path of the file that declared the variable.
type Relocator interface {
	Relocate(kind AnnotationKind, owner string, addr uint16) uint16
}

// Offset shifts every primitive address and allocated index by a constant.
type Offset struct {
	Primitive uint16
	Allocated uint16
}

func (o Offset) Relocate(kind AnnotationKind, _ string, addr uint16) uint16 {
	switch {
	case kind.IsPrimitiveAddress():
		return addr + o.Primitive
	case kind.IsAllocatedAddress():
		return addr + o.Allocated
	}
	return addr
}

// Base is where one file's variables start in primitive memory and in the
// allocated slot table.
type Base struct {
	Primitive uint16
	Allocated uint16
}

// Rebase moves addresses declared by each owner from the base the splicing
// source gave it (From) to the base the destination gives it (To). Owners
// missing from either map keep their address.
type Rebase struct {
	From map[string]Base
	To   map[string]Base
}

func (r Rebase) Relocate(kind AnnotationKind, owner string, addr uint16) uint16 {
	from, okFrom := r.From[owner]
	to, okTo := r.To[owner]
	if !okFrom || !okTo {
		return addr
	}
	switch {
	case kind.IsPrimitiveAddress():
		return addr - from.Primitive + to.Primitive
	case kind.IsAllocatedAddress():
		return addr - from.Allocated + to.Allocated
	}
	return addr
}
