package ir

// node.go implements Pure-Node Idealization (spec.md §3, §4.2): the factory
// functions that every pure node must be constructed through. Idealization
// happens before hash-consing, so two idealized-equal expressions always
// land on the same NodeID (global value numbering, spec.md §4.1).

// Const interns the 8-bit constant k.
func (a *Arena) Const(k byte) NodeID {
	return a.intern(KConst, nil, k, 0, 0, 0)
}

// Copy interns a reference to the value of the cell at offset at the entry
// of the effectful region identified by block — the sole source of fresh
// symbolic inputs from the tape (spec.md §3).
func (a *Arena) Copy(offset int, block BlockID) NodeID {
	return a.intern(KCopy, nil, 0, offset, block, 0)
}

// InputByte interns a reference to the i-th byte read from standard input.
// i is assigned monotonically by the Builder.
func (a *Arena) InputByte(i int) NodeID {
	return a.intern(KInput, nil, 0, 0, 0, i)
}

// True interns the always-true predicate constant.
func (a *Arena) True() NodeID { return a.intern(KTrue, nil, 0, 0, 0, 0) }

// False interns the always-false predicate constant — the natural dual of
// True, needed so IsZero/IsNonZero/IsEven have somewhere to fold a
// statically-known-false condition to (spec.md §4.2: "IsZero of Const(k)
// folds to a boolean").
func (a *Arena) False() NodeID { return a.intern(KFalse, nil, 0, 0, 0, 0) }

// Add idealizes and interns the 8-bit modular sum of its operands:
// associative, commutative, constants folded, Const(0) identities dropped,
// Add(Mul(k1,x), Mul(k2,x)) collapsed to Mul(k1+k2,x) (spec.md §3, §4.2).
func (a *Arena) Add(xs ...NodeID) NodeID {
	flat := a.flatten(KAdd, xs)

	var constSum int
	coeffs := make(map[NodeID]int)
	var order []NodeID // first-seen order, purely so output is deterministic pre-sort

	for _, x := range flat {
		n := a.Get(x)
		if n.Kind == KConst {
			constSum += int(n.Const)
			continue
		}
		base, coeff := a.addTerm(x)
		if _, seen := coeffs[base]; !seen {
			order = append(order, base)
		}
		coeffs[base] += int(coeff)
	}

	var children []NodeID
	for _, base := range order {
		c := wrap(coeffs[base])
		switch c {
		case 0:
			// annihilated: this term's coefficient summed to zero mod 256.
		case 1:
			children = append(children, base)
		default:
			children = append(children, a.Mul(a.Const(c), base))
		}
	}

	cs := wrap(constSum)
	if cs != 0 || len(children) == 0 {
		children = append(children, a.Const(cs))
	}

	if len(children) == 1 {
		return children[0]
	}
	sortIDs(children)
	return a.intern(KAdd, children, 0, 0, 0, 0)
}

// addTerm decomposes x into (base, coefficient) for Add's coefficient-
// combining step: Mul(Const(c), base) contributes coefficient c against
// base; anything else contributes coefficient 1 against itself.
func (a *Arena) addTerm(x NodeID) (base NodeID, coeff byte) {
	n := a.Get(x)
	if n.Kind != KMul {
		return x, 1
	}
	var constVal byte = 1
	foundConst := false
	var others []NodeID
	for _, c := range n.Children {
		cn := a.Get(c)
		if !foundConst && cn.Kind == KConst {
			constVal = cn.Const
			foundConst = true
			continue
		}
		others = append(others, c)
	}
	if !foundConst || len(others) == 0 {
		return x, 1
	}
	if len(others) == 1 {
		return others[0], constVal
	}
	return a.Mul(others...), constVal
}

// Mul idealizes and interns the 8-bit modular product of its operands:
// associative, commutative, constants folded, Mul(x,Const(1)) dropped,
// Mul(x,Const(0)) annihilated to Const(0) (spec.md §3, §4.2).
func (a *Arena) Mul(xs ...NodeID) NodeID {
	flat := a.flatten(KMul, xs)

	product := 1
	var nonConst []NodeID
	for _, x := range flat {
		n := a.Get(x)
		if n.Kind == KConst {
			product = (product * int(n.Const)) % 256
			continue
		}
		nonConst = append(nonConst, x)
	}

	p := wrap(product)
	if p == 0 {
		return a.Const(0)
	}
	if len(nonConst) == 0 {
		return a.Const(p)
	}

	children := nonConst
	if p != 1 {
		children = append(append([]NodeID{}, nonConst...), a.Const(p))
	}
	if len(children) == 1 {
		return children[0]
	}
	sortIDs(children)
	return a.intern(KMul, children, 0, 0, 0, 0)
}

// flatten expands any operand already of the same associative kind into its
// own children, one level — since children are canonical by construction,
// one level of expansion is enough to keep the whole multiset flat.
func (a *Arena) flatten(kind Kind, xs []NodeID) []NodeID {
	var out []NodeID
	for _, x := range xs {
		n := a.Get(x)
		if n.Kind == kind {
			out = append(out, n.Children...)
		} else {
			out = append(out, x)
		}
	}
	return out
}

// IsZero idealizes and interns the zero predicate. Constants fold
// immediately; IsZero(Add(Const(k), x)) for nonzero k is deliberately left
// unsimplified (spec.md §4.2) to avoid unsound assumptions about symbolic
// tape values.
func (a *Arena) IsZero(x NodeID) NodeID {
	if n := a.Get(x); n.Kind == KConst {
		if n.Const == 0 {
			return a.True()
		}
		return a.False()
	}
	return a.intern(KIsZero, []NodeID{x}, 0, 0, 0, 0)
}

// IsNonZero is the dual of IsZero, used directly by the Builder for a
// Loop's "while nonzero" condition and by the closed-form pass for the
// rewritten If's guard (spec.md §4.4, §4.5).
func (a *Arena) IsNonZero(x NodeID) NodeID {
	if n := a.Get(x); n.Kind == KConst {
		if n.Const != 0 {
			return a.True()
		}
		return a.False()
	}
	return a.intern(KIsNonZero, []NodeID{x}, 0, 0, 0, 0)
}

// IsEven idealizes and interns the parity predicate.
func (a *Arena) IsEven(x NodeID) NodeID {
	if n := a.Get(x); n.Kind == KConst {
		if n.Const%2 == 0 {
			return a.True()
		}
		return a.False()
	}
	return a.intern(KIsEven, []NodeID{x}, 0, 0, 0, 0)
}
