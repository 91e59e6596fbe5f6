package calculatics

// Scope maps variable names to values. There is a single namespace with no
// shadowing or deletion. It is not safe to use a Scope concurrently. A nil
// *Scope can be read and cloned as an empty scope, but not assigned to.
type Scope struct {
	names map[string]float64
}

// ScopeOption is an option used when creating a scope.
type ScopeOption interface {
	scopeOption()
}

type (
	varopt struct {
		name string
		val  float64
	}
	varsopt map[string]float64
)

func (varopt) scopeOption()  {}
func (varsopt) scopeOption() {}

// SetVar sets the value of a variable in the scope.
func SetVar(name string, val float64) ScopeOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the scope.
func SetVars(vars map[string]float64) ScopeOption {
	return varsopt(vars)
}

// NewScope creates a new scope with the given variables defined.
func NewScope(opts ...ScopeOption) *Scope {
	var s Scope
	return s.Clone(opts...)
}

// Clone creates a copy of a scope and applies options to it. Later
// assignments to either scope do not affect the other.
func (s *Scope) Clone(opts ...ScopeOption) *Scope {
	n := Scope{names: make(map[string]float64, s.Len())}
	if s != nil {
		for k, v := range s.names {
			n.names[k] = v
		}
	}
	for _, opt := range opts {
		switch opt := opt.(type) {
		case nil:
			continue
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		default:
			panic("calculatics: unknown option type")
		}
	}
	return &n
}

// Assign sets the value of a variable, replacing any previous value. Returns
// s for chaining.
func (s *Scope) Assign(name string, val float64) *Scope {
	if s.names == nil {
		s.names = make(map[string]float64)
	}
	s.names[name] = val
	return s
}

// Lookup returns the value of a variable. If there is no such variable, the
// error is an *UnresolvedIdentifierError with no line information. A nil
// *Scope has no variables.
func (s *Scope) Lookup(name string) (float64, error) {
	if s == nil {
		return 0, &UnresolvedIdentifierError{Name: name}
	}
	v, ok := s.names[name]
	if !ok {
		return 0, &UnresolvedIdentifierError{Name: name}
	}
	return v, nil
}

// Len returns the number of variables defined in the scope.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Names returns the names of all defined variables in sorted order.
func (s *Scope) Names() []string {
	if s == nil {
		return nil
	}
	names := make([]string, 0, len(s.names))
	for k := range s.names {
		names = append(names, k)
	}
	sortstrs(names)
	return names
}

// sortstrs sorts a string slice without using package sort because that has
// reflection and allocation problems.
func sortstrs(names []string) {
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
}
