package interp

// Class is a Lox class value: its name, optional superclass, and method
// table. A Class is itself Callable: calling it constructs a new Instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

// NewClass builds a Class from its name, optional superclass, and own
// (non-inherited) method table.
func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

// findMethod looks up name in the class's own method table, then walks the
// superclass chain. It returns the unbound Function; callers bind "this"
// themselves.
func (c *Class) findMethod(name string) (*Function, bool) {
	if m, ok := c.Methods[name]; ok {
		return m, true
	}
	if c.Superclass != nil {
		return c.Superclass.findMethod(name)
	}
	return nil, false
}

// Arity is the arity of the "init" method if the class declares one,
// otherwise 0 (a bare constructor call with no arguments).
func (c *Class) Arity() int {
	if init, ok := c.findMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

// Call constructs a new Instance and, if the class (or a superclass)
// declares "init", invokes it bound to the instance. The call expression
// always evaluates to the Instance, regardless of what init returns.
func (c *Class) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := NewInstance(c)
	if init, ok := c.findMethod("init"); ok {
		if _, err := init.Bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

// Instance is a runtime object: a pointer back to its class and its own
// field map. Field lookup is checked before falling back to method lookup
// on the class.
type Instance struct {
	Class  *Class
	fields map[string]Value
}

// NewInstance creates a freshly constructed instance with no fields set.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, fields: make(map[string]Value)}
}

// Get resolves a property access: instance fields first, then a bound
// method from the class (or its ancestors).
func (i *Instance) Get(name string) (Value, error) {
	if v, ok := i.fields[name]; ok {
		return v, nil
	}
	if method, ok := i.Class.findMethod(name); ok {
		return method.Bind(i), nil
	}
	return nil, &RuntimeError{Message: "undefined property '" + name + "'"}
}

// Set assigns a field on the instance, creating it if it doesn't exist yet.
func (i *Instance) Set(name string, value Value) {
	i.fields[name] = value
}
