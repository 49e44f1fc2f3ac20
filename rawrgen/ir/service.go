package ir

import "fmt"

// ServiceDescriptor represents a named group of methods.
type ServiceDescriptor struct {
	// Name is the service identifier (e.g., "Test").
	Name string

	// Methods contains all methods, in declaration order.
	Methods []Method

	// Documentation for this service.
	Documentation Documentation
}

// Method represents a single RPC method.
type Method struct {
	// Name is the method identifier, used as the wire method tag.
	Name string

	// Params are the positional parameters. The request payload is the
	// tuple of their types.
	Params []Param

	// Returns is the response payload type. Nil means unit.
	Returns TypeDescriptor

	// Documentation for this method.
	Documentation Documentation
}

// Param is a positional method parameter.
type Param struct {
	// Name is optional; generators fall back to ParamName.
	Name string
	Type TypeDescriptor
}

// ParamName returns the i-th parameter name, defaulting to argN.
func (m *Method) ParamName(i int) string {
	if m.Params[i].Name != "" {
		return m.Params[i].Name
	}
	return fmt.Sprintf("arg%d", i)
}

// Result returns the response type, defaulting to unit.
func (m *Method) Result() TypeDescriptor {
	if m.Returns == nil {
		return Unit()
	}
	return m.Returns
}

// FindMethod looks up a method by name. Returns nil if not found.
func (s *ServiceDescriptor) FindMethod(name string) *Method {
	for i := range s.Methods {
		if s.Methods[i].Name == name {
			return &s.Methods[i]
		}
	}
	return nil
}
