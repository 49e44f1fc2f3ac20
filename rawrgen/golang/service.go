package golang

import (
	"errors"
	"fmt"
	"strings"

	"github.com/broady/rawr/internal/casing"
	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/wire"
)

// reserved are the identifiers generated method bodies use.
var reserved = []string{"ctx", "c", "call", "impl", "req", "res", "err", "opts"}

// method is a service method mapped to Go.
type method struct {
	ir   *ir.Method
	name string // Go method name
	base string // <Service><Method> prefix of the per-method declarations

	params  []string // parameter identifiers
	types   []string // parameter types
	request string   // request payload type
	result  string   // response payload type
	unit    bool     // the method returns nothing
}

func serviceFileName(service string) string {
	return casing.Snake(service) + "_rpc.go"
}

// serviceFile renders <snake service>_rpc.go: method tags, payload types,
// the service interface, a typed client and the server constructor.
func (g *Generator) serviceFile(m *ir.Module, svc *ir.ServiceDescriptor, names *packageNames) ([]byte, error) {
	mp := newMapper(g.syms, &g.cfg, m.Path)
	s := exported(svc.Name)
	path := m.Path + "." + svc.Name

	ids := make([]string, len(svc.Methods))
	for i := range svc.Methods {
		ids[i] = svc.Methods[i].Name
	}
	ids = uniqueFields(ids)
	bases := names.methods[s]

	methods := make([]method, 0, len(svc.Methods))
	var errs []error
	for i := range svc.Methods {
		md, err := mapMethod(mp, path, &svc.Methods[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		md.name = ids[i]
		md.base = bases[i]
		methods = append(methods, md)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	rawr, ctx := mp.rawr(), mp.std("context")
	var b strings.Builder

	// Method tags.
	b.WriteString("// Method tags of " + s + ".\nconst (\n")
	for _, md := range methods {
		fmt.Fprintf(&b, "\t%sMethod = %q\n", md.base, md.ir.Name)
	}
	b.WriteString(")\n\n")

	// Payload types.
	for _, md := range methods {
		fmt.Fprintf(&b, "type (\n\t%sRequest = %s\n\t%sResponse = %s\n)\n\n", md.base, md.request, md.base, md.result)
	}

	// Service interface.
	if g.cfg.EmitComments && !svc.Documentation.IsZero() {
		writeDoc(&b, "", svc.Documentation, s+"Service")
	} else {
		fmt.Fprintf(&b, "// %sService is implemented by %s servers and clients.\n", s, s)
	}
	fmt.Fprintf(&b, "type %sService interface {\n", s)
	for _, md := range methods {
		if g.cfg.EmitComments && !md.ir.Documentation.IsZero() {
			writeDoc(&b, "\t", md.ir.Documentation, md.name)
		}
		fmt.Fprintf(&b, "\t%s(%s) %s\n", md.name, md.signature(ctx), md.returns())
	}
	b.WriteString("}\n\n")

	// Client.
	fmt.Fprintf(&b, "// %sClient calls %s methods through a %s.Caller.\n", s, s, rawr)
	fmt.Fprintf(&b, "type %sClient struct {\n\tcaller %s.Caller\n}\n\n", s, rawr)
	fmt.Fprintf(&b, "var _ %sService = (*%sClient)(nil)\n\n", s, s)
	fmt.Fprintf(&b, "// New%sClient returns a client sending requests through caller.\n", s)
	fmt.Fprintf(&b, "func New%sClient(caller %s.Caller) *%sClient {\n\treturn &%sClient{caller: caller}\n}\n\n", s, rawr, s, s)
	for _, md := range methods {
		fmt.Fprintf(&b, "func (c *%sClient) %s(%s) %s {\n", s, md.name, md.signature(ctx), md.returns())
		args := md.base + "Request{" + md.fieldArgs() + "}"
		if md.unit {
			fmt.Fprintf(&b, "\treturn %s.Invoke(ctx, c.caller, %sMethod, %s, nil)\n}\n\n", rawr, md.base, args)
			continue
		}
		fmt.Fprintf(&b, "\tvar res %sResponse\n", md.base)
		fmt.Fprintf(&b, "\terr := %s.Invoke(ctx, c.caller, %sMethod, %s, &res)\n", rawr, md.base, args)
		b.WriteString("\treturn res, err\n}\n\n")
	}

	// Server.
	fmt.Fprintf(&b, "// New%sServer returns a server dispatching %s requests to impl.\n", s, s)
	fmt.Fprintf(&b, "func New%sServer(impl %sService, opts ...%s.ServerOption) *%s.Server {\n", s, s, rawr, rawr)
	if g.cfg.Policy == PolicyPropagate {
		fmt.Fprintf(&b, "\topts = append([]%s.ServerOption{%s.WithErrorPolicy(%s.PolicyPropagate)}, opts...)\n", rawr, rawr, rawr)
	}
	fmt.Fprintf(&b, "\treturn %s.NewServer(%q, func(ctx %s.Context, call *%s.Call) (any, error) {\n", rawr, s, ctx, rawr)
	b.WriteString("\t\tswitch call.Method {\n")
	for _, md := range methods {
		fmt.Fprintf(&b, "\t\tcase %sMethod:\n", md.base)
		fmt.Fprintf(&b, "\t\t\tvar req %sRequest\n", md.base)
		b.WriteString("\t\t\tif err := call.Decode(&req); err != nil {\n\t\t\t\treturn nil, err\n\t\t\t}\n")
		callExpr := "impl." + md.name + "(" + md.callArgs() + ")"
		if md.unit {
			fmt.Fprintf(&b, "\t\t\treturn %s.Unit{}, %s\n", mp.wire(), callExpr)
		} else {
			fmt.Fprintf(&b, "\t\t\treturn %s\n", callExpr)
		}
	}
	b.WriteString("\t\t}\n\t\treturn nil, " + rawr + ".UnknownMethod(call)\n\t}, opts...)\n}\n")

	var out strings.Builder
	g.writeHeader(&out, m, false)
	mp.writeImports(&out)
	out.WriteString(b.String())
	return format(ir.FilePath(m.Path)+"/"+serviceFileName(svc.Name), out.String())
}

func mapMethod(mp *mapper, path string, m *ir.Method) (method, error) {
	mpath := path + "." + m.Name
	md := method{ir: m}

	if len(m.Params) > wire.MaxTuple {
		return method{}, &ir.ValidationError{
			Code:    ir.CodeUnsupportedShape,
			Path:    mpath,
			Message: fmt.Sprintf("%d parameters (at most %d)", len(m.Params), wire.MaxTuple),
		}
	}
	taken := make(map[string]bool, len(reserved)+len(m.Params))
	for _, r := range reserved {
		taken[r] = true
	}
	// Client bodies refer to the runtime package.
	taken[mp.rawr()] = true
	elems := make([]ir.TypeDescriptor, len(m.Params))
	for i, p := range m.Params {
		typ, err := mp.typeExpr(p.Type)
		if err != nil {
			return method{}, atPath(fmt.Sprintf("%s(%s)", mpath, m.ParamName(i)), err)
		}
		name := local(m.ParamName(i), taken)
		taken[name] = true
		md.params = append(md.params, name)
		md.types = append(md.types, typ)
		elems[i] = p.Type
	}
	req, err := mp.tuple(elems)
	if err != nil {
		return method{}, atPath(mpath, err)
	}
	md.request = req

	res := m.Result()
	result, err := mp.typeExpr(res)
	if err != nil {
		return method{}, atPath(mpath+"->", err)
	}
	md.result = result
	if p, ok := res.(*ir.PrimitiveDescriptor); ok && p.PrimitiveKind == ir.PrimitiveUnit {
		md.unit = true
	}
	return md, nil
}

func (md method) signature(ctx string) string {
	parts := []string{"ctx " + ctx + ".Context"}
	for i := range md.params {
		parts = append(parts, md.params[i]+" "+md.types[i])
	}
	return strings.Join(parts, ", ")
}

func (md method) returns() string {
	if md.unit {
		return "error"
	}
	return "(" + md.result + ", error)"
}

// fieldArgs fills the request tuple from the parameters: V0: a, V1: b.
func (md method) fieldArgs() string {
	parts := make([]string, len(md.params))
	for i, p := range md.params {
		parts[i] = fmt.Sprintf("V%d: %s", i, p)
	}
	return strings.Join(parts, ", ")
}

// callArgs passes the decoded request to the implementation: ctx, req.V0.
func (md method) callArgs() string {
	parts := []string{"ctx"}
	for i := range md.params {
		parts = append(parts, fmt.Sprintf("req.V%d", i))
	}
	return strings.Join(parts, ", ")
}
