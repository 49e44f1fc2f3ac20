package typescript

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/broady/rawr/internal/casing"
	"github.com/broady/rawr/rawrgen/ir"
	"github.com/broady/rawr/rawrgen/sink"
)

// method is a service method with its parameter and result types mapped.
type method struct {
	name   string
	params []string // binding names
	types  []string // mapped parameter types
	result string
}

// serviceFile renders <snake service>_rpc.ts: the request and response
// unions, the client factory and the server dispatcher of svc.
func (g *Generator) serviceFile(m *ir.Module, svc *ir.ServiceDescriptor) (sink.File, error) {
	mp := newMapper(g.syms, m.Path)
	mp.importLocal = true

	path := m.Path + "." + svc.Name
	methods := make([]method, 0, len(svc.Methods))
	var errs []error
	for i := range svc.Methods {
		md, err := mapMethod(mp, path, &svc.Methods[i])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		methods = append(methods, md)
	}
	s := escapeReservedWord(svc.Name)
	runtime := "Caller, HandleRequest, ProtocolMismatch"
	if g.cfg.Policy != PolicyPropagate {
		runtime += ", Result, errorMessage"
	}
	declared := append(strings.Split(runtime, ", "),
		s+"Request", s+"Response", s+"Service", s+"Client", "dispatch"+s, s+"Server")
	if err := mp.checkNames(path, declared); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return sink.File{}, errors.Join(errs...)
	}

	var b strings.Builder
	b.WriteString(header)
	fmt.Fprintf(&b, "import { %s } from %q;\n", typeOnly(runtime), g.runtimeImport(m.Path))
	mp.writeImports(&b)
	b.WriteString("\n")

	if g.cfg.EmitComments && !svc.Documentation.IsZero() {
		writeDoc(&b, "", svc.Documentation)
	}
	writeUnion(&b, s+"Request", methods, func(md method) string {
		return "[" + strings.Join(md.types, ", ") + "]"
	})
	writeUnion(&b, s+"Response", methods, func(md method) string { return md.result })
	b.WriteString("\n")

	// Service shape: sync or async implementations are both accepted.
	fmt.Fprintf(&b, "export type %sService = {\n", s)
	for i, md := range methods {
		if g.cfg.EmitComments && !svc.Methods[i].Documentation.IsZero() {
			writeDoc(&b, "  ", svc.Methods[i].Documentation)
		}
		fmt.Fprintf(&b, "  %s: (%s) => %s | Promise<%s>;\n", propertyName(md.name), signature(md), md.result, md.result)
	}
	b.WriteString("};\n\n")

	// Client factory.
	fmt.Fprintf(&b, "export function %sClient(rpc: Caller<%sRequest, %sResponse>) {\n", s, s, s)
	b.WriteString("  return {\n")
	for _, md := range methods {
		tag := strconv.Quote(md.name)
		fmt.Fprintf(&b, "    %s: async (%s): Promise<%s> => {\n", propertyName(md.name), signature(md), md.result)
		fmt.Fprintf(&b, "      const res = await rpc({ method: %s, payload: [%s] });\n", tag, strings.Join(md.params, ", "))
		fmt.Fprintf(&b, "      if (res.method !== %s) {\n", tag)
		fmt.Fprintf(&b, "        throw new ProtocolMismatch(%s, res.method);\n", tag)
		b.WriteString("      }\n")
		b.WriteString("      return res.payload;\n")
		b.WriteString("    },\n")
	}
	b.WriteString("  };\n}\n\n")

	// Dispatcher, exhaustive over the method list.
	fmt.Fprintf(&b, "async function dispatch%s(service: %sService, req: %sRequest): Promise<%sResponse> {\n", s, s, s, s)
	b.WriteString("  switch (req.method) {\n")
	for _, md := range methods {
		tag := strconv.Quote(md.name)
		args := make([]string, len(md.params))
		for i := range md.params {
			args[i] = fmt.Sprintf("req.payload[%d]", i)
		}
		fmt.Fprintf(&b, "    case %s:\n", tag)
		fmt.Fprintf(&b, "      return { method: %s, payload: await %s(%s) };\n", tag, member("service", md.name), strings.Join(args, ", "))
	}
	b.WriteString("    default: {\n")
	b.WriteString("      const unknown: never = req;\n")
	fmt.Fprintf(&b, "      throw new Error(\"%sServer: unknown method \" + (unknown as { method: string }).method);\n", s)
	b.WriteString("    }\n")
	b.WriteString("  }\n}\n\n")

	// Server factory, per error policy.
	if g.cfg.Policy == PolicyPropagate {
		fmt.Fprintf(&b, "export function %sServer(service: %sService): HandleRequest<%sRequest, %sResponse> {\n", s, s, s, s)
		fmt.Fprintf(&b, "  return async (request) => ({ id: request.id, data: await dispatch%s(service, request.data) });\n", s)
		b.WriteString("}\n")
	} else {
		fmt.Fprintf(&b, "export function %sServer(service: %sService): HandleRequest<%sRequest, Result<%sResponse>> {\n", s, s, s, s)
		b.WriteString("  return async (request) => {\n")
		b.WriteString("    try {\n")
		fmt.Fprintf(&b, "      return { id: request.id, data: { Ok: await dispatch%s(service, request.data) } };\n", s)
		b.WriteString("    } catch (e) {\n")
		fmt.Fprintf(&b, "      return { id: request.id, data: { Err: \"%sServer handler threw: \" + errorMessage(e) } };\n", s)
		b.WriteString("    }\n")
		b.WriteString("  };\n")
		b.WriteString("}\n")
	}

	file := casing.Snake(svc.Name) + "_rpc.ts"
	return sink.File{Path: modulePath(m.Path, file), Content: []byte(b.String())}, nil
}

func mapMethod(mp *mapper, path string, m *ir.Method) (method, error) {
	mpath := path + "." + m.Name
	md := method{name: m.Name}
	seen := make(map[string]bool)
	for i, p := range m.Params {
		typ, err := mp.typeExpr(p.Type)
		if err != nil {
			return method{}, atPath(fmt.Sprintf("%s(%s)", mpath, m.ParamName(i)), err)
		}
		name := bindingName(m.ParamName(i))
		for seen[name] || name == "rpc" || name == "res" {
			name += "_"
		}
		seen[name] = true
		md.params = append(md.params, name)
		md.types = append(md.types, typ)
	}
	result, err := mp.typeExpr(m.Result())
	if err != nil {
		return method{}, atPath(mpath+"->", err)
	}
	md.result = result
	return md, nil
}

func signature(md method) string {
	parts := make([]string, len(md.params))
	for i := range md.params {
		parts[i] = md.params[i] + ": " + md.types[i]
	}
	return strings.Join(parts, ", ")
}

func writeUnion(b *strings.Builder, name string, methods []method, payload func(method) string) {
	if len(methods) == 0 {
		fmt.Fprintf(b, "export type %s = never;\n", name)
		return
	}
	fmt.Fprintf(b, "export type %s =\n", name)
	for _, md := range methods {
		fmt.Fprintf(b, "  | { method: %s; payload: %s }\n", strconv.Quote(md.name), payload(md))
	}
	b.WriteString(";\n")
}

// member renders a property access on obj.
func member(obj, name string) string {
	if isIdentifier(name) {
		return obj + "." + name
	}
	return obj + "[" + strconv.Quote(name) + "]"
}

// typeOnly marks every name in a comma-separated import list as type-only,
// except the runtime values.
func typeOnly(names string) string {
	parts := strings.Split(names, ", ")
	for i, p := range parts {
		if p != "ProtocolMismatch" && p != "errorMessage" {
			parts[i] = "type " + p
		}
	}
	return strings.Join(parts, ", ")
}

func (g *Generator) runtimeImport(module string) string {
	if g.cfg.RuntimeModule != "" {
		return g.cfg.RuntimeModule
	}
	return strings.Repeat("../", len(ir.SplitPath(module))) + "rawr"
}
