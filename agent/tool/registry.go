package tool

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/calendon/schedpilot/agent/contract"
)

// ParamType enumerates the argument types a tool may declare. It mirrors the
// subset of JSON Schema the model gateway understands.
type ParamType string

const (
	ParamString      ParamType = "string"
	ParamInteger     ParamType = "integer"
	ParamBoolean     ParamType = "boolean"
	ParamStringArray ParamType = "array_of_string"
)

// Param declares one tool argument.
type Param struct {
	Type     ParamType
	Desc     string
	Required bool
}

// Handler executes a tool against validated arguments. A returned error is
// surfaced to the model as a ToolResult error, never raised further.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Spec is one registered tool: the declaration the model sees and the
// handler that serves it are generated from the same struct, so they cannot
// drift apart.
type Spec struct {
	Name    string
	Desc    string
	Params  map[string]Param
	Handler Handler
}

// Registry maps tool names to specs. Registration happens once at startup;
// after that the registry is read-only and safe for concurrent dispatch.
type Registry struct {
	specs map[string]Spec
	order []string
}

func NewRegistry() *Registry {
	return &Registry{specs: make(map[string]Spec, 16)}
}

// Register adds a spec. A duplicate name is a configuration error.
func (r *Registry) Register(spec Spec) error {
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		return fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
	}
	if spec.Handler == nil {
		return fmt.Errorf("%w: tool=%s has no handler", contractx.ErrValidation, name)
	}
	if _, exists := r.specs[name]; exists {
		return fmt.Errorf("%w: %s", contractx.ErrToolConflict, name)
	}
	spec.Name = name
	r.specs[name] = spec
	r.order = append(r.order, name)
	return nil
}

// RegisterAll registers specs in order, stopping at the first failure.
func (r *Registry) RegisterAll(specs ...Spec) error {
	for _, spec := range specs {
		if err := r.Register(spec); err != nil {
			return err
		}
	}
	return nil
}

// Names returns the registered tool names in registration order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Infos returns the tool declarations for model binding, in registration
// order.
func (r *Registry) Infos() []*schema.ToolInfo {
	infos := make([]*schema.ToolInfo, 0, len(r.order))
	for _, name := range r.order {
		spec := r.specs[name]
		params := make(map[string]*schema.ParameterInfo, len(spec.Params))
		for pname, p := range spec.Params {
			params[pname] = toParameterInfo(p)
		}
		infos = append(infos, &schema.ToolInfo{
			Name:        spec.Name,
			Desc:        spec.Desc,
			ParamsOneOf: schema.NewParamsOneOfByParams(params),
		})
	}
	return infos
}

// Dispatch resolves and executes one invocation. It never panics and never
// returns a Go error: unknown names, argument validation failures, handler
// errors, and handler panics all come back as ToolResult errors so the
// conversation loop is never interrupted by malformed model output.
func (r *Registry) Dispatch(ctx context.Context, inv contractx.ToolInvocation) (result contractx.ToolResult) {
	defer func() {
		if rec := recover(); rec != nil {
			result = contractx.ToolResult{
				Tool:  inv.Name,
				Error: fmt.Sprintf("tool %s panicked: %v", inv.Name, rec),
			}
		}
	}()

	spec, ok := r.specs[inv.Name]
	if !ok {
		return contractx.ToolResult{
			Tool:  inv.Name,
			Error: fmt.Sprintf("unknown tool %s", inv.Name),
		}
	}

	args, err := coerceArgs(spec.Params, inv.Args)
	if err != nil {
		return contractx.ToolResult{Tool: inv.Name, Error: err.Error()}
	}

	payload, err := spec.Handler(ctx, args)
	if err != nil {
		return contractx.ToolResult{Tool: inv.Name, Error: err.Error()}
	}
	return contractx.ToolResult{Tool: inv.Name, Payload: payload}
}

func toParameterInfo(p Param) *schema.ParameterInfo {
	info := &schema.ParameterInfo{
		Desc:     p.Desc,
		Required: p.Required,
	}
	switch p.Type {
	case ParamInteger:
		info.Type = schema.Integer
	case ParamBoolean:
		info.Type = schema.Boolean
	case ParamStringArray:
		info.Type = schema.Array
		info.ElemInfo = &schema.ParameterInfo{Type: schema.String}
	default:
		info.Type = schema.String
	}
	return info
}
