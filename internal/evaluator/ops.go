package evaluator

import (
	"context"

	"github.com/jhump/protoreflect/dynamic"

	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/herrors"
)

func (c *Client) invoke(ctx context.Context, name string, req, resp *dynamic.Message) error {
	md, err := c.method(name)
	if err != nil {
		return err
	}
	if err := c.conn.Invoke(ctx, methodPath(c.sd.GetFullyQualifiedName(), md.GetName()), req, resp); err != nil {
		return herrors.Wrap(herrors.KindSolverUnknownSatisfiability, err, "evaluator RPC %s failed", name)
	}
	return nil
}

// Initialization is the RPC contract's first call (spec §6),
// announcing this adapter's session id.
func (c *Client) Initialization() error {
	md, err := c.method("Initialization")
	if err != nil {
		return err
	}
	req := c.newRequest(md)
	req.SetFieldByName("session", c.session)
	resp := c.newResponse(md)
	return c.invoke(context.Background(), "Initialization", req, resp)
}

// ModelParseText ships the emitted intermediate text (spec §6) so the
// evaluator can parse the model once before any EvalInit/EvalRunnable
// call references its runnable fqns.
func (c *Client) ModelParseText(ctx context.Context, text string) error {
	md, err := c.method("ModelParseText")
	if err != nil {
		return err
	}
	req := c.newRequest(md)
	req.SetFieldByName("text", text)
	resp := c.newResponse(md)
	return c.invoke(ctx, "ModelParseText", req, resp)
}

// EvalInit establishes the initial evaluator state from the .hsf
// @init bindings, returning its state id.
func (c *Client) EvalInit(ctx context.Context, bindings []Binding) (string, error) {
	md, err := c.method("EvalInit")
	if err != nil {
		return "", err
	}
	req := c.newRequest(md)
	req.SetFieldByName("bindings", c.codec.encodeBindings(bindings))
	resp := c.newResponse(md)
	if err := c.invoke(ctx, "EvalInit", req, resp); err != nil {
		return "", err
	}
	return resp.GetFieldByName("state_id").(string), nil
}

// EvalRunnableResult is EvalRunnable's decoded response (spec §6).
type EvalRunnableResult struct {
	StateID        string
	Satisfiable    bool
	CreatedSymbols []CreatedSymbol
	PathCondition  coredata.TDBool
	OtherCondition coredata.TDBool
}

// EvalRunnable fires runnableFQN from stateID with bindings, the core
// RPC of the adapter loop (spec §4.6 steps 1-5).
func (c *Client) EvalRunnable(ctx context.Context, stateID, runnableFQN string, bindings []Binding) (EvalRunnableResult, error) {
	md, err := c.method("EvalRunnable")
	if err != nil {
		return EvalRunnableResult{}, err
	}
	req := c.newRequest(md)
	req.SetFieldByName("state_id", stateID)
	req.SetFieldByName("runnable_fqn", runnableFQN)
	req.SetFieldByName("bindings", c.codec.encodeBindings(bindings))
	resp := c.newResponse(md)
	if err := c.invoke(ctx, "EvalRunnable", req, resp); err != nil {
		return EvalRunnableResult{}, err
	}

	result := EvalRunnableResult{
		StateID:     resp.GetFieldByName("state_id").(string),
		Satisfiable: resp.GetFieldByName("satisfiable").(bool),
	}
	if !result.Satisfiable {
		return result, nil
	}

	rawSymbols, _ := resp.GetFieldByName("created_symbols").([]interface{})
	for _, raw := range rawSymbols {
		result.CreatedSymbols = append(result.CreatedSymbols, c.codec.decodeCreatedSymbol(raw.(*dynamic.Message)))
	}

	pc, err := c.decodeConditionField(resp, "path_condition")
	if err != nil {
		return EvalRunnableResult{}, err
	}
	result.PathCondition = pc

	oc, err := c.decodeConditionField(resp, "other_condition")
	if err != nil {
		return EvalRunnableResult{}, err
	}
	result.OtherCondition = oc

	return result, nil
}

func (c *Client) decodeConditionField(resp *dynamic.Message, field string) (coredata.TDBool, error) {
	raw := resp.GetFieldByName(field)
	msg, ok := raw.(*dynamic.Message)
	if !ok {
		return coredata.BoolTrue(), nil
	}
	return c.codec.decodeBool(msg)
}

// QueryValue reads varFQN's current value out of evaluator state
// stateID (spec §6), used to refresh interpretation[lf] after a Sat
// EvalRunnable and to read back emission parameters.
func (c *Client) QueryValue(ctx context.Context, stateID, varFQN string) (coredata.TDGeneric, error) {
	md, err := c.method("QueryValue")
	if err != nil {
		return coredata.TDGeneric{}, err
	}
	req := c.newRequest(md)
	req.SetFieldByName("state_id", stateID)
	req.SetFieldByName("var_fqn", varFQN)
	resp := c.newResponse(md)
	if err := c.invoke(ctx, "QueryValue", req, resp); err != nil {
		return coredata.TDGeneric{}, err
	}
	msg, ok := resp.GetFieldByName("value").(*dynamic.Message)
	if !ok {
		return coredata.TDGeneric{}, herrors.New(herrors.KindWronglyTypedEvaluatorOperation, "QueryValue response carried no value term")
	}
	return c.codec.decodeGeneric(msg)
}

// RunPostProcessor is the RPC contract's trailing call (spec §6),
// invoked once at the end of a driver run so the evaluator can
// flush/optimise its internal state.
func (c *Client) RunPostProcessor(ctx context.Context, flags []string) error {
	md, err := c.method("RunPostProcessor")
	if err != nil {
		return err
	}
	req := c.newRequest(md)
	rawFlags := make([]interface{}, len(flags))
	for i, f := range flags {
		rawFlags[i] = f
	}
	req.SetFieldByName("flags", rawFlags)
	resp := c.newResponse(md)
	return c.invoke(ctx, "RunPostProcessor", req, resp)
}
