package evaluator

import (
	"github.com/jhump/protoreflect/dynamic"

	"github.com/hibou-sem/hibou/internal/coredata"
)

// Binding is one entry of the `bindings` argument of `EvalInit`/
// `EvalRunnable` (spec §6): the evaluator-side fully-qualified name of
// a variable/parameter slot, paired with either a concrete value or
// the NewFresh sentinel.
type Binding struct {
	VarFQN string
	Value  coredata.ValueOrFresh
}

// CreatedSymbol mirrors one entry of EvalRunnableResponse's
// `created_symbols` (spec §6): the evaluator's own fqn for a freshly
// allocated symbol plus its type, to be registered via
// ExecutionContext.AddSymbol.
type CreatedSymbol struct {
	FQN  string
	Type coredata.Type
}

func (c *codec) encodeValueOrFresh(v coredata.ValueOrFresh) *dynamic.Message {
	msg := dynamic.NewMessage(c.termMD.GetFile().FindMessage("hibou.evaluator.ValueOrFresh"))
	msg.SetFieldByName("is_fresh", v.IsFresh())
	if !v.IsFresh() {
		msg.SetFieldByName("value", c.encodeGeneric(v.Value()))
	}
	return msg
}

func (c *codec) encodeBinding(b Binding) *dynamic.Message {
	msg := dynamic.NewMessage(c.termMD.GetFile().FindMessage("hibou.evaluator.Binding"))
	msg.SetFieldByName("var_fqn", b.VarFQN)
	msg.SetFieldByName("value", c.encodeValueOrFresh(b.Value))
	return msg
}

func (c *codec) encodeBindings(bindings []Binding) []interface{} {
	out := make([]interface{}, len(bindings))
	for i, b := range bindings {
		out[i] = c.encodeBinding(b)
	}
	return out
}

func (c *codec) decodeCreatedSymbol(msg *dynamic.Message) CreatedSymbol {
	return CreatedSymbol{
		FQN:  msg.GetFieldByName("fqn").(string),
		Type: coredata.Type(msg.GetFieldByName("type").(string)),
	}
}
