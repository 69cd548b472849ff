package evaluator

import (
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"

	"github.com/hibou-sem/hibou/internal/coredata"
	"github.com/hibou-sem/hibou/internal/herrors"
)

// codec resolves the descriptors of the schema's message types once
// per Client so every encode/decode call avoids repeated lookups.
type codec struct {
	termMD  *desc.MessageDescriptor
	refMD   *desc.MessageDescriptor
}

func newCodec(fd *desc.FileDescriptor) (*codec, error) {
	termMD := fd.FindMessage("hibou.evaluator.Term")
	refMD := fd.FindMessage("hibou.evaluator.VarRef")
	if termMD == nil || refMD == nil {
		return nil, herrors.New(herrors.KindParsingSetup, "embedded evaluator schema is missing Term/VarRef message types")
	}
	return &codec{termMD: termMD, refMD: refMD}, nil
}

func (c *codec) newTerm() *dynamic.Message { return dynamic.NewMessage(c.termMD) }
func (c *codec) newRef() *dynamic.Message  { return dynamic.NewMessage(c.refMD) }

// encodeRef builds a VarRef wire message from a coredata.VarRef.
func (c *codec) encodeRef(ref coredata.VarRef) *dynamic.Message {
	msg := c.newRef()
	switch {
	case ref.IsVar():
		msg.SetFieldByName("kind", "var")
		msg.SetFieldByName("var_id", int32(ref.VarID()))
	case ref.IsSymbol():
		msg.SetFieldByName("kind", "symbol")
		msg.SetFieldByName("symbol_id", int32(ref.SymbolID()))
	case ref.IsMsgParam():
		msID, prID := ref.MsgParamIDs()
		msg.SetFieldByName("kind", "msgparam")
		msg.SetFieldByName("ms_id", int32(msID))
		msg.SetFieldByName("pr_id", int32(prID))
	}
	return msg
}

func (c *codec) decodeRef(msg *dynamic.Message) (coredata.VarRef, error) {
	switch msg.GetFieldByName("kind").(string) {
	case "var":
		return coredata.Var(int(msg.GetFieldByName("var_id").(int32))), nil
	case "symbol":
		return coredata.Symbol(int(msg.GetFieldByName("symbol_id").(int32))), nil
	case "msgparam":
		return coredata.MsgParam(int(msg.GetFieldByName("ms_id").(int32)), int(msg.GetFieldByName("pr_id").(int32))), nil
	}
	return coredata.VarRef{}, herrors.New(herrors.KindUnknownOperatorInEvaluatorOperation, "unknown VarRef kind %q", msg.GetFieldByName("kind"))
}

// encodeGeneric flattens any TDGeneric (ground or still carrying
// references) into a Term wire message.
func (c *codec) encodeGeneric(g coredata.TDGeneric) *dynamic.Message {
	switch g.Type() {
	case coredata.TBool:
		return c.encodeBool(g.AsBool())
	case coredata.TInt:
		return c.encodeNumber(coredata.TInt, g.AsInt())
	case coredata.TFloat:
		return c.encodeNumber(coredata.TFloat, g.AsFloat())
	case coredata.TString:
		return c.encodeString(g.AsString())
	}
	return c.newTerm()
}

func (c *codec) encodeBool(b coredata.TDBool) *dynamic.Message {
	msg := c.newTerm()
	msg.SetFieldByName("type", "bool")
	switch {
	case b.IsTrue():
		msg.SetFieldByName("tag", "true")
	case b.IsFalse():
		msg.SetFieldByName("tag", "false")
	case b.IsAnd():
		msg.SetFieldByName("tag", "and")
		msg.SetFieldByName("operands", c.encodeBoolOperands(b.Operands()))
	case b.IsOr():
		msg.SetFieldByName("tag", "or")
		msg.SetFieldByName("operands", c.encodeBoolOperands(b.Operands()))
	case b.IsNot():
		msg.SetFieldByName("tag", "not")
		msg.SetFieldByName("not_operand", c.encodeBool(b.NotOperand()))
	case b.IsCompare():
		kind, lhs, rhs := b.Compare()
		msg.SetFieldByName("tag", "compare")
		msg.SetFieldByName("compare_kind", string(kind))
		msg.SetFieldByName("compare_lhs", c.encodeGeneric(lhs))
		msg.SetFieldByName("compare_rhs", c.encodeGeneric(rhs))
	case b.IsRef():
		msg.SetFieldByName("tag", "ref")
		msg.SetFieldByName("ref", c.encodeRef(b.Ref()))
	}
	return msg
}

func (c *codec) encodeBoolOperands(bs []coredata.TDBool) []interface{} {
	out := make([]interface{}, len(bs))
	for i, b := range bs {
		out[i] = c.encodeBool(b)
	}
	return out
}

func (c *codec) encodeNumber(kind coredata.Type, n coredata.TDNumber) *dynamic.Message {
	msg := c.newTerm()
	typ := "int"
	if kind == coredata.TFloat {
		typ = "float"
	}
	msg.SetFieldByName("type", typ)
	switch {
	case n.IsValue():
		msg.SetFieldByName("tag", "value")
		if kind == coredata.TInt {
			msg.SetFieldByName("int_val", n.IntVal())
		} else {
			msg.SetFieldByName("float_val", n.FloatVal())
		}
	case n.IsMinus():
		msg.SetFieldByName("tag", "minus")
		msg.SetFieldByName("not_operand", c.encodeNumber(kind, n.MinusOperand()))
	case n.IsFactor():
		msg.SetFieldByName("tag", "factor")
		operands, signs := make([]interface{}, 0, len(n.Factors())), make([]interface{}, 0, len(n.Factors()))
		for _, f := range n.Factors() {
			operands = append(operands, c.encodeNumber(kind, f.Term))
			signs = append(signs, string(f.Sign))
		}
		msg.SetFieldByName("operands", operands)
		msg.SetFieldByName("signs", signs)
	case n.IsAdd():
		msg.SetFieldByName("tag", "add")
		operands, signs := make([]interface{}, 0, len(n.Adds())), make([]interface{}, 0, len(n.Adds()))
		for _, a := range n.Adds() {
			operands = append(operands, c.encodeNumber(kind, a.Term))
			signs = append(signs, string(a.Sign))
		}
		msg.SetFieldByName("operands", operands)
		msg.SetFieldByName("signs", signs)
	case n.IsRef():
		msg.SetFieldByName("tag", "ref")
		msg.SetFieldByName("ref", c.encodeRef(n.Ref()))
	}
	return msg
}

func (c *codec) encodeString(s coredata.TDString) *dynamic.Message {
	msg := c.newTerm()
	msg.SetFieldByName("type", "string")
	if s.IsValue() {
		msg.SetFieldByName("tag", "value")
		msg.SetFieldByName("string_val", s.Value())
	} else {
		msg.SetFieldByName("tag", "ref")
		msg.SetFieldByName("ref", c.encodeRef(s.Ref()))
	}
	return msg
}

// decodeGeneric is the inverse of encodeGeneric: it reconstructs a
// TDGeneric from the wire Term the evaluator returned (a QueryValue
// result, or a path_condition/other_condition delta).
func (c *codec) decodeGeneric(msg *dynamic.Message) (coredata.TDGeneric, error) {
	typ := msg.GetFieldByName("type").(string)
	switch typ {
	case "bool":
		b, err := c.decodeBool(msg)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		return coredata.FromBool(b), nil
	case "int":
		n, err := c.decodeNumber(coredata.TInt, msg)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		return coredata.FromInt(n), nil
	case "float":
		n, err := c.decodeNumber(coredata.TFloat, msg)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		return coredata.FromFloat(n), nil
	case "string":
		s, err := c.decodeString(msg)
		if err != nil {
			return coredata.TDGeneric{}, err
		}
		return coredata.FromString(s), nil
	}
	return coredata.TDGeneric{}, herrors.New(herrors.KindWronglyTypedEvaluatorOperation, "evaluator returned an unrecognised term type %q", typ)
}

func (c *codec) decodeBool(msg *dynamic.Message) (coredata.TDBool, error) {
	tag := msg.GetFieldByName("tag").(string)
	switch tag {
	case "true":
		return coredata.BoolTrue(), nil
	case "false":
		return coredata.BoolFalse(), nil
	case "and", "or":
		rawOperands, _ := msg.GetFieldByName("operands").([]interface{})
		operands := make([]coredata.TDBool, len(rawOperands))
		for i, raw := range rawOperands {
			sub, err := c.decodeBool(raw.(*dynamic.Message))
			if err != nil {
				return coredata.TDBool{}, err
			}
			operands[i] = sub
		}
		if tag == "and" {
			return coredata.BoolAnd(operands...), nil
		}
		return coredata.BoolOr(operands...), nil
	case "not":
		sub, err := c.decodeBool(msg.GetFieldByName("not_operand").(*dynamic.Message))
		if err != nil {
			return coredata.TDBool{}, err
		}
		return coredata.BoolNot(sub), nil
	case "compare":
		lhs, err := c.decodeGeneric(msg.GetFieldByName("compare_lhs").(*dynamic.Message))
		if err != nil {
			return coredata.TDBool{}, err
		}
		rhs, err := c.decodeGeneric(msg.GetFieldByName("compare_rhs").(*dynamic.Message))
		if err != nil {
			return coredata.TDBool{}, err
		}
		kind := coredata.CompareKind(msg.GetFieldByName("compare_kind").(string))
		return coredata.BoolCompare(kind, lhs, rhs), nil
	case "ref":
		ref, err := c.decodeRef(msg.GetFieldByName("ref").(*dynamic.Message))
		if err != nil {
			return coredata.TDBool{}, err
		}
		return coredata.BoolRef(ref), nil
	}
	return coredata.TDBool{}, herrors.New(herrors.KindUnknownOperatorInEvaluatorOperation, "unknown bool term tag %q", tag)
}

func (c *codec) decodeNumber(kind coredata.Type, msg *dynamic.Message) (coredata.TDNumber, error) {
	tag := msg.GetFieldByName("tag").(string)
	switch tag {
	case "value":
		if kind == coredata.TInt {
			return coredata.IntValue(msg.GetFieldByName("int_val").(int64)), nil
		}
		return coredata.FloatValue(msg.GetFieldByName("float_val").(float64)), nil
	case "minus":
		sub, err := c.decodeNumber(kind, msg.GetFieldByName("not_operand").(*dynamic.Message))
		if err != nil {
			return coredata.TDNumber{}, err
		}
		return coredata.NumMinus(kind, sub), nil
	case "factor", "add":
		rawOperands, _ := msg.GetFieldByName("operands").([]interface{})
		rawSigns, _ := msg.GetFieldByName("signs").([]interface{})
		if tag == "factor" {
			factors := make([]coredata.FactorTerm, len(rawOperands))
			for i, raw := range rawOperands {
				term, err := c.decodeNumber(kind, raw.(*dynamic.Message))
				if err != nil {
					return coredata.TDNumber{}, err
				}
				factors[i] = coredata.FactorTerm{Sign: coredata.FactorSign(rawSigns[i].(string)), Term: term}
			}
			return coredata.NumFactor(kind, factors...), nil
		}
		adds := make([]coredata.AddTerm, len(rawOperands))
		for i, raw := range rawOperands {
			term, err := c.decodeNumber(kind, raw.(*dynamic.Message))
			if err != nil {
				return coredata.TDNumber{}, err
			}
			adds[i] = coredata.AddTerm{Sign: coredata.AddSign(rawSigns[i].(string)), Term: term}
		}
		return coredata.NumAdd(kind, adds...), nil
	case "ref":
		ref, err := c.decodeRef(msg.GetFieldByName("ref").(*dynamic.Message))
		if err != nil {
			return coredata.TDNumber{}, err
		}
		return coredata.NumRef(kind, ref), nil
	}
	return coredata.TDNumber{}, herrors.New(herrors.KindUnknownOperatorInEvaluatorOperation, "unknown number term tag %q", tag)
}

func (c *codec) decodeString(msg *dynamic.Message) (coredata.TDString, error) {
	switch msg.GetFieldByName("tag").(string) {
	case "value":
		return coredata.StringValue(msg.GetFieldByName("string_val").(string)), nil
	case "ref":
		ref, err := c.decodeRef(msg.GetFieldByName("ref").(*dynamic.Message))
		if err != nil {
			return coredata.TDString{}, err
		}
		return coredata.StringRef(ref), nil
	}
	return coredata.TDString{}, herrors.New(herrors.KindUnknownOperatorInEvaluatorOperation, "unknown string term tag %q", msg.GetFieldByName("tag"))
}
