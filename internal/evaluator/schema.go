// Package evaluator implements the adapter of spec §4.6 (component
// C5): it turns an action firing into the external evaluator's RPC
// contract (§6), dialling over gRPC and invoking the service
// *dynamically* against an embedded `.proto` schema — the same
// protoreflect/desc/protoparse + dynamic.Message pattern the teacher
// uses for its own grpcInvoke builtin, so no compiled `.pb.go` stub
// for the evaluator ever exists in this tree (spec §1: "only its RPC
// contract is described").
package evaluator

import (
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/desc/protoparse"

	"github.com/hibou-sem/hibou/internal/herrors"
)

// schemaFile is the filename protoparse.Accessor serves the embedded
// source under; it never touches disk.
const schemaFile = "hibou_evaluator.proto"

// schemaSource is the wire contract of spec §6's "External evaluator
// RPC": one recursive `Term` message encodes the closed TD_Generic /
// TD_Bool / TD_Number / TD_String algebra of spec §3 (a `type` +
// `tag` discriminant pair, mirroring the Go tagged-union encoding of
// `internal/coredata`), so every data term — ground or still carrying
// Var/Symbol/MsgParam references — can cross the wire unevaluated and
// let the evaluator itself do substitution and sat-checking.
const schemaSource = `
syntax = "proto3";
package hibou.evaluator;

message VarRef {
  string kind = 1; // "var" | "symbol" | "msgparam"
  int32 var_id = 2;
  int32 symbol_id = 3;
  int32 ms_id = 4;
  int32 pr_id = 5;
}

message Term {
  string type = 1;  // "bool" | "int" | "float" | "string"
  string tag = 2;   // "true","false","and","or","not","compare","ref","value","minus","factor","add"
  repeated Term operands = 3;
  repeated string signs = 4;
  Term not_operand = 5;
  string compare_kind = 6;
  Term compare_lhs = 7;
  Term compare_rhs = 8;
  int64 int_val = 9;
  double float_val = 10;
  string string_val = 11;
  VarRef ref = 12;
}

message ValueOrFresh {
  bool is_fresh = 1;
  Term value = 2;
}

message Binding {
  string var_fqn = 1;
  ValueOrFresh value = 2;
}

message InitializationRequest { string session = 1; }
message InitializationResponse {}

message ModelParseTextRequest { string text = 1; }
message ModelParseTextResponse {}

message EvalInitRequest { repeated Binding bindings = 1; }
message EvalInitResponse { string state_id = 1; }

message CreatedSymbol { string fqn = 1; string type = 2; }

message EvalRunnableRequest {
  string state_id = 1;
  string runnable_fqn = 2;
  repeated Binding bindings = 3;
}

message EvalRunnableResponse {
  string state_id = 1;
  bool satisfiable = 2;
  repeated CreatedSymbol created_symbols = 3;
  Term path_condition = 4;
  Term other_condition = 5;
}

message QueryValueRequest {
  string state_id = 1;
  string var_fqn = 2;
}
message QueryValueResponse { Term value = 1; }

message RunPostProcessorRequest { repeated string flags = 1; }
message RunPostProcessorResponse {}

service Evaluator {
  rpc Initialization(InitializationRequest) returns (InitializationResponse);
  rpc ModelParseText(ModelParseTextRequest) returns (ModelParseTextResponse);
  rpc EvalInit(EvalInitRequest) returns (EvalInitResponse);
  rpc EvalRunnable(EvalRunnableRequest) returns (EvalRunnableResponse);
  rpc QueryValue(QueryValueRequest) returns (QueryValueResponse);
  rpc RunPostProcessor(RunPostProcessorRequest) returns (RunPostProcessorResponse);
}
`

// loadSchema parses schemaSource in-memory (no filesystem access) and
// returns its file descriptor, mirroring the teacher's
// `protoparse.Parser{}.ParseFiles` call in builtins_grpc.go, but
// sourcing the proto text from this binary instead of a user path.
func loadSchema() (*desc.FileDescriptor, error) {
	parser := protoparse.Parser{
		Accessor: protoparse.FileContentsFromMap(map[string]string{schemaFile: schemaSource}),
	}
	fds, err := parser.ParseFiles(schemaFile)
	if err != nil {
		return nil, herrors.Wrap(herrors.KindParsingSetup, err, "failed to parse embedded evaluator schema")
	}
	return fds[0], nil
}
