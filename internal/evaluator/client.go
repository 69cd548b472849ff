package evaluator

import (
	"github.com/google/uuid"
	"github.com/jhump/protoreflect/desc"
	"github.com/jhump/protoreflect/dynamic"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/hibou-sem/hibou/internal/herrors"
)

// Client is the one shared connection to the external evaluator that
// spec §5 requires the core to serialise every call on: one per
// driver run, dialled once, closed once the run (and its trailing
// RunPostProcessor) completes.
type Client struct {
	conn    *grpc.ClientConn
	fd      *desc.FileDescriptor
	sd      *desc.ServiceDescriptor
	codec   *codec
	session string
}

// Dial connects to target (a gRPC address, e.g. "localhost:50051"),
// parses the embedded evaluator schema, and sends the initial
// Initialization RPC with a fresh session id — mirroring the teacher's
// builtinGrpcConnect + builtinGrpcLoadProto sequence, folded into one
// constructor since this adapter always talks to exactly one fixed
// service.
func Dial(target string) (*Client, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, herrors.Wrap(herrors.KindParsingSetup, err, "failed to dial evaluator at %s", target)
	}
	fd, err := loadSchema()
	if err != nil {
		conn.Close()
		return nil, err
	}
	sd := fd.FindService("hibou.evaluator.Evaluator")
	if sd == nil {
		conn.Close()
		return nil, herrors.New(herrors.KindParsingSetup, "embedded evaluator schema has no Evaluator service")
	}
	cd, err := newCodec(fd)
	if err != nil {
		conn.Close()
		return nil, err
	}
	c := &Client{conn: conn, fd: fd, sd: sd, codec: cd, session: uuid.NewString()}
	if err := c.Initialization(); err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error { return c.conn.Close() }

func (c *Client) method(name string) (*desc.MethodDescriptor, error) {
	md := c.sd.FindMethodByName(name)
	if md == nil {
		return nil, herrors.New(herrors.KindParsingSetup, "evaluator schema has no method %q", name)
	}
	return md, nil
}

func (c *Client) newRequest(md *desc.MethodDescriptor) *dynamic.Message {
	return dynamic.NewMessage(md.GetInputType())
}

func (c *Client) newResponse(md *desc.MethodDescriptor) *dynamic.Message {
	return dynamic.NewMessage(md.GetOutputType())
}

// methodPath is the "/package.Service/Method" form grpc.ClientConn.Invoke
// expects, matching the format the teacher's builtinGrpcInvoke builds
// by hand from a user-supplied "package.Service/Method" string.
func methodPath(serviceFullName, methodName string) string {
	return "/" + serviceFullName + "/" + methodName
}
