//  Copyright (c) 2023 Uber Technologies, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package prover

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"net"
	"sync"

	"go.uber.org/thriftrw/protocol"
	"go.uber.org/thriftrw/wire"

	"github.com/Variable-Value/TJava/proof/kb"
)

// ThriftClient talks to a prover process that exposes a small Thrift
// RPC surface over a single bidirectional connection (the common case
// for provers embedded in a larger internal service, as opposed to the
// standalone-binary case SubprocessClient targets).
//
// Requests and responses are hand-encoded directly as
// go.uber.org/thriftrw/wire.Value structs and framed with
// protocol.Binary, rather than through thriftrw-generated code: no
// .thrift IDL ships with the proof pass, and thriftrw's wire/protocol
// packages are a first-class way to speak Thrift's binary wire format
// without one. Each request struct is:
//
//	1: required string method  ("assume" | "prove")
//	2: required string formula
//
// and each response struct is:
//
//	1: required string verdict ("true." | "false." | "unknown." | "limit." | "ok." | "error")
//	2: optional string detail
//
// Each struct is wrapped in Thrift's standard framed-transport envelope
// (a 4-byte big-endian length prefix around the binary-encoded payload)
// so a message's extent is known before protocol.Binary.Decode, which
// needs an io.ReaderAt over the whole payload, ever sees it.
type ThriftClient struct {
	mu   sync.Mutex
	conn net.Conn
}

// NewThriftClient wraps an already-established connection to the
// prover's RPC endpoint.
func NewThriftClient(conn net.Conn) *ThriftClient {
	return &ThriftClient{conn: conn}
}

// DialThriftClient connects to a prover RPC endpoint at addr over TCP.
func DialThriftClient(addr string) (*ThriftClient, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("prover: dial %s: %w", addr, err)
	}
	return NewThriftClient(conn), nil
}

// Close closes the underlying connection.
func (c *ThriftClient) Close() error {
	return c.conn.Close()
}

func (c *ThriftClient) call(method, formula string) (string, string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	req := wire.NewValueStruct(wire.Struct{Fields: []wire.Field{
		{ID: 1, Value: wire.NewValueString(method)},
		{ID: 2, Value: wire.NewValueString(formula)},
	}})

	var buf bytes.Buffer
	if err := protocol.Binary.Encode(req, &buf); err != nil {
		return "", "", fmt.Errorf("prover: encode request: %w", err)
	}
	if err := writeFrame(c.conn, buf.Bytes()); err != nil {
		return "", "", fmt.Errorf("prover: write request: %w", err)
	}

	payload, err := readFrame(c.conn)
	if err != nil {
		if err == io.EOF {
			return "", "", fmt.Errorf("prover: connection closed")
		}
		return "", "", fmt.Errorf("prover: read response: %w", err)
	}

	// protocol.Binary.Decode wants an io.ReaderAt over the whole
	// payload (it may seek back while unpacking variable-length
	// fields), not a streaming io.Reader -- readFrame's length prefix
	// is what makes bytes.NewReader's fixed extent correct here.
	resp, err := protocol.Binary.Decode(bytes.NewReader(payload), wire.TStruct)
	if err != nil {
		return "", "", fmt.Errorf("prover: decode response: %w", err)
	}

	var verdict, detail string
	for _, f := range resp.GetStruct().Fields {
		switch f.ID {
		case 1:
			verdict = f.Value.GetString()
		case 2:
			detail = f.Value.GetString()
		}
	}
	return verdict, detail, nil
}

// writeFrame writes payload prefixed with its big-endian uint32
// length, per Thrift's framed-transport convention.
func writeFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(payload)
	return err
}

// readFrame reads one length-prefixed frame from r.
func readFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	size := binary.BigEndian.Uint32(lenBuf[:])
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Assume implements kb.Prover.
func (c *ThriftClient) Assume(formula string) error {
	verdict, detail, err := c.call("assume", formula)
	if err != nil {
		return err
	}
	if verdict != "ok." {
		return fmt.Errorf("prover: rejected assumption %q: %s", formula, detail)
	}
	return nil
}

// Prove implements kb.Prover.
func (c *ThriftClient) Prove(formula string) (kb.Verdict, error) {
	verdict, _, err := c.call("prove", formula)
	if err != nil {
		return 0, err
	}
	return parseVerdictLine(verdict)
}

var _ kb.Prover = (*ThriftClient)(nil)
