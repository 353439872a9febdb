// Command balsacat frames a single HTTP/1.x message read from a file or
// stdin and prints the sequence of events a Visitor would have received,
// one per line. It exists as a manual inspection tool for the framer,
// grounded on the teacher's habit of shipping a thin cmd/ driver next to
// a library package rather than only a test suite.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/balsa-http/balsa"
	"github.com/balsa-http/balsa/balsapolicy"
	"github.com/balsa-http/balsa/status"
	"github.com/balsa-http/balsa/store"
	"github.com/balsa-http/balsa/visitor"
)

type traceVisitor struct {
	visitor.Nop
}

func (traceVisitor) OnRequestFirstLine(full, method, target, version string) {
	fmt.Printf("request_first_line method=%q target=%q version=%q\n", method, target, version)
}

func (traceVisitor) OnResponseFirstLine(full, version string, code int, reason string) {
	fmt.Printf("response_first_line version=%q code=%d reason=%q\n", version, code, reason)
}

func (traceVisitor) OnHeader(name, value string) {
	fmt.Printf("header %s: %s\n", name, value)
}

func (traceVisitor) HeaderDone() {
	fmt.Println("header_done")
}

func (traceVisitor) OnBodyChunkInput(chunk []byte) {
	fmt.Printf("body_chunk %d bytes\n", len(chunk))
}

func (traceVisitor) OnChunkLength(n uint64) {
	fmt.Printf("chunk_length %d\n", n)
}

func (traceVisitor) OnTrailerInput(raw []byte) {
	fmt.Printf("trailer_input %d bytes\n", len(raw))
}

func (traceVisitor) ContinueHeaderDone() {
	fmt.Println("continue_header_done")
}

func (traceVisitor) MessageDone() {
	fmt.Println("message_done")
}

func (traceVisitor) HandleWarning(code status.Code) {
	fmt.Printf("warning %s\n", code)
}

func (traceVisitor) HandleError(code status.Code) {
	fmt.Printf("error %s\n", code)
}

func main() {
	isResponse := flag.Bool("response", false, "frame the input as a response instead of a request")
	maxHeader := flag.Uint64("max-header", 0, "override max_header_length (0 keeps the default)")
	flag.Parse()

	var (
		data []byte
		err  error
	)

	if path := flag.Arg(0); path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = io.ReadAll(os.Stdin)
	}

	if err != nil {
		log.Fatalf("balsacat: reading input: %v", err)
	}

	policy := balsapolicy.Default()
	if *maxHeader != 0 {
		policy.Header.Maximal = *maxHeader
	}

	f := balsa.New(policy)
	f.SetIsRequest(!*isResponse)
	f.SetHeaderStore(store.New(4096, int(policy.Header.Maximal)))
	f.SetTrailerStore(store.New(1024, int(policy.Trailer.Maximal)))
	f.SetVisitor(traceVisitor{})

	consumed := f.ProcessInput(data)
	if consumed < len(data) && !f.IsError() {
		fmt.Printf("stopped after %d of %d bytes (state=%s)\n", consumed, len(data), f.ParseState())
	}

	if f.IsError() {
		fmt.Printf("halted: %s\n", f.ErrorCode())
		os.Exit(1)
	}
}
