// Package session implements the interactive request screen: an event loop
// that edits form state from line commands and sends it in the background.
package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"

	"github.com/abdul-hamid-achik/getman/packages/executor"
	"github.com/abdul-hamid-achik/getman/packages/http"
)

// ErrInFlight is reported when send is issued while a request is running.
var ErrInFlight = errors.New("request already in flight")

const helpText = `Commands:
  url <url>              set the request URL
  method <method>        set the method (GET, POST, PUT, DELETE, PATCH)
  header <Key: Value>    append a header line
  headers clear          remove all header lines
  body <text>            replace the body
  body+ <text>           append a line to the body
  body clear             remove the body
  load headers <file>    replace the header block with a file's contents
  load body <file>       replace the body with a file's contents
  send                   send the request in the background
  cancel                 cancel the request in flight
  show                   print the current form
  response               print the last response
  help                   print this help
  quit                   leave
`

// Session holds the screen state. It is owned by the goroutine running Run.
type Session struct {
	form     executor.Form
	response string

	exec    *executor.Executor
	out     io.Writer
	prompt  string
	logger  zerolog.Logger
	pending *executor.Pending
}

type Option func(*Session)

// WithForm sets the initial form contents.
func WithForm(form executor.Form) Option {
	return func(s *Session) {
		s.form = form
	}
}

// WithPrompt sets the text printed before each command. Empty disables it.
func WithPrompt(prompt string) Option {
	return func(s *Session) {
		s.prompt = prompt
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

func New(exec *executor.Executor, out io.Writer, opts ...Option) *Session {
	s := &Session{
		form:   executor.Form{Method: "GET", URL: "https://httpbin.org/get"},
		exec:   exec,
		out:    out,
		prompt: "getman> ",
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Form returns the current form contents.
func (s *Session) Form() executor.Form {
	return s.form
}

// Response returns the text of the last completed send.
func (s *Session) Response() string {
	return s.response
}

// Run reads commands from in until quit, end of input or ctx ends. Input
// is read on a separate goroutine so completions are handled while the user
// types. At end of input a request still in flight is waited for.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	lines := make(chan string)
	readErr := make(chan error, 1)

	readCtx, stopReading := context.WithCancel(ctx)
	defer stopReading()

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 64*1024), 1024*1024)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-readCtx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	s.showPrompt()

	for {
		select {
		case <-ctx.Done():
			s.cancelPending()
			return ctx.Err()

		case <-s.doneCh():
			s.complete()
			s.showPrompt()

		case line, ok := <-lines:
			if !ok {
				s.drain(ctx)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			if quit := s.handle(ctx, line); quit {
				s.cancelPending()
				return nil
			}
			if s.pending == nil {
				s.showPrompt()
			}
		}
	}
}

// doneCh is nil, and so never ready, when nothing is in flight.
func (s *Session) doneCh() <-chan struct{} {
	if s.pending == nil {
		return nil
	}
	return s.pending.Done()
}

func (s *Session) complete() {
	p := s.pending
	s.pending = nil
	s.response = p.Text()
	s.logger.Debug().Str("request_id", p.ID.String()).Msg("response displayed")
	fmt.Fprintln(s.out, s.response)
}

func (s *Session) drain(ctx context.Context) {
	if s.pending == nil {
		return
	}
	select {
	case <-s.pending.Done():
		s.complete()
	case <-ctx.Done():
		s.cancelPending()
	}
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Cancel()
	}
}

func (s *Session) showPrompt() {
	if s.prompt != "" {
		fmt.Fprint(s.out, s.prompt)
	}
}

// Send submits the current form. Only one request may be in flight.
func (s *Session) Send(ctx context.Context) error {
	if s.pending != nil {
		return ErrInFlight
	}
	s.pending = s.exec.Submit(ctx, s.form.Spec())
	fmt.Fprintf(s.out, "Sending %s %s ...\n", s.form.Method, s.form.URL)
	return nil
}

func (s *Session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "quit", "exit":
		return true

	case "help", "?":
		fmt.Fprint(s.out, helpText)

	case "url":
		s.form.URL = arg
		if err := http.ValidateURL(arg); err != nil {
			fmt.Fprintf(s.out, "warning: %v\n", err)
		}

	case "method":
		// Validation happens on send, like the executor does.
		s.form.Method = strings.ToUpper(arg)

	case "header":
		if arg == "clear" {
			s.form.Headers = ""
			break
		}
		s.form.Headers = appendLine(s.form.Headers, arg)

	case "headers":
		if arg == "clear" {
			s.form.Headers = ""
			break
		}
		fmt.Fprint(s.out, s.form.Headers)

	case "body":
		if arg == "clear" {
			s.form.Body = ""
			break
		}
		s.form.Body = arg

	case "body+":
		s.form.Body = appendLine(s.form.Body, arg)

	case "load":
		s.load(arg)

	case "send":
		if err := s.Send(ctx); err != nil {
			fmt.Fprintln(s.out, err)
		}

	case "cancel":
		if s.pending == nil {
			fmt.Fprintln(s.out, "nothing to cancel")
			break
		}
		s.pending.Cancel()

	case "show":
		s.show()

	case "response":
		fmt.Fprintln(s.out, s.response)

	default:
		fmt.Fprintf(s.out, "unknown command %q (type help)\n", cmd)
	}

	return false
}

func (s *Session) load(arg string) {
	target, path, _ := strings.Cut(arg, " ")
	path = strings.TrimSpace(path)
	if path == "" {
		fmt.Fprintln(s.out, "usage: load headers|body <file>")
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(s.out, "load failed: %v\n", err)
		return
	}

	switch target {
	case "headers":
		s.form.Headers = string(data)
	case "body":
		s.form.Body = string(data)
	default:
		fmt.Fprintln(s.out, "usage: load headers|body <file>")
	}
}

func (s *Session) show() {
	fmt.Fprintf(s.out, "URL:    %s\n", s.form.URL)
	fmt.Fprintf(s.out, "Method: %s\n", s.form.Method)
	fmt.Fprintf(s.out, "Headers (Key: Value, one per line):\n%s", s.form.Headers)
	if s.form.Headers != "" && !strings.HasSuffix(s.form.Headers, "\n") {
		fmt.Fprintln(s.out)
	}
	fmt.Fprintf(s.out, "Body (optional):\n%s\n", s.form.Body)
}

func appendLine(block, line string) string {
	if block == "" {
		return line
	}
	return strings.TrimRight(block, "\n") + "\n" + line
}
