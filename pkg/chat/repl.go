package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/go-go-golems/fitcoach/pkg/pipeline"
	"github.com/go-go-golems/fitcoach/pkg/session"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	input "github.com/tcnksm/go-input"
)

const helpText = `Commands:
  /key [value]   set the API key (prompts with hidden input when no value is given)
  /info          show fitness centre hours and links
  /history       print the whole conversation
  /save <file>   save the conversation as .json or .yaml
  /help          show this help
  /quit          leave the chat`

const missingCredentialNotice = "Please enter your API key first (/key)."

// REPL is a line based chat front-end over a single session.
type REPL struct {
	pipeline *pipeline.Pipeline
	session  *session.Session
	provider string

	in       io.Reader
	reader   *bufio.Reader
	out      io.Writer
	renderer Renderer
	now      func() time.Time
}

type REPLOption func(*REPL)

func WithInput(in io.Reader) REPLOption {
	return func(r *REPL) {
		r.in = in
	}
}

func WithOutput(out io.Writer) REPLOption {
	return func(r *REPL) {
		r.out = out
	}
}

func WithRenderer(renderer Renderer) REPLOption {
	return func(r *REPL) {
		r.renderer = renderer
	}
}

// WithProvider sets the provider name shown in the header.
func WithProvider(provider string) REPLOption {
	return func(r *REPL) {
		r.provider = provider
	}
}

func WithClock(now func() time.Time) REPLOption {
	return func(r *REPL) {
		r.now = now
	}
}

func NewREPL(p *pipeline.Pipeline, s *session.Session, options ...REPLOption) *REPL {
	ret := &REPL{
		pipeline: p,
		session:  s,
		provider: p.EngineName(),
		in:       os.Stdin,
		out:      os.Stdout,
		renderer: PlainRenderer{},
		now:      time.Now,
	}
	for _, option := range options {
		option(ret)
	}
	ret.reader = bufio.NewReader(ret.in)
	return ret
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run prints the transcript and reads user lines until EOF, /quit or ctx is done.
func (r *REPL) Run(ctx context.Context) error {
	r.print(r.renderer.Render(Header(r.provider)))
	for turn := range r.session.All() {
		r.print(RenderTurn(r.renderer, turn))
	}
	if _, ok := r.session.Credential(); !ok {
		r.println(missingCredentialNotice)
	}

	defer func() {
		r.println("---")
		r.println(Disclaimer)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		fmt.Fprint(r.out, "> ")
		line, err := r.readLine()
		if errors.Is(err, io.EOF) {
			if strings.TrimSpace(line) == "" {
				r.println("")
				return nil
			}
		} else if err != nil {
			return errors.Wrap(err, "could not read input")
		}

		quit, cmdErr := r.handleLine(ctx, strings.TrimSpace(line))
		if cmdErr != nil {
			r.println("Error: " + cmdErr.Error())
		}
		if quit || errors.Is(err, io.EOF) {
			return nil
		}
	}
}

func (r *REPL) handleLine(ctx context.Context, line string) (bool, error) {
	if line == "" {
		return false, nil
	}
	if !strings.HasPrefix(line, "/") {
		return false, r.submit(ctx, line)
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		r.println(helpText)
	case "/info":
		r.print(r.renderer.Render(NewInfoPanel(r.now()).Markdown()))
	case "/history":
		for turn := range r.session.All() {
			r.println(turn.View())
		}
	case "/save":
		if arg == "" {
			return false, errors.New("usage: /save <file>")
		}
		if err := r.session.Transcript().SaveToFile(arg); err != nil {
			return false, err
		}
		r.println("Saved conversation to " + arg)
	case "/key":
		key := arg
		if key == "" {
			var err error
			key, err = r.askKey()
			if err != nil {
				return false, err
			}
		}
		r.session.SetCredential(strings.TrimSpace(key))
		if _, ok := r.session.Credential(); ok {
			r.println("API key set.")
		} else {
			r.println("API key cleared.")
		}
	default:
		return false, errors.Errorf("unknown command %s (try /help)", cmd)
	}
	return false, nil
}

func (r *REPL) submit(ctx context.Context, text string) error {
	reply, err := r.pipeline.Submit(ctx, r.session, text)
	if errors.Is(err, pipeline.ErrMissingCredential) {
		r.println(missingCredentialNotice)
		return nil
	}
	if err != nil {
		return err
	}
	if reply.Failed() {
		log.Debug().Err(reply.Err).Msg("assistant reply is an apology")
	}
	r.print(RenderTurn(r.renderer, lastTurn(r.session)))
	return nil
}

// askKey prompts for the API key. On a terminal the input is masked.
func (r *REPL) askKey() (string, error) {
	if f, ok := r.in.(*os.File); ok && IsTerminal(f) {
		ui := &input.UI{Writer: r.out, Reader: f}
		return ui.Ask("Enter API Key", &input.Options{
			Required:  true,
			Mask:      true,
			HideOrder: true,
			Loop:      true,
		})
	}
	fmt.Fprint(r.out, "Enter API Key: ")
	line, err := r.readLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (r *REPL) readLine() (string, error) {
	line, err := r.reader.ReadString('\n')
	return strings.TrimRight(line, "\r\n"), err
}

func (r *REPL) print(s string) {
	fmt.Fprint(r.out, s)
}

func (r *REPL) println(s string) {
	fmt.Fprintln(r.out, s)
}
