// Package shell drives a record store from a line-oriented command stream.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"person-registry/internal/audit"
	"person-registry/internal/registry"
	"person-registry/pkg/logger"

	"github.com/kballard/go-shellquote"
)

const (
	defaultPrompt = "> "
	maxLineBytes  = 64 * 1024
)

var (
	ErrUsage       = errors.New("usage")
	ErrLineTooLong = errors.New("line too long")
)

// Registry is the store surface the shell needs.
type Registry interface {
	Add(p registry.Person) error
	Remove() (registry.Person, error)
	FindByID(id int) (registry.Person, error)
	FindByUsername(userName string) (registry.Person, error)
	Count() int
	Capacity() int
	List() []registry.Person
}

// EventLister exposes recorded journal events.
type EventLister interface {
	Events() []audit.Event
}

type Options struct {
	// Journal records successful mutations. Optional.
	Journal *audit.Service
	// Events backs the "journal" command. Optional.
	Events EventLister
	// Logger defaults to the context logger.
	Logger *slog.Logger
	// Interactive prints a prompt before reading each line.
	Interactive bool
}

type Shell struct {
	store Registry
	opts  Options
}

func New(store Registry, opts Options) *Shell {
	return &Shell{store: store, opts: opts}
}

// Run executes commands from in until EOF, a quit command, or ctx is done.
// Command failures are reported on out and do not stop the loop.
// Lines longer than maxLineBytes are rejected with ErrLineTooLong.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan inputLine)
	errc := make(chan error, 1)
	go func() {
		defer close(lines)
		r := bufio.NewReader(in)
		for {
			line, err := readLine(r)
			if err != nil {
				if errors.Is(err, io.EOF) {
					err = nil
				}
				errc <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
	}()

	for {
		if s.opts.Interactive {
			fmt.Fprint(out, defaultPrompt)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return <-errc
			}
			if line.tooLong {
				fmt.Fprintf(out, "error: %v\n", ErrLineTooLong)
				s.logger(ctx).Warn("command rejected", "err", ErrLineTooLong, "limit", maxLineBytes)
				continue
			}
			if quit := s.Exec(ctx, line.text, out); quit {
				return nil
			}
		}
	}
}

type inputLine struct {
	text    string
	tooLong bool
}

// readLine returns the next line without its terminator. An oversized line
// is drained and returned with tooLong set; its content is dropped.
func readLine(r *bufio.Reader) (inputLine, error) {
	var line inputLine
	var buf []byte
	read := false
	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) && read {
				break
			}
			return inputLine{}, err
		}
		read = true
		if !line.tooLong {
			if len(buf)+len(chunk) > maxLineBytes {
				line.tooLong = true
				buf = nil
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			break
		}
	}
	line.text = string(buf)
	return line, nil
}

// Exec runs a single command line and reports whether the shell should stop.
func (s *Shell) Exec(ctx context.Context, line string, out io.Writer) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return false
	}

	log := s.logger(ctx)
	args, err := shellquote.Split(line)
	if err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		log.Warn("command parse failed", "err", err)
		return false
	}
	if len(args) == 0 {
		return false
	}

	name := args[0]
	switch name {
	case "quit", "exit":
		return true
	case "help":
		writeHelp(out)
		return false
	}

	if err := s.dispatch(ctx, name, args[1:], out); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
		log.Warn("command failed", "command", name, "err", err)
		return false
	}
	log.Debug("command", "command", name, "count", s.store.Count())
	return false
}

func (s *Shell) dispatch(ctx context.Context, name string, args []string, out io.Writer) error {
	switch name {
	case "add":
		return s.add(ctx, args, out)
	case "remove":
		if len(args) != 0 {
			return fmt.Errorf("%w: remove", ErrUsage)
		}
		p, err := s.store.Remove()
		if err != nil {
			return err
		}
		if s.opts.Journal != nil {
			if err := s.opts.Journal.LogRemoved(ctx, p.ID, p.UserName); err != nil {
				s.logger(ctx).Warn("journal append failed", "err", err)
			}
		}
		fmt.Fprintf(out, "removed %d %s\n", p.ID, p.UserName)
		return nil
	case "find-id":
		if len(args) != 1 {
			return fmt.Errorf("%w: find-id <id>", ErrUsage)
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		p, err := s.store.FindByID(id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p)
		return nil
	case "find-user":
		if len(args) != 1 {
			return fmt.Errorf("%w: find-user <username>", ErrUsage)
		}
		p, err := s.store.FindByUsername(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(out, p)
		return nil
	case "count":
		fmt.Fprintf(out, "%d/%d\n", s.store.Count(), s.store.Capacity())
		return nil
	case "list":
		for _, p := range s.store.List() {
			fmt.Fprintln(out, p)
		}
		return nil
	case "journal":
		if s.opts.Events == nil {
			return errors.New("journal not configured")
		}
		for _, e := range s.opts.Events.Events() {
			writeEvent(out, e)
		}
		return nil
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
}

func (s *Shell) add(ctx context.Context, args []string, out io.Writer) error {
	if len(args) < 2 || len(args) > 4 {
		return fmt.Errorf("%w: add <id> <username> [full name] [email]", ErrUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	p := registry.NewPerson(id, args[1])
	if len(args) > 2 {
		p.FullName = args[2]
	}
	if len(args) > 3 {
		p.Email = args[3]
	}

	if err := s.store.Add(p); err != nil {
		return err
	}
	if s.opts.Journal != nil {
		if err := s.opts.Journal.LogAdded(ctx, p.ID, p.UserName); err != nil {
			s.logger(ctx).Warn("journal append failed", "err", err)
		}
	}
	fmt.Fprintf(out, "added %d %s\n", p.ID, p.UserName)
	return nil
}

func (s *Shell) logger(ctx context.Context) *slog.Logger {
	if s.opts.Logger != nil {
		return s.opts.Logger
	}
	return logger.From(ctx)
}

func parseID(v string) (int, error) {
	id, err := strconv.Atoi(v)
	if errors.Is(err, strconv.ErrRange) {
		return 0, fmt.Errorf("%w: id %s", registry.ErrOutOfRange, v)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: id must be an integer, got %q", registry.ErrInvalidArgument, v)
	}
	return id, nil
}

func writeEvent(out io.Writer, e audit.Event) {
	ts := e.CreatedAt.Format(time.RFC3339)
	if e.Type == audit.EventTypeSeeded {
		fmt.Fprintf(out, "%s %s %s\n", ts, e.Type, e.Message)
		return
	}
	fmt.Fprintf(out, "%s %s %d %s\n", ts, e.Type, e.PersonID, e.UserName)
}

func writeHelp(out io.Writer) {
	fmt.Fprint(out, `commands:
  add <id> <username> [full name] [email]
  remove
  find-id <id>
  find-user <username>
  count
  list
  journal
  help
  quit
`)
}
