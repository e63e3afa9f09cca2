package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/vkngwrapper/contig/memory"
	"github.com/vkngwrapper/contig/memutils"
	"github.com/vkngwrapper/contig/memutils/metadata"
	"golang.org/x/exp/slog"
)

const prompt = "allocator> "

const helpText = `Commands:
  RQ <name> <size[K|M]> [f|b|w] - Request (first/best/worst)
  RL <name> - Release
  CMP | COMPACT - Compact memory
  STAT - Show segments
  SIZE <size[K|M]> - Reinitialize memory size
  X | EXIT - Exit
`

// shell turns command lines into address space operations and writes the results to out
type shell struct {
	space    *memory.AddressSpace
	out      io.Writer
	logger   *slog.Logger
	strategy metadata.PlacementStrategy
	json     bool
}

func newShell(out io.Writer, cfg config, logger *slog.Logger) *shell {
	var flags memory.CreateFlags
	if !cfg.MarkSegments {
		flags |= memory.CreateSkipSegmentMarks
	}

	return &shell{
		space: memory.New(cfg.Size, memory.CreateOptions{
			// The shell is the only caller
			Flags:  flags | memory.CreateExternallySynchronized,
			Logger: logger,
		}),
		out:      out,
		logger:   logger,
		strategy: cfg.Strategy,
		json:     jsonOut,
	}
}

// Run executes every line read from in until an exit command or the end of input. When interactive
// is set, a banner and a prompt before each line are written as well.
func (s *shell) Run(in io.Reader, interactive bool) error {
	if interactive {
		fmt.Fprintln(s.out, "Simple contiguous allocator. Type HELP for commands.")
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(s.out, prompt)
		}

		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if !interactive && strings.HasPrefix(line, "#") {
			continue
		}
		if !interactive && line != "" && verbose {
			fmt.Fprintf(s.out, "%s%s\n", prompt, line)
		}

		if s.Exec(line) {
			return nil
		}
	}

	return scanner.Err()
}

// Exec runs a single command line. It returns true when the line asks to exit.
func (s *shell) Exec(line string) (exit bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("command failed", slog.String("Line", line), slog.Any("panic", r))
			fmt.Fprintln(s.out, "WARNING: Error has occurred")
			exit = false
		}
	}()

	switch command := strings.ToUpper(fields[0]); command {
	case "HELP", "?":
		fmt.Fprint(s.out, helpText)
	case "X", "EXIT", "Q", "QUIT":
		return true
	case "SIZE":
		if len(fields) < 2 {
			fmt.Fprintln(s.out, "Usage: SIZE <size>")
			return false
		}
		s.resize(fields[1])
	case "RQ":
		if len(fields) < 3 {
			fmt.Fprintln(s.out, "Usage: RQ <name> <size> [f|b|w]")
			return false
		}
		tag := ""
		if len(fields) >= 4 {
			tag = fields[3]
		}
		s.request(fields[1], fields[2], tag)
	case "RL":
		if len(fields) < 2 {
			fmt.Fprintln(s.out, "Usage: RL <name>")
			return false
		}
		s.release(fields[1])
	case "CMP", "COMPACT":
		s.compact()
	case "STAT":
		s.stat()
	default:
		// A bare size is shorthand for SIZE
		if _, err := parseSize(fields[0]); err == nil {
			s.resize(fields[0])
			return false
		}
		fmt.Fprintln(s.out, "Unknown command. Type HELP.")
	}

	return false
}

func (s *shell) resize(token string) {
	size, err := parseSize(token)
	if err != nil {
		s.logger.Debug("invalid size", slog.Any("error", err))
		fmt.Fprintln(s.out, "Invalid size")
		return
	}

	s.space.Initialize(size)
	fmt.Fprintf(s.out, "-> Allocated %d\n", s.space.Size())
}

func (s *shell) request(name, sizeToken, tag string) {
	size, err := parseSize(sizeToken)
	if err != nil {
		s.logger.Debug("invalid size", slog.Any("error", err))
		fmt.Fprintln(s.out, "Invalid size")
		return
	}

	strategy := s.strategy
	if tag != "" {
		strategy = metadata.ParseStrategy(tag)
	}

	_, err = s.space.Request(name, size, strategy)
	switch memutils.ReasonOf(err) {
	case memutils.ReasonNone:
		fmt.Fprintf(s.out, "-> Allocated %d for [%s] successfully.\n", size, name)
	case memutils.ReasonZeroSize:
		fmt.Fprintln(s.out, "-> Occupation cancelled for size 0")
	case memutils.ReasonInvalidName:
		fmt.Fprintln(s.out, "-> Invalid process name")
	case memutils.ReasonDuplicateName:
		fmt.Fprintf(s.out, "-> Process name already exists: [%s]\n", name)
	case memutils.ReasonInsufficientSpace:
		fmt.Fprintf(s.out, "-> Not enough space available for [%s]\n", name)
	default:
		s.logger.Error("request failed", slog.String("Name", name), slog.Any("error", err))
		fmt.Fprintln(s.out, "WARNING: Error has occurred")
	}
}

func (s *shell) release(name string) {
	handle, ok := s.space.FindByName(name)
	if !ok {
		fmt.Fprintf(s.out, "-> No such process: %s\n", name)
		return
	}

	seg, _ := s.space.Segment(handle)
	s.space.Release(handle)
	fmt.Fprintf(s.out, "-> Released [%s]: %d\n", name, seg.Size)
}

func (s *shell) compact() {
	_, err := s.space.Compact()
	if err != nil {
		s.logger.Error("compaction failed", slog.Any("error", err))
		fmt.Fprintln(s.out, "WARNING: Error has occurred")
		return
	}

	fmt.Fprintln(s.out, "-> Successfully compacted memory")
}
