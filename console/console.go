// Package console is a line-oriented front-end over the editor's command and
// query surface. It reads commands with readline or from scripts.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"erd/editor"
	"erd/render"

	"github.com/chzyer/readline"
	"go.uber.org/zap"
)

// ErrQuit is returned by Execute when the user asks to leave.
var ErrQuit = errors.New("quit requested")

// Console executes text commands against an Editor.
type Console struct {
	editor   *editor.Editor
	renderer *render.Renderer
	out      io.Writer
	logger   *zap.Logger

	// Size of the canvas printed by "show".
	Width, Height int
}

// New creates a console writing its output to out.
func New(ed *editor.Editor, renderer *render.Renderer, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	if renderer == nil {
		renderer = render.New(render.DefaultOptions())
	}
	return &Console{
		editor:   ed,
		renderer: renderer,
		out:      out,
		logger:   logger,
		Width:    100,
		Height:   30,
	}
}

// NewReadline builds a readline instance with command completion.
func NewReadline(historyFile string) (*readline.Instance, error) {
	return readline.NewEx(&readline.Config{
		Prompt:          "erd> ",
		HistoryFile:     historyFile,
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "quit",
	})
}

var completer = readline.NewPrefixCompleter(
	readline.PcItem("add", readline.PcItem("entity"), readline.PcItem("note")),
	readline.PcItem("rel", readline.PcItem("id"), readline.PcItem("nonid")),
	readline.PcItem("rm", readline.PcItem("node"), readline.PcItem("rel")),
	readline.PcItem("mv"),
	readline.PcItem("rename"),
	readline.PcItem("attr"),
	readline.PcItem("card"),
	readline.PcItem("select", readline.PcItem("none")),
	readline.PcItem("tool",
		readline.PcItem("select"), readline.PcItem("entity"), readline.PcItem("note"),
		readline.PcItem("identifying"), readline.PcItem("non-identifying")),
	readline.PcItem("click"),
	readline.PcItem("undo"),
	readline.PcItem("redo"),
	readline.PcItem("zoom", readline.PcItem("in"), readline.PcItem("out"), readline.PcItem("reset")),
	readline.PcItem("pan"),
	readline.PcItem("ls"),
	readline.PcItem("show"),
	readline.PcItem("status"),
	readline.PcItem("apply"),
	readline.PcItem("help"),
	readline.PcItem("quit"),
)

// Prompt returns the prompt for the current tool.
func (c *Console) Prompt() string {
	return fmt.Sprintf("erd [%s]> ", strings.ToLower(c.editor.Tool().String()))
}

// Run reads and executes lines until EOF or quit.
func (c *Console) Run(rl *readline.Instance) error {
	fmt.Fprintln(c.out, "erd console. Type 'help' for the list of commands.")
	rl.SetPrompt(c.Prompt())
	for {
		line, err := rl.Readline()
		switch {
		case errors.Is(err, readline.ErrInterrupt):
			fmt.Fprintln(c.out, "Use 'quit' to exit.")
			continue
		case errors.Is(err, io.EOF):
			return nil
		case err != nil:
			return fmt.Errorf("failed to read input: %w", err)
		}

		if err := c.ExecuteLine(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			fmt.Fprintf(c.out, "Error: %v\n", err)
		}
		rl.SetPrompt(c.Prompt())
	}
}

// RunScript executes every non-blank line of r that is not a '#' comment.
// It stops at the first failing line.
func (c *Console) RunScript(r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for sc.Scan() {
		n++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := c.ExecuteLine(line); err != nil {
			if errors.Is(err, ErrQuit) {
				return nil
			}
			return fmt.Errorf("line %d: %w", n, err)
		}
	}
	return sc.Err()
}

// ExecuteLine parses and runs one command line. "apply" receives the raw
// remainder of the line so JSON quoting survives.
func (c *Console) ExecuteLine(line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if rest, ok := strings.CutPrefix(line, "apply"); ok && (rest == "" || rest[0] == ' ' || rest[0] == '\t') {
		return c.handleApply(strings.TrimSpace(rest))
	}
	return c.Execute(ParseArgs(line))
}

// ParseArgs splits input on whitespace, keeping double-quoted runs together.
func ParseArgs(input string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	for _, char := range input {
		switch {
		case char == '"':
			inQuotes = !inQuotes
			quoted = true
		case (char == ' ' || char == '\t') && !inQuotes:
			if current.Len() > 0 || quoted {
				args = append(args, current.String())
				current.Reset()
				quoted = false
			}
		default:
			current.WriteRune(char)
		}
	}
	if current.Len() > 0 || quoted {
		args = append(args, current.String())
	}
	return args
}

// Execute runs one parsed command.
func (c *Console) Execute(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("no command provided")
	}
	c.logger.Debug("console command", zap.Strings("args", args))

	switch strings.ToLower(args[0]) {
	case "add":
		return c.handleAdd(args[1:])
	case "rel":
		return c.handleRelationship(args[1:])
	case "rm", "del":
		return c.handleRemove(args[1:])
	case "mv", "move":
		return c.handleMove(args[1:])
	case "rename":
		return c.handleRename(args[1:])
	case "attr":
		return c.handleAttribute(args[1:])
	case "card":
		return c.handleCardinality(args[1:])
	case "select":
		return c.handleSelect(args[1:])
	case "tool":
		return c.handleTool(args[1:])
	case "click":
		return c.handleClick(args[1:])
	case "undo":
		if !c.editor.Undo() {
			return fmt.Errorf("nothing to undo")
		}
		return nil
	case "redo":
		if !c.editor.Redo() {
			return fmt.Errorf("nothing to redo")
		}
		return nil
	case "zoom":
		return c.handleZoom(args[1:])
	case "pan":
		return c.handlePan(args[1:])
	case "ls", "list":
		c.handleList()
		return nil
	case "show":
		c.handleShow()
		return nil
	case "status":
		c.handleStatus()
		return nil
	case "apply":
		return c.handleApply(strings.Join(args[1:], " "))
	case "help":
		c.printHelp(args[1:])
		return nil
	case "quit", "exit":
		return ErrQuit
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}
}
