// file:htree/pkg/x_script/script.go

// Package x_script runs line-oriented operation scripts against a string
// hash-tree. One command per line, shell-style quoting, # starts a comment:
//
//	insert KEY VALUE [PARENT]
//	erase KEY
//	move KEY PARENT [POS]
//	set KEY VALUE
//	get KEY
//	children KEY
//	walk
//	dump
package x_script

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/shlex"
	"github.com/rs/zerolog"

	"github.com/rskv-p/htree/pkg/x_htree"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgs           = errors.New("wrong number of arguments")
)

// LineError reports the script line a command failed on.
type LineError struct {
	Line int
	Cmd  string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Cmd, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }

// Tree is the tree type scripts operate on.
type Tree = x_htree.Tree[string, string]

//---------------------
// Runner
//---------------------

// Runner applies commands to Tree and writes command output to Out.
type Runner struct {
	Tree *Tree
	Out  io.Writer
	Log  zerolog.Logger
}

// NewRunner creates a runner with a silent logger.
func NewRunner(t *Tree, out io.Writer) *Runner {
	return &Runner{Tree: t, Out: out, Log: zerolog.Nop()}
}

// Run executes every line of r and stops at the first failing command.
func (rn *Runner) Run(r io.Reader) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		args, err := shlex.Split(sc.Text())
		if err != nil {
			return &LineError{Line: line, Cmd: strings.TrimSpace(sc.Text()), Err: err}
		}
		if len(args) == 0 {
			continue
		}
		if err := rn.Exec(args); err != nil {
			return &LineError{Line: line, Cmd: args[0], Err: err}
		}
	}
	return sc.Err()
}

// Exec runs one tokenised command.
func (rn *Runner) Exec(args []string) error {
	cmd, args := strings.ToLower(args[0]), args[1:]
	rn.Log.Debug().Str("op", cmd).Strs("args", args).Msg("exec")

	switch cmd {
	case "insert":
		switch len(args) {
		case 2:
			return rn.Tree.Insert(args[0], args[1])
		case 3:
			return rn.Tree.InsertUnder(args[0], args[1], args[2])
		}
		return ErrArgs

	case "erase":
		if len(args) != 1 {
			return ErrArgs
		}
		n, err := rn.Tree.Erase(args[0])
		if err != nil {
			return err
		}
		rn.Log.Debug().Str("key", args[0]).Int("removed", n).Msg("erased")
		return nil

	case "move":
		switch len(args) {
		case 2:
			return rn.Tree.SetParent(args[0], args[1])
		case 3:
			pos, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("position %q: %w", args[2], err)
			}
			return rn.Tree.SetParentAt(args[0], args[1], pos)
		}
		return ErrArgs

	case "set":
		if len(args) != 2 {
			return ErrArgs
		}
		return rn.Tree.Set(args[0], args[1])

	case "get":
		if len(args) != 1 {
			return ErrArgs
		}
		v, err := rn.Tree.At(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(rn.Out, "%s = %s\n", args[0], v)
		return nil

	case "children":
		if len(args) != 1 {
			return ErrArgs
		}
		ch, err := rn.Tree.Children(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(rn.Out, strings.Join(ch, " "))
		return nil

	case "walk":
		if len(args) != 0 {
			return ErrArgs
		}
		for k, v := range rn.Tree.All() {
			fmt.Fprintf(rn.Out, "%s = %s\n", k, v)
		}
		return nil

	case "dump":
		if len(args) != 0 {
			return ErrArgs
		}
		rn.Tree.Dump(rn.Out)
		return nil
	}
	return ErrUnknownCommand
}
