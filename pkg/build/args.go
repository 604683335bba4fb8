package build

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// ArgumentList accumulates the argument vector of a process.
type ArgumentList struct {
	args []string
}

func NewArgumentList(args ...string) *ArgumentList {
	return &ArgumentList{args: append([]string(nil), args...)}
}

// Add appends args verbatim.
func (a *ArgumentList) Add(args ...string) *ArgumentList {
	a.args = append(a.args, args...)
	return a
}

// AddTokenized splits s the way a POSIX shell would, keeping quoted groups
// together, and appends the resulting words. Nothing is appended when s
// fails to tokenize.
func (a *ArgumentList) AddTokenized(s string) error {
	words, err := shellquote.Split(s)
	if err != nil {
		return fmt.Errorf("failed to tokenize %q: %w", s, err)
	}
	a.args = append(a.args, words...)
	return nil
}

// Args returns a copy of the accumulated arguments.
func (a *ArgumentList) Args() []string {
	return append([]string(nil), a.args...)
}

// String renders the arguments as a POSIX shell command line.
func (a *ArgumentList) String() string {
	return shellquote.Join(a.args...)
}

// ToWindowsCommand wraps the arguments into a cmd.exe invocation that
// propagates the exit status of the command. The elements of the returned
// list are already quoted for the native command line.
func (a *ArgumentList) ToWindowsCommand() *ArgumentList {
	quoted := make([]string, len(a.args))
	for i, arg := range a.args {
		quoted[i] = quoteWindows(arg)
	}
	return NewArgumentList("cmd.exe", "/C", `"`+strings.Join(quoted, " ")+` && exit %%ERRORLEVEL%%"`)
}

// NativeCommandLine joins the arguments with single spaces, without any
// quoting.
func (a *ArgumentList) NativeCommandLine() string {
	return strings.Join(a.args, " ")
}

const windowsSpecial = " \t\"&|<>^()"

func quoteWindows(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, windowsSpecial) {
		return arg
	}
	return `"` + strings.ReplaceAll(arg, `"`, `""`) + `"`
}
