// file:htree/pkg/x_htree/dump.go
package x_htree

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/rskv-p/htree/pkg/x_slot"
)

//---------------------
// Tree Dump (Debug)
//---------------------

var (
	dumpRootStyle = lipgloss.NewStyle().Bold(true)
	dumpEnumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8d8d8d"))
)

// Dump writes a visual representation of the tree to w.
func (t *Tree[K, V]) Dump(w io.Writer) {
	if t.root.IsNil() {
		fmt.Fprintln(w, "EMPTY")
		return
	}
	fmt.Fprintln(w, t.render(t.root).
		RootStyle(dumpRootStyle).
		EnumeratorStyle(dumpEnumStyle).
		String())
}

func (t *Tree[K, V]) render(id x_slot.ID) *tree.Tree {
	n := t.nodes.At(id)
	out := tree.Root(dumpLabel(n.key, n.value))
	for _, c := range n.children {
		if len(t.nodes.At(c).children) == 0 {
			cn := t.nodes.At(c)
			out.Child(dumpLabel(cn.key, cn.value))
			continue
		}
		out.Child(t.render(c))
	}
	return out
}

func dumpLabel(k, v any) string {
	return fmt.Sprintf("%v: %+v", k, v)
}
