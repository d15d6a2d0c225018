package traverse

import (
	"sort"
	"strings"

	"github.com/bblfsh/codemod/estree"
	"github.com/bblfsh/codemod/selector"
)

// ExitSuffix marks selectors that should be dispatched when leaving a node.
const ExitSuffix = ":exit"

type listener struct {
	event string // raw event name, including the exit suffix
	sel   *selector.Selector
}

func compareListeners(a, b *listener) int {
	if d := a.sel.AttributeCount() - b.sel.AttributeCount(); d != 0 {
		return d
	}
	if d := a.sel.IdentifierCount() - b.sel.IdentifierCount(); d != 0 {
		return d
	}
	if a.event <= b.event {
		return -1
	}
	return 1
}

type listenerSet struct {
	byType map[string][]*listener
	any    []*listener
}

func (s *listenerSet) add(l *listener) {
	types := l.sel.Types()
	if types == nil {
		s.any = append(s.any, l)
		return
	}
	for _, t := range types {
		s.byType[t] = append(s.byType[t], l)
	}
}

func (s *listenerSet) sort() {
	less := func(arr []*listener) func(i, j int) bool {
		return func(i, j int) bool { return compareListeners(arr[i], arr[j]) < 0 }
	}
	for _, arr := range s.byType {
		sort.SliceStable(arr, less(arr))
	}
	sort.SliceStable(s.any, less(s.any))
}

// NodeEventGenerator dispatches enter and exit events for nodes to the emitter, using event names
// as selectors. Events of more specific selectors are emitted later.
type NodeEventGenerator struct {
	emitter  *SafeEmitter
	ancestry []*estree.Node
	enter    listenerSet
	exit     listenerSet
}

// NewNodeEventGenerator parses all event names of the emitter as selectors. Names ending with
// ":exit" are dispatched when leaving nodes.
func NewNodeEventGenerator(e *SafeEmitter) (*NodeEventGenerator, error) {
	g := &NodeEventGenerator{
		emitter: e,
		enter:   listenerSet{byType: make(map[string][]*listener)},
		exit:    listenerSet{byType: make(map[string][]*listener)},
	}
	for _, name := range e.EventNames() {
		raw := name
		isExit := strings.HasSuffix(name, ExitSuffix)
		if isExit {
			raw = strings.TrimSuffix(name, ExitSuffix)
		}
		sel, err := selector.Parse(raw)
		if err != nil {
			return nil, err
		}
		l := &listener{event: name, sel: sel}
		if isExit {
			g.exit.add(l)
		} else {
			g.enter.add(l)
		}
	}
	g.enter.sort()
	g.exit.sort()
	return g, nil
}

// Ancestry returns ancestors of the current node, starting from the root.
func (g *NodeEventGenerator) Ancestry() []*estree.Node {
	return g.ancestry
}

// EnterNode emits events for entering the node, and makes it the parent of the following nodes.
func (g *NodeEventGenerator) EnterNode(n *estree.Node) error {
	err := g.apply(n, &g.enter)
	g.ancestry = append(g.ancestry, n)
	return err
}

// LeaveNode pops the node from the ancestry and emits events for leaving it.
func (g *NodeEventGenerator) LeaveNode(n *estree.Node) error {
	if l := len(g.ancestry); l != 0 && g.ancestry[l-1] == n {
		g.ancestry[l-1] = nil
		g.ancestry = g.ancestry[:l-1]
	}
	return g.apply(n, &g.exit)
}

func (g *NodeEventGenerator) apply(n *estree.Node, set *listenerSet) error {
	typed := set.byType[n.Type]
	untyped := set.any
	i, j := 0, 0
	for i < len(typed) || j < len(untyped) {
		var l *listener
		if i >= len(typed) || (j < len(untyped) && compareListeners(untyped[j], typed[i]) < 0) {
			l = untyped[j]
			j++
		} else {
			l = typed[i]
			i++
		}
		if l.sel.Match(n, g.ancestry) {
			if err := g.emitter.Emit(l.event, n); err != nil {
				return err
			}
		}
	}
	return nil
}
