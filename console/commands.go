package console

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"erd/diagram"
	"erd/editor"
	"erd/render"
)

var commandHelp = map[string]string{
	"add":    "add entity|note X Y [name]        place a node at world X,Y",
	"rel":    "rel id|nonid SRC TGT [card card] [name]  connect two entities",
	"rm":     "rm node|rel REF                    remove a node or relationship",
	"mv":     "mv REF X Y                         move a node",
	"rename": "rename REF NAME                    rename a node or relationship",
	"attr":   "attr REF NAME [TYPE] [pk fk req unique]  append an attribute",
	"card":   "card REL SRC TGT                   set both cardinalities",
	"select": "select REF|none                    select a node or relationship",
	"tool":   "tool select|entity|note|identifying|non-identifying",
	"click":  "click X Y                          click at screen X,Y with the current tool",
	"undo":   "undo                               undo the last edit",
	"redo":   "redo                               redo the last undone edit",
	"zoom":   "zoom in|out|reset                  change the view zoom",
	"pan":    "pan DX DY                          pan the view by screen units",
	"ls":     "ls                                 list nodes and relationships",
	"show":   "show                               draw the diagram",
	"status": "status                             tool, counts, zoom, history",
	"apply":  "apply JSON                         apply one command or a batch",
	"help":   "help [command]                     show help",
	"quit":   "quit                               leave the console",
}

func (c *Console) printHelp(args []string) {
	if len(args) > 0 {
		if h, ok := commandHelp[strings.ToLower(args[0])]; ok {
			fmt.Fprintln(c.out, h)
			return
		}
		fmt.Fprintf(c.out, "No help for %q\n", args[0])
		return
	}
	names := make([]string, 0, len(commandHelp))
	for name := range commandHelp {
		names = append(names, name)
	}
	slices.Sort(names)
	fmt.Fprintln(c.out, "Commands:")
	for _, name := range names {
		fmt.Fprintf(c.out, "  %s\n", commandHelp[name])
	}
	fmt.Fprintln(c.out, "REF is #N from 'ls', an id, a unique id prefix or a unique name.")
}

func usage(cmd string) error {
	return fmt.Errorf("usage: %s", commandHelp[cmd])
}

func parsePoint(xs, ys string) (diagram.Point, error) {
	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return diagram.Point{}, fmt.Errorf("invalid x %q", xs)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return diagram.Point{}, fmt.Errorf("invalid y %q", ys)
	}
	p := diagram.Point{X: x, Y: y}
	if !p.IsFinite() {
		return diagram.Point{}, fmt.Errorf("coordinates must be finite: %s %s", xs, ys)
	}
	return p, nil
}

func (c *Console) handleAdd(args []string) error {
	if len(args) < 3 {
		return usage("add")
	}
	var kind diagram.NodeKind
	if err := kind.UnmarshalText([]byte(strings.ToLower(args[0]))); err != nil {
		return err
	}
	pos, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}

	content := c.editor.DefaultContent(kind)
	cmd := editor.AddNode{
		Kind:       kind,
		Name:       content.Name,
		Position:   pos,
		Attributes: content.Attributes,
		Text:       content.Text,
	}
	if len(args) > 3 {
		cmd.Name = strings.Join(args[3:], " ")
	}

	id, err := c.editor.Apply(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Added %s %s (%s)\n", kind, cmd.Name, id)
	return nil
}

func parseRelationshipKind(s string) (diagram.RelationshipKind, error) {
	switch strings.ToLower(s) {
	case "id", "identifying":
		return diagram.Identifying, nil
	case "nonid", "non-identifying", "nonidentifying":
		return diagram.NonIdentifying, nil
	}
	return 0, fmt.Errorf("unknown relationship kind %q", s)
}

func (c *Console) handleRelationship(args []string) error {
	if len(args) < 3 {
		return usage("rel")
	}
	kind, err := parseRelationshipKind(args[0])
	if err != nil {
		return err
	}
	src, err := c.resolveNode(args[1])
	if err != nil {
		return err
	}
	tgt, err := c.resolveNode(args[2])
	if err != nil {
		return err
	}

	cmd := editor.AddRelationship{Kind: kind, SourceNodeID: src.ID, TargetNodeID: tgt.ID}
	rest := args[3:]
	if len(rest) >= 2 {
		sc, errS := diagram.ParseCardinality(rest[0])
		tc, errT := diagram.ParseCardinality(rest[1])
		if errS == nil && errT == nil {
			cmd.SourceCardinality, cmd.TargetCardinality = sc, tc
			rest = rest[2:]
		}
	}
	cmd.Name = strings.Join(rest, " ")

	id, err := c.editor.Apply(cmd)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Connected %s -> %s (%s)\n", src.Name, tgt.Name, id)
	return nil
}

func (c *Console) handleRemove(args []string) error {
	if len(args) != 2 {
		return usage("rm")
	}
	switch strings.ToLower(args[0]) {
	case "node":
		n, err := c.resolveNode(args[1])
		if err != nil {
			return err
		}
		if _, err := c.editor.Apply(editor.RemoveNode{ID: n.ID}); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Removed %s\n", n.Name)
	case "rel":
		r, err := c.resolveRelationship(args[1])
		if err != nil {
			return err
		}
		if _, err := c.editor.Apply(editor.RemoveRelationship{ID: r.ID}); err != nil {
			return err
		}
		fmt.Fprintf(c.out, "Removed relationship %s\n", r.ID)
	default:
		return usage("rm")
	}
	return nil
}

func (c *Console) handleMove(args []string) error {
	if len(args) != 3 {
		return usage("mv")
	}
	n, err := c.resolveNode(args[0])
	if err != nil {
		return err
	}
	pos, err := parsePoint(args[1], args[2])
	if err != nil {
		return err
	}
	_, err = c.editor.Apply(editor.UpdateNode{ID: n.ID, Position: &pos})
	return err
}

// handleRename renames a node, or a relationship when no node matches.
func (c *Console) handleRename(args []string) error {
	if len(args) < 2 {
		return usage("rename")
	}
	name := strings.Join(args[1:], " ")
	if n, err := c.resolveNode(args[0]); err == nil {
		_, err = c.editor.Apply(editor.UpdateNode{ID: n.ID, Name: &name})
		return err
	}
	r, err := c.resolveRelationship(args[0])
	if err != nil {
		return err
	}
	_, err = c.editor.Apply(editor.UpdateRelationship{ID: r.ID, Name: &name})
	return err
}

func (c *Console) handleAttribute(args []string) error {
	if len(args) < 2 {
		return usage("attr")
	}
	n, err := c.resolveNode(args[0])
	if err != nil {
		return err
	}
	if n.Kind != diagram.KindEntity {
		return fmt.Errorf("%s is not an entity", n.Name)
	}

	attr := diagram.Attribute{Name: args[1]}
	for i, arg := range args[2:] {
		switch strings.ToLower(arg) {
		case "pk":
			attr.PrimaryKey, attr.Required = true, true
		case "fk":
			attr.ForeignKey = true
		case "req", "required":
			attr.Required = true
		case "unique", "uq":
			attr.Unique = true
		default:
			if i != 0 {
				return fmt.Errorf("unknown attribute flag %q", arg)
			}
			attr.Type = arg
		}
	}

	attrs := append(slices.Clone(n.Attributes), attr)
	_, err = c.editor.Apply(editor.UpdateNode{ID: n.ID, Attributes: &attrs})
	return err
}

func (c *Console) handleCardinality(args []string) error {
	if len(args) != 3 {
		return usage("card")
	}
	r, err := c.resolveRelationship(args[0])
	if err != nil {
		return err
	}
	sc, err := diagram.ParseCardinality(args[1])
	if err != nil {
		return err
	}
	tc, err := diagram.ParseCardinality(args[2])
	if err != nil {
		return err
	}
	_, err = c.editor.Apply(editor.UpdateRelationship{ID: r.ID, SourceCardinality: &sc, TargetCardinality: &tc})
	return err
}

func (c *Console) handleSelect(args []string) error {
	if len(args) != 1 {
		return usage("select")
	}
	if strings.EqualFold(args[0], "none") {
		_, err := c.editor.Apply(editor.SetSelection{})
		return err
	}
	if n, err := c.resolveNode(args[0]); err == nil {
		_, err = c.editor.Apply(editor.SetSelection{NodeID: n.ID})
		return err
	}
	r, err := c.resolveRelationship(args[0])
	if err != nil {
		return err
	}
	_, err = c.editor.Apply(editor.SetSelection{RelationshipID: r.ID})
	return err
}

func (c *Console) handleTool(args []string) error {
	if len(args) != 1 {
		return usage("tool")
	}
	tool, err := editor.ParseTool(args[0])
	if err != nil {
		return err
	}
	c.editor.SetTool(tool)
	return nil
}

func (c *Console) handleClick(args []string) error {
	if len(args) != 2 {
		return usage("click")
	}
	p, err := parsePoint(args[0], args[1])
	if err != nil {
		return err
	}
	c.editor.Click(p)
	return nil
}

func (c *Console) handleZoom(args []string) error {
	if len(args) != 1 {
		return usage("zoom")
	}
	switch strings.ToLower(args[0]) {
	case "in", "+":
		c.editor.ZoomIn()
	case "out", "-":
		c.editor.ZoomOut()
	case "reset", "0":
		c.editor.View().Reset()
	default:
		return usage("zoom")
	}
	fmt.Fprintf(c.out, "Zoom: %.0f%%\n", c.editor.View().Zoom()*100)
	return nil
}

func (c *Console) handlePan(args []string) error {
	if len(args) != 2 {
		return usage("pan")
	}
	d, err := parsePoint(args[0], args[1])
	if err != nil {
		return err
	}
	c.editor.PanBy(d)
	return nil
}

func (c *Console) handleList() {
	m := c.editor.Model()
	sel := m.Selection()
	nodes := m.Nodes()
	if len(nodes) == 0 {
		fmt.Fprintln(c.out, "No nodes.")
	}
	for i, n := range nodes {
		mark := " "
		if n.ID == sel.NodeID {
			mark = "*"
		}
		fmt.Fprintf(c.out, "%s#%d %-10s %-20s (%g, %g) %s\n", mark, i+1, n.Kind, n.Name, n.Position.X, n.Position.Y, n.ID)
		for _, a := range n.Attributes {
			fmt.Fprintf(c.out, "      %s\n", render.FormatAttribute(a))
		}
	}
	for i, r := range m.Relationships() {
		mark := " "
		if r.ID == sel.RelationshipID {
			mark = "*"
		}
		fmt.Fprintf(c.out, "%s#%d %-15s %s [%s] -> [%s] %s %q %s\n", mark, i+1, r.Kind,
			c.nodeName(r.SourceNodeID), r.SourceCardinality, r.TargetCardinality,
			c.nodeName(r.TargetNodeID), r.Name, r.ID)
	}
}

func (c *Console) nodeName(id string) string {
	if n, ok := c.editor.Model().Node(id); ok && n.Name != "" {
		return n.Name
	}
	return id
}

func (c *Console) handleShow() {
	canvas := render.NewCanvas(c.Width, c.Height)
	m := c.editor.Model()
	c.renderer.Render(canvas, m.Snapshot(), c.editor.View(), render.State{
		Selection:     m.Selection(),
		PendingSource: c.editor.PendingSource(),
	})
	for _, line := range canvas.Lines() {
		fmt.Fprintln(c.out, strings.TrimRight(line, " "))
	}
}

func (c *Console) handleStatus() {
	m := c.editor.Model()
	cur, total := c.editor.HistoryStats()
	fmt.Fprintf(c.out, "Tool: %s\nNodes: %d\nRelationships: %d\nZoom: %.0f%%\nHistory: %d/%d\n",
		c.editor.Tool(), m.NodeCount(), m.RelationshipCount(), c.editor.View().Zoom()*100, cur, total)
	if id := c.editor.PendingSource(); id != "" {
		fmt.Fprintf(c.out, "Connecting from: %s\n", c.nodeName(id))
	}
}

func (c *Console) handleApply(payload string) error {
	if payload == "" {
		return usage("apply")
	}
	cmds, err := editor.DecodeCommands([]byte(payload))
	if err != nil {
		return err
	}
	ids, err := c.editor.ApplyBatch(cmds)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Applied %d command(s): %s\n", len(cmds), strings.Join(ids, " "))
	return nil
}

// resolveNode finds a node by "#N", exact id, unique case-insensitive name
// or unique id prefix, in that order.
func (c *Console) resolveNode(ref string) (diagram.Node, error) {
	nodes := c.editor.Model().Nodes()
	i, err := resolve(ref, len(nodes), func(i int) (string, string) { return nodes[i].ID, nodes[i].Name })
	if err != nil {
		return diagram.Node{}, fmt.Errorf("node %w", err)
	}
	return nodes[i], nil
}

func (c *Console) resolveRelationship(ref string) (diagram.Relationship, error) {
	rels := c.editor.Model().Relationships()
	i, err := resolve(ref, len(rels), func(i int) (string, string) { return rels[i].ID, rels[i].Name })
	if err != nil {
		return diagram.Relationship{}, fmt.Errorf("relationship %w", err)
	}
	return rels[i], nil
}

func resolve(ref string, n int, at func(int) (id, name string)) (int, error) {
	if num, ok := strings.CutPrefix(ref, "#"); ok {
		i, err := strconv.Atoi(num)
		if err != nil || i < 1 || i > n {
			return 0, fmt.Errorf("%q not found", ref)
		}
		return i - 1, nil
	}

	var byName, byPrefix []int
	for i := 0; i < n; i++ {
		id, name := at(i)
		if id == ref {
			return i, nil
		}
		if name != "" && strings.EqualFold(name, ref) {
			byName = append(byName, i)
		}
		if strings.HasPrefix(id, ref) {
			byPrefix = append(byPrefix, i)
		}
	}
	for _, matches := range [][]int{byName, byPrefix} {
		switch len(matches) {
		case 0:
			continue
		case 1:
			return matches[0], nil
		default:
			return 0, fmt.Errorf("%q is ambiguous (%d matches)", ref, len(matches))
		}
	}
	return 0, fmt.Errorf("%q not found", ref)
}
