package editor

import (
	"math"
	"testing"

	"erd/diagram"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeCommand(t *testing.T) {
	cmd, err := DecodeCommand([]byte(`{"type":"addNode","kind":"entity","name":"Customer","position":{"x":10,"y":20}}`))
	require.NoError(t, err)

	add, ok := cmd.(AddNode)
	require.True(t, ok)
	assert.Equal(t, diagram.KindEntity, add.Kind)
	assert.Equal(t, "Customer", add.Name)
	assert.Equal(t, pt(10, 20), add.Position)
	assert.Nil(t, add.Size)

	cmd, err = DecodeCommand([]byte(`{"type":"addRelationship","kind":"non-identifying","sourceNodeId":"a","targetNodeId":"b","targetCardinality":"0..M"}`))
	require.NoError(t, err)
	rel := cmd.(AddRelationship)
	assert.Equal(t, diagram.NonIdentifying, rel.Kind)
	assert.Equal(t, diagram.CardZeroOrMany, rel.TargetCardinality)
}

func TestDecodeCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"unknown type", `{"type":"explode"}`, ErrUnknownCommand},
		{"missing type", `{"id":"x"}`, ErrUnknownCommand},
		{"malformed", `{"type":`, ErrInvalidCommand},
		{"bad kind", `{"type":"addNode","kind":"cloud"}`, ErrInvalidCommand},
		{"missing id", `{"type":"removeNode"}`, ErrInvalidCommand},
		{"empty update", `{"type":"updateNode","id":"n1"}`, ErrInvalidCommand},
		{"bad cardinality", `{"type":"addRelationship","sourceNodeId":"a","targetNodeId":"b","sourceCardinality":"7"}`, ErrInvalidCommand},
		{"bad size", `{"type":"addNode","kind":"note","position":{"x":0,"y":0},"size":{"width":0,"height":5}}`, ErrInvalidCommand},
		{"double selection", `{"type":"setSelection","nodeId":"a","relationshipId":"r"}`, ErrInvalidCommand},
		{"nameless attribute", `{"type":"addNode","kind":"entity","attributes":[{"type":"INT"}]}`, ErrInvalidCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeCommand([]byte(tt.in))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidateRejectsOutOfRangeValues(t *testing.T) {
	badKind := diagram.RelationshipKind(7)
	nanSize := diagram.Size{Width: math.NaN(), Height: 10}
	infPos := diagram.Point{X: math.Inf(1)}

	tests := []struct {
		name string
		cmd  Command
	}{
		{"update relationship kind", UpdateRelationship{ID: "r", Kind: &badKind}},
		{"add relationship kind", AddRelationship{Kind: badKind, SourceNodeID: "a", TargetNodeID: "b"}},
		{"add node NaN size", AddNode{Kind: diagram.KindEntity, Size: &nanSize}},
		{"add node infinite position", AddNode{Kind: diagram.KindEntity, Position: infPos}},
		{"update node infinite position", UpdateNode{ID: "n", Position: &infPos}},
		{"update node NaN size", UpdateNode{ID: "n", Size: &nanSize}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cmd.Validate(), ErrInvalidCommand)
		})
	}
}

func TestApplyUpdateRelationshipBadKindChangesNothing(t *testing.T) {
	e := newTestEditor(t)
	a, b := twoEntities(t, e)
	id, err := e.Apply(AddRelationship{Kind: diagram.NonIdentifying, SourceNodeID: a, TargetNodeID: b})
	require.NoError(t, err)
	_, before := e.HistoryStats()

	kind := diagram.RelationshipKind(7)
	_, err = e.Apply(UpdateRelationship{ID: id, Kind: &kind})
	require.ErrorIs(t, err, ErrInvalidCommand)

	r, _ := e.Model().Relationship(id)
	assert.Equal(t, diagram.NonIdentifying, r.Kind)
	_, after := e.HistoryStats()
	assert.Equal(t, before, after)
}

func TestDecodeCommands(t *testing.T) {
	cmds, err := DecodeCommands([]byte(` [
		{"type":"addNode","ref":"c","kind":"entity","position":{"x":0,"y":0}},
		{"type":"setSelection","nodeId":"$c"}
	]`))
	require.NoError(t, err)
	require.Len(t, cmds, 2)
	assert.Equal(t, CmdAddNode, cmds[0].Type())
	assert.Equal(t, CmdSetSelection, cmds[1].Type())

	cmds, err = DecodeCommands([]byte(`{"type":"removeNode","id":"x"}`))
	require.NoError(t, err)
	assert.Len(t, cmds, 1)

	_, err = DecodeCommands([]byte(`[{"type":"removeNode","id":"x"},{"type":"nope"}]`))
	assert.ErrorIs(t, err, ErrUnknownCommand)
}

func TestApplyRecordsOneEntry(t *testing.T) {
	e := newTestEditor(t)
	_, before := e.HistoryStats()

	id, err := e.Apply(AddNode{Kind: diagram.KindEntity, Name: "Order", Position: pt(5, 5)})
	require.NoError(t, err)

	n, ok := e.Model().Node(id)
	require.True(t, ok)
	assert.Equal(t, e.opts.EntitySize, n.Size)
	_, after := e.HistoryStats()
	assert.Equal(t, before+1, after)

	_, err = e.Apply(SetSelection{NodeID: id})
	require.NoError(t, err)
	assert.Equal(t, id, e.Model().Selection().NodeID)
	_, afterSelect := e.HistoryStats()
	assert.Equal(t, after, afterSelect, "selection is not recorded")
}

func TestApplyFailureLeavesHistory(t *testing.T) {
	e := newTestEditor(t)
	_, before := e.HistoryStats()

	_, err := e.Apply(RemoveNode{ID: "missing"})
	assert.ErrorIs(t, err, diagram.ErrNotFound)

	_, err = e.Apply(RemoveNode{})
	assert.ErrorIs(t, err, ErrInvalidCommand)

	_, after := e.HistoryStats()
	assert.Equal(t, before, after)
}

func TestApplyAddRelationshipOptionalDefault(t *testing.T) {
	e := newTestEditor(t)
	a, b := twoEntities(t, e)

	id, err := e.Apply(AddRelationship{Kind: diagram.NonIdentifying, SourceNodeID: a, TargetNodeID: b})
	require.NoError(t, err)
	r, _ := e.Model().Relationship(id)
	assert.True(t, r.Optional)
	assert.Equal(t, diagram.CardOne, r.SourceCardinality)
	assert.Equal(t, diagram.CardOneOrMany, r.TargetCardinality)

	no := false
	id, err = e.Apply(AddRelationship{Kind: diagram.NonIdentifying, SourceNodeID: b, TargetNodeID: a, Optional: &no})
	require.NoError(t, err)
	r, _ = e.Model().Relationship(id)
	assert.False(t, r.Optional)
}

func TestApplyBatchResolvesRefs(t *testing.T) {
	e := newTestEditor(t)
	_, before := e.HistoryStats()

	cmds, err := DecodeCommands([]byte(`[
		{"type":"addNode","ref":"customer","kind":"entity","name":"Customer","position":{"x":0,"y":0}},
		{"type":"addNode","ref":"order","kind":"entity","name":"Order","position":{"x":400,"y":0}},
		{"type":"addRelationship","kind":"identifying","sourceNodeId":"$customer","targetNodeId":"$order","name":"places"},
		{"type":"setSelection","nodeId":"$order"}
	]`))
	require.NoError(t, err)

	ids, err := e.ApplyBatch(cmds)
	require.NoError(t, err)
	require.Len(t, ids, 4)

	assert.Equal(t, 2, e.Model().NodeCount())
	r, ok := e.Model().Relationship(ids[2])
	require.True(t, ok)
	assert.Equal(t, ids[0], r.SourceNodeID)
	assert.Equal(t, ids[1], r.TargetNodeID)
	assert.Equal(t, ids[1], e.Model().Selection().NodeID)

	_, after := e.HistoryStats()
	assert.Equal(t, before+1, after, "a batch is one history entry")

	require.True(t, e.Undo())
	assert.Zero(t, e.Model().NodeCount())
}

func TestApplyBatchRollsBack(t *testing.T) {
	e := newTestEditor(t)
	a, _ := twoEntities(t, e)
	e.SetSelection(diagram.Selection{NodeID: a})
	snapshot := e.Model().Snapshot()
	_, before := e.HistoryStats()

	_, err := e.ApplyBatch([]Command{
		RemoveNode{ID: a},
		AddNode{Kind: diagram.KindAnnotation, Position: pt(0, 500)},
		AddRelationship{SourceNodeID: "ghost", TargetNodeID: "other"},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, diagram.ErrInvalidEndpoint)

	assert.Equal(t, snapshot, e.Model().Snapshot())
	assert.Equal(t, a, e.Model().Selection().NodeID)
	_, after := e.HistoryStats()
	assert.Equal(t, before, after)
}

func TestApplyBatchValidatesFirst(t *testing.T) {
	e := newTestEditor(t)

	_, err := e.ApplyBatch([]Command{
		AddNode{Kind: diagram.KindEntity},
		RemoveRelationship{},
	})
	assert.ErrorIs(t, err, ErrInvalidCommand)
	assert.Zero(t, e.Model().NodeCount())
}
