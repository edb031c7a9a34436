package windows

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dgb/adapters/deltasharing"
)

func TestNodeIDRoundTrip(t *testing.T) {
	tests := []struct {
		share, schema, table string
		want                 TreeNodeType
	}{
		{"s", "", "", NodeTypeShare},
		{"s", "sc", "", NodeTypeSchema},
		{"s", "sc", "t", NodeTypeTable},
	}
	for _, tt := range tests {
		typ, share, schema, table := ParseNodeID(NodeID(tt.share, tt.schema, tt.table))
		assert.Equal(t, tt.want, typ)
		assert.Equal(t, []string{tt.share, tt.schema, tt.table}, []string{share, schema, table})
	}
}

func TestNavigationTreePopulate(t *testing.T) {
	nt := NewNavigationTree()
	nt.Populate([]string{"sales", "empty"}, []deltasharing.Table{
		{Share: "sales", Schema: "eu", Name: "orders"},
		{Share: "sales", Schema: "eu", Name: "customers"},
		{Share: "sales", Schema: "us", Name: "orders"},
		{Share: "sales", Schema: "us", Name: "orders"},
		{Share: "hr", Schema: "people", Name: "staff"},
	})

	assert.Equal(t, []string{"share:sales", "share:empty", "share:hr"}, nt.GetChildren(""))
	assert.Equal(t, []string{"share:sales:schema:eu", "share:sales:schema:us"}, nt.GetChildren("share:sales"))
	assert.Len(t, nt.GetChildren("share:sales:schema:eu"), 2)
	assert.Empty(t, nt.GetChildren("share:empty"))
	assert.Nil(t, nt.GetChildren("missing"))
	assert.Equal(t, 4, nt.TableCount())

	assert.True(t, nt.IsBranch(""))
	assert.True(t, nt.IsBranch("share:hr"))
	assert.False(t, nt.IsBranch(NodeID("hr", "people", "staff")))
	assert.False(t, nt.IsBranch("missing"))

	node := nt.GetNode(NodeID("hr", "people", "staff"))
	require.NotNil(t, node)
	assert.Equal(t, "staff", node.Table.Name)
}

func TestNavigationTreeSelectTable(t *testing.T) {
	test.NewTempApp(t)
	nt := NewNavigationTree()
	nt.Populate(nil, []deltasharing.Table{{Share: "s", Schema: "sc", Name: "t"}})

	var got deltasharing.Table
	nt.OnTableSelected = func(tbl deltasharing.Table) { got = tbl }

	tree := nt.Widget()
	tree.Select("share:s")
	assert.Empty(t, got.Name)
	tree.Select(NodeID("s", "sc", "t"))
	assert.Equal(t, "t", got.Name)
}
