// Copyright 2025 Magnus Pierre
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package windows

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"dgb/adapters/deltasharing"
)

// TreeNodeType represents the type of node in the navigation tree
type TreeNodeType string

const (
	NodeTypeShare  TreeNodeType = "share"
	NodeTypeSchema TreeNodeType = "schema"
	NodeTypeTable  TreeNodeType = "table"
)

// TreeNode is a share, schema or table in the navigation tree.
type TreeNode struct {
	ID       string
	NodeType TreeNodeType
	Name     string
	Share    string
	Schema   string
	Table    deltasharing.Table // table nodes only
	Children []string
}

// NavigationTree holds the share/schema/table hierarchy of one profile.
type NavigationTree struct {
	mu      sync.RWMutex
	nodes   map[string]*TreeNode
	rootIDs []string

	// OnTableSelected is called when a table leaf is selected.
	OnTableSelected func(deltasharing.Table)
}

// NewNavigationTree creates an empty tree.
func NewNavigationTree() *NavigationTree {
	return &NavigationTree{nodes: make(map[string]*TreeNode)}
}

// NodeID builds the ID of a node. Empty trailing parts select the level.
func NodeID(share, schema, table string) string {
	switch {
	case schema == "":
		return "share:" + share
	case table == "":
		return fmt.Sprintf("share:%s:schema:%s", share, schema)
	default:
		return fmt.Sprintf("share:%s:schema:%s:table:%s", share, schema, table)
	}
}

// ParseNodeID splits a node ID back into its parts.
func ParseNodeID(nodeID string) (nodeType TreeNodeType, share, schema, table string) {
	parts := strings.Split(nodeID, ":")
	if len(parts) >= 2 && parts[0] == "share" {
		nodeType, share = NodeTypeShare, parts[1]
	}
	if len(parts) >= 4 && parts[2] == "schema" {
		nodeType, schema = NodeTypeSchema, parts[3]
	}
	if len(parts) >= 6 && parts[4] == "table" {
		nodeType, table = NodeTypeTable, parts[5]
	}
	return
}

// Load fetches shares and every table through client and rebuilds the tree.
func (nt *NavigationTree) Load(ctx context.Context, client *deltasharing.Client) error {
	shares, err := client.ListShares(ctx)
	if err != nil {
		return err
	}
	tables, err := client.ListTables(ctx)
	if err != nil {
		return err
	}
	nt.Populate(shares, tables)
	return nil
}

// Populate replaces the tree with shares and the schemas and tables found
// in tables. Shares only named by a table are added as well.
func (nt *NavigationTree) Populate(shares []string, tables []deltasharing.Table) {
	nt.mu.Lock()
	defer nt.mu.Unlock()

	nt.nodes = make(map[string]*TreeNode)
	nt.rootIDs = nil

	addShare := func(name string) *TreeNode {
		id := NodeID(name, "", "")
		if n, ok := nt.nodes[id]; ok {
			return n
		}
		n := &TreeNode{ID: id, NodeType: NodeTypeShare, Name: name, Share: name}
		nt.nodes[id] = n
		nt.rootIDs = append(nt.rootIDs, id)
		return n
	}

	for _, s := range shares {
		addShare(s)
	}

	for _, t := range tables {
		share := addShare(t.Share)

		schemaID := NodeID(t.Share, t.Schema, "")
		schema, ok := nt.nodes[schemaID]
		if !ok {
			schema = &TreeNode{ID: schemaID, NodeType: NodeTypeSchema, Name: t.Schema, Share: t.Share, Schema: t.Schema}
			nt.nodes[schemaID] = schema
			share.Children = append(share.Children, schemaID)
		}

		tableID := NodeID(t.Share, t.Schema, t.Name)
		if _, ok := nt.nodes[tableID]; ok {
			continue
		}
		nt.nodes[tableID] = &TreeNode{
			ID:       tableID,
			NodeType: NodeTypeTable,
			Name:     t.Name,
			Share:    t.Share,
			Schema:   t.Schema,
			Table:    t,
		}
		schema.Children = append(schema.Children, tableID)
	}
}

// GetChildren returns the child IDs of nodeID, or the shares for the root.
func (nt *NavigationTree) GetChildren(nodeID widget.TreeNodeID) []widget.TreeNodeID {
	nt.mu.RLock()
	defer nt.mu.RUnlock()

	if nodeID == "" {
		return nt.rootIDs
	}
	if node, ok := nt.nodes[nodeID]; ok {
		return node.Children
	}
	return nil
}

// IsBranch reports whether nodeID can have children.
func (nt *NavigationTree) IsBranch(nodeID widget.TreeNodeID) bool {
	if nodeID == "" {
		return true
	}
	node := nt.GetNode(nodeID)
	return node != nil && node.NodeType != NodeTypeTable
}

// GetNode retrieves a node by ID.
func (nt *NavigationTree) GetNode(nodeID widget.TreeNodeID) *TreeNode {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	return nt.nodes[nodeID]
}

// TableCount is the number of table leaves.
func (nt *NavigationTree) TableCount() int {
	nt.mu.RLock()
	defer nt.mu.RUnlock()
	n := 0
	for _, node := range nt.nodes {
		if node.NodeType == NodeTypeTable {
			n++
		}
	}
	return n
}

// Widget builds the tree widget showing this tree.
func (nt *NavigationTree) Widget() *widget.Tree {
	tree := widget.NewTree(
		nt.GetChildren,
		nt.IsBranch,
		func(bool) fyne.CanvasObject {
			return container.NewHBox(widget.NewIcon(theme.FolderIcon()), widget.NewLabel("template"))
		},
		nt.updateNode,
	)
	tree.OnSelected = func(id widget.TreeNodeID) {
		node := nt.GetNode(id)
		if node == nil {
			return
		}
		if node.NodeType != NodeTypeTable {
			tree.OpenBranch(id)
			return
		}
		if nt.OnTableSelected != nil {
			nt.OnTableSelected(node.Table)
		}
	}
	return tree
}

func (nt *NavigationTree) updateNode(nodeID widget.TreeNodeID, _ bool, obj fyne.CanvasObject) {
	node := nt.GetNode(nodeID)
	box, ok := obj.(*fyne.Container)
	if node == nil || !ok || len(box.Objects) < 2 {
		return
	}

	if icon, ok := box.Objects[0].(*widget.Icon); ok {
		switch node.NodeType {
		case NodeTypeShare:
			icon.SetResource(theme.FolderOpenIcon())
		case NodeTypeSchema:
			icon.SetResource(theme.FolderIcon())
		case NodeTypeTable:
			icon.SetResource(theme.GridIcon())
		}
	}
	if label, ok := box.Objects[1].(*widget.Label); ok {
		label.SetText(node.Name)
	}
}
