// Package models defines the wire types shared between the workspace API
// client and the view layers.
package models

// Node kinds as reported by the backend.
const (
	KindFile      = "file"
	KindDirectory = "directory"
)

// FileNode is one entry in the workspace hierarchy.
//
// Path is the full path from the workspace root and is the only stable
// identity a node has: expansion, selection, and highlighting all key on it.
// The backend guarantees Path uniqueness within a single tree snapshot and
// nothing more (sibling order may change between snapshots if the agent
// mutates the workspace).
type FileNode struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Kind     string     `json:"type"`
	Children []FileNode `json:"children,omitempty"`
}

// IsDir reports whether the node is a directory. An empty directory has
// Kind == KindDirectory and no children; the backend always returns full
// subtrees, so absent children never means "not yet loaded".
func (n *FileNode) IsDir() bool {
	return n.Kind == KindDirectory
}

// TreeResponse is the envelope returned by the workspace tree endpoint.
type TreeResponse struct {
	Tree []FileNode `json:"tree"`
}

// FileContentResponse is the envelope returned by the workspace file
// endpoint for text preview.
type FileContentResponse struct {
	Content string `json:"content"`
}

// UploadAck is the acknowledgement returned by the workspace upload endpoint.
type UploadAck struct {
	Path string `json:"path,omitempty"`
	Size int64  `json:"size,omitempty"`
}

// WalkNodes visits every node in the forest in depth-first order, parents
// before children. The visit function returning false prunes the subtree.
func WalkNodes(nodes []FileNode, visit func(node *FileNode, depth int) bool) {
	walkNodes(nodes, 0, visit)
}

func walkNodes(nodes []FileNode, depth int, visit func(node *FileNode, depth int) bool) {
	for i := range nodes {
		if !visit(&nodes[i], depth) {
			continue
		}
		if len(nodes[i].Children) > 0 {
			walkNodes(nodes[i].Children, depth+1, visit)
		}
	}
}

// FindNode returns the node with the given path, or nil if the path does not
// exist in the snapshot.
func FindNode(nodes []FileNode, path string) *FileNode {
	var found *FileNode
	WalkNodes(nodes, func(n *FileNode, _ int) bool {
		if found != nil {
			return false
		}
		if n.Path == path {
			found = n
			return false
		}
		return true
	})
	return found
}

// CollectPaths returns every path in the forest in depth-first order.
// Used by the watch command to diff consecutive snapshots.
func CollectPaths(nodes []FileNode) []string {
	var paths []string
	WalkNodes(nodes, func(n *FileNode, _ int) bool {
		paths = append(paths, n.Path)
		return true
	})
	return paths
}
