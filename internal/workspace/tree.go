package workspace

import (
	"sort"
	"strings"
)

// NormalizePath canonicalizes a file path for use as a map key: forward
// slashes, no leading slash, no surrounding whitespace. Returns "" for paths
// that cannot be used as keys.
func NormalizePath(p string) string {
	p = strings.TrimSpace(p)
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimLeft(p, "/")
	if p == "" || strings.HasSuffix(p, "/") {
		return ""
	}
	var parts []string
	for _, seg := range strings.Split(p, "/") {
		if seg == "" || seg == "." || seg == ".." {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/")
}

func splitPath(p string) (dir, base string) {
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[:i], p[i+1:]
	}
	return "", p
}

// SortFiles orders a file slice for display: grouped by directory,
// alphabetical within each group, with root-level files first. Every consumer
// that shows a file list uses this ordering; nothing re-derives it per view.
func SortFiles(files []File) {
	sort.SliceStable(files, func(i, j int) bool {
		di, bi := splitPath(files[i].Path)
		dj, bj := splitPath(files[j].Path)
		if di != dj {
			return di < dj
		}
		return bi < bj
	})
}

// TreeNode is one node of the nested directory tree derived from a file
// snapshot. Children are ordered directories-first, then alphabetical.
type TreeNode struct {
	Name     string      `json:"name"`
	Path     string      `json:"path"`
	Dir      bool        `json:"dir"`
	Language string      `json:"language,omitempty"`
	Children []*TreeNode `json:"children,omitempty"`
}

// BuildTree folds a flat file snapshot into a directory tree rooted at the
// project root. The input order does not matter; output order is stable.
func BuildTree(files []File) *TreeNode {
	root := &TreeNode{Name: "", Path: "", Dir: true}
	index := map[string]*TreeNode{"": root}

	for _, f := range files {
		parent := root
		segs := strings.Split(f.Path, "/")
		for i, seg := range segs {
			nodePath := strings.Join(segs[:i+1], "/")
			if i == len(segs)-1 {
				parent.Children = append(parent.Children, &TreeNode{
					Name:     seg,
					Path:     nodePath,
					Language: f.Language,
				})
				continue
			}
			dir, ok := index[nodePath]
			if !ok {
				dir = &TreeNode{Name: seg, Path: nodePath, Dir: true}
				index[nodePath] = dir
				parent.Children = append(parent.Children, dir)
			}
			parent = dir
		}
	}

	sortTree(root)
	return root
}

func sortTree(n *TreeNode) {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Dir != b.Dir {
			return a.Dir
		}
		return a.Name < b.Name
	})
	for _, c := range n.Children {
		if c.Dir {
			sortTree(c)
		}
	}
}
