package outline

import (
	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"gopkg.in/yaml.v3"
)

// yamlNode is the on-disk form of one node position. A repeated position of
// a cloned node is written as a bare clone reference.
type yamlNode struct {
	GNX      string     `yaml:"gnx,omitempty"`
	Headline string     `yaml:"headline,omitempty"`
	Body     string     `yaml:"body,omitempty"`
	Clone    string     `yaml:"clone,omitempty"`
	Children []yamlNode `yaml:"children,omitempty"`
}

// MarshalYAML encodes a forest. Every cloned node must carry an ID.
func MarshalYAML(roots []*Node) ([]byte, error) {
	seen := map[*Node]bool{}
	var encode func(n *Node) (yamlNode, error)
	encode = func(n *Node) (yamlNode, error) {
		if seen[n] {
			if n.ID().IsZero() {
				return yamlNode{}, errors.Newf(errors.ErrOutlineParse,
					"cloned node %q has no gnx", n.Headline())
			}
			return yamlNode{Clone: n.ID().String()}, nil
		}
		seen[n] = true
		y := yamlNode{GNX: n.ID().String(), Headline: n.Headline(), Body: n.Body()}
		for _, c := range n.children {
			yc, err := encode(c)
			if err != nil {
				return yamlNode{}, err
			}
			y.Children = append(y.Children, yc)
		}
		return y, nil
	}

	doc := make([]yamlNode, 0, len(roots))
	for _, r := range roots {
		y, err := encode(r)
		if err != nil {
			return nil, err
		}
		doc = append(doc, y)
	}
	return yaml.Marshal(doc)
}

// UnmarshalYAML decodes a forest written by MarshalYAML or by hand. Nodes
// without a gnx get one from alloc. Clone references may point forward.
func UnmarshalYAML(data []byte, alloc gnx.Allocator) ([]*Node, error) {
	var doc []yamlNode
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errors.ErrOutlineParse, "invalid outline document")
	}

	byID := map[gnx.ID]*Node{}
	byEntry := map[*yamlNode]*Node{}

	var define func(y *yamlNode) error
	define = func(y *yamlNode) error {
		if y.Clone == "" {
			id, err := entryID(y.GNX, alloc)
			if err != nil {
				return err
			}
			if _, dup := byID[id]; dup {
				return errors.Newf(errors.ErrOutlineParse, "gnx %q defined twice; use a clone reference", id)
			}
			n := New(id, y.Headline, y.Body)
			byID[id] = n
			byEntry[y] = n
		}
		for i := range y.Children {
			if err := define(&y.Children[i]); err != nil {
				return err
			}
		}
		return nil
	}

	var link func(y *yamlNode) (*Node, error)
	link = func(y *yamlNode) (*Node, error) {
		if y.Clone != "" {
			n, ok := byID[gnx.ID(y.Clone)]
			if !ok {
				return nil, errors.Newf(errors.ErrOutlineParse, "clone of unknown gnx %q", y.Clone)
			}
			return n, nil
		}
		n := byEntry[y]
		for i := range y.Children {
			c, err := link(&y.Children[i])
			if err != nil {
				return nil, err
			}
			if !n.CanAdopt(c) {
				return nil, errors.Newf(errors.ErrOutlineParse, "clone %q would contain itself", c.ID())
			}
			n.AppendChild(c)
		}
		return n, nil
	}

	for i := range doc {
		if err := define(&doc[i]); err != nil {
			return nil, err
		}
	}
	roots := make([]*Node, 0, len(doc))
	for i := range doc {
		n, err := link(&doc[i])
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}
	return roots, nil
}

func entryID(s string, alloc gnx.Allocator) (gnx.ID, error) {
	if s == "" {
		if alloc == nil {
			return "", errors.New(errors.ErrInvalidGNX, "node without gnx and no allocator")
		}
		return alloc.Next(), nil
	}
	return gnx.Parse(s)
}
