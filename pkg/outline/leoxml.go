package outline

import (
	"io"

	"github.com/arthur-debert/atfile/pkg/errors"
	"github.com/arthur-debert/atfile/pkg/gnx"
	"github.com/beevik/etree"
)

// Leo outline files keep structure and text apart: <vnodes> nests <v>
// elements carrying headlines, and <tnodes> holds one <t> body per gnx.
const leoFileFormat = "2"

// WriteLeo encodes a forest as a Leo XML outline. The first position of a
// cloned node is written in full, later positions as an empty <v t="gnx"/>.
// Every node must carry an ID.
func WriteLeo(w io.Writer, roots []*Node) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="utf-8"`)
	leo := doc.CreateElement("leo_file")
	leo.CreateElement("leo_header").CreateAttr("file_format", leoFileFormat)
	vnodes := leo.CreateElement("vnodes")
	tnodes := leo.CreateElement("tnodes")

	seen := map[*Node]bool{}
	var put func(parent *etree.Element, n *Node) error
	put = func(parent *etree.Element, n *Node) error {
		if n.ID().IsZero() {
			return errors.Newf(errors.ErrInvalidGNX, "node %q has no gnx", n.Headline())
		}
		v := parent.CreateElement("v")
		v.CreateAttr("t", n.ID().String())
		if seen[n] {
			return nil
		}
		seen[n] = true
		v.CreateElement("vh").SetText(n.Headline())
		for _, c := range n.children {
			if err := put(v, c); err != nil {
				return err
			}
		}
		if n.Body() != "" {
			t := tnodes.CreateElement("t")
			t.CreateAttr("tx", n.ID().String())
			t.SetText(n.Body())
		}
		return nil
	}
	for _, r := range roots {
		if err := put(vnodes, r); err != nil {
			return err
		}
	}

	settings := etree.NewIndentSettings()
	settings.Spaces = 1
	settings.PreserveLeafWhitespace = true
	doc.IndentWithSettings(settings)
	if _, err := doc.WriteTo(w); err != nil {
		return errors.Wrap(err, errors.ErrFileWrite, "failed to write outline")
	}
	return nil
}

// ReadLeo decodes a Leo XML outline. <v> elements without a t attribute get
// an ID from alloc.
func ReadLeo(r io.Reader, alloc gnx.Allocator) ([]*Node, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, errors.Wrap(err, errors.ErrOutlineParse, "invalid Leo outline")
	}
	leo := doc.SelectElement("leo_file")
	if leo == nil {
		return nil, errors.New(errors.ErrOutlineParse, "missing <leo_file> element")
	}
	vnodes := leo.SelectElement("vnodes")
	if vnodes == nil {
		return nil, errors.New(errors.ErrOutlineParse, "missing <vnodes> element")
	}

	byID := map[gnx.ID]*Node{}
	var get func(v *etree.Element) (*Node, error)
	get = func(v *etree.Element) (*Node, error) {
		id, err := entryID(v.SelectAttrValue("t", ""), alloc)
		if err != nil {
			return nil, err
		}
		n, known := byID[id]
		if !known {
			n = New(id, "", "")
			byID[id] = n
		}
		if vh := v.SelectElement("vh"); vh != nil && !known {
			n.headline = vh.Text()
		}
		if known {
			return n, nil
		}
		for _, cv := range v.SelectElements("v") {
			c, err := get(cv)
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

	var roots []*Node
	for _, v := range vnodes.SelectElements("v") {
		n, err := get(v)
		if err != nil {
			return nil, err
		}
		roots = append(roots, n)
	}

	if tnodes := leo.SelectElement("tnodes"); tnodes != nil {
		for _, t := range tnodes.SelectElements("t") {
			if n, ok := byID[gnx.ID(t.SelectAttrValue("tx", ""))]; ok {
				n.body = t.Text()
			}
		}
	}
	return roots, nil
}
