// Package outline provides the ordered node tree derived files are written
// from and read into, plus its persistent forms: a YAML document and Leo's
// XML outline format.
//
// A node's identity is its gnx.ID. Clones share a single *Node, and Index
// maps IDs back to nodes.
package outline
