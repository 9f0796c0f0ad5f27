// Package render holds the visual output formats for laid-out graphs.
//
// The [nodelink] subpackage draws node-link diagrams with Graphviz and
// provides the snapshot presenter used by "nodelight serve --snapshot".
//
// [nodelink]: github.com/matzehuels/nodelight/pkg/render/nodelink
package render
