// Command kgraph builds a trend knowledge graph from normalised source files,
// queries it and lays it out for rendering.
//
//	kgraph build                  # read sources, write the graph file
//	kgraph query top --k 5        # most connected nodes
//	kgraph query path ai rust     # fewest-hops path
//	kgraph visualize              # write the scene JSON
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := execute(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}
