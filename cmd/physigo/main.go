// Command physigo post-processes PhysiCell output directories: it
// inspects snapshots, exports cell graphs as GML, renders substrate
// contour images and time series charts, and assembles the rendered
// frames into GIFs and movies.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
