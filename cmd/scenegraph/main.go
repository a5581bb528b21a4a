package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dd0wney/scenegraph/pkg/integrity"
	"github.com/dd0wney/scenegraph/pkg/persist"
	"github.com/dd0wney/scenegraph/pkg/scene"
)

func main() {
	inPath := flag.String("in", "", "Scene document to load (.json, .yaml, optionally .sz)")
	outPath := flag.String("out", "", "Convert: write the loaded scene to this path")
	check := flag.Bool("check", false, "Run structural integrity checks on the loaded scene")
	stats := flag.Bool("stats", false, "Print scene statistics")
	flag.Parse()

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: scenegraph -in scene.json [-out scene.yaml] [-check] [-stats]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	s, err := persist.Load(*inPath, persist.Options{})
	if err != nil {
		fmt.Printf("❌ Failed to load scene: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("✅ Loaded %s (%d nodes)\n", *inPath, s.NodeCount())

	if *stats {
		printStats(s)
	}

	if *check {
		if !runChecks(s) {
			os.Exit(1)
		}
	}

	if *outPath != "" {
		if err := persist.Save(*outPath, s, persist.Options{}); err != nil {
			fmt.Printf("❌ Failed to write %s: %v\n", *outPath, err)
			os.Exit(1)
		}
		fmt.Printf("✅ Wrote %s\n", *outPath)
	}
}

func printStats(s *scene.Scene) {
	st := s.Stats()
	fmt.Println("\nScene statistics:")
	fmt.Printf("   Nodes:       %d\n", st.Nodes)
	fmt.Printf("   Groups:      %d\n", st.Groups)
	fmt.Printf("   Connections: %d\n", st.Connections)
	fmt.Printf("   Max depth:   %d\n", st.MaxDepth)

	types := make(map[string]int)
	for _, n := range s.Nodes("") {
		types[n.TypeName()]++
	}
	fmt.Println("\nNode types:")
	for _, name := range s.Registry().TypeNames() {
		if count := types[name]; count > 0 {
			fmt.Printf("   %-20s %d\n", name, count)
		}
	}
}

func runChecks(s *scene.Scene) bool {
	violations := integrity.NewChecker(s).Check()
	if len(violations) == 0 {
		fmt.Println("✅ Integrity checks passed")
		return true
	}
	fmt.Printf("❌ %d integrity violation(s):\n", len(violations))
	for _, v := range violations {
		fmt.Printf("   %s\n", v.String())
	}
	return false
}
