// Command composerender renders a saved layout file to a print-resolution
// PNG without opening the editor.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"print-composer/internal/project"
	"print-composer/internal/render"
)

func main() {
	layoutPath := flag.String("layout", "", "Path to layout file (.playout)")
	outPath := flag.String("out", "", "Output PNG path (default: layout name with .png)")
	flag.Parse()

	if *layoutPath == "" {
		fmt.Println("Usage: composerender -layout <path.playout> [-out <path.png>]")
		os.Exit(1)
	}

	f, err := project.Load(*layoutPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load layout: %v\n", err)
		os.Exit(1)
	}

	session := f.BuildSession(filepath.Dir(*layoutPath))
	fmt.Printf("Loaded %s: %s page, %s mode, %d images, %d texts\n",
		filepath.Base(*layoutPath), f.PageSize, session.Mode,
		len(session.Images), len(session.Texts))

	data, err := render.Export(session)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}

	out := *outPath
	if out == "" {
		out = strings.TrimSuffix(*layoutPath, project.Extension) + ".png"
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s (%d bytes)\n", out, len(data))
}
