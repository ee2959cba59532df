package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tagtree "github.com/reoring/tagtree"
	"github.com/reoring/tagtree/unit"
	"github.com/reoring/tagtree/wire/jsonwire"
	"github.com/reoring/tagtree/wire/yamlwire"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}
	sub := os.Args[1]
	switch sub {
	case "roundtrip":
		roundtripCmd(os.Args[2:])
	case "convert":
		convertCmd(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "tagtree CLI\n\nUsage:\n  tagtree roundtrip -in FILE [-format yaml|json] [-o FILE]\n  tagtree convert -in FILE -to yaml|json [-o FILE]\n\nNotes:\n  - roundtrip decodes the document through the registered converters and re-encodes it.\n  - convert rewrites a tree between wire formats without touching native objects.")
}

func roundtripCmd(args []string) {
	fs := flag.NewFlagSet("roundtrip", flag.ExitOnError)
	var in, out, format string
	fs.StringVar(&in, "in", "", "input file (yaml or json)")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	fs.StringVar(&format, "format", "", "wire format; inferred from the extension when empty")
	_ = fs.Parse(args)
	if in == "" {
		fs.Usage()
		os.Exit(2)
	}
	f := format
	if f == "" {
		f = detectFormat(in)
	}
	node, err := readTree(in, f)
	if err != nil {
		fail(err)
	}

	reg := tagtree.NewRegistry()
	if err := unit.Register(reg); err != nil {
		fail(err)
	}
	c := tagtree.NewCodec(reg)

	ctx := context.Background()
	v, err := c.Decode(ctx, node)
	if err != nil {
		fail(err)
	}
	node2, err := c.Encode(ctx, v)
	if err != nil {
		fail(err)
	}
	data, err := marshalTree(node2, f)
	if err != nil {
		fail(err)
	}
	writeOut(out, data)
}

func convertCmd(args []string) {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	var in, out, to string
	fs.StringVar(&in, "in", "", "input file (yaml or json)")
	fs.StringVar(&out, "o", "", "output filename (default stdout)")
	fs.StringVar(&to, "to", "", "target wire format: yaml or json")
	_ = fs.Parse(args)
	if in == "" || to == "" {
		fs.Usage()
		os.Exit(2)
	}
	node, err := readTree(in, detectFormat(in))
	if err != nil {
		fail(err)
	}
	data, err := marshalTree(node, to)
	if err != nil {
		fail(err)
	}
	writeOut(out, data)
}

func detectFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json"
	default:
		return "yaml"
	}
}

func readTree(path, format string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch format {
	case "json":
		return jsonwire.Unmarshal(data)
	case "yaml", "yml":
		return yamlwire.Unmarshal(data)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func marshalTree(node any, format string) ([]byte, error) {
	switch format {
	case "json":
		return jsonwire.Marshal(node)
	case "yaml", "yml":
		return yamlwire.Marshal(node)
	}
	return nil, fmt.Errorf("unknown format %q", format)
}

func writeOut(path string, data []byte) {
	if path == "" {
		_, _ = os.Stdout.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "tagtree:", err)
	os.Exit(1)
}
