// elecpack builds and inspects .elecplayer bundles.
//
// Usage:
//
//	elecpack pack [-o out.elecplayer] <dir>
//	elecpack list <file.elecplayer>
//	elecpack unpack [-o dir] <file.elecplayer>
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/phanxgames/electric/bundle"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

const usage = `usage: elecpack <command> [flags] <path>

commands:
  pack    zip a directory into a bundle
  list    print the entries of a bundle
  unpack  extract a bundle into a directory`

func run(args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		fmt.Fprintln(stderr, usage)
		return flag.ErrHelp
	}
	switch args[0] {
	case "pack":
		return pack(args[1:], stdout, stderr)
	case "list":
		return list(args[1:], stdout, stderr)
	case "unpack":
		return unpack(args[1:], stdout, stderr)
	case "help", "-h", "-help", "--help":
		fmt.Fprintln(stderr, usage)
		return flag.ErrHelp
	}
	return fmt.Errorf("unknown command %q", args[0])
}

// parse runs fs over args and returns its single positional argument.
func parse(fs *flag.FlagSet, args []string) (string, error) {
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 {
		return "", fmt.Errorf("%s: expected one path, got %d", fs.Name(), fs.NArg())
	}
	return fs.Arg(0), nil
}

func pack(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("pack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "output file (default: <dir>"+bundle.Ext+")")
	dir, err := parse(fs, args)
	if err != nil {
		return err
	}
	b, err := bundle.FromDir(dir)
	if err != nil {
		return err
	}
	name := *out
	if name == "" {
		name = filepath.Clean(dir) + bundle.Ext
	}
	if err := b.Create(name); err != nil {
		return err
	}
	if filepath.Ext(name) == "" {
		name += bundle.Ext
	}
	fmt.Fprintf(stdout, "packed %d files into %s\n", len(b.Names()), name)
	return nil
}

func list(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	fs.SetOutput(stderr)
	name, err := parse(fs, args)
	if err != nil {
		return err
	}
	b, err := bundle.Open(name)
	if err != nil {
		return err
	}
	for _, n := range b.Names() {
		fmt.Fprintf(stdout, "%8d  %s\n", len(b.Content(n)), n)
	}
	return nil
}

func unpack(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("unpack", flag.ContinueOnError)
	fs.SetOutput(stderr)
	out := fs.String("o", "", "output directory (default: bundle name without extension)")
	name, err := parse(fs, args)
	if err != nil {
		return err
	}
	b, err := bundle.Open(name)
	if err != nil {
		return err
	}
	dir := *out
	if dir == "" {
		dir = strings.TrimSuffix(name, filepath.Ext(name))
	}
	for _, n := range b.Names() {
		p := filepath.Join(dir, filepath.FromSlash(n))
		if !strings.HasPrefix(p, filepath.Clean(dir)+string(filepath.Separator)) {
			return fmt.Errorf("unpack %s: entry escapes the output directory", n)
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("unpack %s: %w", n, err)
		}
		if err := os.WriteFile(p, b.Content(n), 0o644); err != nil {
			return fmt.Errorf("unpack %s: %w", n, err)
		}
	}
	fmt.Fprintf(stdout, "unpacked %d files into %s\n", len(b.Names()), dir)
	return nil
}
