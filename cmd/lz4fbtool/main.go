// Command lz4fbtool compresses and decompresses files (or stdin/stdout)
// using the framed LZ4 block codec in package stream.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/jessevdk/go-flags"

	"github.com/harriteja/lz4fb/config"
	"github.com/harriteja/lz4fb/stream"
)

// Root defines global CLI flags.
type Root struct {
	Config string `short:"c" long:"config" description:"Path to a YAML config file overriding the compressor defaults"`
}

// CmdCompress frames stdin (or an input file) into an lz4fb stream.
type CmdCompress struct {
	Output string `short:"o" long:"output" description:"Output path (default: stdout)"`

	Args struct {
		Input string `positional-arg-name:"input" description:"Input file (default: stdin)"`
	} `positional-args:"yes"`
}

// CmdDecompress reverses CmdCompress.
type CmdDecompress struct {
	Output string `short:"o" long:"output" description:"Output path (default: stdout)"`

	Args struct {
		Input string `positional-arg-name:"input" description:"Input file (default: stdin)"`
	} `positional-args:"yes"`
}

var root Root

func (c *CmdCompress) Execute(args []string) error {
	opts, err := loadOptions()
	if err != nil {
		return err
	}

	in, cleanupIn, err := openInput(c.Args.Input)
	if err != nil {
		return err
	}
	defer cleanupIn()

	out, cleanupOut, err := openOutput(c.Output)
	if err != nil {
		return err
	}
	defer cleanupOut()

	w := stream.NewWriter(out, opts.CompressorOptions()...)
	if _, err := io.Copy(w, in); err != nil {
		return fmt.Errorf("lz4fbtool: compress: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("lz4fbtool: compress: close: %w", err)
	}
	return nil
}

func (c *CmdDecompress) Execute(args []string) error {
	in, cleanupIn, err := openInput(c.Args.Input)
	if err != nil {
		return err
	}
	defer cleanupIn()

	out, cleanupOut, err := openOutput(c.Output)
	if err != nil {
		return err
	}
	defer cleanupOut()

	var frames, bytesOut int
	r := stream.NewReader(in, stream.WithInspector(stream.Inspector{
		OnFrame: func(consumed int, payload []byte) {
			frames++
			bytesOut += len(payload)
		},
	}))
	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("lz4fbtool: decompress: %w", err)
	}
	log.Printf("lz4fbtool: decoded %d frame(s), %d byte(s)", frames, bytesOut)
	return nil
}

func loadOptions() (*config.Options, error) {
	if root.Config == "" {
		return config.New()
	}
	return config.Load(root.Config)
}

func openInput(path string) (io.Reader, func(), error) {
	if path == "" {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("lz4fbtool: open input: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("lz4fbtool: create output: %w", err)
	}
	return f, func() { f.Close() }, nil
}

func run(args []string) error {
	parser := flags.NewParser(&root, flags.Default)
	parser.Name = filepath.Base(os.Args[0])

	if _, err := parser.AddCommand("compress", "Compress input into a framed LZ4 stream", "", &CmdCompress{}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("decompress", "Decompress a framed LZ4 stream", "", &CmdDecompress{}); err != nil {
		return err
	}

	_, err := parser.ParseArgs(args)
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		log.Fatal(err)
	}
}
