// Package config defines the codec's configuration knobs as a
// YAML-loadable struct, in the creasty/defaults + yaml.v3 struct-tag
// style used throughout this corpus's CLI tools.
package config

import (
	"fmt"
	"os"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"

	"github.com/harriteja/lz4fb/block"
)

// Options carries the "Configuration knobs" described by the codec's
// external interface: which compressor a Writer should use, and whether
// encoder/decoder should run in "custom end-of-stream" mode.
type Options struct {
	// Compressor selects the LZ4 primitive: "none", "lz4_fast", or
	// "lz4_high".
	Compressor string `yaml:"compressor" default:"lz4_fast"`
	// Level is the HC level used when Compressor is "lz4_high", in
	// [9, 17].
	Level int `yaml:"level" default:"9"`
	// CustomEndOfStream selects the encoder's "custom" end-of-stream mode
	// (see block.WithCustomEndOfStream). Both modes are bit-identical in
	// this implementation; the flag exists for symmetric test harnesses.
	CustomEndOfStream bool `yaml:"custom_end_of_stream" default:"false"`
	// DecoderCustomEndOfStream is the decoder-side counterpart; the
	// decoder accepts the sentinel either way, so this only documents
	// intent.
	DecoderCustomEndOfStream bool `yaml:"decoder_custom_end_of_stream" default:"false"`
}

// New returns an Options populated with its declared defaults.
func New() (*Options, error) {
	o := &Options{}
	if err := defaults.Set(o); err != nil {
		return nil, fmt.Errorf("config: set defaults: %w", err)
	}
	return o, nil
}

// Load reads YAML configuration from path, applying defaults first so
// that any field the file omits keeps its declared default.
func Load(path string) (*Options, error) {
	o, err := New()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, o); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return o, nil
}

// Validate reports whether Options describes a usable configuration.
func (o *Options) Validate() error {
	switch o.Compressor {
	case "none", "lz4_fast", "lz4_high":
	default:
		return fmt.Errorf("config: unknown compressor %q", o.Compressor)
	}
	if o.Compressor == "lz4_high" && (o.Level < 9 || o.Level > 17) {
		return fmt.Errorf("config: lz4_high level %d out of range [9,17]", o.Level)
	}
	return nil
}

// CompressorOptions translates Options into the block.Option values a
// block.Compressor (or a stream.Writer built on top of it) expects.
func (o *Options) CompressorOptions() []block.Option {
	opts := []block.Option{block.WithCustomEndOfStream(o.CustomEndOfStream)}
	switch o.Compressor {
	case "none":
		opts = append(opts, block.WithNone())
	case "lz4_high":
		opts = append(opts, block.WithHC(o.Level))
	default:
		opts = append(opts, block.WithFast())
	}
	return opts
}
