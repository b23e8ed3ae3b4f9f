package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/sarchlab/muasm/api"
	"github.com/sarchlab/muasm/asm"
	"github.com/sarchlab/muasm/config"
	"github.com/sarchlab/muasm/core"
	"github.com/sarchlab/muasm/isa"
)

type rootOptions struct {
	disassemble bool
	input       string
	output      string
	isaPath     string
	listing     bool
	logLevel    string
	force       bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "muasm [flags]",
		Short: "Assemble and disassemble mu instruction words",
		Long: "muasm translates assembly source into 64-bit little-endian " +
			"instruction words, or with -d translates words back into source.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(opts.logLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd.ErrOrStderr())
		},
	}

	flags := cmd.Flags()
	flags.BoolVarP(&opts.disassemble, "disassemble", "d", false, "disassemble instead of assemble")
	flags.StringVarP(&opts.input, "input-file", "i", "-", "input file, - for stdin")
	flags.StringVarP(&opts.output, "output-file", "o", "-", "output file, - for stdout; truncated if it exists")
	flags.BoolVar(&opts.listing, "listing", false, "print an assembly listing to stderr")
	flags.BoolVar(&opts.force, "force", false, "write binary output even to a terminal")
	flags.SetNormalizeFunc(aliasFlags)

	pflags := cmd.PersistentFlags()
	pflags.StringVar(&opts.isaPath, "isa", "", "instruction set definition (.yaml, .yml or .toml)")
	pflags.StringVar(&opts.logLevel, "log-level", "warn", "log level: trace, debug, info, warn or error")

	cmd.AddCommand(newISACommand(opts), newExplainCommand())

	return cmd
}

// aliasFlags accepts --input and --output for --input-file and --output-file.
func aliasFlags(f *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "input":
		name = "input-file"
	case "output":
		name = "output-file"
	}

	return pflag.NormalizedName(name)
}

func setupLogging(level string) error {
	var lvl slog.Level

	if strings.EqualFold(level, "trace") {
		lvl = core.LevelTrace
	} else if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return errors.Wrapf(err, "invalid log level %q", level)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr,
		&slog.HandlerOptions{Level: lvl})))

	return nil
}

func loadISA(path string) (*isa.Table, error) {
	if path == "" {
		return config.Default(), nil
	}

	return config.LoadISA(path)
}

func run(opts *rootOptions, stderr io.Writer) error {
	table, err := loadISA(opts.isaPath)
	if err != nil {
		return err
	}

	if !opts.disassemble && opts.output == "-" && !opts.force &&
		term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("refusing to write binary to a terminal; use -o or --force")
	}

	in, closeIn, err := openInput(opts.input)
	if err != nil {
		return err
	}
	defer closeIn()

	out, closeOut, err := openOutput(opts.output)
	if err != nil {
		return err
	}

	var listing *asm.ListingHook
	builder := api.MakeDriverBuilder().
		WithISA(table).
		WithHook(core.TraceHook{})
	if opts.listing && !opts.disassemble {
		listing = asm.NewListingHook()
		builder = builder.WithHook(sim.Hook(listing))
	}
	driver := builder.Build()

	slog.Debug("starting",
		"isa", table.Name(),
		"disassemble", opts.disassemble,
		"input", opts.input,
		"output", opts.output)

	if opts.disassemble {
		err = driver.Disassemble(in, out)
	} else {
		err = driver.Assemble(in, out)
	}

	if cerr := closeOut(); err == nil {
		err = cerr
	}

	if listing != nil {
		if _, lerr := fmt.Fprint(stderr, listing.Render()); err == nil && lerr != nil {
			err = errors.Wrap(lerr, "writing listing")
		}
	}

	return err
}

func openInput(path string) (io.Reader, func() error, error) {
	if path == "-" {
		return os.Stdin, func() error { return nil }, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "opening input")
	}

	return f, f.Close, nil
}

func openOutput(path string) (io.Writer, func() error, error) {
	if path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating output")
	}

	return f, f.Close, nil
}
