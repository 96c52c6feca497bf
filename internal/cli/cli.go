// Package cli implements the trapmap command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0x0FACED/go-trapmap/pkg/config"
	"github.com/0x0FACED/go-trapmap/pkg/logger"
)

const appName = "trapmap"

// CLI holds state shared by all commands. cfg and log are ready once the
// root command's pre-run has finished.
type CLI struct {
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool
	scene      config.Scene

	cfg config.Config
	log *logger.ZapLogger
}

func New(out, errOut io.Writer) *CLI {
	return &CLI{out: out, errOut: errOut, log: logger.NewNop()}
}

// RootCommand creates the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Point location in planar subdivisions with a randomized trapezoidal map",
		Long: `trapmap builds the trapezoidal decomposition of a planar subdivision by
randomized incremental insertion and answers point location queries with its
search graph.

Scenes come from a generator (expanding, horizontal, quad, random) or from a
WKT file, and may be set in a TOML config file.`,
		SilenceUsage:       true,
		PersistentPreRunE:  c.setup,
		PersistentPostRunE: c.teardown,
	}
	root.SetOut(c.out)
	root.SetErr(c.errOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "TOML config file")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "log every insertion")
	pf.StringVarP(&c.scene.Generator, "generator", "g", "", "scene generator")
	pf.IntVarP(&c.scene.Size, "size", "n", 0, "generator size")
	pf.Int64Var(&c.scene.Seed, "seed", 0, "seed for the generator and the insertion order")
	pf.StringVar(&c.scene.WKTFile, "wkt", "", "read the scene from a WKT file, one geometry per line")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.locateCommand())
	root.AddCommand(c.dagCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.generateCommand())

	return root
}

// setup loads the config, applies the flags given on the command line and
// creates the console logger.
func (c *CLI) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("generator") {
		cfg.Scene.Generator = c.scene.Generator
		cfg.Scene.WKTFile = ""
	}
	if flags.Changed("size") {
		cfg.Scene.Size = c.scene.Size
	}
	if flags.Changed("seed") {
		cfg.Scene.Seed = c.scene.Seed
	}
	if flags.Changed("wkt") {
		cfg.Scene.WKTFile = c.scene.WKTFile
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, Console: c.errOut, NoCapture: true})
	if err != nil {
		return err
	}
	c.cfg, c.log = cfg, log
	return nil
}

// teardown flushes the console logger. Sync on a terminal reports EINVAL or
// ENOTTY, which is ignored.
func (c *CLI) teardown(_ *cobra.Command, _ []string) error {
	if err := c.log.Sync(); err != nil && !errors.Is(err, syscall.EINVAL) && !errors.Is(err, syscall.ENOTTY) {
		return fmt.Errorf("flush log: %w", err)
	}
	return nil
}

// writeOutput writes data to path, or to the command output when path is
// empty.
func (c *CLI) writeOutput(data []byte, path string) error {
	if path == "" {
		_, err := c.out.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
