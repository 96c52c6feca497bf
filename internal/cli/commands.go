package cli

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/0x0FACED/go-trapmap/internal/scene"
	"github.com/0x0FACED/go-trapmap/internal/server"
	"github.com/0x0FACED/go-trapmap/pkg/generator"
	"github.com/0x0FACED/go-trapmap/pkg/geom"
	"github.com/0x0FACED/go-trapmap/pkg/render"
	"github.com/0x0FACED/go-trapmap/pkg/trapmap"
)

func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browser viewer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.cfg.Server.Addr = addr
			}
			printSuccess(c.out, "viewer on http://localhost%s", c.cfg.Server.Addr)
			return server.New(c.cfg, c.log).ListenAndServe(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides [server] addr)")
	return cmd
}

func (c *CLI) locateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "locate x,y [x,y...]",
		Short: "Report the face containing each point",
		Example: `  trapmap locate -g quad 1.4,2 3,4
  trapmap locate --wkt city.wkt 10.5,3`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			points := make([]geom.Point, len(args))
			for i, arg := range args {
				p, err := parsePoint(arg)
				if err != nil {
					return fmt.Errorf("invalid point %q: %w", arg, err)
				}
				points[i] = p
			}

			sc, err := scene.Build(cmd.Context(), c.cfg.Scene, c.log)
			if err != nil {
				return err
			}

			outside := 0
			for _, p := range points {
				t, err := sc.Structure.Locate(p)
				if errors.Is(err, trapmap.ErrOutsideBoundary) {
					outside++
					printError(c.out, "%v is outside the map", p)
					continue
				}
				if err != nil {
					return err
				}
				printLocated(c.out, p.String(), strconv.Itoa(int(t.Face())),
					fmt.Sprintf("T%d top %v bottom %v", t.ID, t.Top, t.Bottom))
			}
			if outside > 0 {
				return fmt.Errorf("%d of %d points outside the map", outside, len(points))
			}
			return nil
		},
	}
}

func parsePoint(s string) (geom.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return geom.Point{}, errors.New("want x,y")
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return geom.Point{}, err
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}

func (c *CLI) dagCommand() *cobra.Command {
	var (
		output   string
		svg      bool
		detailed bool
	)

	cmd := &cobra.Command{
		Use:   "dag",
		Short: "Write the search graph as Graphviz DOT or SVG",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := scene.Build(cmd.Context(), c.cfg.Scene, c.log)
			if err != nil {
				return err
			}

			data := []byte(render.ToDOT(sc.Structure, render.Options{Detailed: detailed}))
			if svg {
				if data, err = render.RenderSVG(cmd.Context(), string(data)); err != nil {
					return err
				}
			}
			if err := c.writeOutput(data, output); err != nil {
				return err
			}
			if output != "" {
				printSuccess(c.out, "search graph written")
				printFile(c.out, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&svg, "svg", false, "render SVG with graphviz instead of DOT")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "label leaves with face and corners")
	return cmd
}

func (c *CLI) statsCommand() *cobra.Command {
	var trials int

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Measure the search graph over random insertion orders",
		Long: `Builds the scene's trapezoidal map once per trial, each time inserting the
segments in a different random order, and reports the average and worst
search graph size and depth.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if trials < 1 {
				return fmt.Errorf("--trials must be positive, got %d", trials)
			}

			d, name, err := scene.Subdivision(cmd.Context(), c.cfg.Scene, rand.New(rand.NewSource(c.cfg.Scene.Seed)))
			if err != nil {
				return err
			}
			segs, err := d.Segments()
			if err != nil {
				return err
			}

			var (
				sumNodes, sumDepth float64
				maxNodes, maxDepth int
				first              trapmap.Stats
			)
			for i := 0; i < trials; i++ {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				rnd := rand.New(rand.NewSource(c.cfg.Scene.Seed + int64(i)))
				s, err := trapmap.BuildShuffled(cmd.Context(), d.OuterBoundary(), segs, rnd, c.log)
				if err != nil {
					return fmt.Errorf("trial %d: %w", i, err)
				}
				st := s.Stats()
				if i == 0 {
					first = st
				}
				c.log.Debug("[stats] trial", zap.Int("trial", i), zap.Int("nodes", st.Nodes), zap.Int("depth", st.Depth))

				sumNodes += float64(st.Nodes)
				sumDepth += float64(st.Depth)
				maxNodes = max(maxNodes, st.Nodes)
				maxDepth = max(maxDepth, st.Depth)
			}

			n := float64(trials)
			printTitle(c.out, name)
			printKeyValue(c.out, "segments", len(segs))
			printKeyValue(c.out, "faces", d.BoundedFaces())
			printKeyValue(c.out, "trapezoids", first.Trapezoids)
			printKeyValue(c.out, "trials", trials)
			printKeyValue(c.out, "nodes avg", fmt.Sprintf("%.1f (%.2f per segment)", sumNodes/n, sumNodes/n/float64(len(segs))))
			printKeyValue(c.out, "nodes max", maxNodes)
			printKeyValue(c.out, "depth avg", fmt.Sprintf("%.1f", sumDepth/n))
			printKeyValue(c.out, "depth max", maxDepth)
			return nil
		},
	}

	cmd.Flags().IntVarP(&trials, "trials", "t", 10, "number of random insertion orders")
	return cmd
}

func (c *CLI) generateCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Print the generated scene as WKT",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Scene.WKTFile != "" {
				return errors.New("generate needs a generator, not a WKT scene")
			}
			g, err := generator.ByName(cmd.Context(), c.cfg.Scene.Generator, c.cfg.Scene.Size, rand.New(rand.NewSource(c.cfg.Scene.Seed)))
			if err != nil {
				return err
			}
			text, err := g.WKT()
			if err != nil {
				return err
			}
			if err := c.writeOutput([]byte(text), output); err != nil {
				return err
			}
			if output != "" {
				printSuccess(c.out, "%d edges written", len(g.Edges))
				printFile(c.out, output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
