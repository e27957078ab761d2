package main

import (
	"fmt"
	"math"
	"os"
	"runtime/debug"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/spice-go/internal/logging"
	"github.com/signalsfoundry/spice-go/orbit"
	"github.com/signalsfoundry/spice-go/raw"
	"github.com/signalsfoundry/spice-go/spice"
	"github.com/signalsfoundry/spice-go/sweep"
)

const (
	defaultPicture = "YYYY-MM-DD HR:MN:SC.### ::UTC"
	radToDeg       = 180 / math.Pi
)

func newKernelsCmd(a *app) *cobra.Command {
	var kind string
	cmd := &cobra.Command{
		Use:   "kernels",
		Short: "List loaded kernels in load order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ks, err := a.sess.Kernels(cmd.Context(), strings.ToUpper(kind))
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "#\tTYPE\tHANDLE\tFILE\tSOURCE")
			for i, k := range ks {
				fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\n", i+1, k.Type, k.Handle, k.File, k.Source)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&kind, "kind", raw.KindAll, "Kernel kind: ALL, SPK, CK, PCK, DSK, EK, TEXT or META (space-separated list allowed)")
	return cmd
}

func newTimeCmd(a *app) *cobra.Command {
	var pictur string
	cmd := &cobra.Command{
		Use:   "time <time string>...",
		Short: "Convert time strings to ephemeris time and format them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, arg := range args {
				et, err := a.sess.Str2et(ctx, arg)
				if err != nil {
					return err
				}
				out, err := a.sess.Timout(ctx, et, pictur)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%.6f\t%s\n", arg, et, out)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&pictur, "picture", defaultPicture, "timout_c format picture")
	return cmd
}

func newSpkposCmd(a *app) *cobra.Command {
	var at, frame, abcorr string
	cmd := &cobra.Command{
		Use:   "spkpos <target> <observer>",
		Short: "Position of a target relative to an observer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			et, err := a.sess.Str2et(ctx, at)
			if err != nil {
				return err
			}
			pos, lt, err := a.sess.Spkpos(ctx, args[0], et, frame, abcorr, args[1])
			if err != nil {
				return err
			}
			rng, ra, dec, err := a.sess.Recrad(ctx, pos)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "et:         %.6f\n", et)
			fmt.Fprintf(out, "position:   %.6f %.6f %.6f km (%s)\n", pos[0], pos[1], pos[2], frame)
			fmt.Fprintf(out, "range:      %.6f km\n", rng)
			fmt.Fprintf(out, "ra/dec:     %.6f %.6f deg\n", ra*radToDeg, dec*radToDeg)
			fmt.Fprintf(out, "light time: %.6f s\n", lt)
			return nil
		},
	}
	cmd.Flags().StringVar(&at, "at", "", "Epoch as a SPICE time string")
	cmd.Flags().StringVar(&frame, "frame", "J2000", "Reference frame")
	cmd.Flags().StringVar(&abcorr, "abcorr", "NONE", "Aberration correction")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

// targetFlags binds the shape and frame flags of an occultation pair.
type targetFlags struct {
	frontShape, frontFrame string
	backShape, backFrame   string
	abcorr, observer       string
}

func (f *targetFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.frontShape, "front-shape", "ELLIPSOID", "Shape model of the front body: POINT, ELLIPSOID or DSK/UNPRIORITIZED")
	cmd.Flags().StringVar(&f.frontFrame, "front-frame", "", "Body-fixed frame of the front body (default IAU_<front>)")
	cmd.Flags().StringVar(&f.backShape, "back-shape", "ELLIPSOID", "Shape model of the back body")
	cmd.Flags().StringVar(&f.backFrame, "back-frame", "", "Body-fixed frame of the back body (default IAU_<back>)")
	cmd.Flags().StringVar(&f.abcorr, "abcorr", "CN", "Aberration correction")
	cmd.Flags().StringVar(&f.observer, "observer", "EARTH", "Observing body")
}

func (f *targetFlags) targets(front, back string) (spice.Target, spice.Target) {
	return target(front, f.frontShape, f.frontFrame), target(back, f.backShape, f.backFrame)
}

func target(name, shape, frame string) spice.Target {
	shape = strings.ToUpper(shape)
	if frame == "" && shape != "POINT" {
		frame = "IAU_" + strings.ToUpper(name)
	}
	return spice.Target{Name: name, Shape: shape, Frame: frame}
}

func newOccultCmd(a *app) *cobra.Command {
	var (
		tf targetFlags
		at string
	)
	cmd := &cobra.Command{
		Use:   "occult <front> <back>",
		Short: "Occultation condition of one body by another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			et, err := a.sess.Str2et(ctx, at)
			if err != nil {
				return err
			}
			front, back := tf.targets(args[0], args[1])
			code, err := a.sess.Occult(ctx, front, back, tf.abcorr, tf.observer, et)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d\n", code, int32(code))
			return nil
		},
	}
	tf.bind(cmd)
	cmd.Flags().StringVar(&at, "at", "", "Epoch as a SPICE time string")
	_ = cmd.MarkFlagRequired("at")
	return cmd
}

func newSweepCmd(a *app) *cobra.Command {
	var (
		tf       targetFlags
		from, to string
		step     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "sweep <front> <back>",
		Short: "Search a time window for occultation transitions",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			start, err := a.sess.Str2et(ctx, from)
			if err != nil {
				return err
			}
			stop, err := a.sess.Str2et(ctx, to)
			if err != nil {
				return err
			}
			stepper, err := sweep.New(start, stop, step.Seconds())
			if err != nil {
				return err
			}
			stepper.SetLogger(a.log)

			front, back := tf.targets(args[0], args[1])
			watch := &sweep.OccultationWatch{
				Session:  a.sess,
				Front:    front,
				Back:     back,
				Abcorr:   tf.abcorr,
				Observer: tf.observer,
			}
			stepper.AddListener(watch.Listener(ctx))

			a.log.Info(ctx, "sweep started",
				logging.Int("epochs", stepper.Epochs()),
				logging.Float("step_s", stepper.Step),
			)
			if err := <-stepper.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			initial, _ := watch.State()
			transitions := watch.Transitions()
			if len(transitions) > 0 {
				initial = transitions[0].From
			}
			fmt.Fprintf(out, "initial: %s\n", initial)
			for _, tr := range transitions {
				when, err := a.sess.Timout(ctx, tr.ET, defaultPicture)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s  %s -> %s\n", when, tr.From, tr.To)
			}
			return nil
		},
	}
	tf.bind(cmd)
	cmd.Flags().StringVar(&from, "from", "", "Window start as a SPICE time string")
	cmd.Flags().StringVar(&to, "to", "", "Window end as a SPICE time string")
	cmd.Flags().DurationVar(&step, "step", time.Minute, "Sampling step")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func newDSKCmd(a *app) *cobra.Command {
	var plates, vertices bool
	cmd := &cobra.Command{
		Use:   "dsk <file>",
		Short: "Summarise the segments of a DSK file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			handle, err := a.sess.Dasopr(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() {
				if cerr := a.sess.Dascls(ctx, handle); err == nil {
					err = cerr
				}
			}()

			segs, err := a.sess.Segments(ctx, handle)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for i, seg := range segs {
				nv, np, err := a.sess.Dskz02(ctx, handle, seg.DLA)
				if err != nil {
					return err
				}
				d := seg.DSK
				fmt.Fprintf(out, "segment %d: surface %d center %d class %d type %d frame %d vertices %d plates %d\n",
					i+1, d.Surfce, d.Center, d.DClass, d.DType, d.FrmCde, nv, np)

				if vertices {
					vs, err := a.sess.DSKV02(ctx, handle, seg.DLA)
					if err != nil {
						return err
					}
					for j, v := range vs {
						fmt.Fprintf(out, "  v %d %.6f %.6f %.6f\n", j+1, v[0], v[1], v[2])
					}
				}
				if plates {
					ps, err := a.sess.DSKP02(ctx, handle, seg.DLA)
					if err != nil {
						return err
					}
					for j, p := range ps {
						fmt.Fprintf(out, "  p %d %d %d %d\n", j+1, p[0], p[1], p[2])
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&plates, "plates", false, "Print every plate")
	cmd.Flags().BoolVar(&vertices, "vertices", false, "Print every vertex")
	return cmd
}

func newSGP4Cmd(a *app) *cobra.Command {
	var tleFile, at, observer string
	cmd := &cobra.Command{
		Use:   "sgp4 <target>",
		Short: "Compare SGP4 propagation of a TLE with the SPICE ephemeris of the same object",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tle, err := readTLE(tleFile)
			if err != nil {
				return err
			}
			when := time.Now().UTC()
			if at != "" {
				if when, err = time.Parse(time.RFC3339, at); err != nil {
					return fmt.Errorf("parse --at: %w", err)
				}
			}
			cmp, err := orbit.Compare(cmd.Context(), a.sess, tle, when, args[0], observer)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "epoch:      %s (et %.6f)\n", cmp.At.Format(time.RFC3339), cmp.ET)
			fmt.Fprintf(out, "sgp4:       %.3f %.3f %.3f km\n", cmp.SGP4.X, cmp.SGP4.Y, cmp.SGP4.Z)
			fmt.Fprintf(out, "spice:      %.3f %.3f %.3f km\n", cmp.SPICE.X, cmp.SPICE.Y, cmp.SPICE.Z)
			fmt.Fprintf(out, "distance:   %.3f km\n", cmp.Distance)
			fmt.Fprintf(out, "range diff: %.3f km\n", cmp.RangeDiff)
			fmt.Fprintf(out, "separation: %.6f deg\n", cmp.Separation*radToDeg)
			return nil
		},
	}
	cmd.Flags().StringVar(&tleFile, "tle", "", "File holding the two TLE lines (an optional name line is skipped)")
	cmd.Flags().StringVar(&at, "at", "", "Epoch in RFC 3339 (default now)")
	cmd.Flags().StringVar(&observer, "observer", "EARTH", "Observing body")
	_ = cmd.MarkFlagRequired("tle")
	return cmd
}

// readTLE reads the first two lines starting with "1 " and "2 ".
func readTLE(path string) (orbit.TLE, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return orbit.TLE{}, fmt.Errorf("read TLE: %w", err)
	}
	var tle orbit.TLE
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		switch {
		case tle.Line1 == "" && strings.HasPrefix(line, "1 "):
			tle.Line1 = line
		case tle.Line1 != "" && tle.Line2 == "" && strings.HasPrefix(line, "2 "):
			tle.Line2 = line
		}
	}
	if err := tle.Validate(); err != nil {
		return orbit.TLE{}, fmt.Errorf("%s: %w", path, err)
	}
	return tle, nil
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the spicectl and CSPICE toolkit versions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			module := "(devel)"
			if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
				module = info.Main.Version
			}
			fmt.Fprintf(out, "spicectl %s\n", module)

			v, err := a.sess.Version(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "toolkit  %s\n", v)
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config <file>",
		Short: "Write the effective configuration (file, environment and flags merged) as YAML",
		Args:  cobra.ExactArgs(1),
		// No session is opened, so kernels need not exist yet.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.resolveConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Save(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[0])
			return nil
		},
	}
}
