package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/pairpot/internal/config"
	"github.com/san-kum/pairpot/internal/distance"
	"github.com/san-kum/pairpot/internal/interaction"
	"github.com/san-kum/pairpot/internal/pairpot"
)

var (
	dataDir    string
	configFile string
	preset     string
	layoutName string
	shear      float64
	verbose    bool
	save       bool
	// Neighbor queries
	cutoff  float64
	exclude []int
	// Scans
	scanParam string
	scanFrom  float64
	scanTo    float64
	scanSteps int
	// Benchmarks
	benchAtoms   []int
	benchDim     int
	benchWorkers int
	benchRepeat  int
	// Hessian
	maxDOF int
	// Export
	exportOut string
	// Image
	imageParticle int
	dumpFile      string

	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "pairpot",
		Short:        "pairwise potential energies, gradients and hessians",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".pairpot", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")

	energyCmd := &cobra.Command{
		Use:   "energy [interaction]",
		Short: "total energy of a system",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runEnergy,
	}
	gradientCmd := &cobra.Command{
		Use:   "gradient [interaction]",
		Short: "energy and per-particle gradient",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGradient,
	}
	hessianCmd := &cobra.Command{
		Use:   "hessian [interaction]",
		Short: "dense hessian and its spectrum",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHessian,
	}
	hessianCmd.Flags().IntVar(&maxDOF, "max-dof", 2000, "refuse systems with more degrees of freedom")

	imageCmd := &cobra.Command{
		Use:   "image [interaction]",
		Short: "fold coordinates into the primary cell",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runImage,
	}
	imageCmd.Flags().IntVar(&imageParticle, "particle", 0, "fold only this particle")
	imageCmd.Flags().StringVar(&dumpFile, "dump", "", "write the folded system to a yaml file")
	neighborsCmd := &cobra.Command{
		Use:   "neighbors [interaction]",
		Short: "list neighbors within a radius-scaled cutoff",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runNeighbors,
	}
	neighborsCmd.Flags().Float64Var(&cutoff, "cutoff", 1.0, "cutoff factor applied to (1+radius_scale)(r_i+r_j)")
	neighborsCmd.Flags().IntSliceVar(&exclude, "exclude", nil, "particle indices to leave out")

	overlapsCmd := &cobra.Command{
		Use:   "overlaps [interaction]",
		Short: "list pairs closer than the sum of their radii",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runOverlaps,
	}

	scanCmd := &cobra.Command{
		Use:   "scan [interaction]",
		Short: "plot the energy while sweeping shear or density",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScan,
	}
	scanCmd.Flags().StringVar(&scanParam, "param", "shear", "swept parameter: shear or scale")
	scanCmd.Flags().Float64Var(&scanFrom, "from", 0, "first value")
	scanCmd.Flags().Float64Var(&scanTo, "to", 1, "last value")
	scanCmd.Flags().IntVar(&scanSteps, "steps", 50, "number of samples")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time serial, dimension-major and parallel evaluation",
		Args:  cobra.NoArgs,
		RunE:  runBench,
	}
	benchCmd.Flags().IntSliceVar(&benchAtoms, "atoms", []int{64, 256, 1024}, "system sizes")
	benchCmd.Flags().IntVar(&benchDim, "dim", 3, "dimensions")
	benchCmd.Flags().IntVar(&benchWorkers, "workers", 0, "parallel workers (0 = one per CPU)")
	benchCmd.Flags().IntVar(&benchRepeat, "repeat", 5, "evaluations per measurement")

	presetsCmd := &cobra.Command{
		Use:   "presets [interaction]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default stdout)")

	for _, c := range []*cobra.Command{energyCmd, gradientCmd, hessianCmd, imageCmd, neighborsCmd, overlapsCmd, scanCmd} {
		c.Flags().StringVar(&configFile, "config", "", "system file (yaml)")
		c.Flags().StringVar(&preset, "preset", "", "use a preset system")
		c.Flags().StringVar(&layoutName, "layout", "", "override layout: aos or soa")
		c.Flags().Float64Var(&shear, "shear", 0, "override lees-edwards shear")
	}
	for _, c := range []*cobra.Command{energyCmd, gradientCmd, hessianCmd} {
		c.Flags().BoolVar(&save, "save", false, "store the result under --data")
	}

	rootCmd.AddCommand(energyCmd, gradientCmd, hessianCmd, imageCmd, neighborsCmd, overlapsCmd, scanCmd, benchCmd, presetsCmd, listCmd, exportCmd)
	return rootCmd
}

// loadSystem resolves --config or --preset into a validated configuration,
// applying command-line overrides on top.
func loadSystem(cmd *cobra.Command, args []string) (*config.Config, error) {
	var cfg *config.Config

	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	case preset != "":
		group := config.DefaultInteraction
		if len(args) > 0 {
			group = args[0]
		}
		cfg = config.GetPreset(group, preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, group, config.ListPresets(group))
		}
	default:
		return nil, fmt.Errorf("need --config or --preset")
	}

	if cmd.Flags().Changed("layout") {
		cfg.Layout = layoutName
	}
	if cmd.Flags().Changed("shear") {
		cfg.Boundary.Shear = shear
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Debug("system loaded",
		"interaction", cfg.Interaction.Name,
		"boundary", cfg.Boundary.Kind,
		"dim", cfg.Dim,
		"atoms", cfg.NumAtoms(),
		"layout", cfg.Layout,
	)
	return cfg, nil
}

func buildSystem(cmd *cobra.Command, args []string) (*config.Config, *pairpot.Potential, []float64, error) {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return nil, nil, nil, err
	}
	pot, x, err := cfg.Build(interaction.NewRegistry())
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, pot, x, nil
}

// particleMajor returns v in particle-major order regardless of the
// potential's layout.
func particleMajor(pot *pairpot.Potential, v []float64) []float64 {
	if pot.Layout() != distance.SoA {
		return v
	}
	out, err := distance.ToAoS(v, pot.Dim())
	if err != nil {
		return v
	}
	return out
}

func formatVec(v []float64) string {
	parts := make([]string, len(v))
	for i, x := range v {
		parts[i] = fmt.Sprintf("%10.6f", x)
	}
	return strings.Join(parts, " ")
}
