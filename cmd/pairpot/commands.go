package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/pairpot/internal/config"
	"github.com/san-kum/pairpot/internal/distance"
	"github.com/san-kum/pairpot/internal/interaction"
	"github.com/san-kum/pairpot/internal/pairpot"
	"github.com/san-kum/pairpot/internal/storage"
	"github.com/san-kum/pairpot/internal/viz"
)

func runEnergy(cmd *cobra.Command, args []string) error {
	cfg, pot, x, err := buildSystem(cmd, args)
	if err != nil {
		return err
	}

	start := time.Now()
	e, err := pot.Energy(x)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Println(viz.Header("energy"))
	fmt.Println(viz.Metrics(
		[2]string{"interaction", cfg.Interaction.Name},
		[2]string{"boundary", cfg.Boundary.Kind},
		[2]string{"particles", fmt.Sprint(cfg.NumAtoms())},
		[2]string{"energy", fmt.Sprintf("%.10g", e)},
		[2]string{"per particle", fmt.Sprintf("%.10g", e/math.Max(1, float64(cfg.NumAtoms())))},
		[2]string{"elapsed", elapsed.String()},
	))

	return saveRun(cfg, "energy", e, elapsed, nil, nil)
}

func runGradient(cmd *cobra.Command, args []string) error {
	cfg, pot, x, err := buildSystem(cmd, args)
	if err != nil {
		return err
	}

	grad := make([]float64, len(x))
	start := time.Now()
	e, err := pot.EnergyGradient(x, grad)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	maxNorm, err := pot.MaxAtomNorm(grad)
	if err != nil {
		return err
	}

	g := particleMajor(pot, grad)
	ndim := pot.Dim()
	norms := make([]float64, len(g)/ndim)
	total := 0.0
	for i := range norms {
		s := 0.0
		for _, v := range g[i*ndim : (i+1)*ndim] {
			s += v * v
		}
		norms[i] = math.Sqrt(s)
		total += s
	}

	fmt.Println(viz.Header("gradient"))
	fmt.Println(viz.Metrics(
		[2]string{"interaction", cfg.Interaction.Name},
		[2]string{"boundary", cfg.Boundary.Kind},
		[2]string{"energy", fmt.Sprintf("%.10g", e)},
		[2]string{"|grad|", fmt.Sprintf("%.6g", math.Sqrt(total))},
		[2]string{"max |g_i|", fmt.Sprintf("%.6g", maxNorm)},
		[2]string{"elapsed", elapsed.String()},
	))
	fmt.Println(viz.SparklineChart(norms, 60))
	fmt.Println(viz.Separator(60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tGRADIENT\t|G|")
	for i, n := range norms {
		fmt.Fprintf(w, "%d\t%s\t%.6g\n", i, formatVec(g[i*ndim:(i+1)*ndim]), n)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	return saveRun(cfg, "gradient", e, elapsed, g, nil)
}

func runHessian(cmd *cobra.Command, args []string) error {
	cfg, pot, x, err := buildSystem(cmd, args)
	if err != nil {
		return err
	}
	if len(x) > maxDOF {
		return fmt.Errorf("%d degrees of freedom exceeds --max-dof %d", len(x), maxDOF)
	}

	if len(x) == 0 {
		return fmt.Errorf("hessian needs at least one particle")
	}

	start := time.Now()
	e, grad, hess, err := pot.EvaluateDense(x)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)
	logger.Debug("hessian assembled", "dof", len(x), "elapsed", elapsed)

	vals, err := pairpot.HessianEigenvalues(hess.RawMatrix().Data)
	if err != nil {
		return err
	}

	scale := 0.0
	for _, v := range vals {
		scale = math.Max(scale, math.Abs(v))
	}
	zero, negative := 0, 0
	for _, v := range vals {
		switch {
		case math.Abs(v) <= 1e-9*scale:
			zero++
		case v < 0:
			negative++
		}
	}

	status := viz.StatusOK.Render("stable")
	if negative > 0 {
		status = viz.StatusError.Render(fmt.Sprintf("%d unstable modes", negative))
	}

	fmt.Println(viz.Header("hessian"))
	fmt.Println(viz.Metrics(
		[2]string{"interaction", cfg.Interaction.Name},
		[2]string{"boundary", cfg.Boundary.Kind},
		[2]string{"energy", fmt.Sprintf("%.10g", e)},
		[2]string{"dof", fmt.Sprint(len(x))},
		[2]string{"zero modes", fmt.Sprint(zero)},
		[2]string{"lowest", fmt.Sprintf("%.6g", vals[0])},
		[2]string{"highest", fmt.Sprintf("%.6g", vals[len(vals)-1])},
		[2]string{"elapsed", elapsed.String()},
	))
	fmt.Println(status)
	fmt.Println(viz.PlotSize(vals, "eigenvalue spectrum", viz.DefaultPlotHeight, min(len(vals), viz.DefaultPlotWidth)))

	return saveRun(cfg, "hessian", e, elapsed, particleMajor(pot, grad), vals)
}

func runImage(cmd *cobra.Command, args []string) error {
	cfg, pot, x, err := buildSystem(cmd, args)
	if err != nil {
		return err
	}
	ndim := cfg.Dim
	natoms := cfg.NumAtoms()

	if cmd.Flags().Changed("particle") {
		if imageParticle < 0 || imageParticle >= natoms {
			return fmt.Errorf("particle %d out of range [0, %d)", imageParticle, natoms)
		}
		img := make([]float64, ndim)
		if pot.Layout() == distance.SoA {
			distance.ImageAtomSoA(pot.Policy(), img, x[imageParticle:], natoms)
		} else {
			distance.ImageAtom(pot.Policy(), img, x[imageParticle*ndim:])
		}
		raw := particleMajor(pot, x)
		fmt.Println(viz.Metrics(
			[2]string{"particle", fmt.Sprint(imageParticle)},
			[2]string{"position", formatVec(raw[imageParticle*ndim : (imageParticle+1)*ndim])},
			[2]string{"image", formatVec(img)},
		))
		return nil
	}

	folded := append([]float64(nil), x...)
	if err := distance.PutInBox(pot.Policy(), folded, pot.Layout()); err != nil {
		return err
	}
	before, err := pot.MaxAtomNorm(x)
	if err != nil {
		return err
	}
	after, err := pot.MaxAtomNorm(folded)
	if err != nil {
		return err
	}
	raw := particleMajor(pot, x)
	folded = particleMajor(pot, folded)

	fmt.Println(viz.Header("image"))
	fmt.Println(viz.Metrics(
		[2]string{"boundary", cfg.Boundary.Kind},
		[2]string{"max |x_i|", fmt.Sprintf("%.6g -> %.6g", before, after)},
	))
	fmt.Println(viz.Separator(60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tPOSITION\tIMAGE")
	for i := 0; i < natoms; i++ {
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, formatVec(raw[i*ndim:(i+1)*ndim]), formatVec(folded[i*ndim:(i+1)*ndim]))
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if dumpFile == "" {
		return nil
	}
	out := cfg.Clone()
	out.Coords = folded
	if err := config.Save(dumpFile, out); err != nil {
		return fmt.Errorf("failed to write %s: %w", dumpFile, err)
	}
	logger.Info("folded system written", "path", dumpFile)
	fmt.Printf("wrote %s\n", dumpFile)
	return nil
}

func runNeighbors(cmd *cobra.Command, args []string) error {
	cfg, pot, x, err := buildSystem(cmd, args)
	if err != nil {
		return err
	}

	var include []bool
	if len(exclude) > 0 {
		include = make([]bool, cfg.NumAtoms())
		for i := range include {
			include[i] = true
		}
		for _, i := range exclude {
			if i < 0 || i >= len(include) {
				return fmt.Errorf("excluded particle %d out of range [0, %d)", i, len(include))
			}
			include[i] = false
		}
	}

	nl, err := pot.NeighborsPicky(x, include, cutoff)
	if err != nil {
		return err
	}

	fmt.Println(viz.Header("neighbors"))
	fmt.Println(viz.Metrics(
		[2]string{"cutoff", fmt.Sprintf("%g x (1+%g)", cutoff, cfg.RadiusScale)},
		[2]string{"pairs", fmt.Sprint(nl.Pairs())},
	))
	fmt.Println(viz.Separator(60))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PARTICLE\tCOUNT\tNEIGHBORS")
	for i, ids := range nl.Indices {
		fmt.Fprintf(w, "%d\t%d\t%v\n", i, len(ids), ids)
	}
	return w.Flush()
}

func runOverlaps(cmd *cobra.Command, args []string) error {
	_, pot, x, err := buildSystem(cmd, args)
	if err != nil {
		return err
	}

	pairs, err := pot.Overlaps(x)
	if err != nil {
		return err
	}

	if len(pairs) == 0 {
		fmt.Println(viz.StatusOK.Render("no overlaps"))
		return nil
	}

	fmt.Println(viz.StatusWarn.Render(fmt.Sprintf("%d overlapping pairs", len(pairs)/2)))
	fmt.Println(viz.Separator(60))
	dr := make([]float64, pot.Dim())
	radii := pot.Radii()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "I\tJ\tDISTANCE\tCONTACT")
	for k := 0; k < len(pairs); k += 2 {
		i, j := pairs[k], pairs[k+1]
		if err := pot.Rij(dr, x, i, j); err != nil {
			return err
		}
		r := 0.0
		for _, v := range dr {
			r += v * v
		}
		fmt.Fprintf(w, "%d\t%d\t%.6f\t%.6f\n", i, j, math.Sqrt(r), radii[i]+radii[j])
	}
	return w.Flush()
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadSystem(cmd, args)
	if err != nil {
		return err
	}
	if scanSteps < 2 {
		return fmt.Errorf("--steps must be at least 2")
	}

	reg := interaction.NewRegistry()
	values := make([]float64, scanSteps)
	energies := make([]float64, scanSteps)

	for s := 0; s < scanSteps; s++ {
		v := scanFrom + (scanTo-scanFrom)*float64(s)/float64(scanSteps-1)
		values[s] = v

		c := cfg.Clone()
		switch scanParam {
		case "shear":
			kind, err := distance.ParseKind(c.Boundary.Kind)
			if err != nil {
				return err
			}
			if kind != distance.KindLeesEdwards {
				return fmt.Errorf("shear scan needs a lees-edwards boundary, got %s", c.Boundary.Kind)
			}
			c.Boundary.Shear = v
		case "scale":
			if v <= 0 {
				return fmt.Errorf("scale factors must be positive")
			}
			for i := range c.Coords {
				c.Coords[i] *= v
			}
			for i := range c.Boundary.Box {
				c.Boundary.Box[i] *= v
			}
		default:
			return fmt.Errorf("unknown scan parameter: %s", scanParam)
		}

		pot, x, err := c.Build(reg)
		if err != nil {
			return err
		}
		if energies[s], err = pot.Energy(x); err != nil {
			return err
		}
		logger.Debug("scan sample", "param", scanParam, "value", v, "energy", energies[s])
	}

	lo, hi := 0, 0
	for s, e := range energies {
		if e < energies[lo] {
			lo = s
		}
		if e > energies[hi] {
			hi = s
		}
	}

	fmt.Println(viz.Header(fmt.Sprintf("energy vs %s", scanParam)))
	fmt.Println(viz.Plot(energies, fmt.Sprintf("%s from %g to %g", scanParam, scanFrom, scanTo)))
	fmt.Println(viz.Metrics(
		[2]string{"minimum", fmt.Sprintf("%.8g at %g", energies[lo], values[lo])},
		[2]string{"maximum", fmt.Sprintf("%.8g at %g", energies[hi], values[hi])},
	))
	return nil
}

func runBench(cmd *cobra.Command, args []string) error {
	if benchRepeat < 1 {
		return fmt.Errorf("--repeat must be positive")
	}

	fmt.Printf("benchmarking lj in %d dimensions\n\n", benchDim)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ATOMS\tAOS\tSOA\tPARALLEL\tWORKERS\tPAIRS/SEC")

	reg := interaction.NewRegistry()
	timings := make([][]float64, 3)
	for _, n := range benchAtoms {
		side := 1
		for int(math.Pow(float64(side), float64(benchDim))) < n {
			side++
		}
		const spacing = 1.12
		box := make([]float64, benchDim)
		for k := range box {
			box[k] = float64(side) * spacing
		}
		cfg := &config.Config{
			Dim:         benchDim,
			Boundary:    config.BoundaryConfig{Kind: "periodic", Box: box},
			Interaction: config.InteractionConfig{Name: "lj"},
			Coords:      config.Lattice(n, benchDim, spacing, 0.02),
		}

		pot, x, err := cfg.Build(reg)
		if err != nil {
			return err
		}
		xS, err := distance.ToSoA(x, benchDim)
		if err != nil {
			return err
		}
		soa := pot.InLayout(distance.SoA)
		par := pairpot.NewParallel(pot, benchWorkers)
		grad := make([]float64, len(x))

		serial, err := timeIt(func() error { _, err := pot.EnergyGradient(x, grad); return err })
		if err != nil {
			return err
		}
		dimMajor, err := timeIt(func() error { _, err := soa.EnergyGradient(xS, grad); return err })
		if err != nil {
			return err
		}
		parallel, err := timeIt(func() error {
			_, err := par.EnergyGradient(context.Background(), x, grad)
			return err
		})
		if err != nil {
			return err
		}

		for k, d := range []time.Duration{serial, dimMajor, parallel} {
			timings[k] = append(timings[k], float64(d.Microseconds()))
		}

		pairs := float64(n) * float64(n-1) / 2
		fmt.Fprintf(w, "%d\t%v\t%v\t%v\t%d\t%.3g\n",
			n, serial, dimMajor, parallel, par.Workers(), pairs/serial.Seconds())
	}

	if err := w.Flush(); err != nil {
		return err
	}
	if len(benchAtoms) > 1 {
		fmt.Println()
		fmt.Println(viz.PlotSeries(timings, "microseconds per gradient: aos, soa, parallel"))
	}
	return nil
}

// timeIt returns the mean wall time of benchRepeat calls to fn.
func timeIt(fn func() error) (time.Duration, error) {
	start := time.Now()
	for i := 0; i < benchRepeat; i++ {
		if err := fn(); err != nil {
			return 0, err
		}
	}
	return time.Since(start) / time.Duration(benchRepeat), nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	groups := make([]string, 0, len(config.Presets))
	if len(args) > 0 {
		groups = append(groups, args[0])
	} else {
		for g := range config.Presets {
			groups = append(groups, g)
		}
		sort.Strings(groups)
	}

	for _, g := range groups {
		presets := config.ListPresets(g)
		if len(presets) == 0 {
			fmt.Printf("no presets for interaction: %s\n", g)
			continue
		}
		fmt.Printf("presets for %s:\n", g)
		for _, p := range presets {
			cfg := config.GetPreset(g, p)
			fmt.Printf("  %-10s %s, %dd, %d particles\n", p, cfg.Boundary.Kind, cfg.Dim, cfg.NumAtoms())
		}
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCOMMAND\tINTERACTION\tBOUNDARY\tATOMS\tENERGY\tTIME")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.8g\t%s\n",
			run.ID,
			run.Command,
			run.Interaction,
			run.Boundary,
			run.NumAtoms,
			run.Energy,
			run.Timestamp.Format("2006-01-02 15:04:05"),
		)
	}

	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}
	if exportOut == "" {
		return storage.ExportJSON(os.Stdout, data)
	}
	if err := storage.ExportJSONFile(exportOut, data); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", exportOut)
	return nil
}

func saveRun(cfg *config.Config, command string, e float64, elapsed time.Duration, grad, eigenvalues []float64) error {
	if !save {
		return nil
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	layout := cfg.Layout
	if layout == "" {
		layout = distance.AoS.String()
	}
	gradNorm := 0.0
	for _, v := range grad {
		gradNorm += v * v
	}

	runID, err := st.Save(&storage.Result{
		Meta: storage.RunMetadata{
			Command:     command,
			Interaction: cfg.Interaction.Name,
			Params:      cfg.Interaction.Params,
			Boundary:    cfg.Boundary.Kind,
			Box:         cfg.Boundary.Box,
			Shear:       cfg.Boundary.Shear,
			Layout:      layout,
			Dim:         cfg.Dim,
			NumAtoms:    cfg.NumAtoms(),
			Elapsed:     elapsed,
			Energy:      e,
			GradNorm:    math.Sqrt(gradNorm),
			Eigenvalues: eigenvalues,
		},
		Gradient: grad,
	})
	if err != nil {
		return err
	}

	logger.Info("run saved", "id", runID, "dir", dataDir)
	fmt.Printf("run id: %s\n", runID)
	return nil
}
