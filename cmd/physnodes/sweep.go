package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/san-kum/physnodes/internal/optim"
	"github.com/spf13/cobra"
)

func sweepScene(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) > 0 {
		path = args[0]
	}
	base, err := loadScene(cmd, path)
	if err != nil {
		return err
	}

	if len(sweepParams) == 0 {
		return fmt.Errorf("at least one --param is required")
	}
	params := make([]optim.Param, len(sweepParams))
	for i, s := range sweepParams {
		if params[i], err = optim.ParseParam(s); err != nil {
			return err
		}
		// reject bad paths before running anything
		if err := base.Clone().Set(params[i].Path, params[i].Values[0]); err != nil {
			return err
		}
	}

	search := optim.NewGridSearch(params...)
	if maximize {
		search.Maximize()
	}

	p := newPipeline()
	evaluate := func(ctx context.Context, values map[string]float64) (float64, error) {
		sc := base.Clone()
		for k, v := range values {
			if err := sc.Set(k, v); err != nil {
				return 0, err
			}
		}
		if err := sc.Validate(); err != nil {
			return 0, err
		}
		res, err := execute(ctx, p, sc, false)
		if err != nil {
			return 0, err
		}
		v, ok := res.metrics[metricName]
		if !ok {
			return 0, fmt.Errorf("unknown metric %q", metricName)
		}
		return v, nil
	}

	fmt.Printf("sweeping %s over %d points (metric %s)\n\n", base.Name, search.Size(), metricName)
	best, all, err := search.Search(commandContext(cmd), evaluate)
	if err != nil {
		return err
	}

	paths := make([]string, len(params))
	for i, p := range params {
		paths[i] = p.Path
	}
	sort.Strings(paths)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(paths, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, e := range all {
		cols := make([]string, len(paths))
		for i, path := range paths {
			cols[i] = fmt.Sprintf("%g", e.Params[path])
		}
		val := fmt.Sprintf("%.6f", e.Value)
		if e.Err != nil {
			val = "error: " + e.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%s\n", strings.Join(cols, "\t"), val)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best == nil {
		return fmt.Errorf("every sweep point failed")
	}
	fmt.Println("\nbest:")
	for _, path := range paths {
		fmt.Printf("  %s: %g\n", path, best.Params[path])
	}
	fmt.Printf("  %s: %.6f\n", metricName, best.Value)
	return nil
}
