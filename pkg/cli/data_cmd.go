package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"formulastats/pkg/apps/visuals"
	"formulastats/pkg/charts"
	"formulastats/pkg/dashboard"
	"formulastats/pkg/helper"
	"formulastats/pkg/resources"
	"formulastats/pkg/roster"
	"formulastats/pkg/stats"
	"formulastats/pkg/store"

	"github.com/spf13/cobra"
)

func newScrapeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "scrape <f1|f2|f3>",
		Short: "Refresh the cached driver roster of a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, ok := roster.ParseCategory(args[0])
			if !ok {
				return &dashboard.ValidationError{Field: "category", Reason: fmt.Sprintf("%q is not one of f1, f2, f3", args[0])}
			}
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd)
			defer stop()
			r, err := s.cache.Refresh(ctx, category)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s roster: %d drivers\n", strings.ToUpper(string(category)), r.Len())
			return err
		},
	}
}

func newSeedCmd(opts *rootOptions) *cobra.Command {
	var year int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Write a demo season into the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			if err := store.Seed(s.store, year); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "seeded %d into %s\n", year, s.store.Dir())
			return err
		},
	}
	cmd.Flags().IntVar(&year, "year", 2024, "season to generate")
	return cmd
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule [year]",
		Short: "Print a season calendar",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			year, err := yearArg(s, args)
			if err != nil {
				return err
			}
			rows, err := s.svc.Schedule(year)
			if err != nil {
				return err
			}
			cells := make([][]string, len(rows))
			for i, r := range rows {
				cells[i] = r.Cells()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), helper.RenderTable(store.ScheduleHeader, cells))
			return err
		},
	}
}

// yearArg parses the optional year argument, defaulting to the newest
// season on disk.
func yearArg(s *services, args []string) (int, error) {
	if len(args) > 0 {
		year, err := strconv.Atoi(args[0])
		if err != nil {
			return 0, &dashboard.ValidationError{Field: "year", Reason: fmt.Sprintf("%q is not a year", args[0])}
		}
		return year, nil
	}
	years, err := s.svc.Years()
	if err != nil {
		return 0, err
	}
	if len(years) == 0 {
		return 0, &store.NotFoundError{What: "any season in " + s.store.Dir()}
	}
	return years[len(years)-1], nil
}

func sessionArgs(args []string) (dashboard.SessionRef, error) {
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return dashboard.SessionRef{}, &dashboard.ValidationError{Field: "year", Reason: fmt.Sprintf("%q is not a year", args[0])}
	}
	return dashboard.SessionRef{Year: year, Event: args[1], Session: args[2]}, nil
}

// paceArg reads "average", "fastest" or a lap number.
func paceArg(s string) (stats.PaceMode, int, error) {
	if lap, err := strconv.Atoi(s); err == nil {
		return stats.PaceSpecific, lap, nil
	}
	mode, err := stats.ParsePaceMode(s)
	return mode, 0, err
}

func newPaceCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pace <year> <round|event> <session> [average|fastest|<lap>]",
		Short: "Print every team's pace delta to the fastest team",
		Args:  cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			ref, err := sessionArgs(args)
			if err != nil {
				return err
			}
			mode, lap := stats.PaceAverage, 0
			if len(args) == 4 {
				if mode, lap, err = paceArg(args[3]); err != nil {
					return err
				}
			}
			deltas, err := s.svc.Pace(cmd.Context(), ref, mode, lap)
			if err != nil {
				return err
			}
			label := mode.String()
			if mode == stats.PaceSpecific {
				label = strconv.Itoa(lap)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Team pace, lap: %s\n", label)
			_, err = fmt.Fprintln(out, visuals.PaceTable(deltas))
			return err
		},
	}
}

func newRecordsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "records",
		Short: "Print the F1 all-time records from the driver roster",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			ctx, stop := signalContext(cmd)
			defer stop()
			records, err := s.svc.Records(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, r := range records {
				fmt.Fprintln(out, r.String())
			}
			return nil
		},
	}
}

func newChartCmd(opts *rootOptions) *cobra.Command {
	var (
		outDir    string
		driver    string
		lap       int
		pace      string
		compounds bool
		channels  []string
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "chart <kind> <year> <round|event> <session>",
		Short: "Render a chart to a PNG file",
		Long:  "Kinds: " + kindList() + ". Track maps need --driver and --lap.",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := charts.ParseKind(args[0])
			if err != nil {
				return err
			}
			s, err := opts.services(cmd)
			if err != nil {
				return err
			}
			ref, err := sessionArgs(args[1:])
			if err != nil {
				return err
			}
			req := dashboard.ChartRequest{
				SessionRef:    ref,
				Kind:          kind,
				ShowCompounds: compounds,
				Channels:      channels,
				Driver:        strings.ToUpper(driver),
				Lap:           lap,
			}
			if req.PaceMode, req.PaceLap, err = paceArg(pace); err != nil {
				return err
			}
			name, err := s.svc.ChartFileName(req)
			if err != nil {
				return err
			}
			exports, err := resources.NewManager(outDir, s.logger)
			if err != nil {
				return err
			}
			if force {
				if err := exports.Remove("", name); err != nil {
					return err
				}
			}
			res, err := exports.Build(cmd.Context(), "", name, resources.PNG(func(ctx context.Context) ([]byte, error) {
				img, err := s.svc.Chart(ctx, req)
				return img.PNG, err
			}))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.FilePath())
			return err
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "directory to write the PNG to")
	cmd.Flags().StringVar(&driver, "driver", "", "driver abbreviation for track maps")
	cmd.Flags().IntVar(&lap, "lap", 0, "lap number for track maps")
	cmd.Flags().StringVar(&pace, "pace", "average", "pace comparison lap: average, fastest or a lap number")
	cmd.Flags().BoolVar(&compounds, "compounds", false, "colour point scorer laps by tyre compound")
	cmd.Flags().StringSliceVar(&channels, "channels", nil, "weather channels to plot")
	cmd.Flags().BoolVar(&force, "force", false, "render again even if the file exists")
	return cmd
}

func kindList() string {
	names := make([]string, len(charts.Kinds))
	for i, k := range charts.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
