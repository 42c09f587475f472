/*
Copyright 2021 TuneLab, Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package plot implements the exploratory objective correlation charts.
package plot

import (
	"context"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/tunelab/tunectl/cli/internal/commander"
	"github.com/tunelab/tunectl/internal/analysis"
	"github.com/tunelab/tunectl/internal/plot"
	"github.com/tunelab/tunectl/internal/render"
	"github.com/tunelab/tunectl/tuningapi/config"
	tuningv1alpha1 "github.com/tunelab/tunectl/tuningapi/tuning/v1alpha1"
)

// Options is the configuration for plotting tuning job results
type Options struct {
	// Config is the client configuration
	Config *config.ClientConfig
	// TuningAPI is used to interact with the tuning service
	TuningAPI tuningv1alpha1.API
	// Printer renders the chart descriptions in the requested format
	Printer commander.ResourcePrinter
	// IOStreams are used to access the standard process streams
	commander.IOStreams

	// Name is the tuning job to plot
	Name string
	// OutputFile redirects the rendered output to a file
	OutputFile string
	// Open launches a browser on the rendered output (implies an HTML file)
	Open bool
	// Width is the ANSI plot area width in columns
	Width int
	// Height is the ANSI plot area height in rows
	Height int
}

// NewCommand creates a new plot command
func NewCommand(o *Options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot NAME",
		Short: "Plot the trial results of a tuning job",
		Long:  "Produce one scatter chart of objective value per hyperparameter, plus objective value over trial start time",
		Args:  cobra.ExactArgs(1),

		Annotations: map[string]string{
			commander.PrinterAllowedFormats: "ansi,html,json,yaml",
			commander.PrinterOutputFormat:   "ansi",
		},

		PreRunE: func(cmd *cobra.Command, args []string) error {
			commander.SetStreams(&o.IOStreams, cmd)
			o.Name = args[0]
			if o.TuningAPI == nil {
				return commander.SetTuningAPI(&o.TuningAPI, o.Config, cmd)
			}
			return nil
		},
		RunE: commander.WithContextE(o.plot),
	}

	cmd.Flags().StringVar(&o.OutputFile, "output-file", o.OutputFile, "write the rendered charts to `file` instead of stdout")
	cmd.Flags().BoolVar(&o.Open, "open", o.Open, "open the rendered charts in a browser (uses the HTML format)")
	cmd.Flags().IntVar(&o.Width, "width", 72, "plot area width for terminal output")
	cmd.Flags().IntVar(&o.Height, "height", 18, "plot area height for terminal output")

	_ = cmd.MarkFlagFilename("output-file")

	commander.SetPrinter(nil, &o.Printer, cmd, map[string]commander.AdditionalFormat{
		"ansi": commander.ResourcePrinterFunc(func(obj interface{}, w io.Writer) error {
			list, ok := obj.(*plot.ChartList)
			if !ok {
				return fmt.Errorf("expected chart list, got %T", obj)
			}
			return render.NewANSIRenderer(o.Width, o.Height).Render(w, *list)
		}),
		"html": commander.ResourcePrinterFunc(func(obj interface{}, w io.Writer) error {
			list, ok := obj.(*plot.ChartList)
			if !ok {
				return fmt.Errorf("expected chart list, got %T", obj)
			}
			r, err := render.NewHTMLRenderer()
			if err != nil {
				return err
			}
			return r.Render(w, *list)
		}),
	})

	return cmd
}

func (o *Options) plot(ctx context.Context) error {
	job, err := o.TuningAPI.GetTuningJobByName(ctx, tuningv1alpha1.NewJobName(o.Name))
	if err != nil {
		return err
	}

	if job.Status != tuningv1alpha1.JobCompleted {
		_, _ = fmt.Fprintf(o.ErrOut, "warning: tuning job %q is %s, results may be partial\n", o.Name, job.Status)
	}

	l, err := o.TuningAPI.GetAllTrials(ctx, job.Trials, &tuningv1alpha1.TrialListQuery{})
	if err != nil {
		return err
	}

	ranked := analysis.Rank(l.Trials, job.Objective.Direction)
	if len(ranked.Ranked) == 0 {
		_, _ = fmt.Fprintf(o.ErrOut, "warning: no trials reported a usable %s value, charts will be empty\n", job.Objective.Name)
	}

	name := job.DisplayName
	if name == "" {
		name = o.Name
	}
	charts, notes := plot.BuildCharts(name, ranked.Ranked, job.Ranges, job.Objective.Name)
	for _, note := range notes {
		_, _ = fmt.Fprintf(o.ErrOut, "note: %s\n", note)
	}

	if o.Open {
		return o.openInBrowser(&charts)
	}

	out := o.Out
	if o.OutputFile != "" {
		f, err := os.Create(o.OutputFile)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	return o.Printer.PrintObj(&charts, out)
}

// openInBrowser renders an HTML report to the output file (or a temporary file) and opens it
func (o *Options) openInBrowser(charts *plot.ChartList) error {
	filename := o.OutputFile
	if filename == "" {
		dir, err := ioutil.TempDir("", "tunectl-plot")
		if err != nil {
			return err
		}
		filename = filepath.Join(dir, o.Name+".html")
	}

	f, err := os.Create(filename)
	if err != nil {
		return err
	}

	r, err := render.NewHTMLRenderer()
	if err != nil {
		_ = f.Close()
		return err
	}
	if err := r.Render(f, *charts); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	_, _ = fmt.Fprintf(o.ErrOut, "opening %s\n", filename)
	return browser.OpenFile(filename)
}
