// Package report renders sweep results as text and parquet.
package report

import (
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"

	"github.com/jeongseonghan/bersim/internal/sim"
)

// Printer writes the plain-text sweep output: a header, one
// "h²<TAB><TAB>rate" line per point and a closing summary table.
type Printer struct {
	w     io.Writer
	quiet bool
	cfg   sim.Config
	sweep sim.Sweep
}

// NewPrinter returns a printer. In quiet mode only the point lines are written.
func NewPrinter(w io.Writer, cfg sim.Config, sweep sim.Sweep, quiet bool) *Printer {
	return &Printer{w: w, quiet: quiet, cfg: cfg, sweep: sweep}
}

// Header describes the simulated chain.
func (p *Printer) Header() {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.w, "Source: %s\n", p.cfg.Source)
	fmt.Fprintf(p.w, "FEC: %s\n", p.cfg.FEC)
	fmt.Fprintf(p.w, "Modulation: %s\n", p.cfg.Modulation)
	fmt.Fprintf(p.w, "Channel: %s\n", p.cfg.Channel)
	fmt.Fprintf(p.w, "Error type: %s\n", p.cfg.Error)
	fmt.Fprintf(p.w, "h²=[%f, %f] %s, with %f step\n", p.sweep.Start, p.sweep.End, p.cfg.Units, p.sweep.Step)
	fmt.Fprintf(p.w, "Iterations: %d\n", p.cfg.Iterations)
}

// Point writes one result line.
func (p *Printer) Point(r sim.Result) error {
	_, err := fmt.Fprintf(p.w, "%f\t\t%1.16f\n", r.HSquare, r.Rate)
	return err
}

// Summary renders every point with its counts, followed by aggregate
// figures.
func (p *Printer) Summary(results []sim.Result) {
	if p.quiet || len(results) == 0 {
		return
	}
	table := tablewriter.NewWriter(p.w)
	table.SetHeader([]string{"h² (" + p.cfg.Units.Name() + ")", "BER", "SER", "SNR dB", "Wrong bits", "Wrong blocks"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	for _, r := range results {
		table.Append([]string{
			fmt.Sprintf("%.2f", r.HSquare),
			fmt.Sprintf("%.3e", r.BER),
			fmt.Sprintf("%.3e", r.SER),
			fmt.Sprintf("%.2f", r.SNR),
			fmt.Sprintf("%d/%d", r.WrongBits, r.Bits),
			fmt.Sprintf("%d/%d", r.WrongBlocks, r.Blocks),
		})
	}
	sum := sim.Summarize(results)
	table.SetFooter([]string{"", fmt.Sprintf("%.3e", sum.OverallBER), "", fmt.Sprintf("%.2f", sum.MeanSNR),
		fmt.Sprintf("%d/%d", sum.WrongBits, sum.Bits), ""})
	table.Render()

	if sum.ErrorFreeAt != nil {
		fmt.Fprintf(p.w, "Error-free from h²=%f %s\n", *sum.ErrorFreeAt, p.cfg.Units)
	}
}
