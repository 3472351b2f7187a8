package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	apiclient "github.com/donaldgifford/gamepass-price-scanner/internal/api/client"
	domain "github.com/donaldgifford/gamepass-price-scanner/pkg/types"
)

const timeLayout = "2006-01-02 15:04:05"

// tabWriter wraps tabwriter with error tracking.
type tabWriter struct {
	*tabwriter.Writer
	err error
}

func newTabWriter(w io.Writer) *tabWriter {
	return &tabWriter{Writer: tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)}
}

func (tw *tabWriter) writef(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.Writer, format, args...)
}

func (tw *tabWriter) finish() error {
	if tw.err != nil {
		return tw.err
	}
	return tw.Flush()
}

func printPrice(w io.Writer, p *apiclient.PriceResponse) error {
	tw := newTabWriter(w)
	tw.writef("Item:\t%s\n", p.ItemID)
	if p.Details != nil && p.Details.Name != "" {
		tw.writef("Name:\t%s\n", p.Details.Name)
	}
	if p.Details != nil && p.Details.Creator.Name != "" {
		tw.writef("Creator:\t%s\n", p.Details.Creator.Name)
	}
	tw.writef("Price:\t%s\n", robux(p.DisplayPrice))
	tw.writef("After fee:\t%s\n", robux(p.AmountReceivedAfterFee))
	tw.writef("Regional pricing:\t%s\n", yesNo(p.RegionalPricingEnabled))
	if p.Strategy != "" {
		src := p.Strategy
		if p.UsedFallback {
			src += " (fallback)"
		}
		tw.writef("Source:\t%s\n", src)
	}
	return tw.finish()
}

func printDetails(w io.Writer, d *domain.PriceDetails) error {
	tw := newTabWriter(w)
	tw.writef("Item:\t%s\n", d.ItemID)
	tw.writef("Name:\t%s\n", d.Name)
	if d.Description != "" {
		tw.writef("Description:\t%s\n", truncate(d.Description, 60))
	}
	if d.UniverseID != 0 {
		tw.writef("Universe:\t%d\n", d.UniverseID)
	}
	tw.writef("Creator:\t%s (%s %d)\n", d.Creator.Name, d.Creator.Type, d.Creator.ID)
	tw.writef("Default price:\t%s\n", robux(d.DefaultPrice))
	tw.writef("Display price:\t%s\n", robux(d.DisplayPrice))
	tw.writef("Price experiment:\t%s\n", yesNo(d.InPriceOptimization))
	for _, f := range d.EnabledFeatures {
		tw.writef("Feature:\t%s\n", f)
	}
	return tw.finish()
}

// printScan prints one row per requested item followed by the summary. A
// missing result means the item failed to resolve.
func printScan(w io.Writer, ids []domain.ItemID, results []*domain.ScanResult, s domain.BatchSummary) error {
	tw := newTabWriter(w)
	tw.writef("ITEM\tPRICE\tAFTER FEE\n")
	for i, id := range ids {
		var r *domain.ScanResult
		if i < len(results) {
			r = results[i]
		}
		if r == nil {
			tw.writef("%s\t%s\t%s\n", id, "failed", "-")
			continue
		}
		tw.writef("%s\t%s\t%s\n", id, robux(r.DisplayPrice), robux(r.AmountReceivedAfterFee))
	}
	tw.writef("\n")
	tw.writef("Scanned:\t%d\n", s.ItemsScanned)
	tw.writef("Priced:\t%d\n", s.ItemsWithPrice)
	tw.writef("Without price:\t%d\n", s.ItemsWithoutPrice())
	tw.writef("Total:\t%d R$\n", s.TotalPriceSum)
	return tw.finish()
}

func printHistory(w io.Writer, obs []domain.PriceObservation, total int) error {
	tw := newTabWriter(w)
	tw.writef("OBSERVED\tPRICE\tAFTER FEE\tRUN\n")
	for i := range obs {
		o := &obs[i]
		tw.writef("%s\t%s\t%s\t%s\n",
			o.ObservedAt.Local().Format(timeLayout),
			robux(o.DisplayPrice),
			robux(o.AmountReceivedAfterFee),
			o.ScanRunID,
		)
	}
	tw.writef("\n%d of %d observations\n", len(obs), total)
	return tw.finish()
}

func printScanRuns(w io.Writer, runs []domain.ScanRun) error {
	tw := newTabWriter(w)
	tw.writef("ID\tTRIGGER\tSTARTED\tDURATION\tSCANNED\tPRICED\tTOTAL\n")
	for i := range runs {
		r := &runs[i]
		tw.writef("%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID,
			r.Trigger,
			r.StartedAt.Local().Format(timeLayout),
			r.Duration.Round(time.Millisecond),
			r.Summary.ItemsScanned,
			r.Summary.ItemsWithPrice,
			r.Summary.TotalPriceSum,
		)
	}
	return tw.finish()
}

func printDiag(w io.Writer, d map[string]any) error {
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tw := newTabWriter(w)
	for _, k := range keys {
		tw.writef("%s:\t%v\n", k, d[k])
	}
	return tw.finish()
}

func outputJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func robux(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d R$", *p)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
