package main

import (
	"context"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/urfave/cli/v3"

	"github.com/samcharles93/fits/pkg/fits"
)

func inspectCmd() *cli.Command {
	var (
		scale    bool
		records  bool
		hduIndex int
		asJSON   bool
		showAll  bool
	)

	return &cli.Command{
		Name:      "inspect",
		Usage:     "Show headers and field layouts of a FITS file",
		ArgsUsage: "<path.fits>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "scale", Usage: "apply TSCAL/TZERO on read", Value: true, Destination: &scale},
			&cli.BoolFlag{Name: "records", Usage: "read tables as row records", Destination: &records},
			&cli.IntFlag{Name: "hdu", Usage: "inspect only this HDU (-1 for all)", Value: -1, Destination: &hduIndex},
			&cli.BoolFlag{Name: "json", Usage: "emit JSON", Destination: &asJSON},
			&cli.BoolFlag{Name: "all", Usage: "show every card, not just the geometry", Destination: &showAll},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("usage: fits inspect <path.fits>")
			}
			applyReadConfig(cmd, LoadConfig(), &scale, &records)

			hdus, err := fits.Open(path, fits.WithScaling(scale), fits.WithRecords(records))
			if err != nil {
				return err
			}

			for i, h := range hdus {
				if hduIndex >= 0 && i != hduIndex {
					continue
				}
				if asJSON {
					if err := printJSON(i, h); err != nil {
						return err
					}
					continue
				}
				printHDU(i, h, showAll)
			}
			return nil
		},
	}
}

type hduDump struct {
	Index   int        `json:"index"`
	Variant string     `json:"variant"`
	Name    string     `json:"name"`
	Type    string     `json:"type"`
	Shape   []int      `json:"shape"`
	Cards   []cardDump `json:"cards"`
	Fields  []string   `json:"fields,omitempty"`
}

type cardDump struct {
	Key     string `json:"key"`
	Value   any    `json:"value,omitempty"`
	Comment string `json:"comment,omitempty"`
}

func printJSON(i int, h *fits.HDU) error {
	df := h.Format()
	dump := hduDump{
		Index:   i,
		Variant: h.Variant.String(),
		Name:    h.Name(),
		Type:    df.Type.String(),
		Shape:   df.Shape,
	}
	for _, c := range h.Cards.Cards() {
		dump.Cards = append(dump.Cards, cardDump{Key: c.Key, Value: c.Value, Comment: c.Comment})
	}
	fields, err := h.Fields()
	if err != nil {
		return err
	}
	for _, f := range fields {
		dump.Fields = append(dump.Fields, fmt.Sprintf("%s %s", f.Name, f.Form()))
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(dump)
}

func printHDU(i int, h *fits.HDU, showAll bool) {
	df := h.Format()
	fmt.Printf("HDU %d: %s %s shape=%v\n", i, h.Name(), df.Type, df.Shape)

	if showAll {
		for _, c := range h.Cards.Cards() {
			if c.Value != nil {
				fmt.Printf("  %-8s = %v\n", c.Key, c.Value)
			} else if c.Comment != "" {
				fmt.Printf("  %-8s   %s\n", c.Key, c.Comment)
			}
		}
	}

	fields, err := h.Fields()
	if err != nil {
		fmt.Printf("  fields: %v\n", err)
		return
	}
	for j, f := range fields {
		varMark := ""
		if f.Pntr != fits.TypeNone {
			varMark = " variable"
		}
		fmt.Printf("  field %d: %-12s %-8s repeat=%d%s\n", j+1, f.Name, f.Form(), f.Leng, varMark)
	}
}
