package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/fits/pkg/fits"
)

func listCmd() *cli.Command {
	var (
		scale   bool
		records bool
	)

	return &cli.Command{
		Name:      "list",
		Usage:     "List the HDUs in a FITS file",
		ArgsUsage: "<path.fits>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "scale", Usage: "apply TSCAL/TZERO on read", Value: true, Destination: &scale},
			&cli.BoolFlag{Name: "records", Usage: "read tables as row records", Destination: &records},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			path := cmd.Args().First()
			if path == "" {
				return fmt.Errorf("usage: fits list <path.fits>")
			}
			applyReadConfig(cmd, LoadConfig(), &scale, &records)

			hdus, err := fits.Open(path, fits.WithScaling(scale), fits.WithRecords(records))
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d HDU(s)\n", path, len(hdus))
			for i, h := range hdus {
				df := h.Format()
				fmt.Printf("  %2d  %-10s %-10s shape=%v cards=%d\n",
					i, h.Name(), df.Type, df.Shape, h.Cards.Len())
			}
			return nil
		},
	}
}
