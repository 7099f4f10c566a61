// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/GermanBionicSystems/oled/preview"
	"github.com/GermanBionicSystems/oled/scrolllist"
	"github.com/spf13/cobra"
)

func previewCmd(a *app) *cobra.Command {
	var out string
	opts := preview.DefaultOpts
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Save every line as rendered on the display to PNG files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, dev, err := newSimDisplay(&a.cfg.Display)
			if err != nil {
				return err
			}
			f, err := loadFont(a.cfg.Font, a.cfg.FontSize, a.cfg.Gap)
			if err != nil {
				return err
			}
			list, err := scrolllist.New(dev, a.cfg.Items, f)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return err
			}
			for i := 0; i < list.Len(); i++ {
				bm := list.Bitmap(i)
				path := filepath.Join(out, fmt.Sprintf("line%02d.png", i))
				if err := preview.SavePNG(path, bm, &opts); err != nil {
					return err
				}
				a.log.Info("saved", "path", path, "item", list.Item(i), "cols", bm.Cols())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", ".", "Output directory")
	cmd.Flags().IntVar(&opts.Scale, "scale", opts.Scale, "Size of a pixel")
	cmd.Flags().IntVar(&opts.Gap, "gap", opts.Gap, "Space between pixels")
	return cmd
}
