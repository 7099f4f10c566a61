// Copyright 2018 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"bytes"
	"os"

	"github.com/GermanBionicSystems/oled/glyph"
	"github.com/spf13/cobra"
)

func bakeCmd(a *app) *cobra.Command {
	var pkg, name, out string
	cmd := &cobra.Command{
		Use:   "bake <font>",
		Short: "Convert a font to a Go source file",
		Long: `Convert a font to a Go source file declaring a *glyph.Proportional.

<font> is "basic", "go" or the path to a TrueType file; the size and gap
come from the configuration.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := loadFont(args[0], a.cfg.FontSize, a.cfg.Gap)
			if err != nil {
				return err
			}
			var b bytes.Buffer
			if err := glyph.WriteGo(&b, pkg, name, f); err != nil {
				return err
			}
			if out == "" {
				_, err = b.WriteTo(cmd.OutOrStdout())
				return err
			}
			if err := os.WriteFile(out, b.Bytes(), 0o644); err != nil {
				return err
			}
			a.log.Info("baked", "font", f.Name, "glyphs", f.Len(), "height", f.Height, "path", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&pkg, "pkg", "fonts", "Package name")
	cmd.Flags().StringVar(&name, "var", "Font", "Variable name")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file, stdout if empty")
	return cmd
}
