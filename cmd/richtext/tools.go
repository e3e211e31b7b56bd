package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xcms-dev/richtext/classname"
	"github.com/xcms-dev/richtext/markdown"
)

func newSniffCmd() *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "sniff [file]",
		Short: "Tell whether a text looks like Markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			text := string(data)
			if err := writeLine(cmd, fmt.Sprint(markdown.LooksLikeMarkdown(text))); err != nil {
				return err
			}
			if !explain {
				return nil
			}
			for _, name := range markdown.MatchingPatterns(text) {
				if err := writeLine(cmd, name); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "List the Markdown patterns found in the text")
	return cmd
}

func newClassnameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classname <class>...",
		Short: "Check CSS class lists",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var invalid []string
			for _, class := range args {
				status := "valid"
				if !classname.IsValid(class) {
					status = "invalid"
					invalid = append(invalid, class)
				}
				if err := writeLine(cmd, fmt.Sprintf("%q: %s", class, status)); err != nil {
					return err
				}
			}
			if len(invalid) > 0 {
				return fmt.Errorf("invalid class names: %s", strings.Join(invalid, ", "))
			}
			return nil
		},
	}
}
