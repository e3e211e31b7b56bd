package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/xcms-dev/richtext/editor"
)

func readDocument(cmd *cobra.Command, args []string) (map[string]interface{}, error) {
	data, err := readInput(cmd, args)
	if err != nil {
		return nil, err
	}
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid document: %w", err)
	}
	return doc, nil
}

func newRenderCmd(a *app) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a JSON document as HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			var out string
			if text {
				out, err = editor.GenerateText(doc, a.exts())
			} else {
				out, err = editor.GenerateHTML(doc, a.exts())
			}
			if err != nil {
				return err
			}
			return writeLine(cmd, out)
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "Output the plain text instead of HTML")
	return cmd
}

func newMarkdownCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "markdown [file]",
		Short: "Write a JSON document as Markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd, args)
			if err != nil {
				return err
			}
			out, err := editor.GenerateMarkdown(doc, a.exts())
			if err != nil {
				return err
			}
			return writeLine(cmd, out)
		},
	}
}

func newImportCmd(a *app) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import Markdown or HTML as a JSON document",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var doc map[string]interface{}
			switch format {
			case "markdown", "md":
				doc, err = editor.ParseMarkdown(string(data), a.exts())
			case "html":
				doc, err = editor.GenerateJSON(string(data), a.exts())
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(doc, "", "  ")
			if err != nil {
				return err
			}
			return writeLine(cmd, string(out))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "markdown", "Input format: markdown or html")
	return cmd
}

func newPasteCmd(a *app) *cobra.Command {
	var docPath string
	var from, to int
	cmd := &cobra.Command{
		Use:   "paste [file]",
		Short: "Paste text into a JSON document",
		Long: `paste inserts plain text into a document the way the editor does on a
clipboard paste: text that looks like Markdown becomes rich content unless
transformPastedText is off in the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			var content interface{}
			if docPath != "" {
				data, err := os.ReadFile(docPath)
				if err != nil {
					return err
				}
				var doc map[string]interface{}
				if err := json.Unmarshal(data, &doc); err != nil {
					return fmt.Errorf("invalid document: %w", err)
				}
				content = doc
			}
			e, err := editor.New(editor.Config{Extensions: a.exts(), Content: content, Logger: slog.Default()})
			if err != nil {
				return err
			}
			if from >= 0 {
				if to < 0 {
					to = from
				}
				e.SetTextSelection(from, to)
			}
			if !e.Paste(string(text)) {
				slog.Debug("nothing pasted")
			}
			out, err := json.MarshalIndent(e.GetJSON(), "", "  ")
			if err != nil {
				return err
			}
			return writeLine(cmd, string(out))
		},
	}
	cmd.Flags().StringVar(&docPath, "doc", "", "JSON document to paste into (default: an empty document)")
	cmd.Flags().IntVar(&from, "from", -1, "Start of the replaced range (default: start of the document)")
	cmd.Flags().IntVar(&to, "to", -1, "End of the replaced range (default: --from)")
	return cmd
}
