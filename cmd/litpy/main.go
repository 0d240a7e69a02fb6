package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cpitclaudel/litpy/internal/config"
	"github.com/cpitclaudel/litpy/internal/document"
	"github.com/cpitclaudel/litpy/internal/grammar"
	"github.com/cpitclaudel/litpy/internal/runner"
	"github.com/cpitclaudel/litpy/internal/snippet"
	"github.com/cpitclaudel/litpy/internal/ui"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "litpy [file]",
	Short: "Literate Python editing in the terminal",
	Long: `Edit literate Python files that mix code with reStructuredText-style
prose: section titles with underlines, doctest examples and backtick
quotes inside comments.

Titles, doctests and quoted spans are highlighted as you type; markup
characters can be hidden and revealed, and doctest snippets can be sent
to a Python interpreter straight from the buffer.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

var annotateCmd = &cobra.Command{
	Use:   "annotate <file>",
	Short: "Print the annotated document to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnnotate,
}

var snippetsCmd = &cobra.Command{
	Use:   "snippets <file>",
	Short: "Print every doctest snippet found in the file",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnippets,
}

var runCmd = &cobra.Command{
	Use:   "run <file>",
	Short: "Run every doctest snippet through the interpreter",
	Args:  cobra.ExactArgs(1),
	RunE:  runSnippetsExec,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(annotateCmd)
	rootCmd.AddCommand(snippetsCmd)
	rootCmd.AddCommand(runCmd)

	rootCmd.PersistentFlags().String("interpreter", "", "Interpreter command (default python3)")
	rootCmd.PersistentFlags().Bool("hide-all", false, "Start with all markup hidden")

	viper.BindPFlag("interpreter", rootCmd.PersistentFlags().Lookup("interpreter"))
}

func initConfig() {
	if err := config.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
	}
}

func readFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

func runEdit(cmd *cobra.Command, args []string) error {
	path := ""
	text := ""
	if len(args) > 0 {
		path = args[0]
		var err error
		text, err = readFile(path)
		if err != nil {
			return err
		}
	}

	if hide, _ := cmd.Flags().GetBool("hide-all"); hide {
		config.HideAllMarkup()
	}

	return ui.Run(path, text, runner.NewInterpreter())
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	text, err := readFile(args[0])
	if err != nil {
		return err
	}
	fmt.Println(ui.Annotate(text))
	return nil
}

// collectSnippets walks the document block by block and returns every
// snippet in source order.
func collectSnippets(doc *document.Doc) []snippet.Snippet {
	var out []snippet.Snippet
	for line := 0; line < doc.Lines(); line++ {
		if _, ok := grammar.ParseDoctestLine(doc.LineText(line)); !ok {
			continue
		}
		sns, err := snippet.ReadBlock(doc, doc.LineStart(line))
		if err != nil {
			continue
		}
		out = append(out, sns...)
		line = sns[len(sns)-1].LastLine
	}
	return out
}

func runSnippets(cmd *cobra.Command, args []string) error {
	text, err := readFile(args[0])
	if err != nil {
		return err
	}
	doc := document.New(text)
	sns := collectSnippets(doc)
	if len(sns) == 0 {
		return fmt.Errorf("no doctest snippets in %s", args[0])
	}
	for i, sn := range sns {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(sn.Command)
	}
	return nil
}

func runSnippetsExec(cmd *cobra.Command, args []string) error {
	text, err := readFile(args[0])
	if err != nil {
		return err
	}
	doc := document.New(text)
	sns := collectSnippets(doc)
	if len(sns) == 0 {
		return fmt.Errorf("no doctest snippets in %s", args[0])
	}

	backend := runner.NewInterpreter()
	for _, sn := range sns {
		fmt.Printf(">>> %s\n", sn.Command)
		out, err := backend.Run(sn.Command)
		if err != nil {
			return err
		}
		if out != "" {
			fmt.Println(out)
		}
	}
	return nil
}

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
