package main

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"ligature/internal/config"
	"ligature/internal/doc"
	"ligature/internal/errors"
	"ligature/internal/interner"
	"ligature/internal/ir"
	"ligature/internal/registry"
	"ligature/repl"
)

var (
	configPath  string
	printBlocks bool
)

func main() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "ligaturec",
	Short: "Compile ligature documents into constraint blocks.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ligature.toml", "path to ligature.toml")
	compileCmd.Flags().BoolVar(&printBlocks, "print", false, "print compiled constraint blocks")
	rootCmd.AddCommand(compileCmd, replCmd)
}

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a single ligature document and report diagnostics.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}

		source, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}

		reg := registry.New()
		cfg.ApplyRegistry(reg)

		blocks, diags, compileErr := compile(path, string(source), reg)
		reportDiagnostics(path, string(source), diags)
		if compileErr != nil {
			return compileErr
		}

		if printBlocks || cfg.Compiler.PrintBlocks {
			fmt.Print(ir.PrintBlocks(blocks))
		}

		if hasErrors(diags) {
			os.Exit(1)
		}
		log.Infof("compiled %s: %d block(s)", path, len(blocks))
		return nil
	},
}

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start an interactive compile-and-print loop.",
	RunE: func(cmd *cobra.Command, args []string) error {
		repl.Start(os.Stdin, os.Stdout)
		return nil
	},
}

func compile(path, source string, reg *registry.Registry) ([]ir.Block, []errors.CompilerError, error) {
	parsed, diags := doc.Read(path, source)

	in := interner.New()
	builder := ir.NewBuilder(reg, in)
	blocks := builder.BuildDoc(parsed)
	diags = append(diags, builder.Errors()...)

	return blocks, diags, nil
}

func reportDiagnostics(filename, source string, diags []errors.CompilerError) {
	if len(diags) == 0 {
		return
	}
	reporter := errors.NewReporter(filename, source)
	for _, d := range diags {
		fmt.Fprint(os.Stderr, reporter.Format(d))
	}
}

func hasErrors(diags []errors.CompilerError) bool {
	for _, d := range diags {
		if !errors.IsWarning(d.Code) {
			return true
		}
	}
	return false
}
