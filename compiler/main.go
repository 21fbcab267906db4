package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/xiaobogaga/javamm/compiler/internal"
	"github.com/xiaobogaga/javamm/compiler/internal/ast"
	"github.com/xiaobogaga/javamm/compiler/internal/config"
)

var (
	configPath = flag.String("config", config.FileName, "the path of the toml configuration")
	output     = flag.String("o", "", "write <o>.ollir and <o>.j instead of printing to stdout")
	verbosity  = flag.Int("v", -1, "log verbosity, overrides the configuration when not negative")
)

func main() {
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: compiler [-config file] [-o prefix] [-v n] <tree file>")
		os.Exit(2)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
	if *verbosity >= 0 {
		cfg.Log.Verbosity = *verbosity
	}
	var logFile *string
	if cfg.Log.File != "" {
		logFile = &cfg.Log.File
	}
	commonlog.Configure(cfg.Log.Verbosity, logFile)

	if err = run(flag.Arg(0), cfg); err != nil {
		fmt.Printf("Error: %+v\n", err)
		os.Exit(1)
	}
}

func run(path string, cfg *config.Config) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	root, err := ast.ReadTree(f)
	if err != nil {
		return err
	}
	result, err := internal.Compile(root, cfg)
	for _, r := range result.Reports {
		fmt.Fprintln(os.Stderr, r.String())
	}
	if err != nil {
		return err
	}
	if result.HasReports() {
		return fmt.Errorf("%d problems found", len(result.Reports))
	}
	if *output == "" {
		fmt.Print(result.Ollir)
		fmt.Println()
		fmt.Print(result.Jasmin)
		return nil
	}
	if err = os.WriteFile(*output+".ollir", []byte(result.Ollir), 0644); err != nil {
		return err
	}
	return os.WriteFile(*output+".j", []byte(result.Jasmin), 0644)
}
