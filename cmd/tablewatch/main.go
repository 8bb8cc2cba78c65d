package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/alexanderjulianmartinez/table-watch/internal/config"
	"github.com/alexanderjulianmartinez/table-watch/internal/runner"
	kafkasink "github.com/alexanderjulianmartinez/table-watch/internal/sink/kafka"
	"github.com/alexanderjulianmartinez/table-watch/internal/source/mysql"
)

func main() {
	if err := run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "tablewatch error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	if len(args) < 2 {
		printUsage()
		return nil
	}

	switch args[1] {
	case "check":
		return runCheck(args[2:])
	case "help", "--help", "-h":
		printUsage()
		return nil
	default:
		return fmt.Errorf("unknown command: %s", args[1])
	}
}

func runCheck(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	configPath := fs.String("config", "", "Path to config.yaml")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *configPath == "" {
		return fmt.Errorf("missing required flag: --config")
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return err
	}

	loader, err := mysql.NewLoader(cfg.Source.DSN, cfg.Source.Schema)
	if err != nil {
		return err
	}
	defer loader.Close()

	var sink runner.Sink
	if cfg.Sink != nil {
		ks := kafkasink.New(cfg.Sink.Brokers, cfg.Sink.Topic)
		defer ks.Close()
		sink = ks
	}

	report, err := runner.New(loader, sink).Run(context.Background(), cfg)
	if report != nil {
		printReport(report)
	}
	if err != nil {
		return err
	}
	if report.Failed() {
		return fmt.Errorf("quality checks failed")
	}
	return nil
}

func printReport(report *runner.Report) {
	fmt.Printf("Run %s\n", report.RunID)
	passed, failed, faults := 0, 0, 0
	for _, o := range report.Outcomes {
		switch {
		case o.Err != "":
			faults++
			fmt.Printf("FAULT %s %s: %s\n", o.Table, o.Check, o.Err)
		case o.Result.Passed:
			passed++
			fmt.Printf("PASS  %s %s: %s\n", o.Table, o.Check, o.Result.Description)
		default:
			failed++
			fmt.Printf("FAIL  %s %s [%s]: %s\n", o.Table, o.Check, o.Result.Severity, o.Result.Description)
		}
	}
	fmt.Printf("%d passed, %d failed, %d faults\n", passed, failed, faults)
}

func printUsage() {
	fmt.Print(`TableWatch - tabular data quality checks

Usage:
  tablewatch check --config <path>

Commands:
  check     Run quality checks against configured datasets
  help      Show this help message
`)
}
