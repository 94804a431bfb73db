// Command hxsolve solves exchanger case files and prints their profiles.
//
//	hxsolve -every 5 cases/brine_isopentane.yml
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"geothermal_cycles/internal/casefile"
	"geothermal_cycles/internal/exchanger"
	"geothermal_cycles/internal/logger"
	"geothermal_cycles/internal/service"
)

func main() {
	every := flag.Int("every", 5, "print every n-th profile element")
	level := flag.String("log", logger.WarnLevel, "log level (debug, info, warn, error)")
	listFluids := flag.Bool("fluids", false, "list the available fluids and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] case.yml...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logger.New(*level, os.Stderr)
	defer func() { _ = log.Sync() }()

	fluids, err := service.NewFluidService(0)
	if err != nil {
		log.Fatalw("fluid registry", "err", err)
	}
	if *listFluids {
		for _, f := range fluids.ListFluids() {
			fmt.Printf("%-12s Tc %.2f K  Pc %.3f MPa\n", f.Name, f.TCrit, f.PCrit/1e6)
		}
		return
	}
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	failed := 0
	for _, path := range flag.Args() {
		if err := run(ctx, path, fluids, *every, log); err != nil {
			failed++
			log.Errorw("case_failed", "path", path, "kind", exchanger.Kind(err), "err", err)
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
		}
	}
	if failed > 0 {
		os.Exit(1)
	}
}

func run(ctx context.Context, path string, fluids *service.FluidService, every int, log *logger.Logger) error {
	c, err := casefile.Load(path)
	if err != nil {
		return err
	}
	res, err := casefile.Solve(ctx, c, fluids, log)
	if err != nil {
		return err
	}
	if err := casefile.WriteReport(os.Stdout, res, every); err != nil {
		return err
	}
	fmt.Println()
	return nil
}
