package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/goliatone/go-refdocs/cmd/refdocs/internal/bootstrap"
	"github.com/goliatone/go-refdocs/internal/audit"
	"github.com/goliatone/go-refdocs/internal/catalog"
	"github.com/goliatone/go-refdocs/internal/generator"
	"github.com/goliatone/go-refdocs/internal/review"
)

var moduleBuilder = bootstrap.BuildModule

const usageText = `Usage: refdocs <command> [flags]

Commands:
  sync       Seed the catalog from the data files
  walk       Cursor-walk the catalog (--start | --next NAME | --count)
  audit      Run the documentation coverage audit
  count      Count complexity table rows in the docs tree
  estimate   Measure a subject and fit its growth curve
  review     Run a parallel review wave over the corpus
  progress   Show the review progress snapshot
  sweep      Remove stale review locks
  build      Render the corpus to a static site
  scaffold   Write skeleton pages for undocumented catalog items
  validate   Check the corpus structure, site config, and data files
  clean      Remove the site output and build manifest
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("refdocs: %v", err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usageText)
		return errors.New("missing command")
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "sync":
		return runSync(rest)
	case "walk":
		return runWalk(rest)
	case "audit":
		return runAudit(rest)
	case "count":
		return runCount(rest)
	case "estimate":
		return runEstimate(rest)
	case "review":
		return runReview(rest)
	case "progress":
		return runProgress(rest)
	case "sweep":
		return runSweep(rest)
	case "build":
		return runBuild(rest)
	case "scaffold":
		return runScaffold(rest)
	case "validate":
		return runValidate(rest)
	case "clean":
		return runClean(rest)
	case "help", "-h", "--help":
		fmt.Fprint(os.Stdout, usageText)
		return nil
	default:
		fmt.Fprint(os.Stderr, usageText)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

// commonFlags binds the flags every subcommand shares onto fs and returns the
// bootstrap options they populate.
func commonFlags(fs *flag.FlagSet) *bootstrap.Options {
	opts := &bootstrap.Options{}
	fs.StringVar(&opts.DocsDir, "docs", "", "Path to the docs corpus root (default docs, env REFDOCS_DOCS_DIR)")
	fs.StringVar(&opts.DataDir, "data", "", "Path to the catalog data directory (default data, env REFDOCS_DATA_DIR)")
	fs.StringVar(&opts.SiteConfig, "site-config", "", "Path to the site configuration file (default site.yml)")
	fs.StringVar(&opts.Driver, "driver", "", "Database driver: sqlite3 or postgres (env REFDOCS_DB_DRIVER)")
	fs.StringVar(&opts.DSN, "dsn", "", "Database DSN (env REFDOCS_DB_DSN)")
	return opts
}

func buildEngine(opts *bootstrap.Options) (*bootstrap.Module, func(), error) {
	module, err := moduleBuilder(*opts)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap engine: %w", err)
	}
	cleanup := func() {
		if err := module.Engine.Close(); err != nil {
			module.Logger.Error("close engine", "error", err)
		}
	}
	return module, cleanup, nil
}

func runSync(args []string) error {
	fs := flag.NewFlagSet("refdocs-sync", flag.ExitOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := module.Engine.Catalog().Sync(context.Background())
	if err != nil {
		return fmt.Errorf("sync catalog: %w", err)
	}
	fmt.Printf("catalog synced: %d created, %d updated, %d removed, %d total\n",
		result.Created, result.Updated, result.Removed, result.Total)
	return nil
}

func runWalk(args []string) error {
	fs := flag.NewFlagSet("refdocs-walk", flag.ExitOnError)
	opts := commonFlags(fs)
	start := fs.Bool("start", false, "Output the first item")
	next := fs.String("next", "", "Output the item after NAME")
	count := fs.Bool("count", false, "Output total item count")
	if err := fs.Parse(args); err != nil {
		return err
	}

	selected := 0
	if *start {
		selected++
	}
	if *next != "" {
		selected++
	}
	if *count {
		selected++
	}
	if selected != 1 {
		return errors.New("walk requires exactly one of --start, --next NAME, or --count")
	}

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	svc := module.Engine.Catalog()

	switch {
	case *count:
		total, err := svc.Count(ctx)
		if err != nil {
			return fmt.Errorf("count catalog: %w", err)
		}
		fmt.Printf("Total items: %d\n", total)
	case *start:
		entry, err := svc.First(ctx)
		if err != nil {
			return fmt.Errorf("walk first item: %w", err)
		}
		fmt.Print(entry.Output)
	default:
		entry, err := svc.Next(ctx, *next)
		if err != nil {
			var complete *catalog.WalkCompleteError
			if errors.As(err, &complete) {
				fmt.Println(complete.Error())
				return nil
			}
			var notFound *catalog.NotFoundError
			if errors.As(err, &notFound) {
				fmt.Printf("Error: '%s' not found in item list.\n", *next)
				fmt.Println()
				fmt.Println("Hint: Use --start to see the first item, or check spelling.")
				return err
			}
			return fmt.Errorf("walk next item: %w", err)
		}
		fmt.Print(entry.Output)
	}
	return nil
}

func runAudit(args []string) error {
	fs := flag.NewFlagSet("refdocs-audit", flag.ExitOnError)
	opts := commonFlags(fs)
	printOnly := fs.Bool("print-only", false, "Render the report without writing the artifact")
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	svc := module.Engine.Audit()
	if svc == nil {
		return errors.New("audit feature is disabled")
	}

	if *printOnly {
		report, err := svc.Preview(ctx)
		if err != nil {
			return fmt.Errorf("preview audit: %w", err)
		}
		audit.WriteConsole(os.Stdout, report)
		return nil
	}

	result, err := svc.Run(ctx)
	if err != nil {
		return fmt.Errorf("run audit: %w", err)
	}
	audit.WriteConsole(os.Stdout, result.Report)
	fmt.Printf("\nReport written to %s\n", result.ReportPath)
	return nil
}

func runCount(args []string) error {
	fs := flag.NewFlagSet("refdocs-count", flag.ExitOnError)
	opts := commonFlags(fs)
	root := fs.String("root", "", "Root docs directory to scan (default: docs)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *root != "" {
		opts.DocsDir = *root
	}

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	report, err := module.Engine.Corpus().CountRows(context.Background())
	if err != nil {
		return fmt.Errorf("count rows: %w", err)
	}
	fmt.Printf("total_rows %d\n", report.TotalRows)
	fmt.Printf("total_files_with_rows %d\n", report.FilesWithRows)
	fmt.Printf("builtins_rows %d\n", report.BuiltinsRows)
	fmt.Printf("stdlib_rows %d\n", report.StdlibRows)
	fmt.Printf("versions_rows %d\n", report.VersionsRows)
	fmt.Printf("implementations_rows %d\n", report.ImplementationsRows)
	return nil
}

func runEstimate(args []string) error {
	fs := flag.NewFlagSet("refdocs-estimate", flag.ExitOnError)
	opts := commonFlags(fs)
	subject := fs.String("subject", "", "Name of the registered subject to measure")
	sizes := fs.String("sizes", "", "Comma separated input sizes (default 100,500,1000,2000,5000)")
	list := fs.Bool("list", false, "List the registered subjects")
	if err := fs.Parse(args); err != nil {
		return err
	}

	parsed, err := bootstrap.SplitSizes(*sizes)
	if err != nil {
		return err
	}
	opts.EstimatorSizes = parsed

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := module.Engine.Estimator()

	if *list {
		for _, s := range svc.Subjects() {
			fmt.Printf("%-16s %s\n", s.Name, s.Summary)
		}
		return nil
	}
	if *subject == "" {
		return errors.New("estimate requires --subject NAME (use --list to see subjects)")
	}

	fmt.Printf("Estimating complexity for %s...\n", *subject)
	report, err := svc.Estimate(context.Background(), *subject)
	if err != nil {
		return fmt.Errorf("estimate %s: %w", *subject, err)
	}

	fmt.Printf("%-15s | %-15s\n", "Input Size (n)", "Avg Time (s)")
	fmt.Println(strings.Repeat("-", 35))
	for _, sample := range report.Samples {
		fmt.Printf("%-15d | %.6f\n", sample.Size, sample.Seconds)
	}
	fmt.Println(strings.Repeat("-", 35))
	if report.Estimate == nil {
		fmt.Println("Insufficient data to estimate complexity.")
		return nil
	}
	fmt.Printf("Estimated Complexity: %s\n", report.Estimate.Name)
	fmt.Printf("RMSE: %.3f\n", report.Estimate.RMSE)
	return nil
}

func runReview(args []string) error {
	fs := flag.NewFlagSet("refdocs-review", flag.ExitOnError)
	opts := commonFlags(fs)
	agents := fs.Int("agents", 0, "Number of concurrent review agents (default 4)")
	timeout := fs.Duration("timeout", 0, "Per-agent timeout (default 1h)")
	dryRun := fs.Bool("dryrun", false, "List the pages a wave would review without running it")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.WithReview = true
	opts.Agents = *agents
	opts.Timeout = *timeout

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()
	svc := module.Engine.Review()
	if svc == nil {
		return errors.New("review feature is disabled")
	}

	if *dryRun {
		report, err := svc.DryRun(ctx)
		if err != nil {
			return fmt.Errorf("review dry run: %w", err)
		}
		fmt.Printf("Would review %d pages with %d agents:\n", len(report.Pages), report.Agents)
		for _, page := range report.Pages {
			fmt.Printf("  %s\n", page)
		}
		for _, page := range report.Locked {
			fmt.Printf("  %s (locked)\n", page)
		}
		return nil
	}

	result, err := svc.RunWith(ctx, review.RunOptions{Agents: *agents, Timeout: *timeout})
	if err != nil {
		return fmt.Errorf("run review: %w", err)
	}
	fmt.Printf("review wave done: %d processed, %d skipped, %d failed\n",
		result.Summary.Processed, result.Summary.Skipped, result.Summary.Failed)
	if len(result.SweptLocks) > 0 {
		fmt.Printf("swept %d leftover locks\n", len(result.SweptLocks))
	}
	fmt.Printf("Summary written to %s\n", result.SummaryPath)
	return nil
}

func runProgress(args []string) error {
	fs := flag.NewFlagSet("refdocs-progress", flag.ExitOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.WithReview = true

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := module.Engine.Review()
	if svc == nil {
		return errors.New("review feature is disabled")
	}
	_, counts, err := svc.Progress()
	if err != nil {
		return fmt.Errorf("read progress: %w", err)
	}
	fmt.Printf("progress: %d/%d completed (%.1f%%), %d in progress, %d failed, %d pending\n",
		counts.Completed, counts.Total, counts.Percent, counts.InProgress, counts.Failed, counts.Pending)
	return nil
}

func runSweep(args []string) error {
	fs := flag.NewFlagSet("refdocs-sweep", flag.ExitOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.WithReview = true

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := module.Engine.Review()
	if svc == nil {
		return errors.New("review feature is disabled")
	}
	swept, err := svc.SweepStaleLocks(context.Background())
	if err != nil {
		return fmt.Errorf("sweep locks: %w", err)
	}
	if len(swept) == 0 {
		fmt.Println("no stale locks")
		return nil
	}
	for _, lock := range swept {
		fmt.Printf("removed %s\n", lock)
	}
	return nil
}

func runBuild(args []string) error {
	fs := flag.NewFlagSet("refdocs-build", flag.ExitOnError)
	opts := commonFlags(fs)
	output := fs.String("output", "", "Site output directory (default site)")
	force := fs.Bool("force", false, "Rebuild every page, ignoring the manifest")
	dryRun := fs.Bool("dry-run", false, "Report what would be rendered without writing")
	workers := fs.Int("workers", 0, "Render worker count (default GOMAXPROCS)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.WithGenerator = true
	opts.OutputDir = *output

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := module.Engine.Generator()
	if svc == nil {
		return errors.New("generator feature is disabled")
	}
	result, err := svc.Build(context.Background(), generator.BuildOptions{
		Force:   *force,
		DryRun:  *dryRun,
		Workers: *workers,
	})
	if err != nil {
		return fmt.Errorf("build site: %w", err)
	}
	for _, diag := range result.Diagnostics {
		if diag.Err != nil {
			fmt.Printf("warning: %s: %v\n", diag.Path, diag.Err)
		}
	}
	fmt.Printf("site build: %d pages built, %d skipped, %d assets, %s\n",
		result.PagesBuilt, result.PagesSkipped, result.AssetsBuilt, result.Duration.Round(time.Millisecond))
	if len(result.Errors) > 0 {
		return fmt.Errorf("build finished with %d page errors", len(result.Errors))
	}
	return nil
}

func runScaffold(args []string) error {
	fs := flag.NewFlagSet("refdocs-scaffold", flag.ExitOnError)
	opts := commonFlags(fs)
	dryRun := fs.Bool("dry-run", false, "List the pages that would be written")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.WithGenerator = true

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := module.Engine.Generator()
	if svc == nil {
		return errors.New("generator feature is disabled")
	}
	result, err := svc.Scaffold(context.Background(), generator.ScaffoldOptions{DryRun: *dryRun})
	if err != nil {
		return fmt.Errorf("scaffold pages: %w", err)
	}
	verb := "wrote"
	if result.DryRun {
		verb = "would write"
	}
	for _, page := range result.Written {
		fmt.Printf("%s %s (%s)\n", verb, page.Path, page.FullName)
	}
	for _, path := range result.Skipped {
		fmt.Printf("skipped %s (exists)\n", path)
	}
	if len(result.Written) == 0 && len(result.Skipped) == 0 {
		fmt.Println("every catalog item has a page")
	}
	return nil
}

func runValidate(args []string) error {
	fs := flag.NewFlagSet("refdocs-validate", flag.ExitOnError)
	opts := commonFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	issues, err := module.Engine.Corpus().Validate(context.Background())
	if err != nil {
		return fmt.Errorf("validate corpus: %w", err)
	}
	if len(issues) == 0 {
		fmt.Println("corpus structure OK")
		return nil
	}
	for _, issue := range issues {
		fmt.Printf("%s: %s: %s\n", issue.Code, issue.Path, issue.Detail)
	}
	return fmt.Errorf("corpus validation found %d issues", len(issues))
}

func runClean(args []string) error {
	fs := flag.NewFlagSet("refdocs-clean", flag.ExitOnError)
	opts := commonFlags(fs)
	output := fs.String("output", "", "Site output directory (default site)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	opts.WithGenerator = true
	opts.OutputDir = *output

	module, cleanup, err := buildEngine(opts)
	if err != nil {
		return err
	}
	defer cleanup()

	svc := module.Engine.Generator()
	if svc == nil {
		return errors.New("generator feature is disabled")
	}
	if err := svc.Clean(context.Background()); err != nil {
		return fmt.Errorf("clean site: %w", err)
	}
	fmt.Println("site output removed")
	return nil
}
