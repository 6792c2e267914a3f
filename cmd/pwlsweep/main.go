// Command pwlsweep drives Persistent Weisfeiler-Lehman classification
// experiments over an external evaluator.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	pwl "github.com/vmorar/P-WL"
	"github.com/vmorar/P-WL/internal/config"
	pwlmcp "github.com/vmorar/P-WL/internal/mcp"
	"github.com/vmorar/P-WL/internal/metrics"
	"github.com/vmorar/P-WL/internal/report"
	"github.com/vmorar/P-WL/internal/runner"
	"github.com/vmorar/P-WL/internal/sweep"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("pwlsweep: ")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "run":
		err = runMain(args)
	case "watch":
		err = watchMain(args)
	case "mcp":
		err = mcpMain(args)
	case "version":
		fmt.Println(pwl.Version)
	case "help", "-h", "--help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "pwlsweep: unknown command %q\n", cmd)
		usage()
		os.Exit(2)
	}

	if err != nil {
		log.Fatal(err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: pwlsweep <command> [flags]

Commands:
  run         Run the h-parameter sweep and print the comparison table
  watch       Run the sweep, then re-run it when the dataset or config changes
  mcp         Start the MCP server
  version     Print the version
  help        Show this help

Use "pwlsweep <command> -h" for command-specific flags.`)
}

// --- shared configuration flags ---

// configFlags carries the override flags every sweep-running command
// accepts. Only flags actually set on the command line override the
// .pwlsweep file.
type configFlags struct {
	configPath string
	evaluator  string
	graphs     string
	labels     string
	from       int
	to         int
	step       int
	workers    int
	strict     bool
	timeout    time.Duration
}

func bindConfigFlags(fs *flag.FlagSet) *configFlags {
	cf := &configFlags{}
	fs.StringVar(&cf.configPath, "config", "", "path to a config file (default: discover .pwlsweep upward from the working directory)")
	fs.StringVar(&cf.evaluator, "evaluator", config.DefaultEvaluator, "evaluator program to invoke")
	fs.StringVar(&cf.graphs, "graphs", config.DefaultGraphGlob, "glob over graph files, relative to the experiment root")
	fs.StringVar(&cf.labels, "labels", config.DefaultLabelFile, "ground-truth label file")
	fs.IntVar(&cf.from, "from", 0, "first h value, inclusive")
	fs.IntVar(&cf.to, "to", 0, "last h value, inclusive")
	fs.IntVar(&cf.step, "step", 1, "stride between h values")
	fs.IntVar(&cf.workers, "workers", 1, "number of h values evaluated concurrently")
	fs.BoolVar(&cf.strict, "strict", false, "replace degraded rows with ERROR markers and exit nonzero")
	fs.DurationVar(&cf.timeout, "timeout", config.DefaultTimeout, "per-invocation timeout")
	return cf
}

// load resolves the configuration: the named config file if -config
// was given, the discovered .pwlsweep otherwise, with explicitly set
// flags applied on top.
func (cf *configFlags) load(fs *flag.FlagSet) (*config.LoadResult, error) {
	var loaded *config.LoadResult
	var err error
	if cf.configPath != "" {
		loaded, err = config.LoadFile(cf.configPath)
	} else {
		wd, wdErr := os.Getwd()
		if wdErr != nil {
			return nil, fmt.Errorf("determining workspace: %w", wdErr)
		}
		loaded, err = config.Load(wd)
	}
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cfg := loaded.Config
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "evaluator":
			cfg.Evaluator = cf.evaluator
		case "graphs":
			cfg.Graphs = cf.graphs
		case "labels":
			cfg.Labels = cf.labels
		case "from":
			cfg.Sweep.From = cf.from
		case "to":
			cfg.Sweep.To = cf.to
		case "step":
			cfg.Sweep.Step = cf.step
		case "workers":
			cfg.RawWorkers = cf.workers
		case "strict":
			cfg.Strict = cf.strict
		case "timeout":
			cfg.RawTimeout = cf.timeout.String()
		}
	})
	return loaded, nil
}

func newEngine(loaded *config.LoadResult) *sweep.Engine {
	cfg := loaded.Config
	r := &runner.Runner{
		Workspace: loaded.Root,
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
	}
	return &sweep.Engine{Config: cfg, Runner: r, Workspace: loaded.Root}
}

// --- run ---

func runMain(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	cf := bindConfigFlags(fs)
	outPath := fs.String("o", "", "write output to a file instead of stdout")
	format := fs.String("format", "text", "output format: text, csv, or json")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loaded, err := cf.load(fs)
	if err != nil {
		return err
	}
	eng := newEngine(loaded)

	issues := eng.Preflight()
	if loaded.Config.Strict && len(issues) > 0 {
		for _, is := range issues {
			log.Println(is)
		}
		return fmt.Errorf("preflight failed with %d issue(s)", len(issues))
	}
	for _, is := range issues {
		log.Println("warning:", is)
	}

	res, err := eng.Run(ctx)
	if err != nil {
		return err
	}

	// Diagnostics go to stderr; the table is the only thing on stdout.
	for _, w := range res.Warnings {
		log.Println("warning:", w)
	}

	out := io.Writer(os.Stdout)
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			return fmt.Errorf("creating %s: %w", *outPath, err)
		}
		defer f.Close()
		out = f
	}

	switch *format {
	case "text":
		_, err = io.WriteString(out, res.Table())
	case "csv":
		err = res.WriteCSV(out)
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(res.Report())
	default:
		return fmt.Errorf("unknown format %q (want text, csv, or json)", *format)
	}
	if err != nil {
		return err
	}

	if loaded.Config.Strict && res.Failed() {
		os.Exit(1)
	}
	return nil
}

// --- watch ---

func watchMain(args []string) error {
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	cf := bindConfigFlags(fs)
	metricsAddr := fs.String("metrics", "", "serve Prometheus metrics on address (e.g. :2112)")
	_ = fs.Parse(args)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	loaded, err := cf.load(fs)
	if err != nil {
		return err
	}

	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", metrics.Handler())
		srv := &http.Server{Addr: *metricsAddr, Handler: mux}
		go func() {
			<-ctx.Done()
			_ = srv.Close()
		}()
		go func() {
			log.Printf("metrics on %s", *metricsAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("metrics server: %v", err)
			}
		}()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(loaded.Root, loaded.Config) {
		if err := watcher.Add(dir); err != nil {
			log.Printf("warning: cannot watch %s: %v", dir, err)
		}
	}

	var (
		mu        sync.Mutex
		cancelRun context.CancelFunc = func() {}
		wg        sync.WaitGroup
	)
	// launch cancels any in-flight sweep and starts a fresh one, with
	// the configuration reloaded so .pwlsweep edits take effect.
	launch := func() {
		mu.Lock()
		cancelRun()
		runCtx, cancel := context.WithCancel(ctx)
		cancelRun = cancel
		mu.Unlock()

		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := cf.load(fs)
			if err != nil {
				log.Printf("reloading config: %v", err)
				return
			}
			eng := newEngine(loaded)
			for _, is := range eng.Preflight() {
				log.Println("warning:", is)
			}
			res, err := eng.Run(runCtx)
			if err != nil {
				if runCtx.Err() == nil {
					log.Printf("sweep: %v", err)
				}
				return
			}
			metrics.Observe(res)
			fmt.Print(res.Table())
			for _, w := range res.Warnings {
				log.Println("warning:", w)
			}
		}()
	}

	launch()
	for {
		select {
		case <-ctx.Done():
			mu.Lock()
			cancelRun()
			mu.Unlock()
			wg.Wait()
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Remove) {
				log.Printf("%s changed, re-running sweep", ev.Name)
				launch()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

// watchDirs lists the directories whose changes invalidate a sweep:
// the experiment root (for .pwlsweep edits), the graph directory, and
// the label directory.
func watchDirs(root string, cfg *config.Config) []string {
	graphDir := filepath.Dir(cfg.GraphGlob())
	if !filepath.IsAbs(graphDir) {
		graphDir = filepath.Join(root, graphDir)
	}
	labelDir := filepath.Dir(cfg.LabelFile())
	if !filepath.IsAbs(labelDir) {
		labelDir = filepath.Join(root, labelDir)
	}

	seen := make(map[string]bool)
	var dirs []string
	for _, d := range []string{root, graphDir, labelDir} {
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// --- mcp ---

func mcpMain(args []string) error {
	fs := flag.NewFlagSet("mcp", flag.ExitOnError)
	instructions := fs.Bool("instructions", false, "print model instructions and exit")
	httpAddr := fs.String("http", "", "start HTTP server on address (e.g. :9090)")
	_ = fs.Parse(args)

	if *instructions {
		fmt.Print(pwlmcp.Instructions)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return serveMCP(ctx, *httpAddr)
}

func serveMCP(ctx context.Context, httpAddr string) error {
	workspace, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("determining workspace: %w", err)
	}

	loaded, err := config.Load(workspace)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	disk := report.NewDiskStore()
	store := report.NewLRUStore(5, disk)

	r := &runner.Runner{
		Workspace: loaded.Root,
		Timeout:   cfg.Timeout(),
		MaxOutput: cfg.MaxOutputBytes(),
	}

	server := pwlmcp.NewServer(cfg, r, store, loaded.Root, pwlmcp.WithObserver(metrics.Observe))

	if httpAddr != "" {
		return serveHTTP(ctx, server, httpAddr)
	}
	return server.Run(ctx, &mcpsdk.StdioTransport{})
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())
	mux.Handle("/", handler)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Printf("listening on %s", addr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
