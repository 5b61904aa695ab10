// Package main is the Techou CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/notewell/techou/internal/cli"
	"github.com/notewell/techou/internal/config"
	"github.com/notewell/techou/internal/counter"
	"github.com/notewell/techou/internal/format"
	"github.com/notewell/techou/internal/importer"
	"github.com/notewell/techou/internal/models"
	"github.com/notewell/techou/internal/search"
	"github.com/notewell/techou/internal/server"
	"github.com/notewell/techou/internal/storage"
	"github.com/notewell/techou/internal/watcher"
	"github.com/notewell/techou/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/techou/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "techou server" from the project dir uses the project's
// config (including debug). Returns the config and the path actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "search":
		runSearch()
	case "count":
		runCount()
	case "weights":
		runWeights()
	case "import":
		runImport()
	case "notebook":
		runNotebook()
	case "page":
		runPage()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("techou version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Usage: techou <command> [flags]

Commands:
  server     Run the notebook search server
  search     Search pages in a notebook (requires a running server)
  count      Show word statistics for a notebook or page
  weights    List, set, or delete word weights
  import     Import text files into a notebook (direct storage access)
  notebook   Create, list, rename, or delete notebooks
  page       Add, list, show, edit, or delete pages
  status     Show server status
  version    Print version
  help       Show this help

Run "techou <command> -h" for command flags.`)
}

// components holds the wired-up core shared by server mode and direct
// storage commands.
type components struct {
	Storage   storage.Storage
	Engine    *search.Engine
	Counter   *counter.Counter
	Weights   *counter.WeightTable
	Formatter *format.Formatter
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*components, error) {
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	weights := counter.NewWeightTable()
	persisted, err := store.GetWeights(context.Background())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("load weights: %w", err)
	}
	for word, weight := range persisted {
		if err := weights.Set(word, weight); err != nil {
			logger.Warn("skipping invalid persisted weight",
				zap.String("word", word), zap.Float64("weight", weight))
		}
	}

	return &components{
		Storage: store,
		Engine:  search.NewEngine(time.Duration(cfg.Search.RegexTimeoutMs) * time.Millisecond),
		Counter: &counter.Counter{
			FilterStopwords: cfg.Count.FilterStopwords,
			StopwordLang:    cfg.Count.StopwordLang,
		},
		Weights:   weights,
		Formatter: &format.Formatter{ContextSize: cfg.Search.ContextSize},
	}, nil
}

func (c *components) Close() {
	if c.Storage != nil {
		c.Storage.Close()
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (file imports, directory changes, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer comps.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()

	var watchSvc *watcher.Watcher
	if len(cfg.Watch.Directories) > 0 {
		imp := importer.New(comps.Storage, cfg.Watch.Notebook, cfg.Watch.Extensions,
			importer.WithLogger(logger))
		watchOpts := []watcher.Option{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc = watcher.New(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				if err := imp.ImportFile(context.Background(), path); err != nil {
					logger.Warn("watch import failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				if err := imp.RemoveFile(context.Background(), path); err != nil {
					logger.Warn("watch remove failed", zap.String("path", path), zap.Error(err))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		// Pick up files that appeared while the server was down.
		for _, dir := range cfg.Watch.Directories {
			if err := imp.ImportDir(watchCtx, dir, cfg.Watch.RecursiveOrDefault()); err != nil {
				logger.Warn("initial import failed", zap.String("dir", dir), zap.Error(err))
			}
		}
	}

	srv := server.NewServer(
		comps.Engine,
		comps.Counter,
		comps.Weights,
		comps.Formatter,
		comps.Storage,
		cfg,
		logger,
	)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	if watchSvc != nil {
		watchSvc.Stop()
	}
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

func printSearchUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: techou search -notebook <name> [flags] <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. In keyword mode each argument is a separate term.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Modes:
  basic     Case-insensitive substring match in page text and names (default).
  advanced  Substring match with -case-sensitive, -whole-word, -name-only.
  regex     The query is a regular expression applied to page text.
  keyword   Every argument must appear in the page (case-insensitive AND).

Examples:
  techou search -notebook journal morning pages
  techou search -notebook journal -mode advanced -whole-word cat
  techou search -notebook journal -mode regex '^Chapter \d+'
  techou search -notebook journal -mode keyword coffee budget
`)
}

// buildSearchText joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func buildSearchText(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// searchArgsReorder moves any flags (and their values) that appear after the
// query to the front of the slice so that flag.Parse() sees them. Go's flag
// package stops at the first non-flag argument, so "techou search query -mode
// regex" would otherwise leave -mode unparsed.
func searchArgsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func parseOutputFormat(name string) (cli.OutputFormat, error) {
	switch name {
	case "text":
		return cli.OutputText, nil
	case "json":
		return cli.OutputJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text or json", name)
	}
}

// searchRequest mirrors the body of POST /api/v1/search.
type searchRequest struct {
	Notebook string `json:"notebook,omitempty"`
	models.SearchQuery
}

// searchResponse mirrors the response of POST /api/v1/search.
type searchResponse struct {
	Matches   []format.MatchView `json:"matches"`
	Total     int                `json:"total"`
	QueryTime int64              `json:"query_time_ms"`
}

func runSearch() {
	searchArgs := searchArgsReorder(os.Args[2:])

	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	notebook := fs.String("notebook", "", "notebook name to search in (required)")
	mode := fs.String("mode", "basic", "search mode: basic, advanced, regex, or keyword")
	caseSensitive := fs.Bool("case-sensitive", false, "match case exactly (advanced mode)")
	wholeWord := fs.Bool("whole-word", false, "match whole words only (advanced mode)")
	nameOnly := fs.Bool("name-only", false, "match page names only (advanced mode)")
	rank := fs.Bool("rank", false, "order keyword results by occurrence count")
	outputFormat := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() { printSearchUsage(fs) }
	_ = fs.Parse(searchArgs)

	if *notebook == "" || fs.NArg() < 1 {
		printSearchUsage(fs)
		os.Exit(1)
	}
	outFmt, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	req := &searchRequest{
		Notebook: *notebook,
		SearchQuery: models.SearchQuery{
			Mode:              models.SearchMode(*mode),
			CaseSensitive:     *caseSensitive,
			WholeWord:         *wholeWord,
			NameOnly:          *nameOnly,
			RankByOccurrences: *rank,
		},
	}
	if req.Mode == models.ModeKeyword {
		req.Terms = fs.Args()
	} else {
		req.Text = buildSearchText(fs.Args())
	}

	resp, err := searchViaHTTP(*serverURL, req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, resp.Matches, resp.QueryTime, outFmt); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, req *searchRequest) (*searchResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

func runCount() {
	fs := flag.NewFlagSet("count", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	notebook := fs.String("notebook", "", "notebook name (required)")
	pageName := fs.String("page", "", "page name (counts the whole notebook when empty)")
	top := fs.Int("top", 0, "number of top words to list (0 = server default)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	if *notebook == "" {
		fmt.Println("Usage: techou count -notebook <name> [-page <name>] [flags]")
		os.Exit(1)
	}
	outFmt, err := parseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	nb, err := notebookByName(*serverURL, *notebook)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
		os.Exit(1)
	}

	statsPath := "/api/v1/notebooks/" + url.PathEscape(nb.ID) + "/stats"
	if *pageName != "" {
		page, err := pageByName(*serverURL, nb.ID, *pageName)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
			os.Exit(1)
		}
		statsPath = "/api/v1/pages/" + url.PathEscape(page.ID) + "/stats"
	}
	if *top > 0 {
		statsPath += fmt.Sprintf("?top=%d", *top)
	}

	var view format.CountView
	if err := getJSON(*serverURL+statsPath, &view); err != nil {
		fmt.Fprintf(os.Stderr, "Count failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteCountView(os.Stdout, view, outFmt); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func runWeights() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: techou weights <list|set|delete> [args]")
		fmt.Println("  techou weights list                 List all word weights")
		fmt.Println("  techou weights set <word> <weight>  Set a word's weight")
		fmt.Println("  techou weights delete <word>        Reset a word to the default weight")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("weights", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])

	switch sub {
	case "list":
		var weights map[string]float64
		if err := getJSON(*serverURL+"/api/v1/weights", &weights); err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		if len(weights) == 0 {
			fmt.Println("No custom weights set; every word counts as 1.")
			return
		}
		for word, weight := range weights {
			fmt.Printf("%-20s %.2f\n", word, weight)
		}
	case "set":
		if fs.NArg() < 2 {
			fmt.Println("Usage: techou weights set <word> <weight>")
			os.Exit(1)
		}
		word := fs.Arg(0)
		var weight float64
		if _, err := fmt.Sscanf(fs.Arg(1), "%f", &weight); err != nil {
			fmt.Printf("Invalid weight %q: %v\n", fs.Arg(1), err)
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]float64{"weight": weight})
		req, _ := http.NewRequest(http.MethodPut,
			*serverURL+"/api/v1/weights/"+url.PathEscape(word), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if err := doExpect(req, http.StatusOK); err != nil {
			fmt.Fprintf(os.Stderr, "Set failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Set: %s = %.2f\n", word, weight)
	case "delete":
		if fs.NArg() < 1 {
			fmt.Println("Usage: techou weights delete <word>")
			os.Exit(1)
		}
		word := fs.Arg(0)
		req, _ := http.NewRequest(http.MethodDelete,
			*serverURL+"/api/v1/weights/"+url.PathEscape(word), nil)
		if err := doExpect(req, http.StatusOK); err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted: %s\n", word)
	default:
		fmt.Printf("Unknown weights subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	notebook := fs.String("notebook", "", "target notebook name (default from config)")
	recursive := fs.Bool("recursive", true, "descend into subdirectories")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: techou import [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	target := cfg.Watch.Notebook
	if *notebook != "" {
		target = *notebook
	}

	comps, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer comps.Close()

	imp := importer.New(comps.Storage, target, cfg.Watch.Extensions, importer.WithLogger(logger))
	ctx := context.Background()
	info, err := os.Stat(path)
	if err != nil {
		fmt.Printf("Failed to stat path: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		if err := imp.ImportDir(ctx, path, *recursive); err != nil {
			fmt.Printf("Import failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Imported directory %s into notebook %q\n", path, target)
		return
	}
	if err := imp.ImportFile(ctx, path); err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Imported %s into notebook %q\n", path, target)
}

func runNotebook() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: techou notebook <create|list|rename|delete> [args]")
		fmt.Println("  techou notebook create <name>          Create a notebook")
		fmt.Println("  techou notebook list                   List notebooks")
		fmt.Println("  techou notebook rename <name> <new>    Rename a notebook")
		fmt.Println("  techou notebook delete <name>          Delete a notebook and its pages")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("notebook", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[3:])

	switch sub {
	case "create":
		if fs.NArg() < 1 {
			fmt.Println("Usage: techou notebook create <name>")
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]string{"name": fs.Arg(0)})
		resp, err := http.Post(*serverURL+"/api/v1/notebooks", "application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Create failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Create failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		var nb models.Notebook
		if err := json.NewDecoder(resp.Body).Decode(&nb); err != nil {
			fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created notebook %q (%s)\n", nb.Name, nb.ID)
	case "list":
		var notebooks []models.Notebook
		if err := getJSON(*serverURL+"/api/v1/notebooks", &notebooks); err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		for _, nb := range notebooks {
			fmt.Printf("%-36s  %s\n", nb.ID, nb.Name)
		}
	case "rename":
		if fs.NArg() < 2 {
			fmt.Println("Usage: techou notebook rename <name> <new-name>")
			os.Exit(1)
		}
		nb, err := notebookByName(*serverURL, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rename failed: %v\n", err)
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]string{"name": fs.Arg(1)})
		req, _ := http.NewRequest(http.MethodPut,
			*serverURL+"/api/v1/notebooks/"+url.PathEscape(nb.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if err := doExpect(req, http.StatusOK); err != nil {
			fmt.Fprintf(os.Stderr, "Rename failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Renamed %q to %q\n", fs.Arg(0), fs.Arg(1))
	case "delete":
		if fs.NArg() < 1 {
			fmt.Println("Usage: techou notebook delete <name>")
			os.Exit(1)
		}
		nb, err := notebookByName(*serverURL, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}
		req, _ := http.NewRequest(http.MethodDelete,
			*serverURL+"/api/v1/notebooks/"+url.PathEscape(nb.ID), nil)
		if err := doExpect(req, http.StatusOK); err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted notebook %q\n", fs.Arg(0))
	default:
		fmt.Printf("Unknown notebook subcommand: %s\n", sub)
		os.Exit(1)
	}
}

func runPage() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: techou page <add|list|show|rename|write|delete> [args]")
		fmt.Println("  techou page add -notebook <nb> <name> [text...]   Add a page (text from args or stdin)")
		fmt.Println("  techou page list -notebook <nb>                   List a notebook's pages in order")
		fmt.Println("  techou page show -notebook <nb> <name>            Print a page's text")
		fmt.Println("  techou page rename -notebook <nb> <name> <new>    Rename a page")
		fmt.Println("  techou page write -notebook <nb> <name> [text...] Replace a page's text")
		fmt.Println("  techou page delete -notebook <nb> <name>          Delete a page")
		os.Exit(1)
	}
	sub := os.Args[2]
	args := searchArgsReorder(os.Args[3:])
	fs := flag.NewFlagSet("page", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	notebook := fs.String("notebook", "", "notebook name (required)")
	_ = fs.Parse(args)

	if *notebook == "" {
		fmt.Println("The -notebook flag is required.")
		os.Exit(1)
	}
	nb, err := notebookByName(*serverURL, *notebook)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	switch sub {
	case "add":
		if fs.NArg() < 1 {
			fmt.Println("Usage: techou page add -notebook <nb> <name> [text...]")
			os.Exit(1)
		}
		name := fs.Arg(0)
		text, err := pageTextFromArgsOrStdin(fs.Args()[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
			os.Exit(1)
		}
		body, _ := json.Marshal(models.PageInput{Name: name, Text: text})
		resp, err := http.Post(*serverURL+"/api/v1/notebooks/"+url.PathEscape(nb.ID)+"/pages",
			"application/json", bytes.NewReader(body))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Add failed: %v\n", err)
			os.Exit(1)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			b, _ := io.ReadAll(resp.Body)
			fmt.Fprintf(os.Stderr, "Add failed (%d): %s\n", resp.StatusCode, string(b))
			os.Exit(1)
		}
		fmt.Printf("Added page %q to notebook %q\n", name, nb.Name)
	case "list":
		var pages []models.Page
		if err := getJSON(*serverURL+"/api/v1/notebooks/"+url.PathEscape(nb.ID)+"/pages", &pages); err != nil {
			fmt.Fprintf(os.Stderr, "List failed: %v\n", err)
			os.Exit(1)
		}
		for _, p := range pages {
			fmt.Printf("%3d. %s\n", p.Position+1, p.Name)
		}
	case "show":
		if fs.NArg() < 1 {
			fmt.Println("Usage: techou page show -notebook <nb> <name>")
			os.Exit(1)
		}
		page, err := pageByName(*serverURL, nb.ID, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Show failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(page.Text)
	case "rename":
		if fs.NArg() < 2 {
			fmt.Println("Usage: techou page rename -notebook <nb> <name> <new-name>")
			os.Exit(1)
		}
		page, err := pageByName(*serverURL, nb.ID, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Rename failed: %v\n", err)
			os.Exit(1)
		}
		newName := fs.Arg(1)
		body, _ := json.Marshal(map[string]string{"name": newName})
		req, _ := http.NewRequest(http.MethodPut,
			*serverURL+"/api/v1/pages/"+url.PathEscape(page.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if err := doExpect(req, http.StatusOK); err != nil {
			fmt.Fprintf(os.Stderr, "Rename failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Renamed page %q to %q\n", fs.Arg(0), newName)
	case "write":
		if fs.NArg() < 1 {
			fmt.Println("Usage: techou page write -notebook <nb> <name> [text...]")
			os.Exit(1)
		}
		page, err := pageByName(*serverURL, nb.ID, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
			os.Exit(1)
		}
		text, err := pageTextFromArgsOrStdin(fs.Args()[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Read failed: %v\n", err)
			os.Exit(1)
		}
		body, _ := json.Marshal(map[string]string{"text": text})
		req, _ := http.NewRequest(http.MethodPut,
			*serverURL+"/api/v1/pages/"+url.PathEscape(page.ID), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		if err := doExpect(req, http.StatusOK); err != nil {
			fmt.Fprintf(os.Stderr, "Write failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Updated page %q\n", fs.Arg(0))
	case "delete":
		if fs.NArg() < 1 {
			fmt.Println("Usage: techou page delete -notebook <nb> <name>")
			os.Exit(1)
		}
		page, err := pageByName(*serverURL, nb.ID, fs.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}
		req, _ := http.NewRequest(http.MethodDelete,
			*serverURL+"/api/v1/pages/"+url.PathEscape(page.ID), nil)
		if err := doExpect(req, http.StatusOK); err != nil {
			fmt.Fprintf(os.Stderr, "Delete failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted page %q\n", fs.Arg(0))
	default:
		fmt.Printf("Unknown page subcommand: %s\n", sub)
		os.Exit(1)
	}
}

// pageTextFromArgsOrStdin joins remaining args as the page text, or reads
// all of stdin when no args are given (supports "techou page add x < file").
func pageTextFromArgsOrStdin(args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if fi, err := os.Stdin.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// statusResponse is the shape of GET /api/v1/status.
type statusResponse struct {
	Notebooks      int64                  `json:"notebooks"`
	Pages          int64                  `json:"pages"`
	Weights        int                    `json:"weights"`
	DiskUsageBytes *int64                 `json:"disk_usage_bytes,omitempty"`
	Config         map[string]interface{} `json:"config,omitempty"`
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	var status statusResponse
	if err := getJSON(*serverURL+"/api/v1/status", &status); err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("notebooks:        %d\n", status.Notebooks)
		fmt.Printf("pages:            %d\n", status.Pages)
		fmt.Printf("weights:          %d   # words with a custom weight\n", status.Weights)
		if status.DiskUsageBytes != nil {
			fmt.Printf("disk_usage_bytes: %d\n", *status.DiskUsageBytes)
		}
		if len(status.Config) > 0 {
			fmt.Println()
			fmt.Println("# configuration")
			for _, key := range []string{"database_path", "context_size", "regex_timeout_ms"} {
				if v, ok := status.Config[key]; ok {
					fmt.Printf("%-17s %v\n", key+":", v)
				}
			}
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// notebookByName resolves a notebook name through the server's listing.
func notebookByName(serverURL, name string) (*models.Notebook, error) {
	var notebooks []models.Notebook
	if err := getJSON(serverURL+"/api/v1/notebooks", &notebooks); err != nil {
		return nil, err
	}
	for i := range notebooks {
		if notebooks[i].Name == name {
			return &notebooks[i], nil
		}
	}
	return nil, fmt.Errorf("notebook %q not found", name)
}

// pageByName resolves a page name within a notebook through the server.
func pageByName(serverURL, notebookID, name string) (*models.Page, error) {
	var pages []models.Page
	if err := getJSON(serverURL+"/api/v1/notebooks/"+url.PathEscape(notebookID)+"/pages", &pages); err != nil {
		return nil, err
	}
	for i := range pages {
		if pages[i].Name == name {
			return &pages[i], nil
		}
	}
	return nil, fmt.Errorf("page %q not found", name)
}

func getJSON(endpoint string, out interface{}) error {
	resp, err := http.Get(endpoint)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func doExpect(req *http.Request, want int) error {
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
