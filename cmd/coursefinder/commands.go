package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/poiesic/coursefinder"
	"github.com/poiesic/coursefinder/ai"
	"github.com/poiesic/coursefinder/core"
	"github.com/poiesic/coursefinder/distance"
	"github.com/poiesic/coursefinder/indexer"
	"github.com/poiesic/coursefinder/server"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

// openFinder builds a Finder from the global flags. The vector index and the
// AI provider are only opened when withIndex is set, so lookups that never
// touch embeddings do not lock the index directory.
func openFinder(c *cli.Context, withIndex bool) (*coursefinder.Finder, error) {
	opts := []coursefinder.FinderOption{
		coursefinder.WithEquivalencyTable(c.String("equivalencies")),
		coursefinder.WithMapboxToken(c.String("mapbox-token")),
		coursefinder.WithRedisURL(c.String("redis-url")),
		coursefinder.WithDistanceCacheTTL(c.Duration("distance-cache-ttl")),
		coursefinder.WithPromptDir(c.String("prompts")),
	}
	if step := c.Float64("distance-grid"); step > 0 {
		opts = append(opts, coursefinder.WithDistanceKeyPolicy(distance.RoundedKey(step)))
	}

	if withIndex {
		aiConfig := ai.NewConfig(
			ai.WithEmbeddingHost(c.String("embedding-host")),
			ai.WithEmbeddingModel(c.String("embedding-model")),
			ai.WithEmbeddingToken(c.String("embedding-token")),
			ai.WithChatHost(c.String("chat-host")),
			ai.WithChatModel(c.String("chat-model")),
			ai.WithChatToken(c.String("chat-token")),
			ai.WithTemperature(c.Float64("temperature")),
			ai.WithTimeout(c.Duration("ai-timeout")),
		)
		if err := aiConfig.Validate(); err != nil {
			return nil, fmt.Errorf("invalid AI configuration: %w", err)
		}
		opts = append(opts,
			coursefinder.WithAIConfig(aiConfig),
			coursefinder.WithIndexPath(c.String("index")),
		)
	}

	finder, err := coursefinder.NewFinder(c.String("catalog"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return finder, nil
}

func serveCommand(c *cli.Context) error {
	finder, err := openFinder(c, true)
	if err != nil {
		return err
	}
	defer finder.Close()

	opts := []server.Option{
		server.WithSessionTTL(c.Duration("session-ttl")),
		server.WithRequireLocation(c.Bool("require-location")),
	}
	if c.Bool("access-log") {
		opts = append(opts, server.WithAccessLog(c.App.Writer))
	}
	srv, err := finder.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Listen(c.String("addr"))
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func indexCommand(c *cli.Context) error {
	config := &indexer.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		Force:          c.Bool("force"),
	}
	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	finder, err := openFinder(c, true)
	if err != nil {
		return err
	}
	defer finder.Close()

	ix, err := finder.NewIndexer(config, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to create indexer: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Catalog: %s\n", c.String("catalog"))
	fmt.Fprintf(os.Stderr, "Index: %s\n", c.String("index"))
	fmt.Fprintf(os.Stderr, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(os.Stderr, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(os.Stderr)

	if _, err := ix.Run(c.Context); err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}
	return nil
}

func searchTitleCommand(c *cli.Context) error {
	query, err := argText(c, "query")
	if err != nil {
		return err
	}
	finder, err := openFinder(c, true)
	if err != nil {
		return err
	}
	defer finder.Close()

	var monitor *verboseMonitor
	if c.Bool("verbose") {
		monitor = newVerboseMonitor(os.Stderr)
	}
	results, err := finder.Searcher().SearchByTitleWithMonitor(c.Context, query, flagLocation(c), monitor.orNoop())
	if err != nil {
		return err
	}
	printCourses(c.App.Writer, results)
	return nil
}

func searchCodeCommand(c *cli.Context) error {
	suffix, err := argText(c, "code suffix")
	if err != nil {
		return err
	}
	finder, err := openFinder(c, false)
	if err != nil {
		return err
	}
	defer finder.Close()

	results, err := finder.Searcher().SearchByCode(c.Context, suffix, flagLocation(c))
	if err != nil {
		return err
	}
	printCourses(c.App.Writer, results)
	return nil
}

func searchProfessorCommand(c *cli.Context) error {
	name, err := argText(c, "name")
	if err != nil {
		return err
	}
	finder, err := openFinder(c, false)
	if err != nil {
		return err
	}
	defer finder.Close()

	results, err := finder.Searcher().SearchByProfessor(c.Context, name)
	if err != nil {
		return err
	}
	printProfessors(c.App.Writer, results)
	return nil
}

func askCommand(c *cli.Context) error {
	question, err := argText(c, "question")
	if err != nil {
		return err
	}
	finder, err := openFinder(c, true)
	if err != nil {
		return err
	}
	defer finder.Close()

	assistant, err := finder.NewAssistant()
	if err != nil {
		return err
	}
	answer, err := assistant.Answer(c.Context, question, nil)
	if err != nil {
		return err
	}

	fmt.Fprintln(c.App.Writer, answer.Answer)
	if len(answer.RelevantCourses) > 0 {
		fmt.Fprintf(c.App.Writer, "\nRelevant courses: %s\n", strings.Join(answer.RelevantCourses, ", "))
	}
	return nil
}

func prereqsCommand(c *cli.Context) error {
	finder, err := openFinder(c, false)
	if err != nil {
		return err
	}
	defer finder.Close()

	graph := finder.Catalog().PrerequisiteGraph(c.String("subject"))
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(graph)
}

// argText joins the positional arguments into one search string.
func argText(c *cli.Context, what string) (string, error) {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return "", fmt.Errorf("%s is required", what)
	}
	return text, nil
}

func flagLocation(c *cli.Context) *core.Location {
	if !c.IsSet("lat") || !c.IsSet("lon") {
		return nil
	}
	return &core.Location{Latitude: c.Float64("lat"), Longitude: c.Float64("lon")}
}

func printCourses(w io.Writer, results []core.CourseResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	fmt.Fprintf(w, "Found %d courses\n", len(results))
	for i, r := range results {
		fmt.Fprintf(w, "\n%d: %s (%s)\n", i+1, r.Title, r.CourseNumber)
		fmt.Fprintf(w, "   Prerequisites: %s\n", r.Prerequisites)

		sections := make([]string, 0, len(r.Instructors))
		for _, names := range r.Instructors {
			sections = append(sections, strings.Join(names, ", "))
		}
		fmt.Fprintf(w, "   Instructors: %s\n", strings.Join(sections, " | "))

		for _, eq := range r.Equivalencies {
			miles := "distance unknown"
			if eq.Distance != nil {
				miles = fmt.Sprintf("%.2f mi", *eq.Distance)
			}
			fmt.Fprintf(w, "   - %s %s %s [%s] (%s)\n", eq.CommunityCollege, eq.Code, eq.Name, eq.TransferCredit, miles)
		}
	}
}

func printProfessors(w io.Writer, results []core.ProfessorResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No results found")
		return
	}
	for _, r := range results {
		if r.Professor == core.NoExactMatch {
			fmt.Fprintf(w, "No exact match. Did you mean: %s\n", strings.Join(r.Suggestions, "; "))
			continue
		}
		fmt.Fprintln(w, r.Professor)
		refs := append([]core.CourseRef(nil), r.Courses...)
		sort.SliceStable(refs, func(i, j int) bool { return refs[i].CourseString < refs[j].CourseString })
		for _, ref := range refs {
			fmt.Fprintf(w, "   %s %s\n", ref.CourseString, ref.Title)
		}
	}
}
