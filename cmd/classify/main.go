// Command classify labels Vietnamese text from the command line.
//
// Each argument is classified on its own; without arguments, every non-empty
// line of standard input is. Results go to stdout, logs to stderr.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/pflag"

	"github.com/pscheid92/vnsentiment/internal/adapter/memory"
	"github.com/pscheid92/vnsentiment/internal/adapter/oracle"
	"github.com/pscheid92/vnsentiment/internal/app"
	"github.com/pscheid92/vnsentiment/internal/domain"
	"github.com/pscheid92/vnsentiment/internal/platform/logging"
	"github.com/pscheid92/vnsentiment/internal/sentiment"
)

const (
	exitOK      = 0
	exitInvalid = 1
	exitUsage   = 2
)

type options struct {
	oracleURL   string
	oracleToken string
	timeout     time.Duration
	jsonOutput  bool
	stats       bool
	lexicon     string
	logLevel    string
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func parseFlags(args []string, stderr io.Writer) (options, []string, error) {
	var opts options

	fs := pflag.NewFlagSet("classify", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.oracleURL, "oracle-url", os.Getenv("ORACLE_URL"), "transformer inference endpoint (empty: rule-based only)")
	fs.StringVar(&opts.oracleToken, "oracle-token", os.Getenv("ORACLE_API_TOKEN"), "bearer token for the inference endpoint")
	fs.DurationVar(&opts.timeout, "timeout", 5*time.Second, "per-call oracle timeout")
	fs.BoolVar(&opts.jsonOutput, "json", false, "print one JSON object per result")
	fs.BoolVar(&opts.stats, "stats", false, "print per-label counts to stderr when done")
	fs.StringVar(&opts.lexicon, "lexicon", "", "YAML file overriding the embedded lexicon")
	fs.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return opts, nil, err
	}
	return opts, fs.Args(), nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, texts, err := parseFlags(args, stderr)
	if errors.Is(err, pflag.ErrHelp) {
		return exitOK
	}
	if err != nil {
		return exitUsage
	}

	slog.SetDefault(logging.New(stderr, opts.logLevel, "text"))

	tables, err := sentiment.LoadTables(opts.lexicon)
	if err != nil {
		fmt.Fprintf(stderr, "classify: %v\n", err)
		return exitUsage
	}

	orc, err := setupOracle(ctx, opts)
	if err != nil {
		fmt.Fprintf(stderr, "classify: %v\n", err)
		return exitUsage
	}

	history := memory.NewHistoryStore(clockwork.NewRealClock())
	svc := app.NewService(sentiment.NewEngine(tables, orc), history, clockwork.NewRealClock(),
		app.HistoryLimits{Default: 1, Max: 1}, nil)

	out := newPrinter(stdout, opts.jsonOutput)
	code := exitOK
	classify := func(text string) {
		result, err := svc.Classify(ctx, text)
		if errors.Is(err, domain.ErrInvalidInput) {
			fmt.Fprintf(stderr, "classify: skipping %q: text must be longer than 3 characters\n", text)
			code = exitInvalid
			return
		}
		if err != nil {
			fmt.Fprintf(stderr, "classify: %v\n", err)
			code = exitInvalid
			return
		}
		out.print(result)
	}

	if len(texts) > 0 {
		for _, text := range texts {
			classify(text)
		}
	} else {
		scanner := bufio.NewScanner(stdin)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				classify(line)
			}
		}
		if err := scanner.Err(); err != nil {
			fmt.Fprintf(stderr, "classify: failed to read input: %v\n", err)
			return exitUsage
		}
	}

	if opts.stats {
		printStats(ctx, svc, stderr)
	}
	return code
}

// setupOracle returns nil (rule-based) when no URL is given or the endpoint
// does not answer a single probe.
func setupOracle(ctx context.Context, opts options) (domain.Oracle, error) {
	if opts.oracleURL == "" {
		return nil, nil
	}

	client, err := oracle.NewClient(oracle.Config{
		URL:      opts.oracleURL,
		APIToken: opts.oracleToken,
		Timeout:  opts.timeout,
	}, nil)
	if err != nil {
		return nil, err
	}

	if err := client.Probe(ctx, oracle.ProbePolicy(1)); err != nil {
		slog.Warn("Oracle unavailable, running rule-based only", "error", err)
		return nil, nil
	}
	return client, nil
}

type printer struct {
	w    io.Writer
	json *json.Encoder
}

func newPrinter(w io.Writer, asJSON bool) *printer {
	p := &printer{w: w}
	if asJSON {
		p.json = json.NewEncoder(w)
		p.json.SetEscapeHTML(false)
	}
	return p
}

func (p *printer) print(r domain.ClassificationResult) {
	if p.json != nil {
		_ = p.json.Encode(r)
		return
	}
	fmt.Fprintf(p.w, "%-8s\t%s\n", r.Sentiment, r.Text)
}

func printStats(ctx context.Context, svc *app.Service, w io.Writer) {
	stats, err := svc.Stats(ctx)
	if err != nil {
		fmt.Fprintf(w, "classify: %v\n", err)
		return
	}
	for _, s := range domain.Sentiments {
		fmt.Fprintf(w, "%s: %d\n", s, stats[s])
	}
}
