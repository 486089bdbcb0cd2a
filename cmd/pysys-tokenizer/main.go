package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/JoeySoprano420/PySys/pkg/report"
	"github.com/JoeySoprano420/PySys/pkg/tokenizer"
)

const (
	version = "0.2.0"
	usage   = `pysys-tokenizer - A rule-driven tokenizer

Usage:
  pysys-tokenizer [options]

Options:
  -h, --help               Show this help message
  -v, --version            Show version information
  --input <file>           Input file (defaults to stdin)
  --output <file>          Output file (defaults to stdout)
  --rules <file>           YAML rules file for custom tokenisation rules (optional)
  --make-rules             Generate default rules YAML to stdout
  --format <name>          json (default), report, summary or highlight
  --sort <order>           Summary order: first (default) or count
  --keep-whitespace        Emit WHITESPACE tokens instead of eliding them
  --elide-comments         Drop comment tokens from the output
  --parallel               Scan segments of the input concurrently
  --segments <n>           Number of segments for --parallel (default 4)
  --boundaries <a,b,...>   Explicit segment boundaries (byte offsets)
  --workers <n>            Worker pool size for --parallel (default 4)
  --straddle <policy>      resync (default) or reject tokens that cross a boundary
  --no-color               Plain report output
  --exit0                  Exit with code 0 even on tokenisation errors (suppress stderr)

Examples:
  pysys-tokenizer --input source.py                      # Tokens as JSON, one per line
  pysys-tokenizer --input source.py --format report      # Summary and token list
  pysys-tokenizer --input big.py --parallel --segments 8 # Scan in parallel
  pysys-tokenizer --make-rules > rules.yaml              # Start a custom rules file
  echo "x = 1" | pysys-tokenizer --format summary

Unmatched characters become ERROR tokens; they are reported on stderr after
the output is written and make the exit status 1 unless --exit0 is given.
`
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type config struct {
	showHelp, showVersion, exit0, makeRules bool
	inputFile, outputFile, rulesFile        string
	format, sortOrder                       string
	noColor                                 bool

	keepWhitespace, elideComments, parallel bool
	segments, workers                       int
	boundaries, straddle                    string
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var cfg config
	fs := flag.NewFlagSet("pysys-tokenizer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&cfg.showHelp, "h", false, "Show help")
	fs.BoolVar(&cfg.showHelp, "help", false, "Show help")
	fs.BoolVar(&cfg.showVersion, "v", false, "Show version")
	fs.BoolVar(&cfg.showVersion, "version", false, "Show version")
	fs.BoolVar(&cfg.exit0, "exit0", false, "Exit with code 0 even on errors")
	fs.BoolVar(&cfg.makeRules, "make-rules", false, "Generate default rules YAML")
	fs.StringVar(&cfg.inputFile, "input", "", "Input file (defaults to stdin)")
	fs.StringVar(&cfg.outputFile, "output", "", "Output file (defaults to stdout)")
	fs.StringVar(&cfg.rulesFile, "rules", "", "YAML rules file (optional)")
	fs.StringVar(&cfg.format, "format", "json", "Output format")
	fs.StringVar(&cfg.sortOrder, "sort", "first", "Summary order")
	fs.BoolVar(&cfg.noColor, "no-color", false, "Plain report output")
	fs.BoolVar(&cfg.keepWhitespace, "keep-whitespace", false, "Emit whitespace tokens")
	fs.BoolVar(&cfg.elideComments, "elide-comments", false, "Drop comment tokens")
	fs.BoolVar(&cfg.parallel, "parallel", false, "Scan in parallel")
	fs.IntVar(&cfg.segments, "segments", 4, "Number of segments")
	fs.StringVar(&cfg.boundaries, "boundaries", "", "Explicit segment boundaries")
	fs.IntVar(&cfg.workers, "workers", 4, "Worker pool size")
	fs.StringVar(&cfg.straddle, "straddle", string(tokenizer.StraddleResync), "Straddle policy")

	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}

	if cfg.showHelp {
		fs.Usage()
		return 0
	}

	if cfg.showVersion {
		fmt.Fprintf(stdout, "pysys-tokenizer version %s\n", version)
		return 0
	}

	if cfg.makeRules {
		data, err := tokenizer.MakeRulesFile().Marshal()
		if err != nil {
			fmt.Fprintf(stderr, "Error generating default rules: %v\n", err)
			return 1
		}
		stdout.Write(data)
		return 0
	}

	// Reject any positional arguments
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "Error: Unexpected positional arguments. Use --input and --output flags instead.\n\n")
		fs.Usage()
		return 1
	}

	input, err := readInput(cfg.inputFile, stdin)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading input: %v\n", err)
		return 1
	}

	// Load rules if specified
	rules, opts := tokenizer.DefaultRules(), tokenizer.DefaultOptions()
	if cfg.rulesFile != "" {
		rulesFile, err := tokenizer.LoadRulesFile(cfg.rulesFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error loading rules file '%s': %v\n", cfg.rulesFile, err)
			return 1
		}
		rules, opts, err = tokenizer.ApplyRulesToDefaults(rulesFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error applying rules: %v\n", err)
			return 1
		}
	}

	// Flags given on the command line win over the rules file
	opts, err = applyFlags(fs, &cfg, opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	tokens, err := tokenizer.NewTokenizerWithRules(rules, opts).Tokenize(input)
	if err != nil {
		fmt.Fprintf(stderr, "Tokenization error: %v\n", err)
		return 1
	}

	// Prepare output destination
	output := stdout
	var outputCloser io.Closer
	if cfg.outputFile != "" {
		file, err := os.Create(cfg.outputFile)
		if err != nil {
			fmt.Fprintf(stderr, "Error creating output file '%s': %v\n", cfg.outputFile, err)
			return 1
		}
		output = file
		outputCloser = file
	}

	// Write output even if there were lexical errors
	color := !cfg.noColor && cfg.outputFile == ""
	if err := writeTokens(output, &cfg, color, input, tokens); err != nil {
		fmt.Fprintf(stderr, "Error writing output: %v\n", err)
		return 1
	}

	if outputCloser != nil {
		if err := outputCloser.Close(); err != nil {
			fmt.Fprintf(stderr, "Error closing output file '%s': %v\n", cfg.outputFile, err)
			return 1
		}
	}

	// Handle tokenisation errors after outputting tokens
	if errs := tokenizer.Diagnose(input, tokens); len(errs) > 0 && !cfg.exit0 {
		for _, lexErr := range errs {
			fmt.Fprintln(stderr, lexErr)
		}
		return 1
	}
	return 0
}

// applyFlags overrides opts with every option flag that was set explicitly.
func applyFlags(fs *flag.FlagSet, cfg *config, opts tokenizer.Options) (tokenizer.Options, error) {
	var err error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "keep-whitespace":
			opts.ElideWhitespace = !cfg.keepWhitespace
		case "elide-comments":
			opts.ElideComments = cfg.elideComments
		case "parallel":
			opts.Parallel = cfg.parallel
		case "segments":
			opts.SegmentCount = cfg.segments
		case "workers":
			opts.Workers = cfg.workers
		case "straddle":
			opts.Straddle = tokenizer.StraddlePolicy(cfg.straddle)
		case "boundaries":
			var boundaries []int
			boundaries, err = parseBoundaries(cfg.boundaries)
			opts.Boundaries = boundaries
			opts.Parallel = true
		}
	})
	if err != nil {
		return opts, err
	}
	return opts, opts.Validate()
}

func parseBoundaries(s string) ([]int, error) {
	var boundaries []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		b, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("invalid boundary '%s': %w", field, err)
		}
		boundaries = append(boundaries, b)
	}
	return boundaries, nil
}

func writeTokens(w io.Writer, cfg *config, color bool, input string, tokens []tokenizer.Token) error {
	summary := tokenizer.Summarize(tokens)
	switch cfg.sortOrder {
	case "first":
	case "count":
		summary = summary.ByCount()
	default:
		return fmt.Errorf("unknown sort order '%s'", cfg.sortOrder)
	}

	r := report.New(color)
	switch cfg.format {
	case "json":
		// Output tokens as JSON, one per line
		for _, token := range tokens {
			jsonBytes, err := json.Marshal(token)
			if err != nil {
				return fmt.Errorf("JSON encoding error: %w", err)
			}
			if _, err := fmt.Fprintln(w, string(jsonBytes)); err != nil {
				return err
			}
		}
		return nil
	case "report":
		return r.Full(w, tokens, summary)
	case "summary":
		return r.Summary(w, summary)
	case "highlight":
		return r.Highlight(w, input, tokens)
	}
	return fmt.Errorf("unknown format '%s'", cfg.format)
}

// readInput reads the named file, or stdin when the name is empty.
func readInput(filename string, stdin io.Reader) (string, error) {
	if filename == "" {
		bytes, err := io.ReadAll(stdin)
		if err != nil {
			return "", err
		}
		return string(bytes), nil
	}
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}
