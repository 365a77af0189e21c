package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/Optimiser/internal/broker"
	"github.com/MikeSquared-Agency/Optimiser/internal/config"
	"github.com/MikeSquared-Agency/Optimiser/internal/content"
	"github.com/MikeSquared-Agency/Optimiser/internal/store"
)

type analyzeOptions struct {
	subjectID       int64
	keyword         string
	secondary       []string
	metaDescription string
	title           string
	url             string
	slug            string
	postType        string
	contexts        []string
	operations      []string
	dbPath          string
	configPath      string
	force           bool
	jsonOutput      bool
	minScore        float64
}

func newAnalyzeCommand() *cobra.Command {
	opts := &analyzeOptions{}
	cmd := &cobra.Command{
		Use:   "analyze <file.html|->",
		Short: "Analyze a local HTML page",
		Long: `Analyze scores a local HTML document. Keyword and meta fields that a CMS
would normally supply are passed as flags. With --db the result is stored
in a SQLite database and unchanged pages are skipped on the next run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args[0], opts)
		},
	}

	f := cmd.Flags()
	f.Int64Var(&opts.subjectID, "id", 1, "Subject id to analyze and store the page under")
	f.StringVarP(&opts.keyword, "keyword", "k", "", "Primary keyword")
	f.StringSliceVar(&opts.secondary, "secondary", nil, "Secondary keywords (comma separated or repeated)")
	f.StringVar(&opts.metaDescription, "meta-description", "", "Meta description set in the CMS (defaults to the page's meta tag)")
	f.StringVar(&opts.title, "title", "", "Title set in the CMS (defaults to the page's <title>)")
	f.StringVar(&opts.url, "url", "", "Permalink used to classify links as internal")
	f.StringVar(&opts.slug, "slug", "", "Page slug (defaults to the file name)")
	f.StringVar(&opts.postType, "post-type", "page", "Post type")
	f.StringSliceVar(&opts.contexts, "context", nil, "Only run these contexts")
	f.StringSliceVar(&opts.operations, "operation", nil, "Only run these operations")
	f.StringVar(&opts.dbPath, "db", "", "SQLite database to persist results in")
	f.StringVar(&opts.configPath, "config", "", "Config file with weight overrides")
	f.BoolVar(&opts.force, "force", false, "Re-run even if the stored content is unchanged")
	f.BoolVar(&opts.jsonOutput, "json", false, "Print the result as JSON")
	f.Float64Var(&opts.minScore, "min-score", 0, "Exit with status 1 when the score is below this value")

	return cmd
}

func runAnalyze(cmd *cobra.Command, path string, opts *analyzeOptions) error {
	src, err := readDocument(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}
	if opts.minScore < 0 || opts.minScore > 1 {
		return fmt.Errorf("--min-score must be between 0 and 1")
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slug := opts.slug
	if slug == "" && path != "-" {
		slug = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	page := &content.Page{
		ID:                opts.subjectID,
		PostType:          opts.postType,
		Slug:              slug,
		URL:               opts.url,
		Title:             opts.title,
		HTML:              src,
		MetaDescription:   opts.metaDescription,
		PrimaryKeyword:    opts.keyword,
		SecondaryKeywords: opts.secondary,
	}

	var s store.Store
	if opts.dbPath != "" {
		db, err := store.NewSQLiteStore(opts.dbPath)
		if err != nil {
			return fmt.Errorf("opening %s: %w", opts.dbPath, err)
		}
		defer db.Close()
		s = db
	}

	debug, _ := cmd.Flags().GetBool("debug")
	b, err := broker.New(s, content.NewStaticSource(page), nil, nil, cfg, cliLogger(cmd.ErrOrStderr(), debug))
	if err != nil {
		return err
	}
	res, err := b.Analyze(cmd.Context(), broker.Request{
		SubjectID:  opts.subjectID,
		Contexts:   opts.contexts,
		Operations: opts.operations,
		Force:      opts.force,
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to write result: %w", err)
		}
	} else if err := writeReport(out, res); err != nil {
		return err
	}

	if opts.minScore > 0 && res.Score < opts.minScore {
		return &BelowFloorError{Score: res.Score, Floor: opts.minScore}
	}
	return nil
}

func readDocument(stdin io.Reader, path string) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
