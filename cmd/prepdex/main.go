package main

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Falanzi121/prepdex/internal/build"
	"github.com/Falanzi121/prepdex/internal/handler"
	"github.com/Falanzi121/prepdex/internal/llm"
	"github.com/Falanzi121/prepdex/internal/model"
	"github.com/Falanzi121/prepdex/internal/questionset"
	"github.com/Falanzi121/prepdex/internal/source"
	"github.com/Falanzi121/prepdex/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "prepdex",
		Short: "Build normalized question banks from plain-text exam dumps",
	}

	buildC := buildCmd()
	root.AddCommand(buildC, validateCmd(), importCmd(), serveCmd(), tagCmd(), statsCmd())

	// Make "build" the default when no subcommand is given.
	root.RunE = buildC.RunE

	// Register build flags on root so bare `prepdex --years ...` still works.
	root.Flags().AddFlagSet(buildC.Flags())

	return root
}

func buildCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Extract questions and answer keys from raw exam dumps",
		RunE:  runBuild,
	}
	f := cmd.Flags()
	f.IntSlice("years", build.DefaultYears, "Exam years to process (repeatable)")
	f.String("source-dir", build.DefaultSourceDir, "Directory holding raw prep_YYYY.txt dumps")
	f.String("output-dir", build.DefaultOutputDir, "Directory for question JSON artifacts")
	f.String("key-dir", build.DefaultKeyDir, "Directory for answer key files")
	f.String("source-encoding", source.DefaultEncoding, "Raw dump encoding (utf-8, latin-1, windows-1252)")
	addLogFlags(cmd)
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <file>...",
		Short: "Validate structured question files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
	addLogFlags(cmd)
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import question files into the SQLite bank",
		RunE:  runImport,
	}
	defaults := make([]string, 0, len(build.DefaultYears))
	for _, year := range build.DefaultYears {
		defaults = append(defaults, build.ArtifactPath(build.DefaultOutputDir, year))
	}
	f := cmd.Flags()
	f.String("db", "prepdex.db", "SQLite database path")
	f.StringSliceP("questions", "q", defaults, "Paths to question JSON files (repeatable)")
	addLogFlags(cmd)
	return cmd
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the read-only question bank server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "prepdex.db", "SQLite database path")
	addLogFlags(cmd)
	return cmd
}

func tagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Suggest topic tags for bank questions via an LLM",
		RunE:  runTag,
	}
	f := cmd.Flags()
	f.String("db", "prepdex.db", "SQLite database path")
	f.IntSlice("years", nil, "Exam years to tag (default: all years in the bank)")
	f.String("llm-url", "http://localhost:11434/v1", "OpenAI-compatible API base URL")
	f.String("llm-key", "ollama", "API key for LLM")
	f.String("llm-model", "llama3.2", "LLM model name")
	f.Bool("dry-run", false, "Log suggested tags without storing them")
	addLogFlags(cmd)
	return cmd
}

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Report per-year question bank statistics",
		RunE:  runStats,
	}
	f := cmd.Flags()
	f.String("db", "prepdex.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}
	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(os.Stderr, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(os.Stderr, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("PREPDEX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("prepdex")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/prepdex")
	v.AddConfigPath("/etc/prepdex")
	v.AddConfigPath("/data")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Info("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

func runBuild(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	summary := build.Run(build.Config{
		Years:     v.GetIntSlice("years"),
		SourceDir: v.GetString("source-dir"),
		OutputDir: v.GetString("output-dir"),
		KeyDir:    v.GetString("key-dir"),
		Encoding:  v.GetString("source-encoding"),
	})
	if !summary.OK() {
		return fmt.Errorf("build failed for years %v", summary.FailedYears())
	}
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	setupLogging(cmd)

	invalid := 0
	for _, path := range args {
		questions, err := questionset.Load(path)
		if err != nil {
			invalid++
			var validationErr *questionset.ValidationError
			if errors.As(err, &validationErr) {
				for _, issue := range validationErr.Issues {
					fmt.Fprintf(os.Stderr, "%s: %s: %s\n", path, issue.Field, issue.Message)
				}
			} else {
				fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			}
			continue
		}
		fmt.Printf("%s: %d questions OK\n", path, len(questions))
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d files failed validation", invalid, len(args))
	}
	return nil
}

func runImport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	for _, path := range v.GetStringSlice("questions") {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		year, err := yearFromPath(path)
		if err != nil {
			return err
		}

		hash := sha256sum(data)
		storedHash, err := db.GetImportedFileHash(path)
		if err != nil {
			return fmt.Errorf("check import status for %s: %w", path, err)
		}
		if storedHash == hash {
			slog.Info("questions file unchanged, skipping", "path", path)
			continue
		}
		if storedHash != "" {
			slog.Warn("questions file changed since last import, skipping to preserve tag edits",
				"path", path)
			continue
		}

		questions, err := questionset.Parse(data, path)
		if err != nil {
			return fmt.Errorf("parse %s: %w", path, err)
		}
		if err := db.ImportYear(year, questions); err != nil {
			return fmt.Errorf("import %s: %w", path, err)
		}
		if err := db.SetImportedFileHash(path, hash); err != nil {
			return fmt.Errorf("record import for %s: %w", path, err)
		}
		batch := model.ImportBatch{
			ID:            uuid.NewString(),
			Path:          path,
			Year:          year,
			QuestionCount: len(questions),
			ImportedAt:    time.Now().UTC(),
		}
		if err := db.RecordImportBatch(batch); err != nil {
			return fmt.Errorf("record import batch for %s: %w", path, err)
		}
		slog.Info("imported questions", "path", path, "year", year, "count", len(questions))
	}

	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	h := handler.New(db)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	h.Routes(r)

	addr := v.GetString("addr")
	slog.Info("starting server", "addr", addr, "db", v.GetString("db"))
	return http.ListenAndServe(addr, r)
}

func runTag(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	llmClient, err := llm.New(
		v.GetString("llm-url"),
		v.GetString("llm-key"),
		v.GetString("llm-model"),
	)
	if err != nil {
		return fmt.Errorf("create LLM client: %w", err)
	}
	ctx := context.Background()
	if err := llmClient.Ping(ctx); err != nil {
		return fmt.Errorf("LLM health check: %w", err)
	}
	slog.Info("LLM endpoint OK", "url", v.GetString("llm-url"), "model", v.GetString("llm-model"))

	years := v.GetIntSlice("years")
	if len(years) == 0 {
		years, err = db.ListYears()
		if err != nil {
			return fmt.Errorf("list years: %w", err)
		}
	}

	dryRun := v.GetBool("dry-run")
	updated := 0
	for _, year := range years {
		questions, err := db.QuestionsForYear(year)
		if err != nil {
			return fmt.Errorf("load year %d: %w", year, err)
		}
		for i, q := range questions {
			ord := i + 1
			if len(q.Tags) > 0 {
				continue
			}
			tags, err := llmClient.SuggestTags(ctx, q)
			if err != nil {
				slog.Error("tag suggestion failed", "year", year, "ord", ord, "error", err)
				continue
			}
			if len(tags) == 0 {
				slog.Warn("no tags suggested", "year", year, "ord", ord)
				continue
			}
			if dryRun {
				slog.Info("would tag question", "year", year, "ord", ord, "tags", tags)
				continue
			}
			if err := db.UpdateTags(year, ord, tags); err != nil {
				return fmt.Errorf("store tags for year %d question %d: %w", year, ord, err)
			}
			updated++
			slog.Info("tagged question", "year", year, "ord", ord, "tags", tags)
		}
	}

	slog.Info("tagging complete", "updated", updated, "dry_run", dryRun)
	return nil
}

func runStats(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	years, err := db.Stats()
	if err != nil {
		return fmt.Errorf("collect stats: %w", err)
	}
	if years == nil {
		years = []model.YearStats{}
	}
	batches, err := db.ListImportBatches()
	if err != nil {
		return fmt.Errorf("list import batches: %w", err)
	}
	if batches == nil {
		batches = []model.ImportBatch{}
	}

	data, err := json.MarshalIndent(model.StatsReport{Years: years, Imports: batches}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}

	outPath := v.GetString("output")
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	// Ensure trailing newline.
	_, _ = fmt.Fprintln(w)

	return nil
}

var questionFilePattern = regexp.MustCompile(`^prep_(\d+)\.json$`)

// yearFromPath derives the exam year from a question file name such as
// questions/prep_2015.json.
func yearFromPath(path string) (int, error) {
	m := questionFilePattern.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, fmt.Errorf("cannot determine year from %q: expected prep_YYYY.json", path)
	}
	return strconv.Atoi(m[1])
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
