package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"gopkg.in/yaml.v3"

	"github.com/Nairod97425/Rag/internal/models"
	"github.com/Nairod97425/Rag/pkg/config"
	"github.com/Nairod97425/Rag/pkg/rag"
)

// testCase is one entry of the evaluation question set.
type testCase struct {
	Question    string `yaml:"question"`
	GroundTruth string `yaml:"ground_truth"`
}

func main() {
	var configPath string
	var questionsPath string
	var outputPath string

	flag.StringVar(&configPath, "config", "", "Path to config file")
	flag.StringVar(&questionsPath, "questions", "", "YAML question set (overrides config)")
	flag.StringVar(&outputPath, "out", "", "CSV output file (overrides config)")
	flag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, e := range errs {
			color.Red("config: %v", e)
		}
		os.Exit(1)
	}
	if questionsPath == "" {
		questionsPath = cfg.Eval.QuestionsFile
	}
	if outputPath == "" {
		outputPath = cfg.Eval.OutputFile
	}
	if questionsPath == "" {
		color.Red("No question set: pass -questions or set eval.questions_file")
		os.Exit(1)
	}

	cases, err := loadQuestions(questionsPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := run(cfg, cases, outputPath); err != nil {
		log.Fatal(err)
	}
}

func loadQuestions(path string) ([]testCase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading question set: %w", err)
	}
	var cases []testCase
	if err := yaml.Unmarshal(data, &cases); err != nil {
		return nil, fmt.Errorf("parsing question set: %w", err)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("question set %s is empty", path)
	}
	return cases, nil
}

// run asks every question sequentially and writes one CSV row per
// answer record. Retries wrap the whole ask, bounded by eval.max_retries;
// the core itself never retries.
func run(cfg *config.Config, cases []testCase, outputPath string) error {
	ctx := context.Background()
	engine := rag.New(rag.ConfigFrom(cfg))
	defer engine.Close()

	color.Blue("Interrogation du RAG sur %d questions", len(cases))
	bar := progressbar.NewOptions(len(cases),
		progressbar.OptionSetDescription(color.BlueString(" Evaluating...")),
		progressbar.OptionSetItsString("questions"),
		progressbar.OptionShowCount(),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)

	records := make([]*models.AnswerRecord, 0, len(cases))
	for _, tc := range cases {
		record, err := askWithRetry(ctx, engine, tc.Question, cfg.Eval.MaxRetries)
		if err != nil {
			return fmt.Errorf("question %q: %w", tc.Question, err)
		}
		records = append(records, record)
		bar.Add(1)
	}
	bar.Finish()

	if err := writeCSV(outputPath, cases, records); err != nil {
		return err
	}
	color.Green("\n✓ Résultats sauvegardés dans %s\n", outputPath)
	return nil
}

func askWithRetry(ctx context.Context, engine *rag.Engine, question string, maxRetries int) (*models.AnswerRecord, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		record, err := engine.AskWithContext(ctx, question)
		if err == nil {
			return record, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

// writeCSV emits the Ragas column layout: user_input, response,
// retrieved_contexts (JSON array), reference.
func writeCSV(path string, cases []testCase, records []*models.AnswerRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"user_input", "response", "retrieved_contexts", "reference"}); err != nil {
		return err
	}
	for i, record := range records {
		contexts, err := json.Marshal(record.Contexts)
		if err != nil {
			return err
		}
		row := []string{
			record.Question,
			record.Answer,
			string(contexts),
			cases[i].GroundTruth,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
