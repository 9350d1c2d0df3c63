package main

// Run the extraction pipeline against a local PDF without the HTTP server:
//   go run ./cmd/prompttest -pdf policy.pdf

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"policy-backend/internal/extract"
	"policy-backend/internal/llm"
	openai "policy-backend/internal/llm/openai"
	"policy-backend/internal/shared/config"
	"policy-backend/internal/summary"
)

func main() {
	cfg := config.Load()

	pdfPath := flag.String("pdf", "", "Path to a policy PDF")
	outPath := flag.String("out", "", "Path to write the normalized summary JSON (optional)")
	model := flag.String("model", cfg.LLMModel, "Model name")
	printPrompt := flag.Bool("print-prompt", false, "Print the prompt instead of calling the provider")
	flag.Parse()

	if strings.TrimSpace(*pdfPath) == "" {
		exitErr("pdf path is required")
	}

	data, err := os.ReadFile(*pdfPath)
	if err != nil {
		exitErr(fmt.Sprintf("read pdf: %v", err))
	}
	fileName := filepath.Base(*pdfPath)

	text, err := extract.ExtractTextFromBytes(context.Background(), data, "application/pdf", fileName)
	if err != nil {
		exitErr(fmt.Sprintf("extract text: %v", err))
	}
	fmt.Fprintf(os.Stderr, "extracted %d chars from %s\n", len(text), fileName)

	if *printPrompt {
		fmt.Println(llm.BuildPrompt(text, cfg.MaxPromptChars))
		return
	}

	client, err := openai.NewClient(os.Getenv("OPENAI_API_KEY"), *model, cfg.MaxPromptChars)
	if err != nil {
		exitErr(fmt.Sprintf("build client: %v", err))
	}

	raw, err := client.ExtractPolicy(context.Background(), llm.ExtractInput{PolicyText: text, FileName: fileName})
	if err != nil {
		exitErr(fmt.Sprintf("extract policy: %v", err))
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		exitErr(fmt.Sprintf("parse model output: %v", err))
	}
	normalized, err := summary.Normalize(parsed)
	if err != nil {
		exitErr(fmt.Sprintf("normalize summary: %v", err))
	}

	out, err := json.MarshalIndent(normalized, "", "  ")
	if err != nil {
		exitErr(fmt.Sprintf("encode summary: %v", err))
	}
	if strings.TrimSpace(*outPath) != "" {
		if err := os.WriteFile(*outPath, out, 0o644); err != nil {
			exitErr(fmt.Sprintf("write output: %v", err))
		}
		return
	}
	fmt.Println(string(out))
}

func exitErr(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
