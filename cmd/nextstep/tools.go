package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/nextstep/internal/config"
	"github.com/xxxsen/nextstep/internal/embedding"
	"github.com/xxxsen/nextstep/internal/match"
	"github.com/xxxsen/nextstep/internal/model"
	"github.com/xxxsen/nextstep/internal/parser"
)

func parseFile(path string) (*model.ParsedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parser.Parse(data, path)
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func runParse(w io.Writer, path string) error {
	doc, err := parseFile(path)
	if err != nil {
		return err
	}
	return writeJSON(w, doc)
}

// runScore compares a resume file with a plain text job description. The
// semantic component is only computed when cfg configures embeddings.
func runScore(ctx context.Context, w io.Writer, cfg *config.Config, resumePath, jobPath string) error {
	doc, err := parseFile(resumePath)
	if err != nil {
		return err
	}
	raw, err := os.ReadFile(jobPath)
	if err != nil {
		return err
	}
	jobText := string(raw)

	var resumeVec, jobVec []float32
	if cfg != nil {
		engine, err := newEmbeddingEngine(cfg.Embedding, nil)
		if err != nil {
			return err
		}
		vecs, err := engine.Encode(ctx, []string{embedding.TruncateInput(doc.Text), embedding.TruncateInput(jobText)})
		if err != nil {
			logutil.GetLogger(ctx).Warn("embedding failed, scoring without semantic component", zap.Error(err))
		} else {
			resumeVec, jobVec = vecs[0], vecs[1]
		}
	}
	result := match.Score(doc.Text, resumeVec, jobText, jobVec)
	if err := writeJSON(w, result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}
