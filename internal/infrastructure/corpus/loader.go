package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kirillkom/corrective-rag/internal/core/domain"
	"github.com/kirillkom/corrective-rag/internal/core/ports"
)

type fileDocument struct {
	ID   string   `yaml:"id"`
	Text string   `yaml:"text"`
	Tags []string `yaml:"tags"`
}

type corpusFile struct {
	Documents []fileDocument `yaml:"documents"`
}

// Load reads the seed corpus. An empty or missing path means an empty
// corpus, not an error.
func Load(path string) ([]domain.Document, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read corpus file: %w", err)
	}

	var file corpusFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}

	now := time.Now().UTC()
	out := make([]domain.Document, 0, len(file.Documents))
	for i, entry := range file.Documents {
		if strings.TrimSpace(entry.Text) == "" {
			return nil, fmt.Errorf("corpus document %d: text is required", i)
		}
		id := strings.TrimSpace(entry.ID)
		if id == "" {
			id = fmt.Sprintf("doc-%d", i+1)
		}
		out = append(out, domain.Document{
			ID:        id,
			Text:      entry.Text,
			Tags:      entry.Tags,
			CreatedAt: now,
		})
	}
	return out, nil
}

// Seed loads documents into the store in file order.
func Seed(ctx context.Context, store ports.DocumentStore, docs []domain.Document) error {
	for i := range docs {
		if err := store.Add(ctx, &docs[i]); err != nil {
			return fmt.Errorf("seed document %q: %w", docs[i].ID, err)
		}
	}
	return nil
}
