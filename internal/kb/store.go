package kb

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	apperrors "github.com/spec-kit/helpdesk/pkg/util"
)

// Article is a knowledge base entry stored as a markdown file. The first
// level-one heading of the file is the title; everything below it is the
// body.
type Article struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content,omitempty"`
	HTML      string    `json:"html,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store keeps articles as individual .md files under a directory, rendering
// them to HTML with goldmark on read. The markdown instance is immutable
// after construction and safe for concurrent use.
type Store struct {
	dir      string
	markdown goldmark.Markdown
}

// NewStore creates the article directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Store{
		dir: dir,
		markdown: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
	}, nil
}

// Create writes a new article and returns it without rendered HTML.
func (s *Store) Create(ctx context.Context, title, content string) (*Article, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewValidationError("article title is required", nil)
	}
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.NewValidationError("article content is required", nil)
	}
	id := uuid.NewString()
	raw := "# " + title + "\n\n" + strings.TrimSpace(content) + "\n"
	if err := os.WriteFile(s.path(id), []byte(raw), 0o644); err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	info, err := os.Stat(s.path(id))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Article{
		ID:        id,
		Title:     title,
		Content:   content,
		CreatedAt: info.ModTime().UTC(),
	}, nil
}

// List returns article summaries (no body, no HTML) sorted newest first.
func (s *Store) List(ctx context.Context) ([]Article, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	articles := []Article{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".md")
		article, err := s.read(id, false)
		if err != nil {
			continue
		}
		article.Content = ""
		articles = append(articles, *article)
	}
	sort.Slice(articles, func(i, j int) bool {
		return articles[i].CreatedAt.After(articles[j].CreatedAt)
	})
	return articles, nil
}

// Get returns a full article with its markdown rendered to HTML.
func (s *Store) Get(ctx context.Context, id string) (*Article, error) {
	article, err := s.read(id, true)
	if err != nil {
		return nil, err
	}
	return article, nil
}

// Delete removes an article file.
func (s *Store) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return apperrors.NewNotFound("article", map[string]any{"article_id": id})
	}
	err := os.Remove(s.path(id))
	if os.IsNotExist(err) {
		return apperrors.NewNotFound("article", map[string]any{"article_id": id})
	}
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	return nil
}

func (s *Store) read(id string, render bool) (*Article, error) {
	if !validID(id) {
		return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
	}
	raw, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return nil, apperrors.NewNotFound("article", map[string]any{"article_id": id})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	info, err := os.Stat(s.path(id))
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	title, body := splitTitle(string(raw))
	article := &Article{
		ID:        id,
		Title:     title,
		Content:   body,
		CreatedAt: info.ModTime().UTC(),
	}
	if render {
		var buf bytes.Buffer
		if err := s.markdown.Convert(raw, &buf); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		article.HTML = buf.String()
	}
	return article, nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".md")
}

// validID rejects anything that is not a bare UUID so ids can never escape
// the article directory.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func splitTitle(raw string) (title, body string) {
	lines := strings.SplitN(raw, "\n", 2)
	first := strings.TrimSpace(lines[0])
	if strings.HasPrefix(first, "# ") {
		title = strings.TrimSpace(strings.TrimPrefix(first, "# "))
		if len(lines) > 1 {
			body = strings.TrimSpace(lines[1])
		}
		return title, body
	}
	return "Untitled", strings.TrimSpace(raw)
}
