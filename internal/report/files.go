package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"budgetme/internal/core"
)

// WriteFiles renders the plan once and writes the HTML and CSV reports
// concurrently into dir. Returns the paths of the written files.
func WriteFiles(ctx context.Context, title string, b *core.Budget, dir string) (htmlPath, csvPath string, err error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", "", fmt.Errorf("create report directory: %w", err)
	}

	r := Build(title, b)
	base := fileBase(title)
	htmlPath = filepath.Join(dir, base+".html")
	csvPath = filepath.Join(dir, base+".csv")

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		return writeFile(htmlPath, func(f *os.File) error { return RenderHTML(f, r) })
	})
	g.Go(func() error {
		return writeFile(csvPath, func(f *os.File) error { return WriteCSV(f, r) })
	})

	if err := g.Wait(); err != nil {
		return "", "", err
	}
	return htmlPath, csvPath, nil
}

func writeFile(path string, render func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	return nil
}

// fileBase turns a plan title into a safe file name.
func fileBase(title string) string {
	base := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '-' || r == '_':
			return r
		case r == ' ':
			return '_'
		default:
			return -1
		}
	}, title)
	if base == "" {
		base = "plan"
	}
	return base
}
