package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/tomasvidal/trackseek/internal/models"
	"github.com/tomasvidal/trackseek/internal/shared"
	tu "github.com/tomasvidal/trackseek/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(io.Discard)
			output := &bytes.Buffer{}
			catalog := &tu.MockCatalogService{}
			search := &tu.MockSearchService{}

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Catalog: catalog,
				Search:  search,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.search != search {
				t.Error("expected search to be set")
			}
			if runner.resolver == nil {
				t.Error("expected resolver to be built")
			}
			if runner.engine == nil {
				t.Error("expected engine to be built")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Search: &tu.MockSearchService{}})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Search: &tu.MockSearchService{}})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Search: &tu.MockSearchService{}})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Search: &tu.MockSearchService{}})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output, Search: &tu.MockSearchService{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `{"key":"value"}`) {
				t.Errorf("expected compact JSON, got %s", output.String())
			}
		})

		t.Run("returns error on write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}, Search: &tu.MockSearchService{}})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err == nil {
				t.Error("expected error from failing writer")
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		output := &bytes.Buffer{}
		runner := NewRunner(RunnerOpts{Output: output, Search: &tu.MockSearchService{}})

		if err := runner.writePlain("hello %s\n", "world"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if output.String() != "hello world\n" {
			t.Errorf("unexpected output: %q", output.String())
		}
	})
}

func newTestApp(output *bytes.Buffer, catalog *tu.MockCatalogService, search *tu.MockSearchService) *cli.Command {
	runner := NewRunner(RunnerOpts{
		Config:  shared.DefaultConfig(),
		Catalog: catalog,
		Search:  search,
		Logger:  log.New(io.Discard),
		Output:  output,
	})

	return &cli.Command{
		Name:     "trackseek",
		Commands: runner.register(),
	}
}

func TestResolveTrackCommand(t *testing.T) {
	t.Run("resolves from descriptor flags", func(t *testing.T) {
		output := &bytes.Buffer{}
		search := &tu.MockSearchService{
			SongResults: []models.Candidate{
				{Title: "Yellow", Artists: []string{"Coldplay"}, Duration: 266, Locator: "abc123", Album: "Parachutes"},
			},
		}
		app := newTestApp(output, &tu.MockCatalogService{}, search)

		args := []string{"trackseek", "resolve", "track",
			"--name", "Yellow", "--artist", "Coldplay", "--album", "Parachutes", "--duration", "266"}
		if err := app.Run(context.Background(), args); err != nil {
			t.Fatalf("command failed: %v", err)
		}

		got := output.String()
		if !strings.Contains(got, "https://music.youtube.com/watch?v=abc123") {
			t.Errorf("expected watch URL in output, got: %s", got)
		}
		if !strings.Contains(got, "strategy: exact") {
			t.Errorf("expected strategy in output, got: %s", got)
		}
	})

	t.Run("reports no match without failing", func(t *testing.T) {
		output := &bytes.Buffer{}
		app := newTestApp(output, &tu.MockCatalogService{}, &tu.MockSearchService{})

		args := []string{"trackseek", "resolve", "track",
			"--name", "Yellow", "--artist", "Coldplay", "--duration", "266"}
		if err := app.Run(context.Background(), args); err != nil {
			t.Fatalf("command failed: %v", err)
		}

		if !strings.Contains(output.String(), "✗ No confident match") {
			t.Errorf("expected no-match message, got: %s", output.String())
		}
	})

	t.Run("rejects incomplete descriptor", func(t *testing.T) {
		output := &bytes.Buffer{}
		app := newTestApp(output, &tu.MockCatalogService{}, &tu.MockSearchService{})

		args := []string{"trackseek", "resolve", "track", "--name", "Yellow"}
		if err := app.Run(context.Background(), args); err == nil {
			t.Error("expected error for descriptor without artists")
		}
	})

	t.Run("fetches descriptor from catalog by id", func(t *testing.T) {
		output := &bytes.Buffer{}
		catalog := &tu.MockCatalogService{
			TrackResult: &models.TrackDescriptor{
				Name: "Yellow", Artists: []string{"Coldplay"}, Album: "Parachutes", Duration: 266,
			},
		}
		search := &tu.MockSearchService{
			SongResults: []models.Candidate{
				{Title: "Yellow", Artists: []string{"Coldplay"}, Duration: 266, Locator: "abc123"},
			},
		}
		app := newTestApp(output, catalog, search)

		args := []string{"trackseek", "resolve", "track", "--id", "sp1", "--json", "--pretty=false"}
		if err := app.Run(context.Background(), args); err != nil {
			t.Fatalf("command failed: %v", err)
		}

		if !strings.Contains(output.String(), `"locator":"abc123"`) {
			t.Errorf("expected JSON resolution, got: %s", output.String())
		}
	})
}
