package generate

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"imagequest/internal/assets"
	"imagequest/internal/jobs"
	"imagequest/internal/models"
)

// ImageEditor produces a derived image for one prompt and returns the URL
// where the result can be downloaded.
type ImageEditor interface {
	EditImage(ctx context.Context, apiKey, imagePath, prompt string) (string, error)
}

// Generator runs image generation detached from the upload request. Each
// upload becomes one persisted job; the worker walks the prompts in order,
// writing "<idx><ext>" files into the character folder. A failed prompt is
// recorded on its item and skipped, never retried, and never aborts the run.
type Generator struct {
	editor  ImageEditor
	repo    *jobs.Repository
	timeout time.Duration
	client  *http.Client
}

// NewGenerator creates a generator over the AI editor and job repository.
// downloadTimeout bounds each individual result fetch; a fetch past the
// deadline abandons that image and the run continues.
func NewGenerator(editor ImageEditor, repo *jobs.Repository, downloadTimeout time.Duration) *Generator {
	return &Generator{
		editor:  editor,
		repo:    repo,
		timeout: downloadTimeout,
		client:  &http.Client{Timeout: downloadTimeout},
	}
}

// Enqueue records a job for the character and starts the worker goroutine.
// The returned job is immediately queryable while generation proceeds.
func (g *Generator) Enqueue(char *models.Character, apiKey string, prompts []string, ext string) (*models.GenerationJob, error) {
	job, err := g.repo.CreateJob(char.ID, len(prompts))
	if err != nil {
		return nil, err
	}

	go g.run(job.ID, char, apiKey, prompts, ext)
	return job, nil
}

func (g *Generator) run(jobID string, char *models.Character, apiKey string, prompts []string, ext string) {
	if err := g.repo.SetStatus(jobID, models.JobRunning); err != nil {
		log.Printf("Error marking job %s running: %v", jobID, err)
	}

	for i, prompt := range prompts {
		idx := i + 1
		log.Printf("Generating image %d/%d for character %d", idx, len(prompts), char.ID)

		if err := g.generateOne(char, apiKey, prompt, idx, ext); err != nil {
			log.Printf("Warning: image %d for character %d failed: %v", idx, char.ID, err)
			g.markFailed(jobID, idx, err)
			continue
		}

		filename := fmt.Sprintf("%d%s", idx, ext)
		if err := g.repo.MarkItemDone(jobID, idx, filename); err != nil {
			log.Printf("Error recording job item %d of %s: %v", idx, jobID, err)
		}
	}

	if err := g.repo.SetStatus(jobID, models.JobComplete); err != nil {
		log.Printf("Error marking job %s complete: %v", jobID, err)
	}
	log.Printf("Generation job %s for character %d finished", jobID, char.ID)
}

func (g *Generator) generateOne(char *models.Character, apiKey, prompt string, idx int, ext string) error {
	// Every prompt edits the original upload, not the previous result.
	resultURL, err := g.editor.EditImage(context.Background(), apiKey, char.OriginalImage, prompt)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("%d%s", idx, ext)
	if err := g.download(resultURL, filepath.Join(char.Folder, filename)); err != nil {
		return err
	}

	if err := assets.RecordManifestEntry(char.Folder, idx, filename); err != nil {
		log.Printf("Warning: failed to record manifest entry %d for character %d: %v", idx, char.ID, err)
	}
	return nil
}

func (g *Generator) markFailed(jobID string, idx int, cause error) {
	if err := g.repo.MarkItemFailed(jobID, idx, cause.Error()); err != nil {
		log.Printf("Error recording failed job item %d of %s: %v", idx, jobID, err)
	}
}

// download fetches a generated image to disk with the fixed per-fetch timeout.
func (g *Generator) download(url, destPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	outFile, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}
