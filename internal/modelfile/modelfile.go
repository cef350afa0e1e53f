// Package modelfile manages the ONNX model files the pose backends load.
// Models are fetched once into a local model directory and verified by
// checksum when one is known.
package modelfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/cheggaaa/pb/v3"
)

// DefaultBaseURL is the release bucket the model files are published to.
const DefaultBaseURL = "https://storage.googleapis.com/bachatrainer-models"

// Model describes a downloadable model file.
type Model struct {
	Name      string
	File      string
	InputSize int
	SHA256    string // empty means no checksum verification
}

var registry = map[string]Model{
	"movenet-lightning": {
		Name:      "movenet-lightning",
		File:      "movenet_singlepose_lightning.onnx",
		InputSize: 192,
	},
	"movenet-thunder": {
		Name:      "movenet-thunder",
		File:      "movenet_singlepose_thunder.onnx",
		InputSize: 256,
	},
	"yolov8s-pose": {
		Name:      "yolov8s-pose",
		File:      "yolov8s-pose.onnx",
		InputSize: 640,
	},
}

// Lookup returns the registry entry for a model name.
func Lookup(name string) (Model, error) {
	m, ok := registry[name]
	if !ok {
		return Model{}, fmt.Errorf("unknown model %q", name)
	}
	return m, nil
}

// Names lists the registered model names.
func Names() []string {
	return []string{"movenet-lightning", "movenet-thunder", "yolov8s-pose"}
}

// Fetcher downloads model files into a local directory.
type Fetcher struct {
	BaseURL  string
	ModelDir string
	Client   *http.Client
	Progress bool
}

func NewFetcher(baseURL, modelDir string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		BaseURL:  baseURL,
		ModelDir: modelDir,
		Client:   &http.Client{Timeout: 10 * time.Minute},
	}
}

// Path returns where a model file lives locally, fetched or not.
func (f *Fetcher) Path(m Model) string {
	return filepath.Join(f.ModelDir, m.File)
}

// Fetch downloads a model unless it is already present and passes its
// checksum. It returns the local path.
func (f *Fetcher) Fetch(name string) (string, error) {
	m, err := Lookup(name)
	if err != nil {
		return "", err
	}
	dst := f.Path(m)

	if _, err := os.Stat(dst); err == nil {
		if verifyErr := f.verify(m, dst); verifyErr == nil {
			log.Printf("[models] %s already present", m.File)
			return dst, nil
		}
		log.Printf("[models] %s failed verification, refetching", m.File)
	}

	if err := os.MkdirAll(f.ModelDir, 0755); err != nil {
		return "", fmt.Errorf("create model directory: %w", err)
	}

	url := f.BaseURL + "/" + m.File
	log.Printf("[models] fetching %s", url)
	resp, err := f.Client.Get(url)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", m.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch %s: unexpected status %s", m.Name, resp.Status)
	}

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", tmp, err)
	}

	var body io.Reader = resp.Body
	var bar *pb.ProgressBar
	if f.Progress && resp.ContentLength > 0 {
		bar = pb.Full.Start64(resp.ContentLength)
		body = bar.NewProxyReader(resp.Body)
	}
	_, err = io.Copy(out, body)
	if bar != nil {
		bar.Finish()
	}
	if err != nil {
		out.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("download %s: %w", m.Name, err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", err
	}

	if err := f.verify(m, tmp); err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := os.Rename(tmp, dst); err != nil {
		return "", err
	}
	return dst, nil
}

func (f *Fetcher) verify(m Model, path string) error {
	if m.SHA256 == "" {
		return nil
	}
	in, err := os.Open(path)
	if err != nil {
		return err
	}
	defer in.Close()

	h := sha256.New()
	if _, err := io.Copy(h, in); err != nil {
		return err
	}
	sum := hex.EncodeToString(h.Sum(nil))
	if sum != m.SHA256 {
		return fmt.Errorf("checksum mismatch for %s: got %s, want %s", m.File, sum, m.SHA256)
	}
	return nil
}
