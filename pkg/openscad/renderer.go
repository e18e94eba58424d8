package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/philipparndt/gocull/pkg/stl"
)

// ErrNotInstalled is returned when the openscad binary is not on PATH
var ErrNotInstalled = errors.New("openscad not found in PATH, install it from https://openscad.org/")

var (
	useRegex     = regexp.MustCompile(`^\s*use\s*<([^>]+)>`)
	includeRegex = regexp.MustCompile(`^\s*include\s*<([^>]+)>`)
)

// Renderer turns OpenSCAD sources into STL models
type Renderer struct {
	workDir string
	binary  string
	log     *slog.Logger
}

// NewRenderer creates a renderer resolving relative paths against workDir
func NewRenderer(workDir string, log *slog.Logger) *Renderer {
	return &Renderer{
		workDir: workDir,
		binary:  "openscad",
		log:     log,
	}
}

// WithBinary overrides the openscad executable name
func (r *Renderer) WithBinary(name string) *Renderer {
	r.binary = name
	return r
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL renders an OpenSCAD file to an STL file
func (r *Renderer) RenderToSTL(ctx context.Context, scadFile, outputFile string) error {
	if _, err := exec.LookPath(r.binary); err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, r.binary, "-o", outputFile, r.abs(scadFile))
	cmd.Dir = r.workDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	r.log.Debug("rendering openscad", "file", scadFile, "output", outputFile)
	if err := cmd.Run(); err != nil {
		var msg strings.Builder
		fmt.Fprintf(&msg, "failed to render %s: %v", scadFile, err)
		if stderr.Len() > 0 {
			msg.WriteString("\nstderr: ")
			msg.WriteString(stderr.String())
		}
		if stdout.Len() > 0 {
			msg.WriteString("\nstdout: ")
			msg.WriteString(stdout.String())
		}
		return errors.New(msg.String())
	}

	return nil
}

// Render renders scadFile into a temporary STL and parses it
func (r *Renderer) Render(ctx context.Context, scadFile string) (*stl.Model, error) {
	tmp, err := os.CreateTemp("", "gocull-*.stl")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	out := tmp.Name()
	tmp.Close()
	defer os.Remove(out)

	if err := r.RenderToSTL(ctx, scadFile, out); err != nil {
		return nil, err
	}

	model, err := stl.Parse(out)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered %s: %w", scadFile, err)
	}
	model.Name = strings.TrimSuffix(filepath.Base(scadFile), filepath.Ext(scadFile))
	return model, nil
}

// ResolveDependencies finds the file and everything it pulls in with use
// or include statements, as absolute paths. Cycles are followed once.
func (r *Renderer) ResolveDependencies(scadFile string) ([]string, error) {
	visited := make(map[string]bool)
	var deps []string

	if err := r.resolve(r.abs(scadFile), visited, &deps); err != nil {
		return nil, err
	}

	return deps, nil
}

func (r *Renderer) resolve(scadFile string, visited map[string]bool, deps *[]string) error {
	if visited[scadFile] {
		return nil
	}
	visited[scadFile] = true
	*deps = append(*deps, scadFile)

	fileDeps, err := r.parseDependencies(scadFile)
	if err != nil {
		return err
	}

	for _, dep := range fileDeps {
		if err := r.resolve(dep, visited, deps); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	file, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", scadFile, err)
	}
	defer file.Close()

	var deps []string
	scanner := bufio.NewScanner(file)
	scadDir := filepath.Dir(scadFile)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}

		for _, re := range []*regexp.Regexp{useRegex, includeRegex} {
			if m := re.FindStringSubmatch(line); len(m) > 1 {
				deps = append(deps, r.resolveDepPath(m[1], scadDir))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", scadFile, err)
	}

	return deps, nil
}

// resolveDepPath tries the including file's directory, then the work dir.
// Explicit ./ and ../ paths are always relative to the including file.
func (r *Renderer) resolveDepPath(depPath, currentDir string) string {
	if strings.HasPrefix(depPath, "./") || strings.HasPrefix(depPath, "../") {
		return filepath.Clean(filepath.Join(currentDir, depPath))
	}

	local := filepath.Join(currentDir, depPath)
	if _, err := os.Stat(local); err == nil {
		return filepath.Clean(local)
	}

	return filepath.Clean(filepath.Join(r.workDir, depPath))
}
