package engineering

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Store defines the persistence interface for projects.
// Projects are loaded and saved whole. Save is a compare-and-swap on
// Project.Version: it fails with ErrConflict when the stored version is not
// the one the caller loaded, and bumps Version on success.
type Store interface {
	// Load returns ErrNoProject (as *Error) when no project exists for key.
	Load(ctx context.Context, key string) (*Project, error)
	Save(ctx context.Context, key string, p *Project) error
}

// checkVersion enforces the compare-and-swap rule shared by every Store.
func checkVersion(key string, exists bool, stored int64, p *Project) error {
	if !exists {
		if p.Version != 0 {
			return Conflict(key, 0, p.Version)
		}
		return nil
	}
	if stored != p.Version {
		return Conflict(key, stored, p.Version)
	}
	return nil
}

// encodeNext marshals p as it will be stored after a successful save.
func encodeNext(p *Project) ([]byte, int64, error) {
	next := *p
	next.Version = p.Version + 1
	data, err := json.MarshalIndent(&next, "", "  ")
	if err != nil {
		return nil, 0, fmt.Errorf("marshaling project: %w", err)
	}
	return data, next.Version, nil
}

// DecodeProject parses a stored project record.
func DecodeProject(data []byte) (*Project, error) {
	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing project: %w", err)
	}
	return Normalize(&p), nil
}

// EncodeProject serializes a project the way stores persist it.
func EncodeProject(p *Project) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling project: %w", err)
	}
	return data, nil
}

// --- FileStore ---

const (
	// ProjectsDir is the subdirectory of the data dir holding project files.
	ProjectsDir = "projects"
	// ProjectFileExt is the extension of project records.
	ProjectFileExt = ".json"
)

// FileStore implements Store with one JSON file per project.
// Writes go to a temp file and are renamed into place so a record is never
// observed half-written.
type FileStore struct {
	dir string
	mu  sync.Mutex
}

// NewFileStore creates a filesystem-backed project store rooted at dataDir.
func NewFileStore(dataDir string) *FileStore {
	return &FileStore{dir: filepath.Join(dataDir, ProjectsDir)}
}

// ProjectPath returns the file a project key is stored in.
func (fs *FileStore) ProjectPath(key string) string {
	return filepath.Join(fs.dir, fileName(key))
}

// Load reads the project stored for key.
func (fs *FileStore) Load(ctx context.Context, key string) (*Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(fs.ProjectPath(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, NoProject(key)
		}
		return nil, fmt.Errorf("reading project: %w", err)
	}
	p, err := DecodeProject(data)
	if err != nil {
		return nil, fmt.Errorf("project %q: %w", key, err)
	}
	return p, nil
}

// Save writes the project if its version still matches the stored one.
func (fs *FileStore) Save(ctx context.Context, key string, p *Project) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()

	path := fs.ProjectPath(key)
	exists, stored := false, int64(0)
	if data, err := os.ReadFile(path); err == nil {
		current, err := DecodeProject(data)
		if err != nil {
			return fmt.Errorf("project %q: %w", key, err)
		}
		exists, stored = true, current.Version
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("reading project: %w", err)
	}
	if err := checkVersion(key, exists, stored, p); err != nil {
		return err
	}

	data, next, err := encodeNext(p)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(fs.dir, 0o755); err != nil {
		return fmt.Errorf("creating projects directory: %w", err)
	}
	tmp, err := os.CreateTemp(fs.dir, ".project-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing project: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing project: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing project file: %w", err)
	}
	p.Version = next
	return nil
}

// fileName maps a project key (often an absolute path) to a stable file name:
// a readable slug plus a short hash of the full key.
func fileName(key string) string {
	sum := sha256.Sum256([]byte(key))
	return Slugify(key) + "-" + hex.EncodeToString(sum[:4]) + ProjectFileExt
}

const maxSlugLen = 40

// Slugify converts a key into a filesystem-safe slug.
// Example: "/home/me/Acme CRM" → "home-me-acme-crm"
func Slugify(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))

	var b strings.Builder
	prevHyphen := false
	for _, r := range s {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			prevHyphen = false
		default:
			if !prevHyphen {
				b.WriteByte('-')
				prevHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		// Keep the tail: for paths it is the most specific part.
		slug = strings.Trim(slug[len(slug)-maxSlugLen:], "-")
	}
	if slug == "" {
		return "project"
	}
	return slug
}

// --- MemoryStore ---

// MemoryStore implements Store in process memory. Records are kept
// serialized so callers never share state with the store.
type MemoryStore struct {
	mu       sync.Mutex
	projects map[string][]byte
	versions map[string]int64
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{projects: map[string][]byte{}, versions: map[string]int64{}}
}

// Load returns a fresh copy of the stored project.
func (ms *MemoryStore) Load(ctx context.Context, key string) (*Project, error) {
	ms.mu.Lock()
	data, ok := ms.projects[key]
	ms.mu.Unlock()
	if !ok {
		return nil, NoProject(key)
	}
	return DecodeProject(data)
}

// Save stores a copy of the project if its version matches.
func (ms *MemoryStore) Save(ctx context.Context, key string, p *Project) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	stored, exists := ms.versions[key]
	if err := checkVersion(key, exists, stored, p); err != nil {
		return err
	}
	data, next, err := encodeNext(p)
	if err != nil {
		return err
	}
	ms.projects[key] = data
	ms.versions[key] = next
	p.Version = next
	return nil
}

// --- Listing ---

// ProjectSummary is a one-line view of a stored project.
type ProjectSummary struct {
	Key          string `json:"key"`
	Name         string `json:"name"`
	Phase        Phase  `json:"phase"`
	Progress     int    `json:"progress"`
	Version      int64  `json:"version"`
	LastActivity string `json:"last_activity"`
}

// Summarize builds the summary of a project.
func Summarize(p *Project) ProjectSummary {
	return ProjectSummary{
		Key:          p.Key,
		Name:         p.Name,
		Phase:        p.CurrentPhase,
		Progress:     p.Progress(),
		Version:      p.Version,
		LastActivity: p.LastActivity,
	}
}

// Lister is implemented by stores that can enumerate their projects.
type Lister interface {
	List(ctx context.Context) ([]ProjectSummary, error)
}

// List returns every readable project file, sorted by key.
func (fs *FileStore) List(ctx context.Context) ([]ProjectSummary, error) {
	entries, err := os.ReadDir(fs.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading projects directory: %w", err)
	}
	var out []ProjectSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ProjectFileExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(fs.dir, entry.Name()))
		if err != nil {
			continue // skip unreadable projects
		}
		p, err := DecodeProject(data)
		if err != nil {
			continue
		}
		out = append(out, Summarize(p))
	}
	sortSummaries(out)
	return out, nil
}

// List returns every stored project, sorted by key.
func (ms *MemoryStore) List(ctx context.Context) ([]ProjectSummary, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	out := make([]ProjectSummary, 0, len(ms.projects))
	for _, data := range ms.projects {
		p, err := DecodeProject(data)
		if err != nil {
			return nil, err
		}
		out = append(out, Summarize(p))
	}
	sortSummaries(out)
	return out, nil
}

func sortSummaries(s []ProjectSummary) {
	sort.Slice(s, func(i, j int) bool { return s[i].Key < s[j].Key })
}
