package filestore

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"
)

var (
	// ErrFilenameRequired is returned when a path needs a filename that is not set
	ErrFilenameRequired = errors.New("filename required")

	// ErrRepositoryRequired is returned when a repository path is requested without a repository ID
	ErrRepositoryRequired = errors.New("repository ID required")
)

// Store composes temp and repository paths under two root folders and
// performs file operations on an afero filesystem
type Store struct {
	fs              afero.Fs
	tempDir         string
	repositoriesDir string
	logger          *slog.Logger
	now             func() time.Time
}

// New creates a store rooted at tempDir and repositoriesDir
func New(fsys afero.Fs, tempDir, repositoriesDir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		fs:              fsys,
		tempDir:         tempDir,
		repositoriesDir: repositoriesDir,
		logger:          logger,
		now:             time.Now,
	}
}

// Fs returns the underlying filesystem
func (s *Store) Fs() afero.Fs {
	return s.fs
}

// File describes one file belonging to a job node, optionally mirrored into a repository
type File struct {
	store *Store

	JobID        string
	NodeID       string
	Filename     string
	RepositoryID string
	UniqID       string
}

// File returns a handle for filename in the job/node temp folder
func (s *Store) File(jobID, nodeID, filename string) *File {
	return &File{
		store:    s,
		JobID:    jobID,
		NodeID:   nodeID,
		Filename: filename,
	}
}

// Metadata describes a stored file
type Metadata struct {
	UniqID       string `json:"uniqId" yaml:"uniqId"`
	Filename     string `json:"filename" yaml:"filename"`
	Path         string `json:"path" yaml:"path"`
	Type         string `json:"type" yaml:"type"`
	Size         int64  `json:"size" yaml:"size"`
	JobID        string `json:"jobId" yaml:"jobId"`
	NodeID       string `json:"nodeId" yaml:"nodeId"`
	RepositoryID string `json:"repositoryId,omitempty" yaml:"repositoryId,omitempty"`
}

// JobPath is <tempDir>/<jobID>
func (f *File) JobPath() string {
	return path.Join(f.store.tempDir, f.JobID)
}

// NodePath is <tempDir>/<jobID>/<nodeID>
func (f *File) NodePath() string {
	return path.Join(f.JobPath(), f.NodeID)
}

// FilePath is <tempDir>/<jobID>/<nodeID>/<filename>
func (f *File) FilePath() string {
	return path.Join(f.NodePath(), f.Filename)
}

// RepositoryPath is <repositoriesDir>/<repositoryID>
func (f *File) RepositoryPath() string {
	return path.Join(f.store.repositoriesDir, f.RepositoryID)
}

// RepositoryFilePath is <repositoriesDir>/<repositoryID>/<filename>
func (f *File) RepositoryFilePath() (string, error) {
	if f.Filename == "" {
		return "", ErrFilenameRequired
	}
	if f.RepositoryID == "" {
		return "", ErrRepositoryRequired
	}
	return path.Join(f.RepositoryPath(), f.Filename), nil
}

// Metadata describes the temp copy of the file
func (f *File) Metadata() Metadata {
	m := Metadata{
		UniqID:       f.UniqID,
		Filename:     f.Filename,
		Path:         f.FilePath(),
		Type:         Extension(f.Filename),
		JobID:        f.JobID,
		NodeID:       f.NodeID,
		RepositoryID: f.RepositoryID,
	}
	if m.UniqID == "" {
		m.UniqID = f.generateUniqID()
	}
	if info, err := f.store.fs.Stat(m.Path); err == nil {
		m.Size = info.Size()
	}
	return m
}

func (f *File) generateUniqID() string {
	if f.JobID != "" && f.NodeID != "" {
		return fmt.Sprintf("job_%s_%s_%s", f.JobID, f.NodeID, f.Filename)
	}
	return fmt.Sprintf("file_%s_%s", uuid.NewString(), f.Filename)
}

// Write writes data to FilePath, creating the job and node folders
func (f *File) Write(data []byte) (Metadata, error) {
	if f.Filename == "" {
		return Metadata{}, ErrFilenameRequired
	}

	if err := f.store.fs.MkdirAll(f.NodePath(), 0o755); err != nil {
		return Metadata{}, fmt.Errorf("cannot make temp node folder: %w", err)
	}

	if err := afero.WriteFile(f.store.fs, f.FilePath(), data, 0o644); err != nil {
		return Metadata{}, fmt.Errorf("failed to write temp file: %w", err)
	}

	f.store.logger.Debug("saved temp file", "path", f.FilePath(), "bytes", len(data))

	return f.Metadata(), nil
}

// Read reads the temp copy of the file
func (f *File) Read() ([]byte, error) {
	return afero.ReadFile(f.store.fs, f.FilePath())
}

// Delete removes the temp copy of the file
func (f *File) Delete() error {
	if err := f.store.fs.Remove(f.FilePath()); err != nil {
		return fmt.Errorf("unable to delete: %w", err)
	}
	return nil
}

// Exists reports whether the temp copy of the file exists
func (f *File) Exists() (bool, error) {
	return afero.Exists(f.store.fs, f.FilePath())
}

// Stat returns file info for the temp copy of the file
func (f *File) Stat() (fs.FileInfo, error) {
	return f.store.fs.Stat(f.FilePath())
}

// ReadFromRepository reads the repository copy of the file
func (f *File) ReadFromRepository() ([]byte, error) {
	p, err := f.RepositoryFilePath()
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(f.store.fs, p)
}

// WriteToRepository copies the temp file into the repository folder. If a
// file of the same name exists there, the filename gets a copy number first.
// Returns the path that was written.
func (f *File) WriteToRepository() (string, error) {
	data, err := f.Read()
	if err != nil {
		return "", fmt.Errorf("failed to read temp file: %w", err)
	}

	if _, err := f.RepositoryFilePath(); err != nil {
		return "", err
	}

	if err := f.store.fs.MkdirAll(f.RepositoryPath(), 0o755); err != nil {
		return "", fmt.Errorf("cannot make repository folder: %w", err)
	}

	target, _ := f.RepositoryFilePath()
	exists, err := afero.Exists(f.store.fs, target)
	if err != nil {
		return "", fmt.Errorf("failed to stat repository file: %w", err)
	}
	if exists {
		f.IncrementCopyNumber()
		target, _ = f.RepositoryFilePath()
	}

	if err := afero.WriteFile(f.store.fs, target, data, 0o644); err != nil {
		return "", fmt.Errorf("unable to save: %w", err)
	}

	return target, nil
}

// DeleteFromRepository removes the repository copy of the file
func (f *File) DeleteFromRepository() error {
	p, err := f.RepositoryFilePath()
	if err != nil {
		return err
	}
	if err := f.store.fs.Remove(p); err != nil {
		return fmt.Errorf("unable to delete: %w", err)
	}
	return nil
}

// RemoveNode removes the node temp folder and everything in it
func (f *File) RemoveNode() error {
	return removeAll(f.store.fs, f.NodePath())
}

// RemoveJob removes the job temp folder with all of its nodes
func (f *File) RemoveJob() error {
	return removeAll(f.store.fs, f.JobPath())
}

func removeAll(fsys afero.Fs, p string) error {
	err := fsys.RemoveAll(p)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// IncrementCopyNumber renames name(N).ext to name(N+1).ext, or appends a
// timestamp copy number to names without one
func (f *File) IncrementCopyNumber() {
	base, ext := FilenameBase(f.Filename), Extension(f.Filename)
	if base == "" {
		base, ext = f.Filename, ""
	}

	if prefix, n, ok := copyNumber(base); ok {
		base = fmt.Sprintf("%s(%d)", prefix, n+1)
	} else {
		base = fmt.Sprintf("%s(%d)", base, f.store.now().Unix())
	}

	if ext != "" {
		f.Filename = base + "." + ext
		return
	}
	f.Filename = base
}

// copyNumber splits "name(3)" into "name", 3
func copyNumber(base string) (string, int, bool) {
	if !strings.HasSuffix(base, ")") {
		return "", 0, false
	}
	open := strings.LastIndex(base, "(")
	if open <= 0 {
		return "", 0, false
	}
	n, err := strconv.Atoi(base[open+1 : len(base)-1])
	if err != nil || n < 0 {
		return "", 0, false
	}
	return base[:open], n, true
}

// Extension returns the extension of the last path element without the dot.
// Dot files and names without a dot have no extension.
func Extension(p string) string {
	name := p
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		name = p[i+1:]
	}
	pos := strings.LastIndex(name, ".")
	if pos < 1 {
		return ""
	}
	return name[pos+1:]
}

// FilenameBase returns filename without its extension, or "" when it has none
func FilenameBase(filename string) string {
	pos := strings.LastIndex(filename, ".")
	if pos < 1 {
		return ""
	}
	return filename[:pos]
}
