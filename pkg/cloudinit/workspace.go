package cloudinit

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

const (
	templatesDirName = "templates_dir"
	runDirName       = "run_dir"
	cloudDirName     = "cloud_dir"
	dataDirName      = "data"
)

// Paths is the directory bundle a module sees. The data directory lives
// under CloudDir and has no entry of its own.
type Paths struct {
	TemplatesDir string
	RunDir       string
	CloudDir     string
}

func (p *Paths) DataDir() string {
	return filepath.Join(p.CloudDir, dataDirName)
}

// Workspace is the scratch tree for one invocation.
type Workspace struct {
	Root  string
	paths *Paths
}

// NewWorkspace creates a uniquely named temp root under dir (the system
// temp dir when empty) holding templates_dir, run_dir, cloud_dir and
// cloud_dir/data. The root name carries the module name and the first
// block of the execution UID.
func NewWorkspace(dir, module string, uid uuid.UUID) (*Workspace, error) {
	token := uid.String()[:8]
	root, err := os.MkdirTemp(dir, fmt.Sprintf("ci-modexec-%s-%s.", module, token))
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	if root, err = filepath.Abs(root); err != nil {
		return nil, err
	}

	ws := &Workspace{
		Root: root,
		paths: &Paths{
			TemplatesDir: filepath.Join(root, templatesDirName),
			RunDir:       filepath.Join(root, runDirName),
			CloudDir:     filepath.Join(root, cloudDirName),
		},
	}
	for _, d := range ws.Dirs() {
		if err := os.MkdirAll(d, 0700); err != nil {
			os.RemoveAll(root)
			return nil, fmt.Errorf("create workspace: %w", err)
		}
	}
	return ws, nil
}

func (w *Workspace) Paths() *Paths { return w.paths }

// Dirs lists the four workspace directories.
func (w *Workspace) Dirs() []string {
	return []string{w.paths.TemplatesDir, w.paths.RunDir, w.paths.CloudDir, w.paths.DataDir()}
}

// Remove deletes the whole tree.
func (w *Workspace) Remove() error {
	if err := os.RemoveAll(w.Root); err != nil {
		return fmt.Errorf("remove workspace %s: %w", w.Root, err)
	}
	return nil
}
