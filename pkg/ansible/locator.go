package ansible

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/andrej220/modexec/pkg/executor"
	"github.com/andrej220/modexec/pkg/registry"
	datamodels "github.com/andrej220/modexec/pkg/shared-models"
)

const moduleKind = "ansible module"

var errInvalidName = errors.New("invalid module name")

// Locator resolves a module name to the file the interpreter should run.
// A miss is a *registry.ResolutionError; no other names are tried.
type Locator interface {
	Locate(ctx context.Context, name string) (string, error)
}

// StaticLocator is a fixed name -> path table.
type StaticLocator struct {
	table *registry.Registry[string]
}

func NewStaticLocator(paths map[string]string) *StaticLocator {
	table := registry.New[string](moduleKind)
	for name, path := range paths {
		table.Register(name, path)
	}
	return &StaticLocator{table: table}
}

func (l *StaticLocator) Locate(_ context.Context, name string) (string, error) {
	return l.table.Resolve(name)
}

// DirLocator searches module roots in order. A dotted name maps to nested
// directories: "a.b" is <root>/a/b.py.
type DirLocator struct {
	Roots []string
}

func (l DirLocator) Locate(_ context.Context, name string) (string, error) {
	if !datamodels.ValidModuleName(name) {
		return "", &registry.ResolutionError{Kind: moduleKind, Name: name, Err: errInvalidName}
	}
	rel := filepath.Join(strings.Split(name, ".")...) + ".py"
	for _, root := range l.Roots {
		path := filepath.Join(root, rel)
		info, err := os.Stat(path)
		if err == nil && info.Mode().IsRegular() {
			return path, nil
		}
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return "", &registry.ResolutionError{Kind: moduleKind, Name: name, Err: err}
		}
	}
	return "", &registry.ResolutionError{Kind: moduleKind, Name: name, Err: fs.ErrNotExist}
}

// findSpec prints the source file of ansible.modules.<name>, or fails with
// the interpreter's own ModuleNotFoundError on stderr.
const findSpec = `import importlib, sys
m = importlib.import_module("ansible.modules." + sys.argv[1])
sys.stdout.write(m.__file__)`

// ImportLocator asks the interpreter to import ansible.modules.<name> and
// report its file, the same lookup Ansible itself performs.
type ImportLocator struct {
	Interpreter string
	Flags       []string
	Capturer    executor.Capturer
}

func (l ImportLocator) Locate(ctx context.Context, name string) (string, error) {
	capturer := l.Capturer
	if capturer == nil {
		capturer = executor.Default
	}
	args := interpreterArgs(l.Flags, "-c", findSpec, name)
	cmd := exec.CommandContext(ctx, l.Interpreter, args...)

	stdout, stderr, err := capturer.Capture(ctx, cmd)
	if err != nil {
		if _, isExit := executor.ExitCode(err); isExit {
			return "", &registry.ResolutionError{Kind: moduleKind, Name: name, Err: lookupError(stderr, err)}
		}
		return "", &ChildProcessError{Op: "locate", Err: err}
	}
	path := strings.TrimSpace(string(stdout))
	if path == "" {
		return "", &registry.ResolutionError{Kind: moduleKind, Name: name, Err: fmt.Errorf("interpreter reported no file")}
	}
	return path, nil
}

// lookupError keeps the last stderr line, which carries the interpreter's
// exception, e.g. "ModuleNotFoundError: No module named 'ansible.modules.x'".
func lookupError(stderr []byte, err error) error {
	lines := strings.Split(strings.TrimSpace(string(stderr)), "\n")
	if last := strings.TrimSpace(lines[len(lines)-1]); last != "" {
		return errors.New(last)
	}
	return err
}
