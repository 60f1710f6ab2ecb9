package ansible

import (
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/andrej220/modexec/pkg/config"
	"github.com/andrej220/modexec/pkg/executor/mockcapture"
	"github.com/andrej220/modexec/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirLocator(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	userPath := writeModule(t, second, "user", "")
	nestedPath := writeModule(t, first, filepath.Join("builtin", "ping"), "")
	shadowPath := writeModule(t, first, "debug", "")
	writeModule(t, second, "debug", "")

	l := DirLocator{Roots: []string{first, second}}
	tests := []struct {
		name string
		want string
	}{
		{name: "user", want: userPath},
		{name: "builtin.ping", want: nestedPath},
		{name: "debug", want: shadowPath},
	}
	for _, tt := range tests {
		got, err := l.Locate(context.Background(), tt.name)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := l.Locate(context.Background(), "missing")
	var re *registry.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestDirLocatorRejectsInvalidNames(t *testing.T) {
	root := t.TempDir()
	writeModule(t, filepath.Dir(root), "escape", "")

	l := DirLocator{Roots: []string{root}}
	for _, name := range []string{"../escape", "a..b", "", "/etc/passwd"} {
		_, err := l.Locate(context.Background(), name)
		var re *registry.ResolutionError
		require.True(t, errors.As(err, &re), "name %q", name)
		assert.ErrorIs(t, err, errInvalidName)
	}
}

func TestDirLocatorSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	writeModule(t, root, filepath.Join("pkg.py", "x"), "")
	_, err := DirLocator{Roots: []string{root}}.Locate(context.Background(), "pkg")
	assert.Error(t, err)
}

func TestStaticLocator(t *testing.T) {
	l := NewStaticLocator(map[string]string{"user": "/opt/user.py"})
	got, err := l.Locate(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, "/opt/user.py", got)

	_, err = l.Locate(context.Background(), "group")
	var re *registry.ResolutionError
	assert.True(t, errors.As(err, &re))
}

func TestImportLocator(t *testing.T) {
	capturer := mockcapture.New(mockcapture.Output("/usr/lib/python3/dist-packages/ansible/modules/user.py", ""))
	l := ImportLocator{Interpreter: "python3", Flags: []string{"-I"}, Capturer: capturer}

	got, err := l.Locate(context.Background(), "user")
	require.NoError(t, err)
	assert.Equal(t, "/usr/lib/python3/dist-packages/ansible/modules/user.py", got)

	require.Len(t, capturer.Args, 1)
	args := capturer.Args[0]
	assert.Equal(t, []string{"python3", "-I", "-c"}, args[:3])
	assert.Equal(t, "user", args[len(args)-1])
}

func TestImportLocatorNotFound(t *testing.T) {
	exit := exitErr(t, 1)
	capturer := mockcapture.New(func(*exec.Cmd) ([]byte, []byte, error) {
		stderr := "Traceback (most recent call last):\n  ...\nModuleNotFoundError: No module named 'ansible.modules.nope'\n"
		return nil, []byte(stderr), exit
	})
	l := ImportLocator{Interpreter: "python3", Capturer: capturer}

	_, err := l.Locate(context.Background(), "nope")
	var re *registry.ResolutionError
	require.True(t, errors.As(err, &re))
	assert.Contains(t, err.Error(), "ModuleNotFoundError: No module named 'ansible.modules.nope'")
}

func TestImportLocatorSpawnFailure(t *testing.T) {
	l := ImportLocator{Interpreter: "python3", Capturer: mockcapture.New(mockcapture.Fail(exec.ErrNotFound))}
	_, err := l.Locate(context.Background(), "user")
	var ce *ChildProcessError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestNewRunnerPicksLocator(t *testing.T) {
	r := NewRunner(&config.Settings{Interpreter: "python3", Modules: map[string]string{"a": "/a.py"}, ModuleRoots: []string{"/r"}}, nil)
	assert.IsType(t, &StaticLocator{}, r.Locator)

	r = NewRunner(&config.Settings{Interpreter: "python3", ModuleRoots: []string{"/r"}}, nil)
	assert.IsType(t, DirLocator{}, r.Locator)

	r = NewRunner(config.Default(), nil)
	assert.IsType(t, ImportLocator{}, r.Locator)
}
