package cloudinit

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/andrej220/modexec/pkg/executor/mockcapture"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDistro(t *testing.T, name string, capturer *mockcapture.Capturer, existing ...string) Distro {
	t.Helper()
	known := map[string]bool{}
	for _, n := range existing {
		known[n] = true
	}
	reg := NewDistroRegistry(DistroOptions{
		Capturer:    capturer,
		UserExists:  func(n string) bool { return known[n] },
		GroupExists: func(n string) bool { return known[n] },
	})
	factory, err := reg.Resolve(name)
	require.NoError(t, err)
	d, err := factory(name, map[string]any{}, &Paths{})
	require.NoError(t, err)
	return d
}

func TestDistroRegistryBuiltins(t *testing.T) {
	reg := NewDistroRegistry(DistroOptions{})
	assert.Equal(t, []string{"alpine", "centos", "debian", "fedora", "rhel", "ubuntu"}, reg.Names())

	families := map[string]string{"ubuntu": "debian", "debian": "debian", "rhel": "redhat", "fedora": "redhat", "alpine": "alpine"}
	for name, family := range families {
		d := newTestDistro(t, name, mockcapture.New())
		assert.Equal(t, name, d.Name())
		assert.Equal(t, family, d.OSFamily())
	}
}

func TestDistroFactoryRequiresPaths(t *testing.T) {
	_, err := NewDistroFactory("debian", DistroOptions{})("ubuntu", nil, nil)
	assert.Error(t, err)
}

func TestCreateUser(t *testing.T) {
	tests := []struct {
		name   string
		distro string
		user   User
		want   [][]string
	}{
		{
			name:   "useradd with everything",
			distro: "ubuntu",
			user: User{
				Name: "alice", Gecos: "Alice", Homedir: "/home/alice", Shell: "/bin/bash",
				Groups: []string{"wheel", "adm"}, LockPasswd: true,
			},
			want: [][]string{
				{"useradd", "alice", "--comment", "Alice", "--home", "/home/alice", "--shell", "/bin/bash", "--groups", "wheel,adm", "-m"},
				{"passwd", "-l", "alice"},
			},
		},
		{
			name:   "system user without home",
			distro: "fedora",
			user:   User{Name: "svc", System: true, NoCreateHome: true},
			want:   [][]string{{"useradd", "svc", "--system", "-M"}},
		},
		{
			name:   "busybox adduser",
			distro: "alpine",
			user:   User{Name: "bob", Shell: "/bin/ash", Groups: []string{"wheel"}},
			want: [][]string{
				{"adduser", "-D", "-s", "/bin/ash", "bob"},
				{"addgroup", "bob", "wheel"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capturer := mockcapture.New()
			d := newTestDistro(t, tt.distro, capturer)
			require.NoError(t, d.CreateUser(context.Background(), tt.user))
			assert.Equal(t, tt.want, capturer.Args)
		})
	}
}

func TestCreateUserSkipsExisting(t *testing.T) {
	capturer := mockcapture.New()
	d := newTestDistro(t, "ubuntu", capturer, "root")
	require.NoError(t, d.CreateUser(context.Background(), User{Name: "root"}))
	assert.Zero(t, capturer.Calls)
}

func TestCreateGroup(t *testing.T) {
	capturer := mockcapture.New()
	d := newTestDistro(t, "debian", capturer, "alice")
	require.NoError(t, d.CreateGroup(context.Background(), "admins", []string{"alice", "ghost"}))
	assert.Equal(t, [][]string{
		{"groupadd", "admins"},
		{"usermod", "-a", "-G", "admins", "alice"},
	}, capturer.Args)
}

func TestCreateGroupExistingOnlyAddsMembers(t *testing.T) {
	capturer := mockcapture.New()
	d := newTestDistro(t, "alpine", capturer, "admins", "alice")
	require.NoError(t, d.CreateGroup(context.Background(), "admins", []string{"alice"}))
	assert.Equal(t, [][]string{{"addgroup", "alice", "admins"}}, capturer.Args)
}

func TestCreateUserCommandFailure(t *testing.T) {
	failure := errors.New("exit status 9")
	capturer := mockcapture.New(func(*exec.Cmd) ([]byte, []byte, error) {
		return nil, []byte("useradd: group 'nope' does not exist\n"), failure
	})
	d := newTestDistro(t, "rhel", capturer)
	err := d.CreateUser(context.Background(), User{Name: "carol", Groups: []string{"nope"}})
	require.ErrorIs(t, err, failure)
	assert.Contains(t, err.Error(), "group 'nope' does not exist")
}
