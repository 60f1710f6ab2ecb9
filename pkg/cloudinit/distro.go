package cloudinit

import (
	"context"
	"fmt"
	"os/exec"
	"os/user"
	"strings"

	"github.com/andrej220/modexec/internal/lg"
	"github.com/andrej220/modexec/pkg/executor"
	"github.com/andrej220/modexec/pkg/registry"
)

// User describes an account a module asks the distro to create.
type User struct {
	Name         string
	Gecos        string
	Homedir      string
	Shell        string
	Groups       []string
	System       bool
	NoCreateHome bool
	LockPasswd   bool
}

// Distro carries a target OS's account-management conventions.
type Distro interface {
	Name() string
	OSFamily() string
	CreateGroup(ctx context.Context, name string, members []string) error
	CreateUser(ctx context.Context, u User) error
}

// DistroFactory constructs a distro from its name, system configuration
// and path bundle.
type DistroFactory func(name string, sysCfg map[string]any, paths *Paths) (Distro, error)

// DistroOptions are the host hooks a distro uses. Zero values mean the
// real host: executor.Default and os/user lookups.
type DistroOptions struct {
	Capturer    executor.Capturer
	UserExists  func(name string) bool
	GroupExists func(name string) bool
}

func (o DistroOptions) withDefaults() DistroOptions {
	if o.Capturer == nil {
		o.Capturer = executor.Default
	}
	if o.UserExists == nil {
		o.UserExists = func(name string) bool {
			_, err := user.Lookup(name)
			return err == nil
		}
	}
	if o.GroupExists == nil {
		o.GroupExists = func(name string) bool {
			_, err := user.LookupGroup(name)
			return err == nil
		}
	}
	return o
}

const (
	familyDebian = "debian"
	familyRedhat = "redhat"
	familyAlpine = "alpine"
)

// distroFamilies maps each built-in distro to its OS family.
var distroFamilies = map[string]string{
	"ubuntu": familyDebian,
	"debian": familyDebian,
	"rhel":   familyRedhat,
	"centos": familyRedhat,
	"fedora": familyRedhat,
	"alpine": familyAlpine,
}

// NewDistroRegistry returns a registry holding the built-in distros.
func NewDistroRegistry(opts DistroOptions) *registry.Registry[DistroFactory] {
	reg := registry.New[DistroFactory]("distro")
	for name, family := range distroFamilies {
		reg.Register(name, NewDistroFactory(family, opts))
	}
	return reg
}

// NewDistroFactory returns a factory for a distro of the given family.
func NewDistroFactory(family string, opts DistroOptions) DistroFactory {
	opts = opts.withDefaults()
	return func(name string, sysCfg map[string]any, paths *Paths) (Distro, error) {
		if paths == nil {
			return nil, fmt.Errorf("distro %s: nil paths", name)
		}
		return &linuxDistro{
			name:   name,
			family: family,
			sysCfg: sysCfg,
			paths:  paths,
			opts:   opts,
		}, nil
	}
}

type linuxDistro struct {
	name   string
	family string
	sysCfg map[string]any
	paths  *Paths
	opts   DistroOptions
}

func (d *linuxDistro) Name() string     { return d.name }
func (d *linuxDistro) OSFamily() string { return d.family }

func (d *linuxDistro) CreateGroup(ctx context.Context, name string, members []string) error {
	logger := lg.FromContext(ctx)
	if d.opts.GroupExists(name) {
		logger.Info("skipping creation of existing group", lg.String("group", name))
	} else {
		argv := []string{"groupadd", name}
		if d.family == familyAlpine {
			argv = []string{"addgroup", name}
		}
		if err := d.run(ctx, argv); err != nil {
			return fmt.Errorf("create group %s: %w", name, err)
		}
	}

	for _, member := range members {
		if !d.opts.UserExists(member) {
			logger.Warn("unable to add group member to group, user does not exist",
				lg.String("member", member), lg.String("group", name))
			continue
		}
		argv := []string{"usermod", "-a", "-G", name, member}
		if d.family == familyAlpine {
			argv = []string{"addgroup", member, name}
		}
		if err := d.run(ctx, argv); err != nil {
			return fmt.Errorf("add %s to group %s: %w", member, name, err)
		}
	}
	return nil
}

func (d *linuxDistro) CreateUser(ctx context.Context, u User) error {
	if d.opts.UserExists(u.Name) {
		lg.FromContext(ctx).Info("user already exists, skipping", lg.String("user", u.Name))
		return nil
	}

	var cmds [][]string
	if d.family == familyAlpine {
		cmds = d.adduserArgs(u)
	} else {
		cmds = [][]string{d.useraddArgs(u)}
	}
	if u.LockPasswd {
		cmds = append(cmds, []string{"passwd", "-l", u.Name})
	}
	for _, argv := range cmds {
		if err := d.run(ctx, argv); err != nil {
			return fmt.Errorf("create user %s: %w", u.Name, err)
		}
	}
	return nil
}

func (d *linuxDistro) useraddArgs(u User) []string {
	argv := []string{"useradd", u.Name}
	if u.Gecos != "" {
		argv = append(argv, "--comment", u.Gecos)
	}
	if u.Homedir != "" {
		argv = append(argv, "--home", u.Homedir)
	}
	if u.Shell != "" {
		argv = append(argv, "--shell", u.Shell)
	}
	if len(u.Groups) > 0 {
		argv = append(argv, "--groups", strings.Join(u.Groups, ","))
	}
	if u.System {
		argv = append(argv, "--system")
	}
	if u.NoCreateHome {
		argv = append(argv, "-M")
	} else if !u.System {
		argv = append(argv, "-m")
	}
	return argv
}

// adduserArgs uses busybox adduser, which takes no group list; secondary
// groups are added one addgroup call at a time.
func (d *linuxDistro) adduserArgs(u User) [][]string {
	argv := []string{"adduser", "-D"}
	if u.Gecos != "" {
		argv = append(argv, "-g", u.Gecos)
	}
	if u.Homedir != "" {
		argv = append(argv, "-h", u.Homedir)
	}
	if u.Shell != "" {
		argv = append(argv, "-s", u.Shell)
	}
	if u.System {
		argv = append(argv, "-S")
	}
	if u.NoCreateHome {
		argv = append(argv, "-H")
	}
	cmds := [][]string{append(argv, u.Name)}
	for _, g := range u.Groups {
		cmds = append(cmds, []string{"addgroup", u.Name, g})
	}
	return cmds
}

func (d *linuxDistro) run(ctx context.Context, argv []string) error {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	_, stderr, err := d.opts.Capturer.Capture(ctx, cmd)
	if err != nil {
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			return fmt.Errorf("%s: %w: %s", argv[0], err, msg)
		}
		return fmt.Errorf("%s: %w", argv[0], err)
	}
	return nil
}
