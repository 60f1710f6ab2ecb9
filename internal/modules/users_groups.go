package modules

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrej220/modexec/internal/lg"
	"github.com/andrej220/modexec/pkg/cloudinit"
	"github.com/andrej220/modexec/pkg/value"
)

const UsersGroupsName = "users_groups"

// UsersGroups creates the groups and users listed under "groups" and
// "users". Groups are created first so users can join them.
//
//	{"groups": ["admins", {"devs": ["alice"]}],
//	 "users": ["bob", {"name": "alice", "groups": "devs,admins", "shell": "/bin/bash"}]}
type UsersGroups struct{}

func (UsersGroups) LoggerName() string { return "cc_users_groups" }

func (UsersGroups) Handle(ctx context.Context, name string, cfg value.Value, cloud *cloudinit.Cloud, log lg.Logger, _ []string) error {
	if cloud == nil || cloud.Distro == nil {
		return fmt.Errorf("%s: no distro", name)
	}
	distro := cloud.Distro

	groups, _ := cfg.Get("groups")
	for _, g := range listOf(log, "groups", groups) {
		group, members, err := parseGroup(g)
		if err != nil {
			log.Warn("skipping malformed group entry", lg.Err(err))
			continue
		}
		if err := distro.CreateGroup(ctx, group, members); err != nil {
			log.Error("failed to create group", lg.String("group", group), lg.Err(err))
		}
	}

	users, _ := cfg.Get("users")
	for _, u := range listOf(log, "users", users) {
		user, err := parseUser(u)
		if err != nil {
			log.Warn("skipping malformed user entry", lg.Err(err))
			continue
		}
		if err := distro.CreateUser(ctx, user); err != nil {
			log.Error("failed to create user", lg.String("user", user.Name), lg.Err(err))
		}
	}
	return nil
}

// listOf accepts a list, a single entry or null.
func listOf(log lg.Logger, key string, v value.Value) []value.Value {
	switch v.Kind() {
	case value.Null:
		return nil
	case value.Array:
		items, _ := v.Items()
		return items
	case value.String, value.Object:
		return []value.Value{v}
	default:
		log.Warn("ignoring invalid setting", lg.String("key", key), lg.String("value", show(v)))
		return nil
	}
}

// parseGroup accepts "name" or {"name": [members...]}.
func parseGroup(v value.Value) (string, []string, error) {
	if s, ok := v.Str(); ok && s != "" {
		return s, nil, nil
	}
	m := v.Map()
	if m == nil || m.Len() != 1 {
		return "", nil, fmt.Errorf("group entry %s", show(v))
	}
	group := m.Keys()[0]
	raw, _ := m.Get(group)
	members, err := stringList(raw)
	if err != nil {
		return "", nil, fmt.Errorf("group %s members: %w", group, err)
	}
	return group, members, nil
}

func parseUser(v value.Value) (cloudinit.User, error) {
	if s, ok := v.Str(); ok && s != "" {
		return cloudinit.User{Name: s}, nil
	}
	m := v.Map()
	if m == nil {
		return cloudinit.User{}, fmt.Errorf("user entry %s", show(v))
	}
	var u cloudinit.User
	var err error
	for _, key := range m.Keys() {
		field, _ := m.Get(key)
		switch key {
		case "name":
			u.Name, err = str(key, field)
		case "gecos":
			u.Gecos, err = str(key, field)
		case "homedir":
			u.Homedir, err = str(key, field)
		case "shell":
			u.Shell, err = str(key, field)
		case "groups":
			u.Groups, err = stringList(field)
		case "system":
			u.System, err = boolean(key, field)
		case "no_create_home":
			u.NoCreateHome, err = boolean(key, field)
		case "lock_passwd":
			u.LockPasswd, err = boolean(key, field)
		}
		if err != nil {
			return cloudinit.User{}, err
		}
	}
	if u.Name == "" {
		return cloudinit.User{}, fmt.Errorf("user entry %s has no name", show(v))
	}
	return u, nil
}

func str(key string, v value.Value) (string, error) {
	s, ok := v.Str()
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", key, v.Kind())
	}
	return s, nil
}

func boolean(key string, v value.Value) (bool, error) {
	b, ok := v.Bool()
	if !ok {
		return false, fmt.Errorf("%s must be a boolean, got %s", key, v.Kind())
	}
	return b, nil
}

// stringList accepts null, "a, b" or ["a", "b"].
func stringList(v value.Value) ([]string, error) {
	switch v.Kind() {
	case value.Null:
		return nil, nil
	case value.String:
		s, _ := v.Str()
		var out []string
		for _, part := range strings.Split(s, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	case value.Array:
		items, _ := v.Items()
		out := make([]string, 0, len(items))
		for _, item := range items {
			s, ok := item.Str()
			if !ok {
				return nil, fmt.Errorf("list item %s is not a string", show(item))
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected a list, got %s", v.Kind())
	}
}
