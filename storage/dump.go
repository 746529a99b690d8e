// Package storage unloads the seeded store into per-kind JSON files,
// one array per entity kind under the result directory.
package storage

import (
	"chat-seeder/repositories"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

type Dumper struct {
	log           *slog.Logger
	users         repositories.IUserRepository
	groups        repositories.IGroupRepository
	conversations repositories.IConversationRepository
	dir           string
}

func NewDumper(
	log *slog.Logger,
	users repositories.IUserRepository,
	groups repositories.IGroupRepository,
	conversations repositories.IConversationRepository,
	dir string,
) Dumper {
	return Dumper{log: log, users: users, groups: groups, conversations: conversations, dir: dir}
}

// Reset removes the result directory of a previous run.
func (d Dumper) Reset() error {
	if _, err := os.Stat(d.dir); os.IsNotExist(err) {
		return nil
	}
	d.log.Info("Removing previous results folder", "dir", d.dir)
	return os.RemoveAll(d.dir)
}

// Dump writes user.json, group.json and conversation.json with every stored
// entity, pretty-printed.
func (d Dumper) Dump() error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create result directory %s: %w", d.dir, err)
	}

	users, err := d.users.AllUsers()
	if err != nil {
		return err
	}
	if err := d.writeKind("user", users); err != nil {
		return err
	}

	groups, err := d.groups.AllGroups()
	if err != nil {
		return err
	}
	if err := d.writeKind("group", groups); err != nil {
		return err
	}

	conversations, err := d.conversations.AllConversations()
	if err != nil {
		return err
	}
	return d.writeKind("conversation", conversations)
}

func (d Dumper) writeKind(name string, entities any) error {
	data, err := json.MarshalIndent(entities, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	path := filepath.Join(d.dir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("cannot write %s: %w", path, err)
	}
	d.log.Info("Entities unloaded", "kind", name, "file", path)
	return nil
}
