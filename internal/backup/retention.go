// Dinner Roulette - Group Restaurant Picker
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/dinnerroulette

package backup

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ListBackups returns the timestamped backups, newest first.
func (m *Manager) ListBackups() ([]Info, error) {
	if !m.cfg.Enabled {
		return nil, ErrDisabled
	}
	return m.listBackups()
}

func (m *Manager) listBackups() ([]Info, error) {
	entries, err := os.ReadDir(m.cfg.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return []Info{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}

	out := make([]Info, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !backupNamePattern.MatchString(e.Name()) {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, Info{
			Name:      e.Name(),
			Size:      fi.Size(),
			CreatedAt: createdAt(e.Name()),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return nameSeq(out[i].Name) > nameSeq(out[j].Name)
	})
	return out, nil
}

// applyRetention deletes timestamped backups beyond MaxBackups. Caller holds mu.
func (m *Manager) applyRetention() error {
	if m.cfg.MaxBackups <= 0 {
		return nil
	}
	backups, err := m.listBackups()
	if err != nil {
		return err
	}

	var errs []error
	for _, b := range backups[min(m.cfg.MaxBackups, len(backups)):] {
		if err := os.Remove(filepath.Join(m.cfg.Dir, b.Name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func createdAt(name string) time.Time {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	if len(stamp) > len(fileTimeLayout) {
		stamp = stamp[:len(fileTimeLayout)]
	}
	t, err := time.ParseInLocation(fileTimeLayout, stamp, time.UTC)
	if err != nil {
		return time.Time{}
	}
	return t
}

// nameSeq returns the same-second suffix of a backup name, 1 when absent.
func nameSeq(name string) int {
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)
	_, suffix, ok := strings.Cut(stamp[min(len(stamp), len(fileTimeLayout)):], "_")
	if !ok {
		return 1
	}
	n, err := strconv.Atoi(suffix)
	if err != nil {
		return 1
	}
	return n
}
