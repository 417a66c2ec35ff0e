// Copyright (c) Hoffman Security
// SPDX-License-Identifier: BUSL-1.1

// Package aclsnap walks a filesystem tree breadth-first and records the
// access-control metadata of every entry: permission bits, ownership and
// the special mode bits that matter in an audit. Unreadable directories
// turn into error records instead of aborting the walk.
package aclsnap

import (
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type EntryType string

const (
	EntryFile    EntryType = "file"
	EntryDir     EntryType = "dir"
	EntrySymlink EntryType = "symlink"
	EntryOther   EntryType = "other"
)

// Record is the ACL snapshot of a single filesystem entry.
type Record struct {
	Path          string    `json:"path"`
	Depth         int       `json:"depth"`
	Type          EntryType `json:"type"`
	Size          int64     `json:"size"`
	Mode          string    `json:"mode"`
	UID           int64     `json:"uid"`
	GID           int64     `json:"gid"`
	User          string    `json:"user,omitempty"`
	Group         string    `json:"group,omitempty"`
	Suid          bool      `json:"suid,omitempty"`
	Sgid          bool      `json:"sgid,omitempty"`
	Sticky        bool      `json:"sticky,omitempty"`
	WorldWritable bool      `json:"worldWritable,omitempty"`
	ModTime       time.Time `json:"modTime"`
	Error         string    `json:"error,omitempty"`
}

type Summary struct {
	Entries       int `json:"entries"`
	Errors        int `json:"errors"`
	WorldWritable int `json:"worldWritable"`
	SetuidSetgid  int `json:"setuidSetgid"`
}

type Snapshot struct {
	Root    string   `json:"root"`
	Records []Record `json:"records"`
	Summary Summary  `json:"summary"`
}

type Options struct {
	// MaxDepth bounds the traversal depth, the root being depth 0.
	// Zero means unlimited.
	MaxDepth int
	// ChangedOnly drops entries whose mode and ownership match their
	// parent directory. The root is always kept.
	ChangedOnly bool
}

// Snapshotter walks trees on the given filesystem. Name lookups are
// replaceable for tests.
type Snapshotter struct {
	fs          afero.Fs
	lookupUser  func(uid int64) string
	lookupGroup func(gid int64) string

	userCache  map[int64]string
	groupCache map[int64]string
}

func New(fs afero.Fs) *Snapshotter {
	return &Snapshotter{
		fs:          fs,
		lookupUser:  lookupUserName,
		lookupGroup: lookupGroupName,
		userCache:   map[int64]string{},
		groupCache:  map[int64]string{},
	}
}

// queueItem is a directory waiting to be listed. It carries the owner and
// mode of the directory so children can be compared against their parent
// even when the directory record itself was filtered out.
type queueItem struct {
	path  string
	depth int
	mode  string
	uid   int64
	gid   int64
	// index of the directory record in the snapshot, -1 when it was
	// filtered out
	recordIdx int
}

// Walk snapshots the tree rooted at root. Only a missing or unreadable
// root is fatal; everything below it degrades into error records.
func (s *Snapshotter) Walk(root string, opts Options) (*Snapshot, error) {
	rootInfo, err := s.lstat(root)
	if err != nil {
		return nil, errors.Wrapf(err, "could not stat %s", root)
	}

	snap := &Snapshot{Root: root}
	rootRec := s.newRecord(root, 0, rootInfo)
	snap.Records = append(snap.Records, rootRec)

	queue := []queueItem{}
	if rootRec.Type == EntryDir {
		queue = append(queue, enqueue(rootRec, 0))
	}

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if opts.MaxDepth > 0 && item.depth >= opts.MaxDepth {
			continue
		}

		// afero.ReadDir returns entries sorted by name, which keeps the
		// traversal order deterministic
		children, err := afero.ReadDir(s.fs, item.path)
		if err != nil {
			if item.recordIdx >= 0 {
				snap.Records[item.recordIdx].Error = err.Error()
			} else {
				snap.Records = append(snap.Records, Record{
					Path:  item.path,
					Depth: item.depth,
					Type:  EntryDir,
					Error: err.Error(),
				})
			}
			log.Warn().Err(err).Str("path", item.path).Msg("could not list directory")
			continue
		}

		for _, child := range children {
			childPath := filepath.Join(item.path, child.Name())

			// re-stat without following symlinks
			info, err := s.lstat(childPath)
			if err != nil {
				snap.Records = append(snap.Records, Record{
					Path:  childPath,
					Depth: item.depth + 1,
					Error: err.Error(),
				})
				continue
			}

			rec := s.newRecord(childPath, item.depth+1, info)

			keep := !opts.ChangedOnly ||
				rec.Mode != item.mode || rec.UID != item.uid || rec.GID != item.gid
			idx := -1
			if keep {
				snap.Records = append(snap.Records, rec)
				idx = len(snap.Records) - 1
			}

			if rec.Type == EntryDir {
				queue = append(queue, enqueue(rec, idx))
			}
		}
	}

	snap.Summary = summarize(snap.Records)
	return snap, nil
}

func enqueue(rec Record, recordIdx int) queueItem {
	return queueItem{
		path:      rec.Path,
		depth:     rec.Depth,
		mode:      rec.Mode,
		uid:       rec.UID,
		gid:       rec.GID,
		recordIdx: recordIdx,
	}
}

func (s *Snapshotter) newRecord(path string, depth int, info os.FileInfo) Record {
	mode := ModeDetails{info.Mode()}
	uid, gid := fileOwner(info)

	rec := Record{
		Path:    path,
		Depth:   depth,
		Type:    entryType(info.Mode()),
		Size:    info.Size(),
		Mode:    mode.Octal(),
		UID:     uid,
		GID:     gid,
		Suid:    mode.Suid(),
		Sgid:    mode.Sgid(),
		Sticky:  mode.Sticky(),
		ModTime: info.ModTime(),
	}

	if rec.Type != EntrySymlink {
		rec.WorldWritable = mode.OtherWriteable()
	}

	if uid >= 0 {
		rec.User = s.userName(uid)
	}
	if gid >= 0 {
		rec.Group = s.groupName(gid)
	}

	return rec
}

func (s *Snapshotter) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := s.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return s.fs.Stat(path)
}

func (s *Snapshotter) userName(uid int64) string {
	if name, ok := s.userCache[uid]; ok {
		return name
	}
	name := s.lookupUser(uid)
	s.userCache[uid] = name
	return name
}

func (s *Snapshotter) groupName(gid int64) string {
	if name, ok := s.groupCache[gid]; ok {
		return name
	}
	name := s.lookupGroup(gid)
	s.groupCache[gid] = name
	return name
}

func entryType(mode os.FileMode) EntryType {
	switch {
	case mode&os.ModeSymlink != 0:
		return EntrySymlink
	case mode.IsDir():
		return EntryDir
	case mode.IsRegular():
		return EntryFile
	default:
		return EntryOther
	}
}

func summarize(records []Record) Summary {
	sum := Summary{Entries: len(records)}
	for i := range records {
		if records[i].Error != "" {
			sum.Errors++
		}
		if records[i].WorldWritable {
			sum.WorldWritable++
		}
		if records[i].Suid || records[i].Sgid {
			sum.SetuidSetgid++
		}
	}
	return sum
}

func lookupUserName(uid int64) string {
	u, err := user.LookupId(strconv.FormatInt(uid, 10))
	if err != nil {
		return ""
	}
	return u.Username
}

func lookupGroupName(gid int64) string {
	g, err := user.LookupGroupId(strconv.FormatInt(gid, 10))
	if err != nil {
		return ""
	}
	return g.Name
}
