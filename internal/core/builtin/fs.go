package builtin

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/u-root/u-root/pkg/cp"
	"golang.org/x/text/encoding/unicode"

	"github.com/yndnr/termsh-go/internal/core/domain"
)

// Entry markers appended by ls.
const (
	dirMarker  = "/"
	linkMarker = "@"
)

func listDir(_ context.Context, s *Session, args []string) domain.Result {
	target := "."
	if len(args) > 0 {
		target = args[0]
	}

	dir := s.Resolve(target)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return domain.ErrorResult(domain.NewTargetError("ls", "cannot access", target, err))
	}

	var out domain.Lines
	for _, e := range entries {
		out.Add(e.Name() + entryMarker(dir, e))
	}
	return out.Result()
}

// entryMarker returns "/" for directories, including links to them,
// "@" for other links and nothing otherwise.
func entryMarker(dir string, e os.DirEntry) string {
	switch {
	case e.IsDir():
		return dirMarker
	case e.Type()&os.ModeSymlink != 0:
		if fi, err := os.Stat(filepath.Join(dir, e.Name())); err == nil && fi.IsDir() {
			return dirMarker
		}
		return linkMarker
	default:
		return ""
	}
}

func changeDir(_ context.Context, s *Session, args []string) domain.Result {
	if len(args) == 0 {
		if s.Home == "" {
			return domain.ErrorResult(domain.NewTargetError("cd", "", "", domain.ErrInvalidArgument.WithDetails("HOME not set")))
		}
		return domain.Result{Chdir: filepath.Clean(s.Home)}
	}

	target := args[0]
	dir := s.Resolve(target)
	fi, err := os.Stat(dir)
	if err != nil {
		return domain.ErrorResult(domain.NewTargetError("cd", "", target, err))
	}
	if !fi.IsDir() {
		return domain.ErrorResult(domain.NewTargetError("cd", "", target, domain.ErrNotADirectory))
	}
	return domain.Result{Chdir: dir}
}

func printDir(_ context.Context, s *Session, _ []string) domain.Result {
	return domain.TextResult(s.Dir)
}

func makeDir(_ context.Context, s *Session, args []string) domain.Result {
	if len(args) == 0 {
		return missingOperand("mkdir")
	}

	var out domain.Lines
	for _, name := range args {
		path := s.Resolve(name)
		if _, err := os.Lstat(path); err == nil {
			out.Fail(domain.NewTargetError("mkdir", "cannot create directory", name, domain.ErrTargetExists))
			continue
		}
		if err := os.MkdirAll(path, 0o755); err != nil {
			out.Fail(domain.NewTargetError("mkdir", "cannot create directory", name, err))
		}
	}
	return out.Result()
}

// remove deletes files and empty directories. Links are removed, never
// followed.
func remove(_ context.Context, s *Session, args []string) domain.Result {
	if len(args) == 0 {
		return missingOperand("rm")
	}

	var out domain.Lines
	for _, name := range args {
		path := s.Resolve(name)
		if _, err := os.Lstat(path); err != nil {
			out.Fail(domain.NewTargetError("rm", "cannot remove", name, err))
			continue
		}
		if err := os.Remove(path); err != nil {
			out.Fail(domain.NewTargetError("rm", "cannot remove", name, notEmpty(err)))
		}
	}
	return out.Result()
}

func removeDir(_ context.Context, s *Session, args []string) domain.Result {
	if len(args) == 0 {
		return missingOperand("rmdir")
	}

	var out domain.Lines
	for _, name := range args {
		path := s.Resolve(name)
		fi, err := os.Lstat(path)
		if err != nil {
			out.Fail(domain.NewTargetError("rmdir", "failed to remove", name, err))
			continue
		}
		if !fi.IsDir() {
			out.Fail(domain.NewTargetError("rmdir", "failed to remove", name, domain.ErrNotADirectory))
			continue
		}
		if err := os.Remove(path); err != nil {
			out.Fail(domain.NewTargetError("rmdir", "failed to remove", name, notEmpty(err)))
		}
	}
	return out.Result()
}

// notEmpty maps EEXIST from rmdir, which some systems return for
// non-empty directories, onto ENOTEMPTY.
func notEmpty(err error) error {
	if errors.Is(err, syscall.EEXIST) {
		return domain.ErrDirNotEmpty.WithCause(err)
	}
	return err
}

// cat concatenates files. Invalid UTF-8 is replaced with U+FFFD and one
// trailing newline per file is dropped so files join line by line.
func cat(_ context.Context, s *Session, args []string) domain.Result {
	if len(args) == 0 {
		return missingOperand("cat")
	}

	var out domain.Lines
	for _, name := range args {
		text, err := readText(s.Resolve(name))
		if err != nil {
			out.Fail(domain.NewTargetError("cat", "", name, err))
			continue
		}
		out.Add(strings.TrimSuffix(text, "\n"))
	}
	return out.Result()
}

func readText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	decoded, err := unicode.UTF8.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

func touch(_ context.Context, s *Session, args []string) domain.Result {
	if len(args) == 0 {
		return missingOperand("touch")
	}

	var out domain.Lines
	now := time.Now()
	for _, name := range args {
		if err := touchFile(s.Resolve(name), now); err != nil {
			out.Fail(domain.NewTargetError("touch", "cannot touch", name, err))
		}
	}
	return out.Result()
}

func touchFile(path string, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil {
		return os.Chtimes(path, now, now)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE, 0o644)
	if err != nil {
		return err
	}
	return f.Close()
}

// transfer is the per-item operation of mv and cp.
type transfer func(src, dst string) error

// transferAll applies op following the mv/cp operand rules: the last
// operand is the destination; with several sources it is created as a
// directory and each source lands inside it under its base name; with one
// source an existing directory destination receives it the same way,
// otherwise the destination is the new name.
func transferAll(s *Session, name string, args []string, op transfer) domain.Result {
	if len(args) < 2 {
		return missingOperand(name)
	}

	sources, destName := args[:len(args)-1], args[len(args)-1]
	dest := s.Resolve(destName)

	var out domain.Lines
	if len(sources) > 1 {
		if err := os.MkdirAll(dest, 0o755); err != nil {
			out.Fail(domain.NewTargetError(name, "cannot create directory", destName, err))
			return out.Result()
		}
	}

	for _, srcName := range sources {
		src := s.Resolve(srcName)
		target := dest
		if len(sources) > 1 || isDir(dest) {
			target = filepath.Join(dest, filepath.Base(src))
		}
		if err := op(src, target); err != nil {
			out.Fail(domain.NewTargetError(name, "", srcName, err))
		}
	}
	return out.Result()
}

func move(_ context.Context, s *Session, args []string) domain.Result {
	return transferAll(s, "mv", args, moveOne)
}

func moveOne(src, dst string) error {
	if _, err := os.Lstat(src); err != nil {
		return err
	}
	if sameFile(src, dst) {
		return domain.ErrInvalidArgument.WithDetails("source and destination are the same file")
	}
	err := os.Rename(src, dst)
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}

	// Across filesystems: copy, then remove the source.
	if err := copyOne(src, dst); err != nil {
		return err
	}
	return os.RemoveAll(src)
}

func copyFiles(_ context.Context, s *Session, args []string) domain.Result {
	return transferAll(s, "cp", args, copyOne)
}

// treeCopier copies directory trees keeping modification times.
var treeCopier = cp.Options{PostCallback: keepModTime}

func keepModTime(src, dst string) {
	fi, err := os.Lstat(src)
	if err != nil || fi.Mode()&os.ModeSymlink != 0 {
		return
	}
	_ = os.Chtimes(dst, fi.ModTime(), fi.ModTime())
}

func copyOne(src, dst string) error {
	fi, err := os.Stat(src)
	if err != nil {
		return err
	}
	if sameFile(src, dst) {
		return domain.ErrInvalidArgument.WithDetails("source and destination are the same file")
	}
	if !fi.IsDir() {
		if err := cp.Copy(src, dst); err != nil {
			return err
		}
		keepModTime(src, dst)
		return nil
	}

	if _, err := os.Lstat(dst); err == nil {
		return domain.ErrTargetExists
	}
	if within(src, dst) {
		return domain.ErrInvalidArgument.WithDetails("cannot copy a directory into itself")
	}
	return treeCopier.CopyTree(src, dst)
}

// within reports whether path lies inside dir.
func within(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func isDir(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && fi.IsDir()
}

func sameFile(a, b string) bool {
	fa, err := os.Stat(a)
	if err != nil {
		return false
	}
	fb, err := os.Stat(b)
	if err != nil {
		return false
	}
	return os.SameFile(fa, fb)
}

func missingOperand(name string) domain.Result {
	return domain.ErrorResult(domain.NewTargetError(name, "", "", domain.ErrMissingOperand))
}
