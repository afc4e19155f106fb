package bundler_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/tristendillon/dllbundle/core/bundler"
)

func TestEnsureBundleDirectory(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "a", "b", "bundle")

	dir, err := bundler.EnsureBundleDirectory(target)
	gt.NoError(t, err)
	gt.Equal(t, dir, target)

	info, err := os.Stat(dir)
	gt.NoError(t, err)
	gt.True(t, info.IsDir())

	// second call is silent and keeps existing contents
	writeFile(t, filepath.Join(dir, "keep.txt"), "x")
	_, err = bundler.EnsureBundleDirectory(target)
	gt.NoError(t, err)
	gt.True(t, exists(filepath.Join(dir, "keep.txt")))
}

func TestEnsureBundleDirectory_FileInTheWay(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "bundle")
	writeFile(t, target, "not a directory")

	_, err := bundler.EnsureBundleDirectory(target)
	gt.Error(t, err)
}

func TestCopyFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.dll")
	dst := filepath.Join(dir, "dst.dll")

	payload := make([]byte, 256*1024)
	for i := range payload {
		payload[i] = byte(i % 251)
	}
	gt.NoError(t, os.WriteFile(src, payload, 0644))

	t.Run("copies byte for byte", func(t *testing.T) {
		gt.NoError(t, bundler.CopyFile(src, dst))
		got, err := os.ReadFile(dst)
		gt.NoError(t, err)
		gt.Equal(t, got, payload)
	})

	t.Run("overwrites a longer destination", func(t *testing.T) {
		small := filepath.Join(dir, "small.dll")
		writeFile(t, small, "tiny")
		gt.NoError(t, bundler.CopyFile(small, dst))
		gt.Equal(t, readFile(t, dst), "tiny")
	})

	t.Run("missing source", func(t *testing.T) {
		err := bundler.CopyFile(filepath.Join(dir, "nope.dll"), filepath.Join(dir, "out.dll"))
		gt.Error(t, err)
		gt.False(t, exists(filepath.Join(dir, "out.dll")))
	})

	t.Run("directory source", func(t *testing.T) {
		err := bundler.CopyFile(dir, filepath.Join(dir, "out.dll"))
		gt.Error(t, err)
	})

	t.Run("same file is refused and left intact", func(t *testing.T) {
		err := bundler.CopyFile(src, src)
		gt.Error(t, err)
		gt.True(t, errors.Is(err, bundler.ErrSameFile))
		got, err := os.ReadFile(src)
		gt.NoError(t, err)
		gt.Equal(t, got, payload)
	})

	t.Run("same file through a hard link", func(t *testing.T) {
		link := filepath.Join(dir, "link.dll")
		if err := os.Link(src, link); err != nil {
			t.Skipf("hard links not supported: %v", err)
		}
		err := bundler.CopyFile(src, link)
		gt.True(t, errors.Is(err, bundler.ErrSameFile))
		got, err := os.ReadFile(src)
		gt.NoError(t, err)
		gt.Equal(t, got, payload)
	})

	t.Run("unwritable destination", func(t *testing.T) {
		err := bundler.CopyFile(src, filepath.Join(dir, "no", "such", "dir", "x.dll"))
		gt.Error(t, err)
	})
}
