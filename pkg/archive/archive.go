package archive

import (
	"archive/tar"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	errs "themedl/pkg/errors"
)

// Pack writes a tar archive of every file and directory below sourceDir.
// Entry names are slash-separated and relative to sourceDir, visited in
// lexical order so the same tree always yields the same entry sequence.
// It returns the number of regular files packed.
func Pack(sourceDir, archivePath string) (int, error) {
	info, err := os.Stat(sourceDir)
	if err != nil {
		return 0, errs.Wrap(errs.ErrorTypeArchive, err, "cannot read source directory")
	}
	if !info.IsDir() {
		return 0, errs.New(errs.ErrorTypeArchive, fmt.Sprintf("%s is not a directory", sourceDir))
	}

	tempFile := archivePath + ".tmp"
	out, err := os.Create(tempFile)
	if err != nil {
		return 0, errs.Wrap(errs.ErrorTypeArchive, err, "cannot create archive")
	}

	files, err := writeTree(out, sourceDir)
	closeErr := out.Close()

	if err != nil {
		os.Remove(tempFile)
		return 0, errs.Wrap(errs.ErrorTypeArchive, err, "failed to pack theme")
	}
	if closeErr != nil {
		os.Remove(tempFile)
		return 0, errs.Wrap(errs.ErrorTypeArchive, closeErr, "failed to close archive")
	}

	if err := os.Rename(tempFile, archivePath); err != nil {
		os.Remove(tempFile)
		return 0, errs.Wrap(errs.ErrorTypeArchive, err, "failed to move archive into place")
	}

	return files, nil
}

func writeTree(w io.Writer, sourceDir string) (int, error) {
	tw := tar.NewWriter(w)
	files := 0

	err := filepath.WalkDir(sourceDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(sourceDir, p)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() && !info.IsDir() {
			return nil
		}

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}

		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		if err := copyFile(tw, p); err != nil {
			return fmt.Errorf("%s: %w", hdr.Name, err)
		}
		files++
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := tw.Close(); err != nil {
		return 0, err
	}
	return files, nil
}

func copyFile(w io.Writer, name string) error {
	f, err := os.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()
	_, err = io.Copy(w, f)
	return err
}

// Entry is one member of an archive
type Entry struct {
	Name  string
	Size  int64
	IsDir bool
}

// List returns the entries of an archive in stored order
func List(archivePath string) ([]Entry, error) {
	f, err := os.Open(archivePath)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeArchive, err, "cannot open archive")
	}
	defer f.Close()

	var entries []Entry
	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errs.Wrap(errs.ErrorTypeArchive, err, "corrupt archive")
		}
		entries = append(entries, Entry{
			Name:  hdr.Name,
			Size:  hdr.Size,
			IsDir: hdr.Typeflag == tar.TypeDir,
		})
	}
	return entries, nil
}

// Extract unpacks an archive into destDir. Entries that would land outside
// destDir are refused.
func Extract(archivePath, destDir string) error {
	f, err := os.Open(archivePath)
	if err != nil {
		return errs.Wrap(errs.ErrorTypeArchive, err, "cannot open archive")
	}
	defer f.Close()

	tr := tar.NewReader(f)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errs.Wrap(errs.ErrorTypeArchive, err, "corrupt archive")
		}

		name := path.Clean(hdr.Name)
		if path.IsAbs(name) || name == ".." || strings.HasPrefix(name, "../") {
			return errs.New(errs.ErrorTypeArchive, fmt.Sprintf("entry %q escapes the destination", hdr.Name))
		}
		target := filepath.Join(destDir, filepath.FromSlash(name))

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0777); err != nil {
				return errs.Wrap(errs.ErrorTypeArchive, err, "cannot create directory")
			}
		case tar.TypeReg:
			if err := extractFile(tr, target, hdr.FileInfo().Mode().Perm()); err != nil {
				return errs.Wrap(errs.ErrorTypeArchive, err, fmt.Sprintf("cannot extract %s", hdr.Name))
			}
		}
	}
}

func extractFile(r io.Reader, target string, mode fs.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0777); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	_, err = io.Copy(out, r)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return err
}
