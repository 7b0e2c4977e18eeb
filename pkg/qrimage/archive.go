package qrimage

import (
	"archive/zip"
	"fmt"
	"os"
	"path/filepath"
)

// MaxImagesPerPart is the cap on images packed into a single ZIP part.
// Large runs roll over into numbered parts so no single archive becomes
// unmanageable.
const MaxImagesPerPart = 50000

// ArchiveSplitter packs files into ZIP archives, rolling over to a new
// numbered part once a part reaches its image cap.
type ArchiveSplitter struct {
	dir        string
	baseName   string
	maxPerPart int

	part    int
	count   int
	file    *os.File
	writer  *zip.Writer
	created []string
}

// NewArchiveSplitter creates a splitter writing parts named
// "<baseName>_partN.zip" under dir. maxPerPart <= 0 uses MaxImagesPerPart.
func NewArchiveSplitter(dir, baseName string, maxPerPart int) *ArchiveSplitter {
	if maxPerPart <= 0 {
		maxPerPart = MaxImagesPerPart
	}
	return &ArchiveSplitter{
		dir:        dir,
		baseName:   baseName,
		maxPerPart: maxPerPart,
	}
}

// Add writes one file into the current part, opening a new part if needed
func (s *ArchiveSplitter) Add(name string, data []byte) error {
	if s.writer == nil || s.count >= s.maxPerPart {
		if err := s.rotate(); err != nil {
			return err
		}
	}

	w, err := s.writer.Create(name)
	if err != nil {
		return fmt.Errorf("failed to add %s to archive: %w", name, err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s to archive: %w", name, err)
	}

	s.count++
	return nil
}

// Close finalizes the open part and returns the paths of all parts written
func (s *ArchiveSplitter) Close() ([]string, error) {
	if err := s.closeCurrent(); err != nil {
		return nil, err
	}
	return s.created, nil
}

func (s *ArchiveSplitter) rotate() error {
	if err := s.closeCurrent(); err != nil {
		return err
	}

	s.part++
	path := filepath.Join(s.dir, fmt.Sprintf("%s_part%d.zip", s.baseName, s.part))

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create archive part: %w", err)
	}

	s.file = f
	s.writer = zip.NewWriter(f)
	s.count = 0
	s.created = append(s.created, path)
	return nil
}

func (s *ArchiveSplitter) closeCurrent() error {
	if s.writer == nil {
		return nil
	}
	if err := s.writer.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("failed to finalize archive part: %w", err)
	}
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("failed to close archive part: %w", err)
	}
	s.writer = nil
	s.file = nil
	return nil
}
