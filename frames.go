/*
Package frames is a library for cutting individual animation frames out of a
sprite sheet.

Each configured region is cropped from the top of the sheet, resized to a
square frame and written as a PNG. Every frame is written twice, once as a
walk frame and once as an identical idle frame.
*/
package frames

import (
	"bytes"
	"crypto/sha1"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/bodgit/frames/palette"
	"github.com/disintegration/imaging"
)

// Kind identifies which animation an artifact belongs to
type Kind int

const (
	// Walk frames are rendered from the sprite sheet
	Walk Kind = iota
	// Idle frames are copies of the walk frame with the same index
	Idle
)

func (k Kind) String() string {
	switch k {
	case Walk:
		return "walk"
	case Idle:
		return "idle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ParseKind is the inverse of Kind.String
func ParseKind(s string) (Kind, error) {
	switch s {
	case "walk":
		return Walk, nil
	case "idle":
		return Idle, nil
	}
	return 0, fmt.Errorf("unknown kind %q", s)
}

// Filename returns the name of the file holding frame idx
func (k Kind) Filename(idx int) string {
	return fmt.Sprintf("%s-%d.png", k, idx)
}

// Artifact is a single file written by a run
type Artifact struct {
	Kind   Kind
	Region Region
	Path   string
	SHA1   string
}

// An Option configures an Extractor
type Option func(*Extractor)

// WithRecorder passes every written artifact to r
func WithRecorder(r Recorder) Option {
	return func(e *Extractor) {
		e.recorder = r
	}
}

// Extractor runs a single extraction plan
type Extractor struct {
	cfg      Config
	logger   *log.Logger
	recorder Recorder
	encoder  png.Encoder
}

// New returns an Extractor for the validated configuration. A nil logger
// discards all progress output.
func New(cfg Config, logger *log.Logger, opts ...Option) (*Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = log.New(ioutil.Discard, "", 0)
	}

	e := &Extractor{
		cfg:     cfg,
		logger:  logger,
		encoder: png.Encoder{CompressionLevel: png.DefaultCompression},
	}
	for _, o := range opts {
		o(e)
	}

	return e, nil
}

// A source that exists but cannot be opened, such as one without read
// permission, is treated as undecodable
func (e *Extractor) load() (image.Image, error) {
	f, err := os.Open(e.cfg.Source)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, e.cfg.Source)
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, e.cfg.Source, err)
	}
	defer f.Close()

	m, err := imaging.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, e.cfg.Source, err)
	}

	return m, nil
}

func (e *Extractor) checkBounds(b image.Rectangle) error {
	for _, r := range e.cfg.Regions {
		if rect := r.Rect(e.cfg.Height).Add(b.Min); !rect.In(b) {
			return fmt.Errorf("%w: region %d %v does not fit in %dx%d sheet", ErrOutOfBounds, r.Index, r.Rect(e.cfg.Height), b.Dx(), b.Dy())
		}
	}
	return nil
}

func (e *Extractor) render(m image.Image, r Region) ([]byte, error) {
	b := m.Bounds()

	var frame image.Image = imaging.Resize(imaging.Crop(m, r.Rect(e.cfg.Height).Add(b.Min)), e.cfg.Size, e.cfg.Size, imaging.Lanczos)

	if e.cfg.Colors > 0 {
		pm, err := palette.Reduce(frame, e.cfg.Colors)
		if err != nil {
			return nil, err
		}
		frame = pm
	}

	buf := new(bytes.Buffer)
	if err := e.encoder.Encode(buf, frame); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func writeFile(file string, b []byte) (err error) {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	_, err = f.Write(b)
	return err
}

// Copy src to dst, keeping the modification time of src
func copyFile(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		out.Close()
		return err
	}

	if err = out.Close(); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func (e *Extractor) record(a Artifact) error {
	if e.recorder == nil {
		return nil
	}
	return e.recorder.Record(a)
}

func (e *Extractor) extract(m image.Image, r Region) ([]Artifact, error) {
	b, err := e.render(m, r)
	if err != nil {
		return nil, err
	}
	sha := fmt.Sprintf("%X", sha1.Sum(b))

	walk := Artifact{
		Kind:   Walk,
		Region: r,
		Path:   filepath.Join(e.cfg.Output, Walk.Filename(r.Index)),
		SHA1:   sha,
	}
	if err := writeFile(walk.Path, b); err != nil {
		return nil, err
	}
	if err := e.record(walk); err != nil {
		return nil, err
	}
	e.logger.Printf("Extracted %s: x=%d to x=%d (width: %dpx)\n", filepath.Base(walk.Path), r.Left, r.Right, r.Width())

	idle := walk
	idle.Kind = Idle
	idle.Path = filepath.Join(e.cfg.Output, Idle.Filename(r.Index))
	if err := copyFile(walk.Path, idle.Path); err != nil {
		return nil, err
	}
	if err := e.record(idle); err != nil {
		return nil, err
	}
	e.logger.Printf("  Copied to %s\n", filepath.Base(idle.Path))

	return []Artifact{walk, idle}, nil
}

// Run performs the extraction. The source is decoded and every region
// checked against it before anything is written. A failure on any region
// stops the run; frames already written are left in place.
func (e *Extractor) Run() ([]Artifact, error) {
	m, err := e.load()
	if err != nil {
		return nil, err
	}
	b := m.Bounds()
	e.logger.Printf("Loaded sprite sheet: %dx%d\n", b.Dx(), b.Dy())

	if err := e.checkBounds(b); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.cfg.Output, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWrite, err)
	}

	artifacts := make([]Artifact, 0, 2*len(e.cfg.Regions))
	for _, r := range e.cfg.Regions {
		a, err := e.extract(m, r)
		if err != nil {
			return artifacts, fmt.Errorf("%w: frame %d: %v", ErrWrite, r.Index, err)
		}
		artifacts = append(artifacts, a...)
	}

	e.logger.Printf("Extracted %d frames to %s\n", len(e.cfg.Regions), e.cfg.Output)

	return artifacts, nil
}
