package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/ledmatrix/scoreboard/internal/platform/logging"
)

// Simulator mirrors renderer.py's flush() sim branch: every call to
// Flush overwrites a single "frame.png", and every 100th call additionally
// writes a timestamped "frame_{seq:06}.png" snapshot for later inspection,
// per spec.md §4.9.
type Simulator struct {
	dir    string
	buf    *image.RGBA
	logger *logging.Logger
	seq    uint64
}

const snapshotEvery = 100

// NewSimulator creates the output directory (mirroring render.py's
// Path("out").mkdir(parents=True, exist_ok=True)) and allocates a buffer
// sized width x height.
func NewSimulator(dir string, width, height int, logger *logging.Logger) (*Simulator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "display: create simulator output dir %q", dir)
	}
	return &Simulator{
		dir:    dir,
		buf:    image.NewRGBA(image.Rect(0, 0, width, height)),
		logger: logger,
	}, nil
}

func (s *Simulator) Buffer() *image.RGBA { return s.buf }

func (s *Simulator) Flush() error {
	s.seq++
	if err := s.writePNG(filepath.Join(s.dir, "frame.png")); err != nil {
		return err
	}
	if s.seq%snapshotEvery == 0 {
		name := filepath.Join(s.dir, snapshotName(s.seq))
		if err := s.writePNG(name); err != nil {
			s.logger.Warn("simulator: snapshot write failed", "path", name, "error", err)
		}
	}
	return nil
}

func (s *Simulator) writePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "display: create %q", path)
	}
	defer f.Close()
	if err := png.Encode(f, s.buf); err != nil {
		return errors.Wrapf(err, "display: encode %q", path)
	}
	return nil
}

func (s *Simulator) Close() error { return nil }

func snapshotName(seq uint64) string {
	return fmt.Sprintf("frame_%06d.png", seq)
}
